package report

import "fmt"

// DefaultOfficePrefix institution code at the head of every office number
const DefaultOfficePrefix = "ISTLA-VR"

// OfficeNumber builds the official letter number for one teacher, e.g. ISTLA-VR-2025-100-O
func OfficeNumber(prefix string, year, number int) string {
	if prefix == "" {
		prefix = DefaultOfficePrefix
	}
	return fmt.Sprintf("%s-%d-%d-O", prefix, year, number)
}

// OfficeNumbers numbers n roster positions consecutively from start
func OfficeNumbers(prefix string, year, start, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = OfficeNumber(prefix, year, start+i)
	}
	return out
}
