package report

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultHonorific prefix written before title-cased names on official documents
const DefaultHonorific = "Ing."

// honorifics recognised at the start of a stored name, compared lower-case without the trailing dot
var honorifics = map[string]bool{
	"ing":  true,
	"lic":  true,
	"dr":   true,
	"dra":  true,
	"msc":  true,
	"mgs":  true,
	"mg":   true,
	"phd":  true,
	"tlgo": true,
	"tlga": true,
	"arq":  true,
	"abg":  true,
	"econ": true,
	"sr":   true,
	"sra":  true,
}

// CleanName trims and collapses internal whitespace to single spaces
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// StripHonorific drops one leading academic or courtesy prefix such as "Ing." or "MSc."
func StripHonorific(name string) string {
	fields := strings.Fields(name)
	if len(fields) > 1 {
		first := strings.TrimSuffix(strings.ToLower(fields[0]), ".")
		if honorifics[first] {
			fields = fields[1:]
		}
	}
	return strings.Join(fields, " ")
}

// UpperName upper-cases the whole name, without any honorific
func UpperName(name string) string {
	return strings.ToUpper(StripHonorific(name))
}

// TitleName title-cases every token of the name and prefixes the fixed honorific.
// An empty honorific yields the bare title-cased name.
func TitleName(name, honorific string) string {
	fields := strings.Fields(StripHonorific(name))
	for i, f := range fields {
		fields[i] = titleToken(f)
	}
	out := strings.Join(fields, " ")
	if honorific == "" || out == "" {
		return out
	}
	return honorific + " " + out
}

func titleToken(token string) string {
	lower := strings.ToLower(token)
	r, size := utf8.DecodeRuneInString(lower)
	if r == utf8.RuneError {
		return lower
	}
	return string(unicode.ToUpper(r)) + lower[size:]
}
