package report

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Career identifier and display label
type Career struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Period identifier and display label
type Period struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// RosterEntry one teacher with its representative assignment (distributivo)
type RosterEntry struct {
	AssignmentID string `json:"assignment_id"`
	TeacherID    string `json:"teacher_id"`
	FullName     string `json:"full_name"`
}

// ResolveRoster keeps one entry per teacher (the lowest assignment id) and orders
// the result by cleaned full name in Spanish collation, ignoring case, with teacher
// id as tie-break. Accented vowels sort with their base letter and Ñ follows N.
// The input slice is not modified.
func ResolveRoster(entries []RosterEntry) []RosterEntry {
	byTeacher := make(map[string]RosterEntry, len(entries))
	for _, e := range entries {
		e.FullName = CleanName(e.FullName)
		cur, ok := byTeacher[e.TeacherID]
		if !ok || lessID(e.AssignmentID, cur.AssignmentID) {
			byTeacher[e.TeacherID] = e
		}
	}

	out := make([]RosterEntry, 0, len(byTeacher))
	for _, e := range byTeacher {
		out = append(out, e)
	}
	// a Collator is not safe for concurrent use
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.Slice(out, func(i, j int) bool {
		if c := col.CompareString(out[i].FullName, out[j].FullName); c != 0 {
			return c < 0
		}
		return lessID(out[i].TeacherID, out[j].TeacherID)
	})
	return out
}

// lessID compares identifiers numerically when both are integers, lexically otherwise
func lessID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
