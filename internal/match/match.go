// Package match normalizes and compares building (동) and unit (호)
// designators. The government APIs store them inconsistently — "102동" vs
// "102", "201호" vs "1층201호" — and their server-side filters are exact
// string matches, so callers both compare normalized forms and retry
// queries with a sequence of designator variants.
package match

import (
	"regexp"
	"strings"
)

var (
	nonDigits  = regexp.MustCompile(`[^0-9]`)
	trailingHo = regexp.MustCompile(`(\d+)호$`)
)

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// NormalizeUnit reduces a unit designator to its number. A trailing "N호"
// wins over a plain digit extraction so "1층201호" normalizes to "201", not
// "1201". Already-normalized digit strings pass through unchanged.
func NormalizeUnit(s string) string {
	if m := trailingHo.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return Digits(s)
}

// DongEquals reports whether the record's dong matches a candidate from an
// API response. A blank input dong is a wildcard: the record did not
// constrain the building, so anything matches.
func DongEquals(input, candidate string) bool {
	if strings.TrimSpace(input) == "" {
		return true
	}
	return Digits(input) == Digits(candidate)
}

// HoEquals reports whether the record's ho matches a candidate. Unlike dong,
// ho is a required designator: a blank input never matches.
func HoEquals(input, candidate string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}
	return NormalizeUnit(input) == NormalizeUnit(candidate)
}

// DongVariants returns the ordered designator spellings to try against an
// exact-match upstream filter: the raw trimmed value, the digits-only form,
// and the value with its trailing 동 marker dropped. Duplicates are removed;
// a blank designator yields a single blank variant.
func DongVariants(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []string{""}
	}
	return dedup([]string{
		trimmed,
		Digits(trimmed),
		strings.TrimSuffix(trimmed, "동"),
	})
}

// HoVariants is DongVariants for unit designators, using NormalizeUnit for
// the numeric form and dropping a trailing 호 marker.
func HoVariants(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []string{""}
	}
	return dedup([]string{
		trimmed,
		NormalizeUnit(trimmed),
		strings.TrimSuffix(trimmed, "호"),
	})
}

func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
