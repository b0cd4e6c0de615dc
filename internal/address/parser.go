// Package address turns free-text 지번 parcel addresses into structured
// jurisdiction and parcel-number fields, and derives the canonical PNU
// parcel identifier from resolved codes. Everything here is pure; no I/O.
package address

import (
	"regexp"
	"strings"

	"multi-unit-enrichment/internal/models"
	apperrors "multi-unit-enrichment/pkg/errors"
)

var (
	// Collapses runs of whitespace so the jurisdiction patterns can rely
	// on single spaces.
	multiSpace = regexp.MustCompile(`\s+`)

	// A building designator sandwiched inside the address, e.g.
	// "강남구 역삼동 102동 7-3" or "… A동 …". Removed before parsing.
	embeddedDong = regexp.MustCompile(`\s+[A-Z]*\d*동\s+`)

	// <jurisdiction><division><main>-<sub>; jurisdiction ends in 구/시/군.
	withSub = regexp.MustCompile(`^(\S+구|\S+시|\S+군)\s+(\S+)\s+(\d+)-(\d+)$`)

	// Same without a sub-number.
	withoutSub = regexp.MustCompile(`^(\S+구|\S+시|\S+군)\s+(\S+)\s+(\d+)$`)
)

// Parse extracts jurisdiction, division and parcel numbers from a raw
// address. It is total: any string input yields either a ParsedAddress or a
// tagged error carrying the offending text.
func Parse(raw string) (models.ParsedAddress, error) {
	if strings.TrimSpace(raw) == "" {
		display := raw
		if display == "" {
			display = "<empty>"
		}
		return models.ParsedAddress{}, apperrors.NewValidation("address.Parse", "address is missing: "+display, nil)
	}

	addr := multiSpace.ReplaceAllString(strings.TrimSpace(raw), " ")
	addr = embeddedDong.ReplaceAllString(addr, " ")

	if m := withSub.FindStringSubmatch(addr); m != nil {
		return models.ParsedAddress{
			Sigungu: m[1],
			Bjdong:  m[2],
			Bun:     pad4(m[3]),
			Ji:      pad4(m[4]),
		}, nil
	}

	if m := withoutSub.FindStringSubmatch(addr); m != nil {
		return models.ParsedAddress{
			Sigungu: m[1],
			Bjdong:  m[2],
			Bun:     pad4(m[3]),
			Ji:      "0000",
		}, nil
	}

	return models.ParsedAddress{}, apperrors.NewValidation("address.Parse", "unrecognized address format: "+addr, nil)
}

// PNU concatenates jurisdiction code, division code, the land-category
// digit "1", and the padded parcel numbers into the canonical parcel
// identifier. It returns "" when any required field is absent; callers skip
// PNU-keyed lookups in that case rather than failing the record.
func PNU(c models.ResolvedCodes) string {
	if c.SigunguCode == "" || c.BjdongCode == "" || c.Bun == "" || c.Ji == "" {
		return ""
	}
	return c.SigunguCode + c.BjdongCode + "1" + c.Bun + c.Ji
}

func pad4(s string) string {
	if len(s) >= 4 {
		return s
	}
	return strings.Repeat("0", 4-len(s)) + s
}
