package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flex is a string that tolerates the government APIs' habit of returning
// the same field as a JSON string, a number, or null depending on the
// dataset revision. It decodes all three to the plain text form.
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex(s)
		return nil
	}
	*f = Flex(string(b))
	return nil
}

func (f Flex) String() string { return string(f) }

// Empty reports whether the field is absent or whitespace.
func (f Flex) Empty() bool { return strings.TrimSpace(string(f)) == "" }

// Float parses the field as a float. ok is false when the field is empty or
// not numeric; callers use it to distinguish "absent" from a real zero.
func (f Flex) Float() (float64, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int parses the field as an integer, returning 0 for anything unparseable.
// Mirrors how count fields are summed: garbage contributes nothing.
func (f Flex) Int() int {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f2, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return int(f2)
	}
	return v
}

// Or returns the field's text, or fallback when empty.
func (f Flex) Or(fallback string) string {
	if f.Empty() {
		return fallback
	}
	return string(f)
}
