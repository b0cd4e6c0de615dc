package match

import (
	"reflect"
	"testing"
)

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"201호", "201"},
		{"201", "201"},
		{"1층201호", "201"},
		{"B101호", "101"},
		{"지하101호", "101"},
		{"", ""},
		{"호", ""},
	}

	for _, tt := range tests {
		if got := NormalizeUnit(tt.input); got != tt.want {
			t.Errorf("NormalizeUnit(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeUnitIdempotent(t *testing.T) {
	for _, in := range []string{"201호", "1층201호", "201", "B1-03호"} {
		once := NormalizeUnit(in)
		if twice := NormalizeUnit(once); twice != once {
			t.Errorf("NormalizeUnit not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestHoEquals(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		candidate string
		want      bool
	}{
		{"identical", "201호", "201호", true},
		{"marker vs bare digits", "201호", "201", true},
		{"floor prefix on candidate", "201", "1층201호", true},
		{"floor prefix on input", "1층201호", "201호", true},
		{"different unit", "201호", "202호", false},
		{"blank input never matches", "", "201호", false},
		{"whitespace input never matches", "  ", "201호", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HoEquals(tt.input, tt.candidate); got != tt.want {
				t.Errorf("HoEquals(%q, %q) = %v, want %v", tt.input, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestDongEquals(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		candidate string
		want      bool
	}{
		{"blank input is a wildcard", "", "102동", true},
		{"marker vs bare digits", "102동", "102", true},
		{"bare digits vs marker", "102", "102동", true},
		{"different dong", "102동", "103동", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DongEquals(tt.input, tt.candidate); got != tt.want {
				t.Errorf("DongEquals(%q, %q) = %v, want %v", tt.input, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestDongVariants(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"102동", []string{"102동", "102"}},
		{"102", []string{"102"}},
		{"A동", []string{"A동", "A"}},
		{"", []string{""}},
		{"  102동 ", []string{"102동", "102"}},
	}

	for _, tt := range tests {
		if got := DongVariants(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DongVariants(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHoVariants(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"201호", []string{"201호", "201"}},
		{"1층201호", []string{"1층201호", "201", "1층201"}},
		{"201", []string{"201"}},
		{"", []string{""}},
	}

	for _, tt := range tests {
		if got := HoVariants(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("HoVariants(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
