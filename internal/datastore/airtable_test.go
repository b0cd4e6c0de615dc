package datastore

import (
	"errors"
	"testing"

	apperrors "multi-unit-enrichment/pkg/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		wantSchema bool
	}{
		{
			name:       "unknown field",
			msg:        `422 Unprocessable Entity: Unknown field name: "주택가격(만원)"`,
			wantSchema: true,
		},
		{
			name:       "missing field variant",
			msg:        `Table Units does not have a field named 대지지분`,
			wantSchema: true,
		},
		{
			name:       "column rejects value type",
			msg:        `422 Unprocessable Entity: INVALID_VALUE_FOR_COLUMN: Field "해당동 총층수" cannot accept the provided value`,
			wantSchema: true,
		},
		{
			name:       "rate limited",
			msg:        "429 Too Many Requests",
			wantSchema: false,
		},
		{
			name:       "server error",
			msg:        "503 Service Unavailable",
			wantSchema: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("datastore.Update", errors.New(tt.msg))
			if got := apperrors.IsSchema(err); got != tt.wantSchema {
				t.Fatalf("IsSchema(%q) = %v, want %v", tt.msg, got, tt.wantSchema)
			}
			if got := apperrors.Permanent(err); got != tt.wantSchema {
				t.Errorf("Permanent(%q) = %v, want %v", tt.msg, got, tt.wantSchema)
			}
		})
	}
}

func TestFieldText(t *testing.T) {
	fields := map[string]any{
		"지번 주소": " 서울특별시 강남구 역삼동 123-45 ",
		"동":     float64(102),
		"호수":    "201호",
		"면적":    84.5,
		"빈칸":    nil,
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"trims text", "지번 주소", "서울특별시 강남구 역삼동 123-45"},
		{"whole number renders without decimal", "동", "102"},
		{"string passes through", "호수", "201호"},
		{"fractional number keeps fraction", "면적", "84.5"},
		{"nil cell is empty", "빈칸", ""},
		{"absent cell is empty", "없음", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fieldText(fields, tt.key); got != tt.want {
				t.Errorf("fieldText(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
