package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFieldMapDefaults(t *testing.T) {
	fm := LoadFieldMap("")
	if fm.Address != "지번 주소" || fm.Dong != "동" || fm.Ho != "호수" {
		t.Errorf("default field map = %+v", fm)
	}
}

func TestLoadFieldMapPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	if err := os.WriteFile(path, []byte("address: 주소\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fm := LoadFieldMap(path)
	if fm.Address != "주소" {
		t.Errorf("address = %q, want overridden value", fm.Address)
	}
	if fm.Dong != "동" || fm.Ho != "호수" {
		t.Errorf("unset keys should keep defaults, got %+v", fm)
	}
}

func TestLoadFieldMapMissingFileFallsBack(t *testing.T) {
	fm := LoadFieldMap("/nonexistent/fields.yaml")
	if fm != DefaultFieldMap() {
		t.Errorf("missing file should fall back to defaults, got %+v", fm)
	}
}

func TestLoadFieldMapBadYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	if err := os.WriteFile(path, []byte("address: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if fm := LoadFieldMap(path); fm != DefaultFieldMap() {
		t.Errorf("invalid YAML should fall back to defaults, got %+v", fm)
	}
}
