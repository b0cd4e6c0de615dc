package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldMap names the datastore columns the job reads from each record. The
// defaults match the production table; a deployment against a differently
// named table can override them with a small YAML file.
type FieldMap struct {
	Address string `yaml:"address"`
	Dong    string `yaml:"dong"`
	Ho      string `yaml:"ho"`
}

// DefaultFieldMap returns the production column names.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		Address: "지번 주소",
		Dong:    "동",
		Ho:      "호수",
	}
}

// LoadFieldMap loads column-name overrides from path. An empty path or an
// unreadable file falls back to the defaults; a present file only overrides
// the keys it sets.
func LoadFieldMap(path string) FieldMap {
	fm := DefaultFieldMap()
	if path == "" {
		return fm
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[Warning] field map %s not loaded, using defaults: %v", path, err)
		return fm
	}

	var override FieldMap
	if err := yaml.Unmarshal(data, &override); err != nil {
		log.Printf("[Warning] field map %s is not valid YAML, using defaults: %v", path, err)
		return fm
	}

	if override.Address != "" {
		fm.Address = override.Address
	}
	if override.Dong != "" {
		fm.Dong = override.Dong
	}
	if override.Ho != "" {
		fm.Ho = override.Ho
	}
	return fm
}
