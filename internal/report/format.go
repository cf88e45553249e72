// Package report renders tabular exports of tenant data and stores them in
// object storage.
package report

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed formats.yaml
var formatsYAML []byte

// Format describes one export encoding.
type Format struct {
	Name        string `yaml:"name" json:"name"`
	MIME        string `yaml:"mime" json:"mime"`
	Extension   string `yaml:"extension" json:"extension"`
	Description string `yaml:"description" json:"description"`
}

type formatFile struct {
	Formats []Format `yaml:"formats"`
}

var formats = mustLoadFormats(formatsYAML)

func mustLoadFormats(raw []byte) map[string]Format {
	m, err := loadFormats(raw)
	if err != nil {
		panic(err)
	}
	return m
}

func loadFormats(raw []byte) (map[string]Format, error) {
	var f formatFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse report formats: %w", err)
	}
	m := make(map[string]Format, len(f.Formats))
	for _, fm := range f.Formats {
		if fm.Name == "" || fm.MIME == "" || fm.Extension == "" {
			return nil, fmt.Errorf("parse report formats: incomplete entry %q", fm.Name)
		}
		m[fm.Name] = fm
	}
	return m, nil
}

// Lookup returns the declared format with the given name.
func Lookup(name string) (Format, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return Format{}, fmt.Errorf("unsupported report format %q", name)
	}
	return f, nil
}

// Formats lists every declared format ordered by name.
func Formats() []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
