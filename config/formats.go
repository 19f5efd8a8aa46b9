package config

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed formats.yaml
var formatsYAML []byte

// Format describes one supported output container.
type Format struct {
	MIME string `yaml:"mime"`
	Kind string `yaml:"kind"` // video, audio, image
}

type formatsFile struct {
	Formats map[string]Format `yaml:"formats"`
}

var formats = mustLoadFormats()

func mustLoadFormats() map[string]Format {
	var f formatsFile
	if err := yaml.Unmarshal(formatsYAML, &f); err != nil {
		panic(fmt.Sprintf("config: bad formats.yaml: %v", err))
	}
	if len(f.Formats) == 0 {
		panic("config: formats.yaml declares no formats")
	}
	return f.Formats
}

// ContentType returns the MIME type for an output format. Unknown formats
// fall back to a generic byte stream so a response is never typeless.
func ContentType(format string) string {
	if f, ok := formats[format]; ok {
		return f.MIME
	}
	return "application/octet-stream"
}

// KnownFormat reports whether the format appears in the table.
func KnownFormat(format string) bool {
	_, ok := formats[format]
	return ok
}

// FormatsByKind returns the sorted format names of one kind.
func FormatsByKind(kind string) []string {
	var names []string
	for name, f := range formats {
		if f.Kind == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
