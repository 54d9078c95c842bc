// Package output renders computed manifests and records.
package output

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"co2js-plugin/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatYAML mirrors the manifest layout
	FormatYAML Format = "yaml"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes v to w
	Render(w io.Writer, v interface{}) error
}

// ParseFormat resolves a user supplied format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Newf(errors.TypeNotSupported, "unsupported output format %q", name)
	}
}

// Get returns the formatter for a format
func Get(format Format) (Formatter, error) {
	switch format {
	case FormatYAML:
		return yamlFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	default:
		return nil, errors.Newf(errors.TypeNotSupported, "unsupported output format %q", format)
	}
}

type yamlFormatter struct{}

func (yamlFormatter) Format() Format { return FormatYAML }

func (yamlFormatter) Render(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Internal("cannot render YAML", err)
	}
	return enc.Close()
}

type jsonFormatter struct{}

func (jsonFormatter) Format() Format { return FormatJSON }

func (jsonFormatter) Render(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Internal("cannot render JSON", err)
	}
	return nil
}
