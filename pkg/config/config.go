// Package config loads render options and render data from JSON, YAML or
// TOML documents.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-handlebars/pkg/runtime"
)

// Options is the document shape read by LoadOptions:
//
//	compile:
//	  noEscape: true
//	runtime:
//	  data: {env: prod}
//	  allowedProtoMethods: {fullName: true}
type Options struct {
	Compile runtime.CompileOptions `json:"compile" yaml:"compile" toml:"compile"`
	Runtime runtime.RuntimeOptions `json:"runtime" yaml:"runtime" toml:"runtime"`
}

// Format selects a decoder.
type Format string

const (
	// FormatAuto tries JSON, then YAML.
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension. Unknown extensions
// fall back to FormatAuto.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatAuto
}

// LoadOptions reads an options document from path.
func LoadOptions(path string) (Options, error) {
	data, err := read(path)
	if err != nil {
		return Options{}, err
	}
	return ParseOptions(data, FormatFor(path), path)
}

// ParseOptions decodes an options document. source names the input in
// errors.
func ParseOptions(data []byte, format Format, source string) (Options, error) {
	var opts Options
	if err := decode(data, format, source, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadData reads a render context from path.
func LoadData(path string) (any, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	return ParseData(data, FormatFor(path), path)
}

// ParseData decodes a render context. Objects decode to map[string]any,
// arrays to []any.
func ParseData(data []byte, format Format, source string) (any, error) {
	if format == FormatTOML {
		var out map[string]any
		if err := decode(data, format, source, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var out any
	if err := decode(data, format, source, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func read(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("config: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return data, nil
}

func decode(data []byte, format Format, source string, out any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("config: file %s is empty", source)
	}

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("config: parse %s: %w", source, err)
		}
		return nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("config: parse %s: %w", source, err)
		}
		return nil
	case FormatTOML:
		if _, err := toml.Decode(string(data), out); err != nil {
			return fmt.Errorf("config: parse %s: %w", source, err)
		}
		return nil
	}

	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}
	if err := yaml.Unmarshal(data, out); err == nil {
		return nil
	}
	return fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}
