package termconfig

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names a serialization of the configuration document.
type Format string

const (
	// FormatYAML also covers JSON documents, which are valid YAML.
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml", "json":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported format %q", name)
	}
}

type loadOptions struct {
	strict bool
	source string
}

// Option configures Load and Parse.
type Option func(*loadOptions)

// WithStrict rejects unrecognized top-level keys instead of carrying them in Extra.
func WithStrict(strict bool) Option {
	return func(o *loadOptions) {
		o.strict = strict
	}
}

// WithSource names the document in MalformedDocument errors, typically its path.
func WithSource(name string) Option {
	return func(o *loadOptions) {
		o.source = name
	}
}

// Load validates doc against the schema and fills every omitted option with its default.
// All problems are collected; if any is found no Configuration is returned and the error
// can be split with Issues.
func Load(doc map[string]any, opts ...Option) (Configuration, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Defaults()
	var r report
	for _, key := range sortedKeys(doc) {
		raw := doc[key]
		idx, ok := schemaIndex[key]
		if !ok {
			if o.strict {
				r.unrecognized(key)
				continue
			}
			if cfg.Extra == nil {
				cfg.Extra = make(map[string]any)
			}
			cfg.Extra[key] = normalizeValue(raw)
			continue
		}
		schema[idx].apply(&cfg, raw, &r)
	}

	if r.failed() {
		return Configuration{}, r.err
	}
	return cfg, nil
}

// Parse decodes data in the given format and loads it. An empty document yields the defaults.
func Parse(data []byte, format Format, opts ...Option) (Configuration, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := decodeDocument(data, format)
	if err != nil {
		return Configuration{}, &MalformedDocumentError{Source: o.source, Err: err}
	}
	return Load(doc, opts...)
}

func decodeDocument(data []byte, format Format) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	switch format {
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
		return doc, nil
	case FormatYAML, "":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		if len(node.Content) == 0 {
			return map[string]any{}, nil
		}
		if root := node.Content[0]; root.Kind != yaml.MappingNode {
			return nil, errors.New("top level must be a mapping")
		}
		var doc map[string]any
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Marshal renders the configuration as a document in the given format.
func Marshal(cfg Configuration, format Format) ([]byte, error) {
	doc := cfg.Document()
	switch format {
	case FormatTOML:
		out, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode TOML: %w", err)
		}
		return out, nil
	case FormatYAML, "":
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode YAML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
