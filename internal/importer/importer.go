// Package importer loads bilingual phrase files into phrase lists.
//
// A phrase file names its group and lists front/back pairs:
//
//	group: Dutch basics
//	phrases:
//	  - front: goedemorgen
//	    back: good morning
//
// JSON and YAML are accepted. Every file is checked against an embedded JSON
// Schema before it is converted.
package importer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed phrases.schema.json
var schemaJSON []byte

const schemaURL = "schema://phrasely/phrases.json"

// ErrInvalidFile is returned for files that fail to parse or validate.
var ErrInvalidFile = errors.New("importer: invalid phrase file")

// Format is a phrase file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Phrase is one front/back pair.
type Phrase struct {
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

// File is a decoded phrase file.
type File struct {
	Group       string   `json:"group" yaml:"group"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Phrases     []Phrase `json:"phrases" yaml:"phrases"`
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", ErrInvalidFile, filepath.Ext(path))
	}
}

// Load reads and parses the phrase file at path.
func Load(path string) (File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read phrase file: %w", err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes, validates and normalizes a phrase file. Fronts and backs
// are trimmed; blank entries and duplicate fronts are rejected.
func Parse(data []byte, format Format) (File, error) {
	doc, err := decode(data, format)
	if err != nil {
		return File{}, err
	}

	schema, err := phraseSchema()
	if err != nil {
		return File{}, err
	}
	if err := schema.Validate(doc); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	// The document passed validation, so it round-trips into File.
	raw, err := json.Marshal(doc)
	if err != nil {
		return File{}, fmt.Errorf("re-encode phrase file: %w", err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return normalize(f)
}

// decode turns data into a generic JSON value. YAML is converted through
// JSON so both formats validate identically.
func decode(data []byte, format Format) (any, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		data = b
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidFile, format)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return doc, nil
}

func phraseSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse phrase schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add phrase schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

func normalize(f File) (File, error) {
	f.Group = strings.TrimSpace(f.Group)
	if f.Group == "" {
		return File{}, fmt.Errorf("%w: blank group name", ErrInvalidFile)
	}

	seen := make(map[string]int, len(f.Phrases))
	out := make([]Phrase, 0, len(f.Phrases))
	for i, p := range f.Phrases {
		p.Front = strings.TrimSpace(p.Front)
		p.Back = strings.TrimSpace(p.Back)
		if p.Front == "" || p.Back == "" {
			return File{}, fmt.Errorf("%w: phrase %d is blank", ErrInvalidFile, i+1)
		}
		key := Key(p.Front)
		if first, dup := seen[key]; dup {
			return File{}, fmt.Errorf("%w: phrase %d duplicates phrase %d (%q)", ErrInvalidFile, i+1, first+1, p.Front)
		}
		seen[key] = i
		out = append(out, p)
	}
	f.Phrases = out
	return f, nil
}

// Key folds case and whitespace so equivalent fronts compare equal.
func Key(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
