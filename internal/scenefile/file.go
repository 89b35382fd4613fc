// Package scenefile loads and saves scene graphs as canonical documents,
// in JSON or YAML.
package scenefile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fbx2json/internal/export"
	"fbx2json/internal/scene"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// JSONIndent is the indentation Save uses for JSON documents.
const JSONIndent = 4

// FormatFor derives the format from the file extension of path.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("scenefile: cannot derive format from %q", path)
	}
}

// Load reads the scene graph stored at path.
func Load(path string) (*scene.Scene, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: read %s: %w", path, err)
	}
	doc, err := Unmarshal(data, format)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %s: %w", path, err)
	}
	s, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %s: %w", path, err)
	}
	return s, nil
}

// Unmarshal decodes a document in the given format.
func Unmarshal(data []byte, format string) (*export.Document, error) {
	switch format {
	case FormatJSON:
		return export.Decode(bytes.NewReader(data))
	case FormatYAML:
		var doc export.Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		return &doc, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Save writes s to path. An empty format is derived from the extension.
// The documents carry no media, so embedMedia has no effect.
func Save(s *scene.Scene, path, format string, embedMedia bool) error {
	if format == "" {
		var err error
		if format, err = FormatFor(path); err != nil {
			return err
		}
	}

	data, err := Marshal(&export.Document{RootNode: export.ExportScene(s)}, format, JSONIndent)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// Marshal encodes doc in format. indent applies to JSON only; 0 is compact.
func Marshal(doc *export.Document, format string, indent int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := export.Encode(&buf, doc, indent); err != nil {
			return nil, err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("scenefile: yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("scenefile: yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("scenefile: unknown format %q", format)
	}
	return buf.Bytes(), nil
}

// WriteDocument encodes doc and writes it to path, creating parent
// directories.
func WriteDocument(doc *export.Document, path, format string, indent int) error {
	data, err := Marshal(doc, format, indent)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("scenefile: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("scenefile: write %s: %w", path, err)
	}
	return nil
}
