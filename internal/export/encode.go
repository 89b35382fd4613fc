package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Encode writes doc to w as UTF-8 JSON. indent > 0 pretty-prints with that
// many spaces per level.
func Encode(w io.Writer, doc *Document, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return nil
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("export: decode: %w", err)
	}
	return &doc, nil
}
