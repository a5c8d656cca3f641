// Package project reads and writes blueprint project documents.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"blueprint/internal/errors"
	"blueprint/internal/layer"
	"blueprint/internal/shape"
)

// Document is the persisted project.
type Document struct {
	Drawings    []shape.Record `json:"drawings"`
	Layers      layer.Snapshot `json:"layers"`
	Scale       string         `json:"scale"`
	GridVisible bool           `json:"gridVisible"`
	Zoom        float64        `json:"zoom"`
	GridSize    float64        `json:"gridSize,omitempty"`
}

// Parse decodes a document. Any decoding failure is reported as
// CodeInvalidFormat.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.NewInvalidFormat(fmt.Errorf("expected a JSON object"))
	}
	doc := &Document{}
	if err := json.Unmarshal(trimmed, doc); err != nil {
		return nil, errors.NewInvalidFormat(err)
	}
	return doc, nil
}

// Encode renders the document as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	if doc.Drawings == nil {
		doc.Drawings = []shape.Record{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// LoadFile reads and parses a project file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	return Parse(data)
}

// SaveFile writes the document to path, replacing it atomically.
func SaveFile(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}
