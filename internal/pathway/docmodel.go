package pathway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const docSchemaVersion = "v0.1.0"

// Document is the serialized form of a session's pathway state. Exports are
// validated against an embedded JSON schema on both save and load so a
// hand-edited file cannot smuggle a malformed hierarchy back in.
type Document struct {
	SchemaVersion string     `json:"schema_version"`
	GeneratedAt   string     `json:"generated_at"`
	Current       *Pathway   `json:"current"`
	Past          []*Pathway `json:"past,omitempty"`
}

const docSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["schema_version", "current"],
  "properties": {
    "schema_version": {"type": "string", "minLength": 1},
    "generated_at": {"type": "string"},
    "current": {"$ref": "#/$defs/pathway"},
    "past": {"type": "array", "items": {"$ref": "#/$defs/pathway"}}
  },
  "$defs": {
    "pathway": {
      "type": "object",
      "required": ["pathway_name", "sections"],
      "properties": {
        "pathway_name": {"type": "string", "minLength": 1},
        "sections": {"type": "array", "items": {"$ref": "#/$defs/section"}}
      }
    },
    "section": {
      "type": "object",
      "required": ["title", "modules"],
      "properties": {
        "title": {"type": "string", "minLength": 1},
        "modules": {"type": "array", "items": {"$ref": "#/$defs/module"}}
      }
    },
    "module": {
      "type": "object",
      "required": ["title", "content"],
      "properties": {
        "id": {"type": "string"},
        "title": {"type": "string", "minLength": 1},
        "description": {"type": "string"},
        "content": {"type": "string"},
        "source": {"type": "array", "items": {"type": "string"}},
        "key_points": {"type": "array", "items": {"type": "string"}},
        "content_types": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("pathway_document.schema.json", docSchema)
	})
	return compiledSchema, schemaErr
}

// NewDocument snapshots a pathway set into its serialized form.
func NewDocument(set *Set) *Document {
	return &Document{
		SchemaVersion: docSchemaVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Current:       set.Current,
		Past:          set.Past,
	}
}

func validateDocument(raw []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return fmt.Errorf("failed to compile pathway document schema: %w", err)
	}
	var instance any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return err
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("pathway document failed schema validation: %w", err)
	}
	return nil
}

// SaveDocument writes a schema-validated JSON export of the pathway set. The
// set is normalized first so nil slices serialize as the arrays the schema
// expects.
func SaveDocument(path string, set *Set) error {
	set.Normalize()
	doc := NewDocument(set)
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := validateDocument(b); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0644)
}

// LoadDocument reads and validates an exported pathway set.
func LoadDocument(path string) (*Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(b); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	set := &Set{Current: doc.Current, Past: doc.Past}
	set.Normalize()
	return set, nil
}
