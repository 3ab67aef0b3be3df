// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema defines the declarative field schemas the extraction
// engine is driven by: ordered pattern sets per field, expected value
// kinds, repeatability, and nested child schemas. Schemas are validated at
// construction and immutable afterwards, so one schema value is safely
// shared by any number of concurrent extractions.
// See docs/ARCHITECTURE § Schemas.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/flora-engine/pkg/types"
)

// Schema is an ordered set of fields expected within one text segment.
// Field declaration order matters: within a field the first matching
// pattern wins, so more specific patterns belong before catch-alls.
type Schema struct {
	// Label names the node the extractor produces for this schema
	// ("habit", "prickles"). Lowercase by convention.
	Label string

	// Fields are the match specifications, in declaration order.
	Fields []Field
}

// Field is the match specification for one named unit of information.
type Field struct {
	// Name is the field identifier and the produced node name.
	Name string

	// Patterns are tried in order; each must carry at least one capture
	// group delimiting the field's value (or the sub-segment handed to
	// Child).
	Patterns []*regexp.Regexp

	// Kind biases value parsing for leaf fields. Empty means KindAuto.
	Kind types.ValueKind

	// Repeatable fields collect every occurrence in the segment, each
	// producing a sibling node with the same name.
	Repeatable bool

	// Child, when set, makes this a structural field: the captured
	// sub-segment is recursively extracted with the child schema
	// instead of being value-parsed.
	Child *Schema
}

// MalformedError reports an internally inconsistent schema. It is the only
// fatal error in the engine: input text never fails extraction, but a
// schema-authoring mistake is surfaced immediately and never recovered.
type MalformedError struct {
	// Schema is the slash-joined label path to the offending schema.
	Schema string

	// Field is the offending field name, empty for schema-level faults.
	Field string

	// Reason describes the inconsistency.
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed schema %q: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("malformed schema %q, field %q: %s", e.Schema, e.Field, e.Reason)
}

// New validates fields and returns an immutable schema. Callers must not
// modify fields after the call.
func New(label string, fields ...Field) (*Schema, error) {
	s := &Schema{Label: label, Fields: fields}
	if err := validate(s, label); err != nil {
		return nil, err
	}
	return s, nil
}

func validate(s *Schema, path string) error {
	if strings.TrimSpace(s.Label) == "" {
		return &MalformedError{Schema: path, Reason: "empty label"}
	}
	if len(s.Fields) == 0 {
		return &MalformedError{Schema: path, Reason: "schema has no fields"}
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return &MalformedError{Schema: path, Reason: "field with empty name"}
		}
		if seen[f.Name] {
			return &MalformedError{Schema: path, Field: f.Name, Reason: "duplicate field name"}
		}
		seen[f.Name] = true

		if len(f.Patterns) == 0 {
			return &MalformedError{Schema: path, Field: f.Name, Reason: "field has no patterns"}
		}
		for _, p := range f.Patterns {
			if p == nil {
				return &MalformedError{Schema: path, Field: f.Name, Reason: "nil pattern"}
			}
			if p.NumSubexp() < 1 {
				return &MalformedError{Schema: path, Field: f.Name,
					Reason: fmt.Sprintf("pattern %q has no capture group", p.String())}
			}
		}

		if f.Child != nil {
			if f.Kind != "" && f.Kind != types.KindAuto {
				return &MalformedError{Schema: path, Field: f.Name,
					Reason: "field declares both a child schema and a value kind"}
			}
			if err := validate(f.Child, path+"/"+f.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
