// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/flora-engine/pkg/types"
)

// Def is the declarative (serializable) form of a Schema. Organ
// vocabularies ship as YAML files of Defs, so new description sources
// don't require code changes.
type Def struct {
	Label  string     `json:"label" yaml:"label"`
	Fields []FieldDef `json:"fields" yaml:"fields"`
}

// FieldDef is the declarative form of a Field. Patterns are uncompiled
// regular expressions; they are compiled case-insensitively.
type FieldDef struct {
	Name       string          `json:"name" yaml:"name"`
	Patterns   []string        `json:"patterns" yaml:"patterns"`
	Kind       types.ValueKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Repeatable bool            `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`
	Child      *Def            `json:"child,omitempty" yaml:"child,omitempty"`
}

// SetDef is the on-disk form of a schema set: the clause label vocabulary
// plus one Def per label that gets structural extraction. Vocabulary
// labels without a Def are preserved as text-valued nodes by the facade.
type SetDef struct {
	Vocabulary []string `json:"vocabulary,omitempty" yaml:"vocabulary,omitempty"`
	Schemas    []Def    `json:"schemas" yaml:"schemas"`
}

// Set is a compiled schema set ready for the facade: the recognized clause
// vocabulary and the per-label schemas, keyed by lowercased label.
type Set struct {
	Vocabulary []string
	Schemas    map[string]*Schema
}

// Compile turns a Def into a validated Schema. Pattern compilation errors
// and internal inconsistencies both surface as *MalformedError.
func Compile(def Def) (*Schema, error) {
	return compileDef(def, def.Label)
}

func compileDef(def Def, path string) (*Schema, error) {
	fields := make([]Field, 0, len(def.Fields))
	for _, fd := range def.Fields {
		f := Field{
			Name:       fd.Name,
			Kind:       fd.Kind,
			Repeatable: fd.Repeatable,
		}
		if f.Kind == "" {
			f.Kind = types.KindAuto
		}
		for _, pat := range fd.Patterns {
			re, err := regexp.Compile(caseInsensitive(pat))
			if err != nil {
				return nil, &MalformedError{Schema: path, Field: fd.Name,
					Reason: fmt.Sprintf("invalid pattern %q: %v", pat, err)}
			}
			f.Patterns = append(f.Patterns, re)
		}
		if fd.Child != nil {
			child := *fd.Child
			if child.Label == "" {
				child.Label = fd.Name
			}
			c, err := compileDef(child, path+"/"+fd.Name)
			if err != nil {
				return nil, err
			}
			f.Child = c
		}
		fields = append(fields, f)
	}

	s := &Schema{Label: def.Label, Fields: fields}
	if err := validate(s, path); err != nil {
		return nil, err
	}
	return s, nil
}

// CompileSet compiles every schema in a SetDef. The vocabulary is the
// union of the declared vocabulary and the schema labels, lowercased,
// declaration order preserved.
func CompileSet(def SetDef) (*Set, error) {
	set := &Set{Schemas: make(map[string]*Schema, len(def.Schemas))}

	seen := make(map[string]bool)
	addLabel := func(label string) {
		label = strings.ToLower(strings.TrimSpace(label))
		if label != "" && !seen[label] {
			seen[label] = true
			set.Vocabulary = append(set.Vocabulary, label)
		}
	}

	for _, v := range def.Vocabulary {
		addLabel(v)
	}
	for _, sd := range def.Schemas {
		s, err := Compile(sd)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(s.Label)
		if _, dup := set.Schemas[key]; dup {
			return nil, &MalformedError{Schema: s.Label, Reason: "duplicate schema label in set"}
		}
		set.Schemas[key] = s
		addLabel(s.Label)
	}

	if len(set.Schemas) == 0 {
		return nil, &MalformedError{Schema: "(set)", Reason: "set defines no schemas"}
	}
	return set, nil
}

// MustCompileSet is CompileSet for built-in schema literals; it panics on
// authoring mistakes the way regexp.MustCompile does.
func MustCompileSet(def SetDef) *Set {
	set, err := CompileSet(def)
	if err != nil {
		panic(err)
	}
	return set
}

// LoadFile reads a YAML SetDef from path and compiles it.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	var def SetDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}
	return CompileSet(def)
}

// caseInsensitive prepends the (?i) flag unless the pattern already sets
// its own flags.
func caseInsensitive(pat string) string {
	if strings.HasPrefix(pat, "(?") {
		return pat
	}
	return "(?i)" + pat
}
