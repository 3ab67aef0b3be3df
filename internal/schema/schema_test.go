// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/flora-engine/pkg/types"
)

func TestNew_Valid(t *testing.T) {
	s, err := New("habit",
		Field{Name: "height", Patterns: []*regexp.Regexp{regexp.MustCompile(`(\d+--\d+ dm)`)}},
		Field{Name: "growth form", Patterns: []*regexp.Regexp{regexp.MustCompile(`(shrub|tree)`)}, Kind: types.KindEnum},
	)
	require.NoError(t, err)
	assert.Equal(t, "habit", s.Label)
	assert.Len(t, s.Fields, 2)
}

func TestNew_Malformed(t *testing.T) {
	pat := regexp.MustCompile(`(x)`)
	noGroup := regexp.MustCompile(`x`)

	tests := []struct {
		name   string
		label  string
		fields []Field
		field  string
		reason string
	}{
		{
			name:   "empty label",
			label:  "  ",
			fields: []Field{{Name: "a", Patterns: []*regexp.Regexp{pat}}},
			reason: "empty label",
		},
		{
			name:   "no fields",
			label:  "habit",
			reason: "schema has no fields",
		},
		{
			name:   "empty field name",
			label:  "habit",
			fields: []Field{{Name: " ", Patterns: []*regexp.Regexp{pat}}},
			reason: "field with empty name",
		},
		{
			name:  "duplicate field name",
			label: "habit",
			fields: []Field{
				{Name: "a", Patterns: []*regexp.Regexp{pat}},
				{Name: "a", Patterns: []*regexp.Regexp{pat}},
			},
			field:  "a",
			reason: "duplicate field name",
		},
		{
			name:   "field without patterns",
			label:  "habit",
			fields: []Field{{Name: "a"}},
			field:  "a",
			reason: "field has no patterns",
		},
		{
			name:   "pattern without capture group",
			label:  "habit",
			fields: []Field{{Name: "a", Patterns: []*regexp.Regexp{noGroup}}},
			field:  "a",
			reason: `pattern "x" has no capture group`,
		},
		{
			name:  "child and kind conflict",
			label: "habit",
			fields: []Field{{
				Name:     "a",
				Patterns: []*regexp.Regexp{pat},
				Kind:     types.KindRange,
				Child:    &Schema{Label: "c", Fields: []Field{{Name: "b", Patterns: []*regexp.Regexp{pat}}}},
			}},
			field:  "a",
			reason: "field declares both a child schema and a value kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.label, tt.fields...)
			require.Error(t, err)

			var merr *MalformedError
			require.True(t, errors.As(err, &merr), "want *MalformedError, got %T", err)
			assert.Equal(t, tt.field, merr.Field)
			assert.Equal(t, tt.reason, merr.Reason)
		})
	}
}

func TestNew_MalformedChildPath(t *testing.T) {
	pat := regexp.MustCompile(`(x)`)
	_, err := New("stem", Field{
		Name:     "prickles",
		Patterns: []*regexp.Regexp{pat},
		Child:    &Schema{Label: "prickles"},
	})
	require.Error(t, err)

	var merr *MalformedError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "stem/prickles", merr.Schema)
	assert.Equal(t, "schema has no fields", merr.Reason)
}

func TestCompile(t *testing.T) {
	s, err := Compile(Def{
		Label: "leaf",
		Fields: []FieldDef{
			{Name: "axis", Patterns: []string{`axis\s+([^;]+)`}, Child: &Def{
				Fields: []FieldDef{
					{Name: "hair length", Patterns: []string{`hairs to (\d+ mm)`}},
				},
			}},
			{Name: "blade", Patterns: []string{`blade ([a-z]+)`}, Kind: types.KindEnum, Repeatable: true},
		},
	})
	require.NoError(t, err)

	// Default kind is auto; child labels default to the field name.
	assert.Equal(t, types.KindAuto, s.Fields[0].Kind)
	require.NotNil(t, s.Fields[0].Child)
	assert.Equal(t, "axis", s.Fields[0].Child.Label)
	assert.Equal(t, types.KindEnum, s.Fields[1].Kind)
	assert.True(t, s.Fields[1].Repeatable)

	// Patterns compile case-insensitively.
	assert.True(t, s.Fields[1].Patterns[0].MatchString("Blade ovate"))
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile(Def{
		Label:  "leaf",
		Fields: []FieldDef{{Name: "blade", Patterns: []string{`([a-z`}}},
	})
	require.Error(t, err)

	var merr *MalformedError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "blade", merr.Field)
	assert.Contains(t, merr.Reason, "invalid pattern")
}

func TestCompileSet(t *testing.T) {
	set, err := CompileSet(SetDef{
		Vocabulary: []string{"Ecology", "habit", "ecology"},
		Schemas: []Def{
			{Label: "Habit", Fields: []FieldDef{{Name: "height", Patterns: []string{`(\d+--\d+ dm)`}}}},
			{Label: "stem", Fields: []FieldDef{{Name: "surface", Patterns: []string{`(glabrous|hairy)`}}}},
		},
	})
	require.NoError(t, err)

	// Lowercased union, declaration order, duplicates collapsed.
	assert.Equal(t, []string{"ecology", "habit", "stem"}, set.Vocabulary)
	assert.Contains(t, set.Schemas, "habit")
	assert.Contains(t, set.Schemas, "stem")
}

func TestCompileSet_Errors(t *testing.T) {
	_, err := CompileSet(SetDef{})
	var merr *MalformedError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "set defines no schemas", merr.Reason)

	def := Def{Label: "habit", Fields: []FieldDef{{Name: "height", Patterns: []string{`(\d+)`}}}}
	_, err = CompileSet(SetDef{Schemas: []Def{def, def}})
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "duplicate schema label in set", merr.Reason)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemas.yaml")
	doc := `vocabulary:
  - ecology
  - elevation
schemas:
  - label: habit
    fields:
      - name: height
        patterns:
          - '(\d+(?:\.\d+)?--\d+(?:\.\d+)? dm)'
        kind: range
      - name: growth form
        patterns:
          - '(shrub|tree|vine)'
        kind: enum
  - label: stem
    fields:
      - name: prickles
        patterns:
          - 'prickles\s+([^.;]+)'
        child:
          fields:
            - name: count
              patterns:
                - '(few|many)'
              kind: enum
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	set, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ecology", "elevation", "habit", "stem"}, set.Vocabulary)

	habit := set.Schemas["habit"]
	require.NotNil(t, habit)
	assert.Equal(t, types.KindRange, habit.Fields[0].Kind)

	stem := set.Schemas["stem"]
	require.NotNil(t, stem)
	require.NotNil(t, stem.Fields[0].Child)
	assert.Equal(t, "prickles", stem.Fields[0].Child.Label)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
