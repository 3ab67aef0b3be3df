// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for flora-engine: parsed
// trait values, feature tree nodes, and stage configuration.
// See docs/ARCHITECTURE § Data Model.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value, and doubles as the expected
// kind declared on a schema field.
type ValueKind string

const (
	// KindAuto lets the value parser pick: numeric range, then scalar,
	// then enumeration, then text. The default for schema fields.
	KindAuto ValueKind = "auto"

	// KindScalar is a single measurement, e.g. "8 dm".
	KindScalar ValueKind = "scalar"

	// KindRange is a qualified numeric range, e.g. "(1)3--30(50) mm".
	KindRange ValueKind = "range"

	// KindEnum is one chosen form with stated alternatives,
	// e.g. "paired or not".
	KindEnum ValueKind = "enum"

	// KindText is the free-text fallback; parsing never fails, it
	// degrades here.
	KindText ValueKind = "text"
)

// Value is the tagged variant produced by the value parser. Kind selects
// which fields are meaningful; the rest are zero.
type Value struct {
	// Kind is the variant tag: scalar, range, enum, or text.
	Kind ValueKind `json:"kind" yaml:"kind"`

	// Raw is the trimmed source fragment the value was parsed from.
	Raw string `json:"raw" yaml:"raw"`

	// Number is the measurement for scalar values.
	Number float64 `json:"number,omitempty" yaml:"number,omitempty"`

	// Low and High bound a range value. Low <= High always holds.
	Low  float64 `json:"low,omitempty" yaml:"low,omitempty"`
	High float64 `json:"high,omitempty" yaml:"high,omitempty"`

	// LowOutlier and HighOutlier hold the rare parenthetical extremes,
	// e.g. "(1)3--30(50)" carries 1 and 50. Nil when absent; when set
	// they lie outside [Low, High].
	LowOutlier  *float64 `json:"low_outlier,omitempty" yaml:"low_outlier,omitempty"`
	HighOutlier *float64 `json:"high_outlier,omitempty" yaml:"high_outlier,omitempty"`

	// Unit is the measurement unit for scalar and range values ("mm",
	// "dm"), empty when the text carried none.
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`

	// Approximate is set when the text carried an approximation marker
	// ("+-", "ca.") before the measurement.
	Approximate bool `json:"approximate,omitempty" yaml:"approximate,omitempty"`

	// Chosen is the primary form of an enumeration.
	Chosen string `json:"chosen,omitempty" yaml:"chosen,omitempty"`

	// Alternatives are the remaining enumerated forms, in source order.
	Alternatives []string `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`

	// Text is the fallback content for text values.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// TextValue returns a free-text Value for raw.
func TextValue(raw string) *Value {
	return &Value{Kind: KindText, Raw: raw, Text: raw}
}

// String renders the value in a compact human-readable form for CLI output.
func (v *Value) String() string {
	switch v.Kind {
	case KindScalar:
		s := trimFloat(v.Number)
		if v.Unit != "" {
			s += " " + v.Unit
		}
		if v.Approximate {
			s = "~" + s
		}
		return s
	case KindRange:
		s := trimFloat(v.Low) + "--" + trimFloat(v.High)
		if v.LowOutlier != nil {
			s = "(" + trimFloat(*v.LowOutlier) + ")" + s
		}
		if v.HighOutlier != nil {
			s += "(" + trimFloat(*v.HighOutlier) + ")"
		}
		if v.Unit != "" {
			s += " " + v.Unit
		}
		if v.Approximate {
			s = "~" + s
		}
		return s
	case KindEnum:
		if len(v.Alternatives) == 0 {
			return v.Chosen
		}
		return fmt.Sprintf("%s (or %s)", v.Chosen, strings.Join(v.Alternatives, ", "))
	default:
		return v.Text
	}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
