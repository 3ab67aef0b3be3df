// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package valueparse converts matched text fragments into typed trait
// values: numeric ranges with parenthetical outlier bounds, scalar
// measurements, enumerated alternatives, or free text.
// See docs/ARCHITECTURE § Value Parsing.
package valueparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/flora-engine/pkg/types"
)

// Measurement notation used by Jepson-style descriptions: "8--25 dm",
// "(1)3--30(50)", "3 to 5 mm", "ca. 4 mm", "+- 5--20 mm".
var (
	// rangeRe matches a numeric range with optional parenthetical
	// outlier bounds and an optional trailing unit. Separators: "--",
	// "-", or "to".
	rangeRe = regexp.MustCompile(`^(?:\((\d+(?:\.\d+)?)\))?\s*(\d+(?:\.\d+)?)\s*(?:--|-|to)\s*(\d+(?:\.\d+)?)\s*(?:\((\d+(?:\.\d+)?)\))?\s*([a-zA-Z]+)?$`)

	// scalarRe matches a single measurement with an optional unit.
	scalarRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Z]+)?$`)
)

// approxMarkers flag the value as approximate when stripped.
var approxMarkers = []string{"+-", "±", "ca.", "ca ", "about ", "approximately "}

// qualifierWords are frequency qualifiers stripped before numeric parsing
// without affecting the approximate flag.
var qualifierWords = []string{"generally ", "mostly ", "usually ", "sometimes ", "often "}

// Parse converts a trimmed text fragment into a typed Value. It never
// fails: fragments that match no numeric or enumeration pattern degrade to
// a text value, so extraction never aborts on unexpected phrasing.
//
// kind biases the attempt order. KindAuto tries range, scalar, then
// enumeration; KindRange and KindScalar skip the enumeration attempt;
// KindEnum skips the numeric attempts; KindText goes straight to text.
func Parse(text string, kind types.ValueKind) *types.Value {
	raw := strings.TrimSpace(text)
	frag, approx := stripQualifiers(raw)

	switch kind {
	case types.KindText:
		return types.TextValue(clean(raw))
	case types.KindEnum:
		if v := parseEnum(frag); v != nil {
			v.Raw = raw
			return v
		}
	default: // KindAuto, KindRange, KindScalar
		if v := parseRange(frag); v != nil {
			v.Raw = raw
			v.Approximate = approx
			return v
		}
		if v := parseScalar(frag); v != nil {
			v.Raw = raw
			v.Approximate = approx
			return v
		}
		if kind == types.KindAuto {
			if v := parseEnum(frag); v != nil {
				v.Raw = raw
				return v
			}
		}
	}
	return types.TextValue(clean(raw))
}

// parseRange parses "(a)A--B(b) unit" fragments. It returns nil when the
// fragment is not a well-formed range: A > B, or an outlier bound inside
// (A, B), degrades the whole fragment to text rather than emitting a value
// that breaks the range invariants.
func parseRange(frag string) *types.Value {
	m := rangeRe.FindStringSubmatch(clean(frag))
	if m == nil {
		return nil
	}

	low, err1 := strconv.ParseFloat(m[2], 64)
	high, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil || low > high {
		return nil
	}

	v := &types.Value{Kind: types.KindRange, Low: low, High: high, Unit: m[5]}
	if m[1] != "" {
		if out, err := strconv.ParseFloat(m[1], 64); err == nil && out <= low {
			v.LowOutlier = &out
		}
	}
	if m[4] != "" {
		if out, err := strconv.ParseFloat(m[4], 64); err == nil && out >= high {
			v.HighOutlier = &out
		}
	}
	return v
}

func parseScalar(frag string) *types.Value {
	m := scalarRe.FindStringSubmatch(clean(frag))
	if m == nil {
		return nil
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &types.Value{Kind: types.KindScalar, Number: n, Unit: m[2]}
}

// parseEnum splits alternative forms joined by "or" or commas. The first
// form is the chosen one, the rest are alternatives. A bare "not"
// alternative is expanded against the chosen head: "paired or not" yields
// chosen "paired" with alternative "not paired".
func parseEnum(frag string) *types.Value {
	frag = clean(frag)

	var parts []string
	switch {
	case strings.Contains(frag, " or "):
		parts = strings.Split(frag, " or ")
	case strings.Contains(frag, ","):
		parts = strings.Split(frag, ",")
	default:
		return nil
	}

	var forms []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			forms = append(forms, p)
		}
	}
	if len(forms) < 2 {
		return nil
	}

	chosen := forms[0]
	alts := make([]string, 0, len(forms)-1)
	for _, a := range forms[1:] {
		if a == "not" {
			a = "not " + chosen
		}
		alts = append(alts, a)
	}
	return &types.Value{Kind: types.KindEnum, Chosen: chosen, Alternatives: alts}
}

// stripQualifiers removes leading approximation markers and frequency
// qualifiers, reporting whether an approximation marker was present.
func stripQualifiers(frag string) (string, bool) {
	approx := false
	for {
		frag = strings.TrimSpace(frag)
		stripped := false
		for _, m := range approxMarkers {
			if strings.HasPrefix(frag, m) {
				frag = frag[len(m):]
				approx = true
				stripped = true
				break
			}
		}
		if stripped {
			continue
		}
		for _, q := range qualifierWords {
			if strings.HasPrefix(frag, q) {
				frag = frag[len(q):]
				stripped = true
				break
			}
		}
		if !stripped {
			return frag, approx
		}
	}
}

// clean trims whitespace and a trailing clause period.
func clean(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
}
