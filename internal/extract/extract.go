// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract is the schema-driven extraction engine: it maps a
// field schema onto a text segment and produces a tree of typed feature
// nodes. Extraction is a pure function of schema and text: no shared
// state, no side effects, and no failure mode for malformed input — a
// field that doesn't match is omitted, a value that doesn't parse
// degrades to text.
// See docs/ARCHITECTURE § Extraction.
package extract

import (
	"sort"
	"strings"

	"github.com/pdiddy/flora-engine/internal/schema"
	"github.com/pdiddy/flora-engine/internal/valueparse"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// Extract applies a schema to one text segment and returns the resulting
// feature node. The node is named after the schema label; its children are
// the matched fields in document order (the order their matches appear in
// the segment, not schema declaration order). An empty or unmatched
// segment yields a node with zero children.
func Extract(s *schema.Schema, segment string) *types.FeatureNode {
	return extractNode(s.Label, s, segment)
}

// match is one located field occurrence within a segment.
type match struct {
	field *schema.Field
	// start/end delimit the full pattern match, content the capture
	// group handed to value parsing or recursion.
	start, end               int
	contentStart, contentEnd int
}

func extractNode(name string, s *schema.Schema, segment string) *types.FeatureNode {
	node := types.NewFeatureNode(name, segment)

	for _, m := range locate(s, segment) {
		span := segment[m.start:m.end]
		content := strings.TrimSpace(segment[m.contentStart:m.contentEnd])
		if content == "" {
			continue
		}

		if m.field.Child != nil {
			child := extractNode(m.field.Name, m.field.Child, content)
			// A structural match none of whose sub-fields matched
			// carries no information; omit it.
			if len(child.Children) == 0 {
				continue
			}
			child.RawText = span
			node.AddChild(child)
			continue
		}

		child := types.NewFeatureNode(m.field.Name, span)
		child.Value = valueparse.Parse(content, m.field.Kind)
		node.AddChild(child)
	}
	return node
}

// locate finds every field occurrence in the segment and resolves
// overlaps. Within a field, patterns are tried in declaration order and
// the first pattern that matches wins. Across fields, overlapping matches
// are resolved leftmost-first; among matches starting at the same offset
// the longest wins, with schema declaration order as the final
// tie-break. A surviving match whose span runs past the start of the next
// one is truncated there, mirroring how clause-mates delimit each other
// in the source prose.
func locate(s *schema.Schema, segment string) []match {
	var found []match
	for i := range s.Fields {
		f := &s.Fields[i]
		found = append(found, occurrences(f, segment)...)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].start != found[j].start {
			return found[i].start < found[j].start
		}
		return found[i].end-found[i].start > found[j].end-found[j].start
	})

	var kept []match
	for _, m := range found {
		if n := len(kept); n > 0 && m.start == kept[n-1].start {
			// Same-start loser of the longest-match tie-break.
			continue
		}
		kept = append(kept, m)
	}

	// Truncate each span at the start of the next sibling.
	for i := 0; i < len(kept)-1; i++ {
		if next := kept[i+1].start; kept[i].end > next {
			kept[i].end = next
			if kept[i].contentEnd > next {
				kept[i].contentEnd = next
			}
		}
	}

	// Truncation can leave a match with nothing captured; drop those.
	out := kept[:0]
	for _, m := range kept {
		if m.contentStart < m.contentEnd {
			out = append(out, m)
		}
	}
	return out
}

// occurrences scans the segment for one field. Non-repeatable fields
// yield at most the first occurrence; repeatable fields yield every
// non-overlapping occurrence of the winning pattern.
func occurrences(f *schema.Field, segment string) []match {
	for _, re := range f.Patterns {
		if f.Repeatable {
			locs := re.FindAllStringSubmatchIndex(segment, -1)
			ms := collect(f, locs)
			if len(ms) > 0 {
				return ms
			}
			continue
		}

		loc := re.FindStringSubmatchIndex(segment)
		if ms := collect(f, [][]int{loc}); len(ms) > 0 {
			return ms
		}
	}
	return nil
}

func collect(f *schema.Field, locs [][]int) []match {
	var ms []match
	for _, loc := range locs {
		// loc[2], loc[3] bound the first capture group; -1 when an
		// optional group did not participate in the match.
		if loc == nil || len(loc) < 4 || loc[2] < 0 {
			continue
		}
		ms = append(ms, match{
			field:        f,
			start:        loc[0],
			end:          loc[1],
			contentStart: loc[2],
			contentEnd:   loc[3],
		})
	}
	return ms
}
