// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jepson splits Jepson-style taxon descriptions into labeled
// clauses ("Habit:", "Stem:", ...) and drives the extraction engine once
// per clause, assembling the full feature tree.
// See docs/ARCHITECTURE § Facade.
package jepson

import (
	"regexp"
	"strings"

	"github.com/pdiddy/flora-engine/internal/extract"
	"github.com/pdiddy/flora-engine/internal/schema"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// Synthetic node names for text that belongs to no recognized clause.
const (
	// RootName names the synthetic root of every feature tree.
	RootName = "taxon"

	// UnlabeledName buckets leading text that precedes the first label.
	UnlabeledName = "unlabeled"

	// UnrecognizedName buckets clauses whose label is not in the
	// vocabulary. They are preserved as text so downstream consumers
	// can detect schema drift in new description sources.
	UnrecognizedName = "unrecognized"
)

// labelRe matches a clause label: one or more capitalized words followed
// by a colon ("Habit:", "Bioregional Distribution:").
var labelRe = regexp.MustCompile(`([A-Z][A-Za-z]*(?:[ \t][A-Z][A-Za-z]*)*):`)

// Parser is the facade over the extraction engine. It is configured once
// with a schema set and safely shared by concurrent callers; Parse holds
// no mutable state.
type Parser struct {
	vocab   map[string]bool
	schemas map[string]*schema.Schema
}

// New returns a parser over the given schema set.
func New(set *schema.Set) *Parser {
	p := &Parser{
		vocab:   make(map[string]bool, len(set.Vocabulary)),
		schemas: set.Schemas,
	}
	for _, label := range set.Vocabulary {
		p.vocab[strings.ToLower(label)] = true
	}
	return p
}

// Default returns a parser over the built-in Jepson schema set.
func Default() *Parser {
	return New(jepsonSet)
}

type clause struct {
	label      string
	labelStart int
	bodyStart  int
	end        int
}

// Parse converts a full taxon description into a feature tree. Labels
// absent from the description are simply absent from the tree; malformed
// or unexpected text never fails, it lands in the unlabeled or
// unrecognized buckets or degrades to text values.
func (p *Parser) Parse(description string) *types.FeatureNode {
	root := types.NewFeatureNode(RootName, description)
	clauses := splitClauses(description)

	lead := description
	if len(clauses) > 0 {
		lead = description[:clauses[0].labelStart]
	}
	if text := strings.TrimSpace(lead); text != "" {
		n := types.NewFeatureNode(UnlabeledName, lead)
		n.Value = types.TextValue(text)
		root.AddChild(n)
	}

	var unrecognized *types.FeatureNode
	for _, c := range clauses {
		full := strings.TrimSpace(description[c.labelStart:c.end])
		body := strings.TrimSpace(description[c.bodyStart:c.end])
		key := strings.ToLower(c.label)

		switch {
		case !p.vocab[key]:
			if unrecognized == nil {
				unrecognized = types.NewFeatureNode(UnrecognizedName, "")
			}
			n := types.NewFeatureNode(key, full)
			n.Value = types.TextValue(full)
			unrecognized.AddChild(n)

		case p.schemas[key] != nil:
			n := extract.Extract(p.schemas[key], body)
			n.RawText = full
			root.AddChild(n)

		default:
			// In the vocabulary but without structural extraction:
			// keep the clause as a text leaf.
			n := types.NewFeatureNode(key, full)
			n.Value = types.TextValue(body)
			root.AddChild(n)
		}
	}

	if unrecognized != nil {
		root.AddChild(unrecognized)
	}
	return root
}

// splitClauses locates label boundaries in document order. A label match
// only counts at the start of the text or after whitespace, so prose like
// "ratio 1:2" can't open a clause.
func splitClauses(description string) []clause {
	locs := labelRe.FindAllStringSubmatchIndex(description, -1)

	var clauses []clause
	for _, loc := range locs {
		if loc[0] > 0 && !isBoundary(description[loc[0]-1]) {
			continue
		}
		clauses = append(clauses, clause{
			label:      description[loc[2]:loc[3]],
			labelStart: loc[0],
			bodyStart:  loc[1],
		})
	}
	for i := range clauses {
		if i+1 < len(clauses) {
			clauses[i].end = clauses[i+1].labelStart
		} else {
			clauses[i].end = len(description)
		}
	}
	return clauses
}

func isBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
