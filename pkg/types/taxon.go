// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ParsedTaxon is the on-disk result of parsing one description: the
// source text, the extracted feature tree in export form, and provenance.
// The parse stage writes one JSON file per taxon; the herbarium ingests
// them.
type ParsedTaxon struct {
	// ID identifies the taxon; derived from the source file name when
	// not given explicitly.
	ID string `json:"id" yaml:"id"`

	// Name is the scientific name, when known.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Description is the full source description text.
	Description string `json:"description" yaml:"description"`

	// Tree is the extracted feature tree in export form.
	Tree NodeDoc `json:"tree" yaml:"tree"`

	// ParsedAt records when the extraction ran.
	ParsedAt time.Time `json:"parsed_at" yaml:"parsed_at"`
}
