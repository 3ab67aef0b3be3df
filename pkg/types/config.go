// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that fetch description
// pages from the network.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "flora-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IngestConfig holds settings for the ingest stage (fetching eFlora pages
// and converting them to plain description text).
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// DescriptionsDir is the base directory for descriptions
	// (contains raw/, text/).
	DescriptionsDir string `json:"descriptions_dir" yaml:"descriptions_dir"`

	// DownloadDelay is the delay between consecutive page fetches
	// (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`
}

// ParseConfig holds settings for the parse stage (running the extraction
// engine over description text).
type ParseConfig struct {
	// DescriptionsDir is the base directory for descriptions (contains text/).
	DescriptionsDir string `json:"descriptions_dir" yaml:"descriptions_dir"`

	// ParsedDir is the output directory for parsed feature trees.
	ParsedDir string `json:"parsed_dir" yaml:"parsed_dir"`

	// SchemaFile optionally points at a YAML schema definition that
	// replaces the built-in Jepson schemas.
	SchemaFile string `json:"schema_file,omitempty" yaml:"schema_file,omitempty"`
}

// HerbariumConfig holds settings for the herbarium store.
type HerbariumConfig struct {
	// HerbariumDir is the base directory for the herbarium
	// (contains index/).
	HerbariumDir string `json:"herbarium_dir" yaml:"herbarium_dir"`

	// ParsedDir is the directory parsed feature trees are ingested from.
	ParsedDir string `json:"parsed_dir" yaml:"parsed_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Ingest    IngestConfig    `json:"ingest" yaml:"ingest"`
	Parse     ParseConfig     `json:"parse" yaml:"parse"`
	Herbarium HerbariumConfig `json:"herbarium" yaml:"herbarium"`
}
