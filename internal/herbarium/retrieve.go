// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package herbarium

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for feature queries.
type QueryOptions struct {
	// Feature filters by feature name ("height", "prickles").
	Feature string

	// Kind filters by value kind: scalar, range, enum, or text.
	Kind string

	// TaxonID filters by taxon.
	TaxonID string

	// Contains is a substring filter over the feature's raw text.
	Contains string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Feature == "" && q.Kind == "" && q.TaxonID == "" && q.Contains == ""
}

// QueryResult is one matching feature with its taxon and tree position.
type QueryResult struct {
	TaxonID   string `json:"taxon_id" yaml:"taxon_id"`
	TaxonName string `json:"taxon_name,omitempty" yaml:"taxon_name,omitempty"`
	Path      string `json:"path" yaml:"path"`
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Raw       string `json:"raw,omitempty" yaml:"raw,omitempty"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Retrieve queries stored features with structured filters. Results are
// ordered by taxon then document position, so repeated runs over the same
// store are deterministic.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT f.taxon_id, t.name, f.path, f.name, f.kind, f.raw, f.rendered
		FROM features f
		LEFT JOIN taxa t ON f.taxon_id = t.id
		WHERE 1=1`)

	if opts.Feature != "" {
		qb.WriteString(` AND f.name = ?`)
		args = append(args, strings.ToLower(opts.Feature))
	}
	if opts.Kind != "" {
		qb.WriteString(` AND f.kind = ?`)
		args = append(args, opts.Kind)
	}
	if opts.TaxonID != "" {
		qb.WriteString(` AND f.taxon_id = ?`)
		args = append(args, opts.TaxonID)
	}
	if opts.Contains != "" {
		qb.WriteString(` AND f.raw LIKE ?`)
		args = append(args, "%"+opts.Contains+"%")
	}

	qb.WriteString(` ORDER BY f.taxon_id, f.pos LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	var out []QueryResult
	for rows.Next() {
		var (
			r                         QueryResult
			name, kind, raw, rendered sql.NullString
		)
		if err := rows.Scan(&r.TaxonID, &name, &r.Path, &r.Name, &kind, &raw, &rendered); err != nil {
			return nil, err
		}
		r.TaxonName = name.String
		r.Kind = kind.String
		r.Raw = raw.String
		r.Value = rendered.String
		out = append(out, r)
	}
	return out, rows.Err()
}
