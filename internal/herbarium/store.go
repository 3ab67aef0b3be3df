// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package herbarium persists parsed feature trees in SQLite and exposes
// structured queries over the flattened features.
// See docs/ARCHITECTURE § Herbarium.
package herbarium

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/flora-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "flora.db"
)

// Store manages the herbarium SQLite database.
type Store struct {
	db           *sql.DB
	herbariumDir string
	parsedDir    string
	maxResults   int
}

// NewStore opens or creates the herbarium database at
// herbariumDir/index/flora.db, creating the schema if needed.
func NewStore(cfg types.HerbariumConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.HerbariumDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:           db,
		herbariumDir: cfg.HerbariumDir,
		parsedDir:    cfg.ParsedDir,
		maxResults:   maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS taxa (
			id TEXT PRIMARY KEY,
			name TEXT,
			description TEXT,
			tree TEXT NOT NULL,
			parsed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS features (
			taxon_id TEXT NOT NULL REFERENCES taxa(id) ON DELETE CASCADE,
			pos INTEGER NOT NULL,
			path TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT,
			raw TEXT,
			rendered TEXT,
			low REAL,
			high REAL,
			unit TEXT,
			PRIMARY KEY (taxon_id, pos)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_features_name ON features(name)`,
		`CREATE INDEX IF NOT EXISTS idx_features_kind ON features(kind)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Put upserts one parsed taxon: the tree as JSON in taxa plus one
// features row per node, positions preserving document order.
func (s *Store) Put(ctx context.Context, taxon types.ParsedTaxon) error {
	if taxon.ID == "" {
		return fmt.Errorf("taxon has no id")
	}

	treeJSON, err := json.Marshal(taxon.Tree)
	if err != nil {
		return fmt.Errorf("marshaling tree: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	parsedAt := taxon.ParsedAt
	if parsedAt.IsZero() {
		parsedAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO taxa (id, name, description, tree, parsed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		taxon.ID, taxon.Name, taxon.Description, string(treeJSON),
		parsedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("storing taxon %s: %w", taxon.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM features WHERE taxon_id = ?`, taxon.ID); err != nil {
		return fmt.Errorf("clearing features for %s: %w", taxon.ID, err)
	}

	pos := 0
	var insert func(doc types.NodeDoc, path string) error
	insert = func(doc types.NodeDoc, path string) error {
		var kind, raw, rendered, unit any
		var low, high any
		if v := doc.Value; v != nil {
			kind, raw, rendered = string(v.Kind), v.Raw, v.String()
			if v.Kind == types.KindRange {
				low, high, unit = v.Low, v.High, v.Unit
			}
			if v.Kind == types.KindScalar {
				low, high, unit = v.Number, v.Number, v.Unit
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO features (taxon_id, pos, path, name, kind, raw, rendered, low, high, unit)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			taxon.ID, pos, path, doc.Name, kind, raw, rendered, low, high, unit); err != nil {
			return fmt.Errorf("storing feature %s: %w", path, err)
		}
		pos++
		for _, c := range doc.Children {
			if err := insert(c, path+"/"+c.Name); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(taxon.Tree, taxon.Tree.Name); err != nil {
		return err
	}

	return tx.Commit()
}

// Get loads one parsed taxon by ID, tree included.
func (s *Store) Get(ctx context.Context, id string) (*types.ParsedTaxon, error) {
	var (
		taxon    types.ParsedTaxon
		treeJSON string
		parsedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, tree, parsed_at FROM taxa WHERE id = ?`, id).
		Scan(&taxon.ID, &taxon.Name, &taxon.Description, &treeJSON, &parsedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("taxon %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading taxon %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(treeJSON), &taxon.Tree); err != nil {
		return nil, fmt.Errorf("decoding tree for %s: %w", id, err)
	}
	if t, err := time.Parse(time.RFC3339, parsedAt); err == nil {
		taxon.ParsedAt = t
	}
	return &taxon, nil
}

// TaxonSummary is one row of a taxa listing.
type TaxonSummary struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Features int    `json:"features" yaml:"features"`
	ParsedAt string `json:"parsed_at" yaml:"parsed_at"`
}

// List returns summaries of every stored taxon, ordered by ID.
func (s *Store) List(ctx context.Context) ([]TaxonSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.parsed_at,
			(SELECT COUNT(*) FROM features f WHERE f.taxon_id = t.id)
		 FROM taxa t ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("listing taxa: %w", err)
	}
	defer rows.Close()

	var out []TaxonSummary
	for rows.Next() {
		var ts TaxonSummary
		if err := rows.Scan(&ts.ID, &ts.Name, &ts.ParsedAt, &ts.Features); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// IngestSummary holds counts from an ingest run.
type IngestSummary struct {
	Ingested int
	Failed   int
}

// Ingest loads every parsed-taxon JSON file from the parsed directory
// into the store. Files that fail to decode or store are reported to out
// and counted, not fatal.
func (s *Store) Ingest(ctx context.Context, out io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	paths, err := filepath.Glob(filepath.Join(s.parsedDir, "*.json"))
	if err != nil {
		return summary, fmt.Errorf("listing %s: %w", s.parsedDir, err)
	}

	for _, path := range paths {
		taxon, err := readParsedTaxon(path)
		if err != nil {
			fmt.Fprintf(out, "  FAIL %s: %v\n", filepath.Base(path), err)
			summary.Failed++
			continue
		}
		if err := s.Put(ctx, *taxon); err != nil {
			fmt.Fprintf(out, "  FAIL %s: %v\n", filepath.Base(path), err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(out, "  ok   %s\n", taxon.ID)
		summary.Ingested++
	}
	return summary, nil
}

func readParsedTaxon(path string) (*types.ParsedTaxon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var taxon types.ParsedTaxon
	if err := json.Unmarshal(data, &taxon); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	if taxon.ID == "" {
		taxon.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &taxon, nil
}
