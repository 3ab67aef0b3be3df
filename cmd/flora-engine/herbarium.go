// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flora-engine/internal/herbarium"
	"github.com/pdiddy/flora-engine/pkg/types"
)

var herbariumCmd = &cobra.Command{
	Use:   "herbarium",
	Short: "Manage the herbarium (store, retrieve, export)",
	Long: `Herbarium manages a local SQLite index built from parsed feature trees.
Use subcommands to ingest trees, query features, or export.`,
}

// --- store subcommand ---

var herbariumStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest parsed feature trees into the herbarium",
	Long: `Store reads parsed-taxon JSON files from the parsed directory and
indexes each tree: the full tree is kept as JSON and every feature node
is flattened into a queryable row.`,
	RunE: runHerbariumStore,
}

func runHerbariumStore(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("Ingested %d taxa", summary.Ingested)
	if summary.Failed > 0 {
		fmt.Printf(", %d failed", summary.Failed)
	}
	fmt.Println()
	if summary.Failed > 0 {
		return fmt.Errorf("%d taxa failed ingest", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var herbariumRetrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Query stored features with structured filters",
	Long: `Retrieve searches the flattened feature index by feature name, value
kind, taxon, or raw-text substring. Results keep document order within
each taxon. Use --tree with a taxon ID to print its full feature tree.`,
	RunE: runHerbariumRetrieve,
}

func runHerbariumRetrieve(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	// Tree mode: print one taxon's full tree.
	if treeID, _ := cmd.Flags().GetString("tree"); treeID != "" {
		taxon, err := store.Get(context.Background(), treeID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(taxon.Tree)
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("filter required: provide --feature, --kind, --taxon, or --contains")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []herbarium.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-32s  %-8s  %s\n", "Taxon", "Path", "Kind", "Value")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range results {
		value := r.Value
		if value == "" {
			value = r.Raw
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-32s  %-8s  %s\n", r.TaxonID, r.Path, r.Kind, value)
	}
	return nil
}

// --- list subcommand ---

var herbariumListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored taxa",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		taxa, err := store.List(context.Background())
		if err != nil {
			return err
		}
		if len(taxa) == 0 {
			fmt.Println("Herbarium is empty.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-28s  %8s  %s\n", "ID", "Name", "Features", "Parsed")
		for _, t := range taxa {
			fmt.Fprintf(os.Stdout, "%-16s  %-28s  %8d  %s\n", t.ID, t.Name, t.Features, t.ParsedAt)
		}
		return nil
	},
}

// --- export subcommand ---

var herbariumExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the feature index to YAML or JSON",
	RunE:  runHerbariumExport,
}

func runHerbariumExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	herbariumDir, _ := cmd.Flags().GetString("herbarium-dir")
	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(herbariumDir, "index", "export.yaml"))
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(herbariumDir, "index", "export.json"))
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*herbarium.Store, error) {
	herbariumDir, _ := cmd.Flags().GetString("herbarium-dir")
	if herbariumDir == "" {
		herbariumDir = "flora"
	}
	parsedDir, _ := cmd.Flags().GetString("parsed-dir")
	if parsedDir == "" {
		parsedDir = filepath.Join(herbariumDir, "parsed")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	cfg := types.HerbariumConfig{
		HerbariumDir: herbariumDir,
		ParsedDir:    parsedDir,
		MaxResults:   maxResults,
	}
	return herbarium.NewStore(cfg)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) herbarium.QueryOptions {
	feature, _ := cmd.Flags().GetString("feature")
	kind, _ := cmd.Flags().GetString("kind")
	taxonID, _ := cmd.Flags().GetString("taxon")
	contains, _ := cmd.Flags().GetString("contains")
	if contains == "" && len(args) > 0 {
		contains = strings.Join(args, " ")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	return herbarium.QueryOptions{
		Feature:    feature,
		Kind:       kind,
		TaxonID:    taxonID,
		Contains:   contains,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	herbariumCmd.PersistentFlags().String("herbarium-dir", "flora", "base directory for the herbarium (contains parsed/, index/)")
	herbariumCmd.PersistentFlags().String("parsed-dir", "", "directory of parsed trees (default <herbarium-dir>/parsed)")
	herbariumCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Retrieve flags.
	herbariumRetrieveCmd.Flags().String("feature", "", "filter by feature name (e.g. height, prickles)")
	herbariumRetrieveCmd.Flags().String("kind", "", "filter by value kind: scalar, range, enum, text")
	herbariumRetrieveCmd.Flags().String("taxon", "", "filter by taxon ID")
	herbariumRetrieveCmd.Flags().String("contains", "", "substring filter over raw feature text")
	herbariumRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	herbariumRetrieveCmd.Flags().String("tree", "", "print the full feature tree for a taxon ID")
	herbariumRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	herbariumExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	herbariumExportCmd.Flags().String("feature", "", "filter by feature name for partial export")
	herbariumExportCmd.Flags().String("kind", "", "filter by value kind for partial export")
	herbariumExportCmd.Flags().String("taxon", "", "filter by taxon ID for partial export")
	herbariumExportCmd.Flags().String("contains", "", "substring filter for partial export")
	herbariumExportCmd.Flags().Int("limit", 0, "maximum features to export (0 = all)")

	// Wire subcommands.
	herbariumCmd.AddCommand(herbariumStoreCmd)
	herbariumCmd.AddCommand(herbariumRetrieveCmd)
	herbariumCmd.AddCommand(herbariumListCmd)
	herbariumCmd.AddCommand(herbariumExportCmd)

	rootCmd.AddCommand(herbariumCmd)
}
