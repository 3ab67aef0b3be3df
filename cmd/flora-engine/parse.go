// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/flora-engine/internal/jepson"
	"github.com/pdiddy/flora-engine/internal/schema"
	"github.com/pdiddy/flora-engine/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Extract feature trees from description text",
	Long: `Parse runs the schema-driven extraction engine over plain description
text and produces one feature tree per taxon. Input comes from file
arguments, from --text for a single inline description, or from every
file under descriptions/text/ with --batch.

Trees are written as JSON to the parsed directory, or to stdout with
--stdout (optionally as YAML with --format yaml).`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("text", "", "parse an inline description instead of files")
	parseCmd.Flags().Bool("batch", false, "parse every description under descriptions/text/")
	parseCmd.Flags().Bool("stdout", false, "print trees to stdout instead of writing files")
	parseCmd.Flags().String("format", "json", "stdout format: json or yaml")
	parseCmd.Flags().String("schema", "", "YAML schema set replacing the built-in Jepson schemas")
	parseCmd.Flags().String("descriptions-dir", "descriptions", "base directory for descriptions (contains text/)")
	parseCmd.Flags().String("parsed-dir", filepath.Join("flora", "parsed"), "output directory for parsed trees")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := parseConfig(cmd)

	parser, err := buildParser(cfg)
	if err != nil {
		return err
	}

	inline, _ := cmd.Flags().GetString("text")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}

	if inline != "" {
		tree := parser.Parse(inline)
		return printTree(tree.Doc(), format)
	}

	paths := args
	if batch, _ := cmd.Flags().GetBool("batch"); batch {
		globbed, err := filepath.Glob(filepath.Join(cfg.DescriptionsDir, textDir, "*.txt"))
		if err != nil {
			return err
		}
		paths = append(paths, globbed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("provide description files, --text, or --batch")
	}

	if !toStdout {
		if err := os.MkdirAll(cfg.ParsedDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", cfg.ParsedDir, err)
		}
	}

	failed := 0
	for _, path := range paths {
		if err := parseOne(parser, cfg, path, toStdout, format); err != nil {
			fmt.Fprintf(os.Stderr, "  FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stderr, "  ok   %s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d description(s) failed parsing", failed)
	}
	return nil
}

func parseOne(parser *jepson.Parser, cfg types.ParseConfig, path string, toStdout bool, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	description := strings.TrimSpace(string(data))

	tree := parser.Parse(description)
	taxon := types.ParsedTaxon{
		ID:          strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Description: description,
		Tree:        tree.Doc(),
		ParsedAt:    time.Now().UTC(),
	}

	if toStdout {
		return printTree(taxon.Tree, format)
	}

	out, err := json.MarshalIndent(taxon, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tree: %w", err)
	}
	outPath := filepath.Join(cfg.ParsedDir, taxon.ID+".json")
	return os.WriteFile(outPath, append(out, '\n'), 0o644)
}

func printTree(doc types.NodeDoc, format string) error {
	if format == "yaml" {
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshaling tree: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func buildParser(cfg types.ParseConfig) (*jepson.Parser, error) {
	if cfg.SchemaFile == "" {
		return jepson.Default(), nil
	}
	set, err := schema.LoadFile(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}
	return jepson.New(set), nil
}

func parseConfig(cmd *cobra.Command) types.ParseConfig {
	descriptionsDir, _ := cmd.Flags().GetString("descriptions-dir")
	parsedDir, _ := cmd.Flags().GetString("parsed-dir")
	schemaFile, _ := cmd.Flags().GetString("schema")

	return types.ParseConfig{
		DescriptionsDir: descriptionsDir,
		ParsedDir:       parsedDir,
		SchemaFile:      schemaFile,
	}
}
