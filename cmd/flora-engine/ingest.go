// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flora-engine/internal/convert"
	"github.com/pdiddy/flora-engine/internal/httputil"
	"github.com/pdiddy/flora-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "flora-engine/0.1"

	rawDir  = "raw"
	textDir = "text"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [sources...]",
	Short: "Fetch description pages and convert them to plain text",
	Long: `Ingest takes description sources (URLs or local HTML/text files), saves
the raw content under descriptions/raw/, and writes the converted plain
clause text under descriptions/text/ ready for parsing.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	ingestCmd.Flags().Duration("delay", 0, "delay between consecutive fetches (default 1s)")
	ingestCmd.Flags().String("descriptions-dir", "descriptions", "base directory for descriptions (contains raw/, text/)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more description sources (URLs or files)")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	descriptionsDir, _ := cmd.Flags().GetString("descriptions-dir")

	cfg := types.IngestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DescriptionsDir: descriptionsDir,
		DownloadDelay:   delay,
	}

	for _, dir := range []string{
		filepath.Join(cfg.DescriptionsDir, rawDir),
		filepath.Join(cfg.DescriptionsDir, textDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	client := &http.Client{Timeout: cfg.Timeout}
	failed := 0
	for i, source := range args {
		if i > 0 && isURL(source) {
			time.Sleep(cfg.DownloadDelay)
		}
		if err := ingestOne(cmd.Context(), client, cfg, source); err != nil {
			fmt.Fprintf(os.Stderr, "  FAIL %s: %v\n", source, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stderr, "  ok   %s\n", source)
	}
	if failed > 0 {
		return fmt.Errorf("%d source(s) failed ingest", failed)
	}
	return nil
}

func ingestOne(ctx context.Context, client *http.Client, cfg types.IngestConfig, source string) error {
	var (
		data []byte
		err  error
	)
	if isURL(source) {
		data, err = httputil.Fetch(ctx, client, source, cfg.UserAgent, 0)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return err
	}

	id := sourceID(source)
	rawPath := filepath.Join(cfg.DescriptionsDir, rawDir, id+".html")
	if err := os.WriteFile(rawPath, data, 0o644); err != nil {
		return fmt.Errorf("saving raw content: %w", err)
	}

	text, err := convert.ToText(data)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no description text found")
	}

	textPath := filepath.Join(cfg.DescriptionsDir, textDir, id+".txt")
	if err := os.WriteFile(textPath, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("saving description text: %w", err)
	}
	return nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// sourceID derives a stable file identifier from a source URL or path.
func sourceID(source string) string {
	if isURL(source) {
		if u, err := url.Parse(source); err == nil {
			if id := u.Query().Get("tid"); id != "" {
				return "tid-" + id
			}
			base := filepath.Base(u.Path)
			if base != "" && base != "/" && base != "." {
				return sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
			}
			return sanitize(u.Host)
		}
	}
	base := filepath.Base(source)
	return sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
