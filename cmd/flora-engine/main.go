// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the flora-engine CLI.
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the flora-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "flora-engine",
	Short: "Structured trait extraction from botanical descriptions",
	Long: `flora-engine converts semi-structured taxon descriptions (Jepson-style
labeled clauses such as "Habit:", "Stem:", "Leaf:") into hierarchical
feature trees of typed trait values.

Each pipeline stage is a subcommand: ingest fetches and converts source
pages to plain text, parse runs the extraction engine, and herbarium
indexes parsed trees for querying and export.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./flora-engine.yaml or ~/.config/flora-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("flora-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "flora-engine"))
		}
	}

	viper.SetEnvPrefix("FLORA_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
