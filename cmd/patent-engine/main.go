// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the patent-engine CLI.
// Implements: prd001-retrieval, prd002-resilience, prd003-fallback,
//             prd004-enrichment, prd005-archive (CLI surface).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bkuznetsov/patent-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the patent-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "patent-engine",
	Short: "Resilient retrieval pipeline for patent documents",
	Long: `patent-engine retrieves patent documents from the Rospatent search
platform and keeps working when the platform does not: transient failures
are retried with backoff, unsafe redirects are refused, and failed fetches
degrade through reconstruction tiers so a search always returns usable,
honestly labeled records.

Retrieval operations are subcommands: search, fetch, and similar. The
archive subcommand manages a local full-text store of retrieved patents.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./patent-engine.yaml or ~/.config/patent-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("patent-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "patent-engine"))
		}
	}

	viper.SetEnvPrefix("PATENT_ENGINE")
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
