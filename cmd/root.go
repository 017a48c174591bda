/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gntree/internal/iofs"
	"github.com/gnames/gntree/internal/iologger"
	gntree "github.com/gnames/gntree/pkg"
	"github.com/gnames/gntree/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the base command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s",
			gntree.Version, gntree.Build),
		Use:   "gntree",
		Short: "GNtree builds taxonomic trees out of eDNA species tables",
		Long: `GNtree reads eDNA and haplotype species tables and organizes
detected taxa into a single deduplicated taxonomic tree.

The tree can be printed as nested JSON, or flattened into an ordered list
of taxa with fixed indentation levels for heatmaps and other row-aligned
charts. Records without lineage can get it from a local SFGA archive
(for example WoRMS or GBIF backbone).

Commands:
  - tree: print the taxonomic tree
  - flat: print the flattened tree
  - compose: print taxonomic composition of sites

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNTREE_*)
  3. Config file (~/.config/gntree/config.yaml)
  4. Built-in defaults`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for gntree")

	rootCmd.AddCommand(getTreeCmd())
	rootCmd.AddCommand(getFlatCmd())
	rootCmd.AddCommand(getComposeCmd())

	return rootCmd
}

// bootstrap prepares directories, logging and configuration before any
// subcommand runs. Logging starts with defaults and is set up again once
// the user's settings are known.
func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	if homeDir, err = os.UserHomeDir(); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	steps := []func() error{
		func() error { return iofs.EnsureDirs(homeDir) },
		func() error {
			return iologger.Init(config.LogDir(homeDir), config.New().Log)
		},
		func() error { return iofs.EnsureConfigFile(homeDir) },
		loadConfig,
		func() error { return iologger.Init(config.LogDir(homeDir), cfg.Log) },
	}
	for _, step := range steps {
		if err = step(); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"jobs", cfg.JobsNumber,
	)
	return nil
}

// loadConfig merges config.yaml and GNTREE_* variables over defaults.
func loadConfig() error {
	fileCfg, err := initConfig(homeDir)
	if err != nil {
		return err
	}
	opts = append(fileCfg.ToOptions(), config.OptHomeDir(homeDir))
	cfg = config.New()
	cfg.Update(opts)
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	path := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(path)
	initEnvVars(v)

	var res config.Config
	err := v.ReadInConfig()
	if err == nil {
		err = v.Unmarshal(&res)
	}
	if err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Only persistent settings (see config.ToOptions) have variables.
	// Names are given in full, BindEnv with an explicit name ignores the
	// prefix.
	v.SetEnvPrefix("GNTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Log configuration
	v.BindEnv("log.level", "GNTREE_LOG_LEVEL")
	v.BindEnv("log.format", "GNTREE_LOG_FORMAT")
	v.BindEnv("log.destination", "GNTREE_LOG_DESTINATION")

	// Tree configuration
	v.BindEnv("tree.root_name", "GNTREE_TREE_ROOT_NAME")

	// CSV configuration
	v.BindEnv("csv.name_field", "GNTREE_CSV_NAME_FIELD")
	v.BindEnv("csv.rank_field", "GNTREE_CSV_RANK_FIELD")
	v.BindEnv("csv.confidence_field", "GNTREE_CSV_CONFIDENCE_FIELD")
	v.BindEnv("csv.source_field", "GNTREE_CSV_SOURCE_FIELD")
	v.BindEnv("csv.delimiter", "GNTREE_CSV_DELIMITER")

	// Enrichment configuration
	v.BindEnv("enrich.source", "GNTREE_ENRICH_SOURCE")
	v.BindEnv("enrich.cache_size", "GNTREE_ENRICH_CACHE_SIZE")

	// Output configuration
	v.BindEnv("output.format", "GNTREE_OUTPUT_FORMAT")

	// General configuration
	v.BindEnv("jobs_number", "GNTREE_JOBS_NUMBER")

	v.AutomaticEnv()
}
