// Package config provides configuration management for GNtree.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Log: level, format, destination
//   - Tree: root_name
//   - CSV: name_field, rank_field, confidence_field, source_field, delimiter
//   - Enrich: source, cache_size
//   - Output: format
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - CSV.SiteFields, Enrich.SFGAPath, Output.CSVOnly
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNTREE_ prefix with underscores for nesting:
//
//	GNTREE_LOG_LEVEL=info
//	GNTREE_CSV_RANK_FIELD=rank
//	GNTREE_OUTPUT_FORMAT=pretty
//	GNTREE_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete GNtree configuration.
type Config struct {
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Tree contains settings of the tree builder.
	Tree TreeConfig `mapstructure:"tree" yaml:"tree"`

	// CSV describes columns of the input files.
	CSV CSVConfig `mapstructure:"csv" yaml:"csv"`

	// Enrich contains settings of taxonomy lookup in SFGA archives.
	Enrich EnrichConfig `mapstructure:"enrich" yaml:"enrich"`

	// Output contains settings of the results' presentation.
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// JobsNumber is the number of concurrent workers used for taxonomy
	// lookups. Default value is set according to the number of threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// TreeConfig contains settings of the tree builder.
type TreeConfig struct {
	// RootName is the name of the synthetic root of the tree.
	RootName string `mapstructure:"root_name" yaml:"root_name"`
}

// CSVConfig describes how to read species records from CSV files.
type CSVConfig struct {
	// NameField is the column with species names. Empty value means the
	// first column.
	NameField string `mapstructure:"name_field" yaml:"name_field"`

	// RankField is the column with the rank of a record.
	RankField string `mapstructure:"rank_field" yaml:"rank_field"`

	// ConfidenceField is the column with the credibility score of
	// a taxonomy match (HIGH, MODERATE, LOW).
	ConfidenceField string `mapstructure:"confidence_field" yaml:"confidence_field"`

	// SourceField is the column with the provenance of a taxonomy match
	// (worms, gbif).
	SourceField string `mapstructure:"source_field" yaml:"source_field"`

	// Delimiter separates fields. Valid values: "comma", "tab", "semicolon".
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// SiteFields are columns with observation counts. Empty slice means
	// site columns are detected automatically.
	SiteFields []string `mapstructure:"site_fields" yaml:"site_fields"`
}

// EnrichConfig contains settings for looking up lineages in a local
// SFGA archive.
type EnrichConfig struct {
	// SFGAPath is a path or URL to an SFGA archive. Empty value disables
	// enrichment.
	SFGAPath string `mapstructure:"sfga_path" yaml:"sfga_path"`

	// Source tells where the SFGA data came from.
	// Valid values: "worms", "gbif", "unknown".
	Source string `mapstructure:"source" yaml:"source"`

	// CacheSize is the number of lineages kept in the lookup cache.
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
}

// OutputConfig contains settings of the output.
type OutputConfig struct {
	// Format of the output.
	// Valid values: "compact", "pretty", "csv", "tsv", "text".
	Format string `mapstructure:"format" yaml:"format"`

	// CSVOnly removes taxa inferred from lineages from flat output.
	CSVOnly bool `mapstructure:"csv_only" yaml:"csv_only"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		Tree: TreeConfig{
			RootName: "Life",
		},
		CSV: CSVConfig{
			RankField:       "rank",
			ConfidenceField: "score",
			SourceField:     "source",
			Delimiter:       "comma",
		},
		Enrich: EnrichConfig{
			Source:    "unknown",
			CacheSize: 10_000,
		},
		Output: OutputConfig{
			Format: "text",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}

// Separator returns the rune that corresponds to CSV.Delimiter.
func (c *Config) Separator() rune {
	switch c.CSV.Delimiter {
	case "tab":
		return '\t'
	case "semicolon":
		return ';'
	default:
		return ','
	}
}
