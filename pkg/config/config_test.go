package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/gntree/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "gntree"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "gntree"),
		},
		{
			msg: "sfga dir",
			fn:  config.SFGACacheDir,
			res: filepath.Join(tempHome, ".cache", "gntree", "sfga"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "gntree", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "gntree", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		assert.Equal(t, "Life", cfg.Tree.RootName)

		assert.Equal(t, "", cfg.CSV.NameField)
		assert.Equal(t, "rank", cfg.CSV.RankField)
		assert.Equal(t, "score", cfg.CSV.ConfidenceField)
		assert.Equal(t, "source", cfg.CSV.SourceField)
		assert.Equal(t, "comma", cfg.CSV.Delimiter)
		assert.Nil(t, cfg.CSV.SiteFields)

		assert.Equal(t, "", cfg.Enrich.SFGAPath)
		assert.Equal(t, "unknown", cfg.Enrich.Source)
		assert.Equal(t, 10_000, cfg.Enrich.CacheSize)

		assert.Equal(t, "text", cfg.Output.Format)
		assert.False(t, cfg.Output.CSVOnly)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		// JobsNumber defaults to CPU count
		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})
}

func TestOptionTreeRootName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid name",
			input:    "Biota",
			expected: "Biota",
		},
		{
			name:     "trims whitespace",
			input:    "  Biota  ",
			expected: "Biota",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "Life", // Should keep default
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "Life", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptTreeRootName(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Tree.RootName)
		})
	}
}

func TestOptionCSVFields(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptCSVNameField(" species "),
		config.OptCSVRankField("taxon_rank"),
		config.OptCSVConfidenceField("credibility"),
		config.OptCSVSourceField(""),
	})
	assert.Equal(t, "species", cfg.CSV.NameField)
	assert.Equal(t, "taxon_rank", cfg.CSV.RankField)
	assert.Equal(t, "credibility", cfg.CSV.ConfidenceField)
	assert.Equal(t, "source", cfg.CSV.SourceField)
}

func TestOptionCSVDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		sep      rune
	}{
		{
			name:     "comma",
			input:    "comma",
			expected: "comma",
			sep:      ',',
		},
		{
			name:     "tab",
			input:    "tab",
			expected: "tab",
			sep:      '\t',
		},
		{
			name:     "normalizes to lowercase",
			input:    "SEMICOLON",
			expected: "semicolon",
			sep:      ';',
		},
		{
			name:     "ignores invalid value",
			input:    "pipe",
			expected: "comma", // Should keep default
			sep:      ',',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptCSVDelimiter(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.CSV.Delimiter)
			assert.Equal(t, tt.sep, cfg.Separator())
		})
	}
}

func TestOptionCSVSiteFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "sets fields",
			input:    []string{"site1", "site2"},
			expected: []string{"site1", "site2"},
		},
		{
			name:     "drops empty fields",
			input:    []string{" site1 ", "", "  "},
			expected: []string{"site1"},
		},
		{
			name:     "ignores empty slice",
			input:    []string{},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptCSVSiteFields(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.CSV.SiteFields)
		})
	}
}

func TestOptionEnrichSource(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "worms",
			input:    "worms",
			expected: "worms",
		},
		{
			name:     "normalizes to lowercase",
			input:    "GBIF",
			expected: "gbif",
		},
		{
			name:     "ignores invalid value",
			input:    "ncbi",
			expected: "unknown", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptEnrichSource(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Enrich.Source)
		})
	}
}

func TestOptionEnrichCacheSize(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid size",
			input:    500,
			expected: 500,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 10_000, // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -1,
			expected: 10_000, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptEnrichCacheSize(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Enrich.CacheSize)
		})
	}
}

func TestOptionOutputFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "pretty",
			input:    "pretty",
			expected: "pretty",
		},
		{
			name:     "tsv",
			input:    "TSV",
			expected: "tsv",
		},
		{
			name:     "ignores invalid value",
			input:    "xml",
			expected: "text", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptOutputFormat(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Output.Format)
		})
	}
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid log level - debug",
			input:    "debug",
			expected: "debug",
		},
		{
			name:     "sets valid log level - error",
			input:    "error",
			expected: "error",
		},
		{
			name:     "normalizes to lowercase",
			input:    "WARN",
			expected: "warn",
		},
		{
			name:     "ignores invalid value",
			input:    "verbose",
			expected: "info", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogLevel(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionLogDestination(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "stderr",
			input:    "stderr",
			expected: "stderr",
		},
		{
			name:     "stdout",
			input:    "STDOUT",
			expected: "stdout",
		},
		{
			name:     "ignores invalid value",
			input:    "syslog",
			expected: "file", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogDestination(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Destination)
		})
	}
}

func TestOptionJobsNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid jobs number",
			input:    4,
			expected: 4,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: runtime.NumCPU(), // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptJobsNumber(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.JobsNumber)
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptTreeRootName("Biota"),
			config.OptCSVDelimiter("tab"),
			config.OptOutputFormat("csv"),
			config.OptLogLevel("debug"),
			config.OptJobsNumber(16),
		}

		cfg.Update(opts)

		assert.Equal(t, "Biota", cfg.Tree.RootName)
		assert.Equal(t, "tab", cfg.CSV.Delimiter)
		assert.Equal(t, "csv", cfg.Output.Format)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 16, cfg.JobsNumber)

		// Unchanged fields keep defaults
		assert.Equal(t, "rank", cfg.CSV.RankField)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptOutputFormat("compact"),
			config.OptOutputFormat("pretty"),
		}

		cfg.Update(opts)

		assert.Equal(t, "pretty", cfg.Output.Format)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		opts := []config.Option{
			config.OptTreeRootName("Biota"),
			config.OptCSVNameField("species"),
			config.OptCSVRankField("taxon_rank"),
			config.OptCSVConfidenceField("credibility"),
			config.OptCSVSourceField("provider"),
			config.OptCSVDelimiter("semicolon"),
			config.OptEnrichSource("worms"),
			config.OptEnrichCacheSize(100),
			config.OptOutputFormat("tsv"),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(8),
		}
		original.Update(opts)

		convertedOpts := original.ToOptions()
		newCfg := config.New()
		newCfg.Update(convertedOpts)

		assert.Equal(t, original.Tree, newCfg.Tree)
		assert.Equal(t, original.CSV, newCfg.CSV)
		assert.Equal(t, original.Enrich, newCfg.Enrich)
		assert.Equal(t, original.Output, newCfg.Output)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptCSVSiteFields([]string{"s1", "s2"}),
			config.OptEnrichSFGAPath("/data/worms.sqlite"),
			config.OptOutputCSVOnly(true),
		})

		opts := cfg.ToOptions()
		newCfg := config.New()
		newCfg.Update(opts)

		assert.Equal(t, "", newCfg.HomeDir)
		assert.Nil(t, newCfg.CSV.SiteFields)
		assert.Equal(t, "", newCfg.Enrich.SFGAPath)
		assert.False(t, newCfg.Output.CSVOnly)
	})
}
