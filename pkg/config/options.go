package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptTreeRootName sets the name of the synthetic root of the tree.
func OptTreeRootName(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Tree Root Name", s) {
			c.Tree.RootName = s
		}
	}
}

// OptCSVNameField sets the column with species names.
func OptCSVNameField(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("CSV Name Field", s) {
			c.CSV.NameField = s
		}
	}
}

// OptCSVRankField sets the column with ranks of records.
func OptCSVRankField(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("CSV Rank Field", s) {
			c.CSV.RankField = s
		}
	}
}

// OptCSVConfidenceField sets the column with credibility scores.
func OptCSVConfidenceField(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("CSV Confidence Field", s) {
			c.CSV.ConfidenceField = s
		}
	}
}

// OptCSVSourceField sets the column with provenance of taxonomy matches.
func OptCSVSourceField(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("CSV Source Field", s) {
			c.CSV.SourceField = s
		}
	}
}

// OptCSVDelimiter sets the field separator of input files.
// Valid values: "comma", "tab", "semicolon".
func OptCSVDelimiter(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("CSV.Delimiter", s) {
			c.CSV.Delimiter = s
		}
	}
}

// OptCSVSiteFields sets columns with observation counts.
// Runtime-only field - not in ToOptions().
func OptCSVSiteFields(ss []string) Option {
	var res []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return func(c *Config) {
		if len(res) > 0 {
			c.CSV.SiteFields = res
		}
	}
}

// OptEnrichSFGAPath sets the path or URL of an SFGA archive used for
// lineage lookups.
// Runtime-only field - not in ToOptions().
func OptEnrichSFGAPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SFGA Path", s) {
			c.Enrich.SFGAPath = s
		}
	}
}

// OptEnrichSource sets the provenance of the SFGA data.
// Valid values: "worms", "gbif", "unknown".
func OptEnrichSource(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Enrich.Source", s) {
			c.Enrich.Source = s
		}
	}
}

// OptEnrichCacheSize sets the number of cached lineages.
func OptEnrichCacheSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Enrich Cache Size", i) {
			c.Enrich.CacheSize = i
		}
	}
}

// OptOutputFormat sets the output format.
// Valid values: "compact", "pretty", "csv", "tsv", "text".
func OptOutputFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Output.Format", s) {
			c.Output.Format = s
		}
	}
}

// OptOutputCSVOnly sets whether flat output contains only CSV entries.
// Runtime-only field - not in ToOptions().
func OptOutputCSVOnly(b bool) Option {
	return func(c *Config) {
		c.Output.CSVOnly = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for lookups.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
