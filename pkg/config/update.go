package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, SiteFields, SFGAPath, CSVOnly).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	s = c.Tree.RootName
	if s != "" {
		res = append(res, OptTreeRootName(s))
	}

	s = c.CSV.NameField
	if s != "" {
		res = append(res, OptCSVNameField(s))
	}
	s = c.CSV.RankField
	if s != "" {
		res = append(res, OptCSVRankField(s))
	}
	s = c.CSV.ConfidenceField
	if s != "" {
		res = append(res, OptCSVConfidenceField(s))
	}
	s = c.CSV.SourceField
	if s != "" {
		res = append(res, OptCSVSourceField(s))
	}
	s = c.CSV.Delimiter
	if s != "" {
		res = append(res, OptCSVDelimiter(s))
	}

	s = c.Enrich.Source
	if s != "" {
		res = append(res, OptEnrichSource(s))
	}
	i = c.Enrich.CacheSize
	if i > 0 {
		res = append(res, OptEnrichCacheSize(i))
	}

	s = c.Output.Format
	if s != "" {
		res = append(res, OptOutputFormat(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"CSV.Delimiter":   {"comma": s, "tab": s, "semicolon": s},
		"Enrich.Source":   {"worms": s, "gbif": s, "unknown": s},
		"Output.Format":   {"compact": s, "pretty": s, "csv": s, "tsv": s, "text": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
