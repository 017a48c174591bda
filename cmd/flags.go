package cmd

import (
	"fmt"
	"os"

	gntree "github.com/gnames/gntree/pkg"
	"github.com/gnames/gntree/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", gntree.Version, gntree.Build)
		os.Exit(0)
	}
}

// inputFlags are flags shared by commands that read a species table.
type inputFlags struct {
	nameField  string
	delimiter  string
	sites      []string
	sfga       string
	source     string
	format     string
	rootName   string
	jobsNumber int
}

func (f *inputFlags) register(cmd *cobra.Command, defaultFormat string) {
	fs := cmd.Flags()
	fs.StringVarP(
		&f.nameField, "name-field", "n", "",
		"column with species names (default is the first column)",
	)
	fs.StringVarP(
		&f.delimiter, "delimiter", "d", "comma",
		"field separator of the input: comma, tab, semicolon",
	)
	fs.StringSliceVarP(
		&f.sites, "sites", "S", []string{},
		"columns with counts per site (empty = detect automatically)",
	)
	fs.StringVarP(
		&f.sfga, "sfga", "s", "",
		"path or URL of an SFGA archive to look up missing lineages",
	)
	fs.StringVar(
		&f.source, "sfga-source", "unknown",
		"provider of the SFGA archive: worms, gbif, unknown",
	)
	fs.StringVarP(
		&f.format, "format", "f", defaultFormat,
		"output format: compact, pretty, csv, tsv, text",
	)
	fs.StringVarP(
		&f.rootName, "root", "r", "Life",
		"name of the root of the tree",
	)
	fs.IntVarP(
		&f.jobsNumber, "jobs", "j", 0,
		"number of concurrent workers (default is the number of CPUs)",
	)
}

// options converts explicitly set flags to config options.
func (f *inputFlags) options(cmd *cobra.Command) []config.Option {
	var res []config.Option
	fs := cmd.Flags()
	if fs.Changed("name-field") {
		res = append(res, config.OptCSVNameField(f.nameField))
	}
	if fs.Changed("delimiter") {
		res = append(res, config.OptCSVDelimiter(f.delimiter))
	}
	if fs.Changed("sites") {
		res = append(res, config.OptCSVSiteFields(f.sites))
	}
	if fs.Changed("sfga") {
		res = append(res, config.OptEnrichSFGAPath(f.sfga))
	}
	if fs.Changed("sfga-source") {
		res = append(res, config.OptEnrichSource(f.source))
	}
	if fs.Changed("format") {
		res = append(res, config.OptOutputFormat(f.format))
	}
	if fs.Changed("root") {
		res = append(res, config.OptTreeRootName(f.rootName))
	}
	if fs.Changed("jobs") {
		res = append(res, config.OptJobsNumber(f.jobsNumber))
	}
	return res
}
