package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gntree/pkg/config"
	"github.com/gnames/gntree/pkg/ent/record"
	"github.com/gnames/gntree/pkg/flatten"
	"github.com/gnames/gntree/pkg/output"
	"github.com/spf13/cobra"
)

// getFlatCmd returns the flat command.
func getFlatCmd() *cobra.Command {
	var (
		flags         inputFlags
		csvOnly       bool
		nonEmpty      bool
		minConfidence string
	)

	flatCmd := &cobra.Command{
		Use:   "flat FILE",
		Short: "Print flattened taxonomic tree of a species table",
		Long: `Build a taxonomic tree out of a species table and print it as an
ordered list of taxa for heatmaps and other row-aligned charts.

Each taxon has a fixed indentation level that depends on its rank:
  kingdom 0, phylum 0, class 2, order 3, family 4, genus 5, species 6.
Taxa of unknown rank are placed one level below their parent.

Formats:
  - compact, pretty: JSON array of taxa
  - csv, tsv: one row per taxon with counts per site
  - text: indented list

Examples:
  gntree flat species.csv -f csv
  gntree flat species.csv -f tsv --csv-only
  gntree flat species.csv --min-confidence high`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd)
			if cmd.Flags().Changed("csv-only") {
				opts = append(opts, config.OptOutputCSVOnly(csvOnly))
			}
			cfg.Update(opts)

			var preds []flatten.Predicate
			if cfg.Output.CSVOnly {
				preds = append(preds, flatten.CSVOnly)
			}
			if nonEmpty {
				preds = append(preds, flatten.NonEmpty)
			}
			if minConfidence != "" {
				c := record.NewConfidence(minConfidence)
				if c == record.NoConfidence {
					gn.Warn("Unknown confidence <em>%s</em>, ignoring", minConfidence)
				} else {
					preds = append(preds, flatten.MinConfidence(c))
				}
			}

			err := runFlat(cmd, args[0], preds)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	flags.register(flatCmd, "text")

	flatCmd.Flags().BoolVarP(
		&csvOnly, "csv-only", "c", false,
		"show only taxa from the input, without inferred ancestors",
	)
	flatCmd.Flags().BoolVarP(
		&nonEmpty, "non-empty", "e", false,
		"show only input taxa observed at least at one site",
	)
	flatCmd.Flags().StringVarP(
		&minConfidence, "min-confidence", "m", "",
		"show only input taxa with at least this confidence: low, medium, high",
	)

	return flatCmd
}

func runFlat(cmd *cobra.Command, path string, preds []flatten.Predicate) error {
	ctx := context.Background()
	root, ds, err := loadTree(ctx, cfg, path)
	if err != nil {
		return err
	}

	taxa := flatten.Flatten(root)
	if len(preds) > 0 {
		taxa = flatten.Filter(taxa, preds...)
	}

	format := cfg.Output.Format
	var bs []byte
	f := outputFormat(format)
	if f == gnfmt.FormatNone {
		bs = []byte(output.Text(taxa))
	} else {
		bs, err = output.Flat(taxa, ds.Sites, f)
		if err != nil {
			return OutputError(format, err)
		}
	}

	return write(cmd.OutOrStdout(), format, bs)
}
