package cmd

import (
	"context"
	"errors"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gntree/pkg/composition"
	"github.com/gnames/gntree/pkg/ent/rank"
	"github.com/gnames/gntree/pkg/errcode"
	"github.com/gnames/gntree/pkg/output"
	"github.com/spf13/cobra"
)

// getComposeCmd returns the compose command.
func getComposeCmd() *cobra.Command {
	var (
		flags   inputFlags
		rankStr string
	)

	composeCmd := &cobra.Command{
		Use:   "compose FILE",
		Short: "Print taxonomic composition of sites",
		Long: `Sum observations of every site by taxa of a given rank.

For every site the command shows the number of observations that belong
to each taxon of the rank (for example each phylum) and their percentage.
Observations of records that have no taxon of that rank in their lineage
are reported as 'unassigned'.

Formats:
  - compact, pretty: JSON
  - csv, tsv, text: table

Examples:
  gntree compose species.csv
  gntree compose species.csv --rank class -f csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Update(flags.options(cmd))
			err := runCompose(cmd, args[0], rankStr)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	flags.register(composeCmd, "text")

	composeCmd.Flags().StringVarP(
		&rankStr, "rank", "R", "phylum",
		"rank of groups: kingdom, phylum, class, order, family, genus",
	)

	return composeCmd
}

func runCompose(cmd *cobra.Command, path, rankStr string) error {
	rnk := rank.New(rankStr)
	if rnk == rank.Unknown || rnk == rank.Species {
		return &gn.Error{
			Code: errcode.UnknownError,
			Msg:  "Rank <em>%s</em> cannot be used for composition",
			Vars: []any{rankStr},
			Err:  errors.New("unsupported composition rank"),
		}
	}

	ctx := context.Background()
	root, ds, err := loadTree(ctx, cfg, path)
	if err != nil {
		return err
	}

	comp := composition.Aggregate(root, rnk, ds.Sites)

	format := cfg.Output.Format
	f := outputFormat(format)
	if f == gnfmt.FormatNone {
		f = gnfmt.TSV
	}
	bs, err := output.Composition(comp, f)
	if err != nil {
		return OutputError(format, err)
	}

	return write(cmd.OutOrStdout(), format, bs)
}
