package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gntree/pkg/flatten"
	"github.com/gnames/gntree/pkg/output"
	"github.com/spf13/cobra"
)

// getTreeCmd returns the tree command.
func getTreeCmd() *cobra.Command {
	var flags inputFlags

	treeCmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print taxonomic tree of a species table",
		Long: `Build a deduplicated taxonomic tree out of a species table.

Every species, and every taxon of their lineages, appears in the tree once.
Records without lineage are attached to the root, unless an SFGA archive
is given with --sfga, in which case their lineage is looked up there.

Formats:
  - compact, pretty: nested JSON
  - text: indented list (CSV entries are marked with '*')

Examples:
  gntree tree species.csv
  gntree tree species.csv -f pretty
  gntree tree species.csv --sfga worms.sqlite.zip --sfga-source worms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Update(flags.options(cmd))
			err := runTree(cmd, args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	flags.register(treeCmd, "text")

	return treeCmd
}

func runTree(cmd *cobra.Command, path string) error {
	ctx := context.Background()
	root, _, err := loadTree(ctx, cfg, path)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	var bs []byte
	switch outputFormat(format) {
	case gnfmt.CompactJSON, gnfmt.PrettyJSON:
		bs, err = output.Tree(root, outputFormat(format))
	case gnfmt.CSV, gnfmt.TSV:
		gn.Warn("Tree cannot be shown as <em>%s</em>, using JSON", format)
		bs, err = output.Tree(root, gnfmt.CompactJSON)
	default:
		bs = []byte(output.Text(flatten.Flatten(root)))
	}
	if err != nil {
		return OutputError(format, err)
	}

	return write(cmd.OutOrStdout(), format, bs)
}
