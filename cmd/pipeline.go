package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gntree/internal/iocsv"
	"github.com/gnames/gntree/internal/iosfga"
	"github.com/gnames/gntree/pkg/config"
	"github.com/gnames/gntree/pkg/ent/record"
	"github.com/gnames/gntree/pkg/tree"
)

// loadTree reads a species table, adds missing lineages if an SFGA
// archive is given, and builds the taxonomic tree.
func loadTree(
	ctx context.Context,
	cfg *config.Config,
	path string,
) (*tree.Node, *record.Dataset, error) {
	ds, err := iocsv.New(cfg, path).Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Enrich.SFGAPath != "" {
		enr, err := iosfga.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		defer enr.Close()

		ds.Records, err = enr.Enrich(ctx, ds.Records)
		if err != nil {
			return nil, nil, err
		}
	}

	root := tree.Build(ds.Records, tree.OptRootName(cfg.Tree.RootName))
	slog.Info("Tree is built",
		"records", len(ds.Records),
		"species_count", root.SpeciesCount,
	)
	return root, ds, nil
}

// outputFormat converts the output format of configuration to gnfmt
// format. Text format has no gnfmt counterpart and returns FormatNone.
func outputFormat(s string) gnfmt.Format {
	switch s {
	case "compact":
		return gnfmt.CompactJSON
	case "pretty":
		return gnfmt.PrettyJSON
	case "csv":
		return gnfmt.CSV
	case "tsv":
		return gnfmt.TSV
	default:
		return gnfmt.FormatNone
	}
}

func write(w io.Writer, format string, bs []byte) error {
	if _, err := w.Write(bs); err != nil {
		return OutputError(format, err)
	}
	if len(bs) > 0 && bs[len(bs)-1] != '\n' {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return OutputError(format, err)
		}
	}
	return nil
}
