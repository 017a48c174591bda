// Package gntree builds deduplicated taxonomic trees out of flat eDNA and
// haplotype species records and linearizes them for row-aligned rendering.
//
// The pure core lives in pkg/tree (construction) and pkg/flatten
// (linearization). This package holds version information and the contracts
// for the upstream collaborators that produce records.
package gntree

import (
	"context"

	"github.com/gnames/gntree/pkg/ent/record"
)

var (
	// Version of gntree, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)

// Loader produces a flat list of species records, usually from a CSV file.
type Loader interface {
	// Load reads the input and returns records together with the ordered
	// list of sites found in the input.
	Load(ctx context.Context) (*record.Dataset, error)
}

// Enricher adds taxonomic lineage to records that do not have one.
type Enricher interface {
	// Enrich returns records with lineage, confidence and source filled in
	// where a taxonomy match was found. Records that already carry lineage
	// are returned unchanged. The order of records is preserved.
	Enrich(ctx context.Context, recs []record.Record) ([]record.Record, error)

	// Close releases resources held by the enricher.
	Close() error
}
