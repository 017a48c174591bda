// Package iosfga adds taxonomic lineages to species records using a local
// copy of an SFGA (Species File Group Archive) dataset.
package iosfga

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gntree/internal/iofs"
	gntree "github.com/gnames/gntree/pkg"
	"github.com/gnames/gntree/pkg/config"
	"github.com/gnames/gntree/pkg/ent/rank"
	"github.com/gnames/gntree/pkg/ent/record"
	"github.com/gnames/gntree/pkg/parserpool"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type enricher struct {
	cfg    *config.Config
	db     *sql.DB
	pool   parserpool.Pool
	source record.Source
	hier   *hierarchy
	cache  *lru.Cache[string, match]
}

// New fetches the SFGA archive set in the configuration, builds its
// classification hierarchy and returns an Enricher that uses it.
func New(ctx context.Context, cfg *config.Config) (gntree.Enricher, error) {
	cacheDir := config.SFGACacheDir(cfg.HomeDir)
	if err := iofs.CleanDir(cacheDir); err != nil {
		return nil, err
	}

	gn.Info("Fetching SFGA archive <em>%s</em>", cfg.Enrich.SFGAPath)
	sqlitePath, err := fetchSFGA(cfg.Enrich.SFGAPath, cacheDir)
	if err != nil {
		return nil, err
	}

	db, err := openSFGA(sqlitePath)
	if err != nil {
		return nil, err
	}

	res, err := newEnricher(ctx, cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	res.db = db
	return res, nil
}

// newEnricher creates an enricher from an opened SFGA database.
func newEnricher(
	ctx context.Context,
	cfg *config.Config,
	db querier,
) (*enricher, error) {
	start := time.Now()
	cacheSize := cfg.Enrich.CacheSize
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.New[string, match](cacheSize)
	if err != nil {
		return nil, EnrichError(err)
	}

	res := &enricher{
		cfg:    cfg,
		pool:   parserpool.New(cfg.JobsNumber, nomcode.Botanical),
		source: record.NewSource(cfg.Enrich.Source),
		cache:  cache,
	}

	res.hier, err = buildHierarchy(ctx, db, res.pool, cfg.JobsNumber)
	if err != nil {
		res.pool.Close()
		return nil, err
	}

	dur := time.Since(start)
	slog.Info("SFGA data is ready",
		"taxa", len(res.hier.nodes),
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	gn.Info("Loaded <em>%s</em> taxa in %s",
		humanize.Comma(int64(len(res.hier.nodes))),
		gnfmt.TimeString(dur.Seconds()),
	)
	return res, nil
}

// Enrich fills lineage of records that do not have it yet.
func (e *enricher) Enrich(
	ctx context.Context,
	recs []record.Record,
) ([]record.Record, error) {
	res := make([]record.Record, len(recs))
	copy(res, recs)

	var idxs []int
	for i, v := range res {
		if len(v.Lineage) == 0 {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return res, nil
	}

	bar := pb.Full.Start(len(idxs))
	bar.Set("prefix", "Looking up lineages: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	chIn := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	jobs := max(e.cfg.JobsNumber, 1)
	for range jobs {
		g.Go(func() error {
			for i := range chIn {
				// each worker writes to its own elements only
				e.enrichRecord(&res[i])
				bar.Increment()
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(chIn)
		for _, i := range idxs {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case chIn <- i:
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.report(res, idxs)
	return res, nil
}

func (e *enricher) enrichRecord(rec *record.Record) {
	m := e.lookup(rec.SpeciesName)
	if m.confidence == record.NoConfidence {
		return
	}
	rec.Lineage = m.lineage
	rec.Confidence = m.confidence
	rec.Source = e.source
}

func (e *enricher) report(recs []record.Record, idxs []int) {
	var found int
	for _, i := range idxs {
		if len(recs[i].Lineage) > 0 {
			found++
		}
	}
	slog.Info("Lineage lookup is done",
		"records", len(idxs),
		"found", found,
		"bad_nodes", len(e.hier.badNodes),
	)
	gn.Info("Found lineages for <em>%s</em> out of %s records",
		humanize.Comma(int64(found)), humanize.Comma(int64(len(idxs))))
	for id, tp := range e.hier.badNodes {
		switch tp {
		case missingBadNode:
			slog.Warn("Missing parent in hierarchy", "id", id)
		case circularBadNode:
			slog.Warn("Circular parent chain in hierarchy", "id", id)
		}
	}
}

// Close releases the parser pool and the database.
func (e *enricher) Close() error {
	e.pool.Close()
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// match is the result of a lineage lookup.
type match struct {
	lineage    []record.Taxon
	confidence record.Confidence
}

// lookup finds the lineage of a name. Accepted taxa give high confidence,
// synonyms give medium confidence and matches of the genus of a species
// name give low confidence. No match returns NoConfidence.
func (e *enricher) lookup(name string) match {
	stripped, _ := rank.StripAnnotation(strings.TrimSpace(name))
	can, card := e.pool.Canonical(stripped)
	if can == "" {
		return match{}
	}
	if m, ok := e.cache.Get(can); ok {
		return m
	}

	m := e.match(can, card)
	e.cache.Add(can, m)
	return m
}

func (e *enricher) match(can string, card int) match {
	h := e.hier
	if id, ok := h.pick(h.taxa[can], true); ok {
		return match{
			lineage:    toTaxa(h.lineage(id, false)),
			confidence: record.High,
		}
	}

	if id, ok := h.pick(h.synonyms[can], false); ok {
		// ancestors of the accepted taxon are ancestors of the synonym
		return match{
			lineage:    toTaxa(h.lineage(id, false)),
			confidence: record.Medium,
		}
	}

	if card < 2 {
		return match{}
	}
	genus, _, _ := strings.Cut(can, " ")
	for _, id := range h.taxa[genus] {
		node := h.nodes[id]
		if node.rank != rank.Genus || !node.isAccepted() {
			continue
		}
		return match{
			lineage:    toTaxa(h.lineage(id, true)),
			confidence: record.Low,
		}
	}
	return match{}
}

// pick returns the first ID from the list that points to an accepted
// taxon. If acceptedOnly is false, any existing taxon qualifies.
func (h *hierarchy) pick(ids []string, acceptedOnly bool) (string, bool) {
	for _, id := range ids {
		node, ok := h.nodes[id]
		if !ok {
			continue
		}
		if acceptedOnly && !node.isAccepted() {
			continue
		}
		return id, true
	}
	return "", false
}

func toTaxa(nodes []*hNode) []record.Taxon {
	res := make([]record.Taxon, len(nodes))
	for i, v := range nodes {
		res[i] = record.Taxon{Name: v.name, Rank: v.rank}
	}
	return res
}
