package iosfga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gntree/pkg/ent/rank"
	"github.com/gnames/gntree/pkg/parserpool"
	"golang.org/x/sync/errgroup"
)

// hNode represents a node in the taxonomic hierarchy.
type hNode struct {
	id       string
	parentID string
	status   string
	name     string // Canonical name parsed by gnparser
	rank     rank.Rank

	// flat holds the flat classification of the taxon (kingdom to genus)
	// that is used when the parent chain is too short.
	flat [6]string
}

func (n *hNode) isAccepted() bool {
	return !strings.Contains(n.status, "synonym") &&
		!strings.Contains(n.status, "misapplied")
}

// nameUsage represents a row from the SFGA taxon/name join query.
type nameUsage struct {
	id             string
	parentID       string
	status         string
	scientificName string
	rank           string
	flat           [6]string
}

type badNodeType int

const (
	missingBadNode badNodeType = iota + 1
	circularBadNode
)

// hierarchy keeps taxa of an SFGA archive and indices of their canonical
// names.
type hierarchy struct {
	nodes map[string]*hNode

	// taxa maps canonical names to IDs of taxa.
	taxa map[string][]string

	// synonyms maps canonical names of synonyms to IDs of their
	// accepted taxa.
	synonyms map[string][]string

	// badNodes tracks nodes that are referenced but don't exist in the
	// hierarchy, or take part in a parent cycle.
	badNodes map[string]badNodeType
	badMu    sync.Mutex
}

func newHierarchy() *hierarchy {
	return &hierarchy{
		nodes:    make(map[string]*hNode),
		taxa:     make(map[string][]string),
		synonyms: make(map[string][]string),
		badNodes: make(map[string]badNodeType),
	}
}

// buildHierarchy constructs a map of taxonomy nodes from the SFGA taxon
// table using concurrent workers, and indexes synonyms.
func buildHierarchy(
	ctx context.Context,
	db querier,
	pool parserpool.Pool,
	jobsNum int,
) (*hierarchy, error) {
	if jobsNum < 1 {
		jobsNum = 1
	}
	chIn := make(chan nameUsage)
	chOut := make(chan *hNode)

	g, ctx := errgroup.WithContext(ctx)
	var wg sync.WaitGroup

	for range jobsNum {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return hierarchyWorker(ctx, pool, chIn, chOut)
		})
	}

	res := newHierarchy()

	g.Go(func() error {
		return res.collect(ctx, chOut)
	})

	go func() {
		wg.Wait()
		close(chOut)
	}()

	g.Go(func() error {
		defer close(chIn)
		return loadNameUsage(ctx, db, chIn)
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, HierarchyError(err)
	}

	if err := res.loadSynonyms(ctx, db, pool); err != nil {
		return nil, HierarchyError(err)
	}

	slog.Info("Hierarchy is built",
		"taxa", len(res.nodes),
		"synonyms", len(res.synonyms),
	)
	return res, nil
}

// hierarchyWorker converts name usages to hierarchy nodes.
func hierarchyWorker(
	ctx context.Context,
	pool parserpool.Pool,
	chIn <-chan nameUsage,
	chOut chan<- *hNode,
) error {
	for nu := range chIn {
		row := processHierarchyRow(pool, nu)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case chOut <- row:
		}
	}
	return nil
}

// processHierarchyRow converts a nameUsage record into an hNode.
func processHierarchyRow(pool parserpool.Pool, nu nameUsage) *hNode {
	name, _ := pool.Canonical(nu.scientificName)

	parentID := strings.TrimSpace(nu.parentID)
	if parentID == nu.id {
		parentID = ""
	}

	res := &hNode{
		id:       strings.TrimSpace(nu.id),
		parentID: parentID,
		status:   strings.ToLower(strings.TrimSpace(nu.status)),
		name:     name,
		rank:     rank.New(nu.rank),
	}
	for i, v := range nu.flat {
		res.flat[i] = strings.TrimSpace(v)
	}
	return res
}

// collect gathers hNode results from workers into the hierarchy.
func (h *hierarchy) collect(ctx context.Context, chOut <-chan *hNode) error {
	var count int
	for node := range chOut {
		if node.id == "" {
			continue
		}

		count++
		if count%100_000 == 0 {
			progressReport(count, "hierarchy records")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			h.nodes[node.id] = node
			if node.name != "" {
				h.taxa[node.name] = append(h.taxa[node.name], node.id)
			}
		}
	}
	if count >= 100_000 {
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 80))
	}
	return nil
}

// loadNameUsage reads taxon and name data from SFGA and sends it to chIn.
func loadNameUsage(
	ctx context.Context,
	db querier,
	chIn chan<- nameUsage,
) error {
	query := `
		SELECT t.col__id, COALESCE(t.col__parent_id, ''),
		       COALESCE(t.col__status_id, ''),
		       n.col__scientific_name, COALESCE(n.col__rank_id, ''),
		       COALESCE(t.col__kingdom, ''), COALESCE(t.col__phylum, ''),
		       COALESCE(t.col__class, ''), COALESCE(t.col__order, ''),
		       COALESCE(t.col__family, ''), COALESCE(t.col__genus, '')
		FROM taxon t
		JOIN name n ON n.col__id = t.col__name_id
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var nu nameUsage
		err = rows.Scan(
			&nu.id,
			&nu.parentID,
			&nu.status,
			&nu.scientificName,
			&nu.rank,
			&nu.flat[0], &nu.flat[1], &nu.flat[2],
			&nu.flat[3], &nu.flat[4], &nu.flat[5],
		)
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case chIn <- nu:
		}
	}

	return rows.Err()
}

// loadSynonyms indexes canonical forms of synonyms by their accepted taxa.
func (h *hierarchy) loadSynonyms(
	ctx context.Context,
	db querier,
	pool parserpool.Pool,
) error {
	query := `
		SELECT s.col__taxon_id, n.col__scientific_name
		FROM synonym s
		JOIN name n ON n.col__id = s.col__name_id
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taxonID, name string
		if err = rows.Scan(&taxonID, &name); err != nil {
			return err
		}
		can, _ := pool.Canonical(name)
		if can == "" {
			continue
		}
		h.synonyms[can] = append(h.synonyms[can], taxonID)
	}
	return rows.Err()
}

// breadcrumbsNodes walks up the parent chain from the given ID to the root.
// It returns the path from root to the specified node.
func (h *hierarchy) breadcrumbsNodes(id string) []*hNode {
	var res []*hNode

	currID := strings.TrimSpace(id)
	visited := make(map[string]bool)

	for {
		if visited[currID] {
			h.markBad(currID, circularBadNode)
			return res
		}
		visited[currID] = true

		node, ok := h.nodes[currID]
		if !ok {
			h.markBad(currID, missingBadNode)
			return res
		}

		res = append([]*hNode{node}, res...)

		if node.parentID == "" {
			return res
		}
		currID = node.parentID
	}
}

func (h *hierarchy) markBad(id string, tp badNodeType) {
	h.badMu.Lock()
	defer h.badMu.Unlock()
	if _, ok := h.badNodes[id]; !ok {
		h.badNodes[id] = tp
	}
}

// flatNodes creates nodes out of flat classification of a taxon. They
// are used when the hierarchy of a taxon has fewer than two nodes.
func flatNodes(node *hNode) []*hNode {
	var res []*hNode
	for i, v := range node.flat {
		if v == "" {
			continue
		}
		res = append(res, &hNode{name: v, rank: rank.Lineage[i]})
	}
	return res
}

// lineage returns the classification of a taxon from the top down to
// its parent, or down to the taxon itself if withSelf is true. Only ranks
// used in lineages are kept.
func (h *hierarchy) lineage(id string, withSelf bool) []*hNode {
	nodes := h.breadcrumbsNodes(id)
	if len(nodes) == 0 {
		return nil
	}
	self := nodes[len(nodes)-1]
	if len(nodes) < 2 {
		nodes = append(flatNodes(self), self)
	}
	if !withSelf {
		nodes = nodes[:len(nodes)-1]
	}

	var res []*hNode
	seen := make(map[rank.Rank]struct{})
	for _, v := range nodes {
		if v.name == "" || v.rank < rank.Kingdom || v.rank > rank.Genus {
			continue
		}
		if v.name == self.name && !withSelf {
			continue
		}
		if _, ok := seen[v.rank]; ok {
			continue
		}
		seen[v.rank] = struct{}{}
		res = append(res, v)
	}
	return res
}

// progressReport writes progress to stderr with humanized numbers.
func progressReport(recNum int, entity string) {
	str := fmt.Sprintf("Processed %s %s", humanize.Comma(int64(recNum)), entity)
	fmt.Fprintf(os.Stderr, "\r%s", strings.Repeat(" ", 80))
	fmt.Fprintf(os.Stderr, "\r%s", str)
}
