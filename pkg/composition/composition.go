// Package composition summarizes observations per site grouped by a
// taxonomic rank, e.g. phylum composition of control and farm sites.
package composition

import (
	"slices"

	"github.com/gnames/gntree/pkg/ent/rank"
	"github.com/gnames/gntree/pkg/tree"
)

// Composition holds per-site totals of a grouping rank.
type Composition struct {
	// Rank used for grouping.
	Rank rank.Rank `json:"rank"`

	// Sites in the order they were given.
	Sites []string `json:"sites"`

	// Groups are names of taxa at Rank, sorted alphabetically.
	Groups []string `json:"groups"`

	// Counts maps site to group to the sum of observations.
	Counts map[string]map[string]int `json:"counts"`

	// Percentages maps site to group to its share of the site total.
	Percentages map[string]map[string]float64 `json:"percentages"`

	// Unassigned maps site to observations of CSV entries that have no
	// ancestor at Rank.
	Unassigned map[string]int `json:"unassigned"`
}

// Aggregate sums site occurrences of CSV entries of the tree by their
// ancestor (or self) at the given rank. Every CSV entry contributes its
// own counts, a family-level entry and its species are counted separately.
func Aggregate(root *tree.Node, rnk rank.Rank, sites []string) Composition {
	res := Composition{
		Rank:        rnk,
		Sites:       sites,
		Counts:      make(map[string]map[string]int, len(sites)),
		Percentages: make(map[string]map[string]float64, len(sites)),
		Unassigned:  make(map[string]int, len(sites)),
	}
	for _, s := range sites {
		res.Counts[s] = make(map[string]int)
	}

	groups := make(map[string]struct{})
	var stack []*tree.Node
	tree.Walk(root, func(n *tree.Node, depth int) bool {
		stack = append(stack[:depth], n)
		if !n.CSVEntry {
			return true
		}
		// stack[0] is the synthetic root, not a taxon
		group, ok := groupName(stack[1:], rnk)
		if ok {
			groups[group] = struct{}{}
		}
		for _, s := range sites {
			v := n.SiteOccurrences[s]
			if ok {
				res.Counts[s][group] += v
			} else {
				res.Unassigned[s] += v
			}
		}
		return true
	})

	for k := range groups {
		res.Groups = append(res.Groups, k)
	}
	slices.Sort(res.Groups)

	for _, s := range sites {
		res.Percentages[s] = percentages(res.Counts[s])
	}
	return res
}

// groupName returns the name of the closest node at the rank on the path
// from the root.
func groupName(stack []*tree.Node, rnk rank.Rank) (string, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Rank == rnk {
			return stack[i].Name, true
		}
	}
	return "", false
}

func percentages(counts map[string]int) map[string]float64 {
	var total int
	for _, v := range counts {
		total += v
	}
	res := make(map[string]float64, len(counts))
	for k, v := range counts {
		if total == 0 {
			res[k] = 0
			continue
		}
		res[k] = float64(v) / float64(total) * 100
	}
	return res
}

// Total returns the sum of assigned observations for a site.
func (c Composition) Total(site string) int {
	var res int
	for _, v := range c.Counts[site] {
		res += v
	}
	return res
}
