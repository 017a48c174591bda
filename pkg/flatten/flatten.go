// Package flatten linearizes a taxonomic tree into an ordered list of
// taxa for row-aligned rendering. Tree views and heatmaps render the same
// list, so both agree on ordering, indentation and parent/child structure.
package flatten

import (
	"slices"

	"github.com/gnames/gntree/pkg/ent/rank"
	"github.com/gnames/gntree/pkg/tree"
)

// Taxon is a read-only projection of a tree node.
type Taxon struct {
	Name string    `json:"name"`
	Rank rank.Rank `json:"rank"`

	// IndentLevel is derived from Rank, not from the depth in the tree,
	// so taxa of the same rank align across branches of differing depth.
	IndentLevel int `json:"indentLevel"`

	// Path holds names from the first level below the root down to
	// this taxon inclusive.
	Path []string `json:"path"`

	// Node is the originating tree node. Consumers must not modify it.
	Node *tree.Node `json:"-"`
}

// Flatten returns taxa of the tree in pre-order, children in insertion
// order. The synthetic root is not part of the result unless it is a CSV
// entry. Ancestor-only nodes are always included.
func Flatten(root *tree.Node) []Taxon {
	if root == nil {
		return nil
	}
	var res []Taxon
	if root.CSVEntry {
		res = visit(root, nil, -1, res)
		return res
	}
	for _, ch := range root.Children {
		res = visit(ch, nil, -1, res)
	}
	return res
}

func visit(n *tree.Node, parentPath []string, parentIndent int, res []Taxon) []Taxon {
	path := make([]string, len(parentPath)+1)
	copy(path, parentPath)
	path[len(parentPath)] = n.Name

	indent := n.Rank.Indent(parentIndent)
	res = append(res, Taxon{
		Name:        n.Name,
		Rank:        n.Rank,
		IndentLevel: indent,
		Path:        path,
		Node:        n,
	})
	for _, ch := range n.Children {
		res = visit(ch, path, indent, res)
	}
	return res
}

// Subtree returns the index right after the last descendant of taxa[i].
// Descendants are the entries that follow taxa[i] and have its path as a
// prefix.
func Subtree(taxa []Taxon, i int) int {
	if i < 0 || i >= len(taxa) {
		return i
	}
	j := i + 1
	for j < len(taxa) && hasPrefix(taxa[j].Path, taxa[i].Path) {
		j++
	}
	return j
}

// Children returns indices of direct children of taxa[i], using only the
// flattened list. Indentation alone cannot find subtree boundaries because
// kingdom and phylum share a level, so the path is used instead.
func Children(taxa []Taxon, i int) []int {
	if i < 0 || i >= len(taxa) {
		return nil
	}
	var res []int
	depth := len(taxa[i].Path)
	end := Subtree(taxa, i)
	for j := i + 1; j < end; j++ {
		if len(taxa[j].Path) == depth+1 {
			res = append(res, j)
		}
	}
	return res
}

// Parent returns the index of the parent of taxa[i] or -1 for top-level
// taxa.
func Parent(taxa []Taxon, i int) int {
	if i <= 0 || i >= len(taxa) {
		return -1
	}
	depth := len(taxa[i].Path)
	for j := i - 1; j >= 0; j-- {
		if len(taxa[j].Path) == depth-1 && hasPrefix(taxa[i].Path, taxa[j].Path) {
			return j
		}
	}
	return -1
}

func hasPrefix(path, prefix []string) bool {
	if len(path) <= len(prefix) {
		return false
	}
	return slices.Equal(path[:len(prefix)], prefix)
}
