// Package tree builds a single rooted taxonomic hierarchy out of flat
// species records.
//
// Every (name, rank) pair appears in the tree exactly once. When a record
// names a taxon that already exists as an inferred ancestor of another
// record, the existing node is turned into a CSV entry in place instead of
// getting a duplicate.
package tree

import (
	"strings"

	"github.com/gnames/gntree/pkg/ent/rank"
	"github.com/gnames/gntree/pkg/ent/record"
)

// RootName is the default name of the synthetic root.
const RootName = "Life"

// Option configures Build.
type Option func(*builder)

// OptRootName sets the name of the synthetic root.
func OptRootName(s string) Option {
	return func(b *builder) {
		s = strings.TrimSpace(s)
		if s != "" {
			b.rootName = s
		}
	}
}

type builder struct {
	rootName string
	root     *Node
	index    map[key]*Node
}

type pathElem struct {
	name         string
	originalName string
	rank         rank.Rank
}

// Build converts records into a rooted hierarchy. An empty input gives a
// root without children. Records with an empty lineage are attached
// directly to the root. Build never fails and allocates a new tree on
// every call.
//
// The synthetic root is not a taxon and takes no part in (name, rank)
// matching. A record that has the root's name becomes an ordinary node
// below it, uniqueness holds for all nodes under the root.
func Build(recs []record.Record, opts ...Option) *Node {
	b := builder{rootName: RootName}
	for _, opt := range opts {
		opt(&b)
	}
	b.root = newNode(b.rootName, rank.Kingdom)
	b.index = make(map[key]*Node)

	for i := range recs {
		b.add(recs[i])
	}

	finalize(b.root)
	b.root.IsLeaf = len(b.root.Children) == 0
	return b.root
}

// add attaches the record's path to the tree. Lookup is done by (name,
// rank) over the whole tree, so a taxon met at different points of
// different lineages always resolves to the same node. Existing nodes are
// never moved: the walk starts at the deepest path element that already
// exists, and only the elements below it are created. Missing elements
// above it are dropped, otherwise they would hang in the tree without
// descendants.
func (b *builder) add(rec record.Record) {
	path := recordPath(rec)
	curr := b.root
	start := 0
	for i := len(path) - 1; i >= 0; i-- {
		if node, ok := b.index[path[i].key()]; ok {
			curr = node
			start = i + 1
			break
		}
	}

	for _, el := range path[start:] {
		node := newNode(el.name, el.rank)
		node.OriginalName = el.originalName
		b.index[el.key()] = node
		curr.Children = append(curr.Children, node)
		curr = node
	}

	curr.merge(rec, path[len(path)-1].originalName)
}

// recordPath returns lineage entries followed by the record itself.
// Blank lineage names are skipped.
func recordPath(rec record.Record) []pathElem {
	res := make([]pathElem, 0, len(rec.Lineage)+1)
	for _, v := range rec.Lineage {
		if strings.TrimSpace(v.Name) == "" {
			continue
		}
		res = append(res, newPathElem(v.Name, v.Rank))
	}
	return append(res, newPathElem(rec.SpeciesName, rec.Rank))
}

func (el pathElem) key() key {
	return key{name: el.name, rank: el.rank}
}

func newPathElem(name string, rnk rank.Rank) pathElem {
	name = strings.TrimSpace(name)
	canonical, changed := rank.StripAnnotation(name)
	res := pathElem{name: canonical, rank: rnk}
	if changed {
		res.originalName = name
	}
	return res
}

// finalize computes SpeciesCount bottom-up and returns it for the node.
func finalize(n *Node) int {
	count := 0
	if n.CSVEntry {
		count = 1
	}
	for _, ch := range n.Children {
		count += finalize(ch)
	}
	n.SpeciesCount = count
	n.IsLeaf = n.CSVEntry || len(n.Children) == 0
	return count
}

// Walk visits nodes in pre-order, children in insertion order. The depth
// of the root is 0. If fn returns false, the node's children are skipped.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, ch := range n.Children {
		walk(ch, depth+1, fn)
	}
}

// Find returns the node with the given canonical name and rank. The root
// itself is not matched.
func Find(root *Node, name string, rnk rank.Rank) *Node {
	var res *Node
	Walk(root, func(n *Node, depth int) bool {
		if res != nil {
			return false
		}
		if depth > 0 && n.Name == name && n.Rank == rnk {
			res = n
			return false
		}
		return true
	})
	return res
}
