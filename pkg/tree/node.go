package tree

import (
	"github.com/gnames/gntree/pkg/ent/rank"
	"github.com/gnames/gntree/pkg/ent/record"
	"github.com/gnames/gnuuid"
)

// Node is a taxon in the hierarchy. A node exclusively owns its children.
type Node struct {
	// ID is a UUIDv5 derived from rank and name. It is stable across
	// builds and can be used as a rendering key.
	ID string `json:"id"`

	// Name is the canonical name without a trailing rank annotation.
	// Together with Rank it is the identity of the node.
	Name string `json:"name"`

	// OriginalName keeps the annotated name when it differs from Name.
	OriginalName string `json:"originalName,omitempty"`

	Rank rank.Rank `json:"rank"`

	// Children in the order they were appended.
	Children []*Node `json:"children,omitempty"`

	// IsLeaf is true for nodes that come from an input record or have
	// no children.
	IsLeaf bool `json:"isLeaf"`

	// CSVEntry is true when the node matched an explicit input record,
	// as opposed to an ancestor inferred from a lineage.
	CSVEntry bool `json:"csvEntry"`

	// SpeciesCount is the number of CSVEntry nodes in the subtree,
	// the node itself included.
	SpeciesCount int `json:"speciesCount"`

	// The following fields are set only for CSVEntry nodes.
	SiteOccurrences map[string]int    `json:"siteOccurrences,omitempty"`
	Confidence      record.Confidence `json:"confidence,omitempty"`
	Source          record.Source     `json:"source,omitempty"`
}

type key struct {
	name string
	rank rank.Rank
}

func newNode(name string, rnk rank.Rank) *Node {
	return &Node{
		ID:   NodeID(name, rnk),
		Name: name,
		Rank: rnk,
	}
}

// NodeID returns the identifier a node with the given name and rank gets.
func NodeID(name string, rnk rank.Rank) string {
	return gnuuid.New(rnk.String() + "|" + name).String()
}

// merge marks the node as an input record and copies the record's data.
// When several records claim the same node the last one wins, except for
// OriginalName which is kept from the first record that had one.
func (n *Node) merge(rec record.Record, originalName string) {
	n.CSVEntry = true
	n.IsLeaf = true
	n.SiteOccurrences = rec.SiteOccurrences
	n.Confidence = rec.Confidence
	n.Source = rec.Source
	if originalName != "" && n.OriginalName == "" {
		n.OriginalName = originalName
	}
}

// DisplayName returns the original annotated name if there is one,
// otherwise the canonical name.
func (n *Node) DisplayName() string {
	if n.OriginalName != "" {
		return n.OriginalName
	}
	return n.Name
}
