// Package rank provides the taxonomic ranks recognized by gntree, the
// rank annotations that may trail a CSV species name, and the fixed
// rank to indentation table used by renderers.
package rank

import (
	"regexp"
	"strings"
)

// Rank is a level of the taxonomic hierarchy.
type Rank int

const (
	Unknown Rank = iota
	Kingdom
	Phylum
	Class
	Order
	Family
	Genus
	Species
)

// MaxIndent is the deepest indentation level.
const MaxIndent = 6

var rankStr = map[Rank]string{
	Unknown: "unknown",
	Kingdom: "kingdom",
	Phylum:  "phylum",
	Class:   "class",
	Order:   "order",
	Family:  "family",
	Genus:   "genus",
	Species: "species",
}

var strRank = func() map[string]Rank {
	res := make(map[string]Rank, len(rankStr))
	for k, v := range rankStr {
		res[v] = k
	}
	return res
}()

// indents maps ranks to indentation levels. Downstream cell-width and
// tree-line calculations depend on these exact values. Unknown is not in
// the table, it is resolved relative to the parent by Indent.
var indents = map[Rank]int{
	Kingdom: 0,
	Phylum:  0,
	Class:   2,
	Order:   3,
	Family:  4,
	Genus:   5,
	Species: 6,
}

// Lineage lists ranks that may appear in a lineage, from the top.
var Lineage = []Rank{Kingdom, Phylum, Class, Order, Family, Genus}

// New converts a string to a Rank. It is case-insensitive and ignores
// surrounding spaces. Unrecognized strings return Unknown.
func New(s string) Rank {
	s = strings.ToLower(strings.TrimSpace(s))
	if r, ok := strRank[s]; ok {
		return r
	}
	return Unknown
}

// String returns the lowercase name of the rank.
func (r Rank) String() string {
	if s, ok := rankStr[r]; ok {
		return s
	}
	return rankStr[Unknown]
}

// Indent returns the indentation level of a rank. For Unknown the result
// is one deeper than parentIndent, or MaxIndent when parentIndent is
// negative (no parent signal).
func (r Rank) Indent(parentIndent int) int {
	if i, ok := indents[r]; ok {
		return i
	}
	if parentIndent < 0 {
		return MaxIndent
	}
	return min(parentIndent+1, MaxIndent)
}

// abbrRank maps annotation abbreviations to ranks. Infraclass has no
// counterpart in the enum, it is stripped but not resolved.
var abbrRank = map[string]Rank{
	"phyl":       Phylum,
	"infraclass": Unknown,
	"class":      Class,
	"ord":        Order,
	"fam":        Family,
	"gen":        Genus,
	"sp":         Species,
}

var annotationRe = regexp.MustCompile(
	`(?i)\s\((phyl|infraclass|class|ord|fam|gen|sp)\.\)$`,
)

// StripAnnotation removes a trailing rank annotation like " (fam.)" from a
// name. The changed flag is true if the name was modified.
func StripAnnotation(name string) (res string, changed bool) {
	res = annotationRe.ReplaceAllString(name, "")
	return res, res != name
}

// FromAnnotation returns the rank encoded in a trailing annotation of the
// name. The second value is false if there is no annotation or the
// annotation does not correspond to a known rank.
func FromAnnotation(name string) (Rank, bool) {
	m := annotationRe.FindStringSubmatch(name)
	if len(m) < 2 {
		return Unknown, false
	}
	r := abbrRank[strings.ToLower(m[1])]
	return r, r != Unknown
}

// MarshalJSON encodes a rank as its name.
func (r Rank) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON decodes a rank from its name.
func (r *Rank) UnmarshalJSON(bs []byte) error {
	*r = New(strings.Trim(string(bs), `"`))
	return nil
}
