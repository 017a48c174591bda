package flatten

import "github.com/gnames/gntree/pkg/ent/record"

// Predicate decides if a taxon is kept by Filter.
type Predicate func(Taxon) bool

// Filter returns taxa that satisfy all predicates, keeping the order.
// It is a display step. Flatten itself never drops or reorders taxa.
func Filter(taxa []Taxon, preds ...Predicate) []Taxon {
	res := make([]Taxon, 0, len(taxa))
outer:
	for _, v := range taxa {
		for _, p := range preds {
			if !p(v) {
				continue outer
			}
		}
		res = append(res, v)
	}
	return res
}

// CSVOnly keeps taxa that come from input records.
func CSVOnly(t Taxon) bool {
	return t.Node != nil && t.Node.CSVEntry
}

// MinConfidence keeps CSV entries with at least the given confidence.
func MinConfidence(c record.Confidence) Predicate {
	return func(t Taxon) bool {
		return CSVOnly(t) && t.Node.Confidence >= c
	}
}

// NonEmpty keeps CSV entries observed at least once at any site.
func NonEmpty(t Taxon) bool {
	if !CSVOnly(t) {
		return false
	}
	for _, v := range t.Node.SiteOccurrences {
		if v > 0 {
			return true
		}
	}
	return false
}
