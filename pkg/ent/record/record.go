// Package record describes species records produced by upstream loaders
// and enrichers. A record is one CSV row already enriched with taxonomic
// lineage.
package record

import (
	"strings"

	"github.com/gnames/gntree/pkg/ent/rank"
)

// Confidence of a taxonomy match.
type Confidence int

const (
	NoConfidence Confidence = iota
	Low
	Medium
	High
)

// NewConfidence converts a string to Confidence. "MODERATE" is an alias
// for medium. Unrecognized strings return NoConfidence.
func NewConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High
	case "medium", "moderate":
		return Medium
	case "low":
		return Low
	default:
		return NoConfidence
	}
}

func (c Confidence) String() string {
	switch c {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return ""
	}
}

// MarshalJSON encodes confidence as its name.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes confidence from its name.
func (c *Confidence) UnmarshalJSON(bs []byte) error {
	*c = NewConfidence(strings.Trim(string(bs), `"`))
	return nil
}

// Source is the provenance of a taxonomy match.
type Source int

const (
	UnknownSource Source = iota
	WoRMS
	GBIF
)

// NewSource converts a string to Source.
func NewSource(s string) Source {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "worms":
		return WoRMS
	case "gbif":
		return GBIF
	default:
		return UnknownSource
	}
}

func (s Source) String() string {
	switch s {
	case WoRMS:
		return "worms"
	case GBIF:
		return "gbif"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes a source as its name.
func (s Source) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a source from its name.
func (s *Source) UnmarshalJSON(bs []byte) error {
	*s = NewSource(strings.Trim(string(bs), `"`))
	return nil
}

// Taxon is one element of a lineage.
type Taxon struct {
	Name string    `json:"name"`
	Rank rank.Rank `json:"rank"`
}

// Record is a single species observation with its taxonomic context.
type Record struct {
	// SpeciesName is the name as it appears in the input. It may carry
	// a trailing rank annotation, e.g. "Gadidae (fam.)".
	SpeciesName string `json:"speciesName"`

	// Rank of the record itself, not necessarily species.
	Rank rank.Rank `json:"rank"`

	// Lineage lists ancestors from the root down to the immediate parent.
	Lineage []Taxon `json:"lineage"`

	// SiteOccurrences maps site identifiers to observation counts.
	SiteOccurrences map[string]int `json:"siteOccurrences"`

	Confidence Confidence `json:"confidence"`
	Source     Source     `json:"source"`
}

// Total returns the sum of observations across all sites.
func (r Record) Total() int {
	var res int
	for _, v := range r.SiteOccurrences {
		res += v
	}
	return res
}

// Dataset is the output of a Loader.
type Dataset struct {
	// Sites are site identifiers in the order of the input.
	Sites []string

	// Records in the order of the input.
	Records []Record
}
