// Package output encodes trees, flattened taxa and compositions for
// downstream renderers and for the terminal.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gntree/pkg/composition"
	"github.com/gnames/gntree/pkg/flatten"
	"github.com/gnames/gntree/pkg/tree"
)

// PathSep joins path elements in CSV and TSV output.
const PathSep = "|"

// Tree encodes the tree as nested JSON. Only CompactJSON and PrettyJSON
// formats are supported, everything else falls back to CompactJSON.
func Tree(root *tree.Node, f gnfmt.Format) ([]byte, error) {
	enc := gnfmt.GNjson{Pretty: f == gnfmt.PrettyJSON}
	return enc.Encode(root)
}

// flatRow is the JSON shape of a flattened taxon.
type flatRow struct {
	flatten.Taxon

	ID              string         `json:"id"`
	OriginalName    string         `json:"originalName,omitempty"`
	CSVEntry        bool           `json:"csvEntry"`
	IsLeaf          bool           `json:"isLeaf"`
	SpeciesCount    int            `json:"speciesCount"`
	Confidence      string         `json:"confidence,omitempty"`
	Source          string         `json:"source,omitempty"`
	SiteOccurrences map[string]int `json:"siteOccurrences,omitempty"`
}

func newFlatRow(t flatten.Taxon) flatRow {
	res := flatRow{Taxon: t}
	n := t.Node
	if n == nil {
		return res
	}
	res.ID = n.ID
	res.OriginalName = n.OriginalName
	res.CSVEntry = n.CSVEntry
	res.IsLeaf = n.IsLeaf
	res.SpeciesCount = n.SpeciesCount
	if n.CSVEntry {
		res.Confidence = n.Confidence.String()
		res.Source = n.Source.String()
		res.SiteOccurrences = n.SiteOccurrences
	}
	return res
}

// Header returns column names of CSV and TSV output.
func Header(sites []string) []string {
	res := []string{
		"id", "name", "original_name", "rank", "indent", "path",
		"csv_entry", "species_count", "confidence", "source",
	}
	return append(res, sites...)
}

// Flat encodes flattened taxa. Site columns follow the given order.
func Flat(taxa []flatten.Taxon, sites []string, f gnfmt.Format) ([]byte, error) {
	switch f {
	case gnfmt.CSV:
		return flatDelimited(taxa, sites, ',')
	case gnfmt.TSV:
		return flatDelimited(taxa, sites, '\t')
	default:
		rows := make([]flatRow, len(taxa))
		for i := range taxa {
			rows[i] = newFlatRow(taxa[i])
		}
		enc := gnfmt.GNjson{Pretty: f == gnfmt.PrettyJSON}
		return enc.Encode(rows)
	}
}

func flatDelimited(taxa []flatten.Taxon, sites []string, sep rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = sep
	if err := w.Write(Header(sites)); err != nil {
		return nil, err
	}
	for _, t := range taxa {
		if err := w.Write(flatFields(t, sites)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func flatFields(t flatten.Taxon, sites []string) []string {
	r := newFlatRow(t)
	res := []string{
		r.ID,
		t.Name,
		r.OriginalName,
		t.Rank.String(),
		strconv.Itoa(t.IndentLevel),
		strings.Join(t.Path, PathSep),
		strconv.FormatBool(r.CSVEntry),
		strconv.Itoa(r.SpeciesCount),
		r.Confidence,
		r.Source,
	}
	for _, s := range sites {
		var v string
		if r.CSVEntry {
			v = strconv.Itoa(r.SiteOccurrences[s])
		}
		res = append(res, v)
	}
	return res
}

// Text renders flattened taxa as an indented list. CSV entries are marked
// with an asterisk, ancestors show the number of CSV entries below them.
func Text(taxa []flatten.Taxon) string {
	var b strings.Builder
	for _, t := range taxa {
		b.WriteString(strings.Repeat("  ", t.IndentLevel))
		name := t.Name
		var count int
		var csvEntry, hasChildren bool
		if t.Node != nil {
			name = t.Node.DisplayName()
			count = t.Node.SpeciesCount
			csvEntry = t.Node.CSVEntry
			hasChildren = len(t.Node.Children) > 0
		}
		b.WriteString(name)
		fmt.Fprintf(&b, " [%s]", t.Rank)
		if csvEntry {
			b.WriteString(" *")
		}
		if hasChildren {
			fmt.Fprintf(&b, " (%d)", count)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Composition encodes a composition as JSON or as a table with one row
// per group and a count and percentage column per site.
func Composition(c composition.Composition, f gnfmt.Format) ([]byte, error) {
	var sep rune
	switch f {
	case gnfmt.CSV:
		sep = ','
	case gnfmt.TSV:
		sep = '\t'
	default:
		enc := gnfmt.GNjson{Pretty: f == gnfmt.PrettyJSON}
		return enc.Encode(c)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = sep
	header := []string{c.Rank.String()}
	for _, s := range c.Sites {
		header = append(header, s, s+"_pct")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, g := range c.Groups {
		row := []string{g}
		for _, s := range c.Sites {
			row = append(row,
				strconv.Itoa(c.Counts[s][g]),
				strconv.FormatFloat(c.Percentages[s][g], 'f', 1, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	row := []string{"unassigned"}
	for _, s := range c.Sites {
		row = append(row, strconv.Itoa(c.Unassigned[s]), "")
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
