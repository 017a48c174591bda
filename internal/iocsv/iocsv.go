// Package iocsv reads eDNA and haplotype species tables into records.
package iocsv

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnlib/ent/nomcode"
	gntree "github.com/gnames/gntree/pkg"
	"github.com/gnames/gntree/pkg/config"
	"github.com/gnames/gntree/pkg/ent/rank"
	"github.com/gnames/gntree/pkg/ent/record"
	"github.com/gnames/gntree/pkg/parserpool"
)

type loaderCSV struct {
	cfg  *config.Config
	path string
	pool parserpool.Pool
}

// New creates a Loader that reads species records from a CSV file.
func New(cfg *config.Config, path string) gntree.Loader {
	return &loaderCSV{cfg: cfg, path: path}
}

// columns keeps positions of meaningful fields of a header.
type columns struct {
	name       int
	rank       int
	confidence int
	source     int
	lineage    []lineageCol
	sites      []int
	siteNames  []string
}

type lineageCol struct {
	idx  int
	rank rank.Rank
}

// Load reads the whole file and converts its rows into records.
func (l *loaderCSV) Load(ctx context.Context) (*record.Dataset, error) {
	rows, err := l.readRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, EmptyError(l.path)
	}

	raw := rows[0]
	header := normHeader(raw)
	rows = rows[1:]

	cols, err := l.columns(raw, header, rows)
	if err != nil {
		return nil, err
	}

	defer l.closePool()

	res := &record.Dataset{Sites: cols.siteNames}
	var skipped int
	for i, row := range rows {
		if i%1000 == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, ok := l.record(cols, row)
		if !ok {
			skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	slog.Info("CSV file loaded",
		"file", l.path,
		"records", len(res.Records),
		"skipped", skipped,
		"sites", len(res.Sites),
	)
	gn.Info(
		"Loaded <em>%s</em> records from %s",
		humanize.Comma(int64(len(res.Records))), l.path,
	)
	return res, nil
}

func (l *loaderCSV) readRows() ([][]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, ReadError(l.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = l.cfg.Separator()
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var res [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ReadError(l.path, err)
		}
		res = append(res, row)
	}
	return res, nil
}

func normHeader(row []string) []string {
	res := make([]string, len(row))
	for i, v := range row {
		res[i] = strings.ToLower(fieldName(v))
	}
	return res
}

func fieldName(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}

// columns finds positions of fields. Name is required, the rest of the
// known fields are optional. Site columns are either given in the
// configuration or detected as columns with integer values only.
func (l *loaderCSV) columns(
	raw, header []string,
	rows [][]string,
) (columns, error) {
	csvCfg := l.cfg.CSV
	res := columns{name: 0}
	used := make(map[int]struct{})

	if csvCfg.NameField != "" {
		res.name = slices.Index(header, strings.ToLower(csvCfg.NameField))
		if res.name < 0 {
			return res, HeaderError(l.path, csvCfg.NameField)
		}
	}
	used[res.name] = struct{}{}

	find := func(field string) int {
		if field == "" {
			return -1
		}
		idx := slices.Index(header, strings.ToLower(field))
		if idx >= 0 {
			used[idx] = struct{}{}
		}
		return idx
	}
	res.rank = find(csvCfg.RankField)
	res.confidence = find(csvCfg.ConfidenceField)
	res.source = find(csvCfg.SourceField)

	for _, r := range rank.Lineage {
		idx := find(r.String())
		if idx >= 0 {
			res.lineage = append(res.lineage, lineageCol{idx: idx, rank: r})
		}
	}

	if len(csvCfg.SiteFields) > 0 {
		for _, v := range csvCfg.SiteFields {
			idx := slices.Index(header, strings.ToLower(v))
			if idx < 0 {
				return res, HeaderError(l.path, v)
			}
			res.sites = append(res.sites, idx)
			res.siteNames = append(res.siteNames, v)
		}
		return res, nil
	}

	for i, h := range header {
		if _, ok := used[i]; ok || h == "" {
			continue
		}
		if isCountColumn(rows, i) {
			res.sites = append(res.sites, i)
			res.siteNames = append(res.siteNames, fieldName(raw[i]))
		}
	}
	slog.Debug("Site columns detected", "sites", res.siteNames)
	return res, nil
}

// isCountColumn is true if all non-empty values of a column are whole
// numbers and there is at least one such value.
func isCountColumn(rows [][]string, idx int) bool {
	var count int
	for _, row := range rows {
		v := cell(row, idx)
		if v == "" {
			continue
		}
		if _, ok := parseCount(v); !ok {
			return false
		}
		count++
	}
	return count > 0
}

func parseCount(s string) (int, bool) {
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(s string) bool {
	return s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "n/a")
}

// record converts a row to a record. It returns false for rows without
// a name and rows where all site cells are empty.
func (l *loaderCSV) record(cols columns, row []string) (record.Record, bool) {
	var res record.Record
	name := cell(row, cols.name)
	if isBlank(name) {
		return res, false
	}

	occurrences := make(map[string]int)
	var hasSites bool
	for i, idx := range cols.sites {
		v := cell(row, idx)
		if v == "" {
			continue
		}
		hasSites = true
		n, ok := parseCount(v)
		if !ok {
			slog.Warn("Non-numeric count", "name", name,
				"site", cols.siteNames[i], "value", v)
			continue
		}
		occurrences[cols.siteNames[i]] = n
	}
	if len(cols.sites) > 0 && !hasSites {
		return res, false
	}

	res.SpeciesName = name
	res.SiteOccurrences = occurrences
	res.Rank = l.rank(name, cell(row, cols.rank))
	res.Lineage = lineage(name, cols.lineage, row)

	res.Confidence = record.NewConfidence(cell(row, cols.confidence))
	if res.Confidence == record.NoConfidence {
		res.Confidence = record.Medium
	}
	res.Source = record.NewSource(cell(row, cols.source))
	return res, true
}

// rank of a record comes from the rank column, then from a rank annotation
// of the name. If neither is given, names with more than one element are
// considered species.
func (l *loaderCSV) rank(name, rankStr string) rank.Rank {
	if r := rank.New(rankStr); r != rank.Unknown {
		return r
	}
	if r, ok := rank.FromAnnotation(name); ok {
		return r
	}
	stripped, changed := rank.StripAnnotation(name)
	if changed {
		return rank.Unknown
	}
	if l.pool == nil {
		l.pool = parserpool.New(1, nomcode.Zoological)
	}
	if _, card := l.pool.Canonical(stripped); card >= 2 {
		return rank.Species
	}
	return rank.Unknown
}

// closePool releases the parser pool created by rank, a later Load starts
// a new one.
func (l *loaderCSV) closePool() {
	if l.pool == nil {
		return
	}
	l.pool.Close()
	l.pool = nil
}

func lineage(name string, cols []lineageCol, row []string) []record.Taxon {
	self, _ := rank.StripAnnotation(name)
	var res []record.Taxon
	for _, v := range cols {
		val := cell(row, v.idx)
		if isBlank(val) || val == self {
			continue
		}
		res = append(res, record.Taxon{Name: val, Rank: v.rank})
	}
	return res
}
