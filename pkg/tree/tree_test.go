package tree_test

import (
	"testing"

	"github.com/gnames/gntree/pkg/ent/rank"
	"github.com/gnames/gntree/pkg/ent/record"
	"github.com/gnames/gntree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gadidLineage() []record.Taxon {
	return []record.Taxon{
		{Name: "Animalia", Rank: rank.Kingdom},
		{Name: "Chordata", Rank: rank.Phylum},
		{Name: "Gadidae", Rank: rank.Family},
		{Name: "Merlangius", Rank: rank.Genus},
	}
}

func whiting() record.Record {
	return record.Record{
		SpeciesName:     "Merlangius merlangus",
		Rank:            rank.Species,
		Lineage:         gadidLineage(),
		SiteOccurrences: map[string]int{"ALGA_C_S": 3, "ALGA_F_L": 0},
		Confidence:      record.High,
		Source:          record.WoRMS,
	}
}

func gadidae() record.Record {
	return record.Record{
		SpeciesName: "Gadidae (fam.)",
		Rank:        rank.Family,
		Lineage: []record.Taxon{
			{Name: "Animalia", Rank: rank.Kingdom},
			{Name: "Chordata", Rank: rank.Phylum},
		},
		SiteOccurrences: map[string]int{"ALGA_C_S": 1},
		Confidence:      record.Medium,
		Source:          record.GBIF,
	}
}

// allNodes returns all nodes below the root.
func allNodes(root *tree.Node) []*tree.Node {
	var res []*tree.Node
	tree.Walk(root, func(n *tree.Node, depth int) bool {
		if depth > 0 {
			res = append(res, n)
		}
		return true
	})
	return res
}

func assertNoDuplicates(t *testing.T, root *tree.Node) {
	t.Helper()
	seen := make(map[string]struct{})
	for _, n := range allNodes(root) {
		k := n.Rank.String() + "|" + n.Name
		_, ok := seen[k]
		assert.False(t, ok, "duplicate node %s", k)
		seen[k] = struct{}{}
	}
}

func TestBuildSingleRecord(t *testing.T) {
	assert := assert.New(t)
	root := tree.Build([]record.Record{whiting()})

	assert.Equal("Life", root.Name)
	assert.False(root.CSVEntry)
	require.Len(t, root.Children, 1)

	names := []string{
		"Animalia", "Chordata", "Gadidae", "Merlangius", "Merlangius merlangus",
	}
	curr := root
	for i, name := range names {
		require.Len(t, curr.Children, 1, name)
		curr = curr.Children[0]
		assert.Equal(name, curr.Name)
		isLast := i == len(names)-1
		assert.Equal(isLast, curr.CSVEntry, name)
		assert.Equal(isLast, curr.IsLeaf, name)
		assert.Equal(1, curr.SpeciesCount, name)
	}
	assert.Equal(record.High, curr.Confidence)
	assert.Equal(record.WoRMS, curr.Source)
	assert.Equal(3, curr.SiteOccurrences["ALGA_C_S"])
	assert.Equal(1, root.SpeciesCount)
}

func TestBuildMergeAnnotatedFamily(t *testing.T) {
	tests := []struct {
		msg  string
		recs []record.Record
	}{
		{"family first", []record.Record{gadidae(), whiting()}},
		{"species first", []record.Record{whiting(), gadidae()}},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert := assert.New(t)
			root := tree.Build(tt.recs)
			assertNoDuplicates(t, root)

			var fams []*tree.Node
			for _, n := range allNodes(root) {
				if n.Name == "Gadidae" {
					fams = append(fams, n)
				}
			}
			require.Len(t, fams, 1)
			fam := fams[0]
			assert.True(fam.CSVEntry)
			assert.True(fam.IsLeaf)
			assert.Equal("Gadidae (fam.)", fam.OriginalName)
			assert.Equal("Gadidae (fam.)", fam.DisplayName())
			assert.Equal(record.Medium, fam.Confidence)
			assert.Equal(record.GBIF, fam.Source)
			assert.Equal(1, fam.SiteOccurrences["ALGA_C_S"])
			require.Len(t, fam.Children, 1)
			assert.Equal("Merlangius", fam.Children[0].Name)
			assert.Equal(2, fam.SpeciesCount)
			assert.Equal(2, root.SpeciesCount)
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	root := tree.Build(nil)
	assert.Equal(t, "Life", root.Name)
	assert.Empty(t, root.Children)
	assert.Equal(t, 0, root.SpeciesCount)
	assert.False(t, root.CSVEntry)
}

func TestBuildEmptyLineage(t *testing.T) {
	rec := record.Record{
		SpeciesName: "Ciona intestinalis",
		Rank:        rank.Species,
		Lineage:     []record.Taxon{{Name: " ", Rank: rank.Genus}},
	}
	root := tree.Build([]record.Record{whiting(), rec})
	require.Len(t, root.Children, 2)
	n := root.Children[1]
	assert.Equal(t, "Ciona intestinalis", n.Name)
	assert.True(t, n.CSVEntry)
	assert.Empty(t, n.Children)
}

func TestBuildSameTaxonDifferentLineages(t *testing.T) {
	// The second record skips the phylum, Gadidae must still be shared.
	rec := record.Record{
		SpeciesName: "Gadus morhua",
		Rank:        rank.Species,
		Lineage: []record.Taxon{
			{Name: "Animalia", Rank: rank.Kingdom},
			{Name: "Gadidae", Rank: rank.Family},
			{Name: "Gadus", Rank: rank.Genus},
		},
	}
	root := tree.Build([]record.Record{whiting(), rec})
	assertNoDuplicates(t, root)

	fam := tree.Find(root, "Gadidae", rank.Family)
	require.NotNil(t, fam)
	require.Len(t, fam.Children, 2)
	assert.Equal(t, "Merlangius", fam.Children[0].Name)
	assert.Equal(t, "Gadus", fam.Children[1].Name)
	assert.Equal(t, 2, fam.SpeciesCount)
	assert.False(t, fam.CSVEntry)
}

func TestBuildSameNameDifferentRank(t *testing.T) {
	// Homonyms across ranks are different taxa.
	recs := []record.Record{
		{SpeciesName: "Bacteria", Rank: rank.Kingdom},
		{
			SpeciesName: "Bacteria",
			Rank:        rank.Genus,
			Lineage:     []record.Taxon{{Name: "Animalia", Rank: rank.Kingdom}},
		},
	}
	root := tree.Build(recs)
	assert.NotNil(t, tree.Find(root, "Bacteria", rank.Kingdom))
	assert.NotNil(t, tree.Find(root, "Bacteria", rank.Genus))
	assert.Len(t, allNodes(root), 3)
}

func TestBuildLastWriteWins(t *testing.T) {
	a := whiting()
	b := whiting()
	b.Confidence = record.Low
	b.SiteOccurrences = map[string]int{"ALGA_F_M": 7}
	root := tree.Build([]record.Record{a, b})
	assertNoDuplicates(t, root)

	n := tree.Find(root, "Merlangius merlangus", rank.Species)
	require.NotNil(t, n)
	assert.Equal(t, record.Low, n.Confidence)
	assert.Equal(t, map[string]int{"ALGA_F_M": 7}, n.SiteOccurrences)
	assert.Equal(t, 1, root.SpeciesCount)
}

func TestBuildSpeciesCount(t *testing.T) {
	recs := []record.Record{whiting(), gadidae()}
	rec := whiting()
	rec.SpeciesName = "Merlangius sp. (gen.)"
	rec.Rank = rank.Genus
	rec.Lineage = gadidLineage()[:3]
	recs = append(recs, rec)

	root := tree.Build(recs)
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		var count int
		tree.Walk(n, func(m *tree.Node, _ int) bool {
			if m.CSVEntry {
				count++
			}
			return true
		})
		assert.Equal(t, count, n.SpeciesCount, n.Name)
		return true
	})
}

func TestBuildRootName(t *testing.T) {
	root := tree.Build(nil, tree.OptRootName("Biota"))
	assert.Equal(t, "Biota", root.Name)
	root = tree.Build(nil, tree.OptRootName("  "))
	assert.Equal(t, "Life", root.Name)
}

func TestBuildFreshTree(t *testing.T) {
	recs := []record.Record{whiting()}
	a := tree.Build(recs)
	b := tree.Build(recs)
	assert.NotSame(t, a.Children[0], b.Children[0])
	assert.Equal(t, a.Children[0].ID, b.Children[0].ID)
}

func TestBuildDeeperLineage(t *testing.T) {
	// The second lineage adds class and order above an existing family.
	cod := record.Record{
		SpeciesName: "Gadus morhua",
		Rank:        rank.Species,
		Lineage: []record.Taxon{
			{Name: "Animalia", Rank: rank.Kingdom},
			{Name: "Chordata", Rank: rank.Phylum},
			{Name: "Actinopterygii", Rank: rank.Class},
			{Name: "Gadiformes", Rank: rank.Order},
			{Name: "Gadidae", Rank: rank.Family},
			{Name: "Gadus", Rank: rank.Genus},
		},
		SiteOccurrences: map[string]int{"ALGA_C_S": 2},
	}
	root := tree.Build([]record.Record{whiting(), cod})
	assertNoDuplicates(t, root)

	phylum := tree.Find(root, "Chordata", rank.Phylum)
	require.NotNil(t, phylum)
	require.Len(t, phylum.Children, 1)
	assert.Equal(t, "Gadidae", phylum.Children[0].Name)
	assert.Nil(t, tree.Find(root, "Actinopterygii", rank.Class))
	assert.Nil(t, tree.Find(root, "Gadiformes", rank.Order))

	fam := phylum.Children[0]
	require.Len(t, fam.Children, 2)
	assert.Equal(t, "Gadus", fam.Children[1].Name)
	require.Len(t, fam.Children[1].Children, 1)
	assert.True(t, fam.Children[1].Children[0].CSVEntry)

	// every inferred ancestor leads to a record
	for _, n := range allNodes(root) {
		if !n.CSVEntry {
			assert.NotEmpty(t, n.Children, n.Name)
			assert.Positive(t, n.SpeciesCount, n.Name)
		}
	}
}

func TestBuildRecordNamedAsRoot(t *testing.T) {
	recs := []record.Record{
		{
			SpeciesName:     "Life",
			Rank:            rank.Kingdom,
			SiteOccurrences: map[string]int{"S1": 1},
		},
		whiting(),
	}
	root := tree.Build(recs)
	assert.False(t, root.CSVEntry)
	require.Len(t, root.Children, 2)
	life := root.Children[0]
	assert.Equal(t, "Life", life.Name)
	assert.True(t, life.CSVEntry)
	assert.Same(t, life, tree.Find(root, "Life", rank.Kingdom))
	assertNoDuplicates(t, root)
}
