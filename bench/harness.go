package bench

import (
	"brie/arena"
	"brie/hashflat"
	"brie/internal/report"
	"brie/nested"
	"brie/singleton"
	"brie/sortedflat"
	"brie/tuple"
)

// Built holds every variant constructed over the same input, for
// side-by-side memory and intersect comparison.
type Built struct {
	Vanilla    *Vanilla[int]
	NestedHash *nested.Trie[int]
	NestedSort *nested.Trie[int]
	Sorted     *sortedflat.Trie[int]
	Hash       *hashflat.Trie[int]
	Singleton  *singleton.Trie[int]
}

// BuildAll runs every variant's Build over the same sorted tuple set,
// so bench's caller (a *_bench_test.go file) can compare build cost
// and the resulting trees' memory footprint in one pass.
func BuildAll(a *arena.Arena, tuples []tuple.Tuple[int]) (*Built, error) {
	hf, err := hashflat.Build(tuples)
	if err != nil {
		return nil, err
	}
	return &Built{
		Vanilla:    BuildVanilla(tuples),
		NestedHash: nested.Build(a, nested.Hash, tuples),
		NestedSort: nested.Build(a, nested.Sorted, tuples),
		Sorted:     sortedflat.Build(tuples),
		Hash:       hf,
		Singleton:  singleton.Build(tuples),
	}, nil
}

// MemoryReport builds a hierarchical byte breakdown across every
// variant, for human-readable display via report.Report.String().
func (b *Built) MemoryReport() report.Report {
	return report.Node("variants",
		report.Leaf("vanilla", b.Vanilla.ByteSize()),
		report.Leaf("nested/hash", b.NestedHash.ByteSize()),
		report.Leaf("nested/sorted", b.NestedSort.ByteSize()),
		report.Leaf("sortedflat", b.Sorted.ByteSize()),
		report.Leaf("hashflat", b.Hash.ByteSize()),
		report.Leaf("singleton", b.Singleton.ByteSize()),
	)
}
