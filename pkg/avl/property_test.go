package avl

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestTreeInvariants uses property-based testing to verify the AVL invariants
// hold for arbitrary insertion sequences, including duplicates.
func TestTreeInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("every node stays balanced after each insert", prop.ForAll(
		func(keys []int) bool {
			tree := NewOrdered[int, int]()
			for _, k := range keys {
				tree.Insert(k, k)
				if tree.Validate() != nil {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-500, 500)),
	))

	properties.Property("ascending traversal is the sorted set of keys", prop.ForAll(
		func(keys []int) bool {
			tree := NewOrdered[int, int]()
			for _, k := range keys {
				tree.Insert(k, k)
			}

			want := slices.Clone(keys)
			slices.Sort(want)
			want = slices.Compact(want)

			var got []int
			for k := range tree.All() {
				got = append(got, k)
			}
			return slices.Equal(got, want) && tree.Len() == len(want)
		},
		gen.SliceOf(gen.IntRange(-50, 50)),
	))

	properties.Property("descending traversal is strictly decreasing", prop.ForAll(
		func(keys []string) bool {
			tree := NewOrdered[string, struct{}]()
			for _, k := range keys {
				tree.Insert(k, struct{}{})
			}

			first := true
			var prev string
			for k := range tree.Backward() {
				if !first && k >= prev {
					return false
				}
				prev, first = k, false
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("first value inserted under a key wins", prop.ForAll(
		func(keys []int) bool {
			tree := NewOrdered[int, int]()
			firstIndex := map[int]int{}
			for i, k := range keys {
				if _, ok := firstIndex[k]; !ok {
					firstIndex[k] = i
				}
				tree.Insert(k, i)
			}
			for k, i := range firstIndex {
				if v, ok := tree.Search(k); !ok || v != i {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 20)),
	))

	properties.TestingRun(t)
}
