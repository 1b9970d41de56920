package object

import (
	"sort"
	"strings"
)

// classRank places every runtime type on the canonical ordering ladder:
// Nil < Boolean < Number < String < List < Set < Dictionary < Function.
// Integers and decimals share one rank so they compare numerically.
func classRank(obj Object) int {
	switch obj.(type) {
	case *Nil:
		return 0
	case *Boolean:
		return 1
	case *Integer, *Decimal:
		return 2
	case *String:
		return 3
	case *List:
		return 4
	case *Set:
		return 5
	case *Dictionary:
		return 6
	case *Function, *Builtin, *Partial, *Composed:
		return 7
	}
	return 8
}

// Compare orders two values in the canonical total order, returning a
// negative, zero, or positive result. Values of different classes order by
// class rank; values of the same class order structurally.
func Compare(a, b Object) int {
	ra, rb := classRank(a), classRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case *Nil:
		return 0

	case *Boolean:
		bv := b.(*Boolean)
		if av.Value == bv.Value {
			return 0
		}
		if !av.Value {
			return -1
		}
		return 1

	case *Integer:
		if bv, ok := b.(*Integer); ok {
			return compareInt64(av.Value, bv.Value)
		}
		return compareFloat64(float64(av.Value), b.(*Decimal).Value)

	case *Decimal:
		if bv, ok := b.(*Decimal); ok {
			return compareFloat64(av.Value, bv.Value)
		}
		return compareFloat64(av.Value, float64(b.(*Integer).Value))

	case *String:
		return strings.Compare(av.Value, b.(*String).Value)

	case *List:
		return compareElements(av.Elements, b.(*List).Elements)

	case *Set:
		return compareElements(av.Elements, b.(*Set).Elements)

	case *Dictionary:
		return comparePairs(av.Pairs, b.(*Dictionary).Pairs)
	}

	// Callables have no structural order; fall back to their rendering so
	// the result stays deterministic.
	return strings.Compare(a.Inspect(), b.Inspect())
}

// Equal reports structural equality: same canonical order position.
// Integers and decimals of the same numeric value are equal.
func Equal(a, b Object) bool {
	return Compare(a, b) == 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareElements orders element slices pairwise, shorter-first on ties
func compareElements(a, b []Object) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInt64(int64(len(a)), int64(len(b)))
}

// comparePairs orders dictionaries by their sorted (key, value) sequences
func comparePairs(a, b []DictPair) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i].Key, b[i].Key); c != 0 {
			return c
		}
		if c := Compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return compareInt64(int64(len(a)), int64(len(b)))
}

// SortObjects sorts values in place into canonical order
func SortObjects(objs []Object) {
	sort.SliceStable(objs, func(i, j int) bool {
		return Compare(objs[i], objs[j]) < 0
	})
}

func sortPairs(pairs []DictPair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return Compare(pairs[i].Key, pairs[j].Key) < 0
	})
}
