package cag

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/tdewolff/test"
)

func TestIntervalTreeBasic(t *testing.T) {
	tree := newIntervalTree[int]()
	tree.Insert(0.0, 10.0, 1)
	tree.Insert(5.0, 15.0, 2)
	tree.Insert(20.0, 30.0, 3)

	query := func(min, max float64) []int {
		var vals []int
		tree.Query(min, max, func(v int) bool {
			vals = append(vals, v)
			return true
		})
		return vals
	}

	test.T(t, len(query(7.0, 8.0)), 2)
	test.T(t, len(query(-5.0, -1.0)), 0)
	test.T(t, len(query(16.0, 19.0)), 0)
	test.T(t, query(25.0, 25.0), []int{3})
	test.T(t, len(query(0.0, 30.0)), 3)

	// touching intervals are reported
	test.T(t, len(query(10.0, 10.0)), 2)
	test.T(t, len(query(15.0, 20.0)), 2)
}

func TestIntervalTreeRemove(t *testing.T) {
	tree := newIntervalTree[int]()
	a := tree.Insert(0.0, 10.0, 1)
	b := tree.Insert(5.0, 15.0, 2)

	tree.Remove(a)
	var vals []int
	tree.Query(0.0, 20.0, func(v int) bool {
		vals = append(vals, v)
		return true
	})
	test.T(t, vals, []int{2})

	tree.Remove(b)
	n := 0
	tree.Query(0.0, 20.0, func(int) bool {
		n++
		return true
	})
	test.T(t, n, 0)
}

func TestIntervalTreeEarlyStop(t *testing.T) {
	tree := newIntervalTree[int]()
	for i := 0; i < 10; i++ {
		tree.Insert(float64(i), float64(i)+1.0, i)
	}
	n := 0
	tree.Query(0.0, 10.0, func(int) bool {
		n++
		return n < 3
	})
	test.T(t, n, 3)
}

func TestIntervalTreeDuplicateBoundaries(t *testing.T) {
	tree := newIntervalTree[int]()
	for i := 0; i < 5; i++ {
		tree.Insert(1.0, 2.0, i) // identical intervals share the split points
	}
	n := 0
	tree.Query(1.5, 1.5, func(int) bool {
		n++
		return true
	})
	test.T(t, n, 5)
}

func TestIntervalTreeRandomized(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	type entry struct {
		min, max float64
		item     *intervalItem[int]
	}
	tree := newIntervalTree[int]()
	var entries []entry
	for i := 0; i < 500; i++ {
		min := rnd.Float64() * 100.0
		max := min + rnd.Float64()*20.0
		entries = append(entries, entry{min, max, tree.Insert(min, max, i)})
	}

	// remove a third, keeping the brute-force model in sync
	for i := len(entries) - 1; 0 <= i; i -= 3 {
		tree.Remove(entries[i].item)
		entries = append(entries[:i], entries[i+1:]...)
	}

	for q := 0; q < 200; q++ {
		qmin := rnd.Float64()*120.0 - 10.0
		qmax := qmin + rnd.Float64()*30.0

		want := map[int]bool{}
		for _, e := range entries {
			if qmin <= e.max && e.min <= qmax {
				want[e.item.Value] = true
			}
		}

		got := map[int]bool{}
		tree.Query(qmin, qmax, func(v int) bool {
			test.That(t, !got[v], "item visited twice")
			got[v] = true
			return true
		})
		for v := range want {
			test.That(t, got[v], fmt.Sprintf("query [%g,%g] missing item %d", qmin, qmax, v))
		}
		for v := range got {
			test.That(t, want[v], fmt.Sprintf("query [%g,%g] extraneous item %d", qmin, qmax, v))
		}
	}
}
