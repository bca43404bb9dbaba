package cag

import "math"

// intervalItem associates a value with a 1D interval and remembers the tree
// node it is stored on so removal is O(1) after lookup. The stamp dedups
// items during a single query.
type intervalItem[T any] struct {
	Value    T
	min, max float64
	node     *intervalNode[T]
	stamp    uint64
}

// intervalNode covers the sub-interval [min,max] of the real line. Internal
// nodes are divided at split into a left child [min,split] and right child
// [split,max]; items stored on a node fit its range but straddle its split
// (or the node is a leaf). Nodes are colored for red-black balancing.
type intervalNode[T any] struct {
	min, max float64
	split    float64
	left     *intervalNode[T]
	right    *intervalNode[T]
	parent   *intervalNode[T]
	red      bool
	items    []*intervalItem[T]
}

func (n *intervalNode[T]) leaf() bool {
	return n.left == nil
}

// intervalTree is a red-black balanced binary tree over the real line from
// -inf to +inf whose nodes are maximal un-split sub-intervals. It supports
// logarithmic insert and remove of interval-keyed items and traversal of all
// items whose interval could overlap a query interval.
type intervalTree[T any] struct {
	root  *intervalNode[T]
	stamp uint64
}

func newIntervalTree[T any]() *intervalTree[T] {
	return &intervalTree[T]{
		root: &intervalNode[T]{min: math.Inf(-1.0), max: math.Inf(1.0)},
	}
}

// Insert stores value under the interval [min,max] and returns the item
// handle used for removal.
func (tree *intervalTree[T]) Insert(min, max float64, value T) *intervalItem[T] {
	tree.split(min)
	tree.split(max)

	// descend to the highest node that fully contains [min,max]
	n := tree.root
	for !n.leaf() {
		if max <= n.split {
			n = n.left
		} else if n.split <= min {
			n = n.right
		} else {
			break
		}
	}
	item := &intervalItem[T]{Value: value, min: min, max: max, node: n}
	n.items = append(n.items, item)
	return item
}

// Remove is the exact inverse of Insert.
func (tree *intervalTree[T]) Remove(item *intervalItem[T]) {
	items := item.node.items
	for i, it := range items {
		if it == item {
			items[i] = items[len(items)-1]
			item.node.items = items[:len(items)-1]
			item.node = nil
			return
		}
	}
	panic("bug: interval tree item not on its node")
}

// Query visits every stored item whose interval overlaps or touches [min,max],
// each at most once per query. The callback returns false to terminate the
// query early.
func (tree *intervalTree[T]) Query(min, max float64, callback func(T) bool) {
	tree.stamp++
	tree.query(tree.root, min, max, callback)
}

func (tree *intervalTree[T]) query(n *intervalNode[T], min, max float64, callback func(T) bool) bool {
	if n == nil || max < n.min || n.max < min {
		return true
	}
	for _, item := range n.items {
		if item.stamp == tree.stamp {
			continue
		}
		item.stamp = tree.stamp
		if min <= item.max && item.min <= max {
			if !callback(item.Value) {
				return false
			}
		}
	}
	if !n.leaf() {
		if !tree.query(n.left, min, max, callback) {
			return false
		}
		if !tree.query(n.right, min, max, callback) {
			return false
		}
	}
	return true
}

// split divides the leaf containing v at v, keeping the interval structure
// exact, and rebalances.
func (tree *intervalTree[T]) split(v float64) {
	n := tree.root
	for !n.leaf() {
		if v == n.split {
			return
		} else if v < n.split {
			n = n.left
		} else {
			n = n.right
		}
	}
	if v == n.min || v == n.max {
		return
	}

	n.split = v
	n.left = &intervalNode[T]{min: n.min, max: v, parent: n}
	n.right = &intervalNode[T]{min: v, max: n.max, parent: n}
	n.red = true

	// push leaf items into whichever child still fully contains them
	items := n.items
	n.items = nil
	for _, item := range items {
		if item.max <= v {
			item.node = n.left
			n.left.items = append(n.left.items, item)
		} else if v <= item.min {
			item.node = n.right
			n.right.items = append(n.right.items, item)
		} else {
			item.node = n
			n.items = append(n.items, item)
		}
	}

	tree.fixInsert(n)
}

// fixInsert restores the red-black properties after n was inserted red.
// Leaves count as black nil nodes.
func (tree *intervalTree[T]) fixInsert(n *intervalNode[T]) {
	for n.parent != nil && n.parent.red {
		parent := n.parent
		grand := parent.parent // red parent is never the root
		if parent == grand.left {
			uncle := grand.right
			if uncle.red {
				parent.red = false
				uncle.red = false
				grand.red = true
				n = grand
			} else {
				if n == parent.right {
					n = parent
					tree.rotateLeft(n)
					parent = n.parent
				}
				parent.red = false
				grand.red = true
				tree.rotateRight(grand)
			}
		} else {
			uncle := grand.left
			if uncle.red {
				parent.red = false
				uncle.red = false
				grand.red = true
				n = grand
			} else {
				if n == parent.left {
					n = parent
					tree.rotateRight(n)
					parent = n.parent
				}
				parent.red = false
				grand.red = true
				tree.rotateLeft(grand)
			}
		}
	}
	tree.root.red = false
}

// rotateLeft rotates the right child of x into x's place. Node ranges change
// with the rotation, so the items of the rotated pair are redistributed: an
// item fitting the new child's range moves (or stays) there, the rest belong
// to the new parent.
func (tree *intervalTree[T]) rotateLeft(x *intervalNode[T]) {
	y := x.right

	x.right = y.left
	y.left.parent = x
	tree.replaceChild(x, y)
	y.left = x
	x.parent = y

	y.min, y.max = x.min, x.max
	x.max = y.split

	tree.redistribute(x, y)
}

// rotateRight is the mirror of rotateLeft.
func (tree *intervalTree[T]) rotateRight(x *intervalNode[T]) {
	y := x.left

	x.left = y.right
	y.right.parent = x
	tree.replaceChild(x, y)
	y.right = x
	x.parent = y

	y.min, y.max = x.min, x.max
	x.min = y.split

	tree.redistribute(x, y)
}

func (tree *intervalTree[T]) replaceChild(x, y *intervalNode[T]) {
	y.parent = x.parent
	if x.parent == nil {
		tree.root = y
	} else if x.parent.left == x {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
}

// redistribute re-places the items of a rotated pair; child's range is a
// sub-range of parent's.
func (tree *intervalTree[T]) redistribute(child, parent *intervalNode[T]) {
	items := make([]*intervalItem[T], 0, len(child.items)+len(parent.items))
	items = append(items, child.items...)
	items = append(items, parent.items...)
	child.items = child.items[:0]
	parent.items = parent.items[:0]
	for _, item := range items {
		if child.min <= item.min && item.max <= child.max {
			item.node = child
			child.items = append(child.items, item)
		} else {
			item.node = parent
			parent.items = append(parent.items, item)
		}
	}
}
