package cag

import (
	"container/heap"
	"math"
	"sort"
)

// Tuning constants of the simplification pipeline.
const (
	// angleTieTolerance is the angular difference below which two tangent
	// angles at a vertex count as tied and curvature decides the order.
	angleTieTolerance = 1e-4

	// sortCutRotation rotates all tangent angles away from the +-pi cut
	// before sorting around a vertex; applied repeatedly until no angle lands
	// within angleTieTolerance of the cut.
	sortCutRotation = 0.5129731

	// curvatureProbe is the parameter offset from a vertex at which curvature
	// is re-evaluated to break residual sorting ties.
	curvatureProbe = 1e-3
)

// ComputeSimplifiedFaces runs the simplification pipeline. Afterwards the
// arrangement is planar (no overlaps or crossings), bridge-free, every vertex
// has order >= 2 with sorted incident half-edges, and faces with hole nesting
// and winding maps are available.
func (g *Graph) ComputeSimplifiedFaces() {
	g.eliminateOverlap()
	g.eliminateSelfIntersection()
	g.eliminateIntersection()
	g.collapseVertices()
	g.removeBridges()
	g.removeLowOrderVertices()
	g.orderVertexEdges()
	g.extractFaces()
	g.computeBoundaryTree()
	g.computeWindingMap()
}

////////////////////////////////////////////////////////////////

// sweepEvent is the start or end of an item's y-extent during a vertical
// sweep.
type sweepEvent[T any] struct {
	y     float64
	start bool
	item  T
}

type sweepQueue[T any] []sweepEvent[T]

func (q sweepQueue[T]) Len() int { return len(q) }
func (q sweepQueue[T]) Less(i, j int) bool {
	if q[i].y != q[j].y {
		return q[i].y < q[j].y
	}
	return q[i].start && !q[j].start // starts coexist with ends at equal y
}
func (q sweepQueue[T]) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *sweepQueue[T]) Push(x any)   { *q = append(*q, x.(sweepEvent[T])) }
func (q *sweepQueue[T]) Pop() any {
	old := *q
	ev := old[len(old)-1]
	*q = old[:len(old)-1]
	return ev
}

////////////////////////////////////////////////////////////////

// eliminateOverlap replaces every pair of edges coinciding over a continuous
// sub-range by one merged edge for the shared middle plus up to four leftover
// end pieces. A vertical sweep over the edges' y-bounds keeps an active set
// in an interval tree keyed on x-bounds.
func (g *Graph) eliminateOverlap() {
	queue := &sweepQueue[*Edge]{}
	tree := newIntervalTree[*Edge]()
	push := func(e *Edge) {
		b := e.Seg.Bounds().Expand(Epsilon)
		heap.Push(queue, sweepEvent[*Edge]{b.Y0, true, e})
		heap.Push(queue, sweepEvent[*Edge]{b.Y1, false, e})
	}
	for _, e := range g.Edges {
		push(e)
	}

	for queue.Len() != 0 {
		ev := heap.Pop(queue).(sweepEvent[*Edge])
		e := ev.item
		if e.removed {
			continue
		}
		if !ev.start {
			if e.item != nil {
				tree.Remove(e.item)
				e.item = nil
			}
			continue
		}

		b := e.Seg.Bounds().Expand(Epsilon)
		var other *Edge
		var overlap Overlap
		tree.Query(b.X0, b.X1, func(cand *Edge) bool {
			for _, o := range e.Seg.Overlaps(cand.Seg) {
				if vertexTolerance < o.TMax-o.TMin && vertexTolerance < o.UMax-o.UMin {
					other, overlap = cand, o
					return false
				}
			}
			return true
		})
		if other == nil {
			e.item = tree.Insert(b.X0, b.X1, e)
			continue
		}

		tree.Remove(other.item)
		other.item = nil
		for _, created := range g.mergeOverlap(e, other, overlap) {
			push(created)
		}
	}
}

// mergeOverlap splits edges a and b at the bounds of their overlap, replaces
// both shared middles by a single merged edge, and splices all affected
// loops. It returns the edges created.
func (g *Graph) mergeOverlap(a, b *Edge, o Overlap) []*Edge {
	var created []*Edge

	t0, t1 := o.TMin, o.TMax
	v0, v1 := a.Start, a.End
	if vertexTolerance < t0 {
		v0 = g.newVertex(a.Seg.Position(t0))
	} else {
		t0 = 0.0
	}
	if t1 < 1.0-vertexTolerance {
		v1 = g.newVertex(a.Seg.Position(t1))
	} else {
		t1 = 1.0
	}
	mid := g.newEdge(a.Seg.SplitRange(t0, t1), v0, v1)
	created = append(created, mid)

	var replA []*HalfEdge
	if 0.0 < t0 {
		pre := g.newEdge(a.Seg.SplitRange(0.0, t0), a.Start, v0)
		created = append(created, pre)
		replA = append(replA, pre.Forward)
	}
	replA = append(replA, mid.Forward)
	if t1 < 1.0 {
		post := g.newEdge(a.Seg.SplitRange(t1, 1.0), v1, a.End)
		created = append(created, post)
		replA = append(replA, post.Forward)
	}

	// b's shared middle becomes the same merged edge, reversed when the
	// parameterizations run in opposite directions
	u0, u1 := o.UMin, o.UMax
	w0, w1 := v0, v1
	midHE := mid.Forward
	if o.A < 0.0 {
		w0, w1 = v1, v0
		midHE = mid.Reversed
	}
	if u0 <= vertexTolerance {
		u0 = 0.0
	}
	if 1.0-vertexTolerance <= u1 {
		u1 = 1.0
	}
	var replB []*HalfEdge
	if 0.0 < u0 {
		pre := g.newEdge(b.Seg.SplitRange(0.0, u0), b.Start, w0)
		created = append(created, pre)
		replB = append(replB, pre.Forward)
	}
	replB = append(replB, midHE)
	if u1 < 1.0 {
		post := g.newEdge(b.Seg.SplitRange(u1, 1.0), w1, b.End)
		created = append(created, post)
		replB = append(replB, post.Forward)
	}

	g.spliceLoops(a, replA)
	g.spliceLoops(b, replB)
	g.removeEdge(a)
	g.removeEdge(b)
	return created
}

// eliminateSelfIntersection splits every self-crossing segment at both
// crossing parameters: a piece before, the enclosed middle loop, and a piece
// after, joined at one new vertex at the crossing point.
func (g *Graph) eliminateSelfIntersection() {
	edges := make([]*Edge, len(g.Edges))
	copy(edges, g.Edges)
	for _, e := range edges {
		t0, t1, ok := e.Seg.SelfIntersection()
		if !ok {
			continue
		}
		v := g.newVertex(e.Seg.Position(t0).Interpolate(e.Seg.Position(t1), 0.5))
		pre := g.newEdge(e.Seg.SplitRange(0.0, t0), e.Start, v)
		mid := g.newEdge(e.Seg.SplitRange(t0, t1), v, v)
		post := g.newEdge(e.Seg.SplitRange(t1, 1.0), v, e.End)
		g.spliceLoops(e, []*HalfEdge{pre.Forward, mid.Forward, post.Forward})
		g.removeEdge(e)
	}
}

// eliminateIntersection finds point intersections between distinct edges with
// the same sweep technique as overlap elimination and splits the edges hit at
// an interior parameter. Intersections that only touch at endpoints are
// already vertices and are discarded.
func (g *Graph) eliminateIntersection() {
	queue := &sweepQueue[*Edge]{}
	tree := newIntervalTree[*Edge]()
	push := func(e *Edge) {
		b := e.Seg.Bounds().Expand(Epsilon)
		heap.Push(queue, sweepEvent[*Edge]{b.Y0, true, e})
		heap.Push(queue, sweepEvent[*Edge]{b.Y1, false, e})
	}
	for _, e := range g.Edges {
		push(e)
	}

	for queue.Len() != 0 {
		ev := heap.Pop(queue).(sweepEvent[*Edge])
		e := ev.item
		if e.removed {
			continue
		}
		if !ev.start {
			if e.item != nil {
				tree.Remove(e.item)
				e.item = nil
			}
			continue
		}

		b := e.Seg.Bounds().Expand(Epsilon)
		handled := false
		tree.Query(b.X0, b.X1, func(cand *Edge) bool {
			for _, z := range intersectSegments(e.Seg, cand.Seg) {
				// an intersection at an existing vertex is endpoint touching
				eVertex := nearbyEndpoint(e, z.Point)
				candVertex := nearbyEndpoint(cand, z.Point)
				if eVertex != nil && candVertex != nil {
					continue
				}

				// reuse the touching edge's endpoint vertex when one exists
				v := eVertex
				if v == nil {
					v = candVertex
				}
				if v == nil {
					v = g.newVertex(z.Point)
				}

				if eVertex == nil {
					for _, created := range g.splitEdge(e, z.T, v) {
						push(created)
					}
				} else {
					push(e) // e unchanged, revisit later
				}
				if candVertex == nil {
					tree.Remove(cand.item)
					cand.item = nil
					for _, created := range g.splitEdge(cand, z.U, v) {
						push(created)
					}
				}
				handled = true
				return false
			}
			return true
		})
		if !handled {
			e.item = tree.Insert(b.X0, b.X1, e)
		}
	}
}

// nearbyEndpoint returns the edge's endpoint vertex within coincidence
// tolerance of p, or nil.
func nearbyEndpoint(e *Edge, p Point) *Vertex {
	if p.Sub(e.Start.Point).Length() < vertexTolerance {
		return e.Start
	} else if p.Sub(e.End.Point).Length() < vertexTolerance {
		return e.End
	}
	return nil
}

// splitEdge splits the edge at an interior parameter, joining the pieces at
// vertex v, and splices the replacement into all loops.
func (g *Graph) splitEdge(e *Edge, t float64, v *Vertex) []*Edge {
	pre := g.newEdge(e.Seg.SplitRange(0.0, t), e.Start, v)
	post := g.newEdge(e.Seg.SplitRange(t, 1.0), v, e.End)
	g.spliceLoops(e, []*HalfEdge{pre.Forward, post.Forward})
	g.removeEdge(e)
	return []*Edge{pre, post}
}

// collapseVertices merges vertices closer than the coincidence tolerance into
// one vertex at their average position, via a sweep over the vertices'
// y-coordinates with an interval tree keyed by x.
func (g *Graph) collapseVertices() {
	queue := &sweepQueue[*Vertex]{}
	tree := newIntervalTree[*Vertex]()
	push := func(v *Vertex) {
		heap.Push(queue, sweepEvent[*Vertex]{v.Point.Y - vertexTolerance, true, v})
		heap.Push(queue, sweepEvent[*Vertex]{v.Point.Y + vertexTolerance, false, v})
	}
	for _, v := range g.Vertices {
		push(v)
	}

	for queue.Len() != 0 {
		ev := heap.Pop(queue).(sweepEvent[*Vertex])
		v := ev.item
		if v.removed {
			continue
		}
		if !ev.start {
			if v.item != nil {
				tree.Remove(v.item)
				v.item = nil
			}
			continue
		}

		var other *Vertex
		tree.Query(v.Point.X-vertexTolerance, v.Point.X+vertexTolerance, func(cand *Vertex) bool {
			if cand.Point.Sub(v.Point).Length() < vertexTolerance {
				other = cand
				return false
			}
			return true
		})
		if other == nil {
			v.item = tree.Insert(v.Point.X-vertexTolerance, v.Point.X+vertexTolerance, v)
			continue
		}

		tree.Remove(other.item)
		other.item = nil
		push(g.mergeVertices(v, other))
	}
}

// mergeVertices replaces two coincident vertices by one at their average
// position (exact point when equal), repoints all incident edges, and removes
// edges that degenerate to a point in the process. Curved edges whose both
// endpoints merge but which still span area become self-loops.
func (g *Graph) mergeVertices(a, b *Vertex) *Vertex {
	p := a.Point
	if a.Point != b.Point {
		p = a.Point.Interpolate(b.Point, 0.5)
	}
	w := g.newVertex(p)
	w.Incident = make([]*HalfEdge, 0, len(a.Incident)+len(b.Incident))
	w.Incident = append(w.Incident, a.Incident...)
	w.Incident = append(w.Incident, b.Incident...)
	for _, he := range w.Incident {
		e := he.Edge
		if e.Start == a || e.Start == b {
			e.Start = w
		}
		if e.End == a || e.End == b {
			e.End = w
		}
	}

	incident := make([]*HalfEdge, len(w.Incident))
	copy(incident, w.Incident)
	for _, he := range incident {
		e := he.Edge
		if e.removed || e.Start != w || e.End != w {
			continue
		}
		if bounds := e.Seg.Bounds(); bounds.W() < vertexTolerance && bounds.H() < vertexTolerance {
			g.spliceLoops(e, nil)
			g.removeEdge(e)
		}
	}

	g.removeVertex(a)
	g.removeVertex(b)
	return w
}

// removeBridges removes every edge whose removal would not change the faces
// on either side, found with a depth-first visit/low traversal adapted to a
// multigraph: parallel edges are skipped from unvisited handling only once,
// via a per-edge visited flag, so they are never misclassified as bridges.
func (g *Graph) removeBridges() {
	for _, e := range g.Edges {
		e.visited = false
	}
	for _, v := range g.Vertices {
		v.disc, v.low = 0, 0
	}

	var bridges []*Edge
	index := 0
	var visit func(v *Vertex)
	visit = func(v *Vertex) {
		index++
		v.disc, v.low = index, index
		for _, he := range v.Incident {
			e := he.Edge
			if e.visited {
				continue
			}
			e.visited = true
			u := he.Start() // the other endpoint
			if u.disc == 0 {
				visit(u)
				if u.low < v.low {
					v.low = u.low
				}
				if v.disc < u.low {
					bridges = append(bridges, e)
				}
			} else if u.disc < v.low {
				v.low = u.disc
			}
		}
	}
	for _, v := range g.Vertices {
		if v.disc == 0 {
			visit(v)
		}
	}

	for _, e := range bridges {
		g.spliceLoops(e, nil)
		g.removeEdge(e)
	}
}

// removeLowOrderVertices strips vertices with fewer than 2 incident
// half-edges, removing their remaining edge, until a fixed point.
func (g *Graph) removeLowOrderVertices() {
	for {
		again := false
		vertices := make([]*Vertex, len(g.Vertices))
		copy(vertices, g.Vertices)
		for _, v := range vertices {
			if v.removed || 2 <= v.Order() {
				continue
			}
			for len(v.Incident) != 0 {
				e := v.Incident[0].Edge
				g.spliceLoops(e, nil)
				g.removeEdge(e)
			}
			g.removeVertex(v)
			again = true
		}
		if !again {
			return
		}
	}
}

// orderVertexEdges sorts each vertex's incident half-edges counter-clockwise
// by the angle of the edge's tangent at the vertex pointing away from it.
// Angles tied within tolerance are ordered by curvature at the vertex, then
// by curvature slightly away from it.
func (g *Graph) orderVertexEdges() {
	for _, v := range g.Vertices {
		if len(v.Incident) < 2 {
			continue
		}

		type key struct {
			he    *HalfEdge
			angle float64
		}
		keys := make([]key, len(v.Incident))

		// rotate the angular cut away from every tangent angle
		offset := 0.0
		for {
			ok := true
			for i, he := range v.Incident {
				a := angleNorm(he.awayTangent().Angle() + offset)
				if a < angleTieTolerance || 2.0*math.Pi-angleTieTolerance < a {
					ok = false
					break
				}
				keys[i] = key{he, a}
			}
			if ok {
				break
			}
			offset += sortCutRotation
		}

		sort.SliceStable(keys, func(i, j int) bool {
			if angleTieTolerance <= math.Abs(keys[i].angle-keys[j].angle) {
				return keys[i].angle < keys[j].angle
			}
			ki, kj := keys[i].he.awayCurvature(0.0), keys[j].he.awayCurvature(0.0)
			if !Equal(ki, kj) {
				return ki < kj
			}
			ki, kj = keys[i].he.awayCurvature(curvatureProbe), keys[j].he.awayCurvature(curvatureProbe)
			if !Equal(ki, kj) {
				return ki < kj
			}
			panic("bug: cannot order half-edges around vertex")
		})
		for i, k := range keys {
			v.Incident[i] = k.he
		}
	}
}
