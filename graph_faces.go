package cag

import (
	"math"
)

// extractFaces consumes every half-edge exactly once into closed boundary
// walks. Following "next around a vertex" yields the tightest
// counter-clockwise turn at every step, so a walk encloses the region to its
// left. Positive-area boundaries become faces; the rest are hole candidates.
func (g *Graph) extractFaces() {
	unbounded := g.Faces[0]
	unbounded.Holes, unbounded.Windings = nil, nil
	unbounded.solved, unbounded.Filled = false, false
	g.Faces = g.Faces[:1]
	g.Inner, g.Outer = nil, nil

	for _, e := range g.Edges {
		e.Forward.Face, e.Forward.boundary = nil, nil
		e.Reversed.Face, e.Reversed.boundary = nil, nil
	}

	for _, e := range g.Edges {
		for _, he := range [2]*HalfEdge{e.Forward, e.Reversed} {
			if he.boundary != nil {
				continue
			}
			b := &Boundary{id: g.newID()}
			cur := he
			for {
				cur.boundary = b
				b.HalfEdges = append(b.HalfEdges, cur)
				b.Area += cur.areaFragment()
				if len(b.HalfEdges) == 1 {
					b.Bounds = cur.Edge.Seg.Bounds()
				} else {
					b.Bounds = b.Bounds.Add(cur.Edge.Seg.Bounds())
				}
				cur = g.nextAroundVertex(cur)
				if cur == he {
					break
				}
			}
			if 0.0 < b.Area {
				b.inner = true
				face := &Face{Boundary: b, id: g.newID()}
				b.face = face
				g.Faces = append(g.Faces, face)
				g.Inner = append(g.Inner, b)
			} else {
				g.Outer = append(g.Outer, b)
			}
		}
	}

	for _, b := range g.Inner {
		for _, he := range b.HalfEdges {
			he.Face = b.face
		}
	}
}

// nextAroundVertex continues a boundary walk: at the half-edge's end vertex,
// the incident half-edge immediately before it in sorted order, reversed, is
// the tightest counter-clockwise turn.
func (g *Graph) nextAroundVertex(he *HalfEdge) *HalfEdge {
	v := he.End()
	for i, in := range v.Incident {
		if in == he {
			return v.Incident[(i-1+len(v.Incident))%len(v.Incident)].Twin()
		}
	}
	panic("bug: half-edge not incident on its end vertex")
}

// directionalExtrema returns the interior parameters at which the segment's
// position is extremal along direction n, ie. where n.deriv(t) = 0.
func directionalExtrema(seg Segment, n Point) []float64 {
	var ts []float64
	switch seg.Kind {
	case QuadKind:
		f0 := n.Dot(seg.P1.Sub(seg.P0))
		f1 := n.Dot(seg.P2.Sub(seg.P1))
		if !Equal(f0, f1) {
			ts = append(ts, f0/(f0-f1))
		}
	case CubeKind:
		f0 := n.Dot(seg.P1.Sub(seg.P0))
		f1 := n.Dot(seg.P2.Sub(seg.P1))
		f2 := n.Dot(seg.P3.Sub(seg.P2))
		r0, r1 := solveQuadraticFormula(f0-2.0*f1+f2, 2.0*(f1-f0), f0)
		ts = append(ts, r0, r1)
	case ArcKind:
		sinphi, cosphi := math.Sincos(seg.Phi)
		a := seg.R.Y * (n.Y*cosphi - n.X*sinphi)  // cos coefficient of n.deriv
		b := -seg.R.X * (n.X*cosphi + n.Y*sinphi) // sin coefficient
		theta := math.Atan2(-a, b)
		for _, th := range []float64{theta, theta + math.Pi} {
			for k := -3; k <= 3; k++ {
				ts = append(ts, seg.thetaT(th+2.0*math.Pi*float64(k)))
			}
		}
	}
	var res []float64
	for _, t := range ts {
		if !math.IsNaN(t) && Epsilon < t && t < 1.0-Epsilon {
			res = append(res, t)
		}
	}
	return res
}

// extremePoint returns the boundary point with minimum y under the fixed
// perturbation rotation, so that a ray cast from it in the rotated downward
// direction leaves the boundary without grazing a vertex.
func (b *Boundary) extremePoint() Point {
	grad := Point{math.Sin(rayPerturbation), math.Cos(rayPerturbation)}
	best, bestVal := Origin, math.Inf(1.0)
	check := func(p Point) {
		if v := grad.Dot(p); v < bestVal {
			best, bestVal = p, v
		}
	}
	for _, he := range b.HalfEdges {
		seg := he.Edge.Seg
		check(seg.Start())
		check(seg.End())
		for _, t := range directionalExtrema(seg, grad) {
			check(seg.Position(t))
		}
	}
	return best
}

// computeBoundaryTree links every outer (hole candidate) boundary to the
// boundary that encloses it: a ray cast from the boundary's extreme point
// away from the shape hits, on its closest intersection, a half-edge whose
// left side faces the ray origin; that half-edge's boundary is the parent.
// Walking the resulting forest assigns each outer boundary to its enclosing
// face, with the unbounded face holding the roots.
func (g *Graph) computeBoundaryTree() {
	down := Point{-math.Sin(rayPerturbation), -math.Cos(rayPerturbation)}
	for _, b := range g.Inner {
		b.Children = nil
	}
	for _, o := range g.Outer {
		o.Children = nil
		o.face = nil
	}

	var roots []*Boundary
	for _, o := range g.Outer {
		origin := o.extremePoint()
		var hit *HalfEdge
		bestDist := math.Inf(1.0)
		for _, e := range g.Edges {
			for _, ri := range e.Seg.RayIntersections(origin, down) {
				if ri.Wind == 0 || bestDist <= ri.Distance {
					continue
				}
				bestDist = ri.Distance
				if 0 < ri.Wind {
					hit = e.Forward
				} else {
					hit = e.Reversed
				}
			}
		}
		if hit == nil {
			roots = append(roots, o)
			continue
		}
		if hit.boundary == o {
			panic("bug: boundary ray hit its own contour")
		}
		hit.boundary.Children = append(hit.boundary.Children, o)
	}

	// an outer boundary is a hole of its parent's face; outers chained below
	// another outer share that face
	var assign func(o *Boundary, face *Face)
	assign = func(o *Boundary, face *Face) {
		o.face = face
		face.Holes = append(face.Holes, o)
		for _, c := range o.Children {
			assign(c, face)
		}
	}
	for _, o := range roots {
		assign(o, g.Unbounded())
	}
	for _, b := range g.Inner {
		for _, c := range b.Children {
			assign(c, b.face)
		}
	}

	for _, o := range g.Outer {
		if o.face == nil {
			panic("bug: outer boundary without enclosing face")
		}
		for _, he := range o.HalfEdges {
			he.Face = o.face
		}
	}
}

// computeWindingMap propagates per-shape winding numbers across edges from
// the unbounded face (winding 0 everywhere) by fixed-point iteration: the
// face left of an edge's forward half-edge has winding higher than the face
// on the other side by the edge's traversal differential.
func (g *Graph) computeWindingMap() {
	diff := make(map[*Edge]map[int]int, len(g.Edges))
	for _, loop := range g.Loops {
		for _, he := range loop.HalfEdges {
			d := diff[he.Edge]
			if d == nil {
				d = make(map[int]int, 1)
				diff[he.Edge] = d
			}
			if he.reversed {
				d[loop.ShapeID]--
			} else {
				d[loop.ShapeID]++
			}
		}
	}

	for _, f := range g.Faces {
		f.Windings, f.solved = nil, false
	}
	unbounded := g.Unbounded()
	unbounded.Windings = make(map[int]int, len(g.shapeIDs))
	for _, id := range g.shapeIDs {
		unbounded.Windings[id] = 0
	}
	unbounded.solved = true

	solve := func(target, source *Face, d map[int]int, sign int) {
		target.Windings = make(map[int]int, len(g.shapeIDs))
		for _, id := range g.shapeIDs {
			target.Windings[id] = source.Windings[id] + sign*d[id]
		}
		target.solved = true
	}
	for changed := true; changed; {
		changed = false
		for _, e := range g.Edges {
			fa, fb := e.Forward.Face, e.Reversed.Face
			if fa == nil || fb == nil {
				panic("bug: half-edge without face")
			}
			if fa.solved && !fb.solved {
				solve(fb, fa, diff[e], -1)
				changed = true
			} else if !fa.solved && fb.solved {
				solve(fa, fb, diff[e], 1)
				changed = true
			}
		}
	}
	for _, f := range g.Faces {
		if !f.solved {
			panic("bug: winding map did not resolve")
		}
	}
}

// FacePredicate decides whether a face is filled, given its per-shape
// winding numbers.
type FacePredicate func(windings map[int]int) bool

// ComputeFaceInclusion sets every face's filled flag by applying the
// predicate to its winding-number map.
func (g *Graph) ComputeFaceInclusion(predicate FacePredicate) {
	for _, f := range g.Faces {
		f.Filled = predicate(f.Windings)
	}
}

// CreateFilledSubGraph builds a new graph containing only the edges where the
// two adjacent faces disagree on filled, ie. the boundary of the filled
// region. Degenerate 2-valent collinear line chains are re-collapsed, faces
// are re-derived, and filled flags alternate across edges starting from the
// unbounded face as unfilled; the reduced graph is even-degree at every
// vertex, which makes the alternating assignment consistent.
func (g *Graph) CreateFilledSubGraph() *Graph {
	sub := NewGraph()
	vmap := make(map[*Vertex]*Vertex)
	vertex := func(v *Vertex) *Vertex {
		if w, ok := vmap[v]; ok {
			return w
		}
		w := sub.newVertex(v.Point)
		vmap[v] = w
		return w
	}
	for _, e := range g.Edges {
		if e.Forward.Face.Filled == e.Reversed.Face.Filled {
			continue
		}
		sub.newEdge(e.Seg, vertex(e.Start), vertex(e.End))
	}

	sub.collapseCollinearChains()
	sub.orderVertexEdges()
	sub.extractFaces()
	sub.computeBoundaryTree()

	unbounded := sub.Unbounded()
	unbounded.solved = true
	unbounded.Filled = false
	for changed := true; changed; {
		changed = false
		for _, e := range sub.Edges {
			fa, fb := e.Forward.Face, e.Reversed.Face
			if fa.solved && !fb.solved {
				fb.Filled, fb.solved = !fa.Filled, true
				changed = true
			} else if !fa.solved && fb.solved {
				fa.Filled, fa.solved = !fb.Filled, true
				changed = true
			}
		}
	}
	for _, f := range sub.Faces {
		if !f.solved {
			panic("bug: fill assignment did not resolve")
		}
	}
	return sub
}

// collapseCollinearChains merges the two line edges of every 2-valent vertex
// whose edges continue each other in a straight line.
func (g *Graph) collapseCollinearChains() {
	for again := true; again; {
		again = false
		vertices := make([]*Vertex, len(g.Vertices))
		copy(vertices, g.Vertices)
		for _, v := range vertices {
			if v.removed || v.Order() != 2 {
				continue
			}
			he0, he1 := v.Incident[0], v.Incident[1]
			e0, e1 := he0.Edge, he1.Edge
			if e0 == e1 || e0.Seg.Kind != LineKind || e1.Seg.Kind != LineKind {
				continue
			}
			if !angleEqual(he0.awayTangent().Angle(), he1.awayTangent().Angle()+math.Pi) {
				continue
			}
			v0, v1 := he0.Start(), he1.Start()
			g.removeEdge(e0)
			g.removeEdge(e1)
			g.removeVertex(v)
			g.newEdge(lineSegment(v0.Point, v1.Point), v0, v1)
			again = true
		}
	}
}

// FacesToShape reconstructs one closed subpath per filled face boundary plus
// one per hole contour.
func (g *Graph) FacesToShape() *Path {
	p := &Path{}
	for _, f := range g.Faces {
		if !f.Filled || f.Boundary == nil {
			continue
		}
		appendBoundary(p, f.Boundary)
		for _, hole := range f.Holes {
			appendBoundary(p, hole)
		}
	}
	return p
}

func appendBoundary(p *Path, b *Boundary) {
	if len(b.HalfEdges) == 0 {
		return
	}
	start := b.HalfEdges[0].Start().Point
	p.MoveTo(start.X, start.Y)
	for _, he := range b.HalfEdges {
		p.appendSegment(he.Segment())
	}
	p.Close()
}
