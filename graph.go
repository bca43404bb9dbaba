package cag

// vertexTolerance is the distance below which endpoints are considered
// coincident and merged into one vertex at their average position.
const vertexTolerance = 1e-5

// Vertex is a unique point in the plane with the half-edges that end at it.
// After ordering, the incident list is counter-clockwise by outgoing tangent
// direction.
type Vertex struct {
	Point    Point
	Incident []*HalfEdge

	id      int
	pos     int // index in Graph.Vertices
	item    *intervalItem[*Vertex]
	removed bool

	// bridge detection
	disc, low int
}

// Order returns the number of half-edges incident on the vertex.
func (v *Vertex) Order() int {
	return len(v.Incident)
}

// Edge is an undirected association between a segment and its two terminal
// vertices, which lie within tolerance of the segment's true endpoints. It
// owns a forward and a reversed half-edge.
type Edge struct {
	Seg        Segment
	Start, End *Vertex
	Forward    *HalfEdge
	Reversed   *HalfEdge

	area    float64 // cached signed-area fragment of Seg
	id      int
	pos     int // index in Graph.Edges
	item    *intervalItem[*Edge]
	removed bool
	visited bool // per-pass flag (bridge detection, clipping)
}

// HalfEdge is one traversal direction of an edge.
type HalfEdge struct {
	Edge     *Edge
	Face     *Face
	reversed bool

	boundary *Boundary
	clip     bool // belongs to a clip-area loop during clipping
}

// Start returns the vertex the half-edge leaves.
func (he *HalfEdge) Start() *Vertex {
	if he.reversed {
		return he.Edge.End
	}
	return he.Edge.Start
}

// End returns the vertex the half-edge arrives at.
func (he *HalfEdge) End() *Vertex {
	if he.reversed {
		return he.Edge.Start
	}
	return he.Edge.End
}

// Twin returns the half-edge traversing the same edge the other way.
func (he *HalfEdge) Twin() *HalfEdge {
	if he.reversed {
		return he.Edge.Forward
	}
	return he.Edge.Reversed
}

// Segment returns the edge's segment in this half-edge's direction.
func (he *HalfEdge) Segment() Segment {
	if he.reversed {
		return he.Edge.Seg.Reversed()
	}
	return he.Edge.Seg
}

func (he *HalfEdge) areaFragment() float64 {
	if he.reversed {
		return -he.Edge.area
	}
	return he.Edge.area
}

// awayTangent returns the direction of travel leaving this half-edge's end
// vertex backwards along the edge, ie. the tangent pointing away from the
// vertex the half-edge ends at.
func (he *HalfEdge) awayTangent() Point {
	return he.Twin().Segment().StartTangent()
}

// awayCurvature returns the signed curvature at parameter t of the edge
// traversed away from this half-edge's end vertex.
func (he *HalfEdge) awayCurvature(t float64) float64 {
	if he.reversed {
		// twin traverses forward
		return he.Edge.Seg.Curvature(t)
	}
	return -he.Edge.Seg.Curvature(1.0 - t)
}

// Loop is the ordered list of half-edges that reconstruct one original input
// subpath. As edges are split or merged, the list is spliced in place.
type Loop struct {
	ShapeID   int
	Closed    bool
	HalfEdges []*HalfEdge
}

// Boundary is a closed walk of half-edges. Positive signed area marks an
// inner boundary (a face contour); non-positive an outer boundary (a hole
// contour). Children form the nesting forest resolved by the boundary tree.
type Boundary struct {
	HalfEdges []*HalfEdge
	Area      float64
	Bounds    Rect
	Children  []*Boundary

	id    int
	face  *Face
	inner bool
}

// Face is a region of the plane: the single unbounded face, or a region
// bounded by one inner boundary and zero or more hole boundaries. Windings
// maps each input shape id to the face's winding number for that shape.
type Face struct {
	Boundary *Boundary
	Holes    []*Boundary
	Windings map[int]int
	Filled   bool

	id     int
	solved bool
}

// Graph is the planar arrangement: the aggregate root owning all vertices,
// edges, loops, boundaries and faces.
type Graph struct {
	Vertices []*Vertex
	Edges    []*Edge
	Loops    []*Loop
	Faces    []*Face // Faces[0] is the unbounded face
	Inner    []*Boundary
	Outer    []*Boundary

	shapeIDs []int
	nextID   int
}

// NewGraph returns an empty arrangement with only the unbounded face.
func NewGraph() *Graph {
	g := &Graph{}
	g.Faces = append(g.Faces, &Face{id: g.newID()})
	return g
}

// Unbounded returns the unbounded face.
func (g *Graph) Unbounded() *Face {
	return g.Faces[0]
}

func (g *Graph) newID() int {
	g.nextID++
	return g.nextID
}

func (g *Graph) registerShapeID(shapeID int) {
	for _, id := range g.shapeIDs {
		if id == shapeID {
			return
		}
	}
	g.shapeIDs = append(g.shapeIDs, shapeID)
}

// AddShape adds every subpath of the shape to the arrangement under the
// given shape id, synthesizing closing lines for open subpaths.
func (g *Graph) AddShape(shapeID int, shape *Path) {
	for _, subpath := range shape.Split() {
		g.AddSubpath(shapeID, subpath, true)
	}
}

// AddSubpath adds a single subpath to the arrangement. When ensureClosed is
// set, an open subpath is closed with a synthesized line segment.
func (g *Graph) AddSubpath(shapeID int, subpath *Path, ensureClosed bool) {
	var segs []Segment
	for _, seg := range subpath.Segments() {
		segs = append(segs, seg.NondegenerateSegments()...)
	}
	if len(segs) == 0 {
		return
	}
	g.registerShapeID(shapeID)

	closed := subpath.Closed() || ensureClosed
	if closed {
		if gap := segs[len(segs)-1].End().Sub(segs[0].Start()); vertexTolerance <= gap.Length() {
			segs = append(segs, lineSegment(segs[len(segs)-1].End(), segs[0].Start()))
		}
	}

	// one vertex per joint; coincident endpoints are averaged
	joint := func(a, b Point) *Vertex {
		if a == b {
			return g.newVertex(a)
		} else if a.Sub(b).Length() < vertexTolerance {
			return g.newVertex(a.Interpolate(b, 0.5))
		}
		panic("bug: subpath segments do not chain")
	}
	n := len(segs)
	vertices := make([]*Vertex, n+1)
	vertices[0] = g.newVertex(segs[0].Start())
	for i := 1; i < n; i++ {
		vertices[i] = joint(segs[i-1].End(), segs[i].Start())
	}
	if closed && segs[n-1].End().Sub(vertices[0].Point).Length() < vertexTolerance {
		vertices[n] = vertices[0]
	} else {
		vertices[n] = g.newVertex(segs[n-1].End())
	}

	loop := &Loop{ShapeID: shapeID, Closed: closed}
	for i, seg := range segs {
		edge := g.newEdge(seg, vertices[i], vertices[i+1])
		loop.HalfEdges = append(loop.HalfEdges, edge.Forward)
	}
	g.Loops = append(g.Loops, loop)
}

func (g *Graph) newVertex(p Point) *Vertex {
	v := &Vertex{Point: p, id: g.newID(), pos: len(g.Vertices)}
	g.Vertices = append(g.Vertices, v)
	return v
}

func (g *Graph) removeVertex(v *Vertex) {
	last := len(g.Vertices) - 1
	g.Vertices[v.pos] = g.Vertices[last]
	g.Vertices[v.pos].pos = v.pos
	g.Vertices = g.Vertices[:last]
	v.removed = true
}

// newEdge builds an edge with its two half-edges and wires the vertices'
// incident lists. The vertices must lie within tolerance of the segment's
// endpoints.
func (g *Graph) newEdge(seg Segment, start, end *Vertex) *Edge {
	if vertexTolerance <= seg.Start().Sub(start.Point).Length() ||
		vertexTolerance <= seg.End().Sub(end.Point).Length() {
		panic("bug: edge endpoints do not match segment")
	}
	e := &Edge{
		Seg:   seg,
		Start: start,
		End:   end,
		area:  seg.SignedAreaFragment(),
		id:    g.newID(),
		pos:   len(g.Edges),
	}
	e.Forward = &HalfEdge{Edge: e}
	e.Reversed = &HalfEdge{Edge: e, reversed: true}
	end.Incident = append(end.Incident, e.Forward)
	start.Incident = append(start.Incident, e.Reversed)
	g.Edges = append(g.Edges, e)
	return e
}

// removeEdge detaches the edge from its vertices and from the graph. The
// edge must not be read afterwards within the same pass.
func (g *Graph) removeEdge(e *Edge) {
	detach := func(v *Vertex, he *HalfEdge) {
		for i, in := range v.Incident {
			if in == he {
				v.Incident = append(v.Incident[:i], v.Incident[i+1:]...)
				return
			}
		}
	}
	detach(e.End, e.Forward)
	detach(e.Start, e.Reversed)

	last := len(g.Edges) - 1
	g.Edges[e.pos] = g.Edges[last]
	g.Edges[e.pos].pos = e.pos
	g.Edges = g.Edges[:last]
	e.removed = true
}

// spliceLoops replaces every loop occurrence of the removed edge by the
// replacement half-edges, reversed when the loop traversed the edge
// backwards. An empty replacement splices the edge out.
func (g *Graph) spliceLoops(old *Edge, repl []*HalfEdge) {
	for _, loop := range g.Loops {
		for i := 0; i < len(loop.HalfEdges); i++ {
			he := loop.HalfEdges[i]
			if he.Edge != old {
				continue
			}
			ins := repl
			if he.reversed {
				ins = twins(repl)
			}
			hes := make([]*HalfEdge, 0, len(loop.HalfEdges)+len(ins)-1)
			hes = append(hes, loop.HalfEdges[:i]...)
			hes = append(hes, ins...)
			hes = append(hes, loop.HalfEdges[i+1:]...)
			loop.HalfEdges = hes
			i += len(ins) - 1
		}
	}
}

// twins returns the reversed traversal of a half-edge sequence.
func twins(hes []*HalfEdge) []*HalfEdge {
	res := make([]*HalfEdge, len(hes))
	for i, he := range hes {
		res[len(hes)-1-i] = he.Twin()
	}
	return res
}

// Dispose releases all graph state; no record of the graph may be read
// afterwards.
func (g *Graph) Dispose() {
	for _, v := range g.Vertices {
		v.Incident = nil
		v.removed = true
	}
	for _, e := range g.Edges {
		e.Forward, e.Reversed = nil, nil
		e.Start, e.End = nil, nil
		e.removed = true
	}
	g.Vertices, g.Edges, g.Loops, g.Faces = nil, nil, nil, nil
	g.Inner, g.Outer, g.shapeIDs = nil, nil, nil
}

// Bounds returns the bounding box of all edges in the arrangement.
func (g *Graph) Bounds() Rect {
	if len(g.Edges) == 0 {
		return Rect{}
	}
	r := g.Edges[0].Seg.Bounds()
	for _, e := range g.Edges[1:] {
		r = r.Add(e.Seg.Bounds())
	}
	return r
}
