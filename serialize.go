package cag

import (
	"encoding/json"
	"fmt"
)

// The wire format is a plain nested-object form with integer id
// cross-references: an edge references vertex ids, not vertex objects. A
// half-edge is addressed as twice its edge's id, plus one for the reversed
// direction. It is used for test fixtures and persistence, not transport.

type segmentJSON struct {
	Kind   string       `json:"kind"`
	Points [][2]float64 `json:"points,omitempty"`
	Center [2]float64   `json:"center,omitempty"`
	Radius [2]float64   `json:"radius,omitempty"`
	Phi    float64      `json:"phi,omitempty"`
	Theta0 float64      `json:"theta0,omitempty"`
	Theta1 float64      `json:"theta1,omitempty"`
}

type vertexJSON struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Incident []int   `json:"incident"`
}

type edgeJSON struct {
	ID      int         `json:"id"`
	Segment segmentJSON `json:"segment"`
	Start   int         `json:"start"`
	End     int         `json:"end"`
}

type loopJSON struct {
	ShapeID   int   `json:"shapeId"`
	Closed    bool  `json:"closed"`
	HalfEdges []int `json:"halfEdges"`
}

type boundaryJSON struct {
	ID        int        `json:"id"`
	HalfEdges []int      `json:"halfEdges"`
	Area      float64    `json:"area"`
	Bounds    [4]float64 `json:"bounds"`
	Children  []int      `json:"children"`
	Inner     bool       `json:"inner"`
	Face      int        `json:"face,omitempty"`
}

type faceJSON struct {
	ID       int         `json:"id"`
	Boundary int         `json:"boundary,omitempty"`
	Holes    []int       `json:"holes,omitempty"`
	Windings map[int]int `json:"windings,omitempty"`
	Filled   bool        `json:"filled"`
}

type graphJSON struct {
	Vertices   []vertexJSON   `json:"vertices"`
	Edges      []edgeJSON     `json:"edges"`
	Loops      []loopJSON     `json:"loops"`
	Boundaries []boundaryJSON `json:"boundaries"`
	Faces      []faceJSON     `json:"faces"`
	ShapeIDs   []int          `json:"shapeIds"`
	NextID     int            `json:"nextId"`
}

func halfEdgeID(he *HalfEdge) int {
	id := he.Edge.id * 2
	if he.reversed {
		id++
	}
	return id
}

func segmentToJSON(seg Segment) segmentJSON {
	switch seg.Kind {
	case LineKind:
		return segmentJSON{Kind: "line", Points: [][2]float64{{seg.P0.X, seg.P0.Y}, {seg.P1.X, seg.P1.Y}}}
	case QuadKind:
		return segmentJSON{Kind: "quad", Points: [][2]float64{{seg.P0.X, seg.P0.Y}, {seg.P1.X, seg.P1.Y}, {seg.P2.X, seg.P2.Y}}}
	case CubeKind:
		return segmentJSON{Kind: "cube", Points: [][2]float64{{seg.P0.X, seg.P0.Y}, {seg.P1.X, seg.P1.Y}, {seg.P2.X, seg.P2.Y}, {seg.P3.X, seg.P3.Y}}}
	}
	return segmentJSON{
		Kind:   "arc",
		Center: [2]float64{seg.C.X, seg.C.Y},
		Radius: [2]float64{seg.R.X, seg.R.Y},
		Phi:    seg.Phi,
		Theta0: seg.Theta0,
		Theta1: seg.Theta1,
	}
}

func segmentFromJSON(s segmentJSON) (Segment, error) {
	point := func(i int) Point { return Point{s.Points[i][0], s.Points[i][1]} }
	switch s.Kind {
	case "line":
		if len(s.Points) != 2 {
			return Segment{}, fmt.Errorf("bad line segment: expected 2 points, got %d", len(s.Points))
		}
		return lineSegment(point(0), point(1)), nil
	case "quad":
		if len(s.Points) != 3 {
			return Segment{}, fmt.Errorf("bad quad segment: expected 3 points, got %d", len(s.Points))
		}
		return quadSegment(point(0), point(1), point(2)), nil
	case "cube":
		if len(s.Points) != 4 {
			return Segment{}, fmt.Errorf("bad cube segment: expected 4 points, got %d", len(s.Points))
		}
		return cubeSegment(point(0), point(1), point(2), point(3)), nil
	case "arc":
		return arcSegment(Point{s.Center[0], s.Center[1]}, Point{s.Radius[0], s.Radius[1]}, s.Phi, s.Theta0, s.Theta1), nil
	}
	return Segment{}, fmt.Errorf("bad segment kind %q", s.Kind)
}

// Serialize encodes the full graph and all constituent records as JSON.
func (g *Graph) Serialize() ([]byte, error) {
	data := graphJSON{ShapeIDs: g.shapeIDs, NextID: g.nextID}

	for _, v := range g.Vertices {
		vj := vertexJSON{ID: v.id, X: v.Point.X, Y: v.Point.Y}
		for _, he := range v.Incident {
			vj.Incident = append(vj.Incident, halfEdgeID(he))
		}
		data.Vertices = append(data.Vertices, vj)
	}
	for _, e := range g.Edges {
		data.Edges = append(data.Edges, edgeJSON{
			ID:      e.id,
			Segment: segmentToJSON(e.Seg),
			Start:   e.Start.id,
			End:     e.End.id,
		})
	}
	for _, loop := range g.Loops {
		lj := loopJSON{ShapeID: loop.ShapeID, Closed: loop.Closed}
		for _, he := range loop.HalfEdges {
			lj.HalfEdges = append(lj.HalfEdges, halfEdgeID(he))
		}
		data.Loops = append(data.Loops, lj)
	}
	boundaries := append(append([]*Boundary{}, g.Inner...), g.Outer...)
	for _, b := range boundaries {
		bj := boundaryJSON{
			ID:     b.id,
			Area:   b.Area,
			Bounds: [4]float64{b.Bounds.X0, b.Bounds.Y0, b.Bounds.X1, b.Bounds.Y1},
			Inner:  b.inner,
		}
		for _, he := range b.HalfEdges {
			bj.HalfEdges = append(bj.HalfEdges, halfEdgeID(he))
		}
		for _, c := range b.Children {
			bj.Children = append(bj.Children, c.id)
		}
		if b.face != nil {
			bj.Face = b.face.id
		}
		data.Boundaries = append(data.Boundaries, bj)
	}
	for _, f := range g.Faces {
		fj := faceJSON{ID: f.id, Windings: f.Windings, Filled: f.Filled}
		if f.Boundary != nil {
			fj.Boundary = f.Boundary.id
		}
		for _, hole := range f.Holes {
			fj.Holes = append(fj.Holes, hole.id)
		}
		data.Faces = append(data.Faces, fj)
	}
	return json.Marshal(data)
}

// DeserializeGraph reconstructs a graph and all object cross-references from
// its serialized form.
func DeserializeGraph(b []byte) (*Graph, error) {
	var data graphJSON
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}

	g := &Graph{shapeIDs: data.ShapeIDs, nextID: data.NextID}

	vertices := make(map[int]*Vertex, len(data.Vertices))
	for _, vj := range data.Vertices {
		v := &Vertex{Point: Point{vj.X, vj.Y}, id: vj.ID, pos: len(g.Vertices)}
		vertices[vj.ID] = v
		g.Vertices = append(g.Vertices, v)
	}

	edges := make(map[int]*Edge, len(data.Edges))
	halfEdge := func(id int) (*HalfEdge, error) {
		e, ok := edges[id/2]
		if !ok {
			return nil, fmt.Errorf("bad half-edge id %d", id)
		}
		if id%2 == 1 {
			return e.Reversed, nil
		}
		return e.Forward, nil
	}
	for _, ej := range data.Edges {
		seg, err := segmentFromJSON(ej.Segment)
		if err != nil {
			return nil, err
		}
		start, ok := vertices[ej.Start]
		if !ok {
			return nil, fmt.Errorf("bad vertex id %d", ej.Start)
		}
		end, ok := vertices[ej.End]
		if !ok {
			return nil, fmt.Errorf("bad vertex id %d", ej.End)
		}
		e := &Edge{
			Seg:   seg,
			Start: start,
			End:   end,
			area:  seg.SignedAreaFragment(),
			id:    ej.ID,
			pos:   len(g.Edges),
		}
		e.Forward = &HalfEdge{Edge: e}
		e.Reversed = &HalfEdge{Edge: e, reversed: true}
		edges[ej.ID] = e
		g.Edges = append(g.Edges, e)
	}

	// incident lists preserve their stored (sorted) order
	for _, vj := range data.Vertices {
		v := vertices[vj.ID]
		for _, id := range vj.Incident {
			he, err := halfEdge(id)
			if err != nil {
				return nil, err
			}
			v.Incident = append(v.Incident, he)
		}
	}

	for _, lj := range data.Loops {
		loop := &Loop{ShapeID: lj.ShapeID, Closed: lj.Closed}
		for _, id := range lj.HalfEdges {
			he, err := halfEdge(id)
			if err != nil {
				return nil, err
			}
			loop.HalfEdges = append(loop.HalfEdges, he)
		}
		g.Loops = append(g.Loops, loop)
	}

	boundaries := make(map[int]*Boundary, len(data.Boundaries))
	for _, bj := range data.Boundaries {
		b := &Boundary{
			Area:   bj.Area,
			Bounds: Rect{bj.Bounds[0], bj.Bounds[1], bj.Bounds[2], bj.Bounds[3]},
			id:     bj.ID,
			inner:  bj.Inner,
		}
		for _, id := range bj.HalfEdges {
			he, err := halfEdge(id)
			if err != nil {
				return nil, err
			}
			he.boundary = b
			b.HalfEdges = append(b.HalfEdges, he)
		}
		boundaries[bj.ID] = b
		if b.inner {
			g.Inner = append(g.Inner, b)
		} else {
			g.Outer = append(g.Outer, b)
		}
	}
	for _, bj := range data.Boundaries {
		b := boundaries[bj.ID]
		for _, id := range bj.Children {
			c, ok := boundaries[id]
			if !ok {
				return nil, fmt.Errorf("bad boundary id %d", id)
			}
			b.Children = append(b.Children, c)
		}
	}

	faces := make(map[int]*Face, len(data.Faces))
	for _, fj := range data.Faces {
		f := &Face{Windings: fj.Windings, Filled: fj.Filled, id: fj.ID}
		if fj.Windings != nil {
			f.solved = true
		}
		if fj.Boundary != 0 {
			b, ok := boundaries[fj.Boundary]
			if !ok {
				return nil, fmt.Errorf("bad boundary id %d", fj.Boundary)
			}
			f.Boundary = b
		}
		for _, id := range fj.Holes {
			hole, ok := boundaries[id]
			if !ok {
				return nil, fmt.Errorf("bad boundary id %d", id)
			}
			f.Holes = append(f.Holes, hole)
		}
		faces[fj.ID] = f
		g.Faces = append(g.Faces, f)
	}
	for _, bj := range data.Boundaries {
		if bj.Face == 0 {
			continue
		}
		f, ok := faces[bj.Face]
		if !ok {
			return nil, fmt.Errorf("bad face id %d", bj.Face)
		}
		b := boundaries[bj.ID]
		b.face = f
		for _, he := range b.HalfEdges {
			he.Face = f
		}
	}
	return g, nil
}
