package cag

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestGraphAddShape(t *testing.T) {
	g := NewGraph()
	g.AddShape(0, Rectangle(0.0, 0.0, 10.0, 10.0))
	test.T(t, len(g.Vertices), 4)
	test.T(t, len(g.Edges), 4)
	test.T(t, len(g.Loops), 1)
	test.That(t, g.Loops[0].Closed)
	test.T(t, len(g.Loops[0].HalfEdges), 4)
	test.T(t, g.Bounds(), Rect{0.0, 0.0, 10.0, 10.0})

	// half-edges chain around the loop
	for i, he := range g.Loops[0].HalfEdges {
		next := g.Loops[0].HalfEdges[(i+1)%4]
		test.That(t, he.End() == next.Start())
		test.That(t, he.Twin().Twin() == he)
	}
}

func TestGraphAddSubpathOpen(t *testing.T) {
	g := NewGraph()
	g.AddSubpath(0, MustParseSVGPath("M0 0L10 0L10 10"), false)
	test.T(t, len(g.Edges), 2)
	test.That(t, !g.Loops[0].Closed)

	// ensureClosed synthesizes the closing line
	g = NewGraph()
	g.AddSubpath(0, MustParseSVGPath("M0 0L10 0L10 10"), true)
	test.T(t, len(g.Edges), 3)
	test.That(t, g.Loops[0].Closed)
}

func TestGraphAddShapeDegenerate(t *testing.T) {
	g := NewGraph()
	g.AddShape(0, &Path{})
	g.AddShape(0, Rectangle(5.0, 5.0, 0.0, 0.0))
	p := &Path{}
	p.MoveTo(1.0, 1.0)
	p.LineTo(1.0, 1.0)
	g.AddShape(0, p)
	test.T(t, len(g.Edges), 0)
	test.T(t, len(g.Vertices), 0)
}

func TestGraphSimplifySquare(t *testing.T) {
	g := NewGraph()
	g.AddShape(0, Rectangle(0.0, 0.0, 10.0, 10.0))
	g.ComputeSimplifiedFaces()

	test.T(t, len(g.Faces), 2)
	test.T(t, g.Unbounded().Windings[0], 0)
	test.T(t, g.Faces[1].Windings[0], 1)
	test.Float(t, g.Faces[1].Boundary.Area, 100.0)
	test.T(t, len(g.Inner), 1)
	test.T(t, len(g.Outer), 1)
}

func TestGraphSimplifyBowtie(t *testing.T) {
	// self-crossing quadrilateral splits into two triangles at the crossing
	g := NewGraph()
	g.AddShape(0, MustParseSVGPath("M0 0L10 10L10 0L0 10z"))
	g.ComputeSimplifiedFaces()

	test.T(t, len(g.Faces), 3)
	test.T(t, len(g.Vertices), 5) // four corners and the crossing

	// one triangle is traversed CCW, the other CW
	w1 := g.Faces[1].Windings[0]
	w2 := g.Faces[2].Windings[0]
	test.That(t, w1 == 1 && w2 == -1 || w1 == -1 && w2 == 1)
	test.Float(t, g.Faces[1].Boundary.Area+g.Faces[2].Boundary.Area, 50.0)
}

func TestGraphSimplifyNested(t *testing.T) {
	// square with a hole, plus an island inside the hole
	g := NewGraph()
	g.AddShape(0, Rectangle(0.0, 0.0, 30.0, 30.0))
	g.AddShape(0, Polygon(Point{5.0, 5.0}, Point{5.0, 25.0}, Point{25.0, 25.0}, Point{25.0, 5.0})) // CW hole
	g.AddShape(0, Rectangle(10.0, 10.0, 10.0, 10.0))
	g.ComputeSimplifiedFaces()

	test.T(t, len(g.Faces), 4)
	test.T(t, g.Unbounded().Windings[0], 0)

	windings := map[float64]int{} // by area
	for _, f := range g.Faces[1:] {
		windings[f.Boundary.Area] = f.Windings[0]
	}
	test.T(t, windings[100.0], 1) // island
	test.T(t, windings[400.0], 0) // hole region

	// ring region: outer boundary area 900 with the hole as child
	test.T(t, windings[900.0], 1)
}

func TestGraphRemoveBridge(t *testing.T) {
	// two squares joined by a zero-width spike; the spike's two opposite
	// edges merge into one edge which then bridges the components
	g := NewGraph()
	g.AddShape(0, Rectangle(0.0, 0.0, 10.0, 10.0))
	g.AddShape(0, Rectangle(20.0, 0.0, 10.0, 10.0))
	g.AddSubpath(0, MustParseSVGPath("M10 0L20 0z"), true)
	g.ComputeSimplifiedFaces()

	test.T(t, len(g.Faces), 3)
	test.T(t, len(g.Edges), 8)
	test.Float(t, g.Faces[1].Boundary.Area, 100.0)
	test.Float(t, g.Faces[2].Boundary.Area, 100.0)
}

func TestGraphOverlappingSquares(t *testing.T) {
	g := NewGraph()
	g.AddShape(0, Rectangle(0.0, 0.0, 10.0, 10.0))
	g.AddShape(1, Rectangle(5.0, 0.0, 10.0, 10.0))
	g.ComputeSimplifiedFaces()

	// unbounded, left-only, overlap, right-only
	test.T(t, len(g.Faces), 4)
	counts := map[[2]int]int{}
	for _, f := range g.Faces[1:] {
		test.Float(t, f.Boundary.Area, 50.0)
		counts[[2]int{f.Windings[0], f.Windings[1]}]++
	}
	test.T(t, counts[[2]int{1, 0}], 1)
	test.T(t, counts[[2]int{1, 1}], 1)
	test.T(t, counts[[2]int{0, 1}], 1)
}

func TestGraphFilledSubGraph(t *testing.T) {
	g := NewGraph()
	g.AddShape(0, Rectangle(0.0, 0.0, 10.0, 10.0))
	g.AddShape(1, Rectangle(5.0, 0.0, 10.0, 10.0))
	g.ComputeSimplifiedFaces()
	g.ComputeFaceInclusion(NonZeroAny)

	sub := g.CreateFilledSubGraph()
	res := sub.FacesToShape()
	test.Float(t, res.Area(), 150.0)
	test.T(t, res.Bounds(), Rect{0.0, 0.0, 15.0, 10.0})

	// collinear chains collapse: the merged outline is a plain rectangle
	test.T(t, len(res.Segments()), 4)

	sub.Dispose()
	g.Dispose()
}
