package cag

import (
	"fmt"
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestSegmentPosition(t *testing.T) {
	line := lineSegment(Point{0.0, 0.0}, Point{10.0, 5.0})
	test.T(t, line.Start(), Point{0.0, 0.0})
	test.T(t, line.End(), Point{10.0, 5.0})
	test.T(t, line.Position(0.5), Point{5.0, 2.5})

	quad := quadSegment(Point{0.0, 0.0}, Point{5.0, 10.0}, Point{10.0, 0.0})
	test.T(t, quad.Position(0.5), Point{5.0, 5.0})
	test.T(t, quad.Position(0.0), quad.Start())
	test.T(t, quad.Position(1.0), quad.End())

	cube := cubeSegment(Point{0.0, 0.0}, Point{0.0, 10.0}, Point{10.0, 10.0}, Point{10.0, 0.0})
	test.T(t, cube.Position(0.5), Point{5.0, 7.5})

	arc := arcSegment(Point{0.0, 0.0}, Point{2.0, 2.0}, 0.0, 0.0, math.Pi)
	test.That(t, arc.Start().Equals(Point{2.0, 0.0}))
	test.That(t, arc.End().Equals(Point{-2.0, 0.0}))
	test.That(t, arc.Position(0.5).Equals(Point{0.0, 2.0}))
}

func TestSegmentTangent(t *testing.T) {
	line := lineSegment(Point{0.0, 0.0}, Point{10.0, 0.0})
	test.T(t, line.StartTangent(), Point{1.0, 0.0})
	test.T(t, line.EndTangent(), Point{1.0, 0.0})

	arc := arcSegment(Point{0.0, 0.0}, Point{2.0, 2.0}, 0.0, 0.0, math.Pi)
	test.That(t, arc.StartTangent().Equals(Point{0.0, 1.0}))
	test.That(t, arc.EndTangent().Equals(Point{0.0, -1.0}))

	// coincident control point at the start
	cube := cubeSegment(Point{0.0, 0.0}, Point{0.0, 0.0}, Point{10.0, 10.0}, Point{20.0, 10.0})
	test.That(t, cube.StartTangent().Equals(Point{math.Sqrt(0.5), math.Sqrt(0.5)}))
}

func TestSegmentCurvature(t *testing.T) {
	line := lineSegment(Point{0.0, 0.0}, Point{10.0, 0.0})
	test.Float(t, line.Curvature(0.5), 0.0)

	// CCW circle of radius 2 curves left with curvature 1/r
	arc := arcSegment(Point{0.0, 0.0}, Point{2.0, 2.0}, 0.0, 0.0, math.Pi)
	test.Float(t, arc.Curvature(0.3), 0.5)

	// CW circle curves right
	arc = arcSegment(Point{0.0, 0.0}, Point{2.0, 2.0}, 0.0, math.Pi, 0.0)
	test.Float(t, arc.Curvature(0.3), -0.5)
}

func TestSegmentBounds(t *testing.T) {
	quad := quadSegment(Point{0.0, 0.0}, Point{5.0, 10.0}, Point{10.0, 0.0})
	test.T(t, quad.Bounds(), Rect{0.0, 0.0, 10.0, 5.0})

	cube := cubeSegment(Point{0.0, 0.0}, Point{0.0, 10.0}, Point{10.0, 10.0}, Point{10.0, 0.0})
	test.T(t, cube.Bounds(), Rect{0.0, 0.0, 10.0, 7.5})

	arc := arcSegment(Point{1.0, 1.0}, Point{2.0, 1.0}, 0.0, 0.0, 2.0*math.Pi)
	b := arc.Bounds()
	test.Float(t, b.X0, -1.0)
	test.Float(t, b.Y0, 0.0)
	test.Float(t, b.X1, 3.0)
	test.Float(t, b.Y1, 2.0)

	// quarter arc only covers one quadrant
	arc = arcSegment(Point{0.0, 0.0}, Point{2.0, 2.0}, 0.0, 0.0, 0.5*math.Pi)
	b = arc.Bounds()
	test.Float(t, b.X0, 0.0)
	test.Float(t, b.Y0, 0.0)
	test.Float(t, b.X1, 2.0)
	test.Float(t, b.Y1, 2.0)
}

func TestSegmentSubdivide(t *testing.T) {
	for i, seg := range []Segment{
		lineSegment(Point{0.0, 0.0}, Point{10.0, 5.0}),
		quadSegment(Point{0.0, 0.0}, Point{5.0, 10.0}, Point{10.0, 0.0}),
		cubeSegment(Point{0.0, 0.0}, Point{0.0, 10.0}, Point{10.0, 10.0}, Point{10.0, 0.0}),
		arcSegment(Point{1.0, -1.0}, Point{3.0, 2.0}, 0.3, 0.5, 2.5),
	} {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			head, tail := seg.Subdivide(0.3)
			test.That(t, head.Start().Equals(seg.Start()))
			test.That(t, head.End().Equals(seg.Position(0.3)))
			test.That(t, tail.Start().Equals(seg.Position(0.3)))
			test.That(t, tail.End().Equals(seg.End()))
			test.That(t, head.Position(0.5).Equals(seg.Position(0.15)))
			test.That(t, tail.Position(0.5).Equals(seg.Position(0.65)))
		})
	}
}

func TestSegmentSplitRange(t *testing.T) {
	cube := cubeSegment(Point{0.0, 0.0}, Point{0.0, 10.0}, Point{10.0, 10.0}, Point{10.0, 0.0})
	mid := cube.SplitRange(0.25, 0.75)
	test.That(t, mid.Start().Equals(cube.Position(0.25)))
	test.That(t, mid.End().Equals(cube.Position(0.75)))
	test.That(t, mid.Position(0.5).Equals(cube.Position(0.5)))

	test.T(t, cube.SplitRange(0.0, 1.0), cube)
}

func TestSegmentReversed(t *testing.T) {
	for i, seg := range []Segment{
		lineSegment(Point{0.0, 0.0}, Point{10.0, 5.0}),
		quadSegment(Point{0.0, 0.0}, Point{5.0, 10.0}, Point{10.0, 0.0}),
		arcSegment(Point{1.0, -1.0}, Point{3.0, 2.0}, 0.3, 0.5, 2.5),
	} {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			rev := seg.Reversed()
			test.That(t, rev.Start().Equals(seg.End()))
			test.That(t, rev.End().Equals(seg.Start()))
			test.That(t, rev.Position(0.25).Equals(seg.Position(0.75)))
		})
	}
}

func TestSegmentSignedAreaFragment(t *testing.T) {
	// unit square out of lines
	square := []Segment{
		lineSegment(Point{0.0, 0.0}, Point{1.0, 0.0}),
		lineSegment(Point{1.0, 0.0}, Point{1.0, 1.0}),
		lineSegment(Point{1.0, 1.0}, Point{0.0, 1.0}),
		lineSegment(Point{0.0, 1.0}, Point{0.0, 0.0}),
	}
	area := 0.0
	for _, seg := range square {
		area += seg.SignedAreaFragment()
	}
	test.Float(t, area, 1.0)

	// full CCW circle, off-center
	arc := arcSegment(Point{3.0, 2.0}, Point{5.0, 5.0}, 0.0, 0.0, 2.0*math.Pi)
	test.Float(t, arc.SignedAreaFragment(), math.Pi*25.0)

	// quads and cubes integrate numerically; quad approximating nothing in
	// particular must agree with its fine polyline approximation
	quad := quadSegment(Point{0.0, 0.0}, Point{5.0, 10.0}, Point{10.0, 0.0})
	polyline := 0.0
	prev := quad.Position(0.0)
	for i := 1; i <= 1000; i++ {
		pos := quad.Position(float64(i) / 1000.0)
		polyline += prev.PerpDot(pos) / 2.0
		prev = pos
	}
	test.That(t, math.Abs(quad.SignedAreaFragment()-polyline) < 1e-3)
}

func TestSegmentInteriorExtrema(t *testing.T) {
	// symmetric quad peaks at t=0.5
	quad := quadSegment(Point{0.0, 0.0}, Point{5.0, 10.0}, Point{10.0, 0.0})
	ts := quad.InteriorExtrema()
	test.T(t, len(ts), 1)
	test.Float(t, ts[0], 0.5)

	// lines are monotone
	test.T(t, len(lineSegment(Point{0.0, 0.0}, Point{10.0, 5.0}).InteriorExtrema()), 0)

	// full circle has extrema at each quadrant boundary
	arc := arcSegment(Point{0.0, 0.0}, Point{2.0, 2.0}, 0.0, 0.0, 2.0*math.Pi)
	test.T(t, len(arc.InteriorExtrema()), 3)
}

func TestSegmentDegenerate(t *testing.T) {
	test.That(t, lineSegment(Point{1.0, 1.0}, Point{1.0, 1.0}).Degenerate())
	test.That(t, !lineSegment(Point{1.0, 1.0}, Point{2.0, 1.0}).Degenerate())
	test.That(t, arcSegment(Point{0.0, 0.0}, Point{2.0, 2.0}, 0.0, 1.0, 1.0).Degenerate())
	test.That(t, !arcSegment(Point{0.0, 0.0}, Point{2.0, 2.0}, 0.0, 0.0, 1.0).Degenerate())
	test.T(t, len(lineSegment(Point{1.0, 1.0}, Point{1.0, 1.0}).NondegenerateSegments()), 0)
}

func TestEllipseToCenter(t *testing.T) {
	cx, cy, rx, ry, theta0, theta1 := ellipseToCenter(0.0, 0.0, 2.0, 2.0, 0.0, false, true, 4.0, 0.0)
	test.Float(t, cx, 2.0)
	test.Float(t, cy, 0.0)
	test.Float(t, rx, 2.0)
	test.Float(t, ry, 2.0)
	test.Float(t, theta0, math.Pi)
	test.Float(t, theta1, 2.0*math.Pi)

	// sweep=false runs clockwise
	_, _, _, _, theta0, theta1 = ellipseToCenter(0.0, 0.0, 2.0, 2.0, 0.0, false, false, 4.0, 0.0)
	test.Float(t, theta0, math.Pi)
	test.Float(t, theta1, 0.0)

	// radii too small scale up
	_, _, rx, ry, _, _ = ellipseToCenter(0.0, 0.0, 1.0, 1.0, 0.0, false, true, 4.0, 0.0)
	test.Float(t, rx, 2.0)
	test.Float(t, ry, 2.0)

	// coincident endpoints yield a degenerate arc
	_, _, _, _, theta0, theta1 = ellipseToCenter(1.0, 1.0, 2.0, 2.0, 0.0, false, true, 1.0, 1.0)
	test.Float(t, theta0, theta1)
}

func TestSegmentsArcRoundTrip(t *testing.T) {
	p := &Path{}
	p.MoveTo(2.0, 0.0)
	p.ArcTo(2.0, 2.0, 0.0, false, true, -2.0, 0.0)
	segs := p.Segments()
	test.T(t, len(segs), 1)
	test.T(t, segs[0].Kind, ArcKind)
	test.That(t, segs[0].C.Equals(Point{0.0, 0.0}))
	test.That(t, segs[0].Position(0.5).Equals(Point{0.0, 2.0}))

	q := &Path{}
	q.MoveTo(2.0, 0.0)
	q.appendSegment(segs[0])
	test.That(t, q.Equals(p))
}
