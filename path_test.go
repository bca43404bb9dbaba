package cag

import (
	"fmt"
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestPathEmpty(t *testing.T) {
	p := &Path{}
	test.That(t, p.Empty())

	p.MoveTo(5.0, 2.0)
	test.That(t, p.Empty())

	p.LineTo(6.0, 2.0)
	test.That(t, !p.Empty())
}

func TestPathEquals(t *testing.T) {
	test.That(t, !MustParseSVGPath("M5 0L5 10").Equals(MustParseSVGPath("M5 0")))
	test.That(t, !MustParseSVGPath("M5 0L5 10").Equals(MustParseSVGPath("M5 0L5 9")))
	test.That(t, MustParseSVGPath("M5 0L5 10").Equals(MustParseSVGPath("M5 0L5 10")))
}

func TestPathClosed(t *testing.T) {
	test.That(t, !MustParseSVGPath("M5 0L5 10").Closed())
	test.That(t, MustParseSVGPath("M5 0L5 10z").Closed())
	test.That(t, !MustParseSVGPath("M5 0L5 10zM5 10").Closed())
}

func TestPathAppend(t *testing.T) {
	p := MustParseSVGPath("M5 0L5 10").Append(MustParseSVGPath("M5 15L10 15"))
	test.That(t, p.Equals(MustParseSVGPath("M5 0L5 10M5 15L10 15")))
	test.That(t, MustParseSVGPath("M5 0L5 10").Append(nil).Equals(MustParseSVGPath("M5 0L5 10")))
	test.That(t, (&Path{}).Append(MustParseSVGPath("M5 0L5 10")).Equals(MustParseSVGPath("M5 0L5 10")))
}

func TestParseSVGPath(t *testing.T) {
	var tts = []struct {
		orig string
		res  string
	}{
		{"M10 0L20 0", "M10 0L20 0"},
		{"m10 0l10 0", "M10 0L20 0"},
		{"M10 0H20V10", "M10 0L20 0L20 10"},
		{"M10 0h10v10h-10z", "M10 0L20 0L20 10L10 10z"},
		{"M0 0Q10 20 20 0", "M0 0Q10 20 20 0"},
		{"M0 0q10 20 20 0", "M0 0Q10 20 20 0"},
		{"M0 0C5 10 15 10 20 0", "M0 0C5 10 15 10 20 0"},
		{"M0 0c5 10 15 10 20 0", "M0 0C5 10 15 10 20 0"},
		{"M0 0S15 10 20 0", "M0 0C0 0 15 10 20 0"},
		{"M0 0C5 10 15 10 20 0S35 -10 40 0", "M0 0C5 10 15 10 20 0C25 -10 35 -10 40 0"},
		{"M0 0Q10 20 20 0T40 0", "M0 0Q10 20 20 0Q30 -20 40 0"},
		{"M0 0A10 10 0 0 1 20 0", "M0 0A10 10 0 0 1 20 0"},
		{"M0 0a10 10 0 0 1 20 0", "M0 0A10 10 0 0 1 20 0"},
		{"M0 0A10 5 90 1 0 20 0", "M0 0A10 5 90 1 0 20 0"},
		{"M10-10L20-10", "M10 -10L20 -10"},
		{"M.5.5L1.5.5", "M0.5 0.5L1.5 0.5"},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			p, err := ParseSVGPath(tt.orig)
			test.Error(t, err)
			test.T(t, p.String(), tt.res)
		})
	}
}

func TestParseSVGPathErrors(t *testing.T) {
	for i, s := range []string{"5 0L5 10", "M5 0X5 10"} {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			_, err := ParseSVGPath(s)
			test.That(t, err != nil)
		})
	}
}

func TestPathSplit(t *testing.T) {
	ps := MustParseSVGPath("M5 5L6 6zM10 10L20 20").Split()
	test.T(t, len(ps), 2)
	test.That(t, ps[0].Equals(MustParseSVGPath("M5 5L6 6z")))
	test.That(t, ps[1].Equals(MustParseSVGPath("M10 10L20 20")))
}

func TestPathPos(t *testing.T) {
	p := MustParseSVGPath("M5 5L10 10")
	test.T(t, p.StartPos(), Point{5.0, 5.0})
	test.T(t, p.Pos(), Point{10.0, 10.0})

	p.Close()
	test.T(t, p.Pos(), Point{5.0, 5.0})
}

func TestPathBounds(t *testing.T) {
	test.T(t, MustParseSVGPath("M10 0L20 10").Bounds(), Rect{10.0, 0.0, 20.0, 10.0})
	test.T(t, Rectangle(1.0, 2.0, 3.0, 4.0).Bounds(), Rect{1.0, 2.0, 4.0, 6.0})

	// the control point lies outside the curve's bounds
	b := MustParseSVGPath("M0 0Q10 20 20 0").Bounds()
	test.Float(t, b.Y1, 10.0)

	b = Circle(0.0, 0.0, 5.0).Bounds()
	test.T(t, b, Rect{-5.0, -5.0, 5.0, 5.0})
}

func TestPathArea(t *testing.T) {
	test.Float(t, Rectangle(0.0, 0.0, 10.0, 5.0).Area(), 50.0)
	test.Float(t, Circle(3.0, 2.0, 5.0).Area(), math.Pi*25.0)
	test.Float(t, Ellipse(0.0, 0.0, 4.0, 2.0).Area(), math.Pi*8.0)
	test.Float(t, Polygon(Point{0.0, 0.0}, Point{0.0, 10.0}, Point{10.0, 10.0}, Point{10.0, 0.0}).Area(), -100.0)

	// open paths close with a straight line
	test.Float(t, MustParseSVGPath("M0 0L10 0L10 10").Area(), 50.0)
}

func TestPathCCW(t *testing.T) {
	test.That(t, Rectangle(0.0, 0.0, 10.0, 5.0).CCW())
	test.That(t, Circle(0.0, 0.0, 5.0).CCW())
	test.That(t, !Polygon(Point{0.0, 0.0}, Point{0.0, 10.0}, Point{10.0, 10.0}, Point{10.0, 0.0}).CCW())
}

func TestPathInterior(t *testing.T) {
	p := Rectangle(0.0, 0.0, 10.0, 10.0)
	test.That(t, p.Interior(5.0, 5.0))
	test.That(t, !p.Interior(15.0, 5.0))
	test.That(t, !p.Interior(-5.0, 5.0))

	// hole of opposite orientation is not interior
	p = Rectangle(0.0, 0.0, 10.0, 10.0)
	p = p.Append(Polygon(Point{2.0, 2.0}, Point{2.0, 8.0}, Point{8.0, 8.0}, Point{8.0, 2.0}))
	test.That(t, !p.Interior(5.0, 5.0))
	test.That(t, p.Interior(1.0, 1.0))
}

func TestPathReverse(t *testing.T) {
	p := Rectangle(0.0, 0.0, 10.0, 5.0)
	r := p.Reverse()
	test.That(t, r.Closed())
	test.Float(t, r.Area(), -50.0)
	test.That(t, !r.CCW())

	// arcs flip their sweep
	c := Circle(0.0, 0.0, 5.0).Reverse()
	test.Float(t, c.Area(), -math.Pi*25.0)

	// open paths swap their endpoints
	open := MustParseSVGPath("M0 0Q10 20 20 0").Reverse()
	test.T(t, open.StartPos(), Point{20.0, 0.0})
	test.T(t, open.Pos(), Point{0.0, 0.0})
	test.That(t, open.Reverse().Equals(MustParseSVGPath("M0 0Q10 20 20 0")))
}

func TestPathStringRoundTrip(t *testing.T) {
	for i, s := range []string{
		"M10 0L20 0L20 10z",
		"M0 0Q10 20 20 0C25 -10 35 -10 40 0z",
		"M0 0A10 10 0 0 1 20 0z",
		"M0.5 0.125L1.5 0.125",
	} {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			p := MustParseSVGPath(s)
			test.That(t, MustParseSVGPath(p.String()).Equals(p))
		})
	}
}

func TestPathSegments(t *testing.T) {
	segs := MustParseSVGPath("M0 0L10 0Q15 5 10 10C5 15 0 15 0 10z").Segments()
	test.T(t, len(segs), 4)
	test.T(t, segs[0].Kind, LineKind)
	test.T(t, segs[1].Kind, QuadKind)
	test.T(t, segs[2].Kind, CubeKind)
	test.T(t, segs[3].Kind, LineKind) // closing line
	test.That(t, segs[3].End().Equals(Point{0.0, 0.0}))

	// close at the start position does not add a segment
	segs = MustParseSVGPath("M0 0L10 0L0 0z").Segments()
	test.T(t, len(segs), 2)
}
