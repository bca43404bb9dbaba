package cag

import (
	"fmt"
	"math"
)

// rayPerturbation rotates containment and boundary-resolution rays off the
// coordinate axes so they do not pass through vertices of typical
// (axis-aligned) geometry; the value is tuned empirically.
const rayPerturbation = 1.5729657

// SegmentIntersection is a point where two segments cross, with the
// parametric value on each segment.
type SegmentIntersection struct {
	Point Point
	T, U  float64
}

func (z SegmentIntersection) String() string {
	return fmt.Sprintf("%v at t=%g u=%g", z.Point, z.T, z.U)
}

// RayIntersection is a crossing of a segment with a half-infinite ray. Wind
// is +1 when the segment crosses the ray counter-clockwise (left-to-right as
// seen along the ray), -1 clockwise, and 0 for tangent touches.
type RayIntersection struct {
	Point    Point
	Distance float64
	Wind     int
	T        float64
}

// lineHits returns the parameters at which the segment meets the infinite
// line through origin with unit direction dir, with the signed distance along
// the line per hit.
func (seg Segment) lineHits(origin, dir Point) []RayIntersection {
	n := dir.Rot90CCW()
	c := n.Dot(origin)

	var ts []float64
	switch seg.Kind {
	case LineKind:
		f0 := n.Dot(seg.P0) - c
		f1 := n.Dot(seg.P1) - c
		if !Equal(f0, f1) {
			ts = append(ts, f0/(f0-f1))
		}
	case QuadKind:
		f0 := n.Dot(seg.P0) - c
		f1 := n.Dot(seg.P1) - c
		f2 := n.Dot(seg.P2) - c
		r0, r1 := solveQuadraticFormula(f0-2.0*f1+f2, 2.0*(f1-f0), f0)
		ts = append(ts, r0, r1)
	case CubeKind:
		f0 := n.Dot(seg.P0) - c
		f1 := n.Dot(seg.P1) - c
		f2 := n.Dot(seg.P2) - c
		f3 := n.Dot(seg.P3) - c
		r0, r1, r2 := solveCubicFormula(-f0+3.0*f1-3.0*f2+f3, 3.0*f0-6.0*f1+3.0*f2, -3.0*f0+3.0*f1, f0)
		ts = append(ts, r0, r1, r2)
	case ArcKind:
		// n.pos(theta) = n.C + A*cos(theta) + B*sin(theta)
		sinphi, cosphi := math.Sincos(seg.Phi)
		A := seg.R.X * (n.X*cosphi + n.Y*sinphi)
		B := seg.R.Y * (n.Y*cosphi - n.X*sinphi)
		rhs := c - n.Dot(seg.C)
		r := math.Hypot(A, B)
		if r < math.Abs(rhs)-Epsilon {
			break
		}
		acos := math.Acos(math.Max(-1.0, math.Min(1.0, rhs/r)))
		phi0 := math.Atan2(B, A)
		for _, theta := range []float64{phi0 + acos, phi0 - acos} {
			for k := -3; k <= 3; k++ {
				ts = append(ts, seg.thetaT(theta+2.0*math.Pi*float64(k)))
			}
		}
	}

	var hits []RayIntersection
	for _, t := range ts {
		if math.IsNaN(t) || !Interval(t, 0.0, 1.0) {
			continue
		}
		t = math.Max(0.0, math.Min(1.0, t))
		dup := false
		for _, h := range hits {
			if Equal(h.T, t) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		pos := seg.Position(t)
		wind := 0
		if w := dir.PerpDot(seg.Derivative(t)); w < -Epsilon {
			wind = -1
		} else if Epsilon < w {
			wind = 1
		}
		hits = append(hits, RayIntersection{
			Point:    pos,
			Distance: pos.Sub(origin).Dot(dir),
			Wind:     wind,
			T:        t,
		})
	}
	return hits
}

// RayIntersections returns the crossings of the segment with the ray from
// origin in unit direction dir, excluding hits at or behind the origin.
func (seg Segment) RayIntersections(origin, dir Point) []RayIntersection {
	var res []RayIntersection
	for _, h := range seg.lineHits(origin, dir) {
		if Epsilon < h.Distance {
			res = append(res, h)
		}
	}
	return res
}

// windingAt returns the winding number of the segment set around point p.
// Crossings at a vertex would be counted by both adjacent segments, so hits
// at a segment's start parameter are skipped; each joint counts once through
// the incoming segment.
func windingAt(segs []Segment, p Point) int {
	dir := Point{math.Cos(rayPerturbation), math.Sin(rayPerturbation)}
	n := 0
	for _, seg := range segs {
		for _, h := range seg.RayIntersections(p, dir) {
			if Epsilon < h.T {
				n += h.Wind
			}
		}
	}
	return n
}

////////////////////////////////////////////////////////////////

// intersectSegments returns the points at which two segments cross, with the
// parameter on each. Continuous overlaps are not reported here; they are the
// concern of Overlaps. Pairs involving a line are solved in closed form, all
// others by monotone bounding-box subdivision.
func intersectSegments(a, b Segment) []SegmentIntersection {
	if a.Kind == LineKind {
		return lineIntersections(a, b)
	} else if b.Kind == LineKind {
		zs := lineIntersections(b, a)
		for i := range zs {
			zs[i].T, zs[i].U = zs[i].U, zs[i].T
		}
		return zs
	}
	return intersectionsGeneric(a, b)
}

func lineIntersections(line, seg Segment) []SegmentIntersection {
	d := line.P1.Sub(line.P0)
	length := d.Length()
	if Equal(length, 0.0) {
		return nil
	}
	dir := d.Div(length)

	var zs []SegmentIntersection
	for _, h := range seg.lineHits(line.P0, dir) {
		t := h.Distance / length
		if !Interval(t, 0.0, 1.0) {
			continue
		}
		zs = append(zs, SegmentIntersection{
			Point: h.Point,
			T:     math.Max(0.0, math.Min(1.0, t)),
			U:     h.T,
		})
	}
	return zs
}

// subdivisionPrecision is the box size below which the generic intersection
// recursion accepts a candidate point.
const subdivisionPrecision = 1e-9

type boxCandidate struct {
	t, u float64
	p    Point
}

// intersectionsGeneric recursively subdivides both segments' axis-monotone
// pieces, discarding box pairs that no longer touch, until the boxes shrink
// to geometric precision; surviving candidates are averaged into single
// intersection points.
func intersectionsGeneric(a, b Segment) []SegmentIntersection {
	type piece struct {
		seg    Segment
		t0, t1 float64
	}
	monotone := func(seg Segment) []piece {
		var ps []piece
		t0 := 0.0
		rest := seg
		for _, t := range seg.InteriorExtrema() {
			head, tail := rest.Subdivide((t - t0) / (1.0 - t0))
			ps = append(ps, piece{head, t0, t})
			rest, t0 = tail, t
		}
		return append(ps, piece{rest, t0, 1.0})
	}

	var candidates []boxCandidate
	var recurse func(a, b piece, depth int)
	recurse = func(a, b piece, depth int) {
		ba, bb := a.seg.Bounds(), b.seg.Bounds()
		if !ba.Expand(Epsilon).Overlaps(bb.Expand(Epsilon)) {
			return
		}
		if depth <= 0 || ba.W() < subdivisionPrecision && ba.H() < subdivisionPrecision &&
			bb.W() < subdivisionPrecision && bb.H() < subdivisionPrecision {
			tm, um := (a.t0+a.t1)/2.0, (b.t0+b.t1)/2.0
			pa, pb := a.seg.Position(0.5), b.seg.Position(0.5)
			candidates = append(candidates, boxCandidate{tm, um, pa.Interpolate(pb, 0.5)})
			return
		}
		// split the piece with the larger box
		if bb.W()+bb.H() < ba.W()+ba.H() {
			h, t := a.seg.Subdivide(0.5)
			tm := (a.t0 + a.t1) / 2.0
			recurse(piece{h, a.t0, tm}, b, depth-1)
			recurse(piece{t, tm, a.t1}, b, depth-1)
		} else {
			h, t := b.seg.Subdivide(0.5)
			um := (b.t0 + b.t1) / 2.0
			recurse(a, piece{h, b.t0, um}, depth-1)
			recurse(a, piece{t, um, b.t1}, depth-1)
		}
	}
	for _, pa := range monotone(a) {
		for _, pb := range monotone(b) {
			recurse(pa, pb, 52)
		}
	}

	// cluster nearby candidates into single intersection points
	var zs []SegmentIntersection
	used := make([]bool, len(candidates))
	for i, c := range candidates {
		if used[i] {
			continue
		}
		sumT, sumU := c.t, c.u
		sumP := c.p
		n := 1
		for j := i + 1; j < len(candidates); j++ {
			if !used[j] && candidates[j].p.Sub(c.p).Length() < 1e-6 {
				used[j] = true
				sumT += candidates[j].t
				sumU += candidates[j].u
				sumP = sumP.Add(candidates[j].p)
				n++
			}
		}
		zs = append(zs, SegmentIntersection{
			Point: sumP.Div(float64(n)),
			T:     sumT / float64(n),
			U:     sumU / float64(n),
		})
	}
	return zs
}

// SelfIntersection returns the two parameters at which the segment crosses
// itself. Only cubic Béziers can self-intersect.
func (seg Segment) SelfIntersection() (float64, float64, bool) {
	if seg.Kind != CubeKind {
		return 0.0, 0.0, false
	}

	// power basis: pos(t) = p0 + c1*t + c2*t^2 + c3*t^3; a double point at
	// parameters t,s satisfies c3*(u^2-v) + c2*u + c1 = 0 with u=t+s, v=t*s
	c1 := seg.P1.Sub(seg.P0).Mul(3.0)
	c2 := seg.P0.Sub(seg.P1.Mul(2.0)).Add(seg.P2).Mul(3.0)
	c3 := seg.P0.Neg().Add(seg.P1.Mul(3.0)).Sub(seg.P2.Mul(3.0)).Add(seg.P3)

	det := c3.PerpDot(c2)
	if Equal(det, 0.0) {
		return 0.0, 0.0, false
	}
	u := c1.PerpDot(c3) / det
	w := c2.PerpDot(c1) / det
	v := u*u - w

	disc := u*u - 4.0*v
	if disc <= Epsilon {
		return 0.0, 0.0, false
	}
	sqrt := math.Sqrt(disc)
	t0 := (u - sqrt) / 2.0
	t1 := (u + sqrt) / 2.0
	if t0 <= Epsilon || 1.0-Epsilon <= t1 || t1-t0 <= Epsilon {
		return 0.0, 0.0, false
	}
	return t0, t1, true
}
