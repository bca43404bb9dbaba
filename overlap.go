package cag

import (
	"fmt"
	"math"
)

// Overlap is a continuous parametric range over which two segments coincide.
// The affine map u = A*t + B takes a parameter t on the first segment to the
// parameter u on the second; [TMin,TMax] and [UMin,UMax] are the ranges,
// clamped to [0,1], over which the segments share geometry. A is negative
// when the segments run in opposite directions.
type Overlap struct {
	A, B       float64
	TMin, TMax float64
	UMin, UMax float64
}

func (o Overlap) String() string {
	return fmt.Sprintf("Overlap(u=%g*t%+g t=[%g,%g] u=[%g,%g])", o.A, o.B, o.TMin, o.TMax, o.UMin, o.UMax)
}

// newOverlap clamps the affine map u = a*t + b to the unit square of both
// parameters and reports whether a non-trivial range remains.
func newOverlap(a, b float64) (Overlap, bool) {
	if Equal(a, 0.0) {
		return Overlap{}, false
	}
	t0, t1 := -b/a, (1.0-b)/a
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	tmin, tmax := math.Max(0.0, t0), math.Min(1.0, t1)
	if tmax-tmin < Epsilon {
		return Overlap{}, false
	}
	u0, u1 := a*tmin+b, a*tmax+b
	if u1 < u0 {
		u0, u1 = u1, u0
	}
	return Overlap{
		A: a, B: b,
		TMin: tmin, TMax: tmax,
		UMin: math.Max(0.0, u0), UMax: math.Min(1.0, u1),
	}, true
}

// Overlaps returns the parametric ranges over which seg and other coincide.
// Collinear lines and arcs on the same ellipse are resolved exactly; all
// other kind pairs fall back to endpoint correspondence validated by
// sampling. Two arcs on the same ellipse may overlap over two disjoint
// angular windows and then report two overlaps.
func (seg Segment) Overlaps(other Segment) []Overlap {
	if seg.Kind == LineKind && other.Kind == LineKind {
		return lineLineOverlap(seg, other)
	} else if seg.Kind == ArcKind && other.Kind == ArcKind {
		return arcArcOverlap(seg, other)
	}
	return genericOverlap(seg, other)
}

func lineLineOverlap(seg, other Segment) []Overlap {
	dp := seg.P1.Sub(seg.P0)
	dq := other.P1.Sub(other.P0)
	if dp.Equals(Origin) || dq.Equals(Origin) {
		return nil
	}
	if !Equal(dp.Norm(1.0).PerpDot(dq.Norm(1.0)), 0.0) {
		return nil
	}
	if w := other.P0.Sub(seg.P0); !w.Equals(Origin) && !Equal(dp.Norm(1.0).PerpDot(w.Norm(1.0)), 0.0) {
		return nil
	}

	// project seg's parameter line onto other's
	d := dq.Dot(dq)
	a := dp.Dot(dq) / d
	b := seg.P0.Sub(other.P0).Dot(dq) / d
	if o, ok := newOverlap(a, b); ok {
		return []Overlap{o}
	}
	return nil
}

func arcArcOverlap(seg, other Segment) []Overlap {
	if !seg.C.Equals(other.C) {
		return nil
	}
	dtheta := seg.Theta1 - seg.Theta0
	deta := other.Theta1 - other.Theta0
	if Equal(dtheta, 0.0) || Equal(deta, 0.0) {
		return nil
	}

	// an angle eta on other corresponds to eta+phase on seg when both arcs
	// lie on the same ellipse, accounting for the symmetries of the ellipse
	// parameterization (rotations by pi, and radii swapped with a quarter
	// turn) and free rotation for circles
	var phase float64
	if seg.R.Equals(other.R) {
		if Equal(seg.R.X, seg.R.Y) {
			phase = other.Phi - seg.Phi
		} else if angleEqual(seg.Phi, other.Phi) {
			phase = 0.0
		} else if angleEqual(seg.Phi+math.Pi, other.Phi) {
			phase = math.Pi
		} else {
			return nil
		}
	} else if Equal(seg.R.X, other.R.Y) && Equal(seg.R.Y, other.R.X) {
		if angleEqual(seg.Phi+math.Pi/2.0, other.Phi) {
			phase = math.Pi / 2.0
		} else if angleEqual(seg.Phi-math.Pi/2.0, other.Phi) {
			phase = -math.Pi / 2.0
		} else {
			return nil
		}
	} else {
		return nil
	}

	// coincidence requires theta(t) = eta(u) + phase + 2*pi*k; each k with a
	// non-empty angular window yields one overlap
	var overlaps []Overlap
	for k := -3; k <= 3; k++ {
		a := dtheta / deta
		b := (seg.Theta0 - other.Theta0 - phase - 2.0*math.Pi*float64(k)) / deta
		if o, ok := newOverlap(a, b); ok {
			overlaps = append(overlaps, o)
		}
	}
	return overlaps
}

// genericOverlap matches the segments' endpoints onto each other's parameter
// ranges, derives the affine map from the extreme correspondences, and
// accepts it only when sampled positions agree along the whole range.
func genericOverlap(seg, other Segment) []Overlap {
	type pair struct{ t, u float64 }
	var pairs []pair
	if u, ok := other.parameterOf(seg.Start()); ok {
		pairs = append(pairs, pair{0.0, u})
	}
	if u, ok := other.parameterOf(seg.End()); ok {
		pairs = append(pairs, pair{1.0, u})
	}
	if t, ok := seg.parameterOf(other.Start()); ok {
		pairs = append(pairs, pair{t, 0.0})
	}
	if t, ok := seg.parameterOf(other.End()); ok {
		pairs = append(pairs, pair{t, 1.0})
	}
	if len(pairs) < 2 {
		return nil
	}

	// take the extreme correspondences in t
	lo, hi := pairs[0], pairs[0]
	for _, p := range pairs[1:] {
		if p.t < lo.t {
			lo = p
		}
		if hi.t < p.t {
			hi = p
		}
	}
	if Equal(lo.t, hi.t) {
		return nil
	}
	a := (hi.u - lo.u) / (hi.t - lo.t)
	b := lo.u - a*lo.t
	o, ok := newOverlap(a, b)
	if !ok {
		return nil
	}

	const samples = 16
	for i := 0; i <= samples; i++ {
		t := o.TMin + (o.TMax-o.TMin)*float64(i)/float64(samples)
		if !seg.Position(t).Equals(other.Position(a*t + b)) {
			return nil
		}
	}
	return []Overlap{o}
}

// parameterOf returns the parameter at which the segment passes through p,
// or false when p does not lie on the segment.
func (seg Segment) parameterOf(p Point) (float64, bool) {
	switch seg.Kind {
	case LineKind:
		d := seg.P1.Sub(seg.P0)
		l := d.Dot(d)
		if Equal(l, 0.0) {
			return 0.0, seg.P0.Equals(p)
		}
		t := p.Sub(seg.P0).Dot(d) / l
		if !Interval(t, 0.0, 1.0) || !seg.Position(t).Equals(p) {
			return 0.0, false
		}
		return math.Max(0.0, math.Min(1.0, t)), true
	case ArcKind:
		q := p.Sub(seg.C).Rot(-seg.Phi, Origin)
		if Equal(seg.R.X, 0.0) || Equal(seg.R.Y, 0.0) {
			return 0.0, false
		}
		theta := math.Atan2(q.Y/seg.R.Y, q.X/seg.R.X)
		if !ellipsePos(seg.R.X, seg.R.Y, seg.Phi, seg.C.X, seg.C.Y, theta).Equals(p) {
			return 0.0, false
		}
		for k := -3; k <= 3; k++ {
			t := seg.thetaT(theta + 2.0*math.Pi*float64(k))
			if Interval(t, 0.0, 1.0) {
				return math.Max(0.0, math.Min(1.0, t)), true
			}
		}
		return 0.0, false
	}

	// Béziers: coarse sampling followed by Newton iteration on the projection
	// f(t) = (pos(t)-p) . deriv(t)
	const samples = 32
	t, best := 0.0, math.Inf(1.0)
	for i := 0; i <= samples; i++ {
		ti := float64(i) / float64(samples)
		if d := seg.Position(ti).Sub(p).Length(); d < best {
			t, best = ti, d
		}
	}
	for i := 0; i < 8; i++ {
		dp := seg.Position(t).Sub(p)
		d := seg.Derivative(t)
		var dd Point
		if seg.Kind == QuadKind {
			dd = quadraticBezierDeriv2(seg.P0, seg.P1, seg.P2)
		} else {
			dd = cubicBezierDeriv2(seg.P0, seg.P1, seg.P2, seg.P3, t)
		}
		denom := d.Dot(d) + dp.Dot(dd)
		if Equal(denom, 0.0) {
			break
		}
		t -= dp.Dot(d) / denom
		t = math.Max(0.0, math.Min(1.0, t))
	}
	if !seg.Position(t).Equals(p) {
		return 0.0, false
	}
	return t, true
}
