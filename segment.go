package cag

import (
	"fmt"
	"math"
)

// SegmentKind discriminates the segment variants.
type SegmentKind int

// The supported segment kinds.
const (
	LineKind SegmentKind = iota
	QuadKind
	CubeKind
	ArcKind
)

func (kind SegmentKind) String() string {
	switch kind {
	case LineKind:
		return "Line"
	case QuadKind:
		return "Quad"
	case CubeKind:
		return "Cube"
	case ArcKind:
		return "Arc"
	}
	return "Unknown"
}

// Segment is one path segment: a line, quadratic Bézier, cubic Bézier, or
// elliptical arc. Béziers are stored by their control points, arcs in center
// parameterization with angles in radians; the arc sweeps from Theta0 to
// Theta1, counter-clockwise when Theta0 < Theta1.
type Segment struct {
	Kind           SegmentKind
	P0, P1, P2, P3 Point

	C, R           Point // arc center and radii
	Phi            float64
	Theta0, Theta1 float64
}

func lineSegment(p0, p1 Point) Segment {
	return Segment{Kind: LineKind, P0: p0, P1: p1}
}

func quadSegment(p0, p1, p2 Point) Segment {
	return Segment{Kind: QuadKind, P0: p0, P1: p1, P2: p2}
}

func cubeSegment(p0, p1, p2, p3 Point) Segment {
	return Segment{Kind: CubeKind, P0: p0, P1: p1, P2: p2, P3: p3}
}

func arcSegment(center, radius Point, phi, theta0, theta1 float64) Segment {
	return Segment{Kind: ArcKind, C: center, R: radius, Phi: phi, Theta0: theta0, Theta1: theta1}
}

func (seg Segment) String() string {
	switch seg.Kind {
	case LineKind:
		return fmt.Sprintf("Line(%v-%v)", seg.P0, seg.P1)
	case QuadKind:
		return fmt.Sprintf("Quad(%v-%v-%v)", seg.P0, seg.P1, seg.P2)
	case CubeKind:
		return fmt.Sprintf("Cube(%v-%v-%v-%v)", seg.P0, seg.P1, seg.P2, seg.P3)
	}
	return fmt.Sprintf("Arc(c=%v r=%v phi=%g %g°-%g°)", seg.C, seg.R, seg.Phi, seg.Theta0*180.0/math.Pi, seg.Theta1*180.0/math.Pi)
}

// Start returns the start point of the segment.
func (seg Segment) Start() Point {
	if seg.Kind == ArcKind {
		return ellipsePos(seg.R.X, seg.R.Y, seg.Phi, seg.C.X, seg.C.Y, seg.Theta0)
	}
	return seg.P0
}

// End returns the end point of the segment.
func (seg Segment) End() Point {
	switch seg.Kind {
	case LineKind:
		return seg.P1
	case QuadKind:
		return seg.P2
	case CubeKind:
		return seg.P3
	}
	return ellipsePos(seg.R.X, seg.R.Y, seg.Phi, seg.C.X, seg.C.Y, seg.Theta1)
}

// Position returns the coordinate at parameter t in [0,1].
func (seg Segment) Position(t float64) Point {
	switch seg.Kind {
	case LineKind:
		return seg.P0.Interpolate(seg.P1, t)
	case QuadKind:
		return quadraticBezierPos(seg.P0, seg.P1, seg.P2, t)
	case CubeKind:
		return cubicBezierPos(seg.P0, seg.P1, seg.P2, seg.P3, t)
	}
	return ellipsePos(seg.R.X, seg.R.Y, seg.Phi, seg.C.X, seg.C.Y, seg.theta(t))
}

// Derivative returns the velocity at parameter t in [0,1].
func (seg Segment) Derivative(t float64) Point {
	switch seg.Kind {
	case LineKind:
		return seg.P1.Sub(seg.P0)
	case QuadKind:
		return quadraticBezierDeriv(seg.P0, seg.P1, seg.P2, t)
	case CubeKind:
		return cubicBezierDeriv(seg.P0, seg.P1, seg.P2, seg.P3, t)
	}
	return ellipseDeriv(seg.R.X, seg.R.Y, seg.Phi, seg.Theta0 <= seg.Theta1, seg.theta(t)).Mul(math.Abs(seg.Theta1 - seg.Theta0))
}

// Tangent returns the direction of travel at parameter t. For Béziers with
// coincident control points at the evaluated end, the next control point
// determines the direction.
func (seg Segment) Tangent(t float64) Point {
	d := seg.Derivative(t)
	if !Equal(d.X, 0.0) || !Equal(d.Y, 0.0) {
		return d.Norm(1.0)
	}
	switch seg.Kind {
	case QuadKind:
		return seg.P2.Sub(seg.P0).Norm(1.0)
	case CubeKind:
		if t < 0.5 {
			if d = seg.P2.Sub(seg.P0); d.IsZero() {
				d = seg.P3.Sub(seg.P0)
			}
		} else {
			if d = seg.P3.Sub(seg.P1); d.IsZero() {
				d = seg.P3.Sub(seg.P0)
			}
		}
		return d.Norm(1.0)
	}
	return d
}

// StartTangent returns the direction of travel at the segment start.
func (seg Segment) StartTangent() Point {
	return seg.Tangent(0.0)
}

// EndTangent returns the direction of travel at the segment end.
func (seg Segment) EndTangent() Point {
	return seg.Tangent(1.0)
}

// Curvature returns the signed curvature at parameter t, positive when the
// segment curves to the left-hand side of the direction of travel.
func (seg Segment) Curvature(t float64) float64 {
	var d, dd Point
	switch seg.Kind {
	case LineKind:
		return 0.0
	case QuadKind:
		d = quadraticBezierDeriv(seg.P0, seg.P1, seg.P2, t)
		dd = quadraticBezierDeriv2(seg.P0, seg.P1, seg.P2)
	case CubeKind:
		d = cubicBezierDeriv(seg.P0, seg.P1, seg.P2, seg.P3, t)
		dd = cubicBezierDeriv2(seg.P0, seg.P1, seg.P2, seg.P3, t)
	default:
		theta := seg.theta(t)
		sweep := seg.Theta0 <= seg.Theta1
		d = ellipseDeriv(seg.R.X, seg.R.Y, seg.Phi, sweep, theta)
		dd = ellipseDeriv2(seg.R.X, seg.R.Y, seg.Phi, theta)
	}
	l := d.Length()
	if Equal(l, 0.0) {
		return 0.0
	}
	return d.PerpDot(dd) / (l * l * l)
}

// theta maps the parameter t in [0,1] to the arc angle.
func (seg Segment) theta(t float64) float64 {
	return seg.Theta0 + t*(seg.Theta1-seg.Theta0)
}

// InteriorExtrema returns the parameters in (0,1) where the x or y coordinate
// has a local extremum, splitting the segment into axis-monotone pieces.
func (seg Segment) InteriorExtrema() []float64 {
	var ts []float64
	switch seg.Kind {
	case LineKind:
	case QuadKind:
		// velocity is linear per axis
		ax := seg.P0.X - 2.0*seg.P1.X + seg.P2.X
		ay := seg.P0.Y - 2.0*seg.P1.Y + seg.P2.Y
		if !Equal(ax, 0.0) {
			ts = append(ts, (seg.P0.X-seg.P1.X)/ax)
		}
		if !Equal(ay, 0.0) {
			ts = append(ts, (seg.P0.Y-seg.P1.Y)/ay)
		}
	case CubeKind:
		// velocity is quadratic per axis
		ax := -seg.P0.X + 3.0*seg.P1.X - 3.0*seg.P2.X + seg.P3.X
		bx := 2.0 * (seg.P0.X - 2.0*seg.P1.X + seg.P2.X)
		cx := seg.P1.X - seg.P0.X
		r0, r1 := solveQuadraticFormula(ax, bx, cx)
		if !math.IsNaN(r0) {
			ts = append(ts, r0)
		}
		if !math.IsNaN(r1) {
			ts = append(ts, r1)
		}
		ay := -seg.P0.Y + 3.0*seg.P1.Y - 3.0*seg.P2.Y + seg.P3.Y
		by := 2.0 * (seg.P0.Y - 2.0*seg.P1.Y + seg.P2.Y)
		cy := seg.P1.Y - seg.P0.Y
		r0, r1 = solveQuadraticFormula(ay, by, cy)
		if !math.IsNaN(r0) {
			ts = append(ts, r0)
		}
		if !math.IsNaN(r1) {
			ts = append(ts, r1)
		}
	case ArcKind:
		thetaX := math.Atan2(-seg.R.Y*math.Sin(seg.Phi), seg.R.X*math.Cos(seg.Phi))
		thetaY := math.Atan2(seg.R.Y*math.Cos(seg.Phi), seg.R.X*math.Sin(seg.Phi))
		for _, theta := range []float64{thetaX, thetaX + math.Pi, thetaY, thetaY + math.Pi} {
			// find every occurrence of theta within the sweep
			for k := -3; k <= 3; k++ {
				ts = append(ts, seg.thetaT(theta+float64(k)*2.0*math.Pi))
			}
		}
	}
	var res []float64
	for _, t := range ts {
		if Epsilon < t && t < 1.0-Epsilon {
			res = append(res, t)
		}
	}
	sortFloats(res)
	return res
}

// thetaT maps an arc angle back to the parameter t, which may fall outside [0,1].
func (seg Segment) thetaT(theta float64) float64 {
	if Equal(seg.Theta0, seg.Theta1) {
		return -1.0
	}
	return (theta - seg.Theta0) / (seg.Theta1 - seg.Theta0)
}

// Bounds returns the exact axis-aligned bounding box of the segment.
func (seg Segment) Bounds() Rect {
	r := RectFromPoints(seg.Start(), seg.End())
	for _, t := range seg.InteriorExtrema() {
		r = r.AddPoint(seg.Position(t))
	}
	return r
}

// Subdivide splits the segment at parameter t into two segments that together
// cover the same curve.
func (seg Segment) Subdivide(t float64) (Segment, Segment) {
	switch seg.Kind {
	case LineKind:
		mid := seg.P0.Interpolate(seg.P1, t)
		return lineSegment(seg.P0, mid), lineSegment(mid, seg.P1)
	case QuadKind:
		q0, q1, q2, r0, r1, r2 := quadraticBezierSplit(seg.P0, seg.P1, seg.P2, t)
		return quadSegment(q0, q1, q2), quadSegment(r0, r1, r2)
	case CubeKind:
		q0, q1, q2, q3, r0, r1, r2, r3 := cubicBezierSplit(seg.P0, seg.P1, seg.P2, seg.P3, t)
		return cubeSegment(q0, q1, q2, q3), cubeSegment(r0, r1, r2, r3)
	}
	thetaM := seg.theta(t)
	return arcSegment(seg.C, seg.R, seg.Phi, seg.Theta0, thetaM),
		arcSegment(seg.C, seg.R, seg.Phi, thetaM, seg.Theta1)
}

// SplitRange returns the sub-segment covering the parameter range [t0,t1].
func (seg Segment) SplitRange(t0, t1 float64) Segment {
	if Equal(t0, 0.0) && Equal(t1, 1.0) {
		return seg
	}
	if !Equal(t1, 1.0) {
		seg, _ = seg.Subdivide(t1)
	}
	if !Equal(t0, 0.0) && !Equal(t1, 0.0) {
		_, seg = seg.Subdivide(t0 / t1)
	}
	return seg
}

// Reversed returns the segment traversed in the opposite direction.
func (seg Segment) Reversed() Segment {
	switch seg.Kind {
	case LineKind:
		return lineSegment(seg.P1, seg.P0)
	case QuadKind:
		return quadSegment(seg.P2, seg.P1, seg.P0)
	case CubeKind:
		return cubeSegment(seg.P3, seg.P2, seg.P1, seg.P0)
	}
	return arcSegment(seg.C, seg.R, seg.Phi, seg.Theta1, seg.Theta0)
}

// SignedAreaFragment returns the segment's contribution to the enclosed signed
// area of a closed path, ie. the line integral of (x dy - y dx)/2 along the
// segment. Summing the fragments of a closed path yields its signed area.
func (seg Segment) SignedAreaFragment() float64 {
	switch seg.Kind {
	case LineKind:
		return seg.P0.PerpDot(seg.P1) / 2.0
	case QuadKind:
		f := func(t float64) float64 {
			pos := quadraticBezierPos(seg.P0, seg.P1, seg.P2, t)
			d := quadraticBezierDeriv(seg.P0, seg.P1, seg.P2, t)
			return pos.PerpDot(d) / 2.0
		}
		return gaussLegendre3(f, 0.0, 1.0)
	case CubeKind:
		f := func(t float64) float64 {
			pos := cubicBezierPos(seg.P0, seg.P1, seg.P2, seg.P3, t)
			d := cubicBezierDeriv(seg.P0, seg.P1, seg.P2, seg.P3, t)
			return pos.PerpDot(d) / 2.0
		}
		return gaussLegendre5(f, 0.0, 1.0)
	}
	// exact for elliptical arcs
	dtheta := seg.Theta1 - seg.Theta0
	p0, p1 := seg.Start(), seg.End()
	return seg.R.X*seg.R.Y*dtheta/2.0 + (seg.C.X*(p1.Y-p0.Y)-seg.C.Y*(p1.X-p0.X))/2.0
}

// Degenerate returns true when the segment spans no geometry.
func (seg Segment) Degenerate() bool {
	var b Rect
	switch seg.Kind {
	case LineKind:
		b = RectFromPoints(seg.P0, seg.P1)
	case QuadKind:
		b = RectFromPoints(seg.P0, seg.P1, seg.P2)
	case CubeKind:
		b = RectFromPoints(seg.P0, seg.P1, seg.P2, seg.P3)
	default:
		return Equal(seg.Theta0, seg.Theta1) || Equal(seg.R.X, 0.0) && Equal(seg.R.Y, 0.0)
	}
	return b.X1-b.X0 < Epsilon && b.Y1-b.Y0 < Epsilon
}

// NondegenerateSegments returns the segment without degenerate geometry, or
// nil when nothing remains.
func (seg Segment) NondegenerateSegments() []Segment {
	if seg.Degenerate() {
		return nil
	}
	return []Segment{seg}
}

////////////////////////////////////////////////////////////////

func quadraticBezierPos(p0, p1, p2 Point, t float64) Point {
	p0 = p0.Mul((1.0 - t) * (1.0 - t))
	p1 = p1.Mul(2.0 * t * (1.0 - t))
	p2 = p2.Mul(t * t)
	return p0.Add(p1).Add(p2)
}

func quadraticBezierDeriv(p0, p1, p2 Point, t float64) Point {
	p0 = p0.Mul(-2.0 + 2.0*t)
	p1 = p1.Mul(2.0 - 4.0*t)
	p2 = p2.Mul(2.0 * t)
	return p0.Add(p1).Add(p2)
}

func quadraticBezierDeriv2(p0, p1, p2 Point) Point {
	p0 = p0.Mul(2.0)
	p1 = p1.Mul(-4.0)
	p2 = p2.Mul(2.0)
	return p0.Add(p1).Add(p2)
}

func quadraticBezierSplit(p0, p1, p2 Point, t float64) (Point, Point, Point, Point, Point, Point) {
	q0 := p0
	q1 := p0.Interpolate(p1, t)

	r2 := p2
	r1 := p1.Interpolate(p2, t)

	r0 := q1.Interpolate(r1, t)
	q2 := r0
	return q0, q1, q2, r0, r1, r2
}

func cubicBezierPos(p0, p1, p2, p3 Point, t float64) Point {
	p0 = p0.Mul((1.0 - t) * (1.0 - t) * (1.0 - t))
	p1 = p1.Mul(3.0 * t * (1.0 - t) * (1.0 - t))
	p2 = p2.Mul(3.0 * t * t * (1.0 - t))
	p3 = p3.Mul(t * t * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

func cubicBezierDeriv(p0, p1, p2, p3 Point, t float64) Point {
	p0 = p0.Mul(-3.0 + 6.0*t - 3.0*t*t)
	p1 = p1.Mul(3.0 - 12.0*t + 9.0*t*t)
	p2 = p2.Mul(6.0*t - 9.0*t*t)
	p3 = p3.Mul(3.0 * t * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

func cubicBezierDeriv2(p0, p1, p2, p3 Point, t float64) Point {
	p0 = p0.Mul(6.0 - 6.0*t)
	p1 = p1.Mul(18.0*t - 12.0)
	p2 = p2.Mul(6.0 - 18.0*t)
	p3 = p3.Mul(6.0 * t)
	return p0.Add(p1).Add(p2).Add(p3)
}

func cubicBezierDeriv3(p0, p1, p2, p3 Point) Point {
	p0 = p0.Mul(-6.0)
	p1 = p1.Mul(18.0)
	p2 = p2.Mul(-18.0)
	p3 = p3.Mul(6.0)
	return p0.Add(p1).Add(p2).Add(p3)
}

func cubicBezierSplit(p0, p1, p2, p3 Point, t float64) (Point, Point, Point, Point, Point, Point, Point, Point) {
	pm := p1.Interpolate(p2, t)

	q0 := p0
	q1 := p0.Interpolate(p1, t)
	q2 := q1.Interpolate(pm, t)

	r3 := p3
	r2 := p2.Interpolate(p3, t)
	r1 := pm.Interpolate(r2, t)

	r0 := q2.Interpolate(r1, t)
	q3 := r0
	return q0, q1, q2, q3, r0, r1, r2, r3
}

func ellipsePos(rx, ry, phi, cx, cy, theta float64) Point {
	sintheta, costheta := math.Sincos(theta)
	sinphi, cosphi := math.Sincos(phi)
	return Point{
		cx + rx*costheta*cosphi - ry*sintheta*sinphi,
		cy + rx*costheta*sinphi + ry*sintheta*cosphi,
	}
}

// ellipseDeriv returns the velocity at angle theta per unit of angle; sweep is
// true when the arc runs counter-clockwise (increasing angle).
func ellipseDeriv(rx, ry, phi float64, sweep bool, theta float64) Point {
	sintheta, costheta := math.Sincos(theta)
	sinphi, cosphi := math.Sincos(phi)
	d := Point{
		-rx*sintheta*cosphi - ry*costheta*sinphi,
		-rx*sintheta*sinphi + ry*costheta*cosphi,
	}
	if !sweep {
		return d.Neg()
	}
	return d
}

func ellipseDeriv2(rx, ry, phi, theta float64) Point {
	sintheta, costheta := math.Sincos(theta)
	sinphi, cosphi := math.Sincos(phi)
	return Point{
		-rx*costheta*cosphi + ry*sintheta*sinphi,
		-rx*costheta*sinphi - ry*sintheta*cosphi,
	}
}

// ellipseToCenter converts from the SVG endpoint parameterization of an
// elliptical arc to the center parameterization, returning the center, the
// possibly scaled-up radii, and the start and end angles in radians.
// see https://www.w3.org/TR/SVG/implnote.html#ArcImplementationNotes
func ellipseToCenter(x1, y1, rx, ry, phi float64, large, sweep bool, x2, y2 float64) (float64, float64, float64, float64, float64, float64) {
	if Equal(x1, x2) && Equal(y1, y2) {
		return x1, y1, rx, ry, 0.0, 0.0
	}
	if Equal(rx, 0.0) || Equal(ry, 0.0) {
		// radii cannot be zero, treat as a straight line between the endpoints
		return (x1 + x2) / 2.0, (y1 + y2) / 2.0, 0.0, 0.0, 0.0, 0.0
	}
	rx, ry = math.Abs(rx), math.Abs(ry)

	sinphi, cosphi := math.Sincos(phi)
	x1p := cosphi*(x1-x2)/2.0 + sinphi*(y1-y2)/2.0
	y1p := -sinphi*(x1-x2)/2.0 + cosphi*(y1-y2)/2.0

	// reduce rounding errors
	radiiCheck := x1p*x1p/rx/rx + y1p*y1p/ry/ry
	if radiiCheck > 1.0 {
		rx *= math.Sqrt(radiiCheck)
		ry *= math.Sqrt(radiiCheck)
	}

	sq := (rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p) / (rx*rx*y1p*y1p + ry*ry*x1p*x1p)
	if sq < 0.0 {
		sq = 0.0
	}
	coef := math.Sqrt(sq)
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := coef * -ry * x1p / rx
	cx := cosphi*cxp - sinphi*cyp + (x1+x2)/2.0
	cy := sinphi*cxp + cosphi*cyp + (y1+y2)/2.0

	ux := (x1p - cxp) / rx
	uy := (y1p - cyp) / ry
	vx := -(x1p + cxp) / rx
	vy := -(y1p + cyp) / ry

	theta := math.Acos(ux / math.Sqrt(ux*ux+uy*uy))
	if uy < 0.0 {
		theta = -theta
	}

	delta := math.Acos((ux*vx + uy*vy) / math.Sqrt((ux*ux+uy*uy)*(vx*vx+vy*vy)))
	if ux*vy-uy*vx < 0.0 {
		delta = -delta
	}
	if !sweep && delta > 0.0 {
		delta -= 2.0 * math.Pi
	} else if sweep && delta < 0.0 {
		delta += 2.0 * math.Pi
	}
	return cx, cy, rx, ry, theta, theta + delta
}

////////////////////////////////////////////////////////////////

// Segments converts the path to a list of segments; Close commands become
// line segments when they span a distance, MoveTos are dropped.
func (p *Path) Segments() []Segment {
	var segs []Segment
	var start, first Point
	i := 0
	for _, cmd := range p.cmds {
		switch cmd {
		case MoveToCmd:
			start = Point{p.d[i+0], p.d[i+1]}
			first = start
		case LineToCmd:
			end := Point{p.d[i+0], p.d[i+1]}
			segs = append(segs, lineSegment(start, end))
			start = end
		case QuadToCmd:
			cp := Point{p.d[i+0], p.d[i+1]}
			end := Point{p.d[i+2], p.d[i+3]}
			segs = append(segs, quadSegment(start, cp, end))
			start = end
		case CubeToCmd:
			cp1 := Point{p.d[i+0], p.d[i+1]}
			cp2 := Point{p.d[i+2], p.d[i+3]}
			end := Point{p.d[i+4], p.d[i+5]}
			segs = append(segs, cubeSegment(start, cp1, cp2, end))
			start = end
		case ArcToCmd:
			end := Point{p.d[i+5], p.d[i+6]}
			large := p.d[i+3] == 1.0
			sweep := p.d[i+4] == 1.0
			cx, cy, rx, ry, theta0, theta1 := ellipseToCenter(start.X, start.Y, p.d[i+0], p.d[i+1], p.d[i+2]*math.Pi/180.0, large, sweep, end.X, end.Y)
			if Equal(rx, 0.0) && Equal(ry, 0.0) {
				segs = append(segs, lineSegment(start, end))
			} else {
				segs = append(segs, arcSegment(Point{cx, cy}, Point{rx, ry}, p.d[i+2]*math.Pi/180.0, theta0, theta1))
			}
			start = end
		case CloseCmd:
			if !start.Equals(first) {
				segs = append(segs, lineSegment(start, first))
			}
			start = first
		}
		i += cmdLen(cmd)
	}
	return segs
}

// appendSegment appends the segment's drawing command to the path; the pen is
// assumed to be at the segment's start.
func (p *Path) appendSegment(seg Segment) {
	switch seg.Kind {
	case LineKind:
		p.LineTo(seg.P1.X, seg.P1.Y)
	case QuadKind:
		p.QuadTo(seg.P1.X, seg.P1.Y, seg.P2.X, seg.P2.Y)
	case CubeKind:
		p.CubeTo(seg.P1.X, seg.P1.Y, seg.P2.X, seg.P2.Y, seg.P3.X, seg.P3.Y)
	case ArcKind:
		end := seg.End()
		large := math.Pi < math.Abs(seg.Theta1-seg.Theta0)
		sweep := seg.Theta0 < seg.Theta1
		p.ArcTo(seg.R.X, seg.R.Y, seg.Phi*180.0/math.Pi, large, sweep, end.X, end.Y)
	}
}

func sortFloats(fs []float64) {
	for i := 1; i < len(fs); i++ {
		for j := i; j > 0 && fs[j] < fs[j-1]; j-- {
			fs[j], fs[j-1] = fs[j-1], fs[j]
		}
	}
}
