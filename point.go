package cag

import (
	"fmt"
	"math"
)

// Epsilon is the smallest relevant numerical difference between two values.
const Epsilon = 1e-10

// Equal returns true if a and b are equal within tolerance Epsilon.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Interval returns true if t is in the closed interval [a,b] expanded by Epsilon on both sides.
func Interval(t, a, b float64) bool {
	return a-Epsilon <= t && t <= b+Epsilon
}

// angleNorm returns the angle theta in the range [0,2PI).
func angleNorm(theta float64) float64 {
	theta = math.Mod(theta, 2.0*math.Pi)
	if theta < 0.0 {
		theta += 2.0 * math.Pi
	}
	return theta
}

// angleEqual returns true if theta0 and theta1 refer to the same direction.
func angleEqual(theta0, theta1 float64) bool {
	d := angleNorm(theta0 - theta1)
	return d < Epsilon || 2.0*math.Pi-Epsilon < d
}

// angleBetween is true when theta is in the sweep (lower,upper) excluding the
// end points. Angles can be outside the [0,2PI) range.
func angleBetween(theta, lower, upper float64) bool {
	sweep := lower <= upper // true for CCW, ie along a positive angle
	theta = angleNorm(theta - lower)
	upper = angleNorm(upper - lower)
	return theta != 0.0 && (sweep && theta < upper || !sweep && theta > upper)
}

// angleBetweenInclusive is like angleBetween but includes the end points.
func angleBetweenInclusive(theta, lower, upper float64) bool {
	return angleEqual(theta, lower) || angleEqual(theta, upper) || angleBetween(theta, lower, upper)
}

////////////////////////////////////////////////////////////////

// Origin is the coordinate system origin.
var Origin = Point{0.0, 0.0}

// Point is a coordinate in 2D space. OP refers to the line that goes through the origin (0,0) and this point (x,y).
type Point struct {
	X, Y float64
}

// IsZero returns true if P is exactly zero.
func (p Point) IsZero() bool {
	return p.X == 0.0 && p.Y == 0.0
}

// Equals returns true if P and Q are equal with tolerance Epsilon.
func (p Point) Equals(q Point) bool {
	return Equal(p.X, q.X) && Equal(p.Y, q.Y)
}

// Neg negates x and y.
func (p Point) Neg() Point {
	return Point{-p.X, -p.Y}
}

// Add adds Q to P.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub subtracts Q from P.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Mul multiplies x and y by f.
func (p Point) Mul(f float64) Point {
	return Point{f * p.X, f * p.Y}
}

// Div divides x and y by f.
func (p Point) Div(f float64) Point {
	return Point{p.X / f, p.Y / f}
}

// Rot90CW rotates the line OP by 90 degrees CW.
func (p Point) Rot90CW() Point {
	return Point{p.Y, -p.X}
}

// Rot90CCW rotates the line OP by 90 degrees CCW.
func (p Point) Rot90CCW() Point {
	return Point{-p.Y, p.X}
}

// Rot rotates the line OP by phi radians CCW around p0.
func (p Point) Rot(phi float64, p0 Point) Point {
	sinphi, cosphi := math.Sincos(phi)
	return Point{
		p0.X + cosphi*(p.X-p0.X) - sinphi*(p.Y-p0.Y),
		p0.Y + sinphi*(p.X-p0.X) + cosphi*(p.Y-p0.Y),
	}
}

// Dot returns the dot product between OP and OQ, ie. zero if perpendicular and |OP|*|OQ| if aligned.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// PerpDot returns the perp dot product between OP and OQ, ie. zero if aligned and |OP|*|OQ| if perpendicular.
func (p Point) PerpDot(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of OP.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Angle returns the angle between the x-axis and OP.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Norm normalizes OP to be of the given length.
func (p Point) Norm(length float64) Point {
	d := p.Length()
	if Equal(d, 0.0) {
		return Point{}
	}
	return Point{p.X / d * length, p.Y / d * length}
}

// Interpolate returns a point on PQ that is linearly interpolated by t, ie. t=0 returns P and t=1 returns Q.
func (p Point) Interpolate(q Point, t float64) Point {
	return Point{(1-t)*p.X + t*q.X, (1-t)*p.Y + t*q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

////////////////////////////////////////////////////////////////

// Rect is an axis-aligned rectangle spanned between (X0,Y0) and (X1,Y1), with X0 <= X1 and Y0 <= Y1.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// RectFromPoints returns the smallest rectangle that encloses all given points.
func RectFromPoints(ps ...Point) Rect {
	r := Rect{ps[0].X, ps[0].Y, ps[0].X, ps[0].Y}
	for _, p := range ps[1:] {
		r = r.AddPoint(p)
	}
	return r
}

// W returns the width of the rectangle.
func (r Rect) W() float64 {
	return r.X1 - r.X0
}

// H returns the height of the rectangle.
func (r Rect) H() float64 {
	return r.Y1 - r.Y0
}

// Empty returns true when the rectangle has zero area.
func (r Rect) Empty() bool {
	return Equal(r.X0, r.X1) || Equal(r.Y0, r.Y1)
}

// AddPoint grows the rectangle to contain point p.
func (r Rect) AddPoint(p Point) Rect {
	if p.X < r.X0 {
		r.X0 = p.X
	}
	if p.X > r.X1 {
		r.X1 = p.X
	}
	if p.Y < r.Y0 {
		r.Y0 = p.Y
	}
	if p.Y > r.Y1 {
		r.Y1 = p.Y
	}
	return r
}

// Add returns the union of both rectangles.
func (r Rect) Add(q Rect) Rect {
	return Rect{
		math.Min(r.X0, q.X0), math.Min(r.Y0, q.Y0),
		math.Max(r.X1, q.X1), math.Max(r.Y1, q.Y1),
	}
}

// Expand grows the rectangle by d on all sides.
func (r Rect) Expand(d float64) Rect {
	return Rect{r.X0 - d, r.Y0 - d, r.X1 + d, r.Y1 + d}
}

// Overlaps returns true when both rectangles overlap or touch.
func (r Rect) Overlaps(q Rect) bool {
	return r.X0 <= q.X1 && q.X0 <= r.X1 && r.Y0 <= q.Y1 && q.Y0 <= r.Y1
}

// Contains returns true when point p lies within the rectangle.
func (r Rect) Contains(p Point) bool {
	return r.X0 <= p.X && p.X <= r.X1 && r.Y0 <= p.Y && p.Y <= r.Y1
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.X0, r.Y0, r.X1, r.Y1)
}

////////////////////////////////////////////////////////////////

// Gauss-Legendre quadrature integration from a to b with n=3
// see https://pomax.github.io/bezierinfo/legendre-gauss.html for more values
func gaussLegendre3(f func(float64) float64, a, b float64) float64 {
	c := (b - a) / 2.0
	d := (a + b) / 2.0
	Qd1 := f(-0.774596669*c + d)
	Qd2 := f(d)
	Qd3 := f(0.774596669*c + d)
	return c * ((5.0/9.0)*(Qd1+Qd3) + (8.0/9.0)*Qd2)
}

// Gauss-Legendre quadrature integration from a to b with n=5
func gaussLegendre5(f func(float64) float64, a, b float64) float64 {
	c := (b - a) / 2.0
	d := (a + b) / 2.0
	Qd1 := f(-0.90618*c + d)
	Qd2 := f(-0.538469*c + d)
	Qd3 := f(d)
	Qd4 := f(0.538469*c + d)
	Qd5 := f(0.90618*c + d)
	return c * (0.236927*(Qd1+Qd5) + 0.478629*(Qd2+Qd4) + 0.568889*Qd3)
}

// Numerically stable quadratic formula, lowest root is returned first.
// see https://math.stackexchange.com/a/2007723
func solveQuadraticFormula(a, b, c float64) (float64, float64) {
	if a == 0.0 {
		if b == 0.0 {
			if c == 0.0 {
				// all terms disappear, all x satisfy the solution
				return 0.0, math.NaN()
			}
			// linear term disappears, no solutions
			return math.NaN(), math.NaN()
		}
		// quadratic term disappears, solve linear equation
		return -c / b, math.NaN()
	}

	if c == 0.0 {
		// no constant term, one solution at zero and one from solving linearly
		return 0.0, -b / a
	}

	discriminant := b*b - 4.0*a*c
	if discriminant < 0.0 {
		return math.NaN(), math.NaN()
	} else if discriminant == 0.0 {
		return -b / (2.0 * a), math.NaN()
	}

	// Avoid catastrophic cancellation, which occurs when we subtract two nearly equal numbers and causes a large error.
	// This can be the case when 4*a*c is small so that sqrt(discriminant) -> b, and the sign of b and in front of the radical are the same.
	// Instead we calculate x where b and the radical have different signs, and then use this result in the analytical equivalent
	// of the formula, called the Citardauq Formula.
	q := math.Sqrt(discriminant)
	if b < 0.0 {
		// apply sign of b
		q = -q
	}
	x1 := -(b + q) / (2.0 * a)
	x2 := c / (a * x1)
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	return x1, x2
}

// Numerically stable cubic formula, roots are returned sorted when existing, NaN otherwise.
// see https://www.cs.uaf.edu/2012/spring/cs481/section/0/lecture/02_21_computing_roots.html
func solveCubicFormula(a, b, c, d float64) (float64, float64, float64) {
	var x1, x2, x3 float64
	x2, x3 = math.NaN(), math.NaN() // x1 is always set to a number below
	if a == 0.0 {
		x1, x2 = solveQuadraticFormula(b, c, d)
	} else {
		// obtain monic polynomial: x^3 + f.x^2 + g.x + h = 0
		b /= a
		c /= a
		d /= a

		// obtain depressed polynomial: x^3 + p.x + q
		p := c - b*b/3.0
		q := d - b*c/3.0 + 2.0*b*b*b/27.0
		if p == 0.0 {
			x1 = math.Cbrt(-q)
		} else if q == 0.0 {
			if p < 0.0 {
				x1 = -math.Sqrt(-p)
				x2 = 0.0
				x3 = -x1
			} else {
				x1 = 0.0
			}
		} else {
			discriminant := -4.0*p*p*p - 27.0*q*q
			if discriminant == 0.0 {
				x1 = 3.0 * q / p
				x2 = -3.0 * q / (2.0 * p)
			} else if discriminant > 0.0 {
				// three real roots, use trigonometric solution
				phi := math.Acos(3.0 * q / (2.0 * p) * math.Sqrt(-3.0/p))
				f := 2.0 * math.Sqrt(-p/3.0)
				x1 = f * math.Cos(phi/3.0-2.0*math.Pi/3.0)
				x2 = f * math.Cos(phi/3.0+2.0*math.Pi/3.0)
				x3 = f * math.Cos(phi/3.0)
			} else {
				// one real root, use Cardano's formula
				f := math.Sqrt(q*q/4.0 + p*p*p/27.0)
				x1 = math.Cbrt(-q/2.0+f) + math.Cbrt(-q/2.0-f)
			}
		}

		// undo depression
		x1 -= b / 3.0
		x2 -= b / 3.0
		x3 -= b / 3.0
	}

	// sort the roots, NaNs last
	if x3 < x2 || math.IsNaN(x2) && !math.IsNaN(x3) {
		x2, x3 = x3, x2
	}
	if x2 < x1 || math.IsNaN(x1) && !math.IsNaN(x2) {
		x1, x2 = x2, x1
	}
	if x3 < x2 || math.IsNaN(x2) && !math.IsNaN(x3) {
		x2, x3 = x3, x2
	}
	return x1, x2, x3
}
