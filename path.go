package cag

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// PathCmd is a path command.
type PathCmd int

// The supported path commands.
const (
	MoveToCmd PathCmd = iota
	LineToCmd
	QuadToCmd
	CubeToCmd
	ArcToCmd
	CloseCmd
)

// cmdLen returns the number of coordinate values for the given command.
func cmdLen(cmd PathCmd) int {
	switch cmd {
	case MoveToCmd, LineToCmd:
		return 2
	case QuadToCmd:
		return 4
	case CubeToCmd:
		return 6
	case ArcToCmd:
		return 7
	case CloseCmd:
		return 0
	}
	panic(fmt.Sprintf("bug: unknown path command %d", cmd))
}

// Path defines a vector path as a series of commands, each followed by its
// coordinate values. A path may consist of multiple subpaths, each starting
// with a MoveTo command. A subpath is closed by the Close command.
type Path struct {
	cmds []PathCmd
	d    []float64
	x0   float64 // subpath start
	y0   float64
}

// Empty returns true if the path contains no segments beyond MoveTos.
func (p *Path) Empty() bool {
	for _, cmd := range p.cmds {
		if cmd != MoveToCmd {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the path.
func (p *Path) Copy() *Path {
	q := &Path{
		cmds: make([]PathCmd, len(p.cmds)),
		d:    make([]float64, len(p.d)),
		x0:   p.x0,
		y0:   p.y0,
	}
	copy(q.cmds, p.cmds)
	copy(q.d, p.d)
	return q
}

// Equals returns true if both paths have the same commands and coordinates within tolerance Epsilon.
func (p *Path) Equals(q *Path) bool {
	if len(p.cmds) != len(q.cmds) || len(p.d) != len(q.d) {
		return false
	}
	for i := range p.cmds {
		if p.cmds[i] != q.cmds[i] {
			return false
		}
	}
	for i := range p.d {
		if !Equal(p.d[i], q.d[i]) {
			return false
		}
	}
	return true
}

// Pos returns the current position, which is the end point of the last command.
func (p *Path) Pos() Point {
	if len(p.cmds) > 0 && p.cmds[len(p.cmds)-1] == CloseCmd {
		return Point{p.x0, p.y0}
	}
	if len(p.d) > 1 {
		return Point{p.d[len(p.d)-2], p.d[len(p.d)-1]}
	}
	return Point{}
}

// StartPos returns the start position of the current subpath.
func (p *Path) StartPos() Point {
	return Point{p.x0, p.y0}
}

// Append appends path q to p and returns a new path.
func (p *Path) Append(q *Path) *Path {
	if q == nil || len(q.cmds) == 0 {
		return p
	}
	r := p.Copy()
	if q.cmds[0] != MoveToCmd {
		r.MoveTo(0.0, 0.0)
	}
	r.cmds = append(r.cmds, q.cmds...)
	r.d = append(r.d, q.d...)
	r.x0, r.y0 = q.x0, q.y0
	return r
}

// MoveTo moves the pen to (x,y) without drawing, starting a new subpath.
func (p *Path) MoveTo(x, y float64) {
	p.cmds = append(p.cmds, MoveToCmd)
	p.d = append(p.d, x, y)
	p.x0, p.y0 = x, y
}

// LineTo adds a line segment to (x,y).
func (p *Path) LineTo(x, y float64) {
	p.cmds = append(p.cmds, LineToCmd)
	p.d = append(p.d, x, y)
}

// QuadTo adds a quadratic Bézier with control point (cpx,cpy) ending at (x,y).
func (p *Path) QuadTo(cpx, cpy, x, y float64) {
	p.cmds = append(p.cmds, QuadToCmd)
	p.d = append(p.d, cpx, cpy, x, y)
}

// CubeTo adds a cubic Bézier with control points (cpx1,cpy1) and (cpx2,cpy2) ending at (x,y).
func (p *Path) CubeTo(cpx1, cpy1, cpx2, cpy2, x, y float64) {
	p.cmds = append(p.cmds, CubeToCmd)
	p.d = append(p.d, cpx1, cpy1, cpx2, cpy2, x, y)
}

// ArcTo adds an elliptical arc with radii rx and ry, with rot the counter-clockwise
// rotation of the ellipse in degrees, large and sweep booleans as per the SVG
// specification, ending at (x,y).
func (p *Path) ArcTo(rx, ry, rot float64, large, sweep bool, x, y float64) {
	flarge := 0.0
	if large {
		flarge = 1.0
	}
	fsweep := 0.0
	if sweep {
		fsweep = 1.0
	}
	p.cmds = append(p.cmds, ArcToCmd)
	p.d = append(p.d, rx, ry, rot, flarge, fsweep, x, y)
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.cmds = append(p.cmds, CloseCmd)
}

// Closed returns true if the last subpath is closed.
func (p *Path) Closed() bool {
	return len(p.cmds) > 0 && p.cmds[len(p.cmds)-1] == CloseCmd
}

// Reverse returns a new path with the direction of all subpaths reversed.
func (p *Path) Reverse() *Path {
	r := &Path{}
	for _, sub := range p.Split() {
		segs := sub.Segments()
		if len(segs) == 0 {
			start := sub.StartPos()
			r.MoveTo(start.X, start.Y)
			if sub.Closed() {
				r.Close()
			}
			continue
		}
		end := segs[len(segs)-1].End()
		r.MoveTo(end.X, end.Y)
		for i := len(segs) - 1; 0 <= i; i-- {
			r.appendSegment(segs[i].Reversed())
		}
		if sub.Closed() {
			r.Close()
		}
	}
	return r
}

////////////////////////////////////////////////////////////////

// Rectangle returns a rectangle at (x,y) of width w and height h.
func Rectangle(x, y, w, h float64) *Path {
	p := &Path{}
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

// Ellipse returns an ellipse centered at (x,y) with radii rx and ry.
func Ellipse(x, y, rx, ry float64) *Path {
	p := &Path{}
	p.MoveTo(x+rx, y)
	p.ArcTo(rx, ry, 0.0, false, true, x-rx, y)
	p.ArcTo(rx, ry, 0.0, false, true, x+rx, y)
	p.Close()
	return p
}

// Circle returns a circle centered at (x,y) with radius r.
func Circle(x, y, r float64) *Path {
	return Ellipse(x, y, r, r)
}

// Polygon returns a closed polygon over the given points.
func Polygon(ps ...Point) *Path {
	p := &Path{}
	for i, pos := range ps {
		if i == 0 {
			p.MoveTo(pos.X, pos.Y)
		} else {
			p.LineTo(pos.X, pos.Y)
		}
	}
	p.Close()
	return p
}

////////////////////////////////////////////////////////////////

// Split splits the path into its subpaths.
func (p *Path) Split() []*Path {
	var ps []*Path
	var cur *Path
	start := Point{}
	i := 0
	for _, cmd := range p.cmds {
		if cmd == MoveToCmd || cur == nil {
			if cur != nil && !cur.Empty() {
				ps = append(ps, cur)
			}
			cur = &Path{}
			if cmd != MoveToCmd {
				cur.MoveTo(start.X, start.Y)
			}
		}
		n := cmdLen(cmd)
		cur.cmds = append(cur.cmds, cmd)
		cur.d = append(cur.d, p.d[i:i+n]...)
		if cmd == MoveToCmd {
			cur.x0, cur.y0 = p.d[i], p.d[i+1]
		}
		if n > 0 {
			start = Point{p.d[i+n-2], p.d[i+n-1]}
		}
		i += n
	}
	if cur != nil && !cur.Empty() {
		ps = append(ps, cur)
	}
	return ps
}

// Bounds returns the exact bounding box of the path.
func (p *Path) Bounds() Rect {
	segs := p.Segments()
	if len(segs) == 0 {
		return Rect{}
	}
	r := segs[0].Bounds()
	for _, seg := range segs[1:] {
		r = r.Add(seg.Bounds())
	}
	return r
}

// Area returns the enclosed signed area of the path, positive for counter-clockwise
// orientation. Open subpaths are treated as if closed by a straight line.
func (p *Path) Area() float64 {
	area := 0.0
	for _, pi := range p.Split() {
		segs := pi.Segments()
		for _, seg := range segs {
			area += seg.SignedAreaFragment()
		}
		if len(segs) > 0 && !pi.Closed() {
			closing := lineSegment(segs[len(segs)-1].End(), segs[0].Start())
			area += closing.SignedAreaFragment()
		}
	}
	return area
}

// CCW returns true if the path is oriented counter-clockwise.
func (p *Path) CCW() bool {
	return 0.0 <= p.Area()
}

// Interior returns true if the point (x,y) lies within the path under the
// nonzero fill rule.
func (p *Path) Interior(x, y float64) bool {
	return windingAt(p.Segments(), Point{x, y}) != 0
}

////////////////////////////////////////////////////////////////

func skipCommaWhitespace(path []byte) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t') {
		i++
	}
	return i
}

func parseNum(path []byte) (float64, int) {
	i := skipCommaWhitespace(path)
	f, n := strconv.ParseFloat(path[i:])
	return f, i + n
}

// MustParseSVGPath is like ParseSVGPath but panics on error.
func MustParseSVGPath(s string) *Path {
	p, err := ParseSVGPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseSVGPath parses an SVG path data string.
func ParseSVGPath(s string) (*Path, error) {
	path := []byte(s)
	p := &Path{}

	var prevCmd byte
	cpx, cpy := 0.0, 0.0 // previous control point for smooth commands

	i := 0
	for i < len(path) {
		i += skipCommaWhitespace(path[i:])
		if i == len(path) {
			break
		}
		cmd := prevCmd
		if 'A' <= path[i] && path[i] <= 'z' {
			cmd = path[i]
			i++
		} else if cmd == 0 {
			return nil, fmt.Errorf("bad path: path must start with command")
		}
		pos := p.Pos()
		x, y := pos.X, pos.Y
		switch cmd {
		case 'M', 'm':
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			if cmd == 'm' {
				a += x
				b += y
			}
			p.MoveTo(a, b)
		case 'Z', 'z':
			p.Close()
		case 'L', 'l':
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			if cmd == 'l' {
				a += x
				b += y
			}
			p.LineTo(a, b)
		case 'H', 'h':
			a, n := parseNum(path[i:])
			i += n
			if cmd == 'h' {
				a += x
			}
			p.LineTo(a, y)
		case 'V', 'v':
			b, n := parseNum(path[i:])
			i += n
			if cmd == 'v' {
				b += y
			}
			p.LineTo(x, b)
		case 'C', 'c':
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			c, n := parseNum(path[i:])
			i += n
			d, n := parseNum(path[i:])
			i += n
			e, n := parseNum(path[i:])
			i += n
			f, n := parseNum(path[i:])
			i += n
			if cmd == 'c' {
				a += x
				b += y
				c += x
				d += y
				e += x
				f += y
			}
			p.CubeTo(a, b, c, d, e, f)
			cpx, cpy = c, d
		case 'S', 's':
			c, n := parseNum(path[i:])
			i += n
			d, n := parseNum(path[i:])
			i += n
			e, n := parseNum(path[i:])
			i += n
			f, n := parseNum(path[i:])
			i += n
			if cmd == 's' {
				c += x
				d += y
				e += x
				f += y
			}
			a, b := x, y
			if prevCmd == 'C' || prevCmd == 'c' || prevCmd == 'S' || prevCmd == 's' {
				a, b = 2.0*x-cpx, 2.0*y-cpy
			}
			p.CubeTo(a, b, c, d, e, f)
			cpx, cpy = c, d
		case 'Q', 'q':
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			c, n := parseNum(path[i:])
			i += n
			d, n := parseNum(path[i:])
			i += n
			if cmd == 'q' {
				a += x
				b += y
				c += x
				d += y
			}
			p.QuadTo(a, b, c, d)
			cpx, cpy = a, b
		case 'T', 't':
			c, n := parseNum(path[i:])
			i += n
			d, n := parseNum(path[i:])
			i += n
			if cmd == 't' {
				c += x
				d += y
			}
			a, b := x, y
			if prevCmd == 'Q' || prevCmd == 'q' || prevCmd == 'T' || prevCmd == 't' {
				a, b = 2.0*x-cpx, 2.0*y-cpy
			}
			p.QuadTo(a, b, c, d)
			cpx, cpy = a, b
		case 'A', 'a':
			a, n := parseNum(path[i:])
			i += n
			b, n := parseNum(path[i:])
			i += n
			c, n := parseNum(path[i:])
			i += n
			d, n := parseNum(path[i:])
			i += n
			e, n := parseNum(path[i:])
			i += n
			f, n := parseNum(path[i:])
			i += n
			g, n := parseNum(path[i:])
			i += n
			if cmd == 'a' {
				f += x
				g += y
			}
			large := math.Abs(d-1.0) < 1e-10
			sweep := math.Abs(e-1.0) < 1e-10
			p.ArcTo(a, b, c, large, sweep, f, g)
		default:
			return nil, fmt.Errorf("bad path: unknown command '%c' at position %d", cmd, i)
		}
		prevCmd = cmd
	}
	return p, nil
}

// String returns the path as SVG path data.
func (p *Path) String() string {
	sb := strings.Builder{}
	i := 0
	for _, cmd := range p.cmds {
		switch cmd {
		case MoveToCmd:
			fmt.Fprintf(&sb, "M%g %g", p.d[i+0], p.d[i+1])
		case LineToCmd:
			fmt.Fprintf(&sb, "L%g %g", p.d[i+0], p.d[i+1])
		case QuadToCmd:
			fmt.Fprintf(&sb, "Q%g %g %g %g", p.d[i+0], p.d[i+1], p.d[i+2], p.d[i+3])
		case CubeToCmd:
			fmt.Fprintf(&sb, "C%g %g %g %g %g %g", p.d[i+0], p.d[i+1], p.d[i+2], p.d[i+3], p.d[i+4], p.d[i+5])
		case ArcToCmd:
			fmt.Fprintf(&sb, "A%g %g %g %d %d %g %g", p.d[i+0], p.d[i+1], p.d[i+2], int(p.d[i+3]), int(p.d[i+4]), p.d[i+5], p.d[i+6])
		case CloseCmd:
			sb.WriteByte('z')
		}
		i += cmdLen(cmd)
	}
	return sb.String()
}
