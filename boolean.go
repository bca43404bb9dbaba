package cag

// NonZeroAny reports a face filled when any input shape winds around it; used
// for unions and for simplifying a single shape.
func NonZeroAny(windings map[int]int) bool {
	for _, n := range windings {
		if n != 0 {
			return true
		}
	}
	return false
}

// NonZeroAll reports a face filled when every input shape winds around it;
// used for intersections.
func NonZeroAll(windings map[int]int) bool {
	if len(windings) == 0 {
		return false
	}
	for _, n := range windings {
		if n == 0 {
			return false
		}
	}
	return true
}

// NonZeroOdd reports a face filled when an odd number of input shapes wind
// around it; used for xor.
func NonZeroOdd(windings map[int]int) bool {
	count := 0
	for _, n := range windings {
		if n != 0 {
			count++
		}
	}
	return count%2 == 1
}

// BinaryResult adds shapes a and b to an arrangement under shape ids 0 and 1,
// simplifies, applies the inclusion predicate, and reconstructs the filled
// region as a shape.
func BinaryResult(a, b *Path, predicate FacePredicate) *Path {
	return combine(predicate, a, b)
}

func combine(predicate FacePredicate, shapes ...*Path) *Path {
	g := NewGraph()
	for i, shape := range shapes {
		g.AddShape(i, shape)
	}
	g.ComputeSimplifiedFaces()
	g.ComputeFaceInclusion(predicate)
	sub := g.CreateFilledSubGraph()
	res := sub.FacesToShape()
	sub.Dispose()
	g.Dispose()
	return res
}

// UnionNonZero returns the union of the shapes under the nonzero fill rule.
func UnionNonZero(shapes ...*Path) *Path {
	return combine(NonZeroAny, shapes...)
}

// IntersectionNonZero returns the intersection of the shapes under the
// nonzero fill rule.
func IntersectionNonZero(shapes ...*Path) *Path {
	return combine(NonZeroAll, shapes...)
}

// XorNonZero returns the symmetric difference of the shapes under the nonzero
// fill rule.
func XorNonZero(shapes ...*Path) *Path {
	return combine(NonZeroOdd, shapes...)
}

// DifferenceNonZero returns shape a minus shape b under the nonzero fill
// rule.
func DifferenceNonZero(a, b *Path) *Path {
	return BinaryResult(a, b, func(windings map[int]int) bool {
		return windings[0] != 0 && windings[1] == 0
	})
}

// SimplifyNonZero removes all self-intersections and overlaps from the shape,
// returning an equivalent shape under the nonzero fill rule whose subpaths
// are disjoint except for correctly nested holes.
func SimplifyNonZero(shape *Path) *Path {
	return combine(NonZeroAny, shape)
}

// ClipOptions selects which parts of the subject shape ClipShape keeps,
// classified against the clip area.
type ClipOptions struct {
	IncludeExterior bool
	IncludeBoundary bool
	IncludeInterior bool
}

// ClipShape cuts the subject shape against the clip area. The clip area is
// simplified first; the subject's subpaths are not auto-closed. Only the
// overlap, self-intersection, intersection and vertex-collapse stages run,
// since only the subject's loops are reconstructed: per segment, the subject
// is kept or dropped based on whether it lies on the clip boundary, strictly
// inside the clip area, or outside it, and a new subpath starts whenever a
// run of kept segments is interrupted.
func ClipShape(clipArea, subject *Path, opts ClipOptions) *Path {
	clip := SimplifyNonZero(clipArea)
	clipSegs := clip.Segments()

	g := NewGraph()
	for _, sub := range subject.Split() {
		g.AddSubpath(0, sub, false)
	}
	g.AddShape(1, clip)
	g.eliminateOverlap()
	g.eliminateSelfIntersection()
	g.eliminateIntersection()
	g.collapseVertices()

	// a subject half-edge tagged through the clip loops coincides with the
	// clip boundary: overlap elimination merged such edges into one
	for _, loop := range g.Loops {
		if loop.ShapeID != 1 {
			continue
		}
		for _, he := range loop.HalfEdges {
			he.clip = true
			he.Twin().clip = true
		}
	}

	res := &Path{}
	for _, loop := range g.Loops {
		if loop.ShapeID != 0 {
			continue
		}
		open, dropped := false, false
		for _, he := range loop.HalfEdges {
			var keep bool
			if he.clip {
				keep = opts.IncludeBoundary
			} else if windingAt(clipSegs, he.Edge.Seg.Position(0.5)) != 0 {
				keep = opts.IncludeInterior
			} else {
				keep = opts.IncludeExterior
			}
			if !keep {
				open, dropped = false, true
				continue
			}
			if !open {
				start := he.Start().Point
				res.MoveTo(start.X, start.Y)
				open = true
			}
			res.appendSegment(he.Segment())
		}
		if loop.Closed && !dropped && open {
			res.Close()
		}
	}
	g.Dispose()
	return res
}
