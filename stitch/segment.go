package stitch

// SegmentKind tags the run of vertices between two consecutive discontinuities
type SegmentKind uint8

const (
	// Simple is a polygon without any discontinuity
	Simple SegmentKind = iota
	// FullWrap runs between two crossings in the same direction: the outline circles a pole
	FullWrap
	// EdgeTouching runs between crossings in opposite directions: the outline reaches the
	// chart edge and comes back
	EdgeTouching
)

func (k SegmentKind) String() string {
	switch k {
	case Simple:
		return "simple"
	case FullWrap:
		return "full-wrap"
	case EdgeTouching:
		return "edge-touching"
	}
	return "unknown"
}

// Segment covers the vertices from From up to, but excluding, To, wrapping around the
// end of the polygon when To <= From
type Segment struct {
	From int
	To   int
	Kind SegmentKind
}

// Len returns the number of vertices of the segment in a polygon of n vertices
func (s Segment) Len(n int) int {
	if s.To > s.From {
		return s.To - s.From
	}
	return s.To - s.From + n
}

// Classify appends to dst the segments of a polygon of n vertices with the given
// discontinuities. Each discontinuity is paired with the next one, cyclically: a single
// discontinuity pairs with itself and yields one full-wrap segment.
func Classify(discontinuities []Discontinuity, n int, dst []Segment) []Segment {
	if len(discontinuities) == 0 {
		return append(dst, Segment{From: 0, To: n, Kind: Simple})
	}

	for i, a := range discontinuities {
		b := discontinuities[(i+1)%len(discontinuities)]

		kind := EdgeTouching
		if a.Direction == b.Direction {
			kind = FullWrap
		}
		dst = append(dst, Segment{From: a.Index, To: b.Index, Kind: kind})
	}

	return dst
}
