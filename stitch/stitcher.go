package stitch

import (
	"strconv"

	"github.com/akmonengine/mercator/projection"
)

const (
	DEFAULT_COLLAR_LATITUDE = 88
	DEFAULT_EXTRA_LONGITUDE = 10
)

// Shape reports how a polygon was stitched.
// Its slices belong to the Stitcher and are overwritten by the next call.
type Shape struct {
	Discontinuities []Discontinuity
	Segments        []Segment
	Pole            Pole
}

// Crosses reports whether the polygon crossed the antimeridian
func (s Shape) Crosses() bool {
	return len(s.Discontinuities) > 0
}

// Stitcher turns rotated polygons into SVG path data.
// It keeps scratch buffers between calls and must not be shared between goroutines.
type Stitcher struct {
	// CollarLatitude is the latitude, in degrees, the wrap is routed along near the pole
	CollarLatitude float64
	// ExtraLongitude is how far, in degrees, the wrap extends past the chart edge
	ExtraLongitude float64

	discontinuities []Discontinuity
	segments        []Segment
}

// NewStitcher creates a Stitcher with the default collar and margin
func NewStitcher() *Stitcher {
	return &Stitcher{
		CollarLatitude: DEFAULT_COLLAR_LATITUDE,
		ExtraLongitude: DEFAULT_EXTRA_LONGITUDE,
	}
}

// AppendPath appends to dst the path data of the closed polygon: M/L commands with
// truncated integer chart coordinates, terminated by z.
//
// Each vertex that follows a discontinuity is preceded by seven stitch points: the
// vertex unrolled by 360°, pushed ExtraLongitude further, dropped to the collar latitude,
// carried to the other side at the collar, raised to the previous vertex latitude,
// brought back to the previous vertex unrolled by 360°, and finally the vertex itself.
// All discontinuities of a polygon end up in one path.
func (s *Stitcher) AppendPath(dst []byte, bounds projection.ChartBounds, vertices []Vertex) ([]byte, Shape) {
	s.discontinuities = s.discontinuities[:0]
	s.segments = s.segments[:0]

	n := len(vertices)
	if n == 0 {
		return dst, Shape{}
	}

	pole := NearestPole(vertices)
	collar := s.CollarLatitude * float64(pole)

	w := pathWriter{dst: dst, bounds: bounds}
	for i, curr := range vertices {
		p := vertices[prev(n, i)]
		direction := DirectionBetween(p.Long, curr.Long)
		if direction == None {
			w.point(curr.Long, curr.Lat)
			continue
		}
		s.discontinuities = append(s.discontinuities, Discontinuity{Index: i, Direction: direction})

		unrolled := 360 * float64(direction)
		extended := (360 + s.ExtraLongitude) * float64(direction)

		w.point(curr.Long-unrolled, curr.Lat)
		w.point(curr.Long-extended, curr.Lat)
		w.point(curr.Long-extended, collar)
		w.point(p.Long+extended, collar)
		w.point(p.Long+extended, p.Lat)
		w.point(p.Long+unrolled, p.Lat)
		w.point(curr.Long, curr.Lat)
	}
	w.dst = append(w.dst, 'z')

	s.segments = Classify(s.discontinuities, n, s.segments)

	return w.dst, Shape{
		Discontinuities: s.discontinuities,
		Segments:        s.segments,
		Pole:            pole,
	}
}

type pathWriter struct {
	dst     []byte
	bounds  projection.ChartBounds
	started bool
}

func (w *pathWriter) point(long, lat float64) {
	x, y := w.bounds.ChartPoint(long, lat)

	if w.started {
		w.dst = append(w.dst, 'L')
	} else {
		w.dst = append(w.dst, 'M')
		w.started = true
	}
	w.dst = strconv.AppendInt(w.dst, int64(x), 10)
	w.dst = append(w.dst, ',')
	w.dst = strconv.AppendInt(w.dst, int64(y), 10)
}
