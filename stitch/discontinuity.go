// Package stitch detects antimeridian crossings in rotated polygons and stitches them
// into closed paths that wrap over a pole instead of tearing across the chart.
package stitch

import "math"

// DiscontinuityThreshold is the longitude jump, in degrees, above which two consecutive
// vertices of opposite sign are considered to cross the antimeridian
const DiscontinuityThreshold = 180

// Direction of an antimeridian crossing
type Direction int8

const (
	// Westward crosses from +180 to -180
	Westward Direction = -1
	// None means consecutive vertices are continuous
	None Direction = 0
	// Eastward crosses from -180 to +180
	Eastward Direction = 1
)

// Vertex is a rotated polygon vertex, in degrees
type Vertex struct {
	Long float64
	Lat  float64
}

// Discontinuity is an antimeridian crossing between the vertex before Index and Index
type Discontinuity struct {
	Index     int
	Direction Direction
}

// DirectionBetween returns the crossing direction between two consecutive longitudes
func DirectionBetween(prevLong, currLong float64) Direction {
	if math.Abs(prevLong-currLong) <= DiscontinuityThreshold || prevLong*currLong >= 0 {
		return None
	}
	if prevLong < currLong {
		return Eastward
	}

	return Westward
}

// prev returns the index before i in a closed polygon of n vertices
func prev(n, i int) int {
	if i == 0 {
		return n - 1
	}
	return i - 1
}

// Find appends to dst the discontinuities of the closed polygon, in vertex order.
// Vertex 0 is compared against the last vertex.
func Find(vertices []Vertex, dst []Discontinuity) []Discontinuity {
	n := len(vertices)
	for i := range vertices {
		if d := DirectionBetween(vertices[prev(n, i)].Long, vertices[i].Long); d != None {
			dst = append(dst, Discontinuity{Index: i, Direction: d})
		}
	}

	return dst
}

// Pole is the pole a stitched shape wraps over
type Pole int8

const (
	South Pole = -1
	North Pole = 1
)

// NearestPole returns the pole closest to the polygon's extreme latitudes.
// Ties go to the south pole.
func NearestPole(vertices []Vertex) Pole {
	minLat := math.Inf(1)
	maxLat := math.Inf(-1)
	for _, v := range vertices {
		minLat = math.Min(v.Lat, minLat)
		maxLat = math.Max(v.Lat, maxLat)
	}

	if math.Abs(-90-minLat) <= math.Abs(90-maxLat) {
		return South
	}
	return North
}
