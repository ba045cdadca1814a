// Package sphere converts between geographic degrees, spherical-polar radians and
// unit-sphere Cartesian vectors.
//
// Angles follow the physics convention: Theta is the azimuth (longitude) in (-π, π]
// and Phi is the colatitude in [0, π], Phi = 0 being the north pole.
package sphere

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// GeoPoint is a position on the sphere in spherical-polar radians
type GeoPoint struct {
	Theta float64
	Phi   float64
}

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return float64(s1.Angle(deg) * s1.Degree)
}

// Degrees converts radians to degrees
func Degrees(rad float64) float64 {
	return s1.Angle(rad).Degrees()
}

// FromLongLat builds a GeoPoint from a longitude and latitude in degrees
func FromLongLat(long, lat float64) GeoPoint {
	return GeoPoint{
		Theta: Radians(long),
		Phi:   Radians(90 - lat),
	}
}

// LongLat returns the longitude and latitude in degrees
func (g GeoPoint) LongLat() (long, lat float64) {
	return Degrees(g.Theta), 90 - Degrees(g.Phi)
}

// LatLng returns the point as an s2.LatLng
func (g GeoPoint) LatLng() s2.LatLng {
	return s2.LatLng{
		Lat: s1.Angle(math.Pi/2 - g.Phi),
		Lng: s1.Angle(g.Theta),
	}
}

// FromLatLng builds a GeoPoint from an s2.LatLng
func FromLatLng(ll s2.LatLng) GeoPoint {
	return GeoPoint{
		Theta: ll.Lng.Radians(),
		Phi:   math.Pi/2 - ll.Lat.Radians(),
	}
}

// ToVector returns the unit-sphere Cartesian vector of g.
// At the poles x and y collapse to zero.
func ToVector(g GeoPoint) mgl64.Vec3 {
	sinPhi := math.Sin(g.Phi)
	return mgl64.Vec3{
		math.Cos(g.Theta) * sinPhi,
		math.Sin(g.Theta) * sinPhi,
		math.Cos(g.Phi),
	}
}

// FromVector returns the spherical-polar angles of v.
// v is not normalized: callers that feed non-unit vectors get the angles of the
// direction for Theta, and a Phi computed from the raw z component.
func FromVector(v mgl64.Vec3) GeoPoint {
	// atan2(0, 0) is 0, so a vector exactly on the axis gets Theta = 0
	return GeoPoint{
		Theta: math.Atan2(v.Y(), v.X()),
		Phi:   math.Acos(mgl64.Clamp(v.Z(), -1, 1)),
	}
}

// FromLongLatVector is a shortcut for ToVector(FromLongLat(long, lat))
func FromLongLatVector(long, lat float64) mgl64.Vec3 {
	return ToVector(FromLongLat(long, lat))
}
