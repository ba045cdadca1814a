// Package projection maps spherical-polar coordinates to Mercator chart coordinates and back.
package projection

import (
	"math"
	"strconv"

	"github.com/akmonengine/mercator/sphere"
	"github.com/golang/geo/r2"
)

// MaxBound is the chart-space Mercator y used for points at (or beyond) a pole,
// so that paths never contain an infinite coordinate
const MaxBound = 99999

// MaxLatitude is the latitude where the Web Mercator square ends (atan(sinh(π)))
const MaxLatitude = 85.0511287798066

// Rect is a screen rectangle, in pixels or scaled pixels
type Rect struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// EarthWindow is the part of the earth shown at the chart's top-left corner, in degrees
type EarthWindow struct {
	// Top latitude, cropping the vertical axis before the pole
	Top float64
	// Left longitude
	Left float64
}

// ChartBounds ties a screen rectangle to the earth window it displays
type ChartBounds struct {
	Screen Rect
	Earth  EarthWindow
}

// DefaultEarthWindow shows the whole Web Mercator square starting at the antimeridian
func DefaultEarthWindow() EarthWindow {
	return EarthWindow{
		Top:  MaxLatitude,
		Left: -180,
	}
}

// NewChartBounds creates the bounds of a width×height viewport whose coordinates are
// multiplied by scale
func NewChartBounds(width, height, scale float64, earth EarthWindow) ChartBounds {
	return ChartBounds{
		Screen: Rect{
			Top:    0,
			Bottom: height * scale,
			Left:   0,
			Right:  width * scale,
		},
		Earth: earth,
	}
}

// Width returns the chart width W, which is the length of the equator on the chart
func (b ChartBounds) Width() float64 {
	return b.Screen.Right - b.Screen.Left
}

// Height returns the chart height
func (b ChartBounds) Height() float64 {
	return b.Screen.Bottom - b.Screen.Top
}

// ViewBox returns the SVG viewBox attribute covering the screen rectangle
func (b ChartBounds) ViewBox() string {
	buf := make([]byte, 0, 32)
	buf = strconv.AppendFloat(buf, b.Screen.Left, 'f', -1, 64)
	buf = append(buf, ' ')
	buf = strconv.AppendFloat(buf, b.Screen.Top, 'f', -1, 64)
	buf = append(buf, ' ')
	buf = strconv.AppendFloat(buf, b.Width(), 'f', -1, 64)
	buf = append(buf, ' ')
	buf = strconv.AppendFloat(buf, b.Height(), 'f', -1, 64)

	return string(buf)
}

// mercatorY returns the unshifted chart y of the colatitude phi: W/(2π)·ln(tan((π-φ)/2)).
// At or beyond a pole it returns ±MaxBound.
func mercatorY(w, phi float64) float64 {
	if phi <= 0 {
		return MaxBound
	}
	if phi >= math.Pi {
		return -MaxBound
	}

	return w / (2 * math.Pi) * math.Log(math.Tan((math.Pi-phi)/2))
}

// topY returns the chart y of the earth window's top latitude
func (b ChartBounds) topY() float64 {
	return mercatorY(b.Width(), sphere.Radians(90-b.Earth.Top))
}

// Project maps the spherical-polar angles (theta, phi) to chart coordinates
func (b ChartBounds) Project(theta, phi float64) r2.Point {
	w := b.Width()
	lambda0 := sphere.Radians(b.Earth.Left)

	return r2.Point{
		X: w / (2 * math.Pi) * (theta - lambda0),
		Y: b.topY() - mercatorY(w, phi),
	}
}

// Unproject is the inverse of Project for phi strictly inside (0, π)
func (b ChartBounds) Unproject(p r2.Point) (theta, phi float64) {
	w := b.Width()
	lambda0 := sphere.Radians(b.Earth.Left)

	theta = lambda0 + p.X*2*math.Pi/w
	y := (b.topY() - p.Y) * 2 * math.Pi / w
	phi = math.Pi - 2*math.Atan(math.Exp(y))

	return theta, phi
}

// UnprojectGeo is Unproject returning a GeoPoint
func (b ChartBounds) UnprojectGeo(p r2.Point) sphere.GeoPoint {
	theta, phi := b.Unproject(p)
	return sphere.GeoPoint{Theta: theta, Phi: phi}
}

// ChartPoint projects a longitude and latitude in degrees and truncates the result
// toward zero. Longitudes outside [-180, 180] are projected linearly past the chart edge.
func (b ChartBounds) ChartPoint(long, lat float64) (x, y int) {
	p := b.Project(sphere.Radians(long), sphere.Radians(90-lat))
	return int(p.X), int(p.Y)
}

// PointerToChart converts a pointer position in screen pixels into chart coordinates,
// given the bounding rectangle of the drawing element
func PointerToChart(x, y float64, element Rect, scale float64) r2.Point {
	return r2.Point{
		X: (x - element.Left) * scale,
		Y: (y - element.Top) * scale,
	}
}
