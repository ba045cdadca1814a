// Package geodata loads the polygons drawn on the map: arrays of (longitude, latitude)
// pairs in degrees, either from fixed-point JSON arrays or from GeoJSON.
package geodata

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// DEFAULT_FIXED_POINT_SCALE is the factor coordinates are multiplied by in fixed-point data
const DEFAULT_FIXED_POINT_SCALE = 100

// MinVertices is the smallest polygon the renderer accepts
const MinVertices = 3

// Polygon is an implicitly closed ring of (longitude, latitude) pairs in degrees
type Polygon [][2]float64

// Format of a polygon source
type Format int

const (
	FormatAuto Format = iota
	FormatFixedPoint
	FormatGeoJSON
)

// ParseFormat maps a format name (auto, fixed, geojson) to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return FormatAuto, nil
	case "fixed", "fixed-point", "json":
		return FormatFixedPoint, nil
	case "geojson":
		return FormatGeoJSON, nil
	}
	return FormatAuto, errors.Errorf("unknown data format %q", name)
}

// Load reads the polygons of the file at path
func Load(path string, format Format) ([]Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	if format == FormatAuto && strings.HasSuffix(strings.ToLower(path), ".geojson") {
		format = FormatGeoJSON
	}

	polygons, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return polygons, nil
}

// Decode reads polygons from r. FormatAuto picks fixed-point data for a top-level JSON
// array and GeoJSON for an object.
func Decode(r io.Reader, format Format) ([]Polygon, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading polygons")
	}

	if format == FormatAuto {
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			format = FormatFixedPoint
		} else {
			format = FormatGeoJSON
		}
	}

	switch format {
	case FormatFixedPoint:
		return DecodeFixedPoint(bytes.NewReader(data), DEFAULT_FIXED_POINT_SCALE)
	case FormatGeoJSON:
		return DecodeGeoJSON(bytes.NewReader(data))
	}
	return nil, errors.Errorf("unsupported format %d", format)
}

// DecodeFixedPoint reads a JSON array of polygons whose coordinates were multiplied by
// scale and divides them back
func DecodeFixedPoint(r io.Reader, scale float64) ([]Polygon, error) {
	var raw [][][]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding fixed-point polygons")
	}
	if scale == 0 {
		return nil, errors.New("fixed-point scale must not be zero")
	}

	polygons := make([]Polygon, 0, len(raw))
	for i, ring := range raw {
		polygon := make(Polygon, 0, len(ring))
		for j, pair := range ring {
			if len(pair) != 2 {
				return nil, errors.Errorf("polygon %d vertex %d: got %d values, want 2", i, j, len(pair))
			}
			polygon = append(polygon, [2]float64{pair[0] / scale, pair[1] / scale})
		}
		if err := Validate(polygon); err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
		polygons = append(polygons, polygon)
	}

	return polygons, nil
}

// DecodeGeoJSON reads the outer rings of the Polygon and MultiPolygon geometries of a
// FeatureCollection, a Feature or a bare geometry. Other geometries are skipped.
func DecodeGeoJSON(r io.Reader) ([]Polygon, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading geojson")
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrap(err, "decoding geojson")
	}

	var geometries []geom.T
	switch head.Type {
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, errors.Wrap(err, "decoding feature collection")
		}
		for _, f := range fc.Features {
			geometries = append(geometries, f.Geometry)
		}
	case "Feature":
		var f geojson.Feature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(err, "decoding feature")
		}
		geometries = append(geometries, f.Geometry)
	default:
		var g geom.T
		if err := geojson.Unmarshal(data, &g); err != nil {
			return nil, errors.Wrap(err, "decoding geometry")
		}
		geometries = append(geometries, g)
	}

	var polygons []Polygon
	for _, g := range geometries {
		switch v := g.(type) {
		case *geom.Polygon:
			polygons = appendRing(polygons, v)
		case *geom.MultiPolygon:
			for i := 0; i < v.NumPolygons(); i++ {
				polygons = appendRing(polygons, v.Polygon(i))
			}
		}
	}

	for i, polygon := range polygons {
		if err := Validate(polygon); err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
	}

	return polygons, nil
}

// appendRing appends the outer ring of p, without its closing vertex
func appendRing(polygons []Polygon, p *geom.Polygon) []Polygon {
	if p.NumLinearRings() == 0 {
		return polygons
	}

	coords := p.LinearRing(0).Coords()
	if n := len(coords); n > 1 && coords[0].Equal(p.Layout(), coords[n-1]) {
		coords = coords[:n-1]
	}

	polygon := make(Polygon, len(coords))
	for i, c := range coords {
		polygon[i] = [2]float64{c.X(), c.Y()}
	}

	return append(polygons, polygon)
}

// Validate checks the polygon has enough vertices and that every vertex is a valid
// longitude/latitude pair
func Validate(p Polygon) error {
	if len(p) < MinVertices {
		return errors.Errorf("got %d vertices, want at least %d", len(p), MinVertices)
	}
	for i, v := range p {
		if !s2.LatLngFromDegrees(v[1], v[0]).IsValid() {
			return errors.Errorf("vertex %d (%v, %v) is not a valid longitude/latitude", i, v[0], v[1])
		}
	}
	return nil
}

// MaxVertices returns the vertex count of the largest polygon
func MaxVertices(polygons []Polygon) int {
	n := 0
	for _, p := range polygons {
		n = max(n, len(p))
	}
	return n
}
