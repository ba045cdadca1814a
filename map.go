package mercator

import (
	"math"
	"strconv"

	"github.com/akmonengine/mercator/geodata"
	"github.com/akmonengine/mercator/projection"
	"github.com/akmonengine/mercator/rotation"
	"github.com/akmonengine/mercator/sphere"
	"github.com/akmonengine/mercator/stitch"
	"github.com/akmonengine/mercator/svg"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS = 1
	DEFAULT_SCALE   = 100
)

// State of the pointer interaction
type State uint8

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Config of a Map
type Config struct {
	// Scale multiplies screen pixels into chart units, so that truncated integer
	// coordinates keep sub-pixel precision
	Scale float64
	// EarthTop is the latitude shown at the top edge of the chart, in degrees
	EarthTop float64
	// EarthLeft is the longitude shown at the left edge of the chart, in degrees
	EarthLeft float64

	// CollarLatitude is the latitude, in degrees, antimeridian wraps are routed along
	CollarLatitude float64
	// ExtraLongitude is how far, in degrees, a wrap extends past the chart edge
	ExtraLongitude float64

	// Workers rendering the polygons of a frame
	Workers int

	// Initial view rotation, in degrees
	InitialLong float64
	InitialLat  float64
}

// DefaultConfig shows the whole Web Mercator square at 100 chart units per pixel
func DefaultConfig() Config {
	earth := projection.DefaultEarthWindow()
	return Config{
		Scale:          DEFAULT_SCALE,
		EarthTop:       earth.Top,
		EarthLeft:      earth.Left,
		CollarLatitude: stitch.DEFAULT_COLLAR_LATITUDE,
		ExtraLongitude: stitch.DEFAULT_EXTRA_LONGITUDE,
		Workers:        DEFAULT_WORKERS,
	}
}

// Map is the render state of a rotatable world map.
// It is driven by a single goroutine: every method runs synchronously to completion.
type Map struct {
	Config Config

	// Base is the committed rotation
	Base mgl64.Mat3
	// Combined is the rotation of the last rendered frame: the drag delta applied on Base
	Combined mgl64.Mat3

	Bounds projection.ChartBounds
	State  State
	// DraggingFrom is the grabbed point, expressed in the unrotated frame of the data
	DraggingFrom mgl64.Vec3
	// DraggingTo is the point under the pointer at the last move
	DraggingTo mgl64.Vec3

	Pool   *svg.PathPool
	Events Events

	polygons  [][]mgl64.Vec3
	workers   []*worker
	hasBounds bool
}

// worker owns the scratch buffers of one render goroutine
type worker struct {
	stitcher *stitch.Stitcher
	vertices []stitch.Vertex
	path     []byte

	crossing int
	segments [stitch.EdgeTouching + 1]int
}

// New creates a Map drawing polygons into container, one path per polygon.
// Polygons are converted to unit vectors once; nothing is drawn before SetBounds.
func New(polygons []geodata.Polygon, container svg.Container, cfg Config) *Map {
	cfg.Workers = max(DEFAULT_WORKERS, cfg.Workers)
	if cfg.Scale == 0 {
		cfg.Scale = DEFAULT_SCALE
	}

	m := &Map{
		Config:   cfg,
		Base:     rotation.Identity(),
		Pool:     svg.NewPathPool(container),
		Events:   NewEvents(),
		polygons: make([][]mgl64.Vec3, len(polygons)),
	}
	if cfg.InitialLong != 0 || cfg.InitialLat != 0 {
		m.Base = rotation.FromAngles(cfg.InitialLong, cfg.InitialLat)
	}
	m.Combined = m.Base

	for i, polygon := range polygons {
		vectors := make([]mgl64.Vec3, len(polygon))
		for j, v := range polygon {
			vectors[j] = sphere.FromLongLatVector(v[0], v[1])
		}
		m.polygons[i] = vectors
	}
	m.Pool.Grow(len(polygons))

	maxVertices := geodata.MaxVertices(polygons)
	m.workers = make([]*worker, min(cfg.Workers, max(1, len(polygons))))
	for i := range m.workers {
		stitcher := stitch.NewStitcher()
		stitcher.CollarLatitude = cfg.CollarLatitude
		stitcher.ExtraLongitude = cfg.ExtraLongitude
		m.workers[i] = &worker{
			stitcher: stitcher,
			vertices: make([]stitch.Vertex, 0, maxVertices),
		}
	}

	return m
}

// SetBounds resizes the chart to a width×height pixel viewport and redraws it with the
// current rotation. Sizes that are not positive and finite are ignored, and it reports
// whether the bounds changed.
func (m *Map) SetBounds(width, height float64) bool {
	if !validSize(width) || !validSize(height) {
		return false
	}

	earth := projection.EarthWindow{Top: m.Config.EarthTop, Left: m.Config.EarthLeft}
	m.Bounds = projection.NewChartBounds(width, height, m.Config.Scale, earth)
	m.hasBounds = true

	viewBox := m.Bounds.ViewBox()
	container := m.Pool.Container()
	container.SetAttribute("viewBox", viewBox)
	container.SetAttribute("width", strconv.FormatFloat(width, 'f', -1, 64))
	container.SetAttribute("height", strconv.FormatFloat(height, 'f', -1, 64))

	m.Events.emit(ResizeEvent{Width: width, Height: height, ViewBox: viewBox})
	m.render()
	m.Events.flush()

	return true
}

func validSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Render redraws every polygon with the combined rotation
func (m *Map) Render() {
	m.render()
	m.Events.flush()
}

// PolygonCount returns the number of polygons drawn
func (m *Map) PolygonCount() int {
	return len(m.polygons)
}

func (m *Map) render() {
	if !m.hasBounds {
		return
	}

	for _, w := range m.workers {
		w.crossing = 0
		clear(w.segments[:])
	}

	task(len(m.workers), len(m.polygons), func(workerID, i int) {
		m.renderPolygon(m.workers[workerID], i)
	})

	event := RenderedEvent{Polygons: len(m.polygons)}
	for _, w := range m.workers {
		event.Crossing += w.crossing
		event.Simple += w.segments[stitch.Simple]
		event.FullWrap += w.segments[stitch.FullWrap]
		event.EdgeTouching += w.segments[stitch.EdgeTouching]
	}
	m.Events.emit(event)
}

// renderPolygon rotates polygon i, stitches it and writes its path into pool slot i
func (m *Map) renderPolygon(w *worker, i int) {
	w.vertices = w.vertices[:0]
	for _, v := range m.polygons[i] {
		long, lat := sphere.FromVector(rotation.Apply(m.Combined, v)).LongLat()
		w.vertices = append(w.vertices, stitch.Vertex{Long: long, Lat: lat})
	}

	var shape stitch.Shape
	w.path, shape = w.stitcher.AppendPath(w.path[:0], m.Bounds, w.vertices)
	m.Pool.Set(i, string(w.path))

	if shape.Crosses() {
		w.crossing++
	}
	for _, segment := range shape.Segments {
		w.segments[segment.Kind]++
	}
}
