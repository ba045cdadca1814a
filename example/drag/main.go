package main

import (
	"fmt"

	"github.com/akmonengine/mercator"
	"github.com/akmonengine/mercator/geodata"
	"github.com/akmonengine/mercator/projection"
	"github.com/akmonengine/mercator/svg"
)

// debugger prints every event of the map
type debugger struct{}

func (d *debugger) subscribe(events *mercator.Events) {
	for _, eventType := range []mercator.EventType{mercator.DRAG_START, mercator.DRAG_MOVE, mercator.DRAG_END, mercator.RESIZE, mercator.RENDERED} {
		events.Subscribe(eventType, d.print)
	}
}

func (d *debugger) print(event mercator.Event) {
	switch e := event.(type) {
	case mercator.DragStartEvent:
		long, lat := e.Anchor.LongLat()
		fmt.Printf("  drag start: anchor (%.3f, %.3f)\n", long, lat)
	case mercator.DragMoveEvent:
		long, lat := e.To.LongLat()
		fmt.Printf("  drag move: pointer at (%.3f, %.3f)\n", long, lat)
	case mercator.DragEndEvent:
		fmt.Printf("  drag end: base %v\n", e.Base)
	case mercator.ResizeEvent:
		fmt.Printf("  resize: %vx%v viewBox=%q\n", e.Width, e.Height, e.ViewBox)
	case mercator.RenderedEvent:
		fmt.Printf("  rendered: %d polygons, %d crossing (simple=%d fullWrap=%d edgeTouching=%d)\n",
			e.Polygons, e.Crossing, e.Simple, e.FullWrap, e.EdgeTouching)
	}
}

// SetupScene creates a map with a small island, a rectangle over the antimeridian and a
// cap around the north pole
func SetupScene() (*mercator.Map, *svg.Document) {
	polygons := []geodata.Polygon{
		{{12.3, 34.5}, {18.3, 38.5}, {18.3, 48.5}},
		{{170, -10}, {-170, -10}, {-170, 10}, {170, 10}},
		{{0, 80}, {120, 80}, {-120, 80}},
	}

	doc := svg.NewDocument()
	m := mercator.New(polygons, doc, mercator.DefaultConfig())
	(&debugger{}).subscribe(&m.Events)

	return m, doc
}

func main() {
	fmt.Println("Drag across the map")
	fmt.Println("===================")

	m, doc := SetupScene()
	m.SetBounds(600, 600)
	printPaths(doc)

	// Drag the sphere down and to the right, in small steps
	var element projection.Rect
	const steps = 5

	m.OnDown(100, 100, element)
	for step := 1; step <= steps; step++ {
		fmt.Printf("--- step %d ---\n", step)
		m.OnMove(100+float64(step*20), 100+float64(step*30), element)
		printPaths(doc)
	}
	m.OnUp()

	fmt.Println()
	fmt.Println(doc.String())
}

func printPaths(doc *svg.Document) {
	for i, d := range doc.Paths() {
		fmt.Printf("  path %d: %s\n", i, d)
	}
}
