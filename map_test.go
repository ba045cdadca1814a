package mercator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/akmonengine/mercator/geodata"
	"github.com/akmonengine/mercator/projection"
	"github.com/akmonengine/mercator/rotation"
	"github.com/akmonengine/mercator/svg"
)

var (
	triangle  = geodata.Polygon{{12.3, 34.5}, {18.3, 38.5}, {18.3, 48.5}}
	dateLine  = geodata.Polygon{{170, -10}, {-170, -10}, {-170, 10}, {170, 10}}
	origin    = projection.Rect{}
	testWidth = 600.0
)

// createTestMap creates a 600×600 map drawing polygons into a fresh document
func createTestMap(cfg Config, polygons ...geodata.Polygon) (*Map, *svg.Document) {
	doc := svg.NewDocument()
	m := New(polygons, doc, cfg)
	m.SetBounds(testWidth, testWidth)
	return m, doc
}

// drag runs a full down/move/up gesture
func drag(m *Map, x0, y0, x1, y1 float64) {
	m.OnDown(x0, y0, origin)
	m.OnMove(x1, y1, origin)
	m.OnUp()
}

// pathPoints parses the coordinates of M/L commands
func pathPoints(t *testing.T, d string) [][2]int {
	t.Helper()

	if !strings.HasPrefix(d, "M") || !strings.HasSuffix(d, "z") {
		t.Fatalf("malformed path %q", d)
	}

	var points [][2]int
	for _, command := range strings.Split(strings.TrimSuffix(d[1:], "z"), "L") {
		xy := strings.Split(command, ",")
		if len(xy) != 2 {
			t.Fatalf("malformed command %q in %q", command, d)
		}
		x, errX := strconv.Atoi(xy[0])
		y, errY := strconv.Atoi(xy[1])
		if errX != nil || errY != nil {
			t.Fatalf("malformed command %q in %q", command, d)
		}
		points = append(points, [2]int{x, y})
	}
	return points
}

// =============================================================================
// Render Tests
// =============================================================================

func TestMap_InitialRender(t *testing.T) {
	m, doc := createTestMap(DefaultConfig(), triangle)

	if v, _ := doc.Attribute("viewBox"); v != "0 0 60000 60000" {
		t.Errorf("viewBox = %q, want %q", v, "0 0 60000 60000")
	}
	if v, _ := doc.Attribute("width"); v != "600" {
		t.Errorf("width = %q, want 600", v)
	}

	// Identity rotation: the x coordinates land on integers, allow one unit of rounding
	want := [][2]int{{32050, 23867}, {33050, 23037}, {33050, 20731}}
	got := pathPoints(t, doc.Paths()[0])
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		for k := 0; k < 2; k++ {
			if diff := got[i][k] - want[i][k]; diff < -1 || diff > 1 {
				t.Errorf("point %d = %v, want %v", i, got[i], want[i])
			}
		}
	}

	if m.State != Idle {
		t.Errorf("State = %s, want idle", m.State)
	}
}

func TestMap_RenderBeforeBounds(t *testing.T) {
	doc := svg.NewDocument()
	m := New([]geodata.Polygon{triangle}, doc, DefaultConfig())

	m.Render()
	if doc.Paths()[0] != "" {
		t.Errorf("path should stay empty before SetBounds, got %q", doc.Paths()[0])
	}
	if m.OnDown(0, 0, origin) {
		t.Error("OnDown should be ignored before SetBounds")
	}
}

func TestMap_DateLinePolygon(t *testing.T) {
	_, doc := createTestMap(DefaultConfig(), dateLine)

	want := "M58333,31675L61666,31675L63333,31675L63333,68656L-3333,68656L-3333,31675L-1666,31675" +
		"L1666,31675L1666,28324L-1666,28324L-3333,28324L-3333,68656L63333,68656L63333,28324L61666,28324L58333,28324z"
	if got := doc.Paths()[0]; got != want {
		t.Errorf("path = %s\nwant %s", got, want)
	}
}

func TestMap_SetBoundsIdempotent(t *testing.T) {
	m, doc := createTestMap(DefaultConfig(), triangle, dateLine)
	drag(m, 0, 0, 10, 10)

	before := doc.String()
	m.SetBounds(testWidth, testWidth)
	m.SetBounds(testWidth, testWidth)
	if after := doc.String(); after != before {
		t.Errorf("SetBounds changed the document:\n%s\n%s", before, after)
	}
}

func TestMap_SetBoundsRejectsInvalidSizes(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
	}{
		{name: "zero width", width: 0, height: 600},
		{name: "negative height", width: 600, height: -1},
		{name: "NaN width", width: math.NaN(), height: 600},
		{name: "infinite height", width: 600, height: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := svg.NewDocument()
			m := New([]geodata.Polygon{triangle}, doc, DefaultConfig())
			capture := &eventCapture{}
			capture.subscribeAll(&m.Events)

			if m.SetBounds(tt.width, tt.height) {
				t.Error("SetBounds should reject the size")
			}
			if m.OnDown(0, 0, origin) {
				t.Error("OnDown should stay ignored without bounds")
			}
			if doc.Paths()[0] != "" || capture.count() != 0 {
				t.Errorf("rejected size should not draw, got %q and %d events", doc.Paths()[0], capture.count())
			}
			if _, ok := doc.Attribute("viewBox"); ok {
				t.Error("rejected size should not set a viewBox")
			}
		})
	}
}

func TestMap_SetBoundsKeepsPreviousOnInvalidSize(t *testing.T) {
	m, doc := createTestMap(DefaultConfig(), triangle)
	before := doc.String()

	if m.SetBounds(0, 0) {
		t.Error("SetBounds should reject the size")
	}
	if doc.String() != before {
		t.Error("rejected size should keep the previous chart")
	}
	if m.Bounds.Width() != 60000 {
		t.Errorf("Bounds.Width() = %v, want 60000", m.Bounds.Width())
	}
}

func TestMap_SetBoundsRescales(t *testing.T) {
	m, doc := createTestMap(DefaultConfig(), triangle)
	m.SetBounds(300, 150)

	if v, _ := doc.Attribute("viewBox"); v != "0 0 30000 15000" {
		t.Errorf("viewBox = %q", v)
	}
	if v, _ := doc.Attribute("height"); v != "150" {
		t.Errorf("height = %q", v)
	}
	if m.Bounds.Width() != 30000 {
		t.Errorf("Bounds.Width() = %v", m.Bounds.Width())
	}
}

// =============================================================================
// Interaction Tests
// =============================================================================

func TestMap_Drag(t *testing.T) {
	m, doc := createTestMap(DefaultConfig(), triangle, dateLine)

	if !m.OnDown(0, 0, origin) {
		t.Fatal("OnDown should start a drag")
	}
	if !m.OnMove(10, 10, origin) {
		t.Fatal("OnMove should be handled while dragging")
	}

	paths := doc.Paths()
	if want := "M32006,23740L33006,22894L32985,20562z"; paths[0] != want {
		t.Errorf("path = %s, want %s", paths[0], want)
	}
	want := "M58322,31744L61660,31777L63327,31777L63327,68656L-3344,68656L-3344,31744L-1677,31744" +
		"L1660,31777L1688,28427L-1639,28394L-3306,28394L-3306,68656L63355,68656L63355,28427L61688,28427L58360,28394z"
	if paths[1] != want {
		t.Errorf("path = %s\nwant %s", paths[1], want)
	}

	if !m.OnUp() {
		t.Fatal("OnUp should end the drag")
	}
	if m.Base != m.Combined {
		t.Error("OnUp should commit the combined rotation")
	}
	if m.DraggingFrom != m.DraggingTo {
		t.Error("OnUp should move the anchor to the last pointer position")
	}
}

func TestMap_SecondDragComposes(t *testing.T) {
	m, doc := createTestMap(DefaultConfig(), triangle)

	drag(m, 0, 0, 10, 10)
	drag(m, 0, 0, 10, 10)

	if want := "M31913,23485L32915,22605L32847,20219z"; doc.Paths()[0] != want {
		t.Errorf("path = %s, want %s", doc.Paths()[0], want)
	}
	if !rotation.Orthogonal(m.Base, 1e-9) {
		t.Error("committed rotation should stay orthogonal")
	}
}

func TestMap_Deterministic(t *testing.T) {
	m1, doc1 := createTestMap(DefaultConfig(), triangle, dateLine)
	m2, doc2 := createTestMap(DefaultConfig(), triangle, dateLine)

	for _, m := range []*Map{m1, m2} {
		drag(m, 120, 80, 300, 310)
		drag(m, 10, 500, 40, 20)
	}

	if doc1.String() != doc2.String() {
		t.Errorf("same gestures gave different documents:\n%s\n%s", doc1.String(), doc2.String())
	}
}

func TestMap_IgnoredEvents(t *testing.T) {
	m, doc := createTestMap(DefaultConfig(), triangle)
	before := doc.String()

	if m.OnMove(10, 10, origin) {
		t.Error("OnMove should be ignored while idle")
	}
	if m.OnUp() {
		t.Error("OnUp should be ignored while idle")
	}
	if doc.String() != before {
		t.Error("ignored events should not redraw")
	}

	m.OnDown(0, 0, origin)
	from := m.DraggingFrom
	if m.OnDown(100, 100, origin) {
		t.Error("OnDown should be ignored while dragging")
	}
	if m.DraggingFrom != from {
		t.Error("ignored OnDown should keep the anchor")
	}
}

func TestMap_ElementOffset(t *testing.T) {
	m1, doc1 := createTestMap(DefaultConfig(), triangle)
	m2, doc2 := createTestMap(DefaultConfig(), triangle)

	drag(m1, 0, 0, 10, 10)

	offset := projection.Rect{Top: 40, Left: 25}
	m2.OnDown(25, 40, offset)
	m2.OnMove(35, 50, offset)
	m2.OnUp()

	if doc1.Paths()[0] != doc2.Paths()[0] {
		t.Errorf("element offset should be removed: %s != %s", doc1.Paths()[0], doc2.Paths()[0])
	}
}

func TestMap_InitialRotation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialLong = 90
	m, doc := createTestMap(cfg, triangle)

	if m.Base != rotation.FromAngles(90, 0) {
		t.Error("Base should start at the initial rotation")
	}

	_, plain := createTestMap(DefaultConfig(), triangle)
	if doc.Paths()[0] == plain.Paths()[0] {
		t.Error("initial rotation should move the polygon")
	}
}

// =============================================================================
// Workers Tests
// =============================================================================

func TestMap_WorkersMatchSequential(t *testing.T) {
	var polygons []geodata.Polygon
	for i := 0; i < 37; i++ {
		long := float64(i*10 - 180)
		polygons = append(polygons, geodata.Polygon{{long, -20}, {long + 15, 5}, {long + 5, 30}}, dateLine)
	}

	sequential, doc1 := createTestMap(DefaultConfig(), polygons...)

	cfg := DefaultConfig()
	cfg.Workers = 4
	parallel, doc2 := createTestMap(cfg, polygons...)

	if len(parallel.workers) != 4 {
		t.Fatalf("got %d workers, want 4", len(parallel.workers))
	}

	for _, m := range []*Map{sequential, parallel} {
		drag(m, 300, 300, 350, 200)
	}

	p1, p2 := doc1.Paths(), doc2.Paths()
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Errorf("polygon %d: %s != %s", i, p1[i], p2[i])
		}
	}
}

func TestMap_WorkersCappedByPolygons(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 8
	m, _ := createTestMap(cfg, triangle, dateLine)

	if len(m.workers) != 2 {
		t.Errorf("got %d workers, want 2", len(m.workers))
	}
}

func TestTask_VisitsEveryIndex(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			visited := make([]int, 20)
			task(workers, len(visited), func(workerID, i int) {
				visited[i]++
			})
			for i, n := range visited {
				if n != 1 {
					t.Errorf("index %d visited %d times", i, n)
				}
			}
		})
	}
}
