package mercator

import (
	"github.com/akmonengine/mercator/projection"
	"github.com/akmonengine/mercator/rotation"
	"github.com/akmonengine/mercator/sphere"
	"github.com/go-gl/mathgl/mgl64"
)

// OnDown grabs the sphere point under the pointer (x, y), in screen pixels relative to
// the page, element being the bounding rectangle of the drawing.
// It is ignored while dragging or before SetBounds, and reports whether the drag started.
func (m *Map) OnDown(x, y float64, element projection.Rect) bool {
	if m.State == Dragging || !m.hasBounds {
		return false
	}

	grabbed := m.pointerVector(x, y, element)
	m.DraggingFrom = rotation.Apply(rotation.Inverse(m.Base), grabbed)
	m.DraggingTo = grabbed
	m.State = Dragging

	m.Events.emit(DragStartEvent{Anchor: sphere.FromVector(m.DraggingFrom)})
	m.Events.flush()

	return true
}

// OnMove rotates the sphere so that the grabbed point follows the pointer, and redraws.
// It is ignored while idle.
func (m *Map) OnMove(x, y float64, element projection.Rect) bool {
	if m.State != Dragging {
		return false
	}

	m.DraggingTo = m.pointerVector(x, y, element)
	delta := rotation.Between(m.DraggingFrom, m.DraggingTo)
	m.Combined = rotation.Compose(delta, m.Base)

	m.Events.emit(DragMoveEvent{To: sphere.FromVector(m.DraggingTo), Rotation: m.Combined})
	m.render()
	m.Events.flush()

	return true
}

// OnUp commits the rotation of the current drag. It is ignored while idle.
func (m *Map) OnUp() bool {
	if m.State != Dragging {
		return false
	}

	m.Base = m.Combined
	m.DraggingFrom = m.DraggingTo
	m.State = Idle

	m.Events.emit(DragEndEvent{Base: m.Base})
	m.Events.flush()

	return true
}

// pointerVector unprojects a pointer position into a unit vector of the chart frame
func (m *Map) pointerVector(x, y float64, element projection.Rect) mgl64.Vec3 {
	p := projection.PointerToChart(x, y, element, m.Config.Scale)
	return sphere.ToVector(m.Bounds.UnprojectGeo(p))
}
