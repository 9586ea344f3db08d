// Package output implements the Output Manager (spec.md §4.A): a
// left-to-right strip of displays, answering "where should a new
// surface go?" and converting output-relative to absolute positions.
// Grounded on original_source/src/geometry_manager/output_manager.rs,
// re-expressed over a slice kept in left-to-right order instead of a
// Vec<Output> mutated via position-search (same algorithm, Go idiom).
package output

import (
	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/renderer"
	"github.com/wcomp/wcomp/internal/wire"
)

type entry struct {
	id       wire.OutputID
	handle   renderer.OutputSurface
	geometry geom.Rect
}

// Manager tracks every live output, left-to-right, x=0 at the first.
type Manager struct {
	outputs []entry
}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) indexOf(id wire.OutputID) int {
	for i, o := range m.outputs {
		if o.id == id {
			return i
		}
	}
	return -1
}

// Add appends a new output after the rightmost one, emitting Added then
// Moved for its initial placement (spec.md §4.A).
func (m *Manager) Add(id wire.OutputID, handle renderer.OutputSurface, size geom.Size) []wire.OutputEvent {
	var xOffset int32
	if n := len(m.outputs); n > 0 {
		xOffset = m.outputs[n-1].geometry.Max().X
	}
	pos := geom.Point{X: xOffset, Y: 0}
	m.outputs = append(m.outputs, entry{id: id, handle: handle, geometry: geom.Rect{Pos: pos, Size: size}})
	return []wire.OutputEvent{
		wire.OutputAddedEv{ID: id, Geometry: geom.Rect{Pos: pos, Size: size}},
		wire.OutputMovedEv{ID: id, Position: pos},
	}
}

// Remove drops id and recomputes x-offsets of everything after the
// hole it left behind. A no-op on an unknown id.
func (m *Manager) Remove(id wire.OutputID) []wire.OutputEvent {
	idx := m.indexOf(id)
	if idx < 0 {
		return nil
	}
	m.outputs = append(m.outputs[:idx], m.outputs[idx+1:]...)
	events := []wire.OutputEvent{wire.OutputRemovedEv{ID: id}}
	events = append(events, m.updateOffsets(idx)...)
	return events
}

// Resize updates id's size, emits Resized, then Moved for every output
// after it whose x-offset changed as a result.
func (m *Manager) Resize(id wire.OutputID, size geom.Size) []wire.OutputEvent {
	idx := m.indexOf(id)
	if idx < 0 {
		return nil
	}
	m.outputs[idx].geometry.Size = size
	events := []wire.OutputEvent{wire.OutputResizedEv{ID: id, Size: size}}
	events = append(events, m.updateOffsets(idx+1)...)
	return events
}

// updateOffsets recomputes geometry.Pos.X for outputs[from:] in order,
// stopping as soon as an output's offset turns out unchanged (every
// output after it is unaffected, same short-circuit as the Rust
// source). Index 0, if included in the range, always offsets to 0.
func (m *Manager) updateOffsets(from int) []wire.OutputEvent {
	var events []wire.OutputEvent
	for i := from; i < len(m.outputs); i++ {
		var xOffset int32
		if i > 0 {
			xOffset = m.outputs[i-1].geometry.Max().X
		}
		if m.outputs[i].geometry.Pos.X == xOffset {
			break
		}
		m.outputs[i].geometry.Pos.X = xOffset
		events = append(events, wire.OutputMovedEv{ID: m.outputs[i].id, Position: m.outputs[i].geometry.Pos})
	}
	return events
}

// ToAbsolute adds id's origin to a position relative to it.
func (m *Manager) ToAbsolute(id wire.OutputID, rel geom.Point) (geom.Point, bool) {
	idx := m.indexOf(id)
	if idx < 0 {
		return geom.Point{}, false
	}
	return m.outputs[idx].geometry.Pos.Add(rel), true
}

// SurfaceOptimalSize is half the first output's size, or a 200x200
// fallback when there are no outputs yet.
func (m *Manager) SurfaceOptimalSize() geom.Size {
	if len(m.outputs) == 0 {
		return geom.Size{W: 200, H: 200}
	}
	return m.outputs[0].geometry.Size.Half()
}

// SurfaceOptimalPosition centers a surface of the given size over the
// first output, minus half its own size, clamped at (0,0).
func (m *Manager) SurfaceOptimalPosition(size geom.Size) geom.Point {
	if len(m.outputs) == 0 {
		return geom.Point{}
	}
	half := size.Half()
	outHalf := m.outputs[0].geometry.Size.Half()
	x := int32(outHalf.W) - int32(half.W)
	y := int32(outHalf.H) - int32(half.H)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return geom.Point{X: x, Y: y}
}

// OutputAt returns the first output (in stored order) whose geometry
// contains pos.
func (m *Manager) OutputAt(pos geom.Point) (wire.OutputID, bool) {
	for _, o := range m.outputs {
		if o.geometry.Contains(pos) {
			return o.id, true
		}
	}
	return 0, false
}

// Geometry returns id's current geometry.
func (m *Manager) Geometry(id wire.OutputID) (geom.Rect, bool) {
	idx := m.indexOf(id)
	if idx < 0 {
		return geom.Rect{}, false
	}
	return m.outputs[idx].geometry, true
}

// Len reports how many outputs are currently live.
func (m *Manager) Len() int { return len(m.outputs) }
