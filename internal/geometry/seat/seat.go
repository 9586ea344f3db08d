// Package seat implements the Seat Manager (spec.md §4.B): per-seat
// keyboard and pointer sub-state, created lazily on first device
// attach and torn down on removal. Grounded on
// original_source/src/geometry_manager/seat_manager.rs.
package seat

import (
	"time"

	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/wire"
)

type keyboard struct {
	focus *wire.SurfaceID
	rate  int32
	delay int32

	// lastPress tracks when the held key's autorepeat schedule began,
	// so NextRepeat can compute the next due time (SPEC_FULL.md §9).
	lastPress time.Time
	repeating bool
}

type pointer struct {
	position geom.Point
	focus    *wire.SurfaceID
	image    *wire.ImageID
	output   *wire.OutputID
}

type entry struct {
	id       wire.SeatID
	name     string
	keyboard *keyboard
	pointer  *pointer
}

// Manager tracks every live seat.
type Manager struct {
	seats []entry
}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) indexOf(id wire.SeatID) int {
	for i, s := range m.seats {
		if s.id == id {
			return i
		}
	}
	return -1
}

// Add creates a new seat with no keyboard or pointer attached yet.
func (m *Manager) Add(id wire.SeatID, name string) []wire.SeatEvent {
	m.seats = append(m.seats, entry{id: id, name: name})
	return nil
}

// Remove drops a seat and all its sub-state. No-op on unknown id.
func (m *Manager) Remove(id wire.SeatID) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 {
		return nil
	}
	m.seats = append(m.seats[:idx], m.seats[idx+1:]...)
	return nil
}

// --- Keyboard ---

// AddKeyboard attaches keyboard sub-state to an existing seat.
func (m *Manager) AddKeyboard(id wire.SeatID, rate, delay int32) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 {
		return nil
	}
	m.seats[idx].keyboard = &keyboard{rate: rate, delay: delay}
	return nil
}

// RemoveKeyboard detaches keyboard sub-state. No-op if absent.
func (m *Manager) RemoveKeyboard(id wire.SeatID) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].keyboard == nil {
		return nil
	}
	m.seats[idx].keyboard = nil
	return nil
}

// KeyboardFocus sets keyboard focus to surface and emits
// KeyboardFocusChanged; the Geometry Manager decides the target surface
// (spec.md §4.D). The bool reports whether the seat has a keyboard.
func (m *Manager) KeyboardFocus(id wire.SeatID, surface *wire.SurfaceID) ([]wire.SeatEvent, bool) {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].keyboard == nil {
		return nil, false
	}
	m.seats[idx].keyboard.focus = surface
	return []wire.SeatEvent{wire.KeyboardFocusChanged{ID: id, Surface: surface}}, true
}

// KeyboardKey forwards a key event verbatim; requires the keyboard to
// exist but otherwise mutates no state.
func (m *Manager) KeyboardKey(id wire.SeatID, time, code, key uint32, state wire.KeyState) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].keyboard == nil {
		return nil
	}
	kb := m.seats[idx].keyboard
	kb.repeating = state == wire.KeyPressed
	// A new press or a release ends the previous key's repeat schedule.
	kb.lastPress = keyboard{}.lastPress
	return []wire.SeatEvent{wire.KeyboardKeyEv{ID: id, Time: time, Code: code, Key: key, State: state}}
}

// NextRepeat reports when the next autorepeat key event for id's
// currently-held key is due, per its rate/delay (SPEC_FULL.md §9).
// Not part of spec.md's original operation set — the data model
// carries rate/delay but no operation schedules against them; this
// supplies that scheduling without touching protocol delivery.
func (m *Manager) NextRepeat(id wire.SeatID, now time.Time) (time.Time, bool) {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].keyboard == nil {
		return time.Time{}, false
	}
	kb := m.seats[idx].keyboard
	if !kb.repeating || kb.rate <= 0 {
		return time.Time{}, false
	}
	delay := time.Duration(kb.delay) * time.Millisecond
	if kb.lastPress.IsZero() {
		kb.lastPress = now
		return now.Add(delay), true
	}
	first := kb.lastPress.Add(delay)
	if now.Before(first) {
		return first, true
	}
	interval := time.Second / time.Duration(kb.rate)
	return first.Add((now.Sub(first)/interval + 1) * interval), true
}

// --- Cursor/Pointer ---

// AddCursor attaches pointer sub-state to an existing seat.
func (m *Manager) AddCursor(id wire.SeatID, position geom.Point, image *wire.ImageID) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 {
		return nil
	}
	m.seats[idx].pointer = &pointer{position: position, image: image}
	return []wire.SeatEvent{wire.CursorMovedEv{ID: id, Position: position}}
}

// RemoveCursor detaches pointer sub-state. No-op if absent.
func (m *Manager) RemoveCursor(id wire.SeatID) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return nil
	}
	m.seats[idx].pointer = nil
	return nil
}

// Move sets the pointer's position and emits Moved. Focus is not
// recomputed here — the Geometry Manager does that in post-processing
// (spec.md §4.D).
func (m *Manager) Move(id wire.SeatID, position geom.Point) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return nil
	}
	m.seats[idx].pointer.position = position
	return []wire.SeatEvent{wire.CursorMovedEv{ID: id, Position: position}}
}

// Focus changes pointer focus only if it differs from the current
// value; emits Focus on change.
func (m *Manager) Focus(id wire.SeatID, surface *wire.SurfaceID) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return nil
	}
	ptr := m.seats[idx].pointer
	if sameSurfaceID(ptr.focus, surface) {
		return nil
	}
	ptr.focus = surface
	return []wire.SeatEvent{wire.CursorFocusChanged{ID: id, Surface: surface}}
}

// SetImage records the pointer's current cursor image and emits
// CursorImageChanged (SPEC_FULL.md §9). No request is routed to it: a
// Cursor.Added request sets the image through AddCursor.
func (m *Manager) SetImage(id wire.SeatID, image *wire.ImageID) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return nil
	}
	m.seats[idx].pointer.image = image
	return []wire.SeatEvent{wire.CursorImageChanged{ID: id, Image: image}}
}

// Enter records which output the pointer is over.
func (m *Manager) Enter(id wire.SeatID, output wire.OutputID) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return nil
	}
	m.seats[idx].pointer.output = &output
	return []wire.SeatEvent{wire.CursorEnteredEv{ID: id, OutputID: output}}
}

// Leave clears the output the pointer was over.
func (m *Manager) Leave(id wire.SeatID, output wire.OutputID) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return nil
	}
	m.seats[idx].pointer.output = nil
	return []wire.SeatEvent{wire.CursorLeftEv{ID: id, OutputID: output}}
}

// Button forwards a button event verbatim; requires the pointer to
// exist but mutates no seat state.
func (m *Manager) Button(id wire.SeatID, time, code, key uint32, state wire.KeyState) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return nil
	}
	return []wire.SeatEvent{wire.CursorButtonEv{ID: id, Time: time, Code: code, Key: key, State: state}}
}

// Axis forwards an axis event verbatim; requires the pointer to exist.
func (m *Manager) Axis(id wire.SeatID, time uint32, source wire.AxisSource, direction wire.AxisDirection, value float64) []wire.SeatEvent {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return nil
	}
	return []wire.SeatEvent{wire.CursorAxisEv{ID: id, Time: time, Source: source, Direction: direction, Value: value}}
}

// Position returns the seat's pointer position, if any.
func (m *Manager) Position(id wire.SeatID) (geom.Point, bool) {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return geom.Point{}, false
	}
	return m.seats[idx].pointer.position, true
}

// PointerFocus returns the seat's current pointer focus, if any.
func (m *Manager) PointerFocus(id wire.SeatID) (*wire.SurfaceID, bool) {
	idx := m.indexOf(id)
	if idx < 0 || m.seats[idx].pointer == nil {
		return nil, false
	}
	return m.seats[idx].pointer.focus, true
}

func sameSurfaceID(a, b *wire.SurfaceID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
