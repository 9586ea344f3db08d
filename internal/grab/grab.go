// Package grab implements the pointer-grab state machines for
// interactive Move and Resize (spec.md §4.F). Both are installed on
// the pointer via the protocol's grab mechanism and share one
// interface, translating pointer motion into SurfaceRequests.
// Grounded on original_source/src/move_logic.rs and
// original_source/src/resize_logic.rs: this core's start_data/button
// handling follows those two state machines closely. Instead of the
// source's Rc<RefCell<Vec<_>>> queue, each grab method returns its
// requests as a slice, which internal/pipeline's Dispatch applies
// straight away in the same call.
package grab

import (
	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/wire"
)

// StartData is the pointer state captured at grab initiation.
type StartData struct {
	Button       uint32
	Location     geom.Point
	FocusSurface wire.SurfaceID
	FocusOrigin  geom.Point
}

// Grab is the shared pointer-grab interface (spec.md §9 Design Note):
// an interface with only the methods a grab needs, no downcasting.
type Grab interface {
	Motion(cursor geom.Point) []wire.SurfaceRequest
	Button(button uint32, state wire.KeyState) (reqs []wire.SurfaceRequest, done bool)
	Axis() []wire.SurfaceRequest
	Start() StartData
}

// Move translates pointer motion into Surface.Move requests, keeping
// the cursor's offset from the surface's origin fixed for the grab's
// lifetime.
type Move struct {
	start StartData
}

func NewMove(start StartData) *Move {
	return &Move{start: start}
}

func (g *Move) Start() StartData { return g.start }

// Motion emits Surface.Move{id, new_position} where new_position =
// cursor − (start_location − focus_origin), spec.md §4.F.
func (g *Move) Motion(cursor geom.Point) []wire.SurfaceRequest {
	offset := g.start.Location.Sub(g.start.FocusOrigin)
	position := cursor.Sub(offset)
	return []wire.SurfaceRequest{wire.SurfaceMove{ID: g.start.FocusSurface, Position: position}}
}

// Button unsets the grab when the button that started it is released.
func (g *Move) Button(button uint32, state wire.KeyState) ([]wire.SurfaceRequest, bool) {
	if button == g.start.Button && state == wire.KeyReleased {
		return nil, true
	}
	return nil, false
}

func (g *Move) Axis() []wire.SurfaceRequest { return nil }

// Resize translates pointer motion into InteractiveResize requests,
// computing a new inner size from the cursor delta relative to the
// captured focus origin, per edge (spec.md §4.F table).
type Resize struct {
	start         StartData
	serial        wire.Serial
	edge          wire.Edge
	innerGeometry geom.Rect
}

// NewResize begins a resize grab, emitting InteractiveResizeStart
// immediately (original_source/src/resize_logic.rs's constructor does
// the same, pushing the start request before any motion arrives).
func NewResize(start StartData, serial wire.Serial, edge wire.Edge, innerGeometry geom.Rect) (*Resize, []wire.SurfaceRequest) {
	g := &Resize{start: start, serial: serial, edge: edge, innerGeometry: innerGeometry}
	return g, []wire.SurfaceRequest{wire.InteractiveResizeStart{ID: start.FocusSurface, Serial: serial, Edge: edge}}
}

func (g *Resize) Start() StartData { return g.start }

func (g *Resize) Motion(cursor geom.Point) []wire.SurfaceRequest {
	rel := cursor.Sub(g.start.FocusOrigin)
	ig := g.innerGeometry

	var w, h int32
	switch g.edge {
	case wire.EdgeRight:
		w, h = rel.X-ig.Pos.X, int32(ig.Size.H)
	case wire.EdgeBottom:
		w, h = int32(ig.Size.W), rel.Y-ig.Pos.Y
	case wire.EdgeBottomRight:
		w, h = rel.X-ig.Pos.X, rel.Y-ig.Pos.Y
	case wire.EdgeLeft:
		w, h = int32(ig.Size.W)-rel.X+ig.Pos.X, int32(ig.Size.H)
	case wire.EdgeTop:
		w, h = int32(ig.Size.W), int32(ig.Size.H)-rel.Y+ig.Pos.Y
	case wire.EdgeTopLeft:
		w, h = int32(ig.Size.W)-rel.X+ig.Pos.X, int32(ig.Size.H)-rel.Y+ig.Pos.Y
	case wire.EdgeTopRight:
		w, h = rel.X-ig.Pos.X, int32(ig.Size.H)-rel.Y+ig.Pos.Y
	case wire.EdgeBottomLeft:
		w, h = int32(ig.Size.W)-rel.X+ig.Pos.X, rel.Y-ig.Pos.Y
	default:
		return nil
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	return []wire.SurfaceRequest{wire.InteractiveResize{
		ID:        g.start.FocusSurface,
		Serial:    g.serial,
		InnerSize: geom.Size{W: uint32(w), H: uint32(h)},
	}}
}

// Button unsets the grab and emits InteractiveResizeStop when the
// starting button is released.
func (g *Resize) Button(button uint32, state wire.KeyState) ([]wire.SurfaceRequest, bool) {
	if button == g.start.Button && state == wire.KeyReleased {
		return []wire.SurfaceRequest{wire.InteractiveResizeStop{ID: g.start.FocusSurface, Serial: g.serial}}, true
	}
	return nil, false
}

func (g *Resize) Axis() []wire.SurfaceRequest { return nil }
