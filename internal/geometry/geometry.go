// Package geometry implements the Geometry Manager composer (spec.md
// §4.D): routes every incoming Request to the right sub-manager, wraps
// the returned events with a freshly allocated serial, and runs
// cross-cutting post-processing that synthesizes additional events
// (focus-follows-stack, pointer-focus-follows-motion, maximize cover).
// Grounded on original_source/src/geometry_manager/mod.rs's
// GeometryManager — the composition shape (one sub-manager call per
// request, postprocess_events as a single funnel point) carries over;
// the postprocessing RULES themselves are spec.md §4.D's, since the
// Rust draft's postprocess_events is a bare passthrough with no
// cross-cutting logic at all.
package geometry

import (
	"fmt"

	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/geometry/output"
	"github.com/wcomp/wcomp/internal/geometry/seat"
	"github.com/wcomp/wcomp/internal/geometry/surface"
	"github.com/wcomp/wcomp/internal/wire"
	"github.com/wcomp/wcomp/internal/wlog"
)

// Manager composes the Output, Seat and Surface managers behind the
// single entry point the Pipeline calls once per translated Request.
type Manager struct {
	Outputs  *output.Manager
	Seats    *seat.Manager
	Surfaces *surface.Manager

	serials wire.Counter
	log     *wlog.Logger
}

func New() *Manager {
	return &Manager{
		Outputs:  output.New(),
		Seats:    seat.New(),
		Surfaces: surface.New(),
		log:      wlog.New("Geometry Manager"),
	}
}

func appendEvents[T wire.Event](dst []wire.Event, src []T) []wire.Event {
	for _, e := range src {
		dst = append(dst, e)
	}
	return dst
}

// Apply feeds one Request through the appropriate sub-manager(s),
// running post-processing, and returns every resulting event wrapped
// with a single freshly allocated serial (spec.md §8 invariant 1:
// serials are strictly increasing across calls, all events from one
// Apply share one serial since they are the product of one request).
func (g *Manager) Apply(req wire.Request) []wire.Envelope {
	events := g.dispatch(req)
	return g.wrap(events)
}

// NextSerial hands out a serial from the same counter wrap uses, for
// callers (the Pipeline's Translate stage) that must stamp a request
// with a serial the client will later be asked to ack — e.g. the
// configure a freshly mapped toplevel is given immediately.
func (g *Manager) NextSerial() wire.Serial {
	return g.serials.Next()
}

func (g *Manager) wrap(events []wire.Event) []wire.Envelope {
	if len(events) == 0 {
		return nil
	}
	serial := g.serials.Next()
	out := make([]wire.Envelope, len(events))
	for i, e := range events {
		out[i] = wire.Envelope{Serial: serial, Event: e}
	}
	return out
}

func (g *Manager) dispatch(req wire.Request) []wire.Event {
	var events []wire.Event

	switch r := req.(type) {

	// --- Output ---
	case wire.OutputAdded:
		events = appendEvents(events, g.Outputs.Add(r.ID, r.Handle, r.Size))
	case wire.OutputRemoved:
		events = appendEvents(events, g.Outputs.Remove(r.ID))
		events = append(events, g.postProcessOutputGone()...)
	case wire.OutputResized:
		events = appendEvents(events, g.Outputs.Resize(r.ID, r.Size))
	case wire.OutputMovedReq:
		// Dead request variant carried for fidelity with spec.md §6;
		// no Output Manager operation drives it (DESIGN.md, Open Question
		// decisions, item 3).

	// --- Seat lifecycle ---
	case wire.SeatAddedReq:
		events = appendEvents(events, g.Seats.Add(r.ID, r.Name))
	case wire.SeatRemovedReq:
		events = appendEvents(events, g.Seats.Remove(r.ID))

	// --- Keyboard ---
	case wire.KeyboardAdded:
		events = appendEvents(events, g.Seats.AddKeyboard(r.ID, r.Rate, r.Delay))
	case wire.KeyboardRemoved:
		events = appendEvents(events, g.Seats.RemoveKeyboard(r.ID))
	case wire.KeyboardKey:
		events = appendEvents(events, g.Seats.KeyboardKey(r.ID, r.Time, r.Code, r.Key, r.State))
	case wire.KeyboardFocusReq:
		se, _ := g.Seats.KeyboardFocus(r.ID, r.Surface)
		events = appendEvents(events, se)
		events = append(events, g.postProcessKeyboardFocus(r.Surface)...)

	// --- Cursor/Pointer ---
	case wire.CursorAdded:
		events = appendEvents(events, g.Seats.AddCursor(r.ID, r.Position, r.Image))
	case wire.CursorRemoved:
		events = appendEvents(events, g.Seats.RemoveCursor(r.ID))
	case wire.CursorMoved:
		events = appendEvents(events, g.Seats.Move(r.ID, r.Position))
		events = append(events, g.postProcessPointerMoved(r.ID, r.Position)...)
	case wire.CursorButton:
		events = appendEvents(events, g.Seats.Button(r.ID, r.Time, r.Code, r.Key, r.State))
		events = append(events, g.postProcessButton(r.ID, r.State)...)
	case wire.CursorAxis:
		events = appendEvents(events, g.Seats.Axis(r.ID, r.Time, r.Source, r.Direction, r.Value))
	case wire.CursorFocusReq:
		events = appendEvents(events, g.Seats.Focus(r.ID, r.Surface))
	case wire.CursorEntered:
		events = appendEvents(events, g.Seats.Enter(r.ID, r.OutputID))
	case wire.CursorLeft:
		events = appendEvents(events, g.Seats.Leave(r.ID, r.OutputID))

	// --- Surface ---
	case wire.SurfaceAdd:
		events = appendEvents(events, g.Surfaces.Add(r.ID, r.Kind, r.Position))
	case wire.SurfaceRemove:
		events = appendEvents(events, g.Surfaces.Remove(r.ID))
	case wire.SurfaceMove:
		events = appendEvents(events, g.Surfaces.Move(r.ID, r.Position))
	case wire.SurfaceResize:
		events = appendEvents(events, g.Surfaces.Resize(r.ID, r.Size))
	case wire.InteractiveResizeStart:
		events = appendEvents(events, g.Surfaces.InteractiveResizeStart(r.ID, r.Serial, r.Edge))
	case wire.InteractiveResize:
		events = appendEvents(events, g.Surfaces.InteractiveResizeStep(r.ID, r.Serial, r.InnerSize))
	case wire.InteractiveResizeStop:
		events = appendEvents(events, g.Surfaces.InteractiveResizeStop(r.ID, r.Serial))
	case wire.SurfaceConfiguration:
		events = appendEvents(events, g.Surfaces.Configure(r.ID, r.Serial, r.Geometry, r.MinSize, r.MaxSize))
	case wire.AttachBuffer:
		events = appendEvents(events, g.Surfaces.AttachBuffer(r.ID, r.Handle, r.Size, r.InnerGeometry))
	case wire.DetachBuffer:
		events = appendEvents(events, g.Surfaces.DetachBuffer(r.ID))
	case wire.MaximizeReq:
		events = appendEvents(events, g.Surfaces.Maximize(r.ID))
		events = append(events, g.postProcessMaximize(r.ID)...)
	case wire.UnmaximizeReq:
		events = appendEvents(events, g.Surfaces.Unmaximize(r.ID))
	case wire.CommitReq:
		// The Pipeline's Translate stage already resolved any pending
		// attach/detach into AttachBuffer/DetachBuffer before this
		// request reaches the core (spec.md §4.E step 2); Commit itself
		// only needs to report back that it landed.
		if _, ok := g.Surfaces.Get(r.ID); ok {
			events = append(events, wire.SurfaceCommitted{ID: r.ID})
		}

	default:
		g.log.Warn("unknown request type", "type", fmt.Sprintf("%T", req))
	}

	return events
}

// postProcessKeyboardFocus reorders the surface stack to match the
// new keyboard focus (spec.md §4.D: "On Keyboard.Focus → call
// SurfaceManager.focus").
func (g *Manager) postProcessKeyboardFocus(surfaceID *wire.SurfaceID) []wire.Event {
	return appendEvents[wire.SurfaceEvent](nil, g.Surfaces.Focus(surfaceID))
}

// postProcessPointerMoved recomputes pointer focus from the surface
// under the new position (spec.md §4.D, §8 invariant 5).
func (g *Manager) postProcessPointerMoved(seatID wire.SeatID, pos geom.Point) []wire.Event {
	var target *wire.SurfaceID
	if id, ok := g.Surfaces.SurfaceAt(pos); ok {
		target = &id
	}
	return appendEvents[wire.SeatEvent](nil, g.Seats.Focus(seatID, target))
}

// postProcessButton derives a keyboard-focus change from a cursor
// button event: the surface under the cursor becomes the new keyboard
// focus, which in turn reorders the surface stack (spec.md §4.D).
func (g *Manager) postProcessButton(seatID wire.SeatID, state wire.KeyState) []wire.Event {
	if state != wire.KeyPressed {
		return nil
	}
	pos, ok := g.Seats.Position(seatID)
	if !ok {
		return nil
	}
	var target *wire.SurfaceID
	if id, ok := g.Surfaces.SurfaceAt(pos); ok {
		target = &id
	}

	var events []wire.Event
	kbEvents, _ := g.Seats.KeyboardFocus(seatID, target)
	events = appendEvents(events, kbEvents)
	events = append(events, g.postProcessKeyboardFocus(target)...)
	return events
}

// postProcessMaximize moves and resizes a newly maximized surface to
// cover the output it sits on (spec.md §4.D, §8 scenario 5).
func (g *Manager) postProcessMaximize(id wire.SurfaceID) []wire.Event {
	s, ok := g.Surfaces.Get(id)
	if !ok {
		return nil
	}
	outID, ok := g.Outputs.OutputAt(s.Position)
	if !ok {
		return nil
	}
	geometry, ok := g.Outputs.Geometry(outID)
	if !ok {
		return nil
	}

	var events []wire.Event
	events = appendEvents(events, g.Surfaces.Move(id, geometry.Pos))
	events = appendEvents(events, g.Surfaces.Resize(id, geometry.Size))
	return events
}

// postProcessOutputGone is a hook for repositioning surfaces that now
// sit outside the covered screen after an output disappears. spec.md
// §4.D notes this may be a no-op; nothing in spec.md's testable
// properties exercises off-screen repositioning, so it is left
// unimplemented pending a concrete requirement.
func (g *Manager) postProcessOutputGone() []wire.Event {
	return nil
}
