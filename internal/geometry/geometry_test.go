package geometry

import (
	"testing"

	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/wire"
)

func addOutput(t *testing.T, g *Manager, id wire.OutputID, size geom.Size) {
	t.Helper()
	envs := g.Apply(wire.OutputAdded{ID: id, Size: size})
	if len(envs) == 0 {
		t.Fatalf("expected events adding output %d", id)
	}
}

func addSeatWithCursor(t *testing.T, g *Manager, id wire.SeatID, pos geom.Point) {
	t.Helper()
	g.Apply(wire.SeatAddedReq{ID: id, Name: "seat0"})
	g.Apply(wire.KeyboardAdded{ID: id, Rate: 25, Delay: 400})
	g.Apply(wire.CursorAdded{ID: id, Position: pos})
}

func addToplevel(t *testing.T, g *Manager, id wire.SurfaceID, pos geom.Point) {
	t.Helper()
	envs := g.Apply(wire.SurfaceAdd{ID: id, Kind: wire.ToplevelSpec{}, Position: pos})
	if len(envs) == 0 {
		t.Fatalf("expected events adding surface %d", id)
	}
}

// TestEnvelopesShareOneSerialPerRequest covers spec.md §8 invariant 1:
// every event produced by a single Apply call carries the same serial.
func TestEnvelopesShareOneSerialPerRequest(t *testing.T) {
	g := New()
	envs := g.Apply(wire.OutputAdded{ID: 1, Size: geom.Size{W: 1920, H: 1080}})
	if len(envs) < 2 {
		t.Fatalf("expected at least Added+Moved, got %d events", len(envs))
	}
	first := envs[0].Serial
	for _, e := range envs {
		if e.Serial != first {
			t.Fatalf("expected all events from one Apply to share a serial, got %v and %v", first, e.Serial)
		}
	}
}

// TestSerialsIncreaseAcrossCalls covers spec.md §8 invariant 1's
// monotonicity across requests.
func TestSerialsIncreaseAcrossCalls(t *testing.T) {
	g := New()
	e1 := g.Apply(wire.OutputAdded{ID: 1, Size: geom.Size{W: 800, H: 600}})
	e2 := g.Apply(wire.OutputAdded{ID: 2, Size: geom.Size{W: 800, H: 600}})
	if e2[0].Serial <= e1[0].Serial {
		t.Fatalf("expected strictly increasing serials, got %v then %v", e1[0].Serial, e2[0].Serial)
	}
}

// TestPointerMoveOverSurfaceSetsFocus exercises the pointer-focus
// post-processing rule (spec.md §4.D, §8 invariant 5).
func TestPointerMoveOverSurfaceSetsFocus(t *testing.T) {
	g := New()
	addSeatWithCursor(t, g, 1, geom.Point{X: 0, Y: 0})
	addToplevel(t, g, 10, geom.Point{X: 100, Y: 100})
	g.Apply(wire.AttachBuffer{ID: 10, Size: geom.Size{W: 200, H: 200}})

	envs := g.Apply(wire.CursorMoved{ID: 1, Position: geom.Point{X: 150, Y: 150}})

	var sawFocus bool
	for _, e := range envs {
		if fc, ok := e.Event.(wire.CursorFocusChanged); ok {
			sawFocus = true
			if fc.Surface == nil || *fc.Surface != 10 {
				t.Fatalf("expected pointer focus on surface 10, got %+v", fc.Surface)
			}
		}
	}
	if !sawFocus {
		t.Fatalf("expected a CursorFocusChanged event, got %+v", envs)
	}
}

// TestButtonPressFocusesSurfaceAndKeyboard exercises the derived
// keyboard-focus-follows-click rule (spec.md §4.D).
func TestButtonPressFocusesSurfaceAndKeyboard(t *testing.T) {
	g := New()
	addSeatWithCursor(t, g, 1, geom.Point{X: 150, Y: 150})
	addToplevel(t, g, 10, geom.Point{X: 100, Y: 100})
	g.Apply(wire.AttachBuffer{ID: 10, Size: geom.Size{W: 200, H: 200}})

	envs := g.Apply(wire.CursorButton{ID: 1, Code: 1, State: wire.KeyPressed})

	var sawKbFocus, sawActivated bool
	for _, e := range envs {
		switch ev := e.Event.(type) {
		case wire.KeyboardFocusChanged:
			sawKbFocus = true
			if ev.Surface == nil || *ev.Surface != 10 {
				t.Fatalf("expected keyboard focus on surface 10, got %+v", ev.Surface)
			}
		case wire.SurfaceActivated:
			if ev.ID == 10 {
				sawActivated = true
			}
		}
	}
	if !sawKbFocus {
		t.Fatalf("expected a KeyboardFocusChanged event, got %+v", envs)
	}
	if !sawActivated {
		t.Fatalf("expected the clicked surface to be activated, got %+v", envs)
	}
}

// TestButtonReleaseDoesNotRefocus ensures only presses drive the
// derived keyboard-focus rule.
func TestButtonReleaseDoesNotRefocus(t *testing.T) {
	g := New()
	addSeatWithCursor(t, g, 1, geom.Point{X: 150, Y: 150})
	addToplevel(t, g, 10, geom.Point{X: 100, Y: 100})

	envs := g.Apply(wire.CursorButton{ID: 1, Code: 1, State: wire.KeyReleased})
	for _, e := range envs {
		if _, ok := e.Event.(wire.KeyboardFocusChanged); ok {
			t.Fatalf("did not expect a focus change on button release, got %+v", envs)
		}
	}
}

// TestMaximizeCoversContainingOutput is spec.md §8 scenario 5.
func TestMaximizeCoversContainingOutput(t *testing.T) {
	g := New()
	addOutput(t, g, 1, geom.Size{W: 1920, H: 1080})
	addToplevel(t, g, 10, geom.Point{X: 100, Y: 100})
	g.Apply(wire.AttachBuffer{ID: 10, Size: geom.Size{W: 400, H: 300}})

	envs := g.Apply(wire.MaximizeReq{ID: 10})

	var sawMove, sawResize bool
	for _, e := range envs {
		switch ev := e.Event.(type) {
		case wire.SurfaceMovedEv:
			if ev.Position == (geom.Point{X: 0, Y: 0}) {
				sawMove = true
			}
		case wire.SurfaceResizedEv:
			if ev.Size == (geom.Size{W: 1920, H: 1080}) {
				sawResize = true
			}
		}
	}
	if !sawMove || !sawResize {
		t.Fatalf("expected maximize to cover the output, got %+v", envs)
	}
}

// TestUnknownRequestIsLoggedAndDropped covers spec.md §7's recoverable
// error-handling policy: an unroutable value yields no events and does
// not panic.
func TestUnknownRequestIsLoggedAndDropped(t *testing.T) {
	g := New()
	envs := g.Apply(unknownRequest{})
	if envs != nil {
		t.Fatalf("expected no events for an unroutable request, got %+v", envs)
	}
}

// unknownRequest satisfies wire.Request through the embedded interface
// (its unexported marker method cannot be declared outside package
// wire) but matches no case of the composer's type switch.
type unknownRequest struct{ wire.Request }
