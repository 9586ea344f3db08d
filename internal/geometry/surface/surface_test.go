package surface

import (
	"reflect"
	"testing"

	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/renderer"
	"github.com/wcomp/wcomp/internal/wire"
)

// TestAddFirstToplevelEmitsOnlyAdded: the first toplevel's depth is
// already 0, so reassignDepth has no change to report.
func TestAddFirstToplevelEmitsOnlyAdded(t *testing.T) {
	m := New()
	events := m.Add(1, wire.ToplevelSpec{}, geom.Point{X: 200, Y: 150})

	if len(events) != 1 {
		t.Fatalf("expected only Added (depth 0 is unchanged), got %+v", events)
	}
	if _, ok := events[0].(wire.SurfaceAddedEv); !ok {
		t.Fatalf("expected first event Added, got %+v", events[0])
	}
	s, ok := m.Get(1)
	if !ok || s.Position != (geom.Point{X: 200, Y: 150}) {
		t.Fatalf("unexpected surface state %+v", s)
	}
}

// TestBufferAttachGeometry is spec.md §8 scenario 1's second half: a
// committed 400x300 buffer at a centered position.
func TestBufferAttachGeometry(t *testing.T) {
	m := New()
	m.Add(1, wire.ToplevelSpec{}, geom.Point{X: 200, Y: 150})

	handle := renderer.HostAllocation{Info: renderer.PixelLayout{Format: renderer.FormatRGBA8888}}
	events := m.AttachBuffer(1, handle, geom.Size{W: 400, H: 300}, geom.NewRect(200, 150, 400, 300))
	attached, ok := events[0].(wire.BufferAttached)
	if !ok {
		t.Fatalf("expected BufferAttached, got %+v", events[0])
	}
	if !reflect.DeepEqual(attached.Handle, renderer.BufferSource(handle)) {
		t.Fatalf("expected attach to carry the buffer handle, got %+v", attached.Handle)
	}
	if attached.InnerGeometry != geom.NewRect(200, 150, 400, 300) {
		t.Fatalf("unexpected inner geometry %+v", attached.InnerGeometry)
	}
	if attached.Geometry != geom.NewRect(200, 150, 400, 300) {
		t.Fatalf("unexpected outer geometry %+v", attached.Geometry)
	}
}

// TestPopupDroppedWhenParentMissing covers the boundary behavior:
// "Popup with parent unknown is dropped; no events emitted."
func TestPopupDroppedWhenParentMissing(t *testing.T) {
	m := New()
	events := m.Add(2, wire.PopupSpec{Parent: 99}, geom.Point{})
	if events != nil {
		t.Fatalf("expected no events for orphan popup, got %+v", events)
	}
	if _, ok := m.Get(2); ok {
		t.Fatalf("orphan popup should not have been created")
	}
}

// TestDepthUniquenessAndOrdering exercises invariants 2 and 3: distinct
// depths, front toplevel has the largest depth, and children sit
// strictly between their parent and the next toplevel.
func TestDepthUniquenessAndOrdering(t *testing.T) {
	m := New()
	m.Add(1, wire.ToplevelSpec{}, geom.Point{})
	m.Add(2, wire.ToplevelSpec{}, geom.Point{}) // now front: [2, 1]
	m.Add(3, wire.PopupSpec{Parent: 1}, geom.Point{})

	s1, _ := m.Get(1)
	s2, _ := m.Get(2)
	s3, _ := m.Get(3)

	seen := map[uint32]bool{}
	for _, d := range []uint32{s1.Depth, s2.Depth, s3.Depth} {
		if seen[d] {
			t.Fatalf("depth collision: %v", []uint32{s1.Depth, s2.Depth, s3.Depth})
		}
		seen[d] = true
	}

	if s2.Depth <= s1.Depth {
		t.Fatalf("front toplevel (2) should have greater depth than back toplevel (1): %d vs %d", s2.Depth, s1.Depth)
	}
	if s3.Depth <= s1.Depth {
		t.Fatalf("popup depth should exceed its parent toplevel's depth: %d vs %d", s3.Depth, s1.Depth)
	}
	if s3.Depth >= s2.Depth {
		t.Fatalf("popup of back toplevel should not exceed the next toplevel's depth: %d vs %d", s3.Depth, s2.Depth)
	}
}

// TestFocusReordersStack is spec.md §8 scenario 3's stack half: focus
// moves a back surface to the front (largest depth), and focusing the
// already-active surface again is a no-op.
func TestFocusReordersStack(t *testing.T) {
	m := New()
	m.Add(1, wire.ToplevelSpec{}, geom.Point{})
	m.Add(2, wire.ToplevelSpec{}, geom.Point{})

	var first wire.SurfaceID = 1
	m.Focus(&first)

	s1, _ := m.Get(1)
	s2, _ := m.Get(2)
	if s1.Depth <= s2.Depth {
		t.Fatalf("expected focused surface 1 in front of surface 2: depths %d vs %d", s1.Depth, s2.Depth)
	}

	events := m.Focus(&first)
	if events != nil {
		t.Fatalf("re-focusing the already-active surface should be a no-op, got %+v", events)
	}

	active, ok := m.Active()
	if !ok || active != 1 {
		t.Fatalf("expected surface 1 active, got %v", active)
	}
}

// TestResizeAnchor is spec.md §8 scenario 4: dragging the Left edge
// keeps the right edge of the outer rect fixed.
func TestResizeAnchor(t *testing.T) {
	m := New()
	m.Add(1, wire.ToplevelSpec{}, geom.Point{X: 100, Y: 100})
	m.AttachBuffer(1, nil, geom.Size{W: 400, H: 300}, geom.NewRect(100, 100, 400, 300))

	m.InteractiveResizeStart(1, 42, wire.EdgeLeft)
	m.Configure(1, 99, &geom.Rect{Pos: geom.Point{X: 100, Y: 100}, Size: geom.Size{W: 350, H: 300}}, geom.Size{}, geom.Size{})

	s, _ := m.Get(1)
	if s.Position.X != 150 || s.Position.Y != 100 {
		t.Fatalf("expected position (150,100) after left-edge resize, got %+v", s.Position)
	}
}

// TestMaximizeThenUnmaximizeRestoresPosition is the round-trip
// property from spec.md §8.
func TestMaximizeThenUnmaximizeRestoresPosition(t *testing.T) {
	m := New()
	m.Add(1, wire.ToplevelSpec{}, geom.Point{X: 50, Y: 50})
	m.AttachBuffer(1, nil, geom.Size{W: 400, H: 300}, geom.NewRect(50, 50, 400, 300))

	m.Maximize(1)
	m.Move(1, geom.Point{})
	m.Unmaximize(1)

	s, _ := m.Get(1)
	if s.Position != (geom.Point{X: 50, Y: 50}) {
		t.Fatalf("expected position restored to (50,50), got %+v", s.Position)
	}
	if s.Altered != nil {
		t.Fatalf("expected altered_state to be nil after unmaximize, got %+v", s.Altered)
	}
}

// TestInteractiveResizeRoundTripClearsAlteredState is the second
// round-trip property from spec.md §8.
func TestInteractiveResizeRoundTripClearsAlteredState(t *testing.T) {
	m := New()
	m.Add(1, wire.ToplevelSpec{}, geom.Point{})

	m.InteractiveResizeStart(1, 7, wire.EdgeRight)
	m.InteractiveResizeStop(1, 7)

	s, _ := m.Get(1)
	if s.Altered != nil {
		t.Fatalf("expected altered_state nil after resize round-trip, got %+v", s.Altered)
	}
}

func TestSurfaceAtUsesBorderGrace(t *testing.T) {
	m := New()
	m.Add(1, wire.ToplevelSpec{}, geom.Point{X: 0, Y: 0})
	m.AttachBuffer(1, nil, geom.Size{W: 100, H: 100}, geom.NewRect(0, 0, 100, 100))

	if _, ok := m.SurfaceAt(geom.Point{X: 105, Y: 50}); !ok {
		t.Fatalf("expected border-grace-inflated hit test to succeed just outside the buffer")
	}
	if _, ok := m.SurfaceAt(geom.Point{X: 500, Y: 500}); ok {
		t.Fatalf("expected no hit far outside the surface")
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	m := New()
	if events := m.Remove(42); events != nil {
		t.Fatalf("expected no-op, got %+v", events)
	}
}
