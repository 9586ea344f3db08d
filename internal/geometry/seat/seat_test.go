package seat

import (
	"testing"
	"time"

	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/wire"
)

func TestFocusOnlyEmitsOnChange(t *testing.T) {
	m := New()
	m.Add(1, "seat0")
	m.AddCursor(1, geom.Point{}, nil)

	var sid wire.SurfaceID = 5
	events := m.Focus(1, &sid)
	if len(events) != 1 {
		t.Fatalf("expected one Focus event, got %+v", events)
	}

	again := m.Focus(1, &sid)
	if again != nil {
		t.Fatalf("expected no event on repeated identical focus, got %+v", again)
	}
}

func TestButtonRequiresPointer(t *testing.T) {
	m := New()
	m.Add(1, "seat0")
	if events := m.Button(1, 0, 0, 0, wire.KeyPressed); events != nil {
		t.Fatalf("expected no events without a pointer, got %+v", events)
	}

	m.AddCursor(1, geom.Point{}, nil)
	if events := m.Button(1, 0, 0, 0, wire.KeyPressed); len(events) != 1 {
		t.Fatalf("expected a button event once pointer exists, got %+v", events)
	}
}

func TestUnknownSeatIsNoop(t *testing.T) {
	m := New()
	if events := m.Move(99, geom.Point{}); events != nil {
		t.Fatalf("expected no-op on unknown seat, got %+v", events)
	}
}

func TestAutorepeatSchedule(t *testing.T) {
	m := New()
	m.Add(1, "seat0")
	m.AddKeyboard(1, 25, 400)

	now := time.Unix(1000, 0)
	m.KeyboardKey(1, 0, 0, 30, wire.KeyPressed)

	due, ok := m.NextRepeat(1, now)
	if !ok {
		t.Fatalf("expected a repeat schedule while a key is held")
	}
	if !due.Equal(now.Add(400 * time.Millisecond)) {
		t.Fatalf("expected first repeat after the delay, got %v", due)
	}

	m.KeyboardKey(1, 0, 0, 30, wire.KeyReleased)
	if _, ok := m.NextRepeat(1, now); ok {
		t.Fatalf("expected no repeat schedule once the key is released")
	}
}
