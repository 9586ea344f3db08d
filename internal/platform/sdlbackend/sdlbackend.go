// Package sdlbackend is a reference platform.Backend that discovers
// SDL video displays as Outputs and polls SDL's event queue for a
// single virtual Seat, translating both into wire.Requests. It exists
// as a runnable demo target, not a production Wayland backend — a
// real deployment talks to wlr-layer-shell/wlr-output-management the
// way the teacher's own wayland.go does, which internal/platform
// leaves as a second Backend implementation outside this module's
// scope.
//
// Grounded directly on ctxmenu.go's own SDL usage: sdl.WaitEventTimeout
// as the poll-with-timeout loop, sdl.GetNumVideoDisplays/GetDisplayBounds
// for output discovery, and the same MouseMotionEvent/MouseButtonEvent/
// MouseWheelEvent/KeyboardEvent/WindowEvent type switch ctxmenu.go's
// own run loop uses.
package sdlbackend

import (
	"context"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/wire"
	"github.com/wcomp/wcomp/internal/wlog"
)

const (
	virtualSeat wire.SeatID = 1

	pollTimeoutMS = 50
)

// Backend implements platform.Backend over an SDL video session.
type Backend struct {
	log      *wlog.Logger
	outputs  map[int]wire.OutputID
	nextID   wire.OutputID
	requests chan wire.Request
}

func New() *Backend {
	return &Backend{
		log:     wlog.New("SDL Backend"),
		outputs: make(map[int]wire.OutputID),
	}
}

// Run initializes SDL video, announces every connected display as an
// Output and the keyboard/pointer pair as one Seat, then polls SDL's
// event queue until ctx is canceled.
func (b *Backend) Run(ctx context.Context) (<-chan wire.Request, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdlbackend: init: %w", err)
	}

	b.requests = make(chan wire.Request, 64)
	go b.run(ctx)
	return b.requests, nil
}

func (b *Backend) run(ctx context.Context) {
	defer close(b.requests)
	defer sdl.Quit()

	b.discoverOutputs()
	b.send(wire.SeatAddedReq{ID: virtualSeat, Name: "sdl-virtual-seat"})
	b.send(wire.KeyboardAdded{ID: virtualSeat, Rate: 25, Delay: 400})
	b.send(wire.CursorAdded{ID: virtualSeat})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		event := sdl.WaitEventTimeout(pollTimeoutMS)
		if event == nil {
			continue
		}
		if _, quit := event.(*sdl.QuitEvent); quit {
			return
		}
		b.translate(event)
	}
}

func (b *Backend) discoverOutputs() {
	n, err := sdl.GetNumVideoDisplays()
	if err != nil {
		b.log.Warn("could not enumerate displays", "err", err)
		return
	}
	for i := 0; i < n; i++ {
		bounds, err := sdl.GetDisplayBounds(i)
		if err != nil {
			b.log.Warn("could not read display bounds", "display", i, "err", err)
			continue
		}
		id := b.nextID
		b.nextID++
		b.outputs[i] = id
		b.send(wire.OutputAdded{
			ID:   id,
			Size: geom.Size{W: uint32(bounds.W), H: uint32(bounds.H)},
		})
	}
}

func (b *Backend) translate(event sdl.Event) {
	switch ev := event.(type) {
	case *sdl.MouseMotionEvent:
		b.send(wire.CursorMoved{ID: virtualSeat, Position: geom.Point{X: ev.X, Y: ev.Y}})

	case *sdl.MouseButtonEvent:
		state := wire.KeyReleased
		if ev.State == sdl.PRESSED {
			state = wire.KeyPressed
		}
		b.send(wire.CursorButton{ID: virtualSeat, Time: ev.Timestamp, Code: uint32(ev.Button), State: state})

	case *sdl.MouseWheelEvent:
		direction := wire.AxisVertical
		value := float64(ev.Y)
		if ev.X != 0 {
			direction = wire.AxisHorizontal
			value = float64(ev.X)
		}
		b.send(wire.CursorAxis{ID: virtualSeat, Time: ev.Timestamp, Source: wire.AxisSourceWheel, Direction: direction, Value: value})

	case *sdl.KeyboardEvent:
		state := wire.KeyReleased
		if ev.State == sdl.PRESSED {
			state = wire.KeyPressed
		}
		b.send(wire.KeyboardKey{ID: virtualSeat, Time: ev.Timestamp, Code: uint32(ev.Keysym.Scancode), Key: uint32(ev.Keysym.Sym), State: state})

	case *sdl.WindowEvent:
		// Window focus/resize on the demo window is not part of the
		// core's Output/Seat model; nothing to translate.
	}
}

func (b *Backend) send(req wire.Request) {
	select {
	case b.requests <- req:
	default:
		b.log.Warn("backend request channel full, dropping", "type", fmt.Sprintf("%T", req))
	}
}

// Close quits SDL's video subsystem outside of ctx cancellation.
func (b *Backend) Close() error {
	sdl.Quit()
	return nil
}
