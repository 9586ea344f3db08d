// Package pipeline implements component E, the 3-stage Gather/
// Translate/Apply loop (spec.md §4.E): Gather drains the platform
// backend's device/output events and the protocol serializer's client
// requests, Translate maps protocol-level forms (NewToplevel, Commit,
// StartMove, StartResize, ...) onto the internal wire.Request enum and
// component F's grab state machines, and Apply feeds each Request
// through the Geometry Manager and fans the resulting events out to
// the render task and protocol serializer. Also owns frame-callback
// pacing (spec.md §5) and threads pointer-grab state machines into
// the same Request stream they were captured from.
//
// Grounded on original_source/src/wcomp.rs's WComp::run: a
// calloop::EventLoop driving platform/wayland fd sources plus a
// fixed-rate sleep for frame-callback dispatch, re-expressed as a
// select over channels since Go has no calloop equivalent.
package pipeline

import (
	"context"
	"fmt"

	"github.com/wcomp/wcomp/internal/geometry"
	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/grab"
	"github.com/wcomp/wcomp/internal/platform"
	"github.com/wcomp/wcomp/internal/protowire"
	"github.com/wcomp/wcomp/internal/renderer"
	"github.com/wcomp/wcomp/internal/wire"
	"github.com/wcomp/wcomp/internal/wlog"
)

type surfaceRenderState struct {
	pos     geom.Point
	depth   uint32
	created bool
}

// pendingBuffer mirrors a surface's Wayland double-buffered attach
// state (spec.md §4.E step 2's SurfaceCachedState): attach/detach
// requests accumulate here until the matching Commit applies them.
type pendingBuffer struct {
	attach *protowire.AttachPending
	detach bool
}

// Pipeline owns the Geometry Manager and the render task/protocol
// serializer collaborators, and drives one event-loop tick at a time.
type Pipeline struct {
	Geo     *geometry.Manager
	Render  renderer.Surface
	Outputs renderer.Outputs
	Proto   protowire.Serializer
	Clock   *Clock

	log      *wlog.Logger
	grabs    map[wire.SeatID]grab.Grab
	surfaces map[wire.SurfaceID]*surfaceRenderState
	pending  map[wire.SurfaceID]*pendingBuffer
}

func New(geo *geometry.Manager, render renderer.Surface, outputs renderer.Outputs, proto protowire.Serializer, frameRate int) *Pipeline {
	return &Pipeline{
		Geo:      geo,
		Render:   render,
		Outputs:  outputs,
		Proto:    proto,
		Clock:    NewClock(frameRate),
		log:      wlog.New("Pipeline"),
		grabs:    make(map[wire.SeatID]grab.Grab),
		surfaces: make(map[wire.SurfaceID]*surfaceRenderState),
		pending:  make(map[wire.SurfaceID]*pendingBuffer),
	}
}

// Run drains backend.Run's platform Request channel, proto's protocol
// ClientRequest channel (Gather stage sources (a) and (b) from spec.md
// §4.E — proto may be nil if no protocol implementation is wired in
// yet, in which case that source is simply never selected) and the
// frame Clock, until ctx is canceled or the backend's channel closes.
func (p *Pipeline) Run(ctx context.Context, backend platform.Backend, proto protowire.ProtocolSource) error {
	requests, err := backend.Run(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	var clientRequests <-chan protowire.ClientRequest
	if proto != nil {
		clientRequests, err = proto.Run(ctx)
		if err != nil {
			return err
		}
		defer proto.Close()
	}

	ticks := p.Clock.Start()
	defer p.Clock.Stop()

	var elapsedMS uint32
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			p.Dispatch(req)
		case creq, ok := <-clientRequests:
			if !ok {
				clientRequests = nil
				continue
			}
			p.Translate(creq)
		case <-ticks:
			elapsedMS += uint32(p.Clock.interval.Milliseconds())
			p.tick(elapsedMS)
		}
	}
}

// Translate maps one protocol-level ClientRequest onto the internal
// wire.Request enum (spec.md §4.E step 2) and feeds the result through
// Dispatch. NewToplevel picks a position via
// OutputManager.SurfaceOptimalPosition(SurfaceOptimalSize()) and
// immediately configures the surface with that size; Commit resolves
// whatever AttachBuffer/DetachBuffer is pending for the surface before
// emitting CommitReq; StartMove/StartResize install the matching grab
// (component F) against the requesting seat.
func (p *Pipeline) Translate(req protowire.ClientRequest) []wire.Envelope {
	var envs []wire.Envelope

	switch r := req.(type) {
	case protowire.NewToplevel:
		size := p.Geo.Outputs.SurfaceOptimalSize()
		pos := p.Geo.Outputs.SurfaceOptimalPosition(size)
		envs = append(envs, p.Dispatch(wire.SurfaceAdd{ID: r.ID, Kind: wire.ToplevelSpec{}, Position: pos})...)
		rect := geom.Rect{Pos: pos, Size: size}
		serial := p.Geo.NextSerial()
		envs = append(envs, p.Dispatch(wire.SurfaceConfiguration{ID: r.ID, Serial: serial, Geometry: &rect})...)

	case protowire.NewPopup:
		envs = append(envs, p.Dispatch(wire.SurfaceAdd{
			ID:       r.ID,
			Kind:     wire.PopupSpec{Parent: r.Parent, State: r.State},
			Position: geom.Point{},
		})...)

	case protowire.AttachPending:
		pend := p.pendingState(r.ID)
		pend.attach = &r
		pend.detach = false

	case protowire.DetachPending:
		pend := p.pendingState(r.ID)
		pend.attach = nil
		pend.detach = true

	case protowire.Commit:
		pend, ok := p.pending[r.ID]
		if ok {
			switch {
			case pend.attach != nil:
				cached := pend.attach.Geometry
				var rect geom.Rect
				if cached != nil {
					rect = *cached
				} else {
					rect = geom.Rect{Pos: p.surfaceState(r.ID).pos, Size: pend.attach.Size}
				}
				envs = append(envs, p.Dispatch(wire.AttachBuffer{
					ID:            r.ID,
					Handle:        pend.attach.Handle,
					InnerGeometry: rect,
					Size:          pend.attach.Size,
				})...)
			case pend.detach:
				envs = append(envs, p.Dispatch(wire.DetachBuffer{ID: r.ID})...)
			}
			delete(p.pending, r.ID)
		}
		envs = append(envs, p.Dispatch(wire.CommitReq{ID: r.ID})...)

	case protowire.StartMove:
		envs = append(envs, p.startMove(r)...)

	case protowire.StartResize:
		envs = append(envs, p.startResize(r)...)

	default:
		p.log.Warn("unknown protocol request", "type", fmt.Sprintf("%T", req))
	}

	return envs
}

func (p *Pipeline) pendingState(id wire.SurfaceID) *pendingBuffer {
	pend, ok := p.pending[id]
	if !ok {
		pend = &pendingBuffer{}
		p.pending[id] = pend
	}
	return pend
}

// Dispatch feeds one Request through the Geometry Manager, threading
// an active pointer grab's Motion/Button translation into the same
// Request stream before applying render/protocol side effects.
func (p *Pipeline) Dispatch(req wire.Request) []wire.Envelope {
	var envs []wire.Envelope

	switch r := req.(type) {
	case wire.CursorMoved:
		envs = append(envs, p.Geo.Apply(req)...)
		if g, ok := p.grabs[r.ID]; ok {
			for _, sreq := range g.Motion(r.Position) {
				envs = append(envs, p.Geo.Apply(sreq)...)
			}
		}
	case wire.CursorButton:
		envs = append(envs, p.Geo.Apply(req)...)
		if g, ok := p.grabs[r.ID]; ok {
			sreqs, done := g.Button(r.Code, r.State)
			for _, sreq := range sreqs {
				envs = append(envs, p.Geo.Apply(sreq)...)
			}
			if done {
				delete(p.grabs, r.ID)
			}
		}
	case wire.CursorAxis:
		envs = append(envs, p.Geo.Apply(req)...)
		if g, ok := p.grabs[r.ID]; ok {
			for _, sreq := range g.Axis() {
				envs = append(envs, p.Geo.Apply(sreq)...)
			}
		}
	default:
		envs = p.Geo.Apply(req)
	}

	p.applyEffects(envs)
	return envs
}

// StartGrab installs g as the active pointer grab for seat, applying
// the requests the grab's constructor already emitted (e.g.
// InteractiveResizeStart, pushed eagerly by grab.NewResize).
func (p *Pipeline) StartGrab(seat wire.SeatID, g grab.Grab, startReqs []wire.SurfaceRequest) []wire.Envelope {
	p.grabs[seat] = g
	var envs []wire.Envelope
	for _, req := range startReqs {
		envs = append(envs, p.Geo.Apply(req)...)
	}
	p.applyEffects(envs)
	return envs
}

// EndGrab clears seat's active pointer grab, if any.
func (p *Pipeline) EndGrab(seat wire.SeatID) {
	delete(p.grabs, seat)
}

// startMove installs a Move grab for a client's xdg_toplevel.move
// request, capturing the seat's current pointer position and the
// surface's current origin as start_data (spec.md §4.F).
func (p *Pipeline) startMove(r protowire.StartMove) []wire.Envelope {
	pos, ok := p.Geo.Seats.Position(r.Seat)
	if !ok {
		return nil
	}
	s, ok := p.Geo.Surfaces.Get(r.ID)
	if !ok {
		return nil
	}
	start := grab.StartData{Button: r.Button, Location: pos, FocusSurface: r.ID, FocusOrigin: s.Position}
	return p.StartGrab(r.Seat, grab.NewMove(start), nil)
}

// startResize installs a Resize grab for a client's
// xdg_toplevel.resize request, capturing the surface's current inner
// geometry so per-edge deltas are computed relative to it.
func (p *Pipeline) startResize(r protowire.StartResize) []wire.Envelope {
	pos, ok := p.Geo.Seats.Position(r.Seat)
	if !ok {
		return nil
	}
	s, ok := p.Geo.Surfaces.Get(r.ID)
	if !ok {
		return nil
	}
	var inner geom.Rect
	if s.Buffer != nil {
		inner = s.Buffer.InnerGeometry
	}
	start := grab.StartData{Button: r.Button, Location: pos, FocusSurface: r.ID, FocusOrigin: s.Position}
	g, startReqs := grab.NewResize(start, r.Serial, r.Edge, inner)
	return p.StartGrab(r.Seat, g, startReqs)
}

func (p *Pipeline) applyEffects(envs []wire.Envelope) {
	for _, e := range envs {
		switch ev := e.Event.(type) {
		case wire.OutputAddedEv:
			if p.Outputs != nil {
				p.Outputs.CreateSurface(uint64(ev.ID), nil, ev.Geometry.Size)
			}
		case wire.OutputRemovedEv:
			if p.Outputs != nil {
				p.Outputs.DestroySurface(uint64(ev.ID))
			}
		case wire.OutputResizedEv:
			if p.Outputs != nil {
				p.Outputs.ResizeSurface(uint64(ev.ID), ev.Size)
			}
		case wire.OutputMovedEv:
			if p.Outputs != nil {
				p.Outputs.MoveOutput(uint64(ev.ID), ev.Position)
			}

		case wire.SurfaceAddedEv:
			p.surfaces[ev.ID] = &surfaceRenderState{pos: ev.Position, depth: ev.Depth}

		case wire.SurfaceRemovedEv:
			delete(p.surfaces, ev.ID)
			if p.Render != nil {
				p.Render.Remove(uint64(ev.ID))
			}

		case wire.SurfaceMovedEv:
			st := p.surfaceState(ev.ID)
			st.pos = ev.Position
			p.moveRender(ev.ID, st)

		case wire.SurfaceDepthChanged:
			st := p.surfaceState(ev.ID)
			st.depth = ev.Depth
			p.moveRender(ev.ID, st)

		case wire.SurfaceResizedEv:
			if p.Render != nil {
				p.Render.Resize(uint64(ev.ID), ev.Size)
			}

		case wire.BufferAttached:
			st := p.surfaceState(ev.ID)
			st.pos = ev.Geometry.Pos
			if p.Render != nil {
				if !st.created {
					p.Render.Create(uint64(ev.ID), "", ev.Handle, renderer.Pos3{X: st.pos.X, Y: st.pos.Y, Z: int32(st.depth)}, ev.Geometry.Size)
					st.created = true
				} else {
					p.Render.UpdateSource(uint64(ev.ID), ev.Handle)
				}
			}
			p.uploadPixels(ev.ID, ev.Handle)

		case wire.BufferReplaced:
			st := p.surfaceState(ev.ID)
			if p.Render != nil {
				if !st.created {
					p.Render.Create(uint64(ev.ID), "", ev.Handle, renderer.Pos3{X: st.pos.X, Y: st.pos.Y, Z: int32(st.depth)}, ev.Geometry.Size)
					st.created = true
				} else {
					p.Render.UpdateSource(uint64(ev.ID), ev.Handle)
				}
			}
			p.uploadPixels(ev.ID, ev.Handle)

		case wire.BufferDetached:
			// The surface's render handle stays put (Remove only happens
			// on SurfaceRemovedEv); a detached surface simply stops
			// receiving UpdateSource/UpdateData until the next attach.

		case wire.SurfaceConfigured:
			if p.Proto != nil {
				p.Proto.SendConfigure(uint64(ev.ID), uint32(ev.Serial), [2]uint32{ev.Size.W, ev.Size.H})
			}

		default:
			// Seat events and the remaining surface lifecycle events
			// (Maximized/Unmaximized/Activated/...) carry no render or
			// protocol side effect of their own.
		}
	}
}

func (p *Pipeline) surfaceState(id wire.SurfaceID) *surfaceRenderState {
	st, ok := p.surfaces[id]
	if !ok {
		st = &surfaceRenderState{}
		p.surfaces[id] = st
	}
	return st
}

func (p *Pipeline) moveRender(id wire.SurfaceID, st *surfaceRenderState) {
	if p.Render == nil {
		return
	}
	p.Render.Move(uint64(id), renderer.Pos3{X: st.pos.X, Y: st.pos.Y, Z: int32(st.depth)})
}

// uploadPixels normalizes a HostAllocation buffer's bytes to RGBA8888
// in place and pushes them to the render task (spec.md §4.E's
// update_data call). Dmabuf sources skip this entirely — the render
// task imports them by fd and never sees their bytes here. An
// unsupported pixel format is logged and the upload dropped rather
// than panicking (spec.md §7).
func (p *Pipeline) uploadPixels(id wire.SurfaceID, handle renderer.BufferSource) {
	if p.Render == nil {
		return
	}
	alloc, ok := handle.(renderer.HostAllocation)
	if !ok {
		return
	}
	if err := protowire.ToRGBA8888(alloc.Info.Format, alloc.Data); err != nil {
		p.log.Warn("dropping buffer upload", "surface", id, "err", err)
		return
	}
	p.Render.UpdateData(uint64(id), alloc.Data)
}

// tick dispatches a frame-done callback to every live surface, the Go
// equivalent of wcomp.rs's frame_callbacks.drain loop.
func (p *Pipeline) tick(elapsedMS uint32) {
	if p.Proto == nil {
		return
	}
	for id := range p.surfaces {
		p.Proto.SendFrameDone(uint64(id), elapsedMS)
	}
}
