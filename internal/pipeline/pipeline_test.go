package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/wcomp/wcomp/internal/geometry"
	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/grab"
	"github.com/wcomp/wcomp/internal/protowire"
	"github.com/wcomp/wcomp/internal/renderer"
	"github.com/wcomp/wcomp/internal/wire"
)

type fakeSurfaceRenderer struct {
	created  map[uint64]renderer.BufferSource
	moved    map[uint64]renderer.Pos3
	removed  map[uint64]bool
	resized  map[uint64]geom.Size
	sourced  map[uint64]renderer.BufferSource
	uploaded map[uint64][]byte
}

func newFakeSurfaceRenderer() *fakeSurfaceRenderer {
	return &fakeSurfaceRenderer{
		created:  make(map[uint64]renderer.BufferSource),
		moved:    make(map[uint64]renderer.Pos3),
		removed:  make(map[uint64]bool),
		resized:  make(map[uint64]geom.Size),
		sourced:  make(map[uint64]renderer.BufferSource),
		uploaded: make(map[uint64][]byte),
	}
}

func (f *fakeSurfaceRenderer) Create(id uint64, label string, source renderer.BufferSource, pos renderer.Pos3, size geom.Size) {
	f.created[id] = source
}
func (f *fakeSurfaceRenderer) UpdateData(id uint64, data []byte) { f.uploaded[id] = data }
func (f *fakeSurfaceRenderer) UpdateSource(id uint64, source renderer.BufferSource) {
	f.sourced[id] = source
}
func (f *fakeSurfaceRenderer) Move(id uint64, pos renderer.Pos3) { f.moved[id] = pos }
func (f *fakeSurfaceRenderer) Resize(id uint64, size geom.Size)  { f.resized[id] = size }
func (f *fakeSurfaceRenderer) Remove(id uint64)                  { f.removed[id] = true }

type fakeSerializer struct {
	configures []uint64
	frames     []uint64
}

func (f *fakeSerializer) SendConfigure(surfaceID uint64, serial uint32, size [2]uint32) {
	f.configures = append(f.configures, surfaceID)
}
func (f *fakeSerializer) SendFrameDone(surfaceID uint64, timestampMS uint32) {
	f.frames = append(f.frames, surfaceID)
}

type fakeBackend struct {
	requests chan wire.Request
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{requests: make(chan wire.Request, 8)}
}

func (f *fakeBackend) Run(ctx context.Context) (<-chan wire.Request, error) {
	return f.requests, nil
}
func (f *fakeBackend) Close() error { close(f.requests); return nil }

func TestDispatchMovesRenderSurfaceOnSurfaceMove(t *testing.T) {
	geo := geometry.New()
	render := newFakeSurfaceRenderer()
	p := New(geo, render, nil, nil, 60)

	geo.Apply(wire.SurfaceAdd{ID: 10, Kind: wire.ToplevelSpec{}, Position: geom.Point{X: 0, Y: 0}})
	p.applyEffects(geo.Apply(wire.SurfaceAdd{ID: 11, Kind: wire.ToplevelSpec{}, Position: geom.Point{X: 0, Y: 0}}))

	p.Dispatch(wire.SurfaceMove{ID: 11, Position: geom.Point{X: 50, Y: 60}})

	pos, ok := render.moved[11]
	if !ok {
		t.Fatalf("expected a render Move call for surface 11")
	}
	if pos.X != 50 || pos.Y != 60 {
		t.Fatalf("unexpected render position %+v", pos)
	}
}

func TestDispatchThreadsActiveGrabMotion(t *testing.T) {
	geo := geometry.New()
	render := newFakeSurfaceRenderer()
	p := New(geo, render, nil, nil, 60)

	p.applyEffects(geo.Apply(wire.SurfaceAdd{ID: 10, Kind: wire.ToplevelSpec{}, Position: geom.Point{X: 100, Y: 100}}))
	p.applyEffects(geo.Apply(wire.SeatAddedReq{ID: 1, Name: "seat0"}))
	p.applyEffects(geo.Apply(wire.CursorAdded{ID: 1, Position: geom.Point{X: 110, Y: 110}}))

	g := grab.NewMove(grab.StartData{
		Button:       1,
		Location:     geom.Point{X: 110, Y: 110},
		FocusSurface: 10,
		FocusOrigin:  geom.Point{X: 100, Y: 100},
	})
	p.StartGrab(1, g, nil)

	p.Dispatch(wire.CursorMoved{ID: 1, Position: geom.Point{X: 210, Y: 210}})

	pos, ok := render.moved[10]
	if !ok {
		t.Fatalf("expected the grab's Motion to drive a Surface.Move through the pipeline")
	}
	if pos.X != 200 || pos.Y != 200 {
		t.Fatalf("unexpected position %+v", pos)
	}
}

func TestDispatchEndsGrabOnButtonRelease(t *testing.T) {
	geo := geometry.New()
	p := New(geo, nil, nil, nil, 60)

	p.applyEffects(geo.Apply(wire.SeatAddedReq{ID: 1, Name: "seat0"}))
	p.applyEffects(geo.Apply(wire.CursorAdded{ID: 1}))

	g := grab.NewMove(grab.StartData{Button: 1, FocusSurface: 10})
	p.StartGrab(1, g, nil)

	p.Dispatch(wire.CursorButton{ID: 1, Code: 1, State: wire.KeyReleased})

	if _, stillActive := p.grabs[1]; stillActive {
		t.Fatalf("expected the grab to end on matching button release")
	}
}

func TestTickSendsFrameDoneToEverySurface(t *testing.T) {
	geo := geometry.New()
	proto := &fakeSerializer{}
	p := New(geo, nil, nil, proto, 60)

	p.applyEffects(geo.Apply(wire.SurfaceAdd{ID: 10, Kind: wire.ToplevelSpec{}, Position: geom.Point{}}))
	p.tick(16)

	if len(proto.frames) != 1 || proto.frames[0] != 10 {
		t.Fatalf("expected one frame-done callback for surface 10, got %+v", proto.frames)
	}
}

func TestTranslateNewToplevelPicksOptimalPositionAndConfigures(t *testing.T) {
	geo := geometry.New()
	proto := &fakeSerializer{}
	p := New(geo, nil, nil, proto, 60)

	p.applyEffects(geo.Apply(wire.OutputAdded{ID: 1, Size: geom.Size{W: 1000, H: 800}}))

	p.Translate(protowire.NewToplevel{ID: 20})

	s, ok := geo.Surfaces.Get(20)
	if !ok {
		t.Fatalf("expected NewToplevel to add surface 20")
	}
	wantSize := geom.Size{W: 1000, H: 800}.Half()
	wantPos := geo.Outputs.SurfaceOptimalPosition(wantSize)
	if s.Position != wantPos {
		t.Fatalf("expected optimal position %+v, got %+v", wantPos, s.Position)
	}
	if len(proto.configures) != 1 || proto.configures[0] != 20 {
		t.Fatalf("expected NewToplevel to immediately configure surface 20, got %+v", proto.configures)
	}
}

func TestTranslateCommitAppliesPendingAttachAndUploadsPixels(t *testing.T) {
	geo := geometry.New()
	render := newFakeSurfaceRenderer()
	p := New(geo, render, nil, nil, 60)

	p.applyEffects(geo.Apply(wire.SurfaceAdd{ID: 10, Kind: wire.ToplevelSpec{}, Position: geom.Point{X: 5, Y: 5}}))

	alloc := renderer.HostAllocation{
		Info: renderer.PixelLayout{Format: renderer.FormatARGB8888},
		Data: []byte{0x11, 0x22, 0x33, 0x44},
	}
	p.Translate(protowire.AttachPending{ID: 10, Handle: alloc, Size: geom.Size{W: 4, H: 1}})
	p.Translate(protowire.Commit{ID: 10})

	if _, ok := render.created[10]; !ok {
		t.Fatalf("expected Commit to drive a render Create call for surface 10")
	}
	data, ok := render.uploaded[10]
	if !ok {
		t.Fatalf("expected Commit to upload pixel data for surface 10")
	}
	if data[0] != 0x33 || data[2] != 0x11 {
		t.Fatalf("expected ARGB8888 bytes swizzled to RGBA before upload, got %+v", data)
	}
	if _, stillPending := p.pending[10]; stillPending {
		t.Fatalf("expected Commit to clear the pending attach")
	}
}

func TestTranslateCommitWithNoPendingAttachJustCommits(t *testing.T) {
	geo := geometry.New()
	p := New(geo, nil, nil, nil, 60)

	p.applyEffects(geo.Apply(wire.SurfaceAdd{ID: 10, Kind: wire.ToplevelSpec{}, Position: geom.Point{}}))

	envs := p.Translate(protowire.Commit{ID: 10})
	if len(envs) == 0 {
		t.Fatalf("expected Commit to still emit a Committed event even with nothing pending")
	}
}

func TestTranslateStartMoveInstallsGrabAndMotionDrivesSurfaceMove(t *testing.T) {
	geo := geometry.New()
	p := New(geo, nil, nil, nil, 60)

	p.applyEffects(geo.Apply(wire.SeatAddedReq{ID: 1, Name: "seat0"}))
	p.applyEffects(geo.Apply(wire.CursorAdded{ID: 1}))
	p.applyEffects(p.Dispatch(wire.CursorMoved{ID: 1, Position: geom.Point{X: 20, Y: 20}}))
	p.applyEffects(geo.Apply(wire.SurfaceAdd{ID: 10, Kind: wire.ToplevelSpec{}, Position: geom.Point{X: 10, Y: 10}}))

	p.Translate(protowire.StartMove{ID: 10, Seat: 1, Button: 1})

	if _, ok := p.grabs[1]; !ok {
		t.Fatalf("expected StartMove to install a grab for seat 1")
	}

	p.Dispatch(wire.CursorMoved{ID: 1, Position: geom.Point{X: 25, Y: 30}})

	s, _ := geo.Surfaces.Get(10)
	if s.Position != (geom.Point{X: 15, Y: 20}) {
		t.Fatalf("expected move grab to translate motion into Surface.Move, got %+v", s.Position)
	}
}

func TestTranslateStartResizeInstallsGrabAndEmitsResizeStart(t *testing.T) {
	geo := geometry.New()
	p := New(geo, nil, nil, nil, 60)

	p.applyEffects(geo.Apply(wire.SeatAddedReq{ID: 1, Name: "seat0"}))
	p.applyEffects(geo.Apply(wire.CursorAdded{ID: 1}))
	p.applyEffects(p.Dispatch(wire.CursorMoved{ID: 1, Position: geom.Point{X: 400, Y: 300}}))
	p.applyEffects(geo.Apply(wire.SurfaceAdd{ID: 10, Kind: wire.ToplevelSpec{}, Position: geom.Point{X: 100, Y: 100}}))
	p.applyEffects(geo.Apply(wire.AttachBuffer{ID: 10, InnerGeometry: geom.NewRect(100, 100, 400, 300), Size: geom.Size{W: 400, H: 300}}))

	envs := p.Translate(protowire.StartResize{ID: 10, Seat: 1, Serial: 7, Button: 1, Edge: wire.EdgeBottomRight})

	if len(envs) == 0 {
		t.Fatalf("expected StartResize to eagerly emit InteractiveResizeStart")
	}
	if g, ok := p.grabs[1]; !ok {
		t.Fatalf("expected StartResize to install a grab for seat 1")
	} else if g.Start().FocusSurface != 10 {
		t.Fatalf("expected grab start_data to target surface 10, got %+v", g.Start())
	}
}

func TestRunStopsWhenContextCanceled(t *testing.T) {
	geo := geometry.New()
	p := New(geo, nil, nil, nil, 60)
	backend := newFakeBackend()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := p.Run(ctx, backend, nil)
	if err != context.DeadlineExceeded {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}
