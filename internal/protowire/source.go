package protowire

import (
	"context"

	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/renderer"
	"github.com/wcomp/wcomp/internal/wire"
)

// ProtocolSource is the inbound boundary a Wayland protocol
// implementation feeds client requests through — the Gather stage's
// second source (spec.md §4.E "(b) protocol requests"), distinct from
// Serializer's outbound SendConfigure/SendFrameDone calls. Symmetric
// to platform.Backend's channel-producing shape.
type ProtocolSource interface {
	Run(ctx context.Context) (<-chan ClientRequest, error)
	Close() error
}

// ClientRequest is a raw protocol-level request, before the Pipeline's
// Translate stage maps it onto the internal wire.Request enum
// (spec.md §4.E step 2).
type ClientRequest interface{ isClientRequest() }

// NewToplevel is a client's xdg_toplevel creation request. Position
// is not yet known — the Translate stage derives it from
// OutputManager.SurfaceOptimalPosition(SurfaceOptimalSize()).
type NewToplevel struct {
	ID wire.SurfaceID
}

// NewPopup is a client's xdg_popup creation request.
type NewPopup struct {
	ID     wire.SurfaceID
	Parent wire.SurfaceID
	State  wire.PopupState
}

// AttachPending records a client's wl_surface.attach, buffered until
// the matching Commit per Wayland's double-buffered state model.
// Geometry is the client's declared SurfaceCachedState.geometry, if
// any; nil means the Translate stage falls back to
// (surface.position, buffer_size).
type AttachPending struct {
	ID       wire.SurfaceID
	Handle   renderer.BufferSource
	Size     geom.Size
	Geometry *geom.Rect
}

// DetachPending records a client's wl_surface.attach(nil), also held
// until Commit.
type DetachPending struct{ ID wire.SurfaceID }

// Commit is a client's wl_surface.commit: apply whatever attach/detach
// is pending for ID.
type Commit struct{ ID wire.SurfaceID }

// StartMove is a client's xdg_toplevel.move request: Serial must match
// the button-press event the client is citing as justification, per
// the Wayland grab-serial convention (spec.md §4.F names this "the
// protocol's grab mechanism" without specifying its wire form).
type StartMove struct {
	ID     wire.SurfaceID
	Seat   wire.SeatID
	Serial wire.Serial
	Button uint32
}

// StartResize is a client's xdg_toplevel.resize request.
type StartResize struct {
	ID     wire.SurfaceID
	Seat   wire.SeatID
	Serial wire.Serial
	Button uint32
	Edge   wire.Edge
}

func (NewToplevel) isClientRequest()   {}
func (NewPopup) isClientRequest()      {}
func (AttachPending) isClientRequest() {}
func (DetachPending) isClientRequest() {}
func (Commit) isClientRequest()        {}
func (StartMove) isClientRequest()     {}
func (StartResize) isClientRequest()   {}
