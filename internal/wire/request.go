package wire

import (
	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/renderer"
)

// Request is anything the Pipeline feeds into the Geometry Manager.
// Concrete types implement one of OutputRequest, SeatRequest or
// SurfaceRequest, matching spec.md §6's subject partition.
type Request interface{ isRequest() }

type OutputRequest interface {
	Request
	isOutputRequest()
}

type SeatRequest interface {
	Request
	isSeatRequest()
}

type SurfaceRequest interface {
	Request
	isSurfaceRequest()
}

// --- Output ---

type OutputAdded struct {
	ID     OutputID
	Handle renderer.OutputSurface
	Size   geom.Size
}

type OutputRemoved struct{ ID OutputID }

type OutputResized struct {
	ID   OutputID
	Size geom.Size
}

// OutputMovedReq is carried for fidelity with spec.md §6's Output
// request list but is never driven by any Output Manager operation
// (§4.A only exposes add/remove/resize); the composer accepts and
// drops it (DESIGN.md, Open Question decisions, item 3).
type OutputMovedReq struct {
	OldID       OutputID
	NewPosition geom.Point
}

func (OutputAdded) isRequest()   {}
func (OutputRemoved) isRequest() {}
func (OutputResized) isRequest() {}
func (OutputMovedReq) isRequest() {}

func (OutputAdded) isOutputRequest()    {}
func (OutputRemoved) isOutputRequest()  {}
func (OutputResized) isOutputRequest()  {}
func (OutputMovedReq) isOutputRequest() {}

// --- Seat ---

type SeatAddedReq struct {
	ID   SeatID
	Name string
}
type SeatRemovedReq struct{ ID SeatID }

type KeyboardAdded struct {
	ID           SeatID
	Rate, Delay int32
}
type KeyboardRemoved struct{ ID SeatID }
type KeyboardKey struct {
	ID    SeatID
	Time  uint32
	Code  uint32
	Key   uint32
	State KeyState
}
type KeyboardFocusReq struct {
	ID      SeatID
	Surface *SurfaceID
}

type CursorAdded struct {
	ID       SeatID
	Position geom.Point
	Image    *ImageID
}
type CursorRemoved struct{ ID SeatID }
type CursorMoved struct {
	ID       SeatID
	Position geom.Point
}
type CursorButton struct {
	ID    SeatID
	Time  uint32
	Code  uint32
	Key   uint32
	State KeyState
}
type CursorAxis struct {
	ID        SeatID
	Time      uint32
	Source    AxisSource
	Direction AxisDirection
	Value     float64
}
type CursorFocusReq struct {
	ID      SeatID
	Surface *SurfaceID
}
type CursorEntered struct {
	ID       SeatID
	OutputID OutputID
}
type CursorLeft struct {
	ID       SeatID
	OutputID OutputID
}

func (SeatAddedReq) isRequest()     {}
func (SeatRemovedReq) isRequest()   {}
func (KeyboardAdded) isRequest()    {}
func (KeyboardRemoved) isRequest()  {}
func (KeyboardKey) isRequest()      {}
func (KeyboardFocusReq) isRequest() {}
func (CursorAdded) isRequest()      {}
func (CursorRemoved) isRequest()    {}
func (CursorMoved) isRequest()      {}
func (CursorButton) isRequest()     {}
func (CursorAxis) isRequest()       {}
func (CursorFocusReq) isRequest()   {}
func (CursorEntered) isRequest()    {}
func (CursorLeft) isRequest()       {}

func (SeatAddedReq) isSeatRequest()     {}
func (SeatRemovedReq) isSeatRequest()   {}
func (KeyboardAdded) isSeatRequest()    {}
func (KeyboardRemoved) isSeatRequest()  {}
func (KeyboardKey) isSeatRequest()      {}
func (KeyboardFocusReq) isSeatRequest() {}
func (CursorAdded) isSeatRequest()      {}
func (CursorRemoved) isSeatRequest()    {}
func (CursorMoved) isSeatRequest()      {}
func (CursorButton) isSeatRequest()     {}
func (CursorAxis) isSeatRequest()       {}
func (CursorFocusReq) isSeatRequest()   {}
func (CursorEntered) isSeatRequest()    {}
func (CursorLeft) isSeatRequest()       {}

// --- Surface ---

// SurfaceKindSpec selects what kind of surface SurfaceAdd creates.
type SurfaceKindSpec interface{ isSurfaceKindSpec() }

type ToplevelSpec struct{}

func (ToplevelSpec) isSurfaceKindSpec() {}

// PopupSpec requests a popup attached as a front child of Parent.
// If Parent does not exist, the add is dropped silently (spec.md §4.C).
type PopupSpec struct {
	Parent SurfaceID
	State  PopupState
}

func (PopupSpec) isSurfaceKindSpec() {}

type SurfaceAdd struct {
	ID       SurfaceID
	Kind     SurfaceKindSpec
	Position geom.Point
}
type SurfaceRemove struct{ ID SurfaceID }
type SurfaceMove struct {
	ID       SurfaceID
	Position geom.Point
}
type SurfaceResize struct {
	ID   SurfaceID
	Size geom.Size
}
type InteractiveResizeStart struct {
	ID     SurfaceID
	Serial Serial
	Edge   Edge
}
type InteractiveResize struct {
	ID        SurfaceID
	Serial    Serial
	InnerSize geom.Size
}
type InteractiveResizeStop struct {
	ID     SurfaceID
	Serial Serial
}
type SurfaceConfiguration struct {
	ID SurfaceID
	// Serial, when Geometry is non-nil, is the configure serial the
	// client will be asked to ack (SurfaceConfigured.Serial). Callers
	// that only touch MinSize/MaxSize can leave it zero.
	Serial   Serial
	Geometry *geom.Rect
	MinSize  geom.Size
	MaxSize  geom.Size
}
type AttachBuffer struct {
	ID            SurfaceID
	Handle        renderer.BufferSource
	InnerGeometry geom.Rect
	Size          geom.Size
}
type DetachBuffer struct{ ID SurfaceID }
type MaximizeReq struct{ ID SurfaceID }
type UnmaximizeReq struct{ ID SurfaceID }
type CommitReq struct{ ID SurfaceID }

func (SurfaceAdd) isRequest()             {}
func (SurfaceRemove) isRequest()          {}
func (SurfaceMove) isRequest()            {}
func (SurfaceResize) isRequest()          {}
func (InteractiveResizeStart) isRequest() {}
func (InteractiveResize) isRequest()      {}
func (InteractiveResizeStop) isRequest()  {}
func (SurfaceConfiguration) isRequest()   {}
func (AttachBuffer) isRequest()           {}
func (DetachBuffer) isRequest()           {}
func (MaximizeReq) isRequest()            {}
func (UnmaximizeReq) isRequest()          {}
func (CommitReq) isRequest()              {}

func (SurfaceAdd) isSurfaceRequest()             {}
func (SurfaceRemove) isSurfaceRequest()          {}
func (SurfaceMove) isSurfaceRequest()            {}
func (SurfaceResize) isSurfaceRequest()          {}
func (InteractiveResizeStart) isSurfaceRequest() {}
func (InteractiveResize) isSurfaceRequest()      {}
func (InteractiveResizeStop) isSurfaceRequest()  {}
func (SurfaceConfiguration) isSurfaceRequest()   {}
func (AttachBuffer) isSurfaceRequest()           {}
func (DetachBuffer) isSurfaceRequest()           {}
func (MaximizeReq) isSurfaceRequest()            {}
func (UnmaximizeReq) isSurfaceRequest()          {}
func (CommitReq) isSurfaceRequest()              {}
