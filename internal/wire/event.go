package wire

import (
	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/renderer"
)

// Event is anything the Geometry Manager hands back to the Pipeline for
// forwarding to the render task and/or the protocol serializer. Concrete
// types implement one of OutputEvent, SeatEvent or SurfaceEvent.
type Event interface{ isEvent() }

type OutputEvent interface {
	Event
	isOutputEvent()
}

type SeatEvent interface {
	Event
	isSeatEvent()
}

type SurfaceEvent interface {
	Event
	isSurfaceEvent()
}

// Envelope pairs an emitted Event with the Serial of the request that
// produced it, replacing the Rust source's generic GeometryEvent<C,S,O>
// enum — a single concrete wrapper is simpler in Go than threading three
// type parameters through every call site.
type Envelope struct {
	Serial Serial
	Event  Event
}

// --- Output ---

type OutputAddedEv struct {
	ID       OutputID
	Geometry geom.Rect
}
type OutputRemovedEv struct{ ID OutputID }
type OutputResizedEv struct {
	ID   OutputID
	Size geom.Size
}

// OutputMovedEv is emitted once for a newly added output's initial
// placement, and after a Remove or Resize for every output whose
// x-offset actually changed (scenario 6, spec.md §8). A Resize never
// moves the first output in left-to-right order.
type OutputMovedEv struct {
	ID       OutputID
	Position geom.Point
}

func (OutputAddedEv) isEvent()   {}
func (OutputRemovedEv) isEvent() {}
func (OutputResizedEv) isEvent() {}
func (OutputMovedEv) isEvent()   {}

func (OutputAddedEv) isOutputEvent()   {}
func (OutputRemovedEv) isOutputEvent() {}
func (OutputResizedEv) isOutputEvent() {}
func (OutputMovedEv) isOutputEvent()   {}

// --- Seat ---

type KeyboardFocusChanged struct {
	ID      SeatID
	Surface *SurfaceID
}
type KeyboardKeyEv struct {
	ID    SeatID
	Time  uint32
	Code  uint32
	Key   uint32
	State KeyState
}
type CursorMovedEv struct {
	ID       SeatID
	Position geom.Point
}
type CursorFocusChanged struct {
	ID      SeatID
	Surface *SurfaceID
}
type CursorImageChanged struct {
	ID    SeatID
	Image *ImageID
}
type CursorButtonEv struct {
	ID    SeatID
	Time  uint32
	Code  uint32
	Key   uint32
	State KeyState
}
type CursorAxisEv struct {
	ID        SeatID
	Time      uint32
	Source    AxisSource
	Direction AxisDirection
	Value     float64
}
type CursorEnteredEv struct {
	ID       SeatID
	OutputID OutputID
}
type CursorLeftEv struct {
	ID       SeatID
	OutputID OutputID
}

func (KeyboardFocusChanged) isEvent() {}
func (KeyboardKeyEv) isEvent()        {}
func (CursorMovedEv) isEvent()        {}
func (CursorFocusChanged) isEvent()   {}
func (CursorImageChanged) isEvent()   {}
func (CursorButtonEv) isEvent()       {}
func (CursorAxisEv) isEvent()         {}
func (CursorEnteredEv) isEvent()      {}
func (CursorLeftEv) isEvent()         {}

func (KeyboardFocusChanged) isSeatEvent() {}
func (KeyboardKeyEv) isSeatEvent()        {}
func (CursorMovedEv) isSeatEvent()        {}
func (CursorFocusChanged) isSeatEvent()   {}
func (CursorImageChanged) isSeatEvent()   {}
func (CursorButtonEv) isSeatEvent()       {}
func (CursorAxisEv) isSeatEvent()         {}
func (CursorEnteredEv) isSeatEvent()      {}
func (CursorLeftEv) isSeatEvent()         {}

// --- Surface ---

type SurfaceAddedEv struct {
	ID       SurfaceID
	Kind     SurfaceKind
	Position geom.Point
	Depth    uint32
}
type SurfaceRemovedEv struct{ ID SurfaceID }
type SurfaceMovedEv struct {
	ID       SurfaceID
	Position geom.Point
}
type SurfaceResizedEv struct {
	ID   SurfaceID
	Size geom.Size
}
type SurfaceConfigured struct {
	ID      SurfaceID
	Serial  Serial
	Size    geom.Size
	Altered *AlteredState
}
type BufferAttached struct {
	ID            SurfaceID
	Handle        renderer.BufferSource
	InnerGeometry geom.Rect
	Geometry      geom.Rect
}
type BufferDetached struct{ ID SurfaceID }
type BufferReplaced struct {
	ID            SurfaceID
	Handle        renderer.BufferSource
	Size          geom.Size
	InnerGeometry geom.Rect
	Geometry      geom.Rect
}
type SurfaceCommitted struct{ ID SurfaceID }
type SurfaceMaximized struct{ ID SurfaceID }
type SurfaceUnmaximized struct{ ID SurfaceID }
type SurfaceDepthChanged struct {
	ID    SurfaceID
	Depth uint32
}
type SurfaceActivated struct{ ID SurfaceID }
type SurfaceDeactivated struct{ ID SurfaceID }
type InteractiveResizeStarted struct {
	ID     SurfaceID
	Serial Serial
	Edge   Edge
}
type InteractiveResizeStopped struct {
	ID     SurfaceID
	Serial Serial
}
type SurfaceMinSizeChanged struct {
	ID   SurfaceID
	Size geom.Size
}
type SurfaceMaxSizeChanged struct {
	ID   SurfaceID
	Size geom.Size
}

func (SurfaceAddedEv) isEvent()           {}
func (SurfaceRemovedEv) isEvent()         {}
func (SurfaceMovedEv) isEvent()           {}
func (SurfaceResizedEv) isEvent()         {}
func (SurfaceConfigured) isEvent()        {}
func (BufferAttached) isEvent()           {}
func (BufferDetached) isEvent()           {}
func (BufferReplaced) isEvent()           {}
func (SurfaceCommitted) isEvent()         {}
func (SurfaceMaximized) isEvent()         {}
func (SurfaceUnmaximized) isEvent()       {}
func (SurfaceDepthChanged) isEvent()      {}
func (SurfaceActivated) isEvent()         {}
func (SurfaceDeactivated) isEvent()       {}
func (InteractiveResizeStarted) isEvent() {}
func (InteractiveResizeStopped) isEvent() {}
func (SurfaceMinSizeChanged) isEvent()    {}
func (SurfaceMaxSizeChanged) isEvent()    {}

func (SurfaceAddedEv) isSurfaceEvent()           {}
func (SurfaceRemovedEv) isSurfaceEvent()         {}
func (SurfaceMovedEv) isSurfaceEvent()           {}
func (SurfaceResizedEv) isSurfaceEvent()         {}
func (SurfaceConfigured) isSurfaceEvent()        {}
func (BufferAttached) isSurfaceEvent()           {}
func (BufferDetached) isSurfaceEvent()           {}
func (BufferReplaced) isSurfaceEvent()           {}
func (SurfaceCommitted) isSurfaceEvent()         {}
func (SurfaceMaximized) isSurfaceEvent()         {}
func (SurfaceUnmaximized) isSurfaceEvent()       {}
func (SurfaceDepthChanged) isSurfaceEvent()      {}
func (SurfaceActivated) isSurfaceEvent()         {}
func (SurfaceDeactivated) isSurfaceEvent()       {}
func (InteractiveResizeStarted) isSurfaceEvent() {}
func (InteractiveResizeStopped) isSurfaceEvent() {}
func (SurfaceMinSizeChanged) isSurfaceEvent()    {}
func (SurfaceMaxSizeChanged) isSurfaceEvent()    {}
