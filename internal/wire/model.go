package wire

import (
	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/renderer"
)

// Output is a single display laid out by the Output Manager.
type Output struct {
	ID       OutputID
	Handle   renderer.OutputSurface
	Geometry geom.Rect
}

// Seat groups an optional keyboard and an optional pointer under one
// input-device identity.
type Seat struct {
	ID   SeatID
	Name string
}

// Keyboard is the keyboard half of a Seat.
type Keyboard struct {
	Focus *SurfaceID
	Rate  int32
	Delay int32
}

// Pointer is the pointer half of a Seat.
type Pointer struct {
	Position geom.Point
	Focus    *SurfaceID
	Image    *ImageID
	Output   *OutputID
}

// SurfaceKind distinguishes a toplevel window from a popup.
type SurfaceKind uint8

const (
	KindToplevel SurfaceKind = iota
	KindPopup
)

func (k SurfaceKind) String() string {
	if k == KindPopup {
		return "popup"
	}
	return "toplevel"
}

// Buffer is the client-attached pixel content of a surface. Size is
// the buffer's pixel size (the surface's outer size while attached);
// InnerGeometry is the client-declared content rect inside it.
type Buffer struct {
	Handle        renderer.BufferSource
	Size          geom.Size
	InnerGeometry geom.Rect
}

// ResizingState records an in-flight interactive resize on a toplevel.
type ResizingState struct {
	Serial Serial
	Edge   Edge
}

// AlteredState is present on a Toplevel exactly when at least one of
// its fields denotes an active alteration (spec invariant 6). Callers
// must run Normalize after mutating it.
type AlteredState struct {
	Original   geom.Rect
	Minimized  bool
	Maximized  bool
	Fullscreen bool
	Resizing   *ResizingState
	Moving     *Serial
}

// Empty reports whether no alteration is active, i.e. this record
// should collapse to a nil *AlteredState.
func (a *AlteredState) Empty() bool {
	if a == nil {
		return true
	}
	return !a.Minimized && !a.Maximized && !a.Fullscreen &&
		a.Resizing == nil && a.Moving == nil
}

// Normalize returns nil when a is empty, else a unchanged. Every
// SurfaceManager mutation of AlteredState must funnel through this so
// spec invariant 6 holds.
func Normalize(a *AlteredState) *AlteredState {
	if a.Empty() {
		return nil
	}
	return a
}

// PopupState carries xdg-positioner-style placement input for a popup.
type PopupState struct {
	Anchor               geom.Rect
	AnchorEdges          AnchorEdges
	Gravity              Gravity
	ConstraintAdjustment ConstraintAdjustment
	Offset               geom.Vec2
	Reactive             bool
}

// Surface is a read-only snapshot of one surface's public state, as
// returned by SurfaceManager accessors. The manager's internal arena
// representation is private to the surface package.
type Surface struct {
	ID       SurfaceID
	Kind     SurfaceKind
	Buffer   *Buffer
	Position geom.Point
	Depth    uint32
	MinSize  geom.Size
	MaxSize  geom.Size
	Children []SurfaceID

	// Altered is non-nil only for toplevels with an active alteration.
	Altered *AlteredState
	// Popup is non-nil only for popups.
	Popup *PopupState
	// Parent is the owning toplevel's id; valid only when Kind == KindPopup.
	Parent SurfaceID
}

// OuterRect returns the surface's outer geometry: position + buffer
// pixel size (or a zero-size rect if no buffer is attached).
func (s Surface) OuterRect() geom.Rect {
	size := geom.Size{}
	if s.Buffer != nil {
		size = s.Buffer.Size
	}
	return geom.Rect{Pos: s.Position, Size: size}
}
