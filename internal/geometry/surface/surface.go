// Package surface implements the Surface Manager (spec.md §4.C), the
// heart of the core: a front-to-back stack of toplevels, each carrying
// popup children, hit-testing, depth assignment, buffer attach/detach,
// the interactive resize state machine and popup positioning.
//
// Surfaces are kept in an arena keyed by id rather than owned by value
// inside their parent, per the Design Note in spec.md §9: every node
// only ever references its parent/children by id, which lets a
// popup-positioning pass touch a parent and a child in the same step
// without fighting Go's aliasing rules. Grounded on
// original_source/src/geometry_manager/surface_manager.rs for naming
// and the general shape of add/move/resize/depth bookkeeping; the
// depth-ordering and resize-anchor algorithms themselves follow
// spec.md §4.C exactly, since the Rust draft leaves both unimplemented
// (`unimplemented!()` for resize, a stub `update_surfaces_depth`).
package surface

import (
	"github.com/wcomp/wcomp/internal/geometry/geom"
	"github.com/wcomp/wcomp/internal/renderer"
	"github.com/wcomp/wcomp/internal/wire"
)

// DefaultBorderGrace is the hit-test inflate margin (spec.md §4.C).
const DefaultBorderGrace = 10

type kindData interface{ isKindData() }

type toplevelData struct {
	altered *wire.AlteredState
}

func (*toplevelData) isKindData() {}

type popupData struct {
	parent wire.SurfaceID
	state  wire.PopupState
}

func (*popupData) isKindData() {}

type node struct {
	id       wire.SurfaceID
	kind     wire.SurfaceKind
	buffer   *wire.Buffer
	position geom.Point
	depth    uint32
	minSize  geom.Size
	maxSize  geom.Size
	children []wire.SurfaceID
	data     kindData
}

func (n *node) outerRect() geom.Rect {
	size := geom.Size{}
	if n.buffer != nil {
		size = n.buffer.Size
	}
	return geom.Rect{Pos: n.position, Size: size}
}

// Manager owns every live surface.
type Manager struct {
	nodes       map[wire.SurfaceID]*node
	toplevels   []wire.SurfaceID // front (topmost) first
	active      *wire.SurfaceID
	borderGrace int32
}

func New() *Manager {
	return &Manager{
		nodes:       make(map[wire.SurfaceID]*node),
		borderGrace: DefaultBorderGrace,
	}
}

// SetBorderGrace overrides the hit-test inflate margin, wired from
// internal/config's --border-grace flag.
func (m *Manager) SetBorderGrace(grace int32) {
	m.borderGrace = grace
}

func removeID(ids []wire.SurfaceID, id wire.SurfaceID) []wire.SurfaceID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func prependID(ids []wire.SurfaceID, id wire.SurfaceID) []wire.SurfaceID {
	return append([]wire.SurfaceID{id}, ids...)
}

// SurfaceAt scans toplevels front-to-back and returns the first whose
// border-grace-inflated outer rect contains pos.
func (m *Manager) SurfaceAt(pos geom.Point) (wire.SurfaceID, bool) {
	for _, id := range m.toplevels {
		n := m.nodes[id]
		if n.outerRect().Inflate(m.borderGrace).Contains(pos) {
			return id, true
		}
	}
	return 0, false
}

// Add creates a toplevel or a popup attached to an existing parent.
// A popup whose parent does not exist is dropped silently.
func (m *Manager) Add(id wire.SurfaceID, kind wire.SurfaceKindSpec, position geom.Point) []wire.SurfaceEvent {
	switch k := kind.(type) {
	case wire.ToplevelSpec:
		n := &node{id: id, kind: wire.KindToplevel, position: position, data: &toplevelData{}}
		m.nodes[id] = n
		m.toplevels = prependID(m.toplevels, id)
		events := []wire.SurfaceEvent{wire.SurfaceAddedEv{ID: id, Kind: wire.KindToplevel, Position: position}}
		return append(events, m.reassignDepth()...)

	case wire.PopupSpec:
		parent, ok := m.nodes[k.Parent]
		if !ok {
			return nil
		}
		n := &node{id: id, kind: wire.KindPopup, position: position, data: &popupData{parent: k.Parent, state: k.State}}
		m.nodes[id] = n
		parent.children = prependID(parent.children, id)
		events := []wire.SurfaceEvent{wire.SurfaceAddedEv{ID: id, Kind: wire.KindPopup, Position: position}}
		events = append(events, m.repositionPopups(k.Parent)...)
		return append(events, m.reassignDepth()...)

	default:
		return nil
	}
}

// Remove deletes a surface and all its descendants. A no-op on
// unknown id.
func (m *Manager) Remove(id wire.SurfaceID) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}

	if n.kind == wire.KindPopup {
		pd := n.data.(*popupData)
		if parent, ok := m.nodes[pd.parent]; ok {
			parent.children = removeID(parent.children, id)
		}
	} else {
		m.toplevels = removeID(m.toplevels, id)
	}

	var events []wire.SurfaceEvent
	for _, child := range append([]wire.SurfaceID(nil), n.children...) {
		events = append(events, m.Remove(child)...)
	}

	if n.buffer != nil {
		events = append(events, wire.BufferDetached{ID: id})
	}
	events = append(events, wire.SurfaceRemovedEv{ID: id})

	if m.active != nil && *m.active == id {
		m.active = nil
		events = append(events, wire.SurfaceDeactivated{ID: id})
	}

	delete(m.nodes, id)
	return append(events, m.reassignDepth()...)
}

// Move repositions a surface and cascades the move to its popup
// children (popup positions are derived, spec.md §4.C).
func (m *Manager) Move(id wire.SurfaceID, position geom.Point) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	n.position = position
	events := []wire.SurfaceEvent{wire.SurfaceMovedEv{ID: id, Position: position}}
	return append(events, m.repositionPopups(id)...)
}

// Resize sets a surface's declared outer size directly (used by
// post-processing for e.g. maximize), emitting Resized.
func (m *Manager) Resize(id wire.SurfaceID, size geom.Size) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	if n.buffer != nil {
		n.buffer.Size = size
	}
	return []wire.SurfaceEvent{wire.SurfaceResizedEv{ID: id, Size: size}}
}

// AttachBuffer stores or replaces a surface's buffer. First attach
// records inner_geometry verbatim; a later attach keeps the existing
// inner_geometry unless a subsequent Configure changes it.
func (m *Manager) AttachBuffer(id wire.SurfaceID, handle renderer.BufferSource, size geom.Size, innerGeometry geom.Rect) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	if n.buffer == nil {
		n.buffer = &wire.Buffer{Handle: handle, Size: size, InnerGeometry: innerGeometry}
		events := []wire.SurfaceEvent{wire.BufferAttached{
			ID:            id,
			Handle:        handle,
			InnerGeometry: innerGeometry,
			Geometry:      n.outerRect(),
		}}
		return append(events, m.repositionPopups(id)...)
	}
	n.buffer.Handle = handle
	n.buffer.Size = size
	events := []wire.SurfaceEvent{wire.BufferReplaced{
		ID:            id,
		Handle:        handle,
		Size:          size,
		InnerGeometry: n.buffer.InnerGeometry,
		Geometry:      n.outerRect(),
	}}
	return append(events, m.repositionPopups(id)...)
}

// DetachBuffer clears a surface's buffer.
func (m *Manager) DetachBuffer(id wire.SurfaceID) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok || n.buffer == nil {
		return nil
	}
	n.buffer = nil
	return []wire.SurfaceEvent{wire.BufferDetached{ID: id}}
}

// Configure applies a client's acknowledged geometry/min/max sizes.
// If an interactive resize is active, the anchor-adjustment table
// (spec.md §4.C) keeps the edge opposite the dragged one fixed.
func (m *Manager) Configure(id wire.SurfaceID, serial wire.Serial, geometry *geom.Rect, minSize, maxSize geom.Size) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}

	var events []wire.SurfaceEvent

	if n.minSize != minSize {
		n.minSize = minSize
		events = append(events, wire.SurfaceMinSizeChanged{ID: id, Size: minSize})
	}
	if n.maxSize != maxSize {
		n.maxSize = maxSize
		events = append(events, wire.SurfaceMaxSizeChanged{ID: id, Size: maxSize})
	}

	if geometry == nil {
		return events
	}

	oldSize := geom.Size{}
	if n.buffer != nil {
		oldSize = n.buffer.Size
	}
	newSize := geometry.Size

	if tl, ok := n.data.(*toplevelData); ok && tl.altered != nil && tl.altered.Resizing != nil {
		n.position = anchorAdjust(n.position, oldSize, newSize, tl.altered.Resizing.Edge)
		events = append(events, wire.SurfaceMovedEv{ID: id, Position: n.position})
	}

	if n.buffer != nil {
		n.buffer.Size = newSize
		n.buffer.InnerGeometry = *geometry
	}
	if oldSize != newSize {
		events = append(events, wire.SurfaceResizedEv{ID: id, Size: newSize})
	}

	var altered *wire.AlteredState
	if tl, ok := n.data.(*toplevelData); ok {
		altered = tl.altered
	}
	events = append(events, wire.SurfaceConfigured{ID: id, Serial: serial, Size: newSize, Altered: altered})

	return append(events, m.repositionPopups(id)...)
}

// anchorAdjust implements the Configure anchor-adjustment table: the
// edge opposite the one dragged stays fixed in absolute space.
func anchorAdjust(pos geom.Point, oldSize, newSize geom.Size, edge wire.Edge) geom.Point {
	dw := int32(oldSize.W) - int32(newSize.W)
	dh := int32(oldSize.H) - int32(newSize.H)
	switch edge {
	case wire.EdgeLeft:
		pos.X += dw
	case wire.EdgeTop:
		pos.Y += dh
	case wire.EdgeTopLeft:
		pos.X += dw
		pos.Y += dh
	case wire.EdgeTopRight:
		pos.Y += dh
	case wire.EdgeBottomLeft:
		pos.X += dw
	}
	return pos
}

// InteractiveResizeStart begins a resize: refused while already
// resizing, moving, maximized or minimized.
func (m *Manager) InteractiveResizeStart(id wire.SurfaceID, serial wire.Serial, edge wire.Edge) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok || n.kind != wire.KindToplevel {
		return nil
	}
	tl := n.data.(*toplevelData)
	if tl.altered != nil && (tl.altered.Resizing != nil || tl.altered.Moving != nil || tl.altered.Maximized || tl.altered.Minimized) {
		return nil
	}
	if tl.altered == nil {
		tl.altered = &wire.AlteredState{Original: n.outerRect()}
	}
	tl.altered.Resizing = &wire.ResizingState{Serial: serial, Edge: edge}
	return []wire.SurfaceEvent{wire.InteractiveResizeStarted{ID: id, Serial: serial, Edge: edge}}
}

// InteractiveResizeStep asks the client to configure to a new inner
// size. Per Open Question (a): a stale serial is accepted only when no
// resize record is currently present; otherwise the serial must match.
func (m *Manager) InteractiveResizeStep(id wire.SurfaceID, serial wire.Serial, innerSize geom.Size) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok || n.kind != wire.KindToplevel {
		return nil
	}
	tl := n.data.(*toplevelData)
	if tl.altered != nil && tl.altered.Resizing != nil && tl.altered.Resizing.Serial != serial {
		return nil
	}
	return []wire.SurfaceEvent{wire.SurfaceConfigured{ID: id, Serial: serial, Size: innerSize, Altered: tl.altered}}
}

// InteractiveResizeStop ends a resize; matching serial only.
func (m *Manager) InteractiveResizeStop(id wire.SurfaceID, serial wire.Serial) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok || n.kind != wire.KindToplevel {
		return nil
	}
	tl := n.data.(*toplevelData)
	if tl.altered == nil || tl.altered.Resizing == nil || tl.altered.Resizing.Serial != serial {
		return nil
	}
	tl.altered.Resizing = nil
	tl.altered = wire.Normalize(tl.altered)
	return []wire.SurfaceEvent{wire.InteractiveResizeStopped{ID: id, Serial: serial}}
}

// Maximize records the maximized flag, snapshotting original geometry
// on first alteration. The Geometry Manager's post-processing performs
// the actual move+resize to the containing output.
func (m *Manager) Maximize(id wire.SurfaceID) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok || n.kind != wire.KindToplevel {
		return nil
	}
	tl := n.data.(*toplevelData)
	if tl.altered != nil && tl.altered.Maximized {
		return nil
	}
	if tl.altered == nil {
		tl.altered = &wire.AlteredState{Original: n.outerRect()}
	}
	tl.altered.Maximized = true
	return []wire.SurfaceEvent{wire.SurfaceMaximized{ID: id}}
}

// Unmaximize clears the maximized flag and, if that empties the
// altered-state record, restores the pre-maximize position.
func (m *Manager) Unmaximize(id wire.SurfaceID) []wire.SurfaceEvent {
	n, ok := m.nodes[id]
	if !ok || n.kind != wire.KindToplevel {
		return nil
	}
	tl := n.data.(*toplevelData)
	if tl.altered == nil || !tl.altered.Maximized {
		return nil
	}
	original := tl.altered.Original
	tl.altered.Maximized = false
	events := []wire.SurfaceEvent{wire.SurfaceUnmaximized{ID: id}}
	if wire.Normalize(tl.altered) == nil {
		tl.altered = nil
		n.position = original.Pos
		events = append(events, wire.SurfaceMovedEv{ID: id, Position: n.position})
	}
	return events
}

// Focus moves id to the front of the toplevel stack and reruns depth
// assignment, emitting Deactivated for the previous active surface (if
// any) and Activated for the new one. Focus(nil) only deactivates.
func (m *Manager) Focus(id *wire.SurfaceID) []wire.SurfaceEvent {
	var events []wire.SurfaceEvent

	if m.active != nil && (id == nil || *m.active != *id) {
		events = append(events, wire.SurfaceDeactivated{ID: *m.active})
	}

	if id == nil {
		m.active = nil
		return events
	}

	if _, ok := m.nodes[*id]; !ok {
		return nil
	}

	if m.active == nil || *m.active != *id {
		m.toplevels = prependID(removeID(m.toplevels, *id), *id)
		events = append(events, wire.SurfaceActivated{ID: *id})
	}
	active := *id
	m.active = &active

	return append(events, m.reassignDepth()...)
}

// repositionPopups recomputes popup placement for every direct child
// of id that is a popup, per the xdg-positioner-derived algorithm in
// spec.md §4.C, recursing into their own children.
func (m *Manager) repositionPopups(id wire.SurfaceID) []wire.SurfaceEvent {
	parent, ok := m.nodes[id]
	if !ok {
		return nil
	}
	var events []wire.SurfaceEvent
	for _, childID := range parent.children {
		child, ok := m.nodes[childID]
		if !ok || child.kind != wire.KindPopup {
			continue
		}
		pd := child.data.(*popupData)
		childSize := geom.Size{}
		if child.buffer != nil {
			childSize = child.buffer.Size
		}
		pos := popupPosition(parent, pd.state, childSize)
		if pos != child.position {
			child.position = pos
			events = append(events, wire.SurfaceMovedEv{ID: childID, Position: pos})
		}
		events = append(events, m.repositionPopups(childID)...)
	}
	return events
}

// popupPosition implements the xdg-positioner-style placement: anchor
// translated by the parent's origin and inner-geometry offset, an
// anchor point chosen by AnchorEdges, a gravity-derived popup origin,
// plus the configured offset. Flip/slide reconstraint is a non-goal.
func popupPosition(parent *node, state wire.PopupState, popupSize geom.Size) geom.Point {
	innerOrigin := parent.position
	if parent.buffer != nil {
		innerOrigin = parent.buffer.InnerGeometry.Pos
	}
	absAnchor := state.Anchor.Translate(innerOrigin)

	anchorPoint := anchorPointFor(absAnchor, state.AnchorEdges)
	origin := applyGravity(anchorPoint, popupSize, state.Gravity)
	return origin.AddVec(state.Offset)
}

func anchorPointFor(r geom.Rect, edge wire.Edge) geom.Point {
	max := r.Max()
	midX := r.Pos.X + (max.X-r.Pos.X)/2
	midY := r.Pos.Y + (max.Y-r.Pos.Y)/2
	switch edge {
	case wire.EdgeTop:
		return geom.Point{X: midX, Y: r.Pos.Y}
	case wire.EdgeBottom:
		return geom.Point{X: midX, Y: max.Y}
	case wire.EdgeLeft:
		return geom.Point{X: r.Pos.X, Y: midY}
	case wire.EdgeRight:
		return geom.Point{X: max.X, Y: midY}
	case wire.EdgeTopLeft:
		return geom.Point{X: r.Pos.X, Y: r.Pos.Y}
	case wire.EdgeTopRight:
		return geom.Point{X: max.X, Y: r.Pos.Y}
	case wire.EdgeBottomLeft:
		return geom.Point{X: r.Pos.X, Y: max.Y}
	case wire.EdgeBottomRight:
		return geom.Point{X: max.X, Y: max.Y}
	default: // EdgeNone: anchor center
		return geom.Point{X: midX, Y: midY}
	}
}

func applyGravity(anchor geom.Point, size geom.Size, gravity wire.Gravity) geom.Point {
	w, h := int32(size.W), int32(size.H)
	switch gravity {
	case wire.EdgeTop:
		return geom.Point{X: anchor.X - w/2, Y: anchor.Y - h}
	case wire.EdgeBottom:
		return geom.Point{X: anchor.X - w/2, Y: anchor.Y}
	case wire.EdgeLeft:
		return geom.Point{X: anchor.X - w, Y: anchor.Y - h/2}
	case wire.EdgeRight:
		return geom.Point{X: anchor.X, Y: anchor.Y - h/2}
	case wire.EdgeTopLeft:
		return geom.Point{X: anchor.X - w, Y: anchor.Y - h}
	case wire.EdgeTopRight:
		return geom.Point{X: anchor.X, Y: anchor.Y - h}
	case wire.EdgeBottomLeft:
		return geom.Point{X: anchor.X - w, Y: anchor.Y}
	case wire.EdgeBottomRight:
		return anchor
	default: // EdgeNone: subtract half the size on both axes
		return geom.Point{X: anchor.X - w/2, Y: anchor.Y - h/2}
	}
}

// reassignDepth walks toplevels from back to front so the topmost
// toplevel ends with the largest depth (spec.md §8 invariant 3), and
// within each toplevel's subtree assigns the parent before its
// children so children always come out strictly greater. Emits Moved
// for every surface whose depth actually changed.
func (m *Manager) reassignDepth() []wire.SurfaceEvent {
	var events []wire.SurfaceEvent
	var counter uint32

	var assign func(id wire.SurfaceID)
	assign = func(id wire.SurfaceID) {
		n := m.nodes[id]
		if n.depth != counter {
			n.depth = counter
			events = append(events, wire.SurfaceDepthChanged{ID: id, Depth: counter})
		}
		counter++
		for _, child := range n.children {
			assign(child)
		}
	}

	for i := len(m.toplevels) - 1; i >= 0; i-- {
		assign(m.toplevels[i])
	}
	return events
}

// Get returns a read-only snapshot of a surface's public state.
func (m *Manager) Get(id wire.SurfaceID) (wire.Surface, bool) {
	n, ok := m.nodes[id]
	if !ok {
		return wire.Surface{}, false
	}
	s := wire.Surface{
		ID:       n.id,
		Kind:     n.kind,
		Buffer:   n.buffer,
		Position: n.position,
		Depth:    n.depth,
		MinSize:  n.minSize,
		MaxSize:  n.maxSize,
		Children: append([]wire.SurfaceID(nil), n.children...),
	}
	switch d := n.data.(type) {
	case *toplevelData:
		s.Altered = d.altered
	case *popupData:
		s.Popup = &d.state
		s.Parent = d.parent
	}
	return s, true
}

// Active returns the currently focused toplevel, if any.
func (m *Manager) Active() (wire.SurfaceID, bool) {
	if m.active == nil {
		return 0, false
	}
	return *m.active, true
}
