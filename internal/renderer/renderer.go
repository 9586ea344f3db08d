// Package renderer describes the GPU render task as the core sees
// it: a set of one-way calls the core issues and never waits on. The
// actual compositing, buffer upload and output-framebuffer resizing
// happen on the render task's own executor (spec.md §1, §5); this
// package only pins down the interface shape, grounded on wcomp.rs's
// wgpu_engine/screen_task handles and this repo's render-surface
// method names (spec.md §6).
package renderer

import "github.com/wcomp/wcomp/internal/geometry/geom"

// OutputSurface is the opaque handle the platform backend hands the
// core for a given output; the core only ever passes it back to the
// render task, never inspects it.
type OutputSurface interface{}

// BufferSource is the opaque handle to a client buffer's backing
// storage, implemented by HostAllocation or Dmabuf.
type BufferSource interface{ isBufferSource() }

// HostAllocation is a shared-memory-backed buffer: Info carries the
// declared pixel format/stride and Data the mapped bytes.
type HostAllocation struct {
	Info PixelLayout
	Data []byte
}

func (HostAllocation) isBufferSource() {}

// Dmabuf is a GPU-importable buffer handed over by file descriptor.
type Dmabuf struct {
	FD          int
	Size        geom.Size
	Modifier    uint64
	PlaneOffset uint32
	PlaneStride uint32
}

func (Dmabuf) isBufferSource() {}

// PixelLayout describes the byte layout of a HostAllocation buffer.
type PixelLayout struct {
	Format Format
	Stride uint32
}

// Format enumerates the shared-memory pixel formats this core accepts
// from clients (spec.md §6); anything else is rejected when its pixels
// are uploaded (protowire.ToRGBA8888 returns an error).
type Format uint8

const (
	FormatRGBA8888 Format = iota
	FormatARGB8888
	FormatXRGB8888
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8888:
		return "RGBA8888"
	case FormatARGB8888:
		return "ARGB8888"
	case FormatXRGB8888:
		return "XRGB8888"
	default:
		return "unknown"
	}
}

// Pos3 is a 3D position: XY in screen space, Z the depth-derived
// stacking coordinate the render task uses to order overlapping quads.
type Pos3 struct {
	X, Y, Z int32
}

// Surface is the render task's per-client-surface control handle.
type Surface interface {
	Create(id uint64, label string, source BufferSource, pos Pos3, size geom.Size)
	UpdateData(id uint64, data []byte)
	UpdateSource(id uint64, source BufferSource)
	Move(id uint64, pos Pos3)
	Resize(id uint64, size geom.Size)
	Remove(id uint64)
}

// Outputs is the render task's per-output control handle.
type Outputs interface {
	CreateSurface(id uint64, handle OutputSurface, size geom.Size)
	ResizeSurface(id uint64, size geom.Size)
	DestroySurface(id uint64)
	MoveOutput(id uint64, pos geom.Point)
}
