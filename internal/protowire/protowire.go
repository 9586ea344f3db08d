// Package protowire describes the Wayland protocol serializer as the
// core sees it (spec.md §6): the collaborator that turns wl_surface/
// xdg_surface requests into wire.Request values and turns wire.Event
// values back into protocol events, plus the pixel-format conversion
// the serializer needs before handing a client's shared-memory buffer
// to the render task.
//
// Grounded on wayland.go/menu.go's own shm buffer path (createTmpfile,
// proto.ShmFormatAbgr8888, syscall.Mmap) for the buffer-handling shape,
// and on github.com/daaku/swizzle for the byte-order conversion itself
// — the teacher never imports swizzle (it only ever declares
// ShmFormatAbgr8888 buffers to the compositor, so it never needs to
// reorder channels), but this core accepts RGBA8888/ARGB8888/XRGB8888
// per spec.md §6 and must normalize the latter two to the renderer's
// RGBA8 byte order before upload.
package protowire

import (
	"fmt"

	"github.com/daaku/swizzle"

	"github.com/wcomp/wcomp/internal/renderer"
)

// Serializer is the set of calls the core issues on the protocol
// serializer collaborator: acknowledging a configure and reporting a
// frame callback are one-way, never awaited (spec.md §5).
type Serializer interface {
	SendConfigure(surfaceID uint64, serial uint32, size [2]uint32)
	SendFrameDone(surfaceID uint64, timestampMS uint32)
}

// ToRGBA8888 converts a shared-memory pixel buffer declared in fmt to
// the RGBA byte order the render task expects, in place. RGBA8888
// buffers pass through untouched; ARGB8888/XRGB8888 are byte-swizzled.
// An unsupported format is reported to the caller rather than
// panicking (spec.md §7); internal/pipeline logs it and drops the
// pixel upload, while the attach itself stays applied.
func ToRGBA8888(format renderer.Format, pixels []byte) error {
	switch format {
	case renderer.FormatRGBA8888:
		return nil
	case renderer.FormatARGB8888, renderer.FormatXRGB8888:
		swizzle.BGRA(pixels)
		return nil
	default:
		return fmt.Errorf("protowire: unsupported pixel format %s", format)
	}
}
