package protowire

import (
	"testing"

	"github.com/wcomp/wcomp/internal/renderer"
)

func TestToRGBA8888PassesThroughNativeFormat(t *testing.T) {
	pixels := []byte{10, 20, 30, 255}
	if err := ToRGBA8888(renderer.FormatRGBA8888, pixels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pixels[0] != 10 || pixels[2] != 30 {
		t.Fatalf("RGBA8888 buffer should not be touched, got %v", pixels)
	}
}

func TestToRGBA8888SwapsRedAndBlue(t *testing.T) {
	pixels := []byte{10, 20, 30, 255}
	if err := ToRGBA8888(renderer.FormatARGB8888, pixels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pixels[0] != 30 || pixels[2] != 10 {
		t.Fatalf("expected R/B channels swapped, got %v", pixels)
	}
}

func TestToRGBA8888RejectsUnknownFormat(t *testing.T) {
	err := ToRGBA8888(renderer.Format(99), []byte{0, 0, 0, 0})
	if err == nil {
		t.Fatalf("expected an error for an unsupported format")
	}
}
