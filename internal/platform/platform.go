// Package platform describes the platform backend as the core sees
// it (spec.md §6): the collaborator that owns the real displays,
// input devices and client connections, and feeds the Pipeline a
// stream of wire.Request values over a channel.
//
// Grounded on bnema/waymon's internal/wayland.WaylandClient shape
// (a Connect/Disconnect lifecycle plus tracked OutputInfo/SeatInfo
// maps keyed by protocol id) and its InputCapture interface
// (context-driven Start/Stop, callback registration) — re-expressed
// here as a channel-producing Backend rather than a callback
// registry, since internal/pipeline's event loop is select-driven.
package platform

import (
	"context"

	"github.com/wcomp/wcomp/internal/wire"
)

// Backend is the platform collaborator: it discovers outputs/seats,
// owns the protocol connection to real hardware or a host window
// system, and translates raw device/output events into wire.Requests.
type Backend interface {
	// Run connects the backend and streams Requests until ctx is
	// canceled or the backend disconnects; it closes the returned
	// channel on exit.
	Run(ctx context.Context) (<-chan wire.Request, error)

	// Close releases resources outside of ctx cancellation (e.g. when
	// the Pipeline is shutting down mid-tick).
	Close() error
}

// OutputInfo mirrors the fields the backend exposes per discovered
// output before the core has assigned it a wire.OutputID, grounded on
// bnema/waymon's OutputInfo (name/description/position/size/scale).
type OutputInfo struct {
	Name        string
	Description string
	Width       uint32
	Height      uint32
	Scale       float64
}

// SeatInfo mirrors the fields the backend exposes per discovered seat
// before the core has assigned it a wire.SeatID, grounded on
// bnema/waymon's SeatInfo capability flags.
type SeatInfo struct {
	Name        string
	HasPointer  bool
	HasKeyboard bool
}
