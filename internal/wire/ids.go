// Package wire defines the Request/Event tagged unions that flow
// between the Pipeline and the Geometry Manager, plus the identifier
// and serial types shared by every geometry sub-manager.
package wire

// OutputID identifies an Output for the lifetime of its existence.
type OutputID uint64

// SeatID identifies a Seat.
type SeatID uint64

// SurfaceID identifies a Surface (toplevel or popup).
type SurfaceID uint64

// ImageID identifies a cursor image owned by the platform backend.
type ImageID uint64
