package wire

// KeyState is the pressed/released state of a keyboard key or pointer
// button, matching the wl_keyboard.key_state / wl_pointer.button_state
// wire values.
type KeyState uint8

const (
	KeyReleased KeyState = iota
	KeyPressed
)

// AxisSource identifies the physical input generating a scroll axis
// event (wheel, finger, continuous, wheel tilt).
type AxisSource uint8

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
	AxisSourceWheelTilt
)

// AxisDirection selects the horizontal or vertical scroll axis.
type AxisDirection uint8

const (
	AxisVertical AxisDirection = iota
	AxisHorizontal
)
