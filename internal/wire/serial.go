package wire

import "sync/atomic"

// Serial is a monotonically increasing counter used to correlate
// requests with their acknowledgements, and to order emitted events.
type Serial uint32

// Counter hands out strictly increasing Serials. The zero value is
// ready to use; a process normally keeps exactly one.
type Counter struct {
	next atomic.Uint32
}

// Next returns the next serial, starting at 1 so the zero Serial can
// mean "none" in optional fields.
func (c *Counter) Next() Serial {
	return Serial(c.next.Add(1))
}
