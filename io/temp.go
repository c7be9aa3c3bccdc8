package io

import (
	"iter"
	"slices"
)

// Temporary collects printed values in memory, in order.
type Temporary struct {
	Capacity int // Capacity in values; zero is unbounded.

	Values []uint8
}

var _ Sink = (*Temporary)(nil)

// Rewind discards all collected values.
func (temp *Temporary) Rewind() {
	temp.Values = temp.Values[:0]
}

// Print appends value to the buffer.
// Returns ErrChannelFull if the buffer has reached capacity.
func (temp *Temporary) Print(value uint8) (err error) {
	if temp.Capacity > 0 && len(temp.Values) >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	temp.Values = append(temp.Values, value)
	return
}

// Receive returns an iterator over the collected values.
func (temp *Temporary) Receive() iter.Seq[uint8] {
	return slices.Values(temp.Values)
}
