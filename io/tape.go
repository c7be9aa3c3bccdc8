package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"strconv"
)

const (
	TAPE_BASE = 10 // Radix of printed values.
)

// Tape writes each printed value to an io.Writer as a decimal line.
type Tape struct {
	Output io.Writer

	Count int // Values printed since rewind.
}

var _ Sink = (*Tape)(nil)

// Defines returns an iter of defines for the channel.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"TAPE_BASE": fmt.Sprintf("%d", TAPE_BASE),
	})
}

// Rewind is not possible on a tape; only the count is reset.
func (tc *Tape) Rewind() {
	tc.Count = 0
}

// Print writes value followed by a newline.
func (tc *Tape) Print(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	line := strconv.AppendUint(nil, uint64(value), TAPE_BASE)
	line = append(line, '\n')

	_, err = tc.Output.Write(line)
	if err != nil {
		return
	}

	tc.Count++
	return
}
