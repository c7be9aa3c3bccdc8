// Package io provides output sinks for the LS-8 emulator.
// The PRN instruction emits one register value per call to a Sink:
// Tape formats values as decimal lines on an io.Writer, and Temporary
// collects them in memory.
package io

// Sink defines the interface for all output devices in the LS-8 system.
type Sink interface {
	// Rewind resets the sink to its initial state.
	Rewind()
	// Print emits a single value.
	Print(value uint8) error
}
