// Package cpu implements the LS-8 microprocessor and its assembler.
//
// The CPU consists of a program counter (PC), eight 8-bit general-purpose
// registers (r0-r7), a flags register, an ALU, and a stack pointer into
// a flat 256 byte memory that holds both program and stack. Instructions
// are decoded through a static dispatch table mapping opcode bytes to
// handlers; each handler reports how the PC moves next.
//
// The package also reads and writes the line-oriented binary image format,
// and provides a small assembler for LS-8 mnemonics with labels, equates,
// and compile-time expression evaluation.
package cpu
