package cpu

import (
	"errors"
)

// AluOp is an ALU operation type.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0) // add
	ALU_OP_MUL = AluOp(1) // mul
	ALU_OP_CMP = AluOp(2) // cmp
)

func (op AluOp) String() string {
	switch op {
	case ALU_OP_ADD:
		return "add"
	case ALU_OP_MUL:
		return "mul"
	case ALU_OP_CMP:
		return "cmp"
	}
	return f("alu(%d)", int(op))
}

// ErrAluOp is an ALU operation the CPU cannot perform.
type ErrAluOp AluOp

func (ea ErrAluOp) Error() string {
	return f("alu op %v", AluOp(ea))
}

// Alu applies op to registers reg_a and reg_b.
//
// ADD and MUL store into reg_a, wrapping modulo 256.
// CMP leaves the registers alone and sets exactly one flag.
func (cpu *Cpu) Alu(op AluOp, reg_a, reg_b uint8) (err error) {
	a, err := cpu.reg(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.reg(reg_b)
	if err != nil {
		return
	}

	switch op {
	case ALU_OP_ADD:
		*a += *b
	case ALU_OP_MUL:
		*a *= *b
	case ALU_OP_CMP:
		cpu.Flags = (cpu.Flags &^ FLAG_MASK) | compare(*a, *b)
	default:
		err = errors.Join(ErrAluUnsupported, ErrAluOp(op))
	}

	return
}
