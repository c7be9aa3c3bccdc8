package cpu

import (
	"fmt"
	"strings"
)

// Disassemble renders the instruction at ip, and returns its width.
// Unknown opcodes render as a one byte .db, matching how the CPU skips them.
func Disassemble(mem []uint8, ip int) (text string, width int) {
	if ip < 0 || ip >= len(mem) {
		return "", 0
	}

	op := Opcode(mem[ip])
	ins, ok := Lookup(op)
	if !ok {
		return fmt.Sprintf(".db 0x%02x", uint8(op)), 1
	}

	args := make([]string, len(ins.Operands))
	for n, kind := range ins.Operands {
		addr := ip + 1 + n
		if addr >= len(mem) {
			args[n] = "?"
			continue
		}
		switch kind {
		case OPERAND_REG:
			args[n] = fmt.Sprintf("R%d", mem[addr])
		case OPERAND_IMM:
			args[n] = fmt.Sprintf("%d", mem[addr])
		}
	}

	text = ins.Mnemonic
	if len(args) > 0 {
		text += " " + strings.Join(args, ",")
	}

	return text, ins.Width()
}
