package cpu

import (
	"errors"
	"fmt"
	"strings"
)

// Opcode is an instruction byte.
type Opcode uint8

const (
	OP_HLT  = Opcode(0b00000001) // Halt the CPU.
	OP_RET  = Opcode(0b00010001) // Return from subroutine.
	OP_PUSH = Opcode(0b01000101) // Push register.
	OP_POP  = Opcode(0b01000110) // Pop register.
	OP_PRN  = Opcode(0b01000111) // Print register.
	OP_CALL = Opcode(0b01010000) // Call subroutine at register.
	OP_JMP  = Opcode(0b01010100) // Jump to register.
	OP_JEQ  = Opcode(0b01010101) // Jump to register if equal.
	OP_JNE  = Opcode(0b01010110) // Jump to register if not equal.
	OP_LDI  = Opcode(0b10000010) // Load immediate.
	OP_ADD  = Opcode(0b10100000) // Add registers.
	OP_MUL  = Opcode(0b10100010) // Multiply registers.
	OP_CMP  = Opcode(0b10100111) // Compare registers.
)

// String returns the mnemonic of the opcode, or a hex literal if unknown.
func (op Opcode) String() string {
	ins, ok := Lookup(op)
	if !ok {
		return fmt.Sprintf("0x%02x", uint8(op))
	}

	return ins.Mnemonic
}

// Operand is the kind of an operand byte.
type Operand int

const (
	OPERAND_REG = Operand(0) // Register index.
	OPERAND_IMM = Operand(1) // Immediate byte.
)

// NextKind selects how the program counter moves after an instruction.
type NextKind int

const (
	NEXT_ADVANCE = NextKind(0) // Advance by a fixed width.
	NEXT_JUMP    = NextKind(1) // Jump to an absolute address.
)

// Next is the program counter update requested by a handler.
type Next struct {
	Kind  NextKind
	Value int
}

// Advance moves the program counter forward by width bytes.
func Advance(width int) Next {
	return Next{Kind: NEXT_ADVANCE, Value: width}
}

// Jump moves the program counter to addr.
func Jump(addr uint8) Next {
	return Next{Kind: NEXT_JUMP, Value: int(addr)}
}

// Apply returns the program counter following pc.
func (next Next) Apply(pc int) int {
	if next.Kind == NEXT_JUMP {
		return next.Value
	}

	return pc + next.Value
}

// Handler executes a decoded instruction against the CPU.
type Handler func(cpu *Cpu, args []uint8) (next Next, err error)

// Instruction is a dispatch table entry.
type Instruction struct {
	Opcode   Opcode
	Mnemonic string
	Operands []Operand
	Exec     Handler
}

// Args is the count of operand bytes following the opcode.
func (ins *Instruction) Args() int {
	return len(ins.Operands)
}

// Width is the encoded size of the instruction in bytes.
func (ins *Instruction) Width() int {
	return 1 + ins.Args()
}

var instructions = []Instruction{
	{OP_LDI, "LDI", []Operand{OPERAND_REG, OPERAND_IMM}, execLdi},
	{OP_PRN, "PRN", []Operand{OPERAND_REG}, execPrn},
	{OP_MUL, "MUL", []Operand{OPERAND_REG, OPERAND_REG}, execMul},
	{OP_ADD, "ADD", []Operand{OPERAND_REG, OPERAND_REG}, execAdd},
	{OP_PUSH, "PUSH", []Operand{OPERAND_REG}, execPush},
	{OP_POP, "POP", []Operand{OPERAND_REG}, execPop},
	{OP_CALL, "CALL", []Operand{OPERAND_REG}, execCall},
	{OP_RET, "RET", nil, execRet},
	{OP_CMP, "CMP", []Operand{OPERAND_REG, OPERAND_REG}, execCmp},
	{OP_JMP, "JMP", []Operand{OPERAND_REG}, execJmp},
	{OP_JEQ, "JEQ", []Operand{OPERAND_REG}, execJeq},
	{OP_JNE, "JNE", []Operand{OPERAND_REG}, execJne},
	{OP_HLT, "HLT", nil, execHlt},
}

var (
	instructionTable [256]*Instruction
	mnemonicTable    = map[string]*Instruction{}
)

func init() {
	for n := range instructions {
		ins := &instructions[n]
		instructionTable[ins.Opcode] = ins
		mnemonicTable[ins.Mnemonic] = ins
	}
}

// Lookup returns the dispatch entry for an opcode.
func Lookup(op Opcode) (ins *Instruction, ok bool) {
	ins = instructionTable[op]
	ok = ins != nil
	return
}

// LookupMnemonic returns the dispatch entry for a mnemonic, ignoring case.
func LookupMnemonic(name string) (ins *Instruction, ok bool) {
	ins, ok = mnemonicTable[strings.ToUpper(name)]
	return
}

// Instructions returns all supported instructions, in table order.
func Instructions() []*Instruction {
	list := make([]*Instruction, len(instructions))
	for n := range instructions {
		list[n] = &instructions[n]
	}
	return list
}

func execLdi(cpu *Cpu, args []uint8) (next Next, err error) {
	reg, err := cpu.reg(args[0])
	if err != nil {
		return
	}

	*reg = args[1]
	next = Advance(3)
	return
}

func execPrn(cpu *Cpu, args []uint8) (next Next, err error) {
	reg, err := cpu.reg(args[0])
	if err != nil {
		return
	}

	if cpu.Output != nil {
		err = cpu.Output.Print(*reg)
		if err != nil {
			err = errors.Join(ErrOpcodeSink, err)
			return
		}
	}

	next = Advance(2)
	return
}

func execAdd(cpu *Cpu, args []uint8) (next Next, err error) {
	err = cpu.Alu(ALU_OP_ADD, args[0], args[1])
	next = Advance(3)
	return
}

func execMul(cpu *Cpu, args []uint8) (next Next, err error) {
	err = cpu.Alu(ALU_OP_MUL, args[0], args[1])
	next = Advance(3)
	return
}

func execCmp(cpu *Cpu, args []uint8) (next Next, err error) {
	err = cpu.Alu(ALU_OP_CMP, args[0], args[1])
	next = Advance(3)
	return
}

func execPush(cpu *Cpu, args []uint8) (next Next, err error) {
	reg, err := cpu.reg(args[0])
	if err != nil {
		return
	}

	err = cpu.Push(*reg)
	next = Advance(2)
	return
}

func execPop(cpu *Cpu, args []uint8) (next Next, err error) {
	reg, err := cpu.reg(args[0])
	if err != nil {
		return
	}

	value, err := cpu.Pop()
	if err != nil {
		return
	}

	*reg = value
	next = Advance(2)
	return
}

// execCall pushes the address past the two byte CALL, then jumps.
func execCall(cpu *Cpu, args []uint8) (next Next, err error) {
	reg, err := cpu.reg(args[0])
	if err != nil {
		return
	}
	target := *reg

	ret := cpu.Pc + 2
	if ret >= MEMORY_SIZE {
		err = ErrAddress(ret)
		return
	}

	err = cpu.Push(uint8(ret))
	if err != nil {
		return
	}

	next = Jump(target)
	return
}

func execRet(cpu *Cpu, args []uint8) (next Next, err error) {
	addr, err := cpu.Pop()
	if err != nil {
		return
	}

	next = Jump(addr)
	return
}

func execJmp(cpu *Cpu, args []uint8) (next Next, err error) {
	reg, err := cpu.reg(args[0])
	if err != nil {
		return
	}

	next = Jump(*reg)
	return
}

func execJeq(cpu *Cpu, args []uint8) (next Next, err error) {
	return cpu.branch(args[0], cpu.Flags.Equal())
}

func execJne(cpu *Cpu, args []uint8) (next Next, err error) {
	return cpu.branch(args[0], cpu.Flags.Less() || cpu.Flags.Greater())
}

func execHlt(cpu *Cpu, args []uint8) (next Next, err error) {
	cpu.Halted = true
	next = Advance(0)
	return
}

// branch jumps to the address in register index when taken.
func (cpu *Cpu) branch(index uint8, taken bool) (next Next, err error) {
	reg, err := cpu.reg(index)
	if err != nil {
		return
	}

	if taken {
		next = Jump(*reg)
	} else {
		next = Advance(2)
	}
	return
}
