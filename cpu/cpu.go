package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

const (
	REGISTER_COUNT = 8 // General purpose registers.
	REG_SP         = 7 // Register that mirrors the stack pointer at reset.
)

// Sink is the output device written by PRN.
type Sink io.Sink

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"SP_RESET":    fmt.Sprintf("0x%x", SP_RESET),
	"REG_SP":      fmt.Sprintf("%d", REG_SP),
}

func init() {
	for _, ins := range instructions {
		_cpu_defines["OP_"+ins.Mnemonic] = fmt.Sprintf("0x%02x", uint8(ins.Opcode))
	}
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Strict  bool // Set to fault on unknown opcodes instead of skipping them.

	Memory   Memory                // Program and stack memory.
	Register [REGISTER_COUNT]uint8 // Register bank.
	Flags    Flags                 // Condition flags set by CMP.
	Pc       int                   // Current program counter.
	Sp       int                   // Current stack pointer.

	Halted bool // Set once HLT executes.

	Output Sink // Destination of PRN; nil discards.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, registers and flags.
// - Sets the stack pointer, and R7, to SP_RESET.
// - Rewinds the output sink.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	clear(cpu.Register[:])
	cpu.Flags = 0
	cpu.Halted = false
	cpu.Ticks = 0
	cpu.restart()

	if cpu.Output != nil {
		cpu.Output.Rewind()
	}
}

// restart points pc at zero and the stack at the top of memory.
func (cpu *Cpu) restart() {
	cpu.Pc = 0
	cpu.Sp = SP_RESET
	cpu.Register[REG_SP] = SP_RESET
}

// Load copies a program image into memory at address zero.
func (cpu *Cpu) Load(image []uint8) (err error) {
	if len(image) > MEMORY_SIZE {
		err = ErrImageSize
		return
	}

	cpu.Reset()
	copy(cpu.Memory[:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// reg returns the register selected by an operand byte.
func (cpu *Cpu) reg(index uint8) (reg *uint8, err error) {
	if int(index) >= len(cpu.Register) {
		err = ErrRegister(index)
		return
	}

	reg = &cpu.Register[index]
	return
}

// Tick executes a single fetch-decode-execute cycle.
//
// Unknown opcodes are skipped as a one byte no-op, so the bytes after them
// are decoded as the next instruction. Set Strict to fault instead.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := cpu.Pc
	value, err := cpu.Memory.Read(pc)
	if err != nil {
		return
	}
	op := Opcode(value)

	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Ip: pc, Opcode: op}, err)
		}
	}()

	if cpu.Verbose {
		text, _ := Disassemble(cpu.Memory[:], pc)
		log.Printf("%02x: %v", pc, text)
	}

	ins, ok := Lookup(op)
	if !ok {
		if cpu.Strict {
			err = ErrOpcodeUnknown
			return
		}
		cpu.Pc = pc + 1
		cpu.Ticks++
		return
	}

	var args [2]uint8
	for n := range ins.Args() {
		args[n], err = cpu.Memory.Read(pc + 1 + n)
		if err != nil {
			return
		}
	}

	next, err := ins.Exec(cpu, args[:ins.Args()])
	if err != nil {
		return
	}

	cpu.Pc = next.Apply(pc)
	cpu.Ticks++

	return
}

// Run ticks the CPU until it halts or faults.
// A CPU whose memory is all zero holds no program, and halts immediately.
func (cpu *Cpu) Run() (err error) {
	if cpu.Memory.Empty() {
		cpu.Halted = true
		return
	}

	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"fl",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"sp",
		"stack",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
			if cpu.Halted {
				strval += " (halted)"
			}
		case "fl":
			strval = cpu.Flags.String()
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7":
			val := cpu.Register[byte(reg[1]-'0')]
			strval = fmt.Sprintf("%02X (%d)", val, val)
		case "sp":
			strval = fmt.Sprintf("%02X", cpu.Sp)
		case "stack":
			if cpu.Depth() > 0 {
				val, _ := cpu.Peek()
				strval = fmt.Sprintf("%02X", val)
			} else {
				strval = "--"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Trace returns a one line dump of the program counter, the bytes at it,
// and the register bank.
func (cpu *Cpu) Trace() (text string) {
	pc := cpu.Pc
	text = fmt.Sprintf("TRACE: %02X | %02X %02X %02X |", pc,
		cpu.Memory.peek(pc), cpu.Memory.peek(pc+1), cpu.Memory.peek(pc+2))

	for _, val := range cpu.Register {
		text += fmt.Sprintf(" %02X", val)
	}

	return
}
