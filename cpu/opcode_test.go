package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/io"
)

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op       Opcode
		mnemonic string
		args     int
	}){
		{OP_LDI, "LDI", 2},
		{OP_PRN, "PRN", 1},
		{OP_MUL, "MUL", 2},
		{OP_ADD, "ADD", 2},
		{OP_PUSH, "PUSH", 1},
		{OP_POP, "POP", 1},
		{OP_CALL, "CALL", 1},
		{OP_RET, "RET", 0},
		{OP_CMP, "CMP", 2},
		{OP_JMP, "JMP", 1},
		{OP_JEQ, "JEQ", 1},
		{OP_JNE, "JNE", 1},
		{OP_HLT, "HLT", 0},
	}

	for _, entry := range table {
		ins, ok := Lookup(entry.op)
		assert.True(ok, entry.mnemonic)
		assert.Equal(entry.mnemonic, ins.Mnemonic)
		assert.Equal(entry.args, ins.Args(), entry.mnemonic)
		assert.Equal(entry.args+1, ins.Width(), entry.mnemonic)
		assert.Equal(entry.mnemonic, entry.op.String())

		by_name, ok := LookupMnemonic(entry.mnemonic)
		assert.True(ok)
		assert.Same(ins, by_name)
	}

	assert.Len(Instructions(), len(table))

	_, ok := Lookup(Opcode(0))
	assert.False(ok)
	assert.Equal("0x00", Opcode(0).String())

	ins, ok := LookupMnemonic("ldi")
	assert.True(ok)
	assert.Equal(OP_LDI, ins.Opcode)

	_, ok = LookupMnemonic("NOP")
	assert.False(ok)
}

func TestNextApply(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(13, Advance(3).Apply(10))
	assert.Equal(10, Advance(0).Apply(10))
	assert.Equal(0x42, Jump(0x42).Apply(10))
	assert.Equal(Next{Kind: NEXT_JUMP, Value: 0xff}, Jump(0xff))
}

func TestHandlers(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Pc = 0x20
	cpu.Register[1] = 0x60
	cpu.Register[2] = 6
	cpu.Register[3] = 7

	next, err := execLdi(cpu, []uint8{4, 0x99})
	assert.NoError(err)
	assert.Equal(Advance(3), next)
	assert.Equal(uint8(0x99), cpu.Register[4])

	next, err = execMul(cpu, []uint8{2, 3})
	assert.NoError(err)
	assert.Equal(Advance(3), next)
	assert.Equal(uint8(42), cpu.Register[2])

	next, err = execAdd(cpu, []uint8{2, 3})
	assert.NoError(err)
	assert.Equal(Advance(3), next)
	assert.Equal(uint8(49), cpu.Register[2])

	next, err = execJmp(cpu, []uint8{1})
	assert.NoError(err)
	assert.Equal(Jump(0x60), next)
	assert.Equal(0x20, cpu.Pc)

	next, err = execCall(cpu, []uint8{1})
	assert.NoError(err)
	assert.Equal(Jump(0x60), next)
	assert.Equal(SP_RESET-1, cpu.Sp)
	assert.Equal(uint8(0x22), cpu.Memory[SP_RESET-1])

	next, err = execRet(cpu, nil)
	assert.NoError(err)
	assert.Equal(Jump(0x22), next)
	assert.Equal(SP_RESET, cpu.Sp)

	next, err = execHlt(cpu, nil)
	assert.NoError(err)
	assert.Equal(Advance(0), next)
	assert.True(cpu.Halted)
}

func TestHandlerBranch(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[0] = 0x30

	for _, flags := range []Flags{0, FLAG_EQUAL, FLAG_GREATER, FLAG_LESS} {
		cpu.Flags = flags

		next, err := execJeq(cpu, []uint8{0})
		assert.NoError(err)
		if flags == FLAG_EQUAL {
			assert.Equal(Jump(0x30), next, flags.String())
		} else {
			assert.Equal(Advance(2), next, flags.String())
		}

		next, err = execJne(cpu, []uint8{0})
		assert.NoError(err)
		if flags == FLAG_GREATER || flags == FLAG_LESS {
			assert.Equal(Jump(0x30), next, flags.String())
		} else {
			assert.Equal(Advance(2), next, flags.String())
		}
	}
}

func TestHandlerPrn(t *testing.T) {
	assert := assert.New(t)

	out := &io.Temporary{}
	cpu := NewCpu()
	cpu.Output = out
	cpu.Register[5] = 200

	next, err := execPrn(cpu, []uint8{5})
	assert.NoError(err)
	assert.Equal(Advance(2), next)
	assert.Equal([]uint8{200}, out.Values)
}
