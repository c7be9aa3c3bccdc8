package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.Equal(0, cpu.Depth())

	assert.NoError(cpu.Push(0x12))
	assert.Equal(1, cpu.Depth())
	assert.Equal(SP_RESET-1, cpu.Sp)
	assert.Equal(uint8(0x12), cpu.Memory[SP_RESET-1])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Push(0x12))
	assert.NoError(cpu.Push(0xab))

	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(uint8(0xab), val)
	assert.Equal(1, cpu.Depth())

	val, err = cpu.Pop()
	assert.NoError(err)
	assert.Equal(uint8(0x12), val)
	assert.Equal(0, cpu.Depth())
}

func TestStack_Pop_Top(t *testing.T) {
	assert := assert.New(t)

	// Popping above the reset point reads memory; only the end of memory faults.
	cpu := NewCpu()
	cpu.Memory[SP_RESET] = 0x77
	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(uint8(0x77), val)
	assert.Equal(-1, cpu.Depth())

	cpu.Sp = MEMORY_SIZE
	_, err = cpu.Pop()
	assert.ErrorIs(err, ErrAddressRange)
	assert.Equal(MEMORY_SIZE, cpu.Sp)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Push(0x12))
	assert.NoError(cpu.Push(0xab))

	val, ok := cpu.Peek()
	assert.True(ok)
	assert.Equal(uint8(0xab), val)
	assert.Equal(2, cpu.Depth())

	cpu.Sp = MEMORY_SIZE
	_, ok = cpu.Peek()
	assert.False(ok)
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	for n := range SP_RESET {
		assert.NoError(cpu.Push(uint8(n)))
	}
	assert.Equal(0, cpu.Sp)
	assert.ErrorIs(cpu.Push(0xff), ErrAddressRange)
	assert.Equal(SP_RESET, cpu.Depth())
}

func TestStack_Balanced(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	for n := range 16 {
		assert.NoError(cpu.Push(uint8(n)))
	}
	for n := range 16 {
		val, err := cpu.Pop()
		assert.NoError(err)
		assert.Equal(uint8(15-n), val)
	}
	assert.Equal(SP_RESET, cpu.Sp)
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	assert.NoError(mem.Write(0, 1))
	assert.NoError(mem.Write(MEMORY_SIZE-1, 2))
	assert.ErrorIs(mem.Write(MEMORY_SIZE, 3), ErrAddressRange)
	assert.ErrorIs(mem.Write(-1, 3), ErrAddressRange)

	val, err := mem.Read(MEMORY_SIZE - 1)
	assert.NoError(err)
	assert.Equal(uint8(2), val)

	_, err = mem.Read(MEMORY_SIZE)
	assert.ErrorIs(err, ErrAddressRange)
	assert.Equal("address 0x100 out of range", err.Error())

	assert.False(mem.Empty())
	mem.Reset()
	assert.True(mem.Empty())
	assert.Equal(uint8(0), mem[0])
	assert.Equal(uint8(0), mem[MEMORY_SIZE-1])
}
