package cpu

const (
	SP_RESET = 0xf4 // Stack pointer after reset; the stack grows down.
)

// Push decrements the stack pointer, then stores value at it.
func (cpu *Cpu) Push(value uint8) (err error) {
	addr := cpu.Sp - 1
	err = cpu.Memory.Write(addr, value)
	if err != nil {
		return
	}

	cpu.Sp = addr
	return
}

// Pop loads the value at the stack pointer, then increments it.
func (cpu *Cpu) Pop() (value uint8, err error) {
	value, err = cpu.Memory.Read(cpu.Sp)
	if err != nil {
		return
	}

	cpu.Sp++
	return
}

// Peek returns the top of stack without moving the stack pointer.
func (cpu *Cpu) Peek() (value uint8, ok bool) {
	value, err := cpu.Memory.Read(cpu.Sp)
	ok = err == nil
	return
}

// Depth is the count of bytes pushed since reset.
func (cpu *Cpu) Depth() int {
	return SP_RESET - cpu.Sp
}
