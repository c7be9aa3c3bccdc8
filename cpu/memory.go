package cpu

const (
	MEMORY_SIZE = 256 // Addressable bytes.
)

// Memory is the flat address space shared by program and stack.
type Memory [MEMORY_SIZE]uint8

// Read returns the byte at addr.
func (mem *Memory) Read(addr int) (value uint8, err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	value = mem[addr]
	return
}

// Write stores a byte at addr.
func (mem *Memory) Write(addr int, value uint8) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	mem[addr] = value
	return
}

// peek reads addr, yielding zero outside of memory.
func (mem *Memory) peek(addr int) (value uint8) {
	value, _ = mem.Read(addr)
	return
}

// Empty reports if every byte of memory is zero.
func (mem *Memory) Empty() bool {
	return *mem == Memory{}
}

// Reset zeroes all of memory.
func (mem *Memory) Reset() {
	clear(mem[:])
}
