package cpu

// Flags is the condition register, laid out as 0b00000LGE.
type Flags uint8

const (
	FLAG_EQUAL   = Flags(1 << 0) // E: a == b
	FLAG_GREATER = Flags(1 << 1) // G: a > b
	FLAG_LESS    = Flags(1 << 2) // L: a < b
	FLAG_MASK    = FLAG_EQUAL | FLAG_GREATER | FLAG_LESS
)

func (fl Flags) Equal() bool {
	return fl&FLAG_EQUAL != 0
}

func (fl Flags) Greater() bool {
	return fl&FLAG_GREATER != 0
}

func (fl Flags) Less() bool {
	return fl&FLAG_LESS != 0
}

// String returns the flags as "LGE", with '-' for clear bits.
func (fl Flags) String() string {
	text := []byte("---")
	if fl.Less() {
		text[0] = 'L'
	}
	if fl.Greater() {
		text[1] = 'G'
	}
	if fl.Equal() {
		text[2] = 'E'
	}
	return string(text)
}

// compare returns the single flag describing a against b.
func compare(a, b uint8) Flags {
	switch {
	case a == b:
		return FLAG_EQUAL
	case a > b:
		return FLAG_GREATER
	default:
		return FLAG_LESS
	}
}
