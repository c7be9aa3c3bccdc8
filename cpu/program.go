package cpu

import (
	"iter"
)

// Link is an operand byte patched with a label address once known.
type Link struct {
	Index int    // Index into Codes.
	Label string // Label to resolve.
}

// Statement is a line of source with its location and generated bytes.
type Statement struct {
	LineNo int
	Ip     int
	Words  []string
	Codes  []uint8
	Links  []Link
}

type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug finds the statement that generated the byte at ip.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, st := range prog.Statements {
		if ip >= st.Ip && ip < st.Ip+len(st.Codes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     ip - st.Ip,
			}
			break
		}
	}

	return
}

// Size returns the count of bytes in the program image.
func (prog *Program) Size() (size int) {
	for _, st := range prog.Statements {
		if end := st.Ip + len(st.Codes); end > size {
			size = end
		}
	}

	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (bins []uint8) {
	bins = make([]uint8, prog.Size())
	for ip, code := range prog.Codes() {
		bins[ip] = code
	}

	return
}

// Codes iterates over every byte of the program with its address.
func (prog *Program) Codes() iter.Seq2[int, uint8] {
	return func(yield func(ip int, code uint8) bool) {
		for _, st := range prog.Statements {
			for n, code := range st.Codes {
				if !yield(st.Ip+n, code) {
					return
				}
			}
		}
	}
}
