package emulator

import (
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

// ErrRuntime maps a CPU fault back to the program source.
type ErrRuntime struct {
	LineNo int   // Source line of the faulting statement, or 0 if unknown.
	Ip     int   // Address of the faulting instruction.
	Err    error // Underlying CPU error.
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("ip 0x%02x %v", err.Ip, err.Err)
	}

	return f("line %d (ip 0x%02x) %v", err.LineNo, err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
