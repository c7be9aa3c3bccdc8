package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted          = errors.New(f("cpu halted"))
	ErrAddressRange    = errors.New(f("address out of range"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrImageSize       = errors.New(f("image exceeds memory"))

	// Instruction decode errors
	ErrOpcodeUnknown  = errors.New(f("opcode unknown"))
	ErrAluUnsupported = errors.New(f("unsupported alu operation"))
	ErrOpcodeSink     = errors.New(f("output sink"))

	// Image and assembler errors
	ErrParseBinary        = errors.New(f("not an 8-bit binary literal"))
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
)

// ErrAddress is an access outside of memory.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%x out of range", int(ea))
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrAddressRange
}

// ErrRegister is a register operand outside of the register file.
type ErrRegister uint8

func (er ErrRegister) Error() string {
	return f("register %d invalid", uint8(er))
}

func (er ErrRegister) Is(err error) bool {
	return err == ErrRegisterInvalid
}

// ErrOpcode locates the instruction that failed.
type ErrOpcode struct {
	Ip     int
	Opcode Opcode
}

func (eo ErrOpcode) Error() string {
	return f("opcode 0x%02x %v at 0x%02x", uint8(eo.Opcode), eo.Opcode.String(), eo.Ip)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrLabelRange is a label placed past the end of memory.
type ErrLabelRange string

func (el ErrLabelRange) Error() string {
	return f("label %v past end of memory", string(el))
}

// ErrMacro locates an error inside a macro body.
type ErrMacro struct {
	Macro  string
	LineNo int
	Err    error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %d %v", err.Macro, err.LineNo, err.Err)
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
