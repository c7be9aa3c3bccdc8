// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	ASM_COMMENT = ";" // Starts a comment, to end of line.
	MACRO_DEPTH = 16  // Maximum depth of macros expanding macros.
)

// Macro is a named block of source lines, expanded at each use.
type Macro struct {
	LineNo int      // Line number of the first line of the body.
	Args   []string // Argument names, bound as equates during expansion.
	Lines  []string // Body lines.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for LS-8 mnemonics.
type Assembler struct {
	Verbose    bool        // If set, verbosely logs the assembler actions.
	Statements []Statement // List of generated statements.

	predefine  map[string]string // Predefines
	Label      map[string]int    // Map of labels to byte addresses.
	Equate     map[string]string // Map of equates.
	Macro      map[string]*Macro // Map of macros.
	expansions int               // Count of macro expansions, for '@' labels.
	depth      int               // Current macro expansion depth.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reRegister   = regexp.MustCompile(`^[Rr][0-9]+$`)
)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint8, err error) {
	invert := false
	if strings.HasPrefix(word, "~") {
		invert = true
		word = word[1:]
	}

	v64, err := strconv.ParseInt(word, 0, 16)
	if err != nil || v64 > 0xff || v64 < -0x80 {
		err = ErrParseNumber(word)
		return
	}

	value = uint8(v64)
	if invert {
		value = ^value
	}

	return
}

// register returns the index of a register name.
func (asm *Assembler) register(word string) (index uint8, err error) {
	if !reRegister.MatchString(word) {
		err = ErrParseValue(word)
		return
	}

	n, err := strconv.Atoi(word[1:])
	if err != nil || n >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	index = uint8(n)
	return
}

// immediate returns a value, or the name of a label to link later.
func (asm *Assembler) immediate(word string) (value uint8, label string, err error) {
	if reRegister.MatchString(word) {
		err = ErrParseValue(word)
		return
	}

	if reIdentifier.MatchString(word) {
		label = word
		return
	}

	value, err = asm.valueOf(word)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint8, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, _err := strconv.ParseInt(str, 0, 64)
		if _err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > 0xff || st_int64 < -0x80 {
		err = ErrParseExpression(expr)
		return
	}
	value = uint8(st_int64)
	return
}

// parseLine expands a single line into words, and records its labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	macro, ok := asm.Macro[words[0]]
	if ok {
		err = asm.expand(words[0], macro, words[1:])
		words = nil
		return
	}

	return
}

// expand assembles the body of a macro, with its arguments bound as equates.
// '@' in the body becomes a prefix unique to this expansion, for local labels.
func (asm *Assembler) expand(name string, macro *Macro, args []string) (err error) {
	if len(args) != len(macro.Args) {
		err = ErrMacroSyntax
		return
	}

	if asm.depth >= MACRO_DEPTH {
		err = ErrMacroNesting
		return
	}
	asm.depth++
	defer func() { asm.depth-- }()

	old_equate := maps.Clone(asm.Equate)
	defer func() { asm.Equate = old_equate }()
	for n, arg := range macro.Args {
		asm.Equate[arg] = args[n]
	}

	asm.expansions++
	local := fmt.Sprintf("%v_%v_", name, asm.expansions)

	for n, line := range macro.Lines {
		lineno := macro.LineNo + n

		line = strings.ReplaceAll(line, "@", local)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err == nil {
			err = asm.parseWords(words, lineno)
		}
		if err != nil {
			err = &ErrMacro{Macro: name, LineNo: lineno, Err: err}
			return
		}
	}

	return
}

// parseWords assembles one expanded line into a statement.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	st := Statement{
		LineNo: lineno,
		Ip:     asm.currentIp(),
		Words:  slices.Clone(words),
	}

	if words[0] == ".db" {
		if len(words) == 1 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value uint8
			var label string
			value, label, err = asm.immediate(word)
			if err != nil {
				return
			}
			if len(label) != 0 {
				st.Links = append(st.Links, Link{Index: len(st.Codes), Label: label})
			}
			st.Codes = append(st.Codes, value)
		}
	} else {
		ins, ok := LookupMnemonic(words[0])
		if !ok {
			err = ErrOpcodeInvalid
			return
		}

		args := words[1:]
		if len(args) > ins.Args() {
			err = ErrOpcodeExtraArgs
			return
		}
		if len(args) < ins.Args() {
			err = ErrOpcodeValueMissing
			return
		}

		st.Codes = append(st.Codes, uint8(ins.Opcode))
		for n, kind := range ins.Operands {
			var value uint8
			var label string
			switch kind {
			case OPERAND_REG:
				value, err = asm.register(args[n])
			case OPERAND_IMM:
				value, label, err = asm.immediate(args[n])
			}
			if err != nil {
				return
			}
			if len(label) != 0 {
				st.Links = append(st.Links, Link{Index: len(st.Codes), Label: label})
			}
			st.Codes = append(st.Codes, value)
		}
	}

	if st.Ip+len(st.Codes) > MEMORY_SIZE {
		err = ErrImageSize
		return
	}

	asm.Statements = append(asm.Statements, st)
	return
}

// currentIp returns the byte address of the next statement.
func (asm *Assembler) currentIp() int {
	if len(asm.Statements) == 0 {
		return 0
	}

	last := asm.Statements[len(asm.Statements)-1]

	return last.Ip + len(last.Codes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = map[string]int{}
	asm.Macro = map[string]*Macro{}
	asm.expansions = 0
	asm.depth = 0
	asm.Statements = asm.Statements[:0]
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _cpu_defines)
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line, _, _ = strings.Cut(text, ASM_COMMENT)
		line = strings.TrimSpace(line)

		// .macro NAME arg...
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(fields) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[fields[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
				Args:   fields[2:],
			}
			asm.Macro[fields[1]] = macro
			continue
		}

		if len(fields) > 0 && fields[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Statements {
		st := &asm.Statements[n]

		for _, link := range st.Links {
			ip, ok := asm.Label[link.Label]
			if !ok {
				lineno = st.LineNo
				line = strings.Join(st.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			if ip >= MEMORY_SIZE {
				lineno = st.LineNo
				line = strings.Join(st.Words, " ")
				err = errors.Join(ErrLabelRange(link.Label), ErrAddress(ip))
				return
			}
			st.Codes[link.Index] = uint8(ip)
		}
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statements),
	}

	return
}
