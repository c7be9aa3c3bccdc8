package cpu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	IMAGE_COMMENT = "#" // First token of a comment line.
)

// ParseImage reads the line-oriented binary image format.
//
// Each non-empty line holds one byte as an 8-bit base 2 literal in its first
// word. Lines whose first word is exactly "#" are comments; any words after
// the literal are kept as the statement's words.
func ParseImage(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	ip := 0

	for scanner.Scan() {
		line = scanner.Text()
		lineno++

		words := strings.Fields(line)
		if len(words) == 0 || words[0] == IMAGE_COMMENT {
			continue
		}

		var value uint64
		value, err = strconv.ParseUint(words[0], 2, 8)
		if err != nil {
			err = ErrParseBinary
			return
		}

		if ip >= MEMORY_SIZE {
			err = ErrImageSize
			return
		}

		comment := words[1:]
		if len(comment) > 0 && comment[0] == IMAGE_COMMENT {
			comment = comment[1:]
		}

		prog.Statements = append(prog.Statements, Statement{
			LineNo: lineno,
			Ip:     ip,
			Words:  comment,
			Codes:  []uint8{uint8(value)},
		})
		ip++
	}

	err = scanner.Err()
	return
}

// WriteImage writes the program in the binary image format.
// The words of each statement follow its first byte as a comment.
func (prog *Program) WriteImage(output io.Writer) (err error) {
	w := bufio.NewWriter(output)

	for _, st := range prog.Statements {
		for n, code := range st.Codes {
			line := fmt.Sprintf("%08b", code)
			if n == 0 && len(st.Words) > 0 {
				line += " " + IMAGE_COMMENT + " " + strings.Join(st.Words, " ")
			}
			_, err = fmt.Fprintln(w, line)
			if err != nil {
				return
			}
		}
	}

	err = w.Flush()
	return
}
