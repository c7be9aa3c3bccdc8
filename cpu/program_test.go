package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Statements: []Statement{
			{LineNo: 1, Ip: 0, Words: []string{"LDI", "R0", "8"}, Codes: []uint8{opLDI, 0, 8}},
			{LineNo: 3, Ip: 3, Words: []string{"PRN", "R0"}, Codes: []uint8{opPRN, 0}},
			{LineNo: 4, Ip: 5, Words: []string{"HLT"}, Codes: []uint8{opHLT}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Statement)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(2)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(4)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(5)
	assert.Equal(4, dbg.LineNo)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(6)
	assert.Nil(dbg.Statement)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(-1)
	assert.Nil(dbg.Statement)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	assert.Equal(6, prog.Size())
	assert.Equal([]uint8{opLDI, 0, 8, opPRN, 0, opHLT}, prog.Binary())

	empty := &Program{}
	assert.Equal(0, empty.Size())
	assert.Empty(empty.Binary())
}

func TestProgram_Binary_Gap(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Statements: []Statement{
			{Ip: 0, Codes: []uint8{opHLT}},
			{Ip: 4, Codes: []uint8{0xaa, 0xbb}},
		},
	}

	assert.Equal([]uint8{opHLT, 0, 0, 0, 0xaa, 0xbb}, prog.Binary())
}

func TestProgram_Codes_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	var ips []int
	for ip := range prog.Codes() {
		ips = append(ips, ip)
		if ip == 3 {
			break
		}
	}

	assert.Equal([]int{0, 1, 2, 3}, ips)
}
