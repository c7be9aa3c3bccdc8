// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

// loadProgram assembles or parses a program from a named file, or stdin.
func loadProgram(emu *emulator.Emulator, compile string, image string, verbose bool) (prog *cpu.Program, err error) {
	var input io.Reader
	name := compile
	if len(name) == 0 {
		name = image
	}

	if len(name) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			log.Fatalf("%v: %v", os.Args[0], f("provide a program image to load"))
		}
		input = os.Stdin
	} else {
		inf, _err := os.Open(name)
		if _err != nil {
			err = _err
			return
		}
		defer inf.Close()
		input = inf
	}

	if len(compile) == 0 {
		prog, err = cpu.ParseImage(input)
		return
	}

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(input)
	return
}

func main() {
	var compile string
	var save bool
	var output string
	var strict bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.BoolVar(&save, "s", false, "Save program image to output, do not execute")
	flag.StringVar(&output, "o", "-", "Tape output, or image output with -s")
	flag.BoolVar(&strict, "strict", false, "Fault on unknown opcodes")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	var image string
	switch {
	case flag.NArg() == 1 && len(compile) == 0:
		image = flag.Arg(0)
	case flag.NArg() != 0:
		log.Fatalf("%v: %v: %v", os.Args[0], f("unknown arguments"), flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Strict = strict

	prog, err := loadProgram(emu, compile, image, verbose)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	var ouf io.Writer = os.Stdout
	if output != "-" {
		file, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer file.Close()
		ouf = file
	}

	if save {
		err = prog.WriteImage(ouf)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	emu.Program = prog
	emu.Tape.Output = ouf

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			log.Print(emu.Cpu.String())
			log.Fatalf("%v: %v", os.Args[0], err)
		}
	}
}
