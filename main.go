// Command chip8vm runs CHIP-8 programs in an SDL window or a terminal, and
// assembles or disassembles them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/logger"
	"github.com/massung/chip8vm/statsview"
	"github.com/massung/chip8vm/term"
	"github.com/massung/chip8vm/wavwriter"
)

var (
	speed   = flag.Int("speed", chip8.DefaultSpeed, "instructions executed per second")
	useTerm = flag.Bool("term", false, "run in the terminal instead of a window")
	watch   = flag.Bool("watch", false, "reload the program when the file changes")
	wavFile = flag.String("wav", "", "record the sound timer to a WAV `file`")
	stats   = flag.Bool("stats", false, "serve runtime statistics at "+statsview.URL(statsview.DefaultAddress))
	disasm  = flag.Bool("d", false, "print a disassembly listing and exit")
	outFile = flag.String("o", "", "assemble the source to `file` and exit")
	quirks  = flag.String("quirks", "", "comma separated `list` of quirks (shift,loadstore,wrap,jump)")
	verbose = flag.Bool("v", false, "echo the log to stderr")
	trace   = flag.Bool("trace", false, "log every instruction executed (use with -v)")
)

func init() {
	runtime.LockOSThread()
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: chip8vm [flags] <rom.ch8 | source.c8s>\n")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("chip8vm: ")

	flag.Usage = usage
	flag.Parse()

	if flag.NArg() > 1 {
		usage()
		os.Exit(2)
	}

	if *verbose {
		logger.SetEcho(os.Stderr)
	}

	q, err := chip8.ParseQuirks(*quirks)
	if err != nil {
		log.Fatal(err)
	}

	file := flag.Arg(0)

	switch {
	case *outFile != "":
		err = assemble(file, *outFile)
	case *disasm:
		err = list(file)
	default:
		err = run(file, q)
	}

	if err != nil {
		log.Fatal(err)
	}
}

// assemble the source in file and write the ROM to out.
func assemble(file, out string) error {
	if file == "" {
		return errNoProgram
	}

	rom, err := ReadROM(file)
	if err != nil {
		return err
	}

	return os.WriteFile(out, rom, 0o644)
}

// list writes the disassembly of file to stdout.
func list(file string) error {
	if file == "" {
		return errNoProgram
	}

	rom, err := ReadROM(file)
	if err != nil {
		return err
	}

	return chip8.Listing(os.Stdout, rom, chip8.ProgramAddress)
}

// run the program in file until the user quits.
func run(file string, q chip8.Quirks) error {
	var err error

	if file == "" && !*useTerm {
		if file, err = OpenDialog(); err != nil {
			return err
		}
	}

	if file == "" {
		return errNoProgram
	}

	rom, err := ReadROM(file)
	if err != nil {
		return err
	}

	m := chip8.NewMachine()
	m.Quirks = q

	if *trace {
		m.Trace = true
		m.Reset()
	}

	if err := m.Load(rom, chip8.ProgramAddress); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	logger.Logf("rom", "loaded %s (%d bytes)", filepath.Base(file), len(rom))
	if q != (chip8.Quirks{}) {
		logger.Logf("rom", "quirks %v", q)
	}

	if *stats {
		statsview.Launch(os.Stderr, statsview.DefaultAddress)
	}

	c := chip8.NewClock(*speed)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if *watch {
		if err := Watch(ctx, file, c.Swap); err != nil {
			return err
		}
	}

	runErr := runFrontend(ctx, file, c, m)

	// the frontend is closed, so the terminal is usable again
	var fault *chip8.Fault
	if errors.As(runErr, &fault) {
		Report(os.Stderr, m, fault)
	}

	if errors.Is(runErr, context.Canceled) {
		return nil
	}

	return runErr
}

// runFrontend opens the window or terminal and runs the clock in it. The
// recording, if any, is written once the clock stops.
func runFrontend(ctx context.Context, file string, c *chip8.Clock, m *chip8.Machine) (err error) {
	var fe chip8.Frontend

	if *useTerm {
		t, err := term.New(nil)
		if err != nil {
			return err
		}
		defer t.Close()

		fe = t
	} else {
		w, err := NewWindow(file)
		if err != nil {
			return err
		}
		defer w.Close()

		fe = w
	}

	if *wavFile != "" {
		aw, wavErr := wavwriter.New(*wavFile)
		if wavErr != nil {
			return wavErr
		}
		defer func() {
			if endErr := aw.EndMixing(); endErr != nil && err == nil {
				err = endErr
			}
		}()

		fe = aw.Wrap(fe)
	}

	return c.Run(ctx, m, fe)
}
