package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"simplavm/engine"
)

func main() {
	var debug bool
	var dump bool

	rootCmd := &cobra.Command{
		Use:   "simpla [bytecode file]",
		Short: "Run a compiled Simpla bytecode program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], debug, dump)
		},
	}
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Step through execution one command at a time")
	rootCmd.Flags().BoolVar(&dump, "dump", false, "Dump the loaded program before running")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func runFile(path string, debug, dump bool) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return &loadExitError{err}
	}

	prog, progMem, pool, err := engine.Load(buf)
	if err != nil {
		return &loadExitError{err}
	}

	if dump {
		fmt.Fprintln(os.Stderr, "-- program --")
		spew.Fdump(os.Stderr, prog)
		fmt.Fprintln(os.Stderr, "-- memory --")
		spew.Fdump(os.Stderr, progMem)
	}

	eng := engine.NewEngine(prog, progMem, pool, os.Stdin, os.Stdout)

	if debug {
		err = eng.RunDebugMode(bufioStdin())
	} else {
		err = eng.RunRecovered()
	}
	if err != nil {
		return &runtimeExitError{err}
	}
	return nil
}

// loadExitError and runtimeExitError distinguish the two non-fatal failure
// tiers from the fatal-internal-invariant tier at the process boundary,
// since cobra only gives us the wrapped error back from Execute.
type loadExitError struct{ err error }

func (e *loadExitError) Error() string { return e.err.Error() }
func (e *loadExitError) Unwrap() error { return e.err }

type runtimeExitError struct{ err error }

func (e *runtimeExitError) Error() string { return e.err.Error() }
func (e *runtimeExitError) Unwrap() error { return e.err }

// exitCodeFor maps a returned error to the process exit code: 1 for a load
// failure, 2 for an ordinary runtime error (bad input, division by zero),
// 3 for a recovered fatal internal invariant violation, 1 as a fallback for
// anything cobra itself produced (bad flags, wrong argument count).
func exitCodeFor(err error) int {
	switch e := err.(type) {
	case *loadExitError:
		return 1
	case *runtimeExitError:
		if _, ok := e.err.(*engine.FatalError); ok {
			return 3
		}
		return 2
	default:
		return 1
	}
}

func bufioStdin() *bufio.Reader {
	return bufio.NewReader(os.Stdin)
}
