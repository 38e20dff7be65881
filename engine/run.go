package engine

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// FatalError wraps a recovered panic from a violated engine invariant:
// malformed bytecode that passed loading but breaks the call or addressing
// discipline at run time (Ret with nothing installed, a missing label, a
// pool handle that doesn't exist). These never occur against
// correctly-compiled programs.
type FatalError struct {
	Reason any
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Reason)
}

// defaultRecover turns a panic from inside Run into a *FatalError return
// value instead of unwinding the caller's goroutine, mirroring the
// recover-at-the-boundary discipline the evaluator's call/record invariants
// rely on to stay panics rather than returned errors.
func defaultRecover(err *error) {
	if r := recover(); r != nil {
		*err = &FatalError{Reason: r}
	}
}

// RunRecovered runs e to completion, converting any fatal invariant
// violation into a returned *FatalError rather than propagating the panic.
func (e *Engine) RunRecovered() (err error) {
	defer defaultRecover(&err)
	return e.Run()
}

// RunDebugMode drives e one command at a time from an interactive session,
// accepting "next"/"n" to single-step, "run"/"r" to finish without further
// prompts, "break <n>"/"b <n>" to run until program-counter index n within
// the current block, and "program" to print the command about to execute.
// Modelled on the teacher line-stepping REPL rather than a full TUI, since
// the engine's own stdin is already claimed by Input commands and a second
// interactive surface would fight it for the same stream.
func (e *Engine) RunDebugMode(session *bufio.Reader) (err error) {
	defer defaultRecover(&err)
	defer e.stdout.Flush()

	breakAt := -1
	for {
		if e.pc >= len(e.block.Code) {
			if len(e.calls.frames) > 0 {
				panic("engine: fell off the end of a function body without Ret")
			}
			return nil
		}

		if breakAt < 0 || e.pc == breakAt {
			breakAt = -1
			fmt.Fprintf(os.Stderr, "[%04d] next command, waiting (next/run/break N/program)> ", e.pc)
			line, rerr := session.ReadString('\n')
			if rerr != nil {
				return nil
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "program":
				fmt.Fprintf(os.Stderr, "%+v\n", e.block.Code[e.pc])
				continue
			case "break", "b":
				if len(fields) == 2 {
					var n int
					fmt.Sscanf(fields[1], "%d", &n)
					breakAt = n
				}
				continue
			case "run", "r":
				breakAt = int(^uint(0) >> 1)
			case "next", "n":
			}
		}

		cmd := e.block.Code[e.pc]
		e.pc++
		if cmd.Op == CmdExit {
			return nil
		}
		if err := e.step(cmd); err != nil {
			return err
		}
		e.pool.Clean()
	}
}
