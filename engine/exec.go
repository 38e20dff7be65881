package engine

import "strconv"

// Run executes the program to completion: to an explicit Exit command, or
// to falling off the end of the main body. Falling off the end of a
// function body without a Ret, or any other violation of the call/memory
// invariants the loader cannot itself check, is a fatal condition and
// surfaces as a panic; callers that want a clean exit code for that case
// should recover around Run, as the RunRecovered wrapper in run.go does.
func (e *Engine) Run() error {
	defer e.stdout.Flush()
	for {
		if e.pc >= len(e.block.Code) {
			if len(e.calls.frames) > 0 {
				panic("engine: fell off the end of a function body without Ret")
			}
			return nil
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

func (e *Engine) step(cmd Command) error {
	switch cmd.Op {
	case CmdConstantLoad:
		e.loadConstant(cmd.Constant)

	case CmdArith:
		return e.arith(cmd.Kind, cmd.Operator)

	case CmdStrCompare:
		result := BinaryStringOp(e.pool, e.strOps, func(lhs, rhs string) bool {
			return compareStr(lhs, cmd.Operator, rhs)
		})
		e.boolOps.Push(result)

	case CmdBoolCompare:
		rhs := e.boolOps.Pop()
		lhs := e.boolOps.Pop()
		e.boolOps.Push(compareBool(lhs, cmd.Operator, rhs))

	case CmdCastInt:
		e.intOps.Push(int32(e.realOps.Pop()))

	case CmdCastReal:
		e.realOps.Push(float64(e.intOps.Pop()))

	case CmdUnary:
		e.unary(cmd.Kind)

	case CmdLogical:
		rhs := e.boolOps.Pop()
		lhs := e.boolOps.Pop()
		if cmd.Logical == LogicalAnd {
			e.boolOps.Push(lhs && rhs)
		} else {
			e.boolOps.Push(lhs || rhs)
		}

	case CmdMemoryLoad:
		e.memoryLoad(cmd.Kind, cmd.Addr)

	case CmdMemoryStore:
		e.memoryStore(cmd.Kind, cmd.Addr)

	case CmdStoreParam:
		e.storeParam(cmd.Kind, cmd.Addr)

	case CmdNewRecord:
		mem := NewMemoryBank(e.progMem.Func[cmd.FuncID])
		e.calls.NewRecord(cmd.FuncID, mem)

	case CmdControl:
		return e.control(cmd)

	case CmdInput:
		return e.input(cmd.Kind)

	case CmdOutput:
		e.output(cmd.Kind, false)

	case CmdOutputLine:
		e.output(cmd.Kind, true)

	case CmdFlush:
		if cmd.Flush == FlushNewLine {
			e.stdout.WriteByte('\n')
		}
		e.stdout.Flush()

	case CmdForControl:
		e.forControl(cmd.ForOp)
	}
	return nil
}

func (e *Engine) loadConstant(c Constant) {
	switch c.Kind {
	case KindInteger:
		e.intOps.Push(c.Int)
	case KindReal:
		e.realOps.Push(c.Real)
	case KindBool:
		e.boolOps.Push(c.Bool)
	case KindStr:
		e.strOps.Push(c.Handle)
	}
}

func (e *Engine) unary(kind Kind) {
	switch kind {
	case KindInteger:
		e.intOps.Push(-e.intOps.Pop())
	case KindReal:
		e.realOps.Push(-e.realOps.Pop())
	case KindBool:
		e.boolOps.Push(!e.boolOps.Pop())
	}
}

func (e *Engine) arith(kind Kind, op Operator) error {
	switch kind {
	case KindInteger:
		rhs := e.intOps.Pop()
		lhs := e.intOps.Pop()
		if op.IsRelational() {
			e.boolOps.Push(compareInt(lhs, op, rhs))
			return nil
		}
		if op == OpDiv && rhs == 0 {
			return &DivideByZeroError{}
		}
		e.intOps.Push(applyIntMath(lhs, op, rhs))
	case KindReal:
		rhs := e.realOps.Pop()
		lhs := e.realOps.Pop()
		if op.IsRelational() {
			e.boolOps.Push(compareReal(lhs, op, rhs))
			return nil
		}
		e.realOps.Push(applyRealMath(lhs, op, rhs))
	}
	return nil
}

func applyIntMath(lhs int32, op Operator, rhs int32) int32 {
	switch op {
	case OpAdd:
		return lhs + rhs
	case OpSub:
		return lhs - rhs
	case OpMul:
		return lhs * rhs
	case OpDiv:
		return lhs / rhs
	}
	panic("engine: not an arithmetic operator")
}

func applyRealMath(lhs float64, op Operator, rhs float64) float64 {
	switch op {
	case OpAdd:
		return lhs + rhs
	case OpSub:
		return lhs - rhs
	case OpMul:
		return lhs * rhs
	case OpDiv:
		return lhs / rhs
	}
	panic("engine: not an arithmetic operator")
}

func compareInt[T int32 | float64](lhs T, op Operator, rhs T) bool {
	switch op {
	case OpGe:
		return lhs >= rhs
	case OpGt:
		return lhs > rhs
	case OpLe:
		return lhs <= rhs
	case OpLt:
		return lhs < rhs
	case OpEq:
		return lhs == rhs
	case OpNe:
		return lhs != rhs
	}
	panic("engine: not a relational operator")
}

func compareReal(lhs float64, op Operator, rhs float64) bool {
	return compareInt(lhs, op, rhs)
}

func compareStr(lhs string, op Operator, rhs string) bool {
	switch op {
	case OpGe:
		return lhs >= rhs
	case OpGt:
		return lhs > rhs
	case OpLe:
		return lhs <= rhs
	case OpLt:
		return lhs < rhs
	case OpEq:
		return lhs == rhs
	case OpNe:
		return lhs != rhs
	}
	panic("engine: not a relational operator")
}

func compareBool(lhs bool, op Operator, rhs bool) bool {
	switch op {
	case OpEq:
		return lhs == rhs
	case OpNe:
		return lhs != rhs
	case OpGe:
		return boolRank(lhs) >= boolRank(rhs)
	case OpGt:
		return boolRank(lhs) > boolRank(rhs)
	case OpLe:
		return boolRank(lhs) <= boolRank(rhs)
	case OpLt:
		return boolRank(lhs) < boolRank(rhs)
	}
	panic("engine: not a relational operator")
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (e *Engine) memoryLoad(kind Kind, addr uint16) {
	bank, idx := resolveBank(addr, e.globalMem, e.currentLocal())
	switch kind {
	case KindInteger:
		e.intOps.Push(bank.Int[idx])
	case KindReal:
		e.realOps.Push(bank.Real[idx])
	case KindBool:
		e.boolOps.Push(bank.Bool[idx])
	case KindStr:
		e.strOps.Push(bank.Str[idx])
	}
}

func (e *Engine) memoryStore(kind Kind, addr uint16) {
	bank, idx := resolveBank(addr, e.globalMem, e.currentLocal())
	switch kind {
	case KindInteger:
		bank.Int[idx] = e.intOps.Pop()
	case KindReal:
		bank.Real[idx] = e.realOps.Pop()
	case KindBool:
		bank.Bool[idx] = e.boolOps.Pop()
	case KindStr:
		h := e.strOps.Pop()
		old := bank.Str[idx]
		bank.Str[idx] = h
		e.pool.Increment(h)
		e.pool.Decrement(old)
	}
}

func (e *Engine) storeParam(kind Kind, addr uint16) {
	rec := e.calls.Pending()
	idx := AddrIndex(addr)
	switch kind {
	case KindInteger:
		rec.mem.Int[idx] = e.intOps.Pop()
	case KindReal:
		rec.mem.Real[idx] = e.realOps.Pop()
	case KindBool:
		rec.mem.Bool[idx] = e.boolOps.Pop()
	case KindStr:
		h := e.strOps.Pop()
		old := rec.mem.Str[idx]
		rec.mem.Str[idx] = h
		e.pool.Increment(h)
		e.pool.Decrement(old)
	}
}

func (e *Engine) control(cmd Command) error {
	jumpTo := func(target uint16) {
		addr, ok := e.block.Labels[target]
		if !ok {
			panic("engine: label " + strconv.Itoa(int(target)) + " not found in current block")
		}
		e.pc = addr
	}
	switch cmd.Control {
	case CtrlLabel:
		return nil
	case CtrlJump:
		jumpTo(cmd.Target)
	case CtrlJumpTrue:
		if e.boolOps.Pop() {
			jumpTo(cmd.Target)
		}
	case CtrlJumpFalse:
		if !e.boolOps.Pop() {
			jumpTo(cmd.Target)
		}
	case CtrlCall:
		rec := e.calls.Call(e.block, e.pc)
		e.block = e.prog.Func[rec.funcID]
		e.pc = 0
	case CtrlRet:
		rec := e.calls.Ret()
		for _, h := range rec.mem.Str {
			e.pool.Decrement(h)
		}
		e.block = rec.returnBlock
		e.pc = rec.returnIndex
	}
	return nil
}

func (e *Engine) input(kind Kind) error {
	switch kind {
	case KindInteger:
		v, err := e.stdin.NextInteger()
		if err != nil {
			return err
		}
		e.intOps.Push(v)
	case KindReal:
		v, err := e.stdin.NextReal()
		if err != nil {
			return err
		}
		e.realOps.Push(v)
	case KindBool:
		v, err := e.stdin.NextBool()
		if err != nil {
			return err
		}
		e.boolOps.Push(v)
	case KindStr:
		v, err := e.stdin.NextString()
		if err != nil {
			return err
		}
		h := e.pool.InsertDynamic(v)
		e.strOps.Push(h)
		e.pool.Decrement(h)
	}
	return nil
}

func (e *Engine) output(kind Kind, newline bool) {
	switch kind {
	case KindInteger:
		e.stdout.WriteString(strconv.FormatInt(int64(e.intOps.Pop()), 10))
	case KindReal:
		e.stdout.WriteString(strconv.FormatFloat(e.realOps.Pop(), 'g', -1, 64))
	case KindBool:
		if e.boolOps.Pop() {
			e.stdout.WriteString("true")
		} else {
			e.stdout.WriteString("false")
		}
	case KindStr:
		h := e.strOps.Pop()
		e.stdout.WriteString(e.pool.Get(h))
	}
	if newline {
		e.stdout.WriteByte('\n')
	}
}

func (e *Engine) forControl(op ForOp) {
	switch op {
	case ForNew:
		e.forLoop.New(e.intOps.Pop())
	case ForCheck:
		e.intOps.Push(e.forLoop.Check())
	case ForEnd:
		e.forLoop.End()
	}
}
