package engine

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// loader walks the tagged byte stream the compiler emits and builds a
// Program, its ProgramMemory, and the string pool's static constants in one
// pass. All multi-byte fields (address words, 32-bit integers, 64-bit
// reals, string length prefixes) are big-endian.
type loader struct {
	buf  []byte
	pos  int
	pool *StringPool
}

// Load parses buf into a Program. The returned StringPool already holds
// every Str constant the program declares, inserted as Static entries.
func Load(buf []byte) (*Program, *ProgramMemory, *StringPool, error) {
	l := &loader{buf: buf, pool: NewStringPool()}

	mainSize, err := l.expectHeader()
	if err != nil {
		return nil, nil, nil, err
	}
	mainCode, err := l.parseBlockBody()
	if err != nil {
		return nil, nil, nil, err
	}

	prog := &Program{Body: NewBlock(mainCode)}
	mem := &ProgramMemory{Main: mainSize}

	for l.pos < len(l.buf) {
		marker, err := l.takeByte("function marker")
		if err != nil {
			return nil, nil, nil, err
		}
		if marker != opFunc {
			return nil, nil, nil, &UnknownByte{Value: marker, Index: l.pos - 1}
		}
		size, err := l.expectHeader()
		if err != nil {
			return nil, nil, nil, err
		}
		code, err := l.parseBlockBody()
		if err != nil {
			return nil, nil, nil, err
		}
		prog.Func = append(prog.Func, NewBlock(code))
		mem.Func = append(mem.Func, size)
	}

	return prog, mem, l.pool, nil
}

// expectHeader consumes an opInit byte followed by four big-endian u16
// cell counts (Integer, Real, Bool, Str).
func (l *loader) expectHeader() (MemorySize, error) {
	b, err := l.takeByte("block header")
	if err != nil {
		return MemorySize{}, err
	}
	if b != opInit {
		return MemorySize{}, &UnknownByte{Value: b, Index: l.pos - 1}
	}
	ints, err := l.takeU16("block header integer count")
	if err != nil {
		return MemorySize{}, err
	}
	reals, err := l.takeU16("block header real count")
	if err != nil {
		return MemorySize{}, err
	}
	bools, err := l.takeU16("block header bool count")
	if err != nil {
		return MemorySize{}, err
	}
	strs, err := l.takeU16("block header str count")
	if err != nil {
		return MemorySize{}, err
	}
	return MemorySize{Integer: ints, Real: reals, Bool: bools, Str: strs}, nil
}

// parseBlockBody decodes commands until it sees a FUNC marker or runs out
// of input, without consuming the marker byte itself.
func (l *loader) parseBlockBody() ([]Command, error) {
	var code []Command
	for l.pos < len(l.buf) {
		if l.buf[l.pos] == opFunc {
			break
		}
		cmd, err := l.parseCommand()
		if err != nil {
			return nil, err
		}
		code = append(code, cmd)
	}
	return code, nil
}

func (l *loader) parseCommand() (Command, error) {
	b, err := l.takeByte("opcode")
	if err != nil {
		return Command{}, err
	}

	switch {
	case isIntegerMathRel(b):
		return Command{Op: CmdArith, Kind: KindInteger, Operator: mathOperator(opAddI, b)}, nil

	case isRealMathRel(b):
		op := mathOperator(opAddR, b)
		return Command{Op: CmdArith, Kind: KindReal, Operator: op}, nil

	case isStringCompareOp(b):
		return Command{Op: CmdStrCompare, Operator: relOperator(opGeqS, b)}, nil

	case isBoolCompareOp(b):
		return Command{Op: CmdBoolCompare, Operator: relOperator(opGeqB, b)}, nil

	case isMemoryOp(b):
		addr, err := l.takeU16("memory address")
		if err != nil {
			return Command{}, err
		}
		kind := kindFromByte(b)
		if b < opStrI {
			return Command{Op: CmdMemoryLoad, Kind: kind, Addr: addr}, nil
		}
		return Command{Op: CmdMemoryStore, Kind: kind, Addr: addr}, nil

	case isControlOp(b):
		return l.parseControl(b)

	case isConstantLoad(b):
		return l.parseConstant(b)

	case isInputOp(b):
		return Command{Op: CmdInput, Kind: kindFromByte(b)}, nil

	case isOutputOp(b):
		return Command{Op: CmdOutput, Kind: kindFromByte(b)}, nil

	case isOutputLineOp(b):
		return Command{Op: CmdOutputLine, Kind: kindFromByte(b)}, nil

	case isStoreParamOp(b):
		addr, err := l.takeU16("store-param address")
		if err != nil {
			return Command{}, err
		}
		return Command{Op: CmdStoreParam, Kind: kindFromByte(b), Addr: addr}, nil

	case b == opFlu:
		return Command{Op: CmdFlush, Flush: FlushStdout}, nil
	case b == opFln:
		return Command{Op: CmdFlush, Flush: FlushNewLine}, nil
	case b == opExt:
		return Command{Op: CmdExit}, nil
	case b == opCstI:
		return Command{Op: CmdCastInt}, nil
	case b == opCstR:
		return Command{Op: CmdCastReal}, nil
	case b == opAnd:
		return Command{Op: CmdLogical, Logical: LogicalAnd}, nil
	case b == opOr:
		return Command{Op: CmdLogical, Logical: LogicalOr}, nil
	case b == opNegI:
		return Command{Op: CmdUnary, Kind: KindInteger}, nil
	case b == opNegR:
		return Command{Op: CmdUnary, Kind: KindReal}, nil
	case b == opNotB:
		return Command{Op: CmdUnary, Kind: KindBool}, nil
	case b == opParam:
		funcID, err := l.takeU16("new-record function id")
		if err != nil {
			return Command{}, err
		}
		return Command{Op: CmdNewRecord, FuncID: funcID}, nil
	case b == opBFor:
		return Command{Op: CmdForControl, ForOp: ForNew}, nil
	case b == opCFor:
		return Command{Op: CmdForControl, ForOp: ForCheck}, nil
	case b == opEFor:
		return Command{Op: CmdForControl, ForOp: ForEnd}, nil
	}

	return Command{}, &UnknownByte{Value: b, Index: l.pos - 1}
}

func (l *loader) parseControl(b opcode) (Command, error) {
	if b == opRet {
		return Command{Op: CmdControl, Control: CtrlRet}, nil
	}
	target, err := l.takeU16("control target")
	if err != nil {
		return Command{}, err
	}
	switch b {
	case opJump:
		return Command{Op: CmdControl, Control: CtrlJump, Target: target}, nil
	case opJeq:
		return Command{Op: CmdControl, Control: CtrlJumpTrue, Target: target}, nil
	case opJne:
		return Command{Op: CmdControl, Control: CtrlJumpFalse, Target: target}, nil
	case opLbl:
		return Command{Op: CmdControl, Control: CtrlLabel, Target: target}, nil
	case opCall:
		return Command{Op: CmdControl, Control: CtrlCall, FuncID: target}, nil
	}
	panic("unreachable")
}

func (l *loader) parseConstant(b opcode) (Command, error) {
	kind := constantKind(b)
	c := Constant{Kind: kind}
	switch kind {
	case KindInteger:
		v, err := l.takeI32("integer constant")
		if err != nil {
			return Command{}, err
		}
		c.Int = v
	case KindReal:
		v, err := l.takeF64("real constant")
		if err != nil {
			return Command{}, err
		}
		c.Real = v
	case KindBool:
		raw, err := l.takeByte("bool constant")
		if err != nil {
			return Command{}, err
		}
		switch raw {
		case 0xFF:
			c.Bool = true
		case 0x00:
			c.Bool = false
		default:
			return Command{}, &BooleanEncodeError{Value: raw, Index: l.pos - 1}
		}
	case KindStr:
		s, err := l.takeString()
		if err != nil {
			return Command{}, err
		}
		c.Handle = l.pool.InsertStatic(s)
	}
	return Command{Op: CmdConstantLoad, Constant: c}, nil
}

func (l *loader) takeByte(what string) (byte, error) {
	if l.pos >= len(l.buf) {
		return 0, &MissingBytes{Index: l.pos, Length: 1, Operation: what}
	}
	b := l.buf[l.pos]
	l.pos++
	return b, nil
}

func (l *loader) takeBytes(n int, what string) ([]byte, error) {
	if l.pos+n > len(l.buf) {
		return nil, &MissingBytes{Index: l.pos, Length: n, Operation: what}
	}
	b := l.buf[l.pos : l.pos+n]
	l.pos += n
	return b, nil
}

func (l *loader) takeU16(what string) (uint16, error) {
	b, err := l.takeBytes(2, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (l *loader) takeI32(what string) (int32, error) {
	b, err := l.takeBytes(4, what)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (l *loader) takeF64(what string) (float64, error) {
	b, err := l.takeBytes(8, what)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (l *loader) takeString() (string, error) {
	n, err := l.takeU16("string constant length")
	if err != nil {
		return "", err
	}
	raw, err := l.takeBytes(int(n), "string constant payload")
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", &StringEncodeError{Index: l.pos - int(n)}
	}
	return string(raw), nil
}
