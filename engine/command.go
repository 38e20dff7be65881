// Package engine implements the Simpla bytecode loader and evaluator: a
// stack-based interpreter with four parallel typed operand stacks, typed
// global/local memory, a reference-counted string pool, and activation
// records for user-defined procedures.
package engine

import "fmt"

// Kind tags the four primitive value types the engine operates over. The
// loader recovers a Kind from a wire byte via "byte mod 4": 0 -> Integer,
// 1 -> Real, 2 -> Bool, 3 -> Str.
type Kind byte

const (
	KindInteger Kind = iota
	KindReal
	KindBool
	KindStr
)

func kindFromByte(b byte) Kind {
	return Kind(b % 4)
}

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// Operator covers both the math operators (Add..Div) and the relational
// operators (Ge..Ne) with one enumeration, mirroring the ten-opcode groups
// in the wire format (ADDI..=NEI, ADDR..=NER) and the MathOperator/
// RelationalOperator split described by the spec, kept as a single type per
// the "either is fine" note on modelling Arith operators.
type Operator byte

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpGe
	OpGt
	OpLe
	OpLt
	OpEq
	OpNe
)

// IsRelational reports whether the operator belongs to the comparison half
// of the group (codes 4-9) rather than the arithmetic half (codes 0-3).
func (o Operator) IsRelational() bool {
	return o >= OpGe
}

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpGe:
		return ">="
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpLt:
		return "<"
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	default:
		return fmt.Sprintf("op(%d)", byte(o))
	}
}

// ControlOp distinguishes the six control-flow command shapes.
type ControlOp byte

const (
	CtrlJump ControlOp = iota
	CtrlJumpTrue
	CtrlJumpFalse
	CtrlLabel
	CtrlCall
	CtrlRet
)

// LogicalOp is the two short-circuit-free boolean connectives, kept separate
// from Operator since they apply only to Bool operands and have no
// arithmetic counterpart.
type LogicalOp byte

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

// ForOp is the three operations the for-loop counter stack supports.
type ForOp byte

const (
	ForNew ForOp = iota
	ForCheck
	ForEnd
)

// FlushMode distinguishes a bare stdout flush from writing a newline.
type FlushMode byte

const (
	FlushStdout FlushMode = iota
	FlushNewLine
)

// Constant is the payload of a ConstantLoad command. Only the field
// matching Kind is meaningful; Handle is a string-pool handle already
// inserted as a Static entry by the loader.
type Constant struct {
	Kind   Kind
	Int    int32
	Real   float64
	Bool   bool
	Handle StrHandle
}

// CommandOp tags the abstract command shapes from the spec's command set.
type CommandOp byte

const (
	CmdArith CommandOp = iota
	CmdStrCompare
	CmdBoolCompare
	CmdCastInt
	CmdCastReal
	CmdMemoryLoad
	CmdMemoryStore
	CmdControl
	CmdInput
	CmdOutput
	CmdOutputLine
	CmdFlush
	CmdExit
	CmdConstantLoad
	CmdStoreParam
	CmdNewRecord
	CmdForControl
	CmdUnary
	CmdLogical
)

// Command is a tagged union of every instruction shape the engine executes.
// Only the fields relevant to Op carry meaning for a given command, the
// same discipline the wire format itself follows (each opcode range reads
// exactly the payload its shape requires, nothing more).
type Command struct {
	Op       CommandOp
	Kind     Kind
	Operator Operator
	Addr     uint16
	Target   uint16
	Control  ControlOp
	Constant Constant
	Flush    FlushMode
	ForOp    ForOp
	FuncID   uint16
	Logical  LogicalOp
}

// Block is an ordered command sequence plus a label -> absolute address
// index, built once at construction by scanning for every Control(Label,
// id) command. Label identifiers must be unique within a block.
type Block struct {
	Code   []Command
	Labels map[uint16]int
}

// NewBlock builds a Block's label index from its command list.
func NewBlock(code []Command) *Block {
	labels := make(map[uint16]int)
	for addr, cmd := range code {
		if cmd.Op == CmdControl && cmd.Control == CtrlLabel {
			labels[cmd.Target] = addr
		}
	}
	return &Block{Code: code, Labels: labels}
}

// Program is one main Block plus an ordered list of function Blocks,
// indexed by func_id.
type Program struct {
	Body *Block
	Func []*Block
}

// MemorySize gives the number of cells of each typed kind an activation (or
// the global frame) requires.
type MemorySize struct {
	Integer uint16
	Real    uint16
	Bool    uint16
	Str     uint16
}

// ProgramMemory pairs the main block's MemorySize with one per function, in
// the same order as Program.Func.
type ProgramMemory struct {
	Main MemorySize
	Func []MemorySize
}

// localFlag is the high bit of the 16-bit address word: 1 selects local
// (activation-relative) memory, 0 selects global memory. The remaining 15
// bits index a cell within the appropriate typed vector.
const localFlag uint16 = 1 << 15

// IsLocalAddr reports whether addr's LOCAL bit is set.
func IsLocalAddr(addr uint16) bool {
	return addr&localFlag != 0
}

// AddrIndex strips the LOCAL bit, leaving the 15-bit cell index.
func AddrIndex(addr uint16) uint16 {
	return addr &^ localFlag
}
