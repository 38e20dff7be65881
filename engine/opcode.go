package engine

/*
	Opcode is the numeric assignment for every wire-format instruction and
	constant form the loader understands. Contiguous ranges let the loader
	classify a byte by an inclusive range check rather than a giant switch
	over every individual value:

		Integer math/relational   (opAddI..=opNeI)    10 opcodes
		Real math/relational      (opAddR..=opNeR)    10 opcodes
		Memory load/store         (opLdI..=opStrS)     8 opcodes, kind = byte mod 4
		Control flow              (opJump..=opRet)     6 opcodes
		Constant loads            (opLdIC..=opLdSC)    4 opcodes, kind from a shifted mod 4
		Input                     (opRdI..=opRdS)      4 opcodes, kind = byte mod 4
		Output                    (opWrI..=opWrS)      4 opcodes, kind = byte mod 4
		Output + newline          (opWrlI..=opWrlS)    4 opcodes, kind = byte mod 4
		Flush/newline/exit/casts  (opFlu,opFln,opExt,opCstI,opCstR)
		Logical                  (opAnd,opOr)
		Unary                    (opNegI,opNegR,opNotB)
		StoreParam                (opStrIP..=opStrSP)  4 opcodes, kind = byte mod 4
		NewRecord                 (opParam)            2-byte function id follows
		Function terminator       (opFunc)             never emitted as a Command
		Block header              (opInit)             followed by 4 big-endian u16 counts
		For-loop stack            (opBFor,opCFor,opEFor)
		String comparison         (opGeqS..=opNeS)     6 opcodes, RelationalOperator = byte-base+4
		Boolean comparison        (opGeqB..=opNeB)     6 opcodes, RelationalOperator = byte-base+4

	Every kind-coded group above starts at a multiple of 4 so that "byte mod
	4" yields the Kind order Integer, Real, Bool, Str directly, except the
	constant-load group, which is explicitly defined (per spec) by a shifted
	mapping: 3 -> Integer, 0 -> Real, 1 -> Bool, 2 -> Str.
*/
type opcode = byte

const (
	opAddI opcode = 0x00
	opSubI opcode = 0x01
	opMulI opcode = 0x02
	opDivI opcode = 0x03
	opGeqI opcode = 0x04
	opGtI  opcode = 0x05
	opLeqI opcode = 0x06
	opLtI  opcode = 0x07
	opEqI  opcode = 0x08
	opNeI  opcode = 0x09

	opAddR opcode = 0x0A
	opSubR opcode = 0x0B
	opMulR opcode = 0x0C
	opDivR opcode = 0x0D
	opGeqR opcode = 0x0E
	opGtR  opcode = 0x0F
	opLeqR opcode = 0x10
	opLtR  opcode = 0x11
	opEqR  opcode = 0x12
	opNeR  opcode = 0x13

	opLdI  opcode = 0x14
	opLdR  opcode = 0x15
	opLdB  opcode = 0x16
	opLdS  opcode = 0x17
	opStrI opcode = 0x18
	opStrR opcode = 0x19
	opStrB opcode = 0x1A
	opStrS opcode = 0x1B

	opJump opcode = 0x1C
	opJeq  opcode = 0x1D
	opJne  opcode = 0x1E
	opLbl  opcode = 0x1F
	opCall opcode = 0x20
	opRet  opcode = 0x21

	opLdIC opcode = 0x23
	opLdRC opcode = 0x24
	opLdBC opcode = 0x25
	opLdSC opcode = 0x26

	opRdI opcode = 0x28
	opRdR opcode = 0x29
	opRdB opcode = 0x2A
	opRdS opcode = 0x2B

	opWrI opcode = 0x2C
	opWrR opcode = 0x2D
	opWrB opcode = 0x2E
	opWrS opcode = 0x2F

	opWrlI opcode = 0x30
	opWrlR opcode = 0x31
	opWrlB opcode = 0x32
	opWrlS opcode = 0x33

	opFlu  opcode = 0x34
	opFln  opcode = 0x35
	opExt  opcode = 0x36
	opCstI opcode = 0x37
	opCstR opcode = 0x38

	opAnd opcode = 0x39
	opOr  opcode = 0x3A

	opNegI opcode = 0x3B
	opNegR opcode = 0x3C
	opNotB opcode = 0x3D

	opStrIP opcode = 0x40
	opStrRP opcode = 0x41
	opStrBP opcode = 0x42
	opStrSP opcode = 0x43

	opParam opcode = 0x44
	opFunc  opcode = 0x45
	opInit  opcode = 0x46

	opBFor opcode = 0x47
	opCFor opcode = 0x48
	opEFor opcode = 0x49

	opGeqS opcode = 0x4A
	opGtS  opcode = 0x4B
	opLeqS opcode = 0x4C
	opLtS  opcode = 0x4D
	opEqS  opcode = 0x4E
	opNeS  opcode = 0x4F

	opGeqB opcode = 0x50
	opGtB  opcode = 0x51
	opLeqB opcode = 0x52
	opLtB  opcode = 0x53
	opEqB  opcode = 0x54
	opNeB  opcode = 0x55
)

func inRange(b, lo, hi opcode) bool { return b >= lo && b <= hi }

func isIntegerMathRel(b opcode) bool { return inRange(b, opAddI, opNeI) }
func isRealMathRel(b opcode) bool    { return inRange(b, opAddR, opNeR) }
func isMemoryOp(b opcode) bool       { return inRange(b, opLdI, opStrS) }
func isControlOp(b opcode) bool      { return inRange(b, opJump, opRet) }
func isConstantLoad(b opcode) bool   { return inRange(b, opLdIC, opLdSC) }
func isInputOp(b opcode) bool        { return inRange(b, opRdI, opRdS) }
func isOutputOp(b opcode) bool       { return inRange(b, opWrI, opWrS) }
func isOutputLineOp(b opcode) bool   { return inRange(b, opWrlI, opWrlS) }
func isStoreParamOp(b opcode) bool    { return inRange(b, opStrIP, opStrSP) }
func isStringCompareOp(b opcode) bool { return inRange(b, opGeqS, opNeS) }
func isBoolCompareOp(b opcode) bool   { return inRange(b, opGeqB, opNeB) }

// mathOperator maps an Integer/Real arith group byte to its Operator.
func mathOperator(base, b opcode) Operator {
	return Operator(b - base)
}

// relOperator maps a six-opcode comparison group byte (string/bool compare)
// to its Operator; these groups only ever carry the relational half (4-9).
func relOperator(base, b opcode) Operator {
	return Operator(b-base) + OpGe
}

// constantKind applies the constant-load opcode's shifted mod-4 mapping:
// 3 -> Integer, 0 -> Real, 1 -> Bool, 2 -> Str.
func constantKind(b opcode) Kind {
	switch b % 4 {
	case 3:
		return KindInteger
	case 0:
		return KindReal
	case 1:
		return KindBool
	case 2:
		return KindStr
	default:
		panic("unreachable")
	}
}

var opcodeNames = map[opcode]string{
	opAddI: "addi", opSubI: "subi", opMulI: "muli", opDivI: "divi",
	opGeqI: "geqi", opGtI: "gti", opLeqI: "leqi", opLtI: "lti", opEqI: "eqi", opNeI: "nei",
	opAddR: "addr", opSubR: "subr", opMulR: "mulr", opDivR: "divr",
	opGeqR: "geqr", opGtR: "gtr", opLeqR: "leqr", opLtR: "ltr", opEqR: "eqr", opNeR: "ner",
	opLdI: "ldi", opLdR: "ldr", opLdB: "ldb", opLdS: "lds",
	opStrI: "stri", opStrR: "strr", opStrB: "strb", opStrS: "strs",
	opJump: "jump", opJeq: "jeq", opJne: "jne", opLbl: "lbl", opCall: "call", opRet: "ret",
	opLdIC: "ldic", opLdRC: "ldrc", opLdBC: "ldbc", opLdSC: "ldsc",
	opRdI: "rdi", opRdR: "rdr", opRdB: "rdb", opRdS: "rds",
	opWrI: "wri", opWrR: "wrr", opWrB: "wrb", opWrS: "wrs",
	opWrlI: "wrli", opWrlR: "wrlr", opWrlB: "wrlb", opWrlS: "wrls",
	opFlu: "flu", opFln: "fln", opExt: "ext", opCstI: "csti", opCstR: "cstr",
	opAnd: "and", opOr: "or",
	opNegI: "negi", opNegR: "negr", opNotB: "notb",
	opStrIP: "strip", opStrRP: "strrp", opStrBP: "strbp", opStrSP: "strsp",
	opParam: "param", opFunc: "func", opInit: "init",
	opBFor: "bfor", opCFor: "cfor", opEFor: "efor",
	opGeqS: "geqs", opGtS: "gts", opLeqS: "leqs", opLtS: "lts", opEqS: "eqs", opNeS: "nes",
	opGeqB: "geqb", opGtB: "gtb", opLeqB: "leqb", opLtB: "ltb", opEqB: "eqb", opNeB: "neb",
}

func opcodeName(b opcode) string {
	if name, ok := opcodeNames[b]; ok {
		return name
	}
	return "?unknown?"
}
