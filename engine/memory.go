package engine

// MemoryBank is the four parallel typed cell vectors backing one frame
// (the global frame, or a single activation's local frame). Every cell a
// program can address exists up front, sized by the loader from the
// program's declared MemorySize; there is no dynamic growth at runtime.
type MemoryBank struct {
	Int  []int32
	Real []float64
	Bool []bool
	Str  []StrHandle
}

// NewMemoryBank allocates a bank sized per size. Every Str cell starts bound
// to handle 0, the pool's pre-inserted static empty string, so a read before
// any store always resolves to a valid, harmless value.
func NewMemoryBank(size MemorySize) *MemoryBank {
	return &MemoryBank{
		Int:  make([]int32, size.Integer),
		Real: make([]float64, size.Real),
		Bool: make([]bool, size.Bool),
		Str:  make([]StrHandle, size.Str),
	}
}

// resolveBank picks the global or local bank for addr's LOCAL bit and
// returns the stripped cell index alongside it. local may be nil when
// executing the main body outside any activation; addressing a local cell
// in that context is malformed bytecode and is a fatal condition.
func resolveBank(addr uint16, global, local *MemoryBank) (*MemoryBank, uint16) {
	idx := AddrIndex(addr)
	if IsLocalAddr(addr) {
		if local == nil {
			panic("engine: local memory access outside an activation")
		}
		return local, idx
	}
	return global, idx
}
