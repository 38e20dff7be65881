package engine

import "fmt"

// StrHandle identifies an entry in a StringPool. Handle 0 is reserved: the
// pool pre-inserts it as a static, immortal empty string so that
// zero-initialized string cells (global/local memory, function parameters)
// always resolve to a valid entry without the loader or evaluator needing a
// special case for "no string yet".
type StrHandle uint64

// stringKind distinguishes pool entries that must never be freed (constants
// baked into the program, compiled once by the loader) from ones created at
// runtime and reclaimed once nothing references them any longer.
type stringKind byte

const (
	stringStatic stringKind = iota
	stringDynamic
)

type stringEntry struct {
	kind     stringKind
	value    string
	refCount int
}

// StringPool owns every string value the engine can reference by handle. Ref
// counting only applies to Dynamic entries: Static entries are created once
// by the loader and live for the lifetime of the program, so Increment and
// Decrement are no-ops against them, matching the Rust source's behavior of
// folding that distinction into the entry itself rather than the call site.
type StringPool struct {
	entries map[StrHandle]*stringEntry
	next    StrHandle
}

// NewStringPool returns a pool with handle 0 already bound to the static
// empty string.
func NewStringPool() *StringPool {
	p := &StringPool{entries: make(map[StrHandle]*stringEntry), next: 1}
	p.entries[0] = &stringEntry{kind: stringStatic, value: ""}
	return p
}

// InsertStatic adds an immortal constant string and returns its handle. Used
// exclusively by the loader while materializing Str constants from the
// program's constant pool.
func (p *StringPool) InsertStatic(value string) StrHandle {
	h := p.next
	p.next++
	p.entries[h] = &stringEntry{kind: stringStatic, value: value, refCount: 1}
	return h
}

// InsertDynamic adds a runtime-created string, stored with an initial ref
// count of 1 for the inserter's own reference, and returns its handle. A
// caller that immediately pushes the handle through a ReferenceStack (which
// increments) must release this initial reference itself with a matching
// Decrement once the push is done, leaving the stack entry as the sole
// owner.
func (p *StringPool) InsertDynamic(value string) StrHandle {
	h := p.next
	p.next++
	p.entries[h] = &stringEntry{kind: stringDynamic, value: value, refCount: 1}
	return h
}

// Get returns the value bound to h. A miss indicates malformed bytecode or a
// reference-counting bug in the evaluator, both fatal conditions.
func (p *StringPool) Get(h StrHandle) string {
	e, ok := p.entries[h]
	if !ok {
		panic(fmt.Sprintf("engine: string pool handle %d does not exist", h))
	}
	return e.value
}

// Increment bumps h's ref count. A no-op for Static entries.
func (p *StringPool) Increment(h StrHandle) {
	e, ok := p.entries[h]
	if !ok {
		panic(fmt.Sprintf("engine: string pool handle %d does not exist", h))
	}
	if e.kind == stringDynamic {
		e.refCount++
	}
}

// Decrement lowers h's ref count. A no-op for Static entries. The entry is
// not removed here; Clean sweeps zero-count Dynamic entries after every
// executed command.
func (p *StringPool) Decrement(h StrHandle) {
	e, ok := p.entries[h]
	if !ok {
		panic(fmt.Sprintf("engine: string pool handle %d does not exist", h))
	}
	if e.kind == stringDynamic {
		e.refCount--
	}
}

// Clean removes every Dynamic entry whose ref count has fallen to zero or
// below. Called once after each executed command, never mid-command, so
// that a string temporarily referenced only by an in-flight operand stack
// push is never swept out from under it.
func (p *StringPool) Clean() {
	for h, e := range p.entries {
		if e.kind == stringDynamic && e.refCount <= 0 {
			delete(p.entries, h)
		}
	}
}

// BinaryStringOp pops two string handles off the string operand stack (rhs
// first, then lhs, matching the evaluator's general binary-op pop order),
// applies fn to their underlying values, and returns the result. Generic over
// the result type like the Rust source's binary_operation helper; the
// evaluator's string comparison (a bool result) is its only caller.
func BinaryStringOp[T any](pool *StringPool, stack *ReferenceStack, fn func(lhs, rhs string) T) T {
	rhs := stack.Pop()
	lhs := stack.Pop()
	return fn(pool.Get(lhs), pool.Get(rhs))
}
