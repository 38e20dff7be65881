package engine

// ForLoopStack is the auxiliary stack of active for-loop counters. Each
// iterating loop owns one entry for its lifetime: New pushes a fresh
// counter, Check copies the top for the loop condition to read, End pops it
// once the loop body has run its course. Nested loops work naturally, one
// entry per active loop.
type ForLoopStack struct {
	counters []int32
}

// NewForLoopStack returns an empty stack.
func NewForLoopStack() *ForLoopStack {
	return &ForLoopStack{}
}

// New pushes a fresh counter initialized to start.
func (f *ForLoopStack) New(start int32) {
	f.counters = append(f.counters, start)
}

// Check copies (does not pop) the top counter, so the compiled loop
// condition can compare against it. The counter itself never advances here;
// a loop body that wants the next value pops it with End and pushes the
// replacement with New, keeping the stack depth unchanged across iterations.
func (f *ForLoopStack) Check() int32 {
	n := len(f.counters)
	if n == 0 {
		panic("engine: for-loop check with no active loop")
	}
	return f.counters[n-1]
}

// End pops the top counter, releasing the loop's slot.
func (f *ForLoopStack) End() {
	n := len(f.counters)
	if n == 0 {
		panic("engine: for-loop end with no active loop")
	}
	f.counters = f.counters[:n-1]
}
