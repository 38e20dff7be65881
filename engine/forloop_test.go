package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForLoopStackChecksWithoutAdvancing(t *testing.T) {
	f := NewForLoopStack()
	f.New(0)

	// Check only copies the top; calling it repeatedly must not move the
	// counter itself. Advancing is the caller's job (End then New).
	assert.Equal(t, int32(0), f.Check())
	assert.Equal(t, int32(0), f.Check())

	f.End()
	f.New(1)
	assert.Equal(t, int32(1), f.Check())
	f.End()
}

func TestForLoopStackNestedLoopsAreIndependent(t *testing.T) {
	f := NewForLoopStack()
	f.New(0)
	f.New(10)

	assert.Equal(t, int32(10), f.Check())
	f.End()

	assert.Equal(t, int32(0), f.Check())
	f.End()
}

func TestForLoopStackEndWithNoLoopPanics(t *testing.T) {
	f := NewForLoopStack()
	assert.Panics(t, func() { f.End() })
}

func TestForLoopStackCheckWithNoLoopPanics(t *testing.T) {
	f := NewForLoopStack()
	assert.Panics(t, func() { f.Check() })
}
