package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationStackLifecycle(t *testing.T) {
	a := newActivationStack()
	mem := NewMemoryBank(MemorySize{Integer: 1})

	a.NewRecord(3, mem)
	pending := a.Pending()
	pending.mem.Int[0] = 99

	body := &Block{}
	rec := a.Call(body, 5)
	require.Equal(t, uint16(3), rec.funcID)
	assert.Same(t, mem, a.Current())

	popped := a.Ret()
	assert.Equal(t, int32(99), popped.mem.Int[0])
	assert.Equal(t, body, popped.returnBlock)
	assert.Equal(t, 5, popped.returnIndex)
	assert.Nil(t, a.Current())
}

func TestActivationStackDoubleNewRecordPanics(t *testing.T) {
	a := newActivationStack()
	a.NewRecord(0, NewMemoryBank(MemorySize{}))
	assert.Panics(t, func() { a.NewRecord(1, NewMemoryBank(MemorySize{})) })
}

func TestActivationStackStoreParamWithoutPendingPanics(t *testing.T) {
	a := newActivationStack()
	assert.Panics(t, func() { a.Pending() })
}

func TestActivationStackRetWithoutInstalledPanics(t *testing.T) {
	a := newActivationStack()
	assert.Panics(t, func() { a.Ret() })
}

func TestActivationStackNestedCallsStackCorrectly(t *testing.T) {
	a := newActivationStack()
	outer := NewMemoryBank(MemorySize{Integer: 1})
	outer.Int[0] = 1
	a.NewRecord(0, outer)
	a.Call(nil, 1)

	inner := NewMemoryBank(MemorySize{Integer: 1})
	inner.Int[0] = 2
	a.NewRecord(1, inner)
	a.Call(nil, 2)

	assert.Equal(t, inner, a.Current())
	a.Ret()
	assert.Equal(t, outer, a.Current())
	a.Ret()
	assert.Nil(t, a.Current())
}
