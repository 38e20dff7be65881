package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringPoolHandleZeroIsStaticEmptyString(t *testing.T) {
	pool := NewStringPool()
	assert.Equal(t, "", pool.Get(0))

	// Static entries never free, regardless of how far decrement goes.
	pool.Decrement(0)
	pool.Decrement(0)
	pool.Clean()
	assert.Equal(t, "", pool.Get(0))
}

func TestStringPoolDynamicEntryFreedOnceUnreferenced(t *testing.T) {
	pool := NewStringPool()
	h := pool.InsertDynamic("scratch")
	assert.Equal(t, "scratch", pool.Get(h))

	// InsertDynamic starts at refcount 1 for the inserter's own reference;
	// releasing it with nothing else holding the handle frees the entry.
	pool.Decrement(h)
	pool.Clean()
	assert.Panics(t, func() { pool.Get(h) })
}

func TestStringPoolDynamicEntrySurvivesWhileReferenced(t *testing.T) {
	pool := NewStringPool()
	h := pool.InsertDynamic("kept")
	pool.Increment(h) // e.g. a ReferenceStack push taking its own reference
	pool.Decrement(h) // the inserter releases its own reference
	pool.Clean()
	assert.Equal(t, "kept", pool.Get(h))
}

func TestReferenceStackPushIncrementsPopDecrements(t *testing.T) {
	pool := NewStringPool()
	h := pool.InsertDynamic("x")
	pool.Decrement(h) // release the inserter's own reference
	ref := NewReferenceStack(pool)

	ref.Push(h)
	require.Equal(t, 1, ref.Len())

	got := ref.Pop()
	assert.Equal(t, h, got)
	assert.Equal(t, 0, ref.Len())

	pool.Clean()
	assert.Panics(t, func() { pool.Get(h) })
}

func TestBinaryStringOpComparesUnderlyingValues(t *testing.T) {
	pool := NewStringPool()
	ref := NewReferenceStack(pool)
	lhs := pool.InsertStatic("abc")
	rhs := pool.InsertStatic("abd")

	ref.Push(lhs)
	ref.Push(rhs)

	result := BinaryStringOp(pool, ref, func(lhs, rhs string) bool {
		return lhs < rhs
	})
	assert.True(t, result)
}
