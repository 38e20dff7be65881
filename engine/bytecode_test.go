package engine

import (
	"encoding/binary"
	"math"
)

// The helpers below assemble literal bytecode buffers for the end-to-end
// tests, mirroring the kind of hand-built fixture the teacher's compile
// tests construct from literal source strings.

type asm struct {
	buf []byte
}

func newAsm() *asm { return &asm{} }

func (a *asm) byte(b byte) *asm {
	a.buf = append(a.buf, b)
	return a
}

func (a *asm) u16(v uint16) *asm {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	a.buf = append(a.buf, b[:]...)
	return a
}

func (a *asm) i32(v int32) *asm {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	a.buf = append(a.buf, b[:]...)
	return a
}

func (a *asm) f64(v float64) *asm {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	a.buf = append(a.buf, b[:]...)
	return a
}

func (a *asm) str(s string) *asm {
	a.u16(uint16(len(s)))
	a.buf = append(a.buf, []byte(s)...)
	return a
}

// header writes an INIT block header with the given cell counts.
func (a *asm) header(ints, reals, bools, strs uint16) *asm {
	a.byte(opInit)
	a.u16(ints)
	a.u16(reals)
	a.u16(bools)
	a.u16(strs)
	return a
}

func (a *asm) bytes() []byte { return a.buf }
