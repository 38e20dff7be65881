package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUnknownOpcode(t *testing.T) {
	buf := newAsm().header(0, 0, 0, 0).byte(0x7F).bytes()

	_, _, _, err := Load(buf)
	require.Error(t, err)
	var ub *UnknownByte
	require.ErrorAs(t, err, &ub)
	assert.Equal(t, byte(0x7F), ub.Value)
}

func TestLoadTruncatedOperand(t *testing.T) {
	buf := newAsm().header(0, 0, 0, 0).byte(opLdIC).byte(0x00).byte(0x00).bytes()

	_, _, _, err := Load(buf)
	require.Error(t, err)
	var mb *MissingBytes
	require.ErrorAs(t, err, &mb)
}

func TestLoadInvalidBooleanEncoding(t *testing.T) {
	buf := newAsm().header(0, 0, 0, 0).byte(opLdBC).byte(0x07).bytes()

	_, _, _, err := Load(buf)
	require.Error(t, err)
	var be *BooleanEncodeError
	require.ErrorAs(t, err, &be)
}

func TestLoadInvalidUTF8String(t *testing.T) {
	buf := newAsm().header(0, 0, 0, 0).byte(opLdSC).u16(2).byte(0xFF).byte(0xFE).bytes()

	_, _, _, err := Load(buf)
	require.Error(t, err)
	var se *StringEncodeError
	require.ErrorAs(t, err, &se)
}

func TestLoadBuildsFunctionBlocks(t *testing.T) {
	main := newAsm().header(0, 0, 0, 0).byte(opExt)
	fn := newAsm().header(1, 0, 0, 0).byte(opRet)

	buf := append(main.bytes(), append([]byte{opFunc}, fn.bytes()...)...)

	prog, progMem, _, err := Load(buf)
	require.NoError(t, err)
	require.Len(t, prog.Func, 1)
	assert.Equal(t, uint16(1), progMem.Func[0].Integer)
	assert.Len(t, prog.Func[0].Code, 1)
	assert.Equal(t, CtrlRet, prog.Func[0].Code[0].Control)
}

func TestLoadLabelsAreIndexedByTarget(t *testing.T) {
	buf := newAsm().
		header(0, 0, 0, 0).
		byte(opJump).u16(7).
		byte(opLbl).u16(7).
		byte(opExt).
		bytes()

	prog, _, _, err := Load(buf)
	require.NoError(t, err)
	idx, ok := prog.Body.Labels[7]
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}
