package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReaderTokenizesAcrossLines(t *testing.T) {
	r := NewLineReader(strings.NewReader("1 2\n3\n"))

	v1, err := r.NextInteger()
	require.Nil(t, err)
	assert.Equal(t, int32(1), v1)

	v2, err := r.NextInteger()
	require.Nil(t, err)
	assert.Equal(t, int32(2), v2)

	v3, err := r.NextInteger()
	require.Nil(t, err)
	assert.Equal(t, int32(3), v3)

	_, err = r.NextInteger()
	require.NotNil(t, err)
	assert.True(t, err.EOF)
}

func TestLineReaderBooleanIsCaseSensitive(t *testing.T) {
	r := NewLineReader(strings.NewReader("true false TRUE\n"))

	v, err := r.NextBool()
	require.Nil(t, err)
	assert.True(t, v)

	v, err = r.NextBool()
	require.Nil(t, err)
	assert.False(t, v)

	_, err = r.NextBool()
	require.NotNil(t, err)
	assert.Equal(t, "TRUE", err.Text)
}

func TestLineReaderRealParsing(t *testing.T) {
	r := NewLineReader(strings.NewReader("3.5\n"))
	v, err := r.NextReal()
	require.Nil(t, err)
	assert.Equal(t, 3.5, v)
}

func TestLineReaderIntegerParseErrorReportsLexeme(t *testing.T) {
	r := NewLineReader(strings.NewReader("abc\n"))
	_, err := r.NextInteger()
	require.NotNil(t, err)
	assert.Equal(t, "abc", err.Text)
	assert.Equal(t, KindInteger, err.Kind)
}
