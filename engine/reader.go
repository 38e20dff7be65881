package engine

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// LineReader tokenizes whitespace-separated lexemes off an underlying
// reader one line at a time, buffering whatever remains of a line across
// calls so Input commands that read multiple values per line (e.g. two
// integers separated by a space) each consume exactly one token.
type LineReader struct {
	src     *bufio.Reader
	pending []string
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{src: bufio.NewReader(r)}
}

// nextToken returns the next whitespace-delimited token, reading a fresh
// line from the underlying reader whenever the buffered line is exhausted.
// Matches the three-state scan the source tokenizer performs per line
// (skip leading whitespace, accumulate a token, stop at whitespace or EOL)
// by delegating to strings.Fields, which implements the same state machine.
func (l *LineReader) nextToken() (string, *ReadError) {
	for len(l.pending) == 0 {
		line, err := l.src.ReadString('\n')
		if line == "" && err != nil {
			return "", &ReadError{EOF: true}
		}
		l.pending = strings.Fields(line)
		if err != nil && len(l.pending) == 0 {
			return "", &ReadError{EOF: true}
		}
	}
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok, nil
}

// NextInteger reads and parses the next token as a signed 32-bit integer.
func (l *LineReader) NextInteger() (int32, *ReadError) {
	tok, rerr := l.nextToken()
	if rerr != nil {
		return 0, rerr
	}
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, &ReadError{Kind: KindInteger, Text: tok}
	}
	return int32(v), nil
}

// NextReal reads and parses the next token as a float64.
func (l *LineReader) NextReal() (float64, *ReadError) {
	tok, rerr := l.nextToken()
	if rerr != nil {
		return 0, rerr
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &ReadError{Kind: KindReal, Text: tok}
	}
	return v, nil
}

// NextBool reads and parses the next token as a bool. Only the exact
// lowercase lexemes "true" and "false" are accepted, matching the source
// language's case-sensitive boolean literal parsing.
func (l *LineReader) NextBool() (bool, *ReadError) {
	tok, rerr := l.nextToken()
	if rerr != nil {
		return false, rerr
	}
	switch tok {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &ReadError{Kind: KindBool, Text: tok}
	}
}

// NextString reads the next whitespace-delimited token verbatim; the source
// language has no quoted-string input syntax, a string read is simply the
// next token taken as-is.
func (l *LineReader) NextString() (string, *ReadError) {
	return l.nextToken()
}
