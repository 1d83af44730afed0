package gtoken

import (
	"bufio"
	"io"
)

// Stream is a pull-style, restartable lazy sequence of tokens over an
// io.Reader. It holds at most one line's worth of pending tokens at a
// time, so memory use is bounded by the longest line rather than the
// whole document — this is the "streaming" half of the tokenizer, used
// when a document is too large to comfortably parse as one in-memory
// string. There is no goroutine or channel involved: Next is a plain
// method call, safe to stop calling at any line boundary and resume later
// with NewStreamAt against a fresh reader positioned at that line.
type Stream struct {
	r       *bufio.Reader
	offset  int
	line    uint32
	pending []Token
	done    bool
}

// NewStream wraps r in a Stream starting at byte offset 0, line 0.
func NewStream(r io.Reader) *Stream {
	return &Stream{r: bufio.NewReader(r)}
}

// NewStreamAt wraps r, which is positioned at the start of a line, in a
// Stream whose tokens are numbered from the given absolute byte offset and
// 0-based line number.
func NewStreamAt(r io.Reader, offset int, line uint32) *Stream {
	return &Stream{r: bufio.NewReader(r), offset: offset, line: line}
}

// Next returns the next token in the stream. The second return value is
// false once the stream is exhausted; err is non-nil only on a read error
// other than io.EOF.
func (s *Stream) Next() (Token, bool, error) {
	for len(s.pending) == 0 {
		if s.done {
			return Token{}, false, nil
		}
		if err := s.fill(); err != nil {
			return Token{}, false, err
		}
	}
	tok := s.pending[0]
	s.pending = s.pending[1:]
	return tok, true, nil
}

// fill reads and tokenizes the next physical line into s.pending.
func (s *Stream) fill() error {
	raw, err := s.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}

	lineText := raw
	consumed := len(raw)
	if n := len(raw); n > 0 && raw[n-1] == '\n' {
		lineText = raw[:n-1]
		if m := len(lineText); m > 0 && lineText[m-1] == '\r' {
			lineText = lineText[:m-1]
		}
	} else {
		// No trailing newline: this is the final, possibly unterminated line.
		s.done = true
	}
	if err == io.EOF && raw == "" {
		s.done = true
		return nil
	}

	s.pending = TokenizeLine(lineText, s.offset, s.line)
	s.offset += consumed
	s.line++
	return nil
}
