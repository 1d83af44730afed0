package gtoken

import (
	"sort"
	"strings"

	"github.com/gcode-lsp/gcode-ls/internal/position"
)

// TokenizeLine tokenizes a single logical line of G-code. lineBaseOffset is
// the absolute byte offset of lineText[0] within the containing document,
// and lineNumber is the 0-based source line. Whitespace runs between tokens
// are not themselves tokenized.
func TokenizeLine(lineText string, lineBaseOffset int, lineNumber uint32) []Token {
	var tokens []Token
	i := 0
	n := len(lineText)
	seenToken := false

	for i < n {
		c := lineText[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}

		start := i
		var tok Token

		switch {
		case c == ';':
			i = n
			tok = Token{Kind: Comment, Text: lineText[start:i]}

		case c == '(':
			end := strings.IndexByte(lineText[start:], ')')
			if end < 0 {
				i = n
			} else {
				i = start + end + 1
			}
			tok = Token{Kind: Comment, Text: lineText[start:i]}

		default:
			if !seenToken {
				if matchLen, ok := matchCommand(lineText[start:]); ok {
					i = start + matchLen
					tok = Token{Kind: Command, Text: lineText[start:i]}
					break
				}
			}
			valueLen, malformed := scanParameter(lineText[start:])
			i = start + valueLen
			tok = Token{Kind: Parameter, Text: lineText[start:i], Malformed: malformed}
		}

		seenToken = true
		tok.ByteStart = lineBaseOffset + start
		tok.ByteEnd = lineBaseOffset + i
		tok.Line = lineNumber
		tok.Range = position.Range{
			Start: position.LineColToPosition(lineText, lineNumber, start),
			End:   position.LineColToPosition(lineText, lineNumber, i),
		}
		tokens = append(tokens, tok)
	}

	return tokens
}

// matchCommand matches the command grammar [GMT](digit+)(.digit+)? at the
// start of s, case-insensitively, and returns the matched length.
func matchCommand(s string) (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	c := s[0]
	if !(c == 'G' || c == 'g' || c == 'M' || c == 'm' || c == 'T' || c == 't') {
		return 0, false
	}

	i := 1
	digitsStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == digitsStart {
		return 0, false
	}

	if i < len(s) && s[i] == '.' {
		j := i + 1
		fracStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > fracStart {
			i = j
		}
	}

	return i, true
}

// scanParameter consumes a parameter token: a single letter followed by an
// optional signed decimal literal, a quoted string, or nothing (bare). Any
// other trailing run of non-whitespace bytes is consumed and flagged
// malformed rather than left untokenized, so a line is never abandoned.
func scanParameter(s string) (length int, malformed bool) {
	if len(s) == 0 {
		return 0, false
	}
	if !isLetter(s[0]) {
		// Not even a letter-led token: swallow the run as malformed so the
		// tokenizer always makes forward progress.
		return nonWhitespaceRun(s), true
	}

	i := 1
	if i >= len(s) || isWhitespace(s[i]) {
		return i, false // bare letter parameter, e.g. "F"
	}

	if s[i] == '"' {
		j := i + 1
		for j < len(s) && s[j] != '"' {
			j++
		}
		if j < len(s) {
			j++ // include closing quote
			return j, false
		}
		return nonWhitespaceRun(s), true // unterminated string literal
	}

	if numLen, ok := matchNumber(s[i:]); ok {
		end := i + numLen
		if end < len(s) && !isWhitespace(s[end]) {
			// trailing garbage glued onto a valid-looking number, e.g. "X10x"
			return nonWhitespaceRun(s), true
		}
		return end, false
	}

	return nonWhitespaceRun(s), true
}

// matchNumber matches an optionally-signed decimal literal -?\d+(\.\d+)?.
func matchNumber(s string) (int, bool) {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	digitsStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == digitsStart {
		return 0, false
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		fracStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > fracStart {
			i = j
		}
	}
	return i, true
}

func nonWhitespaceRun(s string) int {
	i := 0
	for i < len(s) && !isWhitespace(s[i]) {
		i++
	}
	return i
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isWhitespace(c byte) bool { return c == ' ' || c == '\t' }
func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// TokenizeText tokenizes an entire in-memory document, splitting it into
// physical lines terminated by "\n", "\r\n", or end-of-input, and
// tokenizing each in source order.
func TokenizeText(text string) []Token {
	var tokens []Token
	offset := 0
	line := uint32(0)

	for offset <= len(text) {
		lineText, consumed, isLast := nextLine(text[offset:])
		tokens = append(tokens, TokenizeLine(lineText, offset, line)...)
		offset += consumed
		line++
		if isLast {
			break
		}
	}

	return tokens
}

// nextLine splits off the next physical line from s, returning the line's
// text (terminator excluded), the number of bytes consumed (terminator
// included), and whether this was the final line in s.
func nextLine(s string) (lineText string, consumed int, isLast bool) {
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return s, len(s), true
	}
	end := idx
	if end > 0 && s[end-1] == '\r' {
		end--
	}
	return s[:end], idx + 1, len(s) == idx+1
}

// TokenAt returns the token whose [ByteStart, ByteEnd) span contains
// byteOffset, assuming tokens is sorted by ByteStart (as produced by
// TokenizeText/TokenizeLine/a Stream). Returns false if byteOffset falls in
// a whitespace gap, a line terminator, or outside the token range.
func TokenAt(tokens []Token, byteOffset int) (Token, bool) {
	i := sort.Search(len(tokens), func(i int) bool {
		return tokens[i].ByteEnd > byteOffset
	})
	if i < len(tokens) && tokens[i].Contains(byteOffset) {
		return tokens[i], true
	}
	return Token{}, false
}
