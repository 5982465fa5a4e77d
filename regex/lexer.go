package regex

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/johnrickE/compylr/grammar"
)

// ErrLexer flags an error from the expression tokenizer: an unterminated
// escape or a bad hex digit after '\x'.
var ErrLexer = errors.New("invalid character sequence")

// ErrSyntax flags an expression that tokenizes but does not parse.
var ErrSyntax = errors.New("syntax error")

// token is one lexed unit of a regular expression: either a structural
// terminal or a CHAR, with the byte value of the character.
type token struct {
	sym   grammar.Symbol
	value int
}

// lexState is one state of the tokenizer's automaton. It consumes a byte and
// gives the state to continue in, or nil when the current token is complete.
type lexState func(c byte) (lexState, error)

// lexer is the hand-written tokenizer for the regex surface. It recognizes a
// single "character" token per call, which may be an escape sequence, with a
// 4-state automaton.
type lexer struct {
	source   []byte
	position int
}

func newLexer(source []byte) *lexer {
	return &lexer{source: source}
}

// lex returns the next token in the stream, or a token with symbol
// grammar.End at end of input.
func (lx *lexer) lex() (token, error) {
	if lx.position >= len(lx.source) {
		return token{sym: grammar.End}, nil
	}

	state := lx.state0
	prev := lx.position
	for state != nil {
		c, err := lx.consume()
		if err != nil {
			return token{}, err
		}
		state, err = state(c)
		if err != nil {
			return token{}, err
		}
	}

	value := lx.source[prev:lx.position]
	if len(value) == 1 {
		if sym, ok := specialChars[value[0]]; ok {
			return token{sym: sym, value: int(value[0])}, nil
		}
	}

	cp, err := codepoint(value)
	if err != nil {
		return token{}, err
	}
	return token{sym: tcChar, value: cp}, nil
}

// consume reads a single input byte.
func (lx *lexer) consume() (byte, error) {
	if lx.position >= len(lx.source) {
		return 0, fmt.Errorf("%w: unterminated escape at end of expression", ErrLexer)
	}
	c := lx.source[lx.position]
	lx.position++
	return c, nil
}

// Each of the following methods implements a state in the tokenizer's
// automaton.

func (lx *lexer) state0(c byte) (lexState, error) {
	if c == '\\' {
		return lx.state1, nil
	}
	return nil, nil
}

func (lx *lexer) state1(c byte) (lexState, error) {
	if c == 'x' {
		return lx.state2, nil
	}
	return nil, nil
}

func (lx *lexer) state2(c byte) (lexState, error) {
	if isHexDigit(c) {
		return lx.state3, nil
	}
	return nil, fmt.Errorf("%w: %q is not a hex digit in \\x escape", ErrLexer, string(c))
}

func (lx *lexer) state3(c byte) (lexState, error) {
	if isHexDigit(c) {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q is not a hex digit in \\x escape", ErrLexer, string(c))
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// codepoint gives the byte value of a lexed character, resolving escapes:
// '\n' and '\t' are their control characters, '\xHH' is the byte with that
// hex value, and '\' followed by any other byte is that byte itself.
func codepoint(value []byte) (int, error) {
	if len(value) >= 2 && value[0] == '\\' {
		switch value[1] {
		case 'n':
			return '\n', nil
		case 't':
			return '\t', nil
		case 'x':
			v, err := strconv.ParseUint(string(value[2:]), 16, 8)
			if err != nil {
				return 0, fmt.Errorf("%w: bad hex escape %q", ErrLexer, string(value))
			}
			return int(v), nil
		default:
			return int(value[1]), nil
		}
	}
	return int(value[0]), nil
}
