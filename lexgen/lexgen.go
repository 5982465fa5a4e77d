// Package lexgen generates the combined tokenizer DFA for a list of token
// specifications. Each token's regular expression is compiled to its own DFA
// and folded into a single automaton by product-construction union, together
// with a DFA recognizing whitespace; accepting states are tagged with the
// terminal of the token they recognize.
package lexgen

import (
	"fmt"

	"github.com/johnrickE/compylr/automaton"
	"github.com/johnrickE/compylr/grammar"
	"github.com/johnrickE/compylr/internal/util"
	"github.com/johnrickE/compylr/regex"
)

// Whitespace is the reserved output tag of the whitespace token, which a
// lexer runtime discards rather than emitting. Terminals are all negative,
// so tag 0 can never collide with one.
const Whitespace = 0

// whitespacePattern matches one or more space, newline, or tab bytes.
const whitespacePattern = `[ \n\t]+`

// TokenSpec pairs a terminal with the regular expression defining its
// lexemes.
type TokenSpec struct {
	Terminal grammar.Symbol
	Pattern  string
}

// Conflict is an accepting state of the combined DFA that carries more than
// one terminal tag: two or more token patterns match the same lexeme. All
// tags are retained so callers may pick by priority; the generator never
// chooses.
type Conflict struct {
	State int
	Tags  []int
}

// Generator computes the combined tokenizer DFA for a token list.
type Generator struct {
	tokens []TokenSpec
	dfa    *automaton.DFA
}

// New compiles every token's pattern and unions the results with the
// whitespace DFA. A pattern that fails to compile is a fatal input error.
func New(tokens []TokenSpec) (*Generator, error) {
	gen := &Generator{tokens: tokens}

	dfa, err := regex.Compile(whitespacePattern, Whitespace)
	if err != nil {
		// the whitespace pattern is fixed, so this cannot be the caller's doing
		panic(fmt.Sprintf("compiling whitespace pattern: %v", err))
	}

	for _, tok := range tokens {
		if !tok.Terminal.IsTerminal() || tok.Terminal == grammar.End || tok.Terminal == grammar.Nil {
			return nil, fmt.Errorf("token %q: %d is not an allocated terminal", tok.Pattern, tok.Terminal)
		}

		tokDFA, err := regex.Compile(tok.Pattern, int(tok.Terminal))
		if err != nil {
			return nil, err
		}
		dfa = dfa.Union(tokDFA)
	}

	gen.dfa = dfa.Minimize()
	return gen, nil
}

// DFA returns the combined tokenizer DFA, including its sink states.
func (gen *Generator) DFA() *automaton.DFA {
	return gen.dfa
}

// Conflicts returns every accepting state carrying more than one tag, sorted
// by state; each conflict's tags are sorted ascending.
func (gen *Generator) Conflicts() []Conflict {
	var conflicts []Conflict

	for _, state := range util.OrderedKeys(gen.dfa.Outputs) {
		tags := gen.dfa.Outputs[state]
		if tags.Len() > 1 {
			conflicts = append(conflicts, Conflict{State: state, Tags: util.SortedElements(tags)})
		}
	}

	return conflicts
}

// Table emits the frozen lexer table: the initial state, the transition map
// with sink states compacted away, and the output tags of each accepting
// state.
func (gen *Generator) Table() *Table {
	dfa := gen.dfa

	sinkStates := util.NewKeySet[int]()
	for state := 0; state < dfa.NumStates(); state++ {
		if dfa.IsSinkState(state) {
			sinkStates.Add(state)
		}
	}

	table := &Table{
		Initial:     dfa.Start,
		Transitions: map[Move]int{},
		Outputs:     map[int][]int{},
	}

	for state := 0; state < dfa.NumStates(); state++ {
		if sinkStates.Has(state) {
			continue
		}
		for c := 0; c < automaton.NumChars; c++ {
			next := dfa.Next(state, c)
			if next == automaton.NoTransition || sinkStates.Has(next) {
				continue
			}
			table.Transitions[Move{State: state, Input: byte(c)}] = next
		}
	}

	for state, tags := range dfa.Outputs {
		table.Outputs[state] = util.SortedElements(tags)
	}

	return table
}
