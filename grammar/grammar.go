package grammar

import (
	"fmt"
	"strings"
)

// Production is a single production rule of a context-free grammar. Index is
// the rule's position in the grammar's rule list and uniquely identifies it.
// RHS may be empty for an ε-production.
//
// A Production is treated as immutable once the Grammar holding it has been
// built.
type Production struct {
	Index int
	LHS   Symbol
	RHS   []Symbol
}

func (p Production) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d ->", p.LHS))
	if len(p.RHS) == 0 {
		sb.WriteString(" ε")
	}
	for i := range p.RHS {
		sb.WriteString(fmt.Sprintf(" %d", p.RHS[i]))
	}

	return sb.String()
}

func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		otherPtr, ok := o.(*Production)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if p.Index != other.Index {
		return false
	} else if p.LHS != other.LHS {
		return false
	} else if len(p.RHS) != len(other.RHS) {
		return false
	}

	for i := range p.RHS {
		if p.RHS[i] != other.RHS[i] {
			return false
		}
	}

	return true
}

// Rule is the input form of a production: the LHS, the RHS, and the name of
// the reduction callback bound to the rule. The callback identity is opaque
// to the generator; it is recorded in the reduction buffer and never invoked.
type Rule struct {
	LHS      Symbol
	RHS      []Symbol
	Callback string
}

// Reduction is one entry of the reduction lookup buffer. It records what a
// parser runtime needs to apply a reduce action for the rule at the same
// index: the symbol to reduce to, how many semantic values to pop, and the
// identity of the callback to dispatch to.
type Reduction struct {
	LHS      Symbol
	RHSLen   int
	Callback string
}

// Grammar is a context-free grammar over allocated terminal and non-terminal
// symbols, with one reduction record per rule. Rule 0 is always the augmented
// start rule Goal -> S.
type Grammar struct {
	terminals    *TerminalSet
	nonTerminals *NonTerminalSet
	rules        []Production
	reductions   []Reduction
}

// New builds a Grammar from the given rule list. The rule list is validated:
// the first rule must have the reserved Goal symbol as its LHS and a single
// non-terminal as its RHS, every other LHS must be an allocated non-terminal,
// and every RHS symbol must be an allocated terminal or non-terminal. A
// violation is a fatal input error and aborts construction.
func New(terminals *TerminalSet, nonTerminals *NonTerminalSet, rules []Rule) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("grammar has no rules")
	}

	goalRule := rules[0]
	if goalRule.LHS != Goal {
		return nil, fmt.Errorf("rule 0 must have the goal symbol as its LHS, not %d", goalRule.LHS)
	}
	if len(goalRule.RHS) != 1 || !nonTerminals.Has(goalRule.RHS[0]) {
		return nil, fmt.Errorf("rule 0 must produce exactly one non-terminal (the start symbol)")
	}

	g := &Grammar{
		terminals:    terminals,
		nonTerminals: nonTerminals,
		rules:        make([]Production, 0, len(rules)),
		reductions:   make([]Reduction, 0, len(rules)),
	}

	for i := range rules {
		r := rules[i]

		if i > 0 && !nonTerminals.Has(r.LHS) {
			return nil, fmt.Errorf("rule %d: LHS %d is not an allocated non-terminal", i, r.LHS)
		}

		for j := range r.RHS {
			sym := r.RHS[j]
			if !terminals.Has(sym) && !nonTerminals.Has(sym) {
				return nil, fmt.Errorf("rule %d: RHS symbol %d is not an allocated terminal or non-terminal", i, sym)
			}
		}

		rhs := make([]Symbol, len(r.RHS))
		copy(rhs, r.RHS)

		g.rules = append(g.rules, Production{Index: i, LHS: r.LHS, RHS: rhs})
		g.reductions = append(g.reductions, Reduction{LHS: r.LHS, RHSLen: len(r.RHS), Callback: r.Callback})
	}

	return g, nil
}

// MustNew is like New but panics on a validation error. It is intended for
// grammars that are fixed at compile time.
func MustNew(terminals *TerminalSet, nonTerminals *NonTerminalSet, rules []Rule) *Grammar {
	g, err := New(terminals, nonTerminals, rules)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// Rules returns the productions of the grammar in index order.
func (g *Grammar) Rules() []Production {
	return g.rules
}

// Rule returns the production at the given index.
func (g *Grammar) Rule(index int) Production {
	return g.rules[index]
}

// Reductions returns the reduction lookup buffer: one entry per rule, in rule
// index order.
func (g *Grammar) Reductions() []Reduction {
	return g.reductions
}

// IsTerminal returns whether sym is a terminal allocated for this grammar.
func (g *Grammar) IsTerminal(sym Symbol) bool {
	return g.terminals.Has(sym)
}

// IsNonTerminal returns whether sym is a non-terminal allocated for this
// grammar.
func (g *Grammar) IsNonTerminal(sym Symbol) bool {
	return g.nonTerminals.Has(sym)
}

// NonTerminals returns the allocator holding this grammar's non-terminals.
func (g *Grammar) NonTerminals() *NonTerminalSet {
	return g.nonTerminals
}

// Terminals returns the allocator holding this grammar's terminals.
func (g *Grammar) Terminals() *TerminalSet {
	return g.terminals
}
