// Package grammar contains the symbol model for context-free grammars along
// with productions, reduction records, and FIRST-set computation. It is the
// input side of the parsing-table generator in the parse package.
package grammar

// Symbol identifies a terminal or non-terminal symbol of a grammar. The two
// kinds live in disjoint integer ranges so that telling them apart is a sign
// check: terminals are negative, non-terminals are non-negative.
//
// Three values are reserved and are never handed out by the allocators:
//
//   - End marks end-of-input. It is the lookahead of the initial LR(1) item
//     and the only symbol an ACCEPT cell may be keyed on.
//   - Nil marks the empty string inside FIRST sets. It never appears in a
//     production or a parsing table.
//   - Goal is the augmented start symbol; it may appear only as the LHS of
//     rule 0.
type Symbol int

const (
	End  Symbol = -1
	Nil  Symbol = -2
	Goal Symbol = 0
)

// IsTerminal returns whether the symbol lies in the terminal range. Note that
// this is true for the reserved End and Nil values as well as for allocated
// terminals.
func (sym Symbol) IsTerminal() bool {
	return sym < 0
}

// TerminalSet allocates terminal symbols. Allocation starts just past the
// reserved values, at -3, and counts down, so every allocated terminal is
// distinct from End and Nil.
type TerminalSet struct {
	next Symbol
}

func NewTerminalSet() *TerminalSet {
	return &TerminalSet{next: Nil}
}

// Add allocates a fresh terminal symbol and returns it.
func (ts *TerminalSet) Add() Symbol {
	ts.next--
	return ts.next
}

// Has returns whether sym has been allocated by this set. The reserved End
// and Nil values are not members.
func (ts *TerminalSet) Has(sym Symbol) bool {
	return sym < Nil && sym >= ts.next
}

// Len returns the number of allocated terminals.
func (ts *TerminalSet) Len() int {
	return int(Nil - ts.next)
}

// NonTerminalSet allocates non-terminal symbols. Allocation starts just past
// the reserved Goal value, at 1, and counts up.
type NonTerminalSet struct {
	next Symbol
}

func NewNonTerminalSet() *NonTerminalSet {
	return &NonTerminalSet{next: Goal}
}

// Add allocates a fresh non-terminal symbol and returns it.
func (ns *NonTerminalSet) Add() Symbol {
	ns.next++
	return ns.next
}

// Has returns whether sym has been allocated by this set. The reserved Goal
// value is not a member.
func (ns *NonTerminalSet) Has(sym Symbol) bool {
	return sym > Goal && sym <= ns.next
}

// Len returns the number of allocated non-terminals.
func (ns *NonTerminalSet) Len() int {
	return int(ns.next - Goal)
}
