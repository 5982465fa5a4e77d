package regex

import (
	"github.com/johnrickE/compylr/automaton"
	"github.com/johnrickE/compylr/internal/util"
)

// fragment is a partially built piece of the expression's ε-NFA: the pair of
// entry and exit states that a sub-expression occupies in the shared builder.
// Fragments are the semantic values that flow through the reductions.
type fragment struct {
	entry int
	exit  int
}

// builder carries the shared ε-NFA that the reductions assemble fragments
// into, along with the terminal tag the finished DFA will accept with. One
// builder belongs to exactly one compilation.
type builder struct {
	nfa      *automaton.NFA
	terminal int
}

// reduceFn is a reduction callback of the regex grammar. terms holds the
// semantic values of the RHS symbols in order; the returned value becomes the
// semantic value of the LHS.
type reduceFn func(terms []any, b *builder) any

// finishExpression handles S' -> Disjunction. The whole expression has been
// assembled into the builder's ε-NFA; set its initial and accepting states,
// then eliminate ε-transitions and determinize.
func finishExpression(terms []any, b *builder) any {
	frag := terms[0].(fragment)
	b.nfa.Start = frag.entry
	b.nfa.AddOutput(frag.exit, b.terminal)
	return b.nfa.RemoveEpsilons().ToDFA()
}

// alternate handles Disjunction -> Disjunction '|' Concatenation with the
// 'a|b' transformation from Thompson's construction.
func alternate(terms []any, b *builder) any {
	a := terms[0].(fragment)
	c := terms[2].(fragment)
	q0 := b.nfa.AddState()
	q1 := b.nfa.AddState()
	b.nfa.AddTransition(q0, a.entry, automaton.Epsilon)
	b.nfa.AddTransition(q0, c.entry, automaton.Epsilon)
	b.nfa.AddTransition(a.exit, q1, automaton.Epsilon)
	b.nfa.AddTransition(c.exit, q1, automaton.Epsilon)
	return fragment{q0, q1}
}

// concatenate handles Concatenation -> Concatenation Quantifier with the
// 'ab' transformation from Thompson's construction.
func concatenate(terms []any, b *builder) any {
	a := terms[0].(fragment)
	c := terms[1].(fragment)
	b.nfa.AddTransition(a.exit, c.entry, automaton.Epsilon)
	return fragment{a.entry, c.exit}
}

// kleeneStar handles Quantifier -> Factor '*' with the 'a*' transformation
// from Thompson's construction.
func kleeneStar(terms []any, b *builder) any {
	a := terms[0].(fragment)
	q0 := b.nfa.AddState()
	q1 := b.nfa.AddState()
	b.nfa.AddTransition(q0, q1, automaton.Epsilon)
	b.nfa.AddTransition(a.exit, a.entry, automaton.Epsilon)
	b.nfa.AddTransition(q0, a.entry, automaton.Epsilon)
	b.nfa.AddTransition(a.exit, q1, automaton.Epsilon)
	return fragment{q0, q1}
}

// kleenePlus handles Quantifier -> Factor '+' with the 'a+' transformation
// from Thompson's construction.
func kleenePlus(terms []any, b *builder) any {
	a := terms[0].(fragment)
	q0 := b.nfa.AddState()
	q1 := b.nfa.AddState()
	b.nfa.AddTransition(q0, a.entry, automaton.Epsilon)
	b.nfa.AddTransition(a.exit, q1, automaton.Epsilon)
	b.nfa.AddTransition(a.exit, a.entry, automaton.Epsilon)
	return fragment{q0, q1}
}

// optional handles Quantifier -> Factor '?' with the 'a?' transformation from
// Thompson's construction.
func optional(terms []any, b *builder) any {
	a := terms[0].(fragment)
	q0 := b.nfa.AddState()
	q1 := b.nfa.AddState()
	b.nfa.AddTransition(q0, a.entry, automaton.Epsilon)
	b.nfa.AddTransition(a.exit, q1, automaton.Epsilon)
	b.nfa.AddTransition(q0, q1, automaton.Epsilon)
	return fragment{q0, q1}
}

// literalChar handles Factor -> 'CHAR' with the single-symbol transformation
// from Thompson's construction.
func literalChar(terms []any, b *builder) any {
	q0 := b.nfa.AddState()
	q1 := b.nfa.AddState()
	b.nfa.AddTransition(q0, q1, terms[0].(int))
	return fragment{q0, q1}
}

// characterClass handles Factor -> '[' Class ']': a two-state fragment with
// one edge per byte in the class.
func characterClass(terms []any, b *builder) any {
	q0 := b.nfa.AddState()
	q1 := b.nfa.AddState()
	for _, c := range util.SortedElements(terms[1].(util.KeySet[int])) {
		b.nfa.AddTransition(q0, q1, c)
	}
	return fragment{q0, q1}
}

// classDifference handles Class -> HalfClass '^' HalfClass: the bytes of the
// first half-class minus the bytes of the second. This is set subtraction,
// not regex negation.
func classDifference(terms []any, b *builder) any {
	return terms[0].(util.KeySet[int]).Difference(terms[2].(util.KeySet[int]))
}

// mergeClass handles HalfClass -> HalfClass CharacterRange.
func mergeClass(terms []any, b *builder) any {
	chars := terms[0].(util.KeySet[int])
	chars.AddAll(terms[1].(util.KeySet[int]))
	return chars
}

// charRange handles CharacterRange -> 'CHAR' '-' 'CHAR': the inclusive byte
// range between the two characters.
func charRange(terms []any, b *builder) any {
	chars := util.NewKeySet[int]()
	for c := terms[0].(int); c <= terms[2].(int); c++ {
		chars.Add(c)
	}
	return chars
}

// singleChar handles CharacterRange -> 'CHAR'.
func singleChar(terms []any, b *builder) any {
	return util.KeySetOf([]int{terms[0].(int)})
}

// takeFirst passes the first RHS value through unchanged. It serves every
// unit rule of the grammar.
func takeFirst(terms []any, b *builder) any {
	return terms[0]
}

// takeSecond passes the second RHS value through; it serves the
// parenthesized-group rule, whose first and third symbols are the
// parentheses.
func takeSecond(terms []any, b *builder) any {
	return terms[1]
}
