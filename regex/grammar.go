// Package regex compiles the generator's regular-expression surface to DFAs.
//
// The surface is byte-oriented. Its context-free grammar is:
//
//	S' -> Disjunction
//
//	Disjunction -> Disjunction '|' Concatenation
//	Disjunction -> Concatenation
//
//	Concatenation -> Concatenation Quantifier
//	Concatenation -> Quantifier
//
//	Quantifier -> Factor
//	Quantifier -> Factor '*'
//	Quantifier -> Factor '+'
//	Quantifier -> Factor '?'
//
//	Factor -> 'CHAR'
//	Factor -> '(' Disjunction ')'
//	Factor -> '[' Class ']'
//
//	Class -> HalfClass '^' HalfClass
//	Class -> HalfClass
//
//	HalfClass -> HalfClass CharacterRange
//	HalfClass -> CharacterRange
//
//	CharacterRange -> 'CHAR' '-' 'CHAR'
//	CharacterRange -> 'CHAR'
//
// The compiler is self-hosted: the LR(1) table for this grammar is produced
// by the parse package the first time a compilation runs, and a small
// shift/reduce loop then drives the Thompson-construction reductions that
// assemble an ε-NFA for the expression.
package regex

import "github.com/johnrickE/compylr/grammar"

// Terminal symbols of the regex grammar, in allocation order.
var (
	regexTerminals = grammar.NewTerminalSet()

	tcBar      = regexTerminals.Add()
	tcAsterisk = regexTerminals.Add()
	tcPlus     = regexTerminals.Add()
	tcQuestion = regexTerminals.Add()
	tcChar     = regexTerminals.Add()
	tcLParen   = regexTerminals.Add()
	tcRParen   = regexTerminals.Add()
	tcLSquare  = regexTerminals.Add()
	tcRSquare  = regexTerminals.Add()
	tcCaret    = regexTerminals.Add()
	tcHyphen   = regexTerminals.Add()
)

// Non-terminal symbols of the regex grammar, in allocation order.
var (
	regexNonTerminals = grammar.NewNonTerminalSet()

	ntDisjunction    = regexNonTerminals.Add()
	ntConcatenation  = regexNonTerminals.Add()
	ntQuantifier     = regexNonTerminals.Add()
	ntFactor         = regexNonTerminals.Add()
	ntClass          = regexNonTerminals.Add()
	ntHalfClass      = regexNonTerminals.Add()
	ntCharacterRange = regexNonTerminals.Add()
)

// specialChars are the bytes that tokenize as structural terminals when they
// appear outside an escape. Escaping one with '\' makes it an ordinary
// character.
var specialChars = map[byte]grammar.Symbol{
	'|': tcBar,
	'*': tcAsterisk,
	'+': tcPlus,
	'?': tcQuestion,
	'(': tcLParen,
	')': tcRParen,
	'[': tcLSquare,
	']': tcRSquare,
	'^': tcCaret,
	'-': tcHyphen,
}

// regexRules gives the production rules of the regex grammar along with the
// reduction callback for each, both in production-index order. Rule 0 is the
// goal rule.
func regexRules() ([]grammar.Rule, []reduceFn) {
	rules := []grammar.Rule{
		{LHS: grammar.Goal, RHS: []grammar.Symbol{ntDisjunction}, Callback: "finishExpression"},

		{LHS: ntDisjunction, RHS: []grammar.Symbol{ntDisjunction, tcBar, ntConcatenation}, Callback: "alternate"},
		{LHS: ntDisjunction, RHS: []grammar.Symbol{ntConcatenation}, Callback: "takeFirst"},

		{LHS: ntConcatenation, RHS: []grammar.Symbol{ntConcatenation, ntQuantifier}, Callback: "concatenate"},
		{LHS: ntConcatenation, RHS: []grammar.Symbol{ntQuantifier}, Callback: "takeFirst"},

		{LHS: ntQuantifier, RHS: []grammar.Symbol{ntFactor}, Callback: "takeFirst"},
		{LHS: ntQuantifier, RHS: []grammar.Symbol{ntFactor, tcAsterisk}, Callback: "kleeneStar"},
		{LHS: ntQuantifier, RHS: []grammar.Symbol{ntFactor, tcPlus}, Callback: "kleenePlus"},
		{LHS: ntQuantifier, RHS: []grammar.Symbol{ntFactor, tcQuestion}, Callback: "optional"},

		{LHS: ntFactor, RHS: []grammar.Symbol{tcChar}, Callback: "literalChar"},
		{LHS: ntFactor, RHS: []grammar.Symbol{tcLParen, ntDisjunction, tcRParen}, Callback: "takeSecond"},
		{LHS: ntFactor, RHS: []grammar.Symbol{tcLSquare, ntClass, tcRSquare}, Callback: "characterClass"},

		{LHS: ntClass, RHS: []grammar.Symbol{ntHalfClass, tcCaret, ntHalfClass}, Callback: "classDifference"},
		{LHS: ntClass, RHS: []grammar.Symbol{ntHalfClass}, Callback: "takeFirst"},

		{LHS: ntHalfClass, RHS: []grammar.Symbol{ntHalfClass, ntCharacterRange}, Callback: "mergeClass"},
		{LHS: ntHalfClass, RHS: []grammar.Symbol{ntCharacterRange}, Callback: "takeFirst"},

		{LHS: ntCharacterRange, RHS: []grammar.Symbol{tcChar, tcHyphen, tcChar}, Callback: "charRange"},
		{LHS: ntCharacterRange, RHS: []grammar.Symbol{tcChar}, Callback: "singleChar"},
	}

	callbacks := []reduceFn{
		finishExpression,

		alternate,
		takeFirst,

		concatenate,
		takeFirst,

		takeFirst,
		kleeneStar,
		kleenePlus,
		optional,

		literalChar,
		takeSecond,
		characterClass,

		classDifference,
		takeFirst,

		mergeClass,
		takeFirst,

		charRange,
		singleChar,
	}

	return rules, callbacks
}
