// Package automaton provides the finite-state automata used by the lexer
// generator: a byte-alphabet NFA with ε-transitions and the transformations
// that turn it into a deterministic automaton, along with DFA union by
// product construction and sink-state detection.
//
// All automata here process input byte-by-byte, giving an alphabet of 256
// symbols. NFAs additionally transition on Epsilon, which consumes no input.
package automaton

// NumChars is the size of the byte alphabet. Every byte value 0..NumChars-1
// is a valid input symbol.
const NumChars = 256

// Epsilon is the symbol of an ε-transition, where an NFA changes state
// without consuming any input. It is valid only in NFAs; a DFA transition
// table never contains an entry for it.
const Epsilon = NumChars

// NoTransition is the sentinel stored in a DFA transition table entry when
// there is no transition for that (state, symbol) pair. It is also the value
// of a DFA's initial state before any state has been added.
const NoTransition = -1
