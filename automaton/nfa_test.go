package automaton

import (
	"testing"

	"github.com/johnrickE/compylr/internal/util"
	"github.com/stretchr/testify/assert"
)

// nfaAccepts simulates the NFA on the input the slow, direct way: track the
// set of possible states, expanding by ε-closure at every step.
func nfaAccepts(nfa *NFA, input string) bool {
	current := nfa.EpsilonClosure(nfa.Start)

	for i := 0; i < len(input); i++ {
		next := util.NewKeySet[int]()
		for state := range current {
			for target := range nfa.transitions[transKey{state, int(input[i])}] {
				next.AddAll(nfa.EpsilonClosure(target))
			}
		}
		current = next
		if current.Empty() {
			return false
		}
	}

	for state := range current {
		if nfa.Outputs[state].Len() > 0 {
			return true
		}
	}
	return false
}

// dfaAccepts walks the DFA over the input and reports whether it ends in an
// accepting state.
func dfaAccepts(dfa *DFA, input string) bool {
	state := dfa.Start
	for i := 0; i < len(input); i++ {
		state = dfa.Next(state, int(input[i]))
		if state == NoTransition {
			return false
		}
	}
	return dfa.Outputs[state].Len() > 0
}

// buildOptionalAB builds an ε-NFA for the language a?b using Thompson-style
// glue states.
func buildOptionalAB() *NFA {
	nfa := NewNFA()

	// a? part
	aEntry := nfa.AddState()
	aExit := nfa.AddState()
	nfa.AddTransition(aEntry, aExit, 'a')
	optEntry := nfa.AddState()
	optExit := nfa.AddState()
	nfa.AddTransition(optEntry, aEntry, Epsilon)
	nfa.AddTransition(aExit, optExit, Epsilon)
	nfa.AddTransition(optEntry, optExit, Epsilon)

	// b part, concatenated by ε
	bEntry := nfa.AddState()
	bExit := nfa.AddState()
	nfa.AddTransition(bEntry, bExit, 'b')
	nfa.AddTransition(optExit, bEntry, Epsilon)

	nfa.Start = optEntry
	nfa.AddOutput(bExit, 7)

	return nfa
}

func Test_EpsilonClosure(t *testing.T) {
	assert := assert.New(t)

	nfa := NewNFA()
	q0 := nfa.AddState()
	q1 := nfa.AddState()
	q2 := nfa.AddState()
	q3 := nfa.AddState()

	nfa.AddTransition(q0, q1, Epsilon)
	nfa.AddTransition(q1, q2, Epsilon)
	nfa.AddTransition(q2, q0, Epsilon) // cycle back to the start
	nfa.AddTransition(q1, q3, 'x')     // non-ε edges don't count

	closure := nfa.EpsilonClosure(q0)

	assert.True(closure.Has(q0))
	assert.True(closure.Has(q1))
	assert.True(closure.Has(q2))
	assert.False(closure.Has(q3))
	assert.Equal(3, closure.Len())
}

func Test_AddTransition_Idempotent(t *testing.T) {
	assert := assert.New(t)

	nfa := NewNFA()
	q0 := nfa.AddState()
	q1 := nfa.AddState()

	nfa.AddTransition(q0, q1, 'a')
	nfa.AddTransition(q0, q1, 'a')

	assert.Equal(1, nfa.transitions[transKey{q0, 'a'}].Len())
}

func Test_RemoveEpsilons(t *testing.T) {
	assert := assert.New(t)

	nfa := buildOptionalAB()
	eFree := nfa.RemoveEpsilons()

	// no ε-edges survive
	for key := range eFree.transitions {
		assert.NotEqual(Epsilon, key.symbol, "ε-edge left after removal")
	}

	// language is preserved for every string up to length 3 over {a, b}
	alphabet := []string{"a", "b"}
	inputs := []string{""}
	for size := 0; size < 3; size++ {
		var grown []string
		for _, s := range inputs {
			for _, c := range alphabet {
				grown = append(grown, s+c)
			}
		}
		inputs = append(inputs, grown...)
	}

	for _, input := range inputs {
		assert.Equal(nfaAccepts(nfa, input), nfaAccepts(eFree, input), "input %q", input)
	}

	// accepting tags carry over through the ε-closures
	accepted := false
	for _, tags := range eFree.Outputs {
		if tags.Has(7) {
			accepted = true
		}
	}
	assert.True(accepted)
}

func Test_ToDFA(t *testing.T) {
	assert := assert.New(t)

	// a|ab built directly without ε-edges: nondeterministic on 'a'
	nfa := NewNFA()
	q0 := nfa.AddState()
	q1 := nfa.AddState()
	q2 := nfa.AddState()
	q3 := nfa.AddState()

	nfa.AddTransition(q0, q1, 'a')
	nfa.AddTransition(q0, q2, 'a')
	nfa.AddTransition(q2, q3, 'b')
	nfa.Start = q0
	nfa.AddOutput(q1, 1)
	nfa.AddOutput(q3, 2)

	dfa := nfa.ToDFA()

	assert.True(dfaAccepts(dfa, "a"))
	assert.True(dfaAccepts(dfa, "ab"))
	assert.False(dfaAccepts(dfa, ""))
	assert.False(dfaAccepts(dfa, "b"))
	assert.False(dfaAccepts(dfa, "abb"))

	// the state reached on "a" merges both NFA states, so it carries q1's tag
	aState := dfa.Next(dfa.Start, 'a')
	assert.True(dfa.Outputs[aState].Has(1))

	// and continuing with "b" reaches a state with q3's tag
	abState := dfa.Next(aState, 'b')
	assert.True(dfa.Outputs[abState].Has(2))
}

func Test_ToDFA_RequiresEpsilonFree(t *testing.T) {
	assert := assert.New(t)

	nfa := NewNFA()
	q0 := nfa.AddState()
	q1 := nfa.AddState()
	nfa.AddTransition(q0, q1, Epsilon)
	nfa.Start = q0
	nfa.AddOutput(q1, 1)

	assert.Panics(func() {
		nfa.ToDFA()
	})
}

func Test_RemoveEpsilons_ThenToDFA_PreservesLanguage(t *testing.T) {
	assert := assert.New(t)

	nfa := buildOptionalAB()
	dfa := nfa.RemoveEpsilons().ToDFA()

	testCases := []struct {
		input  string
		expect bool
	}{
		{"b", true},
		{"ab", true},
		{"", false},
		{"a", false},
		{"ba", false},
		{"aab", false},
		{"abb", false},
	}

	for _, tc := range testCases {
		assert.Equal(tc.expect, dfaAccepts(dfa, tc.input), "input %q", tc.input)
	}
}

func Test_ToDFA_Deterministic(t *testing.T) {
	assert := assert.New(t)

	dfa1 := buildOptionalAB().RemoveEpsilons().ToDFA()
	dfa2 := buildOptionalAB().RemoveEpsilons().ToDFA()

	assert.Equal(dfa1.String(), dfa2.String())
	assert.Equal(dfa1.transitions, dfa2.transitions)
}
