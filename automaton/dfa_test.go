package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// singleString builds a DFA accepting exactly the given string with the
// given output tag.
func singleString(s string, tag int) *DFA {
	dfa := NewDFA()
	dfa.Start = dfa.AddState()

	state := dfa.Start
	for i := 0; i < len(s); i++ {
		next := dfa.AddState()
		dfa.SetTransition(state, next, int(s[i]))
		state = next
	}
	dfa.AddOutput(state, tag)

	return dfa
}

func Test_AddState(t *testing.T) {
	assert := assert.New(t)

	dfa := NewDFA()
	assert.Equal(NoTransition, dfa.Start)

	q0 := dfa.AddState()
	q1 := dfa.AddState()

	assert.Equal(0, q0)
	assert.Equal(1, q1)
	assert.Equal(2, dfa.NumStates())

	// a fresh state has no transitions at all
	for c := 0; c < NumChars; c++ {
		assert.Equal(NoTransition, dfa.Next(q0, c))
	}
}

func Test_Next_DeadSentinel(t *testing.T) {
	assert := assert.New(t)

	dfa := singleString("a", 1)

	// the sentinel behaves as a dead state rather than wrapping around
	assert.Equal(NoTransition, dfa.Next(NoTransition, 'a'))
}

func Test_IsSinkState(t *testing.T) {
	assert := assert.New(t)

	dfa := NewDFA()
	q0 := dfa.AddState()
	q1 := dfa.AddState()
	q2 := dfa.AddState()
	q3 := dfa.AddState()

	dfa.Start = q0
	dfa.SetTransition(q0, q1, 'a')
	dfa.AddOutput(q1, 1)

	// q2 -> q3 go nowhere good
	dfa.SetTransition(q2, q3, 'x')
	dfa.SetTransition(q3, q2, 'x')

	assert.False(dfa.IsSinkState(q0), "accepting state reachable from start")
	assert.False(dfa.IsSinkState(q1), "accepting state is not a sink itself")
	assert.True(dfa.IsSinkState(q2), "dead cycle")
	assert.True(dfa.IsSinkState(q3), "dead cycle")
}

func Test_Union(t *testing.T) {
	assert := assert.New(t)

	a := singleString("a", 1)
	bc := singleString("bc", 2)

	u := a.Union(bc)

	testCases := []struct {
		input  string
		expect bool
	}{
		{"a", true},
		{"bc", true},
		{"", false},
		{"b", false},
		{"ab", false},
		{"abc", false},
	}
	for _, tc := range testCases {
		assert.Equal(tc.expect, dfaAccepts(u, tc.input), "input %q", tc.input)
	}

	// tags stay attached to the side they came from
	aState := u.Next(u.Start, 'a')
	assert.True(u.Outputs[aState].Has(1))
	assert.False(u.Outputs[aState].Has(2))

	cState := u.Next(u.Next(u.Start, 'b'), 'c')
	assert.True(u.Outputs[cState].Has(2))
}

func Test_Union_OverlappingTags(t *testing.T) {
	assert := assert.New(t)

	kw := singleString("if", 1)
	ident := singleString("if", 2)

	u := kw.Union(ident)

	// both inputs accept "if", so the product state carries both tags
	state := u.Next(u.Next(u.Start, 'i'), 'f')
	assert.True(u.Outputs[state].Has(1))
	assert.True(u.Outputs[state].Has(2))
	assert.Equal(2, u.Outputs[state].Len())
}

func Test_Union_DeadPairsAreSinks(t *testing.T) {
	assert := assert.New(t)

	a := singleString("a", 1)
	b := singleString("b", 2)

	u := a.Union(b)

	// paths that die on both sides converge on sink states which never
	// resurrect into acceptance
	assert.False(dfaAccepts(u, "x"))
	assert.False(dfaAccepts(u, "xa"))
	assert.False(dfaAccepts(u, "ax"))
	assert.False(dfaAccepts(u, "axa"))

	deadState := u.Next(u.Start, 'x')
	assert.NotEqual(NoTransition, deadState, "dead pairs still get a state")
	assert.True(u.IsSinkState(deadState))
}

func Test_Union_Deterministic(t *testing.T) {
	assert := assert.New(t)

	u1 := singleString("a", 1).Union(singleString("bc", 2))
	u2 := singleString("a", 1).Union(singleString("bc", 2))

	assert.Equal(u1.String(), u2.String())
	assert.Equal(u1.transitions, u2.transitions)
}

func Test_Minimize_Identity(t *testing.T) {
	assert := assert.New(t)

	dfa := singleString("a", 1)
	assert.Same(dfa, dfa.Minimize())
}
