package lexgen

import (
	"testing"

	"github.com/johnrickE/compylr/automaton"
	"github.com/johnrickE/compylr/grammar"
	"github.com/stretchr/testify/assert"
)

// tableMatch walks the emitted table over the input and reports whether it
// ends on an accepting state, along with that state's tags.
func tableMatch(tbl *Table, input string) (bool, []int) {
	state := tbl.Initial
	for i := 0; i < len(input); i++ {
		next, ok := tbl.Transitions[Move{State: state, Input: input[i]}]
		if !ok {
			return false, nil
		}
		state = next
	}

	tags, ok := tbl.Outputs[state]
	return ok, tags
}

func Test_New_RecognizesEachToken(t *testing.T) {
	assert := assert.New(t)

	terms := grammar.NewTerminalSet()
	number := terms.Add()
	ident := terms.Add()

	gen, err := New([]TokenSpec{
		{Terminal: number, Pattern: "[0-9]+"},
		{Terminal: ident, Pattern: "[a-z][a-z0-9]*"},
	})
	assert.NoError(err)

	tbl := gen.Table()

	testCases := []struct {
		input  string
		expect []int
	}{
		{"42", []int{int(number)}},
		{"0", []int{int(number)}},
		{"x", []int{int(ident)}},
		{"ab3", []int{int(ident)}},
		{" ", []int{Whitespace}},
		{"\n\t ", []int{Whitespace}},
	}

	for _, tc := range testCases {
		ok, tags := tableMatch(tbl, tc.input)
		assert.True(ok, "should accept %q", tc.input)
		assert.Equal(tc.expect, tags, "tags for %q", tc.input)
	}

	for _, input := range []string{"", "3x", "x ", "-"} {
		ok, _ := tableMatch(tbl, input)
		assert.False(ok, "should not accept %q", input)
	}

	assert.Empty(gen.Conflicts())
}

func Test_New_OverlappingTokensConflict(t *testing.T) {
	assert := assert.New(t)

	terms := grammar.NewTerminalSet()
	keyword := terms.Add()
	ident := terms.Add()

	gen, err := New([]TokenSpec{
		{Terminal: keyword, Pattern: "if"},
		{Terminal: ident, Pattern: "[a-z]+"},
	})
	assert.NoError(err)

	// exactly one accepting state matches both tokens: the one reached on
	// the lexeme "if"
	conflicts := gen.Conflicts()
	assert.Len(conflicts, 1)
	assert.Equal([]int{int(ident), int(keyword)}, conflicts[0].Tags)

	tbl := gen.Table()
	ok, tags := tableMatch(tbl, "if")
	assert.True(ok)
	assert.Equal([]int{int(ident), int(keyword)}, tags, "all tags are retained on conflict")

	// a longer identifier loses the keyword tag again
	ok, tags = tableMatch(tbl, "iff")
	assert.True(ok)
	assert.Equal([]int{int(ident)}, tags)

	assert.Contains(tbl.Report(), "output conflict")
	assert.Contains(tbl.Report(), "1 conflict(s) detected")
}

func Test_New_BadPattern(t *testing.T) {
	assert := assert.New(t)

	terms := grammar.NewTerminalSet()
	tok := terms.Add()

	_, err := New([]TokenSpec{{Terminal: tok, Pattern: "(["}})
	assert.Error(err)
}

func Test_New_ReservedTerminal(t *testing.T) {
	assert := assert.New(t)

	_, err := New([]TokenSpec{{Terminal: grammar.End, Pattern: "a"}})
	assert.Error(err)

	_, err = New([]TokenSpec{{Terminal: grammar.Goal, Pattern: "a"}})
	assert.Error(err)
}

func Test_Table_OmitsSinkEntries(t *testing.T) {
	assert := assert.New(t)

	terms := grammar.NewTerminalSet()
	number := terms.Add()

	gen, err := New([]TokenSpec{{Terminal: number, Pattern: "[0-9]+"}})
	assert.NoError(err)

	dfa := gen.DFA()
	tbl := gen.Table()

	// every kept entry starts at and lands on a live state
	for move, next := range tbl.Transitions {
		assert.False(dfa.IsSinkState(move.State), "entry kept for sink state %d", move.State)
		assert.False(dfa.IsSinkState(next), "entry kept into sink state %d", next)
	}

	// the full DFA has strictly more defined transitions than the table
	// keeps, since dead paths were compacted away
	defined := 0
	for state := 0; state < dfa.NumStates(); state++ {
		for c := 0; c < automaton.NumChars; c++ {
			if dfa.Next(state, c) != automaton.NoTransition {
				defined++
			}
		}
	}
	assert.Less(tbl.NumEntries(), defined)

	// no entry leaves the initial state on a byte no token can start with
	_, ok := tbl.Transitions[Move{State: tbl.Initial, Input: 'x'}]
	assert.False(ok)
}

func Test_Table_BinaryRoundTrip(t *testing.T) {
	assert := assert.New(t)

	terms := grammar.NewTerminalSet()
	number := terms.Add()
	ident := terms.Add()

	gen, err := New([]TokenSpec{
		{Terminal: number, Pattern: "[0-9]+"},
		{Terminal: ident, Pattern: "[a-z]+"},
	})
	assert.NoError(err)
	tbl := gen.Table()

	data, err := tbl.MarshalBinary()
	assert.NoError(err)

	var decoded Table
	err = decoded.UnmarshalBinary(data)
	assert.NoError(err)

	assert.Equal(tbl.Initial, decoded.Initial)
	assert.Equal(tbl.Transitions, decoded.Transitions)
	assert.Equal(tbl.Outputs, decoded.Outputs)

	// and the encoding itself is reproducible
	data2, err := tbl.MarshalBinary()
	assert.NoError(err)
	assert.Equal(data, data2)
}

func Test_Generator_Deterministic(t *testing.T) {
	assert := assert.New(t)

	build := func() *Table {
		terms := grammar.NewTerminalSet()
		number := terms.Add()
		ident := terms.Add()

		gen, err := New([]TokenSpec{
			{Terminal: number, Pattern: "[0-9]+"},
			{Terminal: ident, Pattern: "[a-z][a-z0-9]*"},
		})
		assert.NoError(err)
		return gen.Table()
	}

	tbl1 := build()
	tbl2 := build()

	assert.Equal(tbl1.Initial, tbl2.Initial)
	assert.Equal(tbl1.Transitions, tbl2.Transitions)
	assert.Equal(tbl1.Outputs, tbl2.Outputs)
}
