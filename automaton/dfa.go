package automaton

import (
	"fmt"
	"strings"

	"github.com/johnrickE/compylr/internal/util"
)

// DFA is a deterministic finite automaton over the byte alphabet. States are
// dense integers allocated by AddState; each state owns a row of NumChars
// transition entries holding either the next state or NoTransition.
//
// Outputs is a partial map from state to the set of terminal tags the state
// accepts with; presence in the map is what makes a state accepting. A DFA is
// built once by a generator and then frozen; nothing here mutates a DFA after
// generation completes.
type DFA struct {
	transitions [][]int
	Outputs     map[int]util.KeySet[int]
	Start       int
}

// NewDFA constructs a new, empty DFA. Its Start is NoTransition until a state
// is added and assigned.
func NewDFA() *DFA {
	return &DFA{
		Outputs: map[int]util.KeySet[int]{},
		Start:   NoTransition,
	}
}

// AddState adds a new state to the DFA and returns it. The new state has no
// transitions and is not accepting.
func (dfa *DFA) AddState() int {
	state := len(dfa.transitions)

	row := make([]int, NumChars)
	for c := range row {
		row[c] = NoTransition
	}
	dfa.transitions = append(dfa.transitions, row)

	return state
}

// NumStates returns the number of states in the DFA.
func (dfa *DFA) NumStates() int {
	return len(dfa.transitions)
}

// SetTransition sets the transition from one state to another on the given
// input symbol, replacing any transition previously set for that symbol.
func (dfa *DFA) SetTransition(from, to, symbol int) {
	if from < 0 || from >= len(dfa.transitions) {
		panic(fmt.Sprintf("set transition from non-existent state %d", from))
	}
	if to < 0 || to >= len(dfa.transitions) {
		panic(fmt.Sprintf("set transition to non-existent state %d", to))
	}
	if symbol < 0 || symbol >= NumChars {
		panic(fmt.Sprintf("symbol %d outside the byte alphabet", symbol))
	}

	dfa.transitions[from][symbol] = to
}

// Next returns the state reached from the given state on the given symbol, or
// NoTransition if there is none. Calling Next on the NoTransition sentinel
// itself returns NoTransition; the sentinel behaves as a dead state.
func (dfa *DFA) Next(state, symbol int) int {
	if state == NoTransition {
		return NoTransition
	}
	return dfa.transitions[state][symbol]
}

// AddOutput marks the given state as accepting with the given terminal tag.
// A state may carry more than one tag; downstream generators report that as
// an output conflict.
func (dfa *DFA) AddOutput(state, tag int) {
	if state < 0 || state >= len(dfa.transitions) {
		panic(fmt.Sprintf("add output on non-existent state %d", state))
	}

	tags, ok := dfa.Outputs[state]
	if !ok {
		tags = util.NewKeySet[int]()
		dfa.Outputs[state] = tags
	}
	tags.Add(tag)
}

// IsSinkState checks whether no accepting state is reachable from the given
// state, including the state itself. It walks forward over defined
// transitions only; at most every state is visited once.
func (dfa *DFA) IsSinkState(state int) bool {
	explored := util.NewKeySet[int]()
	frontier := util.Stack[int]{Of: []int{state}}

	for !frontier.Empty() {
		state = frontier.Pop()
		if explored.Has(state) {
			continue
		}
		explored.Add(state)

		if dfa.Outputs[state].Len() > 0 {
			return false
		}

		for c := 0; c < NumChars; c++ {
			next := dfa.transitions[state][c]
			if next == NoTransition || explored.Has(next) {
				continue
			}
			frontier.Push(next)
		}
	}

	return true
}

// Union uses product construction to compute the union of two DFAs: the
// result accepts any string that either input accepts. States of the result
// correspond to pairs of input states; a pair component may be the
// NoTransition sentinel, which is treated as a dead state on that side. A
// product state is accepting if either component is, and carries the union of
// the components' tag sets.
//
// Dead pairs still get states of their own so that state numbering follows
// discovery order; sink-state filtering downstream removes them from emitted
// tables.
func (dfa *DFA) Union(other *DFA) *DFA {
	lhs := dfa
	rhs := other

	if lhs.Start == NoTransition || rhs.Start == NoTransition {
		panic("union of DFA with no initial state")
	}

	result := NewDFA()
	result.Start = result.AddState()

	type pair struct {
		l, r int
	}

	stateMap := map[pair]int{}
	frontier := util.Stack[pair]{}

	start := pair{lhs.Start, rhs.Start}
	stateMap[start] = result.Start
	frontier.Push(start)

	for !frontier.Empty() {
		p := frontier.Pop()
		state := stateMap[p]

		for symbol := 0; symbol < NumChars; symbol++ {
			nextPair := pair{lhs.Next(p.l, symbol), rhs.Next(p.r, symbol)}
			nextState, ok := stateMap[nextPair]
			if !ok {
				nextState = result.AddState()
				stateMap[nextPair] = nextState
				frontier.Push(nextPair)
			}
			result.transitions[state][symbol] = nextState
		}

		lhsOutputs := lhs.Outputs[p.l]
		rhsOutputs := rhs.Outputs[p.r]
		if lhsOutputs.Len() > 0 || rhsOutputs.Len() > 0 {
			tags, ok := result.Outputs[state]
			if !ok {
				tags = util.NewKeySet[int]()
				result.Outputs[state] = tags
			}
			tags.AddAll(lhsOutputs)
			tags.AddAll(rhsOutputs)
		}
	}

	return result
}

// Minimize creates an equivalent DFA containing the smallest number of
// states. The current implementation returns the DFA unchanged; it exists so
// callers keep the call site if partition refinement is added later.
func (dfa *DFA) Minimize() *DFA {
	return dfa
}

func (dfa *DFA) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %d, STATES: %d, ACCEPTING:", dfa.Start, len(dfa.transitions)))

	accepting := util.OrderedKeys(dfa.Outputs)
	for i := range accepting {
		sb.WriteString(fmt.Sprintf(" %d%s", accepting[i], dfa.Outputs[accepting[i]].StringOrdered()))
		if i+1 < len(accepting) {
			sb.WriteRune(',')
		}
	}
	sb.WriteRune('>')

	return sb.String()
}
