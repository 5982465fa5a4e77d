package automaton

import (
	"fmt"

	"github.com/johnrickE/compylr/internal/util"
)

type transKey struct {
	from   int
	symbol int
}

// NFA is a non-deterministic finite automaton over the byte alphabet plus
// Epsilon. States are integers allocated from a monotonically increasing
// counter; transitions map a (state, symbol) pair to the set of possible next
// states.
//
// Outputs and Start work as on DFA.
type NFA struct {
	nextState   int
	transitions map[transKey]util.KeySet[int]
	Outputs     map[int]util.KeySet[int]
	Start       int
}

// NewNFA constructs a new, empty NFA.
func NewNFA() *NFA {
	return &NFA{
		nextState:   -1,
		transitions: map[transKey]util.KeySet[int]{},
		Outputs:     map[int]util.KeySet[int]{},
		Start:       NoTransition,
	}
}

// AddState adds a new state to the NFA and returns it.
func (nfa *NFA) AddState() int {
	nfa.nextState++
	return nfa.nextState
}

// NumStates returns the number of states allocated so far.
func (nfa *NFA) NumStates() int {
	return nfa.nextState + 1
}

// AddTransition inserts a transition from one state to another on the given
// input symbol, which may be Epsilon. A state may transition to multiple
// states on the same symbol; repeated insertion of the same transition has no
// effect.
func (nfa *NFA) AddTransition(from, to, symbol int) {
	if from < 0 || from > nfa.nextState {
		panic(fmt.Sprintf("add transition from non-existent state %d", from))
	}
	if to < 0 || to > nfa.nextState {
		panic(fmt.Sprintf("add transition to non-existent state %d", to))
	}
	if symbol < 0 || symbol > Epsilon {
		panic(fmt.Sprintf("symbol %d outside the NFA alphabet", symbol))
	}

	key := transKey{from, symbol}
	targets, ok := nfa.transitions[key]
	if !ok {
		targets = util.NewKeySet[int]()
		nfa.transitions[key] = targets
	}
	targets.Add(to)
}

// AddOutput marks the given state as accepting with the given terminal tag.
func (nfa *NFA) AddOutput(state, tag int) {
	if state < 0 || state > nfa.nextState {
		panic(fmt.Sprintf("add output on non-existent state %d", state))
	}

	tags, ok := nfa.Outputs[state]
	if !ok {
		tags = util.NewKeySet[int]()
		nfa.Outputs[state] = tags
	}
	tags.Add(tag)
}

// EpsilonClosure computes the set of all states reachable from the given
// state using only ε-transitions, including the state itself. A state already
// in the closure is never pushed onto the work-list again, so the traversal
// terminates.
func (nfa *NFA) EpsilonClosure(state int) util.KeySet[int] {
	closure := util.NewKeySet[int]()
	frontier := util.Stack[int]{Of: []int{state}}

	for !frontier.Empty() {
		state = frontier.Pop()
		closure.Add(state)

		targets, ok := nfa.transitions[transKey{state, Epsilon}]
		if !ok {
			continue
		}
		for next := range targets {
			if closure.Has(next) {
				continue
			}
			frontier.Push(next)
		}
	}

	return closure
}

// RemoveEpsilons creates an equivalent NFA with all ε-transitions eliminated.
// The initial state and every state entered by a non-ε edge get a counterpart
// s' (states entered only by ε-edges get none) whose transitions are the
// non-ε edges of every state in εclosure(s); s' is
// accepting if any state in the closure is, and carries the union of their
// tag sets.
//
// State IDs in the new NFA are assigned in first-touch order with all
// iteration over sorted sets, so the result is reproducible.
func (nfa *NFA) RemoveEpsilons() *NFA {
	out := NewNFA()
	stateIDs := map[int]int{}

	// maps state IDs between this ε-NFA and the new NFA
	getNewState := func(state int) int {
		id, ok := stateIDs[state]
		if !ok {
			id = out.AddState()
			stateIDs[state] = id
		}
		return id
	}

	out.Start = getNewState(nfa.Start)
	frontier := util.Stack[int]{Of: []int{nfa.Start}}
	explored := util.NewKeySet[int]()

	for !frontier.Empty() {
		state := frontier.Pop()
		if explored.Has(state) {
			continue
		}
		explored.Add(state)
		newState := getNewState(state)

		for _, intermediate := range util.SortedElements(nfa.EpsilonClosure(state)) {
			if tags, ok := nfa.Outputs[intermediate]; ok {
				outTags, ok := out.Outputs[newState]
				if !ok {
					outTags = util.NewKeySet[int]()
					out.Outputs[newState] = outTags
				}
				outTags.AddAll(tags)
			}

			for symbol := 0; symbol < NumChars; symbol++ {
				targets, ok := nfa.transitions[transKey{intermediate, symbol}]
				if !ok {
					continue
				}
				for _, next := range util.SortedElements(targets) {
					out.AddTransition(newState, getNewState(next), symbol)
					if !explored.Has(next) {
						frontier.Push(next)
					}
				}
			}
		}
	}

	return out
}

// ToDFA uses powerset construction to create a DFA equivalent to this NFA.
//
// The NFA must be ε-free; run RemoveEpsilons first. The construction seeds
// the DFA with the singleton set of the initial state rather than its
// ε-closure, so a remaining ε-edge would silently change the language —
// ToDFA panics if it finds one.
func (nfa *NFA) ToDFA() *DFA {
	for key := range nfa.transitions {
		if key.symbol == Epsilon {
			panic("powerset construction requires an ε-free NFA; call RemoveEpsilons first")
		}
	}

	dfa := NewDFA()
	dfa.Start = dfa.AddState()

	stateMap := map[string]int{}
	frontier := util.Stack[[]int]{}

	states := []int{nfa.Start}
	stateMap[setKey(states)] = dfa.Start
	frontier.Push(states)

	for !frontier.Empty() {
		states = frontier.Pop()
		state := stateMap[setKey(states)]

		for symbol := 0; symbol < NumChars; symbol++ {
			nextStates := util.NewKeySet[int]()
			for _, s := range states {
				nextStates.AddAll(nfa.transitions[transKey{s, symbol}])
			}

			nextSorted := util.SortedElements(nextStates)
			key := setKey(nextSorted)
			nextState, ok := stateMap[key]
			if !ok {
				nextState = dfa.AddState()
				stateMap[key] = nextState
				frontier.Push(nextSorted)
			}
			dfa.transitions[state][symbol] = nextState
		}

		tags := util.NewKeySet[int]()
		for _, s := range states {
			tags.AddAll(nfa.Outputs[s])
		}
		if tags.Len() > 0 {
			dfa.Outputs[state] = tags
		}
	}

	return dfa
}

// setKey gives the canonical encoding of a sorted state set, used to intern
// powerset-construction states.
func setKey(sorted []int) string {
	return fmt.Sprint(sorted)
}
