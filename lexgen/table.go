package lexgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rezi"
)

// Move addresses one entry of the lexer transition table: a state paired with
// an input byte.
type Move struct {
	State int
	Input byte
}

// Table is a frozen tokenizer table. Transitions holds an entry for every
// defined, non-sink move; a missing entry means the runtime should stop
// consuming and fall back to the last accepting position. Outputs maps each
// accepting state to its terminal tags, sorted ascending; more than one tag
// means the state is conflicted.
type Table struct {
	Initial     int
	Transitions map[Move]int
	Outputs     map[int][]int
}

// NumEntries returns the number of transition entries kept after sink
// compaction.
func (tbl *Table) NumEntries() int {
	return len(tbl.Transitions)
}

// Report renders a short summary of the table: entry counts plus every
// output conflict with its tags.
func (tbl *Table) Report() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("initial state %d, %d transition(s), %d accepting state(s)\n",
		tbl.Initial, len(tbl.Transitions), len(tbl.Outputs)))

	numConflicts := 0
	for _, state := range sortedIntKeys(tbl.Outputs) {
		tags := tbl.Outputs[state]
		if len(tags) > 1 {
			numConflicts++
			sb.WriteString(fmt.Sprintf("output conflict in state %d:", state))
			for _, tag := range tags {
				sb.WriteString(fmt.Sprintf(" %d", tag))
			}
			sb.WriteRune('\n')
		}
	}
	sb.WriteString(fmt.Sprintf("%d conflict(s) detected", numConflicts))

	return sb.String()
}

// MarshalBinary encodes the frozen table. The encoding is deterministic:
// moves and outputs are written in sorted order.
func (tbl *Table) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.EncInt(tbl.Initial)...)

	moves := make([]Move, 0, len(tbl.Transitions))
	for m := range tbl.Transitions {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool {
		if moves[i].State != moves[j].State {
			return moves[i].State < moves[j].State
		}
		return moves[i].Input < moves[j].Input
	})

	enc = append(enc, rezi.EncInt(len(moves))...)
	for _, m := range moves {
		enc = append(enc, rezi.EncInt(m.State)...)
		enc = append(enc, rezi.EncInt(int(m.Input))...)
		enc = append(enc, rezi.EncInt(tbl.Transitions[m])...)
	}

	states := sortedIntKeys(tbl.Outputs)
	enc = append(enc, rezi.EncInt(len(states))...)
	for _, state := range states {
		tags := tbl.Outputs[state]
		enc = append(enc, rezi.EncInt(state)...)
		enc = append(enc, rezi.EncInt(len(tags))...)
		for _, tag := range tags {
			enc = append(enc, rezi.EncInt(tag)...)
		}
	}

	return enc, nil
}

// UnmarshalBinary decodes a table encoded by MarshalBinary.
func (tbl *Table) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	tbl.Initial, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("initial state: %w", err)
	}
	data = data[n:]

	var moveCount int
	moveCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("transition count: %w", err)
	}
	data = data[n:]

	tbl.Transitions = map[Move]int{}
	for i := 0; i < moveCount; i++ {
		var state, input, next int

		state, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("transition %d: %w", i, err)
		}
		data = data[n:]

		input, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("transition %d: %w", i, err)
		}
		data = data[n:]

		next, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("transition %d: %w", i, err)
		}
		data = data[n:]

		tbl.Transitions[Move{State: state, Input: byte(input)}] = next
	}

	var outCount int
	outCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("output count: %w", err)
	}
	data = data[n:]

	tbl.Outputs = map[int][]int{}
	for i := 0; i < outCount; i++ {
		var state, tagCount int

		state, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
		data = data[n:]

		tagCount, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
		data = data[n:]

		tags := make([]int, tagCount)
		for j := 0; j < tagCount; j++ {
			tags[j], n, err = rezi.DecInt(data)
			if err != nil {
				return fmt.Errorf("output %d tag %d: %w", i, j, err)
			}
			data = data[n:]
		}
		tbl.Outputs[state] = tags
	}

	return nil
}

func sortedIntKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
