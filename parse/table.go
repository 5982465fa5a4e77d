package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/rosed"
	"github.com/johnrickE/compylr/grammar"
	"github.com/johnrickE/compylr/internal/util"
)

// Cell addresses one entry of a parsing table: a compact state ID paired with
// a grammar symbol.
type Cell struct {
	State  int
	Symbol grammar.Symbol
}

// Conflict is a table cell holding more than one action: a shift/reduce or
// reduce/reduce conflict. The generator enumerates every action rather than
// choosing one; callers decide whether to proceed with the ambiguous table.
type Conflict struct {
	State   int
	Symbol  grammar.Symbol
	Actions []Action
}

// Table is a generated LR(1) parsing table, frozen after generation. State 0
// is always the initial state. Cells keep the full set of actions
// accumulated during generation so that conflicts stay visible.
type Table struct {
	cells      map[Cell]util.KeySet[Action]
	reductions []grammar.Reduction
	numStates  int
}

func (tbl *Table) add(stateID int, sym grammar.Symbol, act Action) {
	cell := Cell{State: stateID, Symbol: sym}
	acts, ok := tbl.cells[cell]
	if !ok {
		acts = util.NewKeySet[Action]()
		tbl.cells[cell] = acts
	}
	acts.Add(act)
}

// Initial returns the initial state of the table, which is always 0.
func (tbl *Table) Initial() int {
	return 0
}

// NumStates returns the number of states in the table.
func (tbl *Table) NumStates() int {
	return tbl.numStates
}

// NumEntries returns the total number of actions across all cells.
func (tbl *Table) NumEntries() int {
	n := 0
	for _, acts := range tbl.cells {
		n += acts.Len()
	}
	return n
}

// Actions returns every action in the cell for the given state and symbol,
// sorted. An empty result means the cell is an error entry; a result longer
// than one is a conflict.
func (tbl *Table) Actions(stateID int, sym grammar.Symbol) []Action {
	acts, ok := tbl.cells[Cell{State: stateID, Symbol: sym}]
	if !ok {
		return nil
	}

	sorted := acts.Elements()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })
	return sorted
}

// Action returns the single action for the given state and symbol. The
// second return value is false if the cell is empty or conflicted.
func (tbl *Table) Action(stateID int, sym grammar.Symbol) (Action, bool) {
	acts := tbl.Actions(stateID, sym)
	if len(acts) != 1 {
		return Action{}, false
	}
	return acts[0], true
}

// Reductions returns the reduction lookup buffer, indexed by production
// index.
func (tbl *Table) Reductions() []grammar.Reduction {
	return tbl.reductions
}

// Conflicts returns every cell holding more than one action, sorted by state
// and symbol.
func (tbl *Table) Conflicts() []Conflict {
	var conflicts []Conflict

	for _, cell := range tbl.sortedCells() {
		acts := tbl.Actions(cell.State, cell.Symbol)
		if len(acts) > 1 {
			conflicts = append(conflicts, Conflict{State: cell.State, Symbol: cell.Symbol, Actions: acts})
		}
	}

	return conflicts
}

// ConflictReport renders every conflicting cell with each of its actions,
// one per line. It returns the empty string when the table is conflict-free.
func (tbl *Table) ConflictReport() string {
	conflicts := tbl.Conflicts()
	if len(conflicts) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := range conflicts {
		c := conflicts[i]
		sb.WriteString(fmt.Sprintf("parsing conflict in state %d on symbol %d:\n", c.State, c.Symbol))
		for _, act := range c.Actions {
			sb.WriteString(fmt.Sprintf("    %s\n", act.String()))
		}
	}
	sb.WriteString(fmt.Sprintf("%d conflict(s) detected", len(conflicts)))

	return sb.String()
}

func (tbl *Table) sortedCells() []Cell {
	cells := make([]Cell, 0, len(tbl.cells))
	for cell := range tbl.cells {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].State != cells[j].State {
			return cells[i].State < cells[j].State
		}
		return cells[i].Symbol < cells[j].Symbol
	})
	return cells
}

// String renders the table with one row per state, ACTION columns for the
// terminals and GOTO columns for the non-terminals. Conflicted cells list
// every action joined by '/'.
func (tbl *Table) String() string {
	terminals := util.NewKeySet[grammar.Symbol]()
	nonTerminals := util.NewKeySet[grammar.Symbol]()
	for cell := range tbl.cells {
		if cell.Symbol.IsTerminal() {
			terminals.Add(cell.Symbol)
		} else {
			nonTerminals.Add(cell.Symbol)
		}
	}

	// END first, then user terminals in allocation order
	termCols := terminals.Elements()
	sort.Slice(termCols, func(i, j int) bool { return termCols[i] > termCols[j] })
	ntCols := util.SortedElements(nonTerminals)

	data := [][]string{}

	headers := []string{"S", "|"}
	for _, t := range termCols {
		headers = append(headers, fmt.Sprintf("A:%d", t))
	}
	headers = append(headers, "|")
	for _, nt := range ntCols {
		headers = append(headers, fmt.Sprintf("G:%d", nt))
	}
	data = append(data, headers)

	for stateID := 0; stateID < tbl.numStates; stateID++ {
		row := []string{fmt.Sprintf("%d", stateID), "|"}

		for _, t := range termCols {
			row = append(row, tbl.cellString(stateID, t))
		}
		row = append(row, "|")
		for _, nt := range ntCols {
			row = append(row, tbl.cellString(stateID, nt))
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func (tbl *Table) cellString(stateID int, sym grammar.Symbol) string {
	acts := tbl.Actions(stateID, sym)

	parts := make([]string, 0, len(acts))
	for _, act := range acts {
		switch act.Type {
		case Accept:
			parts = append(parts, "acc")
		case Reduce:
			parts = append(parts, fmt.Sprintf("r%d", act.Data))
		case Shift:
			parts = append(parts, fmt.Sprintf("s%d", act.Data))
		case Goto:
			parts = append(parts, fmt.Sprintf("%d", act.Data))
		}
	}

	return strings.Join(parts, "/")
}

// MarshalBinary encodes the frozen table. The encoding is deterministic:
// cells are written in sorted order.
func (tbl *Table) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.EncInt(tbl.numStates)...)

	enc = append(enc, rezi.EncInt(len(tbl.reductions))...)
	for _, red := range tbl.reductions {
		enc = append(enc, rezi.EncInt(int(red.LHS))...)
		enc = append(enc, rezi.EncInt(red.RHSLen)...)
		enc = append(enc, rezi.EncString(red.Callback)...)
	}

	cells := tbl.sortedCells()
	enc = append(enc, rezi.EncInt(len(cells))...)
	for _, cell := range cells {
		enc = append(enc, rezi.EncInt(cell.State)...)
		enc = append(enc, rezi.EncInt(int(cell.Symbol))...)

		acts := tbl.Actions(cell.State, cell.Symbol)
		enc = append(enc, rezi.EncInt(len(acts))...)
		for _, act := range acts {
			enc = append(enc, rezi.EncInt(int(act.Type))...)
			enc = append(enc, rezi.EncInt(act.Data)...)
		}
	}

	return enc, nil
}

// UnmarshalBinary decodes a table encoded by MarshalBinary.
func (tbl *Table) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	tbl.numStates, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("state count: %w", err)
	}
	data = data[n:]

	var redCount int
	redCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("reduction count: %w", err)
	}
	data = data[n:]

	tbl.reductions = make([]grammar.Reduction, redCount)
	for i := 0; i < redCount; i++ {
		var red grammar.Reduction
		var lhs int

		lhs, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("reduction %d: %w", i, err)
		}
		data = data[n:]
		red.LHS = grammar.Symbol(lhs)

		red.RHSLen, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("reduction %d: %w", i, err)
		}
		data = data[n:]

		red.Callback, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("reduction %d: %w", i, err)
		}
		data = data[n:]

		tbl.reductions[i] = red
	}

	var cellCount int
	cellCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("cell count: %w", err)
	}
	data = data[n:]

	tbl.cells = map[Cell]util.KeySet[Action]{}
	for i := 0; i < cellCount; i++ {
		var cell Cell
		var sym, actCount int

		cell.State, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		data = data[n:]

		sym, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		data = data[n:]
		cell.Symbol = grammar.Symbol(sym)

		actCount, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		data = data[n:]

		acts := util.NewKeySet[Action]()
		for j := 0; j < actCount; j++ {
			var actType, actData int

			actType, n, err = rezi.DecInt(data)
			if err != nil {
				return fmt.Errorf("cell %d action %d: %w", i, j, err)
			}
			data = data[n:]

			actData, n, err = rezi.DecInt(data)
			if err != nil {
				return fmt.Errorf("cell %d action %d: %w", i, j, err)
			}
			data = data[n:]

			acts.Add(Action{Type: ActionType(actType), Data: actData})
		}
		tbl.cells[cell] = acts
	}

	return nil
}
