package parse

import (
	"sort"

	"github.com/johnrickE/compylr/grammar"
	"github.com/johnrickE/compylr/internal/util"
)

// Generate builds the LR(1) parsing table for g.
//
// The canonical collection is built by work-list from the closure of the
// augmented item [Goal -> . S, End]. Each state's items are grouped by locus
// into the kernels of its successor states; closure of a kernel gives the
// GOTO target. States are interned by the canonical encoding of their item
// set, and compact integer IDs are assigned in discovery order with the
// initial state getting 0.
//
// Conflicts are not fatal: every action lands in its cell's set, and the
// returned table reports any cell holding more than one. Iteration is over
// sorted keys everywhere an order could leak into the emitted IDs, so two
// calls on the same grammar produce identical tables.
func Generate(g *grammar.Grammar) *Table {
	gen := &generator{
		g:     g,
		first: g.First(),
	}

	return gen.generate()
}

type generator struct {
	g     *grammar.Grammar
	first grammar.FirstMap
}

// state is a closed set of LR(1) items keyed by their canonical encodings.
type state = util.SVSet[Item]

func (gen *generator) generate() *Table {
	rules := gen.g.Rules()

	table := &Table{
		cells:      map[Cell]util.KeySet[Action]{},
		reductions: gen.g.Reductions(),
	}

	initial := gen.closure([]Item{{Rule: rules[0], Cursor: 0, Lookahead: grammar.End}})

	stateIDs := map[string]int{initial.StringOrdered(): 0}
	explored := util.NewKeySet[string]()
	frontier := util.Stack[state]{Of: []state{initial}}

	for !frontier.Empty() {
		st := frontier.Pop()
		key := st.StringOrdered()
		if explored.Has(key) {
			continue
		}
		explored.Add(key)
		id := stateIDs[key]

		// Transition function for this state: maps each locus symbol to the
		// kernel of the successor state. The closure of each kernel gives
		// the next state.
		kernels := map[grammar.Symbol][]Item{}

		for _, itemKey := range util.OrderedKeys(st) {
			item := st.Get(itemKey)
			if item.HasSuccessor() {
				locus := item.Locus()
				kernels[locus] = append(kernels[locus], item.Successor())
			} else {
				kind := Reduce
				if item.Rule.LHS == grammar.Goal {
					kind = Accept
				}
				table.add(id, item.Lookahead, Action{Type: kind, Data: item.Rule.Index})
			}
		}

		for _, sym := range util.OrderedKeys(kernels) {
			next := gen.closure(kernels[sym])
			nextKey := next.StringOrdered()

			nextID, ok := stateIDs[nextKey]
			if !ok {
				nextID = len(stateIDs)
				stateIDs[nextKey] = nextID
			}
			frontier.Push(next)

			kind := Goto
			if sym.IsTerminal() {
				kind = Shift
			}
			table.add(id, sym, Action{Type: kind, Data: nextID})
		}
	}

	table.numStates = len(stateIDs)
	return table
}

// closure computes the LR(1) closure of the given kernel. The kernel slice is
// copied before use, so the caller's data is never consumed.
//
// For each item [A -> α . B β, a] in the growing state where B is a
// non-terminal, and for each terminal b that can appear directly after B
// (scanning β with FIRST and nullability, falling back to the lookahead a
// when all of β is nullable), every production B -> γ contributes the item
// [B -> . γ, b]. Nil never becomes a lookahead; it is only the nullability
// marker.
func (gen *generator) closure(kernel []Item) state {
	rules := gen.g.Rules()

	worklist := make([]Item, len(kernel))
	copy(worklist, kernel)

	st := util.NewSVSet[Item]()

	for len(worklist) > 0 {
		item := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		key := item.String()
		if st.Has(key) {
			continue
		}
		st.Set(key, item)

		if !item.HasSuccessor() {
			continue
		}
		nonTerminal := item.Locus()
		if !gen.g.IsNonTerminal(nonTerminal) {
			continue
		}

		scan := item.Successor()
		follow := util.NewKeySet[grammar.Symbol]()
		empty := true
		for scan.HasSuccessor() {
			sym := scan.Locus()
			if sym.IsTerminal() {
				follow.Add(sym)
				empty = false
				break
			}
			nilNotFound := true
			for terminal := range gen.first[sym] {
				if terminal == grammar.Nil {
					nilNotFound = false
				} else {
					follow.Add(terminal)
				}
			}
			if nilNotFound {
				empty = false
				break
			}
			scan = scan.Successor()
		}
		if empty {
			follow.Add(item.Lookahead)
		}

		followSorted := follow.Elements()
		sort.Slice(followSorted, func(i, j int) bool { return followSorted[i] < followSorted[j] })

		for _, rule := range rules {
			if rule.LHS != nonTerminal {
				continue
			}
			for _, sym := range followSorted {
				worklist = append(worklist, Item{Rule: rule, Cursor: 0, Lookahead: sym})
			}
		}
	}

	return st
}
