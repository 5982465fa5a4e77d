package grammar

import "github.com/johnrickE/compylr/internal/util"

// FirstMap holds the FIRST set of every non-terminal in a grammar, including
// the reserved Goal symbol. A FIRST set contains the terminals that can begin
// a derivation from the non-terminal, plus Nil if and only if the
// non-terminal can derive the empty string.
type FirstMap map[Symbol]util.KeySet[Symbol]

// First computes the FIRST set of each non-terminal by fixpoint iteration
// over all productions. The sets grow monotonically in a finite universe, so
// the iteration terminates.
func (g *Grammar) First() FirstMap {
	first := FirstMap{Goal: util.NewKeySet[Symbol]()}
	for nt := Goal + 1; g.nonTerminals.Has(nt); nt++ {
		first[nt] = util.NewKeySet[Symbol]()
	}

	changed := true

	insert := func(nonTerminal, terminal Symbol) {
		if !first[nonTerminal].Has(terminal) {
			first[nonTerminal].Add(terminal)
			changed = true
		}
	}

	for changed {
		changed = false
		for _, rule := range g.rules {
			empty := true
			for _, sym := range rule.RHS {
				if sym.IsTerminal() {
					insert(rule.LHS, sym)
					empty = false
					break
				}
				nilNotFound := true
				for terminal := range first[sym] {
					if terminal == Nil {
						nilNotFound = false
					} else {
						insert(rule.LHS, terminal)
					}
				}
				if nilNotFound {
					empty = false
					break
				}
			}
			if empty {
				insert(rule.LHS, Nil)
			}
		}
	}

	return first
}
