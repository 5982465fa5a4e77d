// Package parse generates LR(1) parsing tables from a grammar: item-set
// closure, the canonical collection, ACTION/GOTO cell emission, compaction to
// dense state IDs, and conflict reporting.
package parse

import (
	"fmt"

	"github.com/johnrickE/compylr/grammar"
)

// Item is an LR(1) item of the general form [A -> X . Y, a], where X and Y
// are strings of terminals and non-terminals (possibly empty) and a is a
// terminal lookahead. Items are value-equal; String gives a canonical
// encoding used to key them in sets.
type Item struct {
	Rule      grammar.Production
	Cursor    int
	Lookahead grammar.Symbol
}

// HasSuccessor checks whether the cursor has not reached the end of the RHS
// of the rule, i.e. the item is not of the form [A -> X ., a].
func (item Item) HasSuccessor() bool {
	return item.Cursor < len(item.Rule.RHS)
}

// Successor returns a copy of the item with the cursor shifted one place to
// the right: given [A -> X . B Y, a], it returns [A -> X B . Y, a].
func (item Item) Successor() Item {
	return Item{Rule: item.Rule, Cursor: item.Cursor + 1, Lookahead: item.Lookahead}
}

// Locus returns the symbol adjacent to the cursor: given [A -> X . B Y, a],
// it returns B. It panics if the cursor is at the end of the rule.
func (item Item) Locus() grammar.Symbol {
	return item.Rule.RHS[item.Cursor]
}

// String gives the canonical encoding of the item. Two items encode to the
// same string exactly when they are value-equal, since the rule index
// identifies the production.
func (item Item) String() string {
	return fmt.Sprintf("[%d.%d, %d]", item.Rule.Index, item.Cursor, item.Lookahead)
}

func (item Item) Equal(o any) bool {
	other, ok := o.(Item)
	if !ok {
		otherPtr, ok := o.(*Item)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !item.Rule.Equal(other.Rule) {
		return false
	} else if item.Cursor != other.Cursor {
		return false
	} else if item.Lookahead != other.Lookahead {
		return false
	}

	return true
}
