package regex

import (
	"fmt"
	"sync"

	"github.com/johnrickE/compylr/automaton"
	"github.com/johnrickE/compylr/grammar"
	"github.com/johnrickE/compylr/internal/util"
	"github.com/johnrickE/compylr/parse"
)

// compiler holds the parsing table of the regex grammar along with the
// reduction callbacks and reduction buffer, all in production-index order.
// The table is built once and shared by every compilation.
type compiler struct {
	table      *parse.Table
	callbacks  []reduceFn
	reductions []grammar.Reduction
}

var (
	bootOnce sync.Once
	boot     *compiler
)

// bootstrap generates the LR(1) table for the regex grammar using the
// module's own parser generator. The grammar is fixed, known to be LR(1),
// and small, so this runs once and any failure is an internal defect.
func bootstrap() *compiler {
	bootOnce.Do(func() {
		rules, callbacks := regexRules()

		g, err := grammar.New(regexTerminals, regexNonTerminals, rules)
		if err != nil {
			panic(fmt.Sprintf("regex grammar failed validation: %v", err))
		}

		table := parse.Generate(g)
		if len(table.Conflicts()) > 0 {
			panic("regex grammar is not LR(1); should never happen")
		}

		boot = &compiler{
			table:      table,
			callbacks:  callbacks,
			reductions: g.Reductions(),
		}
	})

	return boot
}

// Compile compiles the regular expression into a DFA whose accepting states
// carry the given terminal tag.
//
// The expression is tokenized and LR(1)-parsed; each reduction applies its
// Thompson-construction step to a shared ε-NFA builder, and the goal
// reduction finalizes the builder and determinizes it. A token the grammar
// cannot place (a missing table cell) is reported as an ErrSyntax; bad
// escapes are reported as an ErrLexer.
func Compile(pattern string, tag int) (*automaton.DFA, error) {
	c := bootstrap()

	states := util.Stack[int]{Of: []int{c.table.Initial()}}
	values := util.Stack[any]{}
	b := &builder{nfa: automaton.NewNFA(), terminal: tag}

	lx := newLexer([]byte(pattern))
	tok, err := lx.lex()
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", pattern, err)
	}

	for {
		act, ok := c.table.Action(states.Peek(), tok.sym)
		if !ok {
			return nil, fmt.Errorf("compiling %q: %w at position %d", pattern, ErrSyntax, lx.position)
		}

		switch act.Type {
		case parse.Shift:
			values.Push(tok.value)
			states.Push(act.Data)

			tok, err = lx.lex()
			if err != nil {
				return nil, fmt.Errorf("compiling %q: %w", pattern, err)
			}
		case parse.Reduce:
			red := c.reductions[act.Data]
			terms := popTerms(&values, red.RHSLen)
			for i := 0; i < red.RHSLen; i++ {
				states.Pop()
			}

			values.Push(c.callbacks[act.Data](terms, b))

			gotoAct, ok := c.table.Action(states.Peek(), red.LHS)
			if !ok || gotoAct.Type != parse.Goto {
				panic(fmt.Sprintf("no GOTO from state %d on %d; should never happen", states.Peek(), red.LHS))
			}
			states.Push(gotoAct.Data)
		case parse.Accept:
			red := c.reductions[act.Data]
			terms := popTerms(&values, red.RHSLen)
			return c.callbacks[act.Data](terms, b).(*automaton.DFA), nil
		default:
			panic(fmt.Sprintf("%s in terminal column; should never happen", act.Type))
		}
	}
}

// popTerms removes the top n semantic values and returns them in
// left-to-right order.
func popTerms(values *util.Stack[any], n int) []any {
	terms := make([]any, n)
	for i := n - 1; i >= 0; i-- {
		terms[i] = values.Pop()
	}
	return terms
}
