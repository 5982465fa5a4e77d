package langdef

import (
	"testing"

	"github.com/johnrickE/compylr/grammar"
	"github.com/stretchr/testify/assert"
)

const calcDef = `
format = "compylr"
start = "sum"

[[tokens]]
terminal = "plus"
regex = '\+'

[[tokens]]
terminal = "number"
regex = '[0-9]+'

[[productions]]
lhs = "sum"
rhs = ["sum", "plus", "number"]
callback = "add"

[[productions]]
lhs = "sum"
rhs = ["number"]
callback = "promote"
`

func Test_Parse(t *testing.T) {
	assert := assert.New(t)

	lang, err := Parse([]byte(calcDef))
	assert.NoError(err)

	// terminals allocate in token order, non-terminals in production order
	assert.Equal(grammar.Symbol(-3), lang.TerminalIDs["plus"])
	assert.Equal(grammar.Symbol(-4), lang.TerminalIDs["number"])
	assert.Equal(grammar.Symbol(1), lang.NonTerminalIDs["sum"])

	assert.Len(lang.Tokens, 2)
	assert.Equal(`\+`, lang.Tokens[0].Pattern)
	assert.Equal(lang.TerminalIDs["plus"], lang.Tokens[0].Terminal)

	// rule 0 is the synthesized goal rule
	rules := lang.Grammar.Rules()
	assert.Len(rules, 3)
	assert.Equal(grammar.Goal, rules[0].LHS)
	assert.Equal([]grammar.Symbol{lang.NonTerminalIDs["sum"]}, rules[0].RHS)

	assert.Equal([]grammar.Symbol{
		lang.NonTerminalIDs["sum"],
		lang.TerminalIDs["plus"],
		lang.TerminalIDs["number"],
	}, rules[1].RHS)

	reds := lang.Grammar.Reductions()
	assert.Equal("add", reds[1].Callback)
	assert.Equal("promote", reds[2].Callback)
}

func Test_Parse_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "not TOML at all",
			input: "{]",
		},
		{
			name: "wrong format tag",
			input: `
format = "tuna"
start = "s"
[[tokens]]
terminal = "a"
regex = 'a'
[[productions]]
lhs = "s"
rhs = ["a"]
`,
		},
		{
			name: "missing start",
			input: `
format = "compylr"
[[tokens]]
terminal = "a"
regex = 'a'
[[productions]]
lhs = "s"
rhs = ["a"]
`,
		},
		{
			name: "start has no production",
			input: `
format = "compylr"
start = "other"
[[tokens]]
terminal = "a"
regex = 'a'
[[productions]]
lhs = "s"
rhs = ["a"]
`,
		},
		{
			name: "unknown symbol in RHS",
			input: `
format = "compylr"
start = "s"
[[tokens]]
terminal = "a"
regex = 'a'
[[productions]]
lhs = "s"
rhs = ["b"]
`,
		},
		{
			name: "terminal as LHS",
			input: `
format = "compylr"
start = "s"
[[tokens]]
terminal = "a"
regex = 'a'
[[productions]]
lhs = "s"
rhs = ["a"]
[[productions]]
lhs = "a"
rhs = ["a"]
`,
		},
		{
			name: "no tokens",
			input: `
format = "compylr"
start = "s"
[[productions]]
lhs = "s"
rhs = []
`,
		},
		{
			name: "no productions",
			input: `
format = "compylr"
start = "s"
[[tokens]]
terminal = "a"
regex = 'a'
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Parse([]byte(tc.input))
			assert.Error(err)
		})
	}
}

func Test_Parse_SharedTerminal(t *testing.T) {
	assert := assert.New(t)

	// two token patterns may feed the same terminal; the name allocates once
	lang, err := Parse([]byte(`
format = "compylr"
start = "s"

[[tokens]]
terminal = "bool"
regex = 'true'

[[tokens]]
terminal = "bool"
regex = 'false'

[[productions]]
lhs = "s"
rhs = ["bool"]
`))
	assert.NoError(err)

	assert.Len(lang.Tokens, 2)
	assert.Equal(lang.Tokens[0].Terminal, lang.Tokens[1].Terminal)
	assert.Equal(1, lang.Terminals.Len())
}
