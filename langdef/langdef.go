// Package langdef loads language definitions from their TOML description
// format. A definition names the tokens of the language (terminal name plus
// regular expression) and the production rules of its grammar (symbol names
// on both sides); the loader allocates symbol IDs for every name and builds
// the grammar and token list that the generators consume.
package langdef

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/johnrickE/compylr/grammar"
	"github.com/johnrickE/compylr/lexgen"
)

// Format is the value the "format" key of a definition file must carry.
const Format = "compylr"

// Language is a loaded language definition, with every symbol name resolved
// to an allocated ID. Grammar's rule 0 is the synthesized goal rule producing
// the definition's start symbol.
type Language struct {
	Terminals    *grammar.TerminalSet
	NonTerminals *grammar.NonTerminalSet

	// TerminalIDs and NonTerminalIDs map the definition's symbol names to
	// their allocated IDs.
	TerminalIDs    map[string]grammar.Symbol
	NonTerminalIDs map[string]grammar.Symbol

	Tokens  []lexgen.TokenSpec
	Grammar *grammar.Grammar
}

// topLevelDef is the direct TOML representation of a definition file.
type topLevelDef struct {
	Format      string          `toml:"format"`
	Start       string          `toml:"start"`
	Tokens      []tokenDef      `toml:"tokens"`
	Productions []productionDef `toml:"productions"`
}

type tokenDef struct {
	Terminal string `toml:"terminal"`
	Regex    string `toml:"regex"`
}

type productionDef struct {
	LHS      string   `toml:"lhs"`
	RHS      []string `toml:"rhs"`
	Callback string   `toml:"callback"`
}

// LoadFile reads and parses the definition file at the given path.
func LoadFile(path string) (*Language, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading language definition: %w", err)
	}

	lang, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading language definition %q: %w", path, err)
	}
	return lang, nil
}

// Parse decodes a TOML language definition and resolves it to allocated
// symbols and a validated grammar.
func Parse(data []byte) (*Language, error) {
	var def topLevelDef
	if err := toml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decoding TOML: %w", err)
	}

	if def.Format != Format {
		return nil, fmt.Errorf("format of data is %q, not %q", def.Format, Format)
	}
	if def.Start == "" {
		return nil, fmt.Errorf("definition does not name a start symbol")
	}
	if len(def.Tokens) == 0 {
		return nil, fmt.Errorf("definition has no tokens")
	}
	if len(def.Productions) == 0 {
		return nil, fmt.Errorf("definition has no productions")
	}

	lang := &Language{
		Terminals:      grammar.NewTerminalSet(),
		NonTerminals:   grammar.NewNonTerminalSet(),
		TerminalIDs:    map[string]grammar.Symbol{},
		NonTerminalIDs: map[string]grammar.Symbol{},
	}

	// terminals are allocated in token order, one per distinct name
	for _, tok := range def.Tokens {
		if tok.Terminal == "" {
			return nil, fmt.Errorf("token with regex %q does not name its terminal", tok.Regex)
		}
		id, ok := lang.TerminalIDs[tok.Terminal]
		if !ok {
			id = lang.Terminals.Add()
			lang.TerminalIDs[tok.Terminal] = id
		}
		lang.Tokens = append(lang.Tokens, lexgen.TokenSpec{Terminal: id, Pattern: tok.Regex})
	}

	// non-terminals are every LHS name, allocated in production order
	for _, prod := range def.Productions {
		if prod.LHS == "" {
			return nil, fmt.Errorf("production with RHS %v does not name its LHS", prod.RHS)
		}
		if _, isTerm := lang.TerminalIDs[prod.LHS]; isTerm {
			return nil, fmt.Errorf("%q is a terminal and cannot be the LHS of a production", prod.LHS)
		}
		if _, ok := lang.NonTerminalIDs[prod.LHS]; !ok {
			lang.NonTerminalIDs[prod.LHS] = lang.NonTerminals.Add()
		}
	}

	start, ok := lang.NonTerminalIDs[def.Start]
	if !ok {
		return nil, fmt.Errorf("start symbol %q has no production", def.Start)
	}

	rules := []grammar.Rule{{LHS: grammar.Goal, RHS: []grammar.Symbol{start}, Callback: "accept"}}

	for i, prod := range def.Productions {
		rule := grammar.Rule{
			LHS:      lang.NonTerminalIDs[prod.LHS],
			Callback: prod.Callback,
		}
		if rule.Callback == "" {
			rule.Callback = fmt.Sprintf("r%d", i+1)
		}

		for _, name := range prod.RHS {
			if id, ok := lang.TerminalIDs[name]; ok {
				rule.RHS = append(rule.RHS, id)
			} else if id, ok := lang.NonTerminalIDs[name]; ok {
				rule.RHS = append(rule.RHS, id)
			} else {
				return nil, fmt.Errorf("production %q: unknown symbol %q", prod.LHS, name)
			}
		}

		rules = append(rules, rule)
	}

	g, err := grammar.New(lang.Terminals, lang.NonTerminals, rules)
	if err != nil {
		return nil, err
	}
	lang.Grammar = g

	return lang, nil
}
