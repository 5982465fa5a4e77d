// Package compylr is a lexer-and-parser generator toolkit. Given a list of
// token specifications (terminal tag plus byte-oriented regular expression)
// and a context-free grammar with named reduction callbacks, it produces the
// static tables a runtime needs to tokenize a byte stream and LR(1)-parse the
// resulting token stream.
//
// The toolkit is the generator half only. The runtime drivers that interpret
// the tables — a longest-match DFA simulator for the lexer and a shift/reduce
// loop for the parser — are left to the host; the frozen Table types in the
// lexgen and parse packages are the interface they consume, and both tables
// round-trip through binary for embedding.
//
// The pipeline: each token's regular expression is parsed (by an LR(1) parser
// over the regex grammar, generated by this very toolkit) and its reductions
// apply Thompson's construction to build an ε-NFA; ε-elimination and powerset
// construction make it a DFA; product-construction union folds every token's
// DFA plus a whitespace DFA into the combined tokenizer automaton. On the
// parsing side, FIRST sets feed LR(1) item-set closure and the canonical
// collection, which is compacted to a table over dense state IDs. Conflicts
// on either side — a tokenizer state accepting for several terminals, or a
// table cell holding several actions — are reported, never silently
// resolved.
package compylr

import (
	"github.com/johnrickE/compylr/grammar"
	"github.com/johnrickE/compylr/langdef"
	"github.com/johnrickE/compylr/lexgen"
	"github.com/johnrickE/compylr/parse"
)

// Output bundles the results of generating both halves of a language
// front-end. The conflict slices are non-fatal diagnostics: the tables are
// complete either way, and a caller that proceeds despite conflicts gets the
// documented all-tags / all-actions behavior.
type Output struct {
	Lexer  *lexgen.Table
	Parser *parse.Table

	LexerConflicts  []lexgen.Conflict
	ParserConflicts []parse.Conflict
}

// NewLexerGenerator builds the combined tokenizer DFA generator for the
// given token list.
func NewLexerGenerator(tokens []lexgen.TokenSpec) (*lexgen.Generator, error) {
	return lexgen.New(tokens)
}

// NewParserTable generates the LR(1) parsing table for the given grammar.
func NewParserTable(g *grammar.Grammar) *parse.Table {
	return parse.Generate(g)
}

// Generate runs both generators over a loaded language definition and
// collects their tables and conflict reports.
func Generate(lang *langdef.Language) (*Output, error) {
	lexGen, err := lexgen.New(lang.Tokens)
	if err != nil {
		return nil, err
	}

	parseTable := parse.Generate(lang.Grammar)

	return &Output{
		Lexer:           lexGen.Table(),
		Parser:          parseTable,
		LexerConflicts:  lexGen.Conflicts(),
		ParserConflicts: parseTable.Conflicts(),
	}, nil
}
