// Package glint implements a small statically-parsed, dynamically-typed
// scripting language: an AST, a PEG/packrat-style parser and normalizing
// transformer, and a tree-walking interpreter.
package glint

import (
	"io"

	"github.com/dekarrin/glint/internal/lang"
)

// Entry is the root of a parsed program.
type Entry = lang.Entry

// Value is a runtime value produced by Execute.
type Value = lang.Value

// ParseError is returned by ParseToAST on a grammar mismatch.
type ParseError = lang.ParseError

// RuntimeError is returned by Execute when evaluation violates a language
// contract (undefined callee, arity mismatch, division by zero, ...).
type RuntimeError = lang.RuntimeError

// ParseToAST lexes and parses text, applies the normalizing transformer,
// and returns the resulting Entry. It returns (nil, err) on failure, the
// Go-idiomatic rendering of spec.md's parse_to_ast(text) -> Entry | null.
func ParseToAST(text string) (*Entry, error) {
	return lang.Parse(text)
}

// Execute evaluates a parsed Entry against a fresh interpreter whose print
// output is written to w.
func Execute(w io.Writer, entry *Entry) (Value, error) {
	in := lang.NewInterpreter(w)
	return in.Execute(entry)
}

// Print renders vs per the language's print stringification rules and
// writes them, space-separated with a trailing newline, to w.
func Print(w io.Writer, vs ...Value) error {
	return lang.Print(w, vs...)
}

// Stringify renders a single Value per the language's print rules, without
// writing it anywhere.
func Stringify(v Value) string {
	return lang.Stringify(v)
}
