// Package lox implements a tree-walking interpreter for the Lox
// scripting language: dynamically typed, class based with single
// inheritance, closures, and C-style control flow.
//
// A program runs in one pass per Run call:
//
//	source → Lexer → tokens → Parser → AST
//	       → Resolver (scope distances, static errors)
//	       → Interpreter (environments, side effects)
//
// The Resolver writes scope distances into a side table owned by the
// Interpreter, keyed by stable node IDs the Parser assigned; the AST
// itself is read-only after parsing. Diagnostics from every phase flow
// through one *Diagnostics sink, whose HadError/HadRuntimeError flags
// drive the driver's exit codes (65 for static errors, 70 for runtime
// errors).
//
// The cmd/lox binary wraps this package in a file runner and a
// line-editing REPL.
package lox
