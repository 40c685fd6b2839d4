// Package sema resolves names and checks types of a parsed C-Minus file.
//
// Analysis runs in two walks over the same tree. BuildSymbolTable creates
// every scope and declaration and records the order in which scopes were
// opened. TypeCheck replays that order, resolves uses, annotates expression
// types and reports diagnostics without stopping at the first error.
package sema
