// Package diagfmt renders diagnostics, tokens, syntax trees and symbol tables
// for the command line: the classic listing format, a colored pretty
// format with source snippets, and JSON.
package diagfmt
