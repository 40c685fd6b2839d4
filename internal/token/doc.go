// Package token defines lexical token kinds and trivia for the C-Minus front end.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Keywords are case-sensitive: only `if else while return int void`.
//   - Whitespace and /* */ comments are leading Trivia and never appear in
//     the main token stream.
//   - Invalid carries the offending lexeme; the lexer has already reported it.
package token
