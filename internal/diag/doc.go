// Package diag defines the core diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, the parser and both semantic passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any IO or CLI integration. Rendering lives in
// internal/diagfmt; orchestration lives in internal/driver. The only formatter
// kept here is FormatShortDiagnostics, used by tests and the `short` format.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short ("invalid assignment").
//   - Primary span – the source.Span pointing to the issue, empty for
//     diagnostics raised on synthetic nodes.
//   - Line – the 1-based line recorded on the AST node; semantic checks work
//     with lines, so every sema diagnostic carries one.
//   - Symbol – identifier the diagnostic is about, rendered as (name : "x").
//   - Notes – optional secondary locations, e.g. earlier declarations.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage. The
// analyzer builds a ReportBuilder via ReportError and chains AtLine /
// WithSymbol / WithNote before calling Emit. A Bag keeps diagnostics in
// emission order and never aborts the producer; once the cap is hit further
// diagnostics are counted as dropped.
package diag
