// Package project loads cminus.toml, the optional manifest that marks a
// project root and carries defaults for `cminus check`:
//
//	[package]
//	name = "demo"
//
//	[check]
//	include = ["src/**.cm"]
//	exclude = ["src/gen/**"]
//	max_diagnostics = 50
//	format = "pretty"
//	jobs = 4
//
//	[watch]
//	debounce_ms = 300
//	rate_per_second = 2
//
// Command-line flags override manifest values.
package project
