package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cleanProgram = `int gcd(int u, int v)
{
	if (v == 0) return u;
	else return gcd(v, u - u / v * v);
}

void main(void)
{
	int x; int y;
	x = input(); y = input();
	output(gcd(x, y));
}
`

const undeclaredProgram = `void main(void)
{
	int x;
	y;
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheckCleanFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gcd.cm", cleanProgram)
	stdout, _, err := execute(t, "check", "--color=off", path)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected no output, got %q", stdout)
	}
}

func TestCheckListingOutput(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.cm", undeclaredProgram)
	stdout, _, err := execute(t, "check", "--color=off", path)
	if !errors.Is(err, errHasDiagnostics) {
		t.Fatalf("expected errHasDiagnostics, got %v", err)
	}
	want := "Error: undeclared variable at line 4 (name : \"y\")\n"
	if stdout != want {
		t.Fatalf("listing = %q, want %q", stdout, want)
	}
}

func TestCheckDirectoryJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/gcd.cm", cleanProgram)
	writeFile(t, dir, "b/bad.cm", undeclaredProgram)

	stdout, _, err := execute(t, "check", "--ui=off", "--format=json", "--jobs=2", dir)
	if !errors.Is(err, errHasDiagnostics) {
		t.Fatalf("expected errHasDiagnostics, got %v", err)
	}
	var out struct {
		Diagnostics []struct {
			Code   string `json:"code"`
			Symbol string `json:"symbol"`
		} `json:"diagnostics"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "SEM3002" || out.Diagnostics[0].Symbol != "y" {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestCheckDirectoryListingHeaders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gcd.cm", cleanProgram)
	writeFile(t, dir, "nested/bad.cm", undeclaredProgram)

	stdout, _, err := execute(t, "check", "--ui=off", dir)
	if !errors.Is(err, errHasDiagnostics) {
		t.Fatalf("expected errHasDiagnostics, got %v", err)
	}
	if !strings.HasPrefix(stdout, "nested/bad.cm:\nError: undeclared variable") {
		t.Fatalf("unexpected listing:\n%s", stdout)
	}
	if strings.Contains(stdout, "gcd.cm") {
		t.Fatalf("clean files must not get a header:\n%s", stdout)
	}
}

func TestCheckUsesManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cminus.toml", `
[package]
name = "demo"

[check]
format = "short"
exclude = ["gen/**"]
`)
	writeFile(t, dir, "main.cm", undeclaredProgram)
	writeFile(t, dir, "gen/skip.cm", "int broken(\n")

	stdout, _, err := execute(t, "check", "--ui=off", dir)
	if !errors.Is(err, errHasDiagnostics) {
		t.Fatalf("expected errHasDiagnostics, got %v", err)
	}
	if !strings.HasPrefix(stdout, "error SEM3002 ") || strings.Contains(stdout, "skip.cm") {
		t.Fatalf("manifest settings ignored:\n%s", stdout)
	}

	// флаг важнее манифеста
	stdout, _, _ = execute(t, "check", "--ui=off", "--format=listing", dir)
	if !strings.Contains(stdout, "Error: undeclared variable at line 4") {
		t.Fatalf("--format must override manifest:\n%s", stdout)
	}
}

func TestCheckStagesAndTimings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.cm", undeclaredProgram)
	stdout, stderr, err := execute(t, "check", "--stages=syntax", "--timings", path)
	if err != nil || stdout != "" {
		t.Fatalf("syntax stage must pass: err=%v out=%q", err, stdout)
	}
	if !strings.Contains(stderr, "timings:") || !strings.Contains(stderr, "parse") {
		t.Fatalf("expected timings on stderr:\n%s", stderr)
	}

	if _, _, err := execute(t, "check", "--stages=codegen", path); err == nil {
		t.Fatalf("unknown stage must fail")
	}
	if _, _, err := execute(t, "check", "--format=xml", path); err == nil {
		t.Fatalf("unknown format must fail")
	}
}

func TestCheckTraceFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gcd.cm", cleanProgram)
	tracePath := filepath.Join(dir, "trace.ndjson")
	if _, _, err := execute(t, "check", "--trace", tracePath, path); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name":"typecheck"`) {
		t.Fatalf("trace lacks typecheck span:\n%s", data)
	}
}

func TestTraceClosedWhenCheckFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.cm", undeclaredProgram)
	tracePath := filepath.Join(dir, "trace.ndjson")
	if _, _, err := execute(t, "check", "--trace", tracePath, "--trace-format", "ndjson", path); !errors.Is(err, errHasDiagnostics) {
		t.Fatalf("expected errHasDiagnostics, got %v", err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name":"typecheck"`) {
		t.Fatalf("trace lacks typecheck span:\n%s", data)
	}
}

func TestProfileFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gcd.cm", cleanProgram)
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	if _, _, err := execute(t, "check", "--cpu-profile", cpu, "--mem-profile", mem, path); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	for _, p := range []string{cpu, mem} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("profile %s not written: %v", p, err)
		}
	}
}

func TestTokenizeListing(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.cm", "int x;\n")
	stdout, _, err := execute(t, "tokenize", path)
	if err != nil {
		t.Fatal(err)
	}
	want := "\t1: reserved word: int\n\t1: ID, name= x\n"
	if !strings.HasPrefix(stdout, want) {
		t.Fatalf("tokens = %q", stdout)
	}
}

func TestParsePrintsTree(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gcd.cm", cleanProgram)
	stdout, _, err := execute(t, "parse", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "Syntax tree:\n") || !strings.Contains(stdout, "gcd") {
		t.Fatalf("unexpected tree:\n%s", stdout)
	}
}

func TestSymtabListings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gcd.cm", cleanProgram)
	stdout, _, err := execute(t, "symtab", "--show=functions", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "gcd") || strings.Contains(stdout, "Nested Level") {
		t.Fatalf("unexpected listing:\n%s", stdout)
	}
	if _, _, err := execute(t, "symtab", "--show=bogus", path); err == nil {
		t.Fatalf("unknown listing must fail")
	}
}

func TestInitCreatesProject(t *testing.T) {
	target := filepath.Join(t.TempDir(), "demo")
	stdout, _, err := execute(t, "init", target)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(stdout, "cminus.toml") {
		t.Fatalf("unexpected output %q", stdout)
	}
	if _, _, err := execute(t, "check", "--ui=off", target); err != nil {
		t.Fatalf("fresh project must check clean: %v", err)
	}
	if _, _, err := execute(t, "init", target); err == nil {
		t.Fatalf("second init must fail")
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil || !strings.HasPrefix(stdout, "cminus ") {
		t.Fatalf("version: %q, %v", stdout, err)
	}
}

func TestModeFlags(t *testing.T) {
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for bad --ui")
	}
	if m, err := readUIMode(" ON "); err != nil || m != uiModeOn {
		t.Fatalf("readUIMode = %v, %v", m, err)
	}
	if on, err := useColor("on", nil); err != nil || !on {
		t.Fatalf("useColor(on) = %v, %v", on, err)
	}
	if _, err := useColor("maybe", nil); err == nil {
		t.Fatalf("expected error for bad --color")
	}
}
