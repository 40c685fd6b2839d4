package sema

import (
	"fmt"

	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/symbols"
	"cminus/internal/trace"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	// Tracer receives a point per scope entered and left; debug level only.
	Tracer      trace.Tracer
	TraceParent uint64
}

// Result summarizes a TypeCheck run.
type Result struct {
	// Errors counts diagnostics reported by the checker.
	Errors uint
}

// TypeCheck walks tree again with the scopes recorded by BuildSymbolTable,
// annotates expression types and reports semantic errors. The table cursor is
// reset first, so calling TypeCheck again yields the same diagnostics and
// leaves the table as it was.
func TypeCheck(tree *ast.Tree, table *symbols.Table, opts Options) Result {
	if tree == nil || table == nil {
		return Result{}
	}
	prependBuiltins(tree)
	table.ResetCursor()

	checker := typeChecker{
		tree:     tree,
		table:    table,
		reporter: opts.Reporter,
		tracer:   opts.Tracer,
		parent:   opts.TraceParent,
		bodies:   make(map[ast.NodeID]ast.NodeID),
	}
	checker.run()
	return Result{Errors: checker.errors}
}

type typeChecker struct {
	tree     *ast.Tree
	table    *symbols.Table
	reporter diag.Reporter
	tracer   trace.Tracer
	parent   uint64

	// bodies maps a function body to its declaration.
	bodies map[ast.NodeID]ast.NodeID
	fns    fnStack
	errors uint
}

func (tc *typeChecker) run() {
	tc.tree.Walk(tc.tree.Root, ast.Visitor{
		Pre:  tc.enter,
		Post: tc.leave,
	})
}

// scopeEvent records a scope change together with the function it belongs to.
func (tc *typeChecker) scopeEvent(name string, n *ast.Node) {
	if tc.tracer == nil || !tc.tracer.Enabled() || !tc.tracer.Level().ShouldEmit(trace.ScopeNode) {
		return
	}
	detail := fmt.Sprintf("%s line %d", n.Kind, n.Line)
	if fn := tc.fns.top(); fn != nil {
		detail = fn.name + ": " + detail
	}
	trace.Point(tc.tracer, trace.ScopeNode, name, detail, tc.parent)
}

func (tc *typeChecker) report(code diag.Code, n *ast.Node, symbol, msg string) *diag.ReportBuilder {
	tc.errors++
	return diag.ReportError(tc.reporter, code, n.Span, msg).AtLine(n.Line).WithSymbol(symbol)
}
