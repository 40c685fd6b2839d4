package parser

import (
	"fmt"
	"strings"

	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/lexer"
	"cminus/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] line %d: %s", d.Code.ID(), d.Line, d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(src string) (*ast.Tree, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cm", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	res := ParseFile(lx, Options{Reporter: rep})
	return res.Tree, bag
}

func kindsOf(tree *ast.Tree, head ast.NodeID) []ast.Kind {
	var out []ast.Kind
	for _, id := range tree.Siblings(head) {
		out = append(out, tree.Node(id).Kind)
	}
	return out
}
