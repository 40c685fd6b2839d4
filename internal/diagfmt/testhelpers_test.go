package diagfmt

import (
	"strings"
	"testing"

	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/lexer"
	"cminus/internal/parser"
	"cminus/internal/sema"
	"cminus/internal/source"
	"cminus/internal/symbols"
)

func analyzeSource(t *testing.T, src string) (*source.FileSet, *ast.Tree, *symbols.Table, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSetWithBase("")
	id := fs.AddVirtual("main.cm", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	res := parser.ParseFile(lexer.New(fs.Get(id), lexer.Options{Reporter: rep}), parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("unexpected syntax errors: %d", bag.Len())
	}
	table := sema.BuildSymbolTable(res.Tree)
	sema.TypeCheck(res.Tree, table, sema.Options{Reporter: rep})
	return fs, res.Tree, table, bag
}

// row returns the whitespace-separated fields of the first line starting with prefix.
func row(out, prefix string) []string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.Fields(line)
		}
	}
	return nil
}
