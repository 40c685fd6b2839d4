package parser

import (
	"testing"

	"cminus/internal/diag"
	"cminus/internal/lexer"
	"cminus/internal/source"
	"cminus/internal/testkit"
)

func TestParsedTreesKeepSpanInvariants(t *testing.T) {
	cases := map[string]string{
		"gcd":    gcdProgram,
		"arrays": "int a[10];\nvoid f(int b[]) {\n  a[b[0]] = 1;\n}\n",
		"nested": "void main(void) {\n  int x;\n  { int y; y = x; }\n  while (x < 3) x = x + 1;\n  ;\n}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual(name+".cm", []byte(src))
			rep := diag.BagReporter{Bag: diag.NewBag(0)}
			lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
			res := ParseFile(lx, Options{Reporter: rep})
			if err := testkit.CheckTreeInvariants(res.Tree, fs.Get(id)); err != nil {
				t.Fatal(err)
			}
		})
	}
}
