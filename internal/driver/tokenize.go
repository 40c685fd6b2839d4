package driver

import (
	"cminus/internal/diag"
	"cminus/internal/lexer"
	"cminus/internal/source"
	"cminus/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes the whole file, EOF included.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, loadError(path, err)
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	tokens := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
