package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cminus/internal/diagfmt"
	"cminus/internal/driver"
)

func newSymtabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symtab [flags] file.cm",
		Short: "Analyze a C-Minus file and print its symbol table",
		Long: `Symtab runs the semantic passes and prints the symbol table, the
variables of every scope and the function signatures, followed by the
diagnostics in listing format.`,
		Args: cobra.ExactArgs(1),
		RunE: runSymtab,
	}
	cmd.Flags().StringSlice("show", []string{"symbols", "scopes", "functions"}, "listings to print (symbols,scopes,functions)")
	return cmd
}

func runSymtab(cmd *cobra.Command, args []string) error {
	show, err := cmd.Flags().GetStringSlice("show")
	if err != nil {
		return fmt.Errorf("failed to get show flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	listings := map[string]func(io.Writer){}

	res, err := driver.Diagnose(cmd.Context(), args[0], &driver.DiagnoseOptions{
		Stage:          driver.DiagnoseStageAll,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res.Table != nil {
		listings["symbols"] = func(w io.Writer) { diagfmt.SymbolTable(w, res.Table) }
		listings["scopes"] = func(w io.Writer) { diagfmt.Scopes(w, res.Table) }
		listings["functions"] = func(w io.Writer) { diagfmt.Functions(w, res.Table) }
		for i, name := range show {
			render, ok := listings[strings.TrimSpace(name)]
			if !ok {
				return fmt.Errorf("unknown listing %q (expected: symbols|scopes|functions)", name)
			}
			if i > 0 {
				fmt.Fprintln(out)
			}
			render(out)
		}
	} else if res.SemaSkipped {
		fmt.Fprintln(cmd.ErrOrStderr(), "syntax errors: symbol table not built")
	}

	if res.Bag.Len() > 0 {
		fmt.Fprintln(out)
		if err := diagfmt.Listing(out, res.Bag); err != nil {
			return err
		}
	}
	if res.Bag.HasErrors() {
		return errHasDiagnostics
	}
	return nil
}
