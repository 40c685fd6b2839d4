package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cminus/internal/diagfmt"
	"cminus/internal/driver"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse file.cm",
		Short: "Print the syntax tree of a C-Minus source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	res, err := driver.Diagnose(cmd.Context(), args[0], &driver.DiagnoseOptions{
		Stage:          driver.DiagnoseStageSyntax,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return err
	}
	if err := diagfmt.Listing(cmd.ErrOrStderr(), res.Bag); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Syntax tree:")
	diagfmt.Tree(cmd.OutOrStdout(), res.Tree)
	if res.Bag.HasErrors() {
		return errHasDiagnostics
	}
	return nil
}
