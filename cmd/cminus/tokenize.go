package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cminus/internal/diagfmt"
	"cminus/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.cm",
		Short: "Print the tokens of a C-Minus source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "listing", "output format (listing|pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Диагностику - в stderr, токены - в stdout
	if result.Bag.Len() > 0 {
		colorFlag, _ := cmd.Root().PersistentFlags().GetString("color") //nolint:errcheck
		color, _ := useColor(colorFlag, os.Stderr)                      //nolint:errcheck
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: color, Context: 1})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "listing":
		err = diagfmt.FormatTokensListing(out, result.Tokens, result.FileSet)
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errHasDiagnostics
	}
	return nil
}
