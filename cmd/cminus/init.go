package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cminus/internal/project"
)

const defaultMainCM = `/* A program to perform Euclid's
   Algorithm to compute gcd. */

int gcd(int u, int v)
{
	if (v == 0) return u;
	else return gcd(v, u - u / v * v);
	/* u-u/v*v == u mod v */
}

void main(void)
{
	int x; int y;
	x = input(); y = input();
	output(gcd(x, y));
}
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path|name]",
		Short: "Initialize a new C-Minus project",
		Long: `Initialize a project by creating cminus.toml and a sample main.cm.
If [path|name] is omitted, initializes the current directory. A missing
directory is created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) > 0 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "cminus-project"
	}
	if _, err := project.WriteManifest(target, project.Default(name)); err != nil {
		return err
	}

	mainPath := filepath.Join(target, "main.cm")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainCM), 0o600); err != nil {
			return fmt.Errorf("failed to write main.cm: %w", err)
		}
		createdMain = true
	}

	rel := target
	if r, err := filepath.Rel(wd, target); err == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized C-Minus project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdMain {
		fmt.Fprintln(out, "  - main.cm")
	} else {
		fmt.Fprintln(out, "  - main.cm (existing)")
	}
	return nil
}
