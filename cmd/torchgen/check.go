package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"torchgen/internal/catalog"
	"torchgen/internal/settings"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check SETTINGS...",
		Short: "Validate settings files without generating",
		Long: `Check resolves every settings file and prints all problems found in it,
or the skeleton it would be rendered from.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0

			for _, path := range args {
				if !checkFile(cmd.OutOrStdout(), path) {
					failed++
				}
			}

			a.log.WithField("files", len(args)).WithField("invalid", failed).Debug("check finished")

			if failed > 0 {
				return fmt.Errorf("%d of %d settings files are invalid", failed, len(args))
			}

			return nil
		},
	}
}

// checkFile prints the outcome for one file and reports whether it is valid.
// Warnings and notes are printed for valid files too.
func checkFile(w io.Writer, path string) bool {
	doc, err := settings.LoadFile(path)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", path, err)
		return false
	}

	cfg, diags, err := resolveDocument(doc)

	for _, d := range diags.Errors {
		fmt.Fprintf(w, "%s: %s\n", path, d)
	}

	for _, d := range slices.Concat(diags.Warnings, diags.Infos) {
		fmt.Fprintf(w, "%s: %s: %s\n", path, d.Severity, d)
	}

	if err != nil {
		if !diags.HasErrors() {
			fmt.Fprintf(w, "%s: %v\n", path, err)
		}

		return false
	}

	name := catalog.Name(cfg)
	fmt.Fprintf(w, "%s: ok (%s -> %s)\n", path, name, catalog.Filename(name))

	return true
}
