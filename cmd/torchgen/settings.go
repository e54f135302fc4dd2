package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"torchgen/internal/option"
	"torchgen/internal/settings"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Work with settings files",
	}

	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a commented settings scaffold",
		Long: `Init writes a settings file listing every option with its description.
Options without a default are left commented out. Without PATH the scaffold
is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := settings.Scaffold(option.Default())
			if err != nil {
				return err
			}

			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}

			path := args[0]

			if !a.conf.GetBool("force") {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, os.ErrNotExist) {
					return err
				}
			}

			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("writing settings: %w", err)
			}

			a.log.WithField("file", path).Info("settings written")

			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}
