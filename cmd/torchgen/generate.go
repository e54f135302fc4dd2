package main

import (
	"fmt"
	"io"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"torchgen/internal/gen"
	"torchgen/internal/resolve"
	"torchgen/internal/settings"
)

var dumpConfig = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate SETTINGS",
		Short: "Generate handler source from a settings file",
		Long: `Generate resolves the settings file (YAML, JSON or HCL), selects the
matching skeleton and writes the source file plus torchgen.manifest.yaml to
the output directory. With --watch the source is regenerated whenever the
settings file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if !a.conf.GetBool("watch") {
				return a.generate(cmd, path)
			}

			if err := a.generate(cmd, path); err != nil {
				a.log.WithError(err).Warn("generation failed, waiting for changes")
			}

			return watchFile(cmd.Context(), path, a.conf.GetDuration("debounce"), a.log, func() {
				if err := a.generate(cmd, path); err != nil {
					a.log.WithError(err).Warn("generation failed, waiting for changes")
				}
			})
		},
	}

	cmd.Flags().StringP("output", "o", ".", "output directory")
	cmd.Flags().Bool("stdout", false, "print the source instead of writing files")
	cmd.Flags().Bool("banner", true, "prepend a do-not-edit banner")
	cmd.Flags().Bool("dump", false, "dump the resolved settings and manifest to stderr")
	cmd.Flags().BoolP("watch", "w", false, "regenerate when the settings file changes")
	cmd.Flags().Duration("debounce", 200*time.Millisecond, "delay before regenerating in watch mode")

	return cmd
}

func (a *app) generate(cmd *cobra.Command, path string) error {
	log := a.log.WithField("settings", path)

	doc, err := settings.LoadFile(path)
	if err != nil {
		return err
	}

	cfg, diags, err := resolveDocument(doc)
	logDiagnostics(log, diags)

	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	g := gen.NewGenerator(gen.GeneratorConfig{Banner: a.conf.GetBool("banner")})

	src, err := g.Generate(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	log.WithFields(logrus.Fields{
		"template": src.Manifest.Template,
		"regions":  len(src.Manifest.Regions),
	}).Debug("source assembled")

	if a.conf.GetBool("dump") {
		dump(cmd.ErrOrStderr(), cfg, src)
	}

	if a.conf.GetBool("stdout") {
		_, err := io.WriteString(cmd.OutOrStdout(), src.Source())
		return err
	}

	paths, err := gen.WriteSource(src, a.conf.GetString("output"))
	if err != nil {
		return err
	}

	for _, p := range paths {
		log.WithField("file", p).Info("written")
	}

	return nil
}

func dump(w io.Writer, cfg *resolve.Config, src *gen.GeneratedSource) {
	fmt.Fprintln(w, "# settings")
	dumpConfig.Fdump(w, cfg.Snapshot())
	fmt.Fprintln(w, "# manifest")
	dumpConfig.Fdump(w, src.Manifest)
}
