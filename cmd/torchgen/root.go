package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags can also be set through TORCHGEN_<FLAG> environment variables, e.g.
// TORCHGEN_LOG_LEVEL=debug or TORCHGEN_OUTPUT=build/src.
const envPrefix = "TORCHGEN"

// app is the state shared by all commands.
type app struct {
	conf *viper.Viper
	log  *logrus.Logger
}

func newApp() *app {
	conf := viper.New()
	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	return &app{conf: conf, log: log}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "torchgen",
		Short:         "Generate C++ inference handlers from settings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.conf.BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			return a.setupLogging(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().String("log-level", "warning", "log level (debug, info, warning, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")

	root.AddCommand(
		newGenerateCmd(a),
		newCheckCmd(a),
		newOptionsCmd(),
		newTemplatesCmd(),
		newSettingsCmd(a),
	)

	return root
}

func (a *app) setupLogging(w io.Writer) error {
	level, err := logrus.ParseLevel(a.conf.GetString("log-level"))
	if err != nil {
		return err
	}

	a.log.SetLevel(level)
	a.log.SetOutput(w)

	switch format := a.conf.GetString("log-format"); format {
	case "text":
		a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		a.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	return nil
}
