// Package main provides the CLI entrypoint for torchgen.
//
// torchgen turns a settings document into the C++ source of a torchlambda
// inference handler:
//   - generate: resolve settings and write the source plus its manifest
//   - check: validate settings and report every problem
//   - options: list the configuration options
//   - templates: list the skeletons and their regions
//   - settings init: write a commented settings scaffold
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)

	stop()

	if err != nil {
		a.log.WithError(err).Error("torchgen failed")
		os.Exit(1)
	}
}
