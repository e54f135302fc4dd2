package main

import (
	"errors"

	"github.com/sirupsen/logrus"

	"torchgen/internal/diagnostic"
	"torchgen/internal/resolve"
	"torchgen/internal/settings"
)

// resolveDocument resolves a loaded settings document. The returned
// diagnostics hold the loader's notes followed by the resolver's problems.
func resolveDocument(doc *settings.Document) (*resolve.Config, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	diags.Merge(doc.Diagnostics)

	cfg, err := resolve.Resolve(doc.Values)

	var verr *resolve.ValidationError
	if errors.As(err, &verr) {
		diags.Merge(verr.Diagnostics)
	}

	return cfg, diags, err
}

// logDiagnostics logs every diagnostic on its own line at its severity.
func logDiagnostics(log *logrus.Entry, diags diagnostic.Diagnostics) {
	for _, d := range diags.Errors {
		diagnosticEntry(log, d).Error(d.Message)
	}

	for _, d := range diags.Warnings {
		diagnosticEntry(log, d).Warn(d.Message)
	}

	for _, d := range diags.Infos {
		diagnosticEntry(log, d).Info(d.Message)
	}
}

func diagnosticEntry(log *logrus.Entry, d diagnostic.Diagnostic) *logrus.Entry {
	entry := log.WithFields(logrus.Fields{
		"code":   d.Code,
		"option": d.Option,
	})
	if d.Related != "" {
		entry = entry.WithField("related", d.Related)
	}

	if len(d.Suggestions) > 0 {
		entry = entry.WithField("suggestions", d.Suggestions)
	}

	return entry
}
