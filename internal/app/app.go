// Package app wires the configuration loader into the trainconf binary: it
// loads the training document, reports every validation problem in one
// pass, and optionally dumps the resolved settings for archiving.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/trainconf/internal/config"
	"github.com/dmitrijs2005/trainconf/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/term"
)

type App struct {
	docPath string
	dump    bool
	out     io.Writer
	logger  logging.Logger
}

// NewApp builds the application around the given document path. Logs go to
// stderr: human-readable when stderr is a terminal, JSON otherwise. Every
// log line carries a fresh run id, which lets the per-device processes of a
// distributed job be told apart when they each validate the same document.
func NewApp(docPath string, dump bool) *App {
	logger := logging.
		NewForOutput(os.Stderr, term.IsTerminal(int(os.Stderr.Fd()))).
		With("run_id", uuid.NewString())

	return &App{docPath: docPath, dump: dump, out: os.Stdout, logger: logger}
}

// Run loads and validates the document and returns the process exit code:
// 0 for a valid document (warnings do not affect it), 1 for parse or
// validation failures, 2 for usage errors. Nothing is retried; a malformed
// document will not become valid by retrying.
func (a *App) Run(ctx context.Context) int {
	if a.docPath == "" {
		a.logger.Error(ctx, "no config document given, use -c <path>")
		return 2
	}

	s, err := config.Load(a.docPath)
	if err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, v := range verrs {
				a.logger.Error(ctx, "invalid setting", "field", v.Field, "reason", v.Reason)
			}
			a.logger.Error(ctx, "document rejected", "path", a.docPath, "errors", len(verrs))
			return 1
		}
		a.logger.Error(ctx, "cannot parse document", "path", a.docPath, "error", err)
		return 1
	}

	for _, w := range config.Warnings(s) {
		a.logger.Warn(ctx, w)
	}

	a.logger.Info(ctx, "document valid",
		"path", a.docPath,
		"arch", s.Model.Arch,
		"dataset", s.Data.DatasetName,
		"epochs", s.Training.Epochs,
		"distributed", s.Distributed.Distributed,
		"devices", len(s.Distributed.DeviceList),
	)

	if a.dump {
		b, err := config.Dump(s)
		if err != nil {
			a.logger.Error(ctx, "cannot dump resolved settings", "error", err)
			return 1
		}
		if _, err := fmt.Fprintf(a.out, "%s", b); err != nil {
			a.logger.Error(ctx, "cannot write resolved settings", "error", err)
			return 1
		}
	}

	return 0
}
