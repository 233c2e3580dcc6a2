// Package logging builds the process-wide slog.Logger, the way
// cmd/cloudslash-cli/commands/scan.go selects a JSON or text handler from
// config flags — the teacher itself carries no logging at all, so this
// ambient concern is grounded on that sibling example instead (DESIGN.md).
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/arnegilmore/microplace/internal/errs"
)

// Setup builds a *slog.Logger writing to stdout (or, if filePath is set, to
// that file) at the given level, as either JSON or text. An empty filePath
// means stdout; an unrecognized level is a ConfigError (spec §7).
func Setup(level, filePath string, jsonFormat bool) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var w io.Writer = os.Stdout
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errs.NewConfigError("log_file", "cannot open "+filePath+": "+err.Error())
		}
		w = f
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler), nil
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errs.NewConfigError("log_level", "must be debug, info, warn, or error, got "+level)
	}
}
