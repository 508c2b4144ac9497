// Package slog provides log/slog decorators for the lexcov service
// interfaces. Successful calls log at debug level, failures at warn.
package slog

import "log/slog"

func levelFor(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelDebug
}
