// Copyright 2024 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log provides the small, context-first logging surface the rest
// of this module calls into, matching the call-signature idiom of
// pkg/util/log (Infof/Warningf/VEventf taking a context.Context first) but
// backed by log/slog instead of that package's channel/OTLP machinery,
// which has no component in this module to attach to (see DESIGN.md).
// Message construction still goes through cockroachdb/redact, the same as
// pkg/util/log: arguments are redacted unless the caller marks them Safe,
// since a logged expression can carry a literal value straight out of a
// query.
package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/redact"
)

// Safe marks v as free of sensitive data, so it survives message
// construction unredacted. Structural identifiers (group IDs, rule set
// names, operator tags) should be wrapped with Safe; a scalar literal
// pulled out of a memo expression should not be.
func Safe(v interface{}) redact.SafeValue {
	return redact.Safe(v)
}

// Logger is the logging surface the task scheduler and rewriter facade
// call through. Callers depend on this interface, not on *slog.Logger
// directly, so a test can substitute a recording implementation without
// touching log/slog's global handler.
type Logger interface {
	Infof(ctx context.Context, format string, args ...interface{})
	Warningf(ctx context.Context, format string, args ...interface{})
	VEventf(ctx context.Context, level int32, format string, args ...interface{})
}

// slogLogger is the default Logger, backed by log/slog. ctx is accepted
// on every method purely to preserve the familiar call signature; this
// implementation never reads values out of it.
type slogLogger struct {
	base *slog.Logger
}

// NewSlogLogger wraps base as a Logger. A nil base uses slog's default
// logger.
func NewSlogLogger(base *slog.Logger) Logger {
	if base == nil {
		base = slog.Default()
	}
	return &slogLogger{base: base}
}

func (l *slogLogger) Infof(_ context.Context, format string, args ...interface{}) {
	l.base.Info(sprintf(format, args...))
}

func (l *slogLogger) Warningf(_ context.Context, format string, args ...interface{}) {
	l.base.Warn(sprintf(format, args...))
}

// VEventf logs at debug level regardless of the requested verbosity; this
// package has no cluster-setting-controlled vmodule to gate on, so it lets
// slog's handler decide whether debug output is visible.
func (l *slogLogger) VEventf(_ context.Context, level int32, format string, args ...interface{}) {
	l.base.Debug(sprintf(format, args...))
}

// Default is the package-level Logger every caller in this module uses
// unless a component was constructed with an explicit override.
var Default Logger = NewSlogLogger(nil)

// Infof logs through Default.
func Infof(ctx context.Context, format string, args ...interface{}) {
	Default.Infof(ctx, format, args...)
}

// Warningf logs through Default.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	Default.Warningf(ctx, format, args...)
}

// VEventf logs through Default.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	Default.VEventf(ctx, level, format, args...)
}

// sprintf builds the message the way pkg/util/log does: through redact, so
// that anything not wrapped in Safe is masked out of the rendered line
// before it ever reaches slog.
func sprintf(format string, args ...interface{}) string {
	return redact.Sprintf(format, args...).Redact().StripMarkers()
}
