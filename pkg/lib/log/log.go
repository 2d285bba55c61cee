// Package log exposes the logger contract accepted by the opsim SDK.
//
// Any type satisfying [Logger] can be set on lib.Config.Logger. When none is
// set, [Noop] is used and the engine stays silent, including the warnings
// emitted for operations whose kinds have no stages in the catalog.
//
// Adapting a standard library slog logger only needs the format methods:
//
//	type slogLogger struct{ l *slog.Logger }
//
//	func (s slogLogger) Warningf(format string, args ...any) { s.l.Warn(fmt.Sprintf(format, args...)) }
//	func (s slogLogger) Debugf(format string, args ...any)   { s.l.Debug(fmt.Sprintf(format, args...)) }
//	// Infof, Errorf, WithValues, WithCtxValues and SetValuesOnCtx follow the same shape.
package log

import "github.com/slok/opsim/internal/log"

// Logger is the logger used by the SDK and its engine.
type Logger = log.Logger

// Kv holds structured key-value pairs, the SDK tags its loggers with an "svc" key.
type Kv = log.Kv

// Noop discards everything.
var Noop = log.Noop
