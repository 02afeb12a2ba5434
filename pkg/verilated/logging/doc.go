// Package logging provides a minimal logging facade for the Verilator binding.
//
// The Logger interface wraps a subset of log/slog with context-aware methods:
//
//	type Logger interface {
//	    Debug(ctx context.Context, msg string, args ...any)
//	    Info(ctx context.Context, msg string, args ...any)
//	    Warn(ctx context.Context, msg string, args ...any)
//	    Error(ctx context.Context, msg string, args ...any)
//	    With(args ...any) Logger
//	}
//
// Two implementations are provided. New wraps a *slog.Logger (slog.Default()
// when nil); NewZap wraps a *zap.Logger:
//
//	zl, _ := zap.NewDevelopment()
//	verilated.SetLogger(logging.NewZap(zl))
//
// Nop discards everything and is what the binding uses until SetLogger is
// called.
//
// Command lines may carry secrets (license keys, tokens in plusargs). Use
// Redacted to keep a field in the record without its value:
//
//	logger.Info(ctx, "arguments set", "count", n, logging.Redacted("argv"))
package logging
