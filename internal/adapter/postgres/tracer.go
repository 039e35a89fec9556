package postgres

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/callmeani/dream-marketplace/pkg/ctxutil"
)

// QueryLogger is a pgx.QueryTracer that logs failed statements and statements
// slower than SlowThreshold at WARN, and everything else at DEBUG.
type QueryLogger struct {
	Logger        *slog.Logger
	SlowThreshold time.Duration

	now func() time.Time
}

// NewQueryLogger creates a tracer logging through logger.
func NewQueryLogger(logger *slog.Logger, slowThreshold time.Duration) *QueryLogger {
	return &QueryLogger{Logger: logger, SlowThreshold: slowThreshold, now: time.Now}
}

type traceCtxKey struct{}

type traceStart struct {
	sql   string
	args  int
	start time.Time
}

// TraceQueryStart implements pgx.QueryTracer.
func (l *QueryLogger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceCtxKey{}, traceStart{
		sql:   data.SQL,
		args:  len(data.Args),
		start: l.clock(),
	})
}

// TraceQueryEnd implements pgx.QueryTracer.
func (l *QueryLogger) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceCtxKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := l.clock().Sub(st.start)

	attrs := []slog.Attr{
		slog.String("sql", compactSQL(st.sql)),
		slog.Int("args", st.args),
		slog.Duration("duration", elapsed),
		slog.String("command", data.CommandTag.String()),
	}
	if id := ctxutil.RequestIDFromCtx(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if actor, ok := ctxutil.ActorIDFromCtx(ctx); ok {
		attrs = append(attrs, slog.Int64("actor_id", actor))
	}

	switch {
	case data.Err != nil:
		attrs = append(attrs, slog.String("error", data.Err.Error()))
		l.Logger.LogAttrs(ctx, slog.LevelWarn, "query failed", attrs...)
	case l.SlowThreshold > 0 && elapsed >= l.SlowThreshold:
		l.Logger.LogAttrs(ctx, slog.LevelWarn, "slow query", attrs...)
	default:
		l.Logger.LogAttrs(ctx, slog.LevelDebug, "query", attrs...)
	}
}

func (l *QueryLogger) clock() time.Time {
	if l.now == nil {
		return time.Now()
	}
	return l.now()
}

// compactSQL collapses whitespace so multi-line statements log on one line.
func compactSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
