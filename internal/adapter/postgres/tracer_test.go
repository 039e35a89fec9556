package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/callmeani/dream-marketplace/pkg/ctxutil"
)

// fakeClock advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func newTestQueryLogger(buf *bytes.Buffer, threshold, step time.Duration) *QueryLogger {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ql := NewQueryLogger(logger, threshold)
	ql.now = fakeClock(step)
	return ql
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return m
}

func TestQueryLogger_SlowQuery(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ql := newTestQueryLogger(&buf, 100*time.Millisecond, 250*time.Millisecond)

	ctx := ctxutil.WithRequestID(context.Background(), "req-1")
	ctx = ctxutil.WithActorID(ctx, 7)
	ctx = ql.TraceQueryStart(ctx, nil, pgx.TraceQueryStartData{
		SQL:  "SELECT id\n  FROM lot\n WHERE id = $1",
		Args: []any{int64(1)},
	})
	ql.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1")})

	m := decodeLine(t, &buf)
	if m["level"] != "WARN" || m["msg"] != "slow query" {
		t.Fatalf("unexpected record: %v", m)
	}
	if m["sql"] != "SELECT id FROM lot WHERE id = $1" {
		t.Errorf("sql = %q, want compacted statement", m["sql"])
	}
	if m["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", m["request_id"])
	}
	if m["actor_id"] != float64(7) {
		t.Errorf("actor_id = %v, want 7", m["actor_id"])
	}
}

func TestQueryLogger_FastQueryIsDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ql := newTestQueryLogger(&buf, time.Second, time.Millisecond)

	ctx := ql.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	ql.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	m := decodeLine(t, &buf)
	if m["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", m["level"])
	}
	if _, ok := m["request_id"]; ok {
		t.Error("request_id should be omitted when absent from context")
	}
}

func TestQueryLogger_Error(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ql := newTestQueryLogger(&buf, 0, time.Millisecond)

	ctx := ql.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "CALL proc_archive_lot($1, $2, $3)"})
	ql.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})

	m := decodeLine(t, &buf)
	if m["msg"] != "query failed" || m["error"] != "boom" {
		t.Errorf("unexpected record: %v", m)
	}
}

func TestQueryLogger_EndWithoutStart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ql := newTestQueryLogger(&buf, 0, time.Millisecond)
	ql.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
