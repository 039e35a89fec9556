package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithActorID_And_ActorIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithActorID(context.Background(), 42)

	got, ok := ActorIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for positive id")
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestActorIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := ActorIDFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestActorIDFromCtx_Zero(t *testing.T) {
	t.Parallel()

	if _, ok := ActorIDFromCtx(WithActorID(context.Background(), 0)); ok {
		t.Fatal("expected ok=false for zero id")
	}
}

func TestActorIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("actor_id"), "7")

	if _, ok := ActorIDFromCtx(ctx); ok {
		t.Fatal("expected ok=false for wrong type")
	}
}

func TestWithRequestID_And_RequestIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")

	got := RequestIDFromCtx(ctx)
	if got != "req-123" {
		t.Fatalf("expected req-123, got %s", got)
	}
}

func TestWithNewRequestID(t *testing.T) {
	t.Parallel()

	got := RequestIDFromCtx(WithNewRequestID(context.Background()))
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a UUID request id, got %q: %v", got, err)
	}
}

func TestRequestIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
