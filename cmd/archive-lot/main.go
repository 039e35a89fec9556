// Command archive-lot archives a marketplace lot as a moderation action.
// The lot status change and the moderation log entry are written by one
// database procedure, so they commit together or not at all.
//
// Usage:
//
//	archive-lot --lot=42 --admin=1 --reason="duplicate listing"
//
// Exit codes: 0 = archived, 1 = error, 2 = rejected (lot not archivable,
// unknown lot or admin, or caller is not an admin).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/callmeani/dream-marketplace/internal/app"
	"github.com/callmeani/dream-marketplace/internal/domain"
	"github.com/callmeani/dream-marketplace/pkg/ctxutil"
)

func main() {
	lotID := flag.Int64("lot", 0, "id of the lot to archive")
	adminID := flag.Int64("admin", 0, "id of the acting admin")
	reason := flag.String("reason", "", "moderation reason recorded on the lot and in the log")
	flag.Parse()

	if *lotID <= 0 || *adminID <= 0 {
		fmt.Fprintln(os.Stderr, `Usage: archive-lot --lot=ID --admin=ID [--reason="..."]`)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ctx = ctxutil.WithNewRequestID(ctx)
	ctx = ctxutil.WithActorID(ctx, *adminID)

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	err = a.Store.Lots.Archive(ctx, *lotID, *adminID, *reason)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrValidation):
		a.Logger.WarnContext(ctx, "archive rejected",
			slog.Int64("lot_id", *lotID),
			slog.Int64("admin_id", *adminID),
			slog.String("error", err.Error()),
		)
		fmt.Fprintf(os.Stderr, "Lot %d was not archived: %v\n", *lotID, err)
		os.Exit(2)
	default:
		a.Logger.ErrorContext(ctx, "archive failed",
			slog.Int64("lot_id", *lotID),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	a.Logger.InfoContext(ctx, "lot archived",
		slog.Int64("lot_id", *lotID),
		slog.Int64("admin_id", *adminID),
		slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
	)
	fmt.Printf("Lot %d archived.\n", *lotID)
}
