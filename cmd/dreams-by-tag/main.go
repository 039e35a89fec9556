// Command dreams-by-tag prints the public dreams carrying a tag, newest
// first, with their tags, category and visualization.
//
// Usage:
//
//	dreams-by-tag --tag=flying
//
// Exit codes: 0 = listed (possibly nothing), 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/callmeani/dream-marketplace/internal/app"
	"github.com/callmeani/dream-marketplace/internal/feed"
	"github.com/callmeani/dream-marketplace/pkg/ctxutil"
)

func main() {
	tagName := flag.String("tag", "", "tag to list public dreams for")
	flag.Parse()

	if strings.TrimSpace(*tagName) == "" {
		fmt.Fprintln(os.Stderr, "Usage: dreams-by-tag --tag=NAME")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = ctxutil.WithNewRequestID(ctx)

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	items, err := a.Feed.ByTag(ctx, *tagName)
	if err != nil {
		a.Logger.ErrorContext(ctx, "list dreams", slog.String("tag", *tagName), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if len(items) == 0 {
		fmt.Printf("No public dreams tagged %q.\n", *tagName)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tTITLE\tCATEGORY\tTAGS\tVISUALIZATION")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			it.Dream.ID,
			it.Dream.CreatedAt.Format(time.DateOnly),
			it.Dream.Title,
			category(it),
			tags(it),
			visualization(it),
		)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

func category(it feed.Item) string {
	if it.Category == nil {
		return "-"
	}
	return it.Category.Name
}

func tags(it feed.Item) string {
	names := make([]string, len(it.Tags))
	for i, t := range it.Tags {
		names[i] = t.Name
	}
	return strings.Join(names, ",")
}

func visualization(it feed.Item) string {
	if it.Visualization == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", it.Visualization.FilePath, it.Visualization.Status)
}
