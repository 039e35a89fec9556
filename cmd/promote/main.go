// Command promote sets a user's role to ADMIN by email address.
// It is used to bootstrap the first moderator.
//
// Usage:
//
//	promote --email=user@example.com
//
// Exit codes: 0 = promoted, 1 = error or no such user.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/callmeani/dream-marketplace/internal/app"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

func main() {
	email := flag.String("email", "", "email of user to promote to admin")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Usage: promote --email=user@example.com")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	found, err := a.Store.Users.SetRole(ctx, *email, domain.UserRoleAdmin)
	if err != nil {
		a.Logger.Error("update role", slog.String("email", *email), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if !found {
		fmt.Printf("No user found with email %q.\n", *email)
		os.Exit(1)
	}

	a.Logger.Info("user promoted", slog.String("email", *email))
	fmt.Printf("User %q promoted to admin.\n", *email)
}
