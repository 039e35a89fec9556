// Command seeder fills a development database with fake users, categories,
// tags, dreams and lots. The first generated user is an ADMIN.
//
// Flags override the seed section of the config:
//
//	--users          number of accounts
//	--dreams         dreams per account
//	--lots           lots per account (public dreams only)
//	--random-seed    faker seed; equal seeds produce equal data
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/callmeani/dream-marketplace/internal/app"
	"github.com/callmeani/dream-marketplace/internal/config"
	"github.com/callmeani/dream-marketplace/internal/seed"
)

func main() {
	users := flag.Int("users", -1, "number of accounts (default: config)")
	dreams := flag.Int("dreams", -1, "dreams per account (default: config)")
	lots := flag.Int("lots", -1, "lots per account (default: config)")
	randomSeed := flag.Int64("random-seed", 0, "faker seed (default: config, 0 = random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// CLI flags override config.
	if *users >= 0 {
		cfg.Seed.Users = *users
	}
	if *dreams >= 0 {
		cfg.Seed.DreamsPerUser = *dreams
	}
	if *lots >= 0 {
		cfg.Seed.LotsPerUser = *lots
	}
	if *randomSeed != 0 {
		cfg.Seed.RandomSeed = *randomSeed
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	a, err := app.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	s := seed.New(a.Logger, a.Store.SeedRepos(), a.Store.Tx, cfg.Seed)
	if _, err := s.Run(ctx); err != nil {
		a.Logger.Error("seed failed", slog.String("error", err.Error()))
		a.Close()
		os.Exit(1)
	}
}
