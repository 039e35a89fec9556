package testhelper

import (
	"context"
	"testing"

	"github.com/callmeani/dream-marketplace/internal/domain"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	user := SeedUser(t, pool)

	var email string
	err := pool.QueryRow(
		context.Background(),
		`SELECT email FROM user_account WHERE id = $1`,
		user.ID,
	).Scan(&email)
	if err != nil {
		t.Fatalf("expected user in DB, got error: %v", err)
	}

	if email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, email)
	}
}

func TestSetupTestDB_ArchivalProcedureInstalled(t *testing.T) {
	pool := SetupTestDB(t)

	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = 'proc_archive_lot' AND prokind = 'p')`,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("query pg_proc: %v", err)
	}
	if !exists {
		t.Fatal("proc_archive_lot not installed by migrations")
	}
}

func TestSeedListing(t *testing.T) {
	pool := SetupTestDB(t)

	seller, lot := SeedListing(t, pool, domain.LotStatusPending)
	if lot.ID == 0 || lot.DreamRecordID == nil {
		t.Fatalf("unexpected lot %+v", lot)
	}

	var owner int64
	err := pool.QueryRow(context.Background(),
		`SELECT d.user_id FROM lot l JOIN dream_record d ON d.id = l.dream_record_id WHERE l.id = $1`, lot.ID,
	).Scan(&owner)
	if err != nil {
		t.Fatalf("query seller: %v", err)
	}
	if owner != seller.ID {
		t.Errorf("lot seller = %d, want %d", owner, seller.ID)
	}
}
