package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/supportdesk/backend/internal/models"
)

func TestStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if _, err := store.Pool.Exec(ctx, `TRUNCATE support_emails`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	base := time.Date(2024, 8, 20, 9, 0, 0, 0, time.UTC)
	emails := []models.Email{
		{ID: "email_2", Sender: "b@example.com", Subject: "later", Body: "help", SentAt: base.Add(time.Hour)},
		{ID: "email_1", Sender: "a@example.com", Subject: "earlier", Body: "support", SentAt: base},
	}
	n, err := store.InsertEmails(ctx, emails)
	if err != nil || n != 2 {
		t.Fatalf("insert: %d %v", n, err)
	}

	got, err := store.ListEmails(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "email_1" || got[1].ID != "email_2" {
		t.Fatalf("expected emails oldest first, got %+v", got)
	}
	if !got[0].SentAt.Equal(base) {
		t.Fatalf("expected sent_at %s, got %s", base, got[0].SentAt)
	}
}

func TestStoreReplaceEmails(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	base := time.Date(2024, 8, 20, 9, 0, 0, 0, time.UTC)
	if _, err := store.ReplaceEmails(ctx, []models.Email{{ID: "old_1", Sender: "a@example.com", SentAt: base}}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	n, err := store.ReplaceEmails(ctx, []models.Email{
		{ID: "new_1", Sender: "b@example.com", Body: "help", SentAt: base},
		{ID: "new_2", Sender: "c@example.com", Body: "support", SentAt: base.Add(time.Minute)},
	})
	if err != nil || n != 2 {
		t.Fatalf("replace: %d %v", n, err)
	}

	got, err := store.ListEmails(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new_1" {
		t.Fatalf("expected only the new batch, got %+v", got)
	}
}
