package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supportdesk/backend/internal/models"
)

// Schema creates the table emails are read from.
const Schema = `CREATE TABLE IF NOT EXISTS support_emails (
	id      TEXT PRIMARY KEY,
	sender  TEXT NOT NULL,
	subject TEXT NOT NULL DEFAULT '',
	body    TEXT NOT NULL DEFAULT '',
	sent_at TIMESTAMPTZ NOT NULL
)`

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, Schema)
	return err
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// copier is the part of pgxpool.Pool and pgx.Tx used for bulk inserts.
type copier interface {
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

func copyEmails(ctx context.Context, c copier, emails []models.Email) (int64, error) {
	rows := make([][]any, 0, len(emails))
	for _, e := range emails {
		rows = append(rows, []any{e.ID, e.Sender, e.Subject, e.Body, e.SentAt})
	}
	return c.CopyFrom(ctx, pgx.Identifier{"support_emails"}, []string{"id", "sender", "subject", "body", "sent_at"}, pgx.CopyFromRows(rows))
}

// InsertEmails appends emails to the table.
func (s *Store) InsertEmails(ctx context.Context, emails []models.Email) (int64, error) {
	return copyEmails(ctx, s.Pool, emails)
}

// ReplaceEmails swaps the stored emails for a new batch in one transaction.
func (s *Store) ReplaceEmails(ctx context.Context, emails []models.Email) (int64, error) {
	var n int64
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM support_emails`); err != nil {
			return err
		}
		var err error
		n, err = copyEmails(ctx, tx, emails)
		return err
	})
	return n, err
}

// ListEmails returns stored emails oldest first, so queue sequence follows
// arrival order.
func (s *Store) ListEmails(ctx context.Context) ([]models.Email, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, sender, subject, body, sent_at FROM support_emails ORDER BY sent_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Email
	for rows.Next() {
		var e models.Email
		if err := rows.Scan(&e.ID, &e.Sender, &e.Subject, &e.Body, &e.SentAt); err != nil {
			return nil, err
		}
		e.SentAt = e.SentAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
