// Package sqlite is the SQLite store backend, used when the bot runs as a
// plain server instead of against DynamoDB.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gastobot/internal/core"
	"gastobot/internal/store"

	_ "modernc.org/sqlite"
)

// Ensure interface conformance
var (
	_ store.SessionStore = (*Repository)(nil)
	_ store.ExpenseStore = (*Repository)(nil)
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements store.SessionStore.
func (r *Repository) Get(ctx context.Context, chatID int64) (*core.Session, error) {
	var s core.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT chat_id, sheet_id, selected_category FROM sessions WHERE chat_id = ?`,
		chatID,
	).Scan(&s.ChatID, &s.SheetID, &s.SelectedCategory)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// Put implements store.SessionStore. The whole row is replaced.
func (r *Repository) Put(ctx context.Context, s core.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (chat_id, sheet_id, selected_category) VALUES (?, ?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET
		   sheet_id = excluded.sheet_id,
		   selected_category = excluded.selected_category`,
		s.ChatID, s.SheetID, s.SelectedCategory,
	)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// SetCategory implements store.SessionStore.
func (r *Repository) SetCategory(ctx context.Context, chatID int64, category string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (chat_id, sheet_id, selected_category) VALUES (?, '', ?)
		 ON CONFLICT(chat_id) DO UPDATE SET selected_category = excluded.selected_category`,
		chatID, category,
	)
	if err != nil {
		return fmt.Errorf("set category: %w", err)
	}
	return nil
}

// Insert implements store.ExpenseStore.
func (r *Repository) Insert(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (chat_id, record_id, user_name, category, date, description, amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ChatID, e.RecordID, e.UserName, e.Category, e.Date, e.Description, e.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"chat_id", e.ChatID,
		"record_id", e.RecordID,
		"category", e.Category,
		"amount", e.Amount)

	return nil
}

// DeleteMatching implements store.ExpenseStore. Records are scanned in
// record id order and the first compound match is deleted.
func (r *Repository) DeleteMatching(ctx context.Context, chatID int64, m core.ExpenseMatch) (bool, error) {
	var recordID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT record_id FROM expenses
		 WHERE chat_id = ? AND category = ? AND date = ? AND description = ? AND amount = ?
		 ORDER BY record_id LIMIT 1`,
		chatID, m.Category, m.Date, m.Description, m.Amount,
	).Scan(&recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find matching expense: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE chat_id = ? AND record_id = ?`,
		chatID, recordID,
	); err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	return true, nil
}
