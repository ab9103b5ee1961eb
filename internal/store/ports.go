// Package store defines the persistence ports for session and expense
// records. Backends live in the subpackages (memory, sqlite, dynamo).
package store

import (
	"context"

	"gastobot/internal/core"
)

type (
	// SessionStore persists one record per chat.
	SessionStore interface {
		// Get returns the session for a chat, or nil when none exists.
		Get(ctx context.Context, chatID int64) (*core.Session, error)
		// Put overwrites the whole record keyed by chat id. Callers that
		// intend a partial update must read-modify-write or use SetCategory.
		Put(ctx context.Context, s core.Session) error
		// SetCategory updates only the selected category, creating the
		// record when the chat has none yet.
		SetCategory(ctx context.Context, chatID int64, category string) error
	}

	// ExpenseStore persists submitted expenses.
	ExpenseStore interface {
		// Insert appends an expense record.
		Insert(ctx context.Context, e core.Expense) error
		// DeleteMatching scans the chat's records and deletes the first one
		// whose category, date, description and amount all equal m. It
		// reports whether a record was deleted.
		DeleteMatching(ctx context.Context, chatID int64, m core.ExpenseMatch) (bool, error)
	}
)
