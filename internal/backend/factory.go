// Package backend builds the session and expense stores selected by
// configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"gastobot/internal/store"
	"gastobot/internal/store/dynamo"
	"gastobot/internal/store/memory"
	"gastobot/internal/store/sqlite"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the store instances and optional cleanup function
type Result struct {
	Sessions store.SessionStore
	Expenses store.ExpenseStore
	Cleanup  CleanupFunc
}

// CreateStores builds the stores for the configured backend type.
func CreateStores(ctx context.Context, cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBackend:
		return createSQLiteStores(cfg)
	case DynamoBackend:
		return createDynamoStores(ctx, cfg)
	default:
		return createMemoryStores()
	}
}

func createSQLiteStores(cfg Config) (*Result, error) {
	repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	slog.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &Result{
		Sessions: repo,
		Expenses: repo,
		Cleanup:  repo.Close,
	}, nil
}

func createDynamoStores(ctx context.Context, cfg Config) (*Result, error) {
	client, err := dynamo.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DynamoDB client: %w", err)
	}
	st := dynamo.NewStore(client, cfg.DynamoSessionTable, cfg.DynamoExpensesTable)

	slog.Info("Initialized DynamoDB backend",
		"session_table", cfg.DynamoSessionTable,
		"expenses_table", cfg.DynamoExpensesTable)

	return &Result{
		Sessions: st,
		Expenses: st,
		Cleanup:  nil, // No cleanup needed for dynamo backend
	}, nil
}

func createMemoryStores() (*Result, error) {
	st := memory.New()

	slog.Info("Initialized memory backend")

	return &Result{
		Sessions: st,
		Expenses: st,
		Cleanup:  nil, // No cleanup needed for memory backend
	}, nil
}
