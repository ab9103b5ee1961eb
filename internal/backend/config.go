package backend

import "gastobot/internal/config"

// Type identifies a store backend implementation
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
	DynamoBackend Type = "dynamo"
)

// IsValid reports whether the backend type is supported
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, DynamoBackend:
		return true
	}
	return false
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// SQLite backend
	SQLiteDBPath string

	// DynamoDB backend
	DynamoSessionTable  string
	DynamoExpensesTable string
}

// FromAppConfig converts application config to backend config
func FromAppConfig(cfg *config.Config) Config {
	return Config{
		Type:                Type(cfg.DataBackend),
		SQLiteDBPath:        cfg.SQLiteDBPath,
		DynamoSessionTable:  cfg.DynamoSessionTable,
		DynamoExpensesTable: cfg.DynamoExpensesTable,
	}
}
