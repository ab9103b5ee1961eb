// Package memory is an in-process store backend used by tests and local
// runs without external dependencies.
package memory

import (
	"context"
	"sync"

	"gastobot/internal/core"
	"gastobot/internal/store"
)

// Ensure interface conformance
var (
	_ store.SessionStore = (*Store)(nil)
	_ store.ExpenseStore = (*Store)(nil)
)

type Store struct {
	mu       sync.Mutex
	sessions map[int64]core.Session
	expenses map[int64][]core.Expense
}

func New() *Store {
	return &Store{
		sessions: make(map[int64]core.Session),
		expenses: make(map[int64][]core.Expense),
	}
}

// Get implements store.SessionStore.
func (s *Store) Get(_ context.Context, chatID int64) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return nil, nil
	}
	out := sess
	return &out, nil
}

// Put implements store.SessionStore. The record is overwritten whole.
func (s *Store) Put(_ context.Context, sess core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ChatID] = sess
	return nil
}

// SetCategory implements store.SessionStore.
func (s *Store) SetCategory(_ context.Context, chatID int64, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[chatID]
	sess.ChatID = chatID
	sess.SelectedCategory = category
	s.sessions[chatID] = sess
	return nil
}

// Insert implements store.ExpenseStore.
func (s *Store) Insert(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.ChatID] = append(s.expenses[e.ChatID], e)
	return nil
}

// DeleteMatching implements store.ExpenseStore. First match wins.
func (s *Store) DeleteMatching(_ context.Context, chatID int64, m core.ExpenseMatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.expenses[chatID]
	for i, e := range items {
		if m.Matches(e) {
			s.expenses[chatID] = append(items[:i:i], items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Expenses returns a copy of the chat's records, in insertion order.
func (s *Store) Expenses(chatID int64) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses[chatID]...)
}
