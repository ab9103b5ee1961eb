package memory

import (
	"context"
	"testing"

	"gastobot/internal/core"
)

func TestSessionPutOverwrites(t *testing.T) {
	s := New()
	ctx := context.Background()

	if got, err := s.Get(ctx, 1); err != nil || got != nil {
		t.Fatalf("empty store: got %v, %v", got, err)
	}

	if err := s.Put(ctx, core.Session{ChatID: 1, SheetID: "abc", SelectedCategory: "Apps"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Full overwrite drops the category.
	if err := s.Put(ctx, core.Session{ChatID: 1, SheetID: "xyz"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("get: %v, %v", got, err)
	}
	if got.SheetID != "xyz" || got.SelectedCategory != "" {
		t.Fatalf("overwrite semantics violated: %+v", got)
	}
}

func TestSetCategoryCreatesRecord(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SetCategory(ctx, 7, "Metro"); err != nil {
		t.Fatalf("set category: %v", err)
	}
	got, err := s.Get(ctx, 7)
	if err != nil || got == nil {
		t.Fatalf("get: %v, %v", got, err)
	}
	if got.SelectedCategory != "Metro" || got.SheetID != "" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestDeleteMatchingFirstMatchWins(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := core.Expense{ChatID: 1, RecordID: 10, Category: "Apps", Date: "05-03-2025", Description: "coffee", Amount: "2000"}
	b := a
	b.RecordID = 11
	if err := s.Insert(ctx, a); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, b); err != nil {
		t.Fatalf("insert: %v", err)
	}

	deleted, err := s.DeleteMatching(ctx, 1, a.Match())
	if err != nil || !deleted {
		t.Fatalf("delete: %v, %v", deleted, err)
	}
	if left := s.Expenses(1); len(left) != 1 || left[0].RecordID != 11 {
		t.Fatalf("expected only the second duplicate to remain: %+v", left)
	}

	deleted, err = s.DeleteMatching(ctx, 1, core.ExpenseMatch{Category: "nope"})
	if err != nil || deleted {
		t.Fatalf("no-op delete should report false: %v, %v", deleted, err)
	}
}
