// Package core holds the domain model of the bot: per-chat sessions,
// expense records and the pure text-parsing functions the webhook
// handler is built on.
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpense indicates an expense record missing required fields.
	ErrInvalidExpense = errors.New("invalid expense")
	// ErrMalformedConfirmation indicates a confirmation message that does not
	// carry the four labeled fields.
	ErrMalformedConfirmation = errors.New("malformed confirmation message")
)

// SessionState is the chat state inferred from the stored session record.
type SessionState int

const (
	// Unbound means the chat has not supplied a spreadsheet URL yet.
	Unbound SessionState = iota
	// BoundNoCategory means a spreadsheet is bound but no category is selected.
	BoundNoCategory
	// Ready means both spreadsheet and category are set.
	Ready
)

func (s SessionState) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case BoundNoCategory:
		return "bound_no_category"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the per-chat record holding the bound spreadsheet and the
// category pending use for the next expense. Empty strings mean absent.
type Session struct {
	ChatID           int64
	SheetID          string
	SelectedCategory string
}

// State derives the chat state from field presence.
func (s Session) State() SessionState {
	switch {
	case s.SheetID == "":
		return Unbound
	case s.SelectedCategory == "":
		return BoundNoCategory
	default:
		return Ready
	}
}

// Expense is one submitted expense entry. RecordID is the Telegram message
// timestamp, reused as a quasi-unique identifier within a chat. Amount is a
// string-encoded non-negative integer; no decimals are supported.
type Expense struct {
	ChatID      int64
	RecordID    int64
	UserName    string
	Category    string
	Date        string // DD-MM-YYYY
	Description string
	Amount      string
}

// Validate checks the fields every persisted expense must carry.
func (e Expense) Validate() error {
	switch {
	case e.ChatID == 0:
		return fmt.Errorf("%w: missing chat id", ErrInvalidExpense)
	case e.Category == "":
		return fmt.Errorf("%w: missing category", ErrInvalidExpense)
	case e.Date == "":
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	case e.Description == "":
		return fmt.Errorf("%w: missing description", ErrInvalidExpense)
	case e.Amount == "":
		return fmt.Errorf("%w: missing amount", ErrInvalidExpense)
	}
	return nil
}

// Row returns the spreadsheet row mirroring this expense.
func (e Expense) Row() []string {
	return []string{e.Date, e.Description, e.Category, e.Amount}
}

// Match returns the compound-field match used to locate this expense when
// its record id is unknown.
func (e Expense) Match() ExpenseMatch {
	return ExpenseMatch{
		Category:    e.Category,
		Date:        e.Date,
		Description: e.Description,
		Amount:      e.Amount,
	}
}

// ExpenseMatch identifies an expense by the four fields embedded in a
// confirmation message. All four must be equal for a record to match.
type ExpenseMatch struct {
	Category    string
	Date        string
	Description string
	Amount      string
}

// Matches reports whether the expense carries exactly these four fields.
func (m ExpenseMatch) Matches(e Expense) bool {
	return e.Category == m.Category &&
		e.Date == m.Date &&
		e.Description == m.Description &&
		e.Amount == m.Amount
}
