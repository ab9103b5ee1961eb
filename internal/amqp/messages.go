package amqp

import (
	"encoding/json"
	"time"

	"gastobot/internal/core"
)

// Event types published to the expense event stream.
const (
	EventExpenseCreated = "expense_created"
	EventExpenseDeleted = "expense_deleted"
)

// ExpenseEvent mirrors one expense mutation for downstream consumers.
type ExpenseEvent struct {
	Type        string    `json:"type"`
	ChatID      int64     `json:"chat_id"`
	RecordID    int64     `json:"record_id,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCreatedEvent builds the event for a freshly recorded expense.
func NewCreatedEvent(e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Type:        EventExpenseCreated,
		ChatID:      e.ChatID,
		RecordID:    e.RecordID,
		UserName:    e.UserName,
		Category:    e.Category,
		Date:        e.Date,
		Description: e.Description,
		Amount:      e.Amount,
		Timestamp:   time.Now(),
	}
}

// NewDeletedEvent builds the event for a deleted expense, identified by
// its compound match since the record id is unknown at deletion time.
func NewDeletedEvent(chatID int64, m core.ExpenseMatch) *ExpenseEvent {
	return &ExpenseEvent{
		Type:        EventExpenseDeleted,
		ChatID:      chatID,
		Category:    m.Category,
		Date:        m.Date,
		Description: m.Description,
		Amount:      m.Amount,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON creates an event from JSON bytes.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
