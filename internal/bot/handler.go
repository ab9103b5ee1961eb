// Package bot holds the webhook orchestrator: one Handle call per inbound
// update, dispatching over a fixed guard sequence against the chat's
// inferred session state.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gastobot/internal/core"
	"gastobot/internal/sheets"
	"gastobot/internal/store"
	"gastobot/internal/telegram"
)

// EventPublisher mirrors expense mutations to an event stream. Optional:
// a nil publisher disables the stream, and publish failures never affect
// the user-visible flow.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
	PublishExpenseDeleted(ctx context.Context, chatID int64, m core.ExpenseMatch) error
}

// Handler orchestrates one webhook invocation.
type Handler struct {
	sessions      store.SessionStore
	expenses      store.ExpenseStore
	mirror        sheets.Mirror
	notifier      telegram.Notifier
	events        EventPublisher
	operatorEmail string
	now           func() time.Time
}

func NewHandler(sessions store.SessionStore, expenses store.ExpenseStore, mirror sheets.Mirror, notifier telegram.Notifier, operatorEmail string) *Handler {
	return &Handler{
		sessions:      sessions,
		expenses:      expenses,
		mirror:        mirror,
		notifier:      notifier,
		operatorEmail: operatorEmail,
		now:           time.Now,
	}
}

// WithEvents attaches the optional expense event stream.
func (h *Handler) WithEvents(events EventPublisher) *Handler {
	h.events = events
	return h
}

// WithClock fixes the time source. Tests use it to pin expense dates.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Handle processes one update. Exactly one guard branch runs per call:
//
//  1. delete callback carrying a cell range
//  2. /start with no sheet bound: ask for the spreadsheet URL
//  3. spreadsheet URL: bind the sheet, clearing any selected category
//  4. /start with a sheet bound: category menu
//  5. category label with a sheet bound: remember the selection
//  6. expense line with a sheet bound: record, mirror, confirm
//  7. anything else: format help
//
// Store failures degrade to "value absent" and never abort the call;
// spreadsheet failures propagate; reply failures are logged and dropped.
func (h *Handler) Handle(ctx context.Context, u telegram.Update) error {
	in, err := u.Inbound()
	if err != nil {
		slog.WarnContext(ctx, "Ignoring update without usable content", "error", err)
		return nil
	}

	slog.InfoContext(ctx, "Processing update",
		"chat_id", in.ChatID,
		"user_name", in.UserName,
		"callback", in.CallbackData != "")

	session := h.loadSession(ctx, in.ChatID)
	state := session.State()

	if in.CallbackData == deleteAction {
		if rng := core.ExtractCellRange(in.Text); rng != "" {
			return h.handleDelete(ctx, in, session, rng)
		}
	}

	switch {
	case core.IsStartCommand(in.Text) && state == core.Unbound:
		h.reply(ctx, in.ChatID, replyAskSheetURL(h.operatorEmail), nil)

	case core.IsSheetURL(in.Text):
		h.handleBindSheet(ctx, in)

	case core.IsStartCommand(in.Text):
		h.reply(ctx, in.ChatID, replyCategoryMenu(in.UserName), &telegram.ReplyOptions{Menu: core.CategoryGrid})

	case core.IsCategory(in.Text) && state != core.Unbound:
		h.handleSelectCategory(ctx, in)

	case state != core.Unbound:
		line, ok := core.ParseExpenseLine(in.Text, h.now())
		if !ok {
			h.reply(ctx, in.ChatID, replyFormatHelp, nil)
			break
		}
		return h.handleExpense(ctx, in, session, line)

	default:
		h.reply(ctx, in.ChatID, replyFormatHelp, nil)
	}

	return nil
}

// loadSession reads the chat's session, degrading a store failure to an
// empty session so the guard table still evaluates.
func (h *Handler) loadSession(ctx context.Context, chatID int64) core.Session {
	s, err := h.sessions.Get(ctx, chatID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load session, treating as absent",
			"chat_id", chatID, "error", err)
		return core.Session{ChatID: chatID}
	}
	if s == nil {
		return core.Session{ChatID: chatID}
	}
	return *s
}

func (h *Handler) handleBindSheet(ctx context.Context, in telegram.Inbound) {
	sheetID := core.ExtractSheetID(in.Text)
	if sheetID == "" {
		h.reply(ctx, in.ChatID, replySheetError, nil)
		return
	}

	// Full overwrite: rebinding the sheet also clears the selected category.
	err := h.sessions.Put(ctx, core.Session{ChatID: in.ChatID, SheetID: sheetID})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to store sheet binding",
			"chat_id", in.ChatID, "error", err)
		h.reply(ctx, in.ChatID, replySheetError, nil)
		return
	}

	slog.InfoContext(ctx, "Sheet bound", "chat_id", in.ChatID, "sheet_id", sheetID)
	h.reply(ctx, in.ChatID, replySheetSaved, nil)
}

func (h *Handler) handleSelectCategory(ctx context.Context, in telegram.Inbound) {
	if err := h.sessions.SetCategory(ctx, in.ChatID, in.Text); err != nil {
		slog.ErrorContext(ctx, "Failed to store selected category",
			"chat_id", in.ChatID, "category", in.Text, "error", err)
	}
	h.reply(ctx, in.ChatID, replyCategorySelected(in.Text), nil)
}

func (h *Handler) handleExpense(ctx context.Context, in telegram.Inbound, session core.Session, line core.ExpenseLine) error {
	// Re-check the category at submission time rather than trusting the
	// state inferred at dispatch.
	if session.SelectedCategory == "" {
		h.reply(ctx, in.ChatID, replyPickCategoryFirst, nil)
		return nil
	}

	expense := core.Expense{
		ChatID:      in.ChatID,
		RecordID:    in.Timestamp,
		UserName:    in.UserName,
		Category:    session.SelectedCategory,
		Date:        line.Date,
		Description: line.Description,
		Amount:      line.Amount,
	}
	if err := expense.Validate(); err != nil {
		h.reply(ctx, in.ChatID, replyFormatHelp, nil)
		return nil
	}

	if err := h.expenses.Insert(ctx, expense); err != nil {
		slog.ErrorContext(ctx, "Failed to store expense",
			"chat_id", in.ChatID, "record_id", expense.RecordID, "error", err)
	}

	updatedRange, err := h.mirror.Append(ctx, session.SheetID, [][]string{expense.Row()})
	if err != nil {
		return fmt.Errorf("append expense row: %w", err)
	}

	h.reply(ctx, in.ChatID, core.ConfirmationMessage(expense, updatedRange), &telegram.ReplyOptions{
		Buttons: [][]telegram.Button{{{Text: deleteButtonText, CallbackData: deleteAction}}},
	})

	h.publishCreated(ctx, expense)
	return nil
}

func (h *Handler) handleDelete(ctx context.Context, in telegram.Inbound, session core.Session, rng string) error {
	if session.SheetID == "" {
		slog.WarnContext(ctx, "Delete requested with no sheet bound, skipping range clear",
			"chat_id", in.ChatID, "range", rng)
	} else if err := h.mirror.Clear(ctx, session.SheetID, rng); err != nil {
		return fmt.Errorf("clear expense range %s: %w", rng, err)
	}

	if err := h.notifier.DeleteMessage(ctx, in.ChatID, in.MessageID); err != nil {
		slog.ErrorContext(ctx, "Failed to delete notification",
			"chat_id", in.ChatID, "message_id", in.MessageID, "error", err)
	}

	match, err := core.ParseConfirmation(in.Text)
	if err != nil {
		slog.ErrorContext(ctx, "Cannot extract expense fields from confirmation, record kept",
			"chat_id", in.ChatID, "error", err)
		return nil
	}

	deleted, err := h.expenses.DeleteMatching(ctx, in.ChatID, match)
	switch {
	case err != nil:
		slog.ErrorContext(ctx, "Failed to delete expense record",
			"chat_id", in.ChatID, "error", err)
	case !deleted:
		slog.WarnContext(ctx, "No expense record matched deletion",
			"chat_id", in.ChatID, "date", match.Date, "amount", match.Amount)
	default:
		h.publishDeleted(ctx, in.ChatID, match)
	}
	return nil
}

// reply sends a notification and drops the error after logging it.
func (h *Handler) reply(ctx context.Context, chatID int64, text string, opts *telegram.ReplyOptions) {
	if err := h.notifier.SendReply(ctx, chatID, text, opts); err != nil {
		slog.ErrorContext(ctx, "Failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) publishCreated(ctx context.Context, e core.Expense) {
	if h.events == nil {
		return
	}
	if err := h.events.PublishExpenseCreated(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense created event",
			"chat_id", e.ChatID, "record_id", e.RecordID, "error", err)
	}
}

func (h *Handler) publishDeleted(ctx context.Context, chatID int64, m core.ExpenseMatch) {
	if h.events == nil {
		return
	}
	if err := h.events.PublishExpenseDeleted(ctx, chatID, m); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense deleted event",
			"chat_id", chatID, "error", err)
	}
}
