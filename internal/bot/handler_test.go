package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gastobot/internal/core"
	sheetsmem "gastobot/internal/sheets/memory"
	storemem "gastobot/internal/store/memory"
	"gastobot/internal/telegram"
)

type sentReply struct {
	chatID int64
	text   string
	opts   *telegram.ReplyOptions
}

// fakeNotifier records outbound calls instead of hitting the Bot API.
type fakeNotifier struct {
	replies []sentReply
	deleted []int64 // message ids
}

func (f *fakeNotifier) SendReply(_ context.Context, chatID int64, text string, opts *telegram.ReplyOptions) error {
	f.replies = append(f.replies, sentReply{chatID: chatID, text: text, opts: opts})
	return nil
}

func (f *fakeNotifier) DeleteMessage(_ context.Context, _ int64, messageID int64) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeNotifier) lastReply(t *testing.T) sentReply {
	t.Helper()
	if len(f.replies) == 0 {
		t.Fatal("no reply was sent")
	}
	return f.replies[len(f.replies)-1]
}

type fixture struct {
	handler  *Handler
	store    *storemem.Store
	mirror   *sheetsmem.Mirror
	notifier *fakeNotifier
}

func newFixture() *fixture {
	st := storemem.New()
	mirror := sheetsmem.New()
	notifier := &fakeNotifier{}
	h := NewHandler(st, st, mirror, notifier, "bot@example.iam.gserviceaccount.com").
		WithClock(func() time.Time { return time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC) })
	return &fixture{handler: h, store: st, mirror: mirror, notifier: notifier}
}

func message(chatID int64, text string, date int64) telegram.Update {
	return telegram.Update{Message: &telegram.Message{
		MessageID: 1,
		From:      &telegram.User{ID: chatID, Username: "seba"},
		Chat:      telegram.Chat{ID: chatID, Username: "seba"},
		Date:      date,
		Text:      text,
	}}
}

func deleteCallback(chatID int64, messageID int64, confirmationText string) telegram.Update {
	return telegram.Update{CallbackQuery: &telegram.CallbackQuery{
		Data: "delete_record",
		Message: &telegram.Message{
			MessageID: messageID,
			Chat:      telegram.Chat{ID: chatID, Username: "seba"},
			Date:      1700000000,
			Text:      confirmationText,
		},
	}}
}

func handle(t *testing.T, f *fixture, u telegram.Update) {
	t.Helper()
	if err := f.handler.Handle(context.Background(), u); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestStartUnboundAsksForSheetURL(t *testing.T) {
	f := newFixture()
	handle(t, f, message(42, "/start", 100))

	r := f.notifier.lastReply(t)
	if !strings.Contains(r.text, "Ingresa la URL de tu Google Sheet") {
		t.Fatalf("unexpected reply: %q", r.text)
	}
	if !strings.Contains(r.text, "bot@example.iam.gserviceaccount.com") {
		t.Fatalf("reply must carry the editor email: %q", r.text)
	}
	if r.opts != nil {
		t.Fatal("ask-URL reply must not carry a keyboard")
	}
}

func TestStartBoundShowsCategoryMenu(t *testing.T) {
	f := newFixture()
	handle(t, f, message(42, "https://docs.google.com/spreadsheets/d/SHEET123/edit", 100))
	handle(t, f, message(42, "/start", 101))

	r := f.notifier.lastReply(t)
	if r.text != "Hola @seba, selecciona una categoría:" {
		t.Fatalf("unexpected reply: %q", r.text)
	}
	if r.opts == nil || len(r.opts.Menu) != len(core.CategoryGrid) {
		t.Fatalf("expected the full category menu, got %+v", r.opts)
	}
}

func TestSheetURLBindsAndClearsCategory(t *testing.T) {
	f := newFixture()
	handle(t, f, message(42, "https://docs.google.com/spreadsheets/d/SHEET123/edit", 100))
	handle(t, f, message(42, "Supermercado", 101))

	// Rebinding must drop the selected category.
	handle(t, f, message(42, "https://docs.google.com/spreadsheets/d/OTHER456/edit", 102))

	s, err := f.store.Get(context.Background(), 42)
	if err != nil || s == nil {
		t.Fatalf("get session: %v, %v", s, err)
	}
	if s.SheetID != "OTHER456" || s.SelectedCategory != "" {
		t.Fatalf("unexpected session after rebind: %+v", s)
	}
	if r := f.notifier.lastReply(t); !strings.Contains(r.text, "guardado correctamente") {
		t.Fatalf("unexpected reply: %q", r.text)
	}
}

// failingSessions rejects writes, standing in for a broken store backend.
type failingSessions struct {
	*storemem.Store
}

func (f failingSessions) Put(context.Context, core.Session) error {
	return errors.New("store unavailable")
}

func TestSheetBindingStoreFailureRepliesError(t *testing.T) {
	st := storemem.New()
	notifier := &fakeNotifier{}
	h := NewHandler(failingSessions{st}, st, sheetsmem.New(), notifier, "bot@example.iam.gserviceaccount.com")

	if err := h.Handle(context.Background(), message(42, "https://docs.google.com/spreadsheets/d/SHEET123/edit", 100)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if r := notifier.lastReply(t); r.text != "Error al guardar el Google Sheet ID" {
		t.Fatalf("unexpected reply: %q", r.text)
	}
}

func TestCategoryRequiresBoundSheet(t *testing.T) {
	f := newFixture()
	handle(t, f, message(42, "Supermercado", 100))

	if r := f.notifier.lastReply(t); !strings.Contains(r.text, "Formato inválido") {
		t.Fatalf("unexpected reply: %q", r.text)
	}
	if s, _ := f.store.Get(context.Background(), 42); s != nil {
		t.Fatalf("no session must be created, got %+v", s)
	}
}

func TestExpenseWithoutCategoryAsksToPickOne(t *testing.T) {
	f := newFixture()
	handle(t, f, message(42, "https://docs.google.com/spreadsheets/d/SHEET123/edit", 100))
	handle(t, f, message(42, "groceries 15000", 101))

	if r := f.notifier.lastReply(t); !strings.Contains(r.text, "selecciona una categoría antes") {
		t.Fatalf("unexpected reply: %q", r.text)
	}
	if got := f.store.Expenses(42); len(got) != 0 {
		t.Fatalf("no expense must be recorded, got %+v", got)
	}
	if rows := f.mirror.Rows("SHEET123"); len(rows) != 0 {
		t.Fatalf("no row must be appended, got %+v", rows)
	}
}

func TestUnparsableMessageGetsFormatHelp(t *testing.T) {
	f := newFixture()
	handle(t, f, message(42, "https://docs.google.com/spreadsheets/d/SHEET123/edit", 100))
	handle(t, f, message(42, "hola", 101))

	if r := f.notifier.lastReply(t); !strings.Contains(r.text, "Formato inválido") {
		t.Fatalf("unexpected reply: %q", r.text)
	}
}

func TestFullExpenseLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle(t, f, message(42, "/start", 100))
	handle(t, f, message(42, "https://docs.google.com/spreadsheets/d/SHEET123/edit", 101))
	handle(t, f, message(42, "Supermercado", 102))

	if r := f.notifier.lastReply(t); !strings.Contains(r.text, "Has seleccionado la categoría: Supermercado") {
		t.Fatalf("unexpected reply: %q", r.text)
	}

	handle(t, f, message(42, "04-01 groceries 15000", 1700000123))

	recorded := f.store.Expenses(42)
	if len(recorded) != 1 {
		t.Fatalf("expected one expense, got %+v", recorded)
	}
	e := recorded[0]
	if e.Date != "04-01-2025" || e.Amount != "15000" || e.Description != "groceries" ||
		e.Category != "Supermercado" || e.RecordID != 1700000123 || e.UserName != "seba" {
		t.Fatalf("unexpected expense: %+v", e)
	}

	rows := f.mirror.Rows("SHEET123")
	if len(rows) != 1 || rows[0][0] != "04-01-2025" || rows[0][3] != "15000" {
		t.Fatalf("unexpected mirrored rows: %+v", rows)
	}

	confirmation := f.notifier.lastReply(t)
	if !strings.Contains(confirmation.text, "Registro agregado exitosamente") ||
		!strings.Contains(confirmation.text, "Celda: Records!A1:D1") {
		t.Fatalf("unexpected confirmation: %q", confirmation.text)
	}
	if confirmation.opts == nil || len(confirmation.opts.Buttons) != 1 ||
		confirmation.opts.Buttons[0][0].CallbackData != "delete_record" {
		t.Fatalf("confirmation must carry the delete button, got %+v", confirmation.opts)
	}

	handle(t, f, deleteCallback(42, 7, confirmation.text))

	if cleared := f.mirror.Cleared(); len(cleared) != 1 || cleared[0] != "SHEET123:A1:D1" {
		t.Fatalf("unexpected cleared ranges: %+v", cleared)
	}
	if len(f.notifier.deleted) != 1 || f.notifier.deleted[0] != 7 {
		t.Fatalf("unexpected deleted notifications: %+v", f.notifier.deleted)
	}
	if got := f.store.Expenses(42); len(got) != 0 {
		t.Fatalf("expense record must be gone, got %+v", got)
	}

	s, err := f.store.Get(ctx, 42)
	if err != nil || s == nil {
		t.Fatalf("get session: %v, %v", s, err)
	}
	if s.SelectedCategory != "Supermercado" {
		t.Fatalf("category must stay selected after recording, got %+v", s)
	}
}

func TestDeleteRemovesFirstMatchOnly(t *testing.T) {
	f := newFixture()

	handle(t, f, message(42, "https://docs.google.com/spreadsheets/d/SHEET123/edit", 100))
	handle(t, f, message(42, "Almuerzo", 101))
	handle(t, f, message(42, "05-03 menu del dia 6500", 200))
	handle(t, f, message(42, "05-03 menu del dia 6500", 201))

	confirmation := f.notifier.lastReply(t)
	handle(t, f, deleteCallback(42, 9, confirmation.text))

	remaining := f.store.Expenses(42)
	if len(remaining) != 1 {
		t.Fatalf("exactly one duplicate must survive, got %+v", remaining)
	}
	if remaining[0].RecordID != 201 {
		t.Fatalf("first insertion must be deleted, got %+v", remaining)
	}
}

func TestDeleteWithMalformedConfirmationKeepsRecord(t *testing.T) {
	f := newFixture()

	handle(t, f, message(42, "https://docs.google.com/spreadsheets/d/SHEET123/edit", 100))
	handle(t, f, message(42, "Apps", 101))
	handle(t, f, message(42, "spotify 5000", 200))

	// Carries a range but none of the labeled fields.
	handle(t, f, deleteCallback(42, 9, "algo con un rango A1:D1 pero sin campos"))

	if got := f.store.Expenses(42); len(got) != 1 {
		t.Fatalf("record must be kept, got %+v", got)
	}
	// The range clear and notification delete still ran.
	if cleared := f.mirror.Cleared(); len(cleared) != 1 {
		t.Fatalf("range must still be cleared, got %+v", cleared)
	}
	if len(f.notifier.deleted) != 1 {
		t.Fatalf("notification must still be deleted, got %+v", f.notifier.deleted)
	}
}

func TestCallbackWithoutRangeFallsThrough(t *testing.T) {
	f := newFixture()
	handle(t, f, deleteCallback(42, 9, "sin rango alguno"))

	if r := f.notifier.lastReply(t); !strings.Contains(r.text, "Formato inválido") {
		t.Fatalf("unexpected reply: %q", r.text)
	}
	if len(f.notifier.deleted) != 0 {
		t.Fatalf("no notification must be deleted, got %+v", f.notifier.deleted)
	}
}

type recordingEvents struct {
	created []core.Expense
	deleted []core.ExpenseMatch
}

func (r *recordingEvents) PublishExpenseCreated(_ context.Context, e core.Expense) error {
	r.created = append(r.created, e)
	return nil
}

func (r *recordingEvents) PublishExpenseDeleted(_ context.Context, _ int64, m core.ExpenseMatch) error {
	r.deleted = append(r.deleted, m)
	return nil
}

func TestExpenseEventsArePublished(t *testing.T) {
	f := newFixture()
	events := &recordingEvents{}
	f.handler.WithEvents(events)

	handle(t, f, message(42, "https://docs.google.com/spreadsheets/d/SHEET123/edit", 100))
	handle(t, f, message(42, "Transporte", 101))
	handle(t, f, message(42, "metro 800", 200))

	if len(events.created) != 1 || events.created[0].Amount != "800" {
		t.Fatalf("unexpected created events: %+v", events.created)
	}

	handle(t, f, deleteCallback(42, 9, f.notifier.lastReply(t).text))
	if len(events.deleted) != 1 || events.deleted[0].Description != "metro" {
		t.Fatalf("unexpected deleted events: %+v", events.deleted)
	}
}
