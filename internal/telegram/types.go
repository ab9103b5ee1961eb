// Package telegram carries the Bot API payload types and a thin JSON
// client for the two calls the bot makes: sendMessage and deleteMessage.
package telegram

import (
	"context"
	"errors"
)

// ErrEmptyUpdate indicates an inbound payload with neither a callback
// query nor a message.
var ErrEmptyUpdate = errors.New("update carries no message or callback query")

// Update is the inbound webhook payload.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	EditedMessage *Message       `json:"edited_message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Chat struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from,omitempty"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data"`
}

// Inbound is the flattened event metadata the webhook handler consumes.
type Inbound struct {
	ChatID    int64
	UserName  string
	Text      string
	Timestamp int64
	// CallbackData is the pressed button's action identifier, empty for
	// plain messages.
	CallbackData string
	// MessageID identifies the notification carrying the pressed button.
	MessageID int64
}

// Inbound extracts the event metadata. Callback events read chat and text
// from the original notification; plain and edited messages are treated
// alike.
func (u *Update) Inbound() (Inbound, error) {
	if cq := u.CallbackQuery; cq != nil && cq.Message != nil {
		return Inbound{
			ChatID:       cq.Message.Chat.ID,
			UserName:     cq.Message.Chat.Username,
			Text:         cq.Message.Text,
			Timestamp:    cq.Message.Date,
			CallbackData: cq.Data,
			MessageID:    cq.Message.MessageID,
		}, nil
	}

	msg := u.Message
	if msg == nil {
		msg = u.EditedMessage
	}
	if msg == nil {
		return Inbound{}, ErrEmptyUpdate
	}

	var userName string
	if msg.From != nil {
		userName = msg.From.Username
	}
	return Inbound{
		ChatID:    msg.Chat.ID,
		UserName:  userName,
		Text:      msg.Text,
		Timestamp: msg.Date,
		MessageID: msg.MessageID,
	}, nil
}

// Button is one inline action button.
type Button struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// ReplyOptions attaches at most one of an inline button grid or a
// persistent reply-keyboard menu to a reply. Buttons win when both are
// set.
type ReplyOptions struct {
	Buttons [][]Button
	Menu    [][]string
}

// Notifier is the outbound port the webhook handler sends replies through.
type Notifier interface {
	SendReply(ctx context.Context, chatID int64, text string, opts *ReplyOptions) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
}
