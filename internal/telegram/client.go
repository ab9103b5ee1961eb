package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production Bot API host.
const DefaultBaseURL = "https://api.telegram.org"

// Ensure interface conformance
var _ Notifier = (*Client)(nil)

type Client struct {
	url   string // <base>/bot<token>
	httpc *http.Client
}

func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, DefaultBaseURL)
}

// NewClientWithBaseURL exists for tests pointing at a local server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		url:   strings.TrimRight(baseURL, "/") + "/bot" + token,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID      int64  `json:"chat_id"`
	Text        string `json:"text"`
	ReplyMarkup any    `json:"reply_markup,omitempty"`
}

type inlineKeyboardMarkup struct {
	InlineKeyboard [][]Button `json:"inline_keyboard"`
}

type replyKeyboardMarkup struct {
	Keyboard        [][]string `json:"keyboard"`
	ResizeKeyboard  bool       `json:"resize_keyboard"`
	OneTimeKeyboard bool       `json:"one_time_keyboard"`
}

// SendReply implements Notifier.
func (c *Client) SendReply(ctx context.Context, chatID int64, text string, opts *ReplyOptions) error {
	req := sendMessageRequest{ChatID: chatID, Text: text}
	if opts != nil {
		switch {
		case len(opts.Buttons) > 0:
			req.ReplyMarkup = inlineKeyboardMarkup{InlineKeyboard: opts.Buttons}
		case len(opts.Menu) > 0:
			req.ReplyMarkup = replyKeyboardMarkup{
				Keyboard:        opts.Menu,
				ResizeKeyboard:  true,
				OneTimeKeyboard: false,
			}
		}
	}
	return c.post(ctx, "sendMessage", req)
}

type deleteMessageRequest struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

// DeleteMessage implements Notifier.
func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	return c.post(ctx, "deleteMessage", deleteMessageRequest{ChatID: chatID, MessageID: messageID})
}

func (c *Client) post(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
