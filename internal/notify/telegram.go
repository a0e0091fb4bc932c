// Package notify delivers outbound text notifications via the Telegram Bot
// API. Delivery is strictly best-effort for callers: the scrape pipeline logs
// and swallows any error returned from here.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages to a fixed chat through a bot.
type TelegramNotifier struct {
	apiBase    string
	token      string
	chatID     string
	httpClient *http.Client
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		apiBase:    defaultAPIBase,
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTelegramNotifierWithBase creates a notifier against a custom API base
// URL. Used by tests to point at a local server.
func NewTelegramNotifierWithBase(apiBase, token, chatID string) *TelegramNotifier {
	n := NewTelegramNotifier(token, chatID)
	n.apiBase = apiBase
	return n
}

// Send posts one text message.
// POST /bot{token}/sendMessage with JSON body -> { ok: true }
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    text,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach telegram: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse telegram response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram rejected message: %s", string(body))
	}
	return nil
}
