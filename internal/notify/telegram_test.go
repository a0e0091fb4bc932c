package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSend(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":42}}`))
	}))
	defer server.Close()

	n := NewTelegramNotifierWithBase(server.URL, "123:abc", "555")
	if err := n.Send(context.Background(), "best cpm 17.50"); err != nil {
		t.Fatal(err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("unexpected request path %q", gotPath)
	}
	if gotPayload["chat_id"] != "555" {
		t.Errorf("expected chat_id 555, got %q", gotPayload["chat_id"])
	}
	if gotPayload["text"] != "best cpm 17.50" {
		t.Errorf("unexpected text %q", gotPayload["text"])
	}
}

func TestSend_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewTelegramNotifierWithBase(server.URL, "bad-token", "555")
	err := n.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestSend_APIRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	n := NewTelegramNotifierWithBase(server.URL, "123:abc", "0")
	err := n.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error when the API reports ok=false")
	}
	if !strings.Contains(err.Error(), "rejected") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSend_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	n := NewTelegramNotifierWithBase(server.URL, "123:abc", "555")
	if err := n.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected error when the server is unreachable")
	}
}
