package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/crewboard/internal/config"
	"github.com/balkashynov/crewboard/internal/logging"
	"github.com/balkashynov/crewboard/internal/models"
)

func TestHTTPNotifierSend(t *testing.T) {
	var got relayRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode relay body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL, "secret", "board@example.com", time.Second)
	err := n.Send(context.Background(), Message{To: "bob@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if auth != "Bearer secret" {
		t.Errorf("Expected bearer token, got %q", auth)
	}
	if got.To != "bob@example.com" || got.From != "board@example.com" || got.Subject != "Hi" {
		t.Errorf("Unexpected relay request: %+v", got)
	}
}

func TestHTTPNotifierRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mailbox unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL, "", "", 0)
	err := n.Send(context.Background(), Message{To: "bob@example.com"})
	if err == nil {
		t.Fatal("Expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "mailbox unavailable") {
		t.Errorf("Expected status and detail in error, got %v", err)
	}
}

func TestHTTPNotifierRequiresRecipient(t *testing.T) {
	n := NewHTTPNotifier("http://127.0.0.1:1", "", "", time.Second)
	if err := n.Send(context.Background(), Message{}); err == nil {
		t.Fatal("Expected error for empty recipient")
	}
}

func TestNewSelectsMode(t *testing.T) {
	if _, ok := New(config.NotifyConfig{Mode: "http", Endpoint: "http://x"}, nil).(*HTTPNotifier); !ok {
		t.Errorf("Expected HTTPNotifier for http mode")
	}
	if _, ok := New(config.NotifyConfig{Mode: "log"}, logging.Discard()).(*LogNotifier); !ok {
		t.Errorf("Expected LogNotifier for log mode")
	}
}

func TestAssignmentMessage(t *testing.T) {
	due := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	task := &models.Task{
		Title:         "Review <login> flow",
		AssigneeName:  "Sarah",
		AssigneeEmail: "sarah@example.com",
		Points:        50,
		DueDate:       &due,
		DueTime:       "14:30",
	}

	msg, err := AssignmentMessage(task, "Mike", "Core Team")
	if err != nil {
		t.Fatalf("AssignmentMessage failed: %v", err)
	}
	if msg.To != "sarah@example.com" {
		t.Errorf("Expected recipient sarah@example.com, got %s", msg.To)
	}
	if !strings.Contains(msg.Subject, "Review <login> flow") {
		t.Errorf("Unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"Hi Sarah", "Mike", "Core Team", "Points: 50", "24/12/2025 14:30", "Review &lt;login&gt; flow"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("Expected HTML to contain %q:\n%s", want, msg.HTML)
		}
	}
}
