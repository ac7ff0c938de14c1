package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestRelayNotifierNotifyUser(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":      true,
			"successCount": 2,
			"failureCount": 1,
		})
	}))
	defer relay.Close()

	notifier := NewRelayNotifier(relay.URL, trace.NewNoopTracerProvider().Tracer("test"), testLogger())

	result, err := notifier.NotifyUser(context.Background(), "u1", "Reservation confirmed", "Your reservation is confirmed", map[string]string{"reservationId": "r1"})
	if err != nil {
		t.Fatalf("NotifyUser() error = %v", err)
	}

	if gotPath != "/api/notify-user" {
		t.Errorf("path = %q, want /api/notify-user", gotPath)
	}
	if gotPayload["userId"] != "u1" {
		t.Errorf("payload userId = %v, want u1", gotPayload["userId"])
	}
	if !result.Success || result.SuccessCount != 2 || result.FailureCount != 1 {
		t.Errorf("result = %+v, want success with counts 2/1", result)
	}
}

func TestRelayNotifierNotifyAdminsPath(t *testing.T) {
	var gotPath string

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer relay.Close()

	notifier := NewRelayNotifier(relay.URL, trace.NewNoopTracerProvider().Tracer("test"), testLogger())

	if _, err := notifier.NotifyAdmins(context.Background(), "New booking", "A booking arrived", nil); err != nil {
		t.Fatalf("NotifyAdmins() error = %v", err)
	}
	if gotPath != "/api/notify-admins" {
		t.Errorf("path = %q, want /api/notify-admins", gotPath)
	}
}

func TestRelayNotifierServerError(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no tokens for user", http.StatusInternalServerError)
	}))
	defer relay.Close()

	notifier := NewRelayNotifier(relay.URL, trace.NewNoopTracerProvider().Tracer("test"), testLogger())

	if _, err := notifier.NotifyUser(context.Background(), "u1", "t", "b", nil); err == nil {
		t.Fatal("expected error from 500 response")
	}
}

func TestRelayNotifierUnreachable(t *testing.T) {
	notifier := NewRelayNotifier("http://127.0.0.1:1", trace.NewNoopTracerProvider().Tracer("test"), testLogger())

	if _, err := notifier.NotifyUser(context.Background(), "u1", "t", "b", nil); err == nil {
		t.Fatal("expected error when relay is unreachable")
	}
}
