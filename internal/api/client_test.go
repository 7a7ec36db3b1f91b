package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rtc/internal/parser"
	"rtc/internal/payload"
	"rtc/internal/runenv"
	"rtc/internal/session"
)

func testPayload(t *testing.T) payload.Payload {
	t.Helper()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	env := runenv.Environment{CI: "generic", Key: "run-key", Collector: "go-test-collector", Version: "test"}
	sess := session.NewWithClock(env, func() time.Time { return now })

	sess.Apply(&parser.Event{Suite: &parser.SuiteEvent{Kind: parser.SuiteStarted, TestCount: 1}})
	sess.Apply(&parser.Event{Test: &parser.TestEvent{Kind: parser.TestStarted, Name: "mod::case"}})
	sess.Apply(&parser.Event{Test: &parser.TestEvent{Kind: parser.TestOk, Name: "mod::case", ExecTime: 0.01}})

	payloads := payload.Batchify(sess, 10)
	if len(payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(payloads))
	}
	return payloads[0]
}

func TestClient_Submit(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody struct {
		Format string          `json:"format"`
		RunEnv json.RawMessage `json:"run_env"`
		Data   json.RawMessage `json:"data"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(Response{ID: "upload-1", RunID: "run-1", Queued: 1})
	}))
	defer server.Close()

	client := New(server.URL, "secret-token")
	resp, err := client.Submit(context.Background(), testPayload(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != `Token token="secret-token"` {
		t.Errorf("unexpected authorization header: %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("unexpected content type: %q", gotContentType)
	}
	if gotBody.Format != "json" {
		t.Errorf("expected format marker %q, got %q", "json", gotBody.Format)
	}
	if resp.ID != "upload-1" || resp.RunID != "run-1" || resp.Queued != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestClient_SubmitErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client := New(server.URL, "bad-token")
	if _, err := client.Submit(context.Background(), testPayload(t)); err == nil {
		t.Error("expected an error for a 403 response")
	}
}

func TestClient_SubmitErrorList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Errors: []string{"unknown run", "bad record"}})
	}))
	defer server.Close()

	client := New(server.URL, "secret-token")
	resp, err := client.Submit(context.Background(), testPayload(t))
	if err == nil {
		t.Fatal("expected an error for a response with errors")
	}
	if resp == nil || len(resp.Errors) != 2 {
		t.Errorf("expected the parsed response alongside the error, got %+v", resp)
	}
}

func TestClient_SubmitUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := New(server.URL, "secret-token")
	if _, err := client.Submit(context.Background(), testPayload(t)); err == nil {
		t.Error("expected an error for an undecodable body")
	}
}
