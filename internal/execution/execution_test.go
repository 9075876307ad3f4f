package execution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		Endpoint:     url,
		ClientID:     "test-id",
		ClientSecret: "test-secret",
	})
}

func TestRunSuccess(t *testing.T) {
	var got executeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"output":"1\n","statusCode":200}`))
	}))
	defer srv.Close()

	result, ok := newTestClient(srv.URL).Run(context.Background(), "python", "print(1)", "")
	if !ok {
		t.Fatalf("expected success, got %q", result)
	}
	if result != "1\n" {
		t.Errorf("expected output %q, got %q", "1\n", result)
	}

	// The request carries the canonical language, not the alias.
	if got.Language != "python3" {
		t.Errorf("expected language python3, got %q", got.Language)
	}
	if got.VersionIndex != "0" {
		t.Errorf("expected versionIndex 0, got %q", got.VersionIndex)
	}
	if got.CompileOnly {
		t.Error("compileOnly should be false")
	}
	if got.ClientID != "test-id" || got.ClientSecret != "test-secret" {
		t.Error("credentials not forwarded")
	}
	if got.Script != "print(1)" {
		t.Errorf("script not forwarded verbatim, got %q", got.Script)
	}
}

func TestRunProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"daily quota exceeded"}`))
	}))
	defer srv.Close()

	result, ok := newTestClient(srv.URL).Run(context.Background(), "go", "package main", "")
	if ok {
		t.Fatal("expected failure")
	}
	if result != "Execution Error: daily quota exceeded" {
		t.Errorf("unexpected result %q", result)
	}
}

func TestRunNoOutputField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statusCode":200}`))
	}))
	defer srv.Close()

	result, ok := newTestClient(srv.URL).Run(context.Background(), "java", "class A{}", "")
	if !ok {
		t.Fatalf("expected success, got %q", result)
	}
	if result != "No output" {
		t.Errorf("expected literal placeholder, got %q", result)
	}
}

func TestRunEmptyOutputIsNotNoOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":""}`))
	}))
	defer srv.Close()

	result, ok := newTestClient(srv.URL).Run(context.Background(), "c", "int main(){}", "")
	if !ok {
		t.Fatalf("expected success, got %q", result)
	}
	if result != "" {
		t.Errorf("empty output must stay empty, got %q", result)
	}
}

func TestRunUnsupportedLanguageSkipsRemoteCall(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	result, ok := newTestClient(srv.URL).Run(context.Background(), "brainfuck", "+++", "")
	if ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result, `"brainfuck"`) {
		t.Errorf("error should name the language verbatim, got %q", result)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Errorf("expected no remote call, got %d", calls)
	}
}

func TestRunNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	result, ok := newTestClient(srv.URL).Run(context.Background(), "ruby", "puts 1", "")
	if ok {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(result, "Error: ") {
		t.Errorf("expected error-shaped result, got %q", result)
	}
}

func TestRunMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	result, ok := newTestClient(srv.URL).Run(context.Background(), "swift", "print(1)", "")
	if ok {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(result, "Error: ") {
		t.Errorf("expected error-shaped result, got %q", result)
	}
}
