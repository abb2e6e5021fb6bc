package draft

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAIComplete(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"SECTION 1. SHORT TITLE."}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})
	out, err := client.Complete(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "SECTION 1. SHORT TITLE." {
		t.Errorf("Unexpected completion: %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Unexpected auth header: %q", gotAuth)
	}
	if gotReq.Model != DefaultOpenAIModel {
		t.Errorf("Expected default model, got %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "user text" {
		t.Errorf("Unexpected messages: %+v", gotReq.Messages)
	}
}

func TestOpenAICompleteStatusErrors(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		expected string
		code     string
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, "authentication failed", ""},
		{"forbidden", http.StatusForbidden, `not json`, "authentication failed", ""},
		{"rate limited", http.StatusTooManyRequests, `{}`, "rate limit exceeded", ""},
		{"server error", http.StatusInternalServerError, ``, "service unavailable", ""},
		{"api error body", http.StatusBadRequest,
			`{"error":{"message":"model not found","type":"invalid_request_error","code":"model_not_found"}}`,
			"model not found", "model_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
			_, err := client.Complete(context.Background(), "s", "u")
			var svcErr *ServiceError
			if !errors.As(err, &svcErr) {
				t.Fatalf("Expected *ServiceError, got %T: %v", err, err)
			}
			if svcErr.StatusCode != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, svcErr.StatusCode)
			}
			if svcErr.Message != tc.expected {
				t.Errorf("Expected message %q, got %q", tc.expected, svcErr.Message)
			}
			if svcErr.Code != tc.code {
				t.Errorf("Expected code %q, got %q", tc.code, svcErr.Code)
			}
		})
	}
}

func TestOpenAICompleteTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	_, err := client.Complete(context.Background(), "s", "u")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Expected *ServiceError for transport failure, got %T: %v", err, err)
	}
	if svcErr.Err == nil {
		t.Error("Transport error should be wrapped in the service error")
	}
}

func TestOpenAICompleteContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, "s", "u")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Expected *ServiceError on timeout, got %T: %v", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected wrapped deadline error, got %v", err)
	}
}

func TestOpenAICompleteMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	_, err := client.Complete(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("Expected a decode error")
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		t.Errorf("Decode failure is not a service error, got %v", err)
	}
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	out, err := client.Complete(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected empty completion, got %q", out)
	}
}

func TestOpenAIClientDefaults(t *testing.T) {
	client := NewOpenAIClient(OpenAIConfig{APIKey: "k"})
	if client.baseURL != DefaultOpenAIBaseURL {
		t.Errorf("Expected default base URL, got %q", client.baseURL)
	}
	if client.model != DefaultOpenAIModel {
		t.Errorf("Expected default model, got %q", client.model)
	}
	if client.Name() != "openai:"+DefaultOpenAIModel {
		t.Errorf("Unexpected name: %q", client.Name())
	}
}
