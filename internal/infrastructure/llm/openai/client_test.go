package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scansafe/scansafe/internal/core/domain"
)

func TestDescribeProductSendsImageAndInstruction(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Product Name: Oat Bar"}}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key", "vision-1")
	text, err := client.DescribeProduct(context.Background(), "http://example.com/img.jpg")
	if err != nil {
		t.Fatalf("DescribeProduct() error = %v", err)
	}
	if text != "Product Name: Oat Bar" {
		t.Fatalf("unexpected response text %q", text)
	}

	raw, _ := json.Marshal(captured)
	body := string(raw)
	if !strings.Contains(body, "http://example.com/img.jpg") {
		t.Fatalf("request body missing image url: %s", body)
	}
	if !strings.Contains(body, "product analysis assistant") {
		t.Fatalf("request body missing system instruction: %s", body)
	}
}

func TestDescribeProductFailsFastWithoutCredential(t *testing.T) {
	client := New("http://localhost:0", "", "vision-1")
	_, err := client.DescribeProduct(context.Background(), "http://example.com/img.jpg")
	if !domain.IsKind(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing credential error, got %v", err)
	}
	class := ClassifyError(err)
	if class.Retryable {
		t.Fatalf("configuration errors must not be retried")
	}
}

func TestDescribeProductIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "test-key", "vision-1")
	_, err := client.DescribeProduct(context.Background(), "http://example.com/img.jpg")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected response body in error, got %v", err)
	}

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTPStatusError, got %T", err)
	}
	if !ClassifyError(err).Retryable {
		t.Fatalf("503 must classify as retryable")
	}
}

func TestClassifyErrorPermanentStatus(t *testing.T) {
	err := &HTTPStatusError{Operation: "describe", StatusCode: http.StatusBadRequest, Status: "400 Bad Request"}
	if ClassifyError(err).Retryable {
		t.Fatalf("400 must not be retryable")
	}
}
