package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartclassroom/classroom-api/internal/core/ports"
)

func TestGeminiClient_Generate(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []geminiCandidate{{
				Content: geminiContent{Parts: []geminiPart{{Text: "The answer "}, {Text: "is 4."}}},
			}},
		})
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", srv.URL, "gemini-1.5-flash", time.Second)
	got, err := c.Generate(context.Background(), "What is 2+2?")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "The answer is 4." {
		t.Fatalf("unexpected text: %q", got)
	}
	if gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected api key header: %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 ||
		gotReq.Contents[0].Parts[0].Text != "What is 2+2?" {
		t.Fatalf("unexpected request payload: %+v", gotReq)
	}
}

func TestGeminiClient_Generate_MissingCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", srv.URL, "", time.Second)
	_, err := c.Generate(context.Background(), "hi")
	if !errors.Is(err, ports.ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
}

func TestGeminiClient_Generate_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", srv.URL, "", time.Second)
	_, err := c.Generate(context.Background(), "hi")
	if !errors.Is(err, ports.ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
}

func TestGeminiClient_Generate_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", srv.URL, "", time.Second)
	_, err := c.Generate(context.Background(), "hi")
	if err == nil {
		t.Fatalf("expected error for http 429")
	}
	if errors.Is(err, ports.ErrMalformedReply) {
		t.Fatalf("http failure must not look like a malformed reply: %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestGeminiClient_MissingAPIKey(t *testing.T) {
	c := NewGeminiClient("", "http://localhost:0", "", time.Second)

	if _, err := c.Generate(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error without api key")
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected readiness failure without api key")
	}
}
