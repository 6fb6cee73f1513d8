package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperifyio/plainlegal/internal/llm"
	"github.com/hyperifyio/plainlegal/internal/synth"
)

func TestStub_ServesSimplifier(t *testing.T) {
	srv := httptest.NewServer(newMux("stub-model"))
	defer srv.Close()

	client := llm.NewOpenAIProvider(llm.Options{BaseURL: srv.URL + "/v1", APIKey: "x"})
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models.Models) != 1 || models.Models[0].ID != "stub-model" {
		t.Fatalf("unexpected models: %+v", models.Models)
	}

	s := &synth.Simplifier{Client: client, Model: "stub-model"}
	got, err := s.Simplify(context.Background(), "The Lessee shall pay.")
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if got != "The Lessee will pay." {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestStub_RejectsUnknownPrompt(t *testing.T) {
	srv := httptest.NewServer(newMux("m"))
	defer srv.Close()

	body := `{"model":"m","messages":[{"role":"user","content":"hello"}]}`
	resp, err := http.Post(srv.URL+"/v1/chat/completions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}
