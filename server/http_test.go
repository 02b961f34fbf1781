package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/orchestrator"
)

type fakeTurns struct {
	last contractx.TurnRequest
	resp contractx.TurnResponse
}

func (f *fakeTurns) HandleTurn(_ context.Context, req contractx.TurnRequest) contractx.TurnResponse {
	f.last = req
	return f.resp
}

func TestWebhookTurn(t *testing.T) {
	t.Parallel()

	turns := &fakeTurns{resp: contractx.TurnResponse{
		ResponseID:      5,
		Content:         "Claro, dime.",
		ContentComplete: true,
	}}
	srv := httptest.NewServer(New(turns).Router())
	defer srv.Close()

	body := `{"call_id":"c1","interaction_type":"response_required","response_id":5,"utterance":"hola"}`
	resp, err := http.Post(srv.URL+"/webhook/voice", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out contractx.TurnResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Content != "Claro, dime." || out.ResponseID != 5 || !out.ContentComplete {
		t.Fatalf("unexpected response: %+v", out)
	}
	if turns.last.CallID != "c1" || turns.last.Utterance != "hola" {
		t.Fatalf("request not forwarded: %+v", turns.last)
	}
}

func TestWebhookMalformedBodyStillSpeaks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(&fakeTurns{}).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook/voice", "application/json", strings.NewReader(`{"call_id":`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("malformed body must still get a 200, got %d", resp.StatusCode)
	}

	var out contractx.TurnResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Content != orchestrator.FallbackReply {
		t.Fatalf("content = %q", out.Content)
	}
	if !out.ContentComplete {
		t.Fatal("fallback must be complete")
	}
}

func TestWebhookDescriptor(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(&fakeTurns{}).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/webhook/voice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out descriptor
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Version != Version {
		t.Fatalf("version = %q", out.Version)
	}
	if len(out.Tools) != 4 {
		t.Fatalf("expected 4 tools, got %v", out.Tools)
	}
}
