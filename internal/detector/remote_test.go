package detector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/detect" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req remoteDetectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "suspect text" || req.Threshold != 0.5 {
			t.Errorf("request = %+v", req)
		}
		// Upstream verdict disagrees with a plain score comparison.
		json.NewEncoder(w).Encode(remoteDetectResponse{
			IsAI:         false,
			Score:        0.8,
			Confidence:   0.9,
			ModelVersion: "roberta-v2",
		})
	}))
	defer srv.Close()

	p := NewRemoteProvider(srv.URL)
	res, err := p.Detect(context.Background(), "suspect text", 0.5)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.IsAI {
		t.Fatal("remote verdict must be trusted over the score comparison")
	}
	if res.Score != 0.8 || res.Confidence != 0.9 {
		t.Fatalf("result = %+v", res)
	}
	if res.Label != LabelHuman {
		t.Fatalf("label = %q, want %q", res.Label, LabelHuman)
	}
	if res.Provider != "remote" {
		t.Fatalf("provider = %q", res.Provider)
	}
	if v, _ := res.Details["model"].(string); v != "roberta-v2" {
		t.Fatalf("details model = %q", v)
	}
}

func TestRemoteDetect_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewRemoteProvider(srv.URL)
	if _, err := p.Detect(context.Background(), "text", 0.5); err == nil {
		t.Fatal("server error must surface")
	}
}

func TestRemoteHealth(t *testing.T) {
	loaded := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(remoteHealthResponse{Status: "ok", ModelLoaded: loaded})
	}))
	defer srv.Close()

	p := NewRemoteProvider(srv.URL)
	if err := p.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}

	loaded = false
	if err := p.Health(context.Background()); err == nil {
		t.Fatal("unloaded model must report unhealthy")
	}
}
