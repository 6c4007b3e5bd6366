package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RoboSupreme/my-hex-game/pkg/api"
)

func TestBot_PlaysOfferedActions(t *testing.T) {
	var applied []string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/actions", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(api.ActionsResponse{Actions: []string{"rest", "check inventory"}})
	})
	mux.HandleFunc("/api/action", func(w http.ResponseWriter, r *http.Request) {
		var req api.ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad action body: %v", err)
		}
		applied = append(applied, req.Action)
		_ = json.NewEncoder(w).Encode(api.ActionResult{OK: true, Message: "done"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	bot := NewBot(srv.URL, 3, 1)
	bot.Delay = 0
	if err := bot.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(applied) != 3 {
		t.Fatalf("applied %d actions, want 3", len(applied))
	}
	for _, a := range applied {
		if a != "rest" && a != "check inventory" {
			t.Errorf("bot played unoffered action %q", a)
		}
	}
}

func TestBot_StopsWhenNoActions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/actions", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(api.ActionsResponse{Actions: nil})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	bot := NewBot(srv.URL, 10, 1)
	bot.Delay = 0
	if err := bot.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}
