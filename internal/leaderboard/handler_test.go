package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	store := newMemoryStore(t, 10)
	hub := NewHub(nil)
	srv := httptest.NewServer(NewHandler(store, hub, nil))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, hub
}

func TestClientRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(srv.URL+"/", nil)
	ctx := context.Background()

	entry, err := c.SubmitScore(ctx, Submission{Initials: "ace", Score: 4200, Level: 3, DurationMs: 61000, Difficulty: "Easy"})
	if err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
	if entry.Initials != "ACE" || entry.Difficulty != "easy" || entry.Duration() != 61*time.Second || entry.Rank != 1 {
		t.Errorf("entry = %+v", entry)
	}

	entries, err := c.FetchLeaderboard(ctx)
	if err != nil {
		t.Fatalf("FetchLeaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Errorf("entries = %+v", entries)
	}

	for want := int64(1); want <= 2; want++ {
		plays, err := c.IncrementPlayCount(ctx)
		if err != nil || plays != want {
			t.Errorf("IncrementPlayCount = %d, %v; want %d", plays, err, want)
		}
	}
	if plays, err := c.FetchPlayCount(ctx); err != nil || plays != 2 {
		t.Errorf("FetchPlayCount = %d, %v; want 2", plays, err)
	}
}

func TestHandlerRejectsBadSubmissions(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"initials":`},
		{"unknown field", `{"initials":"AB","score":1,"level":1,"cheat":true}`},
		{"bad initials", `{"initials":"A-B","score":1,"level":1}`},
	}
	for _, tt := range tests {
		resp, err := http.Post(srv.URL+"/api/scores", "application/json", strings.NewReader(tt.body))
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, resp.StatusCode)
		}
	}
}

func TestClientMapsErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, nil)

	// Bypass client-side normalisation to reach the server's validation.
	err := c.do(context.Background(), http.MethodPost, "/api/scores", Submission{Initials: "!!", Score: 1, Level: 1}, &Entry{})
	if !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("error = %v, want ErrInvalidEntry", err)
	}

	down := NewClient("http://127.0.0.1:1", &http.Client{Timeout: time.Second})
	if _, err := down.FetchLeaderboard(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestFeedPushesBoardAfterSubmit(t *testing.T) {
	srv, hub := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg boardMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("initial board: %v", err)
	}
	if len(msg.Entries) != 0 {
		t.Errorf("initial board = %+v", msg.Entries)
	}

	// Wait for registration before submitting so the push is not missed.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := NewClient(srv.URL, nil).SubmitScore(context.Background(), Submission{Initials: "WS", Score: 77, Level: 1}); err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("pushed board: %v", err)
	}
	if len(msg.Entries) != 1 || msg.Entries[0].Initials != "WS" {
		t.Errorf("pushed board = %+v", msg.Entries)
	}
}

func TestLeaderboardJSONShape(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["entries"]) != "[]" {
		t.Errorf("entries = %s, want []", raw["entries"])
	}
	if string(raw["plays"]) != "0" {
		t.Errorf("plays = %s, want 0", raw["plays"])
	}
}
