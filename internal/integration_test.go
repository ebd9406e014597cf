package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/catalog"
	"github.com/hazz-dev/svcdeck/internal/dashboard"
	"github.com/hazz-dev/svcdeck/internal/probe"
	"github.com/hazz-dev/svcdeck/internal/server"
	"github.com/hazz-dev/svcdeck/internal/sweeper"
)

// TestIntegration_FullFlow verifies the complete pipeline:
// catalog → board → sweeper → probe → API and websocket
func TestIntegration_FullFlow(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer target.Close()

	cat, err := catalog.Parse([]byte(`
- title: Lab
  services:
    - { name: Target, url: "` + target.URL + `" }
    - { name: Dead, url: "http://127.0.0.1:1" }
`))
	if err != nil {
		t.Fatalf("parsing catalog: %v", err)
	}

	b := board.New(cat)
	sw := sweeper.New(b, probe.New(), sweeper.Options{Timeout: time.Second}, time.Hour, nil)
	api := server.New(b, sw, nil,
		server.WithAssets(dashboard.Handler()),
		server.WithThemes(dashboard.Themes()),
	)

	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	// Connect before the first sweep so every update is observed.
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg server.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if msg.Type != server.MessageSnapshot || msg.Summary.Unknown != 2 {
		t.Fatalf("expected snapshot with 2 unknown, got %+v", msg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sw.Start(ctx)

	seen := map[int]probe.Status{}
	for len(seen) < 2 {
		msg = server.Message{}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("reading update: %v", err)
		}
		if msg.Service != nil {
			seen[msg.Service.Index] = msg.Service.Status
		}
	}
	if seen[0] != probe.StatusReachable {
		t.Errorf("expected a 401 target to be reachable, got %q", seen[0])
	}
	if seen[1] != probe.StatusUnreachable {
		t.Errorf("expected closed port unreachable, got %q", seen[1])
	}

	resp, err := http.Get(srv.URL + "/api/summary")
	if err != nil {
		t.Fatalf("GET /api/summary: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Data struct {
			Online  int     `json:"online"`
			Offline int     `json:"offline"`
			Health  float64 `json:"health"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if body.Data.Online != 1 || body.Data.Offline != 1 || body.Data.Health != 50 {
		t.Errorf("unexpected summary: %+v", body.Data)
	}

	page, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	page.Body.Close()
	if page.StatusCode != http.StatusOK {
		t.Errorf("expected dashboard at /, got %d", page.StatusCode)
	}

	themes, err := http.Get(srv.URL + "/api/themes")
	if err != nil {
		t.Fatalf("GET /api/themes: %v", err)
	}
	defer themes.Body.Close()
	var themeBody struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(themes.Body).Decode(&themeBody); err != nil {
		t.Fatalf("decoding themes: %v", err)
	}
	if len(themeBody.Data) != 4 {
		t.Errorf("expected the 4 embedded themes, got %v", themeBody.Data)
	}

	cancel()
	sw.Wait()
}
