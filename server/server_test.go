package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
)

const dashboard = `
charts:
  - name: visits
    kind: bar
    title: Visits
    x_key: page
    y_key: count
    animate: false
    source:
      type: inline
      rows:
        - {page: home, count: 120}
        - {page: about, count: 30}
        - {page: blog, count: 75}
`

func newServer(t *testing.T) (*Server, context.Context) {
	t.Helper()
	file := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(file, []byte(dashboard), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(ctx, logger, file)
	if err != nil {
		t.Fatal(err)
	}
	return srv, ctx
}

func TestHandleList(t *testing.T) {
	srv, _ := newServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var list []chartInfo
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "visits" || list[0].Rows != 3 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestHandleChart(t *testing.T) {
	srv, _ := newServer(t)
	tests := []struct {
		URL      string
		Code     int
		Contains string
	}{
		{URL: "/charts/visits.svg", Code: http.StatusOK, Contains: "<title>Visits</title>"},
		{URL: "/charts/visits.svg?width=400&height=300", Code: http.StatusOK, Contains: `width="400"`},
		{URL: "/charts/visits.json", Code: http.StatusOK, Contains: `"Kind":"bar"`},
		{URL: "/charts/visits.png", Code: http.StatusNotFound},
		{URL: "/charts/unknown.svg", Code: http.StatusNotFound},
		{URL: "/charts/visits.svg?width=wide", Code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.URL, nil))
		if rec.Code != tt.Code {
			t.Errorf("%s: want %d, got %d", tt.URL, tt.Code, rec.Code)
			continue
		}
		if tt.Contains != "" && !strings.Contains(rec.Body.String(), tt.Contains) {
			t.Errorf("%s: body should contain %q", tt.URL, tt.Contains)
		}
	}
}

func TestSocket(t *testing.T) {
	srv, ctx := newServer(t)
	go srv.hub.Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/visits"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	read := func() outbound {
		t.Helper()
		var msg outbound
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
		return msg
	}

	if msg := read(); msg.Type != "render" || !strings.Contains(msg.SVG, "<svg") {
		t.Fatalf("first message should be a render, got %q", msg.Type)
	}

	if err := conn.WriteJSON(inbound{Type: "resize", Width: 400, Height: 300}); err != nil {
		t.Fatal(err)
	}
	if msg := read(); msg.Type != "render" || !strings.Contains(msg.SVG, `width="400"`) {
		t.Errorf("resize should push a new render")
	}

	if err := conn.WriteJSON(inbound{Type: "move", X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	if msg := read(); msg.Type != "hover" || msg.Datum != nil {
		t.Errorf("pointer in the margin should not hover anything, got %+v", msg)
	}
	if n := srv.hub.Len(); n != 1 {
		t.Errorf("want 1 client, got %d", n)
	}
}
