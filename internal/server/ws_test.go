package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/store"
)

var circleTrace = []gesture.Point{
	{X: 200, Y: 300},
	{X: 210, Y: 300},
	{X: 220, Y: 310},
	{X: 220, Y: 320},
	{X: 210, Y: 330},
	{X: 200, Y: 330},
	{X: 190, Y: 320},
	{X: 190, Y: 310},
	{X: 200, Y: 300},
	{X: 210, Y: 300},
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func newSessionServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	a := newTestApp(t)
	if err := a.Store().Gestures().Create(&store.Gesture{
		ID: "g1", Name: "circle", Pattern: gesture.Circle, MinMoves: 8, FudgeFactor: 5,
	}); err != nil {
		t.Fatalf("failed to create gesture: %v", err)
	}

	srv := New(Config{App: a})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts
}

func readNotice(t *testing.T, conn *websocket.Conn) input.Notice {
	t.Helper()
	var n input.Notice
	if err := conn.ReadJSON(&n); err != nil {
		t.Fatalf("failed to read notice: %v", err)
	}
	return n
}

func TestSessionHandler_Circle(t *testing.T) {
	_, ts := newSessionServer(t)
	conn := dial(t, ts, "/api/session?gesture=g1")

	for _, ev := range input.TraceEvents(circleTrace) {
		if err := conn.WriteJSON(ev); err != nil {
			t.Fatalf("failed to send event: %v", err)
		}
	}

	match := readNotice(t, conn)
	if match.Type != input.NoticeMatch || match.Gesture != "circle" || match.Score != 0 {
		t.Errorf("unexpected match notice %+v", match)
	}

	result := readNotice(t, conn)
	if result.Type != input.NoticeResult || !result.Matched || result.Path != "012345670" || result.Moves != 9 {
		t.Errorf("unexpected result notice %+v", result)
	}
}

func TestSessionHandler_NoMatch(t *testing.T) {
	_, ts := newSessionServer(t)
	conn := dial(t, ts, "/api/session?gesture=g1")

	for _, ev := range input.TraceEvents([]gesture.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}) {
		conn.WriteJSON(ev)
	}

	result := readNotice(t, conn)
	if result.Type != input.NoticeResult || result.Matched || result.Moves != 2 {
		t.Errorf("unexpected result notice %+v", result)
	}
}

func TestSessionHandler_InvalidEvent(t *testing.T) {
	_, ts := newSessionServer(t)
	conn := dial(t, ts, "/api/session?gesture=g1")

	if err := conn.WriteJSON(map[string]string{"type": "wiggle"}); err != nil {
		t.Fatalf("failed to send event: %v", err)
	}

	var msg errorMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	if msg.Type != "error" || !strings.Contains(msg.Error, "wiggle") {
		t.Errorf("unexpected message %+v", msg)
	}

	// The session survives a bad event
	conn.WriteJSON(input.Event{Type: input.EventStart})
	conn.WriteJSON(input.Event{Type: input.EventEnd})
	if n := readNotice(t, conn); n.Type != input.NoticeResult {
		t.Errorf("expected a result notice, got %+v", n)
	}
}

func TestMatchesHandler_Broadcast(t *testing.T) {
	srv, ts := newSessionServer(t)
	watcher := dial(t, ts, "/api/matches")

	deadline := time.Now().Add(5 * time.Second)
	for srv.matches.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("matches subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn := dial(t, ts, "/api/session?gesture=g1")
	for _, ev := range input.TraceEvents(circleTrace) {
		conn.WriteJSON(ev)
	}

	var msg matchMessage
	if err := watcher.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read match: %v", err)
	}
	if msg.Type != "match" || msg.GestureID != "g1" || msg.Gesture != "circle" || msg.Path != "012345670" {
		t.Errorf("unexpected match message %+v", msg)
	}
	if msg.Executed || msg.Skipped != "no action bound" {
		t.Errorf("expected a skipped match, got %+v", msg)
	}
}
