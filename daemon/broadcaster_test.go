package daemon

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialBroadcaster(t *testing.T, b *Broadcaster) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(b.handleSubscribe))
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/status"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("Failed to dial broadcaster: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func readStatus(t *testing.T, conn *websocket.Conn) Status {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var status Status
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatalf("Failed to read status: %v", err)
	}
	return status
}

func TestSubscriberReceivesCurrentStatusOnConnect(t *testing.T) {
	b := NewBroadcaster()
	b.SetText("☂ 80%/90% coverage")
	b.Show()

	conn, cleanup := dialBroadcaster(t, b)
	defer cleanup()

	status := readStatus(t, conn)
	if status.Text != "☂ 80%/90% coverage" {
		t.Errorf("Unexpected initial text: %q", status.Text)
	}
	if !status.Visible {
		t.Error("Expected visible status")
	}
}

func TestSubscriberReceivesUpdates(t *testing.T) {
	b := NewBroadcaster()
	conn, cleanup := dialBroadcaster(t, b)
	defer cleanup()

	readStatus(t, conn) // initial snapshot

	b.SetWarn(true)

	status := readStatus(t, conn)
	if !status.Warn {
		t.Error("Expected warn update to reach the subscriber")
	}
}
