// Package daemon exposes the live coverage status over a websocket so
// external statuslines (tmux segments, editors on another socket) can
// subscribe instead of polling the state file.
package daemon

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/coverlay/logging"
)

// Status is the JSON document pushed to subscribers on every change.
type Status struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Command string `json:"command"`
	Warn    bool   `json:"warn"`
	Visible bool   `json:"visible"`
}

// Broadcaster is a statusbar item whose output fans out to websocket
// subscribers. New subscribers immediately receive the current status.
type Broadcaster struct {
	logger   *logrus.Entry
	upgrader websocket.Upgrader
	server   *http.Server

	mu     sync.Mutex
	conns  map[*websocket.Conn]bool
	status Status
}

// NewBroadcaster creates an idle broadcaster; call ListenAndServe to accept
// subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		logger: logging.NewLogger("daemon"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  256,
			WriteBufferSize: 1024,
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// ListenAndServe starts the status endpoint on addr (e.g. "127.0.0.1:7483").
// It blocks until Shutdown or failure.
func (b *Broadcaster) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", b.handleSubscribe)

	b.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	b.logger.WithField("addr", addr).Info("Status broadcaster listening")
	err := b.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown closes all subscriber connections and stops the endpoint.
func (b *Broadcaster) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	for conn := range b.conns {
		conn.Close()
	}
	b.conns = make(map[*websocket.Conn]bool)
	server := b.server
	b.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (b *Broadcaster) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	b.mu.Lock()
	b.conns[conn] = true
	current := b.status
	b.mu.Unlock()

	b.logger.WithField("remote", conn.RemoteAddr().String()).Debug("Subscriber connected")

	if err := conn.WriteJSON(current); err != nil {
		b.drop(conn)
		return
	}

	// Drain the read side so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.drop(conn)
				return
			}
		}
	}()
}

func (b *Broadcaster) drop(conn *websocket.Conn) {
	b.mu.Lock()
	delete(b.conns, conn)
	b.mu.Unlock()
	conn.Close()
}

// broadcast pushes the current status to every subscriber, dropping the ones
// that are gone.
func (b *Broadcaster) broadcast() {
	b.mu.Lock()
	status := b.status
	conns := make([]*websocket.Conn, 0, len(b.conns))
	for conn := range b.conns {
		conns = append(conns, conn)
	}
	b.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(status); err != nil {
			b.drop(conn)
		}
	}
}

// The statusbar.Item implementation.

func (b *Broadcaster) SetText(text string) {
	b.mu.Lock()
	b.status.Text = text
	b.mu.Unlock()
	b.broadcast()
}

func (b *Broadcaster) SetTooltip(tooltip string) {
	b.mu.Lock()
	b.status.Tooltip = tooltip
	b.mu.Unlock()
	b.broadcast()
}

func (b *Broadcaster) SetCommand(command string) {
	b.mu.Lock()
	b.status.Command = command
	b.mu.Unlock()
	b.broadcast()
}

func (b *Broadcaster) SetWarn(warn bool) {
	b.mu.Lock()
	b.status.Warn = warn
	b.mu.Unlock()
	b.broadcast()
}

func (b *Broadcaster) Show() {
	b.mu.Lock()
	b.status.Visible = true
	b.mu.Unlock()
	b.broadcast()
}

func (b *Broadcaster) Hide() {
	b.mu.Lock()
	b.status.Visible = false
	b.mu.Unlock()
	b.broadcast()
}

func (b *Broadcaster) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return b.Shutdown(ctx)
}
