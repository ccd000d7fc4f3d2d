package ipc

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 5 * time.Second

// Websocket is the Transport for in-browser hosts: one text message per
// envelope, no length prefix.
type Websocket struct {
	conn *websocket.Conn
}

func NewWebsocket(conn *websocket.Conn) *Websocket {
	conn.SetReadLimit(MaxFrameSize)
	return &Websocket{conn: conn}
}

func (w *Websocket) ReadEnvelope() (Envelope, error) {
	_, msg, err := w.conn.ReadMessage()
	if err != nil {
		return Envelope{}, fmt.Errorf("read message: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

func (w *Websocket) WriteEnvelope(env Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := w.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (w *Websocket) Close() error {
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
		time.Now().Add(time.Second))
	return w.conn.Close()
}

// WebsocketHandler upgrades each request and hands the transport to serve,
// which owns it until it returns.
func WebsocketHandler(serve func(Transport)) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  64 * 1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin:     func(r *http.Request) bool { return true }, // the plugin runs on the game's origin
	}
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		slog.Info("websocket host connected", "remote", r.RemoteAddr)
		serve(NewWebsocket(conn))
	}
}
