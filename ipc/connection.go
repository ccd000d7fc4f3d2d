package ipc

import (
	"context"
	"log/slog"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(ctx context.Context, env Envelope) (*Envelope, error)

// Connection represents a single game client talking to the sidecar.
// Each client gets its own connection, identified after the hello handshake.
type Connection struct {
	t        Transport
	handlers map[string]Handler
	writeMu  sync.Mutex // commands and replies may interleave
	Account  string
}

func NewConnection(t Transport, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		t:        t,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.t.WriteEnvelope(env)
}

// ReadLoop blocks until the connection closes, errors or ctx is done. It owns
// the transport lifetime so callers don't need to track cleanup.
func (c *Connection) ReadLoop(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		c.t.Close()
	}()

	for {
		env, err := c.t.ReadEnvelope()
		if err != nil {
			slog.Info("connection read ended", "account", c.Account, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := handler(ctx, env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			continue
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "account", c.Account)
		}
	}
}
