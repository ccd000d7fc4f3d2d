// Package agent runs the rule engine for one connected host session.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nstehr/dfauto/audit"
	"github.com/nstehr/dfauto/ipc"
	"github.com/nstehr/dfauto/model"
	"github.com/nstehr/dfauto/planner"
	"github.com/nstehr/dfauto/rules"
	"github.com/nstehr/dfauto/snapshot"
)

// Agent owns the decision-making for a single host session.
type Agent struct {
	Conn      *ipc.Connection
	Engine    *rules.Engine
	Submitter planner.Submitter
	Audit     *audit.Logger // nil disables the audit trail
	Override  string        // configured account; wins over hello when set

	account string
	client  string
	prev    *stateSnapshot
	clock   func() time.Time
}

func New(conn *ipc.Connection, engine *rules.Engine, sub planner.Submitter) *Agent {
	return &Agent{Conn: conn, Engine: engine, Submitter: sub, clock: time.Now}
}

// Account is the identity planners treat as "mine".
func (a *Agent) Account() string {
	if a.Override != "" {
		return a.Override
	}
	return a.account
}

// HandleHello completes the handshake so the plugin knows the sidecar is ready.
func (a *Agent) HandleHello(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	a.account = hello.Account
	a.client = hello.Client
	a.prev = nil
	if a.Conn != nil {
		a.Conn.Account = a.Account()
	}
	slog.Info("account identified", "account", a.Account(), "client", a.client)

	return ack(ipc.AckMessage{Status: "ok"})
}

func (a *Agent) HandleGameState(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var gs model.GameState
	if err := json.Unmarshal(env.Data, &gs); err != nil {
		return nil, fmt.Errorf("unmarshal GameState: %w", err)
	}
	return ack(a.Process(ctx, gs))
}

// Process runs one snapshot through event detection, the engine and the
// audit trail, and summarizes the outcome.
func (a *Agent) Process(ctx context.Context, gs model.GameState) ipc.AckMessage {
	view := snapshot.NewView(gs, a.Account())
	if view.Account() == "" {
		slog.Warn("game state before account is known", "block", gs.BlockNumber)
		return ipc.AckMessage{Status: "error"}
	}
	now := view.Now(a.clock())

	cur := takeSnapshot(view)
	events := detectEvents(view.BlockNumber(), a.prev, cur)
	a.prev = &cur
	for _, e := range events {
		slog.Info("event detected", "kind", e.Kind, "block", e.Block, "planet", e.Planet, "detail", e.Detail)
	}
	for _, c := range categoriesFor(events) {
		a.Engine.ResetInterval(c)
	}

	results := a.Engine.Evaluate(ctx, view, now, a.Submitter)

	if a.Audit != nil {
		if err := a.Audit.Record(now, view.BlockNumber(), view.Account(), results); err != nil {
			slog.Error("audit write failed", "error", err)
		}
	}

	resp := ipc.AckMessage{Status: "ok"}
	for _, r := range results {
		switch r.Status {
		case planner.StatusSubmitted:
			resp.Submitted++
		case planner.StatusSkipped:
			resp.Skipped++
		case planner.StatusFailed:
			resp.Failed++
		}
	}

	slog.Info("game state processed",
		"account", view.Account(),
		"block", view.BlockNumber(),
		"planets", len(gs.Planets),
		"mine", len(cur.owned),
		"artifacts", len(cur.artifacts),
		"events", len(events),
		"submitted", resp.Submitted,
		"skipped", resp.Skipped,
		"failed", resp.Failed,
	)
	return resp
}

func ack(msg ipc.AckMessage) (*ipc.Envelope, error) {
	env, err := ipc.NewEnvelope(ipc.TypeAck, msg)
	if err != nil {
		return nil, err
	}
	return &env, nil
}
