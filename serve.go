package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nstehr/dfauto/agent"
	"github.com/nstehr/dfauto/audit"
	"github.com/nstehr/dfauto/ipc"
)

type serveOptions struct {
	socketPath     string
	wsAddr         string
	auditDir       string
	ratePerSecond  float64
	burst          int
	reloadInterval time.Duration
}

func serveCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept host connections and run the rule engine on every snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.socketPath, "socket", "/tmp/dfauto.sock", "unix socket for the native host bridge (empty disables)")
	f.StringVar(&opts.wsAddr, "ws", "", "websocket listen address for in-browser hosts, e.g. 127.0.0.1:8787")
	f.StringVar(&opts.auditDir, "audit-dir", "", "directory for the compressed audit trail (empty disables)")
	f.Float64Var(&opts.ratePerSecond, "rate", 2, "commands per second sent to the host (0 = unlimited)")
	f.IntVar(&opts.burst, "burst", 5, "command burst size")
	f.DurationVar(&opts.reloadInterval, "reload-interval", 5*time.Second, "how often the config file is checked for changes")
	return cmd
}

func runServe(opts serveOptions) error {
	fmt.Fprintln(os.Stderr, banner)
	slog.Info("starting dfauto")

	if opts.socketPath == "" && opts.wsAddr == "" {
		return errors.New("nothing to listen on: set --socket or --ws")
	}

	reloader, err := agent.NewReloader(configPath, opts.reloadInterval)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var auditLog *audit.Logger
	if opts.auditDir != "" {
		auditLog = audit.NewLogger(opts.auditDir)
		defer auditLog.Close()
		slog.Info("audit trail enabled", "dir", opts.auditDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reloader.Start(ctx)

	serve := func(t ipc.Transport) {
		handleConn(ctx, t, reloader, auditLog, opts)
	}

	if opts.socketPath != "" {
		// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
		if err := os.RemoveAll(opts.socketPath); err != nil {
			return fmt.Errorf("clean up socket %s: %w", opts.socketPath, err)
		}
		listener, err := net.Listen("unix", opts.socketPath)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", opts.socketPath, err)
		}
		defer listener.Close()
		defer os.Remove(opts.socketPath)
		slog.Info("listening on domain socket", "path", opts.socketPath)

		go acceptLoop(ctx, listener, serve)
	}

	if opts.wsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", ipc.WebsocketHandler(serve))
		srv := &http.Server{Addr: opts.wsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			slog.Info("listening for websocket hosts", "addr", opts.wsAddr, "path", "/ws")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("websocket server failed", "error", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func acceptLoop(ctx context.Context, listener net.Listener, serve func(ipc.Transport)) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				slog.Error("failed to accept connection", "error", err)
				continue
			}
		}
		slog.Info("new connection accepted")
		go serve(ipc.NewFramed(conn))
	}
}

func handleConn(ctx context.Context, t ipc.Transport, reloader *agent.Reloader, auditLog *audit.Logger, opts serveOptions) {
	engine, err := reloader.NewEngine()
	if err != nil {
		slog.Error("failed to build rule engine", "error", err)
		t.Close()
		return
	}
	defer reloader.Release(engine)

	c := ipc.NewConnection(t, nil)
	a := agent.New(c, engine, ipc.NewSubmitter(c, opts.ratePerSecond, opts.burst))
	a.Audit = auditLog
	a.Override = reloader.Config().Account
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeGameState, a.HandleGameState)
	c.ReadLoop(ctx)
}
