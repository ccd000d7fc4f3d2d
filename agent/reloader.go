package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nstehr/dfauto/config"
	"github.com/nstehr/dfauto/rules"
)

// Reloader watches the config file in the background and swaps the rule set
// of every live engine when it changes. Each connection gets its own engine
// so firing times stay per session.
type Reloader struct {
	path     string
	interval time.Duration

	mu      sync.Mutex
	cfg     config.Config
	modTime time.Time
	engines map[*rules.Engine]struct{}
}

// NewReloader loads path (or the defaults when path is empty). If interval is
// zero or negative, defaults to 5s.
func NewReloader(path string, interval time.Duration) (*Reloader, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	r := &Reloader{
		path:     path,
		interval: interval,
		cfg:      config.Default(),
		engines:  make(map[*rules.Engine]struct{}),
	}
	if path == "" {
		return r, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := checkRules(cfg); err != nil {
		return nil, err
	}
	r.cfg = cfg
	r.modTime = info.ModTime()
	return r, nil
}

func (r *Reloader) Config() config.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// NewEngine builds an engine from the current config and keeps it updated
// until Release.
func (r *Reloader) NewEngine() (*rules.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rs, err := rules.CompileConfig(r.cfg)
	if err != nil {
		return nil, err
	}
	e, err := rules.NewEngine(rs)
	if err != nil {
		return nil, err
	}
	r.engines[e] = struct{}{}
	return e, nil
}

func (r *Reloader) Release(e *rules.Engine) {
	r.mu.Lock()
	delete(r.engines, e)
	r.mu.Unlock()
}

// Check reloads the file if its mtime moved. A broken file leaves the
// running rules untouched.
func (r *Reloader) Check() (bool, error) {
	if r.path == "" {
		return false, nil
	}
	info, err := os.Stat(r.path)
	if err != nil {
		return false, fmt.Errorf("stat config: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !info.ModTime().After(r.modTime) {
		return false, nil
	}
	// Don't retry the same broken file on every tick.
	r.modTime = info.ModTime()

	cfg, err := config.Load(r.path)
	if err != nil {
		return false, err
	}
	if err := checkRules(cfg); err != nil {
		return false, err
	}
	for e := range r.engines {
		// Rules carry compiled programs, so each engine gets its own set.
		rs, err := rules.CompileConfig(cfg)
		if err != nil {
			return false, err
		}
		if err := e.Swap(rs); err != nil {
			return false, err
		}
	}
	r.cfg = cfg
	slog.Info("config reloaded", "path", r.path, "engines", len(r.engines))
	return true, nil
}

// checkRules builds a throwaway engine so bad conditions fail here and not
// on the next connection.
func checkRules(cfg config.Config) error {
	rs, err := rules.CompileConfig(cfg)
	if err != nil {
		return err
	}
	_, err = rules.NewEngine(rs)
	return err
}

// Start polls until ctx is cancelled.
func (r *Reloader) Start(ctx context.Context) {
	if r.path == "" {
		return
	}
	slog.Info("config reloader started", "path", r.path, "interval", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("config reloader stopped")
			return
		case <-ticker.C:
			if _, err := r.Check(); err != nil {
				slog.Error("config reload failed", "path", r.path, "error", err)
			}
		}
	}
}
