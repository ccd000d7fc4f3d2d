// Package audit keeps a compressed JSONL trail of every result the rule
// engine produced, one file per UTC hour.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/nstehr/dfauto/planner"
)

// Entry is one audited result.
type Entry struct {
	Time     time.Time       `json:"time"`
	Block    int64           `json:"block"`
	Account  string          `json:"account"`
	Strategy string          `json:"strategy"`
	Source   string          `json:"source,omitempty"`
	Status   planner.Status  `json:"status"`
	Reason   string          `json:"reason,omitempty"`
	Intent   *planner.Intent `json:"intent,omitempty"`
}

// Logger records engine results under dir/audit-<hour>.jsonl.zst. The hour
// comes from the time passed to Record, so a replayed snapshot lands in the
// file for its own hour.
type Logger struct {
	dir string

	mu   sync.Mutex
	hour string
	file *os.File
	zw   *zstd.Encoder
}

func NewLogger(dir string) *Logger {
	return &Logger{dir: dir}
}

// Record writes one entry per result. It stops at the first write error.
func (l *Logger) Record(now time.Time, block int64, account string, results []planner.Result) error {
	if len(results) == 0 {
		return nil
	}
	now = now.UTC()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.openHour(now.Format(hourLayout)); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	for _, r := range results {
		line, err := json.Marshal(Entry{
			Time:     now,
			Block:    block,
			Account:  account,
			Strategy: r.Strategy,
			Source:   string(r.Source),
			Status:   r.Status,
			Reason:   r.Reason,
			Intent:   r.Intent,
		})
		if err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		if _, err := l.zw.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
	}
	// A crash loses at most the batch in flight.
	if err := l.zw.Flush(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}

const hourLayout = "2006-01-02-15"

func (l *Logger) openHour(hour string) error {
	if hour == l.hour && l.zw != nil {
		return nil
	}
	if err := l.closeFile(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(l.dir, "audit-"+hour+".jsonl.zst")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return err
	}
	l.hour, l.file, l.zw = hour, f, zw
	return nil
}

func (l *Logger) closeFile() error {
	if l.file == nil {
		return nil
	}
	err := l.zw.Close()
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.hour, l.file, l.zw = "", nil, nil
	return err
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeFile()
}

// ReadFile decodes every entry in one audit file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer dec.Close()

	var entries []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 4<<20)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return entries, fmt.Errorf("%s: line %d: %w", path, len(entries)+1, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Files lists the audit files in dir, oldest first.
func Files(dir string) ([]string, error) {
	// The hour layout sorts lexically, and Glob returns sorted names.
	return filepath.Glob(filepath.Join(dir, "audit-*.jsonl.zst"))
}
