// Package autosave persists editor text to disk after a quiet period, so a
// burst of edits costs one write. Writes are atomic (temp file plus rename)
// and failures are logged and retried rather than surfaced to the editing
// path.
package autosave

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultDelay = 500 * time.Millisecond

// Saver debounces writes of a single file. Schedule may be called from the
// UI path on every text change; the write happens on the timer's goroutine.
type Saver struct {
	path  string
	delay time.Duration

	logger *log.Logger
	write  func(path string, data []byte) error

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	dirty   bool
	stopped bool
}

// Option configures a Saver.
type Option func(*Saver)

// WithDelay overrides the quiet period before a write.
func WithDelay(d time.Duration) Option {
	return func(s *Saver) { s.delay = d }
}

// WithLogger injects a logger for write failures; nil discards them.
func WithLogger(l *log.Logger) Option {
	return func(s *Saver) { s.logger = l }
}

// WithWriteFile overrides the file writer; tests use this.
func WithWriteFile(fn func(path string, data []byte) error) Option {
	return func(s *Saver) { s.write = fn }
}

// New builds a Saver targeting path. Nothing is written until Schedule or
// Flush is called.
func New(path string, opts ...Option) *Saver {
	s := &Saver{
		path:  path,
		delay: defaultDelay,
		write: atomicWrite,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule records text as the content to persist and restarts the quiet
// period. Only the most recent text survives a burst; earlier snapshots are
// never written.
func (s *Saver) Schedule(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.pending = text
	s.dirty = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Saver) fire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || !s.dirty {
		return
	}
	if err := s.write(s.path, []byte(s.pending)); err != nil {
		s.logf("autosave %s: %v", s.path, err)
		// Keep the content dirty and try again after another quiet period.
		s.timer = time.AfterFunc(s.delay, s.fire)
		return
	}
	s.dirty = false
}

// Flush writes any pending content immediately and cancels the timer. It
// returns the write error, if any; the content stays pending for a retry.
func (s *Saver) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	if !s.dirty {
		return nil
	}
	if err := s.write(s.path, []byte(s.pending)); err != nil {
		s.logf("autosave %s: %v", s.path, err)
		return err
	}
	s.dirty = false
	return nil
}

// Stop cancels any pending write and rejects further scheduling. Callers
// that want the last content persisted should Flush first.
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Saver) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// atomicWrite writes data to a temp file in the target directory and renames
// it over path, so readers never observe a half-written file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
