// Package recorder writes published snapshots to a JSONL or Parquet file.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/haskel/sysbar/internal/monitor"
)

// Options configures a Recorder.
type Options struct {
	Path          string
	Format        string
	FlushInterval time.Duration
	Logger        *slog.Logger
}

// Recorder appends one Record per snapshot to <Path>.tmp and renames it to
// Path when stopped, so Path only ever holds a complete file.
type Recorder struct {
	path          string
	format        string
	flushInterval time.Duration
	logger        *slog.Logger

	mu      sync.Mutex
	file    *os.File
	sink    sink
	count   int64
	dirty   bool
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// New opens the temporary output file.
func New(opts Options) (*Recorder, error) {
	if opts.Path == "" {
		return nil, errors.New("recorder path cannot be empty")
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if dir := filepath.Dir(opts.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(opts.Path + ".tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	s, err := newSink(opts.Format, file)
	if err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, err
	}

	return &Recorder{
		path:          opts.Path,
		format:        opts.Format,
		flushInterval: opts.FlushInterval,
		logger:        opts.Logger,
		file:          file,
		sink:          s,
	}, nil
}

// Record appends one snapshot.
func (r *Recorder) Record(snap *monitor.SystemSnapshot) error {
	if snap == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return errors.New("recorder is stopped")
	}
	if err := r.sink.Write(RecordFrom(snap)); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	r.count++
	r.dirty = true
	return nil
}

// Flush pushes buffered records to the temporary file.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

func (r *Recorder) flushLocked() error {
	if !r.dirty || r.stopped {
		return nil
	}
	if err := r.sink.Flush(); err != nil {
		return err
	}
	r.dirty = false
	r.logger.Debug("flushed records", "path", r.file.Name(), "count", r.count)
	return nil
}

// Start consumes snapshots from ch and flushes periodically until ctx is
// done, ch is closed or Stop is called.
func (r *Recorder) Start(ctx context.Context, ch <-chan *monitor.SystemSnapshot) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go r.loop(ctx, ch, done)
}

func (r *Recorder) loop(ctx context.Context, ch <-chan *monitor.SystemSnapshot, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.drain(ch)
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if err := r.Record(snap); err != nil {
				r.logger.Error("failed to record snapshot", "error", err)
			}
		case <-ticker.C:
			if err := r.Flush(); err != nil {
				r.logger.Error("failed to flush records", "error", err)
			}
		}
	}
}

// drain records snapshots already buffered in ch without waiting for more.
func (r *Recorder) drain(ch <-chan *monitor.SystemSnapshot) {
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if err := r.Record(snap); err != nil {
				r.logger.Error("failed to record snapshot", "error", err)
			}
		default:
			return
		}
	}
}

// Stop ends consumption, finishes the file and atomically renames it into
// place. Calling Stop again does nothing.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return nil
	}
	r.stopped = true

	tempPath := r.file.Name()
	if err := r.sink.Close(); err != nil {
		r.file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to finish %s output: %w", r.format, err)
	}
	if err := r.file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	// Atomic rename
	if err := os.Rename(tempPath, r.path); err != nil {
		os.Remove(tempPath)
		return err
	}

	r.logger.Info("recording saved", "path", r.path, "records", r.count)
	return nil
}

// Count returns how many records were written.
func (r *Recorder) Count() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Path returns the final output path.
func (r *Recorder) Path() string {
	return r.path
}
