package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultCleanupDelay = 5 * time.Second

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Spool owns the temp directory holding generated PDFs. Each file is removed
// a fixed delay after its print attempt so the OS spooler can still read it.
type Spool struct {
	dir     string
	delay   time.Duration
	logger  *zap.Logger
	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewSpool(dir string, delay time.Duration, logger *zap.Logger) *Spool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Spool{
		dir:     dir,
		delay:   delay,
		logger:  logger,
		pending: make(map[string]*time.Timer),
	}
}

// Path is the deterministic location of an order's PDF.
func (s *Spool) Path(orderID string) string {
	return filepath.Join(s.dir, "order-"+unsafeFileChars.ReplaceAllString(orderID, "_")+".pdf")
}

// Acquire reserves the order's file. The caller must Release it on every exit
// path; a pending deletion of the same path is cancelled.
func (s *Spool) Acquire(orderID string) (*SpoolFile, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	path := s.Path(orderID)

	s.mu.Lock()
	if t, ok := s.pending[path]; ok {
		t.Stop()
		delete(s.pending, path)
	}
	s.mu.Unlock()

	return &SpoolFile{Path: path, spool: s}, nil
}

func (s *Spool) schedule(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var timer *time.Timer
	timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.pending[path] == timer {
			delete(s.pending, path)
		}
		s.mu.Unlock()
		s.remove(path)
	})
	s.pending[path] = timer
}

func (s *Spool) remove(path string) {
	err := os.Remove(path)
	switch {
	case err == nil:
		s.logger.Debug("Tmp file deleted", zap.String("path", path))
	case errors.Is(err, os.ErrNotExist):
	default:
		s.logger.Warn("Failed to delete tmp file", zap.String("path", path), zap.Error(err))
	}
}

// Pending returns the number of files still waiting for deletion.
func (s *Spool) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close deletes every pending file immediately.
func (s *Spool) Close() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.pending))
	for path, t := range s.pending {
		t.Stop()
		paths = append(paths, path)
	}
	s.pending = make(map[string]*time.Timer)
	s.mu.Unlock()

	for _, path := range paths {
		s.remove(path)
	}
}

// SpoolFile is a scoped handle on one temp PDF.
type SpoolFile struct {
	Path  string
	spool *Spool
	once  sync.Once
}

func (f *SpoolFile) Write(data []byte) error {
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("failed saving PDF: %w", err)
	}
	return nil
}

// Release schedules deletion. Calling it more than once has no effect.
func (f *SpoolFile) Release() {
	f.once.Do(func() { f.spool.schedule(f.Path) })
}
