// Package tracker persists the ledger of sent documents awaiting
// completion. The ledger is a single JSON file guarded by an advisory
// file lock, so concurrent intake and follow-up runs never interleave
// partial writes.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"countersign/internal/recipients"
)

// System manages tracked document operations.
type System interface {
	// Add registers a freshly sent document as pending.
	Add(ctx context.Context, documentID, name string, rs []recipients.Recipient, sentAt time.Time) error
	// Get returns a tracked document by remote ID.
	Get(ctx context.Context, documentID string) (*Document, error)
	// Pending returns all pending documents ordered by send date.
	Pending(ctx context.Context) ([]Document, error)
	// RecordFollowup stamps a follow-up on a pending document and
	// increments its count.
	RecordFollowup(ctx context.Context, documentID string, at time.Time) error
	// MarkCompleted transitions a document to completed. Completing a
	// document twice is a no-op and keeps the original completion date.
	MarkCompleted(ctx context.Context, documentID string, at time.Time) error
	// Stats summarizes the tracked collection.
	Stats(ctx context.Context) (Stats, error)
}

type store struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// New creates a tracker backed by the configured JSON file.
func New(cfg *Config, logger *slog.Logger) System {
	return &store{
		path:   cfg.Path,
		lock:   flock.New(cfg.Path + ".lock"),
		logger: logger.With("system", "tracker"),
	}
}

func (s *store) Add(ctx context.Context, documentID, name string, rs []recipients.Recipient, sentAt time.Time) error {
	if documentID == "" {
		return ErrEmptyID
	}

	return s.update(ctx, func(c *collection) error {
		if _, exists := c.Documents[documentID]; exists {
			return fmt.Errorf("%w: %s", ErrAlreadyTracked, documentID)
		}

		c.Documents[documentID] = Document{
			DocumentID:       documentID,
			DocumentName:     name,
			SentDate:         sentAt,
			Recipients:       rs,
			LastFollowupDate: sentAt,
			FollowupCount:    0,
			Status:           StatusPending,
		}

		s.logger.InfoContext(ctx, "document tracked",
			"document_id", documentID,
			"name", name,
		)

		return nil
	})
}

func (s *store) Get(ctx context.Context, documentID string) (*Document, error) {
	if documentID == "" {
		return nil, ErrEmptyID
	}

	c, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	doc, ok := c.Documents[documentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotTracked, documentID)
	}

	return &doc, nil
}

func (s *store) Pending(ctx context.Context) ([]Document, error) {
	c, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Document
	for _, doc := range c.Documents {
		if doc.Status == StatusPending {
			pending = append(pending, doc)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].SentDate.Before(pending[j].SentDate)
	})

	return pending, nil
}

func (s *store) RecordFollowup(ctx context.Context, documentID string, at time.Time) error {
	if documentID == "" {
		return ErrEmptyID
	}

	return s.update(ctx, func(c *collection) error {
		doc, ok := c.Documents[documentID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotTracked, documentID)
		}

		doc.LastFollowupDate = at
		doc.FollowupCount++
		c.Documents[documentID] = doc

		return nil
	})
}

func (s *store) MarkCompleted(ctx context.Context, documentID string, at time.Time) error {
	if documentID == "" {
		return ErrEmptyID
	}

	return s.update(ctx, func(c *collection) error {
		doc, ok := c.Documents[documentID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotTracked, documentID)
		}

		if doc.Status == StatusCompleted {
			return nil
		}

		doc.Status = StatusCompleted
		doc.CompletedDate = &at
		c.Documents[documentID] = doc

		s.logger.InfoContext(ctx, "document completed", "document_id", documentID)

		return nil
	})
}

func (s *store) Stats(ctx context.Context) (Stats, error) {
	c, err := s.read(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(c.Documents)}
	for _, doc := range c.Documents {
		switch doc.Status {
		case StatusCompleted:
			stats.Completed++
		default:
			stats.Pending++
		}
	}

	return stats, nil
}

func (s *store) read(ctx context.Context) (collection, error) {
	if err := s.acquire(ctx); err != nil {
		return collection{}, err
	}
	defer s.lock.Unlock()

	return s.load()
}

func (s *store) update(ctx context.Context, mutate func(*collection) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}

	if err := mutate(&c); err != nil {
		return err
	}

	return s.save(c)
}

func (s *store) acquire(ctx context.Context) error {
	if _, err := s.lock.TryLockContext(ctx, 50*time.Millisecond); err != nil {
		return fmt.Errorf("acquire tracker lock: %w", err)
	}
	return nil
}

// load reads the whole collection; a missing file is an empty collection.
func (s *store) load() (collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return emptyCollection(), nil
		}
		return collection{}, fmt.Errorf("read tracker file: %w", err)
	}

	if len(data) == 0 {
		return emptyCollection(), nil
	}

	var c collection
	if err := json.Unmarshal(data, &c); err != nil {
		return collection{}, fmt.Errorf("parse tracker file: %w", err)
	}
	if c.Documents == nil {
		c.Documents = map[string]Document{}
	}

	return c, nil
}

// save rewrites the whole collection atomically via a temp file rename.
func (s *store) save(c collection) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tracker file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create tracker directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tracker-*.json")
	if err != nil {
		return fmt.Errorf("write tracker file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write tracker file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write tracker file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace tracker file: %w", err)
	}

	return nil
}
