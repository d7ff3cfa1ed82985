package upload

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"time"
)

// ReferenceSource lists every stored path still referenced by a record.
type ReferenceSource interface {
	ReferencedUploads(ctx context.Context) ([]string, error)
}

// Sweeper deletes files no movie, genre or user points at, once they are
// older than the grace period. Fresh files are kept so an upload whose record
// is still being written is not lost.
type Sweeper struct {
	store *Store
	refs  ReferenceSource
	grace time.Duration
	now   func() time.Time
}

// NewSweeper creates a sweeper with validation and defaults
func NewSweeper(store *Store, refs ReferenceSource, gracePeriod string) (*Sweeper, error) {
	grace := time.Hour
	if gracePeriod != "" {
		d, err := time.ParseDuration(gracePeriod)
		if err != nil {
			return nil, fmt.Errorf("invalid upload grace period '%s': %v", gracePeriod, err)
		}
		grace = d
	}

	return &Sweeper{
		store: store,
		refs:  refs,
		grace: grace,
		now:   time.Now,
	}, nil
}

// Sweep removes orphaned files and reports how many it deleted.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	referenced, err := s.refs.ReferencedUploads(ctx)
	if err != nil {
		return 0, err
	}

	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		keep[path.Base(p)] = struct{}{}
	}

	entries, err := os.ReadDir(s.store.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list upload directory: %w", err)
	}

	removed := 0
	cutoff := s.now().Add(-s.grace)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := s.store.Remove(entry.Name()); err != nil {
			s.store.logger.Warn(err.Error())
			continue
		}
		removed++
	}

	if removed > 0 {
		s.store.logger.Info("Removed " + strconv.Itoa(removed) + " orphaned uploads")
	}
	return removed, nil
}

// Run adapts Sweep to the scheduled job signature.
func (s *Sweeper) Run(ctx context.Context) error {
	_, err := s.Sweep(ctx)
	return err
}
