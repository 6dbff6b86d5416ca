package roster

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/game/character"
)

// Store persists characters. Implementations live in the storage packages.
type Store interface {
	// GetByName returns the stored character or an error wrapping
	// character.ErrNotFound.
	GetByName(ctx context.Context, name string) (*character.Character, error)
	// Save inserts or updates c, keyed by name.
	Save(ctx context.Context, c *character.Character) error
}

// DefaultSaveInterval is the retry cadence for snapshots whose save failed.
const DefaultSaveInterval = 2 * time.Second

// Saver writes character snapshots to a Store in the background. Enqueue
// never blocks; a newer snapshot of the same character replaces an unsaved
// older one.
type Saver struct {
	store    Store
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	pending map[string]*character.Character
	wake    chan struct{}
}

// NewSaver creates a Saver writing to store.
//
// Precondition: store and logger must be non-nil.
// Postcondition: interval <= 0 is replaced by DefaultSaveInterval.
func NewSaver(store Store, logger *zap.Logger, interval time.Duration) *Saver {
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	return &Saver{
		store:    store,
		logger:   logger,
		interval: interval,
		pending:  make(map[string]*character.Character),
		wake:     make(chan struct{}, 1),
	}
}

// Enqueue snapshots c for saving.
//
// Precondition: the caller holds c's lock.
// Postcondition: returns without performing I/O.
func (s *Saver) Enqueue(c *character.Character) {
	snap := c.Clone()
	snap.Combat = nil

	s.mu.Lock()
	s.pending[snap.Name] = snap
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of snapshots waiting to be written.
func (s *Saver) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Run writes snapshots until ctx is cancelled, then flushes what remains.
//
// Postcondition: returns nil once ctx is done and the final flush is attempted.
func (s *Saver) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			s.Flush(flushCtx)
			cancel()
			return nil
		case <-s.wake:
			s.Flush(ctx)
		case <-ticker.C:
			s.Flush(ctx)
		}
	}
}

// Flush writes every pending snapshot once. Failed snapshots are kept for
// the next flush unless a newer snapshot has replaced them.
func (s *Saver) Flush(ctx context.Context) {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]*character.Character, len(batch))
	s.mu.Unlock()

	for name, snap := range batch {
		if err := s.store.Save(ctx, snap); err != nil {
			s.logger.Warn("saving character",
				zap.String("character", name),
				zap.Error(err),
			)
			s.mu.Lock()
			if _, newer := s.pending[name]; !newer {
				s.pending[name] = snap
			}
			s.mu.Unlock()
		}
	}
}
