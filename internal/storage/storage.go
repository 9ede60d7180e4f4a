package storage

import (
	"sync"
	"time"

	"github.com/hyperconf/hyperconf/internal/termconfig"
)

// Snapshot is a committed configuration together with its revision metadata.
type Snapshot struct {
	Config    termconfig.Configuration
	Revision  uint64
	UpdatedAt time.Time
}

// Storage provides access to the configuration currently handed to the host.
type Storage interface {
	Current() Snapshot
	Replace(cfg termconfig.Configuration) Snapshot
}

// MemoryStorage keeps the current configuration in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	current  termconfig.Configuration
	revision uint64
	updated  time.Time

	clock func() time.Time
}

// Option configures MemoryStorage.
type Option func(*MemoryStorage)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *MemoryStorage) {
		s.clock = clock
	}
}

// NewMemoryStorage initialises storage with the default configuration at revision 0.
func NewMemoryStorage(opts ...Option) *MemoryStorage {
	s := &MemoryStorage{
		current: termconfig.Defaults(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.updated = s.clock()
	return s
}

// Current returns a defensive copy of the committed configuration.
func (s *MemoryStorage) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Config:    s.current.Clone(),
		Revision:  s.revision,
		UpdatedAt: s.updated,
	}
}

// Replace commits a copy of cfg as the new configuration and bumps the revision.
func (s *MemoryStorage) Replace(cfg termconfig.Configuration) Snapshot {
	cfg = cfg.Clone()
	now := s.clock()

	s.mu.Lock()
	s.current = cfg
	s.revision++
	s.updated = now
	snap := Snapshot{Config: cfg.Clone(), Revision: s.revision, UpdatedAt: now}
	s.mu.Unlock()

	return snap
}
