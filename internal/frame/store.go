package frame

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Fetch for references the store does not hold.
var ErrNotFound = errors.New("frame not found")

// Store moves frames between executors by reference.
//
// Fetch with an empty reference returns (nil, nil): the absent image. Put with a
// nil frame returns an empty reference, so an absent image round-trips as absent.
type Store interface {
	Fetch(ctx context.Context, ref string) (*Frame, error)
	Put(ctx context.Context, f *Frame, owner string) (string, error)
}

// NewRef builds a fresh reference for a frame owned by owner.
func NewRef(prefix, owner string) string {
	if owner == "" {
		owner = "anonymous"
	}
	return fmt.Sprintf("%s:%s:%s", prefix, owner, uuid.New().String())
}

// Evicter is implemented by stores that can drop a frame before it expires.
type Evicter interface {
	Evict(ctx context.Context, ref string) error
}

type memoryEntry struct {
	frame  *Frame
	stored time.Time
}

// MemoryStore keeps frames in process memory.
//
// Frames are cloned on the way in and on the way out, so callers never share
// pixel buffers with each other or with the store. MemoryStore is safe for
// concurrent use.
//
// With a TTL, a frame older than the TTL is gone: Fetch reports ErrNotFound
// for it and the next Put sweeps it out. Without one, frames stay until
// evicted.
type MemoryStore struct {
	mu     sync.RWMutex
	frames map[string]memoryEntry
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory store whose frames never expire.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithTTL(0)
}

// NewMemoryStoreWithTTL creates an empty in-memory store whose frames expire
// ttl after they were stored. Zero or negative ttl disables expiry.
func NewMemoryStoreWithTTL(ttl time.Duration) *MemoryStore {
	if ttl < 0 {
		ttl = 0
	}
	return &MemoryStore{
		frames: make(map[string]memoryEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *MemoryStore) expired(e memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.stored) >= s.ttl
}

// Fetch returns a copy of the frame stored under ref.
func (s *MemoryStore) Fetch(ctx context.Context, ref string) (*Frame, error) {
	if ref == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.frames[ref]
	s.mu.RUnlock()
	if ok && s.expired(e, s.now()) {
		s.mu.Lock()
		delete(s.frames, ref)
		s.mu.Unlock()
		ok = false
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return e.frame.Clone(), nil
}

// Put stores a copy of f and returns its new reference. Expired frames are
// removed first.
func (s *MemoryStore) Put(ctx context.Context, f *Frame, owner string) (string, error) {
	if f == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := f.Validate(); err != nil {
		return "", err
	}

	ref := NewRef("mem", owner)
	clone := f.Clone()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl > 0 {
		for r, e := range s.frames {
			if s.expired(e, now) {
				delete(s.frames, r)
			}
		}
	}
	s.frames[ref] = memoryEntry{frame: clone, stored: now}
	return ref, nil
}

// Evict removes a single frame. Unknown references are ignored.
func (s *MemoryStore) Evict(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.frames, ref)
	s.mu.Unlock()
	return nil
}

// Len returns the number of frames held, expired ones not yet swept included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

var (
	_ Store   = (*MemoryStore)(nil)
	_ Evicter = (*MemoryStore)(nil)
)
