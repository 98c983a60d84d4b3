package repository

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/gpa-calculator/internal/models"
	appErrors "github.com/noah-isme/gpa-calculator/pkg/errors"
)

type memoryEntry struct {
	session   *models.Session
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process memory. Expired sessions are
// dropped lazily on access and swept on every write.
type MemorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemorySessionRepository constructs an empty in-memory store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns a copy of the stored session.
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	if r.expired(entry) {
		delete(r.entries, id)
		return nil, appErrors.ErrSessionNotFound
	}
	return entry.session.Clone(), nil
}

// Save stores a copy of the session. A non-positive ttl never expires.
func (r *MemorySessionRepository) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()
	entry := memoryEntry{session: session.Clone()}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.entries[session.ID] = entry
	return nil
}

// Delete removes the session if present.
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
	return nil
}

// Len returns the number of live sessions.
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()
	return len(r.entries)
}

func (r *MemorySessionRepository) sweep() {
	for id, entry := range r.entries {
		if r.expired(entry) {
			delete(r.entries, id)
		}
	}
}

func (r *MemorySessionRepository) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt)
}
