// Package memory keeps profiles in process memory. It backs dry-run imports
// and tests; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/duynhne/directory-service/internal/core/domain"
	"github.com/google/uuid"
)

// ProfileRepository implements domain.ProfileRepository over a map.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
	// uniqueEmail mirrors the storage unique index of the real backends.
	uniqueEmail bool
	now         func() time.Time
}

// NewProfileRepository returns an empty repository.
func NewProfileRepository(uniqueEmail bool) *ProfileRepository {
	return &ProfileRepository{
		profiles:    make(map[string]domain.Profile),
		uniqueEmail: uniqueEmail,
		now:         time.Now,
	}
}

func (r *ProfileRepository) List(_ context.Context, q domain.ListQuery) ([]domain.Profile, int64, error) {
	r.mu.RLock()
	matched := make([]domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		if q.Predicate.Matches(&p) {
			matched = append(matched, clone(p))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := min(max(q.Skip(), 0), len(matched))
	end := start + q.Limit
	if q.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("repository/memory/GetByID: %w", domain.ErrProfileNotFound)
	}
	out := clone(p)
	return &out, nil
}

func (r *ProfileRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTaken(email, ""), nil
}

func (r *ProfileRepository) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.uniqueEmail && p.Email != "" && r.emailTaken(p.Email, "") {
		return nil, fmt.Errorf("repository/memory/Create: %w", domain.ErrEmailTaken)
	}

	created := clone(*p)
	created.ID = uuid.NewString()
	if created.Work == nil {
		created.Work = []string{}
	}
	now := r.tick()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.profiles[created.ID] = created
	out := clone(created)
	return &out, nil
}

func (r *ProfileRepository) Update(_ context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("repository/memory/Update: %w", domain.ErrProfileNotFound)
	}
	if r.uniqueEmail && upd.Email != nil && *upd.Email != "" && r.emailTaken(*upd.Email, id) {
		return nil, fmt.Errorf("repository/memory/Update: %w", domain.ErrEmailTaken)
	}

	upd.Apply(&p)
	p.UpdatedAt = r.tick()
	r.profiles[id] = p

	out := clone(p)
	return &out, nil
}

func (r *ProfileRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[id]; !ok {
		return fmt.Errorf("repository/memory/Delete: %w", domain.ErrProfileNotFound)
	}
	delete(r.profiles, id)
	return nil
}

func (r *ProfileRepository) WorkTypes(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range r.profiles {
		for _, w := range p.Work {
			if w != "" {
				seen[w] = struct{}{}
			}
		}
	}

	types := make([]string, 0, len(seen))
	for w := range seen {
		types = append(types, w)
	}
	sort.Strings(types)
	return types, nil
}

// Len returns the number of stored profiles.
func (r *ProfileRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

func (r *ProfileRepository) emailTaken(email, exceptID string) bool {
	for id, p := range r.profiles {
		if id != exceptID && p.Email == email {
			return true
		}
	}
	return false
}

// tick returns a timestamp strictly after every earlier one so newest-first
// ordering is deterministic even within one clock tick.
func (r *ProfileRepository) tick() time.Time {
	now := r.now().UTC()
	for _, p := range r.profiles {
		if !now.After(p.CreatedAt) {
			now = p.CreatedAt.Add(time.Nanosecond)
		}
		if !now.After(p.UpdatedAt) {
			now = p.UpdatedAt.Add(time.Nanosecond)
		}
	}
	return now
}

func clone(p domain.Profile) domain.Profile {
	p.Work = append([]string{}, p.Work...)
	return p
}
