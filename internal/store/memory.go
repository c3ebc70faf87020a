package store

import (
	"context"
	"sync"

	"course-catalog-service/internal/domain"
)

// MemoryStore keeps interaction history in process memory. It is the default
// backend and the one used in tests; state is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	viewed    map[string][]string            // userID -> product ids, most recent first
	favorites map[string][]string            // userID -> product ids, insertion order
	favIndex  map[string]map[string]struct{} // userID -> set of favorited ids
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		viewed:    make(map[string][]string),
		favorites: make(map[string][]string),
		favIndex:  make(map[string]map[string]struct{}),
	}
}

// Seed loads a user's interaction lists from the catalog dataset account.
// Existing state for that user is replaced.
func (s *MemoryStore) Seed(user domain.User) {
	if user.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	viewed := append([]string(nil), user.ViewedProducts...)
	if len(viewed) > ViewedHistoryLimit {
		viewed = viewed[:ViewedHistoryLimit]
	}
	s.viewed[user.ID] = viewed

	s.favorites[user.ID] = nil
	s.favIndex[user.ID] = make(map[string]struct{})
	for _, id := range user.FavoriteProducts {
		if _, dup := s.favIndex[user.ID][id]; dup {
			continue
		}
		s.favIndex[user.ID][id] = struct{}{}
		s.favorites[user.ID] = append(s.favorites[user.ID], id)
	}
}

// GetViewedIDs returns a copy of the user's viewed list; unknown users get an
// empty list, never an error.
func (s *MemoryStore) GetViewedIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.viewed[userID]...), nil
}

// GetFavoriteIDs returns a copy of the user's favorites; unknown users get an
// empty list, never an error.
func (s *MemoryStore) GetFavoriteIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.favorites[userID]...), nil
}

// RecordView moves productID to the front of the viewed list and truncates
// to ViewedHistoryLimit.
func (s *MemoryStore) RecordView(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, ViewedHistoryLimit)
	next = append(next, productID)
	for _, id := range s.viewed[userID] {
		if id == productID {
			continue
		}
		next = append(next, id)
		if len(next) == ViewedHistoryLimit {
			break
		}
	}
	s.viewed[userID] = next
	return nil
}

// ToggleFavorite flips the favorite state and reports the new state.
func (s *MemoryStore) ToggleFavorite(_ context.Context, userID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.favIndex[userID]
	if !ok {
		idx = make(map[string]struct{})
		s.favIndex[userID] = idx
	}

	if _, favorited := idx[productID]; favorited {
		delete(idx, productID)
		list := s.favorites[userID]
		for i, id := range list {
			if id == productID {
				s.favorites[userID] = append(list[:i], list[i+1:]...)
				break
			}
		}
		return false, nil
	}

	idx[productID] = struct{}{}
	s.favorites[userID] = append(s.favorites[userID], productID)
	return true, nil
}
