package memory

import (
	"sync"

	"guest_reviews/internal/domain"
)

// ApprovalSet is the volatile approval fallback. It lives for the process and resets on restart.
type ApprovalSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewApprovalSet() *ApprovalSet {
	return &ApprovalSet{ids: map[string]struct{}{}}
}

// Snapshot returns a copy so callers can't mutate the fallback through it.
func (s *ApprovalSet) Snapshot() domain.ApprovalSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.ApprovalSet, len(s.ids))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}

func (s *ApprovalSet) Set(id string, approved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if approved {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
}

func (s *ApprovalSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
