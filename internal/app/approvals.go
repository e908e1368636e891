package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"guest_reviews/internal/adapters/memory"
	"guest_reviews/internal/adapters/observability"
	"guest_reviews/internal/domain"
)

// ApprovalService implements domain.ApprovalStore on top of an optional durable backend
// and a process-scoped volatile set. Backend failures are logged and absorbed.
type ApprovalService struct {
	remote domain.ApprovalBackend // nil: memory only
	local  *memory.ApprovalSet
}

func NewApprovalService(remote domain.ApprovalBackend, local *memory.ApprovalSet) *ApprovalService {
	if local == nil {
		local = memory.NewApprovalSet()
	}
	return &ApprovalService{remote: remote, local: local}
}

func (s *ApprovalService) ApprovedIDs(ctx context.Context) (domain.ApprovalSet, domain.StoreTier) {
	if s.remote == nil {
		return s.local.Snapshot(), domain.TierMemory
	}
	ids, err := s.remote.Members(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("approval backend read failed, serving in-memory set")
		observability.ObserveFallback("memory", "members")
		return s.local.Snapshot(), domain.TierMemory
	}
	return domain.NewApprovalSet(ids...), domain.TierRemote
}

func (s *ApprovalService) SetApproved(ctx context.Context, id string, approved bool) domain.StoreTier {
	if s.remote != nil {
		var err error
		if approved {
			err = s.remote.Add(ctx, id)
		} else {
			err = s.remote.Remove(ctx, id)
		}
		if err == nil {
			return domain.TierRemote
		}
		// not durable: reverts on restart
		log.Warn().Err(err).Str("id", id).Bool("approved", approved).
			Msg("approval backend write failed, updating in-memory set")
		observability.ObserveFallback("memory", "write")
	}
	s.local.Set(id, approved)
	return domain.TierMemory
}
