package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"guest_reviews/internal/domain"
)

// ReviewService runs provider -> normalizer -> filter -> aggregator on every read.
// Nothing is cached between calls.
type ReviewService struct {
	provider  domain.ReviewProvider
	norm      *Normalizer
	approvals domain.ApprovalStore
}

func NewReviewService(p domain.ReviewProvider, approvals domain.ApprovalStore, sanitizer domain.TextSanitizer) *ReviewService {
	return &ReviewService{provider: p, norm: NewNormalizer(approvals, sanitizer), approvals: approvals}
}

func (s *ReviewService) load(ctx context.Context) ([]domain.NormalizedReview, domain.Source) {
	res := s.provider.GetReviews(ctx)
	if res.Source == domain.SourceMock {
		log.Debug().Int("records", len(res.Items)).Msg("serving bundled mock reviews")
	}
	return s.norm.Normalize(ctx, res.Items), res.Source
}

func (s *ReviewService) ListReviews(ctx context.Context, c Criteria) domain.ReviewsResult {
	all, src := s.load(ctx)
	return domain.ReviewsResult{Source: src, Items: Filter(all, c)}
}

// ListProperties aggregates over the full, unfiltered review set.
func (s *ReviewService) ListProperties(ctx context.Context) domain.PropertiesResult {
	all, src := s.load(ctx)
	return domain.PropertiesResult{Source: src, Items: Aggregate(all)}
}

// PropertyReviews returns what a public property page shows: approved reviews only.
func (s *ReviewService) PropertyReviews(ctx context.Context, slug string) domain.PropertyPage {
	all, src := s.load(ctx)
	items := Filter(all, Criteria{Listing: slug, ApprovedOnly: true})
	name := slug
	if len(items) > 0 && items[0].ListingName != nil {
		name = *items[0].ListingName
	}
	return domain.PropertyPage{Source: src, Slug: slug, ListingName: name, Items: items}
}

func (s *ReviewService) Insights(ctx context.Context) domain.InsightsResult {
	all, src := s.load(ctx)
	return domain.InsightsResult{Source: src, Insights: Summarize(all)}
}

// SetApproval commits a manager decision. Store outages are absorbed by the approval store.
func (s *ReviewService) SetApproval(ctx context.Context, id string, approved bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidPayload)
	}
	tier := s.approvals.SetApproved(ctx, id, approved)
	log.Info().Str("id", id).Bool("approved", approved).Str("tier", string(tier)).Msg("review approval updated")
	return nil
}
