package hostaway

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"guest_reviews/internal/adapters/observability"
	"guest_reviews/internal/domain"
)

//go:embed mock_reviews.json
var mockPayload []byte

type liveFetcher interface {
	Reviews(ctx context.Context) ([]domain.RawReview, error)
}

// Source is the two-tier review provider: one live attempt, then the bundled mock.
type Source struct {
	live liveFetcher // nil: mock only
	mock []byte
}

func NewSource(live liveFetcher) *Source {
	return &Source{live: live, mock: mockPayload}
}

// NewSourceWithMock swaps the bundled dataset; used by tests and demos.
func NewSourceWithMock(live liveFetcher, mock []byte) *Source {
	return &Source{live: live, mock: mock}
}

// FetchLive never fails: any error is logged and yields an empty list.
func (s *Source) FetchLive(ctx context.Context) []domain.RawReview {
	if s.live == nil {
		return nil
	}
	items, err := s.live.Reviews(ctx)
	if err != nil {
		ev := log.Warn()
		if errors.Is(err, domain.ErrNoCredentials) {
			ev = log.Debug()
		}
		ev.Err(err).Msg("live review fetch unavailable")
		return nil
	}
	return items
}

// FetchMock returns the bundled dataset's result array, or nothing if its shape is off.
func (s *Source) FetchMock() []domain.RawReview {
	var env envelope
	if err := json.Unmarshal(s.mock, &env); err != nil {
		log.Error().Err(err).Msg("mock review dataset is malformed")
		return nil
	}
	return decodeRecords(env.Result)
}

func (s *Source) GetReviews(ctx context.Context) domain.ProviderResult {
	if live := s.FetchLive(ctx); len(live) > 0 {
		observability.ObserveSource(string(domain.SourceLive))
		return domain.ProviderResult{Items: live, Source: domain.SourceLive}
	}
	observability.ObserveSource(string(domain.SourceMock))
	return domain.ProviderResult{Items: s.FetchMock(), Source: domain.SourceMock}
}

// MockReviews exposes the bundled dataset.
func MockReviews() []domain.RawReview {
	return NewSource(nil).FetchMock()
}
