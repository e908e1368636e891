package domain

import "context"

// Source tags which tier served a review read.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// StoreTier tags which tier served an approval read or write.
type StoreTier string

const (
	TierRemote StoreTier = "remote"
	TierMemory StoreTier = "memory"
)

// ApprovalBackend is a durable set of approved review ids (Redis set, MySQL table).
type ApprovalBackend interface {
	Members(ctx context.Context) ([]string, error)
	Add(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}

// ApprovalStore never fails its caller: backend errors degrade to the in-process set.
type ApprovalStore interface {
	ApprovedIDs(ctx context.Context) (ApprovalSet, StoreTier)
	SetApproved(ctx context.Context, id string, approved bool) StoreTier
}

type ProviderResult struct {
	Items  []RawReview
	Source Source
}

type ReviewProvider interface {
	GetReviews(ctx context.Context) ProviderResult
}

type TextSanitizer interface {
	Sanitize(s string) string
}

// Read models
type ReviewsResult struct {
	Source Source
	Items  []NormalizedReview
}

type PropertiesResult struct {
	Source Source
	Items  []PropertyAggregate
}

type PropertyPage struct {
	Source      Source
	Slug        string
	ListingName string
	Items       []NormalizedReview
}

type InsightsResult struct {
	Source   Source
	Insights Insights
}
