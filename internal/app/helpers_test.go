package app_test

import (
	"testing"

	"guest_reviews/internal/adapters/hostaway"
	"guest_reviews/internal/domain"
)

func pfloat(f float64) *float64 { return &f }

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func mockRaw(t *testing.T) []domain.RawReview {
	t.Helper()
	items := hostaway.MockReviews()
	if len(items) == 0 {
		t.Fatalf("bundled mock dataset is empty")
	}
	return items
}
