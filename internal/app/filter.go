package app

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"guest_reviews/internal/domain"
)

// Criteria are conjunctive; zero values are no-ops.
type Criteria struct {
	Listing      string // matches listingSlug or listingName exactly
	MinRating    *float64
	Start, End   *time.Time
	ApprovedOnly bool
}

// ParseCriteria reads the inbound query parameters listing, minRating, start, end and approved.
func ParseCriteria(q url.Values) (Criteria, error) {
	c := Criteria{
		Listing:      strings.TrimSpace(q.Get("listing")),
		ApprovedOnly: q.Get("approved") == "true",
	}
	if v := strings.TrimSpace(q.Get("minRating")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: minRating must be a number", domain.ErrInvalidPayload)
		}
		c.MinRating = &f
	}
	var err error
	if c.Start, err = parseBound("start", q.Get("start")); err != nil {
		return Criteria{}, err
	}
	if c.End, err = parseBound("end", q.Get("end")); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func parseBound(name, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be an ISO date", domain.ErrInvalidPayload, name)
}

// Filter narrows reviews by c and orders the result newest first. The sort is stable,
// so equal timestamps keep their input order. The input slice is not modified.
func Filter(reviews []domain.NormalizedReview, c Criteria) []domain.NormalizedReview {
	var start, end string
	if c.Start != nil {
		start = c.Start.UTC().Format(ISOLayout)
	}
	if c.End != nil {
		end = c.End.UTC().Format(ISOLayout)
	}

	out := make([]domain.NormalizedReview, 0, len(reviews))
	for _, r := range reviews {
		if c.Listing != "" && r.ListingSlug != c.Listing && derefStr(r.ListingName) != c.Listing {
			continue
		}
		if c.MinRating != nil && derefF64(r.Rating) < *c.MinRating {
			continue
		}
		// fixed-width ISO strings compare lexicographically in time order
		if start != "" && r.SubmittedAt < start {
			continue
		}
		if end != "" && r.SubmittedAt > end {
			continue
		}
		if c.ApprovedOnly && !r.Approved {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt > out[j].SubmittedAt })
	return out
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefF64(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
