package app

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"guest_reviews/internal/domain"
)

// ISOLayout is the fixed-width UTC form of submittedAt, so string order is time order.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// provider timestamps are naive and read as UTC; the extra layouts cover exports that
// already carry a zone or drop the time part
var submittedLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02",
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, collapses every run of characters outside [a-z0-9] into one hyphen
// and trims hyphens from both ends.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// ParseSubmittedAt renders a provider timestamp as ISO-8601 UTC.
func ParseSubmittedAt(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range submittedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC().Format(ISOLayout), true
		}
	}
	return "", false
}

type Normalizer struct {
	approvals domain.ApprovalStore
	sanitizer domain.TextSanitizer // optional
	channel   domain.Channel
}

func NewNormalizer(approvals domain.ApprovalStore, sanitizer domain.TextSanitizer) *Normalizer {
	return &Normalizer{approvals: approvals, sanitizer: sanitizer, channel: domain.ChannelHostaway}
}

// Normalize maps raw records to the canonical shape. The approval store is read once per
// batch. Output order follows input order and carries no meaning.
//
// A record whose timestamp cannot be parsed keeps an empty submittedAt and yearMonth:
// it still counts towards its property but sorts last and joins no trend bucket.
func (n *Normalizer) Normalize(ctx context.Context, items []domain.RawReview) []domain.NormalizedReview {
	out := make([]domain.NormalizedReview, 0, len(items))
	if len(items) == 0 {
		return out
	}
	approved, tier := n.approvals.ApprovedIDs(ctx)
	log.Debug().Str("tier", string(tier)).Int("approved", len(approved)).Int("records", len(items)).Msg("normalizing reviews")

	for _, r := range items {
		id := r.ID.String()

		categories := make(map[string]float64, len(r.ReviewCategory))
		for _, c := range r.ReviewCategory {
			if c.Category != "" && c.Rating != nil {
				categories[c.Category] = *c.Rating
			}
		}

		iso, ok := ParseSubmittedAt(r.SubmittedAt)
		if !ok {
			log.Warn().Str("id", id).Str("submittedAt", r.SubmittedAt).Msg("unparseable review timestamp")
		}
		yearMonth := ""
		if len(iso) >= 7 {
			yearMonth = iso[:7]
		}

		text := r.PublicReview
		if n.sanitizer != nil {
			text = n.sanitizer.Sanitize(text)
		}

		out = append(out, domain.NormalizedReview{
			ID:          id,
			Channel:     n.channel,
			Type:        r.Type,
			Status:      r.Status,
			Rating:      r.Rating,
			Categories:  categories,
			SubmittedAt: iso,
			YearMonth:   yearMonth,
			GuestName:   ptrStr(r.GuestName),
			ListingName: ptrStr(r.ListingName),
			ListingSlug: Slugify(r.ListingName),
			Text:        text,
			Approved:    approved.Has(id),
		})
	}
	return out
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
