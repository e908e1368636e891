package app

import (
	"sort"

	"guest_reviews/internal/domain"
)

const (
	unknownListing = "unknown"
	trendWindow    = 3   // months per window
	trendThreshold = 0.2 // |delta| needed to leave flat
)

// Score is the review's overall rating, else the mean of its category scores.
// A review with neither has no score.
func Score(r domain.NormalizedReview) (float64, bool) {
	if r.Rating != nil {
		return *r.Rating, true
	}
	if len(r.Categories) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range r.Categories {
		sum += v
	}
	return sum / float64(len(r.Categories)), true
}

// ClassifyTrend maps a recent-minus-prior delta to up, down or flat.
func ClassifyTrend(delta float64) domain.Trend {
	switch {
	case delta > trendThreshold:
		return domain.TrendUp
	case delta < -trendThreshold:
		return domain.TrendDown
	default:
		return domain.TrendFlat
	}
}

type propertyGroup struct {
	slug    string
	name    string
	reviews []domain.NormalizedReview
}

// Aggregate builds one summary per listing slug, ordered by display name then slug.
// Empty input yields an empty, non-nil slice.
func Aggregate(reviews []domain.NormalizedReview) []domain.PropertyAggregate {
	groups := map[string]*propertyGroup{}
	var order []string
	for _, r := range reviews {
		key := r.ListingSlug
		if key == "" {
			key = unknownListing
		}
		g, ok := groups[key]
		if !ok {
			g = &propertyGroup{slug: key, name: key}
			if r.ListingName != nil && *r.ListingName != "" {
				g.name = *r.ListingName
			}
			groups[key] = g
			order = append(order, key)
		}
		g.reviews = append(g.reviews, r)
	}

	out := make([]domain.PropertyAggregate, 0, len(order))
	for _, key := range order {
		out = append(out, summarize(groups[key]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ListingName != out[j].ListingName {
			return out[i].ListingName < out[j].ListingName
		}
		return out[i].ListingSlug < out[j].ListingSlug
	})
	return out
}

func summarize(g *propertyGroup) domain.PropertyAggregate {
	agg := domain.PropertyAggregate{
		ListingSlug: g.slug,
		ListingName: g.name,
		ReviewCount: len(g.reviews),
	}

	var scores []float64
	months := map[string][]float64{}
	for _, r := range g.reviews {
		if r.Approved {
			agg.ApprovedCount++
		}
		s, ok := Score(r)
		if !ok {
			continue
		}
		scores = append(scores, s)
		if r.YearMonth != "" {
			months[r.YearMonth] = append(months[r.YearMonth], s)
		}
	}
	if m, ok := mean(scores); ok {
		agg.AvgScore = &m
	}

	agg.TrendDelta = trendDelta(months)
	agg.Trend = ClassifyTrend(agg.TrendDelta)
	return agg
}

// trendDelta compares the mean of the 3 most recent month means with the mean of the
// 3 before them. Fewer than 4 populated months gives 0.
func trendDelta(months map[string][]float64) float64 {
	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	bucketMeans := make([]float64, 0, len(keys))
	for _, k := range keys {
		m, _ := mean(months[k])
		bucketMeans = append(bucketMeans, m)
	}

	if len(bucketMeans) <= trendWindow {
		return 0
	}
	recent, _ := mean(bucketMeans[:trendWindow])
	prior, _ := mean(bucketMeans[trendWindow:min(len(bucketMeans), 2*trendWindow)])
	return recent - prior
}

// Summarize computes dashboard totals over the given reviews. The average runs over
// every review; one without a rating or categories counts as 0.
func Summarize(reviews []domain.NormalizedReview) domain.Insights {
	in := domain.Insights{TotalReviews: len(reviews)}
	slugs := map[string]struct{}{}
	scores := make([]float64, 0, len(reviews))
	for _, r := range reviews {
		if r.Approved {
			in.ApprovedReviews++
		}
		key := r.ListingSlug
		if key == "" {
			key = unknownListing
		}
		slugs[key] = struct{}{}
		s, _ := Score(r)
		scores = append(scores, s)
	}
	if m, ok := mean(scores); ok {
		in.AvgScore = &m
	}
	in.Properties = len(slugs)
	return in
}

func mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), true
}
