package domain

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// PropertyAggregate is derived on every read; it is never persisted.
type PropertyAggregate struct {
	ListingSlug   string   `json:"listingSlug"`
	ListingName   string   `json:"listingName"`
	AvgScore      *float64 `json:"avgScore"`
	ReviewCount   int      `json:"reviewCount"`
	ApprovedCount int      `json:"approvedCount"`
	Trend         Trend    `json:"trend"`
	TrendDelta    float64  `json:"trendDelta"`
}

type Insights struct {
	TotalReviews    int      `json:"totalReviews"`
	ApprovedReviews int      `json:"approvedReviews"`
	AvgScore        *float64 `json:"avgScore"`
	Properties      int      `json:"properties"`
}
