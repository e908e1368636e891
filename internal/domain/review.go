package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Channel string

const ChannelHostaway Channel = "hostaway"

// RawID accepts both numeric and string ids from the provider and keeps them in string form.
type RawID string

func (id *RawID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RawID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	// integral floats (e.g. 7453.0) collapse to their integer form
	if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
		*id = RawID(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*id = RawID(n.String())
	return nil
}

func (id RawID) String() string { return string(id) }

type RawCategory struct {
	Category string   `json:"category"`
	Rating   *float64 `json:"rating"`
}

// RawReview is a Hostaway review record as delivered by the API or the bundled mock.
type RawReview struct {
	ID             RawID         `json:"id"`
	Type           string        `json:"type"`
	Status         string        `json:"status"`
	Rating         *float64      `json:"rating"`
	PublicReview   string        `json:"publicReview"`
	ReviewCategory []RawCategory `json:"reviewCategory"`
	SubmittedAt    string        `json:"submittedAt"` // "YYYY-MM-DD HH:MM:SS", no zone
	GuestName      string        `json:"guestName"`
	ListingName    string        `json:"listingName"`
}

type NormalizedReview struct {
	ID          string             `json:"id"`
	Channel     Channel            `json:"channel"`
	Type        string             `json:"type"`
	Status      string             `json:"status"`
	Rating      *float64           `json:"rating"`
	Categories  map[string]float64 `json:"categories"`
	SubmittedAt string             `json:"submittedAt"`
	YearMonth   string             `json:"yearMonth"`
	GuestName   *string            `json:"guestName"`
	ListingName *string            `json:"listingName"`
	ListingSlug string             `json:"listingSlug"`
	Text        string             `json:"text"`
	Approved    bool               `json:"approved"`
}

// ApprovalSet holds the ids a manager has approved; absence means pending.
type ApprovalSet map[string]struct{}

func NewApprovalSet(ids ...string) ApprovalSet {
	s := make(ApprovalSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ApprovalSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
