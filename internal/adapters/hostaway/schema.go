package hostaway

import (
	"encoding/json"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"guest_reviews/internal/adapters/observability"
	"guest_reviews/internal/domain"
)

var errShape = errors.New("hostaway: unexpected payload shape")

func validateRecord(r domain.RawReview) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required.Error("id is required")),
		validation.Field(&r.SubmittedAt, validation.Required.Error("submittedAt is required")),
		validation.Field(&r.Rating, validation.Min(0.0), validation.Max(10.0)),
		validation.Field(&r.ReviewCategory, validation.Each(validation.By(validateCategory))),
	)
}

func validateCategory(v any) error {
	c, ok := v.(domain.RawCategory)
	if !ok {
		return errShape
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Category, validation.Required.Error("category label is required")),
		validation.Field(&c.Rating, validation.Min(0.0), validation.Max(10.0)),
	)
}

// decodeRecords keeps every record that decodes and validates; the rest are logged and counted.
func decodeRecords(raw []json.RawMessage) []domain.RawReview {
	out := make([]domain.RawReview, 0, len(raw))
	for i, msg := range raw {
		var r domain.RawReview
		if err := json.Unmarshal(msg, &r); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping undecodable review record")
			observability.ObserveSkipped("decode")
			continue
		}
		if err := validateRecord(r); err != nil {
			log.Warn().Err(err).Int("index", i).Str("id", r.ID.String()).Msg("skipping invalid review record")
			observability.ObserveSkipped("invalid")
			continue
		}
		out = append(out, r)
	}
	return out
}
