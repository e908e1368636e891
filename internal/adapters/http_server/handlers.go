// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"guest_reviews/internal/app"
	"guest_reviews/internal/domain"
)

type Handlers struct{ Reviews *app.ReviewService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type reviewsResponse struct {
	Status string                    `json:"status"`
	Source domain.Source             `json:"source"`
	Result []domain.NormalizedReview `json:"result"`
}

type propertiesResponse struct {
	Status string                     `json:"status"`
	Source domain.Source              `json:"source"`
	Result []domain.PropertyAggregate `json:"result"`
}

type propertyPageResponse struct {
	Status      string                    `json:"status"`
	Source      domain.Source             `json:"source"`
	ListingSlug string                    `json:"listingSlug"`
	ListingName string                    `json:"listingName"`
	Result      []domain.NormalizedReview `json:"result"`
}

type insightsResponse struct {
	Status string          `json:"status"`
	Source domain.Source   `json:"source"`
	Result domain.Insights `json:"result"`
}

type approveRequest struct {
	ID       domain.RawID `json:"id"`
	Approved *bool        `json:"approved"`
}

func (r approveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required.Error("id is required")),
		validation.Field(&r.Approved, validation.NotNil.Error("approved must be a boolean")),
	)
}

type approveResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/reviews/hostaway", h.listReviews)
		r.Post("/reviews/approve", h.approve)
		r.Get("/properties", h.listProperties)
		r.Get("/properties/{slug}/reviews", h.propertyReviews)
		r.Get("/insights", h.insights)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached serves v with a weak ETag and honours If-None-Match. Clients must revalidate
// every time because approvals can change between requests.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to encode response")
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	c, err := app.ParseCriteria(r.URL.Query())
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}
	out := h.Reviews.ListReviews(r.Context(), c)
	writeCached(w, r, reviewsResponse{Status: "success", Source: out.Source, Result: out.Items})
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	out := h.Reviews.ListProperties(r.Context())
	writeCached(w, r, propertiesResponse{Status: "success", Source: out.Source, Result: out.Items})
}

func (h *Handlers) propertyReviews(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page := h.Reviews.PropertyReviews(r.Context(), slug)
	writeCached(w, r, propertyPageResponse{
		Status:      "success",
		Source:      page.Source,
		ListingSlug: page.Slug,
		ListingName: page.ListingName,
		Result:      page.Items,
	})
}

func (h *Handlers) insights(w http.ResponseWriter, r *http.Request) {
	out := h.Reviews.Insights(r.Context())
	writeCached(w, r, insightsResponse{Status: "success", Source: out.Source, Result: out.Insights})
}

func (h *Handlers) approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		log.Debug().Err(err).Msg("approve: undecodable payload")
		writeJSON(w, http.StatusBadRequest, approveResponse{OK: false, Error: "Invalid payload"})
		return
	}
	if err := req.Validate(); err != nil {
		log.Debug().Err(err).Msg("approve: invalid payload")
		writeJSON(w, http.StatusBadRequest, approveResponse{OK: false, Error: "Invalid payload"})
		return
	}
	if err := h.Reviews.SetApproval(r.Context(), req.ID.String(), *req.Approved); err != nil {
		if errors.Is(err, domain.ErrInvalidPayload) {
			writeJSON(w, http.StatusBadRequest, approveResponse{OK: false, Error: "Invalid payload"})
			return
		}
		log.Error().Err(err).Msg("approve failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "approval failed")
		return
	}
	writeJSON(w, http.StatusOK, approveResponse{OK: true})
}
