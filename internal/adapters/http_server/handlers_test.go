package httpserver

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guest_reviews/internal/adapters/memory"
	"guest_reviews/internal/adapters/sanitize"
	"guest_reviews/internal/app"
	"guest_reviews/internal/domain"
)

type fakeProvider struct{ items []domain.RawReview }

func (f fakeProvider) GetReviews(context.Context) domain.ProviderResult {
	return domain.ProviderResult{Items: f.items, Source: domain.SourceMock}
}

func pf(f float64) *float64 { return &f }

func newTestServer(t *testing.T, local *memory.ApprovalSet) *httptest.Server {
	t.Helper()
	items := []domain.RawReview{
		{ID: "1", Type: "guest-to-host", Status: "published", Rating: pf(9), PublicReview: "<b>Great</b> stay",
			SubmittedAt: "2024-05-01 10:00:00", GuestName: "Ann", ListingName: "Sea View Loft"},
		{ID: "2", Type: "guest-to-host", Status: "published", Rating: pf(6),
			SubmittedAt: "2024-06-01 10:00:00", GuestName: "Bob", ListingName: "Sea View Loft"},
		{ID: "3", Type: "guest-to-host", Status: "published", Rating: pf(8),
			SubmittedAt: "2024-04-01 10:00:00", GuestName: "Cy", ListingName: "Garden Flat"},
	}
	svc := app.NewReviewService(fakeProvider{items: items}, app.NewApprovalService(nil, local), sanitize.NewPlainText())
	s := New()
	s.MountHandlers(&Handlers{Reviews: svc})
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, res *http.Response, v any) {
	t.Helper()
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("content-type %q", ct)
	}
}

func TestListReviews_EnvelopeAndOrder(t *testing.T) {
	ts := newTestServer(t, nil)
	res, err := http.Get(ts.URL + "/api/reviews/hostaway")
	if err != nil {
		t.Fatal(err)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type %q", ct)
	}
	if res.Header.Get("ETag") == "" {
		t.Fatal("missing ETag")
	}
	var body reviewsResponse
	decode(t, res, &body)
	if body.Status != "success" || body.Source != domain.SourceMock {
		t.Fatalf("envelope: %+v", body)
	}
	if len(body.Result) != 3 || body.Result[0].ID != "2" || body.Result[2].ID != "3" {
		t.Fatalf("order: %+v", body.Result)
	}
	for _, r := range body.Result {
		if r.ID == "1" && r.Text != "Great stay" {
			t.Fatalf("text not sanitized: %q", r.Text)
		}
	}
}

func TestListReviews_Filters(t *testing.T) {
	ts := newTestServer(t, nil)
	res, err := http.Get(ts.URL + "/api/reviews/hostaway?listing=sea-view-loft&minRating=8")
	if err != nil {
		t.Fatal(err)
	}
	var body reviewsResponse
	decode(t, res, &body)
	if len(body.Result) != 1 || body.Result[0].ID != "1" {
		t.Fatalf("filtered: %+v", body.Result)
	}
}

func TestListReviews_InvalidQuery(t *testing.T) {
	ts := newTestServer(t, nil)
	for _, q := range []string{"minRating=abc", "start=yesterday", "end=2024-13-45"} {
		res, err := http.Get(ts.URL + "/api/reviews/hostaway?" + q)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status %d", q, res.StatusCode)
		}
		if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("%s: content-type %q", q, ct)
		}
	}
}

func TestListReviews_NotModified(t *testing.T) {
	ts := newTestServer(t, nil)
	res, err := http.Get(ts.URL + "/api/reviews/hostaway")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	etag := res.Header.Get("ETag")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/reviews/hostaway", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("status %d", res2.StatusCode)
	}
}

func TestApprove(t *testing.T) {
	local := memory.NewApprovalSet()
	ts := newTestServer(t, local)

	cases := []struct {
		name   string
		body   string
		status int
		ok     bool
	}{
		{"numeric id", `{"id":1,"approved":true}`, http.StatusOK, true},
		{"string id", `{"id":"3","approved":true}`, http.StatusOK, true},
		{"revoke", `{"id":"3","approved":false}`, http.StatusOK, true},
		{"missing approved", `{"id":"2"}`, http.StatusBadRequest, false},
		{"approved not bool", `{"id":"2","approved":"yes"}`, http.StatusBadRequest, false},
		{"missing id", `{"approved":true}`, http.StatusBadRequest, false},
		{"blank id", `{"id":"  ","approved":true}`, http.StatusBadRequest, false},
		{"id not scalar", `{"id":{"x":1},"approved":true}`, http.StatusBadRequest, false},
		{"not json", `approve please`, http.StatusBadRequest, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := http.Post(ts.URL+"/api/reviews/approve", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatal(err)
			}
			if res.StatusCode != tc.status {
				t.Fatalf("status %d", res.StatusCode)
			}
			var body approveResponse
			decode(t, res, &body)
			if body.OK != tc.ok {
				t.Fatalf("ok = %v", body.OK)
			}
			if !tc.ok && body.Error != "Invalid payload" {
				t.Fatalf("error = %q", body.Error)
			}
		})
	}

	snap := local.Snapshot()
	if !snap.Has("1") || snap.Has("3") || local.Len() != 1 {
		t.Fatalf("approval set = %v", snap)
	}
}

func TestApprovedReviewsVisibleAfterApprove(t *testing.T) {
	ts := newTestServer(t, nil)
	res, err := http.Post(ts.URL+"/api/reviews/approve", "application/json", strings.NewReader(`{"id":"1","approved":true}`))
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()

	res, err = http.Get(ts.URL + "/api/reviews/hostaway?approved=true")
	if err != nil {
		t.Fatal(err)
	}
	var body reviewsResponse
	decode(t, res, &body)
	if len(body.Result) != 1 || body.Result[0].ID != "1" || !body.Result[0].Approved {
		t.Fatalf("approved only: %+v", body.Result)
	}
}

func TestProperties(t *testing.T) {
	local := memory.NewApprovalSet()
	local.Set("2", true)
	ts := newTestServer(t, local)

	res, err := http.Get(ts.URL + "/api/properties")
	if err != nil {
		t.Fatal(err)
	}
	var body propertiesResponse
	decode(t, res, &body)
	if len(body.Result) != 2 {
		t.Fatalf("properties: %+v", body.Result)
	}
	// sorted by name
	if body.Result[0].ListingSlug != "garden-flat" || body.Result[1].ListingSlug != "sea-view-loft" {
		t.Fatalf("order: %+v", body.Result)
	}
	sea := body.Result[1]
	if sea.ReviewCount != 2 || sea.ApprovedCount != 1 || sea.AvgScore == nil || *sea.AvgScore != 7.5 {
		t.Fatalf("sea view: %+v", sea)
	}
	if sea.Trend != domain.TrendFlat || sea.TrendDelta != 0 {
		t.Fatalf("trend: %+v", sea)
	}
}

func TestPropertyReviews(t *testing.T) {
	local := memory.NewApprovalSet()
	local.Set("1", true)
	ts := newTestServer(t, local)

	res, err := http.Get(ts.URL + "/api/properties/sea-view-loft/reviews")
	if err != nil {
		t.Fatal(err)
	}
	var body propertyPageResponse
	decode(t, res, &body)
	if body.ListingName != "Sea View Loft" || body.ListingSlug != "sea-view-loft" {
		t.Fatalf("page: %+v", body)
	}
	if len(body.Result) != 1 || body.Result[0].ID != "1" {
		t.Fatalf("items: %+v", body.Result)
	}

	res, err = http.Get(ts.URL + "/api/properties/nowhere/reviews")
	if err != nil {
		t.Fatal(err)
	}
	var empty propertyPageResponse
	decode(t, res, &empty)
	if empty.ListingName != "nowhere" || len(empty.Result) != 0 {
		t.Fatalf("unknown listing: %+v", empty)
	}
}

func TestInsights(t *testing.T) {
	local := memory.NewApprovalSet()
	local.Set("3", true)
	ts := newTestServer(t, local)

	res, err := http.Get(ts.URL + "/api/insights")
	if err != nil {
		t.Fatal(err)
	}
	var body insightsResponse
	decode(t, res, &body)
	in := body.Result
	if in.TotalReviews != 3 || in.ApprovedReviews != 1 || in.AvgScore == nil || in.Properties != 2 {
		t.Fatalf("insights: %+v", in)
	}
	if math.Abs(*in.AvgScore-23.0/3) > 1e-9 {
		t.Fatalf("avg = %v", *in.AvgScore)
	}
}
