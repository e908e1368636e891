// internal/adapters/hostaway/client.go
package hostaway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"guest_reviews/internal/adapters/observability"
	"guest_reviews/internal/domain"
)

type Credentials struct {
	BaseURL   string
	AccountID string
	APIKey    string
}

// Complete reports whether a live call may be attempted at all.
func (c Credentials) Complete() bool {
	return c.BaseURL != "" && c.AccountID != "" && c.APIKey != ""
}

type Client struct {
	creds Credentials
	hc    *http.Client
	rl    *rate.Limiter
}

func New(creds Credentials, rps int, timeout time.Duration) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	creds.BaseURL = strings.TrimRight(creds.BaseURL, "/")
	return &Client{
		creds: creds,
		hc:    &http.Client{Timeout: timeout},
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// envelope is the Hostaway response body. Records stay raw so each one can be
// decoded and validated on its own.
type envelope struct {
	Status string            `json:"status"`
	Result []json.RawMessage `json:"result"`
}

// Reviews performs exactly one GET against the live API. It never retries.
func (c *Client) Reviews(ctx context.Context) ([]domain.RawReview, error) {
	if !c.creds.Complete() {
		return nil, domain.ErrNoCredentials
	}
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v1/reviews?accountId=%s", c.creds.BaseURL, url.QueryEscape(c.creds.AccountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.APIKey)
	req.Header.Set("X-Account-Id", c.creds.AccountID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("User-Agent", "guest-reviews/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("hostaway", "reviews", 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("hostaway", "reviews", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: bad status %d: %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", domain.ErrUpstream, err)
	}
	if !strings.EqualFold(env.Status, "success") {
		return nil, fmt.Errorf("%w: status %q", domain.ErrUpstream, env.Status)
	}
	if env.Result == nil {
		return nil, fmt.Errorf("%w: result is not an array", domain.ErrUpstream)
	}
	return decodeRecords(env.Result), nil
}
