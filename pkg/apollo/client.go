// Package apollo is a minimal client for the Apollo.io people API, covering
// the two endpoints the enrichment pipeline needs: identity match and
// credit-consuming mobile unlock.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// Client performs people lookups against the Apollo API.
type Client interface {
	// Match resolves a LinkedIn URL to a person. A nil person with a nil
	// error means Apollo answered but found no match.
	Match(ctx context.Context, req MatchRequest) (*Person, error)

	// UnlockMobile requests the mobile number for a previously matched
	// person id. This is the credit-consuming call.
	UnlockMobile(ctx context.Context, req UnlockRequest) (*Person, error)
}

// MatchRequest is the request body for POST /people/match.
type MatchRequest struct {
	LinkedInURL    string `json:"linkedin_url"`
	MatchOnWebsite bool   `json:"match_on_website"`
	APIKey         string `json:"api_key,omitempty"`
}

// UnlockRequest is the request body for POST /people/mobile/search.
type UnlockRequest struct {
	ID              string `json:"id"`
	MobilePhoneOnly bool   `json:"mobile_phone_only"`
	APIKey          string `json:"api_key,omitempty"`
}

// Person is the Apollo person payload. Fields beyond these exist in the
// API response; only what the extractor reads is decoded.
type Person struct {
	ID                string        `json:"id"`
	FirstName         string        `json:"first_name"`
	LastName          string        `json:"last_name"`
	Title             string        `json:"title"`
	Email             string        `json:"email"`
	LinkedInURL       string        `json:"linkedin_url"`
	MobilePhoneNumber string        `json:"mobile_phone_number"`
	MobilePhoneStatus string        `json:"mobile_phone_status"`
	Organization      *Organization `json:"organization"`
}

// Organization is the nested company object on a Person.
type Organization struct {
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url"`
	Industry   string `json:"industry"`
}

// personEnvelope wraps both endpoint responses.
type personEnvelope struct {
	Person *Person `json:"person"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLimiter overrides the default request rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Apollo API client. The api key is injected into each
// request body; Apollo rejects unauthenticated calls with a 401.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(5, 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Match(ctx context.Context, req MatchRequest) (*Person, error) {
	req.APIKey = c.apiKey
	return c.post(ctx, "/people/match", req)
}

func (c *httpClient) UnlockMobile(ctx context.Context, req UnlockRequest) (*Person, error) {
	req.APIKey = c.apiKey
	return c.post(ctx, "/people/mobile/search", req)
}

func (c *httpClient) post(ctx context.Context, path string, payload any) (*Person, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "apollo: rate limiter wait")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "apollo: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrapf(err, "apollo: send request %s", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("apollo: unexpected status %d from %s: %s", resp.StatusCode, path, string(respBody))
	}

	var env personEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, eris.Wrap(err, "apollo: unmarshal response")
	}

	return env.Person, nil
}
