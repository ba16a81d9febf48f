// Package client is a typed Go client for the GradGuide HTTP API.
//
// Public reads hang off Client. Calls that act for a user go through a
// Session, which carries the credentials and the cached current user; nothing
// user-scoped lives at package level.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every request unless WithTimeout or WithHTTPClient says otherwise
const DefaultTimeout = 30 * time.Second

// DefaultSessionCookie is the cookie the server reads the session token from
const DefaultSessionCookie = "session"

const maxErrorBody = 64 << 10

// Client calls the API over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	cookieName string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client entirely
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSessionCookie changes the name of the session cookie sent on session calls
func WithSessionCookie(name string) Option {
	return func(c *Client) {
		c.cookieName = name
	}
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8080"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "gradguide-client/1.0",
		cookieName: DefaultSessionCookie,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSession returns a session that authenticates with token
func (c *Client) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

// GetCompanies lists every company with at least one report
func (c *Client) GetCompanies(ctx context.Context) ([]CompanySummary, error) {
	var out []CompanySummary
	err := c.do(ctx, request{op: "get companies", method: http.MethodGet, path: "/api/companies"}, &out)
	return out, err
}

// GetCompany returns the page for one company
func (c *Client) GetCompany(ctx context.Context, name string) (*CompanyDetail, error) {
	var out CompanyDetail
	err := c.do(ctx, request{
		op:     "get company",
		method: http.MethodGet,
		path:   "/api/companies/" + url.PathEscape(name),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetExperiences lists reports, optionally filtered
func (c *Client) GetExperiences(ctx context.Context, filter ExperienceFilter) ([]Submission, error) {
	query := url.Values{}
	setIfPresent(query, "company", filter.Company)
	setIfPresent(query, "theme", filter.Theme)
	setIfPresent(query, "search", filter.Search)

	var out []Submission
	err := c.do(ctx, request{op: "get experiences", method: http.MethodGet, path: "/api/experiences", query: query}, &out)
	return out, err
}

// GetExperience returns one report
func (c *Client) GetExperience(ctx context.Context, id int64) (*Submission, error) {
	var out Submission
	err := c.do(ctx, request{
		op:     "get experience",
		method: http.MethodGet,
		path:   "/api/experiences/" + strconv.FormatInt(id, 10),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLawMatch ranks law firms for a university and WAM
func (c *Client) GetLawMatch(ctx context.Context, q LawMatchQuery) (*LawMatchResponse, error) {
	var out LawMatchResponse
	if err := c.do(ctx, request{op: "law match", method: http.MethodPost, path: "/api/law-match", body: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFirmUniversityData returns the static firm by university intake table
func (c *Client) GetFirmUniversityData(ctx context.Context) (FirmUniversityData, error) {
	var out FirmUniversityData
	err := c.do(ctx, request{op: "get firm data", method: http.MethodGet, path: "/api/firm-university-data"}, &out)
	return out, err
}

func setIfPresent(q url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		q.Set(key, v)
	}
}

type request struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	// token is attached as bearer and cookie when non-empty
	token string
	// replayed receives whether the server answered from an earlier request
	replayed *bool
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w", req.op, err)
		}
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", req.op, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
		if c.cookieName != "" {
			httpReq.AddCookie(&http.Cookie{Name: c.cookieName, Value: req.token})
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: send request: %w", req.op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fetchFailed(req.op, resp)
	}
	if req.replayed != nil {
		*req.replayed = resp.Header.Get("Idempotent-Replayed") == "true"
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.op, err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", req.op, err)
	}
	return nil
}

func fetchFailed(op string, resp *http.Response) error {
	fe := &FetchFailedError{Op: op, StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return fe
	}
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		fe.Code = env.Error.Code
		if env.Error.Message != "" {
			fe.Message = env.Error.Message
		}
	}
	return fe
}
