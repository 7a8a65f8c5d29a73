// Package client talks to the member evaluations API and holds the client-side
// state a user interface needs: the identity session, the route guard and the
// evaluation form.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

const defaultTimeout = 30 * time.Second

// ErrUnauthenticated is returned when the API rejects the bearer token.
var ErrUnauthenticated = errors.New("login required")

// APIError is a non-2xx answer decoded from the API error envelope.
type APIError struct {
	Status  int
	Message string
	Fields  []domain.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Message, strings.Join(parts, "; "), e.Status)
}

// Unwrap lets callers match a 401 with errors.Is(err, ErrUnauthenticated).
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return nil
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client is a thin JSON client for the API. It is not safe to change the
// token while requests are in flight.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

// --- Wire types ---

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	NotionName  string `json:"notion_name"`
	UserRole    string `json:"user_role"`
	ProjectName string `json:"project_name,omitempty"`
	Assessoria  string `json:"assessoria"`
}

type LoginResult struct {
	Token    string           `json:"token"`
	Identity *domain.Identity `json:"identity"`
}

type Rubric struct {
	Criteria []string `json:"criteria"`
	Min      int      `json:"min"`
	Max      int      `json:"max"`
}

func (r Rubric) Domain() domain.Rubric {
	return domain.Rubric{Criteria: r.Criteria, Min: r.Min, Max: r.Max}
}

type EvaluationResult struct {
	ID          string         `json:"id"`
	SubjectName string         `json:"subject_name"`
	Ratings     domain.Ratings `json:"ratings"`
	Score       float64        `json:"score"`
	Period      string         `json:"period"`
	CreatedAt   time.Time      `json:"created_at"`
}

type BatchResult struct {
	BatchID string `json:"batch_id"`
	Period  string `json:"period"`
	Count   int    `json:"count"`
}

type Report struct {
	Records []domain.Evaluation `json:"records"`
	Metrics domain.Metrics      `json:"metrics"`
}

// Member is a person the caller can evaluate. ID is the key drafts are
// saved under.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type membersResponse struct {
	Members []Member `json:"members"`
}

type draftsResponse struct {
	Drafts []domain.Draft `json:"drafts"`
}

type errorEnvelope struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields"`
}

// --- Auth ---

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*domain.Identity, error) {
	var resp LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return resp.Identity, nil
}

// Login stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Logout ends the server session and forgets the token, even when the
// server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.token = ""
	return err
}

func (c *Client) Me(ctx context.Context) (*domain.Identity, error) {
	var identity domain.Identity
	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// FetchProfile loads the profile row of the logged-in identity. A missing
// row is reported as a nil profile.
func (c *Client) FetchProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	identity, err := c.Me(ctx)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if identity.ID != userID {
		return nil, fmt.Errorf("profile belongs to %q, not %q", identity.ID, userID)
	}
	return identity.Profile, nil
}

// --- Members ---

// Members lists who the caller can evaluate. An empty assessoria uses the
// caller's profile.
func (c *Client) Members(ctx context.Context, assessoria string) ([]Member, error) {
	path := "/v1/members"
	if assessoria != "" {
		path += "?assessoria=" + url.QueryEscape(assessoria)
	}
	var resp membersResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

func (c *Client) AllMembers(ctx context.Context) ([]Member, error) {
	var resp membersResponse
	if err := c.do(ctx, http.MethodGet, "/v1/members/all", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

// --- Evaluations ---

func (c *Client) Rubric(ctx context.Context) (*Rubric, error) {
	var r Rubric
	if err := c.do(ctx, http.MethodGet, "/v1/rubric", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) Submit(ctx context.Context, d domain.Draft) (*EvaluationResult, error) {
	var res EvaluationResult
	if err := c.do(ctx, http.MethodPost, "/v1/evaluations", d, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SaveDraft(ctx context.Context, d domain.Draft) (*domain.Draft, error) {
	var saved domain.Draft
	path := "/v1/drafts/" + url.PathEscape(d.SubjectID)
	if err := c.do(ctx, http.MethodPut, path, d, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) Drafts(ctx context.Context) ([]domain.Draft, error) {
	var resp draftsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/drafts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Drafts, nil
}

func (c *Client) DiscardDraft(ctx context.Context, subjectID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/drafts/"+url.PathEscape(subjectID), nil, nil)
}

func (c *Client) SubmitDrafts(ctx context.Context) (*BatchResult, error) {
	var res BatchResult
	if err := c.do(ctx, http.MethodPost, "/v1/drafts/submit", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// --- Reports ---

func (c *Client) Report(ctx context.Context, query string) (*Report, error) {
	path := "/v1/reports"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var r Report
	if err := c.do(ctx, http.MethodGet, path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var env errorEnvelope
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if json.Unmarshal(raw, &env) != nil || env.Error == "" {
			env.Error = strings.TrimSpace(string(raw))
			if env.Error == "" {
				env.Error = http.StatusText(resp.StatusCode)
			}
		}
		return &APIError{Status: resp.StatusCode, Message: env.Error, Fields: env.Fields}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
