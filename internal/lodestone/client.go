// Package lodestone is the HTTP client for the upstream character API.
//
// Every failure is returned as a *domain.UpstreamError so callers can use
// errors.Is against domain.ErrNotFound or domain.ErrUpstreamUnavailable.
package lodestone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/metrics"
	"github.com/MrSnakeDoc/naago/internal/utils"
	"github.com/MrSnakeDoc/naago/internal/version"
)

const (
	opGetCharacter    = "get_character"
	opSearchCharacter = "search_character"

	maxBodyBytes = 2 << 20
)

var errInvalidPayload = errors.New("invalid payload")

// Client talks to the character API.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	validate  *validator.Validate
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for baseURL. timeout bounds each request.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		userAgent: "naago/" + version.Version,
		validate:  validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type characterResponse struct {
	Character *domain.Character `json:"character" validate:"required"`
}

type searchResponse struct {
	Results []domain.SearchResult `json:"results" validate:"dive"`
}

// GetCharacter fetches the current snapshot of a character.
func (c *Client) GetCharacter(ctx context.Context, id int64) (*domain.Character, error) {
	var resp characterResponse
	if err := c.get(ctx, opGetCharacter, "/character/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Character.ID != id {
		return nil, &domain.UpstreamError{
			Op:  opGetCharacter,
			Err: fmt.Errorf("%w: asked for %d, got %d", errInvalidPayload, id, resp.Character.ID),
		}
	}
	return resp.Character, nil
}

// SearchCharacter looks characters up by name on a world. An empty world
// searches every world.
func (c *Client) SearchCharacter(ctx context.Context, name, world string) ([]domain.SearchResult, error) {
	q := url.Values{}
	q.Set("name", name)
	if world != "" {
		q.Set("worldname", world)
	}

	var resp searchResponse
	if err := c.get(ctx, opSearchCharacter, "/character/search", q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	res, err := c.http.Do(req)
	metrics.ObserveUpstream(op, time.Since(start))
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: err}
	}
	defer utils.DrainClose(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &domain.UpstreamError{Op: op, StatusCode: res.StatusCode, Err: errors.New(http.StatusText(res.StatusCode))}
	}

	dec := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("%w: %v", errInvalidPayload, err)}
	}
	if err := c.validatePayload(out); err != nil {
		return &domain.UpstreamError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) validatePayload(v any) error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", errInvalidPayload, strings.Join(msgs, ", "))
	}
	return fmt.Errorf("%w: %v", errInvalidPayload, err)
}
