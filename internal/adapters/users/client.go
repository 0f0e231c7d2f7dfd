package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/viralforge/profiles-service/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultPath = "/users/users/{id}"

// Client resolves a token subject to its email through the Users service.
// It holds no state between calls.
type Client struct {
	baseURL string
	path    string
	timeout time.Duration
	http    *http.Client
}

func NewClient(baseURL, path string, timeout time.Duration) *Client {
	if path == "" {
		path = DefaultPath
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    path,
		timeout: timeout,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

type userResponse struct {
	Email string `json:"email"`
}

func (c *Client) ResolveIdentity(ctx context.Context, subject string) (domain.UserIdentity, error) {
	if strings.TrimSpace(subject) == "" {
		return domain.UserIdentity{}, fmt.Errorf("%w: empty subject", domain.ErrIdentityUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + strings.ReplaceAll(c.path, "{id}", url.PathEscape(subject))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.UserIdentity{}, fmt.Errorf("%w: build request: %v", domain.ErrIdentityUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.UserIdentity{}, fmt.Errorf("%w: %v", domain.ErrIdentityTimeout, err)
		}
		return domain.UserIdentity{}, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.UserIdentity{}, fmt.Errorf("%w: users service returned %d", domain.ErrIdentityUnavailable, resp.StatusCode)
	}

	var body userResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.UserIdentity{}, fmt.Errorf("%w: %v", domain.ErrIdentityTimeout, err)
		}
		return domain.UserIdentity{}, fmt.Errorf("%w: decode response: %v", domain.ErrIdentityUnavailable, err)
	}
	if strings.TrimSpace(body.Email) == "" {
		return domain.UserIdentity{}, fmt.Errorf("%w: response has no email", domain.ErrIdentityUnavailable)
	}
	return domain.UserIdentity{Subject: subject, Email: body.Email}, nil
}
