package remote

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const (
	httpClientTimeout = 30 * time.Second
	defaultUserAgent  = "libstub/0.1.0"
	maxBodySize       = 256 * 1024 * 1024
)

// ErrNotFound is the cause of errors for URLs that answered 404 or 410 or
// could not be reached.
var ErrNotFound = errors.New("remote stub not found")

// Client downloads stubs and stub bundles over HTTP(S).
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxSize    int64
}

// NewClient creates a Client with a bounded timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: httpClientTimeout},
		userAgent:  defaultUserAgent,
		maxSize:    maxBodySize,
	}
}

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Fetch downloads a single URL and returns its body.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	data, notFound, err := c.fetch(ctx, rawURL)
	if notFound {
		return nil, errors.Wrapf(ErrNotFound, "%s", err)
	}
	return data, err
}

// fetch performs a single HTTP GET for the given URL.
// It returns (data, notFound, error); notFound is set for 404, 410 and
// transport failures.
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, errors.Wrapf(err, "building request for %s", rawURL)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, errors.Wrapf(err, "requesting %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, true, errors.Errorf("server returned %d for %s", resp.StatusCode, rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, errors.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading response body from %s", rawURL)
	}
	if int64(len(data)) > c.maxSize {
		return nil, false, errors.Errorf("response from %s exceeds maximum size of %d bytes", rawURL, c.maxSize)
	}

	return data, false, nil
}
