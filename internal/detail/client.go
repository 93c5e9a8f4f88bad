package detail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muurk/airmap/internal/airport"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Second

	// InfoPath is the detail endpoint, with %s replaced by the airport code
	InfoPath = "/api/airports/%s/info"
)

// Client fetches airport detail from an airmap detail server
type Client struct {
	// BaseURL is the server root (e.g., "http://192.168.1.20:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Fetch performs a single GET of the airport's info. Context cancellation is
// returned as ctx.Err() rather than classified.
func (c *Client) Fetch(ctx context.Context, subject airport.Airport) (airport.Info, error) {
	endpoint := c.BaseURL + fmt.Sprintf(InfoPath, url.PathEscape(subject.Code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return airport.Info{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return airport.Info{}, ctx.Err()
		}
		return airport.Info{}, ClassifyNetworkError(err, subject.Code)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return airport.Info{}, NewHTTPError(resp.StatusCode, subject.Code)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return airport.Info{}, ctx.Err()
		}
		return airport.Info{}, ClassifyNetworkError(err, subject.Code)
	}

	var info airport.Info
	if err := json.Unmarshal(body, &info); err != nil {
		return airport.Info{}, NewParseError("failed to parse detail response", subject.Code, err)
	}

	return info, nil
}
