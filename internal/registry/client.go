package registry

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

	"github.com/charmbracelet/log"

	"github.com/hatch-cli/hatch/internal/branding"
)

// DefaultTimeout bounds a single registry request when no other timeout is configured.
const DefaultTimeout = 15 * time.Second

// ErrEmptyName is returned when a lookup is attempted without a package name.
var ErrEmptyName = errors.New("package name is required")

// Client queries a package registry over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRegistry overrides the registry base URL.
func WithRegistry(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithToken sets a bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a registry client. Without options it targets the
// branding default registry with a DefaultTimeout-bounded HTTP client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    branding.DefaultRegistry(),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient returns the underlying HTTP client so tarball downloads share
// its timeout and transport.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// FetchPackument retrieves the metadata document for name.
// A non-200 response or an undecodable body yields (nil, nil): the registry
// has no data for the package. Transport failures are returned as errors.
func (c *Client) FetchPackument(ctx context.Context, name string) (*Packument, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	endpoint := c.packageURL(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", branding.UserAgent())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying registry for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("registry has no data", "package", name, "status", resp.StatusCode)
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading registry response for %s: %w", name, err)
	}

	var doc Packument
	if err := json.Unmarshal(body, &doc); err != nil {
		c.logger.Debug("registry response is not a packument", "package", name, "err", err)
		return nil, nil
	}
	return &doc, nil
}

// FetchVersions returns the version catalog of name. The catalog is empty
// when the registry does not know the package.
func (c *Client) FetchVersions(ctx context.Context, name string) ([]string, error) {
	doc, err := c.FetchPackument(ctx, name)
	if err != nil {
		return nil, err
	}
	return doc.Catalog(), nil
}

// LatestVersion returns the highest published version of name, or "" if the
// registry has no usable versions.
func (c *Client) LatestVersion(ctx context.Context, name string) (string, error) {
	catalog, err := c.FetchVersions(ctx, name)
	if err != nil {
		return "", err
	}
	latest, _ := ResolveLatest(catalog)
	return latest, nil
}

// NextVersion returns the highest published version of name strictly greater
// than baseline, or "" if there is none.
func (c *Client) NextVersion(ctx context.Context, baseline, name string) (string, error) {
	catalog, err := c.FetchVersions(ctx, name)
	if err != nil {
		return "", err
	}
	next, _ := ResolveNextGreater(baseline, catalog)
	return next, nil
}

// packageURL joins the base URL and the package name. Scoped names keep their
// leading "@" but escape the separating slash, as npm registries expect.
func (c *Client) packageURL(name string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + url.PathEscape(name)
}
