package cagematch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kapu/wrestler-profile-api/pkg/errors"
)

const (
	// searchCategory selects the wrestler database in the site-wide search.
	searchCategory = "666"
	// profileLinkMarker identifies wrestler profile links among promotion,
	// event and other entity links.
	profileLinkMarker = "id=2&nr="

	msgSearchFailed  = "Failed to fetch search results"
	msgProfileFailed = "Failed to fetch wrestler profile"
)

type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client fetches and parses pages from the cagematch site.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}
}

// BaseURL returns the site origin without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchURL builds the wrestler search URL. Spaces become '+'.
func (c *Client) SearchURL(name string) string {
	return fmt.Sprintf("%s/?id=%s&search=%s", c.baseURL, searchCategory, url.QueryEscape(name))
}

func (c *Client) fetchDocument(ctx context.Context, pageURL, failure string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, errors.NewUpstreamError(failure, pageURL, 0, err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("Fetching page", zap.String("url", pageURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamError(failure, pageURL, 0, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewUpstreamError(failure, pageURL, resp.StatusCode,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.NewUpstreamError(failure, pageURL, resp.StatusCode, fmt.Errorf("HTML parse failed: %w", err))
	}

	return doc, nil
}

// resolveLink makes query-only hrefs ("?id=2&nr=...") absolute.
func (c *Client) resolveLink(href string) string {
	if strings.HasPrefix(href, "?") {
		return c.baseURL + "/" + href
	}
	return href
}

// resolveAsset makes site-relative asset paths ("/site/...") absolute.
func (c *Client) resolveAsset(src string) string {
	if strings.HasPrefix(src, "/") {
		return c.baseURL + src
	}
	return src
}
