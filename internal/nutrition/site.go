package nutrition

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/abhiatluri/NutritionTracker/internal/model"
)

// Nutrition labels matched by substring against the detail page text.
// The site prints one labeled value cell per macro.
const (
	labelCalories = "Calories"
	labelProtein  = "Protein"
	labelCarbs    = "Carbohydrate"
	labelFat      = "Total Fat"
	labelServing  = "Serving Size"
)

// detailPathPrefix marks detail-page links in search results.
const detailPathPrefix = "/foods/"

// valueLookahead is how many text runs after a label are searched for a
// numeric value cell before the field is declared unparsed.
const valueLookahead = 3

// numberPattern extracts the leading numeric value from a cell like
// "23.5 g" or "1 cup".
var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// SiteClient fetches nutrition facts from the search site. It is safe
// for concurrent use; all state is immutable after construction.
type SiteClient struct {
	// httpClient performs the HTTP requests.
	httpClient *http.Client

	// baseURL is the site root, e.g. "https://www.nutritionvalue.org".
	baseURL string

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps how much of a response body is read.
	maxBodySize int64

	// timeout bounds each request independently of the others.
	timeout time.Duration

	// logger is used for structured logging.
	logger *slog.Logger
}

// SiteClientOption configures a SiteClient.
type SiteClientOption func(*SiteClient)

// WithSiteLogger sets a custom logger.
func WithSiteLogger(logger *slog.Logger) SiteClientOption {
	return func(c *SiteClient) {
		c.logger = logger
	}
}

// WithSiteUserAgent sets the User-Agent header.
func WithSiteUserAgent(ua string) SiteClientOption {
	return func(c *SiteClient) {
		c.userAgent = ua
	}
}

// WithSiteMaxBodySize caps response body reads. Non-positive keeps the
// default of 5MB.
func WithSiteMaxBodySize(n int64) SiteClientOption {
	return func(c *SiteClient) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithSiteTimeout bounds each request. Non-positive keeps the default.
func WithSiteTimeout(d time.Duration) SiteClientOption {
	return func(c *SiteClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewSiteClient creates a SiteClient for the given site root. The
// http.Client is caller-constructed so tests can substitute transports
// and the CLI can share one connection pool.
func NewSiteClient(httpClient *http.Client, baseURL string, opts ...SiteClientOption) *SiteClient {
	c := &SiteClient{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   "NutritionTracker/1.0",
		maxBodySize: 5 * 1024 * 1024,
		timeout:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Lookup resolves a food name with the two-step fetch: site search for
// the best-match detail page, then field extraction from that page.
// No search match, a network failure, or a non-2xx response all yield
// ErrNotFound; a single missing field does not fail the lookup.
func (c *SiteClient) Lookup(ctx context.Context, foodName string) (model.NutritionPerServing, error) {
	detailURL, err := c.search(ctx, foodName)
	if err != nil {
		return model.NutritionPerServing{}, err
	}

	n, err := c.fetchDetail(ctx, detailURL)
	if err != nil {
		return model.NutritionPerServing{}, err
	}

	c.logger.Debug("nutrition resolved",
		"food", foodName,
		"calories", n.CaloriesPerServing,
		"unparsed", strings.Join(n.Unparsed, ","),
	)
	return n, nil
}

// search returns the absolute detail-page URL for the best name match,
// or ErrNotFound when the result list has no detail link.
func (c *SiteClient) search(ctx context.Context, foodName string) (string, error) {
	searchURL := c.baseURL + "/search?q=" + url.QueryEscape(foodName)

	body, err := c.get(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", foodName, joinNotFound(err))
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("search %q: parse: %w", foodName, joinNotFound(err))
	}

	href := firstDetailLink(doc)
	if href == "" {
		return "", fmt.Errorf("search %q: no match: %w", foodName, ErrNotFound)
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", foodName, joinNotFound(err))
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("search %q: bad link %q: %w", foodName, href, joinNotFound(err))
	}
	return base.ResolveReference(ref).String(), nil
}

// fetchDetail extracts labeled nutrition fields from the detail page.
// A label whose value cell is structurally missing yields 0.0 for that
// field and is recorded in Unparsed.
func (c *SiteClient) fetchDetail(ctx context.Context, detailURL string) (model.NutritionPerServing, error) {
	body, err := c.get(ctx, detailURL)
	if err != nil {
		return model.NutritionPerServing{}, fmt.Errorf("detail %s: %w", detailURL, joinNotFound(err))
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return model.NutritionPerServing{}, fmt.Errorf("detail %s: parse: %w", detailURL, joinNotFound(err))
	}

	runs := textRuns(doc)

	n := model.NutritionPerServing{
		ServingSizeValue: 1.0,
		ServingSizeUnit:  "serving",
	}
	if value, unit, ok := servingSize(runs); ok {
		n.ServingSizeValue = value
		if unit != "" {
			n.ServingSizeUnit = unit
		}
	}

	fields := []struct {
		label string
		dst   *float64
	}{
		{labelCalories, &n.CaloriesPerServing},
		{labelProtein, &n.ProteinG},
		{labelCarbs, &n.CarbsG},
		{labelFat, &n.FatG},
	}
	for _, f := range fields {
		value, ok := labeledValue(runs, f.label)
		if !ok {
			n.Unparsed = append(n.Unparsed, f.label)
			continue
		}
		if value < 0 {
			value = 0
		}
		*f.dst = value
	}

	return n, nil
}

// get fetches a URL with the client's timeout, User-Agent, and body cap.
func (c *SiteClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	return body, nil
}

// joinNotFound attaches ErrNotFound to a lookup failure so callers can
// classify it with errors.Is while keeping the underlying detail.
func joinNotFound(err error) error {
	return fmt.Errorf("%w: %w", ErrNotFound, err)
}

// firstDetailLink walks the DOM and returns the href of the first
// anchor pointing at a detail page.
func firstDetailLink(doc *html.Node) string {
	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if strings.Contains(attr.Val, detailPathPrefix) {
					found = attr.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// textRuns returns every non-empty text node in document order, with
// whitespace collapsed. Label/value extraction operates on runs rather
// than specific elements so the scraper survives table markup changes.
func textRuns(doc *html.Node) []string {
	runs := make([]string, 0, 64)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				runs = append(runs, t)
			}
		case html.ElementNode:
			// Script and style text is never nutrition data.
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return runs
}

// labeledValue finds the first run containing the label and returns the
// first numeric value in the following runs. A label may carry its
// value inline ("Calories 80"); that is checked first.
func labeledValue(runs []string, label string) (float64, bool) {
	for i, run := range runs {
		if !strings.Contains(run, label) {
			continue
		}
		// Inline value after the label text.
		rest := run[strings.Index(run, label)+len(label):]
		if m := numberPattern.FindString(rest); m != "" {
			return parseFloat(m), true
		}
		// Value in one of the next few runs.
		for j := i + 1; j < len(runs) && j <= i+valueLookahead; j++ {
			if m := numberPattern.FindString(runs[j]); m != "" {
				return parseFloat(m), true
			}
		}
		return 0, false
	}
	return 0, false
}

// servingSize extracts the serving size value and unit, e.g. "1 cup".
func servingSize(runs []string) (float64, string, bool) {
	for i, run := range runs {
		if !strings.Contains(run, labelServing) {
			continue
		}
		candidates := make([]string, 0, valueLookahead+1)
		candidates = append(candidates, run[strings.Index(run, labelServing)+len(labelServing):])
		for j := i + 1; j < len(runs) && j <= i+valueLookahead; j++ {
			candidates = append(candidates, runs[j])
		}
		for _, cand := range candidates {
			loc := numberPattern.FindStringIndex(cand)
			if loc == nil {
				continue
			}
			value := parseFloat(cand[loc[0]:loc[1]])
			unit := strings.TrimSpace(strings.Trim(cand[loc[1]:], " ()"))
			return value, unit, true
		}
		return 0, "", false
	}
	return 0, "", false
}

// parseFloat parses a string already matched by numberPattern.
func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
