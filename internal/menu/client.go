package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhiatluri/NutritionTracker/internal/model"
)

// ErrFetch is returned when a menu API request fails, times out, or
// returns a non-2xx status.
var ErrFetch = errors.New("menu: fetch failed")

// Nutrient labels used by the item nutrition endpoint. Matching is
// exact; the API is case-sensitive and really does spell fat with a
// lowercase f.
const (
	nutrientCalories = "Calories"
	nutrientCarbs    = "Total Carbohydrate"
	nutrientProtein  = "Protein"
	nutrientFat      = "Total fat"
)

// Menu is the daily menu of one dining location.
type Menu struct {
	Location string `json:"Location"`
	Meals    []Meal `json:"Meals"`
}

// Meal is one meal period (breakfast, lunch, dinner) with its stations.
type Meal struct {
	Name     string    `json:"Name"`
	Stations []Station `json:"Stations"`
}

// Station is one serving station within a meal.
type Station struct {
	Name  string `json:"Name"`
	Items []Item `json:"Items"`
}

// Item is one listed menu item. NutritionReady reports whether the
// per-item nutrition endpoint has data for it.
type Item struct {
	Name           string `json:"Name"`
	ID             string `json:"ID"`
	NutritionReady bool   `json:"NutritionReady"`
}

// Location describes one dining location from the locations endpoint.
type Location struct {
	Name       string `json:"Name"`
	FormalName string `json:"FormalName"`
	Type       string `json:"Type"`
}

// locationsEnvelope is the locations endpoint response body.
type locationsEnvelope struct {
	Location []Location `json:"Location"`
}

// itemEnvelope is the item nutrition endpoint response body.
type itemEnvelope struct {
	Nutrition []nutrient `json:"Nutrition"`
}

type nutrient struct {
	Name  string  `json:"Name"`
	Value float64 `json:"Value"`
}

// Client talks to the dining menu API. It is safe for concurrent use;
// all state is immutable after construction.
type Client struct {
	// httpClient performs the HTTP requests.
	httpClient *http.Client

	// baseURL is the API root, e.g. "https://api.hfs.purdue.edu/menus/v2".
	baseURL string

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps how much of a response body is read.
	maxBodySize int64

	// menuTimeout bounds menu and locations requests.
	menuTimeout time.Duration

	// itemTimeout bounds item nutrition requests, which are much more
	// numerous and should fail fast.
	itemTimeout time.Duration

	// logger is used for structured logging.
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize caps response body reads. Non-positive keeps the
// default of 5MB.
func WithMaxBodySize(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithMenuTimeout bounds menu and locations requests. Non-positive
// keeps the default.
func WithMenuTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.menuTimeout = d
		}
	}
}

// WithItemTimeout bounds item nutrition requests. Non-positive keeps
// the default.
func WithItemTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.itemTimeout = d
		}
	}
}

// NewClient creates a Client for the given API root. The http.Client
// is caller-constructed so tests can substitute transports and the CLI
// can share one connection pool.
func NewClient(httpClient *http.Client, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   "NutritionTracker/1.0",
		maxBodySize: 5 * 1024 * 1024,
		menuTimeout: 10 * time.Second,
		itemTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Locations lists the dining locations known to the API.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	body, err := c.get(ctx, c.baseURL+"/locations", c.menuTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: locations: %w", ErrFetch, err)
	}

	var envelope locationsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: locations: decode: %w", ErrFetch, err)
	}
	return envelope.Location, nil
}

// FetchMenu fetches one location's menu for a date in MM-DD-YYYY
// format. The API serves menus under a trailing slash.
func (c *Client) FetchMenu(ctx context.Context, location, date string) (*Menu, error) {
	menuURL := c.baseURL + "/locations/" + url.PathEscape(location) + "/" + url.PathEscape(date) + "/"

	body, err := c.get(ctx, menuURL, c.menuTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: menu %s %s: %w", ErrFetch, location, date, err)
	}

	var menu Menu
	if err := json.Unmarshal(body, &menu); err != nil {
		return nil, fmt.Errorf("%w: menu %s %s: decode: %w", ErrFetch, location, date, err)
	}
	return &menu, nil
}

// ItemNutrition fetches nutrition facts for one menu item by ID and
// maps the labeled nutrient array onto a per-serving record. A label
// absent from the response yields 0.0 for that field and is recorded
// in Unparsed. Menu portions are per listed serving.
func (c *Client) ItemNutrition(ctx context.Context, itemID string) (model.NutritionPerServing, error) {
	body, err := c.get(ctx, c.baseURL+"/items/"+url.PathEscape(itemID), c.itemTimeout)
	if err != nil {
		return model.NutritionPerServing{}, fmt.Errorf("%w: item %s: %w", ErrFetch, itemID, err)
	}

	var envelope itemEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return model.NutritionPerServing{}, fmt.Errorf("%w: item %s: decode: %w", ErrFetch, itemID, err)
	}

	n := model.NutritionPerServing{
		ServingSizeValue: 1.0,
		ServingSizeUnit:  "serving",
	}
	fields := []struct {
		label string
		dst   *float64
	}{
		{nutrientCalories, &n.CaloriesPerServing},
		{nutrientCarbs, &n.CarbsG},
		{nutrientProtein, &n.ProteinG},
		{nutrientFat, &n.FatG},
	}
	for _, f := range fields {
		value, ok := nutrientValue(envelope.Nutrition, f.label)
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

// nutrientValue returns the first nutrient matching the label exactly.
func nutrientValue(nutrients []nutrient, label string) (float64, bool) {
	for _, n := range nutrients {
		if n.Name == label {
			return n.Value, true
		}
	}
	return 0, false
}

// get fetches a URL with the given timeout, User-Agent, and body cap.
func (c *Client) get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

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
