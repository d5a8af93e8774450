package serp

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bharatpricing/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the SerpApi Google Search endpoints
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	googleDomain string
	location     string
	rateLimiter  *rate.Limiter
}

// NewClient creates a new search API client. requestsPerHour caps outbound
// traffic against the plan quota.
func NewClient(apiKey, baseURL, googleDomain, location string, requestsPerHour int) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 1000
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:       apiKey,
		baseURL:      baseURL,
		googleDomain: googleDomain,
		location:     location,
		rateLimiter:  limiter,
	}
}

// shoppingResponse mirrors the subset of the SerpApi google_shopping payload we use
type shoppingResponse struct {
	ShoppingResults []shoppingResult `json:"shopping_results"`
}

type shoppingResult struct {
	ProductID      string  `json:"product_id"`
	Title          string  `json:"title"`
	Price          string  `json:"price"`
	ExtractedPrice float64 `json:"extracted_price"`
	Source         string  `json:"source"`
	Link           string  `json:"link"`
	ProductLink    string  `json:"product_link"`
	Thumbnail      string  `json:"thumbnail"`
	Rating         float64 `json:"rating"`
	Reviews        int     `json:"reviews"`
	Delivery       string  `json:"delivery"`
}

// webResponse mirrors the subset of the SerpApi organic payload we use
type webResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// doRequest executes an HTTP GET request with retry and rate limiting
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "BharatPricing/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[SERP] Request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrSearchAPIFailure, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[SERP] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, truncate(string(body), 200))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSearchAPIFailure, resp.StatusCode)
			// 4xx errors will not heal on retry
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		return body, nil
	}

	return nil, lastErr
}

// SearchShopping queries the Google Shopping engine for offer listings
func (c *Client) SearchShopping(ctx context.Context, query, locale string) ([]domain.Offer, error) {
	log.Printf("[SERP] SearchShopping called with query: %q", query)

	params := url.Values{}
	params.Add("engine", "google_shopping")
	params.Add("q", query)
	params.Add("api_key", c.apiKey)
	params.Add("google_domain", c.googleDomain)
	params.Add("location", c.location)
	applyLocale(params, locale)

	reqURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("[SERP] SearchShopping failed for query %q: %v", query, err)
		return nil, err
	}

	var searchResp shoppingResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode shopping response: %w", err)
	}

	offers := mapShoppingResults(searchResp.ShoppingResults)
	log.Printf("[SERP] Found %d shopping offers for query: %q", len(offers), query)
	return offers, nil
}

// SearchWeb queries the organic web engine. Used as a fallback when the
// shopping engine returns nothing for a query.
func (c *Client) SearchWeb(ctx context.Context, query, locale string) ([]domain.Offer, error) {
	log.Printf("[SERP] SearchWeb called with query: %q", query)

	params := url.Values{}
	params.Add("engine", "google")
	params.Add("q", query+" buy online price")
	params.Add("api_key", c.apiKey)
	params.Add("google_domain", c.googleDomain)
	params.Add("location", c.location)
	params.Add("num", "20")
	applyLocale(params, locale)

	reqURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("[SERP] SearchWeb failed for query %q: %v", query, err)
		return nil, err
	}

	var searchResp webResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode web response: %w", err)
	}

	offers := mapOrganicResults(searchResp.OrganicResults)
	log.Printf("[SERP] Found %d web offers for query: %q", len(offers), query)
	return offers, nil
}

// applyLocale maps a locale code onto the gl/hl request parameters
func applyLocale(params url.Values, locale string) {
	switch locale {
	case "", "in", "en-IN":
		params.Add("gl", "in")
		params.Add("hl", "en")
	default:
		params.Add("gl", locale)
		params.Add("hl", "en")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
