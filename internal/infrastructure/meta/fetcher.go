package meta

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bharatpricing/backend/internal/domain"
)

const (
	maxBodyBytes = 512 * 1024
	userAgent    = "Mozilla/5.0 (compatible; BharatPricing/1.0)"
)

var (
	canonicalRe  = regexp.MustCompile(`(?is)<link[^>]+rel=["']canonical["'][^>]*href=["']([^"']+)["']`)
	canonicalRe2 = regexp.MustCompile(`(?is)<link[^>]+href=["']([^"']+)["'][^>]*rel=["']canonical["']`)
	titleRe      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	jsonLDRe     = regexp.MustCompile(`(?is)<script[^>]+type=["']application/ld\+json["'][^>]*>(.*?)</script>`)
	ogTitleRe    = regexp.MustCompile(`(?is)<meta[^>]+property=["']og:title["'][^>]*content=["']([^"']+)["']`)
	ogImageRe    = regexp.MustCompile(`(?is)<meta[^>]+property=["']og:image["'][^>]*content=["']([^"']+)["']`)
)

// Fetcher resolves redirect chains and pulls lightweight page metadata.
// It only reads markup; no scripts are executed.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a metadata fetcher with the given timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// ResolveRedirects follows the redirect chain of a shortened or tracking
// URL and returns the final destination. On failure the input URL is
// returned with the error so callers can degrade.
func (f *Fetcher) ResolveRedirects(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return rawURL, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Printf("[META] Redirect resolution failed for %s: %v", rawURL, err)
		return rawURL, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	finalURL := resp.Request.URL.String()
	if finalURL != rawURL {
		log.Printf("[META] Resolved redirect: %s -> %s", rawURL, finalURL)
	}
	return finalURL, nil
}

// FetchPageMetadata fetches a product page and extracts its canonical URL,
// title and any structured product markup.
func (f *Fetcher) FetchPageMetadata(ctx context.Context, rawURL string) (*domain.PageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	html := string(body)

	metadata := &domain.PageMetadata{}

	if m := canonicalRe.FindStringSubmatch(html); m != nil {
		metadata.CanonicalURL = strings.TrimSpace(m[1])
	} else if m := canonicalRe2.FindStringSubmatch(html); m != nil {
		metadata.CanonicalURL = strings.TrimSpace(m[1])
	}

	if m := titleRe.FindStringSubmatch(html); m != nil {
		metadata.Title = cleanTitle(m[1])
	} else if m := ogTitleRe.FindStringSubmatch(html); m != nil {
		metadata.Title = cleanTitle(m[1])
	}

	metadata.Product = extractStructuredProduct(html)
	if metadata.Product == nil {
		if m := ogImageRe.FindStringSubmatch(html); m != nil && metadata.Title != "" {
			metadata.Product = &domain.StructuredProduct{
				Name:  metadata.Title,
				Image: strings.TrimSpace(m[1]),
			}
		}
	}

	return metadata, nil
}

// jsonLDProduct mirrors the subset of schema.org Product markup we read.
// Brand may be a bare string or a nested object, so it gets raw handling.
type jsonLDProduct struct {
	Type  string          `json:"@type"`
	Name  string          `json:"name"`
	Brand json.RawMessage `json:"brand"`
	Image json.RawMessage `json:"image"`
	Graph []jsonLDProduct `json:"@graph"`
}

// extractStructuredProduct scans JSON-LD script blocks for Product markup
func extractStructuredProduct(html string) *domain.StructuredProduct {
	for _, m := range jsonLDRe.FindAllStringSubmatch(html, -1) {
		var node jsonLDProduct
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &node); err != nil {
			// JSON-LD may also be a top-level array
			var nodes []jsonLDProduct
			if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &nodes); err != nil {
				continue
			}
			node.Graph = nodes
		}

		candidates := []jsonLDProduct{node}
		candidates = append(candidates, node.Graph...)
		for _, c := range candidates {
			if !strings.EqualFold(c.Type, "Product") || c.Name == "" {
				continue
			}
			return &domain.StructuredProduct{
				Name:  c.Name,
				Brand: decodeBrand(c.Brand),
				Image: decodeImage(c.Image),
			}
		}
	}
	return nil
}

// decodeBrand handles both "brand": "Nike" and "brand": {"name": "Nike"}
func decodeBrand(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

// decodeImage handles both a single URL and an array of URLs
func decodeImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	// Marketplace titles carry suffixes like " - Buy Online | Amazon.in"
	for _, sep := range []string{" | ", " – ", " - Buy", ": Buy"} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
		}
	}
	return strings.TrimSpace(title)
}
