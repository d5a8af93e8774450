package serp

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bharatpricing/backend/internal/domain"
)

// priceRe extracts Indian rupee prices from snippets, e.g. "₹12,995" or "Rs. 1,299.00"
var priceRe = regexp.MustCompile(`(?:₹|Rs\.?\s?)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// trackingParams are click/attribution parameters stripped from offer URLs
var trackingParams = map[string]bool{
	"srsltid":  true,
	"gclid":    true,
	"fbclid":   true,
	"dclid":    true,
	"msclkid":  true,
	"ref":      true,
	"ref_":     true,
	"tag":      true,
	"crid":     true,
	"qid":      true,
	"sr":       true,
	"sprefix":  true,
	"dib":      true,
	"dib_tag":  true,
	"aref":     true,
}

// mapShoppingResults converts raw shopping results into domain offers,
// dropping entries with no usable link.
func mapShoppingResults(results []shoppingResult) []domain.Offer {
	offers := make([]domain.Offer, 0, len(results))
	for _, r := range results {
		link := r.Link
		if link == "" {
			link = r.ProductLink
		}
		link = cleanOfferURL(link)
		if link == "" || r.Title == "" {
			continue
		}

		price := r.ExtractedPrice
		if price == 0 {
			price = parsePrice(r.Price)
		}

		id := r.ProductID
		if id == "" {
			id = uuid.NewString()
		}

		offers = append(offers, domain.Offer{
			ID:       id,
			Title:    r.Title,
			Price:    price,
			Currency: "INR",
			Source:   r.Source,
			URL:      link,
			ImageURL: r.Thumbnail,
			Rating:   r.Rating,
			Reviews:  r.Reviews,
			Delivery: r.Delivery,
		})
	}
	return offers
}

// mapOrganicResults converts organic web results into offers. Prices are
// best-effort extracted from snippets; entries without a price are kept so
// downstream matching can still rank them.
func mapOrganicResults(results []organicResult) []domain.Offer {
	offers := make([]domain.Offer, 0, len(results))
	for _, r := range results {
		link := cleanOfferURL(r.Link)
		if link == "" || r.Title == "" {
			continue
		}

		source := r.Source
		if source == "" {
			if u, err := url.Parse(link); err == nil {
				source = strings.TrimPrefix(u.Hostname(), "www.")
			}
		}

		offers = append(offers, domain.Offer{
			ID:       uuid.NewString(),
			Title:    r.Title,
			Price:    parsePrice(r.Snippet),
			Currency: "INR",
			Source:   source,
			URL:      link,
		})
	}
	return offers
}

// cleanOfferURL unwraps Google redirect links and strips tracking parameters.
// Returns "" when the input cannot be parsed.
func cleanOfferURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	// Google shopping frequently hands back /url?q=<real-url> redirects
	if strings.Contains(u.Host, "google.") && (u.Path == "/url" || u.Path == "/aclk") {
		if target := u.Query().Get("q"); target != "" {
			if tu, err := url.Parse(target); err == nil && tu.Host != "" {
				u = tu
			}
		} else if target := u.Query().Get("url"); target != "" {
			if tu, err := url.Parse(target); err == nil && tu.Host != "" {
				u = tu
			}
		}
	}

	if u.Host == "" {
		return ""
	}

	q := u.Query()
	for key := range q {
		if trackingParams[strings.ToLower(key)] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""

	return u.String()
}

// parsePrice extracts the first rupee amount found in a string
func parsePrice(s string) float64 {
	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	cleaned := strings.ReplaceAll(m[1], ",", "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}
