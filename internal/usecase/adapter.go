package usecase

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bharatpricing/backend/internal/domain"
	"github.com/bharatpricing/backend/internal/registry"
)

// storefrontSuffixes widen brand-level queries across the big marketplaces,
// which list the same catalogue under very different titles.
var storefrontSuffixes = []string{"amazon", "flipkart", "myntra", "nykaa"}

// maxFanOutQueries bounds one request's load on the search provider
const maxFanOutQueries = 5

// CandidateAdapter gathers candidate offers from the search provider. It
// widens vague brand-level queries into parallel sub-queries and always
// degrades to an empty result set instead of failing the request.
type CandidateAdapter struct {
	provider domain.SearchProvider
}

// NewCandidateAdapter creates a new candidate source adapter
func NewCandidateAdapter(provider domain.SearchProvider) *CandidateAdapter {
	return &CandidateAdapter{provider: provider}
}

// Search fetches candidate offers for the resolved identity. The returned
// slice may be empty but the call itself never fails; provider errors are
// logged and absorbed.
func (a *CandidateAdapter) Search(ctx context.Context, identity *domain.TargetIdentity, locale string) []domain.Offer {
	queries := a.buildQueries(identity)

	results := make([][]domain.Offer, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			offers, err := a.provider.SearchShopping(gctx, q, locale)
			if err != nil {
				log.Printf("[ADAPTER] Shopping search failed for %q: %v", q, err)
				return nil
			}
			results[i] = offers
			return nil
		})
	}
	g.Wait()

	// Merge in sub-query order so output is deterministic regardless of
	// which goroutine finished first
	merged := make([]domain.Offer, 0, 32)
	seenURL := make(map[string]bool)
	for _, offers := range results {
		for _, offer := range offers {
			key := offer.URL
			if n, ok := normalizeURL(offer.URL); ok {
				key = n.Host + n.Path + "?" + n.Query
			}
			if seenURL[key] {
				continue
			}
			seenURL[key] = true
			merged = append(merged, offer)
		}
	}

	if len(merged) > 0 {
		return merged
	}

	// Shopping engine came back empty; try the organic web index before
	// giving up
	log.Printf("[ADAPTER] No shopping results for %q, falling back to web search", identity.SearchQuery)
	webOffers, err := a.provider.SearchWeb(ctx, identity.SearchQuery, locale)
	if err != nil {
		log.Printf("[ADAPTER] Web search fallback failed: %v", err)
		return []domain.Offer{}
	}
	if webOffers == nil {
		webOffers = []domain.Offer{}
	}
	return webOffers
}

// buildQueries decides the sub-query fan-out for an identity. Specific
// queries (model code or long text) go out as-is; brand-level queries get
// storefront-suffixed variants.
func (a *CandidateAdapter) buildQueries(identity *domain.TargetIdentity) []string {
	base := strings.TrimSpace(identity.SearchQuery)
	if base == "" {
		base = strings.TrimSpace(identity.RawQuery)
	}

	if !isBrandLevelQuery(identity) {
		return []string{base}
	}

	queries := []string{base}
	for _, suffix := range storefrontSuffixes {
		if len(queries) >= maxFanOutQueries {
			break
		}
		queries = append(queries, base+" "+suffix)
	}
	return queries
}

// isBrandLevelQuery reports whether the query names a brand or category
// rather than one specific product.
func isBrandLevelQuery(identity *domain.TargetIdentity) bool {
	if identity.StableID != nil || identity.ModelCode != "" {
		return false
	}

	words := strings.Fields(identity.SearchQuery)
	if len(words) > 3 {
		return false
	}

	// "michael kors watches" is brand-level; "darci pave rose" is not
	if registry.BrandByAlias(identity.SearchQuery) != nil {
		return true
	}
	return len(words) <= 2
}
