package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bharatpricing/backend/internal/domain"
	"github.com/bharatpricing/backend/internal/infrastructure/cache"
)

func newTestService(searchProvider domain.SearchProvider, classify domain.ClassifyProvider, cacheEnabled bool) *SearchService {
	return NewSearchService(
		cache.NewMemoryCache(cacheEnabled),
		searchProvider,
		classify,
		nil,
		nil,
		SearchServiceConfig{
			SearchTTL:     time.Hour,
			BrandTTL:      6 * time.Hour,
			MinConfidence: 0.75,
			ClassifyTopN:  20,
		},
	)
}

// darciCatalogue is the canned marketplace answer for the exact-product
// scenario: same model on two stores, a variant, a look-alike and a tester.
func darciCatalogue(ctx context.Context, query, locale string) ([]domain.Offer, error) {
	return []domain.Offer{
		{Title: "Michael Kors Darci MK3190 Rose Gold Watch", Price: 12995, Source: "Amazon.in",
			URL: "https://www.amazon.in/dp/B00B7Q64CO", Rating: 4.5},
		{Title: "Michael Kors Darci MK3190 Rose Gold Watch", Price: 13495, Source: "Flipkart",
			URL: "https://www.flipkart.com/mk-darci/p/itm1?pid=WATX1"},
		{Title: "Michael Kors Darci MK3192 Silver Watch", Price: 11995, Source: "Myntra",
			URL: "https://www.myntra.com/watches/mk/darci-mk3192/1364555/buy"},
		{Title: "Sonata blush pink analog watch for women", Price: 1995, Source: "Amazon.in",
			URL: "https://www.amazon.in/dp/B0SONATA11"},
		{Title: "Michael Kors Darci MK3190 TESTER no box", Price: 7995, Source: "graymarket.example.com",
			URL: "https://graymarket.example.com/mk3190-tester"},
	}, nil
}

func TestSearch_ExactProductScenario(t *testing.T) {
	provider := &mockSearchProvider{shoppingFn: darciCatalogue}
	svc := newTestService(provider, nil, true)

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		Query: "Michael Kors Darci MK3190 rose gold",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var exactTitles []string
	for _, o := range resp.ExactMatches {
		exactTitles = append(exactTitles, o.Title)
	}
	if len(resp.ExactMatches) < 2 {
		t.Errorf("exact matches = %v, want the two MK3190 listings", exactTitles)
	}
	for _, o := range resp.ExactMatches {
		if o.Match.Score < 85 && !o.Match.Pinned {
			t.Errorf("exact match %q has score %d", o.Title, o.Match.Score)
		}
	}

	// The MK3192 must not land in exact
	for _, o := range resp.ExactMatches {
		if o.Title == "Michael Kors Darci MK3192 Silver Watch" {
			t.Error("variant MK3192 classified as exact")
		}
	}

	// The Sonata look-alike stays out of exact and variant
	for _, o := range append(resp.ExactMatches, resp.VariantMatches...) {
		if o.Source == "Amazon.in" && o.Price == 1995 {
			t.Error("look-alike leaked into exact/variant groups")
		}
	}

	// The tester listing is dropped from every group
	all := append(append(resp.ExactMatches, resp.VariantMatches...), resp.SimilarMatches...)
	for _, o := range all {
		if o.Source == "graymarket.example.com" {
			t.Error("tester listing leaked into result groups")
		}
	}

	// A text query never anchors the identity strongly enough to clear
	// the recommendation confidence gate
	if resp.Recommendation != nil {
		t.Errorf("recommendation = %+v, want nil for text-resolved identity", resp.Recommendation)
	}
	if resp.Cached {
		t.Error("first response must not be flagged cached")
	}
}

func TestSearch_PastedURLPinsAndRecommends(t *testing.T) {
	provider := &mockSearchProvider{shoppingFn: darciCatalogue}
	fetcher := &mockFetcher{
		metaFn: func(ctx context.Context, rawURL string) (*domain.PageMetadata, error) {
			return &domain.PageMetadata{
				CanonicalURL: "https://www.amazon.in/dp/B00B7Q64CO",
				Product: &domain.StructuredProduct{
					Name:  "Michael Kors Darci MK3190 Rose Gold Watch",
					Brand: "Michael Kors",
				},
			}, nil
		},
	}
	svc := NewSearchService(
		cache.NewMemoryCache(false),
		provider, nil, nil, fetcher,
		SearchServiceConfig{MinConfidence: 0.75},
	)

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		Query: "https://www.amazon.in/dp/B00B7Q64CO",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.ExactMatches) == 0 {
		t.Fatal("no exact matches for a pasted product URL")
	}
	top := resp.ExactMatches[0]
	if !top.Match.Pinned || top.Match.Quality != domain.QualityIDExact {
		t.Errorf("top exact match %q quality=%s pinned=%v, want pinned stable-ID hit",
			top.Title, top.Match.Quality, top.Match.Pinned)
	}
	if top.URL != "https://www.amazon.in/dp/B00B7Q64CO" {
		t.Errorf("top exact match URL = %q, want the stable-ID listing to outrank same-title offers", top.URL)
	}

	if resp.Recommendation == nil {
		t.Fatal("recommendation = nil, want the stable-ID listing")
	}
	if resp.Recommendation.Offer.Price != 12995 {
		t.Errorf("recommended price = %.0f, want 12995", resp.Recommendation.Offer.Price)
	}
	if resp.Recommendation.Confidence < 0.75 {
		t.Errorf("confidence = %.2f, below the emission gate", resp.Recommendation.Confidence)
	}
}

func TestSearch_AllTestersMeansEmptyGroups(t *testing.T) {
	provider := &mockSearchProvider{
		shoppingFn: func(ctx context.Context, query, locale string) ([]domain.Offer, error) {
			return []domain.Offer{
				{Title: "Michael Kors Darci MK3190 TESTER", Price: 7995, Source: "graymarket.example.com",
					URL: "https://graymarket.example.com/mk3190-tester"},
				{Title: "MK3190 watch unboxed open box", Price: 8995, Source: "dealhub.example.com",
					URL: "https://dealhub.example.com/mk3190-unboxed"},
			}, nil
		},
	}
	svc := newTestService(provider, nil, false)

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		Query: "Michael Kors Darci MK3190 rose gold",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(resp.ExactMatches) + len(resp.VariantMatches) + len(resp.SimilarMatches); n != 0 {
		t.Errorf("got %d offers across groups, want none when every listing is excluded", n)
	}
	if resp.Recommendation != nil {
		t.Error("recommendation must be nil when every listing is excluded")
	}
}

func TestSearch_TesterNeverRecommended(t *testing.T) {
	provider := &mockSearchProvider{shoppingFn: darciCatalogue}
	svc := newTestService(provider, nil, false)

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		Query: "Michael Kors Darci MK3190 rose gold",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Recommendation != nil && resp.Recommendation.Offer.Trust.IsExcluded {
		t.Error("excluded tester listing was recommended")
	}
}

func TestSearch_AmbiguousQueryNoRecommendation(t *testing.T) {
	provider := &mockSearchProvider{
		shoppingFn: func(ctx context.Context, query, locale string) ([]domain.Offer, error) {
			return []domain.Offer{
				{Title: "Allen Solly Men Blue Shirt", Price: 999, Source: "Amazon.in", URL: "https://www.amazon.in/dp/B0SHIRT01"},
				{Title: "Roadster Men Blue Casual Shirt", Price: 799, Source: "Myntra", URL: "https://www.myntra.com/shirts/roadster/123456/buy"},
			}, nil
		},
	}
	svc := newTestService(provider, nil, false)

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "blue shirt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Recommendation != nil {
		t.Errorf("recommendation = %+v, want nil for ambiguous query", resp.Recommendation)
	}
	if len(resp.SimilarMatches) == 0 {
		t.Error("ambiguous query should still return similar offers")
	}
}

func TestSearch_ProviderOutageDegrades(t *testing.T) {
	searchProvider := &mockSearchProvider{shoppingFn: darciCatalogue}
	classify := &mockClassifyProvider{
		available: true,
		extractFn: func(ctx context.Context, text string) (*domain.ProductAttributes, error) {
			return nil, errors.New("timeout")
		},
		classifyFn: func(ctx context.Context, identity *domain.TargetIdentity, candidates []domain.Offer) (map[int]domain.ClassifyVerdict, error) {
			return nil, errors.New("timeout")
		},
	}
	svc := newTestService(searchProvider, classify, false)

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		Query: "Michael Kors Darci MK3190 rose gold",
	})
	if err != nil {
		t.Fatalf("pipeline must degrade, got error: %v", err)
	}
	if len(resp.ExactMatches)+len(resp.VariantMatches)+len(resp.SimilarMatches) == 0 {
		t.Error("no offers returned despite working search provider")
	}
}

func TestSearch_SearchFailureReturnsEmptyGroups(t *testing.T) {
	provider := &mockSearchProvider{
		shoppingFn: func(ctx context.Context, query, locale string) ([]domain.Offer, error) {
			return nil, domain.ErrSearchAPIFailure
		},
		webFn: func(ctx context.Context, query, locale string) ([]domain.Offer, error) {
			return nil, domain.ErrSearchAPIFailure
		},
	}
	svc := newTestService(provider, nil, false)

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "titan raga watch"})
	if err != nil {
		t.Fatalf("total search outage must not fail the request: %v", err)
	}
	if resp.ExactMatches == nil || resp.VariantMatches == nil || resp.SimilarMatches == nil {
		t.Error("groups must be empty slices, not nil")
	}
	if resp.Recommendation != nil {
		t.Error("recommendation must be nil with no offers")
	}
}

func TestSearch_CacheRoundTrip(t *testing.T) {
	calls := 0
	provider := &mockSearchProvider{
		shoppingFn: func(ctx context.Context, query, locale string) ([]domain.Offer, error) {
			calls++
			return darciCatalogue(ctx, query, locale)
		},
	}
	svc := newTestService(provider, nil, true)
	request := &domain.SearchRequest{Query: "Michael Kors Darci MK3190 rose gold"}

	first, err := svc.Search(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstCalls := calls

	second, err := svc.Search(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != firstCalls {
		t.Errorf("second search hit the provider (%d calls)", calls)
	}
	if !second.Cached {
		t.Error("second response must be flagged cached")
	}
	if first.Cached {
		t.Error("first response must not be flagged cached")
	}
	if len(second.ExactMatches) != len(first.ExactMatches) {
		t.Error("cached response differs from original")
	}
}

func TestSearch_CacheDisabledAlwaysRecomputes(t *testing.T) {
	calls := 0
	provider := &mockSearchProvider{
		shoppingFn: func(ctx context.Context, query, locale string) ([]domain.Offer, error) {
			calls++
			return darciCatalogue(ctx, query, locale)
		},
	}
	svc := newTestService(provider, nil, false)
	request := &domain.SearchRequest{Query: "Michael Kors Darci MK3190 rose gold"}

	svc.Search(context.Background(), request)
	callsAfterFirst := calls
	resp, _ := svc.Search(context.Background(), request)

	if calls <= callsAfterFirst {
		t.Error("disabled cache must re-invoke the search provider")
	}
	if resp.Cached {
		t.Error("response must not be flagged cached with cache disabled")
	}
}

func TestSearch_InvalidRequest(t *testing.T) {
	svc := newTestService(&mockSearchProvider{}, nil, false)

	if _, err := svc.Search(context.Background(), nil); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
	if _, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "  "}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}
