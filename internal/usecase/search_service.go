package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/bharatpricing/backend/internal/domain"
	"github.com/bharatpricing/backend/internal/infrastructure/cache"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	SearchTTL          time.Duration
	BrandTTL           time.Duration
	MinConfidence      float64
	ClassifyTopN       int
	EnableDebugLogging bool
}

// SearchService runs the full comparison pipeline for one query:
// resolve identity -> gather candidates -> tag trust -> score -> dedup ->
// classify -> recommend, wrapped in the result cache.
type SearchService struct {
	cache       domain.CacheRepository
	resolver    *IdentityResolver
	adapter     *CandidateAdapter
	tagger      *TrustTagger
	scorer      *MatchScorer
	classifier  *Classifier
	recommender *Recommender
	searchTTL   time.Duration
	brandTTL    time.Duration
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(
	cacheRepo domain.CacheRepository,
	searchProvider domain.SearchProvider,
	classifyProvider domain.ClassifyProvider,
	visionProvider domain.VisionProvider,
	fetcher domain.MetadataFetcher,
	config SearchServiceConfig,
) *SearchService {
	searchTTL := config.SearchTTL
	if searchTTL == 0 {
		searchTTL = time.Hour
	}
	brandTTL := config.BrandTTL
	if brandTTL == 0 {
		brandTTL = 6 * time.Hour
	}

	return &SearchService{
		cache:    cacheRepo,
		resolver: NewIdentityResolver(fetcher, classifyProvider),
		adapter:  NewCandidateAdapter(searchProvider),
		tagger:   NewTrustTagger(),
		scorer:   NewMatchScorer(ScorerConfig{EnableDebugLogging: config.EnableDebugLogging}),
		classifier: NewClassifier(classifyProvider, visionProvider, ClassifierConfig{
			ClassifyTopN:       config.ClassifyTopN,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		recommender: NewRecommender(RecommenderConfig{
			MinConfidence:      config.MinConfidence,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		searchTTL: searchTTL,
		brandTTL:  brandTTL,
	}
}

// Search runs the pipeline for one request.
// Flow: check cache -> resolve identity -> search -> tag -> score ->
// dedup -> classify -> recommend -> cache -> return
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error) {
	if request == nil || (strings.TrimSpace(request.Query) == "" && request.Image == "") {
		return nil, domain.ErrInvalidRequest
	}

	locale := request.Locale
	if locale == "" {
		locale = "in"
	}

	cacheKey := cache.Key("search", request.Query, locale, request.Image)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		log.Printf("[SEARCH] Cache hit for query: %q", request.Query)
		cached.Cached = true
		return cached, nil
	}

	identity, err := s.resolver.Resolve(ctx, request)
	if err != nil {
		return nil, err
	}
	log.Printf("[SEARCH] Resolved identity: brand=%q model=%q query=%q confidence=%s",
		identity.Brand, identity.ModelCode, identity.SearchQuery, identity.Confidence)

	offers := s.adapter.Search(ctx, identity, locale)
	offers = s.tagger.Tag(offers, identity)
	offers = dropExcluded(offers)
	offers = s.scorer.Score(identity, offers)
	offers = Deduplicate(offers)
	offers = s.classifier.Classify(ctx, identity, offers)

	response := &domain.SearchResponse{
		Query:          request.Query,
		Locale:         locale,
		Identity:       identity,
		ExactMatches:   []domain.Offer{},
		VariantMatches: []domain.Offer{},
		SimilarMatches: []domain.Offer{},
	}
	for _, offer := range offers {
		switch offer.Match.Classification {
		case domain.ClassExact:
			response.ExactMatches = append(response.ExactMatches, offer)
		case domain.ClassVariant:
			response.VariantMatches = append(response.VariantMatches, offer)
		default:
			response.SimilarMatches = append(response.SimilarMatches, offer)
		}
	}

	response.Recommendation = s.recommender.Pick(offers)

	if err := s.cache.Set(ctx, cacheKey, response, s.ttlFor(identity)); err != nil {
		log.Printf("[SEARCH] Failed to cache response: %v", err)
	}

	return response, nil
}

// dropExcluded removes listings flagged as non-sellable units (testers,
// samples, damaged stock). They never reach scoring or the result groups.
func dropExcluded(offers []domain.Offer) []domain.Offer {
	kept := offers[:0]
	for _, offer := range offers {
		if offer.Trust != nil && offer.Trust.IsExcluded {
			log.Printf("[SEARCH] Excluding listing %q: %s", offer.Title, offer.Trust.ExclusionReason)
			continue
		}
		kept = append(kept, offer)
	}
	return kept
}

// ttlFor picks the cache lifetime: broad brand-level results age slower
// than specific product searches.
func (s *SearchService) ttlFor(identity *domain.TargetIdentity) time.Duration {
	if isBrandLevelQuery(identity) {
		return s.brandTTL
	}
	return s.searchTTL
}

// getFromCache retrieves a previously computed response
func (s *SearchService) getFromCache(ctx context.Context, key string) (*domain.SearchResponse, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	response, ok := value.(*domain.SearchResponse)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	// Shallow copy so the Cached flag never leaks into the stored value
	copied := *response
	return &copied, nil
}
