package usecase

import (
	"fmt"
	"log"

	"github.com/bharatpricing/backend/internal/domain"
)

// Confidence contributions for the recommendation gate. The total is
// clamped to [0,1] and compared against the configured threshold; a
// below-threshold pool yields no recommendation at all.
const (
	confIdentityStrong = 0.60 // stable-ID or exact-URL match
	confIdentityGood   = 0.30 // URL-prefix or model-code match
	confOfficialStore  = 0.30
	confPopularStore   = 0.15
	confHighRating     = 0.05
	highRatingFloor    = 4.2
)

// RecommenderConfig holds configuration for the recommendation selector
type RecommenderConfig struct {
	MinConfidence      float64
	EnableDebugLogging bool
}

// Recommender picks the single best-value trustworthy offer, or nothing.
type Recommender struct {
	minConfidence      float64
	enableDebugLogging bool
}

// NewRecommender creates a new recommendation selector
func NewRecommender(config RecommenderConfig) *Recommender {
	threshold := config.MinConfidence
	if threshold <= 0 {
		threshold = 0.75
	}
	return &Recommender{
		minConfidence:      threshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Pick selects the cheapest offer from the trustworthy, well-matched pool
// and returns it only when its confidence clears the threshold. Returns
// nil when no offer qualifies; that is the expected outcome for vague
// queries.
func (r *Recommender) Pick(offers []domain.Offer) *domain.Recommendation {
	var best *domain.Offer
	for i := range offers {
		offer := &offers[i]
		if offer.Match == nil || offer.Trust == nil {
			continue
		}
		if offer.Trust.IsExcluded || !offer.Trust.IsTrusted() {
			continue
		}
		if offer.Match.Quality < domain.QualityModel {
			continue
		}
		if offer.Price <= 0 {
			continue
		}
		if best == nil || offer.Price < best.Price {
			best = offer
		}
	}

	if best == nil {
		return nil
	}

	confidence := r.confidence(best)
	if r.enableDebugLogging {
		log.Printf("[RECOMMEND] Candidate %q at %.2f, confidence %.2f", best.Title, best.Price, confidence)
	}
	if confidence < r.minConfidence {
		return nil
	}

	return &domain.Recommendation{
		Offer:      *best,
		Confidence: confidence,
		Reason:     recommendReason(best),
	}
}

// confidence scores how defensible recommending this offer is
func (r *Recommender) confidence(offer *domain.Offer) float64 {
	c := 0.0

	switch {
	case offer.Match.Quality >= domain.QualityURLExact:
		c += confIdentityStrong
	case offer.Match.Quality >= domain.QualityURLPrefix || offer.Match.Quality == domain.QualityModel:
		c += confIdentityGood
	}

	if offer.Trust.IsOfficial {
		c += confOfficialStore
	} else if offer.Trust.IsPopular {
		c += confPopularStore
	}

	if offer.Rating > highRatingFloor {
		c += confHighRating
	}

	if offer.Trust.IsExcluded {
		c -= 1.0
	}

	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return c
}

func recommendReason(offer *domain.Offer) string {
	store := offer.Trust.StoreName
	if store == "" {
		store = offer.Source
	}
	switch {
	case offer.Trust.IsOfficial:
		return fmt.Sprintf("best price on the official %s store", store)
	case offer.Trust.IsPopular:
		return fmt.Sprintf("best price on %s", store)
	default:
		return "best matching price"
	}
}
