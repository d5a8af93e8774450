package usecase

import (
	"context"
	"log"

	"github.com/bharatpricing/backend/internal/domain"
)

// Classification thresholds for offers beyond the provider batch. These
// apply to raw match scores, so a model-code hit plus a couple of bonuses
// clears the exact bar while bare term matches never do.
const (
	tailExactThreshold   = 85
	tailVariantThreshold = 60
)

// Visual refinement thresholds for image-backed searches
const (
	visualDemoteBelow  = 40
	visualPromoteAbove = 80
)

// ClassifierConfig holds configuration for the classifier
type ClassifierConfig struct {
	ClassifyTopN       int
	EnableDebugLogging bool
}

// Classifier labels scored offers as exact, variant or similar. The
// deterministic tier mapping always runs; the semantic provider refines the
// top candidates when available, and the vision provider arbitrates
// image-backed searches.
type Classifier struct {
	provider           domain.ClassifyProvider
	vision             domain.VisionProvider
	classifyTopN       int
	enableDebugLogging bool
}

// NewClassifier creates a new classifier. Both providers may be nil.
func NewClassifier(provider domain.ClassifyProvider, vision domain.VisionProvider, config ClassifierConfig) *Classifier {
	topN := config.ClassifyTopN
	if topN <= 0 {
		topN = 20
	}
	return &Classifier{
		provider:           provider,
		vision:             vision,
		classifyTopN:       topN,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Classify assigns a classification to every scored offer in place. Input
// must already be sorted by the scorer; relative order is preserved.
func (c *Classifier) Classify(ctx context.Context, identity *domain.TargetIdentity, offers []domain.Offer) []domain.Offer {
	providerUp := c.provider != nil && c.provider.Available()

	if weakIdentity(identity) && !providerUp {
		// Nothing deterministic to attest exactness against. Without
		// the provider everything stays a lookalike, though the vision
		// pass below can still rescue image-backed candidates.
		for i := range offers {
			offers[i].Match.Classification = domain.ClassSimilar
		}
	} else {
		for i := range offers {
			offers[i].Match.Classification = baseClassification(offers[i].Match)
		}
		c.refineWithProvider(ctx, identity, offers)
	}

	if identity.ImageURL != "" {
		c.refineWithVision(ctx, identity, offers)
	}

	return offers
}

// weakIdentity reports whether the target lacks every anchor a candidate
// could be deterministically matched against.
func weakIdentity(identity *domain.TargetIdentity) bool {
	return identity.StableID == nil &&
		identity.ModelCode == "" &&
		identity.CanonicalURL == "" &&
		identity.ResolvedURL == "" &&
		identity.Fingerprint.Collection == ""
}

// baseClassification maps a match tier onto a classification. Pinned
// identity hits are exact by construction; a URL-prefix hit is the same
// product page family with possible variant differences. Everything else
// falls through to score thresholds.
func baseClassification(m *domain.MatchResult) domain.Classification {
	switch {
	case m.Quality >= domain.QualityURLExact:
		return domain.ClassExact
	case m.Quality == domain.QualityURLPrefix:
		return domain.ClassVariant
	case m.Score >= tailExactThreshold:
		return domain.ClassExact
	case m.Score >= tailVariantThreshold:
		return domain.ClassVariant
	default:
		return domain.ClassSimilar
	}
}

// refineWithProvider sends the top candidates to the semantic provider in one
// batch. Provider verdicts override the deterministic label for those
// candidates except where a pinned identity hit says otherwise; the tail
// keeps its threshold-based labels. Provider failure changes nothing.
func (c *Classifier) refineWithProvider(ctx context.Context, identity *domain.TargetIdentity, offers []domain.Offer) {
	if c.provider == nil || !c.provider.Available() || len(offers) == 0 {
		return
	}

	n := c.classifyTopN
	if n > len(offers) {
		n = len(offers)
	}
	head := offers[:n]

	verdicts, err := c.provider.ClassifyBatch(ctx, identity, head)
	if err != nil {
		log.Printf("[CLASSIFY] Provider batch failed, keeping deterministic labels: %v", err)
		return
	}

	for i := range head {
		verdict, ok := verdicts[i]
		if !ok {
			continue
		}
		// A stable-ID or exact-URL hit is ground truth the provider
		// cannot overturn
		if head[i].Match.Pinned && verdict.Classification != domain.ClassExact {
			continue
		}
		if c.enableDebugLogging {
			log.Printf("[CLASSIFY] Provider override %q: %s -> %s (%.2f)",
				head[i].Title, head[i].Match.Classification, verdict.Classification, verdict.Confidence)
		}
		head[i].Match.Classification = verdict.Classification
		head[i].Match.Confidence = verdict.Confidence
		head[i].Match.VerdictReason = verdict.Reason
	}
}

// refineWithVision compares candidate images against the target image and
// adjusts borderline labels. A visually alien exact demotes to variant
// whenever a target image exists; promotion to exact only happens for
// image-initiated searches, where text evidence is thin and even a
// low-scoring lookalike can turn out to be the product itself.
func (c *Classifier) refineWithVision(ctx context.Context, identity *domain.TargetIdentity, offers []domain.Offer) {
	if c.vision == nil || !c.vision.Available() {
		return
	}

	n := c.classifyTopN
	if n > len(offers) {
		n = len(offers)
	}

	for i := 0; i < n; i++ {
		offer := &offers[i]
		if offer.ImageURL == "" {
			continue
		}
		// Lookalikes only matter visually when the search started from
		// an image; for text searches they stay where the scorer put them.
		if offer.Match.Classification == domain.ClassSimilar && !identity.ImageSearch {
			continue
		}

		match, err := c.vision.CompareImages(ctx, identity.ImageURL, offer.ImageURL)
		if err != nil {
			log.Printf("[CLASSIFY] Vision compare failed for %q: %v", offer.Title, err)
			continue
		}
		offer.Match.VisualScore = match.VisualScore

		switch {
		case match.VisualScore < visualDemoteBelow &&
			offer.Match.Classification == domain.ClassExact && !offer.Match.Pinned:
			offer.Match.Classification = domain.ClassVariant
		case identity.ImageSearch && match.VisualScore >= visualPromoteAbove &&
			offer.Match.Classification != domain.ClassExact:
			offer.Match.Classification = domain.ClassExact
		}
	}
}
