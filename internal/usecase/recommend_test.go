package usecase

import (
	"testing"

	"github.com/bharatpricing/backend/internal/domain"
)

func trustedOffer(title string, price float64, quality domain.MatchQuality, official bool) domain.Offer {
	return domain.Offer{
		Title: title,
		Price: price,
		Trust: &domain.TrustTags{IsOfficial: official, IsPopular: !official},
		Match: &domain.MatchResult{Quality: quality},
	}
}

func TestRecommender_PicksCheapestQualified(t *testing.T) {
	r := NewRecommender(RecommenderConfig{MinConfidence: 0.75})

	offers := []domain.Offer{
		trustedOffer("expensive official", 15995, domain.QualityIDExact, true),
		trustedOffer("cheap official", 12995, domain.QualityURLExact, true),
		trustedOffer("cheapest but weak match", 9995, domain.QualityText, true),
	}
	rec := r.Pick(offers)

	if rec == nil {
		t.Fatal("rec = nil, want recommendation")
	}
	if rec.Offer.Title != "cheap official" {
		t.Errorf("picked %q, want cheapest qualified", rec.Offer.Title)
	}
	if rec.Confidence < 0.75 {
		t.Errorf("Confidence = %.2f, want >= 0.75", rec.Confidence)
	}
}

func TestRecommender_NoQualifiedPool(t *testing.T) {
	r := NewRecommender(RecommenderConfig{})

	t.Run("untrusted offers", func(t *testing.T) {
		offers := []domain.Offer{
			{Title: "x", Price: 100, Trust: &domain.TrustTags{}, Match: &domain.MatchResult{Quality: domain.QualityIDExact}},
		}
		if rec := r.Pick(offers); rec != nil {
			t.Errorf("rec = %+v, want nil for untrusted pool", rec)
		}
	})

	t.Run("excluded offers", func(t *testing.T) {
		offers := []domain.Offer{
			{Title: "tester", Price: 100,
				Trust: &domain.TrustTags{IsOfficial: true, IsExcluded: true, ExclusionReason: "tester_or_sample"},
				Match: &domain.MatchResult{Quality: domain.QualityIDExact}},
		}
		if rec := r.Pick(offers); rec != nil {
			t.Errorf("rec = %+v, want nil for excluded pool", rec)
		}
	})

	t.Run("weak matches only", func(t *testing.T) {
		offers := []domain.Offer{
			trustedOffer("weak", 100, domain.QualityPhrase, true),
		}
		if rec := r.Pick(offers); rec != nil {
			t.Errorf("rec = %+v, want nil for weak matches", rec)
		}
	})

	t.Run("zero price", func(t *testing.T) {
		offers := []domain.Offer{
			trustedOffer("no price", 0, domain.QualityIDExact, true),
		}
		if rec := r.Pick(offers); rec != nil {
			t.Errorf("rec = %+v, want nil for priceless offer", rec)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if rec := r.Pick(nil); rec != nil {
			t.Errorf("rec = %+v, want nil", rec)
		}
	})
}

func TestRecommender_ConfidenceGate(t *testing.T) {
	r := NewRecommender(RecommenderConfig{MinConfidence: 0.75})

	t.Run("model match on popular store stays below gate", func(t *testing.T) {
		// 0.30 identity + 0.15 popular = 0.45
		offers := []domain.Offer{
			trustedOffer("model match", 9995, domain.QualityModel, false),
		}
		if rec := r.Pick(offers); rec != nil {
			t.Errorf("rec with confidence %.2f, want nil below gate", rec.Confidence)
		}
	})

	t.Run("exact url on popular store clears gate", func(t *testing.T) {
		// 0.60 identity + 0.15 popular = 0.75
		offers := []domain.Offer{
			trustedOffer("url exact", 9995, domain.QualityURLExact, false),
		}
		rec := r.Pick(offers)
		if rec == nil {
			t.Fatal("rec = nil, want recommendation at exactly the gate")
		}
	})

	t.Run("high rating adds confidence", func(t *testing.T) {
		offer := trustedOffer("rated", 9995, domain.QualityModel, true)
		offer.Rating = 4.6
		// 0.30 identity + 0.30 official + 0.05 rating = 0.65, still below
		if rec := r.Pick([]domain.Offer{offer}); rec != nil {
			t.Errorf("rec = %+v, want nil at 0.65", rec)
		}
	})

	t.Run("confidence clamped to 1", func(t *testing.T) {
		offer := trustedOffer("max", 9995, domain.QualityIDExact, true)
		offer.Rating = 5.0
		rec := NewRecommender(RecommenderConfig{MinConfidence: 0.5}).Pick([]domain.Offer{offer})
		if rec == nil {
			t.Fatal("rec = nil")
		}
		if rec.Confidence > 1.0 {
			t.Errorf("Confidence = %.2f, must be clamped", rec.Confidence)
		}
	})
}

func TestRecommender_Reason(t *testing.T) {
	r := NewRecommender(RecommenderConfig{MinConfidence: 0.5})

	offer := trustedOffer("official pick", 9995, domain.QualityIDExact, true)
	offer.Trust.StoreName = "Michael Kors"
	rec := r.Pick([]domain.Offer{offer})

	if rec == nil {
		t.Fatal("rec = nil")
	}
	if rec.Reason == "" {
		t.Error("Reason must not be empty")
	}
}
