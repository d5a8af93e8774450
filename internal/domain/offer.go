package domain

// Offer represents one marketplace listing returned for a query.
// Created fresh per request and discarded after the response; derived
// annotations live in the optional Trust and Match fields, which are
// populated by the trust tagger and match scorer respectively.
type Offer struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
	Source   string  `json:"source"`
	URL      string  `json:"url"`
	ImageURL string  `json:"image,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Reviews  int     `json:"reviews,omitempty"`
	Delivery string  `json:"delivery,omitempty"`

	Trust *TrustTags   `json:"trust,omitempty"`
	Match *MatchResult `json:"match,omitempty"`
}

// StoreTier classifies a registry storefront.
type StoreTier string

const (
	TierMarketplace StoreTier = "popular_marketplace"
	TierSpecialist  StoreTier = "specialist"
	TierPharmacy    StoreTier = "pharmacy"
)

// TrustTags holds derived trust annotations for an offer. They are never
// persisted; the registry is the only source of truth.
type TrustTags struct {
	IsOfficial      bool      `json:"is_official"`
	IsPopular       bool      `json:"is_popular"`
	IsCleanBeauty   bool      `json:"is_clean_beauty,omitempty"`
	IsExcluded      bool      `json:"is_excluded,omitempty"`
	ExclusionReason string    `json:"exclusion_reason,omitempty"`
	StoreName       string    `json:"store_name,omitempty"`
	StoreTier       StoreTier `json:"store_tier,omitempty"`
}

// IsTrusted reports whether the offer comes from an official brand site or
// a recognized marketplace.
func (t *TrustTags) IsTrusted() bool {
	if t == nil {
		return false
	}
	return t.IsOfficial || t.IsPopular
}
