package usecase

import (
	"regexp"
	"strings"

	"github.com/bharatpricing/backend/internal/domain"
	"github.com/bharatpricing/backend/internal/registry"
)

// exclusionRegex flags listings that are not sellable retail units:
// testers, samples, damaged or unboxed stock.
var exclusionRegex = regexp.MustCompile(`(?i)\b(tester|tstr|sample|damage|damaged|unboxed)\b`)

const exclusionReasonTester = "tester_or_sample"

// TrustTagger annotates offers with registry-derived trust signals. It is
// stateless; the registry tables are its only input besides the offer.
type TrustTagger struct{}

// NewTrustTagger creates a new trust tagger
func NewTrustTagger() *TrustTagger {
	return &TrustTagger{}
}

// Tag annotates every offer in place and returns the same slice
func (t *TrustTagger) Tag(offers []domain.Offer, identity *domain.TargetIdentity) []domain.Offer {
	for i := range offers {
		offers[i].Trust = t.tagOne(&offers[i], identity)
	}
	return offers
}

func (t *TrustTagger) tagOne(offer *domain.Offer, identity *domain.TargetIdentity) *domain.TrustTags {
	tags := &domain.TrustTags{}

	host, path := urlHostPath(offer.URL)

	store := registry.StoreByHost(host)
	if store == nil {
		store = registry.StoreBySourceName(offer.Source)
	}
	if store != nil {
		tags.StoreName = store.DisplayName
		tags.StoreTier = store.Tier
		// Every registry storefront counts as popular, whatever its tier.
		tags.IsPopular = true
	}

	brand := registry.BrandByAlias(offer.Title)
	if brand == nil && identity != nil && identity.Brand != "" {
		brand = registry.BrandByAlias(identity.Brand)
	}
	if brand != nil {
		tags.IsOfficial = registry.OfficialDomainFor(brand, host, path) ||
			sourceLooksOfficial(offer.Source, brand.DisplayName)
		// An official brand channel is always a known storefront too.
		if tags.IsOfficial {
			tags.IsPopular = true
		}
		// Clean-beauty brands get flagged on their own site and on the
		// marketplaces trusted to stock their genuine lines
		if brand.IsCleanBeauty && (tags.IsOfficial || registry.IsTrustedGeneralMarketplace(store)) {
			tags.IsCleanBeauty = true
		}
	}

	if exclusionRegex.MatchString(offer.Title) || exclusionRegex.MatchString(path) {
		tags.IsExcluded = true
		tags.ExclusionReason = exclusionReasonTester
	}

	return tags
}

// sourceLooksOfficial reports whether the provider-reported source name is
// the brand itself (providers sometimes return names instead of links).
func sourceLooksOfficial(source, brandName string) bool {
	if source == "" || brandName == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(source), strings.TrimSpace(brandName))
}
