package usecase

import (
	"fmt"
	"strings"

	"github.com/bharatpricing/backend/internal/domain"
)

// dedupTitleRunes is how much of the normalized title participates in the
// dedup key. Marketplace titles diverge in their trailing noise (pack
// sizes, seller blurbs), not their head.
const dedupTitleRunes = 40

// Deduplicate removes repeated listings of the same offer, keeping the
// first occurrence. Input order is preserved, so running it after the
// scorer keeps the highest-ranked copy. Applying it twice is a no-op.
func Deduplicate(offers []domain.Offer) []domain.Offer {
	seen := make(map[string]bool, len(offers))
	out := offers[:0]
	for _, offer := range offers {
		key := dedupKey(&offer)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, offer)
	}
	return out
}

// dedupKey builds the identity key of a listing: truncated normalized
// title, normalized source and exact price.
func dedupKey(offer *domain.Offer) string {
	title := strings.Join(strings.Fields(strings.ToLower(offer.Title)), " ")
	runes := []rune(title)
	if len(runes) > dedupTitleRunes {
		title = string(runes[:dedupTitleRunes])
	}
	source := strings.TrimSpace(strings.ToLower(offer.Source))
	return fmt.Sprintf("%s|%s|%.2f", title, source, offer.Price)
}
