package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/bharatpricing/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// Tier scores. Each tier must outrank every possible total of the tiers
// below it, so a single stable-ID hit always beats any pile of text bonuses.
const (
	scoreStableID  = 1500
	scoreURLExact  = 1200
	scoreURLPrefix = 800
	scoreModelCode = 90
	scorePhrase    = 40
	scorePerTerm   = 5
	scoreTermCap   = 35
)

// Scoring bonuses and penalties
const (
	brandMatchBonus        = 20
	trustedStoreBonus      = 20
	cleanBeautyBonus       = 10
	fingerprintAgreeBonus  = 15
	fingerprintConflictPen = -30
	modelConflictPen       = -30
)

// searchStopWords are tokens ignored during term scoring
var searchStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
	"buy": true, "online": true, "price": true, "best": true, "new": true,
	"original": true, "genuine": true, "free": true, "delivery": true,
	"sale": true, "offer": true, "off": true, "discount": true,
}

// ScorerConfig holds configuration for the match scorer
type ScorerConfig struct {
	EnableDebugLogging bool
}

// MatchScorer assigns a tiered relevance score to each candidate offer
// against the target identity.
type MatchScorer struct {
	enableDebugLogging bool
}

// NewMatchScorer creates a new match scorer
func NewMatchScorer(config ScorerConfig) *MatchScorer {
	return &MatchScorer{enableDebugLogging: config.EnableDebugLogging}
}

// Score annotates every offer with a MatchResult and returns the slice
// sorted by score descending. Pinned offers (stable-ID or exact-URL hits)
// always sort ahead of unpinned ones.
func (s *MatchScorer) Score(identity *domain.TargetIdentity, offers []domain.Offer) []domain.Offer {
	for i := range offers {
		offers[i].Match = s.scoreOne(identity, &offers[i])
	}

	sort.SliceStable(offers, func(i, j int) bool {
		mi, mj := offers[i].Match, offers[j].Match
		if mi.Pinned != mj.Pinned {
			return mi.Pinned
		}
		return mi.Score > mj.Score
	})
	return offers
}

func (s *MatchScorer) scoreOne(identity *domain.TargetIdentity, offer *domain.Offer) *domain.MatchResult {
	result := &domain.MatchResult{Quality: domain.QualityNone}
	var reasons []string

	// Identity tiers, strongest first. Only the strongest hit sets the
	// quality; lower-tier text signals still add to the score.
	if id := extractStableID(offer.URL); id != nil && identity.StableID != nil &&
		id.Type == identity.StableID.Type && id.Value == identity.StableID.Value {
		result.Score += scoreStableID
		result.Quality = domain.QualityIDExact
		result.Pinned = true
		reasons = append(reasons, "stable_id")
	} else if target := identity.CanonicalURL; target != "" || identity.ResolvedURL != "" {
		if target == "" {
			target = identity.ResolvedURL
		}
		switch urlsMatch(target, offer.URL) {
		case urlMatchExact:
			result.Score += scoreURLExact
			result.Quality = domain.QualityURLExact
			result.Pinned = true
			reasons = append(reasons, "url_exact")
		case urlMatchPrefix:
			result.Score += scoreURLPrefix
			result.Quality = domain.QualityURLPrefix
			reasons = append(reasons, "url_prefix")
		}
	}

	titleUpper := strings.ToUpper(offer.Title)
	if identity.ModelCode != "" {
		if strings.Contains(titleUpper, identity.ModelCode) ||
			normalizeModelToken(ExtractModelCode(offer.Title)) == identity.ModelCode {
			result.Score += scoreModelCode
			if result.Quality < domain.QualityModel {
				result.Quality = domain.QualityModel
			}
			reasons = append(reasons, "model_code")
		} else if offerModel := ExtractModelCode(offer.Title); offerModel != "" {
			// The title carries a different model number. Same product
			// line, wrong variant.
			result.Score += modelConflictPen
			reasons = append(reasons, "model_conflict")
		}
	}

	titleLower := strings.ToLower(offer.Title)
	queryLower := strings.ToLower(identity.SearchQuery)
	if phraseMatch(queryLower, titleLower) ||
		phraseMatch(strings.ToLower(identity.ProductName), titleLower) {
		result.Score += scorePhrase
		if result.Quality < domain.QualityPhrase {
			result.Quality = domain.QualityPhrase
		}
		reasons = append(reasons, "phrase")
	}

	if termScore := s.termScore(queryLower, titleLower); termScore > 0 {
		result.Score += termScore
		if result.Quality < domain.QualityText {
			result.Quality = domain.QualityText
		}
		reasons = append(reasons, "terms")
	}

	// Bonuses never change the quality tier, only break ties inside it
	if identity.Brand != "" && strings.Contains(titleLower, strings.ToLower(identity.Brand)) {
		result.Score += brandMatchBonus
		reasons = append(reasons, "brand")
	}
	if offer.Trust.IsTrusted() {
		result.Score += trustedStoreBonus
		reasons = append(reasons, "trusted_store")
	}
	if offer.Trust != nil && offer.Trust.IsCleanBeauty {
		result.Score += cleanBeautyBonus
		reasons = append(reasons, "clean_beauty")
	}

	agree, conflict := fingerprintCompare(identity.Fingerprint, offer.Title)
	result.Score += agree * fingerprintAgreeBonus
	result.Score += conflict * fingerprintConflictPen
	if agree > 0 {
		reasons = append(reasons, "fingerprint_agree")
	}
	if conflict > 0 {
		reasons = append(reasons, "fingerprint_conflict")
	}

	if result.Score < 0 {
		result.Score = 0
	}
	result.Reasons = reasons

	if s.enableDebugLogging {
		log.Printf("[SCORE] %q | score=%d quality=%s pinned=%v reasons=%v",
			offer.Title, result.Score, result.Quality, result.Pinned, reasons)
	}
	return result
}

// phraseMatch reports whether any two-word window of the query appears
// verbatim in the title. Both inputs must already be lowercased.
func phraseMatch(query, title string) bool {
	words := strings.Fields(query)
	if len(words) < 2 {
		return false
	}
	for i := 0; i+1 < len(words); i++ {
		if strings.Contains(title, words[i]+" "+words[i+1]) {
			return true
		}
	}
	return false
}

// termScore awards points per distinct query term found in the title,
// capped so accumulated term hits cannot impersonate a phrase match plus
// meaningful bonuses.
func (s *MatchScorer) termScore(query, title string) int {
	titleTokens := map[string]bool{}
	for _, tok := range tokenize(title) {
		titleTokens[tok] = true
	}

	score := 0
	for _, tok := range tokenize(query) {
		if titleTokens[tok] {
			score += scorePerTerm
		}
	}
	if score > scoreTermCap {
		score = scoreTermCap
	}
	return score
}

// fingerprintCompare counts agreeing and conflicting attributes between
// the target fingerprint and a candidate title. An attribute conflicts
// when the title names a different value from the same vocabulary.
func fingerprintCompare(fp domain.Fingerprint, title string) (agree, conflict int) {
	if fp.Empty() {
		return 0, 0
	}
	lower := " " + strings.ToLower(title) + " "

	check := func(want string, vocab []string) {
		if want == "" {
			return
		}
		if containsWord(lower, want) {
			agree++
			return
		}
		for _, v := range vocab {
			if v == want || strings.Contains(want, v) {
				continue
			}
			if containsWord(lower, v) {
				conflict++
				return
			}
		}
	}

	check(fp.Collection, knownCollections)
	check(fp.Color, knownColors)
	check(fp.Material, knownMaterials)
	check(fp.Category, knownCategories)
	return agree, conflict
}

// tokenize splits a string into normalized lowercase tokens, dropping
// punctuation, stop words and single characters. Digit-bearing tokens are
// kept; they are often part of a model number.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 {
			continue
		}
		if searchStopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
