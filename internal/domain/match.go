package domain

// MatchQuality is the strongest signal tier that contributed to a match
// score. Higher values always dominate lower ones.
type MatchQuality int

const (
	QualityNone MatchQuality = iota
	QualityText
	QualityPhrase
	QualityModel
	QualityURLPrefix
	QualityURLExact
	QualityIDExact
)

// String returns the wire name for a match quality tier.
func (q MatchQuality) String() string {
	switch q {
	case QualityIDExact:
		return "id_exact"
	case QualityURLExact:
		return "url_exact"
	case QualityURLPrefix:
		return "url_prefix"
	case QualityModel:
		return "model"
	case QualityPhrase:
		return "phrase"
	case QualityText:
		return "text"
	default:
		return "none"
	}
}

// MarshalJSON encodes the quality as its wire name.
func (q MatchQuality) MarshalJSON() ([]byte, error) {
	return []byte(`"` + q.String() + `"`), nil
}

// Classification is the final label of a candidate offer against the
// target identity.
type Classification string

const (
	ClassExact   Classification = "EXACT_MATCH"
	ClassVariant Classification = "VARIANT_MATCH"
	ClassSimilar Classification = "SIMILAR"
)

// MatchResult is the scorer/classifier output attached to an offer.
type MatchResult struct {
	Score          int            `json:"score"`
	Quality        MatchQuality   `json:"quality"`
	Pinned         bool           `json:"pinned,omitempty"`
	Classification Classification `json:"classification,omitempty"`
	Confidence     float64        `json:"confidence,omitempty"`
	Reasons        []string       `json:"reasons,omitempty"`
	VisualScore    int            `json:"visual_score,omitempty"`
	VerdictReason  string         `json:"verdict_reason,omitempty"`
}

// ClassifyVerdict is one entry of the semantic classification provider's
// batched response.
type ClassifyVerdict struct {
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	Reason         string         `json:"reason,omitempty"`
}

// VisualMatch is the visual comparison provider's opinion on two images.
type VisualMatch struct {
	VisualScore int    `json:"visual_score"`
	MatchType   string `json:"match_type"`
}

// Recommendation is the confidence-gated best pick for a query. Its
// absence is a valid, expected outcome.
type Recommendation struct {
	Offer      Offer   `json:"offer"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
}

// SearchRequest is an incoming comparison query. Query may be plain text
// or a pasted product URL; Image optionally carries a base64 product photo.
type SearchRequest struct {
	Query  string `json:"query"`
	Locale string `json:"locale,omitempty"`
	Image  string `json:"image,omitempty"`
}

// SearchResponse is the full pipeline output for one query. Result groups
// may be empty and the recommendation nil; downstream callers never see a
// hard failure.
type SearchResponse struct {
	Query          string          `json:"query"`
	Locale         string          `json:"locale"`
	Identity       *TargetIdentity `json:"identity"`
	ExactMatches   []Offer         `json:"exact_matches"`
	VariantMatches []Offer         `json:"variant_matches"`
	SimilarMatches []Offer         `json:"similar_matches"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Cached         bool            `json:"cached"`
}
