package domain

// ExtractionConfidence reflects which extraction tier produced the identity.
type ExtractionConfidence string

const (
	ConfidenceHigh   ExtractionConfidence = "high"
	ConfidenceMedium ExtractionConfidence = "medium"
	ConfidenceLow    ExtractionConfidence = "low"
)

// StableID is a marketplace-assigned catalogue identifier recovered from a
// URL (e.g. an Amazon ASIN). It is stronger evidence of product identity
// than any text signal.
type StableID struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Fingerprint holds secondary identity attributes used to break ties or
// detect conflicts between look-alike products.
type Fingerprint struct {
	Collection string `json:"collection,omitempty"`
	Color      string `json:"color,omitempty"`
	Material   string `json:"material,omitempty"`
	Category   string `json:"category,omitempty"`
}

// Empty reports whether no fingerprint attribute was extracted.
func (f Fingerprint) Empty() bool {
	return f.Collection == "" && f.Color == "" && f.Material == "" && f.Category == ""
}

// TargetIdentity is the resolved description of the specific product the
// user means. At most one stable ID per identity.
type TargetIdentity struct {
	RawQuery     string               `json:"raw_query"`
	ResolvedURL  string               `json:"resolved_url,omitempty"`
	CanonicalURL string               `json:"canonical_url,omitempty"`
	StableID     *StableID            `json:"stable_id,omitempty"`
	Brand        string               `json:"brand,omitempty"`
	ProductName  string               `json:"product_name,omitempty"`
	ModelCode    string               `json:"model_code,omitempty"`
	SearchQuery  string               `json:"search_query"`
	Fingerprint  Fingerprint          `json:"fingerprint"`
	ImageURL     string               `json:"image_url,omitempty"`
	ImageSearch  bool                 `json:"is_image_search,omitempty"`
	Confidence   ExtractionConfidence `json:"confidence"`
	Method       string               `json:"extraction_method,omitempty"`
}

// Ambiguous reports whether the identity carries no strong signal at all:
// no stable ID, no model code, and an empty fingerprint. The classifier
// then relies solely on the provider and raw text.
func (t *TargetIdentity) Ambiguous() bool {
	return t.StableID == nil && t.ModelCode == "" && t.Fingerprint.Empty()
}

// ProductAttributes is the structured output of the text-cleanup and image
// analysis providers.
type ProductAttributes struct {
	Brand       string `json:"brand"`
	ProductName string `json:"product_name"`
	Model       string `json:"model,omitempty"`
	Category    string `json:"category,omitempty"`
	Color       string `json:"color,omitempty"`
	Material    string `json:"material,omitempty"`
	Collection  string `json:"collection,omitempty"`
	SearchQuery string `json:"search_query"`
	Confidence  string `json:"confidence,omitempty"`
}
