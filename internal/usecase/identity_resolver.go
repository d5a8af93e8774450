package usecase

import (
	"context"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/bharatpricing/backend/internal/domain"
	"github.com/bharatpricing/backend/internal/registry"
)

// Stable catalogue identifier patterns, checked against the resolved URL.
var (
	asinRegex        = regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})(?:[/?]|$)`)
	flipkartPidRegex = regexp.MustCompile(`[?&]pid=([A-Z0-9]+)`)
	myntraStyleRegex = regexp.MustCompile(`/(\d{6,})(?:/buy)?/?$`)
	modelPageRegex   = regexp.MustCompile(`/([A-Z]{1,4}\d{3,}[A-Z0-9]*)\.html$`)
)

// modelTokenRegex matches candidate model-code tokens in uppercase text
var modelTokenRegex = regexp.MustCompile(`\b[A-Z0-9][A-Z0-9-]{2,}\b`)

// modelStopWords are digit-bearing or code-shaped tokens that are never
// model codes (sizes, pack counts, colors that survive uppercasing).
var modelStopWords = map[string]bool{
	"SIZE": true, "PACK": true, "WITH": true, "BLACK": true, "WHITE": true,
	"BLUE": true, "GOLD": true, "WOMEN": true, "MENS": true, "KIDS": true,
	"ROSE": true, "WATCH": true, "DARCI": true,
	"1PC": true, "2PC": true, "100ML": true, "50ML": true, "500G": true, "1KG": true,
}

// Fingerprint vocabularies. Multi-word entries are listed before their
// single-word substrings so "rose gold" wins over "gold".
var (
	knownCollections = []string{
		"darci", "parker", "lexington", "corey", "runway", "bradshaw",
		"portia", "pyper", "grant", "neutra", "townsman", "machine",
		"raga", "jacqueline", "camille",
	}
	knownColors = []string{
		"rose gold", "gold", "silver", "black", "white", "blue", "brown",
		"green", "red", "pink", "grey", "gray", "navy", "beige", "maroon",
	}
	knownMaterials = []string{
		"stainless steel", "steel", "leather", "silicone", "ceramic",
		"mesh", "canvas", "rubber", "denim", "cotton", "silk", "linen",
	}
	knownCategories = []string{
		"smartwatch", "watch", "handbag", "bag", "wallet", "sneakers",
		"sneaker", "shoes", "shoe", "perfume", "lipstick", "kurta",
		"saree", "sunglasses", "face wash", "shampoo", "serum",
		"moisturizer", "jeans", "t-shirt", "shirt", "dress",
	}
)

// boilerplateSegments are URL path segments that carry no product identity
var boilerplateSegments = map[string]bool{
	"p": true, "dp": true, "gp": true, "product": true, "products": true,
	"item": true, "itm": true, "buy": true, "shop": true, "en": true,
	"in": true, "en-in": true, "en_in": true, "us": true, "category": true,
}

// IdentityResolver turns a raw query (text, URL, or image) into a
// TargetIdentity describing the specific product the user means.
type IdentityResolver struct {
	fetcher  domain.MetadataFetcher
	provider domain.ClassifyProvider
}

// NewIdentityResolver creates a new identity resolver. Either dependency
// may be nil; the resolver then skips the corresponding enrichment step.
func NewIdentityResolver(fetcher domain.MetadataFetcher, provider domain.ClassifyProvider) *IdentityResolver {
	return &IdentityResolver{fetcher: fetcher, provider: provider}
}

// Resolve builds the target identity for a search request. It never fails
// on enrichment errors: every external step degrades to the next weaker
// extraction tier, and only an empty request is rejected.
func (r *IdentityResolver) Resolve(ctx context.Context, request *domain.SearchRequest) (*domain.TargetIdentity, error) {
	if request == nil || (strings.TrimSpace(request.Query) == "" && request.Image == "") {
		return nil, domain.ErrInvalidRequest
	}

	if request.Image != "" {
		return r.resolveFromImage(ctx, request)
	}

	query := strings.TrimSpace(request.Query)
	if isProductURL(query) {
		return r.resolveFromURL(ctx, query)
	}
	return r.resolveFromText(ctx, query), nil
}

// isProductURL reports whether the query is a pasted link
func isProductURL(query string) bool {
	if strings.Contains(query, " ") {
		return false
	}
	return strings.HasPrefix(query, "http://") ||
		strings.HasPrefix(query, "https://") ||
		strings.HasPrefix(query, "www.")
}

// resolveFromImage identifies the product via the vision-capable provider.
// When analysis fails and the request carries query text, resolution falls
// back to the text path.
func (r *IdentityResolver) resolveFromImage(ctx context.Context, request *domain.SearchRequest) (*domain.TargetIdentity, error) {
	if r.provider != nil && r.provider.Available() {
		attrs, err := r.provider.AnalyzeImage(ctx, request.Image)
		if err == nil && attrs != nil && attrs.SearchQuery != "" {
			identity := identityFromAttributes(request.Query, attrs)
			identity.ImageSearch = true
			identity.Method = "image_analysis"
			return identity, nil
		}
		log.Printf("[IDENTITY] Image analysis failed: %v", err)
	}

	if strings.TrimSpace(request.Query) != "" {
		identity := r.resolveFromText(ctx, strings.TrimSpace(request.Query))
		identity.ImageSearch = true
		return identity, nil
	}
	return nil, domain.ErrProviderUnavailable
}

// resolveFromURL follows the link, reads page metadata and extracts the
// strongest identity available for it.
func (r *IdentityResolver) resolveFromURL(ctx context.Context, rawURL string) (*domain.TargetIdentity, error) {
	if strings.HasPrefix(rawURL, "www.") {
		rawURL = "https://" + rawURL
	}

	identity := &domain.TargetIdentity{
		RawQuery:    rawURL,
		ResolvedURL: rawURL,
	}

	if r.fetcher != nil {
		if resolved, err := r.fetcher.ResolveRedirects(ctx, rawURL); err == nil && resolved != "" {
			identity.ResolvedURL = resolved
		}
	}

	identity.StableID = extractStableID(identity.ResolvedURL)

	var metaTitle string
	if r.fetcher != nil {
		metadata, err := r.fetcher.FetchPageMetadata(ctx, identity.ResolvedURL)
		if err != nil {
			log.Printf("[IDENTITY] Metadata fetch failed for %s: %v", identity.ResolvedURL, err)
		} else {
			if metadata.CanonicalURL != "" {
				identity.CanonicalURL = metadata.CanonicalURL
				if identity.StableID == nil {
					identity.StableID = extractStableID(metadata.CanonicalURL)
				}
			}
			if metadata.Product != nil && metadata.Product.Name != "" {
				metaTitle = metadata.Product.Name
				identity.Brand = metadata.Product.Brand
				identity.ImageURL = metadata.Product.Image
			} else if metadata.Title != "" {
				metaTitle = metadata.Title
			}
		}
	}

	switch {
	case metaTitle != "":
		r.fillFromTitle(identity, metaTitle)
		identity.Method = "page_metadata"
		identity.Confidence = domain.ConfidenceHigh
	default:
		// No readable page; fall back to parsing the URL path itself
		slug := slugFromURL(identity.ResolvedURL)
		if slug != "" {
			r.fillFromTitle(identity, slug)
			identity.Method = "url_path"
			identity.Confidence = domain.ConfidenceMedium
		} else {
			identity.SearchQuery = rawURL
			identity.Method = "url_raw"
			identity.Confidence = domain.ConfidenceLow
		}
	}

	if identity.StableID != nil {
		identity.Confidence = domain.ConfidenceHigh
	}
	return identity, nil
}

// resolveFromText builds an identity from a plain text query, optionally
// refined by the classification provider.
func (r *IdentityResolver) resolveFromText(ctx context.Context, query string) *domain.TargetIdentity {
	identity := &domain.TargetIdentity{
		RawQuery: query,
		Method:   "text",
	}
	r.fillFromTitle(identity, query)

	if r.provider != nil && r.provider.Available() {
		attrs, err := r.provider.ExtractAttributes(ctx, query)
		if err != nil {
			log.Printf("[IDENTITY] Attribute extraction failed, using raw text: %v", err)
		} else if attrs != nil {
			mergeAttributes(identity, attrs)
			identity.Method = "llm_text"
		}
	}

	switch {
	case identity.ModelCode != "":
		identity.Confidence = domain.ConfidenceHigh
	case identity.Brand != "":
		identity.Confidence = domain.ConfidenceMedium
	default:
		identity.Confidence = domain.ConfidenceLow
	}
	return identity
}

// fillFromTitle populates brand, model code, fingerprint and search query
// from free product text.
func (r *IdentityResolver) fillFromTitle(identity *domain.TargetIdentity, title string) {
	if identity.Brand == "" {
		if b := registry.BrandByAlias(title); b != nil {
			identity.Brand = b.DisplayName
		}
	}
	if identity.ModelCode == "" {
		identity.ModelCode = ExtractModelCode(title)
	}
	if identity.Fingerprint.Empty() {
		identity.Fingerprint = extractFingerprint(title)
	}
	if identity.ProductName == "" {
		identity.ProductName = title
	}
	if identity.SearchQuery == "" {
		identity.SearchQuery = buildSearchQuery(identity, title)
	}
}

// buildSearchQuery composes the shopping query sent to the search provider
func buildSearchQuery(identity *domain.TargetIdentity, title string) string {
	parts := []string{}
	if identity.Brand != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(identity.Brand)) {
		parts = append(parts, identity.Brand)
	}
	parts = append(parts, title)
	if identity.ModelCode != "" && !strings.Contains(strings.ToUpper(title), identity.ModelCode) {
		parts = append(parts, identity.ModelCode)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// identityFromAttributes builds an identity directly from provider output
func identityFromAttributes(rawQuery string, attrs *domain.ProductAttributes) *domain.TargetIdentity {
	identity := &domain.TargetIdentity{
		RawQuery:    rawQuery,
		Brand:       attrs.Brand,
		ProductName: attrs.ProductName,
		ModelCode:   strings.ToUpper(attrs.Model),
		SearchQuery: attrs.SearchQuery,
		Fingerprint: domain.Fingerprint{
			Collection: strings.ToLower(attrs.Collection),
			Color:      strings.ToLower(attrs.Color),
			Material:   strings.ToLower(attrs.Material),
			Category:   strings.ToLower(attrs.Category),
		},
	}
	switch attrs.Confidence {
	case "high":
		identity.Confidence = domain.ConfidenceHigh
	case "low":
		identity.Confidence = domain.ConfidenceLow
	default:
		identity.Confidence = domain.ConfidenceMedium
	}
	return identity
}

// mergeAttributes fills identity gaps from provider output without
// overwriting deterministic extractions.
func mergeAttributes(identity *domain.TargetIdentity, attrs *domain.ProductAttributes) {
	if identity.Brand == "" {
		identity.Brand = attrs.Brand
	}
	if attrs.ProductName != "" {
		identity.ProductName = attrs.ProductName
	}
	if identity.ModelCode == "" && attrs.Model != "" {
		identity.ModelCode = strings.ToUpper(attrs.Model)
	}
	if attrs.SearchQuery != "" {
		identity.SearchQuery = attrs.SearchQuery
	}
	fp := &identity.Fingerprint
	if fp.Collection == "" {
		fp.Collection = strings.ToLower(attrs.Collection)
	}
	if fp.Color == "" {
		fp.Color = strings.ToLower(attrs.Color)
	}
	if fp.Material == "" {
		fp.Material = strings.ToLower(attrs.Material)
	}
	if fp.Category == "" {
		fp.Category = strings.ToLower(attrs.Category)
	}
}

// extractStableID recovers a marketplace catalogue identifier from a URL
func extractStableID(rawURL string) *domain.StableID {
	if rawURL == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	switch {
	case strings.Contains(host, "amazon."):
		if m := asinRegex.FindStringSubmatch(u.Path + "/"); m != nil {
			return &domain.StableID{Value: m[1], Type: "asin"}
		}
	case strings.Contains(host, "flipkart."):
		if m := flipkartPidRegex.FindStringSubmatch(rawURL); m != nil {
			return &domain.StableID{Value: m[1], Type: "flipkart_pid"}
		}
	case strings.Contains(host, "myntra."):
		if m := myntraStyleRegex.FindStringSubmatch(u.Path); m != nil {
			return &domain.StableID{Value: m[1], Type: "myntra_style_id"}
		}
	}

	if m := modelPageRegex.FindStringSubmatch(u.Path); m != nil {
		return &domain.StableID{Value: normalizeModelToken(m[1]), Type: "model_code"}
	}
	return nil
}

// ExtractModelCode finds the manufacturer model code in free product text.
// A candidate must carry at least one digit and one letter and not be a
// known size/color token. Returns "" when nothing qualifies.
func ExtractModelCode(text string) string {
	upper := strings.ToUpper(text)
	for _, token := range modelTokenRegex.FindAllString(upper, -1) {
		if modelStopWords[token] {
			continue
		}
		if !hasDigit(token) || !hasLetter(token) {
			continue
		}
		return normalizeModelToken(token)
	}
	return ""
}

// normalizeModelToken strips the trailing region suffix letter some brands
// append after the numeric part (MK7548I and MK7548 are the same model).
func normalizeModelToken(token string) string {
	token = strings.ToUpper(token)
	if len(token) > 1 && token[len(token)-1] == 'I' {
		prev := token[len(token)-2]
		if prev >= '0' && prev <= '9' {
			token = token[:len(token)-1]
		}
	}
	return token
}

// extractFingerprint scans text for known collection, color, material and
// category vocabulary.
func extractFingerprint(text string) domain.Fingerprint {
	lower := " " + strings.ToLower(text) + " "
	fp := domain.Fingerprint{}

	for _, c := range knownCollections {
		if containsWord(lower, c) {
			fp.Collection = c
			break
		}
	}
	for _, c := range knownColors {
		if containsWord(lower, c) {
			fp.Color = c
			break
		}
	}
	for _, m := range knownMaterials {
		if containsWord(lower, m) {
			fp.Material = m
			break
		}
	}
	for _, c := range knownCategories {
		if containsWord(lower, c) {
			fp.Category = c
			break
		}
	}
	return fp
}

// containsWord reports whether needle appears in haystack on word
// boundaries. The haystack must be lowercased and space-padded.
func containsWord(haystack, needle string) bool {
	idx := strings.Index(haystack, needle)
	for idx >= 0 {
		before := haystack[idx-1]
		afterIdx := idx + len(needle)
		after := byte(' ')
		if afterIdx < len(haystack) {
			after = haystack[afterIdx]
		}
		if !isWordByte(before) && !isWordByte(after) {
			return true
		}
		next := strings.Index(haystack[idx+1:], needle)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// slugFromURL pulls the most descriptive path segment out of a product URL
func slugFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := u.Path
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}

	best := ""
	for _, seg := range strings.Split(path, "/") {
		seg = strings.TrimSuffix(seg, ".html")
		if seg == "" || boilerplateSegments[strings.ToLower(seg)] {
			continue
		}
		if len(seg) > len(best) {
			best = seg
		}
	}
	if best == "" {
		return ""
	}

	// Slugs use dashes/underscores for spaces. Keep original casing so
	// model codes stay detectable.
	best = strings.ReplaceAll(best, "-", " ")
	best = strings.ReplaceAll(best, "_", " ")
	return strings.Join(strings.Fields(best), " ")
}

func hasDigit(s string) bool {
	for _, c := range s {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, c := range s {
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			return true
		}
	}
	return false
}
