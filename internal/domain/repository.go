package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching pipeline output
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SearchProvider defines the interface for the external marketplace search
// engine. Either call may return an empty list; no single call is
// authoritative.
type SearchProvider interface {
	SearchShopping(ctx context.Context, query, locale string) ([]Offer, error)
	SearchWeb(ctx context.Context, query, locale string) ([]Offer, error)
}

// ClassifyProvider defines the interface for the LLM-backed semantic provider.
// Available reports whether credentials are configured; when false, callers
// fall back entirely to deterministic scoring.
type ClassifyProvider interface {
	Available() bool
	ExtractAttributes(ctx context.Context, text string) (*ProductAttributes, error)
	AnalyzeImage(ctx context.Context, imageBase64 string) (*ProductAttributes, error)
	ClassifyBatch(ctx context.Context, identity *TargetIdentity, candidates []Offer) (map[int]ClassifyVerdict, error)
}

// VisionProvider defines the interface for pairwise image comparison
type VisionProvider interface {
	Available() bool
	CompareImages(ctx context.Context, targetImageURL, candidateImageURL string) (*VisualMatch, error)
}

// PageMetadata is lightweight page metadata fetched without executing scripts
type PageMetadata struct {
	CanonicalURL string
	Title        string
	Product      *StructuredProduct
}

// StructuredProduct is product markup (JSON-LD/OpenGraph) found on a page
type StructuredProduct struct {
	Name  string
	Brand string
	Image string
}

// MetadataFetcher defines the interface for URL resolution and metadata
// extraction
type MetadataFetcher interface {
	ResolveRedirects(ctx context.Context, rawURL string) (string, error)
	FetchPageMetadata(ctx context.Context, rawURL string) (*PageMetadata, error)
}
