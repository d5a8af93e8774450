package usecase

import (
	"context"

	"github.com/bharatpricing/backend/internal/domain"
)

// mockSearchProvider implements domain.SearchProvider with function fields
type mockSearchProvider struct {
	shoppingFn func(ctx context.Context, query, locale string) ([]domain.Offer, error)
	webFn      func(ctx context.Context, query, locale string) ([]domain.Offer, error)
}

func (m *mockSearchProvider) SearchShopping(ctx context.Context, query, locale string) ([]domain.Offer, error) {
	if m.shoppingFn == nil {
		return nil, nil
	}
	return m.shoppingFn(ctx, query, locale)
}

func (m *mockSearchProvider) SearchWeb(ctx context.Context, query, locale string) ([]domain.Offer, error) {
	if m.webFn == nil {
		return nil, nil
	}
	return m.webFn(ctx, query, locale)
}

// mockClassifyProvider implements domain.ClassifyProvider
type mockClassifyProvider struct {
	available  bool
	extractFn  func(ctx context.Context, text string) (*domain.ProductAttributes, error)
	imageFn    func(ctx context.Context, imageBase64 string) (*domain.ProductAttributes, error)
	classifyFn func(ctx context.Context, identity *domain.TargetIdentity, candidates []domain.Offer) (map[int]domain.ClassifyVerdict, error)
}

func (m *mockClassifyProvider) Available() bool { return m.available }

func (m *mockClassifyProvider) ExtractAttributes(ctx context.Context, text string) (*domain.ProductAttributes, error) {
	if m.extractFn == nil {
		return nil, domain.ErrProviderUnavailable
	}
	return m.extractFn(ctx, text)
}

func (m *mockClassifyProvider) AnalyzeImage(ctx context.Context, imageBase64 string) (*domain.ProductAttributes, error) {
	if m.imageFn == nil {
		return nil, domain.ErrProviderUnavailable
	}
	return m.imageFn(ctx, imageBase64)
}

func (m *mockClassifyProvider) ClassifyBatch(ctx context.Context, identity *domain.TargetIdentity, candidates []domain.Offer) (map[int]domain.ClassifyVerdict, error) {
	if m.classifyFn == nil {
		return nil, domain.ErrProviderUnavailable
	}
	return m.classifyFn(ctx, identity, candidates)
}

// mockVisionProvider implements domain.VisionProvider
type mockVisionProvider struct {
	available bool
	compareFn func(ctx context.Context, targetImageURL, candidateImageURL string) (*domain.VisualMatch, error)
}

func (m *mockVisionProvider) Available() bool { return m.available }

func (m *mockVisionProvider) CompareImages(ctx context.Context, targetImageURL, candidateImageURL string) (*domain.VisualMatch, error) {
	if m.compareFn == nil {
		return nil, domain.ErrProviderUnavailable
	}
	return m.compareFn(ctx, targetImageURL, candidateImageURL)
}

// mockFetcher implements domain.MetadataFetcher
type mockFetcher struct {
	resolveFn func(ctx context.Context, rawURL string) (string, error)
	metaFn    func(ctx context.Context, rawURL string) (*domain.PageMetadata, error)
}

func (m *mockFetcher) ResolveRedirects(ctx context.Context, rawURL string) (string, error) {
	if m.resolveFn == nil {
		return rawURL, nil
	}
	return m.resolveFn(ctx, rawURL)
}

func (m *mockFetcher) FetchPageMetadata(ctx context.Context, rawURL string) (*domain.PageMetadata, error) {
	if m.metaFn == nil {
		return nil, domain.ErrProviderUnavailable
	}
	return m.metaFn(ctx, rawURL)
}
