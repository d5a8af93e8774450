package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bharatpricing/backend/internal/domain"
)

// Client talks to the OpenAI chat completions API. It backs both the
// semantic classification provider and the vision comparison provider. A
// client built with an empty API key reports unavailable and every call
// returns domain.ErrProviderUnavailable.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewClient creates a new OpenAI API client
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
	}
}

// Available reports whether credentials are configured
func (c *Client) Available() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends a chat completion request and returns the raw assistant text
func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	if !c.Available() {
		return "", domain.ErrProviderUnavailable
	}

	reqBody := chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    0.1,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("[OPENAI] API error - Status: %d, Body: %s", resp.StatusCode, truncate(string(body), 200))
		return "", fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", domain.ErrProviderUnavailable)
	}

	return chatResp.Choices[0].Message.Content, nil
}

const extractPrompt = `You are a product identification assistant for Indian shopping queries.
Given raw product text, extract structured attributes. Respond with JSON:
{"brand": "", "product_name": "", "model": "", "category": "", "color": "", "material": "", "collection": "", "search_query": "", "confidence": "high|medium|low"}
search_query must be a concise shopping query for this exact product. Unknown fields stay empty.`

// ExtractAttributes asks the provider to clean up raw product text
func (c *Client) ExtractAttributes(ctx context.Context, text string) (*domain.ProductAttributes, error) {
	log.Printf("[OPENAI] ExtractAttributes called, text length: %d", len(text))

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: extractPrompt},
		{Role: "user", Content: text},
	})
	if err != nil {
		return nil, err
	}

	var attrs domain.ProductAttributes
	if err := json.Unmarshal([]byte(content), &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return &attrs, nil
}

// AnalyzeImage identifies a product from a base64-encoded photo
func (c *Client) AnalyzeImage(ctx context.Context, imageBase64 string) (*domain.ProductAttributes, error) {
	log.Printf("[OPENAI] AnalyzeImage called, image length: %d", len(imageBase64))

	dataURL := imageBase64
	if !strings.HasPrefix(dataURL, "data:") {
		dataURL = "data:image/jpeg;base64," + imageBase64
	}

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: extractPrompt},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: "Identify the product in this image."},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
		}},
	})
	if err != nil {
		return nil, err
	}

	var attrs domain.ProductAttributes
	if err := json.Unmarshal([]byte(content), &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return &attrs, nil
}

const classifyPrompt = `You compare shopping offers against one target product.
For each numbered candidate, decide if it is the EXACT same product, a VARIANT
(same product line, different color/size/strap), or merely SIMILAR.
Respond with JSON: {"results": [{"index": 0, "classification": "EXACT_MATCH|VARIANT_MATCH|SIMILAR", "confidence": 0.0, "reason": ""}]}
confidence is 0.0-1.0. Include every index you were given.`

type classifyEnvelope struct {
	Results []struct {
		Index          int                   `json:"index"`
		Classification domain.Classification `json:"classification"`
		Confidence     float64               `json:"confidence"`
		Reason         string                `json:"reason"`
	} `json:"results"`
}

// ClassifyBatch classifies candidate offers against the target identity in a
// single completion. Verdicts with unknown labels are dropped rather than
// guessed.
func (c *Client) ClassifyBatch(ctx context.Context, identity *domain.TargetIdentity, candidates []domain.Offer) (map[int]domain.ClassifyVerdict, error) {
	if len(candidates) == 0 {
		return map[int]domain.ClassifyVerdict{}, nil
	}
	log.Printf("[OPENAI] ClassifyBatch called with %d candidates", len(candidates))

	var sb strings.Builder
	sb.WriteString("TARGET PRODUCT:\n")
	sb.WriteString("Brand: " + identity.Brand + "\n")
	sb.WriteString("Name: " + identity.ProductName + "\n")
	if identity.ModelCode != "" {
		sb.WriteString("Model: " + identity.ModelCode + "\n")
	}
	if !identity.Fingerprint.Empty() {
		sb.WriteString(fmt.Sprintf("Attributes: collection=%s color=%s material=%s category=%s\n",
			identity.Fingerprint.Collection, identity.Fingerprint.Color,
			identity.Fingerprint.Material, identity.Fingerprint.Category))
	}
	sb.WriteString("Query: " + identity.SearchQuery + "\n\nCANDIDATES:\n")
	for i, offer := range candidates {
		sb.WriteString(strconv.Itoa(i) + ". " + offer.Title + " (" + offer.Source + ")\n")
	}

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: classifyPrompt},
		{Role: "user", Content: sb.String()},
	})
	if err != nil {
		return nil, err
	}

	var envelope classifyEnvelope
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode verdicts: %w", err)
	}

	verdicts := make(map[int]domain.ClassifyVerdict, len(envelope.Results))
	for _, r := range envelope.Results {
		if r.Index < 0 || r.Index >= len(candidates) {
			continue
		}
		switch r.Classification {
		case domain.ClassExact, domain.ClassVariant, domain.ClassSimilar:
		default:
			continue
		}
		verdicts[r.Index] = domain.ClassifyVerdict{
			Classification: r.Classification,
			Confidence:     r.Confidence,
			Reason:         r.Reason,
		}
	}

	log.Printf("[OPENAI] ClassifyBatch returned %d verdicts", len(verdicts))
	return verdicts, nil
}

const comparePrompt = `You compare two product photos. Score how likely they show the
same exact product from 0 (unrelated) to 100 (identical).
Respond with JSON: {"visual_score": 0, "match_type": "exact|variant|different"}`

// CompareImages scores the visual similarity of two product images
func (c *Client) CompareImages(ctx context.Context, targetImageURL, candidateImageURL string) (*domain.VisualMatch, error) {
	log.Printf("[OPENAI] CompareImages called")

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: comparePrompt},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: "Image 1 is the target product, image 2 is a candidate offer."},
			{Type: "image_url", ImageURL: &imageURL{URL: targetImageURL}},
			{Type: "image_url", ImageURL: &imageURL{URL: candidateImageURL}},
		}},
	})
	if err != nil {
		return nil, err
	}

	var match domain.VisualMatch
	if err := json.Unmarshal([]byte(content), &match); err != nil {
		return nil, fmt.Errorf("failed to decode visual match: %w", err)
	}
	if match.VisualScore < 0 {
		match.VisualScore = 0
	}
	if match.VisualScore > 100 {
		match.VisualScore = 100
	}
	return &match, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
