package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"resellPilot/domain"
)

// EnrichmentRepository wraps the generative calls that name a bundle
// and optimize item SEO metadata.
type EnrichmentRepository struct {
	oracleConfig OracleConfig
}

func NewEnrichmentRepository(cfg OracleConfig) *EnrichmentRepository {
	return &EnrichmentRepository{
		cfg,
	}
}

// GroupDescription is the enrichment result for a set of items grouped
// into one listing.
type GroupDescription struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	SEOKeywords     []string `json:"seo_keywords"`
	Hashtags        []string `json:"hashtags"`
	SearchTerms     []string `json:"search_terms"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// ItemSEO is the enrichment result for a single listing.
type ItemSEO struct {
	SEOKeywords []string `json:"seo_keywords"`
	Hashtags    []string `json:"hashtags"`
	SearchTerms []string `json:"search_terms"`
}

type describeGroupPayload struct {
	Items     []itemPayload `json:"items"`
	StyleHint string        `json:"style_hint,omitempty"`
}

type optimizeSEOPayload struct {
	Item itemPayload `json:"item"`
}

func (r EnrichmentRepository) DescribeGroup(ctx context.Context, items []domain.Item, styleHint string) (GroupDescription, error) {
	payload := describeGroupPayload{
		Items:     toItemPayloads(items),
		StyleHint: styleHint,
	}

	var out GroupDescription
	if err := r.post(ctx, "/v1/enrichment/describe-group", payload, &out); err != nil {
		return GroupDescription{}, err
	}

	return out, nil
}

func (r EnrichmentRepository) OptimizeItemSEO(ctx context.Context, item domain.Item) (ItemSEO, error) {
	payload := optimizeSEOPayload{
		Item: toItemPayloads([]domain.Item{item})[0],
	}

	var out ItemSEO
	if err := r.post(ctx, "/v1/enrichment/optimize-seo", payload, &out); err != nil {
		return ItemSEO{}, err
	}

	return out, nil
}

func (r EnrichmentRepository) post(ctx context.Context, path string, payload any, out any) error {
	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.oracleConfig.BaseURL+path, bytes.NewReader(payloadByte))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", r.oracleConfig.basicAuth())

	client := &http.Client{Timeout: r.oracleConfig.timeout()}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(res.Body)
		return fmt.Errorf("enrichment service return negative response %v: %s", res.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal enrichment response: %w", err)
	}

	return nil
}
