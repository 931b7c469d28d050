package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"resellPilot/domain"
)

// RecommendationRepository wraps the external call that turns current
// inventory plus recent sales into candidate insights. The call is
// treated as slow, occasionally empty and possibly unavailable;
// callers only invoke it on a cache miss or a forced refresh.
type RecommendationRepository struct {
	oracleConfig OracleConfig
}

func NewRecommendationRepository(cfg OracleConfig) *RecommendationRepository {
	return &RecommendationRepository{
		cfg,
	}
}

type generatePayload struct {
	ActiveItems []itemPayload `json:"active_items"`
	SoldItems   []itemPayload `json:"sold_items"`
	Month       string        `json:"month"`
}

type generateResponse struct {
	Insights []insightPayload `json:"insights"`
}

type insightPayload struct {
	Kind            string                  `json:"kind"`
	Priority        string                  `json:"priority"`
	Title           string                  `json:"title"`
	Message         string                  `json:"message"`
	ActionLabel     string                  `json:"action_label"`
	ItemIDs         []uint64                `json:"item_ids"`
	SuggestedAction *domain.SuggestedAction `json:"suggested_action,omitempty"`
}

func (r RecommendationRepository) Generate(ctx context.Context, activeItems, soldItems []domain.Item, month time.Month) ([]domain.Insight, error) {
	payload := generatePayload{
		ActiveItems: toItemPayloads(activeItems),
		SoldItems:   toItemPayloads(soldItems),
		Month:       month.String(),
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json payload: %w", err)
	}

	url := r.oracleConfig.BaseURL + "/v1/insights/generate"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadByte))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", r.oracleConfig.basicAuth())

	client := &http.Client{Timeout: r.oracleConfig.timeout()}

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("oracle service return negative response %v: %s", res.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oracle response: %w", err)
	}

	insights := make([]domain.Insight, 0, len(decoded.Insights))
	for _, p := range decoded.Insights {
		insights = append(insights, domain.Insight{
			Kind:            p.Kind,
			Priority:        p.Priority,
			Title:           p.Title,
			Message:         p.Message,
			ActionLabel:     p.ActionLabel,
			ItemIDs:         p.ItemIDs,
			SuggestedAction: p.SuggestedAction,
		})
	}

	return insights, nil
}

func toItemPayloads(items []domain.Item) []itemPayload {
	out := make([]itemPayload, 0, len(items))

	for _, it := range items {
		p := itemPayload{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Category:    it.Category,
			Price:       it.Price,
			Status:      it.Status,
			Photos:      decodePhotos(it.Photos),
		}
		if it.SoldAt != nil {
			p.SoldAt = it.SoldAt.Format(time.RFC3339)
		}
		out = append(out, p)
	}

	return out
}

func decodePhotos(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var photos []string
	if err := json.Unmarshal(raw, &photos); err != nil {
		return nil
	}

	return photos
}
