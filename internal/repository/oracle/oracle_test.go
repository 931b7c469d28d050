package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resellPilot/domain"
)

func testConfig(baseURL string) OracleConfig {
	return OracleConfig{
		BaseURL:           baseURL,
		BasicAuthUsername: "svc",
		BasicAuthPassword: "secret",
		Timeout:           5 * time.Second,
	}
}

func TestGenerateDecodesInsights(t *testing.T) {
	var gotAuth string
	var gotPayload generatePayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/insights/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("payload decode: %v", err)
		}

		json.NewEncoder(w).Encode(generateResponse{
			Insights: []insightPayload{
				{
					Kind:        domain.InsightKindPriceDrop,
					Priority:    domain.InsightPriorityHigh,
					Title:       "Drop the price",
					Message:     "No views in two weeks",
					ActionLabel: "Reduce 10%",
					ItemIDs:     []uint64{42},
					SuggestedAction: &domain.SuggestedAction{
						Type:  "discount",
						Value: 10,
					},
				},
			},
		})
	}))
	defer srv.Close()

	repo := NewRecommendationRepository(testConfig(srv.URL))

	soldAt := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	insights, err := repo.Generate(context.Background(),
		[]domain.Item{{ID: 42, Title: "Coat", Price: 99, Status: domain.ItemStatusPublished}},
		[]domain.Item{{ID: 7, Title: "Hat", Price: 15, Status: domain.ItemStatusSold, SoldAt: &soldAt}},
		time.June,
	)
	if err != nil {
		t.Fatal(err)
	}

	// "svc:secret" base64
	if gotAuth != "Basic c3ZjOnNlY3JldA==" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if gotPayload.Month != "June" {
		t.Fatalf("month = %q", gotPayload.Month)
	}
	if len(gotPayload.ActiveItems) != 1 || len(gotPayload.SoldItems) != 1 {
		t.Fatalf("payload items: %d active, %d sold", len(gotPayload.ActiveItems), len(gotPayload.SoldItems))
	}
	if gotPayload.SoldItems[0].SoldAt != "2025-05-20T10:00:00Z" {
		t.Fatalf("sold_at = %q", gotPayload.SoldItems[0].SoldAt)
	}

	if len(insights) != 1 {
		t.Fatalf("got %d insights", len(insights))
	}
	in := insights[0]
	if in.Kind != domain.InsightKindPriceDrop || in.ItemIDs[0] != 42 {
		t.Fatalf("decoded insight = %+v", in)
	}
	if in.SuggestedAction == nil || in.SuggestedAction.Value != 10 {
		t.Fatalf("suggested action = %+v", in.SuggestedAction)
	}
}

func TestGenerateRejectsNegativeStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	repo := NewRecommendationRepository(testConfig(srv.URL))

	if _, err := repo.Generate(context.Background(), nil, nil, time.June); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestDescribeGroupDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/enrichment/describe-group" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(GroupDescription{
			Name:            "Weekend Duo",
			Description:     "Two-piece weekend outfit",
			SEOKeywords:     []string{"weekend", "outfit"},
			ConfidenceScore: 0.9,
		})
	}))
	defer srv.Close()

	repo := NewEnrichmentRepository(testConfig(srv.URL))

	desc, err := repo.DescribeGroup(context.Background(), []domain.Item{{ID: 1, Title: "Coat"}}, "casual")
	if err != nil {
		t.Fatal(err)
	}
	if desc.Name != "Weekend Duo" || len(desc.SEOKeywords) != 2 {
		t.Fatalf("decoded description = %+v", desc)
	}
}

func TestOptimizeItemSEODecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/enrichment/optimize-seo" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ItemSEO{
			SEOKeywords: []string{"vintage"},
			Hashtags:    []string{"#vintage"},
			SearchTerms: []string{"vintage coat"},
		})
	}))
	defer srv.Close()

	repo := NewEnrichmentRepository(testConfig(srv.URL))

	seo, err := repo.OptimizeItemSEO(context.Background(), domain.Item{ID: 1, Title: "Coat"})
	if err != nil {
		t.Fatal(err)
	}
	if len(seo.SEOKeywords) != 1 || seo.Hashtags[0] != "#vintage" {
		t.Fatalf("decoded seo = %+v", seo)
	}
}
