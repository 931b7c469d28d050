package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"resellPilot/domain"
	"resellPilot/internal/repository/oracle"
	"resellPilot/pkg/logger"
	"resellPilot/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// defaultDiscountPct is applied when a price insight carries no
// structured payload, and is the fixed bundle discount.
const defaultDiscountPct = 15.0

// ExecuteResult reports what an accepted insight did.
type ExecuteResult struct {
	Message string `json:"message"`
	// Mutated is true when persistent records changed and dependent
	// views (and the cached batch) must refresh.
	Mutated bool `json:"mutated"`
	// BundleID/BundleName are set after a successful bundle creation.
	BundleID   string `json:"bundle_id,omitempty"`
	BundleName string `json:"bundle_name,omitempty"`
	// NavigateToItemID is set for purely advisory insights that send
	// the user to an item's detail view instead of mutating anything.
	NavigateToItemID uint64 `json:"navigate_to_item_id,omitempty"`
}

// Executor maps each insight kind to its mutation recipe.
type Executor struct {
	itemRepo   ItemRepository
	bundleRepo BundleRepository
	enrichment EnrichmentOracle
}

func NewExecutor(itemRepo ItemRepository, bundleRepo BundleRepository, enrichment EnrichmentOracle) *Executor {
	return &Executor{
		itemRepo:   itemRepo,
		bundleRepo: bundleRepo,
		enrichment: enrichment,
	}
}

func (e *Executor) Execute(ctx context.Context, userID uint64, insight domain.Insight) (ExecuteResult, error) {
	if err := ctx.Err(); err != nil {
		return ExecuteResult{}, fmt.Errorf("context error: %w", err)
	}

	switch insight.Kind {
	case domain.InsightKindReadyToPublish, domain.InsightKindReadyToList:
		return e.executeMarkReady(ctx, userID, insight)

	case domain.InsightKindPriceDrop, domain.InsightKindStale:
		return e.executePriceDrop(ctx, userID, insight)

	case domain.InsightKindSEOOptimization:
		return e.executeSEO(ctx, userID, insight)

	case domain.InsightKindBundle:
		return e.executeBundle(ctx, userID, insight)

	case domain.InsightKindSeasonal, domain.InsightKindOpportunity, domain.InsightKindIncomplete:
		// purely advisory: no mutation, just navigation
		result := ExecuteResult{Message: insight.Message}
		if len(insight.ItemIDs) > 0 {
			result.NavigateToItemID = insight.ItemIDs[0]
		}
		return result, nil

	default:
		return ExecuteResult{}, fmt.Errorf("unknown insight kind %q", insight.Kind)
	}
}

// executeMarkReady sets status=ready on every referenced item.
// Re-applying is a no-op.
func (e *Executor) executeMarkReady(ctx context.Context, userID uint64, insight domain.Insight) (ExecuteResult, error) {
	if len(insight.ItemIDs) == 0 {
		return ExecuteResult{Message: "no items to update"}, nil
	}

	if err := e.itemRepo.UpdateStatus(ctx, userID, insight.ItemIDs, domain.ItemStatusReady); err != nil {
		return ExecuteResult{}, err
	}

	return ExecuteResult{
		Message: fmt.Sprintf("%d item(s) marked ready to list", len(insight.ItemIDs)),
		Mutated: true,
	}, nil
}

// executePriceDrop multiplies each item price by (1 - pct/100), rounded
// to the nearest integer currency unit. Not idempotent: re-applying
// compounds the discount, which is why the caller dismisses the
// insight after a successful run.
func (e *Executor) executePriceDrop(ctx context.Context, userID uint64, insight domain.Insight) (ExecuteResult, error) {
	if len(insight.ItemIDs) == 0 {
		return ExecuteResult{Message: "no items to update"}, nil
	}

	pct := defaultDiscountPct
	if insight.SuggestedAction != nil && insight.SuggestedAction.Value > 0 {
		pct = insight.SuggestedAction.Value
	}

	items, err := e.itemRepo.FindByIDs(ctx, userID, insight.ItemIDs)
	if err != nil {
		return ExecuteResult{}, err
	}

	for _, item := range items {
		newPrice := math.Round(item.Price * (1 - pct/100))
		if err := e.itemRepo.UpdatePrice(ctx, userID, item.ID, newPrice); err != nil {
			return ExecuteResult{}, err
		}
	}

	return ExecuteResult{
		Message: fmt.Sprintf("price reduced by %.0f%% on %d item(s)", pct, len(items)),
		Mutated: true,
	}, nil
}

func (e *Executor) executeSEO(ctx context.Context, userID uint64, insight domain.Insight) (ExecuteResult, error) {
	if len(insight.ItemIDs) == 0 {
		return ExecuteResult{Message: "no items to update"}, nil
	}

	items, err := e.itemRepo.FindByIDs(ctx, userID, insight.ItemIDs)
	if err != nil {
		return ExecuteResult{}, err
	}

	for _, item := range items {
		seo, err := e.enrichment.OptimizeItemSEO(ctx, item)
		if err != nil {
			return ExecuteResult{}, err
		}

		if err := e.itemRepo.PatchSEO(ctx, userID, item.ID,
			mustJSON(seo.SEOKeywords), mustJSON(seo.Hashtags), mustJSON(seo.SearchTerms)); err != nil {
			return ExecuteResult{}, err
		}
	}

	return ExecuteResult{
		Message: fmt.Sprintf("SEO metadata refreshed on %d item(s)", len(items)),
		Mutated: true,
	}, nil
}

// executeBundle is the one multi-step, failure-sensitive path: it
// creates the bundle record, then the membership rows, and deletes the
// bundle again if the membership insert fails.
func (e *Executor) executeBundle(ctx context.Context, userID uint64, insight domain.Insight) (ExecuteResult, error) {
	// rejected before any network call
	if len(insight.ItemIDs) < 2 {
		return ExecuteResult{}, ErrTooFewBundleItems
	}

	items, err := e.itemRepo.FindByIDs(ctx, userID, insight.ItemIDs)
	if err != nil {
		return ExecuteResult{}, err
	}

	// race-safety net: the conflict filter ran at generation time, but
	// another bundle may have claimed a member since.
	conflicts, err := conflictingItems(ctx, e.bundleRepo, insight.ItemIDs)
	if err != nil {
		return ExecuteResult{}, err
	}
	if len(conflicts) > 0 {
		return ExecuteResult{}, &ConflictError{ItemIDs: conflicts}
	}

	var originalTotal float64
	var photos []string
	for _, item := range items {
		originalTotal += item.Price
		photos = append(photos, decodeStrings(item.Photos)...)
	}
	price := math.Round(originalTotal * (1 - defaultDiscountPct/100))

	desc, err := e.enrichment.DescribeGroup(ctx, items, "")
	if err != nil {
		return ExecuteResult{}, err
	}

	bundle := buildBundle(userID, items, desc, originalTotal, price, photos)

	members := make([]domain.BundleItem, 0, len(items))
	for _, item := range items {
		members = append(members, domain.BundleItem{
			BundleID: bundle.ID,
			ItemID:   item.ID,
		})
	}

	err = runWithCompensation(ctx, []sagaStep{
		{
			name: "create bundle",
			run: func(ctx context.Context) error {
				return e.bundleRepo.CreateBundle(ctx, bundle)
			},
			compensate: func(ctx context.Context) error {
				metrics.BundleCompensations.Inc()
				return e.bundleRepo.DeleteBundle(ctx, bundle.ID)
			},
		},
		{
			name: "create bundle members",
			run: func(ctx context.Context) error {
				return e.bundleRepo.CreateMembers(ctx, members)
			},
		},
	})
	if err != nil {
		return ExecuteResult{}, err
	}

	return ExecuteResult{
		Message:    fmt.Sprintf("bundle %q created with %d items", bundle.Name, len(members)),
		Mutated:    true,
		BundleID:   bundle.ID,
		BundleName: bundle.Name,
	}, nil
}

func buildBundle(userID uint64, items []domain.Item, desc oracle.GroupDescription, originalTotal, price float64, photos []string) *domain.Bundle {
	bundle := &domain.Bundle{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Name:               desc.Name,
		Description:        desc.Description,
		Price:              price,
		OriginalTotalPrice: originalTotal,
		DiscountPercentage: defaultDiscountPct,
		Photos:             mustJSON(photos),
		SEOKeywords:        mustJSON(desc.SEOKeywords),
		Hashtags:           mustJSON(desc.Hashtags),
		SearchTerms:        mustJSON(desc.SearchTerms),
		Status:             domain.BundleStatusActive,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if len(photos) > 0 {
		bundle.CoverPhoto = photos[0]
	}

	return bundle
}

func mustJSON(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}

	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to marshal string list", err)
		return datatypes.JSON([]byte("[]"))
	}

	return datatypes.JSON(b)
}

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}

	return out
}

func recordExecution(kind, outcome string) {
	metrics.InsightExecutions.WithLabelValues(kind, outcome).Inc()
}
