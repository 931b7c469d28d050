package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resellPilot/domain"
	"resellPilot/internal/repository/oracle"
	"resellPilot/pkg/cache"
	"resellPilot/pkg/logger"
	"resellPilot/pkg/metrics"

	"github.com/google/uuid"
)

// ---- Repository interfaces ----

type ItemRepository interface {
	FindByIDs(ctx context.Context, userID uint64, ids []uint64) ([]domain.Item, error)
	FindActiveByUser(ctx context.Context, userID uint64) ([]domain.Item, error)
	FindSoldSince(ctx context.Context, userID uint64, since time.Time) ([]domain.Item, error)
	UpdateStatus(ctx context.Context, userID uint64, ids []uint64, status string) error
	UpdatePrice(ctx context.Context, userID, id uint64, price float64) error
	PatchSEO(ctx context.Context, userID, id uint64, seoKeywords, hashtags, searchTerms []byte) error
}

type BundleRepository interface {
	CreateBundle(ctx context.Context, bundle *domain.Bundle) error
	CreateMembers(ctx context.Context, members []domain.BundleItem) error
	DeleteBundle(ctx context.Context, bundleID string) error
	ActiveMemberships(ctx context.Context, itemIDs []uint64) ([]domain.BundleItem, error)
}

type InsightRepository interface {
	LoadBatch(ctx context.Context, userID uint64, cacheKey string) (*domain.InsightBatch, error)
	ReplaceBatch(ctx context.Context, batch *domain.InsightBatch) error
	MarkStale(ctx context.Context, userID uint64, cacheKey string) error
}

type DismissalRepository interface {
	Dismiss(ctx context.Context, userID uint64, sessionID, insightID string) error
	Dismissed(ctx context.Context, userID uint64, sessionID string) (map[string]struct{}, error)
	ClearSession(ctx context.Context, userID uint64, sessionID string) error
}

type RecommendationOracle interface {
	Generate(ctx context.Context, activeItems, soldItems []domain.Item, month time.Month) ([]domain.Insight, error)
}

type EnrichmentOracle interface {
	DescribeGroup(ctx context.Context, items []domain.Item, styleHint string) (oracle.GroupDescription, error)
	OptimizeItemSEO(ctx context.Context, item domain.Item) (oracle.ItemSEO, error)
}

// ---- Usecase / Service ----

// oracleRetryBackoff caps how long a fallback batch (served because
// the oracle was unavailable) may sit in the memory tier.
const oracleRetryBackoff = 30 * time.Second

type AdvisorService struct {
	insightRepo   InsightRepository
	itemRepo      ItemRepository
	bundleRepo    BundleRepository
	dismissalRepo DismissalRepository
	recOracle     RecommendationOracle
	executor      *Executor
	memCache      *cache.Cache

	freshnessWindow time.Duration
	soldWindow      time.Duration
	clock           func() time.Time
}

func NewAdvisorService(
	insightRepo InsightRepository,
	itemRepo ItemRepository,
	bundleRepo BundleRepository,
	dismissalRepo DismissalRepository,
	recOracle RecommendationOracle,
	enrichment EnrichmentOracle,
	memCache *cache.Cache,
	freshnessWindow time.Duration,
	soldWindow time.Duration,
) *AdvisorService {
	return &AdvisorService{
		insightRepo:     insightRepo,
		itemRepo:        itemRepo,
		bundleRepo:      bundleRepo,
		dismissalRepo:   dismissalRepo,
		recOracle:       recOracle,
		executor:        NewExecutor(itemRepo, bundleRepo, enrichment),
		memCache:        memCache,
		freshnessWindow: freshnessWindow,
		soldWindow:      soldWindow,
		clock:           time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *AdvisorService) WithClock(clock func() time.Time) *AdvisorService {
	s.clock = clock
	return s
}

func (s *AdvisorService) memKey(userID uint64) string {
	return fmt.Sprintf("insights:%d:%s", userID, domain.DefaultCacheKey)
}

// LoadInsights returns the visible insight list for the user: the
// cached batch when fresh, a newly generated one otherwise, minus
// session dismissals. Concurrent loads for one user share a single
// generation.
func (s *AdvisorService) LoadInsights(ctx context.Context, userID uint64, sessionID string, forceRefresh bool) ([]domain.Insight, error) {
	insights, err := s.loadBatch(ctx, userID, forceRefresh)
	if err != nil {
		return nil, err
	}

	return s.applyDismissals(ctx, userID, sessionID, insights), nil
}

// loadBatch returns the full (undismissed) batch.
func (s *AdvisorService) loadBatch(ctx context.Context, userID uint64, forceRefresh bool) ([]domain.Insight, error) {
	key := s.memKey(userID)

	if forceRefresh {
		s.memCache.Invalidate(key)
	}

	v, err := s.memCache.GetOrFetch(ctx, key, func(ctx context.Context) (any, time.Duration, error) {
		return s.fetchOrGenerate(ctx, userID, forceRefresh)
	})
	if err != nil {
		return nil, err
	}

	insights, _ := v.([]domain.Insight)

	return insights, nil
}

// fetchOrGenerate returns the batch and how long the memory tier may
// hold it.
func (s *AdvisorService) fetchOrGenerate(ctx context.Context, userID uint64, forceRefresh bool) ([]domain.Insight, time.Duration, error) {
	previous, err := s.insightRepo.LoadBatch(ctx, userID, domain.DefaultCacheKey)
	if err != nil {
		// cache-read errors degrade silently to "no cached batch"
		logger.Warn("failed to load cached insight batch", "user_id", userID, "error", err)
		previous = nil
	}

	if !forceRefresh && s.isLive(previous) {
		metrics.InsightCacheHits.Inc()
		// a store-loaded batch only gets its remaining freshness, not
		// a full window
		return decodeInsights(previous.Insights), s.remainingFreshness(previous), nil
	}

	return s.generate(ctx, userID, previous)
}

// isLive enforces both the explicit expiry and the freshness window
// against GeneratedAt; they coincide by construction but are both
// honored.
func (s *AdvisorService) isLive(batch *domain.InsightBatch) bool {
	if batch == nil || batch.Status != domain.BatchStatusActive {
		return false
	}

	now := s.clock()
	if now.Sub(batch.GeneratedAt) >= s.freshnessWindow {
		return false
	}

	return now.Before(batch.ExpiresAt)
}

// remainingFreshness is how long the batch stays live: the earlier of
// its explicit expiry and the freshness window counted from
// GeneratedAt, floored at zero.
func (s *AdvisorService) remainingFreshness(batch *domain.InsightBatch) time.Duration {
	now := s.clock()

	remaining := batch.ExpiresAt.Sub(now)
	if byAge := s.freshnessWindow - now.Sub(batch.GeneratedAt); byAge < remaining {
		remaining = byAge
	}

	if remaining < 0 {
		remaining = 0
	}

	return remaining
}

func (s *AdvisorService) generate(ctx context.Context, userID uint64, previous *domain.InsightBatch) ([]domain.Insight, time.Duration, error) {
	now := s.clock()

	activeItems, err := s.itemRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	soldItems, err := s.itemRepo.FindSoldSince(ctx, userID, now.Add(-s.soldWindow))
	if err != nil {
		return nil, 0, err
	}

	started := time.Now()
	candidates, err := s.recOracle.Generate(ctx, activeItems, soldItems, now.Month())
	metrics.OracleGenerateLatency.Observe(time.Since(started).Seconds())
	if err != nil {
		// oracle unavailable: fall back to whatever we had, or empty.
		// The fallback is cached only briefly so a recovered oracle
		// gets consulted again.
		logger.Warn("recommendation oracle unavailable", "user_id", userID, "error", err)
		if previous != nil {
			return decodeInsights(previous.Insights), oracleRetryBackoff, nil
		}
		return []domain.Insight{}, oracleRetryBackoff, nil
	}

	for i := range candidates {
		candidates[i].ID = domain.ComputeInsightID(candidates[i].Kind, candidates[i].ItemIDs, now)
	}

	filtered, err := filterConflicts(ctx, s.bundleRepo, candidates)
	if err != nil {
		return nil, 0, err
	}

	raw, err := json.Marshal(filtered)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal insights: %w", err)
	}

	batch := &domain.InsightBatch{
		ID:          uuid.NewString(),
		UserID:      userID,
		CacheKey:    domain.DefaultCacheKey,
		Status:      domain.BatchStatusActive,
		Insights:    raw,
		GeneratedAt: now,
		ExpiresAt:   now.Add(s.freshnessWindow),
	}

	if err := s.insightRepo.ReplaceBatch(ctx, batch); err != nil {
		// the generated set is still served; only persistence failed
		logger.Error("failed to persist insight batch", "user_id", userID, "error", err)
	} else {
		metrics.InsightBatchesGenerated.Inc()
	}

	return filtered, s.freshnessWindow, nil
}

func (s *AdvisorService) applyDismissals(ctx context.Context, userID uint64, sessionID string, insights []domain.Insight) []domain.Insight {
	dismissed, err := s.dismissalRepo.Dismissed(ctx, userID, sessionID)
	if err != nil {
		logger.Warn("failed to load dismissals", "user_id", userID, "error", err)
		return insights
	}

	visible := make([]domain.Insight, 0, len(insights))
	for _, ins := range insights {
		if _, ok := dismissed[ins.ID]; ok {
			continue
		}
		visible = append(visible, ins)
	}

	return visible
}

// Dismiss hides the insight for the rest of the session. Dismissing
// the same insight twice is a no-op.
func (s *AdvisorService) Dismiss(ctx context.Context, userID uint64, sessionID, insightID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return s.dismissalRepo.Dismiss(ctx, userID, sessionID, insightID)
}

// Execute performs the mutation an approved insight describes. On
// success the insight is dismissed and, when records changed, the
// batch is marked for regeneration. On failure the insight is left
// visible so the user may retry; there is no automatic retry.
func (s *AdvisorService) Execute(ctx context.Context, userID uint64, sessionID, insightID string) (ExecuteResult, error) {
	if err := ctx.Err(); err != nil {
		return ExecuteResult{}, fmt.Errorf("context error: %w", err)
	}

	insights, err := s.loadBatch(ctx, userID, false)
	if err != nil {
		return ExecuteResult{}, err
	}

	var insight *domain.Insight
	for i := range insights {
		if insights[i].ID == insightID {
			insight = &insights[i]
			break
		}
	}
	if insight == nil {
		return ExecuteResult{}, ErrInsightNotFound
	}

	result, err := s.executor.Execute(ctx, userID, *insight)
	if err != nil {
		recordExecution(insight.Kind, "error")
		return ExecuteResult{}, err
	}
	recordExecution(insight.Kind, "success")

	if err := s.dismissalRepo.Dismiss(ctx, userID, sessionID, insight.ID); err != nil {
		logger.Warn("failed to record post-execution dismissal", "insight_id", insight.ID, "error", err)
	}

	if result.Mutated {
		if err := s.insightRepo.MarkStale(ctx, userID, domain.DefaultCacheKey); err != nil {
			logger.Warn("failed to mark insight batch stale", "user_id", userID, "error", err)
		}
		s.memCache.Invalidate(s.memKey(userID))
	}

	return result, nil
}

// VisibleCount backs the advisor badge.
func (s *AdvisorService) VisibleCount(ctx context.Context, userID uint64, sessionID string) (int, error) {
	visible, err := s.LoadInsights(ctx, userID, sessionID, false)
	if err != nil {
		return 0, err
	}

	return len(visible), nil
}

// ClearSession drops the session's dismissals and cached batch. Used
// on sign-out.
func (s *AdvisorService) ClearSession(ctx context.Context, userID uint64, sessionID string) error {
	s.memCache.Invalidate(s.memKey(userID))

	return s.dismissalRepo.ClearSession(ctx, userID, sessionID)
}

func decodeInsights(raw []byte) []domain.Insight {
	if len(raw) == 0 {
		return []domain.Insight{}
	}

	var insights []domain.Insight
	if err := json.Unmarshal(raw, &insights); err != nil {
		logger.Error("failed to decode stored insights", err)
		return []domain.Insight{}
	}

	return insights
}
