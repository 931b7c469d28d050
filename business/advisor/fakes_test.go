package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"resellPilot/domain"
	"resellPilot/internal/repository/oracle"
)

// movable fake clock shared by service and cache
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// ---- item repo ----

type fakeItemRepo struct {
	mu          sync.Mutex
	items       map[uint64]domain.Item
	failUpdate  error
	statusCalls int
	priceCalls  int
	seoPatched  map[uint64]bool
}

func newFakeItemRepo(items ...domain.Item) *fakeItemRepo {
	m := make(map[uint64]domain.Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return &fakeItemRepo{items: m, seoPatched: map[uint64]bool{}}
}

func (r *fakeItemRepo) FindByIDs(ctx context.Context, userID uint64, ids []uint64) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		it, ok := r.items[id]
		if !ok || it.UserID != userID {
			return nil, errors.New("item not found")
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *fakeItemRepo) FindActiveByUser(ctx context.Context, userID uint64) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Item
	for _, it := range r.items {
		if it.UserID == userID && it.Status != domain.ItemStatusSold {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) FindSoldSince(ctx context.Context, userID uint64, since time.Time) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Item
	for _, it := range r.items {
		if it.UserID == userID && it.Status == domain.ItemStatusSold && it.SoldAt != nil && !it.SoldAt.Before(since) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) UpdateStatus(ctx context.Context, userID uint64, ids []uint64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failUpdate != nil {
		return r.failUpdate
	}

	r.statusCalls++
	for _, id := range ids {
		it := r.items[id]
		it.Status = status
		r.items[id] = it
	}
	return nil
}

func (r *fakeItemRepo) UpdatePrice(ctx context.Context, userID, id uint64, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failUpdate != nil {
		return r.failUpdate
	}

	r.priceCalls++
	it, ok := r.items[id]
	if !ok {
		return errors.New("item not found or already deleted")
	}
	it.Price = price
	r.items[id] = it
	return nil
}

func (r *fakeItemRepo) PatchSEO(ctx context.Context, userID, id uint64, seoKeywords, hashtags, searchTerms []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok {
		return errors.New("item not found or already deleted")
	}
	it.SEOKeywords = seoKeywords
	it.Hashtags = hashtags
	it.SearchTerms = searchTerms
	r.items[id] = it
	r.seoPatched[id] = true
	return nil
}

func (r *fakeItemRepo) price(id uint64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Price
}

func (r *fakeItemRepo) status(id uint64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Status
}

// ---- bundle repo ----

type fakeBundleRepo struct {
	mu                sync.Mutex
	bundles           map[string]*domain.Bundle
	members           []domain.BundleItem
	failCreateBundle  error
	failCreateMembers error
}

func newFakeBundleRepo() *fakeBundleRepo {
	return &fakeBundleRepo{bundles: map[string]*domain.Bundle{}}
}

func (r *fakeBundleRepo) CreateBundle(ctx context.Context, bundle *domain.Bundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreateBundle != nil {
		return r.failCreateBundle
	}
	r.bundles[bundle.ID] = bundle
	return nil
}

func (r *fakeBundleRepo) CreateMembers(ctx context.Context, members []domain.BundleItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreateMembers != nil {
		return r.failCreateMembers
	}
	r.members = append(r.members, members...)
	return nil
}

func (r *fakeBundleRepo) DeleteBundle(ctx context.Context, bundleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bundles, bundleID)

	kept := r.members[:0]
	for _, m := range r.members {
		if m.BundleID != bundleID {
			kept = append(kept, m)
		}
	}
	r.members = kept
	return nil
}

func (r *fakeBundleRepo) ActiveMemberships(ctx context.Context, itemIDs []uint64) ([]domain.BundleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[uint64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}

	var out []domain.BundleItem
	for _, m := range r.members {
		b, ok := r.bundles[m.BundleID]
		if !ok || b.Status != domain.BundleStatusActive {
			continue
		}
		if _, ok := wanted[m.ItemID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// seed an existing active bundle holding the given items
func (r *fakeBundleRepo) seedBundle(id string, itemIDs ...uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bundles[id] = &domain.Bundle{ID: id, Status: domain.BundleStatusActive}
	for _, itemID := range itemIDs {
		r.members = append(r.members, domain.BundleItem{BundleID: id, ItemID: itemID})
	}
}

func (r *fakeBundleRepo) bundleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bundles)
}

func (r *fakeBundleRepo) memberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// ---- insight repo ----

type fakeInsightRepo struct {
	mu       sync.Mutex
	batches  map[string]*domain.InsightBatch
	replaces int
	failLoad error
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{batches: map[string]*domain.InsightBatch{}}
}

func batchKey(userID uint64, cacheKey string) string {
	return fmt.Sprintf("%d|%s", userID, cacheKey)
}

func (r *fakeInsightRepo) LoadBatch(ctx context.Context, userID uint64, cacheKey string) (*domain.InsightBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failLoad != nil {
		return nil, r.failLoad
	}

	b, ok := r.batches[batchKey(userID, cacheKey)]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeInsightRepo) ReplaceBatch(ctx context.Context, batch *domain.InsightBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.replaces++
	cp := *batch
	r.batches[batchKey(batch.UserID, batch.CacheKey)] = &cp
	return nil
}

func (r *fakeInsightRepo) MarkStale(ctx context.Context, userID uint64, cacheKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.batches[batchKey(userID, cacheKey)]; ok {
		b.Status = domain.BatchStatusStale
	}
	return nil
}

func (r *fakeInsightRepo) liveBatches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

// ---- dismissal repo ----

type fakeDismissalRepo struct {
	mu        sync.Mutex
	dismissed map[string]map[string]struct{}
}

func newFakeDismissalRepo() *fakeDismissalRepo {
	return &fakeDismissalRepo{dismissed: map[string]map[string]struct{}{}}
}

func sessionKey(userID uint64, sessionID string) string {
	return fmt.Sprintf("%d|%s", userID, sessionID)
}

func (r *fakeDismissalRepo) Dismiss(ctx context.Context, userID uint64, sessionID, insightID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey(userID, sessionID)
	if r.dismissed[key] == nil {
		r.dismissed[key] = map[string]struct{}{}
	}
	r.dismissed[key][insightID] = struct{}{}
	return nil
}

func (r *fakeDismissalRepo) Dismissed(ctx context.Context, userID uint64, sessionID string) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := map[string]struct{}{}
	for id := range r.dismissed[sessionKey(userID, sessionID)] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *fakeDismissalRepo) ClearSession(ctx context.Context, userID uint64, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.dismissed, sessionKey(userID, sessionID))
	return nil
}

// ---- oracles ----

type fakeRecommendationOracle struct {
	mu       sync.Mutex
	insights []domain.Insight
	err      error
	calls    int
}

func (o *fakeRecommendationOracle) Generate(ctx context.Context, activeItems, soldItems []domain.Item, month time.Month) ([]domain.Insight, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.calls++
	if o.err != nil {
		return nil, o.err
	}

	out := make([]domain.Insight, len(o.insights))
	copy(out, o.insights)
	return out, nil
}

func (o *fakeRecommendationOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

type fakeEnrichmentOracle struct {
	desc  oracle.GroupDescription
	seo   oracle.ItemSEO
	err   error
	calls int
}

func (o *fakeEnrichmentOracle) DescribeGroup(ctx context.Context, items []domain.Item, styleHint string) (oracle.GroupDescription, error) {
	o.calls++
	if o.err != nil {
		return oracle.GroupDescription{}, o.err
	}
	return o.desc, nil
}

func (o *fakeEnrichmentOracle) OptimizeItemSEO(ctx context.Context, item domain.Item) (oracle.ItemSEO, error) {
	o.calls++
	if o.err != nil {
		return oracle.ItemSEO{}, o.err
	}
	return o.seo, nil
}
