package domain

import (
	"fmt"
	"hash/fnv"
	"time"

	"gorm.io/datatypes"
)

const (
	InsightKindReadyToPublish  = "ready_to_publish"
	InsightKindReadyToList     = "ready_to_list"
	InsightKindPriceDrop       = "price_drop"
	InsightKindSeasonal        = "seasonal"
	InsightKindStale           = "stale"
	InsightKindIncomplete      = "incomplete"
	InsightKindOpportunity     = "opportunity"
	InsightKindBundle          = "bundle"
	InsightKindSEOOptimization = "seo_optimization"
)

const (
	InsightPriorityHigh   = "high"
	InsightPriorityMedium = "medium"
	InsightPriorityLow    = "low"
)

// Batch status values. A stale batch is regenerated on the next load.
const (
	BatchStatusActive = "active"
	BatchStatusStale  = "stale"
)

// DefaultCacheKey is the single batch slot most callers use; the
// schema allows multiple named batches per user.
const DefaultCacheKey = "default"

// SuggestedAction is the optional structured payload guiding the
// executor, e.g. {Type: "discount", Value: 10} for a 10% price drop.
type SuggestedAction struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Insight is a single advisory recommendation. It is a value type
// serialized into the batch row, not a table of its own.
type Insight struct {
	ID              string           `json:"id"`
	Kind            string           `json:"kind"`
	Priority        string           `json:"priority"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	ActionLabel     string           `json:"action_label"`
	ItemIDs         []uint64         `json:"item_ids"`
	SuggestedAction *SuggestedAction `json:"suggested_action,omitempty"`
}

// ComputeInsightID derives the synthetic stable identifier from the
// insight's kind, item set and the batch generation time. Titles stay
// a display concern only.
func ComputeInsightID(kind string, itemIDs []uint64, generatedAt time.Time) string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|", kind)
	for _, id := range itemIDs {
		_, _ = fmt.Fprintf(h, "%d,", id)
	}
	_, _ = fmt.Fprintf(h, "|%d", generatedAt.UnixNano())

	return fmt.Sprintf("%016x", h.Sum64())
}

// CREATE TABLE public.insight_batches (
//     id            TEXT PRIMARY KEY,
//     user_id       BIGINT NOT NULL,
//     cache_key     TEXT NOT NULL DEFAULT 'default',
//     status        TEXT NOT NULL DEFAULT 'active',
//     insights      JSONB,
//     generated_at  TIMESTAMPTZ NOT NULL,
//     expires_at    TIMESTAMPTZ NOT NULL
// );

type InsightBatch struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	UserID      uint64         `gorm:"column:user_id;not null;index:idx_batch_user_key" json:"user_id"`
	CacheKey    string         `gorm:"column:cache_key;not null;default:default;index:idx_batch_user_key" json:"cache_key"`
	Status      string         `gorm:"column:status;not null;default:active" json:"status"`
	Insights    datatypes.JSON `gorm:"column:insights" json:"insights"`
	GeneratedAt time.Time      `gorm:"column:generated_at;not null" json:"generated_at"`
	ExpiresAt   time.Time      `gorm:"column:expires_at;not null" json:"expires_at"`
}

func (InsightBatch) TableName() string {
	return "insight_batches"
}
