package postgres

import (
	"context"
	"errors"
	"fmt"

	"resellPilot/domain"

	"gorm.io/gorm"
)

type InsightRepository struct {
	DB *gorm.DB
}

func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{
		DB: db,
	}
}

// LoadBatch returns the stored batch for (user, cache key), or nil if
// none exists. Freshness is judged by the caller, not here.
func (r *InsightRepository) LoadBatch(ctx context.Context, userID uint64, cacheKey string) (*domain.InsightBatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var batch domain.InsightBatch

	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("cache_key = ?", cacheKey).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load insight batch: %w", err)
	}

	return &batch, nil
}

// ReplaceBatch atomically swaps the live batch for (user, cache key):
// delete-then-insert inside one transaction, so at most one batch ever
// exists per slot and there is no window without one.
func (r *InsightRepository) ReplaceBatch(ctx context.Context, batch *domain.InsightBatch) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ?", batch.UserID).
			Where("cache_key = ?", batch.CacheKey).
			Delete(&domain.InsightBatch{}).Error; err != nil {
			return err
		}

		return tx.Create(batch).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace insight batch: %w", err)
	}

	return nil
}

// MarkStale flips the batch out of the active state so the next load
// regenerates instead of serving it.
func (r *InsightRepository) MarkStale(ctx context.Context, userID uint64, cacheKey string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Model(&domain.InsightBatch{}).
		Where("user_id = ?", userID).
		Where("cache_key = ?", cacheKey).
		Update("status", domain.BatchStatusStale).Error
	if err != nil {
		return fmt.Errorf("failed to mark insight batch stale: %w", err)
	}

	return nil
}
