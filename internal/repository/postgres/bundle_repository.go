package postgres

import (
	"context"
	"errors"
	"fmt"

	"resellPilot/domain"

	"gorm.io/gorm"
)

type BundleRepository struct {
	DB *gorm.DB
}

func NewBundleRepository(db *gorm.DB) *BundleRepository {
	return &BundleRepository{
		DB: db,
	}
}

// CreateBundle writes the bundle row only. Membership rows are a
// separate step so the saga can compensate between the two.
func (r *BundleRepository) CreateBundle(ctx context.Context, bundle *domain.Bundle) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(bundle).Error; err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}

	return nil
}

func (r *BundleRepository) CreateMembers(ctx context.Context, members []domain.BundleItem) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&members).Error; err != nil {
		return fmt.Errorf("failed to create bundle members: %w", err)
	}

	return nil
}

// DeleteBundle is the compensation for a failed membership insert: it
// removes the bundle row (and any members that did land).
func (r *BundleRepository) DeleteBundle(ctx context.Context, bundleID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bundle_id = ?", bundleID).Delete(&domain.BundleItem{}).Error; err != nil {
			return err
		}

		return tx.Delete(&domain.Bundle{}, "id = ?", bundleID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}

	return nil
}

// ActiveMemberships returns membership rows for the given items where
// the owning bundle is still active. Used by the conflict filter and
// by the execution-time race re-check.
func (r *BundleRepository) ActiveMemberships(ctx context.Context, itemIDs []uint64) ([]domain.BundleItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(itemIDs) == 0 {
		return nil, nil
	}

	var rows []domain.BundleItem
	err := r.DB.WithContext(ctx).
		Table("bundle_items").
		Select("bundle_items.*").
		Joins("JOIN bundles ON bundles.id = bundle_items.bundle_id").
		Where("bundles.status = ?", domain.BundleStatusActive).
		Where("bundle_items.item_id IN ?", itemIDs).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle memberships: %w", err)
	}

	return rows, nil
}

func (r *BundleRepository) FindByID(ctx context.Context, userID uint64, id string) (domain.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return domain.Bundle{}, fmt.Errorf("context error: %w", err)
	}

	var bundle domain.Bundle

	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("id = ?", id).
		First(&bundle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Bundle{}, errors.New("bundle not found")
		}
		return domain.Bundle{}, fmt.Errorf("failed to find bundle: %w", err)
	}

	return bundle, nil
}

func (r *BundleRepository) FindAllByUser(ctx context.Context, userID uint64) ([]domain.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var bundles []domain.Bundle
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&bundles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find bundles: %w", err)
	}

	return bundles, nil
}

func (r *BundleRepository) MembersOf(ctx context.Context, bundleID string) ([]domain.BundleItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.BundleItem
	err := r.DB.WithContext(ctx).Where("bundle_id = ?", bundleID).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle members: %w", err)
	}

	return rows, nil
}

// Dissolve releases the member items and retires the bundle in one
// transaction.
func (r *BundleRepository) Dissolve(ctx context.Context, userID uint64, bundleID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Bundle{}).
			Where("id = ?", bundleID).
			Where("user_id = ?", userID).
			Where("status = ?", domain.BundleStatusActive).
			Update("status", domain.BundleStatusDissolved)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("bundle not found")
		}

		return tx.Where("bundle_id = ?", bundleID).Delete(&domain.BundleItem{}).Error
	})
	if err != nil {
		if err.Error() == "bundle not found" {
			return err
		}
		return fmt.Errorf("failed to dissolve bundle: %w", err)
	}

	return nil
}
