package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resellPilot/domain"

	"gorm.io/gorm"
)

type ItemRepository struct {
	DB *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{
		DB: db,
	}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, userID, id uint64) (domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return domain.Item{}, fmt.Errorf("context error: %w", err)
	}

	var item domain.Item

	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Item{}, errors.New("item not found")
		}
		return domain.Item{}, fmt.Errorf("failed to find item: %w", err)
	}

	return item, nil
}

// FindByIDs returns every requested item; missing ids surface as an
// error because the executor must not operate on a partial set.
func (r *ItemRepository) FindByIDs(ctx context.Context, userID uint64, ids []uint64) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.Item
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}

	if len(items) != len(ids) {
		return nil, errors.New("item not found")
	}

	return items, nil
}

func (r *ItemRepository) FindAllByUser(ctx context.Context, userID uint64) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.Item
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}

	return items, nil
}

// FindActiveByUser returns unsold inventory, the oracle's main input.
func (r *ItemRepository) FindActiveByUser(ctx context.Context, userID uint64) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.Item
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status <> ?", domain.ItemStatusSold).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) FindSoldSince(ctx context.Context, userID uint64, since time.Time) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.Item
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status = ?", domain.ItemStatusSold).
		Where("sold_at >= ?", since).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find sold items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"title":       item.Title,
		"description": item.Description,
		"category":    item.Category,
		"price":       item.Price,
		"photos":      item.Photos,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Item{}).
		Where("id = ?", item.ID).
		Where("user_id = ?", item.UserID).
		Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("item not found or already deleted")
	}

	return nil
}

func (r *ItemRepository) UpdateStatus(ctx context.Context, userID uint64, ids []uint64, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"status": status,
	}
	if status == domain.ItemStatusSold {
		updateData["sold_at"] = time.Now()
	}

	err := r.DB.WithContext(ctx).Model(&domain.Item{}).
		Where("user_id = ?", userID).
		Where("id IN ?", ids).
		Updates(updateData).Error
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}

	return nil
}

func (r *ItemRepository) UpdatePrice(ctx context.Context, userID, id uint64, price float64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Item{}).
		Where("user_id = ?", userID).
		Where("id = ?", id).
		Update("price", price)
	if result.Error != nil {
		return fmt.Errorf("failed to update item price: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("item not found or already deleted")
	}

	return nil
}

func (r *ItemRepository) PatchSEO(ctx context.Context, userID, id uint64, seoKeywords, hashtags, searchTerms []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"seo_keywords": seoKeywords,
		"hashtags":     hashtags,
		"search_terms": searchTerms,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Item{}).
		Where("user_id = ?", userID).
		Where("id = ?", id).
		Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to patch item seo fields: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("item not found or already deleted")
	}

	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, userID, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.Item{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("item not found or already deleted")
	}

	return nil
}
