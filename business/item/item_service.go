package item

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resellPilot/domain"
	"resellPilot/pkg/logger"
)

// ItemRepository contract interface
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, userID, id uint64) (domain.Item, error)
	FindAllByUser(ctx context.Context, userID uint64) ([]domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	UpdateStatus(ctx context.Context, userID uint64, ids []uint64, status string) error
	Delete(ctx context.Context, userID, id uint64) error
}

// legal status transitions for a listing
var statusTransitions = map[string][]string{
	domain.ItemStatusDraft:     {domain.ItemStatusReady},
	domain.ItemStatusReady:     {domain.ItemStatusDraft, domain.ItemStatusPublished, domain.ItemStatusScheduled},
	domain.ItemStatusScheduled: {domain.ItemStatusReady, domain.ItemStatusPublished},
	domain.ItemStatusPublished: {domain.ItemStatusSold, domain.ItemStatusReady},
	domain.ItemStatusSold:      {},
}

type itemService struct {
	itemRepo ItemRepository
}

func NewItemService(itemRepo ItemRepository) *itemService {
	return &itemService{
		itemRepo: itemRepo,
	}
}

func (s *itemService) GetAllItems(ctx context.Context, userID uint64) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when getting all items")
		return nil, fmt.Errorf("context error: %w", err)
	}

	items, err := s.itemRepo.FindAllByUser(ctx, userID)
	if err != nil {
		logger.Error("failed to find all items", err)
		return nil, err
	}

	return items, nil
}

func (s *itemService) GetItemByID(ctx context.Context, userID, id uint64) (*domain.Item, error) {
	if id == 0 {
		logger.Error("invalid item id")
		return nil, errors.New("invalid item id")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	item, err := s.itemRepo.FindByID(ctx, userID, id)
	if err != nil {
		logger.Error("failed to find item by id", err)
		return nil, err
	}

	return &item, nil
}

func (s *itemService) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if item.Title == "" {
		logger.Error("invalid item data: title is required")
		return nil, errors.New("title is required")
	}

	if item.Price < 0 {
		logger.Error("invalid item data: price cannot be negative")
		return nil, errors.New("price cannot be negative")
	}

	if item.Status == "" {
		item.Status = domain.ItemStatusDraft
	}
	if !domain.ValidItemStatus(item.Status) {
		return nil, errors.New("invalid item status")
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		logger.Error("failed to create new item", err)
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	logger.Info("item created successfully", "item_id", item.ID)

	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if item.ID == 0 {
		return nil, errors.New("item ID is required")
	}

	if item.Title == "" {
		return nil, errors.New("title is required")
	}

	if item.Price < 0 {
		return nil, errors.New("price cannot be negative")
	}

	// Verify item exists and belongs to the user
	if _, err := s.itemRepo.FindByID(ctx, item.UserID, item.ID); err != nil {
		logger.Error("item not found", err)
		return nil, errors.New("item not found")
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		logger.Error("failed to update item", err)
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	updated, err := s.itemRepo.FindByID(ctx, item.UserID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated item: %w", err)
	}

	logger.Info("item updated", "item_id", item.ID)

	return &updated, nil
}

// UpdateStatus moves a listing along its lifecycle, rejecting illegal
// jumps (e.g. draft straight to published).
func (s *itemService) UpdateStatus(ctx context.Context, userID, id uint64, status string) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if !domain.ValidItemStatus(status) {
		return nil, errors.New("invalid item status")
	}

	item, err := s.itemRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if item.Status != status && !transitionAllowed(item.Status, status) {
		return nil, fmt.Errorf("cannot move item from %s to %s", item.Status, status)
	}

	if err := s.itemRepo.UpdateStatus(ctx, userID, []uint64{id}, status); err != nil {
		logger.Error("failed to update item status", err)
		return nil, err
	}

	item.Status = status
	if status == domain.ItemStatusSold && item.SoldAt == nil {
		now := time.Now()
		item.SoldAt = &now
	}

	return &item, nil
}

func (s *itemService) DeleteItem(ctx context.Context, userID, id uint64) error {
	if id == 0 {
		return errors.New("invalid item id")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if _, err := s.itemRepo.FindByID(ctx, userID, id); err != nil {
		logger.Error("item not found", err)
		return errors.New("item not found")
	}

	if err := s.itemRepo.Delete(ctx, userID, id); err != nil {
		logger.Error("failed to delete item", err)
		return fmt.Errorf("failed to delete item: %w", err)
	}

	logger.Info("item deleted", "item_id", id)

	return nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
