package bundle

import (
	"context"
	"errors"
	"fmt"

	"resellPilot/domain"
	"resellPilot/pkg/logger"
)

// BundleRepository contract interface
type BundleRepository interface {
	FindByID(ctx context.Context, userID uint64, id string) (domain.Bundle, error)
	FindAllByUser(ctx context.Context, userID uint64) ([]domain.Bundle, error)
	MembersOf(ctx context.Context, bundleID string) ([]domain.BundleItem, error)
	Dissolve(ctx context.Context, userID uint64, bundleID string) error
}

// BundleWithItems pairs a bundle with its member item ids.
type BundleWithItems struct {
	domain.Bundle
	ItemIDs []uint64 `json:"item_ids"`
}

type bundleService struct {
	bundleRepo BundleRepository
}

func NewBundleService(bundleRepo BundleRepository) *bundleService {
	return &bundleService{
		bundleRepo: bundleRepo,
	}
}

func (s *bundleService) GetAllBundles(ctx context.Context, userID uint64) ([]domain.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	bundles, err := s.bundleRepo.FindAllByUser(ctx, userID)
	if err != nil {
		logger.Error("failed to find bundles", err)
		return nil, err
	}

	return bundles, nil
}

func (s *bundleService) GetBundleByID(ctx context.Context, userID uint64, id string) (*BundleWithItems, error) {
	if id == "" {
		return nil, errors.New("invalid bundle id")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	bundle, err := s.bundleRepo.FindByID(ctx, userID, id)
	if err != nil {
		logger.Error("failed to find bundle by id", err)
		return nil, err
	}

	members, err := s.bundleRepo.MembersOf(ctx, id)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]uint64, 0, len(members))
	for _, m := range members {
		itemIDs = append(itemIDs, m.ItemID)
	}

	return &BundleWithItems{Bundle: bundle, ItemIDs: itemIDs}, nil
}

// DissolveBundle retires the bundle and releases its items so they can
// join future bundles.
func (s *bundleService) DissolveBundle(ctx context.Context, userID uint64, id string) error {
	if id == "" {
		return errors.New("invalid bundle id")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.bundleRepo.Dissolve(ctx, userID, id); err != nil {
		logger.Error("failed to dissolve bundle", err)
		return err
	}

	logger.Info("bundle dissolved", "bundle_id", id)

	return nil
}
