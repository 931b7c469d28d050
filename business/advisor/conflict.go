package advisor

import (
	"context"

	"resellPilot/domain"
	"resellPilot/pkg/metrics"
)

// conflictingItems returns the subset of itemIDs already committed to
// an active bundle.
func conflictingItems(ctx context.Context, repo BundleRepository, itemIDs []uint64) ([]uint64, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	rows, err := repo.ActiveMemberships(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	taken := make(map[uint64]struct{}, len(rows))
	for _, row := range rows {
		taken[row.ItemID] = struct{}{}
	}

	// preserve the insight's item order in the result
	var out []uint64
	for _, id := range itemIDs {
		if _, ok := taken[id]; ok {
			out = append(out, id)
		}
	}

	return out, nil
}

// filterConflicts drops every bundle insight that references an item
// already grouped elsewhere. One conflicting member removes the whole
// insight, not just the item. Non-bundle insights pass through.
func filterConflicts(ctx context.Context, repo BundleRepository, insights []domain.Insight) ([]domain.Insight, error) {
	out := make([]domain.Insight, 0, len(insights))

	for _, ins := range insights {
		if ins.Kind != domain.InsightKindBundle {
			out = append(out, ins)
			continue
		}

		conflicts, err := conflictingItems(ctx, repo, ins.ItemIDs)
		if err != nil {
			return nil, err
		}

		if len(conflicts) > 0 {
			metrics.ConflictsFiltered.Inc()
			continue
		}

		out = append(out, ins)
	}

	return out, nil
}
