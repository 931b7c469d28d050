package item

import (
	"context"
	"errors"
	"testing"

	"resellPilot/domain"
)

type stubItemRepo struct {
	items      map[uint64]domain.Item
	created    int
	deleted    int
	lastStatus string
}

func newStubItemRepo(items ...domain.Item) *stubItemRepo {
	m := make(map[uint64]domain.Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return &stubItemRepo{items: m}
}

func (r *stubItemRepo) Create(ctx context.Context, item *domain.Item) error {
	r.created++
	item.ID = uint64(len(r.items) + 1)
	r.items[item.ID] = *item
	return nil
}

func (r *stubItemRepo) FindByID(ctx context.Context, userID, id uint64) (domain.Item, error) {
	it, ok := r.items[id]
	if !ok || it.UserID != userID {
		return domain.Item{}, errors.New("item not found")
	}
	return it, nil
}

func (r *stubItemRepo) FindAllByUser(ctx context.Context, userID uint64) ([]domain.Item, error) {
	var out []domain.Item
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *stubItemRepo) Update(ctx context.Context, item *domain.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *stubItemRepo) UpdateStatus(ctx context.Context, userID uint64, ids []uint64, status string) error {
	r.lastStatus = status
	for _, id := range ids {
		it := r.items[id]
		it.Status = status
		r.items[id] = it
	}
	return nil
}

func (r *stubItemRepo) Delete(ctx context.Context, userID, id uint64) error {
	r.deleted++
	delete(r.items, id)
	return nil
}

func TestCreateItemDefaultsToDraft(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo)

	created, err := svc.CreateItem(context.Background(), &domain.Item{
		UserID: 1,
		Title:  "Wool coat",
		Price:  120,
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Status != domain.ItemStatusDraft {
		t.Fatalf("status = %s, want draft", created.Status)
	}
	if repo.created != 1 {
		t.Fatalf("created %d rows", repo.created)
	}
}

func TestCreateItemValidation(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo)

	if _, err := svc.CreateItem(context.Background(), &domain.Item{UserID: 1, Price: 10}); err == nil {
		t.Fatal("expected error for missing title")
	}
	if _, err := svc.CreateItem(context.Background(), &domain.Item{UserID: 1, Title: "x", Price: -1}); err == nil {
		t.Fatal("expected error for negative price")
	}
	if repo.created != 0 {
		t.Fatal("invalid items must not be persisted")
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	cases := []struct {
		from string
		to   string
		ok   bool
	}{
		{domain.ItemStatusDraft, domain.ItemStatusReady, true},
		{domain.ItemStatusDraft, domain.ItemStatusPublished, false},
		{domain.ItemStatusReady, domain.ItemStatusPublished, true},
		{domain.ItemStatusReady, domain.ItemStatusScheduled, true},
		{domain.ItemStatusScheduled, domain.ItemStatusPublished, true},
		{domain.ItemStatusPublished, domain.ItemStatusSold, true},
		{domain.ItemStatusPublished, domain.ItemStatusDraft, false},
		{domain.ItemStatusSold, domain.ItemStatusPublished, false},
		{domain.ItemStatusReady, domain.ItemStatusReady, true}, // same status is a no-op
	}

	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			repo := newStubItemRepo(domain.Item{ID: 1, UserID: 1, Title: "x", Status: tc.from})
			svc := NewItemService(repo)

			updated, err := svc.UpdateStatus(context.Background(), 1, 1, tc.to)
			if tc.ok {
				if err != nil {
					t.Fatalf("%s -> %s should be allowed: %v", tc.from, tc.to, err)
				}
				if updated.Status != tc.to {
					t.Fatalf("status = %s, want %s", updated.Status, tc.to)
				}
			} else if err == nil {
				t.Fatalf("%s -> %s should be rejected", tc.from, tc.to)
			}
		})
	}
}

func TestUpdateStatusSetsSoldAt(t *testing.T) {
	repo := newStubItemRepo(domain.Item{ID: 1, UserID: 1, Title: "x", Status: domain.ItemStatusPublished})
	svc := NewItemService(repo)

	updated, err := svc.UpdateStatus(context.Background(), 1, 1, domain.ItemStatusSold)
	if err != nil {
		t.Fatal(err)
	}
	if updated.SoldAt == nil {
		t.Fatal("expected sold_at to be stamped")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := newStubItemRepo(domain.Item{ID: 1, UserID: 1, Title: "x", Status: domain.ItemStatusDraft})
	svc := NewItemService(repo)

	if _, err := svc.UpdateStatus(context.Background(), 1, 1, "archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestDeleteItemRequiresOwnership(t *testing.T) {
	repo := newStubItemRepo(domain.Item{ID: 1, UserID: 1, Title: "x", Status: domain.ItemStatusDraft})
	svc := NewItemService(repo)

	if err := svc.DeleteItem(context.Background(), 2, 1); err == nil {
		t.Fatal("expected error for foreign item")
	}
	if repo.deleted != 0 {
		t.Fatal("foreign item must not be deleted")
	}

	if err := svc.DeleteItem(context.Background(), 1, 1); err != nil {
		t.Fatal(err)
	}
	if repo.deleted != 1 {
		t.Fatal("expected the delete to reach the repository")
	}
}
