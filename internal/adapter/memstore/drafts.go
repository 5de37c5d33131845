package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/port"
)

var _ port.DraftStore = (*DraftRepo)(nil)

type DraftRepo struct {
	s *Store
}

func (r DraftRepo) Save(
	ctx context.Context, d domain.ReviewDraft,
) (domain.ReviewDraft, error) {
	const op = "memstore.DraftRepo.Save"

	if err := ctx.Err(); err != nil {
		return domain.ReviewDraft{}, fmt.Errorf("%s: %w", op, err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d.CreatedAt = r.s.now()
	d.Attributes = d.Attributes.Clone()
	r.s.drafts[d.ID] = d
	return d, nil
}

// List returns drafts newest first.
func (r DraftRepo) List(
	ctx context.Context, page domain.Page,
) ([]domain.ReviewDraft, error) {
	const op = "memstore.DraftRepo.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ds := make([]domain.ReviewDraft, 0, len(r.s.drafts))
	for _, d := range r.s.drafts {
		ds = append(ds, d)
	}
	sort.Slice(ds, func(i, j int) bool {
		if !ds[i].CreatedAt.Equal(ds[j].CreatedAt) {
			return ds[i].CreatedAt.After(ds[j].CreatedAt)
		}
		return ds[i].ID < ds[j].ID
	})

	page = page.Normalize()
	off := page.Offset()
	if off >= len(ds) {
		return []domain.ReviewDraft{}, nil
	}
	end := off + page.Size
	if end > len(ds) {
		end = len(ds)
	}
	return ds[off:end], nil
}
