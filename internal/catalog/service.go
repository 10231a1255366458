package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput indicates a rejected catalog form.
var ErrInvalidInput = errors.New("invalid catalog input")

// Service wraps catalog business rules.
type Service struct {
	repo Repository
	// invalidate is called after a price-affecting write so cached
	// lookups never serve a stale price past their TTL window.
	invalidate func(ctx context.Context, kind ItemKind, id int64)
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// OnPriceChange registers an invalidation hook used by the cached price lookup.
func (s *Service) OnPriceChange(fn func(ctx context.Context, kind ItemKind, id int64)) {
	s.invalidate = fn
}

func (s *Service) List(ctx context.Context, kind ItemKind, filters ListFilters) ([]Item, int, error) {
	return s.repo.List(ctx, kind, filters)
}

func (s *Service) Get(ctx context.Context, kind ItemKind, id int64) (Item, error) {
	if id <= 0 {
		return Item{}, ErrNotFound
	}
	return s.repo.Get(ctx, kind, id)
}

func (s *Service) Create(ctx context.Context, kind ItemKind, form ItemForm) (Item, error) {
	if err := validateForm(form); err != nil {
		return Item{}, err
	}
	item := Item{
		Name:         strings.TrimSpace(form.Name),
		Description:  form.Description,
		UnitPrice:    form.UnitPrice.Round(2),
		RecordStatus: StatusActive,
	}
	return s.repo.Create(ctx, kind, item)
}

func (s *Service) Update(ctx context.Context, kind ItemKind, id int64, form ItemForm) (Item, error) {
	if id <= 0 {
		return Item{}, ErrNotFound
	}
	if err := validateForm(form); err != nil {
		return Item{}, err
	}
	item := Item{
		Name:        strings.TrimSpace(form.Name),
		Description: form.Description,
		UnitPrice:   form.UnitPrice.Round(2),
	}
	if err := s.repo.Update(ctx, kind, id, item); err != nil {
		return Item{}, err
	}
	if s.invalidate != nil {
		s.invalidate(ctx, kind, id)
	}
	return s.repo.Get(ctx, kind, id)
}

// Activate restores a soft-deleted catalog item. Catalog entities keep the
// symmetric activate/deactivate pair, unlike quotations.
func (s *Service) Activate(ctx context.Context, kind ItemKind, id int64) error {
	return s.setStatus(ctx, kind, id, StatusActive)
}

// Deactivate hides the item from listings and price resolution.
func (s *Service) Deactivate(ctx context.Context, kind ItemKind, id int64) error {
	return s.setStatus(ctx, kind, id, StatusInactive)
}

func (s *Service) setStatus(ctx context.Context, kind ItemKind, id int64, status RecordStatus) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := s.repo.SetRecordStatus(ctx, kind, id, status); err != nil {
		return err
	}
	if s.invalidate != nil {
		s.invalidate(ctx, kind, id)
	}
	return nil
}

func validateForm(form ItemForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return ErrInvalidInput
	}
	if form.UnitPrice.LessThan(decimal.Zero) {
		return ErrInvalidInput
	}
	return nil
}
