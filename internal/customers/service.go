package customers

import (
	"context"
	"strings"
)

// Service wraps customer business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form CustomerForm) (Customer, error) {
	return s.repo.Create(ctx, Customer{
		Name:         strings.TrimSpace(form.Name),
		Email:        form.Email,
		Phone:        form.Phone,
		RecordStatus: StatusActive,
	})
}

func (s *Service) Update(ctx context.Context, id int64, form CustomerForm) (Customer, error) {
	if id <= 0 {
		return Customer{}, ErrNotFound
	}
	c := Customer{
		Name:  strings.TrimSpace(form.Name),
		Email: form.Email,
		Phone: form.Phone,
	}
	if err := s.repo.Update(ctx, id, c); err != nil {
		return Customer{}, err
	}
	return s.repo.Get(ctx, id)
}

// Activate restores a deactivated customer.
func (s *Service) Activate(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.SetRecordStatus(ctx, id, StatusActive)
}

// Deactivate hides the customer from listings.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.SetRecordStatus(ctx, id, StatusInactive)
}
