package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailbook/billing-api/internal/application/dto"
	"github.com/retailbook/billing-api/internal/domain"
	"github.com/retailbook/billing-api/internal/domain/entity"
	"github.com/retailbook/billing-api/internal/domain/repository"
)

// CustomerUseCase thin CRUD over customers.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase wires the use case.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create registers a new customer. Name is required.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		City:      in.City,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return customerResponse(c), nil
}

// List returns customers.
func (uc *CustomerUseCase) List(ctx context.Context, limit, offset int) ([]*dto.CustomerResponse, error) {
	customers, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerResponse(c))
	}
	return out, nil
}

func customerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Address: c.Address,
		City:    c.City,
	}
}
