package repository

import (
	"context"

	"github.com/retailbook/billing-api/internal/domain/entity"
)

// CustomerRepository is the persistence port for Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}
