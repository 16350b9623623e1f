package repository

import (
	"context"

	"github.com/retailbook/billing-api/internal/domain/entity"
)

// ItemRepository is the persistence port for catalog items.
// GetByCode matches the code exactly but case-insensitively.
// Both getters return (nil, nil) when no row matches.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}
