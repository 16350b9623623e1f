package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailbook/billing-api/internal/application/dto"
	"github.com/retailbook/billing-api/internal/domain"
	"github.com/retailbook/billing-api/internal/domain/entity"
	"github.com/retailbook/billing-api/internal/domain/repository"
)

// ItemUseCase thin CRUD over catalog items.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase wires the use case.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create registers a catalog item. Name is required and the price must not
// be negative.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	it := &entity.Item{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Brand:     in.Brand,
		Category:  in.Category,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return itemResponse(it), nil
}

// GetByCode returns the item whose barcode matches, case-insensitively.
// This is the quick-entry path on the invoice form: scan a code, get the
// item and its current price back.
func (uc *ItemUseCase) GetByCode(ctx context.Context, code string) (*dto.ItemResponse, error) {
	it, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	return itemResponse(it), nil
}

// List returns catalog items.
func (uc *ItemUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ItemResponse, error) {
	items, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse(it))
	}
	return out, nil
}

func itemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:       it.ID,
		Code:     it.Code,
		Name:     it.Name,
		Brand:    it.Brand,
		Category: it.Category,
		Price:    it.Price,
	}
}
