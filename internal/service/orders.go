package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
)

type OrderService struct {
	Repo *repo.GormRepo
}

type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Pages  int            `json:"pages"`
	Page   int            `json:"page"`
	Size   int            `json:"size"`
}

func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id must be not nil: %w", ErrValidation)
	}
	offset, limit := util.Calculate(page, size)
	return s.Repo.ListOrdersByUser(ctx, userID, limit, offset)
}

// ListAll is the admin listing, newest first.
func (s *OrderService) ListAll(ctx context.Context, page, size int) (*OrderPage, error) {
	offset, limit := util.Calculate(page, size)
	total, orders, err := s.Repo.ListOrders(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &OrderPage{
		Orders: orders,
		Total:  total,
		Pages:  util.TotalPages(total, limit),
		Page:   util.NormalizePage(page),
		Size:   limit,
	}, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	if id == 0 {
		return nil, fmt.Errorf("order id must be positive: %w", ErrValidation)
	}
	o, err := s.Repo.GetOrderWithItems(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order not found: %w", ErrNotFound)
	}
	return o, err
}
