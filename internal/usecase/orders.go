package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"agri-advisor/internal/domain/entity"
	"agri-advisor/internal/domain/repository"
)

type OrderService struct {
	orders repository.OrderRepo
	users  repository.UserRepo
	now    func() time.Time
}

func NewOrderService(orders repository.OrderRepo, users repository.UserRepo) *OrderService {
	return &OrderService{orders: orders, users: users, now: time.Now}
}

func (s *OrderService) Place(ctx context.Context, userID string, req entity.PlaceOrderRequest) (*entity.Order, error) {
	item := strings.TrimSpace(req.Item)
	switch {
	case item == "":
		return nil, fmt.Errorf("%w: item is required", entity.ErrInvalidRequest)
	case req.Quantity <= 0:
		return nil, fmt.Errorf("%w: quantity must be positive", entity.ErrInvalidRequest)
	case req.UnitPriceCents < 0:
		return nil, fmt.Errorf("%w: unit_price_cents must not be negative", entity.ErrInvalidRequest)
	case req.UnitPriceCents > math.MaxInt64/int64(req.Quantity):
		return nil, fmt.Errorf("%w: order total is too large", entity.ErrInvalidRequest)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o := &entity.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		Item:           item,
		Quantity:       req.Quantity,
		UnitPriceCents: req.UnitPriceCents,
		TotalCents:     int64(req.Quantity) * req.UnitPriceCents,
		Status:         entity.OrderPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, userID string) ([]*entity.Order, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.orders.ListByUser(ctx, userID)
}

// UpdateStatus moves an order to a new status. Delivered and cancelled
// orders are final.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", entity.ErrInvalidRequest, status)
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() && o.Status != status {
		return nil, fmt.Errorf("%w: order is already %s", entity.ErrConflict, o.Status)
	}
	now := s.now().UTC()
	if err := s.orders.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, err
	}
	o.Status = status
	o.UpdatedAt = now
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}
