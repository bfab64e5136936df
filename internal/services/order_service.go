package services

import (
	"context"
	"fmt"
	"time"

	"zshop-storefront-api/internal/cache"
	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/pagination"
)

// OrderAPI is the part of the shop API the order history needs.
type OrderAPI interface {
	MyOrders(ctx context.Context, status string) ([]models.Order, error)
	OrdersByPhone(ctx context.Context, phone string, q pagination.OrderQuery) ([]models.Order, error)
	Order(ctx context.Context, orderID, phone string) (*models.Order, error)
	EffectiveUserID(ctx context.Context) string
}

// OrderService pages the shopper's order history locally, because the
// upstream list endpoint returns everything at once.
type OrderService struct {
	api    OrderAPI
	orders *cache.TTLCache[[]models.Order]
}

func NewOrderService(api OrderAPI, ttl, cleanup time.Duration) *OrderService {
	return &OrderService{
		api:    api,
		orders: cache.NewTTLCache[[]models.Order]("orders", ttl, cleanup),
	}
}

func (s *OrderService) Close() {
	s.orders.Stop()
}

// Cache exposes the order cache for stats and metrics.
func (s *OrderService) Cache() *cache.TTLCache[[]models.Order] {
	return s.orders
}

func orderStatus(o models.Order) string {
	return string(o.Status)
}

// ListMine returns one page of the shopper's orders. A failed fetch yields
// an empty page carrying the error message, and the error itself.
func (s *OrderService) ListMine(ctx context.Context, q pagination.OrderQuery) (models.PaginatedResponse[models.Order], error) {
	req := q.Request()
	all, err := s.orders.GetOrLoad(s.api.EffectiveUserID(ctx), func() ([]models.Order, error) {
		return s.api.MyOrders(ctx, "")
	})
	if err != nil {
		err = fmt.Errorf("failed to list orders: %w", err)
		return pagination.Failed[models.Order](req, err), err
	}
	return pagination.Paginate(all, req, orderStatus), nil
}

// ByPhone returns one page of the orders placed with phone.
func (s *OrderService) ByPhone(ctx context.Context, phone string, q pagination.OrderQuery) (models.PaginatedResponse[models.Order], error) {
	req := q.Request()
	all, err := s.api.OrdersByPhone(ctx, phone, pagination.OrderQuery{Status: q.Status})
	if err != nil {
		err = fmt.Errorf("failed to list orders for phone: %w", err)
		return pagination.Failed[models.Order](req, err), err
	}
	return pagination.Paginate(all, req, orderStatus), nil
}

// Detail returns one order. phone is needed for orders placed as a guest.
func (s *OrderService) Detail(ctx context.Context, orderID, phone string) (*models.Order, error) {
	o, err := s.api.Order(ctx, orderID, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	return o, nil
}

// Invalidate drops the cached history, e.g. after an order was placed.
func (s *OrderService) Invalidate(ctx context.Context) {
	s.orders.Delete(s.api.EffectiveUserID(ctx))
}
