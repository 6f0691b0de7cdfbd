package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/sejin/dispatch-platform/internal/domain"
	"github.com/sejin/dispatch-platform/internal/events"
	"github.com/sejin/dispatch-platform/internal/repository"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

// OrderService coordinates the dispatch order lifecycle.
type OrderService struct {
	orders     repository.OrderRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, accounts repository.AccountRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, accounts: accounts, dispatcher: dispatcher}
}

// Create opens a new dispatch order for the calling plant.
func (s *OrderService) Create(ctx context.Context, plantID int64, material string, quantity int) (*domain.DispatchOrder, error) {
	order := &domain.DispatchOrder{
		PlantID:  plantID,
		Material: material,
		Quantity: quantity,
		Status:   domain.OrderStatusOpen,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.OrderEvent(events.EventOrderCreated, order))
	}
	return order, nil
}

// Assign attaches a driver to an open order (admin operation).
func (s *OrderService) Assign(ctx context.Context, orderID, driverID int64) (*domain.DispatchOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusOpen {
		return nil, apperrors.NewError("CONFLICT", "order is not open", http.StatusConflict)
	}

	driver, err := s.accounts.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("driver")
		}
		return nil, err
	}
	if driver.Role != domain.RoleDriver || !driver.Active {
		return nil, apperrors.NewError("CONFLICT", "assignee is not an active driver", http.StatusConflict)
	}

	order.DriverID = &driver.ID
	order.Status = domain.OrderStatusAssigned
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.OrderEvent(events.EventOrderAssigned, order))
	}
	return order, nil
}

// Deliver marks an assigned order delivered by its driver.
func (s *OrderService) Deliver(ctx context.Context, orderID, driverID int64) (*domain.DispatchOrder, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusAssigned || order.DriverID == nil || *order.DriverID != driverID {
		return nil, apperrors.NewError("CONFLICT", "order is not assigned to this driver", http.StatusConflict)
	}

	order.Status = domain.OrderStatusDelivered
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.OrderEvent(events.EventOrderDelivered, order))
	}
	return order, nil
}

// List returns every order (any authenticated role).
func (s *OrderService) List(ctx context.Context) ([]*domain.DispatchOrder, error) {
	return s.orders.List(ctx)
}

// ListForPlant returns orders raised by the given plant.
func (s *OrderService) ListForPlant(ctx context.Context, plantID int64) ([]*domain.DispatchOrder, error) {
	return s.orders.ListByPlant(ctx, plantID)
}

// ListForDriver returns orders assigned to the given driver.
func (s *OrderService) ListForDriver(ctx context.Context, driverID int64) ([]*domain.DispatchOrder, error) {
	return s.orders.ListByDriver(ctx, driverID)
}

func (s *OrderService) getOrder(ctx context.Context, orderID int64) (*domain.DispatchOrder, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, err
	}
	return order, nil
}
