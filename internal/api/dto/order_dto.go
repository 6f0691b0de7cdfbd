package dto

import (
	"time"

	"github.com/sejin/dispatch-platform/internal/domain"
)

// CreateOrderRequest payload for POST /api/plant/orders.
type CreateOrderRequest struct {
	Material string `json:"material" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// AssignOrderRequest payload for POST /api/admin/orders/:id/assign.
type AssignOrderRequest struct {
	DriverID int64 `json:"driver_id" validate:"required,gt=0"`
}

// OrderSummary response shape for a dispatch order.
type OrderSummary struct {
	ID        int64              `json:"id"`
	PlantID   int64              `json:"plant_id"`
	DriverID  *int64             `json:"driver_id,omitempty"`
	Material  string             `json:"material"`
	Quantity  int                `json:"quantity"`
	Status    domain.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// OrderSummaryFrom maps a domain order to its response shape.
func OrderSummaryFrom(order *domain.DispatchOrder) OrderSummary {
	return OrderSummary{
		ID:        order.ID,
		PlantID:   order.PlantID,
		DriverID:  order.DriverID,
		Material:  order.Material,
		Quantity:  order.Quantity,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

// OrderSummariesFrom maps a slice of domain orders.
func OrderSummariesFrom(orders []*domain.DispatchOrder) []OrderSummary {
	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, OrderSummaryFrom(order))
	}
	return summaries
}
