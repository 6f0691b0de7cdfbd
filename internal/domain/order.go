package domain

import "time"

// OrderStatus represents lifecycle states for a dispatch order.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusAssigned  OrderStatus = "ASSIGNED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// DispatchOrder models a haulage request raised by a plant and executed by a driver.
type DispatchOrder struct {
	ID        int64
	PlantID   int64
	DriverID  *int64
	Material  string
	Quantity  int
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
