package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/sejin/dispatch-platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountLoggedIn EventType = "account_logged_in"
	EventTokenRejected   EventType = "token_rejected"
	EventOrderCreated    EventType = "order_created"
	EventOrderAssigned   EventType = "order_assigned"
	EventOrderDelivered  EventType = "order_delivered"
)

// Event represents an auth or dispatch event emitted by the platform.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func newEvent(eventType EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// LoginPayload records a successful login.
type LoginPayload struct {
	AccountID int64       `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// TokenRejectedPayload records a bearer token that failed verification.
// Reason is the internal cause; it never reaches a client response.
type TokenRejectedPayload struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// OrderPayload records an order lifecycle change.
type OrderPayload struct {
	OrderID  int64              `json:"order_id"`
	PlantID  int64              `json:"plant_id"`
	DriverID *int64             `json:"driver_id,omitempty"`
	Status   domain.OrderStatus `json:"status"`
}

// AccountLoggedIn builds a login event.
func AccountLoggedIn(accountID int64, role domain.Role) Event {
	return newEvent(EventAccountLoggedIn, LoginPayload{AccountID: accountID, Role: role})
}

// TokenRejected builds a token rejection event.
func TokenRejected(path string, cause error) Event {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	return newEvent(EventTokenRejected, TokenRejectedPayload{Path: path, Reason: reason})
}

// OrderEvent builds an order lifecycle event of the given type.
func OrderEvent(eventType EventType, order *domain.DispatchOrder) Event {
	return newEvent(eventType, OrderPayload{
		OrderID:  order.ID,
		PlantID:  order.PlantID,
		DriverID: order.DriverID,
		Status:   order.Status,
	})
}
