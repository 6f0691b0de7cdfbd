package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sejin/dispatch-platform/internal/api/dto"
	"github.com/sejin/dispatch-platform/internal/api/response"
	"github.com/sejin/dispatch-platform/internal/auth"
	"github.com/sejin/dispatch-platform/internal/service"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

// OrdersHandler exposes the dispatch order endpoints for all roles.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs the handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Create handles POST /api/plant/orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		return apperrors.NewAuthenticationRequired(c.Path())
	}

	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBindError(nil, err)
	}
	if err := apperrors.ValidateStruct(req); err != nil {
		return err
	}

	order, err := h.orders.Create(c.UserContext(), id.SubjectID, req.Material, req.Quantity)
	if err != nil {
		return err
	}
	return response.Created(c, "order created", dto.OrderSummaryFrom(order))
}

// List handles GET /api/orders (any authenticated role).
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, "orders", dto.OrderSummariesFrom(orders))
}

// ListForPlant handles GET /api/plant/orders.
func (h *OrdersHandler) ListForPlant(c *fiber.Ctx) error {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		return apperrors.NewAuthenticationRequired(c.Path())
	}
	orders, err := h.orders.ListForPlant(c.UserContext(), id.SubjectID)
	if err != nil {
		return err
	}
	return response.OK(c, "orders", dto.OrderSummariesFrom(orders))
}

// ListForDriver handles GET /api/driver/orders.
func (h *OrdersHandler) ListForDriver(c *fiber.Ctx) error {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		return apperrors.NewAuthenticationRequired(c.Path())
	}
	orders, err := h.orders.ListForDriver(c.UserContext(), id.SubjectID)
	if err != nil {
		return err
	}
	return response.OK(c, "orders", dto.OrderSummariesFrom(orders))
}

// Assign handles POST /api/admin/orders/:id/assign.
func (h *OrdersHandler) Assign(c *fiber.Ctx) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req dto.AssignOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBindError(nil, err)
	}
	if err := apperrors.ValidateStruct(req); err != nil {
		return err
	}

	order, err := h.orders.Assign(c.UserContext(), orderID, req.DriverID)
	if err != nil {
		return err
	}
	return response.OK(c, "order assigned", dto.OrderSummaryFrom(order))
}

// Deliver handles POST /api/driver/orders/:id/deliver.
func (h *OrdersHandler) Deliver(c *fiber.Ctx) error {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		return apperrors.NewAuthenticationRequired(c.Path())
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	order, err := h.orders.Deliver(c.UserContext(), orderID, id.SubjectID)
	if err != nil {
		return err
	}
	return response.OK(c, "order delivered", dto.OrderSummaryFrom(order))
}

func orderIDParam(c *fiber.Ctx) (int64, error) {
	raw, err := c.ParamsInt("id")
	if err != nil {
		return 0, apperrors.NewBindError([]apperrors.FieldError{{Field: "id", Reason: "id must be numeric"}}, err)
	}
	if err := apperrors.ValidateVar("order.id", raw, "gt=0"); err != nil {
		return 0, err
	}
	return int64(raw), nil
}
