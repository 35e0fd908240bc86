package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ticketgo/ticketgo/internal/repository"
)

// OrderHandler serves order views for customers and the admin order
// console. Deleting an order removes the record only; seats sold
// through it stay occupied so history cleanup cannot resell travel.
type OrderHandler struct {
	Orders *repository.OrderRepo
}

func NewOrderHandler(orders *repository.OrderRepo) *OrderHandler {
	if orders == nil {
		panic("nil OrderRepo passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders}
}

// GetOrder handles GET /v1/orders/:id. Customers may only read their
// own orders; admins may read any. Orders with no linked account are
// admin-only, since ownership cannot be established.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	view, err := h.Orders.ByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
	}
	if role, _ := c.Get("role").(string); role != "ADMIN" {
		accountID, err := getAccountID(c)
		if err != nil || view.AccountID == nil || *view.AccountID != accountID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return c.JSON(http.StatusOK, view)
}

// MyOrders handles GET /v1/my-orders, listing the authenticated
// account's order history newest first.
func (h *OrderHandler) MyOrders(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	views, err := h.Orders.ListByAccount(c.Request().Context(), accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": views})
}

// ListOrders handles GET /v1/admin/orders.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	views, err := h.Orders.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": views})
}

// DeleteOrder handles DELETE /v1/admin/orders/:id.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	if err := h.Orders.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete order"})
	}
	return c.NoContent(http.StatusNoContent)
}
