package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketgo/ticketgo/internal/repository"
	"github.com/ticketgo/ticketgo/internal/service"
	"github.com/ticketgo/ticketgo/internal/staging"
)

// BookingHandler exposes the booking workflow over HTTP: the
// bookable-seats view, staging a selection before the payment
// redirect, and the payment callback that commits the reservation.
// JWT authentication has already run for the staged/confirm routes, so
// the account identity is taken from the request context, never from
// gateway callback parameters.
type BookingHandler struct {
	Bookings *service.BookingService
	Gateway  service.PaymentGateway
}

// NewBookingHandler constructs a BookingHandler. The gateway must be
// non-nil; use a disabled gateway rather than nil when payments are
// not configured.
func NewBookingHandler(b *service.BookingService, g service.PaymentGateway) *BookingHandler {
	if b == nil || g == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Gateway: g}
}

// GetBookableSeats handles GET /v1/coaches/:id/booking. It returns
// the coach's trip context, occupied seats and unit price so a client
// can render seat selection. 404 when the coach does not exist, 409
// when the coach has not been scheduled onto a departure.
func (h *BookingHandler) GetBookableSeats(c echo.Context) error {
	coachID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || coachID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coach id"})
	}
	view, err := h.Bookings.GetBookableSeats(c.Request().Context(), coachID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCoachNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coach not found"})
		case errors.Is(err, repository.ErrDepartureNotAssigned):
			return c.JSON(http.StatusConflict, echo.Map{"error": "coach is not scheduled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load coach"})
	}
	return c.JSON(http.StatusOK, view)
}

type stageBookingReq struct {
	SeatNames    []string `json:"seat_names"`
	CustomerName string   `json:"customer_name"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	TotalCents   uint32   `json:"total_cents"`
	CoachID      uint64   `json:"coach_id"`
	DiscountID   *uint64  `json:"discount_id,omitempty"`
}

// StageBooking handles POST /v1/bookings. It stores the draft for the
// authenticated session (overwriting any prior unconsumed draft) and
// responds with the payment gateway redirect URL. Nothing is sold
// here; seats are only claimed when the callback runs.
func (h *BookingHandler) StageBooking(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req stageBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	draft := staging.Draft{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Email:        req.Email,
		SeatNames:    req.SeatNames,
		CoachID:      req.CoachID,
		TotalCents:   req.TotalCents,
		DiscountID:   req.DiscountID,
		AccountID:    accountID,
	}
	ctx := c.Request().Context()
	if err := h.Bookings.StageBooking(ctx, sessionKey(accountID), draft); err != nil {
		switch {
		case errors.Is(err, service.ErrCoachRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "coach_id is required"})
		case errors.Is(err, service.ErrNoSeatsSelected):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_names is required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to stage booking"})
	}

	payURL, err := h.Gateway.PaymentURL(ctx, service.PaymentRequest{
		AmountCents: req.TotalCents,
		Description: "Ticket payment",
		PayerName:   req.CustomerName,
		OrderRef:    time.Now().UTC().Format("20060102150405"),
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway unavailable"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"payment_url": payURL})
}

// PaymentCallback handles GET /v1/payment/callback, the gateway's
// return leg. Booking context is reconstructed solely from the staged
// draft for this session; no gateway parameters are read. On success
// the reservation is committed and the order id returned. A seat lost
// to a concurrent booking yields 409 with the contested seat reason,
// after which the customer must pick fresh seats.
func (h *BookingHandler) PaymentCallback(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := h.Bookings.ConfirmBooking(c.Request().Context(), sessionKey(accountID))
	if err != nil {
		switch {
		case errors.Is(err, staging.ErrDraftNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no booking in progress"})
		case errors.Is(err, service.ErrCoachRequired), errors.Is(err, service.ErrNoSeatsSelected):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking draft"})
		case errors.Is(err, repository.ErrSeatTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, repository.ErrInvalidSeatIdentity):
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat record is malformed"})
		case errors.Is(err, repository.ErrCoachNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coach not found"})
		case errors.Is(err, repository.ErrDepartureNotAssigned):
			return c.JSON(http.StatusConflict, echo.Map{"error": "coach is not scheduled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"order_id": orderID})
}
