package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kwolity/realty-api/internal/core/ports"
)

type createPaymentRequest struct {
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"  validate:"required,gt=0"`
	Purpose   string  `json:"purpose" validate:"required,oneof=investment booking service_fee"`
}

type updatePaymentRequest struct {
	Amount          *float64 `json:"amount" validate:"omitempty,gt=0"`
	Status          *string  `json:"status" validate:"omitempty,oneof=pending completed failed"`
	GatewayResponse *string  `json:"gateway_response"`
}

// gatewayEventRequest is the webhook payload posted by the payment gateway.
type gatewayEventRequest struct {
	PaymentRef      string    `json:"payment_ref" validate:"required"`
	Status          string    `json:"status"      validate:"required,oneof=completed failed"`
	GatewayResponse string    `json:"gateway_response"`
	Timestamp       time.Time `json:"timestamp"`
}

// EventDispatcher queues gateway events for asynchronous processing.
type EventDispatcher interface {
	Enqueue(event ports.GatewayEventInput)
}

// PaymentHandler handles HTTP requests for payments and the gateway webhook.
type PaymentHandler struct {
	service    ports.PaymentService
	dispatcher EventDispatcher
}

func NewPaymentHandler(service ports.PaymentService, dispatcher EventDispatcher) *PaymentHandler {
	return &PaymentHandler{service: service, dispatcher: dispatcher}
}

// Create records a new payment for the caller.
//
// @Summary      Create a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPaymentRequest  true  "Payment details"
// @Success      201   {object}  domain.Payment
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.service.Create(c.Request().Context(), caller, ports.CreatePaymentInput{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Purpose:   req.Purpose,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, payment)
}

// Get returns one payment; owner or admin only.
//
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Payment id"
// @Success      200  {object}  domain.Payment
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	payment, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

// ListAll returns every payment; admin only (enforced at the route).
//
// @Summary      List all payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Payment
// @Failure      403  {object}  map[string]string
// @Router       /payments [get]
func (h *PaymentHandler) ListAll(c echo.Context) error {
	payments, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

// ListMine returns the caller's payments.
//
// @Summary      List own payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Payment
// @Router       /payments/mine [get]
func (h *PaymentHandler) ListMine(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	payments, err := h.service.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

// ListByBooking returns payments attached to a booking; admin only.
//
// @Summary      List payments for a booking
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        booking_id  path  string  true  "Booking id"
// @Success      200  {array}  domain.Payment
// @Failure      403  {object}  map[string]string
// @Router       /payments/booking/{booking_id} [get]
func (h *PaymentHandler) ListByBooking(c echo.Context) error {
	payments, err := h.service.ListByBooking(c.Request().Context(), c.Param("booking_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

// Update applies a partial update; admin only (enforced at the route).
//
// @Summary      Update a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                true  "Payment id"
// @Param        body  body  updatePaymentRequest  true  "Fields to update"
// @Success      200  {object}  domain.Payment
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /payments/{id} [put]
func (h *PaymentHandler) Update(c echo.Context) error {
	var req updatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdatePaymentInput{
		Amount:          req.Amount,
		Status:          req.Status,
		GatewayResponse: req.GatewayResponse,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

// Delete removes a payment record; admin only (enforced at the route).
//
// @Summary      Delete a payment
// @Tags         payments
// @Security     BearerAuth
// @Param        id  path  string  true  "Payment id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Verify marks a pending payment completed after a successful gateway
// redirect; owner or admin only.
//
// @Summary      Verify a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Payment id"
// @Success      200  {object}  domain.Payment
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /payments/{id}/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	payment, err := h.service.Verify(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

// Webhook accepts an asynchronous settlement notification from the payment
// gateway and queues it for processing. The gateway gets a 202 immediately;
// retries of the same event are absorbed by the dedup layer.
//
// @Summary      Payment gateway webhook
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      gatewayEventRequest  true  "Gateway event"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /payments/webhook [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	var req gatewayEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	h.dispatcher.Enqueue(ports.GatewayEventInput{
		PaymentRef:      req.PaymentRef,
		Status:          req.Status,
		GatewayResponse: req.GatewayResponse,
		Timestamp:       ts,
	})

	return c.JSON(http.StatusAccepted, messageResponse{Message: "event accepted"})
}
