package domain

import (
	"errors"
	"time"
)

// PaymentPurpose is the reason a payment was made.
type PaymentPurpose string

const (
	PurposeInvestment PaymentPurpose = "investment"
	PurposeBooking    PaymentPurpose = "booking"
	PurposeServiceFee PaymentPurpose = "service_fee"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

var ErrPaymentNotFound = errors.New("payment not found")
var ErrInvalidPayment = errors.New("invalid payment data")
var ErrDuplicatePaymentRef = errors.New("payment reference already exists")

// ValidPaymentPurpose reports whether p is a recognised payment purpose.
func ValidPaymentPurpose(p PaymentPurpose) bool {
	switch p {
	case PurposeInvestment, PurposeBooking, PurposeServiceFee:
		return true
	}
	return false
}

// Payment records a single transaction against the gateway.
type Payment struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	BookingID       string         `json:"booking_id,omitempty"`
	Amount          float64        `json:"amount"`
	Purpose         PaymentPurpose `json:"purpose"`
	PaymentRef      string         `json:"payment_ref"`
	GatewayResponse string         `json:"gateway_response,omitempty"`
	Status          PaymentStatus  `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
