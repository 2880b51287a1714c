package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

var ErrBookingNotFound = errors.New("booking not found")
var ErrInvalidBookingDates = errors.New("booking end date must be after start date")

// Booking reserves a property for a user over a date range.
type Booking struct {
	ID          string        `json:"id"`
	PropertyID  string        `json:"property_id"`
	UserID      string        `json:"user_id"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	TotalAmount float64       `json:"total_amount"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// OwnedBy reports whether the booking belongs to userID.
func (b *Booking) OwnedBy(userID string) bool {
	return b.UserID == userID
}
