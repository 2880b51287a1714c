package domain

import (
	"errors"
	"time"
)

// InvestmentStatus is the funding state of a crowdfunded property.
type InvestmentStatus string

const (
	InvestmentAvailable InvestmentStatus = "available"
	InvestmentOpen      InvestmentStatus = "investing"
	InvestmentFunded    InvestmentStatus = "funded"
	InvestmentCompleted InvestmentStatus = "completed"
)

var ErrInvestmentNotFound = errors.New("investment not found")
var ErrInvestmentClosed = errors.New("investment is not open for funding")
var ErrInvalidInvestmentAmount = errors.New("investment amount must be positive")

// Investment is a crowdfunded property offering. Contributions accumulate in
// CurrentAmount; once the goal is reached the offering flips to funded.
type Investment struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	GoalAmount     float64          `json:"goal_amount"`
	CurrentAmount  float64          `json:"current_amount"`
	ExpectedROI    float64          `json:"expected_roi"`
	Investors      []string         `json:"investors,omitempty"`
	Status         InvestmentStatus `json:"status"`
	Type           PropertyType     `json:"type"`
	Images         []string         `json:"images"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// AcceptsFunding reports whether new contributions are allowed.
func (i *Investment) AcceptsFunding() bool {
	return i.Status == InvestmentOpen
}

// Contribute adds amount from userID, registering the investor once and
// transitioning to funded when the goal is reached.
func (i *Investment) Contribute(userID string, amount float64) {
	i.CurrentAmount += amount
	for _, id := range i.Investors {
		if id == userID {
			if i.CurrentAmount >= i.GoalAmount {
				i.Status = InvestmentFunded
			}
			return
		}
	}
	i.Investors = append(i.Investors, userID)
	if i.CurrentAmount >= i.GoalAmount {
		i.Status = InvestmentFunded
	}
}
