package handler

import "github.com/kwolity/realty-api/internal/core/domain"

// --- Request / Response types ---

type updatePropertyRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"   validate:"omitempty,oneof=apartment house commercial land"`
	Status      *string  `json:"status" validate:"omitempty,oneof=available rent sold"`
	Price       *float64 `json:"price"  validate:"omitempty,gt=0"`
	Location    *string  `json:"location"`
	Images      []string `json:"images"`
}

type listPropertiesResponse struct {
	Items      []*domain.Property `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type countResponse struct {
	Count int64 `json:"count"`
}
