package domain

import (
	"errors"
	"time"
)

// PropertyType classifies what kind of real estate a listing is.
type PropertyType string

const (
	TypeApartment  PropertyType = "apartment"
	TypeHouse      PropertyType = "house"
	TypeCommercial PropertyType = "commercial"
	TypeLand       PropertyType = "land"
)

// PropertyStatus represents the market state of a listing.
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyRented    PropertyStatus = "rent"
	PropertySold      PropertyStatus = "sold"
)

var ErrPropertyNotFound = errors.New("property not found")
var ErrDuplicateSlug = errors.New("property slug already exists")
var ErrInvalidListing = errors.New("invalid property data")

// ValidPropertyType reports whether t is a recognised property type.
func ValidPropertyType(t PropertyType) bool {
	switch t {
	case TypeApartment, TypeHouse, TypeCommercial, TypeLand:
		return true
	}
	return false
}

// ValidPropertyStatus reports whether s is a recognised listing status.
func ValidPropertyStatus(s PropertyStatus) bool {
	switch s {
	case PropertyAvailable, PropertyRented, PropertySold:
		return true
	}
	return false
}

// Property is a marketplace listing.
type Property struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Type        PropertyType   `json:"type"`
	Status      PropertyStatus `json:"status"`
	Images      []string       `json:"images"`
	Price       float64        `json:"price"`
	Location    string         `json:"location"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
