package model

import "time"

// Product represents a product in the store catalogue.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Category    string    `json:"category" db:"category"`
	Stock       int       `json:"stock" db:"stock"`
	Featured    bool      `json:"featured" db:"featured"`
	Rating      float64   `json:"rating" db:"rating"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProductFilter holds the supported catalogue listing filters.
// Pointer fields distinguish "not set" from a zero value.
type ProductFilter struct {
	Category      string
	MinPrice      *float64
	MaxPrice      *float64
	Featured      *bool
	SortBy        string
	SortDirection string
	Limit         int
	Offset        int
}

// ProductPage is a page of products together with the unpaginated total,
// so clients can render pagination controls.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
