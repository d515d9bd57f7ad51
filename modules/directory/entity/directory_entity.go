package entity

import (
	"time"

	"venue-crm/core/entity"

	"github.com/google/uuid"
)

// Venue is a stadium, arena, amphitheater or similar sales target.
type Venue struct {
	entity.BaseEntity
	Name      string  `json:"name" db:"name"`
	Slug      string  `json:"slug" db:"slug"`
	City      *string `json:"city" db:"city"`
	State     *string `json:"state" db:"state"`
	Capacity  *int    `json:"capacity" db:"capacity"`
	VenueType *string `json:"venue_type" db:"venue_type"`
	Notes     *string `json:"notes" db:"notes"`
}

// Operator is a venue management company (e.g. ASM Global, Oak View Group).
type Operator struct {
	entity.BaseEntity
	Name    string  `json:"name" db:"name"`
	Slug    string  `json:"slug" db:"slug"`
	Website *string `json:"website" db:"website"`
	Notes   *string `json:"notes" db:"notes"`
}

// Concessionaire is a food and beverage company operating inside venues,
// optionally tied to the operator that contracts it.
type Concessionaire struct {
	entity.BaseEntity
	Name       string     `json:"name" db:"name"`
	Slug       string     `json:"slug" db:"slug"`
	OperatorID *uuid.UUID `json:"operator_id" db:"operator_id"`
	Website    *string    `json:"website" db:"website"`
	Notes      *string    `json:"notes" db:"notes"`
}

// VenueConcessionaire links a concessionaire to a venue it serves. The pair
// is unique.
type VenueConcessionaire struct {
	ID               uuid.UUID `json:"id" db:"id"`
	VenueID          uuid.UUID `json:"venue_id" db:"venue_id"`
	ConcessionaireID uuid.UUID `json:"concessionaire_id" db:"concessionaire_id"`
	Services         *string   `json:"services" db:"services"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
