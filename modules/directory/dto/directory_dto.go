package dto

import "github.com/google/uuid"

type VenueRequest struct {
	Name      string  `json:"name"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Capacity  *int    `json:"capacity"`
	VenueType *string `json:"venue_type"`
	Notes     *string `json:"notes"`
}

type OperatorRequest struct {
	Name    string  `json:"name"`
	Website *string `json:"website"`
	Notes   *string `json:"notes"`
}

type ConcessionaireRequest struct {
	Name       string     `json:"name"`
	OperatorID *uuid.UUID `json:"operator_id"`
	Website    *string    `json:"website"`
	Notes      *string    `json:"notes"`
}

type LinkConcessionaireRequest struct {
	ConcessionaireID uuid.UUID `json:"concessionaire_id"`
	Services         *string   `json:"services"`
}
