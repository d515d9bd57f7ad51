package entity

import (
	"time"

	"venue-crm/core/entity"

	"github.com/google/uuid"
)

const (
	StageLead        = "lead"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed_won"
	StageClosedLost  = "closed_lost"
)

// StageProbabilities drives the weighted forecast. Closed stages contribute
// 1.0 and 0.0 respectively and are excluded from open-pipeline totals.
var StageProbabilities = map[string]float64{
	StageLead:        0.10,
	StageQualified:   0.25,
	StageProposal:    0.50,
	StageNegotiation: 0.75,
	StageClosedWon:   1.00,
	StageClosedLost:  0.00,
}

func IsClosedStage(stage string) bool {
	return stage == StageClosedWon || stage == StageClosedLost
}

// Deal is a sales opportunity against a venue, operator or concessionaire.
type Deal struct {
	entity.BaseEntity
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	OrgType           string     `json:"org_type" db:"org_type"`
	OrgID             uuid.UUID  `json:"org_id" db:"org_id"`
	Name              string     `json:"name" db:"name"`
	Amount            float64    `json:"amount" db:"amount"`
	Stage             string     `json:"stage" db:"stage"`
	ExpectedCloseDate *time.Time `json:"expected_close_date" db:"expected_close_date"`
	ClosedAt          *time.Time `json:"closed_at" db:"closed_at"`
	Notes             *string    `json:"notes" db:"notes"`
}

// StageTransition records one pipeline move for audit and velocity reporting.
type StageTransition struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DealID    uuid.UUID `json:"deal_id" db:"deal_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FromStage string    `json:"from_stage" db:"from_stage"`
	ToStage   string    `json:"to_stage" db:"to_stage"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
