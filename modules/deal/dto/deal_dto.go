package dto

import (
	"time"

	"github.com/google/uuid"
)

type DealRequest struct {
	OrgType           string     `json:"org_type"`
	OrgID             uuid.UUID  `json:"org_id"`
	Name              string     `json:"name"`
	Amount            float64    `json:"amount"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Notes             *string    `json:"notes"`
}

type ChangeStageRequest struct {
	Stage string `json:"stage"`
}

// ForecastBucket is one month of weighted pipeline. Weighted is
// sum(amount * stage probability) over open deals expected to close that
// month.
type ForecastBucket struct {
	Month      string  `json:"month"`
	Weighted   float64 `json:"weighted"`
	Unweighted float64 `json:"unweighted"`
	DealCount  int     `json:"deal_count"`
}

type ForecastResponse struct {
	Buckets       []ForecastBucket `json:"buckets"`
	TotalWeighted float64          `json:"total_weighted"`
	OpenDeals     int              `json:"open_deals"`
}
