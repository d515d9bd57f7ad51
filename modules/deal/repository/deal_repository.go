package repository

import (
	"context"
	"database/sql"
	"venue-crm/core/database"
	"venue-crm/core/logger"
	"venue-crm/core/params"
	"venue-crm/modules/deal/entity"

	"github.com/google/uuid"
)

type DealRepositoryInterface interface {
	Create(ctx context.Context, d *entity.Deal) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Deal, error)
	List(ctx context.Context, qp *params.QueryParams, stage string) ([]entity.Deal, int, error)
	ListOpen(ctx context.Context) ([]entity.Deal, error)
	Update(ctx context.Context, d *entity.Deal) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateTransition(ctx context.Context, t *entity.StageTransition) error
	ListTransitions(ctx context.Context, dealID uuid.UUID) ([]entity.StageTransition, error)
}

type DealRepository struct {
	DB database.Database
}

func NewDealRepository(db database.Database) *DealRepository {
	return &DealRepository{DB: db}
}

func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	query := `
		INSERT INTO deals (user_id, org_type, org_id, name, amount, stage, expected_close_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		d.UserID, d.OrgType, d.OrgID, d.Name, d.Amount, d.Stage, d.ExpectedCloseDate, d.Notes,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		logger.Error("DealRepository:Create:Error", "error", err)
	}
	return err
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Deal, error) {
	var d entity.Deal
	if err := r.DB.GetContext(ctx, &d, `SELECT * FROM deals WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DealRepository:GetByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &d, nil
}

func (r *DealRepository) List(ctx context.Context, qp *params.QueryParams, stage string) ([]entity.Deal, int, error) {
	var deals []entity.Deal
	query := `
		SELECT * FROM deals
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR stage = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	if err := r.DB.SelectContext(ctx, &deals, query, qp.Search, stage, qp.PageSize, qp.Offset()); err != nil {
		logger.Error("DealRepository:List:Error", "error", err)
		return nil, 0, err
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM deals
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR stage = $2)
	`
	if err := r.DB.GetContext(ctx, &total, countQuery, qp.Search, stage); err != nil {
		return nil, 0, err
	}
	return deals, total, nil
}

func (r *DealRepository) ListOpen(ctx context.Context) ([]entity.Deal, error) {
	var deals []entity.Deal
	query := `
		SELECT * FROM deals
		WHERE stage NOT IN ('closed_won', 'closed_lost')
		ORDER BY expected_close_date ASC NULLS LAST
	`
	if err := r.DB.SelectContext(ctx, &deals, query); err != nil {
		logger.Error("DealRepository:ListOpen:Error", "error", err)
		return nil, err
	}
	return deals, nil
}

func (r *DealRepository) Update(ctx context.Context, d *entity.Deal) error {
	query := `
		UPDATE deals
		SET org_type = :org_type, org_id = :org_id, name = :name, amount = :amount, stage = :stage,
		    expected_close_date = :expected_close_date, closed_at = :closed_at, notes = :notes, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.DB.NamedExecContext(ctx, query, d)
	if err != nil {
		logger.Error("DealRepository:Update:Error", "error", err, "id", d.ID)
	}
	return err
}

func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.ExecContext(ctx, `DELETE FROM deals WHERE id = $1`, id)
}

func (r *DealRepository) CreateTransition(ctx context.Context, t *entity.StageTransition) error {
	query := `
		INSERT INTO deal_stage_transitions (deal_id, user_id, from_stage, to_stage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, t.DealID, t.UserID, t.FromStage, t.ToStage).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		logger.Error("DealRepository:CreateTransition:Error", "error", err, "deal_id", t.DealID)
	}
	return err
}

func (r *DealRepository) ListTransitions(ctx context.Context, dealID uuid.UUID) ([]entity.StageTransition, error) {
	var transitions []entity.StageTransition
	query := `SELECT * FROM deal_stage_transitions WHERE deal_id = $1 ORDER BY created_at ASC`
	if err := r.DB.SelectContext(ctx, &transitions, query, dealID); err != nil {
		logger.Error("DealRepository:ListTransitions:Error", "error", err, "deal_id", dealID)
		return nil, err
	}
	return transitions, nil
}
