package repository

import (
	"context"
	"database/sql"
	"venue-crm/core/database"
	"venue-crm/core/logger"
	"venue-crm/core/params"
	"venue-crm/modules/directory/entity"

	"github.com/google/uuid"
)

type DirectoryRepositoryInterface interface {
	CreateVenue(ctx context.Context, v *entity.Venue) error
	GetVenueByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error)
	GetVenueBySlug(ctx context.Context, slug string) (*entity.Venue, error)
	ListVenues(ctx context.Context, qp *params.QueryParams) ([]entity.Venue, int, error)
	UpdateVenue(ctx context.Context, v *entity.Venue) error
	DeleteVenue(ctx context.Context, id uuid.UUID) error

	CreateOperator(ctx context.Context, o *entity.Operator) error
	GetOperatorByID(ctx context.Context, id uuid.UUID) (*entity.Operator, error)
	ListOperators(ctx context.Context, qp *params.QueryParams) ([]entity.Operator, int, error)
	UpdateOperator(ctx context.Context, o *entity.Operator) error
	DeleteOperator(ctx context.Context, id uuid.UUID) error

	CreateConcessionaire(ctx context.Context, c *entity.Concessionaire) error
	GetConcessionaireByID(ctx context.Context, id uuid.UUID) (*entity.Concessionaire, error)
	ListConcessionaires(ctx context.Context, qp *params.QueryParams) ([]entity.Concessionaire, int, error)
	UpdateConcessionaire(ctx context.Context, c *entity.Concessionaire) error
	DeleteConcessionaire(ctx context.Context, id uuid.UUID) error

	GetLink(ctx context.Context, venueID uuid.UUID, concessionaireID uuid.UUID) (*entity.VenueConcessionaire, error)
	CreateLink(ctx context.Context, link *entity.VenueConcessionaire) error
	DeleteLink(ctx context.Context, venueID uuid.UUID, concessionaireID uuid.UUID) (bool, error)
	ListLinksByVenue(ctx context.Context, venueID uuid.UUID) ([]entity.VenueConcessionaire, error)
	CountLinksByVenue(ctx context.Context, venueID uuid.UUID) (int, error)
	CountLinksByConcessionaire(ctx context.Context, concessionaireID uuid.UUID) (int, error)
	CountConcessionairesByOperator(ctx context.Context, operatorID uuid.UUID) (int, error)
	CountOpenDealsByOrg(ctx context.Context, orgType string, orgID uuid.UUID) (int, error)
}

type DirectoryRepository struct {
	DB database.Database
}

func NewDirectoryRepository(db database.Database) *DirectoryRepository {
	return &DirectoryRepository{DB: db}
}

func (r *DirectoryRepository) CreateVenue(ctx context.Context, v *entity.Venue) error {
	query := `
		INSERT INTO venues (name, slug, city, state, capacity, venue_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		v.Name, v.Slug, v.City, v.State, v.Capacity, v.VenueType, v.Notes,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		logger.Error("DirectoryRepository:CreateVenue:Error", "error", err)
	}
	return err
}

func (r *DirectoryRepository) GetVenueByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error) {
	var v entity.Venue
	query := `SELECT * FROM venues WHERE id = $1`
	if err := r.DB.GetContext(ctx, &v, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DirectoryRepository:GetVenueByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &v, nil
}

func (r *DirectoryRepository) GetVenueBySlug(ctx context.Context, slug string) (*entity.Venue, error) {
	var v entity.Venue
	query := `SELECT * FROM venues WHERE slug = $1`
	if err := r.DB.GetContext(ctx, &v, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DirectoryRepository:GetVenueBySlug:Error", "error", err, "slug", slug)
		return nil, err
	}
	return &v, nil
}

func (r *DirectoryRepository) ListVenues(ctx context.Context, qp *params.QueryParams) ([]entity.Venue, int, error) {
	var venues []entity.Venue
	query := `
		SELECT * FROM venues
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR city ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	if err := r.DB.SelectContext(ctx, &venues, query, qp.Search, qp.PageSize, qp.Offset()); err != nil {
		logger.Error("DirectoryRepository:ListVenues:Error", "error", err)
		return nil, 0, err
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM venues
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR city ILIKE '%' || $1 || '%')
	`
	if err := r.DB.GetContext(ctx, &total, countQuery, qp.Search); err != nil {
		return nil, 0, err
	}
	return venues, total, nil
}

func (r *DirectoryRepository) UpdateVenue(ctx context.Context, v *entity.Venue) error {
	query := `
		UPDATE venues
		SET name = :name, slug = :slug, city = :city, state = :state,
		    capacity = :capacity, venue_type = :venue_type, notes = :notes, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.DB.NamedExecContext(ctx, query, v)
	if err != nil {
		logger.Error("DirectoryRepository:UpdateVenue:Error", "error", err, "id", v.ID)
	}
	return err
}

func (r *DirectoryRepository) DeleteVenue(ctx context.Context, id uuid.UUID) error {
	return r.DB.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
}

func (r *DirectoryRepository) CreateOperator(ctx context.Context, o *entity.Operator) error {
	query := `
		INSERT INTO operators (name, slug, website, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query, o.Name, o.Slug, o.Website, o.Notes).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		logger.Error("DirectoryRepository:CreateOperator:Error", "error", err)
	}
	return err
}

func (r *DirectoryRepository) GetOperatorByID(ctx context.Context, id uuid.UUID) (*entity.Operator, error) {
	var o entity.Operator
	if err := r.DB.GetContext(ctx, &o, `SELECT * FROM operators WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DirectoryRepository:GetOperatorByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &o, nil
}

func (r *DirectoryRepository) ListOperators(ctx context.Context, qp *params.QueryParams) ([]entity.Operator, int, error) {
	var operators []entity.Operator
	query := `
		SELECT * FROM operators
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	if err := r.DB.SelectContext(ctx, &operators, query, qp.Search, qp.PageSize, qp.Offset()); err != nil {
		logger.Error("DirectoryRepository:ListOperators:Error", "error", err)
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM operators WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`
	if err := r.DB.GetContext(ctx, &total, countQuery, qp.Search); err != nil {
		return nil, 0, err
	}
	return operators, total, nil
}

func (r *DirectoryRepository) UpdateOperator(ctx context.Context, o *entity.Operator) error {
	query := `
		UPDATE operators
		SET name = :name, slug = :slug, website = :website, notes = :notes, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.DB.NamedExecContext(ctx, query, o)
	if err != nil {
		logger.Error("DirectoryRepository:UpdateOperator:Error", "error", err, "id", o.ID)
	}
	return err
}

func (r *DirectoryRepository) DeleteOperator(ctx context.Context, id uuid.UUID) error {
	return r.DB.ExecContext(ctx, `DELETE FROM operators WHERE id = $1`, id)
}

func (r *DirectoryRepository) CreateConcessionaire(ctx context.Context, c *entity.Concessionaire) error {
	query := `
		INSERT INTO concessionaires (name, slug, operator_id, website, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query, c.Name, c.Slug, c.OperatorID, c.Website, c.Notes).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		logger.Error("DirectoryRepository:CreateConcessionaire:Error", "error", err)
	}
	return err
}

func (r *DirectoryRepository) GetConcessionaireByID(ctx context.Context, id uuid.UUID) (*entity.Concessionaire, error) {
	var c entity.Concessionaire
	if err := r.DB.GetContext(ctx, &c, `SELECT * FROM concessionaires WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DirectoryRepository:GetConcessionaireByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &c, nil
}

func (r *DirectoryRepository) ListConcessionaires(ctx context.Context, qp *params.QueryParams) ([]entity.Concessionaire, int, error) {
	var items []entity.Concessionaire
	query := `
		SELECT * FROM concessionaires
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	if err := r.DB.SelectContext(ctx, &items, query, qp.Search, qp.PageSize, qp.Offset()); err != nil {
		logger.Error("DirectoryRepository:ListConcessionaires:Error", "error", err)
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM concessionaires WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`
	if err := r.DB.GetContext(ctx, &total, countQuery, qp.Search); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *DirectoryRepository) UpdateConcessionaire(ctx context.Context, c *entity.Concessionaire) error {
	query := `
		UPDATE concessionaires
		SET name = :name, slug = :slug, operator_id = :operator_id,
		    website = :website, notes = :notes, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.DB.NamedExecContext(ctx, query, c)
	if err != nil {
		logger.Error("DirectoryRepository:UpdateConcessionaire:Error", "error", err, "id", c.ID)
	}
	return err
}

func (r *DirectoryRepository) DeleteConcessionaire(ctx context.Context, id uuid.UUID) error {
	return r.DB.ExecContext(ctx, `DELETE FROM concessionaires WHERE id = $1`, id)
}

func (r *DirectoryRepository) GetLink(ctx context.Context, venueID uuid.UUID, concessionaireID uuid.UUID) (*entity.VenueConcessionaire, error) {
	var link entity.VenueConcessionaire
	query := `SELECT * FROM venue_concessionaires WHERE venue_id = $1 AND concessionaire_id = $2`
	if err := r.DB.GetContext(ctx, &link, query, venueID, concessionaireID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("DirectoryRepository:GetLink:Error", "error", err)
		return nil, err
	}
	return &link, nil
}

func (r *DirectoryRepository) CreateLink(ctx context.Context, link *entity.VenueConcessionaire) error {
	query := `
		INSERT INTO venue_concessionaires (venue_id, concessionaire_id, services)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, link.VenueID, link.ConcessionaireID, link.Services).
		Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		logger.Error("DirectoryRepository:CreateLink:Error", "error", err)
	}
	return err
}

func (r *DirectoryRepository) DeleteLink(ctx context.Context, venueID uuid.UUID, concessionaireID uuid.UUID) (bool, error) {
	query := `DELETE FROM venue_concessionaires WHERE venue_id = :venue_id AND concessionaire_id = :concessionaire_id`
	result, err := r.DB.NamedExecContext(ctx, query, map[string]any{
		"venue_id":          venueID,
		"concessionaire_id": concessionaireID,
	})
	if err != nil {
		logger.Error("DirectoryRepository:DeleteLink:Error", "error", err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *DirectoryRepository) ListLinksByVenue(ctx context.Context, venueID uuid.UUID) ([]entity.VenueConcessionaire, error) {
	var links []entity.VenueConcessionaire
	query := `SELECT * FROM venue_concessionaires WHERE venue_id = $1 ORDER BY created_at ASC`
	if err := r.DB.SelectContext(ctx, &links, query, venueID); err != nil {
		logger.Error("DirectoryRepository:ListLinksByVenue:Error", "error", err, "venue_id", venueID)
		return nil, err
	}
	return links, nil
}

func (r *DirectoryRepository) CountLinksByVenue(ctx context.Context, venueID uuid.UUID) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM venue_concessionaires WHERE venue_id = $1`, venueID)
	return count, err
}

func (r *DirectoryRepository) CountLinksByConcessionaire(ctx context.Context, concessionaireID uuid.UUID) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM venue_concessionaires WHERE concessionaire_id = $1`, concessionaireID)
	return count, err
}

func (r *DirectoryRepository) CountConcessionairesByOperator(ctx context.Context, operatorID uuid.UUID) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM concessionaires WHERE operator_id = $1`, operatorID)
	return count, err
}

// CountOpenDealsByOrg counts deals still in flight for an organization.
// Used as a delete guard.
func (r *DirectoryRepository) CountOpenDealsByOrg(ctx context.Context, orgType string, orgID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM deals
		WHERE org_type = $1 AND org_id = $2 AND stage NOT IN ('closed_won', 'closed_lost')
	`
	err := r.DB.GetContext(ctx, &count, query, orgType, orgID)
	return count, err
}
