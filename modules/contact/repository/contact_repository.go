package repository

import (
	"context"
	"database/sql"
	"venue-crm/core/database"
	"venue-crm/core/logger"
	"venue-crm/core/params"
	"venue-crm/modules/contact/entity"

	"github.com/google/uuid"
)

type ContactRepositoryInterface interface {
	Create(ctx context.Context, c *entity.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	List(ctx context.Context, qp *params.QueryParams, orgType string, orgID *uuid.UUID) ([]entity.Contact, int, error)
	Update(ctx context.Context, c *entity.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateInteraction(ctx context.Context, i *entity.Interaction) error
	ListInteractions(ctx context.Context, contactID uuid.UUID) ([]entity.Interaction, error)
	DeleteInteractionsByContact(ctx context.Context, contactID uuid.UUID) error
}

type ContactRepository struct {
	DB database.Database
}

func NewContactRepository(db database.Database) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (user_id, org_type, org_id, first_name, last_name, title, email, phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.UserID, c.OrgType, c.OrgID, c.FirstName, c.LastName, c.Title, c.Email, c.Phone, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		logger.Error("ContactRepository:Create:Error", "error", err)
	}
	return err
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	var c entity.Contact
	if err := r.DB.GetContext(ctx, &c, `SELECT * FROM contacts WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ContactRepository:GetByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) List(ctx context.Context, qp *params.QueryParams, orgType string, orgID *uuid.UUID) ([]entity.Contact, int, error) {
	var contacts []entity.Contact
	query := `
		SELECT * FROM contacts
		WHERE ($1 = '' OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR org_type = $2)
		  AND ($3::uuid IS NULL OR org_id = $3)
		ORDER BY last_name ASC, first_name ASC
		LIMIT $4 OFFSET $5
	`
	if err := r.DB.SelectContext(ctx, &contacts, query, qp.Search, orgType, orgID, qp.PageSize, qp.Offset()); err != nil {
		logger.Error("ContactRepository:List:Error", "error", err)
		return nil, 0, err
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM contacts
		WHERE ($1 = '' OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR org_type = $2)
		  AND ($3::uuid IS NULL OR org_id = $3)
	`
	if err := r.DB.GetContext(ctx, &total, countQuery, qp.Search, orgType, orgID); err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts
		SET org_type = :org_type, org_id = :org_id, first_name = :first_name, last_name = :last_name,
		    title = :title, email = :email, phone = :phone, notes = :notes, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.DB.NamedExecContext(ctx, query, c)
	if err != nil {
		logger.Error("ContactRepository:Update:Error", "error", err, "id", c.ID)
	}
	return err
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
}

func (r *ContactRepository) CreateInteraction(ctx context.Context, i *entity.Interaction) error {
	query := `
		INSERT INTO interactions (contact_id, user_id, type, occurred_at, summary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		i.ContactID, i.UserID, i.Type, i.OccurredAt, i.Summary,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		logger.Error("ContactRepository:CreateInteraction:Error", "error", err)
	}
	return err
}

func (r *ContactRepository) ListInteractions(ctx context.Context, contactID uuid.UUID) ([]entity.Interaction, error) {
	var interactions []entity.Interaction
	query := `SELECT * FROM interactions WHERE contact_id = $1 ORDER BY occurred_at DESC`
	if err := r.DB.SelectContext(ctx, &interactions, query, contactID); err != nil {
		logger.Error("ContactRepository:ListInteractions:Error", "error", err, "contact_id", contactID)
		return nil, err
	}
	return interactions, nil
}

func (r *ContactRepository) DeleteInteractionsByContact(ctx context.Context, contactID uuid.UUID) error {
	return r.DB.ExecContext(ctx, `DELETE FROM interactions WHERE contact_id = $1`, contactID)
}
