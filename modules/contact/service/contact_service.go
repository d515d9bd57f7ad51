package service

import (
	"context"
	"strings"
	"time"

	"venue-crm/core/errors"
	"venue-crm/core/params"
	"venue-crm/modules/contact/dto"
	"venue-crm/modules/contact/entity"
	"venue-crm/modules/contact/repository"
	directoryservice "venue-crm/modules/directory/service"

	"github.com/google/uuid"
)

type ContactService struct {
	repo      repository.ContactRepositoryInterface
	directory *directoryservice.DirectoryService
}

func NewContactService(repo repository.ContactRepositoryInterface, directory *directoryservice.DirectoryService) *ContactService {
	return &ContactService{repo: repo, directory: directory}
}

func (s *ContactService) Create(ctx context.Context, userID uuid.UUID, req *dto.ContactRequest) (*entity.Contact, *errors.AppError) {
	if appErr := s.validateOrgRef(ctx, req.OrgType, req.OrgID); appErr != nil {
		return nil, appErr
	}
	if strings.TrimSpace(req.FirstName) == "" && strings.TrimSpace(req.LastName) == "" {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "first_name or last_name is required"}
	}

	c := &entity.Contact{
		UserID:    userID,
		OrgType:   req.OrgType,
		OrgID:     req.OrgID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Title:     req.Title,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to create contact", Err: err}
	}
	return c, nil
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*entity.Contact, *errors.AppError) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load contact", Err: err}
	}
	if c == nil {
		return nil, &errors.AppError{Code: errors.ErrNotFound, Message: "Contact not found"}
	}
	return c, nil
}

func (s *ContactService) List(ctx context.Context, qp *params.QueryParams, orgType string, orgID *uuid.UUID) ([]entity.Contact, int, *errors.AppError) {
	contacts, total, err := s.repo.List(ctx, qp, orgType, orgID)
	if err != nil {
		return nil, 0, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to list contacts", Err: err}
	}
	if contacts == nil {
		contacts = []entity.Contact{}
	}
	return contacts, total, nil
}

// Update is owner-only: reps cannot edit each other's contacts.
func (s *ContactService) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *dto.ContactRequest) (*entity.Contact, *errors.AppError) {
	c, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if c.UserID != userID {
		return nil, &errors.AppError{Code: errors.ErrForbidden, Message: "You do not own this contact"}
	}
	if appErr := s.validateOrgRef(ctx, req.OrgType, req.OrgID); appErr != nil {
		return nil, appErr
	}

	c.OrgType = req.OrgType
	c.OrgID = req.OrgID
	c.FirstName = strings.TrimSpace(req.FirstName)
	c.LastName = strings.TrimSpace(req.LastName)
	c.Title = req.Title
	c.Email = req.Email
	c.Phone = req.Phone
	c.Notes = req.Notes

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to update contact", Err: err}
	}
	return c, nil
}

// Delete removes the contact and its interaction history together.
func (s *ContactService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) *errors.AppError {
	c, appErr := s.Get(ctx, id)
	if appErr != nil {
		return appErr
	}
	if c.UserID != userID {
		return &errors.AppError{Code: errors.ErrForbidden, Message: "You do not own this contact"}
	}

	if err := s.repo.DeleteInteractionsByContact(ctx, id); err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to delete contact interactions", Err: err}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to delete contact", Err: err}
	}
	return nil
}

func (s *ContactService) LogInteraction(ctx context.Context, userID uuid.UUID, contactID uuid.UUID, req *dto.InteractionRequest) (*entity.Interaction, *errors.AppError) {
	if _, appErr := s.Get(ctx, contactID); appErr != nil {
		return nil, appErr
	}

	switch req.Type {
	case entity.InteractionTypeCall, entity.InteractionTypeEmail, entity.InteractionTypeMeeting, entity.InteractionTypeNote:
	default:
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "type must be one of call, email, meeting, note"}
	}
	if strings.TrimSpace(req.Summary) == "" {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "summary is required"}
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	i := &entity.Interaction{
		ContactID:  contactID,
		UserID:     userID,
		Type:       req.Type,
		OccurredAt: occurredAt,
		Summary:    strings.TrimSpace(req.Summary),
	}
	if err := s.repo.CreateInteraction(ctx, i); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to log interaction", Err: err}
	}
	return i, nil
}

func (s *ContactService) ListInteractions(ctx context.Context, contactID uuid.UUID) ([]entity.Interaction, *errors.AppError) {
	if _, appErr := s.Get(ctx, contactID); appErr != nil {
		return nil, appErr
	}
	interactions, err := s.repo.ListInteractions(ctx, contactID)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to list interactions", Err: err}
	}
	if interactions == nil {
		interactions = []entity.Interaction{}
	}
	return interactions, nil
}

func (s *ContactService) validateOrgRef(ctx context.Context, orgType string, orgID uuid.UUID) *errors.AppError {
	switch orgType {
	case directoryservice.OrgTypeVenue:
		_, appErr := s.directory.GetVenue(ctx, orgID)
		return appErr
	case directoryservice.OrgTypeOperator:
		_, appErr := s.directory.GetOperator(ctx, orgID)
		return appErr
	case directoryservice.OrgTypeConcessionaire:
		_, appErr := s.directory.GetConcessionaire(ctx, orgID)
		return appErr
	default:
		return &errors.AppError{Code: errors.ErrInvalidInput, Message: "org_type must be one of venue, operator, concessionaire"}
	}
}
