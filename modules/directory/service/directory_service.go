package service

import (
	"context"
	"fmt"
	"strings"

	"venue-crm/core/errors"
	"venue-crm/core/logger"
	"venue-crm/core/params"
	"venue-crm/core/utils"
	"venue-crm/modules/directory/dto"
	"venue-crm/modules/directory/entity"
	"venue-crm/modules/directory/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	OrgTypeVenue          = "venue"
	OrgTypeOperator       = "operator"
	OrgTypeConcessionaire = "concessionaire"
)

type DirectoryService struct {
	repo repository.DirectoryRepositoryInterface
}

func NewDirectoryService(repo repository.DirectoryRepositoryInterface) *DirectoryService {
	return &DirectoryService{repo: repo}
}

func (s *DirectoryService) CreateVenue(ctx context.Context, req *dto.VenueRequest) (*entity.Venue, *errors.AppError) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "name is required"}
	}

	v := &entity.Venue{
		Name:      strings.TrimSpace(req.Name),
		Slug:      s.uniqueVenueSlug(ctx, req.Name),
		City:      req.City,
		State:     req.State,
		Capacity:  req.Capacity,
		VenueType: req.VenueType,
		Notes:     req.Notes,
	}
	if err := s.repo.CreateVenue(ctx, v); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to create venue", Err: err}
	}
	return v, nil
}

func (s *DirectoryService) GetVenue(ctx context.Context, id uuid.UUID) (*entity.Venue, *errors.AppError) {
	v, err := s.repo.GetVenueByID(ctx, id)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load venue", Err: err}
	}
	if v == nil {
		return nil, &errors.AppError{Code: errors.ErrNotFound, Message: "Venue not found"}
	}
	return v, nil
}

func (s *DirectoryService) ListVenues(ctx context.Context, qp *params.QueryParams) ([]entity.Venue, int, *errors.AppError) {
	venues, total, err := s.repo.ListVenues(ctx, qp)
	if err != nil {
		return nil, 0, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to list venues", Err: err}
	}
	if venues == nil {
		venues = []entity.Venue{}
	}
	return venues, total, nil
}

func (s *DirectoryService) UpdateVenue(ctx context.Context, id uuid.UUID, req *dto.VenueRequest) (*entity.Venue, *errors.AppError) {
	v, appErr := s.GetVenue(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != v.Name {
		v.Name = name
		v.Slug = s.uniqueVenueSlug(ctx, name)
	}
	v.City = req.City
	v.State = req.State
	v.Capacity = req.Capacity
	v.VenueType = req.VenueType
	v.Notes = req.Notes

	if err := s.repo.UpdateVenue(ctx, v); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to update venue", Err: err}
	}
	return v, nil
}

// DeleteVenue refuses to remove a venue that still has concessionaire links
// or open deals.
func (s *DirectoryService) DeleteVenue(ctx context.Context, id uuid.UUID) *errors.AppError {
	if _, appErr := s.GetVenue(ctx, id); appErr != nil {
		return appErr
	}

	links, err := s.repo.CountLinksByVenue(ctx, id)
	if err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to check venue links", Err: err}
	}
	if links > 0 {
		return &errors.AppError{Code: errors.ErrConflict, Message: fmt.Sprintf("Venue has %d linked concessionaires; unlink them first", links)}
	}

	deals, err := s.repo.CountOpenDealsByOrg(ctx, OrgTypeVenue, id)
	if err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to check venue deals", Err: err}
	}
	if deals > 0 {
		return &errors.AppError{Code: errors.ErrConflict, Message: fmt.Sprintf("Venue has %d open deals; close them first", deals)}
	}

	if err := s.repo.DeleteVenue(ctx, id); err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to delete venue", Err: err}
	}
	return nil
}

func (s *DirectoryService) CreateOperator(ctx context.Context, req *dto.OperatorRequest) (*entity.Operator, *errors.AppError) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "name is required"}
	}

	o := &entity.Operator{
		Name:    strings.TrimSpace(req.Name),
		Slug:    slug.Make(req.Name),
		Website: req.Website,
		Notes:   req.Notes,
	}
	if err := s.repo.CreateOperator(ctx, o); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to create operator", Err: err}
	}
	return o, nil
}

func (s *DirectoryService) GetOperator(ctx context.Context, id uuid.UUID) (*entity.Operator, *errors.AppError) {
	o, err := s.repo.GetOperatorByID(ctx, id)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load operator", Err: err}
	}
	if o == nil {
		return nil, &errors.AppError{Code: errors.ErrNotFound, Message: "Operator not found"}
	}
	return o, nil
}

func (s *DirectoryService) ListOperators(ctx context.Context, qp *params.QueryParams) ([]entity.Operator, int, *errors.AppError) {
	operators, total, err := s.repo.ListOperators(ctx, qp)
	if err != nil {
		return nil, 0, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to list operators", Err: err}
	}
	if operators == nil {
		operators = []entity.Operator{}
	}
	return operators, total, nil
}

func (s *DirectoryService) UpdateOperator(ctx context.Context, id uuid.UUID, req *dto.OperatorRequest) (*entity.Operator, *errors.AppError) {
	o, appErr := s.GetOperator(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != o.Name {
		o.Name = name
		o.Slug = slug.Make(name)
	}
	o.Website = req.Website
	o.Notes = req.Notes

	if err := s.repo.UpdateOperator(ctx, o); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to update operator", Err: err}
	}
	return o, nil
}

// DeleteOperator refuses when concessionaires still reference the operator
// or open deals exist against it.
func (s *DirectoryService) DeleteOperator(ctx context.Context, id uuid.UUID) *errors.AppError {
	if _, appErr := s.GetOperator(ctx, id); appErr != nil {
		return appErr
	}

	dependents, err := s.repo.CountConcessionairesByOperator(ctx, id)
	if err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to check operator references", Err: err}
	}
	if dependents > 0 {
		return &errors.AppError{Code: errors.ErrConflict, Message: fmt.Sprintf("Operator has %d concessionaires; reassign them first", dependents)}
	}

	deals, err := s.repo.CountOpenDealsByOrg(ctx, OrgTypeOperator, id)
	if err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to check operator deals", Err: err}
	}
	if deals > 0 {
		return &errors.AppError{Code: errors.ErrConflict, Message: fmt.Sprintf("Operator has %d open deals; close them first", deals)}
	}

	if err := s.repo.DeleteOperator(ctx, id); err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to delete operator", Err: err}
	}
	return nil
}

func (s *DirectoryService) CreateConcessionaire(ctx context.Context, req *dto.ConcessionaireRequest) (*entity.Concessionaire, *errors.AppError) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "name is required"}
	}
	if req.OperatorID != nil {
		if _, appErr := s.GetOperator(ctx, *req.OperatorID); appErr != nil {
			return nil, appErr
		}
	}

	c := &entity.Concessionaire{
		Name:       strings.TrimSpace(req.Name),
		Slug:       slug.Make(req.Name),
		OperatorID: req.OperatorID,
		Website:    req.Website,
		Notes:      req.Notes,
	}
	if err := s.repo.CreateConcessionaire(ctx, c); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to create concessionaire", Err: err}
	}
	return c, nil
}

func (s *DirectoryService) GetConcessionaire(ctx context.Context, id uuid.UUID) (*entity.Concessionaire, *errors.AppError) {
	c, err := s.repo.GetConcessionaireByID(ctx, id)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load concessionaire", Err: err}
	}
	if c == nil {
		return nil, &errors.AppError{Code: errors.ErrNotFound, Message: "Concessionaire not found"}
	}
	return c, nil
}

func (s *DirectoryService) ListConcessionaires(ctx context.Context, qp *params.QueryParams) ([]entity.Concessionaire, int, *errors.AppError) {
	items, total, err := s.repo.ListConcessionaires(ctx, qp)
	if err != nil {
		return nil, 0, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to list concessionaires", Err: err}
	}
	if items == nil {
		items = []entity.Concessionaire{}
	}
	return items, total, nil
}

func (s *DirectoryService) UpdateConcessionaire(ctx context.Context, id uuid.UUID, req *dto.ConcessionaireRequest) (*entity.Concessionaire, *errors.AppError) {
	c, appErr := s.GetConcessionaire(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if req.OperatorID != nil {
		if _, appErr := s.GetOperator(ctx, *req.OperatorID); appErr != nil {
			return nil, appErr
		}
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != c.Name {
		c.Name = name
		c.Slug = slug.Make(name)
	}
	c.OperatorID = req.OperatorID
	c.Website = req.Website
	c.Notes = req.Notes

	if err := s.repo.UpdateConcessionaire(ctx, c); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to update concessionaire", Err: err}
	}
	return c, nil
}

func (s *DirectoryService) DeleteConcessionaire(ctx context.Context, id uuid.UUID) *errors.AppError {
	if _, appErr := s.GetConcessionaire(ctx, id); appErr != nil {
		return appErr
	}

	links, err := s.repo.CountLinksByConcessionaire(ctx, id)
	if err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to check concessionaire links", Err: err}
	}
	if links > 0 {
		return &errors.AppError{Code: errors.ErrConflict, Message: fmt.Sprintf("Concessionaire serves %d venues; unlink them first", links)}
	}

	deals, err := s.repo.CountOpenDealsByOrg(ctx, OrgTypeConcessionaire, id)
	if err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to check concessionaire deals", Err: err}
	}
	if deals > 0 {
		return &errors.AppError{Code: errors.ErrConflict, Message: fmt.Sprintf("Concessionaire has %d open deals; close them first", deals)}
	}

	if err := s.repo.DeleteConcessionaire(ctx, id); err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to delete concessionaire", Err: err}
	}
	return nil
}

// LinkConcessionaire attaches a concessionaire to a venue. Linking the same
// pair twice is a conflict, not an upsert.
func (s *DirectoryService) LinkConcessionaire(ctx context.Context, venueID uuid.UUID, req *dto.LinkConcessionaireRequest) (*entity.VenueConcessionaire, *errors.AppError) {
	if _, appErr := s.GetVenue(ctx, venueID); appErr != nil {
		return nil, appErr
	}
	if _, appErr := s.GetConcessionaire(ctx, req.ConcessionaireID); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetLink(ctx, venueID, req.ConcessionaireID)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to check existing link", Err: err}
	}
	if existing != nil {
		return nil, &errors.AppError{Code: errors.ErrAlreadyExists, Message: "Concessionaire is already linked to this venue"}
	}

	link := &entity.VenueConcessionaire{
		VenueID:          venueID,
		ConcessionaireID: req.ConcessionaireID,
		Services:         req.Services,
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to link concessionaire", Err: err}
	}
	return link, nil
}

func (s *DirectoryService) UnlinkConcessionaire(ctx context.Context, venueID uuid.UUID, concessionaireID uuid.UUID) *errors.AppError {
	removed, err := s.repo.DeleteLink(ctx, venueID, concessionaireID)
	if err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to unlink concessionaire", Err: err}
	}
	if !removed {
		return &errors.AppError{Code: errors.ErrNotFound, Message: "Link not found"}
	}
	return nil
}

func (s *DirectoryService) ListVenueConcessionaires(ctx context.Context, venueID uuid.UUID) ([]entity.VenueConcessionaire, *errors.AppError) {
	if _, appErr := s.GetVenue(ctx, venueID); appErr != nil {
		return nil, appErr
	}
	links, err := s.repo.ListLinksByVenue(ctx, venueID)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to list venue concessionaires", Err: err}
	}
	if links == nil {
		links = []entity.VenueConcessionaire{}
	}
	return links, nil
}

// uniqueVenueSlug appends a short random suffix when the natural slug is
// already taken; many venues share names like "Memorial Stadium".
func (s *DirectoryService) uniqueVenueSlug(ctx context.Context, name string) string {
	base := slug.Make(name)
	existing, err := s.repo.GetVenueBySlug(ctx, base)
	if err != nil {
		logger.Warn("DirectoryService:uniqueVenueSlug:LookupFailed", "error", err, "slug", base)
		return base
	}
	if existing == nil {
		return base
	}
	return base + "-" + strings.ToLower(utils.GenerateID())
}
