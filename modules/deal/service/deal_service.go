package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"venue-crm/core/errors"
	"venue-crm/core/params"
	"venue-crm/modules/deal/dto"
	"venue-crm/modules/deal/entity"
	"venue-crm/modules/deal/repository"
	directoryservice "venue-crm/modules/directory/service"

	"github.com/google/uuid"
)

// unscheduledBucket collects open deals without an expected close date.
const unscheduledBucket = "unscheduled"

type DealService struct {
	repo      repository.DealRepositoryInterface
	directory *directoryservice.DirectoryService
}

func NewDealService(repo repository.DealRepositoryInterface, directory *directoryservice.DirectoryService) *DealService {
	return &DealService{repo: repo, directory: directory}
}

func (s *DealService) Create(ctx context.Context, userID uuid.UUID, req *dto.DealRequest) (*entity.Deal, *errors.AppError) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "name is required"}
	}
	if req.Amount < 0 {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "amount cannot be negative"}
	}
	if appErr := s.validateOrgRef(ctx, req.OrgType, req.OrgID); appErr != nil {
		return nil, appErr
	}

	d := &entity.Deal{
		UserID:            userID,
		OrgType:           req.OrgType,
		OrgID:             req.OrgID,
		Name:              strings.TrimSpace(req.Name),
		Amount:            req.Amount,
		Stage:             entity.StageLead,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Notes:             req.Notes,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to create deal", Err: err}
	}
	return d, nil
}

func (s *DealService) Get(ctx context.Context, id uuid.UUID) (*entity.Deal, *errors.AppError) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load deal", Err: err}
	}
	if d == nil {
		return nil, &errors.AppError{Code: errors.ErrNotFound, Message: "Deal not found"}
	}
	return d, nil
}

func (s *DealService) List(ctx context.Context, qp *params.QueryParams, stage string) ([]entity.Deal, int, *errors.AppError) {
	if stage != "" {
		if _, ok := entity.StageProbabilities[stage]; !ok {
			return nil, 0, &errors.AppError{Code: errors.ErrInvalidInput, Message: "unknown stage"}
		}
	}
	deals, total, err := s.repo.List(ctx, qp, stage)
	if err != nil {
		return nil, 0, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to list deals", Err: err}
	}
	if deals == nil {
		deals = []entity.Deal{}
	}
	return deals, total, nil
}

func (s *DealService) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *dto.DealRequest) (*entity.Deal, *errors.AppError) {
	d, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if d.UserID != userID {
		return nil, &errors.AppError{Code: errors.ErrForbidden, Message: "You do not own this deal"}
	}
	if req.Amount < 0 {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "amount cannot be negative"}
	}
	if appErr := s.validateOrgRef(ctx, req.OrgType, req.OrgID); appErr != nil {
		return nil, appErr
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		d.Name = name
	}
	d.OrgType = req.OrgType
	d.OrgID = req.OrgID
	d.Amount = req.Amount
	d.ExpectedCloseDate = req.ExpectedCloseDate
	d.Notes = req.Notes

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to update deal", Err: err}
	}
	return d, nil
}

// ChangeStage moves a deal through the pipeline and records the transition.
// Closed deals are final: no transitions out.
func (s *DealService) ChangeStage(ctx context.Context, userID uuid.UUID, id uuid.UUID, stage string) (*entity.Deal, *errors.AppError) {
	if _, ok := entity.StageProbabilities[stage]; !ok {
		return nil, &errors.AppError{Code: errors.ErrInvalidInput, Message: "unknown stage"}
	}

	d, appErr := s.Get(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if d.UserID != userID {
		return nil, &errors.AppError{Code: errors.ErrForbidden, Message: "You do not own this deal"}
	}
	if entity.IsClosedStage(d.Stage) {
		return nil, &errors.AppError{Code: errors.ErrConflict, Message: fmt.Sprintf("Deal is already %s", d.Stage)}
	}
	if d.Stage == stage {
		return d, nil
	}

	from := d.Stage
	d.Stage = stage
	if entity.IsClosedStage(stage) {
		now := time.Now()
		d.ClosedAt = &now
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to change deal stage", Err: err}
	}
	transition := &entity.StageTransition{
		DealID:    d.ID,
		UserID:    userID,
		FromStage: from,
		ToStage:   stage,
	}
	if err := s.repo.CreateTransition(ctx, transition); err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to record stage transition", Err: err}
	}
	return d, nil
}

func (s *DealService) History(ctx context.Context, id uuid.UUID) ([]entity.StageTransition, *errors.AppError) {
	if _, appErr := s.Get(ctx, id); appErr != nil {
		return nil, appErr
	}
	transitions, err := s.repo.ListTransitions(ctx, id)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load stage history", Err: err}
	}
	if transitions == nil {
		transitions = []entity.StageTransition{}
	}
	return transitions, nil
}

func (s *DealService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) *errors.AppError {
	d, appErr := s.Get(ctx, id)
	if appErr != nil {
		return appErr
	}
	if d.UserID != userID {
		return &errors.AppError{Code: errors.ErrForbidden, Message: "You do not own this deal"}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to delete deal", Err: err}
	}
	return nil
}

// Forecast weights each open deal's amount by its stage probability and
// groups by expected close month. Deals without a close date land in the
// trailing "unscheduled" bucket.
func (s *DealService) Forecast(ctx context.Context) (*dto.ForecastResponse, *errors.AppError) {
	deals, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, &errors.AppError{Code: errors.ErrInternalServer, Message: "Failed to load open deals", Err: err}
	}

	buckets := map[string]*dto.ForecastBucket{}
	resp := &dto.ForecastResponse{OpenDeals: len(deals)}

	for _, d := range deals {
		month := unscheduledBucket
		if d.ExpectedCloseDate != nil {
			month = d.ExpectedCloseDate.Format("2006-01")
		}
		b, ok := buckets[month]
		if !ok {
			b = &dto.ForecastBucket{Month: month}
			buckets[month] = b
		}
		weighted := d.Amount * entity.StageProbabilities[d.Stage]
		b.Weighted += weighted
		b.Unweighted += d.Amount
		b.DealCount++
		resp.TotalWeighted += weighted
	}

	resp.Buckets = make([]dto.ForecastBucket, 0, len(buckets))
	for _, b := range buckets {
		resp.Buckets = append(resp.Buckets, *b)
	}
	sort.Slice(resp.Buckets, func(i, j int) bool {
		// Unscheduled sorts last; months sort lexicographically as YYYY-MM.
		if resp.Buckets[i].Month == unscheduledBucket {
			return false
		}
		if resp.Buckets[j].Month == unscheduledBucket {
			return true
		}
		return resp.Buckets[i].Month < resp.Buckets[j].Month
	})
	return resp, nil
}

func (s *DealService) validateOrgRef(ctx context.Context, orgType string, orgID uuid.UUID) *errors.AppError {
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
