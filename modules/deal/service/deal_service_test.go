package service

import (
	"context"
	"testing"
	"time"

	coreerrors "venue-crm/core/errors"
	"venue-crm/core/params"
	"venue-crm/modules/deal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDealRepo struct {
	deals       map[uuid.UUID]*entity.Deal
	transitions []entity.StageTransition
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: map[uuid.UUID]*entity.Deal{}}
}

func (r *fakeDealRepo) Create(_ context.Context, d *entity.Deal) error {
	d.ID = uuid.New()
	r.deals[d.ID] = d
	return nil
}

func (r *fakeDealRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Deal, error) {
	return r.deals[id], nil
}

func (r *fakeDealRepo) List(_ context.Context, _ *params.QueryParams, stage string) ([]entity.Deal, int, error) {
	var out []entity.Deal
	for _, d := range r.deals {
		if stage == "" || d.Stage == stage {
			out = append(out, *d)
		}
	}
	return out, len(out), nil
}

func (r *fakeDealRepo) ListOpen(_ context.Context) ([]entity.Deal, error) {
	var out []entity.Deal
	for _, d := range r.deals {
		if !entity.IsClosedStage(d.Stage) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDealRepo) Update(_ context.Context, d *entity.Deal) error {
	r.deals[d.ID] = d
	return nil
}

func (r *fakeDealRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.deals, id)
	return nil
}

func (r *fakeDealRepo) CreateTransition(_ context.Context, t *entity.StageTransition) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	r.transitions = append(r.transitions, *t)
	return nil
}

func (r *fakeDealRepo) ListTransitions(_ context.Context, dealID uuid.UUID) ([]entity.StageTransition, error) {
	var out []entity.StageTransition
	for _, t := range r.transitions {
		if t.DealID == dealID {
			out = append(out, t)
		}
	}
	return out, nil
}

func seedDeal(repo *fakeDealRepo, userID uuid.UUID, amount float64, stage string, close *time.Time) *entity.Deal {
	d := &entity.Deal{
		UserID:            userID,
		Name:              "deal",
		Amount:            amount,
		Stage:             stage,
		ExpectedCloseDate: close,
	}
	_ = repo.Create(context.Background(), d)
	return d
}

func datePtr(t time.Time) *time.Time { return &t }

func TestForecastWeightsByStageAndGroupsByMonth(t *testing.T) {
	repo := newFakeDealRepo()
	svc := NewDealService(repo, nil)
	userID := uuid.New()

	sep := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	oct := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	seedDeal(repo, userID, 100000, entity.StageNegotiation, datePtr(sep)) // weighted 75000
	seedDeal(repo, userID, 40000, entity.StageLead, datePtr(sep))         // weighted 4000
	seedDeal(repo, userID, 20000, entity.StageProposal, datePtr(oct))     // weighted 10000
	seedDeal(repo, userID, 50000, entity.StageQualified, nil)             // weighted 12500, unscheduled
	seedDeal(repo, userID, 99999, entity.StageClosedWon, datePtr(sep))    // excluded
	seedDeal(repo, userID, 11111, entity.StageClosedLost, datePtr(sep))   // excluded

	result, appErr := svc.Forecast(context.Background())
	require.Nil(t, appErr)

	assert.Equal(t, 4, result.OpenDeals)
	assert.InDelta(t, 101500, result.TotalWeighted, 0.001)

	require.Len(t, result.Buckets, 3)
	assert.Equal(t, "2026-09", result.Buckets[0].Month)
	assert.InDelta(t, 79000, result.Buckets[0].Weighted, 0.001)
	assert.InDelta(t, 140000, result.Buckets[0].Unweighted, 0.001)
	assert.Equal(t, 2, result.Buckets[0].DealCount)

	assert.Equal(t, "2026-10", result.Buckets[1].Month)
	assert.InDelta(t, 10000, result.Buckets[1].Weighted, 0.001)

	assert.Equal(t, "unscheduled", result.Buckets[2].Month)
	assert.InDelta(t, 12500, result.Buckets[2].Weighted, 0.001)
}

func TestForecastEmptyPipeline(t *testing.T) {
	svc := NewDealService(newFakeDealRepo(), nil)

	result, appErr := svc.Forecast(context.Background())
	require.Nil(t, appErr)
	assert.Equal(t, 0, result.OpenDeals)
	assert.Zero(t, result.TotalWeighted)
	assert.Empty(t, result.Buckets)
}

func TestChangeStageRecordsTransitionAndClosesDeal(t *testing.T) {
	repo := newFakeDealRepo()
	svc := NewDealService(repo, nil)
	userID := uuid.New()
	d := seedDeal(repo, userID, 5000, entity.StageNegotiation, nil)

	updated, appErr := svc.ChangeStage(context.Background(), userID, d.ID, entity.StageClosedWon)
	require.Nil(t, appErr)

	assert.Equal(t, entity.StageClosedWon, updated.Stage)
	assert.NotNil(t, updated.ClosedAt)

	require.Len(t, repo.transitions, 1)
	assert.Equal(t, entity.StageNegotiation, repo.transitions[0].FromStage)
	assert.Equal(t, entity.StageClosedWon, repo.transitions[0].ToStage)
}

func TestChangeStageRejectsClosedDeals(t *testing.T) {
	repo := newFakeDealRepo()
	svc := NewDealService(repo, nil)
	userID := uuid.New()
	d := seedDeal(repo, userID, 5000, entity.StageClosedLost, nil)

	_, appErr := svc.ChangeStage(context.Background(), userID, d.ID, entity.StageLead)
	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrConflict, appErr.Code)
	assert.Empty(t, repo.transitions)
}

func TestChangeStageRejectsForeignDeal(t *testing.T) {
	repo := newFakeDealRepo()
	svc := NewDealService(repo, nil)
	d := seedDeal(repo, uuid.New(), 5000, entity.StageLead, nil)

	_, appErr := svc.ChangeStage(context.Background(), uuid.New(), d.ID, entity.StageQualified)
	require.NotNil(t, appErr)
	assert.Equal(t, coreerrors.ErrForbidden, appErr.Code)
}

func TestChangeStageSameStageIsNoop(t *testing.T) {
	repo := newFakeDealRepo()
	svc := NewDealService(repo, nil)
	userID := uuid.New()
	d := seedDeal(repo, userID, 5000, entity.StageProposal, nil)

	updated, appErr := svc.ChangeStage(context.Background(), userID, d.ID, entity.StageProposal)
	require.Nil(t, appErr)
	assert.Equal(t, entity.StageProposal, updated.Stage)
	assert.Empty(t, repo.transitions)
}
