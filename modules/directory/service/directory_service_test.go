package service

import (
	"context"
	"testing"

	"venue-crm/core/errors"
	"venue-crm/core/params"
	"venue-crm/modules/directory/dto"
	"venue-crm/modules/directory/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectoryRepo struct {
	venues          map[uuid.UUID]*entity.Venue
	operators       map[uuid.UUID]*entity.Operator
	concessionaires map[uuid.UUID]*entity.Concessionaire
	links           []*entity.VenueConcessionaire
	openDeals       map[string]int // "<org_type>/<org_id>"
}

func newFakeDirectoryRepo() *fakeDirectoryRepo {
	return &fakeDirectoryRepo{
		venues:          make(map[uuid.UUID]*entity.Venue),
		operators:       make(map[uuid.UUID]*entity.Operator),
		concessionaires: make(map[uuid.UUID]*entity.Concessionaire),
		openDeals:       make(map[string]int),
	}
}

func (r *fakeDirectoryRepo) CreateVenue(_ context.Context, v *entity.Venue) error {
	v.ID = uuid.New()
	r.venues[v.ID] = v
	return nil
}

func (r *fakeDirectoryRepo) GetVenueByID(_ context.Context, id uuid.UUID) (*entity.Venue, error) {
	return r.venues[id], nil
}

func (r *fakeDirectoryRepo) GetVenueBySlug(_ context.Context, slug string) (*entity.Venue, error) {
	for _, v := range r.venues {
		if v.Slug == slug {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeDirectoryRepo) ListVenues(_ context.Context, _ *params.QueryParams) ([]entity.Venue, int, error) {
	var out []entity.Venue
	for _, v := range r.venues {
		out = append(out, *v)
	}
	return out, len(out), nil
}

func (r *fakeDirectoryRepo) UpdateVenue(_ context.Context, v *entity.Venue) error {
	r.venues[v.ID] = v
	return nil
}

func (r *fakeDirectoryRepo) DeleteVenue(_ context.Context, id uuid.UUID) error {
	delete(r.venues, id)
	return nil
}

func (r *fakeDirectoryRepo) CreateOperator(_ context.Context, o *entity.Operator) error {
	o.ID = uuid.New()
	r.operators[o.ID] = o
	return nil
}

func (r *fakeDirectoryRepo) GetOperatorByID(_ context.Context, id uuid.UUID) (*entity.Operator, error) {
	return r.operators[id], nil
}

func (r *fakeDirectoryRepo) ListOperators(_ context.Context, _ *params.QueryParams) ([]entity.Operator, int, error) {
	var out []entity.Operator
	for _, o := range r.operators {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (r *fakeDirectoryRepo) UpdateOperator(_ context.Context, o *entity.Operator) error {
	r.operators[o.ID] = o
	return nil
}

func (r *fakeDirectoryRepo) DeleteOperator(_ context.Context, id uuid.UUID) error {
	delete(r.operators, id)
	return nil
}

func (r *fakeDirectoryRepo) CreateConcessionaire(_ context.Context, c *entity.Concessionaire) error {
	c.ID = uuid.New()
	r.concessionaires[c.ID] = c
	return nil
}

func (r *fakeDirectoryRepo) GetConcessionaireByID(_ context.Context, id uuid.UUID) (*entity.Concessionaire, error) {
	return r.concessionaires[id], nil
}

func (r *fakeDirectoryRepo) ListConcessionaires(_ context.Context, _ *params.QueryParams) ([]entity.Concessionaire, int, error) {
	var out []entity.Concessionaire
	for _, c := range r.concessionaires {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (r *fakeDirectoryRepo) UpdateConcessionaire(_ context.Context, c *entity.Concessionaire) error {
	r.concessionaires[c.ID] = c
	return nil
}

func (r *fakeDirectoryRepo) DeleteConcessionaire(_ context.Context, id uuid.UUID) error {
	delete(r.concessionaires, id)
	return nil
}

func (r *fakeDirectoryRepo) GetLink(_ context.Context, venueID uuid.UUID, concessionaireID uuid.UUID) (*entity.VenueConcessionaire, error) {
	for _, l := range r.links {
		if l.VenueID == venueID && l.ConcessionaireID == concessionaireID {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeDirectoryRepo) CreateLink(_ context.Context, link *entity.VenueConcessionaire) error {
	link.ID = uuid.New()
	r.links = append(r.links, link)
	return nil
}

func (r *fakeDirectoryRepo) DeleteLink(_ context.Context, venueID uuid.UUID, concessionaireID uuid.UUID) (bool, error) {
	for i, l := range r.links {
		if l.VenueID == venueID && l.ConcessionaireID == concessionaireID {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDirectoryRepo) ListLinksByVenue(_ context.Context, venueID uuid.UUID) ([]entity.VenueConcessionaire, error) {
	var out []entity.VenueConcessionaire
	for _, l := range r.links {
		if l.VenueID == venueID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeDirectoryRepo) CountLinksByVenue(_ context.Context, venueID uuid.UUID) (int, error) {
	n := 0
	for _, l := range r.links {
		if l.VenueID == venueID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDirectoryRepo) CountLinksByConcessionaire(_ context.Context, concessionaireID uuid.UUID) (int, error) {
	n := 0
	for _, l := range r.links {
		if l.ConcessionaireID == concessionaireID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDirectoryRepo) CountConcessionairesByOperator(_ context.Context, operatorID uuid.UUID) (int, error) {
	n := 0
	for _, c := range r.concessionaires {
		if c.OperatorID != nil && *c.OperatorID == operatorID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDirectoryRepo) CountOpenDealsByOrg(_ context.Context, orgType string, orgID uuid.UUID) (int, error) {
	return r.openDeals[orgType+"/"+orgID.String()], nil
}

func TestCreateVenueSlugsAreUnique(t *testing.T) {
	repo := newFakeDirectoryRepo()
	service := NewDirectoryService(repo)
	ctx := context.Background()

	first, appErr := service.CreateVenue(ctx, &dto.VenueRequest{Name: "Memorial Stadium"})
	require.Nil(t, appErr)
	assert.Equal(t, "memorial-stadium", first.Slug)

	second, appErr := service.CreateVenue(ctx, &dto.VenueRequest{Name: "Memorial Stadium"})
	require.Nil(t, appErr)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "memorial-stadium-")
}

func TestDeleteVenueBlockedByLinksThenDeals(t *testing.T) {
	repo := newFakeDirectoryRepo()
	service := NewDirectoryService(repo)
	ctx := context.Background()

	venue, appErr := service.CreateVenue(ctx, &dto.VenueRequest{Name: "Riverfront Arena"})
	require.Nil(t, appErr)
	conc, appErr := service.CreateConcessionaire(ctx, &dto.ConcessionaireRequest{Name: "Best Bites"})
	require.Nil(t, appErr)

	_, appErr = service.LinkConcessionaire(ctx, venue.ID, &dto.LinkConcessionaireRequest{ConcessionaireID: conc.ID})
	require.Nil(t, appErr)

	appErr = service.DeleteVenue(ctx, venue.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)

	require.Nil(t, service.UnlinkConcessionaire(ctx, venue.ID, conc.ID))

	repo.openDeals[OrgTypeVenue+"/"+venue.ID.String()] = 2
	appErr = service.DeleteVenue(ctx, venue.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)

	repo.openDeals[OrgTypeVenue+"/"+venue.ID.String()] = 0
	require.Nil(t, service.DeleteVenue(ctx, venue.ID))
	assert.Empty(t, repo.venues)
}

func TestLinkConcessionaireTwiceConflicts(t *testing.T) {
	repo := newFakeDirectoryRepo()
	service := NewDirectoryService(repo)
	ctx := context.Background()

	venue, appErr := service.CreateVenue(ctx, &dto.VenueRequest{Name: "Harbor Bowl"})
	require.Nil(t, appErr)
	conc, appErr := service.CreateConcessionaire(ctx, &dto.ConcessionaireRequest{Name: "Salt and Pepper"})
	require.Nil(t, appErr)

	_, appErr = service.LinkConcessionaire(ctx, venue.ID, &dto.LinkConcessionaireRequest{ConcessionaireID: conc.ID})
	require.Nil(t, appErr)

	_, appErr = service.LinkConcessionaire(ctx, venue.ID, &dto.LinkConcessionaireRequest{ConcessionaireID: conc.ID})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)
}

func TestDeleteOperatorBlockedByConcessionaires(t *testing.T) {
	repo := newFakeDirectoryRepo()
	service := NewDirectoryService(repo)
	ctx := context.Background()

	op, appErr := service.CreateOperator(ctx, &dto.OperatorRequest{Name: "Oak View Group"})
	require.Nil(t, appErr)
	_, appErr = service.CreateConcessionaire(ctx, &dto.ConcessionaireRequest{Name: "Stadium Eats", OperatorID: &op.ID})
	require.Nil(t, appErr)

	appErr = service.DeleteOperator(ctx, op.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
}

func TestUnlinkMissingLinkIsNotFound(t *testing.T) {
	service := NewDirectoryService(newFakeDirectoryRepo())

	appErr := service.UnlinkConcessionaire(context.Background(), uuid.New(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
