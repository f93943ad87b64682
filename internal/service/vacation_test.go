package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/lolidays/internal/domain"
	"github.com/pkordes/lolidays/internal/repo"
	"github.com/pkordes/lolidays/internal/service"
)

// mockVacationRepo is a hand-written test double for repo.VacationRepo.
// Each method is a function field; set only the ones your test needs.
type mockVacationRepo struct {
	create  func(ctx context.Context, v domain.Vacation) (domain.Vacation, error)
	getByID func(ctx context.Context, id string) (domain.Vacation, error)
	list    func(ctx context.Context) ([]domain.Vacation, error)
}

func (m *mockVacationRepo) Create(ctx context.Context, v domain.Vacation) (domain.Vacation, error) {
	return m.create(ctx, v)
}
func (m *mockVacationRepo) GetByID(ctx context.Context, id string) (domain.Vacation, error) {
	return m.getByID(ctx, id)
}
func (m *mockVacationRepo) List(ctx context.Context) ([]domain.Vacation, error) {
	return m.list(ctx)
}

// compile-time check: mockVacationRepo must satisfy repo.VacationRepo.
var _ repo.VacationRepo = (*mockVacationRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// echoCreate returns the vacation it was given, as a DB would after insert.
func echoCreate(_ context.Context, v domain.Vacation) (domain.Vacation, error) {
	v.CreatedAt = time.Now().UTC()
	return v, nil
}

// ---- Create ----------------------------------------------------------------

func TestVacationService_Create_OK(t *testing.T) {
	var stored domain.Vacation
	svc := service.NewVacationService(&mockVacationRepo{
		create: func(ctx context.Context, v domain.Vacation) (domain.Vacation, error) {
			stored = v
			return echoCreate(ctx, v)
		},
	}, nil)

	got, err := svc.Create(context.Background(), domain.NewVacation{
		Title:     "  Norway trip ",
		StartDate: day(2025, 7, 1),
		EndDate:   day(2025, 7, 14),
		CreatedBy: "U1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID, "service assigns an ID when none is given")
	assert.Equal(t, "Norway trip", stored.Title, "title is trimmed")
	assert.Equal(t, "U1", stored.CreatedBy)
}

func TestVacationService_Create_KeepsCallerID(t *testing.T) {
	svc := service.NewVacationService(&mockVacationRepo{create: echoCreate}, nil)

	got, err := svc.Create(context.Background(), domain.NewVacation{ID: "fixed-id", Title: "Trip"})

	require.NoError(t, err)
	assert.Equal(t, "fixed-id", got.ID)
}

func TestVacationService_Create_TitleRequired(t *testing.T) {
	svc := service.NewVacationService(&mockVacationRepo{}, nil)

	_, err := svc.Create(context.Background(), domain.NewVacation{Title: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "title is required")
}

func TestVacationService_Create_EndBeforeStart(t *testing.T) {
	svc := service.NewVacationService(&mockVacationRepo{}, nil)

	_, err := svc.Create(context.Background(), domain.NewVacation{
		Title:     "Backwards",
		StartDate: day(2025, 7, 14),
		EndDate:   day(2025, 7, 1),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestVacationService_Create_RepoConflict(t *testing.T) {
	svc := service.NewVacationService(&mockVacationRepo{
		create: func(_ context.Context, _ domain.Vacation) (domain.Vacation, error) {
			return domain.Vacation{}, domain.ErrConflict
		},
	}, nil)

	_, err := svc.Create(context.Background(), domain.NewVacation{ID: "dup", Title: "Trip"})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ---- List / ListWithStops --------------------------------------------------

func TestVacationService_List_ReturnsEmptySlice(t *testing.T) {
	svc := service.NewVacationService(&mockVacationRepo{
		list: func(_ context.Context) ([]domain.Vacation, error) { return nil, nil },
	}, nil)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestVacationService_ListWithStops(t *testing.T) {
	vacations := []domain.Vacation{{ID: "v1", Title: "One"}, {ID: "v2", Title: "Two"}}
	stopsByVacation := map[string][]domain.Stop{
		"v1": {{ID: "s1", VacationID: "v1", Name: "Oslo", Idx: 1}},
	}

	svc := service.NewVacationService(
		&mockVacationRepo{
			list: func(_ context.Context) ([]domain.Vacation, error) { return vacations, nil },
		},
		&mockStopRepo{
			listByVacationID: func(_ context.Context, id string) ([]domain.Stop, error) {
				return stopsByVacation[id], nil
			},
		},
	)

	got, err := svc.ListWithStops(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "v1", got[0].ID)
	assert.Len(t, got[0].Stops, 1)
	assert.Equal(t, "v2", got[1].ID)
	assert.NotNil(t, got[1].Stops, "vacations without stops get an empty, non-nil slice")
	assert.Empty(t, got[1].Stops)
}

func TestVacationService_ListWithStops_StopError(t *testing.T) {
	repoErr := errors.New("db exploded")
	svc := service.NewVacationService(
		&mockVacationRepo{
			list: func(_ context.Context) ([]domain.Vacation, error) {
				return []domain.Vacation{{ID: "v1"}}, nil
			},
		},
		&mockStopRepo{
			listByVacationID: func(_ context.Context, _ string) ([]domain.Stop, error) { return nil, repoErr },
		},
	)

	_, err := svc.ListWithStops(context.Background())

	assert.ErrorIs(t, err, repoErr)
}
