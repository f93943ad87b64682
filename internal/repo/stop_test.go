package repo_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/lolidays/internal/domain"
	"github.com/pkordes/lolidays/internal/repo"
)

func mustCreateVacation(t *testing.T, r repo.VacationRepo) domain.Vacation {
	t.Helper()
	v, err := r.Create(context.Background(), vacationFixture())
	require.NoError(t, err, "create parent vacation")
	return v
}

func intPtr(i int) *int { return &i }

// stopFixture returns a NewStop with coordinates and an explicit index.
func stopFixture(vacationID, name string, idx *int) domain.NewStop {
	return domain.NewStop{
		ID:         uuid.NewString(),
		VacationID: vacationID,
		Name:       name,
		Date:       date(2025, 7, 2),
		AlbumURL:   "https://photos.example.com/album/1",
		Idx:        idx,
		Point:      &domain.Point{Lat: 59.9139, Lon: 10.7522},
	}
}

func TestStopRepo_Create(t *testing.T) {
	vacations, stops := newTestRepos(t)
	v := mustCreateVacation(t, vacations)

	input := stopFixture(v.ID, "Oslo", intPtr(1))
	got, err := stops.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, input.ID, got.ID)
	assert.Equal(t, v.ID, got.VacationID)
	assert.Equal(t, "Oslo", got.Name)
	require.NotNil(t, got.Date)
	assert.True(t, got.Date.Equal(*input.Date))
	assert.Equal(t, input.AlbumURL, got.AlbumURL)
	require.True(t, got.HasPoint())
	assert.InDelta(t, 59.9139, *got.Lat, 1e-9)
	assert.InDelta(t, 10.7522, *got.Lon, 1e-9)
	assert.Equal(t, 1, got.Idx)
}

func TestStopRepo_Create_NoPointNoOptionalFields(t *testing.T) {
	vacations, stops := newTestRepos(t)
	v := mustCreateVacation(t, vacations)

	input := domain.NewStop{ID: uuid.NewString(), VacationID: v.ID, Name: "Telemark", Idx: intPtr(2)}
	got, err := stops.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, got.Lat)
	assert.Nil(t, got.Lon)
	assert.Nil(t, got.Date)
	assert.Empty(t, got.AlbumURL)
}

func TestStopRepo_Create_AppendsAfterMaxIdx(t *testing.T) {
	vacations, stops := newTestRepos(t)
	v := mustCreateVacation(t, vacations)
	ctx := context.Background()

	first, err := stops.Create(ctx, stopFixture(v.ID, "First", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Idx, "first appended stop starts at 1")

	_, err = stops.Create(ctx, stopFixture(v.ID, "Explicit", intPtr(10)))
	require.NoError(t, err)

	appended, err := stops.Create(ctx, stopFixture(v.ID, "Appended", nil))
	require.NoError(t, err)
	assert.Equal(t, 11, appended.Idx)
}

func TestStopRepo_Create_AppendOverflowIsValidation(t *testing.T) {
	vacations, stops := newTestRepos(t)
	v := mustCreateVacation(t, vacations)
	ctx := context.Background()

	_, err := stops.Create(ctx, stopFixture(v.ID, "Last", intPtr(math.MaxInt32)))
	require.NoError(t, err)

	// Must be the final statement: the overflow aborts the test transaction.
	_, err = stops.Create(ctx, stopFixture(v.ID, "Past the end", nil))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "order is out of range")
}

func TestStopRepo_Create_UnknownVacation(t *testing.T) {
	_, stops := newTestRepos(t)

	_, err := stops.Create(context.Background(), stopFixture("no-such-vacation", "Oslo", intPtr(1)))

	assert.ErrorIs(t, err, domain.ErrReference)
}

func TestStopRepo_ListByVacationID_Ordered(t *testing.T) {
	vacations, stops := newTestRepos(t)
	v := mustCreateVacation(t, vacations)
	ctx := context.Background()

	for _, s := range []domain.NewStop{
		stopFixture(v.ID, "C", intPtr(30)),
		stopFixture(v.ID, "A", intPtr(10)),
		stopFixture(v.ID, "B1", intPtr(20)),
		stopFixture(v.ID, "B2", intPtr(20)), // same idx: insertion order wins
		stopFixture(v.ID, "Last", nil),
	} {
		_, err := stops.Create(ctx, s)
		require.NoError(t, err)
	}

	got, err := stops.ListByVacationID(ctx, v.ID)
	require.NoError(t, err)

	var names []string
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"A", "B1", "B2", "C", "Last"}, names)
}

func TestStopRepo_ListByVacationID_Empty(t *testing.T) {
	vacations, stops := newTestRepos(t)
	v := mustCreateVacation(t, vacations)

	got, err := stops.ListByVacationID(context.Background(), v.ID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = stops.ListByVacationID(context.Background(), "no-such-vacation")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStopRepo_Delete(t *testing.T) {
	vacations, stops := newTestRepos(t)
	v := mustCreateVacation(t, vacations)
	ctx := context.Background()

	a, err := stops.Create(ctx, stopFixture(v.ID, "A", intPtr(1)))
	require.NoError(t, err)
	b, err := stops.Create(ctx, stopFixture(v.ID, "B", intPtr(2)))
	require.NoError(t, err)
	c, err := stops.Create(ctx, stopFixture(v.ID, "C", intPtr(3)))
	require.NoError(t, err)

	n, err := stops.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	remaining, err := stops.ListByVacationID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Stop{a, c}, remaining)
}

func TestStopRepo_Delete_NotFound(t *testing.T) {
	vacations, stops := newTestRepos(t)
	v := mustCreateVacation(t, vacations)
	ctx := context.Background()

	_, err := stops.Create(ctx, stopFixture(v.ID, "A", intPtr(1)))
	require.NoError(t, err)

	n, err := stops.Delete(ctx, "no-such-stop")

	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	remaining, err := stops.ListByVacationID(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
