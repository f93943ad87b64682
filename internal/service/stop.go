package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/lolidays/internal/domain"
	"github.com/pkordes/lolidays/internal/repo"
)

// Locator resolves a free-text place name to coordinates.
// It returns nil when the place cannot be resolved, whether because there
// is no match or because the lookup failed; it never blocks stop creation.
type Locator interface {
	Locate(ctx context.Context, place string) *domain.Point
}

// StopService implements business logic for Stop operations.
// It holds the vacations repo because creating a stop requires verifying
// the parent vacation exists, and a Locator to geocode the stop name.
type StopService struct {
	vacations repo.VacationRepo
	stops     repo.StopRepo
	locator   Locator
}

// NewStopService constructs a StopService. locator may be nil, in which
// case stops are stored without coordinates.
func NewStopService(vacations repo.VacationRepo, stops repo.StopRepo, locator Locator) *StopService {
	return &StopService{vacations: vacations, stops: stops, locator: locator}
}

// Create validates the stop, verifies the parent vacation exists, geocodes
// the stop name, then persists.
// Returns domain.ErrValidation if input violates business rules.
// Returns domain.ErrReference if the parent vacation does not exist.
func (s *StopService) Create(ctx context.Context, in domain.NewStop) (domain.Stop, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.VacationID = strings.TrimSpace(in.VacationID)
	in.AlbumURL = strings.TrimSpace(in.AlbumURL)
	if err := validateStruct(in); err != nil {
		return domain.Stop{}, err
	}

	if _, err := s.vacations.GetByID(ctx, in.VacationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrReference
		}
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}

	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Point == nil && s.locator != nil {
		in.Point = s.locator.Locate(ctx, in.Name)
	}

	created, err := s.stops.Create(ctx, in)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}
	return created, nil
}

// ListByVacationID returns a vacation's stops in route order.
// Always returns a non-nil slice; an unknown vacation yields an empty one.
func (s *StopService) ListByVacationID(ctx context.Context, vacationID string) ([]domain.Stop, error) {
	stops, err := s.stops.ListByVacationID(ctx, vacationID)
	if err != nil {
		return nil, fmt.Errorf("service.StopService.ListByVacationID: %w", err)
	}
	if stops == nil {
		return []domain.Stop{}, nil
	}
	return stops, nil
}

// Delete removes a stop and reports how many rows were removed (0 or 1).
// Zero is not an error; the caller decides how to surface it.
func (s *StopService) Delete(ctx context.Context, stopID string) (int64, error) {
	n, err := s.stops.Delete(ctx, stopID)
	if err != nil {
		return 0, fmt.Errorf("service.StopService.Delete: %w", err)
	}
	return n, nil
}
