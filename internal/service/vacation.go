// Package service contains the business logic for the Lolidays bot.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/lolidays/internal/domain"
	"github.com/pkordes/lolidays/internal/repo"
)

// VacationService implements business logic for Vacation operations and the
// combined vacation+stops read projection.
type VacationService struct {
	vacations repo.VacationRepo
	stops     repo.StopRepo
}

// NewVacationService constructs a VacationService backed by the provided repos.
func NewVacationService(vacations repo.VacationRepo, stops repo.StopRepo) *VacationService {
	return &VacationService{vacations: vacations, stops: stops}
}

// Create validates and persists a new vacation. A fresh UUID is assigned
// when the caller leaves ID empty.
// Returns domain.ErrValidation if input violates business rules.
func (s *VacationService) Create(ctx context.Context, in domain.NewVacation) (domain.Vacation, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return domain.Vacation{}, err
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return domain.Vacation{}, fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}

	created, err := s.vacations.Create(ctx, domain.Vacation{
		ID:        in.ID,
		Title:     in.Title,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		CreatedBy: in.CreatedBy,
	})
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single vacation.
// Returns domain.ErrNotFound if it does not exist.
func (s *VacationService) GetByID(ctx context.Context, id string) (domain.Vacation, error) {
	v, err := s.vacations.GetByID(ctx, id)
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.GetByID: %w", err)
	}
	return v, nil
}

// List returns all vacations in listing order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *VacationService) List(ctx context.Context) ([]domain.Vacation, error) {
	vacations, err := s.vacations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VacationService.List: %w", err)
	}
	if vacations == nil {
		return []domain.Vacation{}, nil
	}
	return vacations, nil
}

// ListWithStops returns every vacation with its stops in route order.
// Each vacation's stops are read by a separate query, so the result is
// consistent per vacation but not across the whole graph.
func (s *VacationService) ListWithStops(ctx context.Context) ([]domain.VacationWithStops, error) {
	vacations, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VacationService.ListWithStops: %w", err)
	}

	out := make([]domain.VacationWithStops, 0, len(vacations))
	for _, v := range vacations {
		stops, err := s.stops.ListByVacationID(ctx, v.ID)
		if err != nil {
			return nil, fmt.Errorf("service.VacationService.ListWithStops: %w", err)
		}
		if stops == nil {
			stops = []domain.Stop{}
		}
		out = append(out, domain.VacationWithStops{Vacation: v, Stops: stops})
	}
	return out, nil
}
