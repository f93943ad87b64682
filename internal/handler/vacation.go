package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/lolidays/internal/domain"
)

// vacationListResponse is the body of GET /api/v1/vacations.
type vacationListResponse struct {
	Vacations []vacationResponse `json:"vacations"`
}

// vacationResponse is one vacation with its stops. Optional fields are
// pointers so they encode as null rather than being omitted.
type vacationResponse struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	StartDate *openapi_types.Date `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date"`
	CreatedBy string              `json:"created_by"`
	CreatedAt time.Time           `json:"created_at"`
	Stops     []stopResponse      `json:"stops"`
}

type stopResponse struct {
	ID         string              `json:"id"`
	VacationID string              `json:"vacation_id"`
	Name       string              `json:"name"`
	Date       *openapi_types.Date `json:"date"`
	AlbumURL   *string             `json:"album_url"`
	Lat        *float64            `json:"lat"`
	Lon        *float64            `json:"lon"`
	Idx        int                 `json:"idx"`
}

// ListVacations handles GET /api/v1/vacations.
// Vacations come back in listing order (dated first by start date, then
// undated newest first), each with its stops in route order.
func (s *Server) ListVacations(w http.ResponseWriter, r *http.Request) {
	vacations, err := s.vacations.ListWithStops(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list vacations failed", "error", err)
		internalError(w, "failed to list vacations")
		return
	}

	resp := vacationListResponse{Vacations: make([]vacationResponse, 0, len(vacations))}
	for _, v := range vacations {
		resp.Vacations = append(resp.Vacations, toVacationResponse(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toVacationResponse(v domain.VacationWithStops) vacationResponse {
	out := vacationResponse{
		ID:        v.ID,
		Title:     v.Title,
		StartDate: toDate(v.StartDate),
		EndDate:   toDate(v.EndDate),
		CreatedBy: v.CreatedBy,
		CreatedAt: v.CreatedAt.UTC(),
		Stops:     make([]stopResponse, 0, len(v.Stops)),
	}
	for _, st := range v.Stops {
		out.Stops = append(out.Stops, toStopResponse(st))
	}
	return out
}

func toStopResponse(st domain.Stop) stopResponse {
	out := stopResponse{
		ID:         st.ID,
		VacationID: st.VacationID,
		Name:       st.Name,
		Date:       toDate(st.Date),
		Idx:        st.Idx,
	}
	if st.AlbumURL != "" {
		album := st.AlbumURL
		out.AlbumURL = &album
	}
	// Coordinates are emitted as a pair or not at all.
	if st.HasPoint() {
		out.Lat, out.Lon = st.Lat, st.Lon
	}
	return out
}

func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}
