package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/map.html
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html"))

// mapPageData is the template input for the map page.
type mapPageData struct {
	MapboxToken  string
	VacationsURL string
}

// MapPage handles GET /. It serves the interactive map, which loads
// /api/v1/vacations in the browser and draws numbered markers, one line per
// vacation and a legend with album links.
func (s *Server) MapPage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := mapTemplate.Execute(&buf, mapPageData{
		MapboxToken:  s.mapboxToken,
		VacationsURL: "/api/v1/vacations",
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "render map page failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
