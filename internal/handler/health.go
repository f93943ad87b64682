package handler

import "net/http"

// Ping handles GET /ping. It answers 200 with the plain-text body "ok" as
// long as the process is serving HTTP; it does not touch the database.
func (s *Server) Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
