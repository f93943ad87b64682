// Package middleware provides reusable HTTP middleware for the Lolidays web server.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that lets the map client be served
// from another origin. The Read API is read-only, so only GET, HEAD and
// the OPTIONS preflight are allowed. Pass []string{"*"} to allow any origin.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         600,
	})
	return c.Handler
}
