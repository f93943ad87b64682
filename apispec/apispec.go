// Package apispec embeds the OpenAPI description of the Lolidays Read API.
// The HTTP server serves it at /openapi.yaml.
package apispec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
