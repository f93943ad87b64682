// Package staticmap builds Mapbox Static Images URLs for a vacation route.
// Chat clients cannot run the interactive map, so the route is rendered
// server-side into a single image URL: one pin per located stop and a
// line through them in route order.
package staticmap

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkordes/lolidays/internal/domain"
)

const (
	// DefaultBaseURL is the Mapbox styles endpoint with the streets style.
	DefaultBaseURL = "https://api.mapbox.com/styles/v1/mapbox/streets-v12/static"

	// fallbackCenter frames Europe when no stop has coordinates.
	fallbackCenter = "10,51,3"
)

// Options are rendering parameters. Zero values take the defaults:
// 800x500 at zoom 4.
type Options struct {
	Width  int
	Height int
	// Zoom is the Mapbox zoom level, clamped to 0..22. Nil means 4, so a
	// whole-world zoom of 0 stays expressible.
	Zoom *int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 500
	}
	return o
}

func (o Options) zoom() int {
	if o.Zoom == nil {
		return 4
	}
	return min(max(*o.Zoom, 0), 22)
}

// Builder renders static map URLs signed with a Mapbox access token.
type Builder struct {
	baseURL string
	token   string
}

// New returns a Builder for the public Mapbox API.
func New(token string) *Builder {
	return &Builder{baseURL: DefaultBaseURL, token: token}
}

// URL returns the static image URL for stops, which must already be in
// route order. Stops without coordinates are skipped. With no located
// stops the fallback overview map is returned. The image is centred on
// the first located stop.
func (b *Builder) URL(stops []domain.Stop, opts Options) string {
	opts = opts.withDefaults()
	size := fmt.Sprintf("%dx%d@2x", opts.Width, opts.Height)

	var pts []string
	for _, s := range stops {
		if !s.HasPoint() {
			continue
		}
		pts = append(pts, coord(*s.Lon)+","+coord(*s.Lat))
	}

	if len(pts) == 0 {
		return b.join(fallbackCenter, size)
	}

	overlays := make([]string, 0, len(pts)+1)
	for _, p := range pts {
		overlays = append(overlays, "pin-s+000("+p+")")
	}
	if len(pts) > 1 {
		overlays = append(overlays, "path-3+000("+strings.Join(pts, ";")+")")
	}

	center := pts[0] + "," + strconv.Itoa(opts.zoom())
	return b.join(strings.Join(overlays, ",")+"/"+center, size)
}

func (b *Builder) join(path, size string) string {
	return b.baseURL + "/" + path + "/" + size + "?access_token=" + url.QueryEscape(b.token)
}

// coord formats a coordinate with the shortest exact representation.
func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
