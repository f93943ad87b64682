package domain

import "time"

// Stop is one waypoint within a vacation.
// Lat and Lon are either both set or both nil; nil means geocoding found
// no match (or failed) for the stop's name.
type Stop struct {
	ID         string
	VacationID string
	Name       string
	Date       *time.Time
	AlbumURL   string
	Lat        *float64
	Lon        *float64
	Idx        int
}

// HasPoint reports whether the stop carries a usable coordinate pair.
func (s Stop) HasPoint() bool {
	return s.Lat != nil && s.Lon != nil
}

// Point is a resolved WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// NewStop carries the caller-supplied fields for creating a stop.
//
// Idx is the explicit route position and must fit a 32-bit integer. When
// nil the stop is appended after the current last stop of the vacation
// (max idx + 1). AlbumURL, when set, must be an http or https URL.
// Point is filled in by the service from the geocoder and is not supplied
// by callers.
type NewStop struct {
	ID         string
	VacationID string `validate:"required"`
	Name       string `validate:"required"`
	Date       *time.Time
	AlbumURL   string `validate:"omitempty,http_url"`
	Idx        *int   `validate:"omitempty,min=-2147483648,max=2147483647"`
	Point      *Point
}
