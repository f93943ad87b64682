// Package domain contains the core data types for the Lolidays bot.
// It has no dependencies on other internal packages and is imported by
// every layer (repo, service, handler, slackbot).
package domain

import "time"

// Vacation is a named trip with an optional date range.
// A vacation is the top-level aggregate; stops belong to a vacation.
// Vacations are append-only: there is no update or delete path.
type Vacation struct {
	ID        string
	Title     string
	StartDate *time.Time // nil when the trip has no known start date
	EndDate   *time.Time
	CreatedBy string
	CreatedAt time.Time
}

// VacationWithStops is the read projection shared by the Read API and the
// chat home view: one vacation plus its stops in route order.
type VacationWithStops struct {
	Vacation
	Stops []Stop
}

// NewVacation carries the caller-supplied fields for creating a vacation.
// ID is generated by the service when empty.
type NewVacation struct {
	ID        string
	Title     string `validate:"required"`
	StartDate *time.Time
	EndDate   *time.Time
	CreatedBy string
}
