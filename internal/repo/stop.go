package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/lolidays/internal/domain"
)

// StopRepo defines the persistence operations for Stops.
type StopRepo interface {
	// Create inserts a new stop and returns the persisted record.
	// When stop.Idx is nil the stop is appended: its idx becomes the
	// vacation's current maximum idx + 1 (1 for the first stop).
	// Returns domain.ErrReference if the vacation does not exist and
	// domain.ErrConflict if the id is already taken.
	Create(ctx context.Context, stop domain.NewStop) (domain.Stop, error)

	// ListByVacationID returns all stops for a vacation in route order:
	// idx ascending, insertion order for equal idx. A vacation with no
	// stops, or an unknown vacation, yields an empty slice.
	ListByVacationID(ctx context.Context, vacationID string) ([]domain.Stop, error)

	// Delete removes a stop by ID and reports how many rows were removed (0 or 1).
	Delete(ctx context.Context, stopID string) (int64, error)
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, vacation_id, name, date, album_url, lat, lon, idx`

// Create inserts a stop row. The append position is resolved inside the
// INSERT so no separate read is needed.
func (r *pgStopRepo) Create(ctx context.Context, stop domain.NewStop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (id, vacation_id, name, date, album_url, lat, lon, idx)
		VALUES (
			@id, @vacation_id, @name, @date::date, @album_url, @lat::double precision, @lon::double precision,
			COALESCE(@idx::integer, (SELECT COALESCE(MAX(idx), 0) + 1 FROM stops WHERE vacation_id = @vacation_id))
		)
		RETURNING ` + stopColumns

	var lat, lon *float64
	if stop.Point != nil {
		lat, lon = &stop.Point.Lat, &stop.Point.Lon
	}

	args := pgx.NamedArgs{
		"id":          stop.ID,
		"vacation_id": stop.VacationID,
		"name":        stop.Name,
		"date":        stop.Date,
		"album_url":   nilIfEmpty(stop.AlbumURL),
		"lat":         lat,
		"lon":         lon,
		"idx":         stop.Idx, // nil means append
	}

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

// ListByVacationID returns a vacation's stops in route order.
func (r *pgStopRepo) ListByVacationID(ctx context.Context, vacationID string) ([]domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE vacation_id = @vacation_id
		ORDER BY idx ASC, seq ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"vacation_id": vacationID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByVacationID: %w", err)
	}
	defer rows.Close()

	stops := []domain.Stop{}
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.ListByVacationID: scan: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByVacationID: rows: %w", err)
	}
	return stops, nil
}

// Delete removes a stop by primary key.
func (r *pgStopRepo) Delete(ctx context.Context, stopID string) (int64, error) {
	const q = `DELETE FROM stops WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": stopID})
	if err != nil {
		return 0, fmt.Errorf("repo.StopRepo.Delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		st       domain.Stop
		date     pgtype.Date
		albumURL *string
		idx      int32
	)

	err := s.Scan(&st.ID, &st.VacationID, &st.Name, &date, &albumURL, &st.Lat, &st.Lon, &idx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}

	st.Date = datePtr(date)
	if albumURL != nil {
		st.AlbumURL = *albumURL
	}
	st.Idx = int(idx)
	return st, nil
}

// nilIfEmpty converts an empty string to a nil pointer so optional text
// columns are stored as NULL rather than ''.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
