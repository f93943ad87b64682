// Package repo contains all database access logic for the Lolidays bot.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here: only SQL, type mapping, and translation of
// storage constraint failures into domain errors.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/lolidays/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// VacationRepo defines the persistence operations for Vacations.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type VacationRepo interface {
	// Create inserts a new vacation and returns the persisted record with
	// created_at populated by the database.
	// Returns domain.ErrConflict if the id is already taken or the title is blank.
	Create(ctx context.Context, v domain.Vacation) (domain.Vacation, error)

	// GetByID retrieves a single vacation by its identifier.
	// Returns domain.ErrNotFound if no vacation with that ID exists.
	GetByID(ctx context.Context, id string) (domain.Vacation, error)

	// List returns all vacations: dated ones first by start_date ascending,
	// then undated ones; newest first within equal start dates.
	List(ctx context.Context) ([]domain.Vacation, error)
}

// pgVacationRepo is the Postgres implementation of VacationRepo.
type pgVacationRepo struct {
	db db
}

// NewVacationRepo constructs a VacationRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewVacationRepo(db db) VacationRepo {
	return &pgVacationRepo{db: db}
}

const vacationColumns = `id, title, start_date, end_date, created_by, created_at`

// Create inserts a new vacation row and returns the full persisted record.
func (r *pgVacationRepo) Create(ctx context.Context, v domain.Vacation) (domain.Vacation, error) {
	const q = `
		INSERT INTO vacations (id, title, start_date, end_date, created_by)
		VALUES (@id, @title, @start_date::date, @end_date::date, @created_by)
		RETURNING ` + vacationColumns

	args := pgx.NamedArgs{
		"id":         v.ID,
		"title":      v.Title,
		"start_date": v.StartDate, // nil becomes NULL
		"end_date":   v.EndDate,
		"created_by": v.CreatedBy,
	}

	result, err := scanVacation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("repo.VacationRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

// GetByID retrieves a vacation by primary key.
func (r *pgVacationRepo) GetByID(ctx context.Context, id string) (domain.Vacation, error) {
	const q = `SELECT ` + vacationColumns + ` FROM vacations WHERE id = @id`

	result, err := scanVacation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("repo.VacationRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns every vacation. NULLS LAST keeps dateless drafts after the
// dated trips; seq breaks created_at ties for rows inserted in the same
// instant.
func (r *pgVacationRepo) List(ctx context.Context) ([]domain.Vacation, error) {
	const q = `
		SELECT ` + vacationColumns + `
		FROM vacations
		ORDER BY start_date ASC NULLS LAST, created_at DESC, seq DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VacationRepo.List: %w", err)
	}
	defer rows.Close()

	vacations := []domain.Vacation{}
	for rows.Next() {
		v, err := scanVacation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VacationRepo.List: scan: %w", err)
		}
		vacations = append(vacations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VacationRepo.List: rows: %w", err)
	}
	return vacations, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanVacation maps a single database row into a domain.Vacation.
// It handles the nullable start_date and end_date conversions.
func scanVacation(s scanner) (domain.Vacation, error) {
	var (
		v         domain.Vacation
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&v.ID, &v.Title, &startDate, &endDate, &v.CreatedBy, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vacation{}, domain.ErrNotFound
		}
		return domain.Vacation{}, err
	}

	v.StartDate = datePtr(startDate)
	v.EndDate = datePtr(endDate)
	return v, nil
}

// datePtr converts a nullable DATE column into an optional time.
func datePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

// mapWriteError translates Postgres constraint violations into domain errors.
// Unique and CHECK violations become ErrConflict; a missing parent vacation
// (foreign key) becomes ErrReference. A numeric overflow, such as appending
// after a stop at the largest idx, becomes ErrValidation. Anything else
// passes through unchanged.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505", "23514":
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case "23503":
		return domain.ErrReference
	case "22003":
		return fmt.Errorf("%w: order is out of range", domain.ErrValidation)
	}
	return err
}
