package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/HusseinMoukalled/meetingroom/internal/bookings/domain"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

const bookingColumns = `id, username, room_id, date, start_time, end_time, created_at, updated_at`

// PostgresBookingRepository implements BookingRepository using PostgreSQL
// with pgxpool. Mutations take a transaction-scoped advisory lock keyed by
// (room_id, date) so the conflict check and the write are serialized per
// room/day against concurrent mutations.
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

func roomDateKey(roomID int64, date string) string {
	return fmt.Sprintf("bookings:%d:%s", roomID, date)
}

func lockRoomDate(ctx context.Context, tx pgx.Tx, roomID int64, date string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, roomDateKey(roomID, date))
	return err
}

// Create inserts a booking after verifying, under the room/date lock,
// that no existing booking's interval intersects it.
func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.Int64("room_id", booking.RoomID),
		attribute.String("date", booking.Date),
	)

	candidate, err := booking.Interval()
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockRoomDate(ctx, tx, booking.RoomID, booking.Date); err != nil {
		return fmt.Errorf("failed to lock room/date: %w", err)
	}

	existing, err := listForRoomDate(ctx, tx, booking.RoomID, booking.Date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if conflict := domain.FirstConflict(candidate, existing); conflict != nil {
		span.SetStatus(codes.Error, "time conflict")
		return fmt.Errorf("%w: overlaps booking %s", domain.ErrTimeConflict, conflict.ID)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO bookings (id, username, room_id, date, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`,
		booking.ID,
		booking.Username,
		booking.RoomID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	row := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// ListByUsername returns all bookings owned by username
func (r *PostgresBookingRepository) ListByUsername(ctx context.Context, username string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_by_username")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE username = $1
		ORDER BY date, start_time
	`, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings by user: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListAll returns every booking
func (r *PostgresBookingRepository) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_all")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY date, start_time`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListForRoomDate returns the bookings scoped to one room and date
func (r *PostgresBookingRepository) ListForRoomDate(ctx context.Context, roomID int64, date string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_for_room_date")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("room_id", roomID),
		attribute.String("date", date),
	)

	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE room_id = $1 AND date = $2
		ORDER BY start_time
	`, roomID, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings for room/date: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// Update rewrites the booking's schedule after re-checking conflicts
// against all other bookings for the target room and date. When the date
// changed, both the old and the new day are locked in deterministic order
// so concurrent updates cannot deadlock.
func (r *PostgresBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.update")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.Int64("room_id", booking.RoomID),
		attribute.String("date", booking.Date),
	)

	candidate, err := booking.Interval()
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentDate string
	err = tx.QueryRow(ctx, `SELECT date FROM bookings WHERE id = $1`, booking.ID).Scan(&currentDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("failed to load booking for update: %w", err)
	}

	dates := []string{booking.Date}
	if currentDate != booking.Date {
		if currentDate < booking.Date {
			dates = []string{currentDate, booking.Date}
		} else {
			dates = []string{booking.Date, currentDate}
		}
	}
	for _, d := range dates {
		if err := lockRoomDate(ctx, tx, booking.RoomID, d); err != nil {
			return fmt.Errorf("failed to lock room/date: %w", err)
		}
	}

	existing, err := listForRoomDate(ctx, tx, booking.RoomID, booking.Date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	others := existing[:0]
	for _, b := range existing {
		if b.ID != booking.ID {
			others = append(others, b)
		}
	}

	if conflict := domain.FirstConflict(candidate, others); conflict != nil {
		span.SetStatus(codes.Error, "time conflict")
		return fmt.Errorf("%w: overlaps booking %s", domain.ErrTimeConflict, conflict.ID)
	}

	err = tx.QueryRow(ctx, `
		UPDATE bookings
		SET date = $2, start_time = $3, end_time = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`,
		booking.ID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit booking update: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes a booking
func (r *PostgresBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.delete")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func listForRoomDate(ctx context.Context, tx pgx.Tx, roomID int64, date string) ([]*domain.Booking, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE room_id = $1 AND date = $2
		ORDER BY start_time
	`, roomID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for room/date: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID,
		&b.Username,
		&b.RoomID,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func collectBookings(rows pgx.Rows) ([]*domain.Booking, error) {
	bookings := []*domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}
	return bookings, nil
}
