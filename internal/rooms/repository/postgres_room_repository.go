package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/HusseinMoukalled/meetingroom/internal/rooms/domain"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

const roomColumns = `id, name, capacity, equipment, location, is_available, created_at, updated_at`

// PostgresRoomRepository implements RoomRepository using PostgreSQL with pgxpool.
type PostgresRoomRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoomRepository creates a new PostgresRoomRepository
func NewPostgresRoomRepository(pool *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{pool: pool}
}

// Create inserts a room and fills in its generated ID.
func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.create")
	defer span.End()

	span.SetAttributes(attribute.String("name", room.Name))

	err := r.pool.QueryRow(ctx, `
		INSERT INTO rooms (name, capacity, equipment, location, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, room.Name, room.Capacity, room.Equipment, room.Location, room.IsAvailable).
		Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create room: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID loads a room by ID.
func (r *PostgresRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	row := r.pool.QueryRow(ctx, `
		SELECT `+roomColumns+` FROM rooms WHERE id = $1
	`, id)

	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return room, nil
}

// ListAvailable returns available rooms matching the filter, ordered by ID.
func (r *PostgresRoomRepository) ListAvailable(ctx context.Context, filter Filter) ([]*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.list_available")
	defer span.End()

	conditions := []string{"is_available = TRUE"}
	args := []interface{}{}

	if filter.MinCapacity > 0 {
		args = append(args, filter.MinCapacity)
		conditions = append(conditions, fmt.Sprintf("capacity >= $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if len(filter.Equipment) > 0 {
		args = append(args, filter.Equipment)
		conditions = append(conditions, fmt.Sprintf("equipment @> $%d", len(args)))
	}

	query := `SELECT ` + roomColumns + ` FROM rooms WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rooms: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return rooms, nil
}

// Update persists mutable room fields.
func (r *PostgresRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", room.ID))

	tag, err := r.pool.Exec(ctx, `
		UPDATE rooms
		SET name = $2, capacity = $3, equipment = $4, location = $5, is_available = $6, updated_at = NOW()
		WHERE id = $1
	`, room.ID, room.Name, room.Capacity, room.Equipment, room.Location, room.IsAvailable)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes a room by ID.
func (r *PostgresRoomRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	err := row.Scan(&room.ID, &room.Name, &room.Capacity, &room.Equipment,
		&room.Location, &room.IsAvailable, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &room, nil
}
