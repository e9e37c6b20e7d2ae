package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/HusseinMoukalled/meetingroom/internal/reviews/domain"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

const reviewColumns = `id, username, room_id, rating, comment, is_flagged, flag_reason, created_at, updated_at`

// PostgresReviewRepository implements ReviewRepository using PostgreSQL with pgxpool.
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReviewRepository creates a new PostgresReviewRepository
func NewPostgresReviewRepository(pool *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{pool: pool}
}

// Create inserts a review and fills in its generated ID.
func (r *PostgresReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.review.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("username", review.Username),
		attribute.Int64("room_id", review.RoomID),
	)

	err := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (username, room_id, rating, comment, is_flagged, flag_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, '', NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, review.Username, review.RoomID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create review: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID loads a review by ID.
func (r *PostgresReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.review.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("review_id", id))

	row := r.pool.QueryRow(ctx, `
		SELECT `+reviewColumns+` FROM reviews WHERE id = $1
	`, id)

	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return review, nil
}

// ListByRoom returns the reviews for a room, newest first.
func (r *PostgresReviewRepository) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.review.list_by_room")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", roomID))

	rows, err := r.pool.Query(ctx, `
		SELECT `+reviewColumns+` FROM reviews WHERE room_id = $1 ORDER BY created_at DESC
	`, roomID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// ListByUsername returns a user's reviews, newest first.
func (r *PostgresReviewRepository) ListByUsername(ctx context.Context, username string) ([]*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.review.list_by_username")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	rows, err := r.pool.Query(ctx, `
		SELECT `+reviewColumns+` FROM reviews WHERE username = $1 ORDER BY created_at DESC
	`, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// Update persists mutable review fields.
func (r *PostgresReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.review.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("review_id", review.ID))

	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews
		SET rating = $2, comment = $3, is_flagged = $4, flag_reason = $5, updated_at = NOW()
		WHERE id = $1
	`, review.ID, review.Rating, review.Comment, review.IsFlagged, review.FlagReason)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes a review by ID.
func (r *PostgresReviewRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.review.delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("review_id", id))

	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	err := row.Scan(&rv.ID, &rv.Username, &rv.RoomID, &rv.Rating, &rv.Comment,
		&rv.IsFlagged, &rv.FlagReason, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func collectReviews(rows pgx.Rows) ([]*domain.Review, error) {
	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}
	return reviews, nil
}
