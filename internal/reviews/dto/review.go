package dto

import (
	"time"

	"github.com/HusseinMoukalled/meetingroom/internal/reviews/domain"
)

// CreateReviewRequest is the body of POST /reviews/create.
type CreateReviewRequest struct {
	Username string `json:"username" binding:"required"`
	RoomID   int64  `json:"room_id" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}

// UpdateReviewRequest is the body of PUT /reviews/:id. Absent fields
// keep their current values.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// FlagReviewRequest is the body of POST /reviews/:id/flag.
type FlagReviewRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReviewResponse is the wire form of a review.
type ReviewResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	RoomID     int64     `json:"room_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	IsFlagged  bool      `json:"is_flagged"`
	FlagReason string    `json:"flag_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Detail string `json:"detail"`
}

// FromDomain converts a domain review to its wire form.
func FromDomain(r *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:         r.ID,
		Username:   r.Username,
		RoomID:     r.RoomID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		IsFlagged:  r.IsFlagged,
		FlagReason: r.FlagReason,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromDomainList converts a slice of domain reviews.
func FromDomainList(reviews []*domain.Review) []*ReviewResponse {
	out := make([]*ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, FromDomain(r))
	}
	return out
}
