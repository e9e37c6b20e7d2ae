// Package client implements the bookings service lookup used for user
// booking history.
package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/HusseinMoukalled/meetingroom/internal/users/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/users/service"
	"github.com/HusseinMoukalled/meetingroom/pkg/httpclient"
)

// BookingsClient fetches booking history from the bookings service.
type BookingsClient struct {
	http *httpclient.Client
}

// NewBookingsClient creates a bookings history client.
func NewBookingsClient(http *httpclient.Client) *BookingsClient {
	return &BookingsClient{http: http}
}

type historyPayload struct {
	Data []service.HistoryEntry `json:"data"`
}

// HistoryForUser returns the user's bookings, forwarding the caller's
// Authorization header so the bookings service applies its own
// ownership checks.
func (c *BookingsClient) HistoryForUser(ctx context.Context, username, authorization string) ([]service.HistoryEntry, error) {
	res, err := c.http.GetWithAuth(ctx, "/bookings/user/"+username, authorization)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	switch res.StatusCode {
	case http.StatusOK:
		var payload historyPayload
		if err := res.Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: bad history payload: %v", domain.ErrServiceUnavailable, err)
		}
		return payload.Data, nil
	case http.StatusForbidden:
		return nil, domain.ErrForbidden
	default:
		return nil, fmt.Errorf("%w: bookings service returned status %d", domain.ErrServiceUnavailable, res.StatusCode)
	}
}
