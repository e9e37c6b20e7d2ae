// Package client implements the user and room directory lookups the
// review workflow performs against the other services.
package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/HusseinMoukalled/meetingroom/internal/reviews/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/reviews/service"
	"github.com/HusseinMoukalled/meetingroom/pkg/httpclient"
)

// UsersClient resolves usernames against the users service.
type UsersClient struct {
	http *httpclient.Client
}

// NewUsersClient creates a users directory client.
func NewUsersClient(http *httpclient.Client) *UsersClient {
	return &UsersClient{http: http}
}

// UserExists reports whether the username is registered.
func (c *UsersClient) UserExists(ctx context.Context, username string) (bool, error) {
	res, err := c.http.Get(ctx, "/users/"+username)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: users service returned status %d", domain.ErrServiceUnavailable, res.StatusCode)
	}
}

// RoomsClient resolves room IDs against the rooms service.
type RoomsClient struct {
	http *httpclient.Client
}

// NewRoomsClient creates a rooms directory client.
func NewRoomsClient(http *httpclient.Client) *RoomsClient {
	return &RoomsClient{http: http}
}

type roomStatusPayload struct {
	Data struct {
		RoomID      int64 `json:"room_id"`
		IsAvailable bool  `json:"is_available"`
	} `json:"data"`
}

// RoomStatus returns existence and availability of the room.
func (c *RoomsClient) RoomStatus(ctx context.Context, roomID int64) (*service.RoomStatus, error) {
	res, err := c.http.Get(ctx, fmt.Sprintf("/rooms/status/%d", roomID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	switch res.StatusCode {
	case http.StatusOK:
		var payload roomStatusPayload
		if err := res.Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: bad room status payload: %v", domain.ErrServiceUnavailable, err)
		}
		return &service.RoomStatus{Exists: true, IsAvailable: payload.Data.IsAvailable}, nil
	case http.StatusNotFound:
		return &service.RoomStatus{Exists: false}, nil
	default:
		return nil, fmt.Errorf("%w: rooms service returned status %d", domain.ErrServiceUnavailable, res.StatusCode)
	}
}
