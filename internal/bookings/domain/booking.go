package domain

import "time"

// Booking represents a single room reservation for one calendar day.
// Date is "YYYY-MM-DD"; StartTime and EndTime are "HH:MM" wall-clock
// strings forming the half-open interval [StartTime, EndTime).
type Booking struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	RoomID    int64     `json:"room_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Interval converts the booking's time range to minutes since midnight.
func (b *Booking) Interval() (Interval, error) {
	return NewInterval(b.StartTime, b.EndTime)
}

// Validate checks the booking's time fields.
func (b *Booking) Validate() error {
	if err := ParseDate(b.Date); err != nil {
		return err
	}
	_, err := b.Interval()
	return err
}
