package petsdk

import (
	"context"
	"net/http"
	"strconv"
)

// Booking endpoints. Booking rules live entirely in the API.

func (c *Client) MyBookings(ctx context.Context) ([]Booking, error) {
	return call[[]Booking](ctx, c.Credentialed(), http.MethodGet, "/bookings/my", nil)
}

func (c *Client) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	out, err := call[Booking](ctx, c.Credentialed(), http.MethodGet, "/bookings/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	out, err := call[Booking](ctx, c.Credentialed(), http.MethodPost, "/bookings", req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelBooking(ctx context.Context, id int64) error {
	return send(ctx, c.Credentialed(), http.MethodPatch, "/bookings/"+strconv.FormatInt(id, 10)+"/cancel", nil)
}
