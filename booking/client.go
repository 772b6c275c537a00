// Package booking is the client for the remote restaurant booking API. The
// API speaks form-encoded requests with Bearer auth and JSON responses.
package booking

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
)

// API is the set of booking operations, one per intent.
type API interface {
	CheckAvailability(ctx context.Context, visitDate, partySize string) (*Availability, error)
	CreateBooking(ctx context.Context, payload url.Values) (*Booking, error)
	GetBooking(ctx context.Context, ref string) (*Booking, error)
	UpdateBooking(ctx context.Context, ref string, updates url.Values) (*UpdateResult, error)
	CancelBooking(ctx context.Context, ref, reasonID string) (*CancelResult, error)
}

const channelCode = "ONLINE"

type Config struct {
	BaseURL    string
	Restaurant string
	Token      string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	restaurant string
	token      string
	hc         *http.Client
}

var _ API = (*Client)(nil)

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		restaurant: cfg.Restaurant,
		token:      cfg.Token,
		hc:         hc,
	}
}

func (c *Client) CheckAvailability(ctx context.Context, visitDate, partySize string) (*Availability, error) {
	form := url.Values{}
	form.Set("VisitDate", visitDate)
	form.Set("PartySize", partySize)
	form.Set("ChannelCode", channelCode)
	var out Availability
	if err := c.do(ctx, http.MethodPost, "/AvailabilitySearch", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, payload url.Values) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodPost, "/BookingWithStripeToken", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBooking(ctx context.Context, ref string) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodGet, "/Booking/"+url.PathEscape(ref), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBooking(ctx context.Context, ref string, updates url.Values) (*UpdateResult, error) {
	var out UpdateResult
	if err := c.do(ctx, http.MethodPatch, "/Booking/"+url.PathEscape(ref), updates, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelBooking(ctx context.Context, ref, reasonID string) (*CancelResult, error) {
	form := url.Values{}
	form.Set("micrositeName", c.restaurant)
	form.Set("bookingReference", ref)
	form.Set("cancellationReasonId", reasonID)
	var out CancelResult
	if err := c.do(ctx, http.MethodPost, "/Booking/"+url.PathEscape(ref)+"/Cancel", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/api/ConsumerApi/v1/Restaurant/%s%s", c.baseURL, url.PathEscape(c.restaurant), path)
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	return decodeResponse(resp.StatusCode, raw, out)
}

// decodeResponse maps the transport outcome onto the result type or an
// *APIError. Any body that fails to parse as JSON, success or not, yields
// an "Invalid response" error carrying the raw text.
func decodeResponse(status int, raw []byte, out any) error {
	if status == http.StatusOK {
		if err := sonic.Unmarshal(raw, out); err != nil {
			return &APIError{Reason: "Invalid response: " + string(raw), StatusCode: status}
		}
		return nil
	}
	var details any
	if err := sonic.Unmarshal(raw, &details); err != nil {
		return &APIError{Reason: "Invalid response: " + string(raw), StatusCode: status}
	}
	return &APIError{Reason: reasonForStatus(status), StatusCode: status, Details: details}
}

func reasonForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad Request: Invalid parameters or business rule violation"
	case http.StatusUnauthorized:
		return "Unauthorized: Missing or invalid token"
	case http.StatusNotFound:
		return "Not Found: Restaurant or booking not found"
	case http.StatusUnprocessableEntity:
		return "Unprocessable Entity: Validation errors"
	default:
		return fmt.Sprintf("Unexpected error (status %d)", status)
	}
}
