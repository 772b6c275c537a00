package booking

import "fmt"

// Slot is a single availability slot returned by the search endpoint.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type Availability struct {
	VisitDate      string `json:"visit_date"`
	PartySize      int    `json:"party_size"`
	AvailableSlots []Slot `json:"available_slots"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
}

// Booking covers both the create confirmation and the lookup result; the
// cancellation reason is only populated on lookups of cancelled bookings.
type Booking struct {
	BookingReference   string   `json:"booking_reference"`
	Restaurant         string   `json:"restaurant"`
	VisitDate          string   `json:"visit_date"`
	VisitTime          string   `json:"visit_time"`
	PartySize          int      `json:"party_size"`
	Status             string   `json:"status"`
	Customer           Customer `json:"customer"`
	SpecialRequests    string   `json:"special_requests,omitempty"`
	CancellationReason string   `json:"cancellation_reason,omitempty"`
}

type UpdateResult struct {
	BookingReference string         `json:"booking_reference"`
	Restaurant       string         `json:"restaurant"`
	Status           string         `json:"status"`
	Updates          map[string]any `json:"updates"`
	Message          string         `json:"message"`
}

type CancelResult struct {
	BookingReference   string `json:"booking_reference"`
	Restaurant         string `json:"restaurant"`
	CancellationReason string `json:"cancellation_reason"`
	Status             string `json:"status"`
	Message            string `json:"message"`
}

// APIError is a non-success outcome from the booking API: the mapped
// human-readable reason, the transport status code, and the raw error
// payload when the body parsed as JSON.
type APIError struct {
	Reason     string `json:"error"`
	StatusCode int    `json:"status_code"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Reason, e.StatusCode)
}
