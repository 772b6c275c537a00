package types

import (
	"strings"

	"github.com/bytedance/sonic"
)

type Intent string

const (
	IntentCheckAvailability Intent = "check_availability"
	IntentCreateBooking     Intent = "create_booking"
	IntentGetBooking        Intent = "get_booking"
	IntentUpdateBooking     Intent = "update_booking"
	IntentCancelBooking     Intent = "cancel_booking"
)

// Intents lists every intent the router can dispatch.
var Intents = []Intent{
	IntentCheckAvailability,
	IntentCreateBooking,
	IntentGetBooking,
	IntentUpdateBooking,
	IntentCancelBooking,
}

func (i Intent) Known() bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusCollecting Status = "collecting"
	StatusReady      Status = "ready"
)

func (s Status) Valid() bool {
	return s == StatusCollecting || s == StatusReady
}

// FlexString accepts either a JSON string or a JSON number. The upstream
// model is told to return integers for party size and cancellation reason,
// but in practice both encodings show up.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(trimmed)
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(string(f))
}

func (f FlexString) String() string {
	return string(f)
}

// SlotState is the slot mapping accumulated across conversation turns.
// Key casing is wire-significant: the slot names are PascalCase while
// intent and status are lowercase, matching the state-manager prompt.
type SlotState struct {
	Intent               Intent     `json:"intent,omitempty" jsonschema:"description=The action the user wants to perform,enum=check_availability,enum=create_booking,enum=get_booking,enum=update_booking,enum=cancel_booking"`
	VisitDate            string     `json:"VisitDate,omitempty" jsonschema:"description=Visit date in YYYY-MM-DD format"`
	VisitTime            string     `json:"VisitTime,omitempty" jsonschema:"description=Visit time in HH:MM:SS 24-hour format"`
	PartySize            FlexString `json:"PartySize,omitempty" jsonschema:"description=Number of people as a positive integer"`
	FirstName            string     `json:"FirstName,omitempty" jsonschema:"description=Customer first name"`
	Surname              string     `json:"Surname,omitempty" jsonschema:"description=Customer surname"`
	Email                string     `json:"Email,omitempty" jsonschema:"description=Customer email address"`
	Mobile               string     `json:"Mobile,omitempty" jsonschema:"description=Customer mobile number (optional)"`
	BookingRef           string     `json:"BookingRef,omitempty" jsonschema:"description=Booking reference for get/update/cancel flows"`
	LastBookingRef       string     `json:"LastBookingRef,omitempty" jsonschema:"description=Reference of the most recently handled booking"`
	CancellationReasonID FlexString `json:"CancellationReasonId,omitempty" jsonschema:"description=Cancellation reason id (1-5)"`
	SpecialRequests      string     `json:"SpecialRequests,omitempty" jsonschema:"description=Free-text special requests (optional)"`
	Status               Status     `json:"status" jsonschema:"required,description=collecting while slots are missing; ready once the intent can be dispatched,enum=collecting,enum=ready"`
}

// NewSlotState returns the default state: everything empty, status collecting.
func NewSlotState() SlotState {
	return SlotState{Status: StatusCollecting}
}
