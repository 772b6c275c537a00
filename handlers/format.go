package handlers

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/Basemism/booking-agent/booking"
)

// bookingHeader formats the shared booking summary block used by the create
// confirmation and the lookup result.
func bookingHeader(b *booking.Booking) []string {
	email := b.Customer.Email
	if email == "" {
		email = "Not Provided"
	}
	lines := []string{
		"Reference: " + b.BookingReference,
		strings.TrimRight(fmt.Sprintf("Name: %s %s", b.Customer.FirstName, b.Customer.Surname), " "),
		"Email: " + email,
		"Restaurant: " + b.Restaurant,
		"Date: " + b.VisitDate,
		"Time: " + b.VisitTime,
		fmt.Sprintf("Party Size: %d", b.PartySize),
	}
	if b.SpecialRequests != "" {
		lines = append(lines, "Special Requests: "+b.SpecialRequests)
	}
	return lines
}

// formatUpdates renders the API's echoed update set as "Visit date: ...,
// Party size: ...". Keys are sorted for deterministic output.
func formatUpdates(updates map[string]any) string {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", humanizeKey(k), updates[k]))
	}
	return strings.Join(parts, ", ")
}

func humanizeKey(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(first)) + strings.ToLower(s[size:])
}

// formatDetails renders an error payload for the "Details:" line.
func formatDetails(details any) string {
	out, err := sonic.MarshalString(details)
	if err != nil {
		return fmt.Sprintf("%v", details)
	}
	return out
}
