// Package handlers validates ready slot states, dispatches them to the
// booking API, formats the outcome, and decides the post-dispatch reset
// policy per intent.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Basemism/booking-agent/booking"
	"github.com/Basemism/booking-agent/session"
	"github.com/Basemism/booking-agent/types"
)

// Result is one handled intent: the short ack label recorded in history
// (empty if none), the body shown to the user, and the post-dispatch action.
type Result struct {
	Ack    string
	Body   string
	Action Action
}

// Router maps the closed intent enum onto handler implementations.
type Router struct {
	api booking.API
}

func NewRouter(api booking.API) *Router {
	return &Router{api: api}
}

// Dispatch runs the handler for intent. The second return is false when the
// intent is unknown; the turn driver then resets and apologizes.
func (r *Router) Dispatch(ctx context.Context, intent types.Intent, sess *session.Context) (Result, bool) {
	switch intent {
	case types.IntentCheckAvailability:
		return r.checkAvailability(ctx, sess), true
	case types.IntentCreateBooking:
		return r.createBooking(ctx, sess), true
	case types.IntentGetBooking:
		return r.getBooking(ctx, sess), true
	case types.IntentUpdateBooking:
		return r.updateBooking(ctx, sess), true
	case types.IntentCancelBooking:
		return r.cancelBooking(ctx, sess), true
	default:
		return Result{}, false
	}
}

// apiFailure is the single place that distinguishes a failed collaborator
// call from a successful one. The context resets unless the caller opted
// out, which update_booking does so the user can correct and retry.
func apiFailure(err error, resetOnError bool) Result {
	body := err.Error()
	var apiErr *booking.APIError
	if errors.As(err, &apiErr) {
		body = apiErr.Reason
		if apiErr.Details != nil {
			body += "\nDetails: " + formatDetails(apiErr.Details)
		}
	}
	action := Action{Kind: ActionReset}
	if !resetOnError {
		action = Action{Kind: ActionNone}
	}
	return Result{Ack: "API Error", Body: body, Action: action}
}

// checkAvailability trusts the state manager's ready signal for VisitDate
// and PartySize; availability checks are one-shot, so the context resets on
// every outcome.
func (r *Router) checkAvailability(ctx context.Context, sess *session.Context) Result {
	avail, err := r.api.CheckAvailability(ctx, sess.State.VisitDate, sess.State.PartySize.String())
	if err != nil {
		return apiFailure(err, true)
	}

	var open, full []string
	for _, slot := range avail.AvailableSlots {
		if slot.Available {
			open = append(open, slot.Time)
		} else {
			full = append(full, slot.Time)
		}
	}
	var parts []string
	if len(open) > 0 {
		parts = append(parts, fmt.Sprintf("On %s, we have tables for %d available at: %s.",
			avail.VisitDate, avail.PartySize, strings.Join(open, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("Sorry, there are no available slots for %d on %s.",
			avail.PartySize, avail.VisitDate))
	}
	if len(full) > 0 {
		parts = append(parts, fmt.Sprintf("The following times are fully booked: %s.", strings.Join(full, ", ")))
	}
	return Result{Body: strings.Join(parts, "\n"), Action: Action{Kind: ActionReset}}
}

func (r *Router) createBooking(ctx context.Context, sess *session.Context) Result {
	st := sess.State
	required := []struct {
		key   string
		value string
	}{
		{"VisitDate", st.VisitDate},
		{"VisitTime", st.VisitTime},
		{"PartySize", st.PartySize.String()},
		{"FirstName", st.FirstName},
		{"Surname", st.Surname},
		{"Email", st.Email},
	}
	var missing []string
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.key)
		}
	}
	if len(missing) > 0 {
		return Result{
			Ack:    "Missing fields",
			Body:   "Missing required fields: " + strings.Join(missing, ", ") + ". Please provide those to proceed.",
			Action: Action{Kind: ActionNone},
		}
	}

	partySize, verr := validatePartySize(st.PartySize.String())
	if verr != nil {
		return verr.result()
	}
	visitDate, verr := validateDate(st.VisitDate)
	if verr != nil {
		return verr.result()
	}
	visitTime, verr := validateTime(st.VisitTime)
	if verr != nil {
		return verr.result()
	}
	email, verr := validateEmail(st.Email)
	if verr != nil {
		return verr.result()
	}

	payload := url.Values{}
	payload.Set("VisitDate", visitDate)
	payload.Set("VisitTime", visitTime)
	payload.Set("PartySize", strconv.Itoa(partySize))
	payload.Set("ChannelCode", "ONLINE")
	payload.Set("Customer[FirstName]", strings.TrimSpace(st.FirstName))
	payload.Set("Customer[Surname]", strings.TrimSpace(st.Surname))
	payload.Set("Customer[Email]", email)
	if sr := strings.TrimSpace(st.SpecialRequests); sr != "" {
		payload.Set("SpecialRequests", sr)
	}
	if mobile := strings.TrimSpace(st.Mobile); mobile != "" {
		payload.Set("Mobile", mobile)
	}

	confirmed, err := r.api.CreateBooking(ctx, payload)
	if err != nil {
		// booking attempts are one-shot per context
		return apiFailure(err, true)
	}

	lines := append([]string{"Your reservation is confirmed!"}, bookingHeader(confirmed)...)
	lines = append(lines, "Status: "+confirmed.Status)
	return Result{
		Ack:    "I've created your booking.",
		Body:   strings.Join(lines, "\n"),
		Action: Action{Kind: ActionReset},
	}
}

func (r *Router) getBooking(ctx context.Context, sess *session.Context) Result {
	b, err := r.api.GetBooking(ctx, sess.State.BookingRef)
	if err != nil {
		return apiFailure(err, true)
	}
	lines := append([]string{"Here are your booking details:"}, bookingHeader(b)...)
	lines = append(lines, "Status: "+b.Status)
	if b.CancellationReason != "" {
		lines = append(lines, "Cancellation Reason: "+b.CancellationReason)
	}
	return Result{Body: strings.Join(lines, "\n"), Action: Action{Kind: ActionReset}}
}

func (r *Router) updateBooking(ctx context.Context, sess *session.Context) Result {
	st := sess.State
	ref := strings.TrimSpace(st.BookingRef)
	if ref == "" {
		return Result{
			Ack:    "Missing booking reference",
			Body:   "Please provide your booking reference to update your reservation.",
			Action: Action{Kind: ActionNone},
		}
	}

	// each candidate field is validated only if present; absent fields are
	// simply omitted from the update set
	updates := url.Values{}
	if st.VisitDate != "" {
		visitDate, verr := validateDate(st.VisitDate)
		if verr != nil {
			return verr.result()
		}
		updates.Set("VisitDate", visitDate)
	}
	if st.VisitTime != "" {
		visitTime, verr := validateTime(st.VisitTime)
		if verr != nil {
			return verr.result()
		}
		updates.Set("VisitTime", visitTime)
	}
	if st.PartySize.String() != "" {
		partySize, verr := validatePartySize(st.PartySize.String())
		if verr != nil {
			return verr.result()
		}
		updates.Set("PartySize", strconv.Itoa(partySize))
	}
	if st.SpecialRequests != "" {
		sr, verr := validateSpecialRequests(st.SpecialRequests)
		if verr != nil {
			return verr.result()
		}
		if sr != "" {
			updates.Set("SpecialRequests", sr)
		}
	}
	if len(updates) == 0 {
		return Result{
			Ack:    "No changes detected",
			Body:   "Tell me what you'd like to change (date, time, party size, or special requests).",
			Action: Action{Kind: ActionNone},
		}
	}

	updated, err := r.api.UpdateBooking(ctx, ref, updates)
	if err != nil {
		// leave the context alone so the user can correct and retry
		return apiFailure(err, false)
	}

	parts := []string{fmt.Sprintf("Your booking %s at %s has been updated.", updated.BookingReference, updated.Restaurant)}
	if len(updated.Updates) > 0 {
		parts = append(parts, fmt.Sprintf("Updated details: %s.", formatUpdates(updated.Updates)))
	}
	if updated.Message != "" {
		parts = append(parts, updated.Message)
	}
	return Result{
		Ack:    "I've updated your booking.",
		Body:   strings.Join(parts, "\n"),
		Action: Action{Kind: ActionChainUpdate},
	}
}

// cancelBooking trusts the ready signal for BookingRef and
// CancellationReasonId.
func (r *Router) cancelBooking(ctx context.Context, sess *session.Context) Result {
	cancelled, err := r.api.CancelBooking(ctx, sess.State.BookingRef, sess.State.CancellationReasonID.String())
	if err != nil {
		return apiFailure(err, true)
	}
	body := fmt.Sprintf("Your booking %s at %s has been cancelled due to '%s'.\n%s",
		cancelled.BookingReference, cancelled.Restaurant, cancelled.CancellationReason, cancelled.Message)
	return Result{Body: body, Action: Action{Kind: ActionReset}}
}
