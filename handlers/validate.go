package handlers

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValidationCode identifies a local validation failure. These never reach
// the API and never reset conversation state.
type ValidationCode string

const (
	CodeMissingFields           ValidationCode = "MissingFields"
	CodeInvalidPartySize        ValidationCode = "InvalidPartySize"
	CodeInvalidDate             ValidationCode = "InvalidDate"
	CodeInvalidTime             ValidationCode = "InvalidTime"
	CodeInvalidEmail            ValidationCode = "InvalidEmail"
	CodeTooLong                 ValidationCode = "TooLong"
	CodeMissingBookingReference ValidationCode = "MissingBookingReference"
	CodeNoChangesDetected       ValidationCode = "NoChangesDetected"
)

// ValidationError carries the short ack label recorded in history and the
// corrective message shown to the user.
type ValidationError struct {
	Code    ValidationCode
	Ack     string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) result() Result {
	return Result{Ack: e.Ack, Body: e.Message, Action: Action{Kind: ActionNone}}
}

var (
	dateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	shortTime = regexp.MustCompile(`^\d{2}:\d{2}$`)
	canonTime = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

const maxSpecialRequestsLen = 500

// validateDate checks the YYYY-MM-DD pattern. Calendar validity is left to
// the booking API.
func validateDate(raw string) (string, *ValidationError) {
	date := strings.TrimSpace(raw)
	if !dateRe.MatchString(date) {
		return "", &ValidationError{
			Code:    CodeInvalidDate,
			Ack:     "Invalid date",
			Message: "VisitDate must be in YYYY-MM-DD format.",
		}
	}
	return date, nil
}

// validateTime accepts HH:MM (auto-appending :00) or HH:MM:SS; the canonical
// stored form is always HH:MM:SS.
func validateTime(raw string) (string, *ValidationError) {
	t := strings.TrimSpace(raw)
	if shortTime.MatchString(t) {
		t += ":00"
	}
	if !canonTime.MatchString(t) {
		return "", &ValidationError{
			Code:    CodeInvalidTime,
			Ack:     "Invalid time",
			Message: "VisitTime must be HH:MM or HH:MM:SS (24-hour).",
		}
	}
	return t, nil
}

func validatePartySize(raw string) (int, *ValidationError) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, &ValidationError{
			Code:    CodeInvalidPartySize,
			Ack:     "Invalid party size",
			Message: "Party size must be a positive integer (e.g., 2).",
		}
	}
	return n, nil
}

// validateEmail is deliberately permissive: an @ somewhere and a dot after
// the last @.
func validateEmail(raw string) (string, *ValidationError) {
	email := strings.TrimSpace(raw)
	at := strings.LastIndex(email, "@")
	if at < 0 || !strings.Contains(email[at+1:], ".") {
		return "", &ValidationError{
			Code:    CodeInvalidEmail,
			Ack:     "Invalid email",
			Message: "Please provide a valid email address (e.g., name@example.com).",
		}
	}
	return email, nil
}

// validateSpecialRequests returns "" for absent-after-trim input, which
// callers treat as "omit from the payload". The length limit counts
// characters, not bytes.
func validateSpecialRequests(raw string) (string, *ValidationError) {
	sr := strings.TrimSpace(raw)
	if utf8.RuneCountInString(sr) > maxSpecialRequestsLen {
		return "", &ValidationError{
			Code:    CodeTooLong,
			Ack:     "Special requests too long",
			Message: "Please keep special requests under 500 characters.",
		}
	}
	return sr, nil
}
