package handlers

import (
	"github.com/Basemism/booking-agent/session"
	"github.com/Basemism/booking-agent/types"
)

// ActionKind is the post-dispatch effect on the conversation context.
// Handlers return data, not closures, so the reset policy stays inspectable
// in tests and logs.
type ActionKind string

const (
	// ActionNone leaves the context untouched.
	ActionNone ActionKind = "none"
	// ActionReset restores the default state and clears history.
	ActionReset ActionKind = "reset"
	// ActionSoftReset resets but reapplies the named keys.
	ActionSoftReset ActionKind = "soft_reset"
	// ActionChainUpdate soft-resets preserving BookingRef, records a
	// synthetic assistant turn, and re-arms the update intent so the user
	// can chain another change without restating the reference.
	ActionChainUpdate ActionKind = "chain_update"
)

type Action struct {
	Kind         ActionKind
	PreserveKeys []string
}

const chainedUpdateNote = "I've updated your booking."

// Apply mutates the conversation context according to the action kind.
func (a Action) Apply(sess *session.Context) error {
	switch a.Kind {
	case ActionReset:
		sess.Reset()
	case ActionSoftReset:
		return sess.SoftReset(a.PreserveKeys...)
	case ActionChainUpdate:
		if err := sess.SoftReset("BookingRef"); err != nil {
			return err
		}
		sess.AppendAssistant(chainedUpdateNote)
		sess.State.Intent = types.IntentUpdateBooking
	}
	return nil
}
