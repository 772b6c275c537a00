// Package agent drives one conversation turn: feed the history and slot
// state to the state manager, merge the verdict, and dispatch ready intents
// to their handlers.
package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Basemism/booking-agent/handlers"
	"github.com/Basemism/booking-agent/parser"
	"github.com/Basemism/booking-agent/session"
	"github.com/Basemism/booking-agent/types"
)

const (
	// FallbackMessage is shown when the state manager's reply cannot be
	// parsed or fails schema validation; the state is left unchanged.
	FallbackMessage = "Sorry, I couldn't parse that. Could you rephrase?"
	// UnknownIntentMessage is shown when a ready state carries an intent
	// the router does not know; the context is fully reset.
	UnknownIntentMessage = "Sorry, I didn't understand that action."
)

// Response is the single assistant message for one turn.
type Response struct {
	Message string
	State   types.SlotState
	Acted   bool
	Ack     string
}

type Agent struct {
	planner  parser.StateManager
	router   *handlers.Router
	sessions *session.Store
	trimmer  session.Trimmer
}

type Option func(*Agent)

// WithTrimmer narrows the history view handed to the state manager.
func WithTrimmer(t session.Trimmer) Option {
	return func(a *Agent) {
		a.trimmer = t
	}
}

func New(planner parser.StateManager, router *handlers.Router, sessions *session.Store, opts ...Option) *Agent {
	a := &Agent{
		planner:  planner,
		router:   router,
		sessions: sessions,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Invoke handles one user utterance and returns the assistant's reply.
// Collecting turns surface the state manager's advisory message; ready
// turns suppress it, run the matching handler, apply its action, and record
// the ack in history so the next turn's state manager sees that an action
// occurred.
func (a *Agent) Invoke(ctx context.Context, input string) (*Response, error) {
	sess, err := a.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	sess.AppendUser(input)

	view := sess.History
	if a.trimmer != nil {
		view = a.trimmer.Trim(view)
	}
	plan, planErr := a.planner.NextTurn(ctx, view, sess.State)
	if planErr != nil || plan == nil || !plan.UpdatedState.Status.Valid() {
		slog.Debug("state manager reply rejected", "err", planErr)
		if err := a.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
		return &Response{Message: FallbackMessage, State: sess.State}, nil
	}

	// the collaborator returns the full merged state; it replaces ours
	sess.State = plan.UpdatedState
	slog.Debug("merged turn plan", "status", sess.State.Status, "intent", sess.State.Intent)

	if sess.State.Status != types.StatusReady {
		if err := a.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
		return &Response{Message: strings.TrimSpace(plan.NextMessage), State: sess.State}, nil
	}

	intent := sess.State.Intent
	result, ok := a.router.Dispatch(ctx, intent, sess)
	if !ok {
		slog.Info("unknown intent in ready state", "intent", intent)
		sess.Reset()
		if err := a.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
		return &Response{Message: UnknownIntentMessage, State: sess.State}, nil
	}
	slog.Info("dispatched intent", "intent", intent, "action", result.Action.Kind, "ack", result.Ack)

	if err := result.Action.Apply(sess); err != nil {
		return nil, err
	}
	if result.Ack != "" {
		sess.AppendAssistant(result.Ack)
	}
	if err := a.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &Response{Message: result.Body, State: sess.State, Acted: true, Ack: result.Ack}, nil
}
