// Package parser is the language-model collaborator that merges each user
// message into the slot state and decides when the state is ready to
// dispatch.
package parser

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/Basemism/booking-agent/types"
)

// TurnPlan is the state manager's verdict for one turn: the full merged
// slot state and the advisory message to show while still collecting.
type TurnPlan struct {
	UpdatedState types.SlotState `json:"updated_state" jsonschema:"required,description=The full merged booking state after interpreting the latest user message"`
	NextMessage  string          `json:"next_message" jsonschema:"required,description=What the assistant should say next: a follow-up question or a neutral ready confirmation"`
}

// StateManager produces a TurnPlan from the conversation so far. The
// returned state is expected to carry forward every previously known field
// unless the latest message overrides it, with dates, times and party size
// already normalized to their canonical forms.
type StateManager interface {
	NextTurn(ctx context.Context, history []*schema.Message, current types.SlotState) (*TurnPlan, error)
}
