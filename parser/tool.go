package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/Basemism/booking-agent/types"
)

const (
	updateStateToolName = "update_booking_state"
	updateStateToolDesc = "Merge the latest user message into the booking slot state and produce the assistant's next message."
)

const stateManagerSystemPrompt = `You are a restaurant booking assistant's state manager. You maintain a structured booking state across conversation turns.

STRICT RULES:
- ALWAYS preserve previously-known fields unless the user explicitly changes them.
- Convert relative dates ("tomorrow", "next Friday") to absolute YYYY-MM-DD using today's date.
- Convert 12-hour times ("2pm") to 24-hour HH:MM:SS.
- Convert party size words or phrases ("four", "for 4") to an integer (4).
- For update flows: when the user requests a change, OVERWRITE the existing field with the normalized value. If the user says "no" or "that's all" after a change, set status to "ready" and proceed even without new fields.
- Only ask for fields that are still missing; never re-ask for fields already present, and never prompt for optional fields.
- If all required fields for the current intent are present, set status to "ready" and write a short, neutral confirmation in next_message stating you are ready to proceed. Do NOT claim the action was performed or mention any outcome; downstream systems handle that.
- If something is missing, keep status "collecting" and ask ONE concise question in next_message.

Intents and required fields:
  check_availability -> VisitDate, PartySize
  create_booking     -> VisitDate, VisitTime, PartySize, FirstName, Surname, Email (optional: SpecialRequests, Mobile)
  get_booking        -> BookingRef
  update_booking     -> BookingRef and at least one of: VisitDate, VisitTime, PartySize, SpecialRequests
  cancel_booking     -> BookingRef, CancellationReasonId

CancellationReasonId catalogue:
  1: Customer Request
  2: Restaurant Closure
  3: Weather
  4: Emergency
  5: No Show

The updated state must conform to this JSON schema:
%s

Call the '%s' tool with the merged state and the next message.`

// ToolBasedStateManager forces the chat model onto a single tool whose
// arguments are the TurnPlan, then decodes them with sonic.
type ToolBasedStateManager struct {
	chatModel model.ToolCallingChatModel
	toolInfo  *schema.ToolInfo
	system    string
	now       func() time.Time
}

type Option func(*ToolBasedStateManager)

// WithClock overrides the clock used for "today's date" in the prompt.
func WithClock(now func() time.Time) Option {
	return func(m *ToolBasedStateManager) {
		m.now = now
	}
}

func NewToolBasedStateManager(chatModel model.ToolCallingChatModel, opts ...Option) (*ToolBasedStateManager, error) {
	toolInfo, err := utils.GoStruct2ToolInfo[TurnPlan](updateStateToolName, updateStateToolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	stateSchema, err := types.SlotStateSchema()
	if err != nil {
		return nil, fmt.Errorf("reflect slot state schema: %w", err)
	}
	m := &ToolBasedStateManager{
		chatModel: chatModel,
		toolInfo:  toolInfo,
		system:    fmt.Sprintf(stateManagerSystemPrompt, stateSchema, updateStateToolName),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

func (m *ToolBasedStateManager) NextTurn(ctx context.Context, history []*schema.Message, current types.SlotState) (*TurnPlan, error) {
	messages, err := m.buildPrompt(history, current)
	if err != nil {
		return nil, fmt.Errorf("build state manager prompt: %w", err)
	}

	response, err := m.chatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{m.toolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, m.toolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}

	raw := ""
	if len(response.ToolCalls) > 0 {
		raw = response.ToolCalls[0].Function.Arguments
	} else {
		// some models ignore the forced tool and answer in plain text,
		// often wrapping the JSON in markdown fences
		extracted, ok := extractJSON(response.Content)
		if !ok {
			return nil, fmt.Errorf("no tool call or JSON object in model response: %s", response.Content)
		}
		raw = extracted
	}

	var plan TurnPlan
	if err := sonic.UnmarshalString(raw, &plan); err != nil {
		return nil, fmt.Errorf("parse turn plan: %w", err)
	}
	return &plan, nil
}

func (m *ToolBasedStateManager) buildPrompt(history []*schema.Message, current types.SlotState) ([]*schema.Message, error) {
	table, err := types.FormatSlotTable(current)
	if err != nil {
		return nil, err
	}
	today := m.now()
	sections := []string{
		fmt.Sprintf("# Today's date:\n%s (%s)", today.Format("2006-01-02"), today.Weekday()),
		"# Current state:\n" + table,
		"# Conversation so far:\n" + formatHistory(history),
	}
	return []*schema.Message{
		schema.SystemMessage(m.system),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}, nil
}

func formatHistory(history []*schema.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		if msg == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
	}
	out := strings.TrimRight(sb.String(), "\n")
	if out == "" {
		return "(empty)"
	}
	return out
}
