package types

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// slotKeys fixes the display order of the slot table in prompts.
var slotKeys = []string{
	"intent",
	"VisitDate",
	"VisitTime",
	"PartySize",
	"FirstName",
	"Surname",
	"Email",
	"Mobile",
	"BookingRef",
	"LastBookingRef",
	"CancellationReasonId",
	"SpecialRequests",
	"status",
}

// FormatSlotTable renders the state as a markdown table for the
// state-manager prompt. Unset slots render as empty cells so the model can
// see which fields are still missing.
func FormatSlotTable(state SlotState) (string, error) {
	raw, err := sonic.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("marshal slot state: %w", err)
	}
	var m map[string]any
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return "", fmt.Errorf("unmarshal slot state: %w", err)
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Slot", "Value")
	for _, key := range slotKeys {
		value := ""
		if v, ok := m[key]; ok && v != nil {
			value = fmt.Sprintf("%v", v)
		}
		if err := table.Append(key, value); err != nil {
			return "", fmt.Errorf("append slot row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("render slot table: %w", err)
	}
	return buf.String(), nil
}

// SlotStateSchema reflects the SlotState JSON schema for embedding in the
// state-manager system prompt.
func SlotStateSchema() (string, error) {
	s := jsonschema.Reflect(&SlotState{})
	s.Title = "BookingSlotState"
	s.Description = "Structured restaurant-booking slot state carried across conversation turns."
	out, err := sonic.MarshalString(s)
	if err != nil {
		return "", fmt.Errorf("marshal slot state schema: %w", err)
	}
	return out, nil
}
