// Package session owns the per-conversation state: the slot mapping and the
// ordered message history, plus the reset policies applied after dispatch.
package session

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/Basemism/booking-agent/types"
)

// Context holds exactly one slot state and one ordered message history.
// History is append-only except on reset. No other component keeps a copy;
// the turn driver mutates the context in place.
type Context struct {
	State   types.SlotState
	History []*schema.Message
}

func New() *Context {
	return &Context{State: types.NewSlotState()}
}

func (c *Context) AppendUser(content string) {
	c.History = append(c.History, schema.UserMessage(content))
}

func (c *Context) AppendAssistant(content string) {
	c.History = append(c.History, schema.AssistantMessage(content, nil))
}

// Reset replaces the slot state with the default and clears the history.
func (c *Context) Reset() {
	c.State = types.NewSlotState()
	c.History = nil
}

// SoftReset captures the current JSON values of the named slot keys,
// performs a full reset, then reapplies the captured values as an RFC 7386
// merge patch over the default state. Keys the current state does not carry
// are skipped.
func (c *Context) SoftReset(preserveKeys ...string) error {
	raw, err := sonic.Marshal(c.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	var current map[string]any
	if err := sonic.Unmarshal(raw, &current); err != nil {
		return fmt.Errorf("unmarshal state: %w", err)
	}
	preserved := make(map[string]any, len(preserveKeys))
	for _, key := range preserveKeys {
		if v, ok := current[key]; ok && v != nil {
			preserved[key] = v
		}
	}

	c.Reset()
	if len(preserved) == 0 {
		return nil
	}

	base, err := sonic.Marshal(c.State)
	if err != nil {
		return fmt.Errorf("marshal default state: %w", err)
	}
	patch, err := sonic.Marshal(preserved)
	if err != nil {
		return fmt.Errorf("marshal preserved keys: %w", err)
	}
	merged, err := jsonpatch.MergePatch(base, patch)
	if err != nil {
		return fmt.Errorf("apply merge patch: %w", err)
	}
	if err := sonic.Unmarshal(merged, &c.State); err != nil {
		return fmt.Errorf("unmarshal merged state: %w", err)
	}
	return nil
}
