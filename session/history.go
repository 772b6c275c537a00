package session

import "github.com/cloudwego/eino/schema"

// Trimmer narrows the history view handed to the state manager. Storage
// always keeps the full history; only the prompt view shrinks.
type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

// KeepLastNTrimmer keeps the last N messages. When N <= 0 nothing is kept.
type KeepLastNTrimmer struct {
	N int
}

func (t KeepLastNTrimmer) Trim(history []*schema.Message) []*schema.Message {
	if t.N <= 0 {
		return nil
	}
	out := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		if m != nil {
			out = append(out, m)
		}
	}
	if len(out) <= t.N {
		return out
	}
	return out[len(out)-t.N:]
}
