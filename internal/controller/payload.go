package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ReportPayload is the report body. Clients send either the positional form
// ["text", timestamp] or {"text": ..., "timestamp": ...}. The timestamp is
// kept for logging only; the server clock decides SubmittedAt.
type ReportPayload struct {
	Text            string          `json:"text"`
	ClientTimestamp json.RawMessage `json:"timestamp,omitempty" swaggertype:"string"`
}

func (p *ReportPayload) UnmarshalJSON(data []byte) error {
	if isArray(data) {
		var parts []json.RawMessage
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		if len(parts) < 1 || len(parts) > 2 {
			return fmt.Errorf("report tuple needs [text, timestamp], got %d items", len(parts))
		}
		if err := json.Unmarshal(parts[0], &p.Text); err != nil {
			return fmt.Errorf("report text: %w", err)
		}
		if len(parts) == 2 {
			p.ClientTimestamp = parts[1]
		}
		return nil
	}
	type plain ReportPayload
	return json.Unmarshal(data, (*plain)(p))
}

// CommentPayload is a decision comment, positional [text, timestamp, actorName]
// or an object with the same fields.
type CommentPayload struct {
	Text            string          `json:"text"`
	ClientTimestamp json.RawMessage `json:"timestamp,omitempty" swaggertype:"string"`
	ActorName       string          `json:"actorName"`
}

func (p *CommentPayload) UnmarshalJSON(data []byte) error {
	if isArray(data) {
		var parts []json.RawMessage
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		if len(parts) > 3 {
			return fmt.Errorf("comment tuple has %d items, want at most 3", len(parts))
		}
		if len(parts) > 0 {
			if err := json.Unmarshal(parts[0], &p.Text); err != nil {
				return fmt.Errorf("comment text: %w", err)
			}
		}
		if len(parts) > 1 {
			p.ClientTimestamp = parts[1]
		}
		if len(parts) > 2 {
			if err := json.Unmarshal(parts[2], &p.ActorName); err != nil {
				return fmt.Errorf("comment actor name: %w", err)
			}
		}
		return nil
	}
	type plain CommentPayload
	return json.Unmarshal(data, (*plain)(p))
}

func isArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
