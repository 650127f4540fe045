package monday

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"repair-ticket/model"
	"strings"
)

const EventUpdateColumnValue = "update_column_value"

type Change struct {
	ItemID        string
	BoardID       string
	ColumnID      string
	EventType     string
	Label         string
	PreviousLabel string
}

func ParseChange(event model.MondayWebhookEvent) Change {
	return Change{
		ItemID:        event.PulseId.String(),
		BoardID:       event.BoardId.String(),
		ColumnID:      event.ColumnId,
		EventType:     event.Type,
		Label:         statusLabel(event.Value),
		PreviousLabel: statusLabel(event.PreviousValue),
	}
}

func (c Change) IsStatusChange(statusColumn string) bool {
	return c.EventType == EventUpdateColumnValue && c.ColumnID == statusColumn
}

// statusLabel reads value.label.text, or value.label when the board sends a plain string.
func statusLabel(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var value struct {
		Label json.RawMessage `json:"label"`
	}
	if err := json.Unmarshal(raw, &value); err != nil || len(value.Label) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(value.Label, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var label struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(value.Label, &label); err == nil {
		return strings.TrimSpace(label.Text)
	}

	return ""
}

// VerifySignature checks "sha256=<hex hmac>" of body. An empty secret accepts nothing.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
