package model

import "encoding/json"

type MondayWebhookRequest struct {
	Challenge string             `json:"challenge,omitempty"`
	Event     *MondayWebhookEvent `json:"event,omitempty"`
}

// MondayWebhookEvent decodes ids through json.Number since the board sends them as
// numbers on some event types and as strings on others.
type MondayWebhookEvent struct {
	PulseId       json.Number     `json:"pulseId"`
	BoardId       json.Number     `json:"boardId"`
	ColumnId      string          `json:"columnId"`
	Type          string          `json:"type"`
	Value         json.RawMessage `json:"value"`
	PreviousValue json.RawMessage `json:"previousValue"`
}

type MondayChallengeResponse struct {
	Challenge string `json:"challenge"`
}

type LineWebhookRequest struct {
	Destination string             `json:"destination"`
	Events      []LineWebhookEvent `json:"events"`
}

type LineWebhookEvent struct {
	Type       string       `json:"type"`
	ReplyToken string       `json:"replyToken"`
	Source     LineSource   `json:"source"`
	Message    *LineMessage `json:"message,omitempty"`
}

type LineSource struct {
	Type    string `json:"type"`
	UserId  string `json:"userId"`
	GroupId string `json:"groupId,omitempty"`
}

type LineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type WebhookAckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type MondayColumn struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type MondayColumnsResponse struct {
	Success   bool           `json:"success"`
	Columns   []MondayColumn `json:"columns"`
	BoardName string         `json:"boardName"`
}

type MondayUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type MondayTestTokenResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    MondayUser `json:"user"`
}
