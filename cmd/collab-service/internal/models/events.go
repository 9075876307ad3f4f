package models

import "encoding/json"

// Event types received from clients.
const (
	EventJoin           = "join"
	EventCodeChange     = "codeChange"
	EventTyping         = "typing"
	EventLanguageChange = "languageChange"
	EventLeaveRoom      = "leaveRoom"
	EventRunCode        = "runCode"
)

// Event types sent to clients.
const (
	EventUserJoined      = "userJoined"
	EventCodeUpdate      = "codeUpdate"
	EventUserTyping      = "userTyping"
	EventLanguageUpdate  = "languageUpdate"
	EventExecutionResult = "executionResult"
)

// Event is the wire envelope in both directions.
type Event struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// JoinContent is the payload of a join event.
type JoinContent struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// CodeChangeContent is the payload of a codeChange event. Code is the full
// buffer, not a delta; concurrent edits resolve last-write-wins.
type CodeChangeContent struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// TypingContent is the payload of a typing event.
type TypingContent struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// LanguageChangeContent is the payload of a languageChange event.
type LanguageChangeContent struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
}

// RunCodeContent is the payload of a runCode event.
type RunCodeContent struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
	Code     string `json:"code"`
	Input    string `json:"input"`
}

// NewEvent marshals an outbound event envelope.
func NewEvent(eventType string, content interface{}) ([]byte, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: eventType, Content: raw})
}
