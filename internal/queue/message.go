package queue

import (
	"encoding/json"
	"time"
)

// EventResumeExported is published after a successful export.
const EventResumeExported = "resume.exported"

// MessageVersion is bumped whenever Message changes incompatibly.
const MessageVersion = 1

// Message is the payload sent to downstream consumers.
type Message struct {
	Type       string `json:"type"`
	ResumeID   string `json:"resumeId,omitempty"`
	UserID     string `json:"userId"`
	Format     string `json:"format,omitempty"`
	TemplateID string `json:"templateId,omitempty"`
	StorageKey string `json:"storageKey,omitempty"`
	RequestID  string `json:"requestId,omitempty"`
	OccurredAt string `json:"occurredAt"`
	Version    int    `json:"version"`
}

// NewExportedMessage stamps an export event with the current time and version.
func NewExportedMessage(userID, resumeID, format, templateID, storageKey string) Message {
	return Message{
		Type:       EventResumeExported,
		ResumeID:   resumeID,
		UserID:     userID,
		Format:     format,
		TemplateID: templateID,
		StorageKey: storageKey,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Version:    MessageVersion,
	}
}

func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
