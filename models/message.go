package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one direct message between two connected profiles.
// Append-only: content is never edited or deleted, and ReadAt moves
// from null to a timestamp exactly once.
type Message struct {
	Model
	SenderID   uuid.UUID  `json:"sender_id" gorm:"type:uuid;not null;index"`
	Sender     Profile    `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	ReceiverID uuid.UUID  `json:"receiver_id" gorm:"type:uuid;not null;index"`
	Receiver   Profile    `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	ReadAt     *time.Time `json:"read_at"`
}

// ConversationSummary is a derived rollup of the thread with one
// counterpart. Recomputed on every query, never persisted.
type ConversationSummary struct {
	CounterpartID       uuid.UUID `json:"counterpart_id"`
	LastMessage         string    `json:"last_message"`
	LastMessageAt       time.Time `json:"last_message_at"`
	LastMessageSenderID uuid.UUID `json:"last_message_sender_id"`
	UnreadCount         int       `json:"unread_count"`
}

// SendMessageRequest is the request body for sending a direct message.
// Content is whitespace-trimmed before validation.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required,uuid"`
	Content    string `json:"content" conform:"trim" binding:"required"`
}

// MarkReadRequest is the request body for marking received messages as
// read.
type MarkReadRequest struct {
	MessageIDs []string `json:"message_ids" binding:"required,min=1,dive,uuid"`
}
