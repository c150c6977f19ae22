package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusDeclined ConnectionStatus = "declined"
	ConnectionStatusBlocked  ConnectionStatus = "blocked"
)

// Connection is a directed request from requester to receiver that
// becomes a bidirectional relationship once accepted. Rows are never
// deleted; history is retained across declines and blocks.
//
// PairFirst/PairSecond hold the two profile ids in canonical order so
// the unique index covers the unordered pair: (A,B) and (B,A) can never
// both exist, regardless of who asked first.
type Connection struct {
	Model
	RequesterID uuid.UUID        `json:"requester_id" gorm:"type:uuid;not null;index"`
	Requester   Profile          `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	ReceiverID  uuid.UUID        `json:"receiver_id" gorm:"type:uuid;not null;index"`
	Receiver    Profile          `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
	Status      ConnectionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PairFirst   uuid.UUID        `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_connections_pair"`
	PairSecond  uuid.UUID        `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_connections_pair"`
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if err := c.Model.BeforeCreate(tx); err != nil {
		return err
	}
	c.PairFirst, c.PairSecond = NormalizePair(c.RequesterID, c.ReceiverID)
	return nil
}

// NormalizePair orders two profile ids canonically (lexicographic on
// the uuid string form).
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

// CreateConnectionRequest is the request body for sending a connection
// request.
type CreateConnectionRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required,uuid"`
}

// UpdateConnectionRequest is the request body for accepting, declining
// or blocking a pending request.
type UpdateConnectionRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted declined blocked"`
}
