package db

import (
	"time"

	"github.com/bandmate/bandmate/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository interface
type MessageRepository interface {
	SaveMessage(msg *models.Message) error
	GetThread(a, b uuid.UUID) ([]models.Message, error)
	GetMessagesForProfile(profileID uuid.UUID) ([]models.Message, error)
	MarkMessagesRead(receiverID uuid.UUID, messageIDs []uuid.UUID, readAt time.Time) ([]models.Message, error)
}

// messageRepo struct
type messageRepo struct {
	DB *gorm.DB
}

// NewMessageRepo creates a new instance of MessageRepository
func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

func (r *messageRepo) SaveMessage(msg *models.Message) error {
	if err := r.DB.Create(msg).Error; err != nil {
		return errors.Wrap(err, "messageRepo.SaveMessage")
	}
	return nil
}

// GetThread returns every message between the two profiles in either
// direction, oldest first. Id is the secondary sort key so that equal
// timestamps still read in a stable order.
func (r *messageRepo) GetThread(a, b uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := r.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.GetThread")
	}
	return msgs, nil
}

func (r *messageRepo) GetMessagesForProfile(profileID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := r.DB.
		Where("sender_id = ? OR receiver_id = ?", profileID, profileID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.GetMessagesForProfile")
	}
	return msgs, nil
}

// MarkMessagesRead stamps read_at on the listed messages, but only
// where the caller is the receiver and the message is still unread.
// The conditional update makes re-marking a no-op, and the RETURNING
// clause reports exactly the rows that changed.
func (r *messageRepo) MarkMessagesRead(receiverID uuid.UUID, messageIDs []uuid.UUID, readAt time.Time) ([]models.Message, error) {
	var updated []models.Message
	err := r.DB.
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("id IN ?", messageIDs).
		Where("receiver_id = ?", receiverID).
		Where("read_at IS NULL").
		Update("read_at", readAt).Error
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.MarkMessagesRead")
	}
	return updated, nil
}
