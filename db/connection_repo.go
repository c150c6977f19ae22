package db

import (
	"github.com/bandmate/bandmate/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ConnectionRepository interface
type ConnectionRepository interface {
	CreateConnection(conn *models.Connection) error
	FindConnectionByID(id uuid.UUID) (*models.Connection, error)
	UpdateConnectionStatus(id uuid.UUID, status models.ConnectionStatus) (*models.Connection, error)
	GetConnectionsForProfile(profileID uuid.UUID) ([]models.Connection, error)
	FindConnectionBetween(a, b uuid.UUID) (*models.Connection, error)
}

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrDuplicatePair      = errors.New("connection already exists for this pair")
)

// connectionRepo struct
type connectionRepo struct {
	DB *gorm.DB
}

// NewConnectionRepo creates a new instance of ConnectionRepository
func NewConnectionRepo(db *GormDB) ConnectionRepository {
	return &connectionRepo{db.DB}
}

// CreateConnection inserts a pending request inside a transaction. The
// existence check and the insert run in the same transaction, and the
// unique index on the canonical pair catches any race the check misses.
func (r *connectionRepo) CreateConnection(conn *models.Connection) error {
	first, second := models.NormalizePair(conn.RequesterID, conn.ReceiverID)

	tx := r.DB.Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "connectionRepo.CreateConnection.Begin")
	}

	var existing models.Connection
	err := tx.Where("pair_first = ? AND pair_second = ?", first, second).First(&existing).Error
	if err == nil {
		tx.Rollback()
		return ErrDuplicatePair
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return errors.Wrap(err, "connectionRepo.CreateConnection.First")
	}

	if err := tx.Create(conn).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicatePair
		}
		return errors.Wrap(err, "connectionRepo.CreateConnection.Create")
	}

	return tx.Commit().Error
}

func (r *connectionRepo) FindConnectionByID(id uuid.UUID) (*models.Connection, error) {
	var conn models.Connection
	if err := r.DB.Where("id = ?", id).First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, errors.Wrap(err, "connectionRepo.FindConnectionByID")
	}
	return &conn, nil
}

func (r *connectionRepo) UpdateConnectionStatus(id uuid.UUID, status models.ConnectionStatus) (*models.Connection, error) {
	var conn models.Connection
	tx := r.DB.Begin()
	if tx.Error != nil {
		return nil, errors.Wrap(tx.Error, "connectionRepo.UpdateConnectionStatus.Begin")
	}

	if err := tx.Where("id = ?", id).First(&conn).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, errors.Wrap(err, "connectionRepo.UpdateConnectionStatus.First")
	}

	if err := tx.Model(&conn).Update("status", status).Error; err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "connectionRepo.UpdateConnectionStatus.Update")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.Wrap(err, "connectionRepo.UpdateConnectionStatus.Commit")
	}
	return &conn, nil
}

func (r *connectionRepo) GetConnectionsForProfile(profileID uuid.UUID) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.DB.
		Preload("Requester").
		Preload("Receiver").
		Where("requester_id = ? OR receiver_id = ?", profileID, profileID).
		Order("created_at DESC").
		Find(&conns).Error
	if err != nil {
		return nil, errors.Wrap(err, "connectionRepo.GetConnectionsForProfile")
	}
	return conns, nil
}

// FindConnectionBetween returns the single row for the unordered pair,
// whichever direction it was created in, or ErrConnectionNotFound.
func (r *connectionRepo) FindConnectionBetween(a, b uuid.UUID) (*models.Connection, error) {
	first, second := models.NormalizePair(a, b)
	var conn models.Connection
	if err := r.DB.Where("pair_first = ? AND pair_second = ?", first, second).First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, errors.Wrap(err, "connectionRepo.FindConnectionBetween")
	}
	return &conn, nil
}
