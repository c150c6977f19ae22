package services

import (
	"github.com/bandmate/bandmate/config"
	"github.com/bandmate/bandmate/db"
	"github.com/bandmate/bandmate/errors"
	"github.com/bandmate/bandmate/models"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

// ConnectionService interface
type ConnectionService interface {
	SendConnectionRequest(requesterID, receiverID uuid.UUID) (*models.Connection, error)
	UpdateConnectionStatus(connectionID uuid.UUID, status models.ConnectionStatus, actingProfileID uuid.UUID) (*models.Connection, error)
	ListConnectionsForProfile(profileID uuid.UUID) ([]models.Connection, error)
}

// connectionService struct
type connectionService struct {
	Config         *config.Config
	connectionRepo db.ConnectionRepository
}

// NewConnectionService creates a new instance of ConnectionService
func NewConnectionService(connectionRepo db.ConnectionRepository, conf *config.Config) ConnectionService {
	return &connectionService{
		connectionRepo: connectionRepo,
		Config:         conf,
	}
}

// SendConnectionRequest creates a pending request. At most one
// connection may exist per unordered pair, in any status: once a
// request exists, the pair moves forward via status updates only.
func (s *connectionService) SendConnectionRequest(requesterID, receiverID uuid.UUID) (*models.Connection, error) {
	if requesterID == receiverID {
		return nil, errors.ConflictError("cannot send a connection request to yourself")
	}

	conn := &models.Connection{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionStatusPending,
	}
	if err := s.connectionRepo.CreateConnection(conn); err != nil {
		if pkgerrors.Is(err, db.ErrDuplicatePair) {
			return nil, errors.ConflictError("a connection already exists between these profiles")
		}
		return nil, err
	}
	return conn, nil
}

// UpdateConnectionStatus applies a state transition. Accept and decline
// are receiver-only moves out of pending; blocking is allowed from any
// state by either party.
func (s *connectionService) UpdateConnectionStatus(connectionID uuid.UUID, status models.ConnectionStatus, actingProfileID uuid.UUID) (*models.Connection, error) {
	conn, err := s.connectionRepo.FindConnectionByID(connectionID)
	if err != nil {
		if pkgerrors.Is(err, db.ErrConnectionNotFound) {
			return nil, errors.NotFoundError("connection not found")
		}
		return nil, err
	}

	switch status {
	case models.ConnectionStatusAccepted, models.ConnectionStatusDeclined:
		if actingProfileID != conn.ReceiverID {
			return nil, errors.AuthorizationError("only the receiver may accept or decline a connection request")
		}
		if conn.Status != models.ConnectionStatusPending {
			return nil, errors.AuthorizationError("connection request is no longer pending")
		}
	case models.ConnectionStatusBlocked:
		if actingProfileID != conn.RequesterID && actingProfileID != conn.ReceiverID {
			return nil, errors.AuthorizationError("only a party to the connection may block it")
		}
	default:
		return nil, errors.ValidationError("invalid connection status")
	}

	return s.connectionRepo.UpdateConnectionStatus(connectionID, status)
}

func (s *connectionService) ListConnectionsForProfile(profileID uuid.UUID) ([]models.Connection, error) {
	return s.connectionRepo.GetConnectionsForProfile(profileID)
}
