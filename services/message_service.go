package services

import (
	"sort"
	"strings"
	"time"

	"github.com/bandmate/bandmate/config"
	"github.com/bandmate/bandmate/db"
	"github.com/bandmate/bandmate/errors"
	"github.com/bandmate/bandmate/models"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

// MessageService interface
type MessageService interface {
	SendMessage(senderID, receiverID uuid.UUID, content string) (*models.Message, error)
	ListThread(profileID, counterpartID uuid.UUID) ([]models.Message, error)
	MarkAsRead(profileID uuid.UUID, messageIDs []uuid.UUID) ([]models.Message, error)
	ListConversations(profileID uuid.UUID) ([]models.ConversationSummary, error)
}

// messageService struct
type messageService struct {
	Config         *config.Config
	messageRepo    db.MessageRepository
	connectionRepo db.ConnectionRepository
}

// NewMessageService creates a new instance of MessageService
func NewMessageService(messageRepo db.MessageRepository, connectionRepo db.ConnectionRepository, conf *config.Config) MessageService {
	return &messageService{
		messageRepo:    messageRepo,
		connectionRepo: connectionRepo,
		Config:         conf,
	}
}

// SendMessage appends a message after verifying the pair holds an
// accepted connection. Messaging is connection-gated: no accepted
// connection, no message.
func (s *messageService) SendMessage(senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, errors.ValidationError("cannot send a message to yourself")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.ValidationError("message content cannot be empty")
	}

	conn, err := s.connectionRepo.FindConnectionBetween(senderID, receiverID)
	if err != nil {
		if pkgerrors.Is(err, db.ErrConnectionNotFound) {
			return nil, errors.AuthorizationError("profiles are not connected")
		}
		return nil, err
	}
	if conn.Status != models.ConnectionStatusAccepted {
		return nil, errors.AuthorizationError("profiles are not connected")
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.SaveMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListThread returns the full history with one counterpart, oldest
// first. History stays visible even if the connection was later
// blocked.
func (s *messageService) ListThread(profileID, counterpartID uuid.UUID) ([]models.Message, error) {
	return s.messageRepo.GetThread(profileID, counterpartID)
}

// MarkAsRead stamps read_at on the given messages where the profile is
// the receiver and the message is still unread. Ids that don't match
// are skipped, so re-marking is a no-op, not an error.
func (s *messageService) MarkAsRead(profileID uuid.UUID, messageIDs []uuid.UUID) ([]models.Message, error) {
	if len(messageIDs) == 0 {
		return []models.Message{}, nil
	}
	return s.messageRepo.MarkMessagesRead(profileID, messageIDs, time.Now())
}

// ListConversations derives one summary per counterpart from the raw
// message rows: the newest message supplies the preview fields, and
// unread_count tallies received messages with no read_at. Equal
// timestamps fall back to id order so the result is deterministic.
func (s *messageService) ListConversations(profileID uuid.UUID) ([]models.ConversationSummary, error) {
	msgs, err := s.messageRepo.GetMessagesForProfile(profileID)
	if err != nil {
		return nil, err
	}

	latest := make(map[uuid.UUID]models.Message)
	unread := make(map[uuid.UUID]int)
	for _, msg := range msgs {
		counterpart := msg.SenderID
		if counterpart == profileID {
			counterpart = msg.ReceiverID
		}

		last, ok := latest[counterpart]
		if !ok || newerMessage(msg, last) {
			latest[counterpart] = msg
		}
		if msg.ReceiverID == profileID && msg.ReadAt == nil {
			unread[counterpart]++
		}
	}

	summaries := make([]models.ConversationSummary, 0, len(latest))
	for counterpart, last := range latest {
		summaries = append(summaries, models.ConversationSummary{
			CounterpartID:       counterpart,
			LastMessage:         last.Content,
			LastMessageAt:       last.CreatedAt,
			LastMessageSenderID: last.SenderID,
			UnreadCount:         unread[counterpart],
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].LastMessageAt.Equal(summaries[j].LastMessageAt) {
			return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
		}
		return summaries[i].CounterpartID.String() < summaries[j].CounterpartID.String()
	})
	return summaries, nil
}

func newerMessage(a, b models.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}
