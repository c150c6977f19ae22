package services

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandmate/bandmate/config"
	"github.com/bandmate/bandmate/models"
)

// fakeMessageRepo is an in-memory MessageRepository with the same
// conditional-update semantics as the gorm implementation.
type fakeMessageRepo struct {
	msgs []*models.Message
	now  time.Time
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeMessageRepo) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeMessageRepo) SaveMessage(msg *models.Message) error {
	msg.ID = uuid.New()
	msg.CreatedAt = f.tick()
	msg.UpdatedAt = msg.CreatedAt
	stored := *msg
	f.msgs = append(f.msgs, &stored)
	return nil
}

// seed inserts a row directly, bypassing the service, for aggregation
// tests that need exact timestamps.
func (f *fakeMessageRepo) seed(msg models.Message) models.Message {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	stored := msg
	f.msgs = append(f.msgs, &stored)
	return msg
}

func sortChronological(msgs []models.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID.String() < msgs[j].ID.String()
	})
}

func (f *fakeMessageRepo) GetThread(a, b uuid.UUID) ([]models.Message, error) {
	result := []models.Message{}
	for _, msg := range f.msgs {
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			result = append(result, *msg)
		}
	}
	sortChronological(result)
	return result, nil
}

func (f *fakeMessageRepo) GetMessagesForProfile(profileID uuid.UUID) ([]models.Message, error) {
	result := []models.Message{}
	for _, msg := range f.msgs {
		if msg.SenderID == profileID || msg.ReceiverID == profileID {
			result = append(result, *msg)
		}
	}
	sortChronological(result)
	return result, nil
}

func (f *fakeMessageRepo) MarkMessagesRead(receiverID uuid.UUID, messageIDs []uuid.UUID, readAt time.Time) ([]models.Message, error) {
	wanted := make(map[uuid.UUID]bool, len(messageIDs))
	for _, id := range messageIDs {
		wanted[id] = true
	}
	updated := []models.Message{}
	for _, msg := range f.msgs {
		if wanted[msg.ID] && msg.ReceiverID == receiverID && msg.ReadAt == nil {
			stamped := readAt
			msg.ReadAt = &stamped
			updated = append(updated, *msg)
		}
	}
	return updated, nil
}

// newMessagingFixture wires both services over shared fakes and returns
// an accepted connection between alice and bob.
func newMessagingFixture(t *testing.T) (MessageService, ConnectionService, *fakeMessageRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	connRepo := newFakeConnectionRepo()
	msgRepo := newFakeMessageRepo()
	conf := &config.Config{}
	connSvc := NewConnectionService(connRepo, conf)
	msgSvc := NewMessageService(msgRepo, connRepo, conf)

	alice, bob := uuid.New(), uuid.New()
	conn, err := connSvc.SendConnectionRequest(alice, bob)
	require.NoError(t, err)
	_, err = connSvc.UpdateConnectionStatus(conn.ID, models.ConnectionStatusAccepted, bob)
	require.NoError(t, err)
	return msgSvc, connSvc, msgRepo, alice, bob
}

func TestSendMessage(t *testing.T) {
	msgSvc, _, _, alice, bob := newMessagingFixture(t)

	msg, err := msgSvc.SendMessage(alice, bob, "  hey, looking for a drummer?  ")
	require.NoError(t, err)
	assert.Equal(t, "hey, looking for a drummer?", msg.Content)
	assert.Equal(t, alice, msg.SenderID)
	assert.Equal(t, bob, msg.ReceiverID)
	assert.Nil(t, msg.ReadAt)
}

func TestSendMessageEmptyContent(t *testing.T) {
	msgSvc, _, _, alice, bob := newMessagingFixture(t)

	_, err := msgSvc.SendMessage(alice, bob, "   \t\n ")
	assertDomainError(t, err, 400)
}

func TestSendMessageToSelf(t *testing.T) {
	msgSvc, _, _, alice, _ := newMessagingFixture(t)

	_, err := msgSvc.SendMessage(alice, alice, "hi me")
	assertDomainError(t, err, 400)
}

func TestSendMessageRequiresAcceptedConnection(t *testing.T) {
	connRepo := newFakeConnectionRepo()
	msgRepo := newFakeMessageRepo()
	conf := &config.Config{}
	connSvc := NewConnectionService(connRepo, conf)
	msgSvc := NewMessageService(msgRepo, connRepo, conf)

	alice, bob := uuid.New(), uuid.New()

	// no connection at all
	_, err := msgSvc.SendMessage(alice, bob, "hi")
	assertDomainError(t, err, 403)
	assert.Empty(t, msgRepo.msgs, "no message row may be created on a refused send")

	// pending is not enough
	conn, err := connSvc.SendConnectionRequest(alice, bob)
	require.NoError(t, err)
	_, err = msgSvc.SendMessage(alice, bob, "hi")
	assertDomainError(t, err, 403)
	assert.Empty(t, msgRepo.msgs)

	_, err = connSvc.UpdateConnectionStatus(conn.ID, models.ConnectionStatusAccepted, bob)
	require.NoError(t, err)
	_, err = msgSvc.SendMessage(alice, bob, "hi")
	require.NoError(t, err)
}

func TestSendMessageBlockedConnection(t *testing.T) {
	msgSvc, connSvc, _, alice, bob := newMessagingFixture(t)

	conns, err := connSvc.ListConnectionsForProfile(alice)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	_, err = connSvc.UpdateConnectionStatus(conns[0].ID, models.ConnectionStatusBlocked, bob)
	require.NoError(t, err)

	_, err = msgSvc.SendMessage(alice, bob, "hello?")
	assertDomainError(t, err, 403)
}

func TestListThreadRoundTrip(t *testing.T) {
	msgSvc, _, _, alice, bob := newMessagingFixture(t)

	const n = 6
	for i := 0; i < n; i++ {
		sender, receiver := alice, bob
		if i%2 == 1 {
			sender, receiver = bob, alice
		}
		_, err := msgSvc.SendMessage(sender, receiver, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	thread, err := msgSvc.ListThread(alice, bob)
	require.NoError(t, err)
	require.Len(t, thread, n)
	for i, msg := range thread {
		assert.Equal(t, fmt.Sprintf("message %d", i), msg.Content)
		if i > 0 {
			assert.False(t, msg.CreatedAt.Before(thread[i-1].CreatedAt), "thread must be chronological")
		}
	}

	// same thread from the counterpart's side
	reverse, err := msgSvc.ListThread(bob, alice)
	require.NoError(t, err)
	assert.Equal(t, thread, reverse)
}

func TestListThreadSurvivesBlock(t *testing.T) {
	msgSvc, connSvc, _, alice, bob := newMessagingFixture(t)

	_, err := msgSvc.SendMessage(alice, bob, "before the fallout")
	require.NoError(t, err)

	conns, err := connSvc.ListConnectionsForProfile(alice)
	require.NoError(t, err)
	_, err = connSvc.UpdateConnectionStatus(conns[0].ID, models.ConnectionStatusBlocked, bob)
	require.NoError(t, err)

	thread, err := msgSvc.ListThread(bob, alice)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "before the fallout", thread[0].Content)
}

func TestMarkAsReadIdempotent(t *testing.T) {
	msgSvc, _, _, alice, bob := newMessagingFixture(t)

	msg, err := msgSvc.SendMessage(alice, bob, "unread")
	require.NoError(t, err)

	updated, err := msgSvc.MarkAsRead(bob, []uuid.UUID{msg.ID})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	require.NotNil(t, updated[0].ReadAt)
	firstReadAt := *updated[0].ReadAt

	// second call is a no-op and returns an empty updated set
	updated, err = msgSvc.MarkAsRead(bob, []uuid.UUID{msg.ID})
	require.NoError(t, err)
	assert.Empty(t, updated)

	thread, err := msgSvc.ListThread(bob, alice)
	require.NoError(t, err)
	require.NotNil(t, thread[0].ReadAt)
	assert.Equal(t, firstReadAt, *thread[0].ReadAt, "read_at must not move on re-mark")
}

func TestMarkAsReadOnlyReceiver(t *testing.T) {
	msgSvc, _, _, alice, bob := newMessagingFixture(t)

	msg, err := msgSvc.SendMessage(alice, bob, "for bob only")
	require.NoError(t, err)

	// the sender cannot mark their own outbound message read
	updated, err := msgSvc.MarkAsRead(alice, []uuid.UUID{msg.ID})
	require.NoError(t, err)
	assert.Empty(t, updated)

	// unknown ids are silently skipped
	updated, err = msgSvc.MarkAsRead(bob, []uuid.UUID{uuid.New(), msg.ID})
	require.NoError(t, err)
	assert.Len(t, updated, 1)
}

func TestListConversationsEmpty(t *testing.T) {
	msgSvc, _, _, alice, _ := newMessagingFixture(t)

	summaries, err := msgSvc.ListConversations(alice)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestListConversationsUnreadCount(t *testing.T) {
	msgSvc, _, _, alice, bob := newMessagingFixture(t)

	_, err := msgSvc.SendMessage(bob, alice, "one")
	require.NoError(t, err)
	_, err = msgSvc.SendMessage(bob, alice, "two")
	require.NoError(t, err)
	_, err = msgSvc.SendMessage(alice, bob, "reply")
	require.NoError(t, err)

	summaries, err := msgSvc.ListConversations(alice)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, bob, summaries[0].CounterpartID)
	assert.Equal(t, "reply", summaries[0].LastMessage)
	assert.Equal(t, alice, summaries[0].LastMessageSenderID)
	assert.Equal(t, 2, summaries[0].UnreadCount, "own sends don't count as unread")

	// one more inbound message increments by exactly 1
	_, err = msgSvc.SendMessage(bob, alice, "three")
	require.NoError(t, err)
	summaries, err = msgSvc.ListConversations(alice)
	require.NoError(t, err)
	assert.Equal(t, 3, summaries[0].UnreadCount)
}

func TestListConversationsOrderAndTieBreak(t *testing.T) {
	connRepo := newFakeConnectionRepo()
	msgRepo := newFakeMessageRepo()
	conf := &config.Config{}
	msgSvc := NewMessageService(msgRepo, connRepo, conf)

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	msgRepo.seed(models.Message{
		Model:    models.Model{CreatedAt: base},
		SenderID: bob, ReceiverID: alice, Content: "old",
	})
	msgRepo.seed(models.Message{
		Model:    models.Model{CreatedAt: base.Add(time.Hour)},
		SenderID: carol, ReceiverID: alice, Content: "new",
	})

	summaries, err := msgSvc.ListConversations(alice)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, carol, summaries[0].CounterpartID, "most recent conversation first")
	assert.Equal(t, bob, summaries[1].CounterpartID)

	// two messages in one thread at the same instant: the greater id wins
	lowID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	highID := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	msgRepo.seed(models.Message{
		Model:    models.Model{ID: highID, CreatedAt: base.Add(2 * time.Hour)},
		SenderID: bob, ReceiverID: alice, Content: "tie winner",
	})
	msgRepo.seed(models.Message{
		Model:    models.Model{ID: lowID, CreatedAt: base.Add(2 * time.Hour)},
		SenderID: bob, ReceiverID: alice, Content: "tie loser",
	})

	summaries, err = msgSvc.ListConversations(alice)
	require.NoError(t, err)
	assert.Equal(t, bob, summaries[0].CounterpartID)
	assert.Equal(t, "tie winner", summaries[0].LastMessage)
}

// TestConnectThenMessageScenario walks the full request → accept →
// message → read flow end to end.
func TestConnectThenMessageScenario(t *testing.T) {
	connRepo := newFakeConnectionRepo()
	msgRepo := newFakeMessageRepo()
	conf := &config.Config{}
	connSvc := NewConnectionService(connRepo, conf)
	msgSvc := NewMessageService(msgRepo, connRepo, conf)

	alice, bob := uuid.New(), uuid.New()

	conn, err := connSvc.SendConnectionRequest(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusPending, conn.Status)

	// messaging before acceptance is refused and leaves no row
	_, err = msgSvc.SendMessage(alice, bob, "jumping the gun")
	assertDomainError(t, err, 403)
	assert.Empty(t, msgRepo.msgs)

	_, err = connSvc.UpdateConnectionStatus(conn.ID, models.ConnectionStatusAccepted, bob)
	require.NoError(t, err)

	sent, err := msgSvc.SendMessage(alice, bob, "hi")
	require.NoError(t, err)

	summaries, err := msgSvc.ListConversations(bob)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "hi", summaries[0].LastMessage)
	assert.Equal(t, alice, summaries[0].LastMessageSenderID)
	assert.Equal(t, 1, summaries[0].UnreadCount)

	_, err = msgSvc.MarkAsRead(bob, []uuid.UUID{sent.ID})
	require.NoError(t, err)

	summaries, err = msgSvc.ListConversations(bob)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].UnreadCount)
}
