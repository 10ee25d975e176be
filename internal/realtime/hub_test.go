package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/logger"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository/memory"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(logger.Discard())
	go hub.Run(ctx)
	return hub
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestHubSendToUser(t *testing.T) {
	hub := startHub(t)
	alice, bob := uuid.New(), uuid.New()

	a1, a2, b := NewClient(alice), NewClient(alice), NewClient(bob)
	hub.RegisterClient(a1)
	hub.RegisterClient(a2)
	hub.RegisterClient(b)
	waitForClients(t, hub, 3)

	assert.Equal(t, 2, hub.SendToUser(alice, []byte("hi")))
	assert.Equal(t, "hi", string(<-a1.Send))
	assert.Equal(t, "hi", string(<-a2.Send))
	assert.Empty(t, b.Send)

	hub.UnregisterClient(a1)
	waitForClients(t, hub, 2)
	_, open := <-a1.Send
	assert.False(t, open)
}

func TestHubDispatchParsesChannel(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	c := NewClient(user)
	hub.RegisterClient(c)
	waitForClients(t, hub, 1)

	hub.dispatch(NotificationChannel(user), []byte(`{"type":"x"}`))
	assert.JSONEq(t, `{"type":"x"}`, string(<-c.Send))

	hub.dispatch("notifications:garbage", []byte("ignored"))
	assert.Empty(t, c.Send)
}

func TestHubShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.Discard())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := NewClient(uuid.New())
	hub.RegisterClient(c)
	waitForClients(t, hub, 1)

	cancel()
	<-done
	_, open := <-c.Send
	assert.False(t, open)

	// must not block once the hub is gone
	hub.UnregisterClient(c)
	late := NewClient(uuid.New())
	hub.RegisterClient(late)
	_, open = <-late.Send
	assert.False(t, open)
}

func TestNotifierPersistsAndDeliversLocally(t *testing.T) {
	hub := startHub(t)
	store := memory.NewStore()
	user := uuid.New()

	c := NewClient(user)
	hub.RegisterClient(c)
	waitForClients(t, hub, 1)

	n := NewNotifier(store.Notifications(), nil, hub, logger.Discard())
	err := n.Notify(context.Background(), user, models.NotifProposalSubmitted, map[string]any{"job_id": "j1"})
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(<-c.Send, &ev))
	assert.Equal(t, models.NotifProposalSubmitted, ev.Type)
	assert.Equal(t, user, ev.Data.UserID)
	assert.JSONEq(t, `{"job_id":"j1"}`, string(ev.Data.Payload))

	stored, err := store.Notifications().ListByUser(context.Background(), user, true)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, ev.Data.ID, stored[0].ID)
}

func TestNotifierPushSkipsStorage(t *testing.T) {
	hub := startHub(t)
	store := memory.NewStore()
	user := uuid.New()

	c := NewClient(user)
	hub.RegisterClient(c)
	waitForClients(t, hub, 1)

	n := NewNotifier(store.Notifications(), nil, hub, logger.Discard())
	require.NoError(t, n.Push(context.Background(), user, models.EventMessageCreated, map[string]string{"text": "hi"}))

	assert.JSONEq(t, `{"type":"message.created","data":{"text":"hi"}}`, string(<-c.Send))

	stored, err := store.Notifications().ListByUser(context.Background(), user, false)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
