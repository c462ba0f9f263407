package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/blockdrop/internal/model"
	"github.com/mcoot/blockdrop/internal/testutil"
)

const waitFor = time.Second

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "client channel closed")
		return string(msg)
	case <-time.After(waitFor):
		t.Fatal("client did not receive message")
		return ""
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub("game-1", testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		data     string
		expected string
	}{
		{"single line", "state", `{"score":0}`, "event: state\ndata: {\"score\":0}\n\n"},
		{"multi line", "note", "a\nb", "event: note\ndata: a\ndata: b\n\n"},
		{"empty data", "ping", "", "event: ping\ndata: \n\n"},
		{"carriage returns", "note", "a\r\nb\r\n", "event: note\ndata: a\ndata: b\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(FormatEvent(tt.event, []byte(tt.data))))
		})
	}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := startHub(t)

	client := NewClient(hub, "player1")
	require.True(t, hub.Register(client))
	assert.Equal(t, 1, hub.ClientCount())

	hub.BroadcastEvent("state", []byte("x"))

	assert.Equal(t, "event: state\ndata: x\n\n", receive(t, client))
}

func TestHubBroadcastToMultipleClients(t *testing.T) {
	hub := startHub(t)

	clients := []*Client{NewClient(hub, "p1"), NewClient(hub, "p1"), NewClient(hub, "p1")}
	for _, c := range clients {
		require.True(t, hub.Register(c))
	}

	hub.BroadcastEvent("state", []byte("y"))

	for _, c := range clients {
		assert.Equal(t, "event: state\ndata: y\n\n", receive(t, c))
	}
}

func TestHubUnregisterClosesClient(t *testing.T) {
	hub := startHub(t)

	client := NewClient(hub, "player1")
	require.True(t, hub.Register(client))
	hub.Unregister(client)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, waitFor, time.Millisecond)
	_, ok := <-client.send
	assert.False(t, ok)

	// Second unregister is a no-op
	hub.Unregister(client)
}

func TestHubCloseFlushesQueuedMessages(t *testing.T) {
	hub := startHub(t)

	client := NewClient(hub, "player1")
	require.True(t, hub.Register(client))

	hub.BroadcastEvent("game_abandoned", []byte("{}"))
	hub.Close()

	assert.Equal(t, "event: game_abandoned\ndata: {}\n\n", receive(t, client))
	select {
	case _, ok := <-client.send:
		assert.False(t, ok)
	case <-time.After(waitFor):
		t.Fatal("client channel not closed")
	}
}

func TestHubRegisterAfterClose(t *testing.T) {
	hub := startHub(t)
	hub.Close()
	hub.Close()

	assert.False(t, hub.Register(NewClient(hub, "player1")))
}

func TestHubManagerGetOrCreate(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	hub1 := manager.GetOrCreateHub("g1")
	require.NotNil(t, hub1)

	assert.Same(t, hub1, manager.GetOrCreateHub("g1"))
	assert.NotSame(t, hub1, manager.GetOrCreateHub("g2"))
	assert.Same(t, hub1, manager.GetHub("g1"))
	assert.Nil(t, manager.GetHub("missing"))
	assert.Equal(t, 2, manager.HubCount())
}

func TestHubManagerRemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("g1")
	manager.RemoveHub("g1")

	assert.Nil(t, manager.GetHub("g1"))
	manager.RemoveHub("missing")
}

func TestHubManagerCleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	manager.GetOrCreateHub(model.GameID("empty"))
	active := manager.GetOrCreateHub(model.GameID("active"))
	require.True(t, active.Register(NewClient(active, "player1")))
	require.Eventually(t, func() bool { return active.ClientCount() == 1 }, waitFor, time.Millisecond)

	assert.Equal(t, 1, manager.CleanupEmptyHubs())
	assert.Nil(t, manager.GetHub("empty"))
	assert.NotNil(t, manager.GetHub("active"))
}

func TestHubManagerConnectSurvivesCleanup(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	client := manager.Connect("g1", "player1")

	// The client is a member as soon as Connect returns
	assert.Equal(t, 0, manager.CleanupEmptyHubs())
	hub := manager.GetHub("g1")
	require.NotNil(t, hub)
	assert.Equal(t, 1, hub.ClientCount())

	hub.BroadcastEvent("state", []byte("x"))
	assert.Equal(t, "event: state\ndata: x\n\n", receive(t, client))
}

func TestHubManagerConnectReplacesClosedHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	stale := manager.GetOrCreateHub("g1")
	stale.Close()

	client := manager.Connect("g1", "player1")

	hub := manager.GetHub("g1")
	require.NotNil(t, hub)
	assert.NotSame(t, stale, hub)
	assert.Equal(t, 1, hub.ClientCount())

	hub.BroadcastEvent("state", []byte("y"))
	assert.Equal(t, "event: state\ndata: y\n\n", receive(t, client))
}
