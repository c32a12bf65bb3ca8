package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CycleWatch/internal/domain/models"
)

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStreamInitialAndRefreshFrames(t *testing.T) {
	h, e := newHandler(t, &fakeMarket{}, true)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	conn := dialWS(t, srv)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial StreamUpdate
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, updateTypeInitial, initial.Type)
	require.NotNil(t, initial.View.Snapshot)
	assert.Equal(t, 52.1, initial.View.Snapshot.BTCDominance)

	// The hub registers the connection after the initial frame; wait for it
	// before triggering the broadcast.
	require.Eventually(t, func() bool {
		return len(h.hub.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	h.refresher.RefreshOnce(context.Background())

	var refresh StreamUpdate
	require.NoError(t, conn.ReadJSON(&refresh))
	assert.Equal(t, updateTypeRefresh, refresh.Type)
	require.NotNil(t, refresh.Evaluation)
	assert.Equal(t, models.StateAccumulate, refresh.Evaluation.State)
}

func TestHubCloseWhileBroadcasting(t *testing.T) {
	h, e := newHandler(t, &fakeMarket{}, true)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	conns := make([]*websocket.Conn, 0, 3)
	for i := 0; i < 3; i++ {
		conns = append(conns, dialWS(t, srv))
	}
	require.Eventually(t, func() bool {
		return len(h.hub.snapshot()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	view := h.refresher.View()
	eval, ok := h.refresher.Evaluation()
	require.True(t, ok)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			h.hub.Broadcast(view, &eval)
		}
	}()
	go func() {
		defer wg.Done()
		h.hub.Close()
	}()
	wg.Wait()

	// Every connection ends with a close frame or a dropped socket, never a
	// corrupted stream.
	for _, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
	assert.Empty(t, h.hub.snapshot())
}
