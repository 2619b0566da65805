package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
)

func TestAlertStream_DeliversBroadcasts(t *testing.T) {
	srv, _ := newTestServer(t)

	ts := httptest.NewServer(srv.echo)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/alerts"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	signal := domain.Signal{ID: "tweet_1", Source: "twitter_mock", Priority: true}
	srv.hub.Broadcast(domain.AlertEvent, signal)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Event string        `json:"event"`
		Data  domain.Signal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, domain.AlertEvent, envelope.Event)
	assert.Equal(t, "tweet_1", envelope.Data.ID)
	assert.True(t, envelope.Data.Priority)
}

func TestAlertStream_DisconnectUnregisters(t *testing.T) {
	srv, _ := newTestServer(t)

	ts := httptest.NewServer(srv.echo)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/alerts"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
