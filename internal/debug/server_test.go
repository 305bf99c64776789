package debug

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/arena/internal/core/ai"
	"github.com/zeusync/arena/internal/core/observability/metrics"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestBroadcastReachesClients(t *testing.T) {
	s := New(Config{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ts.URL)
	require.Eventually(t, func() bool { return s.Clients() == 1 }, time.Second, 5*time.Millisecond)

	s.Broadcast(Frame{
		Tick: 7,
		Time: 0.35,
		Controllers: []ai.State{
			{Entity: 1, Name: "bot", Mode: "Attack", PathLen: 3, Charged: true},
		},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, uint64(7), got.Tick)
	require.Len(t, got.Controllers, 1)
	assert.Equal(t, "Attack", got.Controllers[0].Mode)
	assert.True(t, got.Controllers[0].Charged)
}

func TestClosedClientIsForgotten(t *testing.T) {
	s := New(Config{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ts.URL)
	require.Eventually(t, func() bool { return s.Clients() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return s.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestSlowClientIsDropped(t *testing.T) {
	s := New(Config{Buffer: 1})
	slow := newClient(nil, 1)
	s.clients[slow] = struct{}{}

	s.Broadcast(Frame{Tick: 1})
	assert.Equal(t, 1, s.Clients())
	s.Broadcast(Frame{Tick: 2})
	assert.Zero(t, s.Clients())

	select {
	case <-slow.done:
	default:
		t.Fatal("slow client was not closed")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ShotFired()

	s := New(Config{Gatherer: reg})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "arena_weapon_shots_fired_total 1")
}

func TestStartStop(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"})
	assert.ErrorIs(t, s.Stop(context.Background()), ErrNotStarted)

	require.NoError(t, s.Start())
	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+s.Addr()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.Clients() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Zero(t, s.Clients())
}
