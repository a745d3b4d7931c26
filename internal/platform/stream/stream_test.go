package stream

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/games/tetris"
	tcore "github.com/vovakirdan/tetris-arcade/internal/games/tetris/core"
	"github.com/vovakirdan/tetris-arcade/internal/platform/runner"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, kind)
	return string(data)
}

func TestSpectatorReceivesLatestThenUpdates(t *testing.T) {
	s := NewServer(DefaultServerConfig(), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	require.NoError(t, s.Hub().Publish(map[string]int{"frame": 1}))

	conn := dial(t, srv)
	assert.JSONEq(t, `{"frame":1}`, readText(t, conn))

	require.NoError(t, s.Hub().Publish(map[string]int{"frame": 2}))
	assert.JSONEq(t, `{"frame":2}`, readText(t, conn))

	published, dropped := s.Hub().Stats()
	assert.Equal(t, uint64(2), published)
	assert.Zero(t, dropped)
}

func TestSpectatorDisconnectUnsubscribes(t *testing.T) {
	s := NewServer(DefaultServerConfig(), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return s.Hub().Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return s.Hub().Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubCloseSendsNormalClosure(t *testing.T) {
	s := NewServer(DefaultServerConfig(), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	require.NoError(t, s.Hub().Publish("hello"))
	conn := dial(t, srv)
	assert.Equal(t, `"hello"`, readText(t, conn))

	s.Hub().Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
	assert.Zero(t, s.Hub().Count())
}

func TestPublishRejectsUnencodable(t *testing.T) {
	h := NewHub(nil)
	err := h.Publish(make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream: encode snapshot")
	assert.Nil(t, h.Latest())
}

func TestSnapshotEndpoint(t *testing.T) {
	s := NewServer(DefaultServerConfig(), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/snapshot")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, s.Hub().Publish(map[string]string{"game": "tetris"}))

	resp, err = http.Get(srv.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"game":"tetris"}`, string(body))
}

func TestHealthz(t *testing.T) {
	s := NewServer(DefaultServerConfig(), nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok 0\n", string(body))
}

func TestPlayPublishesTetrisSnapshots(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.PublishEvery = 1
	s := NewServer(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Play(ctx, tetris.NewWithConfig(tcore.DefaultConfig()), runner.Idle, core.RuntimeConfig{TickRate: 60, Seed: 3})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(string(s.Hub().Latest()), `"game":"tetris"`)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, string(s.Hub().Latest()), `"status":"playing"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Play did not return after cancel")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(DefaultServerConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
