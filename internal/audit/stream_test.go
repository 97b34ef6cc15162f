package audit

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"virapi/internal/model"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// startStream 启动推送服务和一个按app_id参数订阅的升级端点
func startStream(t *testing.T, config *StreamConfig) (*Stream, *httptest.Server) {
	t.Helper()

	s := NewStream(config)
	go s.Start()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.AddClient(conn, r.URL.Query().Get("app_id"))
	}))

	t.Cleanup(func() {
		s.Stop()
		srv.Close()
	})
	return s, srv
}

func dialStream(t *testing.T, srv *httptest.Server, appID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?app_id=" + appID
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStreamBroadcastFiltersByApp(t *testing.T) {
	s, srv := startStream(t, nil)

	matched := dialStream(t, srv, "a-1")
	other := dialStream(t, srv, "a-2")
	waitFor(t, func() bool { return s.ClientCount() == 2 })

	s.Broadcast(&model.RequestLog{
		ID:      "l-1",
		AppID:   "a-1",
		AppSlug: "demo",
		URI:     "/user/list",
		Method:  "GET",
		Result:  model.RequestResultSucceed,
	})

	matched.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := matched.ReadMessage()
	require.NoError(t, err)

	var msg StreamMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "request_log", msg.Type)

	payload, ok := msg.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a-1", payload["app_id"])
	assert.Equal(t, "/user/list", payload["uri"])

	// 其他应用的订阅者收不到这条日志
	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = other.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

// 高频心跳与连续广播并发进行，所有写入必须经由同一个writePump串行化
func TestStreamConcurrentPingAndBroadcast(t *testing.T) {
	s, srv := startStream(t, &StreamConfig{
		PingInterval: time.Millisecond,
		WriteWait:    time.Second,
		ReadWait:     5 * time.Second,
	})

	conn := dialStream(t, srv, "a-1")
	waitFor(t, func() bool { return s.ClientCount() == 1 })

	received := make(chan int, 1)
	go func() {
		count := 0
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
			count++
		}
		received <- count
	}()

	for i := 0; i < 100; i++ {
		s.Broadcast(&model.RequestLog{
			ID:    fmt.Sprintf("l-%d", i),
			AppID: "a-1",
		})
		time.Sleep(time.Millisecond)
	}
	conn.Close()

	assert.Greater(t, <-received, 0)
}

func TestStreamRemovesClosedClient(t *testing.T) {
	s, srv := startStream(t, nil)

	conn := dialStream(t, srv, "a-1")
	waitFor(t, func() bool { return s.ClientCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return s.ClientCount() == 0 })
}
