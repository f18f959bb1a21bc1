package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robocompute/robocompute-go/api"
)

var upgrader = websocket.Upgrader{}

// newStreamServer serves the task stream endpoint: it checks the subscribe
// message and then runs serve with the connection.
func newStreamServer(t *testing.T, serve func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var subscribe map[string]string
		require.NoError(t, conn.ReadJSON(&subscribe))
		assert.Equal(t, "subscribe", subscribe["action"])
		require.NotEmpty(t, subscribe["task_id"])

		serve(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func streamClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{APIKey: "k", WalletAddress: "w", BaseURL: baseURL})
	require.NoError(t, err)
	return c
}

func collect(t *testing.T, s *TaskStream) []api.TaskUpdate {
	t.Helper()

	var updates []api.TaskUpdate
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u, ok := <-s.Updates():
			if !ok {
				return updates
			}
			updates = append(updates, u)
		case <-timeout:
			t.Fatal("stream did not terminate")
		}
	}
}

func TestStreamDeliversUpdatesUntilTerminal(t *testing.T) {
	frames := []string{
		`{"status":"running","progress":10}`,
		`{"status":"running","progress":55}`,
		`{"status":"completed","progress":100,"result_hash":"abc"}`,
	}
	srv := newStreamServer(t, func(conn *websocket.Conn) {
		for _, frame := range frames {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
		}
		// Anything sent after the terminal frame must not be delivered.
		conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"running","progress":0}`))
	})

	c := streamClient(t, srv.URL)
	stream, err := c.Tasks.Stream(context.Background(), "task_123")
	require.NoError(t, err)
	defer stream.Close()

	updates := collect(t, stream)
	require.Len(t, updates, 3)

	assert.Equal(t, api.TaskRunning, updates[0].Status)
	assert.Equal(t, 10, updates[0].Progress)
	assert.Equal(t, 55, updates[1].Progress)
	assert.Equal(t, api.TaskCompleted, updates[2].Status)
	assert.Equal(t, 100, updates[2].Progress)
	// Extra frame keys ride along unchanged.
	assert.Equal(t, "abc", updates[2].Fields["result_hash"])

	assert.NoError(t, stream.Err())
}

func TestStreamTransportFailureSurfacesNetworkError(t *testing.T) {
	srv := newStreamServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"running","progress":10}`))
		// Drop the connection mid-stream without a close handshake.
		conn.UnderlyingConn().Close()
	})

	c := streamClient(t, srv.URL)
	stream, err := c.Tasks.Stream(context.Background(), "task_123")
	require.NoError(t, err)
	defer stream.Close()

	updates := collect(t, stream)
	require.Len(t, updates, 1)
	assert.True(t, api.IsKind(stream.Err(), api.KindNetwork))
}

func TestStreamDialFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := streamClient(t, srv.URL)
	_, err := c.Tasks.Stream(context.Background(), "task_123")
	assert.True(t, api.IsKind(err, api.KindNetwork))
}

func TestStreamCloseStopsDelivery(t *testing.T) {
	srv := newStreamServer(t, func(conn *websocket.Conn) {
		// Keep feeding non-terminal updates until the client goes away.
		for i := 0; ; i++ {
			frame, _ := json.Marshal(map[string]any{"status": "running", "progress": i})
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	})

	c := streamClient(t, srv.URL)
	stream, err := c.Tasks.Stream(context.Background(), "task_123")
	require.NoError(t, err)

	<-stream.Updates()
	stream.Close()

	// The channel closes shortly after Close; a caller-initiated close is
	// not an error.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-stream.Updates():
			if !ok {
				assert.NoError(t, stream.Err())
				return
			}
		case <-timeout:
			t.Fatal("updates channel did not close")
		}
	}
}
