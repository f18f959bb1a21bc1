package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/robocompute/robocompute-go/api"
)

// TaskStream delivers live status updates for one task. The sequence is
// finite: it ends when a terminal status arrives, after which Updates is
// closed and the connection released. A stream is not restartable; call
// Stream again to re-subscribe from the server's current state.
type TaskStream struct {
	conn    *websocket.Conn
	updates chan api.TaskUpdate
	done    chan struct{}

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
}

// Stream subscribes to a task's status updates over WebSocket.
func (m *TaskManager) Stream(ctx context.Context, taskID string) (*TaskStream, error) {
	wsURL := m.client.transport.WebSocketURL("/tasks/" + taskID + "/stream")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, api.NetworkError("websocket dial: "+err.Error(), err)
	}

	subscribe := map[string]string{
		"action":  "subscribe",
		"task_id": taskID,
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		conn.Close()
		return nil, api.NetworkError("websocket subscribe: "+err.Error(), err)
	}

	s := &TaskStream{
		conn:    conn,
		updates: make(chan api.TaskUpdate),
		done:    make(chan struct{}),
	}

	go s.readLoop(m.client.transport.Logger().With().Str("task_id", taskID).Logger())

	return s, nil
}

// Updates returns the update channel. It is closed after a terminal status
// or a transport failure; check Err afterwards.
func (s *TaskStream) Updates() <-chan api.TaskUpdate {
	return s.updates
}

// Err reports the failure that ended the stream, nil when it ended on a
// terminal status or was closed by the caller.
func (s *TaskStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears down the stream. Safe to call more than once.
func (s *TaskStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		s.conn.Close()
	})
	return nil
}

func (s *TaskStream) readLoop(log zerolog.Logger) {
	defer close(s.updates)
	defer s.Close()

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				// Caller closed the stream; not a failure.
			default:
				log.Debug().Err(err).Msg("stream read failed")
				s.setErr(api.NetworkError("websocket read: "+err.Error(), err))
			}
			return
		}

		var update api.TaskUpdate
		if err := json.Unmarshal(message, &update); err != nil {
			log.Debug().Err(err).Msg("dropping malformed stream frame")
			continue
		}

		select {
		case s.updates <- update:
		case <-s.done:
			return
		}

		if update.Status.Terminal() {
			return
		}
	}
}

func (s *TaskStream) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
