package devtools

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// streamBuffer is how many reports may wait for the broadcaster before new
// ones are dropped.
const streamBuffer = 64

// BatchStream fans committed batch reports out to websocket clients.
//
// Publish never blocks: it is called from the scheduler goroutine, so
// reports are handed to a broadcaster goroutine and dropped when it falls
// behind.
type BatchStream struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	reports chan hooks.BatchReport
	done    chan struct{}
	once    sync.Once

	dropped int
}

// NewBatchStream creates a stream and starts its broadcaster.
func NewBatchStream(logger *slog.Logger) *BatchStream {
	if logger == nil {
		logger = slog.Default()
	}
	s := &BatchStream{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local inspector
			},
		},
		logger:  logger,
		reports: make(chan hooks.BatchReport, streamBuffer),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client goes away.
func (s *BatchStream) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// Clients never send anything; reading detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// Publish queues rep for broadcast.
func (s *BatchStream) Publish(rep hooks.BatchReport) {
	select {
	case <-s.done:
	case s.reports <- rep:
	default:
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
	}
}

func (s *BatchStream) run() {
	for {
		select {
		case <-s.done:
			return
		case rep := <-s.reports:
			s.broadcast(rep)
		}
	}
}

// broadcast sends a report to all connected clients.
func (s *BatchStream) broadcast(rep hooks.BatchReport) {
	data, err := json.Marshal(rep)
	if err != nil {
		s.logger.Error("encode batch report", "seq", rep.Seq, "error", err)
		return
	}

	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			s.mu.Lock()
			delete(s.clients, client)
			s.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (s *BatchStream) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Dropped returns how many reports were discarded because the broadcaster
// was behind.
func (s *BatchStream) Dropped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

// Close stops the broadcaster and closes all client connections.
func (s *BatchStream) Close() {
	s.once.Do(func() { close(s.done) })

	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}
