package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/detail"
	"github.com/muurk/airmap/internal/logging"
	"github.com/muurk/airmap/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Feed clients are terminals and scripts, not browsers.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleFeed upgrades to a WebSocket and runs one detail loop for the
// connection until either side goes away.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		logging.Warn("Feed upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	sess := newSession(conn, r.RemoteAddr)
	s.track(sess)
	defer s.untrack(sess)

	logging.LogConnection(sess.remoteAddr, "feed_opened")
	defer logging.LogConnection(sess.remoteAddr, "feed_closed")

	if err := sess.run(r.Context(), s.fetcher, s.catalog); err != nil {
		logging.Debug("Feed session ended",
			zap.String("remote_addr", sess.remoteAddr),
			zap.Error(err),
		)
	}
}

// session is one feed connection. It is the detail.Sink for the
// connection's loop: updates are queued and written by a single writer.
type session struct {
	conn       *websocket.Conn
	remoteAddr string

	mu    sync.Mutex
	queue []*protocol.Update
	wake  chan struct{}

	closeOnce sync.Once

	// code of the airport the card is showing; loop goroutine only
	current string
}

func newSession(conn *websocket.Conn, remoteAddr string) *session {
	return &session{
		conn:       conn,
		remoteAddr: remoteAddr,
		wake:       make(chan struct{}, 1),
	}
}

func (s *session) push(u *protocol.Update) {
	s.mu.Lock()
	s.queue = append(s.queue, u)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *session) drain() []*protocol.Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.queue
	s.queue = nil
	return out
}

func (s *session) ShowLoading(a airport.Airport) {
	s.current = a.Code
	s.push(protocol.NewLoading(a))
}

func (s *session) ShowLoaded(info airport.Info) {
	s.push(protocol.NewLoaded(s.current, info))
}

func (s *session) ShowEmpty() {
	s.current = ""
	s.push(protocol.NewEmpty())
}

func (s *session) ShowFailed(a airport.Airport, err error) {
	s.push(protocol.NewFailed(a, err))
}

func (s *session) close() {
	s.closeOnce.Do(func() { _ = s.conn.Close() })
}

// run blocks until the peer disconnects, a write fails or ctx ends.
func (s *session) run(ctx context.Context, fetcher detail.Fetcher, catalog *airport.Catalog) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.close()

	loop := detail.NewLoop(fetcher, s)

	var g errgroup.Group
	g.Go(func() error {
		return loop.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return s.writePump(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return s.readPump(catalog, loop)
	})

	err := g.Wait()
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return err
}

func (s *session) readPump(catalog *airport.Catalog, loop *detail.Loop) error {
	s.conn.SetReadLimit(protocol.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}

		if mt != websocket.TextMessage {
			s.push(protocol.NewError(errors.New("commands must be text frames")))
			continue
		}

		logging.Debug("Feed command received",
			zap.String("remote_addr", s.remoteAddr),
			zap.ByteString("payload", data),
		)

		if reply := protocol.HandleMessage(data, catalog, loop); reply != nil {
			s.push(reply)
		}
	}
}

func (s *session) writePump(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	// Unblocks readPump once the writer is gone
	defer s.close()

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil

		case <-s.wake:
			for _, u := range s.drain() {
				_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := s.conn.WriteJSON(u); err != nil {
					return err
				}
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
