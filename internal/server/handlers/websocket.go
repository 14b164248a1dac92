// internal/server/handlers/websocket.go

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// feedClient is one connected suggestion-feed consumer.
type feedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	sub    *nats.Subscription
	logger zerolog.Logger
}

// FeedConfig contains configuration for feed WebSocket connections.
type FeedConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultFeedConfig returns the default feed connection configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// SuggestionFeedHandler bridges served-suggestion events from NATS to a
// read-only WebSocket stream for dashboard consumers.
func SuggestionFeedHandler(natsConn *nats.Conn, eventsTopic string, logger zerolog.Logger) http.HandlerFunc {
	feedLogger := logger.With().Str("component", "suggestion_feed").Logger()

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			feedLogger.Warn().Err(err).Msg("failed to upgrade to WebSocket")
			return
		}

		client := &feedClient{
			conn:   conn,
			send:   make(chan []byte, 256),
			logger: feedLogger,
		}

		// Wildcard over served and smart.served events.
		subject := fmt.Sprintf("%s.>", eventsTopic)
		sub, err := natsConn.Subscribe(subject, func(msg *nats.Msg) {
			select {
			case client.send <- msg.Data:
			default:
				// Drop when the client cannot keep up.
			}
		})
		if err != nil {
			feedLogger.Error().Err(err).Str("subject", subject).Msg("failed to subscribe to feed")
			conn.Close()
			return
		}
		client.sub = sub

		go client.writePump()
		go client.readPump()

		feedLogger.Info().Str("remote", r.RemoteAddr).Msg("suggestion feed connected")
	}
}

// readPump discards client frames and watches for disconnect.
func (c *feedClient) readPump() {
	config := DefaultFeedConfig()

	defer c.close()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("feed read error")
			}
			return
		}
	}
}

// writePump pushes feed events to the peer with ping keepalive.
func (c *feedClient) writePump() {
	config := DefaultFeedConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *feedClient) close() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.conn.Close()
}
