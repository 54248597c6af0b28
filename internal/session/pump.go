package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/Peppermint995/Scrbbl-Clone/internal/game"
	"github.com/Peppermint995/Scrbbl-Clone/logger"
)

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client ties a session to one websocket connection: a read loop that
// dispatches actions and a write loop that pushes the merged view
// whenever it moves.
type Client struct {
	sess   *Session
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewClient(sess *Session, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		sess:   sess,
		conn:   conn,
		send:   make(chan []byte, 64),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) cleanup() {
	c.once.Do(func() {
		c.cancel()
		close(c.send)
		c.conn.Close()
	})
}

// Run drives the whole client: reconciler, read pump, write pump. It
// returns when the connection drops or ctx ends.
func (c *Client) Run() {
	go func() {
		if err := c.sess.Run(c.ctx); err != nil && c.ctx.Err() == nil {
			logger.Error("session: reconciler for %s stopped: %v", c.sess.roomID, err)
			c.cancel()
		}
	}()
	go c.ReadPump()
	c.WritePump()
}

func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("player %s readPump panic: %v", c.sess.playerID, r)
		}
		c.cleanup()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, msg, err := c.conn.ReadMessage()
			if err != nil {
				logger.Info("player %s disconnected: %v", c.sess.playerID, err)
				return
			}
			var wsMsg WSMessage
			if err := json.Unmarshal(msg, &wsMsg); err != nil {
				logger.Error("player %s sent invalid message: %v", c.sess.playerID, err)
				continue
			}
			c.dispatch(wsMsg)
		}
	}
}

func (c *Client) dispatch(wsMsg WSMessage) {
	switch wsMsg.Type {
	case "guess":
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(wsMsg.Data, &payload); err != nil || payload.Text == "" {
			return
		}
		v, err := c.sess.Guess(c.ctx, payload.Text)
		if err != nil {
			logger.Error("player %s guess not persisted: %v", c.sess.playerID, err)
		}
		if v.Outcome == game.Incorrect && v.Close {
			c.push("hint", closeHint)
		}

	case "surface":
		var payload struct {
			W float64 `json:"w"`
			H float64 `json:"h"`
		}
		if err := json.Unmarshal(wsMsg.Data, &payload); err != nil {
			return
		}
		c.sess.SetSurface(payload.W, payload.H)

	case "stroke_begin":
		var payload struct {
			Color string  `json:"color"`
			Size  int     `json:"size"`
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
		}
		if err := json.Unmarshal(wsMsg.Data, &payload); err != nil {
			return
		}
		c.sess.BeginStroke(payload.Color, payload.Size, payload.X, payload.Y)

	case "stroke_point":
		var payload struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		}
		if err := json.Unmarshal(wsMsg.Data, &payload); err != nil {
			return
		}
		c.sess.ExtendStroke(payload.X, payload.Y)

	case "stroke_end":
		if err := c.sess.EndStroke(c.ctx); err != nil {
			logger.Error("player %s stroke not persisted: %v", c.sess.playerID, err)
		}

	case "clear":
		if err := c.sess.Clear(c.ctx); err != nil {
			logger.Error("player %s clear not persisted: %v", c.sess.playerID, err)
		}

	default:
		logger.Debug("player %s sent unknown message type %q", c.sess.playerID, wsMsg.Type)
	}
}

var closeHint = json.RawMessage(`{"close":true}`)

func (c *Client) push(msgType string, data json.RawMessage) {
	raw, err := json.Marshal(WSMessage{Type: msgType, Data: data})
	if err != nil {
		return
	}
	select {
	case c.send <- raw:
	default:
	}
}

func (c *Client) pushState() {
	view := c.sess.View()
	data, err := json.Marshal(view)
	if err != nil {
		logger.Error("player %s state marshal: %v", c.sess.playerID, err)
		return
	}
	c.push("state", data)
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.cleanup()
	}()

	c.pushState()
	for {
		select {
		case <-c.ctx.Done():
			return

		case <-c.sess.Updates():
			c.pushState()

		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("write error for player %s: %v", c.sess.playerID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Error("ping error for player %s: %v", c.sess.playerID, err)
				return
			}
		}
	}
}
