package websocket

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего кадра
	maxMessageSize = 16 * 1024
)

// Client связывает gorilla-соединение с Session. Читает только ReadPump,
// пишет только WritePump.
type Client struct {
	conn    *websocket.Conn
	session *Session
	log     *slog.Logger
}

func NewClient(conn *websocket.Conn, session *Session, log *slog.Logger) *Client {
	return &Client{
		conn:    conn,
		session: session,
		log:     log.With("connection", session.ID()),
	}
}

// Serve запускает WritePump и блокируется в ReadPump до закрытия соединения
func (c *Client) Serve(ctx context.Context) {
	go c.WritePump()
	c.ReadPump(ctx)
}

// ReadPump читает кадры клиента и передаёт их сессии по одному
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.session.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read error", "error", err)
			}
			return
		}

		c.session.HandleFrame(ctx, data)
		if c.session.State() == StateDisconnected {
			return
		}
	}
}

// WritePump отправляет кадры из Outbox сессии и держит keepalive
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	out := c.session.Outbox()
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-out.Ready():
			if err := c.write(out.Drain()); err != nil {
				c.log.Debug("websocket write failed", "error", err)
				c.session.Close()
				return
			}

		case <-out.Done():
			// сессия закрыта, досылаем остаток и прощаемся
			_ = c.write(out.Drain())
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.session.Close()
				return
			}
		}
	}
}

func (c *Client) write(frames [][]byte) error {
	for _, frame := range frames {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return err
		}
	}
	return nil
}
