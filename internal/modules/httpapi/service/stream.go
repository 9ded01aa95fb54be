package service

import (
	"net/http"
	"time"

	"stock_watch/internal/models"
	"stock_watch/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const (
	pingPeriod = 20 * time.Second
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// stream пушит снапшоты watch-list в websocket: сначала текущий, потом каждый коммит и смену состояния
func (h *Handlers) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("[WS] upgrade: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.wl.Subscribe()
	defer cancel()

	// read-loop нужен только чтобы заметить закрытие со стороны клиента
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeSnapshot(conn, h.wl.Snapshot()); err != nil {
		logger.Error("[WS] write: %v", err)
		return
	}

	t := time.NewTicker(pingPeriod)
	defer t.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := writeSnapshot(conn, snap); err != nil {
				logger.Error("[WS] write: %v", err)
				return
			}
		case <-t.C:
			_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap models.Snapshot) error {
	b, err := sonic.Marshal(toResponse(snap))
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
