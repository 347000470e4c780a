package websocket

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/thereayou/chat-rooms/internal/metrics"
)

// Broadcaster рассылает кадр всем участникам комнаты. Регистр блокируется
// только на время снимка, постановка в очереди идёт без блокировки.
type Broadcaster struct {
	registry *Registry
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewBroadcaster(registry *Registry, m *metrics.Metrics, log *slog.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, metrics: m, log: log}
}

// Deliver возвращает число соединений, принявших кадр. exclude = uuid.Nil
// отправляет всем.
func (b *Broadcaster) Deliver(roomID string, frame []byte, exclude uuid.UUID) int {
	delivered := 0
	for _, p := range b.registry.MembersOf(roomID) {
		if p.ID() == exclude {
			continue
		}
		if p.Enqueue(frame) {
			delivered++
		} else {
			b.log.Debug("skip closed peer", "connection", p.ID(), "room", roomID)
		}
	}
	b.metrics.Delivered(delivered)
	return delivered
}
