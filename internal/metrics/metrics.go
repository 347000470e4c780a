// Package metrics содержит prometheus-коллекторы чат-сервера
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "chat"

// Metrics все методы безопасны для nil-получателя, тогда замеры не пишутся
type Metrics struct {
	connections         prometheus.Gauge
	rooms               prometheus.Gauge
	messagesSent        prometheus.Counter
	deliveries          prometheus.Counter
	droppedFrames       prometheus.Counter
	persistenceFailures prometheus.Counter
	authFailures        prometheus.Counter
}

// New создаёт коллекторы и регистрирует их в reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Number of authenticated websocket connections.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of rooms with at least one joined connection.",
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Messages persisted through send-message.",
		}),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Frames enqueued to room members by fan-out.",
		}),
		droppedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_frames_total",
			Help:      "Outbound frames evicted from full connection queues.",
		}),
		persistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Store operations that failed.",
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected connection handshakes.",
		}),
	}

	reg.MustRegister(
		m.connections,
		m.rooms,
		m.messagesSent,
		m.deliveries,
		m.droppedFrames,
		m.persistenceFailures,
		m.authFailures,
	)
	return m
}

func (m *Metrics) SetConnections(n int) {
	if m != nil {
		m.connections.Set(float64(n))
	}
}

func (m *Metrics) SetRooms(n int) {
	if m != nil {
		m.rooms.Set(float64(n))
	}
}

func (m *Metrics) MessageSent() {
	if m != nil {
		m.messagesSent.Inc()
	}
}

func (m *Metrics) Delivered(n int) {
	if m != nil && n > 0 {
		m.deliveries.Add(float64(n))
	}
}

func (m *Metrics) Dropped(n int) {
	if m != nil && n > 0 {
		m.droppedFrames.Add(float64(n))
	}
}

func (m *Metrics) PersistenceFailure() {
	if m != nil {
		m.persistenceFailures.Inc()
	}
}

func (m *Metrics) AuthFailure() {
	if m != nil {
		m.authFailures.Inc()
	}
}
