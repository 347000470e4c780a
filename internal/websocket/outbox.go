package websocket

import "sync"

// Outbox ограниченная очередь исходящих кадров одного соединения.
// При переполнении вытесняется самый старый кадр, отправитель не ждёт.
type Outbox struct {
	mu     sync.Mutex
	queue  [][]byte
	size   int
	closed bool

	ready chan struct{}
	done  chan struct{}
}

func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = 1
	}
	return &Outbox{
		queue: make([][]byte, 0, size),
		size:  size,
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Push ставит кадр в очередь. accepted=false после Close, dropped число
// вытесненных кадров.
func (o *Outbox) Push(frame []byte) (accepted bool, dropped int) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return false, 0
	}
	if len(o.queue) >= o.size {
		o.queue[0] = nil
		o.queue = o.queue[1:]
		dropped = 1
	}
	o.queue = append(o.queue, frame)
	o.mu.Unlock()

	select {
	case o.ready <- struct{}{}:
	default:
	}
	return true, dropped
}

// Drain забирает все накопленные кадры в порядке поступления
func (o *Outbox) Drain() [][]byte {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.queue) == 0 {
		return nil
	}
	out := o.queue
	o.queue = make([][]byte, 0, o.size)
	return out
}

// Ready сигналит, что в очереди появились кадры
func (o *Outbox) Ready() <-chan struct{} { return o.ready }

// Done закрывается вызовом Close
func (o *Outbox) Done() <-chan struct{} { return o.done }

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Close идемпотентен. Оставшиеся кадры можно забрать через Drain.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true
	close(o.done)
}

func (o *Outbox) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}
