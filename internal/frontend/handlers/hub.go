package handlers

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/game/combat"
)

// LineWriter is the output side of a player connection.
type LineWriter interface {
	WriteLines(lines ...string) error
}

// Hub routes notices to the connections of online players.
// It is safe for concurrent use.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]LineWriter
	logger *zap.Logger
}

// NewHub creates an empty Hub.
//
// Precondition: logger must be non-nil.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{conns: make(map[string]LineWriter), logger: logger}
}

// Register binds name to w, replacing any earlier binding.
func (h *Hub) Register(name string, w LineWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[name] = w
}

// Unregister drops name's binding.
func (h *Hub) Unregister(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, name)
}

// Online reports whether name has a registered connection.
func (h *Hub) Online(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[name]
	return ok
}

// Deliver writes each notice to its recipient, keeping per-recipient order.
// Notices for players without a connection are dropped.
func (h *Hub) Deliver(notices []combat.Notice) {
	if len(notices) == 0 {
		return
	}
	var order []string
	batches := make(map[string][]string)
	for _, n := range notices {
		if _, seen := batches[n.Recipient]; !seen {
			order = append(order, n.Recipient)
		}
		batches[n.Recipient] = append(batches[n.Recipient], RenderNotice(n)...)
	}

	h.mu.RLock()
	targets := make(map[string]LineWriter, len(order))
	for _, name := range order {
		if w, ok := h.conns[name]; ok {
			targets[name] = w
		}
	}
	h.mu.RUnlock()

	for _, name := range order {
		w, ok := targets[name]
		if !ok {
			continue
		}
		if err := w.WriteLines(batches[name]...); err != nil {
			h.logger.Debug("delivering notices", zap.String("character", name), zap.Error(err))
		}
	}
}
