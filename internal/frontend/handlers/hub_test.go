package handlers_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/frontend/handlers"
	"github.com/cory-johannsen/duelcore/internal/frontend/telnet"
	"github.com/cory-johannsen/duelcore/internal/game/combat"
)

type bufWriter struct {
	mu    sync.Mutex
	lines []string
	fail  bool
}

func (b *bufWriter) WriteLines(lines ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errors.New("broken pipe")
	}
	for _, l := range lines {
		b.lines = append(b.lines, telnet.StripANSI(l))
	}
	return nil
}

func TestHub_DeliverRoutesByRecipientInOrder(t *testing.T) {
	hub := handlers.NewHub(zap.NewNop())
	alice, bob := &bufWriter{}, &bufWriter{}
	hub.Register("alice", alice)
	hub.Register("bob", bob)

	hub.Deliver([]combat.Notice{
		{Recipient: "alice", Message: "You hit bob for 9.", Category: combat.CategoryDamage},
		{Recipient: "bob", Message: "alice hits you for 9.", Category: combat.CategoryHurt},
		{Recipient: "alice", Message: "bob: 91/100 HP", Category: combat.CategoryInfo},
		{Recipient: "carol", Message: "nobody listens", Category: combat.CategoryInfo},
	})

	assert.Equal(t, []string{"You hit bob for 9.", "bob: 91/100 HP"}, alice.lines)
	assert.Equal(t, []string{"alice hits you for 9."}, bob.lines)
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := handlers.NewHub(zap.NewNop())
	w := &bufWriter{}
	hub.Register("alice", w)
	assert.True(t, hub.Online("alice"))
	hub.Unregister("alice")
	assert.False(t, hub.Online("alice"))
	hub.Deliver([]combat.Notice{{Recipient: "alice", Message: "hello"}})
	assert.Empty(t, w.lines)
}

func TestHub_WriteFailureDoesNotBlockOthers(t *testing.T) {
	hub := handlers.NewHub(zap.NewNop())
	broken, ok := &bufWriter{fail: true}, &bufWriter{}
	hub.Register("alice", broken)
	hub.Register("bob", ok)
	hub.Deliver([]combat.Notice{
		{Recipient: "alice", Message: "one"},
		{Recipient: "bob", Message: "two"},
	})
	assert.Equal(t, []string{"two"}, ok.lines)
}

func TestRenderNotice_SplitsLinesAndColors(t *testing.T) {
	lines := handlers.RenderNotice(combat.Notice{
		Recipient: "alice",
		Message:   "=== Arena (arena) ===\nSand and old blood.",
		Category:  combat.CategoryLocation,
	})
	assert.Len(t, lines, 2)
	assert.Equal(t, telnet.Colorize(telnet.BrightYellow, "=== Arena (arena) ==="), lines[0])

	plain := handlers.RenderNotice(combat.Notice{Message: "hi", Category: combat.CategoryInfo})
	assert.Equal(t, []string{"hi"}, plain)
}
