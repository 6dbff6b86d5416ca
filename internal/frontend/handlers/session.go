// Package handlers implements the Telnet session flow: login, character
// creation, and the command loop that feeds the combat engine.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/frontend/telnet"
	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/combat"
	"github.com/cory-johannsen/duelcore/internal/game/roster"
	"github.com/cory-johannsen/duelcore/internal/game/ruleset"
	"github.com/cory-johannsen/duelcore/internal/game/world"
	"github.com/cory-johannsen/duelcore/internal/observability"
)

// Characters looks up stored characters.
type Characters interface {
	GetByName(ctx context.Context, name string) (*character.Character, error)
}

// Places answers where characters arrive and what they see there.
type Places interface {
	StartMap() string
	SpawnPoint(mapID string) world.Point
	Describe(mapID string) string
}

// Dispatcher runs a player's text command.
type Dispatcher interface {
	Dispatch(actor, line string) []combat.Notice
}

// Abandoner ends a departing player's combat.
type Abandoner interface {
	Abandon(actor string) []combat.Notice
}

// Persister queues character snapshots for saving.
type Persister interface {
	Enqueue(c *character.Character)
}

// Deps are the collaborators of a SessionHandler.
type Deps struct {
	Roster     *roster.Manager
	Characters Characters
	Jobs       *ruleset.JobRegistry
	Places     Places
	Commands   Dispatcher
	Combat     Abandoner
	Persist    Persister
	Hub        *Hub
	Logger     *zap.Logger
}

// SessionHandler implements telnet.SessionHandler for players.
type SessionHandler struct {
	d Deps
}

// NewSessionHandler creates a SessionHandler.
//
// Precondition: every field of d must be non-nil.
func NewSessionHandler(d Deps) *SessionHandler {
	return &SessionHandler{d: d}
}

// errQuit ends a session at the player's request.
var errQuit = errors.New("player quit")

// HandleSession logs a player in, runs their commands until they quit or the
// connection drops, then takes them out of the world.
//
// Postcondition: the player is no longer in the roster or hub, and a final
// snapshot has been queued for saving.
func (h *SessionHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	_ = conn.WriteLine(telnet.Colorize(telnet.BrightYellow, "Welcome to the arena."))

	c, err := h.login(ctx, conn)
	if errors.Is(err, errQuit) {
		_ = conn.WriteLine("Goodbye.")
		return nil
	}
	if err != nil {
		return err
	}

	name := c.Name
	logger := observability.ForCharacter(h.d.Logger, name)
	h.d.Hub.Register(name, conn)
	defer h.leave(name, logger)

	logger.Info("character entered the world", zap.String("map", c.Location))
	h.d.Hub.Deliver([]combat.Notice{
		{Recipient: name, Message: h.d.Places.Describe(c.Location), Category: combat.CategoryLocation},
		{Recipient: name, Message: "Type help for a list of commands.", Category: combat.CategoryInfo},
	})

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_ = conn.WritePrompt(h.prompt(name))
		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			continue
		case "quit", "exit":
			_ = conn.WriteLine("Goodbye.")
			return nil
		}
		h.d.Hub.Deliver(h.d.Commands.Dispatch(name, line))
	}
}

// login prompts until the player names a character that is not already
// online, creating it if it does not exist.
//
// Postcondition: the returned character is registered in the roster.
func (h *SessionHandler) login(ctx context.Context, conn *telnet.Conn) (*character.Character, error) {
	for {
		name, err := ask(conn, "Character name: ")
		if err != nil {
			return nil, err
		}
		if err := character.ValidateName(name); err != nil {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Names may use letters, digits and underscores only."))
			continue
		}
		if h.d.Roster.Exists(name) {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "That character is already playing."))
			continue
		}

		c, err := h.d.Characters.GetByName(ctx, name)
		switch {
		case errors.Is(err, character.ErrNotFound):
			c, err = h.create(conn, name)
			if err != nil {
				return nil, err
			}
			h.d.Persist.Enqueue(c)
		case err != nil:
			return nil, fmt.Errorf("loading character %q: %w", name, err)
		case c.Banned:
			logger := observability.ForCharacter(h.d.Logger, name)
			logger.Warn("banned character refused")
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "That character has been banned."))
			continue
		}

		c.Combat = nil
		if err := h.d.Roster.Add(c); err != nil {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "That character is already playing."))
			continue
		}
		return c, nil
	}
}

// create runs job selection for a new character named name.
func (h *SessionHandler) create(conn *telnet.Conn, name string) (*character.Character, error) {
	_ = conn.WriteLine(fmt.Sprintf("%s is a new character. Choose a job:", name))
	for _, j := range h.d.Jobs.Selectable() {
		_ = conn.WriteLine(fmt.Sprintf("  %s%-8s%s %s", telnet.Green, j.ID, telnet.Reset, j.Description))
	}
	start := h.d.Places.StartMap()
	spawn := h.d.Places.SpawnPoint(start)
	for {
		choice, err := ask(conn, "Job: ")
		if err != nil {
			return nil, err
		}
		c, err := character.Build(name, strings.ToLower(choice), h.d.Jobs, start, spawn.X, spawn.Y)
		if err != nil {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "There is no such job."))
			continue
		}
		h.d.Logger.Info("character created", zap.String("character", name), zap.String("job", c.JobID))
		return c, nil
	}
}

// prompt renders the status prompt of name.
func (h *SessionHandler) prompt(name string) string {
	locked, unlock := h.d.Roster.Lock(name)
	defer unlock()
	c, ok := locked.Get(name)
	if !ok {
		return "> "
	}
	tag := ""
	switch st := c.Combat.(type) {
	case *character.PvEState:
		if st.Monster != nil {
			tag = " vs " + st.Monster.Name
		}
	case *character.PvPState:
		tag = " vs " + st.Opponent
	}
	return telnet.Colorize(telnet.Dim, fmt.Sprintf("[HP %d/%d MP %d/%d%s] ", c.DisplayHP(), c.MaxHP, c.MP, c.MaxMP, tag)) + "> "
}

// leave ends name's combat, queues its final snapshot and removes it from
// the world.
func (h *SessionHandler) leave(name string, logger *zap.Logger) {
	var others []combat.Notice
	for _, n := range h.d.Combat.Abandon(name) {
		if n.Recipient != name {
			others = append(others, n)
		}
	}
	h.d.Hub.Unregister(name)
	h.d.Hub.Deliver(others)

	locked, unlock := h.d.Roster.Lock(name)
	if c, ok := locked.Get(name); ok {
		h.d.Persist.Enqueue(c)
	}
	unlock()
	h.d.Roster.Remove(name)
	logger.Info("character left the world")
}

// ask writes prompt and returns the trimmed reply. A reply of "quit"
// returns errQuit.
func ask(conn *telnet.Conn, prompt string) (string, error) {
	_ = conn.WritePrompt(prompt)
	line, err := conn.ReadLine()
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "quit") {
		return "", errQuit
	}
	return line, nil
}
