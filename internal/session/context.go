package session

import (
	"sync"

	"github.com/flappyballoon/balloon/pkg/core"
)

// Context holds who is playing and which run of this session is in progress.
// It is written by background handlers and read by the game loop and loggers.
type Context struct {
	mu     sync.RWMutex
	Player *core.Player
	Run    int
}

// NewContext creates a new Context with an anonymous player
func NewContext() *Context {
	return &Context{
		Player: &core.Player{Username: "anonymous"},
	}
}

// GetPlayer returns a copy of the current player
func (c *Context) GetPlayer() core.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.Player
}

// PlayerName returns the current player's username
func (c *Context) PlayerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Player.Username
}

// SetPlayer sets the logged-in player
func (c *Context) SetPlayer(p core.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Player = &p
}

// NextRun starts a new run and returns its number, starting at 1
func (c *Context) NextRun() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Run++
	return c.Run
}

// RunNumber returns the number of the current (or last) run, 0 before the first
func (c *Context) RunNumber() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Run
}
