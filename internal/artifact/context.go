package artifact

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle state of the scoring service's model context.
type State string

const (
	StateUnloaded   State = "UNLOADED"
	StateReady      State = "READY"
	StateLoadFailed State = "LOAD_FAILED"
)

// ErrNotReady is returned for every request while the context is not in the
// ready state. The service keeps rejecting rather than serving a partially
// loaded model.
var ErrNotReady = errors.New("artifact: model is not loaded")

// Context is the explicitly constructed, immutable-after-initialization
// holder for the one shared loaded artifact. Its lifecycle is an explicit
// state machine, Unloaded -> Ready or Unloaded -> LoadFailed, rather than an
// implicit singleton. The only write is the one-time load; the lock scopes it
// so the artifact is either fully loaded or not visible at all.
type Context struct {
	mu      sync.RWMutex
	state   State
	art     *Artifact
	loadErr error
}

// NewContext creates a context in the Unloaded state.
func NewContext() *Context {
	return &Context{state: StateUnloaded}
}

// Load loads the artifact from the store exactly once. On failure the
// context transitions to LoadFailed, a terminal state in which every request
// is refused.
func (c *Context) Load(store Store, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUnloaded {
		return fmt.Errorf("artifact: load attempted in state %s", c.state)
	}

	art, err := store.Load(path)
	if err != nil {
		c.state = StateLoadFailed
		c.loadErr = err
		return err
	}

	c.art = art
	c.state = StateReady
	return nil
}

// State returns the current lifecycle state.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Artifact returns the loaded artifact, or ErrNotReady while the context is
// not in the Ready state.
func (c *Context) Artifact() (*Artifact, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateReady {
		return nil, ErrNotReady
	}
	return c.art, nil
}

// LoadError returns the error recorded by a failed load, if any.
func (c *Context) LoadError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}
