package poll

import (
	"context"
	"sync"
	"time"

	"github.com/jarv/ytgoat/internal/api"
	"github.com/jarv/ytgoat/internal/logging"
)

type Config struct {
	MaxIdleChecks int
	// Factor is multiplied by the idle count to get the next delay
	Factor time.Duration
	// MinDelay is the lower bound of every delay
	MinDelay time.Duration
}

// Token identifies one poll session. Observations made with the token of a
// finished session stop that session's loop without touching the current one.
type Token uint64

// Step tells the loop what to do after an observation
type Step struct {
	Refresh bool
	Stop    bool
	Delay   time.Duration
}

// Controller decides when to keep polling the backend. Only one session is
// active at a time. It is safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	cfg     Config
	active  bool
	current Token
	idle    int
}

func New(cfg Config) *Controller {
	if cfg.MaxIdleChecks < 1 {
		cfg.MaxIdleChecks = 1
	}
	return &Controller{cfg: cfg}
}

// Start begins a session. When one is already running it returns that
// session's token and false.
func (c *Controller) Start() (Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return c.current, false
	}
	c.active = true
	c.current++
	c.idle = 0
	return c.current, true
}

// Stop ends the current session. A loop notices on its next observation.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	c.idle = 0
}

func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) IdleCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idle
}

func (c *Controller) SetConfig(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cfg.MaxIdleChecks < 1 {
		cfg.MaxIdleChecks = 1
	}
	c.cfg = cfg
}

// Observe records the state fetched by the loop holding tok. The result is
// always refreshed, even when the session has since been stopped, since the
// fetch already happened.
func (c *Controller) Observe(tok Token, state api.State) Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active || tok != c.current {
		return Step{Refresh: true, Stop: true}
	}

	if state == api.StateIdle {
		c.idle++
		if c.idle >= c.cfg.MaxIdleChecks {
			logging.Debug("Backend idle, polling stopped", "checks", c.idle)
			c.idle = 0
			c.active = false
			return Step{Refresh: true, Stop: true}
		}
	} else {
		c.idle = 0
	}

	delay := c.cfg.Factor * time.Duration(c.idle)
	if delay < c.cfg.MinDelay {
		delay = c.cfg.MinDelay
	}
	return Step{Refresh: true, Delay: delay}
}

// Run drives a session on the calling goroutine until the backend has been
// idle for MaxIdleChecks observations, Stop is called or ctx is done. It
// returns false without doing anything when a session is already active.
func (c *Controller) Run(ctx context.Context, fetch func(context.Context) api.State, refresh func(context.Context, api.State)) bool {
	tok, ok := c.Start()
	if !ok {
		return false
	}

	for {
		if ctx.Err() != nil {
			c.stopSession(tok)
			return true
		}

		state := fetch(ctx)
		step := c.Observe(tok, state)
		if step.Refresh {
			refresh(ctx, state)
		}
		if step.Stop {
			return true
		}

		timer := time.NewTimer(step.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.stopSession(tok)
			return true
		case <-timer.C:
		}
	}
}

// stopSession stops the session only if tok is still current
func (c *Controller) stopSession(tok Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == tok {
		c.active = false
		c.idle = 0
	}
}
