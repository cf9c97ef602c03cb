package sam

import (
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"sam-server/internal/rng"
	"sam-server/internal/util"
)

// Engine applies player actions to tables.
// It holds no table state, every call receives the table and returns a new one.
type Engine struct {
	options Options
	clock   quartz.Clock
	rng     rng.Generator
	logger  logrus.FieldLogger
	newID   func(prefix string) string
}

// NewEngine returns a new engine
func NewEngine(logger logrus.FieldLogger, clock quartz.Clock, gen rng.Generator, options Options) (*Engine, error) {
	if err := options.validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if clock == nil {
		clock = quartz.NewReal()
	}

	if gen == nil {
		gen = rng.Crypto{}
	}

	return &Engine{
		options: options,
		clock:   clock,
		rng:     gen,
		logger:  logger,
		newID:   util.GenerateID,
	}, nil
}

// Options returns the engine options
func (e *Engine) Options() Options {
	return e.options
}

// State tells the presentation layer how to render an action
type State struct {
	Visible  bool        `json:"visible"`
	Disabled bool        `json:"disabled"`
	Value    interface{} `json:"value,omitempty"`
}

// Allowed returns true if the action can be applied
func (s State) Allowed() bool {
	return s.Visible && !s.Disabled
}

type actionContext struct {
	e     *Engine
	table *Table
	game  *Game
	actor *GamePlayer
	now   time.Time
	// ignoreDeadline is set when the engine acts on behalf of a player who ran out of time
	ignoreDeadline bool
}

func (e *Engine) newContext(t *Table, actorID string, now time.Time) *actionContext {
	return &actionContext{
		e:     e,
		table: t,
		game:  t.Game,
		actor: t.Game.Player(actorID),
		now:   now,
	}
}

func (c *actionContext) deadlinePassed() bool {
	return !c.ignoreDeadline && c.e.TurnExpired(c.table, c.now)
}

func (c *actionContext) log() logrus.FieldLogger {
	return c.e.logger.WithFields(logrus.Fields{
		"table": c.table.ID,
		"game":  c.game.ID,
	})
}

// Check returns the visibility and enablement of an action for the player
func (e *Engine) Check(t *Table, actor Player, a Action) State {
	if t == nil || t.Game == nil {
		return State{}
	}

	c := e.newContext(t, actor.ID, e.clock.Now())
	if c.actor == nil {
		return State{}
	}

	return a.check(c)
}

// Actions returns the state of every action for the player
func (e *Engine) Actions(t *Table, actor Player) map[Kind]State {
	states := make(map[Kind]State, len(Kinds))
	for _, kind := range Kinds {
		a, _ := emptyAction(kind)
		states[kind] = e.Check(t, actor, a)
	}

	return states
}

// Apply performs the action and returns the new table.
// The table passed in is never modified.
func (e *Engine) Apply(t *Table, actor Player, a Action) (*Table, error) {
	return e.apply(t, actor.ID, a, e.clock.Now(), false)
}

func (e *Engine) apply(t *Table, actorID string, a Action, now time.Time, ignoreDeadline bool) (*Table, error) {
	if t == nil || t.Game == nil {
		return nil, fmt.Errorf("%w: no game", ErrActionNotAllowed)
	}

	c := e.newContext(t.Clone(), actorID, now)
	c.ignoreDeadline = ignoreDeadline
	if c.actor == nil {
		return nil, ErrPlayerNotSeated
	}

	if state := a.check(c); !state.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrActionNotAllowed, a.Kind())
	}

	if err := a.apply(c); err != nil {
		return nil, err
	}

	c.table.UpdatedAt = c.now
	c.log().WithFields(logrus.Fields{
		"player": actorID,
		"action": a.Kind(),
		"state":  c.table.Game.State,
	}).Debug("applied action")

	return c.table, nil
}
