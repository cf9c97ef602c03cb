package room

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"sam-server/pkg/playable"
	"sam-server/pkg/playable/sam"
	"sam-server/pkg/table"
)

// ErrDealerClosed is returned when work is sent to a dealer that ended its shift
var ErrDealerClosed = errors.New("dealer is no longer running")

type state int

const (
	stateClientEvent state = iota
	stateTableEvent
)

// Dealer is the only writer of a table.
// Every change to the table happens in the run loop, is saved, then sent to every connected client.
type Dealer struct {
	pitBoss *PitBoss
	engine  *sam.Engine
	store   table.Store
	clock   quartz.Clock
	log     logrus.FieldLogger

	tableID     string
	// table must only be read or written from the run loop
	table       *sam.Table
	logMessages []*playable.LogMessage
	inProgress  atomic.Bool

	clients map[*Client]bool
	lock    sync.RWMutex

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
	stopped       chan struct{}
	closeOnce     sync.Once
	cancelTicker  context.CancelFunc
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, tbl *sam.Table) *Dealer {
	d := &Dealer{
		pitBoss:       pitBoss,
		engine:        pitBoss.engine,
		store:         pitBoss.store,
		clock:         pitBoss.clock,
		log:           pitBoss.logger.WithField("table", tbl.ID),
		tableID:       tbl.ID,
		table:         tbl,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
		stopped:       make(chan struct{}),
	}

	d.inProgress.Store(tbl.Game != nil && tbl.Game.InProgress())
	return d
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop and the turn clock
func (d *Dealer) StartShift() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancelTicker = cancel

	go d.runLoop()
	d.clock.TickerFunc(ctx, d.pitBoss.tickInterval, func() error {
		done := make(chan struct{})
		select {
		case d.execInRunLoop <- func() {
			d.tick()
			close(done)
		}:
		case <-ctx.Done():
			return nil
		}

		select {
		case <-done:
		case <-ctx.Done():
		}

		return nil
	}, "dealer", "tick")
}

func (d *Dealer) runLoop() {
	d.log.Debug("creating dealer run loop")
	defer close(d.stopped)
	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendClientState()
			case stateTableEvent:
				d.sendTable(d.Clients())
			}
		case fn := <-d.execInRunLoop:
			fn()
			if d.idle() {
				d.pitBoss.dealerIdle(d)
			}
		case <-d.close:
			d.log.Debug("terminating dealer run loop")
			return
		}
	}
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		if d.cancelTicker != nil {
			d.cancelTicker()
		}

		close(d.close)
	})
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.stateChanged <- stateClientEvent
	d.execInRunLoop <- func() {
		d.sendTable([]*Client{client})
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// idle returns true if nobody is watching and no turn clock is running
func (d *Dealer) idle() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return len(d.clients) == 0 && !d.inProgress.Load()
}

// exec runs fn in the run loop and waits for it to finish.
// ErrDealerClosed means fn never ran.
func (d *Dealer) exec(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case d.execInRunLoop <- func() {
		fn()
		close(done)
	}:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrDealerClosed
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrDealerClosed
		}
	}
}

// Apply performs the action for the player and returns the table as the player sees it
func (d *Dealer) Apply(ctx context.Context, player sam.Player, a sam.Action) (*sam.Table, error) {
	var next *sam.Table
	var err error
	if execErr := d.exec(ctx, func() {
		next, err = d.apply(ctx, player, a)
	}); execErr != nil {
		return nil, execErr
	}

	return next, err
}

// Enter seats the player and returns the table as the player sees it
func (d *Dealer) Enter(ctx context.Context, player sam.Player, password string) (*sam.Table, error) {
	var next *sam.Table
	var err error
	if execErr := d.exec(ctx, func() {
		next, err = d.enter(ctx, player, password)
	}); execErr != nil {
		return nil, execErr
	}

	return next, err
}

// NOTE: must only be called from the run loop
func (d *Dealer) apply(ctx context.Context, player sam.Player, a sam.Action) (*sam.Table, error) {
	now := d.clock.Now()
	next, err := d.engine.Apply(d.table, player, a)
	if err != nil {
		if errors.Is(err, sam.ErrSettlementInvariantViolation) {
			d.log.WithError(err).WithField("player", player.ID).Error("discarding transition")
		}

		return nil, err
	}

	prev := d.table
	if err := d.commit(ctx, next); err != nil {
		return nil, err
	}

	d.addLogMessages(logMessagesFor(prev, next, player.ID, a.Kind(), now))
	d.sendTable(d.Clients())
	return next.ForViewer(player.ID), nil
}

// NOTE: must only be called from the run loop
func (d *Dealer) enter(ctx context.Context, player sam.Player, password string) (*sam.Table, error) {
	next, err := d.engine.EnterTable(d.table, player, password)
	if err != nil {
		return nil, err
	}

	if err := d.commit(ctx, next); err != nil {
		return nil, err
	}

	d.sendClientState()
	d.sendTable(d.Clients())
	return next.ForViewer(player.ID), nil
}

// tick plays for a player who ran out of time
// NOTE: must only be called from the run loop
func (d *Dealer) tick() {
	now := d.clock.Now()
	if !d.engine.TurnExpired(d.table, now) {
		return
	}

	playerID := d.table.Game.CurrentPlayerID
	next, err := d.engine.ApplyTimeout(d.table, now)
	if err != nil {
		if errors.Is(err, sam.ErrSettlementInvariantViolation) {
			d.log.WithError(err).WithField("player", playerID).Error("discarding transition")
		} else {
			d.log.WithError(err).WithField("player", playerID).Warn("could not apply timeout")
		}

		return
	}

	prev := d.table
	if err := d.commit(context.Background(), next); err != nil {
		d.log.WithError(err).Error("could not save timeout")
		return
	}

	d.addLogMessages(timeoutLogMessages(prev, next, playerID, now))
	d.sendTable(d.Clients())
}

// commit saves the table and makes it the current one.
// If someone else saved the table in the meantime, the stored copy wins.
// NOTE: must only be called from the run loop
func (d *Dealer) commit(ctx context.Context, next *sam.Table) error {
	if err := d.store.Save(ctx, next); err != nil {
		if errors.Is(err, table.ErrConflict) {
			d.log.Warn("table changed underneath the dealer, reloading")
			d.reload(ctx)
		}

		return err
	}

	d.table = next
	d.inProgress.Store(next.Game != nil && next.Game.InProgress())
	return nil
}

// NOTE: must only be called from the run loop
func (d *Dealer) reload(ctx context.Context) {
	t, err := d.store.Get(ctx, d.tableID)
	if err != nil {
		d.log.WithError(err).Error("could not reload table")
		return
	}

	d.table = t
	d.inProgress.Store(t.Game != nil && t.Game.InProgress())
	d.sendTable(d.Clients())
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendTable(clients []*Client) {
	for _, client := range clients {
		client.Send(&playable.Response{
			Key:  playable.KeyTable,
			Data: newTableState(d.engine, d.table, client.player, d.logMessages),
		})
	}
}

func (d *Dealer) sendClientState() {
	connected := make(map[string]sam.Player)
	clients := d.Clients()
	for _, client := range clients {
		connected[client.player.ID] = client.player
	}

	players := make(map[string]*clientStatePlayer)
	for _, tp := range d.table.Players {
		if tp.IsRemoved {
			continue
		}

		_, isConnected := connected[tp.ID]
		delete(connected, tp.ID)
		players[tp.ID] = &clientStatePlayer{
			Player:      sam.Player{ID: tp.ID, Name: tp.Name},
			IsConnected: isConnected,
			IsSeated:    true,
		}
	}

	for id, player := range connected {
		players[id] = &clientStatePlayer{
			Player:      player,
			IsConnected: true,
			IsSeated:    false,
		}
	}

	for _, client := range clients {
		client.Send(&playable.Response{
			Key:  playable.KeyClientState,
			Data: players,
		})
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	if err := msg.Validate(); err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	a, err := sam.ParseAction(sam.Kind(msg.Action), msg.Payload)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	d.execInRunLoop <- func() {
		if _, err := d.apply(context.Background(), c.player, a); err != nil {
			d.log.WithError(err).WithField("client", c.String()).Debug("could not perform action")
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		c.Send(playable.OK(msg.Context))
	}
}

// closeClients asks every client to disconnect
func (d *Dealer) closeClients(reason string) {
	for _, client := range d.Clients() {
		client.close(reason)
	}
}
