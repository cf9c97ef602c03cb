package room

import (
	"context"
	"errors"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"sam-server/pkg/playable/sam"
	"sam-server/pkg/table"
)

const resumePageSize = 50

type dealerReply struct {
	dealer *Dealer
	err    error
}

type dealerRequest struct {
	ctx     context.Context
	tableID string
	reply   chan dealerReply
}

type closeRequest struct {
	tableID string
	reason  string
	done    chan struct{}
}

// PitBoss is responsible for dispatching players to dealers.
// There is at most one dealer per table.
type PitBoss struct {
	engine       *sam.Engine
	store        table.Store
	clock        quartz.Clock
	tickInterval time.Duration
	logger       logrus.FieldLogger

	dealers    map[string]*Dealer
	connect    chan *Client
	disconnect chan *Client
	requests   chan *dealerRequest
	idle       chan *Dealer
	closeTable chan *closeRequest
	close      chan bool
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(engine *sam.Engine, store table.Store, clock quartz.Clock, tickInterval time.Duration, logger logrus.FieldLogger) *PitBoss {
	if clock == nil {
		clock = quartz.NewReal()
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if tickInterval <= 0 {
		tickInterval = time.Second
	}

	return &PitBoss{
		engine:       engine,
		store:        store,
		clock:        clock,
		tickInterval: tickInterval,
		logger:       logger,
		dealers:      make(map[string]*Dealer),
		connect:      make(chan *Client, 256),
		disconnect:   make(chan *Client, 256),
		requests:     make(chan *dealerRequest, 256),
		idle:         make(chan *Dealer, 256),
		closeTable:   make(chan *closeRequest, 16),
		close:        make(chan bool),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

// EndShift stops the run loop and every dealer
func (p *PitBoss) EndShift() {
	close(p.close)
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			p.logger.WithField("client", client.String()).Debug("client connected")
			dealer, err := p.dealer(context.Background(), client.tableID)
			if err != nil {
				p.logger.WithError(err).WithField("client", client.String()).Warn("could not seat client")
				client.Send(newErrorResponse("", err))
				client.close(err.Error())
				continue
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			p.logger.WithField("client", client.String()).Debug("client disconnected")
			dealer, found := p.dealers[client.tableID]
			if !found || client.dealer != dealer {
				continue
			}

			if dealer.RemoveClient(client) && dealer.idle() {
				p.endDealer(dealer)
			}
		case req := <-p.requests:
			dealer, err := p.dealer(req.ctx, req.tableID)
			req.reply <- dealerReply{dealer: dealer, err: err}
		case dealer := <-p.idle:
			if p.dealers[dealer.tableID] == dealer && dealer.idle() {
				p.endDealer(dealer)
			}
		case req := <-p.closeTable:
			if dealer, found := p.dealers[req.tableID]; found {
				dealer.closeClients(req.reason)
				p.endDealer(dealer)
			}

			close(req.done)
		case <-p.close:
			for _, dealer := range p.dealers {
				dealer.EndShift()
			}

			p.dealers = make(map[string]*Dealer)
			return
		}
	}
}

// dealer returns the running dealer for the table, starting one if needed
// NOTE: must only be called from the run loop
func (p *PitBoss) dealer(ctx context.Context, tableID string) (*Dealer, error) {
	if dealer, found := p.dealers[tableID]; found {
		return dealer, nil
	}

	tbl, err := p.store.Get(ctx, tableID)
	if err != nil {
		return nil, err
	}

	dealer := NewDealer(p, tbl)
	dealer.StartShift()
	p.dealers[tableID] = dealer
	return dealer, nil
}

// NOTE: must only be called from the run loop
func (p *PitBoss) endDealer(dealer *Dealer) {
	p.logger.WithField("table", dealer.tableID).Debug("dealer ending shift")
	dealer.EndShift()
	delete(p.dealers, dealer.tableID)
}

// dealerIdle is called by a dealer from its run loop
func (p *PitBoss) dealerIdle(dealer *Dealer) {
	select {
	case p.idle <- dealer:
	default:
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}

// Dealer returns the dealer for the table
func (p *PitBoss) Dealer(ctx context.Context, tableID string) (*Dealer, error) {
	req := &dealerRequest{
		ctx:     ctx,
		tableID: tableID,
		reply:   make(chan dealerReply, 1),
	}

	select {
	case p.requests <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case reply := <-req.reply:
		return reply.dealer, reply.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// withDealer runs fn against the table's dealer.
// A dealer can end its shift between the lookup and the call, the call is then retried once with a new dealer.
func (p *PitBoss) withDealer(ctx context.Context, tableID string, fn func(*Dealer) (*sam.Table, error)) (*sam.Table, error) {
	for attempt := 0; ; attempt++ {
		dealer, err := p.Dealer(ctx, tableID)
		if err != nil {
			return nil, err
		}

		t, err := fn(dealer)
		if errors.Is(err, ErrDealerClosed) && attempt == 0 {
			continue
		}

		return t, err
	}
}

// Apply performs the action at the table
func (p *PitBoss) Apply(ctx context.Context, tableID string, player sam.Player, a sam.Action) (*sam.Table, error) {
	return p.withDealer(ctx, tableID, func(d *Dealer) (*sam.Table, error) {
		return d.Apply(ctx, player, a)
	})
}

// Enter seats the player at the table
func (p *PitBoss) Enter(ctx context.Context, tableID string, player sam.Player, password string) (*sam.Table, error) {
	return p.withDealer(ctx, tableID, func(d *Dealer) (*sam.Table, error) {
		return d.Enter(ctx, player, password)
	})
}

// CloseTable disconnects everyone watching the table and stops its dealer
func (p *PitBoss) CloseTable(ctx context.Context, tableID, reason string) error {
	req := &closeRequest{
		tableID: tableID,
		reason:  reason,
		done:    make(chan struct{}),
	}

	select {
	case p.closeTable <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Resume starts a dealer for every stored table with a game in progress, so turns keep expiring after a restart
func (p *PitBoss) Resume(ctx context.Context) (int, error) {
	resumed := 0
	for start := 0; ; start += resumePageSize {
		summaries, err := p.store.List(ctx, start, resumePageSize)
		if err != nil {
			return resumed, err
		}

		for _, s := range summaries {
			if s.State != sam.PhaseHandChecking && s.State != sam.PhasePlaying {
				continue
			}

			if _, err := p.Dealer(ctx, s.ID); err != nil {
				return resumed, err
			}

			resumed++
		}

		if len(summaries) < resumePageSize {
			return resumed, nil
		}
	}
}
