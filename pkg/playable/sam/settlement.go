package sam

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Reason describes why chips or wins moved
type Reason string

// settlement reasons
const (
	ReasonRoundBonus  Reason = "roundBonus"
	ReasonBestOf      Reason = "bestOf"
	ReasonTigerKilled Reason = "tigerKilled"
	ReasonTigerWon    Reason = "tigerWon"
	ReasonOrdinary    Reason = "ordinary"
)

// Settlement is one chip computation.
// Deltas always sum to zero.
type Settlement struct {
	Reason        Reason         `json:"reason"`
	Deltas        map[string]int `json:"deltas"`
	Wins          map[string]int `json:"wins,omitempty"`
	FaultPlayerID string         `json:"faultPlayerId,omitempty"`
}

func newSettlement(reason Reason, players []GamePlayer) *Settlement {
	s := &Settlement{
		Reason: reason,
		Deltas: make(map[string]int, len(players)),
	}

	for _, gp := range players {
		s.Deltas[gp.ID] = 0
	}

	return s
}

func (s *Settlement) transfer(fromID, toID string, amount int) {
	s.Deltas[fromID] -= amount
	s.Deltas[toID] += amount
}

// Sum returns the total of all deltas
func (s *Settlement) Sum() int {
	sum := 0
	for _, d := range s.Deltas {
		sum += d
	}

	return sum
}

func (s *Settlement) verify() error {
	if sum := s.Sum(); sum != 0 {
		return &SettlementInvariantViolation{Reason: string(s.Reason), Sum: sum}
	}

	return nil
}

func (s *Settlement) fields() logrus.Fields {
	ids := make([]string, 0, len(s.Deltas))
	for id := range s.Deltas {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	fields := logrus.Fields{"reason": s.Reason}
	for _, id := range ids {
		fields[id] = s.Deltas[id]
	}

	return fields
}

// stake scales a base stake when both players opted into star of hope
func (e *Engine) stake(base int, a, b GamePlayer) int {
	if a.StarOfHope && b.StarOfHope {
		return base * e.options.StarOfHopeMultiplier
	}

	return base
}

// roundSettlement charges the player before each four-of-a-kind in the round one tiger stake
func (e *Engine) roundSettlement(t *Table, round int) *Settlement {
	g := t.Game
	s := newSettlement(ReasonRoundBonus, g.Players)
	if t.IsBestOf() {
		return s
	}

	var plays []PlayHistory
	for _, ph := range g.PlayHistory {
		if ph.Round == round {
			plays = append(plays, ph)
		}
	}

	for i := 1; i < len(plays); i++ {
		if !IsFourOfAKind(plays[i].Cards) {
			continue
		}

		prev := g.Player(plays[i-1].PlayerID)
		cur := g.Player(plays[i].PlayerID)
		if prev == nil || cur == nil || prev.ID == cur.ID {
			continue
		}

		s.transfer(prev.ID, cur.ID, e.stake(e.options.Stakes.Tiger, *prev, *cur))
	}

	return s
}

// gameSettlement is the end of game computation for the winner recorded on the game
func (e *Engine) gameSettlement(t *Table) *Settlement {
	g := t.Game
	ready := rotate(g.ReadyPlayers(), g.WinnerID)
	winner := ready[0]
	opponents := ready[1:]

	if t.IsBestOf() {
		s := newSettlement(ReasonBestOf, ready)
		s.Wins = map[string]int{winner.ID: 1}
		return s
	}

	stakes := e.options.Stakes
	if tigers := g.tigers(); len(tigers) > 0 {
		tiger := tigers[0]
		if tiger.ID != winner.ID {
			s := newSettlement(ReasonTigerKilled, ready)
			amount := e.stake(stakes.Tiger, tiger, winner) * len(opponents)
			if last := g.lastPlay(); last != nil && IsFourOfAKind(last.Cards) {
				amount *= 2
			}

			s.transfer(tiger.ID, winner.ID, amount)
			return s
		}

		s := newSettlement(ReasonTigerWon, ready)
		for _, op := range opponents {
			s.transfer(op.ID, winner.ID, e.stake(stakes.Tiger, winner, op))
		}

		return s
	}

	s := newSettlement(ReasonOrdinary, ready)
	s.FaultPlayerID = g.faultPlayerID()
	for _, op := range opponents {
		base := stakes.OneCard * len(op.Cards)
		if len(op.Cards) == CardsPerPlayer {
			base = stakes.Fired
		}

		payer := op.ID
		if s.FaultPlayerID != "" {
			payer = s.FaultPlayerID
		}

		s.transfer(payer, winner.ID, e.stake(base, winner, op))
	}

	return s
}

// faultPlayerID finds the player who pays the village: the seat before the
// winner, when they acted in the latest round and held a card that could have
// stopped the winning single
func (g *Game) faultPlayerID() string {
	last := g.lastPlay()
	ready := rotate(g.ReadyPlayers(), g.WinnerID)
	if last == nil || len(last.Cards) != 1 || len(ready) <= 2 {
		return ""
	}

	highest := ready[1].LastPlayedRound
	for _, gp := range ready[2:] {
		if gp.LastPlayedRound > highest {
			highest = gp.LastPlayedRound
		}
	}

	checking := ready[len(ready)-1]
	if checking.LastPlayedRound != highest {
		return ""
	}

	if !ShouldPayVillage(checking.Cards, last.Cards) {
		return ""
	}

	return checking.ID
}

// applySettlement verifies the settlement and moves the chips and wins onto the players
func (c *actionContext) applySettlement(s *Settlement) error {
	if err := s.verify(); err != nil {
		c.log().WithError(err).WithFields(s.fields()).Error("settlement does not balance")
		return err
	}

	final := s.Reason != ReasonRoundBonus
	for i := range c.game.Players {
		gp := &c.game.Players[i]
		gp.ChipCount += s.Deltas[gp.ID]
		gp.Wins += s.Wins[gp.ID]
		if final {
			gp.PaidVillage = gp.ID == s.FaultPlayerID && s.FaultPlayerID != ""
		}
	}

	c.log().WithFields(s.fields()).Debug("settled")
	return nil
}

// settleRound runs the four-of-a-kind bonus for the round that just closed
func (c *actionContext) settleRound() error {
	if err := c.applySettlement(c.e.roundSettlement(c.table, c.game.Round)); err != nil {
		return err
	}

	c.table.syncRoster()
	return nil
}

// settleGame runs the bonus for the final round and the end of game settlement
func (c *actionContext) settleGame() error {
	if err := c.applySettlement(c.e.roundSettlement(c.table, c.game.Round)); err != nil {
		return err
	}

	if err := c.applySettlement(c.e.gameSettlement(c.table)); err != nil {
		return err
	}

	c.table.syncRoster()
	return nil
}

// Settle returns the end of game settlement of an ended game, for auditing
func (e *Engine) Settle(t *Table) (*Settlement, error) {
	if t == nil || t.Game == nil || t.Game.State != PhaseEnded || t.Game.WinnerID == "" {
		return nil, ErrActionNotAllowed
	}

	s := e.gameSettlement(t)
	return s, s.verify()
}
