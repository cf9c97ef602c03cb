package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"sam-server/internal/config"
	"sam-server/internal/rng"
	"sam-server/pkg/playable/sam"
)

// CLI plays tables against themselves and checks that every game settles to zero
type CLI struct {
	Tables  int   `default:"100" help:"Number of tables to simulate"`
	Games   int   `default:"20" help:"Games played at each table"`
	Players int   `default:"4" help:"Players at each table (2-5)"`
	BO      int   `default:"0" help:"Best-of length, 0 plays for chips"`
	Star    bool  `help:"Every player opts in to the star of hope"`
	Workers int   `default:"4" help:"Tables simulated in parallel"`
	Seed    int64 `default:"0" help:"RNG seed (0 for random)"`
	Verbose bool  `short:"v" help:"Verbose logging"`
}

// maxTurns bounds a single game, every game ends well before it
const maxTurns = 1000

type results struct {
	games      atomic.Int64
	tigers     atomic.Int64
	chipsMoved atomic.Int64
}

var errStuck = errors.New("no player can act")

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	if cli.Players < 2 || cli.Players > sam.MaxPlayers {
		ctx.Fatalf("players must be between 2 and %d", sam.MaxPlayers)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if cli.Verbose {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	}

	opts := config.Instance().EngineOptions()
	res := &results{}
	start := time.Now()

	g := new(errgroup.Group)
	g.SetLimit(cli.Workers)
	for i := 0; i < cli.Tables; i++ {
		seed := cli.Seed + int64(i)
		g.Go(func() error {
			engine, err := sam.NewEngine(logger, quartz.NewReal(), rng.NewSeeded(seed), opts)
			if err != nil {
				return err
			}

			if err := simulateTable(engine, cli, res); err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("simulation failed")
	}

	fmt.Printf("seed:        %d\n", cli.Seed)
	fmt.Printf("games:       %d\n", res.games.Load())
	fmt.Printf("tigers:      %d\n", res.tigers.Load())
	fmt.Printf("chips moved: %d\n", res.chipsMoved.Load())
	fmt.Printf("elapsed:     %s\n", time.Since(start).Round(time.Millisecond))
}

func simulateTable(engine *sam.Engine, cli CLI, res *results) error {
	players := make([]sam.Player, cli.Players)
	for i := range players {
		players[i] = sam.Player{ID: fmt.Sprintf("player_%d", i), Name: fmt.Sprintf("Bot %d", i)}
	}

	t, err := engine.NewTable(players[0], sam.TableParams{Name: "simulation", BO: cli.BO, PlayerLimit: cli.Players})
	if err != nil {
		return err
	}

	for _, p := range players[1:] {
		if t, err = engine.EnterTable(t, p, ""); err != nil {
			return err
		}
	}

	for game := 0; game < cli.Games; game++ {
		if t, err = playGame(engine, t, players, cli.Star); err != nil {
			return fmt.Errorf("game %d: %w", game, err)
		}

		if err := audit(engine, t, res); err != nil {
			return fmt.Errorf("game %d: %w", game, err)
		}

		next, err := nextGame(engine, t, players)
		if err != nil {
			return fmt.Errorf("game %d: %w", game, err)
		}

		t = next
	}

	return nil
}

func playGame(engine *sam.Engine, t *sam.Table, players []sam.Player, star bool) (*sam.Table, error) {
	var err error
	for _, p := range players {
		if ready, _ := engine.Check(t, p, sam.Ready{}).Value.(bool); !ready {
			if t, err = engine.Apply(t, p, sam.Ready{}); err != nil {
				return nil, err
			}
		}

		if state := engine.Check(t, p, sam.Star{}); state.Visible && state.Value != star {
			if t, err = engine.Apply(t, p, sam.Star{}); err != nil {
				return nil, err
			}
		}
	}

	if t, err = applyFirstAllowed(engine, t, players, sam.StartGame{}); err != nil {
		return nil, err
	}

	for turn := 0; t.Game.InProgress(); turn++ {
		if turn == maxTurns {
			return nil, fmt.Errorf("%w: game did not end after %d turns", errStuck, maxTurns)
		}

		playerID, a, ok := engine.DefaultAction(t)
		if !ok {
			return nil, errStuck
		}

		if t, err = engine.Apply(t, sam.Player{ID: playerID}, a); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func nextGame(engine *sam.Engine, t *sam.Table, players []sam.Player) (*sam.Table, error) {
	next, err := applyFirstAllowed(engine, t, players, sam.NewGame{})
	if errors.Is(err, errStuck) {
		// a best-of match is over
		return applyFirstAllowed(engine, t, players, sam.ResetSession{})
	}

	return next, err
}

func applyFirstAllowed(engine *sam.Engine, t *sam.Table, players []sam.Player, a sam.Action) (*sam.Table, error) {
	for _, p := range players {
		if engine.Check(t, p, a).Allowed() {
			return engine.Apply(t, p, a)
		}
	}

	return nil, fmt.Errorf("%w: %s", errStuck, a.Kind())
}

func audit(engine *sam.Engine, t *sam.Table, res *results) error {
	if t.Game.WinnerID == "" {
		return errors.New("game ended without a winner")
	}

	if _, err := engine.Settle(t); err != nil {
		return err
	}

	sum := 0
	moved := 0
	for _, gp := range t.Game.Players {
		sum += gp.ChipCount
		if gp.ChipCount > 0 {
			moved += gp.ChipCount
		}

		if gp.LastAction == sam.LastActionTiger {
			res.tigers.Add(1)
		}
	}

	if sum != 0 {
		return fmt.Errorf("chip counts sum to %d", sum)
	}

	res.games.Add(1)
	res.chipsMoved.Add(int64(moved))
	return nil
}
