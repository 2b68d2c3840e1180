// Command goldrush runs the two-team gold rush simulation and serves a
// live snapshot feed of it over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"goldrush/board"
	"goldrush/config"
	"goldrush/server"
	"goldrush/simulation"
)

var (
	configPath  *string
	addr        *string
	goldTotal   *int
	steps       *int
	seed        *int64
	depositRed  *string
	depositBlue *string
	stepRate    *time.Duration
)

// TODO: per 12-factor rules these would come from env/flags uniformly;
// flags-override-file is good enough for a single binary.
func init() {
	configPath = flag.String("config", "config.yaml", "path to the simulation config file")
	addr = flag.String("addr", ":8080", "address to serve the snapshot feed on")
	goldTotal = flag.Int("gold", -1, "override gold_total (-1: use config)")
	steps = flag.Int("steps", -1, "override step count (-1: use config)")
	seed = flag.Int64("seed", -1, "override rng seed (-1: use config)")
	depositRed = flag.String("deposit-red", "", "override red deposit position as x,y")
	depositBlue = flag.String("deposit-blue", "", "override blue deposit position as x,y")
	stepRate = flag.Duration("step-rate", 50*time.Millisecond, "wall-clock time between simulation steps")
}

func parsePosition(spec string) (board.Position, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return board.Position{}, fmt.Errorf("expected x,y, got %q", spec)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return board.Position{}, fmt.Errorf("bad x in %q: %w", spec, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return board.Position{}, fmt.Errorf("bad y in %q: %w", spec, err)
	}
	return board.Position{X: x, Y: y}, nil
}

func loadConfig() (config.SimConfig, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.SimConfig{}, err
	}

	if *goldTotal >= 0 {
		cfg.GoldTotal = *goldTotal
	}
	if *steps >= 0 {
		cfg.Steps = *steps
	}
	if *seed >= 0 {
		cfg.Seed = *seed
	}
	if *depositRed != "" {
		pos, err := parsePosition(*depositRed)
		if err != nil {
			return config.SimConfig{}, fmt.Errorf("deposit-red: %w", err)
		}
		cfg.Red.DepositX, cfg.Red.DepositY = pos.X, pos.Y
	}
	if *depositBlue != "" {
		pos, err := parsePosition(*depositBlue)
		if err != nil {
			return config.SimConfig{}, fmt.Errorf("deposit-blue: %w", err)
		}
		cfg.Blue.DepositX, cfg.Blue.DepositY = pos.X, pos.Y
	}
	return cfg, nil
}

func buildController(cfg config.SimConfig) *simulation.Controller {
	rng := rand.New(rand.NewSource(cfg.Seed))
	simCfg := simulation.Config{
		Width:     cfg.Width,
		Height:    cfg.Height,
		GoldTotal: cfg.GoldTotal,
		Red: simulation.TeamConfig{
			Team:       board.Red,
			Size:       cfg.Red.Size,
			DepositPos: cfg.RedDeposit(),
		},
		Blue: simulation.TeamConfig{
			Team:       board.Blue,
			Size:       cfg.Blue.Size,
			DepositPos: cfg.BlueDeposit(),
		},
		Weights: cfg.AgentWeights(),
	}
	return simulation.NewController(simCfg, rng)
}

func runApp(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	controller := buildController(cfg)
	srv := server.New(*addr, controller)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return srv.Serve(groupCtx)
	})

	group.Go(func() error {
		defer stop()
		reached := server.RunSimulation(groupCtx, srv, *stepRate, cfg.Steps)
		red, blue := controller.DepositTotals()
		fmt.Printf("simulation halted after %d/%d steps: red=%d blue=%d\n", reached, cfg.Steps, red, blue)
		return nil
	})

	return group.Wait()
}

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := runApp(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
