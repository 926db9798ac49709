// Package experiments benchmarks the search engine on a synthetic game
// across rollout worker pool sizes and records the results as CSV.
package experiments

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Lobotuerk/MonteCarloTreeSearch/experiments/metrics"
	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
	"github.com/Lobotuerk/MonteCarloTreeSearch/searcher"
)

type Config struct {
	Games       int           // games per worker configuration
	Workers     []int         // pool sizes to benchmark
	Iterations  int           // per-move iteration budget (0 = unlimited)
	Duration    time.Duration // per-move time budget (0 = unlimited)
	Parallelism int           // concurrent games within one configuration
	Target      int           // race game length
}

// RunSpeedup plays agent-vs-agent games for each worker pool size and
// writes agent configs, game records and move records for later analysis.
// Pool size is process-wide state, so configurations run one after
// another; only games within a configuration run concurrently.
func RunSpeedup(cfg Config) error {
	configs := make([]metrics.AgentConfig, len(cfg.Workers))
	for i, workers := range cfg.Workers {
		configs[i] = metrics.AgentConfig{
			ID:         i + 1,
			Workers:    workers,
			Iterations: cfg.Iterations,
			Duration:   cfg.Duration,
		}
	}

	writer, err := metrics.NewWriter("speedup")
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	log.Info().Str("run", writer.RunID()).Msg("starting speedup experiment")

	var mu sync.Mutex
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	count := 0

	for _, config := range configs {
		searcher.SetWorkerCount(config.Workers)
		log.Info().
			Int("agent", config.ID).
			Int("workers", searcher.WorkerCount()).
			Msgf("starting %d games", cfg.Games)

		var group errgroup.Group
		group.SetLimit(cfg.Parallelism)
		for i := 0; i < cfg.Games; i++ {
			group.Go(func() error {
				record, moves, err := runGame(config, cfg)
				if err != nil {
					return err
				}

				mu.Lock()
				defer mu.Unlock()
				count++
				record.ID = count
				record.Run = writer.RunID()
				gameRecords = append(gameRecords, record)
				for _, move := range moves {
					move.Game = count
					moveRecords = append(moveRecords, move)
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return fmt.Errorf("configuration %d failed: %w", config.ID, err)
		}
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to store game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to store move records: %w", err)
	}
	log.Info().Int("games", count).Msg("completed speedup experiment")
	return nil
}

// runGame plays one game between two agents with the same configuration,
// driving both through the generate-move protocol until the position is
// terminal.
func runGame(config metrics.AgentConfig, cfg Config) (metrics.GameRecord, []metrics.MoveRecord, error) {
	options := []searcher.Option{}
	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}

	state := newRace(cfg.Target)
	agents := [2]*searcher.Agent{}
	for i := range agents {
		agent, err := searcher.NewAgent(state, options...)
		if err != nil {
			return metrics.GameRecord{}, nil, err
		}
		agents[i] = agent
	}

	record := metrics.GameRecord{
		Agent1:    config.ID,
		Agent2:    config.ID,
		StartTime: time.Now(),
	}
	moves := []metrics.MoveRecord{}

	var current game.State = state
	var last game.Move
	turn := 0
	for step := 1; ; step++ {
		move, err := agents[turn].GenerateMove(last)
		if err != nil {
			return metrics.GameRecord{}, nil, err
		}
		if move == nil { // Terminal position
			break
		}
		moves = append(moves, metrics.MoveRecord{
			Step:        step,
			Agent:       config.ID,
			MoveMetrics: agents[turn].LastSearch(),
		})

		current = current.Play(move)
		last = move
		turn = 1 - turn
	}

	record.EndTime = time.Now()
	record.Duration = record.EndTime.Sub(record.StartTime)
	record.Winner = winnerOf(current)
	return record, moves, nil
}

func winnerOf(state game.State) string {
	if !state.IsTerminal() {
		return "none"
	}
	// Terminal rollout returns the final result directly.
	switch outcome := state.Rollout(); {
	case outcome == 1.0:
		return "first"
	case outcome == 0.0:
		return "second"
	default:
		return "draw"
	}
}
