package metrics

import (
	"time"

	"github.com/Lobotuerk/MonteCarloTreeSearch/searcher"
)

// AgentConfig identifies one agent configuration under test.
type AgentConfig struct {
	ID         int
	Workers    int
	Iterations int
	Duration   time.Duration
}

// GameRecord captures the result of one benchmark game.
type GameRecord struct {
	Run       string // run id shared by every record of one experiment
	ID        int
	Agent1    int // AgentConfig.ID
	Agent2    int // AgentConfig.ID
	Winner    string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// MoveRecord captures one searched move within a game.
type MoveRecord struct {
	Game  int // GameRecord.ID
	Step  int
	Agent int // AgentConfig.ID
	searcher.MoveMetrics
}
