package client

import "time"

// shutdownDisplay is how long the shutdown notice stays up before the client
// disconnects.
const shutdownDisplay = 3 * time.Second

// GameState is the phase a client is in.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Aiming and launching
	GameStateOver                      // Moon destroyed, waiting for a restart
	GameStateShutdown                  // Server is shutting down
)

// State holds per-client presentation state. The game itself lives on the
// server.
type State struct {
	GameState     GameState
	prevGameState GameState
	Running       bool

	LastKill      int       // Points of the most recent kill
	LastKillAt    time.Time // For the HUD flash
	FinalScore    int
	shutdownTimer time.Duration
	delta         time.Duration
}

// NewState creates the state for a fresh connection.
func NewState() *State {
	return &State{
		GameState:     GameStateStart,
		prevGameState: GameStateStart,
		Running:       true,
	}
}
