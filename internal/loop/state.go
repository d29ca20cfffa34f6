package loop

// GameState is the phase of a run.
type GameState int

const (
	GameStateStart      GameState = iota // Title screen
	GameStatePlaying                     // Active gameplay
	GameStateShop                        // Paused with the parts shop open
	GameStateStageClear                  // A boss just fell
	GameStateGameOver                    // Player HP reached zero
)

// String returns the state name used in logs.
func (s GameState) String() string {
	switch s {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStateShop:
		return "shop"
	case GameStateStageClear:
		return "stage_clear"
	case GameStateGameOver:
		return "game_over"
	}
	return "unknown"
}
