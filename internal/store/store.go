// Package store persists profile data between runs: the parts economy, a
// best-score leaderboard and the run history.
package store

import (
	"context"

	"github.com/tomz197/railshooter/internal/parts"
)

// LeaderboardEntry is one profile's best score.
type LeaderboardEntry struct {
	Profile string
	Score   int
}

// Leaderboard keeps the best score of each profile.
type Leaderboard interface {
	// Submit records score unless the profile already has a higher one.
	Submit(ctx context.Context, profile string, score int) error
	// Top returns up to n entries, best first.
	Top(ctx context.Context, n int) ([]LeaderboardEntry, error)
}

// Backend is everything a front-end needs from persistence.
type Backend interface {
	parts.Store
	Leaderboard
	Close() error
}

func copyState(s parts.State) parts.State {
	out := parts.State{Score: s.Score, Cores: s.Cores, Equipped: make(map[string]int, len(s.Equipped))}
	for k, v := range s.Equipped {
		out.Equipped[k] = v
	}
	return out
}
