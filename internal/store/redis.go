package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tomz197/railshooter/internal/parts"
)

// Redis key layout.
const (
	KeyPrefix      = "railshooter:"
	partsKeyPrefix = KeyPrefix + "parts:"
	LeaderboardKey = KeyPrefix + "leaderboard"
)

// RedisOptions locates the Redis server.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis stores parts state as JSON strings and the leaderboard as a sorted
// set.
type Redis struct {
	client *redis.Client
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store: redis ping %s: %w", opts.Addr, err)
	}
	return &Redis{client: client}, nil
}

func partsKey(profile string) string {
	return partsKeyPrefix + profile
}

func (r *Redis) LoadParts(ctx context.Context, profile string) (parts.State, bool, error) {
	data, err := r.client.Get(ctx, partsKey(profile)).Bytes()
	if errors.Is(err, redis.Nil) {
		return parts.State{}, false, nil
	}
	if err != nil {
		return parts.State{}, false, fmt.Errorf("store: get parts %s: %w", profile, err)
	}
	s, err := decodeState(data)
	if err != nil {
		return parts.State{}, false, fmt.Errorf("store: decode parts %s: %w", profile, err)
	}
	return s, true, nil
}

func (r *Redis) SaveParts(ctx context.Context, profile string, s parts.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, partsKey(profile), data, 0).Err(); err != nil {
		return fmt.Errorf("store: set parts %s: %w", profile, err)
	}
	return nil
}

// Submit raises the profile's best score. GT makes the compare and write a
// single server-side step, so concurrent sessions never lower it. Needs Redis
// 6.2 or newer.
func (r *Redis) Submit(ctx context.Context, profile string, score int) error {
	if err := r.client.ZAddArgs(ctx, LeaderboardKey, bestScoreArgs(profile, score)).Err(); err != nil {
		return fmt.Errorf("store: leaderboard submit %s: %w", profile, err)
	}
	return nil
}

func bestScoreArgs(profile string, score int) redis.ZAddArgs {
	return redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: float64(score), Member: profile}},
	}
}

func (r *Redis) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := r.client.ZRevRangeWithScores(ctx, LeaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("store: leaderboard top: %w", err)
	}
	entries := make([]LeaderboardEntry, 0, len(members))
	for _, m := range members {
		profile, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{Profile: profile, Score: int(m.Score)})
	}
	return entries, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func decodeState(data []byte) (parts.State, error) {
	var s parts.State
	if err := json.Unmarshal(data, &s); err != nil {
		return parts.State{}, err
	}
	if s.Equipped == nil {
		s.Equipped = map[string]int{}
	}
	return s, nil
}

var _ Backend = (*Redis)(nil)
