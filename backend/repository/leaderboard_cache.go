package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKeyPrefix = "leaderboard:test:"
	leaderboardTTL       = 7 * 24 * time.Hour

	// readyMember lives in the sorted set itself so it expires and gets evicted together
	// with the scores. Only Fill writes it.
	readyMember = "ready"
)

// LeaderboardScore is a user's best attempt on one test.
type LeaderboardScore struct {
	UserID         uint
	Percentage     float64
	CorrectAnswers int
	TotalQuestions int
}

// LeaderboardCache keeps each user's best attempt per test in Redis: a sorted set of
// percentages plus a hash with the counts behind them.
type LeaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

func leaderboardKey(testID uint) string {
	return leaderboardKeyPrefix + strconv.FormatUint(uint64(testID), 10)
}

func attemptsKey(testID uint) string {
	return leaderboardKey(testID) + ":attempts"
}

// KEYS: scores zset, attempts hash.
// ARGV: ready flag, ttl seconds, then (member, percentage, "correct/total") triples.
var upsertScores = redis.NewScript(`
for i = 3, #ARGV, 3 do
  local member, score, detail = ARGV[i], ARGV[i + 1], ARGV[i + 2]
  local current = redis.call('ZSCORE', KEYS[1], member)
  local better = not current or tonumber(score) > tonumber(current)
  if better or (tonumber(score) == tonumber(current) and redis.call('HEXISTS', KEYS[2], member) == 0) then
    redis.call('ZADD', KEYS[1], score, member)
    redis.call('HSET', KEYS[2], member, detail)
  end
end
if ARGV[1] == '1' then
  redis.call('ZADD', KEYS[1], -1, 'ready')
  redis.call('EXPIRE', KEYS[1], ARGV[2])
  redis.call('EXPIRE', KEYS[2], ARGV[2])
end
return 1
`)

func (c *LeaderboardCache) upsert(ctx context.Context, testID uint, ready bool, scores []LeaderboardScore) error {
	flag := "0"
	if ready {
		flag = "1"
	}
	args := make([]interface{}, 0, 2+3*len(scores))
	args = append(args, flag, int64(leaderboardTTL/time.Second))
	for _, s := range scores {
		args = append(args,
			strconv.FormatUint(uint64(s.UserID), 10),
			strconv.FormatFloat(s.Percentage, 'f', -1, 64),
			fmt.Sprintf("%d/%d", s.CorrectAnswers, s.TotalQuestions),
		)
	}
	keys := []string{leaderboardKey(testID), attemptsKey(testID)}
	return upsertScores.Run(ctx, c.client, keys, args...).Err()
}

// Record stores the attempt only if it beats the user's current best. It never marks the
// board complete and never extends its lifetime.
func (c *LeaderboardCache) Record(ctx context.Context, testID uint, score LeaderboardScore) error {
	if err := c.upsert(ctx, testID, false, []LeaderboardScore{score}); err != nil {
		return fmt.Errorf("record leaderboard score: %w", err)
	}
	return nil
}

// Fill merges the full set of best attempts for a test, loaded from the database, and
// marks the board complete for leaderboardTTL.
func (c *LeaderboardCache) Fill(ctx context.Context, testID uint, scores []LeaderboardScore) error {
	if err := c.upsert(ctx, testID, true, scores); err != nil {
		return fmt.Errorf("fill leaderboard: %w", err)
	}
	return nil
}

// Invalidate drops the board so the next read rebuilds it.
func (c *LeaderboardCache) Invalidate(ctx context.Context, testID uint) error {
	if err := c.client.Del(ctx, leaderboardKey(testID), attemptsKey(testID)).Err(); err != nil {
		return fmt.Errorf("invalidate leaderboard: %w", err)
	}
	return nil
}

// Top returns up to limit entries, best first; limit <= 0 returns all of them. complete
// is false when the board was never filled, has expired, or lost part of its data, in
// which case the entries must not be trusted.
func (c *LeaderboardCache) Top(ctx context.Context, testID uint, limit int64) (scores []LeaderboardScore, complete bool, err error) {
	stop := limit - 1
	if limit <= 0 {
		stop = -1
	}
	pipe := c.client.TxPipeline()
	readyCmd := pipe.ZScore(ctx, leaderboardKey(testID), readyMember)
	rangeCmd := pipe.ZRevRangeWithScores(ctx, leaderboardKey(testID), 0, stop)
	detailCmd := pipe.HGetAll(ctx, attemptsKey(testID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, false, fmt.Errorf("read leaderboard: %w", err)
	}
	if errors.Is(readyCmd.Err(), redis.Nil) {
		return nil, false, nil
	}

	details := detailCmd.Val()
	out := make([]LeaderboardScore, 0, len(rangeCmd.Val()))
	for _, z := range rangeCmd.Val() {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue // sentinel or foreign member
		}
		correct, total, ok := parseAttempt(details[member])
		if !ok {
			return nil, false, nil
		}
		out = append(out, LeaderboardScore{
			UserID:         uint(id),
			Percentage:     z.Score,
			CorrectAnswers: correct,
			TotalQuestions: total,
		})
	}
	return out, true, nil
}

func parseAttempt(detail string) (correct, total int, ok bool) {
	left, right, found := strings.Cut(detail, "/")
	if !found {
		return 0, 0, false
	}
	correct, err := strconv.Atoi(left)
	if err != nil {
		return 0, 0, false
	}
	total, err = strconv.Atoi(right)
	if err != nil {
		return 0, 0, false
	}
	return correct, total, true
}
