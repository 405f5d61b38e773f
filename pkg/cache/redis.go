package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"skillquest-server/internal/models"
)

const ttl = 24 * time.Hour

// RedisCache carries the read-side caches: challenge payloads by id and a
// per-class lifetime-XP leaderboard. Callers treat every failure here as
// non-fatal.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func challengeKey(id uint) string {
	return fmt.Sprintf("challenge:%d", id)
}

func leaderboardKey(classID uint) string {
	return fmt.Sprintf("class:%d:leaderboard", classID)
}

func (c *RedisCache) SetChallenge(ch *models.Challenge) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, challengeKey(ch.ID), data, ttl).Err()
}

func (c *RedisCache) GetChallenge(id uint) (*models.Challenge, error) {
	data, err := c.client.Get(c.ctx, challengeKey(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var ch models.Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *RedisCache) DeleteChallenge(id uint) error {
	return c.client.Del(c.ctx, challengeKey(id)).Err()
}

// RankEntry is one member of a class leaderboard, scored by lifetime XP.
type RankEntry struct {
	UserID uint `json:"user_id"`
	Score  int  `json:"score"`
}

func (c *RedisCache) SetMemberScore(classID, userID uint, totalXP int) error {
	key := leaderboardKey(classID)
	pipe := c.client.Pipeline()
	pipe.ZAdd(c.ctx, key, &redis.Z{
		Score:  float64(totalXP),
		Member: fmt.Sprintf("%d", userID),
	})
	pipe.Expire(c.ctx, key, ttl)
	_, err := pipe.Exec(c.ctx)
	return err
}

func (c *RedisCache) RemoveMember(classID, userID uint) error {
	return c.client.ZRem(c.ctx, leaderboardKey(classID), fmt.Sprintf("%d", userID)).Err()
}

// ClassRanking returns the class members ordered by score, best first.
func (c *RedisCache) ClassRanking(classID uint) ([]RankEntry, error) {
	results, err := c.client.ZRevRangeWithScores(c.ctx, leaderboardKey(classID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]RankEntry, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		var userID uint
		if _, err := fmt.Sscanf(member, "%d", &userID); err != nil {
			continue
		}
		entries = append(entries, RankEntry{UserID: userID, Score: int(z.Score)})
	}
	return entries, nil
}
