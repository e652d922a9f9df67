package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
)

const redisTableKeyPrefix = "table:"

// RedisTableStateTracker persists table state in redis so live hands
// survive a server restart.
type RedisTableStateTracker struct {
	rdclient *redis.Client
}

func NewRedisTableStateTracker(redisURL string, redisPW string, redisDB int) *RedisTableStateTracker {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisTableStateTracker{
		rdclient: rdclient,
	}
}

func (r *RedisTableStateTracker) Load(tableCode string) (*TableState, error) {
	return r.load(redisTableKeyPrefix + tableCode)
}

func (r *RedisTableStateTracker) load(key string) (*TableState, error) {
	stateBytes, err := r.rdclient.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("Table state for Key: %s is not found", key)
	} else if err != nil {
		return nil, err
	}
	state := &TableState{}
	err = jsoniter.Unmarshal([]byte(stateBytes), state)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (r *RedisTableStateTracker) Save(tableCode string, state *TableState) error {
	return r.save(redisTableKeyPrefix+tableCode, state)
}

func (r *RedisTableStateTracker) save(key string, state *TableState) error {
	stateInBytes, err := jsoniter.Marshal(state)
	if err != nil {
		return err
	}
	err = r.rdclient.Set(context.Background(), key, stateInBytes, 0).Err()
	return err
}

func (r *RedisTableStateTracker) Remove(tableCode string) error {
	return r.remove(redisTableKeyPrefix + tableCode)
}

func (r *RedisTableStateTracker) remove(key string) error {
	err := r.rdclient.Del(context.Background(), key).Err()
	return err
}

func (r *RedisTableStateTracker) ListCodes() ([]string, error) {
	keys, err := r.rdclient.Keys(context.Background(), redisTableKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(keys))
	for _, key := range keys {
		codes = append(codes, strings.TrimPrefix(key, redisTableKeyPrefix))
	}
	return codes, nil
}
