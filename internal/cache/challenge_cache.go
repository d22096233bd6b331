// Package cache stores the shared part of the challenge list so repeated
// listings skip the per-challenge queries.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lshigami/cctfd/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	catalogKey    = "chals:catalog"
	generationKey = "chals:gen"
)

var errStaleGeneration = errors.New("catalog generation changed")

// ChallengeCache holds one encoded catalog. Misses and backend failures both
// report ok == false so callers fall back to the database.
//
// Every Invalidate bumps the generation. A catalog built from rows read at
// generation g is only stored by SetCatalog(g, ...) while g is still current.
type ChallengeCache interface {
	GetCatalog() ([]byte, bool)
	Generation() int64
	SetCatalog(generation int64, payload []byte)
	Invalidate()
}

// NewChallengeCache picks Redis when REDIS_ADDR is set and an in-process
// cache otherwise.
func NewChallengeCache(cfg *config.Config) ChallengeCache {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, using in-memory challenge cache")
		return NewMemoryCache(cfg.Redis.CacheTTL)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: 100,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, using in-memory challenge cache")
		client.Close()
		return NewMemoryCache(cfg.Redis.CacheTTL)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return NewRedisCache(client, cfg.Redis.CacheTTL)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) ChallengeCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) GetCatalog() ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	val, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Challenge cache read failed")
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Generation() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("Challenge cache generation read failed")
		return -1
	}
	return gen
}

func (c *redisCache) SetCatalog(generation int64, payload []byte) {
	if c.ttl <= 0 || generation < 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, catalogKey, payload, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		log.Debug().Int64("generation", generation).Msg("Skipping stale challenge catalog")
	default:
		log.Warn().Err(err).Msg("Challenge cache write failed")
	}
}

func (c *redisCache) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, catalogKey)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Challenge cache invalidation failed")
	}
}

type memoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	payload    []byte
	expires    time.Time
	generation int64
	now        func() time.Time
}

// NewMemoryCache returns a process-local cache. A non-positive ttl disables
// caching.
func NewMemoryCache(ttl time.Duration) ChallengeCache {
	return &memoryCache{ttl: ttl, now: time.Now}
}

func (c *memoryCache) GetCatalog() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.payload == nil || !c.now().Before(c.expires) {
		return nil, false
	}
	return c.payload, true
}

func (c *memoryCache) Generation() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *memoryCache) SetCatalog(generation int64, payload []byte) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return
	}
	c.payload = payload
	c.expires = c.now().Add(c.ttl)
}

func (c *memoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.payload = nil
}
