package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/platform/envutil"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
)

// PlanCache mirrors each user's plan document in Redis. It is the
// synchronous durability floor for saves and the fallback source for loads
// when Postgres is unreachable.
type PlanCache interface {
	Get(ctx context.Context, userID uuid.UUID) (types.Document, bool, error)
	Set(ctx context.Context, userID uuid.UUID, doc types.Document) error
	Delete(ctx context.Context, userID uuid.UUID) error
	Close() error
}

type planCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewPlanCache(log *logger.Logger) (PlanCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := envutil.Str("REDIS_PLAN_PREFIX", "plan")

	ttlSec := envutil.Int("REDIS_PLAN_TTL_SECONDS", 0)
	var ttl time.Duration
	if ttlSec > 0 {
		ttl = time.Duration(ttlSec) * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &planCache{
		log:    log.With("service", "RedisPlanCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (c *planCache) key(userID uuid.UUID) string {
	return c.prefix + ":" + userID.String()
}

func (c *planCache) Get(ctx context.Context, userID uuid.UUID) (types.Document, bool, error) {
	if c == nil || c.rdb == nil {
		return types.Document{}, false, fmt.Errorf("plan cache not initialized")
	}

	raw, err := c.rdb.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return types.Document{}, false, nil
		}
		return types.Document{}, false, err
	}

	var doc types.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.Document{}, false, fmt.Errorf("corrupt cached plan: %w", err)
	}
	doc.Normalize()
	return doc, true, nil
}

func (c *planCache) Set(ctx context.Context, userID uuid.UUID, doc types.Document) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("plan cache not initialized")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(userID), raw, c.ttl).Err()
}

func (c *planCache) Delete(ctx context.Context, userID uuid.UUID) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("plan cache not initialized")
	}
	return c.rdb.Del(ctx, c.key(userID)).Err()
}

func (c *planCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
