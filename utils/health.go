package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the dependency snapshot served on /health. The two Redis
// probes are separate because the availability cache and the asynq queue live
// on different DBs; ActiveHolds exposes the hold manager's live table size so
// a stuck sweep shows up as an ever-growing number.
type HealthStatus struct {
	Mongo       bool      `json:"mongo"`
	CacheRedis  bool      `json:"cacheRedis"`
	QueueRedis  bool      `json:"queueRedis"`
	ActiveHolds int       `json:"activeHolds"`
	CheckedAt   time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// HealthDeps are the handles the monitor probes. Nil entries are skipped and
// report false (or zero) in the snapshot.
type HealthDeps struct {
	Cache       *redis.Client
	Queue       *redis.Client
	Mongo       *mongo.Client
	ActiveHolds func() int
}

// StartHealthMonitor probes the dependencies once a minute in the background
// and keeps the snapshot current.
func StartHealthMonitor(deps HealthDeps) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			takeHealthSnapshot(deps)
		}
	}()
}

func takeHealthSnapshot(deps HealthDeps) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := HealthStatus{CheckedAt: time.Now()}
	if deps.Cache != nil {
		s.CacheRedis = deps.Cache.Ping(ctx).Err() == nil
	}
	if deps.Queue != nil {
		s.QueueRedis = deps.Queue.Ping(ctx).Err() == nil
	}
	if deps.Mongo != nil {
		s.Mongo = deps.Mongo.Ping(ctx, nil) == nil
	}
	if deps.ActiveHolds != nil {
		s.ActiveHolds = deps.ActiveHolds()
	}

	healthMu.Lock()
	currentHealth = s
	healthMu.Unlock()
}
