package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"festivo/config"
	"festivo/services/schedule"

	"github.com/hibiken/asynq"
)

const (
	TypeSlotsRegenerate    = "slots:regenerate"     // one provider, after a schedule change
	TypeSlotsRegenerateAll = "slots:regenerate_all" // nightly horizon roll
)

// RegenPayload identifies the provider whose horizon should be rebuilt.
type RegenPayload struct {
	ProviderID string `json:"providerId"`
}

// RegenClient enqueues horizon regeneration tasks.
type RegenClient struct {
	client *asynq.Client
}

// NewRegenClient builds the task producer used by the schedule handler.
func NewRegenClient() *RegenClient {
	return &RegenClient{client: asynq.NewClient(redisOpts())}
}

// EnqueueRegenerate schedules a rebuild of one provider's slot horizon.
func (c *RegenClient) EnqueueRegenerate(providerID string) error {
	payload, err := json.Marshal(RegenPayload{ProviderID: providerID})
	if err != nil {
		return err
	}
	// Unique per provider within a minute so rapid schedule edits collapse
	// into one rebuild.
	_, err = c.client.Enqueue(
		asynq.NewTask(TypeSlotsRegenerate, payload),
		asynq.MaxRetry(3),
		asynq.Unique(time.Minute),
	)
	return err
}

func (c *RegenClient) Close() error { return c.client.Close() }

// InitRegenWorker runs the async worker and the nightly scheduler in the
// background.
func InitRegenWorker(regen *schedule.Regenerator) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSlotsRegenerate, handleRegenTask(regen))
	mux.HandleFunc(TypeSlotsRegenerateAll, handleRegenAllTask(regen))

	go func() {
		log.Println("[RegenWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[RegenWorker] failed to start worker: %v", err)
		}
	}()

	// Nightly roll keeps the horizon full and prunes past-dated slots.
	scheduler := asynq.NewScheduler(redisOpts(), nil)
	if _, err := scheduler.Register("@daily", asynq.NewTask(TypeSlotsRegenerateAll, nil)); err != nil {
		log.Fatalf("[RegenWorker] failed to register nightly roll: %v", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[RegenWorker] failed to start scheduler: %v", err)
		}
	}()
}

func handleRegenTask(regen *schedule.Regenerator) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p RegenPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[RegenWorker] invalid payload: %v", err)
			return err
		}
		count, err := regen.RegenerateProvider(ctx, p.ProviderID)
		if err != nil {
			log.Printf("[RegenWorker] regeneration failed for %s: %v", p.ProviderID, err)
			return err
		}
		log.Printf("[RegenWorker] regenerated %d slots for provider %s", count, p.ProviderID)
		return nil
	}
}

func handleRegenAllTask(regen *schedule.Regenerator) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		return regen.RegenerateAll(ctx)
	}
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}
