// File: database/repository/schedule/mongo.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"festivo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoScheduleRepo) GetScheduleConfig(ctx context.Context, providerID string) (*models.Schedule, error) {
	var sched models.Schedule
	err := r.coll.FindOne(ctx, bson.M{"providerId": providerID}).Decode(&sched)
	if err == mongo.ErrNoDocuments {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for provider %s: %w", providerID, err)
	}
	return &sched, nil
}

func (r *mongoScheduleRepo) SaveScheduleConfig(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"providerId": schedule.ProviderID}, schedule, opts)
	if err != nil {
		return fmt.Errorf("failed to save schedule for provider %s: %w", schedule.ProviderID, err)
	}
	return nil
}

func (r *mongoScheduleRepo) ListProviderIDs(ctx context.Context) ([]string, error) {
	vals, err := r.coll.Distinct(ctx, "providerId", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list provider ids: %w", err)
	}
	ids := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}
