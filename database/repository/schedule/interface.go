// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"
	"errors"

	"festivo/database"
	"festivo/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrScheduleNotFound is returned when a provider has no schedule configured.
var ErrScheduleNotFound = errors.New("schedule not found")

type ScheduleRepository interface {
	GetScheduleConfig(ctx context.Context, providerID string) (*models.Schedule, error)
	SaveScheduleConfig(ctx context.Context, schedule *models.Schedule) error
	ListProviderIDs(ctx context.Context) ([]string, error)
}

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.MongoClient.Database("festivo")
	return &mongoScheduleRepo{
		coll: db.Collection("schedules"),
	}
}
