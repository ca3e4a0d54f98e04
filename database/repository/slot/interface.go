// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"

	"festivo/database"
	"festivo/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type SlotRepository interface {
	// ReplaceProviderSlots swaps out a provider's entire generated horizon.
	ReplaceProviderSlots(ctx context.Context, providerID string, slots []models.AvailabilitySlot) error
	GetSlotsByDate(ctx context.Context, providerID, date string) ([]models.AvailabilitySlot, error)
	GetSlotByID(ctx context.Context, providerID, slotID string) (*models.AvailabilitySlot, error)
	// DeleteStaleSlots removes slots dated strictly before the given date.
	DeleteStaleSlots(ctx context.Context, before string) (int64, error)
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database("festivo")
	return &mongoSlotRepo{
		coll: db.Collection("slots"),
	}
}
