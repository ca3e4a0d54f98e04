// File: database/repository/slot/mongo.go
package slotRepo

import (
	"context"
	"fmt"

	"festivo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoSlotRepo) ReplaceProviderSlots(ctx context.Context, providerID string, slots []models.AvailabilitySlot) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"providerId": providerID}); err != nil {
		return fmt.Errorf("failed to clear slots for provider %s: %w", providerID, err)
	}
	if len(slots) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(slots))
	for _, s := range slots {
		docs = append(docs, s)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert slots for provider %s: %w", providerID, err)
	}
	return nil
}

func (r *mongoSlotRepo) GetSlotsByDate(ctx context.Context, providerID, date string) ([]models.AvailabilitySlot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}, {Key: "id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"providerId": providerID, "date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots for provider %s on %s: %w", providerID, date, err)
	}
	defer cur.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepo) GetSlotByID(ctx context.Context, providerID, slotID string) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	err := r.coll.FindOne(ctx, bson.M{"providerId": providerID, "id": slotID}).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slot %s: %w", slotID, err)
	}
	return &slot, nil
}

func (r *mongoSlotRepo) DeleteStaleSlots(ctx context.Context, before string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"date": bson.M{"$lt": before}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale slots: %w", err)
	}
	return res.DeletedCount, nil
}
