package businessRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoOpeningHoursRepo implements OpeningHoursRepository using MongoDB.
type MongoOpeningHoursRepo struct {
	coll *mongo.Collection
}

func NewMongoOpeningHoursRepo(coll *mongo.Collection, logger *zap.Logger) OpeningHoursRepository {
	repo := &MongoOpeningHoursRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create opening hours indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoOpeningHoursRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "organisation_id", Value: 1}, {Key: "Day", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoOpeningHoursRepo) GetForDay(ctx context.Context, orgID string, day int) (*models.OpeningHours, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	hours, err := repository.FindOne[models.OpeningHours](ctx, r.coll, bson.M{"organisation_id": orgID, "Day": day})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load opening hours: %w", err)
	}
	return hours, nil
}

func (r *MongoOpeningHoursRepo) List(ctx context.Context, orgID string) ([]models.OpeningHours, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return repository.FindAll[models.OpeningHours](ctx, r.coll, bson.M{"organisation_id": orgID}, bson.D{{Key: "Day", Value: 1}})
}

func (r *MongoOpeningHoursRepo) Upsert(ctx context.Context, hours *models.OpeningHours) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"organisation_id": hours.OrganisationID, "Day": hours.Day}
	update := bson.M{"$set": bson.M{"opens_at": hours.OpensAt, "closes_at": hours.ClosesAt}}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save opening hours for day %d: %w", hours.Day, err)
	}
	return nil
}
