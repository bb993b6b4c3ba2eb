package staffRepo

import (
	"context"
	"fmt"
	"time"

	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStaffRepo implements StaffRepository using MongoDB.
type MongoStaffRepo struct {
	coll *mongo.Collection
}

func NewMongoStaffRepo(coll *mongo.Collection, logger *zap.Logger) StaffRepository {
	repo := &MongoStaffRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create staff indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoStaffRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "organisation_id", Value: 1}, {Key: "name", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoStaffRepo) List(ctx context.Context, orgID string) ([]models.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return repository.FindAll[models.Staff](ctx, r.coll, bson.M{"organisation_id": orgID}, bson.D{{Key: "name", Value: 1}})
}

func (r *MongoStaffRepo) Create(ctx context.Context, staff *models.Staff) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	staff.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, staff); err != nil {
		return fmt.Errorf("failed to create staff member: %w", repository.MapWriteError(err))
	}
	return nil
}
