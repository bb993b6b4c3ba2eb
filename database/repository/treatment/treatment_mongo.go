package treatmentRepo

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

// MongoTreatmentRepo implements TreatmentRepository using MongoDB.
type MongoTreatmentRepo struct {
	coll *mongo.Collection
}

func NewMongoTreatmentRepo(coll *mongo.Collection, logger *zap.Logger) TreatmentRepository {
	repo := &MongoTreatmentRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create treatment indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoTreatmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "organisation_id", Value: 1}, {Key: "categoryId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoTreatmentRepo) GetByID(ctx context.Context, orgID, id string) (*models.Treatment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	treatment, err := repository.FindOne[models.Treatment](ctx, r.coll, bson.M{"organisation_id": orgID, "id": id})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load treatment %s: %w", id, err)
	}
	return treatment, err
}

func (r *MongoTreatmentRepo) List(ctx context.Context, orgID string) ([]models.Treatment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return repository.FindAll[models.Treatment](ctx, r.coll, bson.M{"organisation_id": orgID}, bson.D{{Key: "name", Value: 1}})
}

func (r *MongoTreatmentRepo) ListIDsByCategory(ctx context.Context, orgID, categoryID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"id": 1, "_id": 0}).SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"organisation_id": orgID, "categoryId": categoryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query treatments for category %s: %w", categoryID, err)
	}
	defer cursor.Close(ctx)

	ids := []string{}
	for cursor.Next(ctx) {
		var row struct {
			ID string `bson:"id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode treatment id: %w", err)
		}
		ids = append(ids, row.ID)
	}
	return ids, cursor.Err()
}

// Create inserts a new treatment document.
func (r *MongoTreatmentRepo) Create(ctx context.Context, treatment *models.Treatment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	treatment.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, treatment); err != nil {
		return fmt.Errorf("failed to create treatment: %w", repository.MapWriteError(err))
	}
	return nil
}
