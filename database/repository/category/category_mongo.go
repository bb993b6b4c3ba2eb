package categoryRepo

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

// MongoCategoryRepo implements CategoryRepository using MongoDB.
type MongoCategoryRepo struct {
	coll *mongo.Collection
}

func NewMongoCategoryRepo(coll *mongo.Collection, logger *zap.Logger) CategoryRepository {
	repo := &MongoCategoryRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create category indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoCategoryRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "organisation_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoCategoryRepo) GetByID(ctx context.Context, orgID, id string) (*models.TreatmentCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	category, err := repository.FindOne[models.TreatmentCategory](ctx, r.coll, bson.M{"organisation_id": orgID, "id": id})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load category %s: %w", id, err)
	}
	return category, err
}

func (r *MongoCategoryRepo) List(ctx context.Context, orgID string) ([]models.TreatmentCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return repository.FindAll[models.TreatmentCategory](ctx, r.coll, bson.M{"organisation_id": orgID}, bson.D{{Key: "name", Value: 1}})
}

func (r *MongoCategoryRepo) Create(ctx context.Context, category *models.TreatmentCategory) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	category.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", repository.MapWriteError(err))
	}
	return nil
}
