package apikeyRepo

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

// MongoAPIKeyRepo implements APIKeyRepository using MongoDB.
type MongoAPIKeyRepo struct {
	coll *mongo.Collection
}

func NewMongoAPIKeyRepo(coll *mongo.Collection, logger *zap.Logger) APIKeyRepository {
	repo := &MongoAPIKeyRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create api key indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoAPIKeyRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "keyId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoAPIKeyRepo) GetByKeyID(ctx context.Context, keyID string) (*models.APIKey, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key, err := repository.FindOne[models.APIKey](ctx, r.coll, bson.M{"keyId": keyID})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load api key %s: %w", keyID, err)
	}
	return key, err
}

func (r *MongoAPIKeyRepo) Create(ctx context.Context, key *models.APIKey) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, key); err != nil {
		return fmt.Errorf("failed to store api key: %w", repository.MapWriteError(err))
	}
	return nil
}

func (r *MongoAPIKeyRepo) Delete(ctx context.Context, keyID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"keyId": keyID})
	if err != nil {
		return fmt.Errorf("failed to delete api key %s: %w", keyID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
