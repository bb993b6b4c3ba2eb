package formRepo

import (
	"context"
	"fmt"
	"time"

	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoFormSubmissionRepo implements FormSubmissionRepository using MongoDB.
type MongoFormSubmissionRepo struct {
	coll *mongo.Collection
}

func NewMongoFormSubmissionRepo(coll *mongo.Collection, logger *zap.Logger) FormSubmissionRepository {
	repo := &MongoFormSubmissionRepo{coll: coll}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "organisation_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		logger.Warn("failed to create form submission indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoFormSubmissionRepo) Create(ctx context.Context, submission *models.FormSubmission) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	submission.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, submission); err != nil {
		return fmt.Errorf("failed to store form submission: %w", err)
	}
	return nil
}

func (r *MongoFormSubmissionRepo) List(ctx context.Context, orgID string, page models.PageRequest) ([]models.FormSubmission, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return repository.FindPage[models.FormSubmission](ctx, r.coll,
		bson.M{"organisation_id": orgID},
		bson.D{{Key: "created_at", Value: -1}},
		page)
}
