package clientRepo

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

// MongoClientRepo implements ClientRepository using MongoDB.
type MongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo creates a new instance of ClientRepository using MongoDB.
func NewMongoClientRepo(coll *mongo.Collection, logger *zap.Logger) ClientRepository {
	repo := &MongoClientRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create client indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoClientRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "organisation_id", Value: 1}, {Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "organisation_id", Value: 1}, {Key: "phoneNumber", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoClientRepo) findOne(ctx context.Context, filter bson.M) (*models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := repository.FindOne[models.Client](ctx, r.coll, filter)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query client: %w", err)
	}
	return client, nil
}

func (r *MongoClientRepo) FindByEmail(ctx context.Context, orgID, email string) (*models.Client, error) {
	return r.findOne(ctx, bson.M{"organisation_id": orgID, "email": email})
}

func (r *MongoClientRepo) FindByPhone(ctx context.Context, orgID, phone string) (*models.Client, error) {
	return r.findOne(ctx, bson.M{"organisation_id": orgID, "phoneNumber": phone})
}

func (r *MongoClientRepo) GetByID(ctx context.Context, orgID, id string) (*models.Client, error) {
	client, err := r.findOne(ctx, bson.M{"organisation_id": orgID, "id": id})
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, repository.ErrNotFound
	}
	return client, nil
}

func (r *MongoClientRepo) List(ctx context.Context, orgID string, page models.PageRequest) ([]models.Client, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return repository.FindPage[models.Client](ctx, r.coll,
		bson.M{"organisation_id": orgID},
		bson.D{{Key: "name", Value: 1}, {Key: "id", Value: 1}},
		page)
}

// Create inserts a new client document.
func (r *MongoClientRepo) Create(ctx context.Context, client *models.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, client); err != nil {
		return fmt.Errorf("failed to create client: %w", repository.MapWriteError(err))
	}
	return nil
}

// Update applies the non-nil fields of update and returns the new document.
func (r *MongoClientRepo) Update(ctx context.Context, orgID, id string, update models.ClientUpdate) (*models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.PhoneNumber != nil {
		set["phoneNumber"] = *update.PhoneNumber
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var client models.Client
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"organisation_id": orgID, "id": id}, bson.M{"$set": set}, opts).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update client with id %s: %w", id, err)
	}
	return &client, nil
}

// Delete removes a client document by its ID.
func (r *MongoClientRepo) Delete(ctx context.Context, orgID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"organisation_id": orgID, "id": id})
	if err != nil {
		return fmt.Errorf("failed to delete client with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
