package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(coll *mongo.Collection, logger *zap.Logger) BookingRepository {
	repo := &MongoBookingRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create booking indexes", zap.Error(err))
	}
	return repo
}

// ensureIndexes also installs the unique start-time index that backs the
// orchestrator's advisory conflict check.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "organisation_id", Value: 1}, {Key: "appointmentStartTime", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "organisation_id", Value: 1}, {Key: "appointmentEndTime", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) FindByStartTime(ctx context.Context, orgID string, start time.Time) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking, err := repository.FindOne[models.Booking](ctx, r.coll, bson.M{
		"organisation_id":      orgID,
		"appointmentStartTime": start,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify booking availability: %w", err)
	}
	return booking, nil
}

func (r *MongoBookingRepo) FindIntersecting(ctx context.Context, orgID string, from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"organisation_id":      orgID,
		"appointmentStartTime": bson.M{"$lt": to},
		"appointmentEndTime":   bson.M{"$gt": from},
	}
	bookings, err := repository.FindAll[models.Booking](ctx, r.coll, filter, bson.D{{Key: "appointmentStartTime", Value: 1}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, orgID, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking, err := repository.FindOne[models.Booking](ctx, r.coll, bson.M{"organisation_id": orgID, "id": id})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return booking, err
}

func (r *MongoBookingRepo) List(ctx context.Context, orgID string, page models.PageRequest) ([]models.Booking, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return repository.FindPage[models.Booking](ctx, r.coll,
		bson.M{"organisation_id": orgID},
		bson.D{{Key: "appointmentStartTime", Value: -1}},
		page)
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", repository.MapWriteError(err))
	}
	return nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, orgID, id string, update models.BookingUpdate) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{}
	if update.Message != nil {
		set["message"] = *update.Message
	}
	if update.StaffID != nil {
		set["staffId"] = *update.StaffID
	}
	if len(set) == 0 {
		return r.GetByID(ctx, orgID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"organisation_id": orgID, "id": id}, bson.M{"$set": set}, opts).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// Delete removes a booking document by its ID.
func (r *MongoBookingRepo) Delete(ctx context.Context, orgID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"organisation_id": orgID, "id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
