// Package repository holds what the per-collection repositories share.
package repository

import (
	"context"
	"errors"
	"fmt"

	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned by lookups that must find exactly one document.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate document")
)

// MapWriteError turns a driver duplicate-key error into ErrDuplicate.
func MapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// FindPage runs a counted, sorted, skip/limit query and decodes the page.
func FindPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, page models.PageRequest) ([]T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(page.Skip()).
		SetLimit(int64(page.PerPage))
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0, page.PerPage)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode documents: %w", err)
	}
	return items, total, nil
}

// FindAll decodes every document matching filter.
func FindAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return items, nil
}

// FindOne decodes a single document, returning ErrNotFound when none matches.
func FindOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
