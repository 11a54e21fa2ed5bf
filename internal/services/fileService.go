package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arzan03/pdftoolbox/internal/models"
)

// maxListLimit caps per-owner file listings.
const maxListLimit = 50

// Ledger is the authoritative catalog of produced files, independent of
// the blob bytes themselves.
type Ledger interface {
	Create(ctx context.Context, owner string, tool models.ToolType, originalName, storedName string, sizeBytes int64, retention time.Duration) (models.File, error)
	// Get fails with ErrNotFound both for an unknown id and for a
	// record owned by somebody else.
	Get(ctx context.Context, id, owner string) (models.File, error)
	ListByOwner(ctx context.Context, owner string, limit int64) ([]models.File, error)
	IncrementDownload(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes every record with expires_at <= now and
	// returns the removed records so the caller can reclaim blobs.
	DeleteExpired(ctx context.Context, now time.Time) ([]models.File, error)
}

type MongoLedger struct {
	files *mongo.Collection
}

func NewMongoLedger(database *mongo.Database) *MongoLedger {
	return &MongoLedger{files: database.Collection("files")}
}

func (l *MongoLedger) Create(ctx context.Context, owner string, tool models.ToolType, originalName, storedName string, sizeBytes int64, retention time.Duration) (models.File, error) {
	if _, err := models.ParseToolType(string(tool)); err != nil {
		return models.File{}, err
	}
	if retention <= 0 {
		return models.File{}, fmt.Errorf("%w: retention window must be positive", models.ErrValidation)
	}

	now := time.Now()
	record := models.File{
		ID:           primitive.NewObjectID(),
		Owner:        owner,
		ToolType:     tool,
		OriginalName: originalName,
		StoredName:   storedName,
		SizeBytes:    sizeBytes,
		CreatedAt:    now,
		ExpiresAt:    now.Add(retention),
	}
	if _, err := l.files.InsertOne(ctx, record); err != nil {
		return models.File{}, fmt.Errorf("%w: insert file record: %v", models.ErrStorage, err)
	}
	return record, nil
}

func (l *MongoLedger) Get(ctx context.Context, id, owner string) (models.File, error) {
	// Anonymous records are never addressable by id; they only exist
	// for the duration of a one-shot delivery.
	if owner == "" {
		return models.File{}, fmt.Errorf("%w: file %s", models.ErrNotFound, id)
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.File{}, fmt.Errorf("%w: file %s", models.ErrNotFound, id)
	}

	// Owner is part of the filter, so a mismatch reads exactly like a
	// missing record.
	var record models.File
	err = l.files.FindOne(ctx, bson.M{"_id": objID, "owner": owner}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.File{}, fmt.Errorf("%w: file %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.File{}, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	return record, nil
}

func (l *MongoLedger) ListByOwner(ctx context.Context, owner string, limit int64) ([]models.File, error) {
	if owner == "" {
		return nil, nil
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := l.files.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list files: %v", models.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var records []models.File
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("%w: decode file records: %v", models.ErrStorage, err)
	}
	return records, nil
}

func (l *MongoLedger) IncrementDownload(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: file %s", models.ErrNotFound, id)
	}

	res, err := l.files.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"download_count": 1}})
	if err != nil {
		return fmt.Errorf("%w: increment download: %v", models.ErrStorage, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: file %s", models.ErrNotFound, id)
	}
	return nil
}

func (l *MongoLedger) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: file %s", models.ErrNotFound, id)
	}
	if _, err := l.files.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		return fmt.Errorf("%w: delete file record: %v", models.ErrStorage, err)
	}
	return nil
}

func (l *MongoLedger) DeleteExpired(ctx context.Context, now time.Time) ([]models.File, error) {
	cursor, err := l.files.Find(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return nil, fmt.Errorf("%w: find expired: %v", models.ErrStorage, err)
	}

	var expired []models.File
	if err := cursor.All(ctx, &expired); err != nil {
		return nil, fmt.Errorf("%w: decode expired records: %v", models.ErrStorage, err)
	}
	if len(expired) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(expired))
	for _, record := range expired {
		ids = append(ids, record.ID)
	}
	if _, err := l.files.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, fmt.Errorf("%w: delete expired: %v", models.ErrStorage, err)
	}
	return expired, nil
}
