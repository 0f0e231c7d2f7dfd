package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/profiles-service/internal/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type outboxRepository struct {
	coll *mongo.Collection
}

func (r *outboxRepository) Enqueue(ctx context.Context, event ports.OutboxEvent) error {
	doc := outboxDocument{
		OutboxID:      event.EventID.String(),
		EventType:     event.EventType,
		PartitionKey:  event.PartitionKey,
		Payload:       event.Payload,
		SchemaVersion: event.SchemaVersion,
		FirstSeenAt:   event.OccurredAt,
		CreatedAt:     event.OccurredAt,
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *outboxRepository) FetchUnpublished(ctx context.Context, limit int, maxRetries int) ([]ports.OutboxRecord, error) {
	filter := bson.M{"publishedAt": nil}
	if maxRetries > 0 {
		filter["retryCount"] = bson.M{"$lt": maxRetries}
	}
	cursor, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "retryCount", Value: 1}, {Key: "createdAt", Value: 1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	var rows []outboxDocument
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]ports.OutboxRecord, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.OutboxID)
		if err != nil {
			return nil, fmt.Errorf("parse outbox id %q: %w", row.OutboxID, err)
		}
		out = append(out, ports.OutboxRecord{
			OutboxID: id, EventType: row.EventType, PartitionKey: row.PartitionKey,
			Payload: row.Payload, RetryCount: row.RetryCount, PublishedAt: row.PublishedAt,
			LastError: row.LastError, LastErrorAt: row.LastErrorAt, FirstSeenAt: row.FirstSeenAt,
		})
	}
	return out, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error {
	_, err := r.coll.UpdateByID(ctx, outboxID.String(), bson.M{"$set": bson.M{"publishedAt": at}})
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error {
	_, err := r.coll.UpdateByID(ctx, outboxID.String(), bson.M{
		"$inc": bson.M{"retryCount": 1},
		"$set": bson.M{"lastError": errMsg, "lastErrorAt": at},
	})
	return err
}
