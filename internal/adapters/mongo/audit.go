package mongo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/campus-reservations/internal/domain"
	"github.com/robertarktes/campus-reservations/internal/observability"
	"github.com/robertarktes/campus-reservations/internal/outbox"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID          string      `bson:"_id" json:"id"`
	Action      string      `bson:"action" json:"action"`
	Kind        domain.Kind `bson:"kind" json:"type"`
	AggregateID string      `bson:"aggregate_id" json:"aggregate_id"`
	UserID      string      `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Timestamp   time.Time   `bson:"timestamp" json:"timestamp"`
	Data        bson.M      `bson:"data" json:"data"`
}

func (a *AuditLogger) Name() string { return "mongo-audit" }

// Publish stores rec as one audit document. The record id is the document id, so
// a retried insert of the same record reports a duplicate key instead of a second row.
func (a *AuditLogger) Publish(ctx context.Context, rec outbox.Record) error {
	var data bson.M
	if err := json.Unmarshal(rec.Payload, &data); err != nil {
		return errors.Wrap(err, "decode audit payload")
	}
	userID, _ := data["user_id"].(string)
	doc := AuditLog{
		ID:          rec.ID.String(),
		Action:      rec.Type,
		Kind:        rec.Kind,
		AggregateID: rec.AggregateID,
		UserID:      userID,
		Timestamp:   rec.CreatedAt,
		Data:        data,
	}
	_, err := a.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		a.logger.Error("failed to insert audit log", err)
		return err
	}
	return nil
}

// Recent returns the latest audit entries, newest first.
func (a *AuditLogger) Recent(ctx context.Context, aggregateID string, limit int64) ([]AuditLog, error) {
	filter := bson.M{}
	if aggregateID != "" {
		filter["aggregate_id"] = aggregateID
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := a.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find audit logs")
	}
	var logs []AuditLog
	if err := cur.All(ctx, &logs); err != nil {
		return nil, errors.Wrap(err, "decode audit logs")
	}
	return logs, nil
}
