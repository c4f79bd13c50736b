package moderation

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/adist/cinecircle/internal/ai"
)

// AuditEntry is one append-only record of a moderation action. Entries are
// never mutated after the fact.
type AuditEntry struct {
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	ReviewID  primitive.ObjectID `bson:"reviewId" json:"reviewId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Action    string             `bson:"action" json:"action"` // "removed", "flagged", "allowed"
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Delta     int                `bson:"pointsDelta" json:"pointsDelta"`
	Analysis  ai.ContentAnalysis `bson:"analysis" json:"analysis"`
}

// Auditor writes moderation audit records to the structured log and, when a
// collection is configured, to the moderationLogs collection. A failed
// insert is logged and swallowed: auditing never fails a moderation pass.
type Auditor struct {
	log        *zap.Logger
	collection *mongo.Collection
}

func NewAuditor(log *zap.Logger, db *mongo.Database) *Auditor {
	auditor := &Auditor{log: log}
	if db != nil {
		auditor.collection = db.Collection("moderationLogs")
	}
	return auditor
}

func (a *Auditor) Record(ctx context.Context, entry AuditEntry) {
	a.log.Info("moderation action",
		zap.Time("timestamp", entry.Timestamp),
		zap.String("reviewId", entry.ReviewID.Hex()),
		zap.String("userId", entry.UserID.Hex()),
		zap.String("action", entry.Action),
		zap.String("reason", entry.Reason),
		zap.Int("pointsDelta", entry.Delta),
		zap.Bool("aiFallback", entry.Analysis.Fallback),
	)

	if a.collection != nil {
		if _, err := a.collection.InsertOne(ctx, entry); err != nil {
			a.log.Warn("failed to persist audit record", zap.Error(err))
		}
	}
}
