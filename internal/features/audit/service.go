package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AuditService interface {
	// Record writes an audit entry asynchronously. It never blocks the caller
	// and never reports failure; a dropped audit write must not fail the
	// mutation it describes.
	Record(rec Record)

	ListRecords(ctx context.Context, userID string, page, limit int64) ([]Record, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	Logger *zap.Logger
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo:   repo,
		Logger: logger,
	}
}

func (s *AuditServiceImpl) Record(rec Record) {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.Repo.Create(ctx, rec); err != nil {
			s.Logger.Warn("audit write failed",
				zap.String("action", string(rec.Action)),
				zap.String("entity_id", rec.EntityID),
				zap.Error(err))
		}
	}()
}

func (s *AuditServiceImpl) ListRecords(ctx context.Context, userID string, page, limit int64) ([]Record, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	filters := bson.M{}
	if userID != "" {
		filters["user_id"] = userID
	}

	return s.Repo.List(ctx, filters, limit, offset)
}
