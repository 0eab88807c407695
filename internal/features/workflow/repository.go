package workflow

import (
	"context"
	"time"

	"space-comply/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkflowRepository interface {
	Create(ctx context.Context, wf *AuthorizationWorkflow) error
	FindByID(ctx context.Context, id string) (*AuthorizationWorkflow, error)
	ListByUser(ctx context.Context, userID string) ([]AuthorizationWorkflow, error)
	LatestByUser(ctx context.Context, userID string) (*AuthorizationWorkflow, error)

	// CompareAndSwapStatus sets the status only when the stored status still
	// equals from, so two concurrent transitions against the same stale state
	// cannot both succeed. Returns false when the swap lost the race.
	CompareAndSwapStatus(ctx context.Context, id, from, to string, set bson.M) (bool, error)

	// UpdateDocumentStatus mutates a single owned document by type.
	// Returns false when the workflow or document does not exist.
	UpdateDocumentStatus(ctx context.Context, id, docType string, status DocumentStatus, completedAt *time.Time) (bool, error)
}

type WorkflowRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewWorkflowRepository(mongodb *database.MongodbDB) WorkflowRepository {
	return &WorkflowRepositoryImpl{
		Collection: mongodb.DB.Collection("authorization_workflows"),
	}
}

func (r *WorkflowRepositoryImpl) Create(ctx context.Context, wf *AuthorizationWorkflow) error {
	if wf.ID.IsZero() {
		wf.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	wf.CreatedAt = now
	wf.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, wf)
	return err
}

func (r *WorkflowRepositoryImpl) FindByID(ctx context.Context, id string) (*AuthorizationWorkflow, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil // malformed id can never match a workflow
	}

	var wf AuthorizationWorkflow
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&wf)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]AuthorizationWorkflow, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workflows []AuthorizationWorkflow
	if err = cursor.All(ctx, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *WorkflowRepositoryImpl) LatestByUser(ctx context.Context, userID string) (*AuthorizationWorkflow, error) {
	var wf AuthorizationWorkflow
	err := r.Collection.FindOne(ctx, bson.M{"user_id": userID},
		options.FindOne().SetSort(bson.M{"created_at": -1})).Decode(&wf)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepositoryImpl) CompareAndSwapStatus(ctx context.Context, id, from, to string, set bson.M) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	update := bson.M{"status": to, "updated_at": time.Now().UTC()}
	for k, v := range set {
		update[k] = v
	}

	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": update})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *WorkflowRepositoryImpl) UpdateDocumentStatus(ctx context.Context, id, docType string, status DocumentStatus, completedAt *time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	set := bson.M{
		"documents.$.status": status,
		"updated_at":         time.Now().UTC(),
	}
	if completedAt != nil {
		set["documents.$.completed_at"] = completedAt
	}

	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "documents.type": docType},
		bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
