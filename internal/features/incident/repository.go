package incident

import (
	"context"
	"time"

	"space-comply/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IncidentRepository interface {
	Create(ctx context.Context, inc *Incident) error
	FindByRef(ctx context.Context, userID, ref string) (*Incident, error)
	ListByUser(ctx context.Context, userID string) ([]Incident, error)

	CountUnresolved(ctx context.Context, userID string) (int, error)
	CountOverdueReports(ctx context.Context, userID string) (int, error)

	MarkReportFiled(ctx context.Context, userID, ref, kind string, filedAt time.Time) (bool, error)
	UpdateStatus(ctx context.Context, userID, ref string, status Status) (bool, error)

	// FlagOverdueReports marks every unfiled report past its deadline and
	// returns how many documents were touched
	FlagOverdueReports(ctx context.Context, now time.Time) (int64, error)
}

type IncidentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewIncidentRepository(mongodb *database.MongodbDB) IncidentRepository {
	return &IncidentRepositoryImpl{
		Collection: mongodb.DB.Collection("incidents"),
	}
}

func (r *IncidentRepositoryImpl) Create(ctx context.Context, inc *Incident) error {
	if inc.ID.IsZero() {
		inc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	inc.CreatedAt = now
	inc.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, inc)
	return err
}

func (r *IncidentRepositoryImpl) FindByRef(ctx context.Context, userID, ref string) (*Incident, error) {
	var inc Incident
	err := r.Collection.FindOne(ctx, bson.M{"user_id": userID, "ref": ref}).Decode(&inc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &inc, nil
}

func (r *IncidentRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]Incident, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"detected_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var incidents []Incident
	if err = cursor.All(ctx, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

func (r *IncidentRepositoryImpl) CountUnresolved(ctx context.Context, userID string) (int, error) {
	n, err := r.Collection.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"status":  bson.M{"$ne": StatusResolved},
	})
	return int(n), err
}

func (r *IncidentRepositoryImpl) CountOverdueReports(ctx context.Context, userID string) (int, error) {
	// Count overdue report obligations, not incidents: one incident with two
	// missed deadlines is two failures against the regulator.
	matchOverdue := bson.M{"$match": bson.M{
		"reports.filed_at": bson.M{"$exists": false},
		"reports.due_at":   bson.M{"$lt": time.Now().UTC()},
	}}

	pipeline := []bson.M{
		{"$match": bson.M{"user_id": userID}},
		{"$unwind": "$reports"},
		matchOverdue,
		{"$count": "overdue"},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Overdue int `bson:"overdue"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Overdue, nil
}

func (r *IncidentRepositoryImpl) MarkReportFiled(ctx context.Context, userID, ref, kind string, filedAt time.Time) (bool, error) {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "ref": ref, "reports.kind": kind},
		bson.M{"$set": bson.M{
			"reports.$.filed_at": filedAt,
			"reports.$.overdue":  false,
			"updated_at":         time.Now().UTC(),
		}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *IncidentRepositoryImpl) UpdateStatus(ctx context.Context, userID, ref string, status Status) (bool, error) {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "ref": ref},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *IncidentRepositoryImpl) FlagOverdueReports(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.Collection.UpdateMany(ctx,
		bson.M{"reports": bson.M{"$elemMatch": bson.M{
			"filed_at": bson.M{"$exists": false},
			"due_at":   bson.M{"$lt": now},
			"overdue":  false,
		}}},
		bson.M{"$set": bson.M{"reports.$[r].overdue": true}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{
				"r.filed_at": bson.M{"$exists": false},
				"r.due_at":   bson.M{"$lt": now},
			}},
		}))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
