package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Felixnganga-max/kamson/internal/models"
)

type EventRepo struct {
	col *mongo.Collection
}

func NewEventRepo(col *mongo.Collection) *EventRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetName("date_idx"),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), ix)
	return &EventRepo{col: col}
}

func (r *EventRepo) Insert(ctx context.Context, e *models.Event) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, e)
	if err != nil {
		return err
	}
	e.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *EventRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var e models.Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EventRepo) Update(ctx context.Context, e *models.Event) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	e.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepo) Find(ctx context.Context, q *EventQuery) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(q.Sort).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)
	if q.Projection != nil {
		opts.SetProjection(q.Projection)
	}
	cur, err := r.col.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count ignores pagination so clients can compute page counts.
func (r *EventRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, filter)
}

// MarkPastEvents flips eventType to past for every event dated before
// the current calendar day; events dated today or later are untouched.
func (r *EventRepo) MarkPastEvents(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{
			"date":      bson.M{"$lt": models.StartOfDay(now)},
			"eventType": bson.M{"$ne": models.EventTypePast},
		},
		bson.M{"$set": bson.M{"eventType": models.EventTypePast}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
