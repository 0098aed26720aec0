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

type MediaRepo struct {
	col *mongo.Collection
}

func NewMediaRepo(col *mongo.Collection) *MediaRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("category_created_idx"),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), ix)
	return &MediaRepo{col: col}
}

func (r *MediaRepo) Insert(ctx context.Context, m *models.Media) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MediaRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var m models.Media
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Find lists media newest first, optionally narrowed by category
// and/or type.
func (r *MediaRepo) Find(ctx context.Context, category, mediaType string) ([]models.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if mediaType != "" {
		filter["type"] = mediaType
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	media := []models.Media{}
	if err := cur.All(ctx, &media); err != nil {
		return nil, err
	}
	return media, nil
}

func (r *MediaRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
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
