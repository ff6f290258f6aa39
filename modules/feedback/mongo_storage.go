package feedback

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultCollection is the collection feedback records live in.
const DefaultCollection = "feedbacks"

// MongoStorage stores records in a MongoDB collection.
type MongoStorage struct {
	coll *mongo.Collection
}

// NewMongoStorage uses the named collection of db. An empty name means DefaultCollection.
func NewMongoStorage(db *mongo.Database, collection string) *MongoStorage {
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoStorage{coll: db.Collection(collection)}
}

// EnsureIndexes creates the indexes ListRecent and Aggregate rely on.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "context.applicationName", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "trackingId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return errors.Join(ErrStorage, fmt.Errorf("create indexes: %w", err))
	}
	return nil
}

func (s *MongoStorage) Insert(ctx context.Context, rec Record) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return errors.Join(ErrStorage, fmt.Errorf("insert %s: %w", rec.ID, err))
	}
	return nil
}

func (s *MongoStorage) FindByID(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, errors.Join(ErrStorage, fmt.Errorf("find %s: %w", id, err))
	}
	return rec, nil
}

func (s *MongoStorage) Find(ctx context.Context, f Filter) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := s.coll.Find(ctx, filterDocument(f), opts)
	if err != nil {
		return nil, errors.Join(ErrStorage, fmt.Errorf("find: %w", err))
	}

	records := []Record{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, errors.Join(ErrStorage, fmt.Errorf("decode: %w", err))
	}
	return records, nil
}

func (s *MongoStorage) Update(ctx context.Context, id string, u Update) (Record, error) {
	set := bson.D{}
	if u.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *u.Status})
	}
	if u.ReviewedAt != nil {
		set = append(set, bson.E{Key: "reviewedAt", Value: *u.ReviewedAt})
	}
	if u.ReviewedBy != nil {
		set = append(set, bson.E{Key: "reviewedBy", Value: *u.ReviewedBy})
	}
	if u.EmailsSent != nil {
		set = append(set, bson.E{Key: "emailsSent", Value: *u.EmailsSent})
	}
	if !u.UpdatedAt.IsZero() {
		set = append(set, bson.E{Key: "updatedAt", Value: u.UpdatedAt})
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	var rec Record
	err := s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, errors.Join(ErrStorage, fmt.Errorf("update %s: %w", id, err))
	}
	return rec, nil
}

func (s *MongoStorage) CountByType(ctx context.Context, applicationName string) ([]TypeStat, error) {
	pipeline := mongo.Pipeline{}
	if applicationName != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "context.applicationName", Value: applicationName},
		}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$feedback.type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "ratingSum", Value: bson.D{{Key: "$sum", Value: "$feedback.rating"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	)

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Join(ErrStorage, fmt.Errorf("aggregate: %w", err))
	}

	var stats []TypeStat
	if err := cur.All(ctx, &stats); err != nil {
		return nil, errors.Join(ErrStorage, fmt.Errorf("decode aggregate: %w", err))
	}
	return stats, nil
}

func filterDocument(f Filter) bson.D {
	filter := bson.D{}
	if f.ApplicationName != "" {
		filter = append(filter, bson.E{Key: "context.applicationName", Value: f.ApplicationName})
	}
	if f.FeatureName != "" {
		filter = append(filter, bson.E{Key: "context.featureName", Value: f.FeatureName})
	}
	if f.Type != "" {
		filter = append(filter, bson.E{Key: "feedback.type", Value: f.Type})
	}

	rating := bson.D{}
	if f.MinRating != nil {
		rating = append(rating, bson.E{Key: "$gte", Value: *f.MinRating})
	}
	if f.MaxRating != nil {
		rating = append(rating, bson.E{Key: "$lte", Value: *f.MaxRating})
	}
	if len(rating) > 0 {
		filter = append(filter, bson.E{Key: "feedback.rating", Value: rating})
	}
	return filter
}

var _ Storage = (*MongoStorage)(nil)
