package trip

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "trips"

// MongoStore keeps one document per trip, keyed by the trip id.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(mongoCollection)}
}

// EnsureIndexes creates the generatedAt index used by List and the dedup lookup index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "generatedAt", Value: -1}}},
		{Keys: bson.D{
			{Key: "destination", Value: 1},
			{Key: "fromCity", Value: 1},
			{Key: "numberOfDays", Value: 1},
			{Key: "budget", Value: 1},
			{Key: "familyType", Value: 1},
		}},
	})
	return err
}

func (s *MongoStore) Create(ctx context.Context, t *Trip) error {
	_, err := s.coll.InsertOne(ctx, t)
	return err
}

func (s *MongoStore) List(ctx context.Context) ([]Trip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "generatedAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	trips := []Trip{}
	if err := cur.All(ctx, &trips); err != nil {
		return nil, err
	}
	for i := range trips {
		trips[i].GeneratedAt = trips[i].GeneratedAt.UTC()
	}
	return trips, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Trip, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) FindDuplicate(ctx context.Context, key DedupKey) (*Trip, error) {
	return s.findOne(ctx, bson.D{
		{Key: "destination", Value: key.Destination},
		{Key: "fromCity", Value: key.FromCity},
		{Key: "numberOfDays", Value: key.NumberOfDays},
		{Key: "budget", Value: key.Budget},
		{Key: "familyType", Value: key.FamilyType},
	})
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D) (*Trip, error) {
	var t Trip
	err := s.coll.FindOne(ctx, filter).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.GeneratedAt = t.GeneratedAt.UTC()
	return &t, nil
}
