package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/umputun/jobdash/app/jobs"
)

// DefaultCollection is the collection delayed_job mongoid backend uses
const DefaultCollection = "delayed_backend_mongoid_jobs"

// MongoStore implements the job query store over a document collection
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// jobDoc is a stored job document
type jobDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Priority  int                `bson:"priority"`
	Attempts  int                `bson:"attempts"`
	Handler   string             `bson:"handler"`
	LastError *string            `bson:"last_error,omitempty"`
	RunAt     time.Time          `bson:"run_at"`
	LockedAt  *time.Time         `bson:"locked_at,omitempty"`
	FailedAt  *time.Time         `bson:"failed_at,omitempty"`
	LockedBy  *string            `bson:"locked_by,omitempty"`
	Queue     *string            `bson:"queue,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// mongoSort orders newest first, ObjectIDs ascending keep insertion order for equal created_at
var mongoSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}

// NewMongoStore connects to uri and uses database/collection for job documents.
// Empty collection defaults to DefaultCollection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		return nil, errors.New("mongo database name is required")
	}
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(collection)}, nil
}

// Initialize creates the index used for bucket listings
func (s *MongoStore) Initialize(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: mongoSort})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// Find returns a page of records matching the query together with the total count
func (s *MongoStore) Find(ctx context.Context, q Query) (Page, error) {
	if err := q.validate(); err != nil {
		return Page{}, err
	}
	filter := mongoFilter(q.Predicate)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("failed to count jobs: %w", err)
	}

	opts := options.Find().SetSort(mongoSort)
	if !q.Unpaged {
		opts = opts.SetSkip(int64(q.Offset)).SetLimit(int64(q.Limit))
	}
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return Page{}, fmt.Errorf("failed to query jobs: %w", err)
	}
	docs := []jobDoc{}
	if err := cursor.All(ctx, &docs); err != nil {
		return Page{}, fmt.Errorf("failed to decode jobs: %w", err)
	}

	res := Page{Jobs: make([]jobs.Record, 0, len(docs)), Total: int(total)}
	for _, d := range docs {
		res.Jobs = append(res.Jobs, d.record())
	}
	return res, nil
}

// Count returns the number of records matching the predicate
func (s *MongoStore) Count(ctx context.Context, p jobs.Predicate) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("invalid predicate: %w", err)
	}
	total, err := s.coll.CountDocuments(ctx, mongoFilter(p))
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return int(total), nil
}

// IDs returns ids of all records matching the predicate at call time
func (s *MongoStore) IDs(ctx context.Context, p jobs.Predicate) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid predicate: %w", err)
	}
	opts := options.Find().SetSort(mongoSort).SetProjection(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, mongoFilter(p), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query job ids: %w", err)
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode job ids: %w", err)
	}
	res := make([]string, 0, len(docs))
	for _, d := range docs {
		res = append(res, d.ID.Hex())
	}
	return res, nil
}

// Get returns a single record by id
func (s *MongoStore) Get(ctx context.Context, id string) (jobs.Record, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return jobs.Record{}, err
	}
	var doc jobDoc
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return jobs.Record{}, fmt.Errorf("%w: %s", jobs.ErrNotFound, id)
		}
		return jobs.Record{}, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return doc.record(), nil
}

// Delete removes the record with the given id
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete job %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", jobs.ErrNotFound, id)
	}
	return nil
}

// Requeue sets run_at of the record to the given time, attempts and last_error are kept
func (s *MongoStore) Requeue(ctx context.Context, id string, at time.Time) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	at = at.UTC()
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "run_at", Value: at}, {Key: "updated_at", Value: at}}}}
	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return fmt.Errorf("failed to requeue job %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", jobs.ErrNotFound, id)
	}
	return nil
}

// Ping checks the server is reachable
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// String describes the store for logging
func (s *MongoStore) String() string {
	return fmt.Sprintf("mongo:%s.%s", s.coll.Database().Name(), s.coll.Name())
}

// mongoFilter translates a validated predicate to a bson filter.
// A field holding null counts as absent, the same way a NULL column does.
func mongoFilter(p jobs.Predicate) bson.D {
	switch p.Kind {
	case jobs.FieldPresent:
		return bson.D{{Key: string(p.Field), Value: bson.D{{Key: "$exists", Value: true}, {Key: "$ne", Value: nil}}}}
	case jobs.FieldAbsent:
		return bson.D{{Key: string(p.Field), Value: nil}}
	case jobs.FieldEquals:
		return bson.D{{Key: string(p.Field), Value: p.Value}}
	default:
		return bson.D{}
	}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", jobs.ErrNotFound, id)
	}
	return oid, nil
}

func (d jobDoc) record() jobs.Record {
	rec := jobs.Record{
		ID:        d.ID.Hex(),
		Priority:  d.Priority,
		Attempts:  d.Attempts,
		Handler:   d.Handler,
		LastError: d.LastError,
		RunAt:     d.RunAt,
		LockedAt:  d.LockedAt,
		FailedAt:  d.FailedAt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.LockedBy != nil {
		rec.LockedBy = *d.LockedBy
	}
	if d.Queue != nil {
		rec.Queue = *d.Queue
	}
	return rec
}
