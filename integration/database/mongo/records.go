package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/moi-restaurants/tracker/core/recordstore"
)

// RecordStore is a recordstore.Store where every table is a collection of db.
type RecordStore struct {
	db *mongo.Database
}

// NewRecordStore wraps db.
func NewRecordStore(db *mongo.Database) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) Insert(ctx context.Context, table string, rec recordstore.Record) error {
	if err := recordstore.ValidateInsert(table, rec); err != nil {
		return err
	}
	if _, err := s.db.Collection(table).InsertOne(ctx, bson.M(rec)); err != nil {
		return fmt.Errorf("mongo: insert into %s: %w", table, err)
	}
	return nil
}

func (s *RecordStore) Update(ctx context.Context, table string, filter []recordstore.Condition, patch recordstore.Record) error {
	if err := recordstore.ValidateUpdate(table, filter, patch); err != nil {
		return err
	}
	_, err := s.db.Collection(table).UpdateMany(ctx, buildFilter(filter), bson.M{"$set": bson.M(patch)})
	if err != nil {
		return fmt.Errorf("mongo: update %s: %w", table, err)
	}
	return nil
}

func (s *RecordStore) Select(ctx context.Context, table string, q recordstore.Query) ([]recordstore.Record, error) {
	if err := recordstore.ValidateSelect(table, q); err != nil {
		return nil, err
	}

	cursor, err := s.db.Collection(table).Find(ctx, buildFilter(q.Filter), findOptions(q))
	if err != nil {
		return nil, fmt.Errorf("mongo: select from %s: %w", table, err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode %s: %w", table, err)
	}

	out := make([]recordstore.Record, len(docs))
	for i, doc := range docs {
		out[i] = toRecord(doc)
	}
	return out, nil
}

func buildFilter(filter []recordstore.Condition) bson.D {
	d := bson.D{}
	for _, c := range filter {
		d = append(d, bson.E{Key: c.Column, Value: c.Value})
	}
	return d
}

func findOptions(q recordstore.Query) *options.FindOptionsBuilder {
	opts := options.Find()
	if q.Order != nil {
		dir := 1
		if q.Order.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.Order.Column, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}

// toRecord drops the driver-assigned _id and turns BSON dates back into time.Time.
func toRecord(doc bson.M) recordstore.Record {
	rec := make(recordstore.Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		rec[k] = normalize(v)
	}
	return rec
}

func normalize(v any) any {
	switch x := v.(type) {
	case bson.DateTime:
		return x.Time().UTC()
	case bson.M:
		return map[string]any(toRecord(x))
	case bson.D:
		m := make(bson.M, len(x))
		for _, e := range x {
			m[e.Key] = e.Value
		}
		return map[string]any(toRecord(m))
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
