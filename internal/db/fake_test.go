package db

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeDB is an in-memory stand-in for the handful of store operations the
// repositories issue. Collections share it so $lookup can resolve.
type fakeDB struct {
	colls map[string]*fakeCollection
}

func newFakeDB() *fakeDB {
	return &fakeDB{colls: map[string]*fakeCollection{}}
}

func (d *fakeDB) collection(e Entity) *fakeCollection {
	if c, ok := d.colls[e.Collection]; ok {
		return c
	}
	c := &fakeCollection{name: e.Collection, db: d, uniques: e.Uniques}
	d.colls[e.Collection] = c
	return c
}

type fakeCollection struct {
	name    string
	db      *fakeDB
	docs    []bson.M
	uniques []Unique

	fail   error
	zeroID bool
	calls  int
}

func toDoc(v interface{}) bson.M {
	data, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		panic(err)
	}
	return m
}

func copyDoc(m bson.M) bson.M {
	out := make(bson.M, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (c *fakeCollection) duplicate(doc bson.M) error {
	for _, u := range c.uniques {
		v, ok := doc[u.Field]
		if !ok || v == nil || (u.Optional && v == "") {
			continue
		}
		for _, other := range c.docs {
			if other["_id"] == doc["_id"] {
				continue
			}
			if reflect.DeepEqual(other[u.Field], v) {
				return mongo.WriteException{WriteErrors: []mongo.WriteError{{
					Code: 11000,
					Message: fmt.Sprintf("E11000 duplicate key error collection: fleet.%s index: %s dup key: { %s: %q }",
						c.name, u.IndexName(c.name), u.Field, v),
				}}}
			}
		}
	}
	return nil
}

func (c *fakeCollection) indexOf(filter interface{}) int {
	f, _ := filter.(bson.M)
	for i, d := range c.docs {
		if reflect.DeepEqual(d["_id"], f["_id"]) {
			return i
		}
	}
	return -1
}

func (c *fakeCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	c.calls++
	if c.fail != nil {
		return nil, c.fail
	}
	if c.zeroID {
		return &mongo.InsertOneResult{InsertedID: primitive.NilObjectID}, nil
	}
	doc := toDoc(document)
	if _, ok := doc["_id"].(primitive.ObjectID); !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	if err := c.duplicate(doc); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, doc)
	return &mongo.InsertOneResult{InsertedID: doc["_id"]}, nil
}

func (c *fakeCollection) Aggregate(_ context.Context, pipeline interface{}, _ ...*options.AggregateOptions) (*mongo.Cursor, error) {
	c.calls++
	if c.fail != nil {
		return nil, c.fail
	}
	docs := make([]bson.M, 0, len(c.docs))
	for _, d := range c.docs {
		docs = append(docs, copyDoc(d))
	}

	for _, stage := range pipeline.(mongo.Pipeline) {
		op := stage[0]
		switch op.Key {
		case "$match":
			match := op.Value.(bson.M)
			kept := docs[:0]
			for _, d := range docs {
				ok := true
				for k, v := range match {
					if !reflect.DeepEqual(d[k], v) {
						ok = false
						break
					}
				}
				if ok {
					kept = append(kept, d)
				}
			}
			docs = kept
		case "$sort":
			key := op.Value.(bson.D)[0]
			dir := key.Value.(int)
			sort.SliceStable(docs, func(i, j int) bool {
				if dir < 0 {
					return less(docs[j][key.Key], docs[i][key.Key])
				}
				return less(docs[i][key.Key], docs[j][key.Key])
			})
		case "$lookup":
			lk := op.Value.(bson.M)
			from := c.db.colls[lk["from"].(string)]
			for _, d := range docs {
				var matched []interface{}
				if from != nil {
					for _, f := range from.docs {
						if d[lk["localField"].(string)] != nil &&
							reflect.DeepEqual(f[lk["foreignField"].(string)], d[lk["localField"].(string)]) {
							matched = append(matched, copyDoc(f))
						}
					}
				}
				d[lk["as"].(string)] = matched
			}
		case "$unwind":
			path := strings.TrimPrefix(op.Value.(bson.M)["path"].(string), "$")
			for _, d := range docs {
				arr, _ := d[path].([]interface{})
				if len(arr) == 0 {
					delete(d, path)
					continue
				}
				d[path] = arr[0]
			}
		case "$limit":
			if n := op.Value.(int); len(docs) > n {
				docs = docs[:n]
			}
		}
	}

	out := make([]interface{}, len(docs))
	for i, d := range docs {
		out[i] = d
	}
	return mongo.NewCursorFromDocuments(out, nil, nil)
}

func (c *fakeCollection) FindOneAndUpdate(_ context.Context, filter interface{}, update interface{}, _ ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	c.calls++
	if c.fail != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, c.fail, nil)
	}
	i := c.indexOf(filter)
	if i < 0 {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	merged := copyDoc(c.docs[i])
	for k, v := range toDoc(update.(bson.M)["$set"]) {
		merged[k] = v
	}
	if err := c.duplicate(merged); err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}
	c.docs[i] = merged
	return mongo.NewSingleResultFromDocument(copyDoc(merged), nil, nil)
}

func (c *fakeCollection) DeleteOne(_ context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.calls++
	if c.fail != nil {
		return nil, c.fail
	}
	i := c.indexOf(filter)
	if i < 0 {
		return &mongo.DeleteResult{DeletedCount: 0}, nil
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func less(a, b interface{}) bool {
	switch av := a.(type) {
	case primitive.DateTime:
		bv, _ := b.(primitive.DateTime)
		return av < bv
	case string:
		bv, _ := b.(string)
		return av < bv
	case int32:
		bv, _ := b.(int32)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	}
	return false
}

var _ Collection = (*fakeCollection)(nil)
