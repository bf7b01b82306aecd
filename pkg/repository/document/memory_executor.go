package document

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryExecutor is an in-process Executor for local runs and tests.
// Documents pass through a BSON round trip on every read and write so callers
// observe the same encoding rules as with MongoDB.
type MemoryExecutor struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	docs   []bson.M
	unique []string
}

func NewMemoryExecutor() *MemoryExecutor {
	return &MemoryExecutor{collections: make(map[string]*memCollection)}
}

func (e *MemoryExecutor) collection(name string) *memCollection {
	c, ok := e.collections[name]
	if !ok {
		c = &memCollection{}
		e.collections[name] = c
	}
	return c
}

func (e *MemoryExecutor) InsertOne(ctx context.Context, collection string, doc interface{}) (interface{}, error) {
	ids, err := e.InsertMany(ctx, collection, []interface{}{doc})
	if err != nil {
		return nil, err
	}
	return ids[0], nil
}

func (e *MemoryExecutor) InsertMany(ctx context.Context, collection string, docs []interface{}) ([]interface{}, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.collection(collection)
	ids := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		m, err := toM(doc)
		if err != nil {
			return nil, err
		}
		if id, ok := m["_id"]; !ok || isZeroID(id) {
			m["_id"] = primitive.NewObjectID()
		}
		if err := c.checkUnique(m, nil); err != nil {
			return nil, err
		}
		c.docs = append(c.docs, m)
		ids = append(ids, m["_id"])
	}
	return ids, nil
}

func (e *MemoryExecutor) FindOne(ctx context.Context, collection string, filter Filter, result interface{}) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	f, err := toM(filter)
	if err != nil {
		return err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, doc := range e.collection(collection).docs {
		ok, err := matches(doc, f)
		if err != nil {
			return err
		}
		if ok {
			return decode(doc, result)
		}
	}
	return ErrNotFound
}

func (e *MemoryExecutor) Find(ctx context.Context, collection string, filter Filter, results interface{}) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("results must be a pointer to a slice, got %T", results)
	}
	f, err := toM(filter)
	if err != nil {
		return err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	slice := rv.Elem()
	out := reflect.MakeSlice(slice.Type(), 0, 0)
	for _, doc := range e.collection(collection).docs {
		ok, err := matches(doc, f)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		elem := reflect.New(slice.Type().Elem())
		if err := decode(doc, elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	slice.Set(out)
	return nil
}

func (e *MemoryExecutor) UpdateOne(ctx context.Context, collection string, filter Filter, update Document) (UpdateResult, error) {
	return e.update(ctx, collection, filter, update, false)
}

func (e *MemoryExecutor) UpdateMany(ctx context.Context, collection string, filter Filter, update Document) (UpdateResult, error) {
	return e.update(ctx, collection, filter, update, true)
}

func (e *MemoryExecutor) update(ctx context.Context, collection string, filter Filter, update Document, many bool) (UpdateResult, error) {
	if err := checkContext(ctx); err != nil {
		return UpdateResult{}, err
	}
	f, err := toM(filter)
	if err != nil {
		return UpdateResult{}, err
	}
	set, err := setFields(update)
	if err != nil {
		return UpdateResult{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.collection(collection)
	var result UpdateResult
	for i, doc := range c.docs {
		ok, err := matches(doc, f)
		if err != nil {
			return result, err
		}
		if !ok {
			continue
		}
		result.Matched++

		next := make(bson.M, len(doc)+len(set))
		changed := false
		for k, v := range doc {
			next[k] = v
		}
		for k, v := range set {
			if old, exists := doc[k]; !exists || !reflect.DeepEqual(old, v) {
				changed = true
			}
			next[k] = v
		}
		if changed {
			if err := c.checkUnique(next, doc); err != nil {
				return result, err
			}
			c.docs[i] = next
			result.Modified++
		}
		if !many {
			break
		}
	}
	return result, nil
}

func (e *MemoryExecutor) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	return e.delete(ctx, collection, filter, false)
}

func (e *MemoryExecutor) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	return e.delete(ctx, collection, filter, true)
}

func (e *MemoryExecutor) delete(ctx context.Context, collection string, filter Filter, many bool) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	f, err := toM(filter)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.collection(collection)
	kept := c.docs[:0:0]
	var deleted int64
	for _, doc := range c.docs {
		if many || deleted == 0 {
			ok, err := matches(doc, f)
			if err != nil {
				return 0, err
			}
			if ok {
				deleted++
				continue
			}
		}
		kept = append(kept, doc)
	}
	c.docs = kept
	return deleted, nil
}

func (e *MemoryExecutor) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	f, err := toM(filter)
	if err != nil {
		return 0, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var n int64
	for _, doc := range e.collection(collection).docs {
		ok, err := matches(doc, f)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (e *MemoryExecutor) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.collection(collection)
	for _, existing := range c.unique {
		if existing == field {
			return nil
		}
	}
	seen := make([]interface{}, 0, len(c.docs))
	for _, doc := range c.docs {
		v, ok := doc[field]
		if !ok {
			continue
		}
		for _, s := range seen {
			if valuesEqual(s, v) {
				return fmt.Errorf("%w: existing documents share %s=%v", ErrDuplicateKey, field, v)
			}
		}
		seen = append(seen, v)
	}
	c.unique = append(c.unique, field)
	return nil
}

// checkUnique rejects doc when another document shares _id or a unique
// field value. self is the document being replaced, if any.
func (c *memCollection) checkUnique(doc, self bson.M) error {
	fields := append([]string{"_id"}, c.unique...)
	for _, other := range c.docs {
		if self != nil && reflect.ValueOf(other).Pointer() == reflect.ValueOf(self).Pointer() {
			continue
		}
		for _, field := range fields {
			v, ok := doc[field]
			if !ok {
				continue
			}
			if ov, ok := other[field]; ok && valuesEqual(ov, v) {
				return fmt.Errorf("%w: %s=%v", ErrDuplicateKey, field, v)
			}
		}
	}
	return nil
}

func setFields(update Document) (bson.M, error) {
	u, err := toM(update)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	for op, arg := range u {
		if !strings.HasPrefix(op, "$") {
			return nil, fmt.Errorf("update document must use operators, got field %q", op)
		}
		if op != "$set" {
			return nil, fmt.Errorf("unsupported update operator %q", op)
		}
		fields, ok := asDoc(arg)
		if !ok {
			return nil, fmt.Errorf("$set argument must be a document")
		}
		for k, v := range fields {
			set[k] = v
		}
	}
	return set, nil
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func toM(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Map && rv.IsNil() {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return m, nil
}

func decode(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

func isZeroID(v interface{}) bool {
	switch id := v.(type) {
	case nil:
		return true
	case primitive.ObjectID:
		return id.IsZero()
	case string:
		return id == ""
	default:
		return false
	}
}
