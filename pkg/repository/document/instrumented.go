package document

import (
	"context"
	"errors"
	"time"

	"github.com/nimburion/storefront/pkg/observability/metrics"
	"github.com/nimburion/storefront/pkg/observability/tracing"
)

// InstrumentedExecutor wraps an Executor with a span and Prometheus
// metrics per operation.
type InstrumentedExecutor struct {
	next   Executor
	system string
}

// NewInstrumentedExecutor decorates next; system names the backend in spans ("mongodb", "memory").
func NewInstrumentedExecutor(next Executor, system string) *InstrumentedExecutor {
	return &InstrumentedExecutor{next: next, system: system}
}

func (e *InstrumentedExecutor) observe(ctx context.Context, collection, operation string, fn func(context.Context) error) error {
	ctx, span := tracing.StartStoreSpan(ctx, e.system, collection, operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = metrics.OutcomeNotFound
		tracing.RecordSuccess(span)
	case err != nil:
		outcome = metrics.OutcomeError
		tracing.RecordError(span, err)
	default:
		tracing.RecordSuccess(span)
	}
	metrics.RecordStoreOperation(collection, operation, outcome, time.Since(start))
	return err
}

func (e *InstrumentedExecutor) InsertOne(ctx context.Context, collection string, doc interface{}) (id interface{}, err error) {
	err = e.observe(ctx, collection, "insert_one", func(ctx context.Context) error {
		id, err = e.next.InsertOne(ctx, collection, doc)
		return err
	})
	return id, err
}

func (e *InstrumentedExecutor) InsertMany(ctx context.Context, collection string, docs []interface{}) (ids []interface{}, err error) {
	err = e.observe(ctx, collection, "insert_many", func(ctx context.Context) error {
		ids, err = e.next.InsertMany(ctx, collection, docs)
		return err
	})
	return ids, err
}

func (e *InstrumentedExecutor) FindOne(ctx context.Context, collection string, filter Filter, result interface{}) error {
	return e.observe(ctx, collection, "find_one", func(ctx context.Context) error {
		return e.next.FindOne(ctx, collection, filter, result)
	})
}

func (e *InstrumentedExecutor) Find(ctx context.Context, collection string, filter Filter, results interface{}) error {
	return e.observe(ctx, collection, "find", func(ctx context.Context) error {
		return e.next.Find(ctx, collection, filter, results)
	})
}

func (e *InstrumentedExecutor) UpdateOne(ctx context.Context, collection string, filter Filter, update Document) (res UpdateResult, err error) {
	err = e.observe(ctx, collection, "update_one", func(ctx context.Context) error {
		res, err = e.next.UpdateOne(ctx, collection, filter, update)
		return err
	})
	return res, err
}

func (e *InstrumentedExecutor) UpdateMany(ctx context.Context, collection string, filter Filter, update Document) (res UpdateResult, err error) {
	err = e.observe(ctx, collection, "update_many", func(ctx context.Context) error {
		res, err = e.next.UpdateMany(ctx, collection, filter, update)
		return err
	})
	return res, err
}

func (e *InstrumentedExecutor) DeleteOne(ctx context.Context, collection string, filter Filter) (n int64, err error) {
	err = e.observe(ctx, collection, "delete_one", func(ctx context.Context) error {
		n, err = e.next.DeleteOne(ctx, collection, filter)
		return err
	})
	return n, err
}

func (e *InstrumentedExecutor) DeleteMany(ctx context.Context, collection string, filter Filter) (n int64, err error) {
	err = e.observe(ctx, collection, "delete_many", func(ctx context.Context) error {
		n, err = e.next.DeleteMany(ctx, collection, filter)
		return err
	})
	return n, err
}

func (e *InstrumentedExecutor) Count(ctx context.Context, collection string, filter Filter) (n int64, err error) {
	err = e.observe(ctx, collection, "count", func(ctx context.Context) error {
		n, err = e.next.Count(ctx, collection, filter)
		return err
	})
	return n, err
}

func (e *InstrumentedExecutor) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	return e.observe(ctx, collection, "ensure_index", func(ctx context.Context) error {
		return e.next.EnsureUniqueIndex(ctx, collection, field)
	})
}
