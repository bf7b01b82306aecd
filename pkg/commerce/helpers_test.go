package commerce

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nimburion/storefront/pkg/auth"
	"github.com/nimburion/storefront/pkg/eventbus"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/repository/document"
)

func newTestRepositories(t *testing.T, events *OrderEvents) (*Repositories, *document.MemoryExecutor) {
	t.Helper()
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcryptHasher: %v", err)
	}
	exec := document.NewMemoryExecutor()
	repos := NewRepositories(exec, hasher, events, logger.NewNop())
	if err := repos.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return repos, exec
}

type recordingProducer struct {
	mu       sync.Mutex
	messages []*eventbus.Message
	topics   []string
	err      error
	attempts int
}

func (p *recordingProducer) Publish(_ context.Context, topic string, msg *eventbus.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts++
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

var errBrokerDown = errors.New("broker down")

// failingExecutor fails every call with err.
type failingExecutor struct {
	document.Executor
	err error
}

func (f failingExecutor) FindOne(context.Context, string, document.Filter, interface{}) error {
	return f.err
}

func (f failingExecutor) Find(context.Context, string, document.Filter, interface{}) error {
	return f.err
}

func (f failingExecutor) Count(context.Context, string, document.Filter) (int64, error) {
	return 0, f.err
}

func (f failingExecutor) DeleteMany(context.Context, string, document.Filter) (int64, error) {
	return 0, f.err
}
