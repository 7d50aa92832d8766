package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pantrylab/pantry/internal/graph"
)

// Mock executor scripting one handler per operation name.
type mockExecutor struct {
	mu       sync.Mutex
	handlers map[string]func(vars map[string]any) (json.RawMessage, error)
	calls    []executedCall
}

type executedCall struct {
	op     string
	vars   map[string]any
	policy graph.RequestPolicy
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{handlers: make(map[string]func(map[string]any) (json.RawMessage, error))}
}

func (m *mockExecutor) handle(opName string, handler func(vars map[string]any) (json.RawMessage, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[opName] = handler
}

func (m *mockExecutor) Execute(ctx context.Context, op graph.Operation, vars map[string]any, opts ...graph.RequestOption) <-chan graph.Result {
	options := graph.BuildOptions(opts)

	m.mu.Lock()
	m.calls = append(m.calls, executedCall{op: op.Name, vars: vars, policy: options.Policy})
	handler := m.handlers[op.Name]
	m.mu.Unlock()

	ch := make(chan graph.Result, 2)
	ch <- graph.Result{Fetching: true}
	if handler == nil {
		ch <- graph.Result{Err: errUnscripted(op.Name)}
	} else {
		data, err := handler(vars)
		ch <- graph.Result{Data: data, Err: err}
	}
	close(ch)
	return ch
}

func (m *mockExecutor) callLog() []executedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]executedCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

type errUnscripted string

func (e errUnscripted) Error() string { return "no handler for operation " + string(e) }

// Mock KeyValue store
type memKV struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{items: make(map[string][]byte)}
}

func (m *memKV) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.items[key]
	return value, ok
}

func (m *memKV) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), value...)
}

// Mock Notifier recording messages per level
type mockNotifier struct {
	mu       sync.Mutex
	errors   []string
	warnings []string
	infos    []string
}

func (m *mockNotifier) Error(message, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, message)
}

func (m *mockNotifier) Warning(message, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, message)
}

func (m *mockNotifier) Info(message, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, message)
}

func (m *mockNotifier) Success(message, title string) {}

func (m *mockNotifier) errorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func (m *mockNotifier) warningCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warnings)
}
