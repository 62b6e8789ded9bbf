package loader

import "context"

// Result is what a Manager delivers once its load has finished.
type Result[R any] struct {
	Value R
	Err   error
}

// Manager loads a document and hands it to React, delivering the outcome
// exactly once.
type Manager[T, R any] struct {
	Loader Loader[T]
	React  func(T) (R, error)
}

// NewManager returns a Manager running react over what l loads.
func NewManager[T, R any](l Loader[T], react func(T) (R, error)) *Manager[T, R] {
	return &Manager[T, R]{Loader: l, React: react}
}

// Init starts the load in its own goroutine. The returned channel receives
// one Result and is then closed.
func (m *Manager[T, R]) Init(ctx context.Context) <-chan Result[R] {
	ch := make(chan Result[R], 1)
	go func() {
		defer close(ch)
		var res Result[R]
		v, err := m.Loader.Load(ctx)
		if err != nil {
			res.Err = err
		} else {
			res.Value, res.Err = m.React(v)
		}
		ch <- res
	}()
	return ch
}

// Wait blocks for the single result of ch or for ctx to end.
func Wait[R any](ctx context.Context, ch <-chan Result[R]) (R, error) {
	select {
	case res := <-ch:
		return res.Value, res.Err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}
