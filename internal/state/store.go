package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultQueueSize is the action buffer used when none is configured.
const DefaultQueueSize = 64

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("state: store already running")

// Dispatch enqueues an action.
type Dispatch func(Action)

// Effect performs the side effects of an action. It runs in its own
// goroutine and reports results by dispatching further actions. ctx is
// cancelled when the store stops.
type Effect func(ctx context.Context, a Action, dispatch Dispatch)

// Listener observes every reduction. It is called on the store goroutine
// and must not block.
type Listener func(a Action, s State)

// Store owns the State. A single goroutine (Run) drains the action queue in
// order, applies Reduce, publishes the snapshot to listeners and then starts
// the effects registered for the action.
type Store struct {
	log   *slog.Logger
	queue chan Action
	done  chan struct{}

	closeOnce sync.Once
	running   atomic.Bool

	mu    sync.RWMutex
	state State

	effectsMu sync.RWMutex
	effects   map[Kind][]Effect

	listenersMu sync.Mutex
	listeners   map[uint64]Listener
	nextID      uint64
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithQueueSize sets the capacity of the action queue.
func WithQueueSize(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.queue = make(chan Action, n)
		}
	}
}

// WithInitialState starts the store from st instead of InitialState().
func WithInitialState(st State) StoreOption {
	return func(s *Store) { s.state = st }
}

// NewStore creates a store. It does nothing until Run is called.
func NewStore(logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		log:       logger.With("component", "store"),
		queue:     make(chan Action, DefaultQueueSize),
		done:      make(chan struct{}),
		state:     InitialState(),
		effects:   make(map[Kind][]Effect),
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterEffect attaches fn to actions of the given kind.
func (s *Store) RegisterEffect(kind Kind, fn Effect) {
	s.effectsMu.Lock()
	s.effects[kind] = append(s.effects[kind], fn)
	s.effectsMu.Unlock()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

// State returns the latest published snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch enqueues a. It blocks only while the queue is full and silently
// drops the action once the store has stopped. Listeners must not call it.
func (s *Store) Dispatch(a Action) {
	if a == nil {
		return
	}
	select {
	case <-s.done:
		s.log.Debug("action dropped after shutdown", slog.String("action", string(a.Kind())))
		return
	default:
	}

	select {
	case s.queue <- a:
	case <-s.done:
		s.log.Debug("action dropped after shutdown", slog.String("action", string(a.Kind())))
	}
}

// Run processes actions until ctx is cancelled or Close is called, then
// cancels in-flight effects and waits for them. It returns nil after Close
// and the context error otherwise.
func (s *Store) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	effCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	var runErr error

	s.log.Debug("store started", slog.Int("queue_size", cap(s.queue)))

loop:
	for {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		case <-s.done:
			break loop
		case a := <-s.queue:
			s.apply(a)
			s.startEffects(effCtx, &g, a)
		}
	}

	s.Close()
	cancel()
	_ = g.Wait()
	s.log.Debug("store stopped")
	return runErr
}

// Close stops the store. It is safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Done is closed once the store stops accepting actions.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

func (s *Store) apply(a Action) {
	s.mu.Lock()
	next := Reduce(s.state, a)
	s.state = next
	s.mu.Unlock()

	s.log.Debug("action applied",
		slog.String("action", string(a.Kind())),
		slog.Bool("loading", next.Loading),
		slog.Bool("dialog_open", next.IsDialogOpen),
		slog.Int("reviews", len(next.Reviews)),
		slog.Int("movies", len(next.Movies)),
	)

	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(a, next)
	}
}

func (s *Store) startEffects(ctx context.Context, g *errgroup.Group, a Action) {
	s.effectsMu.RLock()
	fns := s.effects[a.Kind()]
	s.effectsMu.RUnlock()

	for _, fn := range fns {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("state: effect for %s panicked: %v", a.Kind(), r)
					s.log.Error("effect panicked", slog.String("action", string(a.Kind())), slog.Any("panic", r))
				}
			}()
			fn(ctx, a, s.Dispatch)
			return nil
		})
	}
}

// DispatchAndWait dispatches a and blocks until an action matching match has
// been applied, returning that action and the resulting state.
func (s *Store) DispatchAndWait(ctx context.Context, a Action, match func(Action) bool) (Action, State, error) {
	type result struct {
		action Action
		state  State
	}
	ch := make(chan result, 1)

	unsubscribe := s.Subscribe(func(got Action, st State) {
		if !match(got) {
			return
		}
		select {
		case ch <- result{got, st}:
		default:
		}
	})
	defer unsubscribe()

	s.Dispatch(a)

	select {
	case r := <-ch:
		return r.action, r.state, nil
	case <-ctx.Done():
		return nil, State{}, ctx.Err()
	case <-s.done:
		return nil, State{}, errors.New("state: store stopped")
	}
}
