package portfolio

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DefaultMinDisplay is how long the loading state lasts at minimum, however fast
// the fetch completes.
const DefaultMinDisplay = 2 * time.Second

var (
	// ErrNotStarted is returned by Wait before Start has been called.
	ErrNotStarted = errors.New("portfolio loader not started")
	// ErrNotFailed is returned by Retry unless the previous attempt failed.
	ErrNotFailed = errors.New("portfolio loader has not failed")
)

// State is the lifecycle state of a Loader.
type State int

const (
	// StateLoading means a retrieval is in progress or has not been started.
	StateLoading State = iota
	// StateReady means the document is available.
	StateReady
	// StateFailed means the last retrieval failed; Retry may be called.
	StateFailed
)

// String returns the state name.
func (s State) String() (name string) {
	switch s {
	case StateLoading:
		name = "loading"
	case StateReady:
		name = "ready"
	case StateFailed:
		name = "failed"
	default:
		name = "unknown"
	}
	return name
}

// FetchFunc retrieves a document from a source.
type FetchFunc func(ctx context.Context, source string) (doc Document, err error)

// LogFunc receives load failure messages.
type LogFunc func(format string, args ...interface{})

// LoaderOption configures a Loader.
type LoaderOption func(l *Loader)

// WithMinDisplay sets the minimum loading duration. Zero disables the floor.
func WithMinDisplay(d time.Duration) (opt LoaderOption) {
	opt = func(l *Loader) {
		if d < 0 {
			d = 0
		}
		l.minDisplay = d
	}
	return opt
}

// WithFetchFunc replaces the retrieval function.
func WithFetchFunc(f FetchFunc) (opt LoaderOption) {
	opt = func(l *Loader) {
		l.fetch = f
	}
	return opt
}

// WithLogFunc sets where load failures are logged.
func WithLogFunc(f LogFunc) (opt LoaderOption) {
	opt = func(l *Loader) {
		l.logf = f
	}
	return opt
}

// Loader holds the session's portfolio document. The document is fetched once
// and never mutated; only a Retry after a failure fetches again.
type Loader struct {
	source     string
	minDisplay time.Duration
	fetch      FetchFunc
	logf       LogFunc

	mu      sync.Mutex
	started bool
	state   State
	doc     *Document
	err     error
	done    chan struct{}
}

// NewLoader creates a loader for the given file path or URL.
func NewLoader(source string, opts ...LoaderOption) (loader *Loader) {
	loader = &Loader{
		source:     source,
		minDisplay: DefaultMinDisplay,
		fetch:      Fetch,
		logf:       log.Printf,
		state:      StateLoading,
	}

	for _, opt := range opts {
		opt(loader)
	}

	return loader
}

// Source returns where the loader fetches from.
func (l *Loader) Source() (source string) {
	source = l.source
	return source
}

// Start issues the single retrieval. Calling it again has no effect.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return
	}

	l.started = true
	l.begin(ctx)
}

// Retry fetches again after a failed attempt.
func (l *Loader) Retry(ctx context.Context) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateFailed {
		err = ErrNotFailed
		return err
	}

	l.begin(ctx)
	return err
}

// begin starts an attempt. Callers hold l.mu.
func (l *Loader) begin(ctx context.Context) {
	l.state = StateLoading
	l.err = nil
	l.done = make(chan struct{})

	go l.run(ctx, l.done)
}

func (l *Loader) run(ctx context.Context, done chan struct{}) {
	startedAt := time.Now()

	doc, err := l.fetch(ctx, l.source)
	if err != nil {
		l.logf("Error loading portfolio data: %v", err)
	}

	remaining := l.minDisplay - time.Since(startedAt)
	if remaining > 0 {
		timer := time.NewTimer(remaining)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.state = StateFailed
		l.err = err
	} else {
		l.state = StateReady
		l.doc = &doc
	}

	close(done)
}

// State returns the current lifecycle state.
func (l *Loader) State() (state State) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state = l.state
	return state
}

// Document returns the loaded document once the loader is ready.
func (l *Loader) Document() (doc *Document, ready bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateReady {
		doc = l.doc
		ready = true
	}
	return doc, ready
}

// Err returns the error of the last failed attempt.
func (l *Loader) Err() (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	err = l.err
	return err
}

// Wait blocks until the current attempt finishes or ctx is done.
func (l *Loader) Wait(ctx context.Context) (doc *Document, err error) {
	l.mu.Lock()
	started := l.started
	done := l.done
	l.mu.Unlock()

	if !started {
		err = ErrNotStarted
		return doc, err
	}

	select {
	case <-done:
	case <-ctx.Done():
		err = errors.Wrap(ctx.Err(), "waiting for portfolio data")
		return doc, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateReady:
		doc = l.doc
	case StateFailed:
		err = l.err
	default:
		err = errors.New("portfolio data still loading")
	}

	return doc, err
}
