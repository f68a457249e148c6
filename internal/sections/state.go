package sections

import "sync"

// State is the fetch lifecycle shared by the read-only sections.
type State uint8

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// loader owns one section's state. Each activation gets a generation;
// results carrying an older generation are dropped.
type loader[T any] struct {
	mu    sync.Mutex
	state State
	gen   uint64
	data  T
	err   error
}

// begin moves Idle to Loading and returns the activation's generation.
func (l *loader[T]) begin() (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Idle {
		return 0, false
	}
	l.state = Loading
	l.gen++
	return l.gen, true
}

// finish stores a result for gen. It reports false when the section was
// deactivated meanwhile.
func (l *loader[T]) finish(gen uint64, data T, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen || l.state != Loading {
		return false
	}
	var zero T
	if err != nil {
		l.state, l.data, l.err = Failed, zero, err
		return true
	}
	l.state, l.data, l.err = Loaded, data, nil
	return true
}

func (l *loader[T]) deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.gen++
	l.state, l.data, l.err = Idle, zero, nil
}

func (l *loader[T]) snapshot() (State, T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.data, l.err
}
