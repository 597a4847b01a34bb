package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"autoreview/app/models"

	"github.com/looplab/fsm"
)

// Phase is the dropdown state of a search box.
type Phase string

const (
	Idle        Phase = "idle"
	Pending     Phase = "pending"
	OpenResults Phase = "open-results"
	OpenEmpty   Phase = "open-empty"
	Closed      Phase = "closed"
)

const (
	evKeystroke   = "keystroke"
	evClear       = "clear"
	evSettle      = "settle"
	evSettleEmpty = "settle-empty"
	evDismiss     = "dismiss"
	evFocus       = "focus"
	evFocusEmpty  = "focus-empty"
	evSelect      = "select"
)

// ErrStale is returned by Load when the session was closed while the
// collection was being fetched.
var ErrStale = errors.New("search session closed before the collection arrived")

var allPhases = []string{string(Idle), string(Pending), string(OpenResults), string(OpenEmpty), string(Closed)}

func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(Idle),
		fsm.Events{
			{Name: evKeystroke, Src: allPhases, Dst: string(Pending)},
			{Name: evClear, Src: allPhases, Dst: string(Idle)},
			{Name: evSettle, Src: []string{string(Pending)}, Dst: string(OpenResults)},
			{Name: evSettleEmpty, Src: []string{string(Pending)}, Dst: string(OpenEmpty)},
			{Name: evDismiss, Src: []string{string(Pending), string(OpenResults), string(OpenEmpty)}, Dst: string(Closed)},
			{Name: evFocus, Src: []string{string(Closed)}, Dst: string(OpenResults)},
			{Name: evFocusEmpty, Src: []string{string(Closed)}, Dst: string(OpenEmpty)},
			{Name: evSelect, Src: allPhases, Dst: string(Idle)},
		},
		fsm.Callbacks{},
	)
}

// Options configure a Session.
type Options struct {
	QuietPeriod time.Duration
	Clock       Clock
	// Limit caps the matches in the dropdown. Zero means SummaryLimit,
	// a negative value keeps every match.
	Limit int
}

// Snapshot is the observable state of a session after a change.
type Snapshot[T any] struct {
	Phase  Phase     `json:"state"`
	Typed  string    `json:"typed"`
	Result Result[T] `json:"result"`
}

// Session is one search box over a record collection: it debounces
// keystrokes, applies the settled query and tracks the dropdown phase.
type Session[T models.Record] struct {
	mu       sync.Mutex
	machine  *fsm.FSM
	debounce *Debouncer
	tracker  Tracker
	limit    int
	onChange func(Snapshot[T])

	records []T
	loaded  bool
	typed   string
	applied string
	result  Result[T]
	done    bool
}

// NewSession creates an idle session. onChange, if set, is called outside
// the session lock after every change, possibly from a timer goroutine.
func NewSession[T models.Record](opts Options, onChange func(Snapshot[T])) *Session[T] {
	limit := opts.Limit
	switch {
	case limit == 0:
		limit = SummaryLimit
	case limit < 0:
		limit = 0
	}
	s := &Session[T]{
		machine:  newMachine(),
		limit:    limit,
		onChange: onChange,
		result:   Search[T](nil, "", 0),
	}
	s.debounce = newDebouncer(opts.QuietPeriod, opts.Clock, s.apply)
	return s
}

// Load fetches the record collection once. Later calls are no-ops.
// A response that arrives after Close is dropped and ErrStale returned.
func (s *Session[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	s.mu.Lock()
	if s.loaded || s.done {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	tok := s.tracker.Next()
	records, err := fetch(ctx)
	if err != nil {
		return err
	}
	if !s.tracker.Current(tok) {
		return ErrStale
	}

	s.mu.Lock()
	if s.loaded || s.done {
		s.mu.Unlock()
		return nil
	}
	s.records = records
	s.loaded = true
	if s.applied != "" {
		s.settleLocked()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Loaded reports whether the collection has arrived.
func (s *Session[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Records returns the loaded collection.
func (s *Session[T]) Records() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}

// Keystroke records the text in the search box. A blank text resets the
// session at once; anything else waits for the quiet period.
func (s *Session[T]) Keystroke(text string) {
	s.update(func() {
		s.typed = text
		if strings.TrimSpace(text) == "" {
			s.resetLocked(evClear)
			return
		}
		s.fire(evKeystroke)
		s.debounce.Push(text)
	})
}

// Dismiss closes the dropdown, as on a click outside the box. A pending
// query still settles and is shown on the next Focus.
func (s *Session[T]) Dismiss() {
	s.update(func() {
		s.fire(evDismiss)
	})
}

// Focus reopens a dismissed dropdown.
func (s *Session[T]) Focus() {
	s.update(func() {
		if s.phase() != Closed {
			return
		}
		switch {
		case s.debounce.Pending() || (s.applied != "" && !s.loaded):
			s.fire(evKeystroke)
		case s.applied == "":
			s.fire(evClear)
		case s.result.State == Matches:
			s.fire(evFocus)
		default:
			s.fire(evFocusEmpty)
		}
	})
}

// Select picks a record from the collection by id and resets the box.
func (s *Session[T]) Select(id string) (T, bool) {
	var picked T
	var ok bool
	s.update(func() {
		for _, r := range s.records {
			if r.RecordID() == id {
				picked, ok = r, true
				break
			}
		}
		if ok {
			s.resetLocked(evSelect)
		}
	})
	return picked, ok
}

// Clear empties the box.
func (s *Session[T]) Clear() {
	s.update(func() {
		s.resetLocked(evClear)
	})
}

// Close ends the session. Pending timers and in-flight loads are dropped.
func (s *Session[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	s.debounce.Cancel()
	s.tracker.Invalidate()
	s.fire(evDismiss)
}

// Phase returns the current dropdown phase.
func (s *Session[T]) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase()
}

// Snapshot returns the current state.
func (s *Session[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// apply settles query unless a later keystroke or clear superseded it
// between the timer firing and the session lock being taken.
func (s *Session[T]) apply(gen uint64, query string) {
	s.update(func() {
		if !s.debounce.Current(gen) {
			return
		}
		s.applied = query
		if s.loaded {
			s.settleLocked()
		}
	})
}

func (s *Session[T]) update(change func()) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	change()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session[T]) settleLocked() {
	s.result = Search(s.records, s.applied, s.limit)
	if s.phase() != Pending || s.debounce.Pending() {
		return
	}
	if s.result.State == Matches {
		s.fire(evSettle)
	} else {
		s.fire(evSettleEmpty)
	}
}

func (s *Session[T]) resetLocked(event string) {
	s.debounce.Cancel()
	s.typed = ""
	s.applied = ""
	s.result = Search[T](nil, "", 0)
	s.fire(event)
}

func (s *Session[T]) phase() Phase {
	return Phase(s.machine.Current())
}

// fire moves the machine, ignoring events the current phase does not accept.
func (s *Session[T]) fire(event string) {
	if !s.machine.Can(event) {
		return
	}
	// Self-transitions report fsm.NoTransitionError and leave the phase as is.
	_ = s.machine.Event(context.Background(), event)
}

func (s *Session[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{Phase: s.phase(), Typed: s.typed, Result: s.result}
}

func (s *Session[T]) notify(snap Snapshot[T]) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
