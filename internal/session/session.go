package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
)

// Session holds the working state of one project: its parts, the part being
// worked on and that part's counters. Operations on a session are
// serialised; the state published to subscribers always reflects the last
// completed step.
type Session struct {
	id        string
	projectID int64
	svc       Tracker
	logger    *slog.Logger

	mu       sync.Mutex
	project  project.Project
	parts    []part.Part
	active   part.Part
	counters []counter.Counter
	state    LoadingState
	message  string

	subs    map[int]chan Snapshot
	nextSub int
	closed  bool
}

// Open loads a project and its current part into a new session.
func Open(ctx context.Context, svc Tracker, id string, projectID int64, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		id:        id,
		projectID: projectID,
		svc:       svc,
		logger:    logger.With("session_id", id, "project_id", projectID),
		state:     StateIdle,
		subs:      make(map[int]chan Snapshot),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// ProjectID returns the id of the project the session was opened on.
func (s *Session) ProjectID() int64 {
	return s.projectID
}

// Increment steps a counter up. Stepping the Global counter also steps
// every counter linked to it.
func (s *Session) Increment(ctx context.Context, counterID int64) ([]counter.Counter, error) {
	return s.apply(ctx, "increment", counterID, counter.Counter.Increment, true)
}

// Decrement steps a counter down. Stepping the Global counter also steps
// every counter linked to it.
func (s *Session) Decrement(ctx context.Context, counterID int64) ([]counter.Counter, error) {
	return s.apply(ctx, "decrement", counterID, counter.Counter.Decrement, true)
}

// ToggleLink flips whether a normal counter follows the Global counter.
func (s *Session) ToggleLink(ctx context.Context, counterID int64) ([]counter.Counter, error) {
	return s.apply(ctx, "toggle link of", counterID, counter.Counter.ToggleLink, false)
}

// apply computes the new state of the target counter, and of its linked
// counters when the target is the Global counter, publishes it, and then
// persists every changed counter in one write. A failed write restores and
// republishes the previous list.
func (s *Session) apply(
	ctx context.Context,
	verb string,
	counterID int64,
	step func(counter.Counter) (counter.Counter, error),
	cascade bool,
) ([]counter.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionNotFound
	}
	idx := counter.IndexOf(s.counters, counterID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrCounterNotFound, counterID)
	}

	prev := s.counters
	next := slices.Clone(prev)
	changed := []int{idx}

	target, err := step(next[idx])
	if err != nil {
		return nil, fmt.Errorf("%s counter '%s': %w", verb, next[idx].Name, err)
	}
	next[idx] = target

	if cascade && target.Type == counter.TypeGlobal {
		for i := range next {
			if i == idx || !next[i].FollowsGlobal() {
				continue
			}
			linked, err := step(next[i])
			if err != nil {
				return nil, fmt.Errorf("%s linked counter '%s': %w", verb, next[i].Name, err)
			}
			next[i] = linked
			changed = append(changed, i)
		}
	}

	s.counters = next
	s.publish()

	payload := make([]counter.Counter, 0, len(changed))
	for _, i := range changed {
		payload = append(payload, next[i])
	}

	res := s.svc.UpdateCounters(ctx, payload...)
	if !res.OK() {
		s.logger.Warn("counter write failed, restoring previous state", "counter_id", counterID, "error", res.Err)
		s.counters = prev
		s.state = StateFailure
		s.message = res.Message
		s.publish()
		return nil, res.Err
	}

	// The store bumped the version of every row it wrote.
	committed := slices.Clone(next)
	for _, i := range changed {
		committed[i].Version++
	}
	s.counters = committed
	s.state = StateSuccess
	s.message = ""
	s.publish()

	out := make([]counter.Counter, 0, len(changed))
	for _, i := range changed {
		out = append(out, committed[i])
	}
	return out, nil
}

// SelectPart makes another part of the project current and loads its
// counters.
func (s *Session) SelectPart(ctx context.Context, partID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionNotFound
	}
	if !slices.ContainsFunc(s.parts, func(p part.Part) bool { return p.ID == partID }) {
		return fmt.Errorf("%w: %d", ErrPartNotFound, partID)
	}

	if res := s.svc.SetCurrentPart(ctx, partID); !res.OK() {
		s.fail(res.Message)
		return res.Err
	}
	return s.load(ctx, partID)
}

// Refresh reloads the project, its parts and the active part's counters
// from the store.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionNotFound
	}
	return s.load(ctx, s.active.ID)
}

// Counters returns a copy of the active part's counters.
func (s *Session) Counters() []counter.Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.counters)
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe returns a channel that receives the session state after every
// change. Only the latest state is buffered; a slow reader skips
// intermediate states. cancel stops delivery and closes the channel.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	key := s.nextSub
	s.nextSub++
	s.subs[key] = ch
	ch <- s.snapshot()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[key]; ok {
				delete(s.subs, key)
				close(sub)
			}
		})
	}
}

// close drops every subscriber. Writes already handed to the store are not
// cancelled.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for key, ch := range s.subs {
		delete(s.subs, key)
		close(ch)
	}
}

// load must be called with mu held. partID 0 selects the project's current
// part, or its first part when none is marked.
func (s *Session) load(ctx context.Context, partID int64) error {
	s.state = StateLoading
	s.message = ""
	s.publish()

	projRes := s.svc.GetProject(ctx, s.projectID)
	if !projRes.OK() {
		s.fail(projRes.Message)
		return projRes.Err
	}
	partsRes := s.svc.GetProjectParts(ctx, s.projectID)
	if !partsRes.OK() {
		s.fail(partsRes.Message)
		return partsRes.Err
	}

	parts := partsRes.Entity
	active, ok := pickPart(parts, partID)
	if !ok {
		s.project = projRes.Entity
		s.parts = parts
		s.active = part.Part{}
		s.counters = nil
		s.fail(ErrNoActivePart.Error())
		return ErrNoActivePart
	}

	countersRes := s.svc.GetPartCounters(ctx, active.ID)
	if !countersRes.OK() {
		s.fail(countersRes.Message)
		return countersRes.Err
	}

	s.project = projRes.Entity
	s.parts = parts
	s.active = active
	s.counters = countersRes.Entity
	s.state = StateSuccess
	s.publish()
	return nil
}

func pickPart(parts []part.Part, partID int64) (part.Part, bool) {
	if partID > 0 {
		if i := slices.IndexFunc(parts, func(p part.Part) bool { return p.ID == partID }); i >= 0 {
			return parts[i], true
		}
	}
	if p, ok := part.Current(parts); ok {
		return p, true
	}
	if len(parts) > 0 {
		return parts[0], true
	}
	return part.Part{}, false
}

func (s *Session) fail(message string) {
	s.state = StateFailure
	s.message = message
	s.publish()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:         s.id,
		Project:    s.project,
		Parts:      slices.Clone(s.parts),
		ActivePart: s.active,
		Counters:   slices.Clone(s.counters),
		State:      s.state,
		Message:    s.message,
	}
}

// publish must be called with mu held.
func (s *Session) publish() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshot()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
