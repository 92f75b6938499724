package preview

import (
	"context"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/host"
)

// Snapshot is the rendered state after one step.
type Snapshot struct {
	Scenario string `json:"scenario"`
	Step     int    `json:"step"`
	Name     string `json:"name"`
	HTML     string `json:"html"`
}

// Session is a scenario mounted in its own container.
type Session struct {
	scenario  Scenario
	root      *host.Root
	container *dom.Node
	steps     []Step
	next      int

	// Comments includes placeholder comments in snapshots.
	Comments bool
}

// Start mounts a fresh instance of s.
func Start(ctx context.Context, s Scenario, opts ...host.Option) (*Session, error) {
	value, steps := s.Setup()
	container := dom.NewElement("div")
	root := host.CreateRoot(container, opts...)
	if _, err := root.RenderContext(ctx, value); err != nil {
		return nil, err
	}
	return &Session{scenario: s, root: root, container: container, steps: steps}, nil
}

// Root returns the mounted root.
func (s *Session) Root() *host.Root {
	return s.root
}

// Done reports whether every step has run.
func (s *Session) Done() bool {
	return s.next >= len(s.steps)
}

// Snapshot returns the current HTML.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Scenario: s.scenario.Name, Step: s.next, Name: "render"}
	if s.next > 0 {
		snap.Name = s.steps[s.next-1].Name
	}
	if s.Comments {
		snap.HTML = s.container.InnerHTML()
	} else {
		snap.HTML = s.container.VisibleHTML()
	}
	return snap
}

// Advance runs the next step and flushes queued re-runs.
func (s *Session) Advance(ctx context.Context) (Snapshot, error) {
	if s.Done() {
		return Snapshot{}, errors.Newf(errors.CategoryPrecondition, "scenario %s has no more steps", s.scenario.Name)
	}
	step := s.steps[s.next]
	s.next++

	logger := s.root.Logger()
	logger.Debug("step", "name", describe(s.scenario, s.next-1, step))

	step.Do()
	if err := s.root.FlushContext(ctx); err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// Close destroys the root.
func (s *Session) Close(ctx context.Context) error {
	return s.root.DestroyContext(ctx)
}

// Play runs every step of s and calls emit with the snapshot after the
// initial render and after each step.
func Play(ctx context.Context, s Scenario, emit func(Snapshot), opts ...host.Option) error {
	session, err := Start(ctx, s, opts...)
	if err != nil {
		return err
	}
	emit(session.Snapshot())

	for !session.Done() {
		if err := ctx.Err(); err != nil {
			_ = session.Close(ctx)
			return err
		}
		snap, err := session.Advance(ctx)
		if err != nil {
			_ = session.Close(ctx)
			return err
		}
		emit(snap)
	}
	return session.Close(ctx)
}
