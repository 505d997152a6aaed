package screen

import (
	"context"
	"time"

	"github.com/atinyakov/JapaKeeper/internal/nav"
)

// Splash shows the logo for a fixed fade-in, hold, fade-out sequence and
// then hands over to Login. It does not look at the session; Login does.
type Splash struct {
	lifecycle
	deps Deps
	// Step is the duration of each of the three phases.
	Step time.Duration
	// OnPhase, when set, is called as each phase starts.
	OnPhase func(name string)
}

// NewSplash returns a Splash with one-second phases.
func NewSplash(deps Deps) *Splash {
	return &Splash{lifecycle: newLifecycle(), deps: deps.withDefaults(), Step: time.Second}
}

// Run plays the sequence and replaces Splash with Login.
func (s *Splash) Run(ctx context.Context) error {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return err
	}

	for _, phase := range []string{"fade-in", "hold", "fade-out"} {
		if s.OnPhase != nil {
			s.OnPhase(phase)
		}
		t := time.NewTimer(s.Step)
		select {
		case <-ctx.Done():
			t.Stop()
			_, err := s.settle(done, Outcome{}, ctx.Err())
			return err
		case <-t.C:
		}
	}

	_, err = s.settle(done, Outcome{}, s.deps.Nav.Replace(nav.Login, nav.Params{}))
	return err
}
