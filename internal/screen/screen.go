// Package screen implements the controllers behind each screen of the app.
//
// A controller validates its form, calls the backend once, updates the
// session and moves the navigator. Every controller follows the same
// lifecycle: Idle, Submitting, then Succeeded or Failed, and back to Idle on
// the next attempt. While a call is in flight a second submission is refused
// with ErrBusy. Dismiss cancels in-flight work; results that arrive after
// Dismiss are dropped and reported as ErrDismissed.
package screen

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/models"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/validate"
)

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("submission already in progress")
	// ErrDismissed is returned when the screen was dismissed before the call completed.
	ErrDismissed = errors.New("screen dismissed")
)

// MsgNoConnection is shown when the backend cannot be reached.
const MsgNoConnection = "Could not connect to the server."

// SessionStore persists the logged-in user.
type SessionStore interface {
	Save(ctx context.Context, s models.Session) error
	Load(ctx context.Context) (models.Session, bool)
	Clear(ctx context.Context) error
}

// Backend is the subset of the HTTP API the screens call.
type Backend interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	CreatePost(ctx context.Context, rec models.ChantingRecord) error
	ListPosts(ctx context.Context, userID string) ([]models.HistoryRecord, error)
	CreateRequest(ctx context.Context, req models.ServiceRequest) error
}

// Navigator moves between screens.
type Navigator interface {
	Navigate(to nav.Screen, p nav.Params) error
	Replace(to nav.Screen, p nav.Params) error
	Reset(to nav.Screen, p nav.Params) error
	Back() bool
	Previous() (nav.Entry, bool)
}

// Deps are the collaborators shared by all screens.
type Deps struct {
	Session SessionStore
	API     Backend
	Nav     Navigator
	Log     *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// State is the submission state of a screen.
type State int

// Submission states.
const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Alert is a blocking modal message.
type Alert struct {
	Title   string
	Message string
}

// Outcome is what a submission leaves on screen. A zero Outcome means success.
type Outcome struct {
	// Errors are shown inline under their fields; validate.General is shown below the form.
	Errors validate.Errors
	// Alert is shown as a modal.
	Alert *Alert
}

// OK reports whether the submission went through.
func (o Outcome) OK() bool { return len(o.Errors) == 0 && o.Alert == nil }

func alert(title, msg string) Outcome {
	return Outcome{Alert: &Alert{Title: title, Message: msg}}
}

func inline(errs validate.Errors) Outcome { return Outcome{Errors: errs} }

func general(msg string) Outcome { return inline(validate.Errors{validate.General: msg}) }

// lifecycle carries the loading guard, state and lifetime of a screen.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	loading bool
	state   State
}

func newLifecycle() lifecycle {
	ctx, cancel := context.WithCancel(context.Background())
	return lifecycle{ctx: ctx, cancel: cancel}
}

// Dismiss ends the screen's lifetime. In-flight calls are cancelled.
func (l *lifecycle) Dismiss() { l.cancel() }

// Dismissed reports whether Dismiss was called.
func (l *lifecycle) Dismissed() bool { return l.ctx.Err() != nil }

// Loading reports whether a submission is in flight.
func (l *lifecycle) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// State returns the current submission state.
func (l *lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// begin takes the loading guard and returns a context cancelled by either
// the caller or Dismiss. done must be called with the final state.
func (l *lifecycle) begin(ctx context.Context) (context.Context, func(State), error) {
	if l.Dismissed() {
		return nil, nil, ErrDismissed
	}
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return nil, nil, ErrBusy
	}
	l.loading = true
	l.state = Submitting
	l.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	done := func(st State) {
		stop()
		cancel()
		l.mu.Lock()
		l.loading = false
		l.state = st
		l.mu.Unlock()
	}
	return ctx, done, nil
}

// settle ends a submission. It returns ErrDismissed when the screen went
// away meanwhile, otherwise o with the matching state.
func (l *lifecycle) settle(done func(State), o Outcome, err error) (Outcome, error) {
	if l.Dismissed() {
		done(Idle)
		return Outcome{}, ErrDismissed
	}
	switch {
	case err != nil, !o.OK():
		done(Failed)
	default:
		done(Succeeded)
	}
	return o, err
}
