package screen

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/api"
	"github.com/atinyakov/JapaKeeper/internal/models"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/validate"
)

// ClockLayout is how the Home clock is displayed.
const ClockLayout = "1/2/2006, 3:04:05 PM"

// RecordForm holds the Home inputs.
type RecordForm struct {
	Name      string
	Tower     string
	Flat      string
	JapaName  string
	JapaCount string
}

func (f RecordForm) fields() validate.Fields {
	return validate.Fields{
		"name":      f.Name,
		"tower":     f.Tower,
		"flat":      f.Flat,
		"japaName":  f.JapaName,
		"japaCount": f.JapaCount,
	}
}

// Home is where a logged-in user records a Japa count.
type Home struct {
	lifecycle
	deps Deps

	// Form is the editable record. Submit clears it except for Name.
	Form RecordForm
	// ClockInterval is the refresh period of the display clock.
	ClockInterval time.Duration

	mu      sync.Mutex
	session models.Session
	clock   string
	ticking bool
}

// NewHome returns the Home screen.
func NewHome(deps Deps) *Home {
	return &Home{lifecycle: newLifecycle(), deps: deps.withDefaults(), ClockInterval: time.Second}
}

// Mount reads the stored session. Without one the greeting is empty and
// Submit fails with validate.MsgMissingUserID.
func (s *Home) Mount(ctx context.Context) {
	sess, ok := s.deps.Session.Load(ctx)
	if !ok {
		s.deps.Log.Warn("home mounted without a session")
	}
	s.mu.Lock()
	s.session = sess
	s.clock = s.deps.Now().Format(ClockLayout)
	s.mu.Unlock()
}

// Name returns the display name of the logged-in user.
func (s *Home) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Name
}

// Greeting is the Home header.
func (s *Home) Greeting() string { return "Hi " + s.Name() }

// UserID returns the id loaded on mount.
func (s *Home) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ID
}

// Clock returns the display-only date and time. It is never submitted.
func (s *Home) Clock() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// StartClock refreshes Clock every ClockInterval until ctx is done or the
// screen is dismissed. Calling it again while running is a no-op.
func (s *Home) StartClock(ctx context.Context) {
	s.mu.Lock()
	if s.ticking {
		s.mu.Unlock()
		return
	}
	s.ticking = true
	s.mu.Unlock()

	ticker := time.NewTicker(s.ClockInterval)
	go func() {
		defer func() {
			ticker.Stop()
			s.mu.Lock()
			s.ticking = false
			s.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				now := s.deps.Now().Format(ClockLayout)
				s.mu.Lock()
				s.clock = now
				s.mu.Unlock()
			}
		}
	}()
}

// Submit validates the form and the session id, posts the record with a
// fresh timestamp and opens History.
func (s *Home) Submit(ctx context.Context) (Outcome, error) {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return Outcome{}, err
	}

	id := s.UserID()
	form := s.Form
	errs := validate.Validate(form.fields(),
		validate.Required("name", "Name"),
		validate.Required("tower", "Tower"),
		validate.Required("flat", "Flat"),
		validate.Required("japaName", "Japa Name"),
		validate.JapaCount("japaCount"),
		validate.UserID(id),
	)
	if !errs.Empty() {
		return s.settle(done, inline(errs), nil)
	}

	count, _ := validate.ParseCount(form.JapaCount)
	err = s.deps.API.CreatePost(ctx, models.ChantingRecord{
		Name:      form.Name,
		Tower:     form.Tower,
		Flat:      form.Flat,
		Date:      models.FormatISO(s.deps.Now()),
		JapaName:  form.JapaName,
		JapaCount: count,
		UserID:    id,
	})
	if s.Dismissed() {
		return s.settle(done, Outcome{}, nil)
	}
	if err != nil {
		if api.IsNetwork(err) {
			s.deps.Log.Warn("record submission failed", zap.Error(err))
			return s.settle(done, general("Error: "+MsgNoConnection), nil)
		}
		return s.settle(done, general(api.ServerMessage(err, "Submission failed. Please try again.")), nil)
	}

	s.Form = RecordForm{Name: form.Name}
	return s.settle(done, Outcome{}, s.deps.Nav.Navigate(nav.History, nav.Params{ID: id}))
}

// GoHistory opens History for the logged-in user.
func (s *Home) GoHistory() error {
	return s.deps.Nav.Navigate(nav.History, nav.Params{ID: s.UserID()})
}

// GoRequest opens the pooja RequestForm.
func (s *Home) GoRequest() error {
	return s.deps.Nav.Navigate(nav.RequestForm, nav.Params{})
}

// Logout clears the session and makes Login the only screen.
func (s *Home) Logout(ctx context.Context) error {
	if err := s.deps.Session.Clear(ctx); err != nil {
		return err
	}
	s.Dismiss()
	return s.deps.Nav.Reset(nav.Login, nav.Params{})
}

