package screen

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/api"
	"github.com/atinyakov/JapaKeeper/internal/models"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/validate"
)

// Login authenticates an existing user by email or phone and a 4 digit pin.
type Login struct {
	lifecycle
	deps Deps
}

// NewLogin returns the Login screen.
func NewLogin(deps Deps) *Login {
	return &Login{lifecycle: newLifecycle(), deps: deps.withDefaults()}
}

// Mount skips the form when a session is already stored: it replaces Login
// with Home and reports true.
func (s *Login) Mount(ctx context.Context) (bool, error) {
	sess, ok := s.deps.Session.Load(ctx)
	if !ok {
		return false, nil
	}
	s.deps.Log.Debug("session found, skipping login", zap.String("user_id", sess.ID))
	if err := s.deps.Nav.Replace(nav.Home, nav.Params{Name: sess.Name, ID: sess.ID}); err != nil {
		return false, err
	}
	return true, nil
}

// Submit posts the credentials, stores the session and replaces Login with Home.
func (s *Login) Submit(ctx context.Context, input, pin string) (Outcome, error) {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return Outcome{}, err
	}

	errs := validate.Validate(validate.Fields{"input": input, "password": pin},
		validate.AllRequired(validate.General, "Give Proper Inputs.", "input", "password"),
	)
	if !errs.Empty() {
		return s.settle(done, alert("Input Error", errs[validate.General]), nil)
	}

	resp, err := s.deps.API.Login(ctx, models.LoginRequest{Input: input, Password: pin})
	if s.Dismissed() {
		return s.settle(done, Outcome{}, nil)
	}
	if err != nil {
		if api.IsNetwork(err) {
			s.deps.Log.Warn("login request failed", zap.Error(err))
			return s.settle(done, alert("Network Error", MsgNoConnection), nil)
		}
		return s.settle(done, alert("Login Failed", api.ServerMessage(err, "Invalid credentials.")), nil)
	}

	if resp.Name == "" || resp.ID == "" {
		return s.settle(done, alert("Data Error", "Incomplete user data received."), nil)
	}

	sess := models.Session{ID: resp.ID, Name: resp.Name}
	if err := s.deps.Session.Save(ctx, sess); err != nil {
		s.deps.Log.Error("failed to save session", zap.Error(err))
		return s.settle(done, alert("Storage Error", "Could not save your session."), nil)
	}

	return s.settle(done, Outcome{}, s.deps.Nav.Replace(nav.Home, nav.Params{Name: sess.Name, ID: sess.ID}))
}

// GoRegister opens the Registration screen.
func (s *Login) GoRegister() error {
	return s.deps.Nav.Navigate(nav.Register, nav.Params{})
}
