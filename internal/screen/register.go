package screen

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/api"
	"github.com/atinyakov/JapaKeeper/internal/models"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/validate"
)

// RegistrationForm holds the Registration inputs.
type RegistrationForm struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

func (f RegistrationForm) fields() validate.Fields {
	return validate.Fields{
		"name":            f.Name,
		"email":           f.Email,
		"phone":           f.Phone,
		"password":        f.Password,
		"confirmPassword": f.ConfirmPassword,
	}
}

// Register creates an account. On success the returned identity is stored
// and the user is sent to Login.
type Register struct {
	lifecycle
	deps Deps
}

// NewRegister returns the Registration screen.
func NewRegister(deps Deps) *Register {
	return &Register{lifecycle: newLifecycle(), deps: deps.withDefaults()}
}

// Submit validates f, posts it and goes back to Login.
func (s *Register) Submit(ctx context.Context, f RegistrationForm) (Outcome, error) {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return Outcome{}, err
	}

	errs := validate.Validate(f.fields(),
		validate.AllRequired(validate.General, "All fields are required",
			"name", "email", "phone", "password", "confirmPassword"),
		validate.Match("password", "confirmPassword", validate.MsgPasswordsDiffer),
	)
	if msg, ok := errs[validate.General]; ok {
		return s.settle(done, alert("Validation Error", msg), nil)
	}
	if msg, ok := errs["password"]; ok {
		return s.settle(done, alert("Password Mismatch", msg), nil)
	}

	resp, err := s.deps.API.Register(ctx, models.RegisterRequest{
		Name:     f.Name,
		Email:    f.Email,
		Phone:    f.Phone,
		Password: f.Password,
	})
	if s.Dismissed() {
		return s.settle(done, Outcome{}, nil)
	}
	if err != nil {
		if api.IsNetwork(err) {
			s.deps.Log.Warn("register request failed", zap.Error(err))
			return s.settle(done, alert("Network Error", "Could not connect to the server. Please try again."), nil)
		}
		return s.settle(done, alert("Registration Failed", api.ServerMessage(err, "Something went wrong.")), nil)
	}

	if err := s.deps.Session.Save(ctx, models.Session{ID: resp.UserID, Name: resp.Name}); err != nil {
		s.deps.Log.Error("failed to save session", zap.Error(err))
		return s.settle(done, alert("Storage Error", "Could not save your session."), nil)
	}

	return s.settle(done, Outcome{}, s.toLogin())
}

// toLogin returns to a Login already below Registration, or replaces
// Registration with a new one.
func (s *Register) toLogin() error {
	if prev, ok := s.deps.Nav.Previous(); ok && prev.Screen == nav.Login {
		s.deps.Nav.Back()
		return nil
	}
	return s.deps.Nav.Replace(nav.Login, nav.Params{})
}

// GoLogin opens the Login screen.
func (s *Register) GoLogin() error {
	return s.deps.Nav.Navigate(nav.Login, nav.Params{})
}
