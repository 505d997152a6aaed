package screen

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/api"
	"github.com/atinyakov/JapaKeeper/internal/models"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/validate"
)

// RequestFields holds the RequestForm inputs.
type RequestFields struct {
	Name  string
	Phone string
	Tower string
	Flat  string
	Pooja string
	// Date is kept masked as DD-MM-YYYY, see SetDate.
	Date string
}

func (f RequestFields) fields() validate.Fields {
	return validate.Fields{
		"name":  f.Name,
		"phone": f.Phone,
		"tower": f.Tower,
		"flat":  f.Flat,
		"pooja": f.Pooja,
		"date":  f.Date,
	}
}

// RequestForm submits a pooja service request for the logged-in user.
type RequestForm struct {
	lifecycle
	deps Deps

	// Form is the editable request. Submit resets it on success.
	Form RequestFields

	mu     sync.Mutex
	userID string
}

// NewRequestForm returns the RequestForm screen.
func NewRequestForm(deps Deps) *RequestForm {
	return &RequestForm{lifecycle: newLifecycle(), deps: deps.withDefaults()}
}

// Mount reads the user id from the stored session. A missing session is
// reported by Submit as validate.MsgMissingUserID.
func (s *RequestForm) Mount(ctx context.Context) {
	sess, ok := s.deps.Session.Load(ctx)
	if !ok {
		s.deps.Log.Warn("request form mounted without a session")
	}
	s.mu.Lock()
	s.userID = sess.ID
	s.mu.Unlock()
}

// SetDate stores raw date input through validate.MaskDate.
func (s *RequestForm) SetDate(raw string) string {
	s.Form.Date = validate.MaskDate(raw)
	return s.Form.Date
}

// Submit validates the form, posts it and opens Success.
func (s *RequestForm) Submit(ctx context.Context) (Outcome, error) {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return Outcome{}, err
	}

	s.mu.Lock()
	id := s.userID
	s.mu.Unlock()

	form := s.Form
	errs := validate.Validate(form.fields(),
		validate.Required("name", "Name"),
		validate.Phone("phone"),
		validate.Required("tower", "Tower"),
		validate.Required("flat", "Flat"),
		validate.RequiredMessage("pooja", "Pooja details required."),
		validate.Date("date"),
		validate.UserID(id),
	)
	if !errs.Empty() {
		return s.settle(done, inline(errs), nil)
	}

	err = s.deps.API.CreateRequest(ctx, models.ServiceRequest{
		Name:      form.Name,
		Phone:     form.Phone,
		Tower:     form.Tower,
		Flat:      form.Flat,
		Date:      form.Date,
		PoojaName: form.Pooja,
		UserID:    id,
	})
	if s.Dismissed() {
		return s.settle(done, Outcome{}, nil)
	}
	if err != nil {
		if api.IsNetwork(err) {
			s.deps.Log.Warn("service request failed", zap.Error(err))
			return s.settle(done, alert("Network Error", "Unable to submit the request. Please try again."), nil)
		}
		return s.settle(done, alert("Error", api.ServerMessage(err, "Submission failed.")), nil)
	}

	s.Form = RequestFields{}
	return s.settle(done, Outcome{}, s.deps.Nav.Navigate(nav.Success, nav.Params{}))
}

// Back returns to the previous screen.
func (s *RequestForm) Back() bool {
	s.Dismiss()
	return s.deps.Nav.Back()
}
