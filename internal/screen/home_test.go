package screen

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/atinyakov/JapaKeeper/internal/models"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/validate"
)

var asha = models.Session{ID: "abc123", Name: "Asha"}

func mountedHome(t *testing.T, h *harness) *Home {
	t.Helper()
	s := NewHome(h.deps)
	s.Mount(context.Background())
	return s
}

func filledRecord() RecordForm {
	return RecordForm{Name: "Asha", Tower: "B", Flat: "402", JapaName: "Hare Krishna", JapaCount: "108"}
}

func TestHome_Mount(t *testing.T) {
	h := newHarness(t, nav.Home)
	h.login(t, asha)

	s := mountedHome(t, h)
	assert.Equal(t, "Hi Asha", s.Greeting())
	assert.Equal(t, "abc123", s.UserID())
	assert.Equal(t, "2/1/2024, 6:30:15 AM", s.Clock())
}

func TestHome_SubmitSuccess(t *testing.T) {
	h := newHarness(t, nav.Home)
	h.login(t, asha)

	s := mountedHome(t, h)
	s.Form = filledRecord()
	out, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, out.OK())

	assert.JSONEq(t, `{
		"name":"Asha","tower":"B","flat":"402",
		"date":"2024-02-01T06:30:15.000Z",
		"japaName":"Hare Krishna","japaCount":108,"userId":"abc123"
	}`, h.srv.LastBody(http.MethodPost, "/posts"))

	assert.Equal(t, RecordForm{Name: "Asha"}, s.Form)
	require.Len(t, h.events, 1)
	assert.Equal(t, nav.Event{Kind: nav.Push, From: nav.Home, To: nav.History, Params: nav.Params{ID: "abc123"}}, h.events[0])
	assert.Len(t, h.srv.Posts("abc123"), 1)
}

func TestHome_SubmitValidation(t *testing.T) {
	t.Run("empty form", func(t *testing.T) {
		h := newHarness(t, nav.Home)
		h.login(t, asha)
		s := mountedHome(t, h)

		out, err := s.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"flat", "japaCount", "japaName", "name", "tower"}, out.Errors.Keys())
		assert.Equal(t, "Japa Count is required.", out.Errors["japaCount"])
		assert.Equal(t, "Japa Name is required.", out.Errors["japaName"])
		assert.Zero(t, h.srv.Calls(http.MethodPost, "/posts"))
		assert.Equal(t, Failed, s.State())
	})

	t.Run("bad count", func(t *testing.T) {
		for _, count := range []string{"0", "-3", "abc"} {
			h := newHarness(t, nav.Home)
			h.login(t, asha)
			s := mountedHome(t, h)
			s.Form = filledRecord()
			s.Form.JapaCount = count

			out, err := s.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, validate.Errors{"japaCount": validate.MsgPositiveCount}, out.Errors, count)
		}
	})

	t.Run("no session", func(t *testing.T) {
		h := newHarness(t, nav.Home)
		s := mountedHome(t, h)
		s.Form = filledRecord()

		out, err := s.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, validate.Errors{validate.General: validate.MsgMissingUserID}, out.Errors)
		assert.Zero(t, h.srv.Calls(http.MethodPost, "/posts"))
	})
}

func TestHome_SubmitFailure(t *testing.T) {
	t.Run("server message", func(t *testing.T) {
		h := newHarness(t, nav.Home)
		h.login(t, asha)
		h.srv.Respond(http.MethodPost, "/posts", http.StatusBadRequest, `{"message":"duplicate"}`)

		s := mountedHome(t, h)
		s.Form = filledRecord()
		out, err := s.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, validate.Errors{validate.General: "duplicate"}, out.Errors)
		assert.Equal(t, filledRecord(), s.Form)
		assert.Empty(t, h.events)

		sess, ok := h.store.Load(context.Background())
		require.True(t, ok)
		assert.Equal(t, asha, sess)
	})

	t.Run("no message", func(t *testing.T) {
		h := newHarness(t, nav.Home)
		h.login(t, asha)
		h.srv.Respond(http.MethodPost, "/posts", http.StatusInternalServerError, `{}`)

		s := mountedHome(t, h)
		s.Form = filledRecord()
		out, err := s.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Submission failed. Please try again.", out.Errors[validate.General])
	})

	t.Run("offline", func(t *testing.T) {
		h := newHarness(t, nav.Home)
		h.login(t, asha)
		h.offline()

		s := mountedHome(t, h)
		s.Form = filledRecord()
		out, err := s.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Error: Could not connect to the server.", out.Errors[validate.General])
	})
}

func TestHome_SubmitWhileLoading(t *testing.T) {
	h := newHarness(t, nav.Home)
	h.login(t, asha)
	release := h.srv.Hold(http.MethodPost, "/posts")
	t.Cleanup(release)

	s := mountedHome(t, h)
	s.Form = filledRecord()

	type result struct {
		out Outcome
		err error
	}
	first := make(chan result, 1)
	go func() {
		out, err := s.Submit(context.Background())
		first <- result{out, err}
	}()

	require.Eventually(t, func() bool {
		return h.srv.Calls(http.MethodPost, "/posts") == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, s.Loading())
	assert.Equal(t, Submitting, s.State())

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	release()
	r := <-first
	require.NoError(t, r.err)
	assert.True(t, r.out.OK())
	assert.False(t, s.Loading())
	assert.Equal(t, 1, h.srv.Calls(http.MethodPost, "/posts"))
}

func TestHome_DismissDropsResult(t *testing.T) {
	h := newHarness(t, nav.Home)
	h.login(t, asha)
	release := h.srv.Hold(http.MethodPost, "/posts")
	t.Cleanup(release)

	s := mountedHome(t, h)
	s.Form = filledRecord()

	errc := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		errc <- err
	}()

	require.Eventually(t, func() bool {
		return h.srv.Calls(http.MethodPost, "/posts") == 1
	}, 2*time.Second, 5*time.Millisecond)
	s.Dismiss()

	assert.ErrorIs(t, <-errc, ErrDismissed)
	assert.Empty(t, h.events)
	assert.Equal(t, filledRecord(), s.Form)

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrDismissed)
}

func TestHome_Clock(t *testing.T) {
	h := newHarness(t, nav.Home)
	ignore := goleak.IgnoreCurrent()

	var ticks atomic.Int64
	h.deps.Now = func() time.Time {
		return fixedNow.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
	s := mountedHome(t, h)
	s.ClockInterval = time.Millisecond
	start := s.Clock()

	ctx, cancel := context.WithCancel(context.Background())
	s.StartClock(ctx)
	s.StartClock(ctx)

	require.Eventually(t, func() bool { return s.Clock() != start }, 2*time.Second, time.Millisecond)

	cancel()
	goleak.VerifyNone(t, ignore)
}

func TestHome_ClockStopsOnDismiss(t *testing.T) {
	h := newHarness(t, nav.Home)
	ignore := goleak.IgnoreCurrent()

	s := mountedHome(t, h)
	s.ClockInterval = time.Millisecond
	s.StartClock(context.Background())
	s.Dismiss()

	goleak.VerifyNone(t, ignore)
}

func TestHome_Navigation(t *testing.T) {
	h := newHarness(t, nav.Home)
	h.login(t, asha)
	s := mountedHome(t, h)

	require.NoError(t, s.GoHistory())
	assert.Equal(t, nav.Entry{Screen: nav.History, Params: nav.Params{ID: "abc123"}}, h.nav.Current())
	require.True(t, h.nav.Back())

	require.NoError(t, s.GoRequest())
	assert.Equal(t, nav.RequestForm, h.nav.Current().Screen)
}

func TestHome_Logout(t *testing.T) {
	h := newHarness(t, nav.Login)
	h.login(t, asha)
	require.NoError(t, h.nav.Replace(nav.Home, nav.Params{Name: "Asha", ID: "abc123"}))
	require.NoError(t, h.nav.Navigate(nav.History, nav.Params{ID: "abc123"}))
	require.True(t, h.nav.Back())

	s := mountedHome(t, h)
	require.NoError(t, s.Logout(context.Background()))

	_, ok := h.store.Load(context.Background())
	assert.False(t, ok)
	assert.True(t, s.Dismissed())
	assert.Equal(t, nav.Entry{Screen: nav.Login}, h.nav.Current())
	assert.Equal(t, 1, h.nav.Depth())
	assert.False(t, h.nav.Back())

	redirected, err := NewLogin(h.deps).Mount(context.Background())
	require.NoError(t, err)
	assert.False(t, redirected)
}
