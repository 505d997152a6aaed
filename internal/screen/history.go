package screen

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/models"
	"github.com/atinyakov/JapaKeeper/internal/nav"
)

// HistoryState is what the History screen renders.
type HistoryState int

// History states.
const (
	HistoryLoading HistoryState = iota
	HistoryEmpty
	HistoryLoaded
)

func (s HistoryState) String() string {
	switch s {
	case HistoryLoading:
		return "loading"
	case HistoryEmpty:
		return "empty"
	case HistoryLoaded:
		return "loaded"
	}
	return "unknown"
}

// HistoryDateLayout renders record dates, e.g. "Feb 1, 2024, 6:30 AM".
const HistoryDateLayout = "Jan 2, 2006, 3:04 PM"

// FormatDate renders an ISO timestamp in local time with HistoryDateLayout.
// Unparsable input yields "Invalid Date".
func FormatDate(iso string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Local().Format(HistoryDateLayout)
		}
	}
	return "Invalid Date"
}

// History lists the records of one user. It is read-only and never retries.
type History struct {
	lifecycle
	deps   Deps
	params nav.Params

	mu      sync.Mutex
	state   HistoryState
	records []models.HistoryRecord
}

// NewHistory returns the History screen for the user in p.
func NewHistory(deps Deps, p nav.Params) *History {
	return &History{lifecycle: newLifecycle(), deps: deps.withDefaults(), params: p}
}

// View returns the current state and records.
func (s *History) View() (HistoryState, []models.HistoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.records
}

// Mount fetches the records. Any failure is logged and rendered as an empty
// list. With no id in the params the stored session is used.
func (s *History) Mount(ctx context.Context) (HistoryState, error) {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return HistoryLoading, err
	}
	s.setView(HistoryLoading, nil)

	id := s.params.ID
	if id == "" {
		if sess, ok := s.deps.Session.Load(ctx); ok {
			id = sess.ID
		}
	}
	if id == "" {
		s.deps.Log.Warn("history opened without a user id")
		s.setView(HistoryEmpty, nil)
		_, err := s.settle(done, Outcome{}, nil)
		return HistoryEmpty, err
	}

	records, err := s.deps.API.ListPosts(ctx, id)
	if s.Dismissed() {
		_, err := s.settle(done, Outcome{}, nil)
		return HistoryLoading, err
	}
	if err != nil {
		s.deps.Log.Warn("error fetching history", zap.String("user_id", id), zap.Error(err))
		records = nil
	}

	state := HistoryLoaded
	if len(records) == 0 {
		state = HistoryEmpty
	}
	s.setView(state, records)
	_, err = s.settle(done, Outcome{}, nil)
	return state, err
}

func (s *History) setView(st HistoryState, records []models.HistoryRecord) {
	s.mu.Lock()
	s.state = st
	s.records = records
	s.mu.Unlock()
}

// Back returns to the previous screen.
func (s *History) Back() bool {
	s.Dismiss()
	return s.deps.Nav.Back()
}
