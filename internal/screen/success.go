package screen

import (
	"github.com/atinyakov/JapaKeeper/internal/nav"
)

// Success confirms a submitted request.
type Success struct {
	deps   Deps
	params nav.Params
}

// NewSuccess returns the Success screen with whatever params it was opened with.
func NewSuccess(deps Deps, p nav.Params) *Success {
	return &Success{deps: deps.withDefaults(), params: p}
}

// GoHome opens Home carrying the params Success received, possibly empty.
func (s *Success) GoHome() error {
	return s.deps.Nav.Navigate(nav.Home, s.params)
}
