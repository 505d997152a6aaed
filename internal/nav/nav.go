// Package nav is the client's screen navigator: a fixed graph of named
// screens and a stack of visited screens with their parameters.
package nav

import (
	"errors"
	"fmt"
	"sync"
)

// Screen names a screen of the app.
type Screen string

// Screens of the app.
const (
	Splash      Screen = "Splash"
	Login       Screen = "Login"
	Register    Screen = "Register"
	Home        Screen = "Home"
	History     Screen = "History"
	RequestForm Screen = "RequestForm"
	Success     Screen = "Success"
)

// ErrInvalidTransition is returned for a move the graph does not allow.
var ErrInvalidTransition = errors.New("invalid transition")

// Params are the values carried into a screen. Either field may be empty.
type Params struct {
	Name string
	ID   string
}

// Kind is the type of a navigation event.
type Kind string

// Navigation event kinds.
const (
	Push    Kind = "navigate"
	Swap    Kind = "replace"
	NewRoot Kind = "reset"
	Pop     Kind = "back"
)

// Event describes one completed transition.
type Event struct {
	Kind   Kind
	From   Screen
	To     Screen
	Params Params
}

// Entry is one frame of the navigation stack.
type Entry struct {
	Screen Screen
	Params Params
}

// edges lists the forward transitions each screen may start.
// Back and Reset are not constrained by it.
var edges = map[Screen][]Screen{
	Splash:      {Login},
	Login:       {Home, Register},
	Register:    {Login},
	Home:        {History, RequestForm, Login},
	History:     {},
	RequestForm: {Success},
	Success:     {Home},
}

// Allowed reports whether the graph has an edge from -> to.
func Allowed(from, to Screen) bool {
	for _, s := range edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Navigator tracks the screen stack. It is safe for concurrent use.
type Navigator struct {
	mu        sync.Mutex
	stack     []Entry
	listeners []func(Event)
}

// New returns a Navigator whose root is root.
func New(root Screen) *Navigator {
	return &Navigator{stack: []Entry{{Screen: root}}}
}

// Subscribe registers fn to receive every later event. fn runs synchronously
// after the stack has changed and must not call back into the Navigator.
func (n *Navigator) Subscribe(fn func(Event)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Current returns the top of the stack.
func (n *Navigator) Current() Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack[len(n.stack)-1]
}

// Previous returns the entry below the top. ok is false at the root.
func (n *Navigator) Previous() (e Entry, ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) < 2 {
		return Entry{}, false
	}
	return n.stack[len(n.stack)-2], true
}

// Depth returns the number of stacked screens.
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

// Navigate pushes to on top of the current screen.
func (n *Navigator) Navigate(to Screen, p Params) error {
	return n.move(Push, to, p)
}

// Replace swaps the current screen for to.
func (n *Navigator) Replace(to Screen, p Params) error {
	return n.move(Swap, to, p)
}

// Reset discards the stack and makes to its only entry.
func (n *Navigator) Reset(to Screen, p Params) error {
	return n.move(NewRoot, to, p)
}

// Back pops the current screen. It returns false at the root.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	if len(n.stack) == 1 {
		n.mu.Unlock()
		return false
	}
	from := n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
	to := n.stack[len(n.stack)-1]
	ev := Event{Kind: Pop, From: from.Screen, To: to.Screen, Params: to.Params}
	listeners := append([]func(Event){}, n.listeners...)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
	return true
}

func (n *Navigator) move(kind Kind, to Screen, p Params) error {
	n.mu.Lock()
	top := n.stack[len(n.stack)-1]
	if kind != NewRoot && !Allowed(top.Screen, to) {
		n.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, top.Screen, to)
	}
	if _, known := edges[to]; !known {
		n.mu.Unlock()
		return fmt.Errorf("%w: unknown screen %q", ErrInvalidTransition, to)
	}

	e := Entry{Screen: to, Params: p}
	switch kind {
	case Push:
		n.stack = append(n.stack, e)
	case Swap:
		n.stack[len(n.stack)-1] = e
	case NewRoot:
		n.stack = []Entry{e}
	}
	ev := Event{Kind: kind, From: top.Screen, To: to, Params: p}
	listeners := append([]func(Event){}, n.listeners...)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
	return nil
}
