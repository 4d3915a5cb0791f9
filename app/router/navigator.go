package router

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultMaxRedirects bounds how many guard redirects one attempt may follow.
const DefaultMaxRedirects = 5

var (
	ErrRedirectLoop = errors.New("too many guard redirects")
	ErrNoHistory    = errors.New("no history entry in that direction")
)

// Location is where a navigation attempt ended up.
type Location struct {
	Match
	// RedirectedFrom is the originally requested path when the guard sent
	// the attempt elsewhere.
	RedirectedFrom string
}

// Redirected reports whether the guard changed the destination.
func (l Location) Redirected() bool { return l.RedirectedFrom != "" }

// Navigator drives navigation over a Table: it resolves paths, runs the guard
// against the live session for every attempt, follows redirects and keeps a
// back/forward history. It is not safe for concurrent use; the TUI update
// loop owns it.
type Navigator struct {
	table        *Table
	session      SessionReader
	log          *zap.Logger
	maxRedirects int

	history []Location
	index   int
}

// NewNavigator wires a table to a session. log may be nil.
func NewNavigator(table *Table, session SessionReader, log *zap.Logger) *Navigator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Navigator{
		table:        table,
		session:      session,
		log:          log,
		maxRedirects: DefaultMaxRedirects,
		index:        -1,
	}
}

// Table returns the route table the navigator resolves against.
func (n *Navigator) Table() *Table { return n.table }

// Attempt runs resolution and the guard without touching history.
func (n *Navigator) Attempt(path string) (Location, error) {
	requested := NormalizePath(path)
	target := requested
	for hop := 0; hop <= n.maxRedirects; hop++ {
		m, err := n.table.Resolve(target)
		if err != nil {
			return Location{}, err
		}
		// Read the session for every hop: a redirect never acts on a stale flag.
		d := Evaluate(m.Route, Snapshot{LoggedIn: n.session.IsLoggedIn()})
		n.log.Debug("navigation guard",
			zap.String("path", m.Path),
			zap.String("view", m.Route.View),
			zap.Stringer("decision", d),
		)
		if d.Allowed() {
			loc := Location{Match: m}
			if hop > 0 {
				loc.RedirectedFrom = requested
			}
			return loc, nil
		}
		target = d.Target
	}
	return Location{}, fmt.Errorf("%w: %s", ErrRedirectLoop, requested)
}

// Navigate attempts path and pushes the result onto history, dropping any
// forward entries. Navigating to the current path does not add an entry.
func (n *Navigator) Navigate(path string) (Location, error) {
	loc, err := n.Attempt(path)
	if err != nil {
		return Location{}, err
	}
	if cur, ok := n.Current(); ok && cur.Path == loc.Path {
		n.history[n.index] = loc
		return loc, nil
	}
	n.history = append(n.history[:n.index+1], loc)
	n.index = len(n.history) - 1
	return loc, nil
}

// Replace attempts path and overwrites the current entry.
func (n *Navigator) Replace(path string) (Location, error) {
	loc, err := n.Attempt(path)
	if err != nil {
		return Location{}, err
	}
	if n.index < 0 {
		n.history = append(n.history, loc)
		n.index = 0
		return loc, nil
	}
	n.history[n.index] = loc
	return loc, nil
}

// Reload re-runs the guard for the current entry, e.g. after login or logout.
func (n *Navigator) Reload() (Location, error) {
	cur, ok := n.Current()
	if !ok {
		return n.Navigate(HomePath)
	}
	return n.Replace(cur.Path)
}

// Back moves one entry back. The guard runs again, so an entry that is no
// longer reachable resolves to wherever the guard sends it.
func (n *Navigator) Back() (Location, error) {
	return n.step(-1)
}

// Forward moves one entry forward, re-running the guard.
func (n *Navigator) Forward() (Location, error) {
	return n.step(1)
}

func (n *Navigator) step(delta int) (Location, error) {
	next := n.index + delta
	if next < 0 || next >= len(n.history) {
		return Location{}, ErrNoHistory
	}
	loc, err := n.Attempt(n.history[next].Path)
	if err != nil {
		return Location{}, err
	}
	n.index = next
	n.history[next] = loc
	return loc, nil
}

// Current returns the active location.
func (n *Navigator) Current() (Location, bool) {
	if n.index < 0 {
		return Location{}, false
	}
	return n.history[n.index], true
}

// CanGoBack and CanGoForward report whether history has entries that way.
func (n *Navigator) CanGoBack() bool    { return n.index > 0 }
func (n *Navigator) CanGoForward() bool { return n.index >= 0 && n.index < len(n.history)-1 }
