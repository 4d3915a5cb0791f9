// Package router maps address-bar paths to views and decides, before every
// navigation, whether the current session may enter the target.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Well-known paths the guard redirects to.
const (
	HomePath  = "/"
	LoginPath = "/login"
)

// CatchAll is the pattern that matches any path no other route claims.
const CatchAll = "*"

var (
	ErrNotFound             = errors.New("no route matches path")
	ErrConflictingGuards    = errors.New("route is both requires-auth and guest-only")
	ErrDuplicatePattern     = errors.New("duplicate route pattern")
	ErrInvalidPattern       = errors.New("invalid route pattern")
	ErrUnsafeRedirectTarget = errors.New("redirect target is not reachable for every session state")
)

// Route describes one navigable path. Patterns are "/"-separated; a segment
// starting with ":" binds that segment to a named parameter.
type Route struct {
	Pattern      string
	View         string
	RequiresAuth bool
	GuestOnly    bool
}

func (r Route) String() string {
	var flags []string
	if r.RequiresAuth {
		flags = append(flags, "requires-auth")
	}
	if r.GuestOnly {
		flags = append(flags, "guest-only")
	}
	if len(flags) == 0 {
		return fmt.Sprintf("%s -> %s", r.Pattern, r.View)
	}
	return fmt.Sprintf("%s -> %s [%s]", r.Pattern, r.View, strings.Join(flags, ","))
}

type segmentKind int

// Higher ranks are more specific.
const (
	segSplat segmentKind = iota
	segParam
	segStatic
)

type segment struct {
	kind  segmentKind
	value string // literal text or parameter name
}

type compiledRoute struct {
	Route
	segments []segment
}

// Table is an immutable, validated list of routes.
type Table struct {
	routes []compiledRoute
}

// NewTable compiles and validates routes. A table that could trap the guard
// in a redirect loop is rejected here rather than at navigation time.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{routes: make([]compiledRoute, 0, len(routes))}
	seen := make(map[string]bool, len(routes))

	for _, r := range routes {
		if r.RequiresAuth && r.GuestOnly {
			return nil, fmt.Errorf("%w: %s", ErrConflictingGuards, r.Pattern)
		}
		segs, err := compilePattern(r.Pattern)
		if err != nil {
			return nil, err
		}
		key := canonicalPattern(segs)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePattern, r.Pattern)
		}
		seen[key] = true
		t.routes = append(t.routes, compiledRoute{Route: r, segments: segs})
	}

	// Each guard redirect must land on a route the guard allows in the
	// session state that caused it. Login is reached only as a guest;
	// home is reached from guest-only routes while logged in and must also
	// stay open to guests.
	targets := []struct {
		path   string
		states []bool
	}{
		{LoginPath, []bool{false}},
		{HomePath, []bool{false, true}},
	}
	for _, target := range targets {
		m, err := t.Resolve(target.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnsafeRedirectTarget, target.path, err)
		}
		for _, loggedIn := range target.states {
			if d := Evaluate(m.Route, Snapshot{LoggedIn: loggedIn}); !d.Allowed() {
				return nil, fmt.Errorf("%w: %s redirects to %s when logged_in=%t",
					ErrUnsafeRedirectTarget, target.path, d.Target, loggedIn)
			}
		}
	}
	return t, nil
}

// MustTable is NewTable for package-level route tables.
func MustTable(routes ...Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns a copy of the descriptors in table order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, r := range t.routes {
		out[i] = r.Route
	}
	return out
}

func compilePattern(pattern string) ([]segment, error) {
	if pattern == CatchAll {
		return []segment{{kind: segSplat}}, nil
	}
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, pattern)
	}
	if pattern == "/" {
		return nil, nil
	}
	parts := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	segs := make([]segment, 0, len(parts))
	names := make(map[string]bool)
	for _, p := range parts {
		switch {
		case p == "":
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, pattern)
		case strings.HasPrefix(p, ":"):
			name := p[1:]
			if !validParamName(name) {
				return nil, fmt.Errorf("%w: %q has a bad parameter name", ErrInvalidPattern, pattern)
			}
			if names[name] {
				return nil, fmt.Errorf("%w: %q repeats parameter %q", ErrInvalidPattern, pattern, name)
			}
			names[name] = true
			segs = append(segs, segment{kind: segParam, value: name})
		case p == CatchAll:
			return nil, fmt.Errorf("%w: %q: catch-all must be the whole pattern", ErrInvalidPattern, pattern)
		default:
			segs = append(segs, segment{kind: segStatic, value: p})
		}
	}
	return segs, nil
}

func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// canonicalPattern erases parameter names so "/:a" and "/:b" collide.
func canonicalPattern(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		switch s.kind {
		case segSplat:
			b.WriteString("/*")
		case segParam:
			b.WriteString("/:")
		default:
			b.WriteString("/" + s.value)
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// NormalizePath strips query and fragment, collapses a trailing slash and
// guarantees a leading one. "" becomes "/".
func NormalizePath(raw string) string {
	p := raw
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// Match is a resolved route plus its bound parameters.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Param returns a bound parameter or "".
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Resolve finds the most specific route for path. Ties go to the route that
// appears first in the table.
func (t *Table) Resolve(path string) (Match, error) {
	p := NormalizePath(path)
	var parts []string
	if p != "/" {
		parts = strings.Split(strings.TrimPrefix(p, "/"), "/")
	}

	best := -1
	var bestParams map[string]string
	for i, r := range t.routes {
		params, ok := r.match(parts)
		if !ok {
			continue
		}
		if best < 0 || moreSpecific(r.segments, t.routes[best].segments) {
			best = i
			bestParams = params
		}
	}
	if best < 0 {
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return Match{Route: t.routes[best].Route, Path: p, Params: bestParams}, nil
}

func (r compiledRoute) match(parts []string) (map[string]string, bool) {
	if isSplat(r.segments) {
		return map[string]string{}, true
	}
	if len(parts) != len(r.segments) {
		return nil, false
	}
	params := make(map[string]string)
	for i, s := range r.segments {
		part := parts[i]
		switch s.kind {
		case segStatic:
			if part != s.value {
				return nil, false
			}
		case segParam:
			if part == "" {
				return nil, false
			}
			v, err := url.PathUnescape(part)
			if err != nil {
				return nil, false
			}
			params[s.value] = v
		}
	}
	return params, true
}

// moreSpecific compares segment by segment; the first differing rank decides.
// Equal rankings are not "more specific", which keeps table order for ties.
// The catch-all loses to everything.
func moreSpecific(a, b []segment) bool {
	aSplat, bSplat := isSplat(a), isSplat(b)
	if aSplat || bSplat {
		return !aSplat && bSplat
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].kind != b[i].kind {
			return a[i].kind > b[i].kind
		}
	}
	return false
}

func isSplat(segs []segment) bool {
	return len(segs) == 1 && segs[0].kind == segSplat
}
