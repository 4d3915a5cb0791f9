package router

// Snapshot is the slice of session state the guard looks at.
type Snapshot struct {
	LoggedIn bool
}

// SessionReader is anything that can report whether a session is active.
// *session.Store satisfies it.
type SessionReader interface {
	IsLoggedIn() bool
}

// Outcome is the terminal state of one navigation attempt.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Redirect {
		return "redirect"
	}
	return "allow"
}

// Decision is what the guard says about a navigation attempt. Target is set
// only for redirects.
type Decision struct {
	Outcome Outcome
	Target  string
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

func (d Decision) String() string {
	if d.Outcome == Redirect {
		return "redirect to " + d.Target
	}
	return "allow"
}

// RedirectTo builds a redirect decision.
func RedirectTo(path string) Decision {
	return Decision{Outcome: Redirect, Target: path}
}

// Evaluate is the navigation guard. It is a pure function of the route flags
// and the session snapshot and checks, in order: auth required, guest only.
func Evaluate(to Route, snap Snapshot) Decision {
	switch {
	case to.RequiresAuth && !snap.LoggedIn:
		return RedirectTo(LoginPath)
	case to.GuestOnly && snap.LoggedIn:
		return RedirectTo(HomePath)
	default:
		return Decision{Outcome: Allow}
	}
}
