package client

// Route is where a protected view must go for a given session state.
type Route int

const (
	// RouteLoading renders a neutral indicator, never protected content.
	RouteLoading Route = iota
	RouteLogin
	RouteProtected
)

func (r Route) String() string {
	switch r {
	case RouteLogin:
		return "login"
	case RouteProtected:
		return "protected"
	default:
		return "loading"
	}
}

// Guard decides what a protected view shows. Loading wins over everything.
func Guard(s Snapshot) Route {
	switch {
	case s.Loading():
		return RouteLoading
	case s.State == StateUnauthenticated:
		return RouteLogin
	default:
		return RouteProtected
	}
}
