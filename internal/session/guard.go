package session

// Decision is what a guarded route does for a given State.
type Decision int

const (
	// ShowLoading renders a placeholder; no route decision is made yet.
	ShowLoading Decision = iota
	// RedirectLogin sends the operator to /login, dropping the requested path.
	RedirectLogin
	// Allow renders the guarded content.
	Allow
)

func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return "redirect-login"
	case Allow:
		return "allow"
	default:
		return "show-loading"
	}
}

// Decide maps a session state to a route decision. Loading always wins.
func Decide(st State) Decision {
	if st.Loading {
		return ShowLoading
	}
	if st.IsAuthenticated {
		return Allow
	}
	return RedirectLogin
}
