package app

import (
	"context"
	"io"

	"backoffice/internal/apiclient"
	"backoffice/internal/nav"
	"backoffice/internal/records"
	"backoffice/internal/session"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call
// for one operator. Implementations contain no display logic.
type ApplicationService interface {
	// State returns the session snapshot used by the router guard.
	State() session.State

	// Restore runs the silent reauth from the stored credential.
	Restore(ctx context.Context) error

	// Login authenticates and applies the remember-username option.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)

	// Logout clears the credential. No server call is made.
	Logout(ctx context.Context) error

	// RememberedUsername prefills the login form.
	RememberedUsername(ctx context.Context) string

	// Navigate applies a menu click and mounts the list that became visible.
	Navigate(ctx context.Context, key nav.Key) (*NavResult, error)

	// Menu returns the sidebar as it should be drawn now.
	Menu() *MenuResult

	// ListPage loads a page of the given list, keeping its filter.
	ListPage(ctx context.Context, req PageRequest) (*ListResult, error)

	// SearchList resets the list to page 1 with the given filter.
	SearchList(ctx context.Context, req SearchRequest) (*ListResult, error)

	// RefreshList re-issues the list's current window and filter.
	RefreshList(ctx context.Context, variant string) (*ListResult, error)

	// UploadCSV sends a CSV replacement and refreshes on success.
	UploadCSV(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// ViewList renders the list without any network call.
	ViewList(variant string) (*ListResult, error)

	// ExportCSV writes the list's current page as CSV.
	ExportCSV(variant string, w io.Writer) error
}

var _ ApplicationService = (*Workspace)(nil)

// listAPI is what a workspace needs from its API client.
type listAPI interface {
	records.API
	session.Authenticator
}

var _ listAPI = (*apiclient.Client)(nil)
