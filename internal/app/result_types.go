package app

import (
	"backoffice/internal/apiclient"
	"backoffice/internal/nav"
	"backoffice/internal/records"
)

// LoginResult is returned by Login.
type LoginResult struct {
	User    apiclient.User
	Message string
}

// NavResult is returned by Navigate. View is nil when the chart page is active.
type NavResult struct {
	Active nav.Key
	View   *records.View
}

// MenuResult is returned by Menu. List is the visible list key, "" on the chart page.
type MenuResult struct {
	Entries []nav.Entry
	Active  nav.Key
	List    string
	User    *apiclient.User
}

// ListResult is returned by list operations. View reflects the list after
// the call, so it still holds the previous rows when the call failed.
type ListResult struct {
	View records.View
}

// UploadResult is returned by UploadCSV.
type UploadResult struct {
	FileName string
	Message  string
	View     records.View
}
