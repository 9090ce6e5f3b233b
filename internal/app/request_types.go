package app

import "backoffice/internal/apiclient"

// LoginRequest is the login form.
type LoginRequest struct {
	Username string
	Password string
	Remember bool
}

// PageRequest moves a list to another page. Size 0 keeps the current size.
type PageRequest struct {
	Variant string
	Page    int
	Size    int
}

// SearchRequest sets a list's filter. StartDate/EndDate are ignored by
// variants without a date range.
type SearchRequest struct {
	Variant   string
	Text      string
	StartDate string
	EndDate   string
}

// UploadRequest carries one CSV file for a list.
type UploadRequest struct {
	Variant string
	File    apiclient.File
}
