package layouts

import (
	"html/template"

	"backoffice/internal/nav"
)

// AppLayoutData is passed to the "layout" template to configure the page shell.
type AppLayoutData struct {
	Title     string
	UserName  string // display name, "-" when unknown
	UserID    string // username, "-" when unknown
	Menu      []nav.Entry
	FlashMsg  string
	FlashKind string // "success", "error"
	CSRFField template.HTML
}

// LoginData configures the login page.
type LoginData struct {
	Username  string
	Remember  bool
	FlashMsg  string
	FlashKind string
	CSRFField template.HTML
}
