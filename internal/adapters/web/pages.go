package web

import (
	"errors"
	"net/http"

	"backoffice/internal/app"
	"backoffice/internal/nav"
	"backoffice/internal/records"
	"backoffice/web/templates/layouts"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
)

// ── Login page ────────────────────────────────────────────────────────────────

// loginPage handles GET /login and renders the sign-in page.
// Redirects to /dashboard if already authenticated.
func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if ws.State().IsAuthenticated {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	d := layouts.LoginData{CSRFField: csrf.TemplateField(r)}
	d.FlashMsg, d.FlashKind = flashFromQuery(r)
	if remembered := ws.RememberedUsername(r.Context()); remembered != "" {
		d.Username = remembered
		d.Remember = true
	}
	h.pages.render(w, r, http.StatusOK, "login", d)
}

// loginFormSubmit handles POST /login.
func (h *Handler) loginFormSubmit(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	d := layouts.LoginData{CSRFField: csrf.TemplateField(r), FlashKind: "error"}
	if err := r.ParseForm(); err != nil {
		d.FlashMsg = app.MsgLoginFailed
		h.pages.render(w, r, http.StatusBadRequest, "login", d)
		return
	}
	req := app.LoginRequest{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		Remember: r.FormValue("remember") != "",
	}
	res, err := ws.Login(r.Context(), req)
	if err != nil {
		d.Username = req.Username
		d.Remember = req.Remember
		d.FlashMsg = app.LoginFailureMessage(err)
		h.pages.render(w, r, http.StatusOK, "login", d)
		return
	}
	redirectFlash(w, r, "/dashboard", "success", res.Message)
}

// logoutAction handles POST /logout: clears the credential and redirects to login.
func (h *Handler) logoutAction(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := ws.Logout(r.Context()); err != nil {
		redirectFlash(w, r, "/login", "error", err.Error())
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

// dashboardPageData feeds layout.html + dashboard.html.
type dashboardPageData struct {
	layouts.AppLayoutData
	List      *records.View // nil on the chart page
	Pager     pager
	PageSizes []int
}

// dashboardPage handles GET /dashboard. It renders what the workspace holds
// and never calls the API itself.
func (h *Handler) dashboardPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	d := dashboardPageData{
		AppLayoutData: h.buildAppLayoutData(r, ws),
		PageSizes:     records.PageSizes,
	}
	if l := ws.ActiveList(); l != nil {
		v := l.View(ws.Viewer())
		d.List = &v
		d.Title = v.Title
		d.Pager = newPager(v)
	}
	h.pages.render(w, r, http.StatusOK, "dashboard", d)
}

// navAction handles GET /dashboard/nav/{key}.
func (h *Handler) navAction(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	key, err := nav.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		redirectFlash(w, r, "/dashboard", "error", err.Error())
		return
	}
	if _, err := ws.Navigate(r.Context(), key); err != nil {
		redirectFlash(w, r, "/dashboard", "error", records.Notice(err, ""))
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// buildAppLayoutData constructs AppLayoutData for the signed-in operator.
func (h *Handler) buildAppLayoutData(r *http.Request, ws *app.Workspace) layouts.AppLayoutData {
	menu := ws.Menu()
	d := layouts.AppLayoutData{
		Title:     "차트",
		UserName:  "-",
		UserID:    "-",
		Menu:      menu.Entries,
		CSRFField: csrf.TemplateField(r),
	}
	if u := menu.User; u != nil {
		if name := u.DisplayName(); name != "" {
			d.UserName = name
		}
		if u.Username != "" {
			d.UserID = u.Username
		}
	}
	d.FlashMsg, d.FlashKind = flashFromQuery(r)
	return d
}

// isUnknownList reports a variant path segment no list answers to.
func isUnknownList(err error) bool {
	return errors.Is(err, app.ErrUnknownList)
}
