package web

import (
	"io/fs"
	"net/http"

	"backoffice/internal/app"
	"backoffice/internal/metrics"
	webui "backoffice/web"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
)

// maxUploadBytes caps CSV upload bodies.
const maxUploadBytes = 20 << 20

// Options configures the console handler.
type Options struct {
	AllowedOrigins string
	CookieSecret   string
	// CSRFKey enables CSRF protection on every POST form when set (32 bytes).
	CSRFKey       string
	SecureCookies bool
	Metrics       *metrics.Metrics // optional
}

// Handler holds the workspace registry, the chi router and the page templates.
type Handler struct {
	registry   *app.Registry
	router     chi.Router
	pages      *renderer
	cookies    workspaceCookie
	fileServer http.Handler
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(registry *app.Registry, opts Options) (http.Handler, error) {
	staticFS, err := fs.Sub(webui.Static, "static")
	if err != nil {
		return nil, err
	}
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		registry:   registry,
		pages:      pages,
		cookies:    workspaceCookie{secret: []byte(opts.CookieSecret), secure: opts.SecureCookies},
		fileServer: http.FileServer(http.FS(staticFS)),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(Instrument(opts.Metrics))
	}

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/healthz", h.health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/static", h.fileServer).ServeHTTP(w, req)
	})

	// ── Browser routes (one workspace per browser) ───────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(maxUploadBytes))
		if opts.CSRFKey != "" {
			r.Use(csrfProtect([]byte(opts.CSRFKey), opts.SecureCookies))
		}
		r.Use(h.WithWorkspace)

		r.Get("/login", h.loginPage)
		r.Post("/login", h.loginFormSubmit)
		r.Post("/logout", h.logoutAction)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)
			r.Get("/dashboard", h.dashboardPage)
			r.Get("/dashboard/nav/{key}", h.navAction)
			r.Route("/dashboard/lists/{variant}", func(r chi.Router) {
				r.Get("/page", h.listPageAction)
				r.Post("/search", h.listSearchAction)
				r.Post("/refresh", h.listRefreshAction)
				r.Post("/upload", h.listUploadAction)
				r.Get("/print", h.listPrintPage)
				r.Get("/export.csv", h.listExport)
			})
		})
	})

	// Anything else lands on the dashboard; the guard sends anonymous visitors to /login.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/dashboard", http.StatusSeeOther)
	})

	h.router = r
	return r, nil
}

// csrfProtect wraps gorilla/csrf. Plain-HTTP deployments must be marked so the
// Referer check does not demand TLS.
func csrfProtect(key []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("bo_csrf"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// health reports liveness and the number of live workspaces.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status     string `json:"status"`
		Workspaces int    `json:"workspaces"`
	}
	writeJSON(w, response{Status: "ok", Workspaces: h.registry.Len()})
}
