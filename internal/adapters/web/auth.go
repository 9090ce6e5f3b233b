package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"backoffice/internal/app"
	"backoffice/internal/session"

	"github.com/golang-jwt/jwt/v5"
)

const (
	workspaceCookieName = "bo_ws"
	workspaceCookieTTL  = 30 * 24 * time.Hour
)

type workspaceKey struct{}

// workspaceFromContext returns the workspace stored in ctx, or nil.
func workspaceFromContext(ctx context.Context) *app.Workspace {
	v, _ := ctx.Value(workspaceKey{}).(*app.Workspace)
	return v
}

// workspaceCookie signs and verifies the browser's workspace id. The id is
// the JWT subject; nothing else is trusted from the browser.
type workspaceCookie struct {
	secret []byte
	secure bool
}

func (c workspaceCookie) sign(id string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(workspaceCookieTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// read returns the workspace id carried by the request, or "" when the
// cookie is absent, tampered with or expired.
func (c workspaceCookie) read(r *http.Request) string {
	cookie, err := r.Cookie(workspaceCookieName)
	if err != nil {
		return ""
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}

func (c workspaceCookie) set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     workspaceCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(workspaceCookieTTL / time.Second),
	})
}

// WithWorkspace resolves the browser's workspace, creating one (and issuing
// the cookie) when the browser has none the server recognises.
func (h *Handler) WithWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := h.cookies.read(r)
		ws, created, err := h.registry.GetOrCreate(id)
		if err != nil {
			slog.Error("workspace", "error", err, "request_id", requestIDFromContext(r.Context()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if created && ws.ID() != id {
			signed, err := h.cookies.sign(ws.ID(), time.Now())
			if err != nil {
				slog.Error("sign workspace cookie", "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			h.cookies.set(w, signed)
		}
		ctx := context.WithValue(r.Context(), workspaceKey{}, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession is the router guard for dashboard routes. While the silent
// reauth is pending it renders the loading page instead of deciding, so an
// authenticated browser never flashes through /login. Anonymous visitors are
// redirected to /login and the requested path is dropped.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFromContext(r.Context())
		if ws == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		switch session.Decide(ws.State()) {
		case session.ShowLoading:
			h.pages.render(w, r, http.StatusOK, "loading", nil)
		case session.RedirectLogin:
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
