package web

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	webui "backoffice/web"
)

// pageEntries maps each page to the template it starts executing from.
var pageEntries = map[string]string{
	"login":     "login",
	"loading":   "loading",
	"dashboard": "layout",
	"print":     "print",
}

type renderer struct {
	pages map[string]*template.Template
}

// newRenderer parses every page together with the shared layout once at startup.
func newRenderer() (*renderer, error) {
	base, err := template.New("base").ParseFS(webui.Templates, "templates/layout.html")
	if err != nil {
		return nil, err
	}
	rd := &renderer{pages: map[string]*template.Template{}}
	for name := range pageEntries {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(webui.Templates, "templates/"+name+".html"); err != nil {
			return nil, err
		}
		rd.pages[name] = t
	}
	return rd, nil
}

// render executes into a buffer so a template failure never leaves half a page.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	t, ok := rd.pages[name]
	if !ok {
		internalError(w, r, "unknown page "+name)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, pageEntries[name], data); err != nil {
		slog.Error("render page", "page", name, "error", err)
		internalError(w, r, "render error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
