package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"backoffice/internal/apiclient"
	"backoffice/internal/app"
	"backoffice/internal/records"

	"github.com/go-chi/chi/v5"
)

// pager is the pagination bar under a list table.
type pager struct {
	Variant string
	Current int
	Size    int
	Last    int
	Prev    int
	Next    int
	HasPrev bool
	HasNext bool
	Pages   []int
}

// pagerSpan is how many page links are shown around the current page.
const pagerSpan = 2

func newPager(v records.View) pager {
	w := v.Window
	p := pager{
		Variant: v.Key,
		Current: w.Current,
		Size:    w.PageSize,
		Last:    w.Pages(),
		Prev:    w.Current - 1,
		Next:    w.Current + 1,
	}
	p.HasPrev = p.Prev >= 1
	p.HasNext = p.Next <= p.Last
	for i := max(1, w.Current-pagerSpan); i <= min(p.Last, w.Current+pagerSpan); i++ {
		p.Pages = append(p.Pages, i)
	}
	return p
}

// Href links to page n at the current size.
func (p pager) Href(n int) string {
	q := url.Values{"page": {strconv.Itoa(n)}, "size": {strconv.Itoa(p.Size)}}
	return "/dashboard/lists/" + p.Variant + "/page?" + q.Encode()
}

// listOutcome redirects back to the dashboard with the operator notice for err.
func listOutcome(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	case isUnknownList(err):
		http.NotFound(w, r)
	default:
		redirectFlash(w, r, "/dashboard", "error", records.Notice(err, ""))
	}
}

// listPageAction handles GET /dashboard/lists/{variant}/page?page=N&size=M.
func (h *Handler) listPageAction(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	_, err := ws.ListPage(r.Context(), app.PageRequest{
		Variant: chi.URLParam(r, "variant"),
		Page:    page,
		Size:    size,
	})
	listOutcome(w, r, err)
}

// listSearchAction handles POST /dashboard/lists/{variant}/search.
func (h *Handler) listSearchAction(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/dashboard", "error", "invalid form")
		return
	}
	_, err := ws.SearchList(r.Context(), app.SearchRequest{
		Variant:   chi.URLParam(r, "variant"),
		Text:      r.FormValue("search"),
		StartDate: r.FormValue("startDate"),
		EndDate:   r.FormValue("endDate"),
	})
	listOutcome(w, r, err)
}

// listRefreshAction handles POST /dashboard/lists/{variant}/refresh.
func (h *Handler) listRefreshAction(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	_, err := ws.RefreshList(r.Context(), chi.URLParam(r, "variant"))
	listOutcome(w, r, err)
}

// listUploadAction handles POST /dashboard/lists/{variant}/upload (multipart, field "file").
func (h *Handler) listUploadAction(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		redirectFlash(w, r, "/dashboard", "error", "업로드할 파일을 읽을 수 없습니다.")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		redirectFlash(w, r, "/dashboard", "error", "업로드할 파일을 선택하세요.")
		return
	}
	defer file.Close()

	res, err := ws.UploadCSV(r.Context(), app.UploadRequest{
		Variant: chi.URLParam(r, "variant"),
		File: apiclient.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		},
	})
	switch {
	case isUnknownList(err):
		http.NotFound(w, r)
	case errors.Is(err, records.ErrWrongFileType), errors.Is(err, records.ErrUpload):
		redirectFlash(w, r, "/dashboard", "error", res.Message)
	case records.Notice(err, res.FileName) != "":
		// stored upstream, refresh failed
		redirectFlash(w, r, "/dashboard", "error", res.Message+" "+records.Notice(err, res.FileName))
	default:
		redirectFlash(w, r, "/dashboard", "success", res.Message)
	}
}

// listPrintPage handles GET /dashboard/lists/{variant}/print, the printable table.
func (h *Handler) listPrintPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	res, err := ws.ViewList(chi.URLParam(r, "variant"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.pages.render(w, r, http.StatusOK, "print", res.View)
}

// utf8BOM lets spreadsheet tools detect the Korean headers as UTF-8.
const utf8BOM = "\ufeff"

// listExport handles GET /dashboard/lists/{variant}/export.csv.
func (h *Handler) listExport(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	variant := chi.URLParam(r, "variant")
	if _, err := ws.ViewList(variant); err != nil {
		http.NotFound(w, r)
		return
	}
	name := fmt.Sprintf("%s-%s.csv", variant, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write([]byte(utf8BOM))
	if err := ws.ExportCSV(variant, w); err != nil {
		internalError(w, r, err.Error())
	}
}
