package web

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/app"
	"backoffice/internal/db"
	"backoffice/internal/metrics"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeAPI is the upstream records API. /auth/me can be held open to keep a
// workspace in the loading state.
type fakeAPI struct {
	mu      sync.Mutex
	uploads int
	holdMe  chan struct{}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"password":"secret"`) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","user":{"id":3,"username":"catch","name":"김정산"}}`))
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		hold := f.holdMe
		f.mu.Unlock()
		if hold != nil {
			<-hold
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":3,"username":"catch","name":"김정산"}`))
	})
	mux.HandleFunc("GET /settlements", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":11,"settlementMonth":"2024-04","amount":2500,"commission":250,"note":"<script>"}],"total":1,"page":1,"limit":10}`))
	})
	mux.HandleFunc("POST /upload/csv", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.uploads++
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"done"}`))
	})
	return mux
}

type console struct {
	srv      *httptest.Server
	client   *http.Client
	api      *fakeAPI
	vault    *db.MemoryVault
	registry *app.Registry
}

func newConsole(t *testing.T, csrfKey string) *console {
	t.Helper()
	api := &fakeAPI{}
	upstream := httptest.NewServer(api.handler())
	t.Cleanup(upstream.Close)

	vault := db.NewMemoryVault()
	m := metrics.New()
	registry := app.NewRegistry(app.Deps{
		APIBaseURL:           upstream.URL,
		Vault:                vault,
		Location:             time.UTC,
		Metrics:              m,
		LogoutOnUnauthorized: true,
	})
	h, err := NewHandler(registry, Options{CookieSecret: testSecret, CSRFKey: csrfKey, Metrics: m})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &console{srv: srv, client: client, api: api, vault: vault, registry: registry}
}

func (c *console) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.client.Get(c.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (c *console) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.client.PostForm(c.srv.URL+path, form)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

// waitResolved polls /dashboard until the workspace leaves the loading state.
func (c *console) waitResolved(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, body := c.get(t, "/dashboard")
		return !strings.Contains(body, "로딩 중...")
	}, 2*time.Second, 10*time.Millisecond)
}

func (c *console) login(t *testing.T) {
	t.Helper()
	c.waitResolved(t)
	resp := c.postForm(t, "/login", url.Values{"username": {"catch"}, "password": {"secret"}, "remember": {"1"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", loc.Path)
	assert.Equal(t, "로그인에 성공했습니다!", loc.Query().Get("flash_success"))
}

func TestConsole_AnonymousIsSentToLogin(t *testing.T) {
	c := newConsole(t, "")
	c.waitResolved(t)

	resp, _ := c.get(t, "/dashboard/lists/settlements/print")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := c.get(t, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "아이디 입력")
}

func TestConsole_IssuesWorkspaceCookie(t *testing.T) {
	c := newConsole(t, "")
	resp, _ := c.get(t, "/login")

	var found *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == workspaceCookieName {
			found = ck
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.HttpOnly)

	// the same browser keeps its workspace
	resp, _ = c.get(t, "/login")
	assert.Empty(t, resp.Cookies())
	assert.Equal(t, 1, c.registry.Len())
}

func TestConsole_LoadingWhileRestorePending(t *testing.T) {
	c := newConsole(t, "")
	hold := make(chan struct{})
	c.api.mu.Lock()
	c.api.holdMe = hold
	c.api.mu.Unlock()

	// a returning browser: signed cookie plus a stored credential
	signed, err := workspaceCookie{secret: []byte(testSecret)}.sign("returning", time.Now())
	require.NoError(t, err)
	u, _ := url.Parse(c.srv.URL)
	c.client.Jar.SetCookies(u, []*http.Cookie{{Name: workspaceCookieName, Value: signed, Path: "/"}})
	require.NoError(t, c.vault.Put(t.Context(), "returning", "credential", "tok"))

	resp, body := c.get(t, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "CATCH12")
	assert.Contains(t, body, "로딩 중...")

	close(hold)
	require.Eventually(t, func() bool {
		resp, body := c.get(t, "/dashboard")
		return resp.StatusCode == http.StatusOK && strings.Contains(body, "김정산")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsole_TamperedCookieGetsNewWorkspace(t *testing.T) {
	c := newConsole(t, "")
	u, _ := url.Parse(c.srv.URL)
	c.client.Jar.SetCookies(u, []*http.Cookie{{Name: workspaceCookieName, Value: "not-a-jwt", Path: "/"}})

	resp, _ := c.get(t, "/login")
	var reissued bool
	for _, ck := range resp.Cookies() {
		reissued = reissued || ck.Name == workspaceCookieName
	}
	assert.True(t, reissued)
}

func TestConsole_LoginFailureShowsUpstreamMessage(t *testing.T) {
	c := newConsole(t, "")
	c.waitResolved(t)

	resp, err := c.client.PostForm(c.srv.URL+"/login", url.Values{"username": {"catch"}, "password": {"nope"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Unauthorized")
	assert.Contains(t, string(body), `value="catch"`)
}

func TestConsole_LoginNavigateAndRender(t *testing.T) {
	c := newConsole(t, "")
	c.login(t)

	resp, body := c.get(t, "/dashboard?flash_success="+url.QueryEscape("로그인에 성공했습니다!"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "김정산")
	assert.Contains(t, body, "로그인에 성공했습니다!")
	assert.Contains(t, body, "대시보드 내용")

	resp, _ = c.get(t, "/dashboard/nav/dispatch")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = c.get(t, "/dashboard")
	assert.Contains(t, body, "총 데이터 수")
	assert.Contains(t, body, "1건")
	assert.Contains(t, body, "₩2,500")
	assert.Contains(t, body, "1-1 of 1 items")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<script>")

	// /login now bounces to the dashboard
	resp, _ = c.get(t, "/login")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestConsole_LogoutKeepsRememberedUsername(t *testing.T) {
	c := newConsole(t, "")
	c.login(t)

	resp := c.postForm(t, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := c.get(t, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="catch"`)

	resp, _ = c.get(t, "/dashboard")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func upload(t *testing.T, c *console, name, contentType, body string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + name + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte(body))
	require.NoError(t, mw.Close())

	resp, err := c.client.Post(c.srv.URL+"/dashboard/lists/settlements/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestConsole_UploadRejectsNonCSV(t *testing.T) {
	c := newConsole(t, "")
	c.login(t)
	c.get(t, "/dashboard/nav/dispatch")

	resp := upload(t, c, "data.txt", "text/plain", "hello")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "CSV 파일만 업로드 가능합니다!", loc.Query().Get("flash_error"))

	c.api.mu.Lock()
	defer c.api.mu.Unlock()
	assert.Zero(t, c.api.uploads)
}

func TestConsole_UploadCSV(t *testing.T) {
	c := newConsole(t, "")
	c.login(t)
	c.get(t, "/dashboard/nav/dispatch")

	resp := upload(t, c, "april.csv", "text/csv", "month,amount\n2024-04,2500\n")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "april.csv 파일이 성공적으로 업로드되었습니다.", loc.Query().Get("flash_success"))

	c.api.mu.Lock()
	defer c.api.mu.Unlock()
	assert.Equal(t, 1, c.api.uploads)
}

func TestConsole_ExportCSV(t *testing.T) {
	c := newConsole(t, "")
	c.login(t)
	c.get(t, "/dashboard/nav/dispatch")

	resp, body := c.get(t, "/dashboard/lists/settlements/export.csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "settlements-")
	assert.True(t, strings.HasPrefix(body, "\ufeff정산 월,"))
	assert.Contains(t, body, "₩2,500")
}

func TestConsole_UnknownListAndPaths(t *testing.T) {
	c := newConsole(t, "")
	c.login(t)

	resp, _ := c.get(t, "/no/such/page")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, _ = c.get(t, "/dashboard/lists/invoices/print")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConsole_CSRFRejectsTokenlessPost(t *testing.T) {
	c := newConsole(t, "0123456789abcdef0123456789abcdef")
	c.waitResolved(t)

	resp := c.postForm(t, "/login", url.Values{"username": {"catch"}, "password": {"secret"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, body := c.get(t, "/login")
	assert.Contains(t, body, `name="gorilla.csrf.Token"`)
}

func TestConsole_HealthAndMetrics(t *testing.T) {
	c := newConsole(t, "")
	c.waitResolved(t)

	resp, body := c.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","workspaces":1}`, body)

	resp, body = c.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "backoffice_console_requests_total")
	assert.Contains(t, body, "backoffice_active_workspaces 1")
}
