package repl

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/app"
	"backoffice/internal/db"
)

func newWorkspace(t *testing.T) *app.Workspace {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","user":{"id":3,"username":"catch","name":"김정산"}}`))
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("GET /settlements", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":1,"settlementMonth":"2024-04","amount":1500}],"total":31,"page":` +
			r.URL.Query().Get("page") + `,"limit":` + r.URL.Query().Get("limit") + `}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ws, err := app.NewWorkspace("cli", app.Deps{
		APIBaseURL:           srv.URL,
		Vault:                db.NewMemoryVault(),
		Location:             time.UTC,
		LogoutOnUnauthorized: true,
	})
	require.NoError(t, err)
	_ = ws.Restore(context.Background())
	return ws
}

func run(t *testing.T, ws *app.Workspace, script string) string {
	t.Helper()
	var out bytes.Buffer
	Run(context.Background(), ws, bufio.NewReader(strings.NewReader(script)), &out)
	return out.String()
}

func TestRun_GuardsListCommands(t *testing.T) {
	ws := newWorkspace(t)
	out := run(t, ws, "/show\n/exit\n")

	assert.Contains(t, out, "Not signed in. Use /login <user>.")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_LoginNavigateAndPage(t *testing.T) {
	ws := newWorkspace(t)
	out := run(t, ws, strings.Join([]string{
		"/login catch",
		"secret",
		"y",
		"/menu settlements",
		"/menu dispatch",
		"/page 2 20",
		"/whoami",
		"",
	}, "\n"))

	assert.Contains(t, out, "로그인에 성공했습니다!")
	assert.Contains(t, out, "김정산 (id: catch)")
	assert.Contains(t, out, "파견 정산 내역")
	assert.Contains(t, out, "₩1,500")
	assert.Contains(t, out, "21-31 of 31 items")
	assert.Contains(t, out, "page 2/2   20 per page")
	assert.Equal(t, "catch", ws.RememberedUsername(context.Background()))
}

func TestRun_ListFailureKeepsRows(t *testing.T) {
	ws := newWorkspace(t)
	out := run(t, ws, "/login catch\nsecret\nn\n/menu dispatch\n/search boom\n/exit\n")

	assert.Contains(t, out, "데이터를 불러오는데 실패했습니다.")
	assert.Equal(t, 2, strings.Count(out, "2024-04 |"))
}

func TestRun_RejectsNonCSVUpload(t *testing.T) {
	ws := newWorkspace(t)
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	out := run(t, ws, "/login catch\nsecret\nn\n/menu taxinvoice\n/upload "+path+"\n/exit\n")
	assert.Contains(t, out, "CSV 파일만 업로드 가능합니다!")
}

func TestRun_Export(t *testing.T) {
	ws := newWorkspace(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	out := run(t, ws, "/login catch\nsecret\nn\n/menu dispatch\n/export "+path+"\n/exit\n")
	assert.Contains(t, out, "Exported to "+path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "2024-04")
}

func TestRun_NoOpenList(t *testing.T) {
	ws := newWorkspace(t)
	out := run(t, ws, "/login catch\nsecret\nn\n/refresh\n/bogus\n/exit\n")

	assert.Contains(t, out, "No list is open.")
	assert.Contains(t, out, "Unknown command: /bogus")
}
