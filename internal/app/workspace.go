package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"backoffice/internal/apiclient"
	"backoffice/internal/metrics"
	"backoffice/internal/nav"
	"backoffice/internal/records"
	"backoffice/internal/session"
)

// Messages shown after a login attempt.
const (
	MsgLoginOK     = "로그인에 성공했습니다!"
	MsgLoginFailed = "로그인에 실패했습니다."
)

// ErrUnknownList is returned for a variant key no list answers to.
var ErrUnknownList = errors.New("unknown list")

// Deps are shared by every workspace.
type Deps struct {
	APIBaseURL           string
	APIOptions           []apiclient.Option
	Vault                session.Vault
	Location             *time.Location
	Metrics              *metrics.Metrics // optional
	Logger               *slog.Logger     // optional, slog.Default() when nil
	LogoutOnUnauthorized bool
}

// Workspace is one operator's client state: a session, the menu and one
// list per variant. Safe for concurrent use.
type Workspace struct {
	id      string
	session *session.Store
	nav     *nav.Shell
	lists   map[string]records.Lister
	order   []string
	deps    Deps
	logger  *slog.Logger

	mu       sync.Mutex
	lastSeen time.Time
}

// NewWorkspace wires a session, its own API client and the three lists.
// id doubles as the vault profile.
func NewWorkspace(id string, d Deps) (*Workspace, error) {
	store := session.New(id, d.Vault)

	opts := append([]apiclient.Option(nil), d.APIOptions...)
	if d.Metrics != nil {
		opts = append(opts, apiclient.WithObserver(d.Metrics.ObserveUpstream))
	}
	client, err := apiclient.New(d.APIBaseURL, store, opts...)
	if err != nil {
		return nil, err
	}
	store.Bind(client)
	return newWorkspace(id, store, client, d), nil
}

func newWorkspace(id string, store *session.Store, api listAPI, d Deps) *Workspace {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lo := records.Options{Location: d.Location}
	if d.Metrics != nil {
		lo.Observe = d.Metrics.ObserveList
	}

	w := &Workspace{
		id:       id,
		session:  store,
		nav:      nav.New(),
		lists:    map[string]records.Lister{},
		deps:     d,
		logger:   logger.With("workspace", id),
		lastSeen: time.Now(),
	}
	for _, l := range []records.Lister{
		records.New(records.Settlements(), api, lo),
		records.New(records.Recruitments(), api, lo),
		records.New(records.TaxInvoices(), api, lo),
	} {
		w.lists[l.Key()] = l
		w.order = append(w.order, l.Key())
	}
	return w
}

func (w *Workspace) ID() string { return w.id }

// Session exposes the store, mainly for tests and the credential source.
func (w *Workspace) Session() *session.Store { return w.session }

// Touch records activity for idle purging.
func (w *Workspace) Touch() {
	w.mu.Lock()
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) State() session.State { return w.session.Snapshot() }

// Viewer is the display name used in stat titles.
func (w *Workspace) Viewer() string {
	if u := w.session.Snapshot().User; u != nil {
		return u.DisplayName()
	}
	return ""
}

func (w *Workspace) Restore(ctx context.Context) error {
	return w.session.Restore(ctx)
}

func (w *Workspace) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", session.ErrAuth)
	}
	if err := w.session.Login(ctx, req.Username, req.Password); err != nil {
		return nil, err
	}
	if err := w.session.Remember(ctx, req.Username, req.Remember); err != nil {
		w.logger.Warn("remember username", "error", err)
	}
	st := w.session.Snapshot()
	res := &LoginResult{Message: MsgLoginOK}
	if st.User != nil {
		res.User = *st.User
	}
	return res, nil
}

// LoginFailureMessage is the upstream message when there is one.
func LoginFailureMessage(err error) string {
	var he *apiclient.HTTPError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	return MsgLoginFailed
}

// Logout also resets the menu and drops every list's rows, so the next
// sign-in starts on the chart page with nothing of the previous operator's.
func (w *Workspace) Logout(ctx context.Context) error {
	w.reset()
	return w.session.Logout(ctx)
}

func (w *Workspace) reset() {
	w.nav.Reset()
	for _, l := range w.lists {
		l.Reset()
	}
}

func (w *Workspace) RememberedUsername(ctx context.Context) string {
	return w.session.RememberedUsername(ctx)
}

func (w *Workspace) Navigate(ctx context.Context, key nav.Key) (*NavResult, error) {
	before := w.nav.ActiveList()
	if err := w.nav.Click(key); err != nil {
		return nil, err
	}
	res := &NavResult{Active: w.nav.Selected()}
	after := w.nav.ActiveList()
	if after == "" {
		return res, nil
	}
	l := w.lists[after]
	var err error
	if after != before {
		err = w.handle(ctx, l.Mount(ctx))
	}
	v := l.View(w.Viewer())
	res.View = &v
	return res, err
}

func (w *Workspace) Menu() *MenuResult {
	return &MenuResult{
		Entries: w.nav.Menu(),
		Active:  w.nav.Selected(),
		List:    w.nav.ActiveList(),
		User:    w.session.Snapshot().User,
	}
}

// ActiveList returns the visible list, or nil on the chart page.
func (w *Workspace) ActiveList() records.Lister {
	return w.lists[w.nav.ActiveList()]
}

func (w *Workspace) list(variant string) (records.Lister, error) {
	l, ok := w.lists[variant]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownList, variant)
	}
	return l, nil
}

// Lists returns every list in menu order.
func (w *Workspace) Lists() []records.Lister {
	out := make([]records.Lister, 0, len(w.order))
	for _, k := range w.order {
		out = append(out, w.lists[k])
	}
	return out
}

func (w *Workspace) ListPage(ctx context.Context, req PageRequest) (*ListResult, error) {
	l, err := w.list(req.Variant)
	if err != nil {
		return nil, err
	}
	size := req.Size
	if size <= 0 {
		size = l.Window().PageSize
	}
	err = w.handle(ctx, l.ChangePage(ctx, req.Page, size))
	return &ListResult{View: l.View(w.Viewer())}, err
}

func (w *Workspace) SearchList(ctx context.Context, req SearchRequest) (*ListResult, error) {
	l, err := w.list(req.Variant)
	if err != nil {
		return nil, err
	}
	f := records.Filter{Search: req.Text}
	if l.SupportsDateRange() {
		f.StartDate, f.EndDate = req.StartDate, req.EndDate
	}
	err = w.handle(ctx, l.Load(ctx, records.DefaultPage, l.Window().PageSize, f))
	return &ListResult{View: l.View(w.Viewer())}, err
}

func (w *Workspace) RefreshList(ctx context.Context, variant string) (*ListResult, error) {
	l, err := w.list(variant)
	if err != nil {
		return nil, err
	}
	err = w.handle(ctx, l.Refresh(ctx))
	return &ListResult{View: l.View(w.Viewer())}, err
}

// UploadCSV returns a result even on failure; Message is the operator notice.
func (w *Workspace) UploadCSV(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	l, err := w.list(req.Variant)
	if err != nil {
		return nil, err
	}
	err = w.handle(ctx, l.Upload(ctx, req.File))
	res := &UploadResult{FileName: req.File.Name, View: l.View(w.Viewer())}
	switch {
	case err == nil:
		res.Message = records.UploadSucceeded(req.File.Name)
	case errors.Is(err, records.ErrWrongFileType), errors.Is(err, records.ErrUpload):
		res.Message = records.Notice(err, req.File.Name)
	default:
		// the upload went through; only the refresh failed
		res.Message = records.UploadSucceeded(req.File.Name)
	}
	return res, err
}

func (w *Workspace) ViewList(variant string) (*ListResult, error) {
	l, err := w.list(variant)
	if err != nil {
		return nil, err
	}
	return &ListResult{View: l.View(w.Viewer())}, nil
}

func (w *Workspace) ExportCSV(variant string, out io.Writer) error {
	l, err := w.list(variant)
	if err != nil {
		return err
	}
	return l.WriteCSV(out, w.Viewer())
}

// handle logs list failures and turns a 401 into a forced logout.
func (w *Workspace) handle(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, records.ErrSuperseded) {
		return err
	}
	w.logger.Warn("list call failed", "error", err)
	if errors.Is(err, records.ErrSessionExpired) && w.deps.LogoutOnUnauthorized {
		w.reset()
		w.session.Expire(ctx)
	}
	return err
}
