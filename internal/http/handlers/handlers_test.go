package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/jobfeed/internal/backend"
	"github.com/pribylovaa/jobfeed/internal/credstore"
	"github.com/pribylovaa/jobfeed/internal/feed"
	"github.com/pribylovaa/jobfeed/internal/http/views"
	"github.com/pribylovaa/jobfeed/internal/models"
	"github.com/pribylovaa/jobfeed/internal/session"
	"github.com/pribylovaa/jobfeed/mocks"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeSessions — управляемый менеджер сессии для хендлеров ленты.
type fakeSessions struct {
	sig session.Signal
}

func (f *fakeSessions) Signal() session.Signal { return f.sig }

func (f *fakeSessions) Login(context.Context, string, string) error {
	f.sig = session.Authorized
	return nil
}

func (f *fakeSessions) Register(context.Context, string, string) error {
	f.sig = session.Authorized
	return nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.sig = session.Unauthorized
	return nil
}

type fixture struct {
	router http.Handler
	jobs   *mocks.MockJobsAPI
	auth   *mocks.MockAuthAPI
	store  *credstore.Memory
}

type fixtureOpts struct {
	mode feed.Mode
	// sessions — nil означает настоящий session.Manager поверх мока AuthAPI.
	sessions Sessions
}

func newFixture(t *testing.T, o fixtureOpts) *fixture {
	t.Helper()

	mc := gomock.NewController(t)
	jobs := mocks.NewMockJobsAPI(mc)
	auth := mocks.NewMockAuthAPI(mc)
	store := credstore.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessions := o.sessions
	if sessions == nil {
		sessions = session.New(session.Options{
			Auth:   auth,
			Store:  store,
			Now:    func() time.Time { return fixedNow },
			Logger: logger,
		})
	}

	ctrl := feed.New(feed.Options{
		Jobs:   jobs,
		Auth:   sessions,
		Logger: logger,
		Now:    func() time.Time { return fixedNow },
	})

	v, err := views.New()
	require.NoError(t, err)

	h := New(Deps{
		Sessions: sessions,
		Feed:     ctrl,
		Panel:    feed.NewPanel(ctrl, o.mode),
		Store:    store,
		Views:    v,
	})

	// Опции фильтров нужны любой странице ленты; их содержимое здесь не важно.
	jobs.EXPECT().Stats(gomock.Any(), "").Return(&models.Stats{TopSkills: map[string]int{"Go": 3}}, nil).AnyTimes()
	jobs.EXPECT().Dates(gomock.Any()).Return(nil, nil).AnyTimes()

	return &fixture{router: routes(h), jobs: jobs, auth: auth, store: store}
}

// routes — минимальный chi-роутер (нужен для {id}).
func routes(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)
	r.Get("/jobs", h.Jobs)
	r.Post("/jobs/retry", h.Retry)
	r.Post("/filters/toggle", h.ToggleFilter)
	r.Post("/filters/title", h.SetTitle)
	r.Post("/filters/clear", h.ClearFilters)
	r.Post("/filters/confirm", h.ConfirmFilters)
	r.Post("/filters/discard", h.DiscardFilters)
	r.Post("/preferences", h.SavePreferences)
	r.Get("/", h.Dashboard)
	r.Get("/applications", h.Applications)
	r.Post("/jobs/{id}/apply", h.Apply)
	r.Post("/jobs/{id}/unapply", h.Unapply)
	return r
}

func (f *fixture) get(t *testing.T, target string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) post(t *testing.T, target string, form url.Values, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func pageOf(ids ...int64) *models.FeedPage {
	p := &models.FeedPage{Count: len(ids)}
	for _, id := range ids {
		p.Items = append(p.Items, models.Job{ID: id, Title: "Job " + string(rune('A'+id%26))})
	}
	return p
}

// --- auth ---

func TestLoginForm_FromIsSanitized(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Unauthorized}})

	rr := f.get(t, "/login?from="+url.QueryEscape("/applications?x=1"))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `name="from" value="/applications?x=1"`)

	rr = f.get(t, "/login?from="+url.QueryEscape("//evil.example/phish"))
	require.Contains(t, rr.Body.String(), `name="from" value="/"`)
}

func TestLoginForm_AuthorizedRedirects(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})

	rr := f.get(t, "/login?from=%2Fapplications")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/applications", rr.Header().Get("Location"))
}

func TestLogin_Success_StoresPairAndReturnsToFrom(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{})
	f.auth.EXPECT().ObtainPair(gomock.Any(), "ala", "secret").
		Return(models.Credentials{Access: "acc", Refresh: "ref"}, nil)

	rr := f.post(t, "/login", url.Values{
		"username": {" ala "},
		"password": {"secret"},
		"from":     {"/applications"},
	})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/applications", rr.Header().Get("Location"))

	creds, err := credstore.LoadCredentials(context.Background(), f.store)
	require.NoError(t, err)
	require.Equal(t, models.Credentials{Access: "acc", Refresh: "ref"}, creds)
}

func TestLogin_Invalid_ShowsErrorAndLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{})
	f.auth.EXPECT().ObtainPair(gomock.Any(), "ala", "wrong").
		Return(models.Credentials{}, backend.NewStatusError(http.StatusUnauthorized, "No active account"))

	rr := f.post(t, "/login", url.Values{"username": {"ala"}, "password": {"wrong"}})

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "invalid username or password")
	require.Contains(t, rr.Body.String(), `value="ala"`)

	_, ok, err := f.store.Get(context.Background(), credstore.KeyAccess)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLogin_JSONError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{})

	rr := f.post(t, "/login", url.Values{"username": {""}}, "Accept", "application/json")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "invalid_argument", env.Error.Code)
}

func TestRegister_RejectedShowsBackendMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{})
	f.auth.EXPECT().Register(gomock.Any(), "ala", "secret").
		Return(backend.NewStatusError(http.StatusBadRequest, "Username already exists"))

	rr := f.post(t, "/register", url.Values{"username": {"ala"}, "password": {"secret"}})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Username already exists")
	require.Contains(t, rr.Body.String(), `action="/register"`)
}

func TestRegister_ThenLogsIn(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{})
	gomock.InOrder(
		f.auth.EXPECT().Register(gomock.Any(), "ala", "secret").Return(nil),
		f.auth.EXPECT().ObtainPair(gomock.Any(), "ala", "secret").
			Return(models.Credentials{Access: "acc", Refresh: "ref"}, nil),
	)

	rr := f.post(t, "/register", url.Values{"username": {"ala"}, "password": {"secret"}})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/", rr.Header().Get("Location"))
}

func TestLogout_ClearsTokensKeepsPreferences(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, map[string]string{
		credstore.KeyAccess:  "acc",
		credstore.KeyRefresh: "ref",
		credstore.KeyTheme:   "dark",
	}))

	rr := f.post(t, "/logout", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))

	creds, err := credstore.LoadCredentials(ctx, f.store)
	require.NoError(t, err)
	require.False(t, creds.Complete())

	theme, ok, err := f.store.Get(ctx, credstore.KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "dark", theme)
}

// --- лента ---

func TestJobs_FiltersFromQueryString(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Unauthorized}})
	f.jobs.EXPECT().ListJobs(gomock.Any(), "location=Krak%C3%B3w&skills=Go").Return(pageOf(1), nil)

	rr := f.get(t, "/jobs?skills=Go&location=Krak%C3%B3w")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Job B")
	require.NotContains(t, rr.Body.String(), "/apply")
}

func TestJobs_CursorIsPassedVerbatim(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Unauthorized}})
	f.jobs.EXPECT().FetchPage(gomock.Any(), "?page=2&title=go").Return(pageOf(5), nil)

	rr := f.get(t, "/jobs?title=go&cursor="+url.QueryEscape("?page=2&title=go"))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestJobs_JSON_AuthorizedAnnotated(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().ListJobs(gomock.Any(), "").Return(pageOf(41, 42), nil)
	f.jobs.EXPECT().Applications(gomock.Any()).Return([]models.Application{
		{ID: 7, JobID: 42, Status: models.StatusInterviewing},
	}, nil)

	rr := f.get(t, "/jobs", "Accept", "application/json")
	require.Equal(t, http.StatusOK, rr.Code)

	var out feedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, 2, out.Count)
	require.Len(t, out.Results, 2)
	require.Nil(t, out.Results[0].Application)
	require.NotNil(t, out.Results[1].Application)
	require.Equal(t, models.StatusInterviewing, out.Results[1].Application.Status)
}

func TestJobs_PrimaryFailure_RendersRetry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Unauthorized}})
	gomock.InOrder(
		f.jobs.EXPECT().ListJobs(gomock.Any(), "").Return(nil, backend.NewStatusError(http.StatusServiceUnavailable, "")),
		f.jobs.EXPECT().ListJobs(gomock.Any(), "").Return(pageOf(3), nil),
	)

	rr := f.get(t, "/jobs")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "The job service is unavailable. Please try again.")
	require.Contains(t, rr.Body.String(), `action="/jobs/retry"`)

	rr = f.post(t, "/jobs/retry", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Job D")
	require.NotContains(t, rr.Body.String(), "unavailable. Please")
}

// --- панель фильтров ---

func TestFilters_Immediate_ToggleFetches(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{mode: feed.ModeImmediate, sessions: &fakeSessions{sig: session.Unauthorized}})
	f.jobs.EXPECT().ListJobs(gomock.Any(), "operating_mode=remote").Return(pageOf(1), nil)

	rr := f.post(t, "/filters/toggle", url.Values{"field": {"operating_mode"}, "value": {"remote"}})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), `action="/filters/confirm"`)
}

func TestFilters_Deferred_NoFetchUntilConfirm(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{mode: feed.ModeDeferred, sessions: &fakeSessions{sig: session.Unauthorized}})

	// Без ожиданий ListJobs: любой запрос ленты здесь провалит тест.
	rr := f.post(t, "/filters/toggle", url.Values{"field": {"location"}, "value": {"Gdańsk"}})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `action="/filters/discard"`)

	rr = f.post(t, "/filters/title", url.Values{"title": {"  golang "}})
	require.Equal(t, http.StatusOK, rr.Code)

	f.jobs.EXPECT().ListJobs(gomock.Any(), "title=golang&location=Gda%C5%84sk").Return(pageOf(2), nil)

	rr = f.post(t, "/filters/confirm", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), `action="/filters/discard"`)
}

func TestFilters_Deferred_Discard(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{mode: feed.ModeDeferred, sessions: &fakeSessions{sig: session.Unauthorized}})

	rr := f.post(t, "/filters/toggle", url.Values{"field": {"source"}, "value": {"pracuj"}})
	require.Contains(t, rr.Body.String(), `action="/filters/discard"`)

	rr = f.post(t, "/filters/discard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), `action="/filters/discard"`)
}

func TestFilters_UnknownField(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Unauthorized}})

	rr := f.post(t, "/filters/toggle", url.Values{"field": {"salary"}, "value": {"1"}})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "unknown filter")
}

func TestFilters_Clear(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Unauthorized}})
	gomock.InOrder(
		f.jobs.EXPECT().ListJobs(gomock.Any(), "experience=senior").Return(pageOf(1), nil),
		f.jobs.EXPECT().ListJobs(gomock.Any(), "").Return(pageOf(1, 2), nil),
	)

	f.get(t, "/jobs?experience=senior")
	rr := f.post(t, "/filters/clear", nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

// --- отклики ---

func TestApply_RedirectsBackAndAnnotates(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().ListJobs(gomock.Any(), "").Return(pageOf(42), nil)
	f.jobs.EXPECT().Applications(gomock.Any()).Return(nil, nil)
	f.jobs.EXPECT().CreateApplication(gomock.Any(), int64(42)).
		Return(&models.Application{ID: 9, JobID: 42, Status: models.StatusApplied}, nil)

	f.get(t, "/jobs")

	rr := f.post(t, "/jobs/42/apply", url.Values{"return": {"/jobs?page=1"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/jobs?page=1", rr.Header().Get("Location"))
}

func TestApply_JSONAndForeignReturn(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().CreateApplication(gomock.Any(), int64(42)).
		Return(&models.Application{ID: 9, JobID: 42, Status: models.StatusApplied}, nil).Times(2)

	rr := f.post(t, "/jobs/42/apply", nil, "Accept", "application/json")
	require.Equal(t, http.StatusCreated, rr.Code)
	var out applicationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.EqualValues(t, 9, out.ID)

	rr = f.post(t, "/jobs/42/apply", url.Values{"return": {"https://evil.example/"}})
	require.Equal(t, "/jobs", rr.Header().Get("Location"))
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().CreateApplication(gomock.Any(), int64(42)).
		Return(nil, backend.NewStatusError(http.StatusConflict, "exists"))

	rr := f.post(t, "/jobs/abc/apply", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.post(t, "/jobs/42/apply", nil)
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Contains(t, rr.Body.String(), "already applied")
}

func TestUnapply_DeletesFoundApplication(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().Applications(gomock.Any()).Return([]models.Application{{ID: 7, JobID: 42}}, nil)
	f.jobs.EXPECT().DeleteApplication(gomock.Any(), int64(7)).Return(nil)

	rr := f.post(t, "/jobs/42/unapply", url.Values{"return": {"/applications"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/applications", rr.Header().Get("Location"))
}

func TestUnapply_NotApplied(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().Applications(gomock.Any()).Return(nil, nil).Times(2)

	rr := f.post(t, "/jobs/42/unapply", nil, "Accept", "application/json")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.post(t, "/jobs/42/unapply", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestApplications_Page(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().Applications(gomock.Any()).Return([]models.Application{
		{ID: 7, JobID: 42, Status: models.StatusRejected, AppliedDate: fixedNow},
	}, nil)

	rr := f.get(t, "/applications")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "#42")
	require.Contains(t, rr.Body.String(), "REJECTED")
	require.Contains(t, rr.Body.String(), "01.06.2024")
}

func TestApplications_FailureShowsMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().Applications(gomock.Any()).Return(nil, backend.ErrUnavailable).Times(2)

	rr := f.get(t, "/applications")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Failed to load applications.")

	rr = f.get(t, "/applications", "Accept", "application/json")
	require.Equal(t, http.StatusBadGateway, rr.Code)
}

// --- обзор рынка ---

func TestDashboard_Page(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().Stats(gomock.Any(), "Python").Return(&models.Stats{
		TopSkills:       map[string]int{"Django": 7},
		ExperienceStats: map[string]int{"mid": 4},
		Salary:          "15000 PLN",
		Last7Days:       2,
		Last30Days:      11,
	}, nil)

	rr := f.get(t, "/?skill=Python")
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	require.Contains(t, body, "Django")
	require.Contains(t, body, "15000 PLN")
	require.Contains(t, body, "11 jobs")
	require.Contains(t, body, "<dt>mid</dt><dd>4</dd>")
	require.Contains(t, body, `aria-current="page">Python</a>`)
}

func TestDashboard_JSON(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})

	rr := f.get(t, "/", "Accept", "application/json")
	require.Equal(t, http.StatusOK, rr.Code)

	var got dashboardResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Empty(t, got.Skill)
	require.Equal(t, []countResponse{{Label: "Go", Count: 3}}, got.Skills)
}

func TestDashboard_FailureShowsRetry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Authorized}})
	f.jobs.EXPECT().Stats(gomock.Any(), "Rust").Return(nil, backend.ErrUnavailable).Times(2)

	rr := f.get(t, "/?skill=Rust")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Failed to load dashboard data.")
	require.Contains(t, rr.Body.String(), `href="/?skill=Rust"`)

	rr = f.get(t, "/?skill=Rust", "Accept", "application/json")
	require.Equal(t, http.StatusBadGateway, rr.Code)
}

// --- настройки ---

func TestPreferences_SaveAndApply(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Unauthorized}})

	rr := f.post(t, "/preferences", url.Values{"locale": {"pl"}, "theme": {"dark"}, "return": {"/login"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))

	rr = f.get(t, "/login")
	require.Contains(t, rr.Body.String(), `lang="pl"`)
	require.Contains(t, rr.Body.String(), `data-theme="dark"`)
	require.Contains(t, rr.Body.String(), "Zaloguj się")
}

func TestPreferences_Invalid(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Unauthorized}})

	rr := f.post(t, "/preferences", url.Values{"locale": {"de"}})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	_, ok, err := f.store.Get(context.Background(), credstore.KeyLocale)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPreferences_AcceptLanguageBeforeFirstSave(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixtureOpts{sessions: &fakeSessions{sig: session.Unauthorized}})

	rr := f.get(t, "/login", "Accept-Language", "pl-PL,pl;q=0.9,en;q=0.5")
	require.Contains(t, rr.Body.String(), `lang="pl"`)
}

func TestSafeReturn(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                     "/x",
		"/jobs?page=2":         "/jobs?page=2",
		"//evil.example":       "/x",
		"/\\evil.example":      "/x",
		"https://evil.example": "/x",
		"jobs":                 "/x",
	}

	for in, want := range cases {
		require.Equal(t, want, safeReturn(in, "/x"), in)
	}
}
