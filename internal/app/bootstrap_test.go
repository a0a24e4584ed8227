package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"jobboard-admin/internal/config"
	"jobboard-admin/internal/domain/job"
	"jobboard-admin/internal/pkg/logging"

	"github.com/stretchr/testify/require"
)

// fakeRemote is a minimal stand-in for the job board REST API.
type fakeRemote struct {
	mu   sync.Mutex
	jobs []job.Job
	next int
}

func (f *fakeRemote) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/sign_in", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-1"}`))
	})
	mux.HandleFunc("POST /auth/sign_up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.jobs)
	})
	mux.HandleFunc("POST /jobs", func(w http.ResponseWriter, r *http.Request) {
		var d job.Draft
		_ = json.NewDecoder(r.Body).Decode(&d)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.next++
		j := job.Job{ID: "n" + strconv.Itoa(f.next), Title: d.Title, Department: d.Department, Vacancies: d.Vacancies, Overview: d.Overview}
		f.jobs = append(f.jobs, j)
		_ = json.NewEncoder(w).Encode(j)
	})
	mux.HandleFunc("DELETE /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if i := job.IndexByID(f.jobs, r.PathValue("id")); i >= 0 {
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	remote := &fakeRemote{jobs: []job.Job{{ID: "seed", Title: "Seed", Department: job.Department{ID: 3}}}}
	srv := httptest.NewServer(remote.handler())
	t.Cleanup(srv.Close)

	cfg := config.Config{
		App:        config.AppConfig{AppName: "jobboard-admin-test"},
		API:        config.APIConfig{BaseURL: srv.URL},
		Credential: config.CredentialConfig{Backend: config.BackendMemory},
	}
	c, err := NewContainerWithLogger(cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	a := New(c)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a.Start(ctx)
	return a
}

func call(t *testing.T, a *App, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func TestBridge_Health(t *testing.T) {
	a := newTestApp(t)

	status, env := call(t, a, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", env.Message)

	status, _ = call(t, a, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
}

func TestBridge_JobsRequireSession(t *testing.T) {
	a := newTestApp(t)

	status, env := call(t, a, http.MethodGet, "/api/v1/jobs", "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Unauthorized", env.Message)

	status, _ = call(t, a, http.MethodGet, "/api/v1/session", "")
	require.Equal(t, http.StatusOK, status)
}

func TestBridge_LoginFailureReportsServerMessage(t *testing.T) {
	a := newTestApp(t)

	status, env := call(t, a, http.MethodPost, "/api/v1/session/login", `{"email":"u@x.com","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid credentials", env.Message)

	st := a.Container.Session.State()
	require.False(t, st.Authenticated)
	require.False(t, st.Loading)
	require.Equal(t, "Invalid credentials", st.Error)
}

func TestBridge_LoginRejectsMalformedEmail(t *testing.T) {
	a := newTestApp(t)

	status, _ := call(t, a, http.MethodPost, "/api/v1/session/login", `{"email":"not-an-email","password":"secret"}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestBridge_JobLifecycle(t *testing.T) {
	a := newTestApp(t)

	status, _ := call(t, a, http.MethodPost, "/api/v1/session/register", `{"email":"u@x.com","password":"secret"}`)
	require.Equal(t, http.StatusCreated, status)
	require.False(t, a.Container.Session.IsAuthenticated())

	status, _ = call(t, a, http.MethodPost, "/api/v1/session/login", `{"email":"u@x.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, status)
	require.True(t, a.Container.Session.IsAuthenticated())

	status, env := call(t, a, http.MethodPost, "/api/v1/jobs/refresh", "")
	require.Equal(t, http.StatusOK, status)
	var st struct {
		Jobs   []job.Job `json:"jobs"`
		Status string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &st))
	require.Equal(t, "succeeded", st.Status)
	require.Len(t, st.Jobs, 1)

	status, env = call(t, a, http.MethodPost, "/api/v1/jobs", `{"jobTitle":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "Invalid job", env.Message)

	d := job.NewDraft()
	d.Title, d.Company, d.Coordinator = "Engineer", "Acme", "Kim"
	d.Level, d.Shift, d.Location, d.JobType = "Senior", "Day", "Remote", "Full-time"
	d.Overview, d.Responsibilities, d.Requirements = "<p>Build</p>", "<ul><li>Ship</li></ul>", "<p>Go</p>"
	body, err := json.Marshal(d)
	require.NoError(t, err)

	status, _ = call(t, a, http.MethodPut, "/api/v1/modals/create", `{"visible":true}`)
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, a, http.MethodPost, "/api/v1/jobs", string(body))
	require.Equal(t, http.StatusCreated, status)
	var created job.Job
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "n1", created.ID)
	require.Len(t, a.Container.Jobs.State().Jobs, 2)
	require.False(t, a.Container.Jobs.State().Modals.Create)

	status, env = call(t, a, http.MethodGet, "/api/v1/jobs/groups", "")
	require.Equal(t, http.StatusOK, status)
	var groups []struct {
		Department job.Department `json:"department"`
		Jobs       []struct {
			ID       string `json:"id"`
			Overview string `json:"overview"`
		} `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Len(t, groups, 2)
	require.Equal(t, "Management", groups[0].Department.Name)
	require.Equal(t, "Build", groups[1].Jobs[0].Overview)

	status, _ = call(t, a, http.MethodPost, "/api/v1/jobs/missing/select", "")
	require.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, a, http.MethodPost, "/api/v1/jobs/n1/select", "")
	require.Equal(t, http.StatusOK, status)
	require.True(t, a.Container.Jobs.State().Modals.Details)

	status, _ = call(t, a, http.MethodDelete, "/api/v1/jobs/n1", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, a.Container.Jobs.State().Jobs, 1)
	require.Nil(t, a.Container.Jobs.State().Selected)

	status, _ = call(t, a, http.MethodPut, "/api/v1/modals/sidebar", `{"visible":true}`)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, a, http.MethodPost, "/api/v1/session/logout", "")
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, a, http.MethodGet, "/api/v1/jobs", "")
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	require.Equal(t, ":8080", addr)

	addr, err = ListenAddr(":9000")
	require.NoError(t, err)
	require.Equal(t, ":9000", addr)

	_, err = ListenAddr(" ")
	require.Error(t, err)
}
