package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"jobboard-admin/internal/domain/job"
	"jobboard-admin/internal/infrastructure/apiclient"
	"jobboard-admin/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func dept(id int) job.Department {
	d, _ := job.DepartmentByID(id)
	return d
}

// fakeAPI is an in-memory remote that assigns ids like the server does.
type fakeAPI struct {
	mu     sync.Mutex
	jobs   []job.Job
	nextID int
	err    error
}

func (f *fakeAPI) ListJobs(context.Context) ([]job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]job.Job{}, f.jobs...), nil
}

func (f *fakeAPI) CreateJob(_ context.Context, d job.Draft) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return job.Job{}, f.err
	}
	f.nextID++
	j := job.Job{ID: "n" + strconv.Itoa(f.nextID), Title: d.Title, Department: d.Department, Vacancies: d.Vacancies}
	f.jobs = append(f.jobs, j)
	return j, nil
}

func (f *fakeAPI) UpdateJob(_ context.Context, id string, d job.Draft) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return job.Job{}, f.err
	}
	j := job.Job{ID: id, Title: d.Title, Department: d.Department, Vacancies: d.Vacancies}
	if i := job.IndexByID(f.jobs, id); i >= 0 {
		f.jobs[i] = j
	}
	return j, nil
}

func (f *fakeAPI) DeleteJob(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if i := job.IndexByID(f.jobs, id); i >= 0 {
		f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
	}
	return nil
}

func seeded(t *testing.T, api *fakeAPI, jobs ...job.Job) *Store {
	t.Helper()
	api.jobs = jobs
	s := New(api, quiet())
	require.NoError(t, s.FetchAll(context.Background()))
	return s
}

func TestInitialState(t *testing.T) {
	st := New(&fakeAPI{}, quiet()).State()
	require.Equal(t, StatusIdle, st.Status)
	require.NotNil(t, st.Jobs)
	require.Empty(t, st.Jobs)
	require.Nil(t, st.Selected)
	require.Equal(t, Modals{}, st.Modals)
}

func TestFetchAll(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api, job.Job{ID: "a"}, job.Job{ID: "b"})

	st := s.State()
	require.Equal(t, StatusSucceeded, st.Status)
	require.Len(t, st.Jobs, 2)
	require.Empty(t, st.Error)
}

func TestFetchAll_FailureKeepsStaleJobs(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api, job.Job{ID: "a"})

	api.err = &apiclient.Error{StatusCode: 500, Message: "db down"}
	require.Error(t, s.FetchAll(context.Background()))

	st := s.State()
	require.Equal(t, StatusFailed, st.Status)
	require.Equal(t, "db down", st.Error)
	require.Len(t, st.Jobs, 1)
}

func TestFetchAll_FallbackMessage(t *testing.T) {
	api := &fakeAPI{err: &apiclient.Error{StatusCode: 500}}
	s := New(api, quiet())

	require.Error(t, s.FetchAll(context.Background()))
	require.Equal(t, FallbackMessage, s.State().Error)
}

func TestCreateThenFetch(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)

	created, err := s.Create(context.Background(), job.Draft{Title: "Engineer", Vacancies: 1, Department: dept(4)})
	require.NoError(t, err)
	require.NoError(t, s.FetchAll(context.Background()))

	require.GreaterOrEqual(t, job.IndexByID(s.State().Jobs, created.ID), 0)
}

func TestCreate_AppendsServerEntityAndClosesModal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "n1", "jobTitle": "Engineer", "vacancies": 2})
	}))
	t.Cleanup(srv.Close)

	s := New(apiclient.New(srv.URL, 0, nil, quiet()), quiet())
	_, err := s.SetModal(ModalCreate, true)
	require.NoError(t, err)
	before := len(s.State().Jobs)

	_, err = s.Create(context.Background(), job.Draft{Title: "Engineer", Vacancies: 2})
	require.NoError(t, err)

	st := s.State()
	require.Len(t, st.Jobs, before+1)
	require.Equal(t, "n1", st.Jobs[len(st.Jobs)-1].ID)
	require.False(t, st.Modals.Create)
}

func TestCreate_FailureKeepsModalOpen(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)
	_, err := s.SetModal(ModalCreate, true)
	require.NoError(t, err)

	api.err = &apiclient.Error{StatusCode: 400, Message: "title taken"}
	_, err = s.Create(context.Background(), job.Draft{Title: "x"})
	require.Error(t, err)

	st := s.State()
	require.True(t, st.Modals.Create)
	require.Equal(t, "title taken", st.MutationErrors.Create)
	require.Empty(t, st.Jobs)
	require.Equal(t, StatusSucceeded, st.Status)

	api.err = nil
	_, err = s.Create(context.Background(), job.Draft{Title: "x"})
	require.NoError(t, err)
	require.Empty(t, s.State().MutationErrors.Create)
}

func TestUpdate_ReplacesMatchingEntry(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api, job.Job{ID: "a", Title: "old"}, job.Job{ID: "b"})
	s.Select(&job.Job{ID: "a", Title: "old"})
	_, err := s.SetModal(ModalEdit, true)
	require.NoError(t, err)

	_, err = s.Update(context.Background(), "a", job.Draft{Title: "new"})
	require.NoError(t, err)

	st := s.State()
	require.Equal(t, "new", st.Jobs[0].Title)
	require.Equal(t, "b", st.Jobs[1].ID)
	require.Equal(t, "new", st.Selected.Title)
	require.False(t, st.Modals.Edit)
}

func TestUpdate_AbsentIDLeavesCollectionUnchanged(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api, job.Job{ID: "a"}, job.Job{ID: "b"})
	before := s.State().Jobs

	_, err := s.Update(context.Background(), "zzz", job.Draft{Title: "ghost"})
	require.NoError(t, err)
	require.Equal(t, before, s.State().Jobs)
}

func TestUpdate_Failure(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api, job.Job{ID: "a"})
	api.err = errors.New("connection refused")

	_, err := s.Update(context.Background(), "a", job.Draft{})
	require.Error(t, err)
	require.Equal(t, "connection refused", s.State().MutationErrors.Update)
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api, job.Job{ID: "a"}, job.Job{ID: "b"}, job.Job{ID: "c"})
	s.Select(&job.Job{ID: "b"})
	require.True(t, s.State().Modals.Details)

	require.NoError(t, s.Delete(context.Background(), "b"))

	st := s.State()
	require.Len(t, st.Jobs, 2)
	require.Equal(t, "a", st.Jobs[0].ID)
	require.Equal(t, "c", st.Jobs[1].ID)
	require.Nil(t, st.Selected)
	require.False(t, st.Modals.Details)
}

func TestDelete_AbsentIDLeavesCollectionUnchanged(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api, job.Job{ID: "a"})

	require.NoError(t, s.Delete(context.Background(), "nope"))
	require.Len(t, s.State().Jobs, 1)
}

func TestDelete_Failure(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api, job.Job{ID: "a"})
	api.err = &apiclient.Error{StatusCode: 403, Message: "Forbidden"}

	require.Error(t, s.Delete(context.Background(), "a"))
	st := s.State()
	require.Equal(t, "Forbidden", st.MutationErrors.Delete)
	require.Len(t, st.Jobs, 1)
}

func TestSelect(t *testing.T) {
	s := New(&fakeAPI{}, quiet())

	j := &job.Job{ID: "a", Title: "t"}
	st := s.Select(j)
	require.True(t, st.Modals.Details)
	j.Title = "changed"
	require.Equal(t, "t", s.State().Selected.Title)

	_, err := s.SetModal(ModalDetails, false)
	require.NoError(t, err)
	st = s.Select(nil)
	require.Nil(t, st.Selected)
	require.False(t, st.Modals.Details)
}

func TestSelectByID(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api, job.Job{ID: "a"})

	_, ok := s.SelectByID("missing")
	require.False(t, ok)
	st, ok := s.SelectByID("a")
	require.True(t, ok)
	require.Equal(t, "a", st.Selected.ID)
}

func TestModalsAreIndependent(t *testing.T) {
	s := New(&fakeAPI{}, quiet())
	_, err := s.SetModal(ModalCreate, true)
	require.NoError(t, err)
	st, err := s.SetModal(ModalEdit, true)
	require.NoError(t, err)
	require.Equal(t, Modals{Create: true, Edit: true}, st.Modals)

	_, err = s.SetModal(Modal("sidebar"), true)
	require.ErrorIs(t, err, ErrUnknownModal)
}

func TestParseModal(t *testing.T) {
	m, err := ParseModal(" Edit ")
	require.NoError(t, err)
	require.Equal(t, ModalEdit, m)

	_, err = ParseModal("sidebar")
	require.ErrorIs(t, err, ErrUnknownModal)
}

// blockingAPI lets a test decide when each ListJobs call returns.
type blockingAPI struct {
	fakeAPI
	calls chan chan []job.Job
}

func (b *blockingAPI) ListJobs(ctx context.Context) ([]job.Job, error) {
	reply := make(chan []job.Job)
	b.calls <- reply
	return <-reply, nil
}

func TestFetchAll_StaleCompletionIgnored(t *testing.T) {
	api := &blockingAPI{calls: make(chan chan []job.Job)}
	s := New(api, quiet())

	first := make(chan error, 1)
	go func() { first <- s.FetchAll(context.Background()) }()
	firstReply := <-api.calls

	second := make(chan error, 1)
	go func() { second <- s.FetchAll(context.Background()) }()
	secondReply := <-api.calls

	secondReply <- []job.Job{{ID: "new"}}
	require.NoError(t, <-second)

	firstReply <- []job.Job{{ID: "old"}}
	require.ErrorIs(t, <-first, store.ErrSuperseded)

	st := s.State()
	require.Equal(t, StatusSucceeded, st.Status)
	require.Len(t, st.Jobs, 1)
	require.Equal(t, "new", st.Jobs[0].ID)
}

type updateReply struct {
	job job.Job
	err error
}

// gatedUpdateAPI lets a test decide when, and with what, each UpdateJob returns.
type gatedUpdateAPI struct {
	fakeAPI
	calls chan chan updateReply
}

func (g *gatedUpdateAPI) UpdateJob(ctx context.Context, id string, d job.Draft) (job.Job, error) {
	reply := make(chan updateReply)
	g.calls <- reply
	r := <-reply
	return r.job, r.err
}

func seededGated(t *testing.T, jobs ...job.Job) (*Store, *gatedUpdateAPI) {
	t.Helper()
	api := &gatedUpdateAPI{calls: make(chan chan updateReply)}
	api.jobs = jobs
	s := New(api, quiet())
	require.NoError(t, s.FetchAll(context.Background()))
	return s, api
}

func startUpdate(s *Store, api *gatedUpdateAPI, id, title string) (chan updateReply, <-chan error) {
	done := make(chan error, 1)
	go func() {
		_, err := s.Update(context.Background(), id, job.Draft{Title: title})
		done <- err
	}()
	return <-api.calls, done
}

func TestUpdate_StaleCompletionForSameIDIgnored(t *testing.T) {
	s, api := seededGated(t, job.Job{ID: "a", Title: "v0"}, job.Job{ID: "b", Title: "b0"})
	_, ok := s.SelectByID("a")
	require.True(t, ok)

	firstReply, first := startUpdate(s, api, "a", "v1")
	secondReply, second := startUpdate(s, api, "a", "v2")

	secondReply <- updateReply{job: job.Job{ID: "a", Title: "v2"}}
	require.NoError(t, <-second)

	firstReply <- updateReply{job: job.Job{ID: "a", Title: "v1"}}
	require.ErrorIs(t, <-first, store.ErrSuperseded)

	st := s.State()
	require.Equal(t, "v2", st.Jobs[job.IndexByID(st.Jobs, "a")].Title)
	require.Equal(t, "v2", st.Selected.Title)

	// a stale failure must not surface either
	thirdReply, third := startUpdate(s, api, "a", "v3")
	fourthReply, fourth := startUpdate(s, api, "a", "v4")
	fourthReply <- updateReply{job: job.Job{ID: "a", Title: "v4"}}
	require.NoError(t, <-fourth)
	thirdReply <- updateReply{err: &apiclient.Error{StatusCode: 500, Message: "db down"}}
	require.ErrorIs(t, <-third, store.ErrSuperseded)

	st = s.State()
	require.Empty(t, st.MutationErrors.Update)
	require.Equal(t, "v4", st.Jobs[job.IndexByID(st.Jobs, "a")].Title)
}

func TestUpdate_FencesAreScopedPerID(t *testing.T) {
	s, api := seededGated(t, job.Job{ID: "a", Title: "a0"}, job.Job{ID: "b", Title: "b0"})

	aReply, aDone := startUpdate(s, api, "a", "a1")
	bReply, bDone := startUpdate(s, api, "b", "b1")

	bReply <- updateReply{job: job.Job{ID: "b", Title: "b1"}}
	require.NoError(t, <-bDone)
	aReply <- updateReply{job: job.Job{ID: "a", Title: "a1"}}
	require.NoError(t, <-aDone)

	st := s.State()
	require.Equal(t, "a1", st.Jobs[0].Title)
	require.Equal(t, "b1", st.Jobs[1].Title)
}

func TestUpdate_LateCompletionAfterDeleteIsNoOp(t *testing.T) {
	s, api := seededGated(t, job.Job{ID: "a", Title: "a0"}, job.Job{ID: "b", Title: "b0"})

	reply, done := startUpdate(s, api, "a", "a1")
	require.NoError(t, s.Delete(context.Background(), "a"))
	require.NotContains(t, s.State().fence, updateKey("a"))

	reply <- updateReply{job: job.Job{ID: "a", Title: "a1"}}
	require.NoError(t, <-done)

	st := s.State()
	require.Len(t, st.Jobs, 1)
	require.Equal(t, "b", st.Jobs[0].ID)
	require.Nil(t, st.Selected)
}

func TestGroups(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api,
		job.Job{ID: "a", Department: job.Department{ID: 4, Name: "X"}},
		job.Job{ID: "b", Department: job.Department{ID: 5, Name: "Y"}},
		job.Job{ID: "c", Department: job.Department{ID: 4, Name: "X"}},
	)

	groups := s.Groups()
	require.Len(t, groups, 2)
	require.Equal(t, 4, groups[0].Department.ID)
	require.Equal(t, []string{"a", "c"}, []string{groups[0].Jobs[0].ID, groups[0].Jobs[1].ID})
	require.Equal(t, "b", groups[1].Jobs[0].ID)
}
