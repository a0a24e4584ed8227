// Package jobs keeps the job collection in sync with the remote API and holds
// the view state around it: selection, modal flags and request errors.
package jobs

import (
	"context"
	"fmt"
	"strings"

	"jobboard-admin/internal/domain/job"
	"jobboard-admin/internal/infrastructure/apiclient"
	"jobboard-admin/internal/store"

	"github.com/sirupsen/logrus"
)

// API is the slice of the remote API the job store needs.
type API interface {
	ListJobs(ctx context.Context) ([]job.Job, error)
	CreateJob(ctx context.Context, d job.Draft) (job.Job, error)
	UpdateJob(ctx context.Context, id string, d job.Draft) (job.Job, error)
	DeleteJob(ctx context.Context, id string) error
}

type Store struct {
	*store.Store[State]

	api    API
	logger *logrus.Logger
}

func New(api API, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		Store:  store.New("jobs", initialState(), Reduce, logger),
		api:    api,
		logger: logger,
	}
}

func failureMessage(err error) string {
	if msg := strings.TrimSpace(apiclient.Message(err)); msg != "" {
		return msg
	}
	return FallbackMessage
}

// FetchAll replaces the collection with the server's. Only the most recently
// started fetch settles the state; older completions return store.ErrSuperseded.
func (s *Store) FetchAll(ctx context.Context) error {
	seq := s.NextSeq()
	s.Dispatch(fetchPending{seq: seq})

	list, err := s.api.ListJobs(ctx)
	if err != nil {
		if _, applied := s.Dispatch(fetchRejected{seq: seq, message: failureMessage(err)}); !applied {
			return store.ErrSuperseded
		}
		s.logger.WithError(err).Warn("[Jobs] fetch failed")
		return fmt.Errorf("fetch jobs: %w", err)
	}
	if _, applied := s.Dispatch(fetchFulfilled{seq: seq, jobs: list}); !applied {
		return store.ErrSuperseded
	}
	s.logger.WithField("count", len(list)).Debug("[Jobs] fetched")
	return nil
}

func (s *Store) Create(ctx context.Context, d job.Draft) (job.Job, error) {
	s.Dispatch(createPending{})

	created, err := s.api.CreateJob(ctx, d)
	if err != nil {
		s.Dispatch(createRejected{message: failureMessage(err)})
		s.logger.WithError(err).Warn("[Jobs] create failed")
		return job.Job{}, fmt.Errorf("create job: %w", err)
	}
	s.Dispatch(createFulfilled{job: created})
	s.logger.WithField("job_id", created.ID).Info("[Jobs] created")
	return created, nil
}

// Update replaces the entry whose id matches the server's answer. A job that is
// no longer in the collection is not re-added.
func (s *Store) Update(ctx context.Context, id string, d job.Draft) (job.Job, error) {
	seq := s.NextSeq()
	s.Dispatch(updatePending{seq: seq, id: id})

	updated, err := s.api.UpdateJob(ctx, id, d)
	if err != nil {
		if _, applied := s.Dispatch(updateRejected{seq: seq, id: id, message: failureMessage(err)}); !applied {
			return job.Job{}, store.ErrSuperseded
		}
		s.logger.WithError(err).WithField("job_id", id).Warn("[Jobs] update failed")
		return job.Job{}, fmt.Errorf("update job %s: %w", id, err)
	}
	if _, applied := s.Dispatch(updateFulfilled{seq: seq, id: id, job: updated}); !applied {
		return job.Job{}, store.ErrSuperseded
	}
	s.logger.WithField("job_id", updated.ID).Info("[Jobs] updated")
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.Dispatch(deletePending{})

	if err := s.api.DeleteJob(ctx, id); err != nil {
		s.Dispatch(deleteRejected{message: failureMessage(err)})
		s.logger.WithError(err).WithField("job_id", id).Warn("[Jobs] delete failed")
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	s.Dispatch(deleteFulfilled{id: id})
	s.logger.WithField("job_id", id).Info("[Jobs] deleted")
	return nil
}

// Select stores a copy of j and opens the details modal. Select(nil) only
// clears the selection.
func (s *Store) Select(j *job.Job) State {
	st, _ := s.Dispatch(selectJob{job: j.Clone()})
	return st
}

// SelectByID selects the collection entry with id.
func (s *Store) SelectByID(id string) (State, bool) {
	st := s.State()
	i := job.IndexByID(st.Jobs, id)
	if i < 0 {
		return st, false
	}
	return s.Select(&st.Jobs[i]), true
}

func (s *Store) SetModal(m Modal, visible bool) (State, error) {
	st, applied := s.Dispatch(setModal{modal: m, visible: visible})
	if !applied {
		return st, fmt.Errorf("%w: %q", ErrUnknownModal, m)
	}
	return st, nil
}

// Groups partitions the current collection by department.
func (s *Store) Groups() []job.DepartmentGroup {
	return job.GroupByDepartment(s.State().Jobs)
}
