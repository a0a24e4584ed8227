package jobs

import (
	"errors"
	"fmt"
	"strings"

	"jobboard-admin/internal/domain/job"
	"jobboard-admin/internal/store"
)

const fetchKey = "fetch"

// FallbackMessage is shown when a failed request carries no message.
const FallbackMessage = "Something went wrong"

var ErrUnknownModal = errors.New("unknown modal")

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Modal string

const (
	ModalDetails Modal = "details"
	ModalCreate  Modal = "create"
	ModalEdit    Modal = "edit"
)

func ParseModal(s string) (Modal, error) {
	switch m := Modal(strings.ToLower(strings.TrimSpace(s))); m {
	case ModalDetails, ModalCreate, ModalEdit:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModal, s)
}

type Modals struct {
	Details bool `json:"details"`
	Create  bool `json:"create"`
	Edit    bool `json:"edit"`
}

// MutationErrors holds the last failure of each mutation kind. Each is cleared
// by the next attempt of the same kind.
type MutationErrors struct {
	Create string `json:"create,omitempty"`
	Update string `json:"update,omitempty"`
	Delete string `json:"delete,omitempty"`
}

type State struct {
	Jobs           []job.Job      `json:"jobs"`
	Status         Status         `json:"status"`
	Error          string         `json:"error,omitempty"`
	Selected       *job.Job       `json:"selected,omitempty"`
	Modals         Modals         `json:"modals"`
	MutationErrors MutationErrors `json:"mutationErrors"`

	fence store.Fence
}

func initialState() State {
	return State{Jobs: []job.Job{}, Status: StatusIdle}
}

func (s State) Clone() State {
	out := s
	out.Jobs = append(make([]job.Job, 0, len(s.Jobs)), s.Jobs...)
	out.Selected = s.Selected.Clone()
	return out
}

func updateKey(id string) string { return "update:" + id }

type (
	fetchPending   struct{ seq uint64 }
	fetchFulfilled struct {
		seq  uint64
		jobs []job.Job
	}
	fetchRejected struct {
		seq     uint64
		message string
	}

	createPending   struct{}
	createFulfilled struct{ job job.Job }
	createRejected  struct{ message string }

	updatePending struct {
		seq uint64
		id  string
	}
	updateFulfilled struct {
		seq uint64
		id  string
		job job.Job
	}
	updateRejected struct {
		seq     uint64
		id      string
		message string
	}

	deletePending   struct{}
	deleteFulfilled struct{ id string }
	deleteRejected  struct{ message string }

	selectJob struct{ job *job.Job }
	setModal  struct {
		modal   Modal
		visible bool
	}
)

func (fetchPending) ActionType() string    { return "jobs/fetchAll/pending" }
func (fetchFulfilled) ActionType() string  { return "jobs/fetchAll/fulfilled" }
func (fetchRejected) ActionType() string   { return "jobs/fetchAll/rejected" }
func (createPending) ActionType() string   { return "jobs/create/pending" }
func (createFulfilled) ActionType() string { return "jobs/create/fulfilled" }
func (createRejected) ActionType() string  { return "jobs/create/rejected" }
func (updatePending) ActionType() string   { return "jobs/update/pending" }
func (updateFulfilled) ActionType() string { return "jobs/update/fulfilled" }
func (updateRejected) ActionType() string  { return "jobs/update/rejected" }
func (deletePending) ActionType() string   { return "jobs/delete/pending" }
func (deleteFulfilled) ActionType() string { return "jobs/delete/fulfilled" }
func (deleteRejected) ActionType() string  { return "jobs/delete/rejected" }
func (selectJob) ActionType() string       { return "jobs/select" }
func (setModal) ActionType() string        { return "jobs/setModal" }

// Reduce never edits the slice it receives; every change to Jobs builds a new one.
func Reduce(s State, a store.Action) (State, bool) {
	switch a := a.(type) {
	case fetchPending:
		s.fence = s.fence.Issue(fetchKey, a.seq)
		s.Status = StatusLoading
	case fetchFulfilled:
		if !s.fence.Current(fetchKey, a.seq) {
			return s, false
		}
		s.Status = StatusSucceeded
		s.Jobs = append(make([]job.Job, 0, len(a.jobs)), a.jobs...)
		s.Error = ""
	case fetchRejected:
		if !s.fence.Current(fetchKey, a.seq) {
			return s, false
		}
		s.Status = StatusFailed
		s.Error = a.message

	case createPending:
		s.MutationErrors.Create = ""
	case createFulfilled:
		jobs := make([]job.Job, 0, len(s.Jobs)+1)
		s.Jobs = append(append(jobs, s.Jobs...), a.job)
		s.Modals.Create = false
		s.MutationErrors.Create = ""
	case createRejected:
		s.MutationErrors.Create = a.message

	case updatePending:
		s.fence = s.fence.Issue(updateKey(a.id), a.seq)
		s.MutationErrors.Update = ""
	case updateFulfilled:
		if !s.fence.Current(updateKey(a.id), a.seq) {
			return s, false
		}
		if i := job.IndexByID(s.Jobs, a.job.ID); i >= 0 {
			jobs := append(make([]job.Job, 0, len(s.Jobs)), s.Jobs...)
			jobs[i] = a.job
			s.Jobs = jobs
		}
		if s.Selected != nil && s.Selected.ID == a.job.ID {
			s.Selected = a.job.Clone()
		}
		s.Modals.Edit = false
		s.MutationErrors.Update = ""
	case updateRejected:
		if !s.fence.Current(updateKey(a.id), a.seq) {
			return s, false
		}
		s.MutationErrors.Update = a.message

	case deletePending:
		s.MutationErrors.Delete = ""
	case deleteFulfilled:
		if i := job.IndexByID(s.Jobs, a.id); i >= 0 {
			jobs := make([]job.Job, 0, len(s.Jobs)-1)
			jobs = append(jobs, s.Jobs[:i]...)
			s.Jobs = append(jobs, s.Jobs[i+1:]...)
		}
		if s.Selected != nil && s.Selected.ID == a.id {
			s.Selected = nil
		}
		s.fence = s.fence.Forget(updateKey(a.id))
		s.Modals.Details = false
		s.MutationErrors.Delete = ""
	case deleteRejected:
		s.MutationErrors.Delete = a.message

	case selectJob:
		s.Selected = a.job.Clone()
		if a.job != nil {
			s.Modals.Details = true
		}
	case setModal:
		switch a.modal {
		case ModalDetails:
			s.Modals.Details = a.visible
		case ModalCreate:
			s.Modals.Create = a.visible
		case ModalEdit:
			s.Modals.Edit = a.visible
		default:
			return s, false
		}

	default:
		return s, false
	}
	return s, true
}
