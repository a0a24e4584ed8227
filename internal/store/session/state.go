package session

import "jobboard-admin/internal/store"

const authKey = "auth"

// MessageExpired is recorded when the server rejects the stored token.
const MessageExpired = "session expired"

type State struct {
	Authenticated bool   `json:"authenticated"`
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`

	fence store.Fence
}

func (s State) Clone() State { return s }

type (
	loginPending   struct{ seq uint64 }
	loginFulfilled struct{ seq uint64 }
	loginRejected  struct {
		seq     uint64
		message string
	}

	registerPending   struct{ seq uint64 }
	registerFulfilled struct{ seq uint64 }
	registerRejected  struct {
		seq     uint64
		message string
	}

	initializePending  struct{ seq uint64 }
	initializeResolved struct {
		seq           uint64
		authenticated bool
		message       string
	}

	loggedOut struct{ seq uint64 }
	expired   struct{}
)

func (loginPending) ActionType() string       { return "auth/login/pending" }
func (loginFulfilled) ActionType() string     { return "auth/login/fulfilled" }
func (loginRejected) ActionType() string      { return "auth/login/rejected" }
func (registerPending) ActionType() string    { return "auth/register/pending" }
func (registerFulfilled) ActionType() string  { return "auth/register/fulfilled" }
func (registerRejected) ActionType() string   { return "auth/register/rejected" }
func (initializePending) ActionType() string  { return "auth/initialize/pending" }
func (initializeResolved) ActionType() string { return "auth/initialize/fulfilled" }
func (loggedOut) ActionType() string          { return "auth/logout" }
func (expired) ActionType() string            { return "auth/expired" }

// Reduce is the session transition function. login, register and initialize
// share one fence, so only the newest identity request settles the state.
func Reduce(s State, a store.Action) (State, bool) {
	switch a := a.(type) {
	case loginPending:
		s.fence = s.fence.Issue(authKey, a.seq)
		s.Loading = true
		s.Error = ""
	case loginFulfilled:
		if !s.fence.Current(authKey, a.seq) {
			return s, false
		}
		s.Authenticated = true
		s.Loading = false
	case loginRejected:
		if !s.fence.Current(authKey, a.seq) {
			return s, false
		}
		s.Loading = false
		s.Error = a.message

	case registerPending:
		s.fence = s.fence.Issue(authKey, a.seq)
		s.Loading = true
		s.Error = ""
	case registerFulfilled:
		if !s.fence.Current(authKey, a.seq) {
			return s, false
		}
		s.Loading = false
	case registerRejected:
		if !s.fence.Current(authKey, a.seq) {
			return s, false
		}
		s.Loading = false
		s.Error = a.message

	case initializePending:
		s.fence = s.fence.Issue(authKey, a.seq)
		s.Loading = true
	case initializeResolved:
		if !s.fence.Current(authKey, a.seq) {
			return s, false
		}
		s.Authenticated = a.authenticated
		s.Loading = false
		if a.message != "" {
			s.Error = a.message
		}

	case loggedOut:
		s.fence = s.fence.Issue(authKey, a.seq)
		s.Authenticated = false
		s.Loading = false
	case expired:
		s.Authenticated = false
		s.Error = MessageExpired

	default:
		return s, false
	}
	return s, true
}
